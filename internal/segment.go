package internal

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 50
)

var (
	horizontalWS = regexp.MustCompile(`[ \t]+`)
	blankRuns    = regexp.MustCompile(`\n{3,}`)
)

// Segment is a bounded slice of normalized source text, the unit of
// retrieval. Immutable once created.
type Segment struct {
	ID     string
	Source string
	Seq    int // 1-based position within the source
	Text   string
}

func SegmentID(source string, seq int) string {
	return fmt.Sprintf("%s::chunk_%d", source, seq)
}

// Normalize prepares raw text for segmentation: carriage returns are
// stripped, runs of horizontal whitespace collapse to a single space, three
// or more consecutive line breaks collapse to two, and the result is
// trimmed. Segmentation offsets refer to this normalized form.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r", "")
	text = horizontalWS.ReplaceAllString(text, " ")
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// SegmentText splits text into overlapping fixed-size windows. Window size
// and overlap are measured in characters, not bytes, so multibyte text never
// splits mid-rune. Each window is trimmed before emission and empty windows
// are skipped. The cursor advances by at least one character per iteration,
// so any overlap value terminates. Empty or whitespace-only input yields no
// segments.
func SegmentText(text, source string, window, overlap int) []Segment {
	if window <= 0 {
		return nil
	}
	if overlap < 0 {
		overlap = 0
	}

	norm := []rune(Normalize(text))
	if len(norm) == 0 {
		return nil
	}

	var segments []Segment
	seq := 0

	for cursor := 0; cursor < len(norm); {
		end := cursor + window
		if end > len(norm) {
			end = len(norm)
		}

		piece := strings.TrimSpace(string(norm[cursor:end]))
		if piece != "" {
			seq++
			segments = append(segments, Segment{
				ID:     SegmentID(source, seq),
				Source: source,
				Seq:    seq,
				Text:   piece,
			})
		}

		if end == len(norm) {
			break
		}

		next := end - overlap
		if next < 0 {
			next = 0
		}
		if next <= cursor {
			next = cursor + 1
		}
		cursor = next
	}

	return segments
}
