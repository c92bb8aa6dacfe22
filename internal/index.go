package internal

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Record is one indexed segment together with its vector. Records are owned
// by their Collection and never shared.
type Record struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Chunk     int       `json:"chunk"` // 1-based sequence number
	Text      string    `json:"text"`
	Embedding []float64 `json:"embedding"`
}

// Collection is the persisted vector index: an ordered sequence of records
// plus the metadata describing how they were produced. A collection is
// populated in one batch, persisted, and treated as immutable; re-indexing
// replaces it wholesale. All records must come from the same embedding
// model, otherwise similarity ranking is meaningless.
type Collection struct {
	CreatedAt    time.Time `json:"createdAt"`
	Source       string    `json:"source"`
	EmbedModel   string    `json:"embedModel"`
	ChunkSize    int       `json:"chunkSize"`
	ChunkOverlap int       `json:"chunkOverlap"`
	Count        int       `json:"count"`
	Items        []Record  `json:"items"`
}

// Match is a transient ranking result, never persisted.
type Match struct {
	Record Record
	Score  float64
}

func NewCollection(source, embedModel string, chunkSize, chunkOverlap int, items []Record) (*Collection, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCollection
	}

	return &Collection{
		CreatedAt:    time.Now().UTC(),
		Source:       source,
		EmbedModel:   embedModel,
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
		Count:        len(items),
		Items:        items,
	}, nil
}

// Rank scores every record against query and returns up to k matches in
// descending score order. Equal scores break by ascending chunk sequence so
// results stay deterministic. A record that shares no dimensions with the
// query at all is an error; shorter-vs-longer vectors compare over the
// shorter length.
func (c *Collection) Rank(query []float64, k int) ([]Match, error) {
	matches := make([]Match, 0, len(c.Items))

	for _, rec := range c.Items {
		if len(query) == 0 || len(rec.Embedding) == 0 {
			return nil, fmt.Errorf("%w: query has %d dimensions, record %s has %d",
				ErrNoCommonDimensions, len(query), rec.ID, len(rec.Embedding))
		}
		matches = append(matches, Match{Record: rec, Score: Cosine(query, rec.Embedding)})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Record.Chunk < matches[j].Record.Chunk
	})

	if k <= 0 || k > len(matches) {
		k = len(matches)
	}
	return matches[:k], nil
}

// Encode serializes the collection to its durable JSON representation.
func (c *Collection) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode collection: %w", err)
	}
	return data, nil
}

// DecodeCollection parses and validates a persisted collection. Malformed
// bytes, missing required fields, and metadata that disagrees with the
// records all surface as ErrCorruptIndex.
func DecodeCollection(data []byte) (*Collection, error) {
	var col Collection
	if err := json.Unmarshal(data, &col); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptIndex, err)
	}

	if err := col.validate(); err != nil {
		return nil, err
	}
	return &col, nil
}

func (c *Collection) validate() error {
	if c.EmbedModel == "" {
		return fmt.Errorf("%w: missing embedModel", ErrCorruptIndex)
	}
	if c.Items == nil {
		return fmt.Errorf("%w: missing items", ErrCorruptIndex)
	}
	if c.Count != len(c.Items) {
		return fmt.Errorf("%w: count %d does not match %d items", ErrCorruptIndex, c.Count, len(c.Items))
	}
	for i, rec := range c.Items {
		if rec.ID == "" {
			return fmt.Errorf("%w: item %d has no id", ErrCorruptIndex, i)
		}
		if len(rec.Embedding) == 0 {
			return fmt.Errorf("%w: item %s has no embedding", ErrCorruptIndex, rec.ID)
		}
	}
	return nil
}
