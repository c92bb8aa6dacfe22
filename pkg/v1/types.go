package v1

import "time"

// IndexResult summarizes one index build.
type IndexResult struct {
	Source string `json:"source"`
	Chunks int    `json:"chunks"`
	Model  string `json:"model"`
	Commit string `json:"commit,omitempty"`
}

// Match is one retrieved chunk reference with its similarity score.
type Match struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// Answer is a generated answer plus the chunks it was grounded in.
type Answer struct {
	Text    string  `json:"text"`
	Matches []Match `json:"matches"`
}

// SearchResult is a retrieved chunk with its text.
type SearchResult struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
	Text  string  `json:"text"`
}

// Status describes the current index.
type Status struct {
	Indexed      bool      `json:"indexed"`
	Source       string    `json:"source"`
	EmbedModel   string    `json:"embedModel"`
	ChunkSize    int       `json:"chunkSize"`
	ChunkOverlap int       `json:"chunkOverlap"`
	Count        int       `json:"count"`
	CreatedAt    time.Time `json:"createdAt"`
}
