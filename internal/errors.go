package internal

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyText          = errors.New("document text is empty")
	ErrEmptyQuestion      = errors.New("question is empty")
	ErrIndexNotFound      = errors.New("no index found")
	ErrEmptyCollection    = errors.New("collection has no records")
	ErrNoCommonDimensions = errors.New("vectors share no comparable dimensions")
	ErrCorruptIndex       = errors.New("corrupt index")
	ErrNotInitialized     = errors.New("store not initialized")
)

// EmbeddingError wraps a transport failure or malformed response from the
// embedding service.
type EmbeddingError struct {
	Model string
	Err   error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding service (%s): %v", e.Model, e.Err)
}

func (e *EmbeddingError) Unwrap() error {
	return e.Err
}

// CompletionError wraps a transport failure or empty response from the
// completion service.
type CompletionError struct {
	Model string
	Err   error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("completion service (%s): %v", e.Model, e.Err)
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}
