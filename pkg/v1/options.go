package v1

import (
	"context"

	"github.com/4thel00z/recall/internal"
)

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	scope        string
	chunkSize    int
	chunkOverlap int
	topK         int
	embedderFor  func(internal.Scope, string) (internal.Embedder, error)
	providerFor  func(context.Context, internal.Scope) (internal.Provider, error)
}

// WithScope forces a specific scope (global or project).
func WithScope(scope string) Option {
	return func(c *clientConfig) {
		c.scope = scope
	}
}

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *clientConfig) {
		c.chunkSize = size
	}
}

// WithChunkOverlap sets the chunk overlap in characters.
func WithChunkOverlap(overlap int) Option {
	return func(c *clientConfig) {
		c.chunkOverlap = overlap
	}
}

// WithTopK sets how many chunks retrieval returns by default.
func WithTopK(k int) Option {
	return func(c *clientConfig) {
		c.topK = k
	}
}

// WithEmbedder replaces the configured embedding service.
func WithEmbedder(e internal.Embedder) Option {
	return func(c *clientConfig) {
		c.embedderFor = func(internal.Scope, string) (internal.Embedder, error) {
			return e, nil
		}
	}
}

// WithProvider replaces the configured completion provider.
func WithProvider(p internal.Provider) Option {
	return func(c *clientConfig) {
		c.providerFor = func(context.Context, internal.Scope) (internal.Provider, error) {
			return p, nil
		}
	}
}
