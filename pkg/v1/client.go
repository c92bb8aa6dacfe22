package v1

import (
	"context"
	"fmt"
	"os"

	"github.com/4thel00z/recall/internal"
)

// Client provides programmatic access to the document index.
type Client struct {
	indexUC      *internal.IndexUseCase
	askUC        *internal.AskUseCase
	searchUC     *internal.SearchUseCase
	statusUC     *internal.StatusUseCase
	scope        string
	topK         int
	chunkSize    int
	chunkOverlap int
}

// New creates a new Client with the given options.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		chunkOverlap: -1,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	resolver := internal.NewScopeResolver()

	// One store handle per location, so concurrent client calls share its
	// write lock.
	storeFor := internal.NewStoreCache().Get
	repoFor := func(scope internal.Scope) (*internal.GitRepository, error) {
		return internal.NewGitRepository(scope)
	}

	embedderFor := cfg.embedderFor
	if embedderFor == nil {
		embedderFor = func(scope internal.Scope, model string) (internal.Embedder, error) {
			c, err := internal.LoadConfig(scope)
			if err != nil {
				return nil, err
			}
			ec := c.Embeddings
			if model != "" {
				ec.Model = model
			}
			return internal.NewOpenAIEmbedder(ec)
		}
	}

	providerFor := cfg.providerFor
	if providerFor == nil {
		providerFor = func(ctx context.Context, scope internal.Scope) (internal.Provider, error) {
			c, err := internal.LoadConfig(scope)
			if err != nil {
				return nil, err
			}

			name := c.DefaultProvider
			if name == "" {
				return nil, fmt.Errorf("no provider configured")
			}
			pc, ok := c.Providers[name]
			if !ok {
				return nil, fmt.Errorf("default provider %q not found in config", name)
			}

			apiKey := pc.APIKey
			if apiKey == "" {
				apiKey = os.Getenv("OPENAI_API_KEY")
			}

			return internal.NewFantasyProvider(ctx, internal.FantasyConfig{
				Provider: name,
				APIKey:   apiKey,
				BaseURL:  pc.BaseURL,
				Model:    pc.Model,
			})
		}
	}

	return &Client{
		indexUC:      internal.NewIndexUseCase(resolver, storeFor, repoFor, embedderFor),
		askUC:        internal.NewAskUseCase(resolver, storeFor, embedderFor, providerFor),
		searchUC:     internal.NewSearchUseCase(resolver, storeFor, embedderFor),
		statusUC:     internal.NewStatusUseCase(resolver, storeFor),
		scope:        cfg.scope,
		topK:         cfg.topK,
		chunkSize:    cfg.chunkSize,
		chunkOverlap: cfg.chunkOverlap,
	}, nil
}

// Index chunks and embeds a document, replacing the current index.
func (c *Client) Index(ctx context.Context, source, text string) (*IndexResult, error) {
	out, err := c.indexUC.Execute(ctx, internal.IndexInput{
		Text:         text,
		Source:       source,
		ChunkSize:    c.chunkSize,
		ChunkOverlap: c.chunkOverlap,
		Scope:        c.scope,
	})
	if err != nil {
		return nil, fmt.Errorf("index: %w", err)
	}

	return &IndexResult{
		Source: out.Source,
		Chunks: out.Chunks,
		Model:  out.Model,
		Commit: out.CommitHash,
	}, nil
}

// Ask retrieves the most relevant chunks and generates a grounded answer.
func (c *Client) Ask(ctx context.Context, question string) (*Answer, error) {
	out, err := c.askUC.Execute(ctx, internal.AskInput{
		Question: question,
		TopK:     c.topK,
		Scope:    c.scope,
	})
	if err != nil {
		return nil, err
	}

	answer := &Answer{Text: out.Answer}
	for _, m := range out.Matches {
		answer.Matches = append(answer.Matches, Match{ID: m.ID, Score: m.Score})
	}
	return answer, nil
}

// Search ranks indexed chunks against the query without generating an answer.
func (c *Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	out, err := c.searchUC.Execute(ctx, internal.SearchInput{
		Query: query,
		TopK:  c.topK,
		Scope: c.scope,
	})
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(out.Results))
	for _, r := range out.Results {
		results = append(results, SearchResult{ID: r.ID, Score: r.Score, Text: r.Text})
	}
	return results, nil
}

// Status reports the current index metadata.
func (c *Client) Status(ctx context.Context) (*Status, error) {
	out, err := c.statusUC.Execute(ctx, internal.StatusInput{Scope: c.scope})
	if err != nil {
		return nil, err
	}

	return &Status{
		Indexed:      out.Indexed,
		Source:       out.Source,
		EmbedModel:   out.EmbedModel,
		ChunkSize:    out.ChunkSize,
		ChunkOverlap: out.ChunkOverlap,
		Count:        out.Count,
		CreatedAt:    out.CreatedAt,
	}, nil
}

// Close releases any resources held by the client.
func (c *Client) Close() error {
	return nil
}
