package internal

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultTopK is how many chunks a question retrieves when no explicit
	// count is requested.
	DefaultTopK = 5

	// embedWorkers bounds how many chunk embeddings are in flight at once.
	embedWorkers = 8
)

// answerInstruction keeps completions grounded in the retrieved chunks.
const answerInstruction = "You answer questions using only the provided context. " +
	"If the context does not contain the information needed to answer, " +
	"say so explicitly instead of guessing."

// Use case input/output DTOs

type IndexInput struct {
	Text         string
	Source       string
	ChunkSize    int
	ChunkOverlap int // negative means use configured default
	Model        string
	Scope        string
}

type IndexOutput struct {
	Source       string
	Chunks       int
	Model        string
	ChunkSize    int
	ChunkOverlap int
	CommitHash   string
}

type AskInput struct {
	Question string
	TopK     int
	Scope    string
}

type AskOutput struct {
	Answer  string
	Model   string
	Matches []MatchOutput
}

type MatchOutput struct {
	ID    string
	Score float64
}

type SearchInput struct {
	Query string
	TopK  int
	Scope string
}

type SearchOutput struct {
	Results []SearchResultOutput
}

type SearchResultOutput struct {
	ID    string
	Score float64
	Text  string
}

type StatusInput struct {
	Scope string
}

type StatusOutput struct {
	Scope        ScopeType
	StorePath    string
	Indexed      bool
	Source       string
	EmbedModel   string
	ChunkSize    int
	ChunkOverlap int
	Count        int
	CreatedAt    time.Time
}

type LogInput struct {
	Limit int
	Scope string
}

type LogOutput struct {
	Commits []CommitOutput
}

type CommitOutput struct {
	Hash      string
	Message   string
	Timestamp time.Time
}

// Use cases

type IndexUseCase struct {
	resolver    *ScopeResolver
	storeFor    func(Scope) (*Store, error)
	repoFor     func(Scope) (*GitRepository, error)
	embedderFor func(Scope, string) (Embedder, error)
}

func NewIndexUseCase(
	resolver *ScopeResolver,
	storeFor func(Scope) (*Store, error),
	repoFor func(Scope) (*GitRepository, error),
	embedderFor func(Scope, string) (Embedder, error),
) *IndexUseCase {
	return &IndexUseCase{
		resolver:    resolver,
		storeFor:    storeFor,
		repoFor:     repoFor,
		embedderFor: embedderFor,
	}
}

func (uc *IndexUseCase) Execute(ctx context.Context, input IndexInput) (*IndexOutput, error) {
	text := Normalize(input.Text)
	if text == "" {
		return nil, ErrEmptyText
	}

	source := strings.TrimSpace(input.Source)
	if source == "" {
		source = "untitled"
	}

	scope := uc.resolver.Resolve(input.Scope)

	cfg, err := LoadConfig(scope)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	size := input.ChunkSize
	if size <= 0 {
		size = cfg.Chunking.Size
	}
	overlap := input.ChunkOverlap
	if overlap < 0 {
		overlap = cfg.Chunking.OverlapOrDefault()
	}

	model := input.Model
	if model == "" {
		model = cfg.Embeddings.Model
	}

	segments := SegmentText(text, source, size, overlap)
	if len(segments) == 0 {
		return nil, ErrEmptyCollection
	}

	embedder, err := uc.embedderFor(scope, model)
	if err != nil {
		return nil, err
	}

	// Open the repository before anything is written: indexing into an
	// uninitialized store must fail with no partial durable state.
	var repo *GitRepository
	if uc.repoFor != nil {
		repo, err = uc.repoFor(scope)
		if err != nil {
			return nil, fmt.Errorf("get repository: %w", err)
		}
	}

	items, err := embedSegments(ctx, embedder, segments)
	if err != nil {
		return nil, err
	}

	col, err := NewCollection(source, embedder.Model(), size, overlap, items)
	if err != nil {
		return nil, err
	}

	store, err := uc.storeFor(scope)
	if err != nil {
		return nil, err
	}

	if err := store.Save(col); err != nil {
		return nil, fmt.Errorf("save index: %w", err)
	}

	out := &IndexOutput{
		Source:       source,
		Chunks:       len(items),
		Model:        col.EmbedModel,
		ChunkSize:    size,
		ChunkOverlap: overlap,
	}

	if repo != nil {
		msg := fmt.Sprintf("index: %s (%d chunks)", source, len(items))
		commit, err := repo.CommitIndex(ctx, msg)
		if err != nil {
			return nil, fmt.Errorf("commit index: %w", err)
		}
		out.CommitHash = commit.Hash
	}

	return out, nil
}

// embedSegments embeds every segment with bounded parallelism and fails fast
// on the first error. Results keep the segment order.
func embedSegments(ctx context.Context, embedder Embedder, segments []Segment) ([]Record, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	items := make([]Record, len(segments))
	sem := make(chan struct{}, embedWorkers)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for i, seg := range segments {
		if ctx.Err() != nil {
			break
		}

		mu.Lock()
		failed := firstErr != nil
		mu.Unlock()
		if failed {
			break
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(i int, seg Segment) {
			defer wg.Done()
			defer func() { <-sem }()

			vec, err := embedder.Embed(ctx, seg.Text)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				cancel()
				return
			}

			items[i] = Record{
				ID:        seg.ID,
				Source:    seg.Source,
				Chunk:     seg.Seq,
				Text:      seg.Text,
				Embedding: vec,
			}
		}(i, seg)
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

type AskUseCase struct {
	resolver    *ScopeResolver
	storeFor    func(Scope) (*Store, error)
	embedderFor func(Scope, string) (Embedder, error)
	providerFor func(context.Context, Scope) (Provider, error)
}

func NewAskUseCase(
	resolver *ScopeResolver,
	storeFor func(Scope) (*Store, error),
	embedderFor func(Scope, string) (Embedder, error),
	providerFor func(context.Context, Scope) (Provider, error),
) *AskUseCase {
	return &AskUseCase{
		resolver:    resolver,
		storeFor:    storeFor,
		embedderFor: embedderFor,
		providerFor: providerFor,
	}
}

func (uc *AskUseCase) Execute(ctx context.Context, input AskInput) (*AskOutput, error) {
	if strings.TrimSpace(input.Question) == "" {
		return nil, ErrEmptyQuestion
	}

	col, scope, err := uc.loadCollection(input.Scope)
	if err != nil {
		return nil, err
	}

	matches, err := uc.rank(ctx, col, scope, input.Question, input.TopK)
	if err != nil {
		return nil, err
	}

	prompt := buildPrompt(input.Question, matches)

	provider, err := uc.providerFor(ctx, scope)
	if err != nil {
		return nil, err
	}

	answer, err := provider.Complete(ctx, answerInstruction, prompt)
	if err != nil {
		return nil, err
	}

	out := &AskOutput{
		Answer: strings.TrimSpace(answer),
		Model:  col.EmbedModel,
	}
	for _, m := range matches {
		out.Matches = append(out.Matches, MatchOutput{
			ID:    m.Record.ID,
			Score: RoundScore(m.Score),
		})
	}
	return out, nil
}

func (uc *AskUseCase) loadCollection(scopeHint string) (*Collection, Scope, error) {
	return loadCollection(uc.resolver, uc.storeFor, scopeHint)
}

// rank embeds the question with the collection's own embedding model and
// returns the top chunks.
func (uc *AskUseCase) rank(ctx context.Context, col *Collection, scope Scope, question string, k int) ([]Match, error) {
	if col.Count == 0 {
		return nil, ErrEmptyCollection
	}

	embedder, err := uc.embedderFor(scope, col.EmbedModel)
	if err != nil {
		return nil, err
	}

	query, err := embedder.Embed(ctx, question)
	if err != nil {
		return nil, err
	}

	if k <= 0 {
		k = DefaultTopK
	}
	return col.Rank(query, k)
}

// loadCollection finds the collection for an explicit scope, or walks the
// scope cascade (project first, then global) when no scope is given.
func loadCollection(
	resolver *ScopeResolver,
	storeFor func(Scope) (*Store, error),
	scopeHint string,
) (*Collection, Scope, error) {
	var scopes []Scope
	if scopeHint != "" {
		scopes = []Scope{resolver.Resolve(scopeHint)}
	} else {
		scopes = resolver.Cascade()
	}

	var lastErr error = ErrIndexNotFound
	for _, scope := range scopes {
		store, err := storeFor(scope)
		if err != nil {
			lastErr = err
			continue
		}

		col, err := store.Load()
		if err != nil {
			if errors.Is(err, ErrIndexNotFound) {
				lastErr = err
				continue
			}
			return nil, scope, err
		}
		return col, scope, nil
	}
	return nil, Scope{}, lastErr
}

func buildPrompt(question string, matches []Match) string {
	var b strings.Builder
	b.WriteString("Context:\n\n")
	for i, m := range matches {
		fmt.Fprintf(&b, "[%d] %s:\n%s\n\n", i+1, m.Record.ID, m.Record.Text)
	}
	b.WriteString("Question: ")
	b.WriteString(question)
	return b.String()
}

type SearchUseCase struct {
	resolver    *ScopeResolver
	storeFor    func(Scope) (*Store, error)
	embedderFor func(Scope, string) (Embedder, error)
}

func NewSearchUseCase(
	resolver *ScopeResolver,
	storeFor func(Scope) (*Store, error),
	embedderFor func(Scope, string) (Embedder, error),
) *SearchUseCase {
	return &SearchUseCase{
		resolver:    resolver,
		storeFor:    storeFor,
		embedderFor: embedderFor,
	}
}

func (uc *SearchUseCase) Execute(ctx context.Context, input SearchInput) (*SearchOutput, error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, ErrEmptyQuestion
	}

	col, scope, err := loadCollection(uc.resolver, uc.storeFor, input.Scope)
	if err != nil {
		return nil, err
	}

	if col.Count == 0 {
		return nil, ErrEmptyCollection
	}

	embedder, err := uc.embedderFor(scope, col.EmbedModel)
	if err != nil {
		return nil, err
	}

	query, err := embedder.Embed(ctx, input.Query)
	if err != nil {
		return nil, err
	}

	k := input.TopK
	if k <= 0 {
		k = DefaultTopK
	}

	matches, err := col.Rank(query, k)
	if err != nil {
		return nil, err
	}

	out := &SearchOutput{}
	for _, m := range matches {
		out.Results = append(out.Results, SearchResultOutput{
			ID:    m.Record.ID,
			Score: RoundScore(m.Score),
			Text:  m.Record.Text,
		})
	}
	return out, nil
}

type StatusUseCase struct {
	resolver *ScopeResolver
	storeFor func(Scope) (*Store, error)
}

func NewStatusUseCase(
	resolver *ScopeResolver,
	storeFor func(Scope) (*Store, error),
) *StatusUseCase {
	return &StatusUseCase{
		resolver: resolver,
		storeFor: storeFor,
	}
}

func (uc *StatusUseCase) Execute(ctx context.Context, input StatusInput) (*StatusOutput, error) {
	scope := uc.resolver.Resolve(input.Scope)

	store, err := uc.storeFor(scope)
	if err != nil {
		return nil, err
	}

	out := &StatusOutput{
		Scope:     scope.Type,
		StorePath: scope.StorePath,
	}

	col, err := store.Load()
	if err != nil {
		if errors.Is(err, ErrIndexNotFound) {
			return out, nil
		}
		return nil, err
	}

	out.Indexed = true
	out.Source = col.Source
	out.EmbedModel = col.EmbedModel
	out.ChunkSize = col.ChunkSize
	out.ChunkOverlap = col.ChunkOverlap
	out.Count = col.Count
	out.CreatedAt = col.CreatedAt
	return out, nil
}

type LogUseCase struct {
	resolver *ScopeResolver
	repoFor  func(Scope) (*GitRepository, error)
}

func NewLogUseCase(
	resolver *ScopeResolver,
	repoFor func(Scope) (*GitRepository, error),
) *LogUseCase {
	return &LogUseCase{
		resolver: resolver,
		repoFor:  repoFor,
	}
}

func (uc *LogUseCase) Execute(ctx context.Context, input LogInput) (*LogOutput, error) {
	scope := uc.resolver.Resolve(input.Scope)

	repo, err := uc.repoFor(scope)
	if err != nil {
		return nil, fmt.Errorf("get repository: %w", err)
	}

	commits, err := repo.Log(ctx, input.Limit)
	if err != nil {
		return nil, fmt.Errorf("get log: %w", err)
	}

	out := &LogOutput{}
	for _, c := range commits {
		out.Commits = append(out.Commits, CommitOutput{
			Hash:      c.Hash,
			Message:   c.Message,
			Timestamp: c.Timestamp,
		})
	}
	return out, nil
}

// Provider management

type ProviderInput struct {
	Name   string
	Scope  string
	Config ProviderConfig
}

type ProviderListUseCase struct {
	resolver *ScopeResolver
}

func NewProviderListUseCase(resolver *ScopeResolver) *ProviderListUseCase {
	return &ProviderListUseCase{resolver: resolver}
}

func (uc *ProviderListUseCase) Execute(input ProviderInput) ([]string, error) {
	scope := uc.resolver.Resolve(input.Scope)

	cfg, err := LoadConfig(scope)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(cfg.Providers))
	for name := range cfg.Providers {
		if name == cfg.DefaultProvider {
			name += " (default)"
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

type ProviderAddUseCase struct {
	resolver *ScopeResolver
}

func NewProviderAddUseCase(resolver *ScopeResolver) *ProviderAddUseCase {
	return &ProviderAddUseCase{resolver: resolver}
}

func (uc *ProviderAddUseCase) Execute(input ProviderInput) error {
	if input.Name == "" {
		return fmt.Errorf("provider name is required")
	}

	scope := uc.resolver.Resolve(input.Scope)

	cfg, err := LoadConfig(scope)
	if err != nil {
		return err
	}

	cfg.Providers[input.Name] = input.Config
	if cfg.DefaultProvider == "" {
		cfg.DefaultProvider = input.Name
	}

	return SaveConfig(scope, cfg)
}

type ProviderRemoveUseCase struct {
	resolver *ScopeResolver
}

func NewProviderRemoveUseCase(resolver *ScopeResolver) *ProviderRemoveUseCase {
	return &ProviderRemoveUseCase{resolver: resolver}
}

func (uc *ProviderRemoveUseCase) Execute(input ProviderInput) error {
	scope := uc.resolver.Resolve(input.Scope)

	cfg, err := LoadConfig(scope)
	if err != nil {
		return err
	}

	if _, ok := cfg.Providers[input.Name]; !ok {
		return fmt.Errorf("provider %q not found", input.Name)
	}

	delete(cfg.Providers, input.Name)
	if cfg.DefaultProvider == input.Name {
		cfg.DefaultProvider = ""
	}

	return SaveConfig(scope, cfg)
}

type ProviderSetDefaultUseCase struct {
	resolver *ScopeResolver
}

func NewProviderSetDefaultUseCase(resolver *ScopeResolver) *ProviderSetDefaultUseCase {
	return &ProviderSetDefaultUseCase{resolver: resolver}
}

func (uc *ProviderSetDefaultUseCase) Execute(input ProviderInput) error {
	scope := uc.resolver.Resolve(input.Scope)

	cfg, err := LoadConfig(scope)
	if err != nil {
		return err
	}

	if _, ok := cfg.Providers[input.Name]; !ok {
		return fmt.Errorf("provider %q not found", input.Name)
	}

	cfg.DefaultProvider = input.Name
	return SaveConfig(scope, cfg)
}

type ProviderTestUseCase struct {
	resolver    *ScopeResolver
	providerFor func(context.Context, Scope) (Provider, error)
}

func NewProviderTestUseCase(
	resolver *ScopeResolver,
	providerFor func(context.Context, Scope) (Provider, error),
) *ProviderTestUseCase {
	return &ProviderTestUseCase{resolver: resolver, providerFor: providerFor}
}

func (uc *ProviderTestUseCase) Execute(ctx context.Context, input ProviderInput) (string, error) {
	scope := uc.resolver.Resolve(input.Scope)

	provider, err := uc.providerFor(ctx, scope)
	if err != nil {
		return "", err
	}

	return provider.Complete(ctx, "", "Reply with a single word: ok")
}
