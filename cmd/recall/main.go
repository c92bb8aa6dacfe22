package main

import (
	"context"
	"fmt"
	"os"

	"github.com/4thel00z/recall/internal"
	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
)

// version is set via ldflags at build time
var version = "dev"

func main() {
	_ = godotenv.Load()

	ctx := context.Background()

	app := newApp()
	rootCmd := NewRootCmd(version, app)
	if err := fang.Execute(ctx, rootCmd); err != nil {
		os.Exit(1)
	}
}

type app struct {
	resolver   *internal.ScopeResolver
	indexUC    *internal.IndexUseCase
	askUC      *internal.AskUseCase
	searchUC   *internal.SearchUseCase
	statusUC   *internal.StatusUseCase
	logUC      *internal.LogUseCase
	provListUC *internal.ProviderListUseCase
	provAddUC  *internal.ProviderAddUseCase
	provRmUC   *internal.ProviderRemoveUseCase
	provDefUC  *internal.ProviderSetDefaultUseCase
	provTestUC *internal.ProviderTestUseCase
}

func newApp() *app {
	resolver := internal.NewScopeResolver()

	// One store handle per location, so all commands share its write lock.
	storeFor := internal.NewStoreCache().Get
	repoFor := func(scope internal.Scope) (*internal.GitRepository, error) {
		return internal.NewGitRepository(scope)
	}
	embedderFor := func(scope internal.Scope, model string) (internal.Embedder, error) {
		cfg, err := internal.LoadConfig(scope)
		if err != nil {
			return nil, err
		}
		ec := cfg.Embeddings
		if model != "" {
			ec.Model = model
		}
		return internal.NewOpenAIEmbedder(ec)
	}
	providerFor := func(ctx context.Context, scope internal.Scope) (internal.Provider, error) {
		cfg, err := internal.LoadConfig(scope)
		if err != nil {
			return nil, err
		}

		name := cfg.DefaultProvider
		if name == "" {
			return nil, fmt.Errorf("no provider configured (run 'recall provider add')")
		}

		pc, ok := cfg.Providers[name]
		if !ok {
			return nil, fmt.Errorf("default provider %q not found in config", name)
		}

		apiKey := pc.APIKey
		if apiKey == "" {
			apiKey = os.Getenv(apiKeyEnvFor(name))
		}

		return internal.NewFantasyProvider(ctx, internal.FantasyConfig{
			Provider: name,
			APIKey:   apiKey,
			BaseURL:  pc.BaseURL,
			Model:    pc.Model,
		})
	}

	return &app{
		resolver:   resolver,
		indexUC:    internal.NewIndexUseCase(resolver, storeFor, repoFor, embedderFor),
		askUC:      internal.NewAskUseCase(resolver, storeFor, embedderFor, providerFor),
		searchUC:   internal.NewSearchUseCase(resolver, storeFor, embedderFor),
		statusUC:   internal.NewStatusUseCase(resolver, storeFor),
		logUC:      internal.NewLogUseCase(resolver, repoFor),
		provListUC: internal.NewProviderListUseCase(resolver),
		provAddUC:  internal.NewProviderAddUseCase(resolver),
		provRmUC:   internal.NewProviderRemoveUseCase(resolver),
		provDefUC:  internal.NewProviderSetDefaultUseCase(resolver),
		provTestUC: internal.NewProviderTestUseCase(resolver, providerFor),
	}
}

func apiKeyEnvFor(provider string) string {
	switch provider {
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	case "openrouter":
		return "OPENROUTER_API_KEY"
	default:
		return "OPENAI_API_KEY"
	}
}
