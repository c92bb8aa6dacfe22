package internal

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Embeddings.Model != "text-embedding-3-small" {
		t.Errorf("model = %q", cfg.Embeddings.Model)
	}
	if cfg.Embeddings.APIKeyEnv != "OPENAI_API_KEY" {
		t.Errorf("api key env = %q", cfg.Embeddings.APIKeyEnv)
	}
	if cfg.Chunking.Size != DefaultChunkSize || cfg.Chunking.OverlapOrDefault() != DefaultChunkOverlap {
		t.Errorf("chunking = %+v", cfg.Chunking)
	}
	if cfg.Ask.TopK != DefaultTopK {
		t.Errorf("top k = %d, want %d", cfg.Ask.TopK, DefaultTopK)
	}
	if cfg.Providers == nil {
		t.Error("expected providers map to be initialized")
	}
}

func TestConfigSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	storePath := filepath.Join(tmpDir, ".recall")
	if err := os.MkdirAll(storePath, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	scope := Scope{
		Type:      ScopeProject,
		Path:      tmpDir,
		StorePath: storePath,
	}

	cfg := DefaultConfig()
	cfg.Chunking.Size = 200
	cfg.DefaultProvider = "openai"
	cfg.Providers["openai"] = ProviderConfig{
		APIKey: "sk-test",
		Model:  "gpt-4o-mini",
	}

	if err := SaveConfig(scope, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadConfig(scope)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.Chunking.Size != 200 {
		t.Errorf("chunk size = %d, want 200", loaded.Chunking.Size)
	}
	if loaded.DefaultProvider != "openai" {
		t.Errorf("default provider = %q", loaded.DefaultProvider)
	}
	if p, ok := loaded.Providers["openai"]; !ok {
		t.Error("expected provider 'openai' to exist")
	} else if p.Model != "gpt-4o-mini" {
		t.Errorf("provider model = %q", p.Model)
	}
}

func TestLoadConfigMissingFileGivesDefaults(t *testing.T) {
	scope := Scope{
		Type:      ScopeProject,
		Path:      t.TempDir(),
		StorePath: filepath.Join(t.TempDir(), ".recall"),
	}

	cfg, err := LoadConfig(scope)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Embeddings.Model != "text-embedding-3-small" {
		t.Errorf("model = %q", cfg.Embeddings.Model)
	}
}

func TestLoadConfigExplicitZeroOverlap(t *testing.T) {
	tmpDir := t.TempDir()
	storePath := filepath.Join(tmpDir, ".recall")
	if err := os.MkdirAll(storePath, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	scope := Scope{Type: ScopeProject, Path: tmpDir, StorePath: storePath}

	explicit := "chunking:\n  size: 100\n  overlap: 0\n"
	if err := os.WriteFile(scope.ConfigPath(), []byte(explicit), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadConfig(scope)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	// An explicit zero must not be clobbered by the default.
	if got := cfg.Chunking.OverlapOrDefault(); got != 0 {
		t.Errorf("overlap = %d, want 0", got)
	}
}

func TestLoadConfigFillsMissingFields(t *testing.T) {
	tmpDir := t.TempDir()
	storePath := filepath.Join(tmpDir, ".recall")
	if err := os.MkdirAll(storePath, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	scope := Scope{Type: ScopeProject, Path: tmpDir, StorePath: storePath}

	partial := "chunking:\n  size: 100\n"
	if err := os.WriteFile(scope.ConfigPath(), []byte(partial), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadConfig(scope)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Chunking.Size != 100 {
		t.Errorf("chunk size = %d, want 100", cfg.Chunking.Size)
	}
	if cfg.Chunking.OverlapOrDefault() != DefaultChunkOverlap {
		t.Errorf("overlap = %d, want default", cfg.Chunking.OverlapOrDefault())
	}
	if cfg.Embeddings.Model == "" {
		t.Error("expected embeddings model default")
	}
	if cfg.Ask.TopK != DefaultTopK {
		t.Errorf("top k = %d, want default", cfg.Ask.TopK)
	}
}
