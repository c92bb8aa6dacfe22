package internal

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type EmbeddingsConfig struct {
	BaseURL     string `yaml:"base_url,omitempty"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

type ProviderConfig struct {
	APIKey  string `yaml:"api_key,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model"`
}

// ChunkingConfig holds the segmentation defaults. Overlap is a pointer so an
// explicit `overlap: 0` survives loading instead of being mistaken for an
// absent field.
type ChunkingConfig struct {
	Size    int  `yaml:"size"`
	Overlap *int `yaml:"overlap"`
}

func (c ChunkingConfig) OverlapOrDefault() int {
	if c.Overlap == nil {
		return DefaultChunkOverlap
	}
	return *c.Overlap
}

type AskConfig struct {
	TopK int `yaml:"top_k"`
}

type Config struct {
	Embeddings      EmbeddingsConfig          `yaml:"embeddings"`
	Chunking        ChunkingConfig            `yaml:"chunking"`
	Ask             AskConfig                 `yaml:"ask"`
	Providers       map[string]ProviderConfig `yaml:"providers,omitempty"`
	DefaultProvider string                    `yaml:"default_provider,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Embeddings: EmbeddingsConfig{
			APIKeyEnv:   "OPENAI_API_KEY",
			Model:       "text-embedding-3-small",
			TimeoutSecs: 30,
		},
		Chunking: ChunkingConfig{
			Size:    DefaultChunkSize,
			Overlap: intPtr(DefaultChunkOverlap),
		},
		Ask: AskConfig{
			TopK: DefaultTopK,
		},
		Providers: make(map[string]ProviderConfig),
	}
}

func LoadConfig(scope Scope) (*Config, error) {
	path := scope.ConfigPath()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyConfigDefaults(&cfg)

	return &cfg, nil
}

func SaveConfig(scope Scope, cfg *Config) error {
	path := scope.ConfigPath()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

func applyConfigDefaults(cfg *Config) {
	def := DefaultConfig()

	if cfg.Embeddings.APIKeyEnv == "" {
		cfg.Embeddings.APIKeyEnv = def.Embeddings.APIKeyEnv
	}
	if cfg.Embeddings.Model == "" {
		cfg.Embeddings.Model = def.Embeddings.Model
	}
	if cfg.Embeddings.TimeoutSecs == 0 {
		cfg.Embeddings.TimeoutSecs = def.Embeddings.TimeoutSecs
	}
	if cfg.Chunking.Size == 0 {
		cfg.Chunking.Size = def.Chunking.Size
	}
	if cfg.Chunking.Overlap == nil {
		cfg.Chunking.Overlap = def.Chunking.Overlap
	}
	if cfg.Ask.TopK == 0 {
		cfg.Ask.TopK = def.Ask.TopK
	}
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}
}

func intPtr(v int) *int {
	return &v
}
