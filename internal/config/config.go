package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Vault struct {
		Root        string `yaml:"root"`
		ArticlesDir string `yaml:"articles_dir"` // folder scanned for duplicates and related articles
		AuthorsDir  string `yaml:"authors_dir"`  // folder holding author identity pages
		InboxDir    string `yaml:"inbox_dir"`    // where captures land before enrichment
	} `yaml:"vault"`
	AI struct {
		Provider string `yaml:"provider"`
		Model    string `yaml:"model"`
		APIKey   string `yaml:"api_key"`
		BaseURL  string `yaml:"base_url"` // OpenAI-compatible endpoint override (e.g. Ollama)
	} `yaml:"ai"`
	Enrich struct {
		TagPrefix     string `yaml:"tag_prefix"`
		MaxTags       int    `yaml:"max_tags"`
		MaxRelated    int    `yaml:"max_related"`
		CreateAuthors *bool  `yaml:"create_authors"`
	} `yaml:"enrich"`
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.Vault.Root = "."
	cfg.Vault.ArticlesDir = "Articles"
	cfg.Vault.AuthorsDir = "Authors"
	cfg.Vault.InboxDir = "Inbox"
	cfg.Enrich.MaxTags = 5
	cfg.Enrich.MaxRelated = 5
	return cfg
}

func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML config; a missing file leaves the defaults in place
	file, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	applyDefaults(cfg)

	// 3. Override with Environment Variables if present
	if apiKey := os.Getenv("CLIPMARK_API_KEY"); apiKey != "" {
		cfg.AI.APIKey = apiKey
	}
	if provider := os.Getenv("CLIPMARK_AI_PROVIDER"); provider != "" {
		cfg.AI.Provider = provider
	}

	return cfg, nil
}

// CreateAuthors reports whether missing author identities should be
// synthesized. Defaults to true when the config file does not say.
func (c *Config) CreateAuthors() bool {
	if c.Enrich.CreateAuthors == nil {
		return true
	}
	return *c.Enrich.CreateAuthors
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Vault.Root == "" {
		cfg.Vault.Root = def.Vault.Root
	}
	if cfg.Vault.ArticlesDir == "" {
		cfg.Vault.ArticlesDir = def.Vault.ArticlesDir
	}
	if cfg.Vault.AuthorsDir == "" {
		cfg.Vault.AuthorsDir = def.Vault.AuthorsDir
	}
	if cfg.Vault.InboxDir == "" {
		cfg.Vault.InboxDir = def.Vault.InboxDir
	}
	if cfg.Enrich.MaxTags <= 0 {
		cfg.Enrich.MaxTags = def.Enrich.MaxTags
	}
	if cfg.Enrich.MaxRelated <= 0 {
		cfg.Enrich.MaxRelated = def.Enrich.MaxRelated
	}
}
