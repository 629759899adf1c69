package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	// Server
	Port        string `mapstructure:"PORT"`
	GinMode     string `mapstructure:"GIN_MODE"`
	Environment string `mapstructure:"ENVIRONMENT"`

	// Database
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// JWT
	JWTSecret            string `mapstructure:"JWT_SECRET"`
	AccessTokenExpireMin int    `mapstructure:"ACCESS_TOKEN_EXPIRE_MINUTES"`

	// Google sign-in
	GoogleClientID string `mapstructure:"GOOGLE_CLIENT_ID"`

	// Generation (OpenAI-compatible router; requires a credential)
	HFAPIToken string `mapstructure:"HUGGINGFACEHUB_API_TOKEN"`
	LLMBaseURL string `mapstructure:"LLM_BASE_URL"`
	LLMModels  string `mapstructure:"LLM_MODELS"`

	// Embeddings (OpenAI-compatible; empty key selects the local embedder)
	EmbeddingAPIKey     string `mapstructure:"EMBEDDING_API_KEY"`
	EmbeddingBaseURL    string `mapstructure:"EMBEDDING_BASE_URL"`
	EmbeddingModel      string `mapstructure:"EMBEDDING_MODEL"`
	EmbeddingDimensions int    `mapstructure:"EMBEDDING_DIMENSIONS"`

	// Ingestion
	ChunkSize     int    `mapstructure:"CHUNK_SIZE"`
	ChunkOverlap  int    `mapstructure:"CHUNK_OVERLAP"`
	RetrievalTopK int    `mapstructure:"RETRIEVAL_TOP_K"`
	SECStorage    string `mapstructure:"SEC_STORAGE_PATH"`
	SECUserAgent  string `mapstructure:"SEC_USER_AGENT"`
}

func Load() (*Config, error) {
	// own viper instance per call so overrides never leak between loads
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("JWT_SECRET", "super-secret-key-change-this")
	v.SetDefault("ACCESS_TOKEN_EXPIRE_MINUTES", 60)
	v.SetDefault("LLM_BASE_URL", "https://router.huggingface.co/v1")
	v.SetDefault("LLM_MODELS", "Qwen/Qwen3-235B-A22B-Instruct-2507,Qwen/Qwen2.5-72B-Instruct,Qwen/Qwen2.5-7B-Instruct")
	v.SetDefault("EMBEDDING_BASE_URL", "https://api.openai.com/v1")
	v.SetDefault("EMBEDDING_MODEL", "text-embedding-3-small")
	v.SetDefault("EMBEDDING_DIMENSIONS", 384)
	v.SetDefault("CHUNK_SIZE", 2000)
	v.SetDefault("CHUNK_OVERLAP", 200)
	v.SetDefault("RETRIEVAL_TOP_K", 3)
	v.SetDefault("SEC_STORAGE_PATH", "./sec-edgar-filings")
	v.SetDefault("SEC_USER_AGENT", "RiskSentinel admin@risksentinel.com")
	v.SetDefault("DATABASE_URL", "postgres://localhost:5432/risksentinel?sslmode=disable")

	_ = v.ReadInConfig()

	cfg := &Config{}
	for _, key := range []string{
		"PORT", "GIN_MODE", "ENVIRONMENT", "DATABASE_URL",
		"JWT_SECRET", "ACCESS_TOKEN_EXPIRE_MINUTES", "GOOGLE_CLIENT_ID",
		"HUGGINGFACEHUB_API_TOKEN", "LLM_BASE_URL", "LLM_MODELS",
		"EMBEDDING_API_KEY", "EMBEDDING_BASE_URL", "EMBEDDING_MODEL", "EMBEDDING_DIMENSIONS",
		"CHUNK_SIZE", "CHUNK_OVERLAP", "RETRIEVAL_TOP_K", "SEC_STORAGE_PATH", "SEC_USER_AGENT",
	} {
		if val := os.Getenv(key); val != "" {
			v.Set(key, val)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// ModelCandidates returns the ordered generation model list, primary first.
func (c *Config) ModelCandidates() []string {
	var models []string
	for _, m := range strings.Split(c.LLMModels, ",") {
		if m = strings.TrimSpace(m); m != "" {
			models = append(models, m)
		}
	}
	return models
}
