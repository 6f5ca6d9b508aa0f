package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Server Configuration
	ServerPort  string   `envconfig:"PORT" default:"8080"`
	LogMode     string   `envconfig:"LOG_MODE" default:"dev"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`

	// Database Configuration
	DatabaseDriver  string `envconfig:"DB_DRIVER" default:"sqlite"` // "sqlite" or "postgres"
	DatabaseDSN     string `envconfig:"DB_DSN" default:"sukoon.db"`
	SeedContentPath string `envconfig:"SEED_CONTENT_PATH"`
	SeedEvents      bool   `envconfig:"SEED_EVENTS" default:"false"`

	// Ingestion Queue Configuration
	QueueSize    int `envconfig:"QUEUE_SIZE" default:"1024"`
	QueueWorkers int `envconfig:"QUEUE_WORKERS" default:"4"`

	// Recommendation Configuration
	RecommendationTTL        time.Duration `envconfig:"RECOMMENDATION_TTL" default:"24h"`
	RecommendationStaleAfter time.Duration `envconfig:"RECOMMENDATION_STALE_AFTER" default:"12h"`
	SweepInterval            time.Duration `envconfig:"RECOMMENDATION_SWEEP_INTERVAL" default:"10m"`
	PopularWindowDays        int           `envconfig:"POPULAR_WINDOW_DAYS" default:"7"`

	// LLM Configuration
	LLMProvider string `envconfig:"LLM_PROVIDER" default:"none"` // "none", "openai" or "groq"
	OpenAIKey   string `envconfig:"OPENAI_API_KEY"`
	GroqKey     string `envconfig:"GROQ_API_KEY"`
	LLMBaseURL  string `envconfig:"LLM_BASE_URL" default:"https://api.groq.com/openai/v1"`
	TagModel    string `envconfig:"TAG_MODEL" default:"llama-3.1-8b-instant"`
}

// LoadConfig reads the environment into a Config and validates it.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	switch strings.ToLower(c.DatabaseDriver) {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DatabaseDriver)
	}

	switch strings.ToLower(c.LLMProvider) {
	case "none", "":
	case "openai":
		if c.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER is 'openai'")
		}
	case "groq":
		if c.GroqKey == "" {
			return fmt.Errorf("GROQ_API_KEY is required when LLM_PROVIDER is 'groq'")
		}
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q", c.LLMProvider)
	}

	if c.QueueSize <= 0 || c.QueueWorkers <= 0 {
		return fmt.Errorf("QUEUE_SIZE and QUEUE_WORKERS must be positive")
	}
	if c.RecommendationStaleAfter <= 0 || c.RecommendationTTL <= c.RecommendationStaleAfter {
		return fmt.Errorf("RECOMMENDATION_TTL must exceed RECOMMENDATION_STALE_AFTER")
	}
	if c.PopularWindowDays <= 0 {
		return fmt.Errorf("POPULAR_WINDOW_DAYS must be positive")
	}
	return nil
}
