package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var (
	ErrMissingRequired = errors.New("missing required configuration")
	ErrInvalidValue    = errors.New("invalid configuration value")
)

// Config is built once at startup and passed by reference into the
// pipeline; no component reads process-wide state directly.
type Config struct {
	PineconeAPIKey  string `envconfig:"PINECONE_API_KEY"`
	GeminiAPIKey    string `envconfig:"GEMINI_API_KEY"`
	FirecrawlAPIKey string `envconfig:"FIRECRAWL_API_KEY"`

	TargetURL string `envconfig:"TARGET_URL" default:"https://docs.stripe.com/api/"`
	IndexName string `envconfig:"INDEX_NAME" default:"stripe-api"`
	CrawlMode string `envconfig:"CRAWL_MODE" default:"single"` // "single" or "crawl"
	MaxPages  int    `envconfig:"MAX_PAGES" default:"10"`

	ChunkSize    int `envconfig:"CHUNK_SIZE" default:"1000"`
	ChunkOverlap int `envconfig:"CHUNK_OVERLAP" default:"50"`
	BatchSize    int `envconfig:"BATCH_SIZE" default:"100"`

	ServerPort int `envconfig:"SERVER_PORT" default:"8081"`
}

func Load() (*Config, error) {
	// Env vars may come from the shell instead; a missing .env is fine.
	_ = godotenv.Load(".env")

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every missing credential in one error so an operator can
// fix them all at once.
func (c *Config) Validate() error {
	var missing []string
	if c.PineconeAPIKey == "" {
		missing = append(missing, "PINECONE_API_KEY")
	}
	if c.GeminiAPIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	if c.FirecrawlAPIKey == "" {
		missing = append(missing, "FIRECRAWL_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingRequired, strings.Join(missing, ", "))
	}

	if !strings.HasPrefix(c.TargetURL, "http://") && !strings.HasPrefix(c.TargetURL, "https://") {
		return fmt.Errorf("%w: TARGET_URL must start with http:// or https://, got %q", ErrInvalidValue, c.TargetURL)
	}
	if c.CrawlMode != "single" && c.CrawlMode != "crawl" {
		return fmt.Errorf("%w: CRAWL_MODE must be 'single' or 'crawl', got %q", ErrInvalidValue, c.CrawlMode)
	}
	if c.MaxPages < 1 {
		return fmt.Errorf("%w: MAX_PAGES must be positive", ErrInvalidValue)
	}
	if c.ChunkSize < 1 {
		return fmt.Errorf("%w: CHUNK_SIZE must be positive", ErrInvalidValue)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("%w: CHUNK_OVERLAP must be in [0, CHUNK_SIZE)", ErrInvalidValue)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("%w: BATCH_SIZE must be positive", ErrInvalidValue)
	}
	return nil
}
