package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitedex/internal/config"
)

func setRequiredKeys(t *testing.T) {
	t.Helper()
	t.Setenv("PINECONE_API_KEY", "pc-key")
	t.Setenv("GEMINI_API_KEY", "gm-key")
	t.Setenv("FIRECRAWL_API_KEY", "fc-key")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredKeys(t)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "https://docs.stripe.com/api/", cfg.TargetURL)
	assert.Equal(t, "stripe-api", cfg.IndexName)
	assert.Equal(t, "single", cfg.CrawlMode)
	assert.Equal(t, 10, cfg.MaxPages)
	assert.Equal(t, 1000, cfg.ChunkSize)
	assert.Equal(t, 50, cfg.ChunkOverlap)
	assert.Equal(t, 100, cfg.BatchSize)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredKeys(t)
	t.Setenv("TARGET_URL", "https://example.com/docs")
	t.Setenv("CRAWL_MODE", "crawl")
	t.Setenv("MAX_PAGES", "25")
	t.Setenv("BATCH_SIZE", "50")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/docs", cfg.TargetURL)
	assert.Equal(t, "crawl", cfg.CrawlMode)
	assert.Equal(t, 25, cfg.MaxPages)
	assert.Equal(t, 50, cfg.BatchSize)
}

func TestLoad_FromEnvFile(t *testing.T) {
	setRequiredKeys(t)
	require.NoError(t, os.WriteFile(".env", []byte("INDEX_NAME=from-file"), 0o644))
	defer os.Remove(".env")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.IndexName)
}

func TestLoad_MissingKeysEnumerated(t *testing.T) {
	t.Setenv("PINECONE_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "gm-key")
	t.Setenv("FIRECRAWL_API_KEY", "")

	_, err := config.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrMissingRequired)
	assert.Contains(t, err.Error(), "PINECONE_API_KEY")
	assert.Contains(t, err.Error(), "FIRECRAWL_API_KEY")
	assert.NotContains(t, err.Error(), "GEMINI_API_KEY")
}

func TestValidate_Values(t *testing.T) {
	base := config.Config{
		PineconeAPIKey:  "a",
		GeminiAPIKey:    "b",
		FirecrawlAPIKey: "c",
		TargetURL:       "https://example.com",
		CrawlMode:       "single",
		MaxPages:        10,
		ChunkSize:       1000,
		ChunkOverlap:    50,
		BatchSize:       100,
	}

	t.Run("Valid", func(t *testing.T) {
		cfg := base
		assert.NoError(t, cfg.Validate())
	})

	t.Run("Bad URL Scheme", func(t *testing.T) {
		cfg := base
		cfg.TargetURL = "ftp://example.com"
		assert.ErrorIs(t, cfg.Validate(), config.ErrInvalidValue)
	})

	t.Run("Bad Crawl Mode", func(t *testing.T) {
		cfg := base
		cfg.CrawlMode = "deep"
		assert.ErrorIs(t, cfg.Validate(), config.ErrInvalidValue)
	})

	t.Run("Overlap Not Below Size", func(t *testing.T) {
		cfg := base
		cfg.ChunkOverlap = 1000
		assert.ErrorIs(t, cfg.Validate(), config.ErrInvalidValue)
	})

	t.Run("Zero Batch", func(t *testing.T) {
		cfg := base
		cfg.BatchSize = 0
		assert.ErrorIs(t, cfg.Validate(), config.ErrInvalidValue)
	})
}
