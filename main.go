package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"sitedex/features/ingest"
	"sitedex/internal/adapter/firecrawl"
	"sitedex/internal/adapter/gemini"
	pcstore "sitedex/internal/adapter/pinecone"
	"sitedex/internal/config"
	"sitedex/internal/logger"
	"sitedex/internal/middleware"
	"sitedex/internal/pipeline"

	"github.com/pinecone-io/go-pinecone/v2/pinecone"
)

// embeddingDimension is fixed by the text-embedding-004 model and must match
// the index the vectors land in.
const embeddingDimension = 768

func main() {
	slog.SetDefault(slog.New(logger.NewContextHandler(slog.NewJSONHandler(os.Stdout, nil))))

	// 1. Configuration: every missing credential is fatal before any work.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// 2. Embedder
	embedder, err := gemini.NewEmbedder(ctx, cfg.GeminiAPIKey, embeddingDimension)
	if err != nil {
		slog.Error("failed to create embedder", "error", err)
		os.Exit(1)
	}
	defer embedder.Close()

	// 3. Vector store: index existence and dimensionality are settled here,
	// not discovered chunk by chunk at upload time.
	pc, err := pinecone.NewClient(pinecone.NewClientParams{ApiKey: cfg.PineconeAPIKey})
	if err != nil {
		slog.Error("failed to create pinecone client", "error", err)
		os.Exit(1)
	}
	store := pcstore.NewStore(pc)
	defer store.Close()

	for attempt := 1; ; attempt++ {
		err = store.EnsureIndex(ctx, cfg.IndexName, embeddingDimension)
		if err == nil {
			slog.Info("index ready", "index", cfg.IndexName)
			break
		}
		if errors.Is(err, pcstore.ErrIndexDimension) || attempt >= 10 {
			slog.Error("failed to ensure index", "index", cfg.IndexName, "error", err)
			os.Exit(1)
		}
		slog.Warn("failed to ensure index, retrying...", "attempt", attempt, "error", err)
		time.Sleep(2 * time.Second)
	}

	// 4. Fetcher
	fetcher := firecrawl.NewClient(cfg.FirecrawlAPIKey)

	// 5. Pipeline
	ingestor := pipeline.NewIngestor(fetcher, embedder, store, pipeline.Params{
		TargetURL:    cfg.TargetURL,
		CrawlMode:    cfg.CrawlMode,
		MaxPages:     cfg.MaxPages,
		IndexName:    cfg.IndexName,
		ChunkSize:    cfg.ChunkSize,
		ChunkOverlap: cfg.ChunkOverlap,
		BatchSize:    cfg.BatchSize,
	})

	handler := ingest.NewHandler(ingestor)

	// 6. Routes
	http.Handle("POST /ingest", middleware.CorrelationID(http.HandlerFunc(handler.Trigger)))
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	slog.Info("server starting", "addr", addr, "target_url", cfg.TargetURL, "mode", cfg.CrawlMode)
	if err := http.ListenAndServe(addr, nil); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
