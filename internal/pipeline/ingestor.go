package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"sitedex/internal/text"
)

// Status grades the outcome of a run. A run that processed pages but lost
// some chunks to embedding or upload failures is partial, not failed.
type Status string

const (
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusEmpty   Status = "empty"
)

// Report is the terminal output of one ingestion run.
type Report struct {
	ChunksTotal    int    `json:"chunks_total"`
	ChunksUploaded int    `json:"chunks_uploaded"`
	PagesProcessed int    `json:"pages_processed"`
	IndexName      string `json:"index_name"`
	Status         Status `json:"status"`
}

func (r *Report) Summary() string {
	return fmt.Sprintf("Uploaded %d of %d chunks from %d pages to index '%s'",
		r.ChunksUploaded, r.ChunksTotal, r.PagesProcessed, r.IndexName)
}

// Params configures one Ingestor. Zero values fall back to the defaults
// used by the chunker and the store's batch limit.
type Params struct {
	TargetURL     string
	CrawlMode     string
	MaxPages      int
	IndexName     string
	ChunkSize     int
	ChunkOverlap  int
	BatchSize     int
	EmbedTimeout  time.Duration
	UploadTimeout time.Duration
}

const (
	defaultBatchSize     = 100
	defaultEmbedTimeout  = 60 * time.Second
	defaultUploadTimeout = 60 * time.Second

	// Chunk text stored as metadata is capped so oversized chunk settings
	// cannot blow past the store's per-vector metadata limit.
	metadataTextLimit = 1000
)

// Ingestor sequences fetch -> chunk -> embed -> batch upsert for one run.
// The flow is deliberately sequential: one embedding call and one upload in
// flight at a time, so a failing external call costs at most one chunk or
// one batch.
type Ingestor struct {
	fetcher  Fetcher
	embedder Embedder
	store    VectorStore
	params   Params
}

func NewIngestor(f Fetcher, e Embedder, s VectorStore, p Params) *Ingestor {
	if p.ChunkSize <= 0 {
		p.ChunkSize = text.DefaultChunkSize
	}
	if p.ChunkOverlap < 0 || p.ChunkOverlap >= p.ChunkSize {
		p.ChunkOverlap = 0
		if text.DefaultChunkOverlap < p.ChunkSize {
			p.ChunkOverlap = text.DefaultChunkOverlap
		}
	}
	if p.BatchSize <= 0 {
		p.BatchSize = defaultBatchSize
	}
	if p.EmbedTimeout <= 0 {
		p.EmbedTimeout = defaultEmbedTimeout
	}
	if p.UploadTimeout <= 0 {
		p.UploadTimeout = defaultUploadTimeout
	}
	return &Ingestor{fetcher: f, embedder: e, store: s, params: p}
}

// Run executes one ingestion and always returns a report unless the fetch
// itself failed or the context was cancelled. Per-chunk embedding errors
// and per-batch upload errors are absorbed into the report's counters.
func (in *Ingestor) Run(ctx context.Context) (*Report, error) {
	report := &Report{IndexName: in.params.IndexName}

	docs, err := in.fetcher.Fetch(ctx, in.params.TargetURL, in.params.CrawlMode, in.params.MaxPages)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", in.params.TargetURL, err)
	}

	batch := make([]Vector, 0, in.params.BatchSize)

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.PagesProcessed++

		chunks := splitDocument(doc, in.params.ChunkSize, in.params.ChunkOverlap)
		slog.InfoContext(ctx, "document chunked", "url", doc.SourceURL, "chunks", len(chunks))

		for _, chunk := range chunks {
			report.ChunksTotal++

			values, err := in.embed(ctx, chunk.Text)
			if err != nil {
				// Skip-and-continue: one bad chunk must not abort the run.
				slog.WarnContext(ctx, "embedding failed, skipping chunk",
					"url", chunk.SourceURL, "chunk_index", chunk.Index, "error", err)
				continue
			}

			batch = append(batch, Vector{
				ID:     ChunkID(chunk.SourceURL, chunk.Index),
				Values: values,
				Metadata: Metadata{
					Text:       truncate(chunk.Text, metadataTextLimit),
					Source:     chunk.SourceURL,
					ChunkIndex: chunk.Index,
				},
			})

			if len(batch) >= in.params.BatchSize {
				in.flush(ctx, batch, report)
				batch = batch[:0]
			}
		}
	}

	if len(batch) > 0 {
		in.flush(ctx, batch, report)
	}

	switch {
	case report.ChunksTotal == 0:
		report.Status = StatusEmpty
	case report.ChunksUploaded == report.ChunksTotal:
		report.Status = StatusSuccess
	default:
		report.Status = StatusPartial
	}

	slog.InfoContext(ctx, report.Summary(), "status", report.Status)
	return report, nil
}

func (in *Ingestor) embed(ctx context.Context, chunkText string) ([]float32, error) {
	embedCtx, cancel := context.WithTimeout(ctx, in.params.EmbedTimeout)
	defer cancel()
	return in.embedder.Embed(embedCtx, chunkText)
}

// flush uploads one batch. On failure the whole batch is dropped and the
// run continues; the loss shows up as ChunksUploaded < ChunksTotal.
func (in *Ingestor) flush(ctx context.Context, batch []Vector, report *Report) {
	uploadCtx, cancel := context.WithTimeout(ctx, in.params.UploadTimeout)
	defer cancel()

	accepted, err := in.store.Upsert(uploadCtx, in.params.IndexName, batch)
	if err != nil {
		slog.ErrorContext(ctx, "batch upload failed, dropping batch",
			"index", in.params.IndexName, "size", len(batch), "error", err)
		return
	}
	report.ChunksUploaded += accepted
	slog.InfoContext(ctx, "batch uploaded", "index", in.params.IndexName, "size", accepted,
		"uploaded_so_far", report.ChunksUploaded)
}

// splitDocument trims the page text and windows it into chunks with
// contiguous 0-based indices.
func splitDocument(doc Document, size, overlap int) []Chunk {
	parts := text.Chunk(strings.TrimSpace(doc.Text), size, overlap)
	chunks := make([]Chunk, 0, len(parts))
	for i, p := range parts {
		chunks = append(chunks, Chunk{SourceURL: doc.SourceURL, Index: i, Text: p})
	}
	return chunks
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
