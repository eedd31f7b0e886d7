package pipeline

import "context"

// Document is one fetched page: its canonical URL and the extracted text.
type Document struct {
	SourceURL string
	Text      string
}

// Chunk is one overlapping window of a document's text. Index is the 0-based
// position within the document's chunk sequence and is contiguous.
type Chunk struct {
	SourceURL string
	Index     int
	Text      string
}

// Metadata travels with every vector so a search hit can be traced back to
// its source page and position.
type Metadata struct {
	Text       string
	Source     string
	ChunkIndex int
}

// Vector is one embedded chunk ready for upsert.
type Vector struct {
	ID       string
	Values   []float32
	Metadata Metadata
}

// Fetcher returns the extracted text of the target page, or of up to
// maxPages pages when mode is "crawl". An empty result with a nil error is
// valid zero-work input.
type Fetcher interface {
	Fetch(ctx context.Context, target, mode string, maxPages int) ([]Document, error)
}

// Embedder converts one chunk of text into a fixed-dimension vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// VectorStore upserts a batch of vectors into the named index and reports
// how many the store accepted.
type VectorStore interface {
	Upsert(ctx context.Context, indexName string, vectors []Vector) (int, error)
}
