package pipeline_test

import (
	"context"
	"errors"
	"strings"

	"sitedex/internal/pipeline"
)

// Fakes

type stubFetcher struct {
	docs []pipeline.Document
	err  error
}

func (f *stubFetcher) Fetch(ctx context.Context, target, mode string, maxPages int) ([]pipeline.Document, error) {
	return f.docs, f.err
}

// stubEmbedder returns a fixed-size vector, failing for any chunk whose
// text contains failMarker.
type stubEmbedder struct {
	dimension  int
	failMarker string
	calls      int
}

func (e *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.calls++
	if e.failMarker != "" && strings.Contains(text, e.failMarker) {
		return nil, errors.New("embedding service unavailable")
	}
	return make([]float32, e.dimension), nil
}

// recordingStore captures every batch and can be told to fail the Nth call.
type recordingStore struct {
	batches   [][]pipeline.Vector
	failCalls map[int]bool
	calls     int
}

func (s *recordingStore) Upsert(ctx context.Context, indexName string, vectors []pipeline.Vector) (int, error) {
	s.calls++
	if s.failCalls[s.calls] {
		return 0, errors.New("upsert quota exceeded")
	}
	batch := make([]pipeline.Vector, len(vectors))
	copy(batch, vectors)
	s.batches = append(s.batches, batch)
	return len(vectors), nil
}

func (s *recordingStore) uploadedIDs() []string {
	var ids []string
	for _, b := range s.batches {
		for _, v := range b {
			ids = append(ids, v.ID)
		}
	}
	return ids
}
