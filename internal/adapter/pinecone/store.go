package pinecone

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pinecone-io/go-pinecone/v2/pinecone"

	"sitedex/internal/pipeline"
)

const (
	serverlessCloud  = pinecone.Aws
	serverlessRegion = "us-east-1"

	readyPollInterval = 2 * time.Second
)

var (
	// ErrIndexDimension means the existing index was created with a different
	// dimensionality than the embedder produces. This is a configuration
	// error and is surfaced before any chunk-level work begins.
	ErrIndexDimension = errors.New("index dimension mismatch")
	// ErrUnknownIndex means a batch was addressed to an index this store was
	// not bound to.
	ErrUnknownIndex = errors.New("unknown index")
)

// Store uploads vector batches to a Pinecone index. EnsureIndex must be
// called once before Upsert; it binds the store to a single index whose
// dimensionality has been verified.
type Store struct {
	client    *pinecone.Client
	conn      *pinecone.IndexConnection
	indexName string
	pollWait  time.Duration
}

func NewStore(client *pinecone.Client) *Store {
	return &Store{client: client, pollWait: readyPollInterval}
}

// EnsureIndex creates a serverless index if none exists under name, waits
// for it to become ready, and verifies its dimensionality matches what the
// embedder will produce.
func (s *Store) EnsureIndex(ctx context.Context, name string, dimension int32) error {
	indexes, err := s.client.ListIndexes(ctx)
	if err != nil {
		return fmt.Errorf("list indexes: %w", err)
	}

	var idx *pinecone.Index
	for _, existing := range indexes {
		if existing.Name == name {
			idx = existing
			break
		}
	}

	if idx == nil {
		slog.InfoContext(ctx, "creating index", "index", name, "dimension", dimension)
		if _, err := s.client.CreateServerlessIndex(ctx, &pinecone.CreateServerlessIndexRequest{
			Name:      name,
			Dimension: dimension,
			Metric:    pinecone.Cosine,
			Cloud:     serverlessCloud,
			Region:    serverlessRegion,
		}); err != nil {
			return fmt.Errorf("create index %q: %w", name, err)
		}
		if idx, err = s.waitReady(ctx, name); err != nil {
			return err
		}
	}

	if idx.Dimension != dimension {
		return fmt.Errorf("%w: index %q has dimension %d, want %d",
			ErrIndexDimension, name, idx.Dimension, dimension)
	}

	conn, err := s.client.Index(pinecone.NewIndexConnParams{Host: idx.Host})
	if err != nil {
		return fmt.Errorf("connect to index %q: %w", name, err)
	}
	s.conn = conn
	s.indexName = name
	return nil
}

func (s *Store) waitReady(ctx context.Context, name string) (*pinecone.Index, error) {
	ticker := time.NewTicker(s.pollWait)
	defer ticker.Stop()

	for {
		idx, err := s.client.DescribeIndex(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("describe index %q: %w", name, err)
		}
		if idx.Status != nil && idx.Status.Ready {
			return idx, nil
		}
		slog.InfoContext(ctx, "waiting for index to become ready", "index", name)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Upsert submits the whole batch in one call. Pinecone reports how many
// vectors it accepted; on success that equals the batch size.
func (s *Store) Upsert(ctx context.Context, indexName string, vectors []pipeline.Vector) (int, error) {
	if indexName != s.indexName || s.conn == nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownIndex, indexName)
	}

	records, err := toRecords(vectors)
	if err != nil {
		return 0, err
	}

	accepted, err := s.conn.UpsertVectors(ctx, records)
	if err != nil {
		return 0, fmt.Errorf("upsert %d vectors: %w", len(records), err)
	}
	return int(accepted), nil
}

func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}
