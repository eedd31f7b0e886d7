package pinecone

import (
	"fmt"

	"github.com/pinecone-io/go-pinecone/v2/pinecone"
	"google.golang.org/protobuf/types/known/structpb"

	"sitedex/internal/pipeline"
)

// toRecords maps pipeline vectors onto the wire representation, carrying the
// chunk text, source URL and chunk index as queryable metadata.
func toRecords(vectors []pipeline.Vector) ([]*pinecone.Vector, error) {
	records := make([]*pinecone.Vector, 0, len(vectors))
	for _, v := range vectors {
		metadata, err := structpb.NewStruct(map[string]interface{}{
			"text":        v.Metadata.Text,
			"source":      v.Metadata.Source,
			"chunk_index": v.Metadata.ChunkIndex,
		})
		if err != nil {
			return nil, fmt.Errorf("metadata for %s: %w", v.ID, err)
		}
		records = append(records, &pinecone.Vector{
			Id:       v.ID,
			Values:   v.Values,
			Metadata: metadata,
		})
	}
	return records, nil
}
