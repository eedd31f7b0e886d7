package pipeline

import (
	"crypto/sha256"
	"fmt"
)

// ChunkID derives the stable vector id for a chunk position. The id hashes
// the source URL, not the chunk text, so re-ingesting a page reproduces the
// same ids and the upsert overwrites stale vectors instead of accumulating
// duplicates under new ids.
func ChunkID(sourceURL string, index int) string {
	sum := sha256.Sum256([]byte(sourceURL))
	return fmt.Sprintf("%x-chunk-%d", sum[:8], index)
}
