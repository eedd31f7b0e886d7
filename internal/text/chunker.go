package text

const (
	// DefaultChunkSize and DefaultChunkOverlap match the embedding model's
	// comfortable input length for documentation-style prose.
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 50
)

// Chunk splits text into a sequence of overlapping windows of at most size
// characters, where consecutive windows share overlap characters. Boundaries
// are pure rune offsets; no word or sentence snapping is attempted.
//
// The returned slice is empty for empty input, and contains exactly one
// element equal to text when the whole text fits in a single window. The
// final window is truncated to the remaining text, never padded, and no
// window is emitted that is fully contained in the previous one.
func Chunk(text string, size, overlap int) []string {
	if text == "" || size <= 0 || overlap < 0 || overlap >= size {
		return nil
	}

	runes := []rune(text)
	stride := size - overlap

	var chunks []string
	for start := 0; start < len(runes); start += stride {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}
