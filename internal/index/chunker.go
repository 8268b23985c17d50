package index

import "strings"

// Default chunking parameters. Sized against embedding model input limits:
// ~800 characters keeps each chunk comfortably inside the token budget of
// text-embedding models while staying large enough to carry context.
const (
	DefaultChunkSize    = 800
	DefaultChunkOverlap = 150
)

// separators, in preference order, for choosing a break point inside a
// window: paragraph break, line break, sentence end, word boundary. A hard
// character cut is the last resort.
var separators = []string{"\n\n", "\n", ". ", " "}

// Split greedily divides text into windows of up to size characters,
// breaking at the highest-priority separator found within each window.
// Each window begins overlap characters before the end of the previous one,
// so adjacent chunks share a bounded run of characters and context is not
// severed at chunk boundaries.
//
// Text shorter than size degenerates to a single chunk. Split always makes
// forward progress and terminates.
func Split(text string, size, overlap int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 4
	}

	if len(text) == 0 {
		return nil
	}
	if len(text) <= size {
		return []string{text}
	}

	var chunks []string
	pos := 0
	for pos < len(text) {
		end := pos + size
		if end >= len(text) {
			chunks = append(chunks, text[pos:])
			break
		}

		cut := end
		for _, sep := range separators {
			if idx := strings.LastIndex(text[pos:end], sep); idx > 0 {
				cut = pos + idx + len(sep)
				break
			}
		}

		chunks = append(chunks, text[pos:cut])

		next := cut - overlap
		if next <= pos {
			// Overlap would revisit the same window; skip it to guarantee progress.
			next = cut
		}
		pos = next
	}
	return chunks
}
