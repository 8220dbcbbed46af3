// ABOUTME: Splits document text into overlapping fixed-size passages
// ABOUTME: Unit of measure is runes; boundaries prefer sentence and word breaks
package chunker

import (
	"strings"
	"unicode"
)

// Chunker splits raw document text into overlapping chunks of bounded
// size. Size and overlap are measured in runes. Splitting is
// deterministic for identical input and parameters.
type Chunker struct {
	size    int
	overlap int
}

// New creates a Chunker. Overlap must be smaller than size; callers are
// expected to validate via config before constructing.
func New(size, overlap int) *Chunker {
	return &Chunker{size: size, overlap: overlap}
}

// Split returns the ordered chunks of text. Every chunk is at most size
// runes, consecutive chunks share overlap runes of context, and no chunk
// is empty or whitespace-only.
func (c *Chunker) Split(text string) []string {
	runes := []rune(text)
	if len(strings.TrimSpace(text)) == 0 {
		return nil
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + c.size
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = breakPoint(runes, start, end)
		}

		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end == len(runes) {
			break
		}

		next := end - c.overlap
		if next <= start {
			// Overlap would stall progress; advance past the cut instead
			next = end
		}
		start = next
	}

	return chunks
}

// breakPoint walks backwards from the size limit looking for a sentence
// end, then any whitespace, so chunks do not cut words in half. Falls
// back to the hard limit when the window has no break at all.
func breakPoint(runes []rune, start, limit int) int {
	// Only search the back half of the window, so chunks stay reasonably full
	floor := start + (limit-start)/2

	for i := limit - 1; i > floor; i-- {
		if isSentenceEnd(runes, i) {
			return i + 1
		}
	}
	for i := limit - 1; i > floor; i-- {
		if unicode.IsSpace(runes[i]) {
			return i + 1
		}
	}
	return limit
}

func isSentenceEnd(runes []rune, i int) bool {
	switch runes[i] {
	case '.', '!', '?', '\n':
	default:
		return false
	}
	// A period counts as a sentence end only when followed by space or EOL
	return i+1 >= len(runes) || unicode.IsSpace(runes[i+1])
}
