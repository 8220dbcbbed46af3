// ABOUTME: Tests for the overlapping text chunker
// ABOUTME: Verifies size bounds, overlap, ordering, and determinism
package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplit_EmptyText(t *testing.T) {
	c := New(100, 10)

	tests := []struct {
		name string
		text string
	}{
		{"empty string", ""},
		{"whitespace only", "   "},
		{"tabs and newlines", "\t\n\r"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := c.Split(tt.text)
			if chunks != nil {
				t.Errorf("expected nil chunks, got %d", len(chunks))
			}
		})
	}
}

func TestSplit_ShortText(t *testing.T) {
	c := New(100, 10)
	text := "A short document."

	chunks := c.Split(text)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != text {
		t.Errorf("chunk = %q, want %q", chunks[0], text)
	}
}

func TestSplit_SizeBound(t *testing.T) {
	c := New(50, 10)
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 20)

	chunks := c.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	for i, chunk := range chunks {
		if n := utf8.RuneCountInString(chunk); n > 50 {
			t.Errorf("chunk %d has %d runes, want <= 50", i, n)
		}
		if strings.TrimSpace(chunk) == "" {
			t.Errorf("chunk %d is empty", i)
		}
	}
}

func TestSplit_OrderingMatchesSource(t *testing.T) {
	c := New(40, 5)
	text := "First sentence here. Second sentence follows. Third sentence now. Fourth one closes it out."

	chunks := c.Split(text)

	// Each chunk's first occurrence in the source must be non-decreasing
	lastPos := -1
	for i, chunk := range chunks {
		pos := strings.Index(text, chunk)
		if pos < 0 {
			// Overlapping chunks are substrings of the source by construction
			t.Fatalf("chunk %d not found in source: %q", i, chunk)
		}
		if pos < lastPos {
			t.Errorf("chunk %d out of order: position %d after %d", i, pos, lastPos)
		}
		lastPos = pos
	}
}

func TestSplit_Deterministic(t *testing.T) {
	c := New(64, 16)
	text := strings.Repeat("Deterministic chunking is required for reproducible ingestion. ", 10)

	first := c.Split(text)
	second := c.Split(text)

	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

func TestSplit_PrefersSentenceBoundary(t *testing.T) {
	c := New(60, 10)
	text := "This is the first sentence of the fixture. This is the second sentence of it."

	chunks := c.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", len(chunks))
	}
	if !strings.HasSuffix(chunks[0], ".") {
		t.Errorf("first chunk should end at a sentence boundary, got %q", chunks[0])
	}
}

func TestSplit_CoversWholeText(t *testing.T) {
	c := New(30, 8)
	text := "alpha bravo charlie delta echo foxtrot golf hotel india juliet kilo lima"

	chunks := c.Split(text)

	// Every word of the source must appear in some chunk
	for _, word := range strings.Fields(text) {
		found := false
		for _, chunk := range chunks {
			if strings.Contains(chunk, word) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("word %q missing from all chunks", word)
		}
	}
}

func TestSplit_NoOverlapStall(t *testing.T) {
	// Overlap close to size must still make forward progress
	c := New(10, 9)
	text := strings.Repeat("abcdefghij", 10)

	chunks := c.Split(text)
	if len(chunks) == 0 {
		t.Fatal("expected chunks")
	}
	if len(chunks) > 100 {
		t.Errorf("chunker failed to make progress: %d chunks", len(chunks))
	}
}
