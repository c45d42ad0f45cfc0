package services

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestChunkTextEmptyInput(t *testing.T) {
	chunker := NewTextChunker()

	if got := chunker.ChunkText("", 1000, 200); got != nil {
		t.Errorf("ChunkText(\"\") = %v, want nil", got)
	}
	if got := chunker.ChunkText("\n\n\n\n", 1000, 200); got != nil {
		t.Errorf("ChunkText(blank paragraphs) = %v, want nil", got)
	}
}

func TestChunkTextShortTextSingleChunk(t *testing.T) {
	chunker := NewTextChunker()
	text := "A short CV paragraph about backend work.\n\nAnd a second paragraph about education."

	chunks := chunker.ChunkText(text, 1000, 200)
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1: %v", len(chunks), chunks)
	}
	if !strings.Contains(chunks[0], "backend work") || !strings.Contains(chunks[0], "education") {
		t.Errorf("chunk lost content: %q", chunks[0])
	}
}

func TestChunkTextSplitsLongText(t *testing.T) {
	chunker := NewTextChunker()

	var sb strings.Builder
	for i := 0; i < 40; i++ {
		sb.WriteString("Led a project that shipped a critical feature for the platform team.\n\n")
	}

	chunks := chunker.ChunkText(sb.String(), 500, 100)
	if len(chunks) < 2 {
		t.Fatalf("long text should split into multiple chunks, got %d", len(chunks))
	}

	for i, chunk := range chunks {
		if utf8.RuneCountInString(chunk) > 500+100 {
			t.Errorf("chunk %d is %d runes, beyond size plus overlap", i, utf8.RuneCountInString(chunk))
		}
	}
}

func TestChunkTextOverlapCarriesContext(t *testing.T) {
	chunker := NewTextChunker()

	var sb strings.Builder
	for i := 0; i < 20; i++ {
		sb.WriteString("Paragraph with enough words to matter in the chunking decision here.\n\n")
	}

	chunks := chunker.ChunkText(sb.String(), 300, 80)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	// The tail of each chunk reappears at the head of the next.
	for i := 1; i < len(chunks); i++ {
		tail := chunks[i-1][len(chunks[i-1])-20:]
		if !strings.Contains(chunks[i], tail) {
			t.Errorf("chunk %d does not carry overlap from chunk %d", i, i-1)
		}
	}
}

func TestChunkTextOversizedParagraphFallsBackToSentences(t *testing.T) {
	chunker := NewTextChunker()

	// One giant paragraph, no blank lines.
	sentence := "We built the ingestion service and scaled it to handle peak traffic. "
	text := strings.Repeat(sentence, 30)

	chunks := chunker.ChunkText(text, 400, 50)
	if len(chunks) < 2 {
		t.Fatalf("oversized paragraph should still split, got %d chunks", len(chunks))
	}
}

func TestChunkTextDegenerateParameters(t *testing.T) {
	chunker := NewTextChunker()
	text := strings.Repeat("Some text to chunk. ", 100)

	// Zero size and overlap larger than the size both get corrected instead of
	// looping or panicking.
	if chunks := chunker.ChunkText(text, 0, -5); len(chunks) == 0 {
		t.Error("zero max size should fall back to the default, not drop text")
	}
	if chunks := chunker.ChunkText(text, 100, 500); len(chunks) == 0 {
		t.Error("overlap above chunk size should be clamped, not drop text")
	}
}
