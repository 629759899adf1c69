package splitter

import (
	"strings"
	"testing"
)

func TestNewRecursiveSplitterRejectsBadConfig(t *testing.T) {
	cases := []struct {
		name      string
		chunkSize int
		overlap   int
	}{
		{"zero chunk size", 0, 0},
		{"negative overlap", 100, -1},
		{"overlap equals chunk size", 100, 100},
		{"overlap exceeds chunk size", 100, 150},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewRecursiveSplitter(tc.chunkSize, tc.overlap); err == nil {
				t.Errorf("NewRecursiveSplitter(%d, %d) expected error", tc.chunkSize, tc.overlap)
			}
		})
	}
}

func TestSplitShortTextIsSingleChunk(t *testing.T) {
	s, err := NewRecursiveSplitter(100, 10)
	if err != nil {
		t.Fatalf("NewRecursiveSplitter failed: %v", err)
	}
	chunks := s.Split("a short document")
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != "a short document" {
		t.Errorf("unexpected chunk text %q", chunks[0].Text)
	}
}

func TestSplitEmptyText(t *testing.T) {
	s, _ := NewRecursiveSplitter(100, 10)
	if chunks := s.Split(""); chunks != nil {
		t.Errorf("expected no chunks for empty text, got %d", len(chunks))
	}
}

func buildDocument(paragraphs int) string {
	var sb strings.Builder
	for i := 0; i < paragraphs; i++ {
		sb.WriteString("Risk factor paragraph describing exposure to markets, currencies and regulation. ")
		sb.WriteString("Each sentence adds a little more detail about the company's operations.\n\n")
	}
	return sb.String()
}

func TestSplitBoundsAndOverlap(t *testing.T) {
	text := buildDocument(40)
	runes := []rune(text)

	configs := []struct{ chunkSize, overlap int }{
		{200, 20},
		{500, 100},
		{2000, 200},
		{64, 0},
		{100, 60},
		{80, 79},
	}

	for _, cfg := range configs {
		s, err := NewRecursiveSplitter(cfg.chunkSize, cfg.overlap)
		if err != nil {
			t.Fatalf("NewRecursiveSplitter(%d, %d) failed: %v", cfg.chunkSize, cfg.overlap, err)
		}
		chunks := s.Split(text)
		if len(chunks) == 0 {
			t.Fatalf("config %+v produced no chunks", cfg)
		}

		for i, c := range chunks {
			if got := c.End - c.Start; got > cfg.chunkSize {
				t.Errorf("config %+v chunk %d length %d exceeds %d", cfg, i, got, cfg.chunkSize)
			}
			if c.Text != string(runes[c.Start:c.End]) {
				t.Errorf("config %+v chunk %d text does not match its span", cfg, i)
			}
		}

		// coverage: no gaps between consecutive chunks
		for i := 1; i < len(chunks); i++ {
			if chunks[i].Start > chunks[i-1].End {
				t.Errorf("config %+v gap between chunk %d (end %d) and %d (start %d)",
					cfg, i-1, chunks[i-1].End, i, chunks[i].Start)
			}
		}

		// overlap: the next chunk starts exactly overlap runes before the
		// previous end
		for i := 1; i < len(chunks); i++ {
			got := chunks[i-1].End - chunks[i].Start
			if got != cfg.overlap {
				t.Errorf("config %+v chunks %d/%d share %d runes, want %d",
					cfg, i-1, i, got, cfg.overlap)
			}
		}

		// spans strictly advance; no chunk is contained in its predecessor
		for i := 1; i < len(chunks); i++ {
			if chunks[i].Start <= chunks[i-1].Start || chunks[i].End <= chunks[i-1].End {
				t.Errorf("config %+v chunk %d span [%d,%d] does not advance past [%d,%d]",
					cfg, i, chunks[i].Start, chunks[i].End, chunks[i-1].Start, chunks[i-1].End)
			}
		}

		if chunks[len(chunks)-1].End != len(runes) {
			t.Errorf("config %+v last chunk ends at %d, want %d", cfg, chunks[len(chunks)-1].End, len(runes))
		}
	}
}

func TestSplitHighOverlapSeparatorNearWindowStart(t *testing.T) {
	// a paragraph break inside the overlap region must not pull the cut
	// backwards into already-emitted text
	text := strings.Repeat("a", 50) + "\n\n" + strings.Repeat("b", 300)
	s, err := NewRecursiveSplitter(100, 60)
	if err != nil {
		t.Fatalf("NewRecursiveSplitter failed: %v", err)
	}

	chunks := s.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		prev, cur := chunks[i-1], chunks[i]
		if cur.Start <= prev.Start || cur.End <= prev.End {
			t.Errorf("chunk %d span [%d,%d] is not past [%d,%d]", i, cur.Start, cur.End, prev.Start, prev.End)
		}
		if got := prev.End - cur.Start; got != 60 {
			t.Errorf("chunks %d/%d share %d runes, want 60", i-1, i, got)
		}
	}
	if last := chunks[len(chunks)-1]; last.End != len([]rune(text)) {
		t.Errorf("last chunk ends at %d, want %d", last.End, len([]rune(text)))
	}
}

func TestSplitIsDeterministic(t *testing.T) {
	text := buildDocument(10)
	s, _ := NewRecursiveSplitter(300, 50)

	first := s.Split(text)
	second := s.Split(text)
	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

func TestSplitPrefersParagraphBoundaries(t *testing.T) {
	para := strings.Repeat("word ", 30) // 150 runes
	text := para + "\n\n" + para + "\n\n" + para

	s, _ := NewRecursiveSplitter(200, 20)
	chunks := s.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	// the first cut should land on the paragraph break, not mid-word
	if !strings.HasSuffix(chunks[0].Text, "\n\n") {
		t.Errorf("first chunk does not end on a paragraph boundary: %q", chunks[0].Text[len(chunks[0].Text)-20:])
	}
}
