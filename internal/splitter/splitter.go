package splitter

import (
	"fmt"
	"strings"
)

// Chunk is one bounded segment of a source text. Start and End are rune
// offsets into the original text, so Text == original[Start:End] in runes.
type Chunk struct {
	Index int
	Start int
	End   int
	Text  string
}

// separators in preference order: paragraph, line, sentence, word. An
// arbitrary character cut is the last resort.
var separators = []string{"\n\n", "\n", ". ", " "}

// RecursiveSplitter cuts text into chunks of at most chunkSize runes with
// overlap runes shared between consecutive chunks, snapping each cut to the
// best separator available in the second half of the chunk.
type RecursiveSplitter struct {
	chunkSize int
	overlap   int
}

func NewRecursiveSplitter(chunkSize, overlap int) (*RecursiveSplitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("overlap must not be negative, got %d", overlap)
	}
	if overlap >= chunkSize {
		return nil, fmt.Errorf("overlap %d must be smaller than chunk size %d", overlap, chunkSize)
	}
	return &RecursiveSplitter{chunkSize: chunkSize, overlap: overlap}, nil
}

// Split is deterministic and has no side effects. Consecutive chunks start
// exactly overlap runes before the previous chunk's end, so the shared
// region is verbatim repeated context.
func (s *RecursiveSplitter) Split(text string) []Chunk {
	runes := []rune(text)
	n := len(runes)
	if n == 0 {
		return nil
	}

	var chunks []Chunk
	start := 0
	idx := 0
	for start < n {
		end := start + s.chunkSize
		if end >= n {
			end = n
		} else {
			end = s.snap(runes, start, end)
		}

		t := string(runes[start:end])
		if strings.TrimSpace(t) != "" {
			chunks = append(chunks, Chunk{Index: idx, Start: start, End: end, Text: t})
			idx++
		}

		if end >= n {
			break
		}
		next := end - s.overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}
	return chunks
}

// snap moves the cut back to just after the highest-priority separator in
// the second half of the window. The cut never lands inside the first
// overlap runes: that would put the next chunk's start at or before this
// one's, collapsing the shared region. Falling below the floor stalls
// progress, so a hard cut is taken instead.
func (s *RecursiveSplitter) snap(runes []rune, start, end int) int {
	minEnd := start + s.chunkSize/2
	if floor := start + s.overlap + 1; floor > minEnd {
		minEnd = floor
	}
	for _, sep := range separators {
		sepRunes := []rune(sep)
		for i := end - len(sepRunes); i >= minEnd; i-- {
			if matchAt(runes, i, sepRunes) {
				return i + len(sepRunes)
			}
		}
	}
	return end
}

func matchAt(runes []rune, at int, sep []rune) bool {
	for j, r := range sep {
		if runes[at+j] != r {
			return false
		}
	}
	return true
}
