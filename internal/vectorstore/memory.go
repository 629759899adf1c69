package vectorstore

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
)

// MemStore is an in-memory Store used for tests and for running without a
// database. The dimensionality is fixed by the first record added.
type MemStore struct {
	mu         sync.Mutex
	dimensions int
	records    []Record
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Add(ctx context.Context, records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// validate the whole batch before committing anything, including the
	// store's dimensionality
	dims := s.dimensions
	for _, rec := range records {
		if dims == 0 {
			dims = len(rec.Vector)
		}
		if len(rec.Vector) != dims {
			return &WriteError{Got: len(rec.Vector), Want: dims}
		}
	}
	s.dimensions = dims
	s.records = append(s.records, records...)
	return nil
}

func (s *MemStore) Query(ctx context.Context, vector []float32, k int) ([]Result, error) {
	if k <= 0 {
		k = 3
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	type scored struct {
		rec   Record
		score float64
	}
	candidates := make([]scored, 0, len(s.records))
	for _, rec := range s.records {
		candidates = append(candidates, scored{rec: rec, score: cosine(vector, rec.Vector)})
	}

	// stable sort keeps insertion order on ties
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if k > len(candidates) {
		k = len(candidates)
	}
	results := make([]Result, 0, k)
	for _, c := range candidates[:k] {
		meta := map[string]interface{}{}
		for key, val := range c.rec.Metadata {
			meta[key] = val
		}
		meta["ticker"] = c.rec.Ticker
		meta["filing_type"] = c.rec.FilingType
		meta["accession_no"] = c.rec.AccessionNo
		results = append(results, Result{Text: c.rec.Text, Score: c.score, Metadata: meta})
	}
	return results, nil
}

func (s *MemStore) DeleteByFiling(ctx context.Context, ticker, filingType string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0]
	var removed int64
	for _, rec := range s.records {
		if strings.EqualFold(rec.Ticker, ticker) && rec.FilingType == filingType {
			removed++
			continue
		}
		kept = append(kept, rec)
	}
	s.records = kept
	return removed, nil
}

// Len reports the number of stored records.
func (s *MemStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
