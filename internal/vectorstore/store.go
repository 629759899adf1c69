package vectorstore

import (
	"context"
	"fmt"
)

// Record is one embedded chunk with its filing namespace.
type Record struct {
	Ticker      string
	FilingType  string
	AccessionNo string
	ChunkIndex  int
	Text        string
	Vector      []float32
	Metadata    map[string]interface{}
}

// Result is one retrieved chunk. Score is cosine similarity in [-1, 1],
// higher is closer.
type Result struct {
	Text     string
	Score    float64
	Metadata map[string]interface{}
}

// WriteError reports an append that violated the index's established
// dimensionality.
type WriteError struct {
	Got  int
	Want int
	Err  error
}

func (e *WriteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("vector index write: %v", e.Err)
	}
	return fmt.Sprintf("vector index write: dimension mismatch: got %d, index has %d", e.Got, e.Want)
}

func (e *WriteError) Unwrap() error { return e.Err }

// DeleteError reports a failed per-filing removal.
type DeleteError struct {
	Ticker     string
	FilingType string
	Err        error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("vector index delete %s %s: %v", e.Ticker, e.FilingType, e.Err)
}

func (e *DeleteError) Unwrap() error { return e.Err }

// QueryError reports an unreachable or failing index at query time.
type QueryError struct {
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("vector index query: %v", e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// Store is a durable collection of embedded chunks supporting
// nearest-neighbor retrieval. Appends only; individual records are removed
// per filing, never updated.
type Store interface {
	// Add appends records; every vector must match the index dimensionality.
	Add(ctx context.Context, records []Record) error
	// Query returns the min(k, size) nearest records, highest similarity
	// first, ties broken by insertion order. An empty index yields an empty
	// result, not an error.
	Query(ctx context.Context, vector []float32, k int) ([]Result, error)
	// DeleteByFiling removes all records of one (ticker, filing type) pair
	// and reports how many were removed.
	DeleteByFiling(ctx context.Context, ticker, filingType string) (int64, error)
}
