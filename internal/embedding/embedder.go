package embedding

import (
	"context"
	"fmt"
)

// EmbeddingError reports an embedding provider failure. Callers decide
// whether to retry; no retries happen here.
type EmbeddingError struct {
	Provider string
	Err      error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding provider %s: %v", e.Provider, e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

// Embedder maps text segments to fixed-length vectors. One call may batch
// multiple texts; results are positionally aligned with the input. For a
// fixed model the mapping is deterministic.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Name() string
}
