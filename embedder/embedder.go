package embedder

import "context"

// Embedder turns a sequence of texts into a parallel sequence of
// fixed-length vectors.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
