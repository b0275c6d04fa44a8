package runid

import (
	"context"
	"math/rand"
)

// key is the context key for the compile run ID.
type key struct{}

// NewContext returns a copy of parent carrying a fresh random run ID,
// along with the generated ID. Every compile run gets its own so
// concurrent runs can be told apart by event subscribers.
func NewContext(parent context.Context) (context.Context, int64) {
	id := rand.Int63()
	return context.WithValue(parent, key{}, id), id
}

// FromContext extracts the run ID from ctx.
// It returns the ID and whether it was present.
func FromContext(ctx context.Context) (int64, bool) {
	v := ctx.Value(key{})
	id, ok := v.(int64)
	return id, ok
}
