// Package watch reacts to rating table uploads: every new table snapshot runs
// through a pipeline of checks and sinks.
package watch

import (
	"context"
)

// Step inspects or acts on one snapshot. Steps of the same stage run
// concurrently and must write to disjoint fields.
type Step[T any] func(ctx context.Context, item *T) error

// Stage groups steps that may run in parallel for a single item.
type Stage[T any] struct {
	steps []Step[T]
}

func NewStage[T any](steps ...Step[T]) Stage[T] {
	return Stage[T]{steps: steps}
}
