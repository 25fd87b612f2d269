package watch

import (
	"context"
	"sync"

	"roamify/internal/logging"
)

// Pipeline applies its stages in order to every item from a channel. Within a
// stage the steps run concurrently; a failing step is logged and does not stop
// the item.
type Pipeline[T any] struct {
	stages []Stage[T]
}

func NewPipeline[T any](stages ...Stage[T]) *Pipeline[T] {
	return &Pipeline[T]{stages: stages}
}

// Process runs until in is closed and returns the number of items handled.
func (p *Pipeline[T]) Process(ctx context.Context, in <-chan *T) int {
	n := 0
	for item := range in {
		p.Run(ctx, item)
		n++
	}
	return n
}

// Run applies all stages to a single item.
func (p *Pipeline[T]) Run(ctx context.Context, item *T) {
	for _, stage := range p.stages {
		var wg sync.WaitGroup
		for _, step := range stage.steps {
			wg.Add(1)
			go func(step Step[T]) {
				defer wg.Done()
				if err := step(ctx, item); err != nil {
					logging.Warn().Err(err).Msg("Step failed")
				}
			}(step)
		}
		wg.Wait()
	}
}
