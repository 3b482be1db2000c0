package services

import (
	"context"
	"log"
)

// sagaStep is one unit of a multi-store operation that cannot run in a
// single transaction. rollback undoes the step when a later step fails;
// steps with nothing to undo leave it nil.
type sagaStep struct {
	name     string
	run      func(ctx context.Context) error
	rollback func(ctx context.Context) error
}

// runSaga executes the steps in order. When a step fails, the rollbacks
// of all completed steps run in reverse order and the step's error is
// returned. A failing rollback is logged and never masks the primary
// error; the caller still sees the step failure.
func runSaga(ctx context.Context, steps []sagaStep) error {
	completed := make([]sagaStep, 0, len(steps))
	for _, step := range steps {
		err := step.run(ctx)
		if err == nil {
			completed = append(completed, step)
			continue
		}

		for i := len(completed) - 1; i >= 0; i-- {
			rollback := completed[i].rollback
			if rollback == nil {
				continue
			}
			if rbErr := rollback(ctx); rbErr != nil {
				compErr := &CompensationError{Step: completed[i].name, Err: rbErr}
				log.Printf("saga: %v (primary: %v)", compErr, err)
			}
		}
		return err
	}
	return nil
}
