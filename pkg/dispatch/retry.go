package dispatch

import (
	"context"
	"errors"
	"fmt"
)

// Accepted reports which candidate of an ordered list went through.
type Accepted[T any] struct {
	Index int
	Value T
	// Attempts counts candidates tried, the accepted one included.
	Attempts int
}

// FirstAccepted tries candidates in order and stops at the first attempt
// that returns no error. When none is accepted the returned error wraps
// ErrNoCandidateAccepted together with every attempt error, and Index is -1.
// A canceled context stops the loop before the next attempt.
func FirstAccepted[T any](ctx context.Context, candidates []T, attempt func(context.Context, T) error) (Accepted[T], error) {
	res := Accepted[T]{Index: -1}
	if len(candidates) == 0 {
		return res, ErrNoCandidates
	}

	errs := make([]error, 0, len(candidates))
	for i, c := range candidates {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		res.Attempts++
		if err := attempt(ctx, c); err != nil {
			errs = append(errs, fmt.Errorf("candidate %d: %w", i, err))
			continue
		}

		res.Index = i
		res.Value = c
		return res, nil
	}

	return res, errors.Join(append([]error{ErrNoCandidateAccepted}, errs...)...)
}
