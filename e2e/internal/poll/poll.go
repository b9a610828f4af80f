package poll

import (
	"context"
	"fmt"
	"time"
)

// Until calls condition every interval until it reports true, returns an
// error, or the timeout passes.
func Until(ctx context.Context, condition func() (bool, error), timeout, interval time.Duration) error {
	_, err := UntilValue(ctx, func() (struct{}, bool, error) {
		ok, err := condition()
		return struct{}{}, ok, err
	}, timeout, interval)
	return err
}

// UntilValue is Until for conditions that produce a value once satisfied.
func UntilValue[T any](ctx context.Context, condition func() (T, bool, error), timeout, interval time.Duration) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		v, ok, err := condition()
		if err != nil {
			return v, err
		}
		if ok {
			return v, nil
		}

		select {
		case <-ctx.Done():
			var zero T
			return zero, fmt.Errorf("polling cancelled or timed out: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}
