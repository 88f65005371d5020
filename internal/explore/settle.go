package explore

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// settleAll runs fn for 0..n-1 and returns the results in index order. Tasks
// never fail the group, so one slow or failing task cannot cancel the rest.
// limit <= 0 means unbounded.
func settleAll[T any](ctx context.Context, limit, n int, fn func(ctx context.Context, i int) T) []T {
	results := make([]T, n)
	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i := 0; i < n; i++ {
		g.Go(func() error {
			results[i] = fn(ctx, i)
			return nil
		})
	}
	_ = g.Wait()
	return results
}
