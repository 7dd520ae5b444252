// Package optimistic applies a local state change before the remote write
// that makes it durable, and undoes it if the write fails.
package optimistic

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// Update describes one optimistic change. Apply and Rollback may be nil.
type Update[T any] struct {
	Apply    func()
	Commit   func(ctx context.Context) (T, error)
	Rollback func(err error)
}

// Run applies u, commits it and rolls back on a commit error. The commit's
// result and error are returned unchanged.
func Run[T any](ctx context.Context, u Update[T]) (T, error) {
	if u.Apply != nil {
		u.Apply()
	}

	out, err := u.Commit(ctx)
	if err != nil {
		if u.Rollback != nil {
			u.Rollback(err)
		}
		var zero T
		return zero, err
	}

	return out, nil
}

// Guard collapses concurrent calls that share a key into one.
type Guard struct {
	group singleflight.Group
}

// Once runs fn unless a call with the same key is already in flight, in
// which case it waits for that call and returns its result with shared set.
func Once[T any](g *Guard, key string, fn func() (T, error)) (result T, shared bool, err error) {
	v, err, shared := g.group.Do(key, func() (interface{}, error) {
		return fn()
	})
	if v != nil {
		result = v.(T)
	}
	return result, shared, err
}
