package optimistic

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_CommitSuccessKeepsApplied(t *testing.T) {
	var state []string
	rolledBack := false

	out, err := Run(context.Background(), Update[int]{
		Apply:    func() { state = append(state, "pending") },
		Commit:   func(context.Context) (int, error) { return 7, nil },
		Rollback: func(error) { rolledBack = true },
	})

	require.NoError(t, err)
	assert.Equal(t, 7, out)
	assert.Equal(t, []string{"pending"}, state)
	assert.False(t, rolledBack)
}

func TestRun_CommitFailureRollsBack(t *testing.T) {
	boom := errors.New("boom")
	var state []string
	var seen error

	_, err := Run(context.Background(), Update[string]{
		Apply:  func() { state = append(state, "pending") },
		Commit: func(context.Context) (string, error) { return "", boom },
		Rollback: func(err error) {
			seen = err
			state = state[:0]
		},
	})

	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, seen, boom)
	assert.Empty(t, state)
}

func TestRun_NilHooks(t *testing.T) {
	_, err := Run(context.Background(), Update[struct{}]{
		Commit: func(context.Context) (struct{}, error) { return struct{}{}, errors.New("x") },
	})
	assert.Error(t, err)
}

func TestOnce_SharesInFlightCall(t *testing.T) {
	var g Guard
	var calls int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	results := make([]bool, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, _, err := Once(&g, "follow:u1", func() (bool, error) {
				atomic.AddInt32(&calls, 1)
				<-release
				return true, nil
			})
			assert.NoError(t, err)
			results[i] = v
		}(i)
		// give the first call time to register before the second arrives
		time.Sleep(50 * time.Millisecond)
	}

	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, []bool{true, true}, results)
}

func TestOnce_SequentialCallsRunAgain(t *testing.T) {
	var g Guard
	calls := 0

	for i := 0; i < 2; i++ {
		_, shared, err := Once(&g, "k", func() (int, error) {
			calls++
			return calls, nil
		})
		require.NoError(t, err)
		assert.False(t, shared)
	}
	assert.Equal(t, 2, calls)
}
