package social

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripmate/internal/client/notify"
	resp "tripmate/internal/models/response_models"
)

type fakeFollowAPI struct {
	follows   atomic.Int32
	unfollows atomic.Int32
	release   chan struct{}
	err       error
}

func (f *fakeFollowAPI) wait() {
	if f.release != nil {
		<-f.release
	}
}

func (f *fakeFollowAPI) Follow(context.Context, string) error {
	f.follows.Add(1)
	f.wait()
	return f.err
}

func (f *fakeFollowAPI) Unfollow(context.Context, string) error {
	f.unfollows.Add(1)
	f.wait()
	return f.err
}

type countingNotifier struct {
	mu          sync.Mutex
	destructive int
}

func (c *countingNotifier) Notify(level notify.Level, _, _ string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if level == notify.Destructive {
		c.destructive++
	}
}

func TestToggle_FollowsAndUnfollows(t *testing.T) {
	api := &fakeFollowAPI{}
	toggle := NewFollowToggle(api, &countingNotifier{}, nil)

	state, err := toggle.Toggle(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, state)
	assert.True(t, toggle.IsFollowing("u1"))

	state, err = toggle.Toggle(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, state)
	assert.False(t, toggle.IsFollowing("u1"))

	assert.EqualValues(t, 1, api.follows.Load())
	assert.EqualValues(t, 1, api.unfollows.Load())
}

func TestToggle_DoubleClickWritesOnce(t *testing.T) {
	api := &fakeFollowAPI{release: make(chan struct{})}
	toggle := NewFollowToggle(api, &countingNotifier{}, nil)

	var wg sync.WaitGroup
	results := make([]bool, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			state, err := toggle.Toggle(context.Background(), "u1")
			assert.NoError(t, err)
			results[i] = state
		}(i)
		if i == 0 {
			// let the first toggle reach the write
			require.Eventually(t, func() bool { return api.follows.Load() == 1 }, time.Second, time.Millisecond)
		}
	}

	time.Sleep(50 * time.Millisecond)
	close(api.release)
	wg.Wait()

	assert.EqualValues(t, 1, api.follows.Load())
	assert.Zero(t, api.unfollows.Load())
	assert.Equal(t, []bool{true, true}, results)
	assert.True(t, toggle.IsFollowing("u1"))
}

func TestToggle_FailureRestoresState(t *testing.T) {
	api := &fakeFollowAPI{err: errors.New("offline")}
	notifier := &countingNotifier{}
	toggle := NewFollowToggle(api, notifier, []string{"u1"})

	_, err := toggle.Toggle(context.Background(), "u1")
	require.Error(t, err)
	assert.True(t, toggle.IsFollowing("u1"))
	assert.Equal(t, 1, notifier.destructive)
}

func TestFilterUsers(t *testing.T) {
	users := []resp.UserResponse{
		{ID: "1", Name: "Ana Lima", Username: "ana", Email: "ana@example.com"},
		{ID: "2", Name: "Bruno", Username: "bruno_trips", Email: "b@mail.io"},
		{ID: "3", Name: "Carla", Username: "carla", Email: "carla@EXAMPLE.com"},
	}

	ids := func(in []resp.UserResponse) []string {
		var out []string
		for _, u := range in {
			out = append(out, u.ID)
		}
		return out
	}

	assert.Equal(t, []string{"1", "2", "3"}, ids(FilterUsers(users, "")))
	assert.Empty(t, FilterUsers(users, "   "))
	assert.Equal(t, []string{"1"}, ids(FilterUsers(users, "ana lima")))
	assert.Equal(t, []string{"1"}, ids(FilterUsers(users, "a l")))
	assert.Empty(t, FilterUsers(users, " lima "))
	assert.Equal(t, []string{"1"}, ids(FilterUsers(users, "LIMA")))
	assert.Equal(t, []string{"2"}, ids(FilterUsers(users, "trips")))
	assert.Equal(t, []string{"1", "3"}, ids(FilterUsers(users, "example")))
	assert.Empty(t, FilterUsers(users, "zed"))
}
