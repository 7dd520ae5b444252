// Package social holds client state for following users and filtering
// user lists.
package social

import (
	"context"
	"sync"

	"tripmate/internal/client/notify"
	"tripmate/internal/optimistic"
)

type FollowAPI interface {
	Follow(ctx context.Context, userID string) error
	Unfollow(ctx context.Context, userID string) error
}

// FollowToggle tracks whom the current user follows. The displayed state
// flips immediately and flips back if the write fails.
type FollowToggle struct {
	api      FollowAPI
	notifier notify.Notifier
	guard    optimistic.Guard

	mu        sync.RWMutex
	following map[string]bool
}

func NewFollowToggle(api FollowAPI, notifier notify.Notifier, following []string) *FollowToggle {
	t := &FollowToggle{
		api:       api,
		notifier:  notifier,
		following: make(map[string]bool, len(following)),
	}
	for _, id := range following {
		t.following[id] = true
	}
	return t
}

func (t *FollowToggle) IsFollowing(userID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.following[userID]
}

// Toggle follows or unfollows userID and returns the resulting state.
// A toggle issued while another for the same user is in flight joins it
// instead of sending a second write.
func (t *FollowToggle) Toggle(ctx context.Context, userID string) (bool, error) {
	state, _, err := optimistic.Once(&t.guard, userID, func() (bool, error) {
		return t.toggle(ctx, userID)
	})
	return state, err
}

func (t *FollowToggle) toggle(ctx context.Context, userID string) (bool, error) {
	was := t.IsFollowing(userID)

	return optimistic.Run(ctx, optimistic.Update[bool]{
		Apply: func() { t.set(userID, !was) },
		Commit: func(ctx context.Context) (bool, error) {
			if was {
				return false, t.api.Unfollow(ctx, userID)
			}
			return true, t.api.Follow(ctx, userID)
		},
		Rollback: func(err error) {
			t.set(userID, was)
			title := "Could not follow"
			if was {
				title = "Could not unfollow"
			}
			t.notifier.Notify(notify.Destructive, title, err.Error())
		},
	})
}

func (t *FollowToggle) set(userID string, following bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if following {
		t.following[userID] = true
	} else {
		delete(t.following, userID)
	}
}
