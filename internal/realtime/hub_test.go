package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func recv(t *testing.T, sub *Subscription) (Event, bool) {
	t.Helper()
	select {
	case ev, ok := <-sub.Events():
		return ev, ok
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}, false
	}
}

func assertEmpty(t *testing.T, sub *Subscription) {
	t.Helper()
	select {
	case ev := <-sub.Events():
		t.Fatalf("unexpected event %+v", ev)
	default:
	}
}

func TestHub_FiltersByTableAndColumn(t *testing.T) {
	hub := NewHub(4, zap.NewNop())
	ctx := context.Background()

	room := hub.Subscribe(ctx, Filter{Table: "chat_messages", Column: "chat_id", Value: "c1"})
	other := hub.Subscribe(ctx, Filter{Table: "chat_messages", Column: "chat_id", Value: "c2"})
	all := hub.Subscribe(ctx, Filter{Table: "chat_messages"})

	hub.Publish(Event{
		Table:  "chat_messages",
		Type:   EventInsert,
		Record: json.RawMessage(`{"id":"m1","chat_id":"c1","message":"hi"}`),
	})

	ev, ok := recv(t, room)
	require.True(t, ok)
	assert.Equal(t, EventInsert, ev.Type)
	_, ok = recv(t, all)
	require.True(t, ok)
	assertEmpty(t, other)
}

func TestHub_DeleteMatchesOnOldRow(t *testing.T) {
	hub := NewHub(4, zap.NewNop())
	sub := hub.Subscribe(context.Background(), Filter{Table: "trip_participants", Column: "trip_id", Value: "t1"})

	hub.Publish(Event{
		Table:  "trip_participants",
		Type:   EventDelete,
		Record: json.RawMessage(`null`),
		Old:    json.RawMessage(`{"id":"p1","trip_id":"t1"}`),
	})

	ev, ok := recv(t, sub)
	require.True(t, ok)
	assert.Equal(t, EventDelete, ev.Type)
}

func TestHub_NumericColumnsCompareAsText(t *testing.T) {
	hub := NewHub(1, zap.NewNop())
	sub := hub.Subscribe(context.Background(), Filter{Table: "trips", Column: "spots", Value: "12345678901"})

	hub.Publish(Event{Table: "trips", Type: EventUpdate, Record: json.RawMessage(`{"spots":12345678901}`)})

	_, ok := recv(t, sub)
	assert.True(t, ok)
}

func TestHub_FullSubscriberDoesNotBlock(t *testing.T) {
	hub := NewHub(1, zap.NewNop())
	sub := hub.Subscribe(context.Background(), Filter{Table: "trips"})

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			hub.Publish(Event{Table: "trips", Type: EventUpdate, Record: json.RawMessage(`{}`)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
	assert.Len(t, sub.Events(), 1)
}

func TestHub_ContextCancelClosesSubscription(t *testing.T) {
	hub := NewHub(1, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	sub := hub.Subscribe(ctx, Filter{Table: "follows"})
	require.Equal(t, 1, hub.Len())

	cancel()

	_, ok := recv(t, sub)
	assert.False(t, ok)
	assert.Equal(t, 0, hub.Len())

	// closing twice is harmless
	sub.Close()
}

func TestParseEvent(t *testing.T) {
	ev, err := ParseEvent([]byte(`{"table":"follows","type":"INSERT","record":{"follower_id":"a"},"old":null}`))
	require.NoError(t, err)
	assert.Equal(t, "follows", ev.Table)
	assert.Equal(t, EventInsert, ev.Type)

	_, err = ParseEvent([]byte(`{"type":"INSERT"}`))
	assert.Error(t, err)

	_, err = ParseEvent([]byte(`not json`))
	assert.Error(t, err)
}

func TestHub_AnyOfSeveralFilters(t *testing.T) {
	hub := NewHub(4, zap.NewNop())
	sub := hub.Subscribe(context.Background(),
		Filter{Table: "trips", Column: "id", Value: "t1"},
		Filter{Table: "trip_participants", Column: "trip_id", Value: "t1"},
	)

	hub.Publish(Event{Table: "trips", Type: EventUpdate, Record: json.RawMessage(`{"id":"t1","spots_filled":2}`)})
	hub.Publish(Event{Table: "trip_participants", Type: EventInsert, Record: json.RawMessage(`{"id":"p1","trip_id":"t1"}`)})
	hub.Publish(Event{Table: "trips", Type: EventUpdate, Record: json.RawMessage(`{"id":"t2"}`)})

	first, _ := recv(t, sub)
	second, _ := recv(t, sub)
	assert.Equal(t, "trips", first.Table)
	assert.Equal(t, "trip_participants", second.Table)
	assertEmpty(t, sub)
}
