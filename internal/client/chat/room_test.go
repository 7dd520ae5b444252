package chat

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripmate/internal/client/notify"
	resp "tripmate/internal/models/response_models"
	"tripmate/internal/realtime"
	"tripmate/pkg/utils"
)

const (
	chatID = "chat-1"
	selfID = "user-self"
)

type fakeSender struct {
	calls  int
	result *resp.ChatMessageResponse
	err    error
	// before runs inside SendMessage, ahead of the response.
	before func()
}

func (f *fakeSender) SendMessage(_ context.Context, _ string, text string) (*resp.ChatMessageResponse, error) {
	f.calls++
	if f.before != nil {
		f.before()
	}
	if f.err != nil {
		return nil, f.err
	}
	out := *f.result
	out.Message = text
	return &out, nil
}

type notice struct {
	level notify.Level
	title string
}

type recordingNotifier struct {
	notices []notice
}

func (r *recordingNotifier) Notify(level notify.Level, title, _ string) {
	r.notices = append(r.notices, notice{level, title})
}

func insertEvent(t *testing.T, id, userID, text string) realtime.Event {
	t.Helper()
	record, err := json.Marshal(map[string]interface{}{
		"id":         id,
		"chat_id":    chatID,
		"user_id":    userID,
		"message":    text,
		"created_at": int64(1700000000000),
	})
	require.NoError(t, err)
	return realtime.Event{Table: "chat_messages", Type: realtime.EventInsert, Record: record}
}

func canonical(id string) *resp.ChatMessageResponse {
	return &resp.ChatMessageResponse{ID: id, ChatID: chatID, UserID: selfID, CreatedAt: "2023-11-14T22:13:20Z"}
}

func TestSend_EmptyMessageIsNotWritten(t *testing.T) {
	sender := &fakeSender{result: canonical("m1")}
	room := NewRoom(chatID, selfID, sender, &recordingNotifier{})

	cleared := false
	room.OnClearInput = func() { cleared = true }

	err := room.Send(context.Background(), "   \n\t")
	assert.ErrorIs(t, err, utils.ErrEmptyMessage)
	assert.Zero(t, sender.calls)
	assert.Empty(t, room.Messages())
	assert.False(t, cleared)
}

func TestSend_ResponseThenEvent(t *testing.T) {
	sender := &fakeSender{result: canonical("m1")}
	room := NewRoom(chatID, selfID, sender, &recordingNotifier{})

	var cleared, scrolled bool
	room.OnClearInput = func() { cleared = true }
	room.OnScroll = func() { scrolled = true }

	require.NoError(t, room.Send(context.Background(), " hello "))
	assert.True(t, cleared)
	assert.True(t, scrolled)

	assert.False(t, room.Apply(insertEvent(t, "m1", selfID, "hello")))

	msgs := room.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "m1", msgs[0].ID)
	assert.Equal(t, "hello", msgs[0].Text)
	assert.False(t, msgs[0].Pending)
}

func TestSend_EventThenResponse(t *testing.T) {
	sender := &fakeSender{result: canonical("m1")}
	room := NewRoom(chatID, selfID, sender, &recordingNotifier{})

	// the realtime echo lands while the request is still in flight
	sender.before = func() {
		assert.True(t, room.Apply(insertEvent(t, "m1", selfID, "hello")))
	}

	require.NoError(t, room.Send(context.Background(), "hello"))

	msgs := room.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "m1", msgs[0].ID)
	assert.False(t, msgs[0].Pending)
}

func TestSend_EventFromOtherUserIsKept(t *testing.T) {
	sender := &fakeSender{result: canonical("m2")}
	room := NewRoom(chatID, selfID, sender, &recordingNotifier{})

	sender.before = func() {
		room.Apply(insertEvent(t, "m1", "user-other", "hello"))
	}

	require.NoError(t, room.Send(context.Background(), "hello"))

	msgs := room.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "m2", msgs[0].ID)
	assert.Equal(t, "m1", msgs[1].ID)
}

func TestSend_FailureRemovesProvisional(t *testing.T) {
	sender := &fakeSender{err: errors.New("network down")}
	notifier := &recordingNotifier{}
	room := NewRoom(chatID, selfID, sender, notifier)
	room.Load([]resp.ChatMessageResponse{{ID: "m0", ChatID: chatID, UserID: "user-other", Message: "hi"}})

	sender.before = func() {
		msgs := room.Messages()
		require.Len(t, msgs, 2)
		assert.True(t, msgs[1].Pending)
		assert.Contains(t, msgs[1].TempID, tempIDPrefix)
	}

	err := room.Send(context.Background(), "hello")
	require.Error(t, err)

	msgs := room.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "m0", msgs[0].ID)
	require.Len(t, notifier.notices, 1)
	assert.Equal(t, notify.Destructive, notifier.notices[0].level)
}

func TestApply_IgnoresForeignRows(t *testing.T) {
	room := NewRoom(chatID, selfID, &fakeSender{}, &recordingNotifier{})

	other := insertEvent(t, "m1", "u", "x")
	other.Table = "trips"
	assert.False(t, room.Apply(other))

	update := insertEvent(t, "m1", "u", "x")
	update.Type = realtime.EventUpdate
	assert.False(t, room.Apply(update))

	record, _ := json.Marshal(map[string]string{"id": "m9", "chat_id": "chat-2"})
	assert.False(t, room.Apply(realtime.Event{Table: "chat_messages", Type: realtime.EventInsert, Record: record}))

	assert.True(t, room.Apply(insertEvent(t, "m1", "u", "x")))
	assert.False(t, room.Apply(insertEvent(t, "m1", "u", "x")))

	msgs := room.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "2023-11-14T22:13:20Z", msgs[0].CreatedAt)
}

func TestSend_SameTextFromAnotherSessionIsKept(t *testing.T) {
	sender := &fakeSender{result: canonical("mine")}
	room := NewRoom(chatID, selfID, sender, &recordingNotifier{})

	// the same user posts identical text elsewhere while this send is in flight
	sender.before = func() {
		assert.True(t, room.Apply(insertEvent(t, "other-device", selfID, "ok")))
	}

	require.NoError(t, room.Send(context.Background(), "ok"))
	assert.False(t, room.Apply(insertEvent(t, "mine", selfID, "ok")))

	var ids []string
	for _, m := range room.Messages() {
		ids = append(ids, m.ID)
		assert.False(t, m.Pending)
	}
	assert.ElementsMatch(t, []string{"mine", "other-device"}, ids)
}

func TestApply_PartialEventWaitsForMerge(t *testing.T) {
	room := NewRoom(chatID, selfID, &fakeSender{}, &recordingNotifier{})
	room.Load([]resp.ChatMessageResponse{{ID: "m0", ChatID: chatID, UserID: "u", Message: "hi"}})

	ev := insertEvent(t, "m1", "u", "")
	ev.Partial = true
	assert.False(t, room.Apply(ev))
	require.Len(t, room.Messages(), 1)

	assert.True(t, room.Merge([]resp.ChatMessageResponse{
		{ID: "m0", ChatID: chatID, UserID: "u", Message: "hi"},
		{ID: "m1", ChatID: chatID, UserID: "u", Message: "a very long message"},
	}))
	msgs := room.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "a very long message", msgs[1].Text)

	assert.False(t, room.Merge([]resp.ChatMessageResponse{{ID: "m1", ChatID: chatID}}))
}
