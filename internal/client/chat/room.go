// Package chat keeps the local message list of one trip chat in step with
// the server: sends show up immediately and are reconciled with the
// canonical rows once the server or the realtime stream confirms them.
package chat

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/google/uuid"

	"tripmate/internal/client/notify"
	resp "tripmate/internal/models/response_models"
	"tripmate/internal/optimistic"
	"tripmate/internal/realtime"
	"tripmate/pkg/utils"
)

const tempIDPrefix = "temp-"

type Sender interface {
	SendMessage(ctx context.Context, chatID, text string) (*resp.ChatMessageResponse, error)
}

// Message is one entry of the local list. Pending entries have only a
// TempID until the canonical ID is known.
type Message struct {
	ID        string
	TempID    string
	UserID    string
	Text      string
	CreatedAt string
	Pending   bool
}

type Room struct {
	mu       sync.Mutex
	chatID   string
	selfID   string
	sender   Sender
	notifier notify.Notifier
	messages []Message

	// OnClearInput and OnScroll run after a provisional message is added.
	// OnChange runs after every list change. All are optional and are
	// called without the room lock held.
	OnClearInput func()
	OnScroll     func()
	OnChange     func()
}

func NewRoom(chatID, selfID string, sender Sender, notifier notify.Notifier) *Room {
	return &Room{
		chatID:   chatID,
		selfID:   selfID,
		sender:   sender,
		notifier: notifier,
	}
}

func (r *Room) ChatID() string {
	return r.chatID
}

// Load replaces the list with history fetched from the server.
func (r *Room) Load(history []resp.ChatMessageResponse) {
	r.mu.Lock()
	r.messages = r.messages[:0]
	for _, m := range history {
		r.messages = append(r.messages, fromResponse(m))
	}
	r.mu.Unlock()
	r.changed()
}

// Messages returns a copy of the list in display order.
func (r *Room) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// Send shows text at once, then writes it. On failure the provisional entry
// is removed and a destructive notice is shown. Blank text is rejected
// without a write.
func (r *Room) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return utils.ErrEmptyMessage
	}

	tempID := tempIDPrefix + uuid.NewString()
	canonical, err := optimistic.Run(ctx, optimistic.Update[*resp.ChatMessageResponse]{
		Apply: func() {
			r.mu.Lock()
			r.messages = append(r.messages, Message{
				TempID:  tempID,
				UserID:  r.selfID,
				Text:    text,
				Pending: true,
			})
			r.mu.Unlock()

			if r.OnClearInput != nil {
				r.OnClearInput()
			}
			if r.OnScroll != nil {
				r.OnScroll()
			}
			r.changed()
		},
		Commit: func(ctx context.Context) (*resp.ChatMessageResponse, error) {
			return r.sender.SendMessage(ctx, r.chatID, text)
		},
		Rollback: func(err error) {
			r.mu.Lock()
			r.removeAt(r.indexByTempID(tempID))
			r.mu.Unlock()

			r.notifier.Notify(notify.Destructive, "Message not sent", err.Error())
			r.changed()
		},
	})
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.confirm(tempID, fromResponse(*canonical))
	r.mu.Unlock()
	r.changed()
	return nil
}

// confirm swaps the provisional entry for the canonical one, or drops it when
// the realtime stream already delivered that row. Callers hold r.mu.
func (r *Room) confirm(tempID string, canonical Message) {
	idx := r.indexByTempID(tempID)
	if idx < 0 {
		if r.indexByID(canonical.ID) < 0 {
			r.messages = append(r.messages, canonical)
		}
		return
	}

	if other := r.indexByID(canonical.ID); other >= 0 && other != idx {
		r.removeAt(idx)
		return
	}

	canonical.TempID = tempID
	r.messages[idx] = canonical
}

type messageRow struct {
	ID        string `json:"id"`
	ChatID    string `json:"chat_id"`
	UserID    string `json:"user_id"`
	Message   string `json:"message"`
	CreatedAt int64  `json:"created_at"`
}

// Apply folds a realtime insert into the list and reports whether the list
// changed. Rows are matched by canonical id only: a row already present is
// ignored, anything else is appended. Our own provisional entry is resolved
// by Send once the server answers. Partial events carry no text and are
// left to Merge.
func (r *Room) Apply(ev realtime.Event) bool {
	if ev.Table != "chat_messages" || ev.Type != realtime.EventInsert || ev.Partial {
		return false
	}

	var row messageRow
	if err := json.Unmarshal(ev.Record, &row); err != nil || row.ID == "" || row.ChatID != r.chatID {
		return false
	}
	msg := Message{
		ID:        row.ID,
		UserID:    row.UserID,
		Text:      row.Message,
		CreatedAt: utils.FormatMillis(row.CreatedAt),
	}

	r.mu.Lock()
	changed := r.add(msg)
	r.mu.Unlock()

	if changed {
		r.changed()
	}
	return changed
}

// Merge adds fetched messages that are not in the list yet, in the order
// given, and reports whether anything was added.
func (r *Room) Merge(messages []resp.ChatMessageResponse) bool {
	r.mu.Lock()
	changed := false
	for _, m := range messages {
		if r.add(fromResponse(m)) {
			changed = true
		}
	}
	r.mu.Unlock()

	if changed {
		r.changed()
	}
	return changed
}

func (r *Room) add(msg Message) bool {
	if msg.ID == "" || r.indexByID(msg.ID) >= 0 {
		return false
	}
	r.messages = append(r.messages, msg)
	return true
}

func (r *Room) indexByTempID(tempID string) int {
	for i := range r.messages {
		if r.messages[i].TempID == tempID {
			return i
		}
	}
	return -1
}

func (r *Room) indexByID(id string) int {
	if id == "" {
		return -1
	}
	for i := range r.messages {
		if r.messages[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *Room) removeAt(idx int) {
	if idx < 0 {
		return
	}
	r.messages = append(r.messages[:idx], r.messages[idx+1:]...)
}

func (r *Room) changed() {
	if r.OnChange != nil {
		r.OnChange()
	}
}

func fromResponse(m resp.ChatMessageResponse) Message {
	return Message{
		ID:        m.ID,
		UserID:    m.UserID,
		Text:      m.Message,
		CreatedAt: m.CreatedAt,
	}
}
