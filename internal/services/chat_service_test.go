package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tripmate/internal/models/db_models"
	"tripmate/internal/repositories"
	"tripmate/pkg/utils"
)

type fakeChatRepo struct {
	repositories.ChatRepository
	chats    map[uuid.UUID]*db_models.Chat
	members  map[uuid.UUID]bool
	messages []*db_models.ChatMessage
}

func (r *fakeChatRepo) FindByID(_ context.Context, id uuid.UUID) (*db_models.Chat, error) {
	return r.chats[id], nil
}

func (r *fakeChatRepo) IsMember(_ context.Context, _, userID uuid.UUID) (bool, error) {
	return r.members[userID], nil
}

func (r *fakeChatRepo) CreateMessage(_ context.Context, m *db_models.ChatMessage) error {
	m.ID = uuid.New()
	m.CreatedAt = int64(len(r.messages) + 1)
	r.messages = append(r.messages, m)
	return nil
}

func (r *fakeChatRepo) ListMessages(_ context.Context, chatID uuid.UUID, limit int) ([]db_models.ChatMessage, error) {
	var out []db_models.ChatMessage
	for _, m := range r.messages {
		if m.ChatID == chatID {
			out = append(out, *m)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func newChatFixture() (ChatServiceInterface, *fakeChatRepo, uuid.UUID, uuid.UUID) {
	chat := &db_models.Chat{TripID: uuid.New()}
	chat.ID = uuid.New()
	member := uuid.New()

	repo := &fakeChatRepo{
		chats:   map[uuid.UUID]*db_models.Chat{chat.ID: chat},
		members: map[uuid.UUID]bool{member: true},
	}
	return NewChatService(repo, zap.NewNop()), repo, chat.ID, member
}

func TestChatService_SendMessage(t *testing.T) {
	svc, repo, chatID, member := newChatFixture()
	ctx := context.Background()

	out, err := svc.SendMessage(ctx, member, chatID, "  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", out.Message)
	assert.Equal(t, member.String(), out.UserID)
	require.Len(t, repo.messages, 1)
}

func TestChatService_SendMessageRejections(t *testing.T) {
	tests := []struct {
		name    string
		user    func(member uuid.UUID) uuid.UUID
		chat    func(chatID uuid.UUID) uuid.UUID
		text    string
		wantErr error
	}{
		{"whitespace only", same, same, " \n\t ", utils.ErrEmptyMessage},
		{"too long", same, same, strings.Repeat("a", MaxMessageLength+1), utils.ErrMessageTooLong},
		{"not a member", other, same, "hi", utils.ErrNotChatMember},
		{"unknown chat", same, other, "hi", utils.ErrChatNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, chatID, member := newChatFixture()

			_, err := svc.SendMessage(context.Background(), tt.user(member), tt.chat(chatID), tt.text)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, repo.messages)
		})
	}
}

func same(id uuid.UUID) uuid.UUID { return id }
func other(uuid.UUID) uuid.UUID   { return uuid.New() }

func TestChatService_MaxLengthCountsRunes(t *testing.T) {
	svc, _, chatID, member := newChatFixture()

	_, err := svc.SendMessage(context.Background(), member, chatID, strings.Repeat("é", MaxMessageLength))
	assert.NoError(t, err)
}

func TestChatService_ListMessagesRequiresMembership(t *testing.T) {
	svc, _, chatID, member := newChatFixture()
	ctx := context.Background()

	for _, text := range []string{"one", "two"} {
		_, err := svc.SendMessage(ctx, member, chatID, text)
		require.NoError(t, err)
	}

	msgs, err := svc.ListMessages(ctx, member, chatID, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "one", msgs[0].Message)

	_, err = svc.ListMessages(ctx, uuid.New(), chatID, 10)
	assert.ErrorIs(t, err, utils.ErrNotChatMember)
}
