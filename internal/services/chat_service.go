package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tripmate/internal/models/db_models"
	resp "tripmate/internal/models/response_models"
	"tripmate/internal/repositories"
	"tripmate/pkg/utils"
)

// MaxMessageLength is counted in runes. Rows that outgrow the NOTIFY payload
// limit are still sent, reduced to a partial event.
const MaxMessageLength = 2000

const DefaultMessageLimit = 100

type ChatServiceInterface interface {
	ListChats(ctx context.Context, userID uuid.UUID) ([]resp.ChatResponse, error)
	ListMessages(ctx context.Context, userID, chatID uuid.UUID, limit int) ([]resp.ChatMessageResponse, error)
	SendMessage(ctx context.Context, userID, chatID uuid.UUID, text string) (*resp.ChatMessageResponse, error)
	// CanAccess fails with ErrChatNotFound or ErrNotChatMember.
	CanAccess(ctx context.Context, userID, chatID uuid.UUID) error
}

type ChatService struct {
	chatRepo repositories.ChatRepository
	logger   *zap.Logger
}

func NewChatService(chatRepo repositories.ChatRepository, logger *zap.Logger) ChatServiceInterface {
	return &ChatService{
		chatRepo: chatRepo,
		logger:   logger,
	}
}

func (s *ChatService) ListChats(ctx context.Context, userID uuid.UUID) ([]resp.ChatResponse, error) {
	chats, err := s.chatRepo.ListChatsForUser(ctx, userID)
	if err != nil {
		s.logger.Error("list chats", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	out := make([]resp.ChatResponse, 0, len(chats))
	for i := range chats {
		out = append(out, db_models.BuildChatResponse(&chats[i]))
	}
	return out, nil
}

func (s *ChatService) ListMessages(ctx context.Context, userID, chatID uuid.UUID, limit int) ([]resp.ChatMessageResponse, error) {
	if err := s.CanAccess(ctx, userID, chatID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > DefaultMessageLimit {
		limit = DefaultMessageLimit
	}

	messages, err := s.chatRepo.ListMessages(ctx, chatID, limit)
	if err != nil {
		s.logger.Error("list messages", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	out := make([]resp.ChatMessageResponse, 0, len(messages))
	for i := range messages {
		out = append(out, db_models.BuildChatMessageResponse(&messages[i]))
	}
	return out, nil
}

// SendMessage inserts the message; the insert trigger announces it to
// realtime subscribers.
func (s *ChatService) SendMessage(ctx context.Context, userID, chatID uuid.UUID, text string) (*resp.ChatMessageResponse, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, utils.ErrEmptyMessage
	}
	if utf8.RuneCountInString(text) > MaxMessageLength {
		return nil, utils.ErrMessageTooLong
	}

	if err := s.CanAccess(ctx, userID, chatID); err != nil {
		return nil, err
	}

	message := &db_models.ChatMessage{
		ChatID:  chatID,
		UserID:  userID,
		Message: text,
	}
	if err := s.chatRepo.CreateMessage(ctx, message); err != nil {
		s.logger.Error("create message", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	out := db_models.BuildChatMessageResponse(message)
	return &out, nil
}

func (s *ChatService) CanAccess(ctx context.Context, userID, chatID uuid.UUID) error {
	chat, err := s.chatRepo.FindByID(ctx, chatID)
	if err != nil {
		s.logger.Error("find chat", zap.Error(err))
		return utils.ErrDatabaseError
	}
	if chat == nil {
		return utils.ErrChatNotFound
	}

	member, err := s.chatRepo.IsMember(ctx, chatID, userID)
	if err != nil {
		s.logger.Error("check chat membership", zap.Error(err))
		return utils.ErrDatabaseError
	}
	if !member {
		return utils.ErrNotChatMember
	}
	return nil
}
