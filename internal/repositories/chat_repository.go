package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tripmate/internal/models/db_models"
)

type ChatRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Chat, error)
	FindByTripID(ctx context.Context, tripID uuid.UUID) (*db_models.Chat, error)
	CreateMessage(ctx context.Context, message *db_models.ChatMessage) error
	ListMessages(ctx context.Context, chatID uuid.UUID, limit int) ([]db_models.ChatMessage, error)
	ListChatsForUser(ctx context.Context, userID uuid.UUID) ([]db_models.Chat, error)
	IsMember(ctx context.Context, chatID, userID uuid.UUID) (bool, error)
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{
		db: db,
	}
}

func (r *chatRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Chat, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *chatRepository) FindByTripID(ctx context.Context, tripID uuid.UUID) (*db_models.Chat, error) {
	return r.findOne(ctx, "trip_id = ?", tripID)
}

func (r *chatRepository) findOne(ctx context.Context, query string, args ...interface{}) (*db_models.Chat, error) {
	var chat db_models.Chat
	err := r.db.WithContext(ctx).
		Preload("Trip").
		Where(query, args...).
		First(&chat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &chat, nil
}

func (r *chatRepository) CreateMessage(ctx context.Context, message *db_models.ChatMessage) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(message).Error
}

// ListMessages returns the newest limit messages, oldest first.
func (r *chatRepository) ListMessages(ctx context.Context, chatID uuid.UUID, limit int) ([]db_models.ChatMessage, error) {
	var messages []db_models.ChatMessage
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("chat_id = ?", chatID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// memberTrips selects the ids of trips the user created or was approved on.
func (r *chatRepository) memberTrips(ctx context.Context, userID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&db_models.Trip{}).
		Select("trips.id").
		Where("trips.creator_id = ? OR EXISTS (?)", userID,
			r.db.Model(&db_models.TripParticipant{}).
				Select("1").
				Where("trip_participants.trip_id = trips.id AND trip_participants.user_id = ? AND trip_participants.status = ?",
					userID, db_models.ParticipantApproved))
}

func (r *chatRepository) ListChatsForUser(ctx context.Context, userID uuid.UUID) ([]db_models.Chat, error) {
	var chats []db_models.Chat
	err := r.db.WithContext(ctx).
		Preload("Trip").
		Where("trip_id IN (?)", r.memberTrips(ctx, userID)).
		Order("created_at DESC").
		Find(&chats).Error
	return chats, err
}

// IsMember reports whether the user created the chat's trip or is one of its
// approved participants.
func (r *chatRepository) IsMember(ctx context.Context, chatID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db_models.Chat{}).
		Where("id = ? AND trip_id IN (?)", chatID, r.memberTrips(ctx, userID)).
		Count(&count).Error
	return count > 0, err
}
