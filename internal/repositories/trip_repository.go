package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tripmate/internal/models/db_models"
)

// ParticipantChange is what a ParticipantDecider wants done to a participant
// row. Delta is added to the trip's spots_filled in the same transaction.
type ParticipantChange struct {
	Status string
	Delta  int
	Remove bool
}

// ParticipantDecider runs inside the transaction with the trip row locked.
type ParticipantDecider func(trip *db_models.Trip, participant *db_models.TripParticipant) (ParticipantChange, error)

// TripEditor changes the editable fields of a locked trip. An error aborts
// the update.
type TripEditor func(trip *db_models.Trip) error

type TripRepository interface {
	Create(ctx context.Context, trip *db_models.Trip) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Trip, error)
	List(ctx context.Context, page, pageSize int) ([]db_models.Trip, error)
	ListByCreators(ctx context.Context, creatorIDs []uuid.UUID, limit int) ([]db_models.Trip, error)
	Update(ctx context.Context, id uuid.UUID, edit TripEditor) (*db_models.Trip, error)
	Delete(ctx context.Context, id uuid.UUID) error

	CreateParticipant(ctx context.Context, participant *db_models.TripParticipant) error
	FindParticipant(ctx context.Context, tripID, userID uuid.UUID) (*db_models.TripParticipant, error)
	FindParticipantByID(ctx context.Context, id uuid.UUID) (*db_models.TripParticipant, error)
	ListParticipants(ctx context.Context, tripID uuid.UUID) ([]db_models.TripParticipant, error)
	UpdateParticipantStatus(ctx context.Context, tripID, participantID uuid.UUID, decide ParticipantDecider) (*db_models.TripParticipant, *db_models.Trip, error)
}

type tripRepository struct {
	db *gorm.DB
}

func NewTripRepository(db *gorm.DB) TripRepository {
	return &tripRepository{
		db: db,
	}
}

// Create inserts the trip together with its group chat.
func (r *tripRepository) Create(ctx context.Context, trip *db_models.Trip) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(trip).Error; err != nil {
			return err
		}

		chat := &db_models.Chat{TripID: trip.ID}
		if err := tx.Omit(clause.Associations).Create(chat).Error; err != nil {
			return err
		}

		trip.Chat = chat
		return nil
	})
}

func (r *tripRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Trip, error) {
	var trip db_models.Trip
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Chat").
		First(&trip, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &trip, nil
}

func (r *tripRepository) List(ctx context.Context, page, pageSize int) ([]db_models.Trip, error) {
	var trips []db_models.Trip
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Chat").
		Order("created_at DESC").
		Scopes(paginate(page, pageSize)).
		Find(&trips).Error
	return trips, err
}

func (r *tripRepository) ListByCreators(ctx context.Context, creatorIDs []uuid.UUID, limit int) ([]db_models.Trip, error) {
	if len(creatorIDs) == 0 {
		return nil, nil
	}

	var trips []db_models.Trip
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Where("creator_id IN ?", creatorIDs).
		Order("created_at DESC").
		Limit(limit).
		Find(&trips).Error
	return trips, err
}

// Update locks the trip row, so edit sees the spots_filled that participant
// transitions are serialised on. It never writes spots_filled or creator_id.
// A missing trip surfaces as gorm.ErrRecordNotFound.
func (r *tripRepository) Update(ctx context.Context, id uuid.UUID, edit TripEditor) (*db_models.Trip, error) {
	var trip db_models.Trip

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&trip, "id = ?", id).Error; err != nil {
			return err
		}

		if err := edit(&trip); err != nil {
			return err
		}

		return tx.Model(&trip).
			Select("title", "description", "location", "latitude", "longitude", "start_date", "end_date", "spots").
			Updates(&trip).Error
	})
	if err != nil {
		return nil, err
	}

	return &trip, nil
}

func (r *tripRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("trip_id = ?", id).Delete(&db_models.Chat{}).Error; err != nil {
			return err
		}
		return tx.Delete(&db_models.Trip{}, "id = ?", id).Error
	})
}

func (r *tripRepository) CreateParticipant(ctx context.Context, participant *db_models.TripParticipant) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(participant).Error
}

func (r *tripRepository) FindParticipant(ctx context.Context, tripID, userID uuid.UUID) (*db_models.TripParticipant, error) {
	var participant db_models.TripParticipant
	err := r.db.WithContext(ctx).
		Where("trip_id = ? AND user_id = ?", tripID, userID).
		First(&participant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &participant, nil
}

func (r *tripRepository) FindParticipantByID(ctx context.Context, id uuid.UUID) (*db_models.TripParticipant, error) {
	var participant db_models.TripParticipant
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&participant, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &participant, nil
}

func (r *tripRepository) ListParticipants(ctx context.Context, tripID uuid.UUID) ([]db_models.TripParticipant, error) {
	var participants []db_models.TripParticipant
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("trip_id = ?", tripID).
		Order("created_at ASC").
		Find(&participants).Error
	return participants, err
}

// UpdateParticipantStatus locks the trip row, lets decide pick the change and
// applies it with the spots_filled adjustment in one transaction. Missing
// rows surface as gorm.ErrRecordNotFound.
func (r *tripRepository) UpdateParticipantStatus(
	ctx context.Context,
	tripID, participantID uuid.UUID,
	decide ParticipantDecider,
) (*db_models.TripParticipant, *db_models.Trip, error) {
	var (
		trip        db_models.Trip
		participant db_models.TripParticipant
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&trip, "id = ?", tripID).Error; err != nil {
			return err
		}

		if err := tx.Where("id = ? AND trip_id = ?", participantID, tripID).
			First(&participant).Error; err != nil {
			return err
		}

		change, err := decide(&trip, &participant)
		if err != nil {
			return err
		}

		if change.Delta != 0 {
			if err := tx.Model(&trip).
				UpdateColumn("spots_filled", gorm.Expr("spots_filled + ?", change.Delta)).Error; err != nil {
				return err
			}
			trip.SpotsFilled += change.Delta
		}

		if change.Remove {
			return tx.Unscoped().Delete(&participant).Error
		}

		if change.Status != participant.Status {
			participant.Status = change.Status
			return tx.Model(&participant).Update("status", change.Status).Error
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return &participant, &trip, nil
}
