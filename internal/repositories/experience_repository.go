package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tripmate/internal/models/db_models"
)

type ExperienceRepository interface {
	Create(ctx context.Context, experience *db_models.Experience) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Experience, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]db_models.Experience, error)
	List(ctx context.Context, category string, page, pageSize int) ([]db_models.Experience, error)
	ListByUsers(ctx context.Context, userIDs []uuid.UUID, limit int) ([]db_models.Experience, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type experienceRepository struct {
	db *gorm.DB
}

func NewExperienceRepository(db *gorm.DB) ExperienceRepository {
	return &experienceRepository{
		db: db,
	}
}

func (r *experienceRepository) Create(ctx context.Context, experience *db_models.Experience) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(experience).Error
}

func (r *experienceRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Experience, error) {
	var experience db_models.Experience
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&experience, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &experience, nil
}

func (r *experienceRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]db_models.Experience, error) {
	var experiences []db_models.Experience
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Scopes(paginate(page, pageSize)).
		Find(&experiences).Error
	return experiences, err
}

// List filters on one category when category is non-empty.
func (r *experienceRepository) List(ctx context.Context, category string, page, pageSize int) ([]db_models.Experience, error) {
	query := r.db.WithContext(ctx).Preload("User")
	if category != "" {
		query = query.Where("? = ANY(categories)", category)
	}

	var experiences []db_models.Experience
	err := query.
		Order("created_at DESC").
		Scopes(paginate(page, pageSize)).
		Find(&experiences).Error
	return experiences, err
}

func (r *experienceRepository) ListByUsers(ctx context.Context, userIDs []uuid.UUID, limit int) ([]db_models.Experience, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	var experiences []db_models.Experience
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id IN ?", userIDs).
		Order("created_at DESC").
		Limit(limit).
		Find(&experiences).Error
	return experiences, err
}

func (r *experienceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&db_models.Experience{}, "id = ?", id).Error
}
