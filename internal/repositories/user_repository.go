package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tripmate/internal/models/db_models"
)

type UserRepository interface {
	Create(ctx context.Context, user *db_models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.User, error)
	FindByEmail(ctx context.Context, email string) (*db_models.User, error)
	FindByUsername(ctx context.Context, username string) (*db_models.User, error)
	Update(ctx context.Context, user *db_models.User) error
	Search(ctx context.Context, query string, page, pageSize int) ([]db_models.User, error)
	ListUnverified(ctx context.Context, page, pageSize int) ([]db_models.User, error)
	SetVerification(ctx context.Context, id uuid.UUID, verified bool, reason string) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{
		db: db,
	}
}

func (r *userRepository) Create(ctx context.Context, user *db_models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*db_models.User, error) {
	return r.findOne(ctx, "LOWER(email) = LOWER(?)", email)
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*db_models.User, error) {
	return r.findOne(ctx, "LOWER(username) = LOWER(?)", username)
}

// findOne returns nil, nil when no row matches.
func (r *userRepository) findOne(ctx context.Context, query string, args ...interface{}) (*db_models.User, error) {
	var user db_models.User
	err := r.db.WithContext(ctx).Where(query, args...).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *db_models.User) error {
	return r.db.WithContext(ctx).
		Model(user).
		Select("name", "username", "bio", "profile_image").
		Updates(user).Error
}

func (r *userRepository) Search(ctx context.Context, query string, page, pageSize int) ([]db_models.User, error) {
	var users []db_models.User
	pattern := "%" + escapeLike(query) + "%"
	err := r.db.WithContext(ctx).
		Where("name ILIKE ? OR username ILIKE ? OR email ILIKE ?", pattern, pattern, pattern).
		Order("username ASC").
		Scopes(paginate(page, pageSize)).
		Find(&users).Error
	return users, err
}

func (r *userRepository) ListUnverified(ctx context.Context, page, pageSize int) ([]db_models.User, error) {
	var users []db_models.User
	err := r.db.WithContext(ctx).
		Where("is_verified = ?", false).
		Order("created_at DESC").
		Scopes(paginate(page, pageSize)).
		Find(&users).Error
	return users, err
}

func (r *userRepository) SetVerification(ctx context.Context, id uuid.UUID, verified bool, reason string) error {
	res := r.db.WithContext(ctx).
		Model(&db_models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_verified":         verified,
			"verification_reason": reason,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
