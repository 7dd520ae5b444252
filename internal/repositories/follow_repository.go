package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tripmate/internal/models/db_models"
)

type FollowCounts struct {
	Followers int64
	Following int64
}

type FollowRepository interface {
	Create(ctx context.Context, followerID, followingID uuid.UUID) error
	Delete(ctx context.Context, followerID, followingID uuid.UUID) error
	Exists(ctx context.Context, followerID, followingID uuid.UUID) (bool, error)
	ListFollowingIDs(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error)
	ListFollowers(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]db_models.User, error)
	ListFollowing(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]db_models.User, error)
	Counts(ctx context.Context, userID uuid.UUID) (FollowCounts, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{
		db: db,
	}
}

// Create is idempotent: following someone twice leaves one row.
func (r *followRepository) Create(ctx context.Context, followerID, followingID uuid.UUID) error {
	follow := &db_models.Follow{FollowerID: followerID, FollowingID: followingID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "follower_id"}, {Name: "following_id"}},
			DoNothing: true,
		}).
		Create(follow).Error
}

// Delete removes the row outright so a later follow can insert again. No
// matching row is not an error.
func (r *followRepository) Delete(ctx context.Context, followerID, followingID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Unscoped().
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&db_models.Follow{}).Error
}

func (r *followRepository) Exists(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db_models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

func (r *followRepository) ListFollowingIDs(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&db_models.Follow{}).
		Where("follower_id = ?", followerID).
		Pluck("following_id", &ids).Error
	return ids, err
}

func (r *followRepository) ListFollowers(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]db_models.User, error) {
	var users []db_models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN follows f ON f.follower_id = users.id AND f.deleted_at IS NULL").
		Where("f.following_id = ?", userID).
		Order("f.created_at DESC").
		Scopes(paginate(page, pageSize)).
		Find(&users).Error
	return users, err
}

func (r *followRepository) ListFollowing(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]db_models.User, error) {
	var users []db_models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN follows f ON f.following_id = users.id AND f.deleted_at IS NULL").
		Where("f.follower_id = ?", userID).
		Order("f.created_at DESC").
		Scopes(paginate(page, pageSize)).
		Find(&users).Error
	return users, err
}

func (r *followRepository) Counts(ctx context.Context, userID uuid.UUID) (FollowCounts, error) {
	var counts FollowCounts
	err := r.db.WithContext(ctx).Raw(`
SELECT
    COUNT(*) FILTER (WHERE following_id = @user) AS followers,
    COUNT(*) FILTER (WHERE follower_id = @user)  AS following
FROM follows
WHERE deleted_at IS NULL AND (following_id = @user OR follower_id = @user)`,
		map[string]interface{}{"user": userID},
	).Scan(&counts).Error
	return counts, err
}
