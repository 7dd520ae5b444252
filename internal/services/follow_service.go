package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	resp "tripmate/internal/models/response_models"
	"tripmate/internal/repositories"
	"tripmate/pkg/utils"
)

type FollowServiceInterface interface {
	Follow(ctx context.Context, followerID, followingID uuid.UUID) error
	Unfollow(ctx context.Context, followerID, followingID uuid.UUID) error
	ListFollowers(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]resp.UserResponse, error)
	ListFollowing(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]resp.UserResponse, error)
	ListFollowingIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type FollowService struct {
	followRepo repositories.FollowRepository
	userRepo   repositories.UserRepository
	logger     *zap.Logger
}

func NewFollowService(followRepo repositories.FollowRepository, userRepo repositories.UserRepository, logger *zap.Logger) FollowServiceInterface {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
		logger:     logger,
	}
}

// Follow is idempotent.
func (s *FollowService) Follow(ctx context.Context, followerID, followingID uuid.UUID) error {
	if followerID == followingID {
		return utils.ErrCannotFollowSelf
	}

	target, err := s.userRepo.FindByID(ctx, followingID)
	if err != nil {
		s.logger.Error("find user", zap.Error(err))
		return utils.ErrDatabaseError
	}
	if target == nil {
		return utils.ErrUserNotFound
	}

	if err := s.followRepo.Create(ctx, followerID, followingID); err != nil {
		s.logger.Error("create follow", zap.Error(err))
		return utils.ErrDatabaseError
	}
	return nil
}

// Unfollow succeeds when there was nothing to remove.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followingID uuid.UUID) error {
	if followerID == followingID {
		return utils.ErrCannotFollowSelf
	}

	if err := s.followRepo.Delete(ctx, followerID, followingID); err != nil {
		s.logger.Error("delete follow", zap.Error(err))
		return utils.ErrDatabaseError
	}
	return nil
}

func (s *FollowService) ListFollowers(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]resp.UserResponse, error) {
	users, err := s.followRepo.ListFollowers(ctx, userID, page, pageSize)
	if err != nil {
		s.logger.Error("list followers", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	return buildUserList(users), nil
}

func (s *FollowService) ListFollowing(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]resp.UserResponse, error) {
	users, err := s.followRepo.ListFollowing(ctx, userID, page, pageSize)
	if err != nil {
		s.logger.Error("list following", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	return buildUserList(users), nil
}

func (s *FollowService) ListFollowingIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	ids, err := s.followRepo.ListFollowingIDs(ctx, userID)
	if err != nil {
		s.logger.Error("list following ids", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	return ids, nil
}
