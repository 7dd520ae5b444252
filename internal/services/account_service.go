package services

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tripmate/internal/models/db_models"
	"tripmate/internal/models/request_models"
	resp "tripmate/internal/models/response_models"
	"tripmate/internal/repositories"
	"tripmate/internal/storage"
	"tripmate/pkg/utils"
)

type AccountServiceInterface interface {
	Register(ctx context.Context, request request_models.SignUpRequest) (*resp.UserResponse, error)
	Login(ctx context.Context, request request_models.LoginRequest) (*resp.AccountLoginResponse, error)
	GetMe(ctx context.Context, userID uuid.UUID) (*resp.UserResponse, error)
	GetProfile(ctx context.Context, viewerID, userID uuid.UUID) (*resp.ProfileResponse, error)
	GetProfileByUsername(ctx context.Context, viewerID uuid.UUID, username string) (*resp.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, request request_models.UpdateProfileRequest) (*resp.UserResponse, error)
	UploadAvatar(ctx context.Context, userID uuid.UUID, header *multipart.FileHeader) (*resp.UserResponse, error)
	SearchUsers(ctx context.Context, query string, page, pageSize int) ([]resp.UserResponse, error)
	ListUnverified(ctx context.Context, page, pageSize int) ([]resp.UserResponse, error)
	SetVerification(ctx context.Context, userID uuid.UUID, request request_models.VerifyUserRequest) error
}

type AccountService struct {
	userRepo   repositories.UserRepository
	followRepo repositories.FollowRepository
	storage    storage.ObjectStorage
	jwt        *utils.JWTManager
	maxUpload  int64
	logger     *zap.Logger
}

func NewAccountService(
	userRepo repositories.UserRepository,
	followRepo repositories.FollowRepository,
	objectStorage storage.ObjectStorage,
	jwt *utils.JWTManager,
	maxUpload int64,
	logger *zap.Logger,
) AccountServiceInterface {
	return &AccountService{
		userRepo:   userRepo,
		followRepo: followRepo,
		storage:    objectStorage,
		jwt:        jwt,
		maxUpload:  maxUpload,
		logger:     logger,
	}
}

func (a *AccountService) Register(ctx context.Context, request request_models.SignUpRequest) (*resp.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(request.Email))

	existing, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil {
		a.logger.Error("find user by email", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if existing != nil {
		return nil, utils.ErrEmailAlreadyExists
	}

	taken, err := a.userRepo.FindByUsername(ctx, request.Username)
	if err != nil {
		a.logger.Error("find user by username", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if taken != nil {
		return nil, utils.ErrUsernameTaken
	}

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	user := &db_models.User{
		Name:         strings.TrimSpace(request.Name),
		Username:     request.Username,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         db_models.RoleUser,
	}

	if err := a.userRepo.Create(ctx, user); err != nil {
		// lost a race with a concurrent sign-up
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.ErrEmailAlreadyExists
		}
		a.logger.Error("create user", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	out := db_models.BuildPrivateUserResponse(user)
	return &out, nil
}

func (a *AccountService) Login(ctx context.Context, request request_models.LoginRequest) (*resp.AccountLoginResponse, error) {
	user, err := a.userRepo.FindByEmail(ctx, strings.TrimSpace(request.Email))
	if err != nil {
		a.logger.Error("find user by email", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if user == nil {
		return nil, utils.ErrInvalidCredentials
	}

	if err := utils.ComparePasswords(user.PasswordHash, request.Password); err != nil {
		return nil, utils.ErrInvalidCredentials
	}

	token, err := a.jwt.CreateToken(user.ID, user.Role)
	if err != nil {
		a.logger.Error("sign token", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	return &resp.AccountLoginResponse{
		Token: token,
		User:  db_models.BuildPrivateUserResponse(user),
	}, nil
}

func (a *AccountService) GetMe(ctx context.Context, userID uuid.UUID) (*resp.UserResponse, error) {
	user, err := a.requireUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := db_models.BuildPrivateUserResponse(user)
	return &out, nil
}

func (a *AccountService) GetProfile(ctx context.Context, viewerID, userID uuid.UUID) (*resp.ProfileResponse, error) {
	user, err := a.requireUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return a.buildProfile(ctx, viewerID, user)
}

func (a *AccountService) GetProfileByUsername(ctx context.Context, viewerID uuid.UUID, username string) (*resp.ProfileResponse, error) {
	user, err := a.userRepo.FindByUsername(ctx, username)
	if err != nil {
		a.logger.Error("find user by username", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if user == nil {
		return nil, utils.ErrUserNotFound
	}
	return a.buildProfile(ctx, viewerID, user)
}

func (a *AccountService) buildProfile(ctx context.Context, viewerID uuid.UUID, user *db_models.User) (*resp.ProfileResponse, error) {
	counts, err := a.followRepo.Counts(ctx, user.ID)
	if err != nil {
		a.logger.Error("count follows", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	following := false
	if viewerID != user.ID {
		following, err = a.followRepo.Exists(ctx, viewerID, user.ID)
		if err != nil {
			a.logger.Error("check follow", zap.Error(err))
			return nil, utils.ErrDatabaseError
		}
	}

	userResp := db_models.BuildUserResponse(user)
	if viewerID == user.ID {
		userResp = db_models.BuildPrivateUserResponse(user)
	}

	return &resp.ProfileResponse{
		UserResponse: userResp,
		Followers:    counts.Followers,
		Following:    counts.Following,
		IsFollowing:  following,
	}, nil
}

func (a *AccountService) UpdateProfile(ctx context.Context, userID uuid.UUID, request request_models.UpdateProfileRequest) (*resp.UserResponse, error) {
	user, err := a.requireUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if request.Username != nil && !strings.EqualFold(*request.Username, user.Username) {
		taken, err := a.userRepo.FindByUsername(ctx, *request.Username)
		if err != nil {
			a.logger.Error("find user by username", zap.Error(err))
			return nil, utils.ErrDatabaseError
		}
		if taken != nil {
			return nil, utils.ErrUsernameTaken
		}
		user.Username = *request.Username
	}
	if request.Name != nil {
		user.Name = strings.TrimSpace(*request.Name)
	}
	if request.Bio != nil {
		user.Bio = strings.TrimSpace(*request.Bio)
	}

	if err := a.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.ErrUsernameTaken
		}
		a.logger.Error("update user", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	out := db_models.BuildPrivateUserResponse(user)
	return &out, nil
}

// UploadAvatar stores the new image before touching the row; the previous
// image is removed only after the row points at the new one.
func (a *AccountService) UploadAvatar(ctx context.Context, userID uuid.UUID, header *multipart.FileHeader) (*resp.UserResponse, error) {
	user, err := a.requireUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	img, err := storage.ValidateImage(header, a.maxUpload)
	if err != nil {
		return nil, err
	}
	defer img.File.Close()

	key := storage.NewObjectKey("avatars", userID, img.Ext)
	url, err := a.storage.Put(ctx, key, img.File, img.Size, img.ContentType)
	if err != nil {
		a.logger.Error("upload avatar", zap.Error(err))
		return nil, utils.ErrStorageError
	}

	previous := user.ProfileImage
	user.ProfileImage = url
	if err := a.userRepo.Update(ctx, user); err != nil {
		a.logger.Error("update avatar", zap.Error(err))
		a.deleteObject(ctx, key)
		return nil, utils.ErrDatabaseError
	}

	if oldKey, ok := a.storage.KeyFromURL(previous); ok {
		a.deleteObject(ctx, oldKey)
	}

	out := db_models.BuildPrivateUserResponse(user)
	return &out, nil
}

func (a *AccountService) deleteObject(ctx context.Context, key string) {
	if err := a.storage.Delete(ctx, key); err != nil {
		a.logger.Warn("delete orphaned object", zap.String("key", key), zap.Error(err))
	}
}

func (a *AccountService) SearchUsers(ctx context.Context, query string, page, pageSize int) ([]resp.UserResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []resp.UserResponse{}, nil
	}

	users, err := a.userRepo.Search(ctx, query, page, pageSize)
	if err != nil {
		a.logger.Error("search users", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	return buildUserList(users), nil
}

func (a *AccountService) ListUnverified(ctx context.Context, page, pageSize int) ([]resp.UserResponse, error) {
	users, err := a.userRepo.ListUnverified(ctx, page, pageSize)
	if err != nil {
		a.logger.Error("list unverified users", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	out := make([]resp.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, db_models.BuildPrivateUserResponse(&users[i]))
	}
	return out, nil
}

func (a *AccountService) SetVerification(ctx context.Context, userID uuid.UUID, request request_models.VerifyUserRequest) error {
	err := a.userRepo.SetVerification(ctx, userID, request.IsVerified, strings.TrimSpace(request.Reason))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrUserNotFound
		}
		a.logger.Error("set verification", zap.Error(err))
		return utils.ErrDatabaseError
	}
	return nil
}

func (a *AccountService) requireUser(ctx context.Context, userID uuid.UUID) (*db_models.User, error) {
	user, err := a.userRepo.FindByID(ctx, userID)
	if err != nil {
		a.logger.Error("find user", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if user == nil {
		return nil, utils.ErrUserNotFound
	}
	return user, nil
}

func buildUserList(users []db_models.User) []resp.UserResponse {
	out := make([]resp.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, db_models.BuildUserResponse(&users[i]))
	}
	return out
}
