package services

import (
	"context"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tripmate/internal/models/db_models"
	"tripmate/internal/models/request_models"
	resp "tripmate/internal/models/response_models"
	"tripmate/internal/repositories"
	"tripmate/internal/storage"
	"tripmate/pkg/utils"
)

type ExperienceServiceInterface interface {
	CreateExperience(ctx context.Context, userID uuid.UUID, request request_models.CreateExperienceRequest, image *multipart.FileHeader) (*resp.ExperienceResponse, error)
	ListExperiences(ctx context.Context, category string, page, pageSize int) ([]resp.ExperienceResponse, error)
	ListUserExperiences(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]resp.ExperienceResponse, error)
	DeleteExperience(ctx context.Context, userID, experienceID uuid.UUID) error
}

type ExperienceService struct {
	experienceRepo repositories.ExperienceRepository
	storage        storage.ObjectStorage
	maxUpload      int64
	logger         *zap.Logger
}

func NewExperienceService(
	experienceRepo repositories.ExperienceRepository,
	objectStorage storage.ObjectStorage,
	maxUpload int64,
	logger *zap.Logger,
) ExperienceServiceInterface {
	return &ExperienceService{
		experienceRepo: experienceRepo,
		storage:        objectStorage,
		maxUpload:      maxUpload,
		logger:         logger,
	}
}

// CreateExperience uploads the image first and inserts the row second. If the
// insert fails the uploaded object is deleted best-effort.
func (s *ExperienceService) CreateExperience(
	ctx context.Context,
	userID uuid.UUID,
	request request_models.CreateExperienceRequest,
	image *multipart.FileHeader,
) (*resp.ExperienceResponse, error) {
	img, err := storage.ValidateImage(image, s.maxUpload)
	if err != nil {
		return nil, err
	}
	defer img.File.Close()

	key := storage.NewObjectKey("experiences", userID, img.Ext)
	url, err := s.storage.Put(ctx, key, img.File, img.Size, img.ContentType)
	if err != nil {
		s.logger.Error("upload experience image", zap.Error(err))
		return nil, utils.ErrStorageError
	}

	experience := &db_models.Experience{
		Title:       strings.TrimSpace(request.Title),
		Description: strings.TrimSpace(request.Description),
		Location:    strings.TrimSpace(request.Location),
		ImageURL:    url,
		ImageKey:    key,
		UserID:      userID,
		Categories:  normalizeCategories(request.Categories),
	}

	if err := s.experienceRepo.Create(ctx, experience); err != nil {
		s.logger.Error("create experience", zap.Error(err))
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			s.logger.Warn("delete orphaned object", zap.String("key", key), zap.Error(delErr))
		}
		return nil, utils.ErrDatabaseError
	}

	out := db_models.BuildExperienceResponse(experience)
	return &out, nil
}

func (s *ExperienceService) ListExperiences(ctx context.Context, category string, page, pageSize int) ([]resp.ExperienceResponse, error) {
	experiences, err := s.experienceRepo.List(ctx, strings.ToLower(strings.TrimSpace(category)), page, pageSize)
	if err != nil {
		s.logger.Error("list experiences", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	return buildExperienceList(experiences), nil
}

func (s *ExperienceService) ListUserExperiences(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]resp.ExperienceResponse, error) {
	experiences, err := s.experienceRepo.ListByUser(ctx, userID, page, pageSize)
	if err != nil {
		s.logger.Error("list user experiences", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	return buildExperienceList(experiences), nil
}

func (s *ExperienceService) DeleteExperience(ctx context.Context, userID, experienceID uuid.UUID) error {
	experience, err := s.experienceRepo.FindByID(ctx, experienceID)
	if err != nil {
		s.logger.Error("find experience", zap.Error(err))
		return utils.ErrDatabaseError
	}
	if experience == nil {
		return utils.ErrExperienceNotFound
	}
	if experience.UserID != userID {
		return utils.ErrForbidden
	}

	if err := s.experienceRepo.Delete(ctx, experienceID); err != nil {
		s.logger.Error("delete experience", zap.Error(err))
		return utils.ErrDatabaseError
	}

	if experience.ImageKey != "" {
		if err := s.storage.Delete(ctx, experience.ImageKey); err != nil {
			s.logger.Warn("delete experience image", zap.String("key", experience.ImageKey), zap.Error(err))
		}
	}
	return nil
}

// normalizeCategories lowercases, trims and de-duplicates, keeping order.
// Comma-separated values in a single field are split.
func normalizeCategories(raw []string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(raw))
	for _, field := range raw {
		for _, c := range strings.Split(field, ",") {
			c = strings.ToLower(strings.TrimSpace(c))
			if c == "" {
				continue
			}
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

func buildExperienceList(experiences []db_models.Experience) []resp.ExperienceResponse {
	out := make([]resp.ExperienceResponse, 0, len(experiences))
	for i := range experiences {
		out = append(out, db_models.BuildExperienceResponse(&experiences[i]))
	}
	return out
}
