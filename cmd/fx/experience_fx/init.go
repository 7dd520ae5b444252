package experience_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tripmate/internal/config"
	"tripmate/internal/repositories"
	"tripmate/internal/services"
	"tripmate/internal/storage"
)

var Module = fx.Provide(provideExperienceRepo, provideExperienceService)

func provideExperienceRepo(db *gorm.DB) repositories.ExperienceRepository {
	return repositories.NewExperienceRepository(db)
}

func provideExperienceService(
	experienceRepo repositories.ExperienceRepository,
	objectStorage storage.ObjectStorage,
	cfg *config.Config,
	logger *zap.Logger,
) services.ExperienceServiceInterface {
	return services.NewExperienceService(experienceRepo, objectStorage, cfg.MaxUploadBytes, logger)
}
