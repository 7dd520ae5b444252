package follow_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tripmate/internal/repositories"
	"tripmate/internal/services"
)

var Module = fx.Provide(provideFollowRepo, provideFollowService)

func provideFollowRepo(db *gorm.DB) repositories.FollowRepository {
	return repositories.NewFollowRepository(db)
}

func provideFollowService(
	followRepo repositories.FollowRepository,
	userRepo repositories.UserRepository,
	logger *zap.Logger,
) services.FollowServiceInterface {
	return services.NewFollowService(followRepo, userRepo, logger)
}
