package account_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tripmate/internal/config"
	"tripmate/internal/repositories"
	"tripmate/internal/services"
	"tripmate/internal/storage"
	"tripmate/pkg/utils"
)

var Module = fx.Provide(
	provideAccountService, provideUserRepo, provideJWTManager)

func provideUserRepo(db *gorm.DB) repositories.UserRepository {
	return repositories.NewUserRepository(db)
}

func provideJWTManager(cfg *config.Config) *utils.JWTManager {
	return utils.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
}

func provideAccountService(
	userRepo repositories.UserRepository,
	followRepo repositories.FollowRepository,
	objectStorage storage.ObjectStorage,
	jwt *utils.JWTManager,
	cfg *config.Config,
	logger *zap.Logger,
) services.AccountServiceInterface {
	return services.NewAccountService(userRepo, followRepo, objectStorage, jwt, cfg.MaxUploadBytes, logger)
}
