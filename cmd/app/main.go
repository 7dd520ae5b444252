package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"tripmate/cmd/fx/account_fx"
	"tripmate/cmd/fx/chat_fx"
	"tripmate/cmd/fx/config_fx"
	"tripmate/cmd/fx/controllers_fx"
	"tripmate/cmd/fx/db_fx"
	"tripmate/cmd/fx/experience_fx"
	"tripmate/cmd/fx/feed_fx"
	"tripmate/cmd/fx/follow_fx"
	"tripmate/cmd/fx/geocode_fx"
	"tripmate/cmd/fx/logger_fx"
	"tripmate/cmd/fx/memcache_fx"
	"tripmate/cmd/fx/realtime_fx"
	"tripmate/cmd/fx/storage_fx"
	"tripmate/cmd/fx/trip_fx"
	"tripmate/internal/api/controllers"
	"tripmate/internal/config"
	"tripmate/internal/models/db_models"
	"tripmate/pkg/middleware"
	"tripmate/pkg/utils"
)

func main() {
	app := fx.New(
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger}
		}),
		config_fx.Module,
		logger_fx.Module,
		db_fx.Module,
		memcache_fx.Module,
		storage_fx.Module,
		account_fx.Module,
		follow_fx.Module,
		trip_fx.Module,
		experience_fx.Module,
		chat_fx.Module,
		feed_fx.Module,
		geocode_fx.Module,
		realtime_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine, cfg *config.Config, logger *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info("starting HTTP server", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal("HTTP server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

type RouterParams struct {
	fx.In

	Config     *config.Config
	JWTManager *utils.JWTManager

	Accounts    *controllers.AccountController
	Admin       *controllers.AdminController
	Users       *controllers.UserController
	Trips       *controllers.TripController
	Experiences *controllers.ExperienceController
	Chats       *controllers.ChatController
	Feed        *controllers.FeedController
	Geocode     *controllers.GeocodeController
	Realtime    *controllers.RealtimeController
}

func ProvideRouter(p RouterParams) *gin.Engine {
	if p.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.CORSMiddleware())
	r.MaxMultipartMemory = p.Config.MaxUploadBytes

	RegisterRoutes(r, p)

	return r
}

func RegisterRoutes(r *gin.Engine, p RouterParams) {
	r.GET("/healthz", func(c *gin.Context) {
		utils.RespondSuccess(c, nil, "ok")
	})

	accountsGroup := r.Group("/accounts")
	accountsGroup.POST("/register", p.Accounts.Register)
	accountsGroup.POST("/login", p.Accounts.Login)

	auth := r.Group("/", middleware.JWTAuthMiddleware(p.JWTManager))

	meGroup := auth.Group("/accounts/me")
	meGroup.GET("", p.Accounts.GetMe)
	meGroup.PUT("", p.Accounts.UpdateMe)
	meGroup.POST("/avatar", p.Accounts.UploadAvatar)

	usersGroup := auth.Group("/users")
	usersGroup.GET("/search", p.Users.SearchUsers)
	usersGroup.GET("/by-username/:username", p.Users.GetUserByUsername)
	usersGroup.GET("/:id", p.Users.GetUser)
	usersGroup.GET("/:id/followers", p.Users.ListFollowers)
	usersGroup.GET("/:id/following", p.Users.ListFollowing)
	usersGroup.GET("/:id/experiences", p.Users.ListUserExperiences)
	usersGroup.POST("/:id/follow", p.Users.Follow)
	usersGroup.DELETE("/:id/follow", p.Users.Unfollow)

	tripsGroup := auth.Group("/trips")
	tripsGroup.GET("", p.Trips.ListTrips)
	tripsGroup.POST("", p.Trips.CreateTrip)
	tripsGroup.GET("/:tripId", p.Trips.GetTrip)
	tripsGroup.PUT("/:tripId", p.Trips.UpdateTrip)
	tripsGroup.DELETE("/:tripId", p.Trips.DeleteTrip)
	tripsGroup.POST("/:tripId/join", p.Trips.JoinTrip)
	tripsGroup.GET("/:tripId/participants", p.Trips.ListParticipants)
	tripsGroup.PUT("/:tripId/participants/:participantId", p.Trips.UpdateParticipant)

	experiencesGroup := auth.Group("/experiences")
	experiencesGroup.GET("", p.Experiences.ListExperiences)
	experiencesGroup.POST("", p.Experiences.CreateExperience)
	experiencesGroup.DELETE("/:experienceId", p.Experiences.DeleteExperience)

	chatsGroup := auth.Group("/chats")
	chatsGroup.GET("", p.Chats.ListChats)
	chatsGroup.GET("/:chatId/messages", p.Chats.ListMessages)
	chatsGroup.POST("/:chatId/messages", p.Chats.SendMessage)

	auth.GET("/feed", p.Feed.GetFeed)

	geocodeGroup := auth.Group("/geocode")
	geocodeGroup.GET("/search", p.Geocode.Search)
	geocodeGroup.GET("/reverse", p.Geocode.Reverse)

	auth.GET("/realtime/:resource/:id", p.Realtime.Stream)

	adminGroup := auth.Group("/admin", middleware.RoleMiddleware(db_models.RoleAdmin))
	adminGroup.GET("/users/unverified", p.Admin.ListUnverified)
	adminGroup.PUT("/users/:id/verification", p.Admin.SetVerification)
}
