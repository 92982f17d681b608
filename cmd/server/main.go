package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hospital-directory/internal/config"
	"hospital-directory/internal/database"
	"hospital-directory/internal/handler"
	"hospital-directory/internal/query"
	"hospital-directory/internal/repository"
	"hospital-directory/internal/service"
	"hospital-directory/internal/validation"
	"hospital-directory/pkg/logger"
	"hospital-directory/pkg/utils"
)

func main() {
	// 1. Load configuration
	cfg := config.LoadConfig()
	logger.Init("hospital-directory", cfg.Log.Level, cfg.Log.Format)
	log := logger.Get()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	// 2. Initialize JWT utilities with config
	utils.InitJWT(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	if err := utils.SetBcryptCost(cfg.Password.BcryptCost); err != nil {
		log.Fatal().Err(err).Msg("invalid BCRYPT_COST")
	}

	// 3. Register custom validators with gin's binding engine
	if err := validation.RegisterWithGin(); err != nil {
		log.Fatal().Err(err).Msg("failed to register validators")
	}
	validator, err := validation.New()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build validator")
	}

	// 4. Initialize storage
	var (
		store  *repository.Store
		health handler.HealthCheck
		db     *gorm.DB
	)
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		log.Warn().Msg("using in-memory storage, data is lost on restart")
		store = repository.NewMemoryStore()
	default:
		db, err = database.Connect(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize database")
		}
		store = repository.NewGormStore(db)
		health = func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}

	// 5. Initialize services
	hospitalService := service.NewHospitalService(store.Hospitals, store.Offerings, store.Audit, query.FlatEarth{})
	testService := service.NewMedicalTestService(store.MedicalTests, store.Offerings, store.Audit, validator)
	offeringService := service.NewOfferingService(store.Offerings, store.Hospitals, store.MedicalTests, store.Audit)
	authService := service.NewAuthService(store.Users, store.Audit)
	auditService := service.NewAuditService(store.Audit)
	cleanupWorker := service.NewTokenCleanupWorker(store.Users, cfg.JWT.CleanupInterval)

	// 6. Start background worker in goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go cleanupWorker.Start(ctx)

	// 7. Setup Gin mode and router
	gin.SetMode(cfg.Server.GinMode)
	router := handler.NewRouter(handler.Handlers{
		Health:      handler.NewHealthHandler(cfg.Storage.Driver, health),
		Auth:        handler.NewAuthHandler(authService, cfg.JWT.RefreshTokenExpiry, cfg.Server.GinMode == gin.ReleaseMode),
		Hospital:    handler.NewHospitalHandler(hospitalService, offeringService, cfg.Query),
		MedicalTest: handler.NewMedicalTestHandler(testService, offeringService, cfg.Query),
		Offering:    handler.NewOfferingHandler(offeringService, cfg.Query),
		Audit:       handler.NewAuditHandler(auditService, cfg.Query),
	}, cfg.CORS.AllowedOrigins)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// 8. Setup graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("storage", cfg.Storage.Driver).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	// Cancel background worker context
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shut down")
	}

	if db != nil {
		if err := database.Close(db); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}
	log.Info().Msg("server exited")
}
