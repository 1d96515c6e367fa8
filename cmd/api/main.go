package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/notemeet/notemeet/internal/api/handlers"
	"github.com/notemeet/notemeet/internal/api/router"
	"github.com/notemeet/notemeet/internal/config"
	"github.com/notemeet/notemeet/internal/pkg/logger"
	"github.com/notemeet/notemeet/internal/pkg/validator"
	"github.com/notemeet/notemeet/internal/repository/postgres"
	"github.com/notemeet/notemeet/internal/services"
	"github.com/notemeet/notemeet/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	db, err := postgres.New(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db, migrations.GetFS()); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	planRepo := postgres.NewPlanRepository(db)
	subRepo := postgres.NewSubscriptionRepository(db)
	meetingRepo := postgres.NewMeetingRepository(db)
	storageRepo := postgres.NewStorageRepository(db)

	// Services
	userService := services.NewUserService(userRepo, cfg.Auth.BCryptCost, log)
	planService := services.NewPlanService(planRepo, log)
	subService := services.NewSubscriptionService(subRepo, planRepo, userRepo, meetingRepo, storageRepo, log)
	meetingService := services.NewMeetingService(meetingRepo, storageRepo, subService, log)

	val := validator.New()

	h := &router.Handlers{
		Health:       handlers.NewHealthHandler(db.DB, log),
		Auth:         handlers.NewAuthHandler(userService, cfg, log, val),
		Plan:         handlers.NewPlanHandler(planService, log, val),
		Subscription: handlers.NewSubscriptionHandler(subService, log, val),
		Meeting:      handlers.NewMeetingHandler(meetingService, log, val),
		Admin:        handlers.NewAdminHandler(subService, log, val),
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.New(cfg, log, h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	var sweeper *services.SweeperService
	if cfg.Sweeper.Enabled {
		sweeper = services.NewSweeperService(subService, cfg.Sweeper.Schedule, log)
		if err := sweeper.Start(); err != nil {
			log.Fatalf("failed to start expiry sweeper: %v", err)
		}
	}

	go func() {
		log.Infof("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")

	if sweeper != nil {
		sweeper.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}

	log.Info("Server stopped")
}
