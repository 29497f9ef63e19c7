package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/blog-api/internal/api"
	"github.com/blog-api/internal/config"
	"github.com/blog-api/internal/database"
	"github.com/blog-api/internal/repository"
	"github.com/blog-api/internal/repository/memory"
	"github.com/blog-api/internal/service"
	"github.com/blog-api/pkg/logger"
	"github.com/rs/zerolog"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log := logger.New(config.Default().Log)
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(cfg.Log)
	log.Info().Str("storage", cfg.Storage.Driver).Msg("Starting blog API server...")

	// Initialize repositories
	repos, closeStore, err := openStore(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize storage")
	}
	defer closeStore()

	// Initialize services
	services := service.NewServices(repos, cfg, log)

	if cfg.Storage.Driver == config.DriverMemory {
		if err := bootstrapAdmin(context.Background(), cfg.Auth, services.Auth, log); err != nil {
			log.Fatal().Err(err).Msg("Failed to create bootstrap administrator")
		}
	}

	// Initialize router
	router := api.NewRouter(services, cfg, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}

// bootstrapAdmin creates the configured administrator. The in-memory store
// starts empty and blogctl cannot reach it, so this is the only way to get
// an account that may write.
func bootstrapAdmin(ctx context.Context, cfg config.AuthConfig, auth service.AuthService, log zerolog.Logger) error {
	if cfg.AdminUsername == "" {
		log.Warn().Msg("No AUTH_ADMIN_USERNAME set; only anonymous comments can be written")
		return nil
	}

	if _, err := auth.CreateUser(ctx, cfg.AdminUsername, cfg.AdminPassword, true); err != nil {
		return err
	}
	log.Info().Str("username", cfg.AdminUsername).Msg("Bootstrap administrator created")
	return nil
}

// openStore selects the repository backend named by the configuration
func openStore(cfg *config.Config, log zerolog.Logger) (*repository.Repositories, func(), error) {
	if cfg.Storage.Driver == config.DriverMemory {
		log.Warn().Msg("Using in-memory storage; data is lost on exit")
		return memory.New().Repositories(), func() {}, nil
	}

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Storage.AutoMigrate {
		if err := db.RunMigrations(cfg.Storage.MigrationsPath); err != nil {
			db.Close()
			return nil, nil, err
		}
	}

	return repository.New(db), func() { db.Close() }, nil
}
