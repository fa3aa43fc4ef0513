package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/reelgen/reelgen-api/internal/config"
	"github.com/reelgen/reelgen-api/internal/platform/postgres"
	"github.com/reelgen/reelgen-api/internal/queue"
	"github.com/reelgen/reelgen-api/internal/service"
	"github.com/reelgen/reelgen-api/internal/service/auth"
	"github.com/reelgen/reelgen-api/internal/store"
)

// application holds the wired dependencies of the server.
type application struct {
	config *config.Config
	logger *slog.Logger

	db          *sql.DB
	redisClient *redis.Client

	userStore  store.UserStore
	videoStore store.VideoStore

	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier

	videoService service.VideoService
	userService  service.UserService
}

// newApplication builds the full dependency graph: database, migrations,
// queue client, stores and services. It fails fast on any unreachable
// backend so a misconfigured deployment never starts serving.
func newApplication(ctx context.Context, cfg *config.Config) (*application, error) {
	log := slog.Default()

	db, err := setupAppDatabase(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	if err := postgres.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	redisOpts, err := redis.ParseURL(cfg.Queue.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse queue redis URL: %w", err)
	}
	redisClient := redis.NewClient(redisOpts)

	enqueuer := queue.NewRedisEnqueuer(redisClient, "", log)
	if err := enqueuer.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to reach work queue: %w", err)
	}

	userStore := postgres.NewPostgresUserStore(db, bcrypt.DefaultCost, log)
	videoStore := postgres.NewPostgresVideoStore(db, log)

	jwtService, err := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifetimeMinutes)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	workerGate, err := auth.NewWorkerGate(cfg.Worker.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker gate: %w", err)
	}

	passwordVerifier := auth.NewBcryptVerifier()

	videoService, err := service.NewVideoService(videoStore, enqueuer, workerGate, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create video service: %w", err)
	}

	userService, err := service.NewUserService(db, userStore, passwordVerifier, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	return &application{
		config:           cfg,
		logger:           log,
		db:               db,
		redisClient:      redisClient,
		userStore:        userStore,
		videoStore:       videoStore,
		jwtService:       jwtService,
		passwordVerifier: passwordVerifier,
		videoService:     videoService,
		userService:      userService,
	}, nil
}

// cleanup releases backend connections on shutdown.
func (app *application) cleanup() {
	if err := app.redisClient.Close(); err != nil {
		app.logger.Error("failed to close redis client", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close database connection", "error", err)
	}
}
