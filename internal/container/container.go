package container

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/FACorreiaa/go-tourist-spots/app/db"
	"github.com/FACorreiaa/go-tourist-spots/config"
	"github.com/FACorreiaa/go-tourist-spots/internal/api/assistant"
	"github.com/FACorreiaa/go-tourist-spots/internal/api/auth"
	"github.com/FACorreiaa/go-tourist-spots/internal/api/completion"
	"github.com/FACorreiaa/go-tourist-spots/internal/api/geocode"
	"github.com/FACorreiaa/go-tourist-spots/internal/api/social"
	"github.com/FACorreiaa/go-tourist-spots/internal/api/spots"
	"github.com/FACorreiaa/go-tourist-spots/internal/api/weather"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger
	Pool   *pgxpool.Pool

	AuthHandler      *auth.Handler
	SpotsHandler     *spots.Handler
	WeatherHandler   *weather.Handler
	AssistantHandler *assistant.Handler
	SocialHandler    *social.Handler
}

// NewContainer initializes and returns a new dependency container.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		return nil, err
	}

	// Migrations run before the main pool is opened.
	if err := database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		logger.Error("Failed to run database migrations", slog.Any("error", err))
		return nil, err
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		return nil, err
	}

	geocodeService := geocode.NewService(cfg.Geocode, logger)

	overpassClient := spots.NewOverpassClient(cfg.Spots.OverpassURL)
	spotsService := spots.NewService(overpassClient, geocodeService, cfg.Spots, logger)
	spotsHandler := spots.NewHandler(spotsService, geocodeService, logger)

	weatherService := weather.NewService(cfg.Weather, logger)
	weatherHandler := weather.NewHandler(weatherService, logger)

	keyManager, err := completion.NewKeyManager(ctx, completion.LoadKeysFromEnv(), cfg.Completion, logger)
	if err != nil {
		logger.Error("Failed to initialize completion key manager", slog.Any("error", err))
		return nil, err
	}
	assistantService := assistant.NewService(keyManager, logger)
	assistantHandler := assistant.NewHandler(assistantService, logger)

	authRepo := auth.NewPostgresAuthRepo(pool, cfg.JWT, logger)
	authService := auth.NewAuthService(authRepo, logger)
	authHandler := auth.NewHandler(authService, logger)

	socialRepo := social.NewPostgresSocialRepo(pool, logger)
	socialService := social.NewService(socialRepo, logger)
	socialHandler := social.NewHandler(socialService, logger)

	return &Container{
		Config:           cfg,
		Logger:           logger,
		Pool:             pool,
		AuthHandler:      authHandler,
		SpotsHandler:     spotsHandler,
		WeatherHandler:   weatherHandler,
		AssistantHandler: assistantHandler,
		SocialHandler:    socialHandler,
	}, nil
}

// Close releases all resources held by the container.
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// WaitForDB waits for the database to be ready.
func (c *Container) WaitForDB(ctx context.Context) bool {
	return database.WaitForDB(ctx, c.Pool, c.Logger)
}
