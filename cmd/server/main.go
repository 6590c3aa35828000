// Package main is the entry point for the Shiksha Yatra API server.
//
// The server exposes the gamified learning backend for rural students:
// accounts and EduPoints, the study/chat/game ledgers, the achievement
// engine, the leaderboard, and the offline content catalog.
//
// The architecture follows Clean Architecture and DDD:
// - Domain: pure business logic without external dependencies
// - Application: use case orchestration (Commands/Queries)
// - Infrastructure: repository implementations, external APIs
// - Interface: HTTP endpoints
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/ankit071105/Shiksha-Yatra/config"
	"github.com/ankit071105/Shiksha-Yatra/internal/application/command"
	"github.com/ankit071105/Shiksha-Yatra/internal/application/query"
	"github.com/ankit071105/Shiksha-Yatra/internal/domain/achievement"
	"github.com/ankit071105/Shiksha-Yatra/internal/infrastructure/external/gemini"
	"github.com/ankit071105/Shiksha-Yatra/internal/infrastructure/persistence/postgres"
	"github.com/ankit071105/Shiksha-Yatra/internal/infrastructure/persistence/redis"
	httpserver "github.com/ankit071105/Shiksha-Yatra/internal/interface/http"
	"github.com/ankit071105/Shiksha-Yatra/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := logger.New(logger.Options{
		Output:    os.Stdout,
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		AddCaller: cfg.Observability.LogCaller,
	})
	log.Info("starting Shiksha Yatra API server",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. DATABASE (PostgreSQL)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database")
	dbCfg := postgres.DefaultConfig(cfg.Database.URL)
	dbCfg.MaxConns = cfg.Database.MaxConns
	dbCfg.MinConns = cfg.Database.MinConns
	dbCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	dbCfg.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime

	dbConn, err := postgres.NewConnection(ctx, dbCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection")
		dbConn.Close()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 4. MIGRATIONS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("running database migrations")
	migrator := postgres.NewMigrator(dbConn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. REDIS (optional leaderboard cache)
	// ─────────────────────────────────────────────────────────────────────────
	var cache *redis.Cache
	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis", logger.String("addr", cfg.Redis.Addr()))
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

		cache, err = redis.NewCache(redisCfg)
		if err != nil {
			// The leaderboard falls back to direct database reads.
			log.Warn("failed to connect to Redis, caching disabled", logger.Err(err))
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. REPOSITORIES
	// ─────────────────────────────────────────────────────────────────────────
	accountRepo := postgres.NewAccountRepository(dbConn)
	progressRepo := postgres.NewProgressRepository(dbConn)
	badgeRepo := postgres.NewBadgeRepository(dbConn)
	catalogRepo := postgres.NewCatalogRepository(dbConn)
	leaderboardRepo := postgres.NewLeaderboardRepository(dbConn)
	uow := postgres.NewUnitOfWork(dbConn)

	cachedLeaderboard := redis.NewCachedLeaderboard(leaderboardRepo, cache, cfg.Redis.LeaderboardTTL)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. EXTERNAL CLIENTS
	// ─────────────────────────────────────────────────────────────────────────
	var tutor command.TutorClient
	if cfg.Tutor.APIKey != "" {
		geminiCfg := gemini.DefaultClientConfig(cfg.Tutor.APIKey)
		geminiCfg.BaseURL = cfg.Tutor.BaseURL
		geminiCfg.Model = cfg.Tutor.Model
		geminiCfg.Timeout = cfg.Tutor.RequestTimeout
		geminiCfg.Logger = log

		tutor, err = gemini.NewClient(geminiCfg)
		if err != nil {
			return fmt.Errorf("failed to create tutor client: %w", err)
		}
	} else {
		// Config validation requires a key in production. In development
		// the chat endpoint degrades to the fallback message.
		log.Warn("no tutor API key configured, chat will return the fallback message")
		tutor = unavailableTutor{}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 8. APPLICATION LAYER
	// ─────────────────────────────────────────────────────────────────────────
	engine := achievement.NewEngine(uuid.NewString)

	registerCmd := command.NewRegisterAccountHandler(uow, uuid.NewString, log)
	activityCmd := command.NewRecordActivityHandler(uow, engine, cachedLeaderboard, uuid.NewString, log)
	chatCmd := command.NewRecordChatHandler(uow, engine, cachedLeaderboard, uuid.NewString, log)
	askTutorCmd := command.NewAskTutorHandler(accountRepo, tutor, chatCmd, log)
	gameCmd := command.NewRecordGameHandler(uow, engine, cachedLeaderboard, uuid.NewString, log)
	downloadCmd := command.NewRecordDownloadHandler(catalogRepo, log)

	authQuery := query.NewAuthenticateHandler(accountRepo)
	leaderboardQuery := query.NewGetLeaderboardHandler(cachedLeaderboard)
	progressQuery := query.NewGetProgressHandler(accountRepo, progressRepo, badgeRepo)
	contentQuery := query.NewListContentHandler(catalogRepo)

	// ─────────────────────────────────────────────────────────────────────────
	// 9. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	httpCfg := httpserver.DefaultConfig()
	httpCfg.Host = cfg.HTTP.Host
	httpCfg.Port = cfg.HTTP.Port
	httpCfg.ReadTimeout = cfg.HTTP.ReadTimeout
	httpCfg.WriteTimeout = cfg.HTTP.WriteTimeout
	httpCfg.IdleTimeout = cfg.HTTP.IdleTimeout
	httpCfg.EnableCORS = cfg.HTTP.EnableCORS
	httpCfg.AllowedOrigins = cfg.HTTP.AllowedOrigins

	deps := httpserver.Dependencies{
		RegisterAccountHandler: registerCmd,
		RecordActivityHandler:  activityCmd,
		AskTutorHandler:        askTutorCmd,
		RecordGameHandler:      gameCmd,
		RecordDownloadHandler:  downloadCmd,

		AuthenticateHandler:   authQuery,
		GetLeaderboardHandler: leaderboardQuery,
		GetProgressHandler:    progressQuery,
		ListContentHandler:    contentQuery,

		Database: dbConn,
		Logger:   log,
	}
	if cache != nil {
		deps.Cache = cache
	}

	server := httpserver.NewServer(httpCfg, deps)

	// ─────────────────────────────────────────────────────────────────────────
	// 10. RUN & GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	log.Info("Shiksha Yatra API server is running",
		logger.String("address", server.Address()),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("server error", logger.Err(err))
		return err
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", logger.Err(err))
		return err
	}

	log.Info("shutdown completed")
	return nil
}

// unavailableTutor is the development stand-in when no API key is set.
// Every call fails, so the chat flow records the fallback message.
type unavailableTutor struct{}

func (unavailableTutor) GenerateResponse(context.Context, string, command.TutorStudentContext) (string, error) {
	return "", gemini.ErrMissingAPIKey
}
