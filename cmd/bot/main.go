// Package main - точка входа Discord-бота Central Community.
//
// Бот поощряет живое общение на английском: за каждое содержательное
// сообщение в разрешённых каналах участник получает XP, растёт в уровнях
// и получает ролевые награды. Плюс личный словарь для изучения слов.
//
// Архитектура следует принципам Clean Architecture и DDD:
// - Domain: чистая бизнес-логика без внешних зависимостей
// - Application: оркестрация use cases (Commands/Queries)
// - Infrastructure: PostgreSQL, Redis, Discord API
// - Interface: Discord handlers, HTTP endpoints
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mailforstudy46-bot/central-discord-bot/config"

	// Application layer
	"github.com/mailforstudy46-bot/central-discord-bot/internal/application/command"
	"github.com/mailforstudy46-bot/central-discord-bot/internal/application/query"

	// Domain layer
	"github.com/mailforstudy46-bot/central-discord-bot/internal/domain/progression"

	// Infrastructure layer
	discordext "github.com/mailforstudy46-bot/central-discord-bot/internal/infrastructure/external/discord"
	"github.com/mailforstudy46-bot/central-discord-bot/internal/infrastructure/messaging"
	"github.com/mailforstudy46-bot/central-discord-bot/internal/infrastructure/persistence/postgres"
	"github.com/mailforstudy46-bot/central-discord-bot/internal/infrastructure/persistence/redis"

	// Interface layer
	discordiface "github.com/mailforstudy46-bot/central-discord-bot/internal/interface/discord"
	"github.com/mailforstudy46-bot/central-discord-bot/internal/interface/discord/handler"
	httpserver "github.com/mailforstudy46-bot/central-discord-bot/internal/interface/http"

	// Packages
	"github.com/mailforstudy46-bot/central-discord-bot/pkg/logger"
	"github.com/mailforstudy46-bot/central-discord-bot/pkg/retry"

	"github.com/joho/godotenv"
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
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	// .env отсутствует в production, это не ошибка.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting Central Community Bot",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
		logger.Bool("debug", cfg.App.Debug),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ПОДКЛЮЧЕНИЕ К БАЗЕ ДАННЫХ (PostgreSQL)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")

	var dbConn *postgres.Connection
	err = retry.StartupRetrier().Do(ctx, func(ctx context.Context) error {
		var connErr error
		dbConn, connErr = postgres.NewConnection(ctx, cfg.Database.URL)
		return connErr
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection...")
		dbConn.Close()
	}()
	log.Info("database connection established")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ЗАПУСК МИГРАЦИЙ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("running database migrations...")
	migrator := postgres.NewMigrator(dbConn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	status, err := migrator.Status(ctx)
	if err != nil {
		log.Warn("failed to get migration status", logger.Err(err))
	} else {
		appliedCount := 0
		for _, m := range status {
			if m.IsApplied {
				appliedCount++
			}
		}
		log.Info("migrations completed",
			logger.Int("applied", appliedCount),
			logger.Int("total", len(status)),
		)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. ИНИЦИАЛИЗАЦИЯ REDIS (опционально)
	// ─────────────────────────────────────────────────────────────────────────
	var leaderboardCache *redis.LeaderboardCache

	if !cfg.Redis.Disabled && cfg.Redis.URL != "" {
		log.Info("connecting to Redis...")
		redisCache, err := redis.NewCache(cfg.Redis.URL)
		if err != nil {
			log.Warn("failed to connect to Redis, caching disabled", logger.Err(err))
		} else {
			defer redisCache.Close()
			leaderboardCache = redis.NewLeaderboardCache(redisCache)
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. ИНИЦИАЛИЗАЦИЯ РЕПОЗИТОРИЕВ И EVENT BUS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing repositories...")
	memberRepo := postgres.NewMemberRepository(dbConn)

	log.Info("initializing event bus...")
	eventBusConfig := messaging.DefaultInMemoryEventBusConfig()
	eventBus := messaging.NewInMemoryEventBus(eventBusConfig)
	defer func() {
		log.Info("closing event bus...")
		_ = eventBus.Close()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 7. ПОДКЛЮЧЕНИЕ К DISCORD
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing Discord gateway...")
	gateway, err := discordext.NewGateway(discordext.GatewayConfig{
		Token:         cfg.Discord.Token,
		ApplicationID: cfg.Discord.ApplicationID,
		GuildID:       cfg.Discord.GuildID,
		Logger:        log,
	})
	if err != nil {
		return fmt.Errorf("failed to create gateway: %w", err)
	}

	notifier := discordext.NewNotifier(gateway.Session(), log)
	roleManager := discordext.NewRoleManager(gateway.Session(), cfg.Discord.GuildID, log)

	// ─────────────────────────────────────────────────────────────────────────
	// 8. ИНИЦИАЛИЗАЦИЯ APPLICATION LAYER (Commands, Queries)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing application layer...")

	awardRules := progression.NewAwardRules(cfg.Engagement.XPChannelIDs)
	tierTable := progression.NewTierTable(cfg.Engagement.TierRoles)

	awardXPCmd := command.NewAwardXPHandler(memberRepo, awardRules, eventBus)
	syncTierCmd := command.NewSyncTierRoleHandler(tierTable, roleManager, eventBus)
	resetCmd := command.NewResetProgressHandler(memberRepo, eventBus)
	addWordCmd := command.NewAddWordHandler(memberRepo)
	deleteWordCmd := command.NewDeleteWordHandler(memberRepo)
	clearWordsCmd := command.NewClearWordsHandler(memberRepo)

	profileQuery := query.NewGetProfileHandler(memberRepo)
	reviewWordsQuery := query.NewReviewWordsHandler(memberRepo)

	var cacheForQuery query.LeaderboardCache
	if leaderboardCache != nil {
		cacheForQuery = leaderboardCache
	}
	leaderboardQuery := query.NewGetLeaderboardHandler(memberRepo, cacheForQuery)

	// ─────────────────────────────────────────────────────────────────────────
	// 9. РЕГИСТРАЦИЯ EVENT HANDLERS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("registering event handlers...")

	noticesCfg := discordiface.NoticesConfig{
		Notifier:         notifier,
		Recorder:         memberRepo,
		XPNoticeTTL:      cfg.Engagement.XPNoticeDuration,
		LevelUpNoticeTTL: cfg.Engagement.LevelUpNoticeDuration,
		Logger:           log,
	}
	if leaderboardCache != nil {
		noticesCfg.Cache = leaderboardCache
	}
	notices := discordiface.NewNotices(noticesCfg)
	if err := notices.Bind(eventBus); err != nil {
		return fmt.Errorf("failed to register event handlers: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 10. МАРШРУТИЗАЦИЯ DISCORD-СОБЫТИЙ
	// ─────────────────────────────────────────────────────────────────────────
	router := discordiface.NewRouter(discordiface.RouterConfig{
		AwardXP:     awardXPCmd,
		SyncTier:    syncTierCmd,
		Profile:     handler.NewProfileHandler(profileQuery),
		Leaderboard: handler.NewLeaderboardHandler(leaderboardQuery, cfg.Engagement.LeaderboardSize),
		Vocabulary:  handler.NewVocabularyHandler(addWordCmd, deleteWordCmd, clearWordsCmd, reviewWordsQuery),
		Reset:       handler.NewResetHandler(resetCmd),
		Help:        handler.NewHelpHandler(),
		Logger:      log,
	})
	router.Register(gateway.Session())

	// ─────────────────────────────────────────────────────────────────────────
	// 11. СОЗДАНИЕ HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing HTTP server...")

	httpConfig := httpserver.DefaultConfig()
	httpConfig.Port = cfg.HTTP.Port
	httpConfig.ReadTimeout = cfg.HTTP.ReadTimeout
	httpConfig.WriteTimeout = cfg.HTTP.WriteTimeout
	httpConfig.WebhookSecret = cfg.HTTP.WebhookSecret

	httpServer := httpserver.NewServer(httpConfig, httpserver.Dependencies{
		GetProfileHandler:     profileQuery,
		GetLeaderboardHandler: leaderboardQuery,
		Announcer:             discordiface.NewAnnouncer(notifier),
		Health:                dbConn,
		Logger:                log,
	})

	// ─────────────────────────────────────────────────────────────────────────
	// 12. ЗАПУСК СЕРВИСОВ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("starting services...")

	errCh := make(chan error, 2)

	go func() {
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	log.Info("opening gateway connection...")
	if err := gateway.Open(); err != nil {
		return fmt.Errorf("failed to open gateway: %w", err)
	}
	defer func() {
		log.Info("closing gateway connection...")
		_ = gateway.Close()
	}()

	log.Info("registering slash commands...")
	if err := gateway.RegisterCommands(discordiface.Commands()); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 13. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("Central Community Bot is running",
		logger.String("http_address", httpServer.Address()),
		logger.GuildID(cfg.Discord.GuildID),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("service error", logger.Err(err))
		return err
	case <-ctx.Done():
		log.Info("context cancelled")
	}

	log.Info("starting graceful shutdown...",
		logger.Duration("timeout", cfg.App.ShutdownTimeout),
	)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	var shutdownErr error

	log.Info("stopping HTTP server...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", logger.Err(err))
		shutdownErr = err
	}

	// Gateway, event bus и база данных закроются через defer.

	if shutdownErr != nil {
		log.Warn("shutdown completed with errors")
	} else {
		log.Info("shutdown completed successfully")
	}

	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// setupLogger настраивает структурированное логирование.
func setupLogger(cfg *config.Config) *logger.Logger {
	opts := logger.DefaultOptions()
	opts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	if cfg.App.Debug {
		opts.Level = logger.LevelDebug
	}

	return logger.New(opts)
}
