// Package main - точка входа фоновых процессов Central Community Bot.
//
// Worker отвечает за периодические задачи:
// - Прогрев кэша лидерборда, чтобы команда /leaderboard отвечала мгновенно
// - Лог сводки по участникам для наблюдаемости
//
// Worker не держит gateway-соединение с Discord и может перезапускаться
// независимо от бота.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mailforstudy46-bot/central-discord-bot/config"
	"github.com/mailforstudy46-bot/central-discord-bot/internal/application/query"
	"github.com/mailforstudy46-bot/central-discord-bot/internal/infrastructure/persistence/postgres"
	"github.com/mailforstudy46-bot/central-discord-bot/internal/infrastructure/persistence/redis"
	"github.com/mailforstudy46-bot/central-discord-bot/pkg/logger"
	"github.com/mailforstudy46-bot/central-discord-bot/pkg/retry"

	"github.com/joho/godotenv"
)

// defaultWarmInterval задаёт период прогрева кэша лидерборда.
const defaultWarmInterval = 5 * time.Minute

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
	// 1. КОНФИГУРАЦИЯ И ЛОГИРОВАНИЕ
	// ─────────────────────────────────────────────────────────────────────────
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	opts := logger.DefaultOptions()
	opts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	log := logger.New(opts).With(logger.Component("worker"))

	log.Info("starting worker", logger.String("env", string(cfg.App.Environment)))

	// ─────────────────────────────────────────────────────────────────────────
	// 2. ХРАНИЛИЩА
	// ─────────────────────────────────────────────────────────────────────────
	var dbConn *postgres.Connection
	err = retry.StartupRetrier().Do(ctx, func(ctx context.Context) error {
		var connErr error
		dbConn, connErr = postgres.NewConnection(ctx, cfg.Database.URL)
		return connErr
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dbConn.Close()

	if cfg.Redis.Disabled || cfg.Redis.URL == "" {
		return fmt.Errorf("worker requires Redis, set REDIS_URL")
	}

	redisCache, err := redis.NewCache(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	defer redisCache.Close()

	memberRepo := postgres.NewMemberRepository(dbConn)
	leaderboardCache := redis.NewLeaderboardCache(redisCache)
	leaderboardQuery := query.NewGetLeaderboardHandler(memberRepo, leaderboardCache)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ПЕРИОДИЧЕСКИЙ ПРОГРЕВ КЭША
	// ─────────────────────────────────────────────────────────────────────────
	interval := getEnvDuration("LEADERBOARD_WARM_INTERVAL", defaultWarmInterval)

	log.Info("worker is running", logger.Duration("warm_interval", interval))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Первый прогрев сразу, не дожидаясь тика.
	warmLeaderboard(ctx, log, leaderboardQuery, memberRepo, cfg.Engagement.LeaderboardSize)

	for {
		select {
		case <-ticker.C:
			warmLeaderboard(ctx, log, leaderboardQuery, memberRepo, cfg.Engagement.LeaderboardSize)
		case sig := <-sigCh:
			log.Info("received shutdown signal", logger.String("signal", sig.String()))
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

// warmLeaderboard пересчитывает топ и кладёт его в кэш.
func warmLeaderboard(
	ctx context.Context,
	log *logger.Logger,
	leaderboard *query.GetLeaderboardHandler,
	repo *postgres.MemberRepository,
	limit int,
) {
	opCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	result, err := leaderboard.Handle(opCtx, query.GetLeaderboardQuery{Limit: limit})
	if err != nil {
		log.Warn("leaderboard warm failed", logger.Err(err))
		return
	}

	total, err := repo.Count(opCtx)
	if err != nil {
		log.Warn("member count failed", logger.Err(err))
		total = -1
	}

	log.Info("leaderboard warmed",
		logger.Int("entries", len(result.Entries)),
		logger.Bool("from_cache", result.FromCache),
		logger.Int("members_total", total),
	)
}

// getEnvDuration возвращает time.Duration переменную окружения.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	return defaultValue
}
