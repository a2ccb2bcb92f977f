package main

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/beargallbladder/fairwaylive/internal/config"
	"github.com/beargallbladder/fairwaylive/internal/game"
	"github.com/beargallbladder/fairwaylive/internal/ledger"
	"github.com/beargallbladder/fairwaylive/internal/odds"
	"github.com/beargallbladder/fairwaylive/internal/platform/logging"
	"github.com/beargallbladder/fairwaylive/internal/platform/retry"
	"github.com/beargallbladder/fairwaylive/internal/redis"
	"github.com/beargallbladder/fairwaylive/internal/sentiment"
	"github.com/beargallbladder/fairwaylive/internal/server"
	"github.com/beargallbladder/fairwaylive/internal/version"
	"github.com/beargallbladder/fairwaylive/internal/websocket"

	goredis "github.com/redis/go-redis/v9"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("starting fairwaylive", "version", version.Get().Version, "env", cfg.AppEnv)

	clock := clockwork.NewRealClock()

	var (
		mood        sentiment.MoodStore
		redisClient *redis.Client
		rawRedis    *goredis.Client
	)
	if cfg.SingleInstance() {
		slog.Info("no REDIS_URL configured, mood history kept in memory")
		mood = sentiment.NewInMemoryStore()
	} else {
		redisClient, err = redis.NewClient(cfg.RedisURL)
		if err != nil {
			slog.Error("failed to create redis client", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()

		if err := pingRedis(redisClient); err != nil {
			slog.Error("redis unreachable", "error", err)
			os.Exit(1)
		}
		rawRedis = redisClient.Underlying()
		mood = sentiment.NewRedisStore(rawRedis, uuid.New().String())
	}

	engine := odds.NewEngine()
	book := ledger.New(engine, clock, cfg.MaxBetAmount, cfg.StartingBalance)
	session := game.NewSession(mood, engine, book, clock, rand.New(rand.NewSource(time.Now().UnixNano())))

	hub := websocket.NewHub(session)
	session.SetBroadcaster(hub)
	session.Start()

	srv := server.NewServer(cfg, session, hub, rawRedis)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	hub.Stop()
	session.Stop()
	slog.Info("shutdown complete")
}

// pingRedis retries the initial connection; transient startup races with the
// Redis container are common in deployment.
func pingRedis(client *redis.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	policy := retry.Policy{
		MaxAttempts:    5,
		InitialBackoff: 500 * time.Millisecond,
		OnRetry: func(attempt int, err error, backoff time.Duration) {
			slog.Warn("redis ping failed, retrying", "attempt", attempt, "backoff", backoff, "error", err)
		},
	}
	classify := func(error) retry.Action { return retry.Retry }

	return retry.DoVoid(ctx, policy, classify, func() error {
		pingCtx, pingCancel := context.WithTimeout(ctx, 2*time.Second)
		defer pingCancel()
		return client.Ping(pingCtx)
	})
}
