package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"studymate/database"
	"studymate/internal/config"
	httpapi "studymate/internal/microservices/http-api"
	"studymate/internal/microservices/http-api/repository"
	"studymate/internal/microservices/http-api/service"
	"studymate/internal/microservices/websocket"
	"studymate/internal/ratelimit"
	"studymate/internal/schedule"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// Setup structured logging
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg, logger)
	if err != nil {
		logger.Error("database_connect_failed", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	loc, err := cfg.Location()
	if err != nil {
		logger.Error("invalid_timezone", "error", err)
		os.Exit(1)
	}
	gate := schedule.NewGate(loc, cfg.FeedbackFailOpen)
	repos := repository.NewRepositories(db)

	// Redis is optional: without it logout only drops the token client
	// side and rate limits are per instance.
	revoker := repository.NewNoopTokenRevoker()
	var limiter ratelimit.Limiter = ratelimit.NewLocalLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr(),
			Password: cfg.RedisPassword,
		})
		defer redisClient.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := redisClient.Ping(ctx).Err()
		cancel()
		if err != nil {
			logger.Error("redis_unreachable", "redis_addr", cfg.RedisAddr(), "error", err)
			os.Exit(1)
		}

		revoker = repository.NewRedisTokenRevoker(redisClient)
		fixed, err := ratelimit.NewFixedWindowLimiter(redisClient, "studymate:ratelimit", cfg.RateLimitRequests, cfg.RateLimitWindow)
		if err != nil {
			logger.Error("rate_limiter_init_failed", "error", err)
			os.Exit(1)
		}
		limiter = fixed
	}

	// Live event feed
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	hub := websocket.NewHub(logger)
	go hub.Run(hubCtx)

	opts := []service.Option{service.WithLogger(logger), service.WithPublisher(hub)}
	svc := httpapi.Services{
		Auth:        service.NewAuthService(repos, revoker, cfg.JWTSecret, cfg.AccessTokenTTL, opts...),
		Topics:      service.NewTopicService(repos, gate, opts...),
		Willingness: service.NewWillingnessService(repos, opts...),
		Ratings:     service.NewRatingService(repos, gate, opts...),
		Profiles:    service.NewProfileService(repos, gate, opts...),
		Messages:    service.NewMessageService(repos, opts...),
		Admin:       service.NewAdminService(repos, opts...),
	}

	if cfg.AdminUsername != "" {
		err := svc.Admin.PromoteAdmin(context.Background(), cfg.AdminUsername)
		if errors.Is(err, service.ErrNotFound) {
			logger.Warn("admin_user_missing", "username", cfg.AdminUsername)
		} else if err != nil {
			logger.Error("admin_promotion_failed", "error", err)
			os.Exit(1)
		}
	}

	router := httpapi.NewRouter(svc, httpapi.RouterConfig{
		Logger:      logger,
		AuthLimiter: limiter,
		CORSOrigins: cfg.CORSOrigins,
		Hub:         hub,
		Ready: func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := sqlDB.PingContext(ctx); err != nil {
				return fmt.Errorf("database: %w", err)
			}
			if redisClient != nil {
				if err := redisClient.Ping(ctx).Err(); err != nil {
					return fmt.Errorf("redis: %w", err)
				}
			}
			return nil
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("starting_http_server",
		"addr", server.Addr,
		"env", cfg.GoEnv,
		"db_driver", cfg.DatabaseDriver,
		"redis", cfg.RedisURL != "",
		"schedule_timezone", loc.String(),
		"feedback_fail_open", cfg.FeedbackFailOpen,
	)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-sigChan:
		logger.Info("received_shutdown_signal")
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		// Hijacked websocket connections are not tracked by Shutdown.
		stopHub()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("shutdown_failed", "error", err)
		}
		logger.Info("server_stopped_gracefully")
	case err := <-errChan:
		logger.Error("server_error", "error", err.Error())
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
