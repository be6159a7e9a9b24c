// cmd/notifier/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"escalation-notifier/internal/common/config"
	"escalation-notifier/internal/common/database"
	"escalation-notifier/internal/common/logger"
	"escalation-notifier/internal/datasource"
	"escalation-notifier/internal/notify"
	"escalation-notifier/internal/rules/recommendation"
	"escalation-notifier/internal/rules/reviewrequest"
	"escalation-notifier/internal/runner"
	"escalation-notifier/internal/tracker"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting escalation notifier...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
		log = logger.NewZapAdapter(zapLog)
	}

	ctx := context.Background()

	// --- Init database with retry ---
	var db *database.Client
	err = retryWithBackoff(func() error {
		var err error
		db, err = database.Open(cfg.Database)
		if err != nil {
			return err
		}
		return db.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Database connection")

	if err != nil {
		zapLog.Fatal("database failed after retries", zap.Error(err))
	}
	defer db.Close()
	zapLog.Info("Database connected successfully", zap.String("driver", cfg.Database.Driver))

	// --- Build the notification pipeline ---
	var sink notify.Sink = notify.NewSlackSink(cfg.Slack.Token)

	// The recipient cache is optional; without redis every send resolves
	// against the Slack API directly.
	if cfg.Database.Redis.Address != "" {
		var redisClient *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redisClient, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redisClient.Ping(ctx)
		}, 5, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Warn("redis unavailable, recipient cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			sink = notify.NewCachedSink(sink, redisClient, config.GetDuration(cfg.Database.Redis.TTL), log)
			zapLog.Info("Recipient cache enabled")
		}
	}

	notifier := notify.NewNotifier(sink, notify.Config{
		TestMode:   cfg.Slack.TestMode,
		TestEmail:  cfg.Slack.TestEmail,
		AdminEmail: cfg.Slack.AdminEmail,
	}, log)

	source := datasource.NewSource(db.DB, log)
	reviewEval := reviewrequest.NewEvaluator(cfg.Contacts.ReviewRequestsEmail)
	recoEval := recommendation.NewEvaluator(cfg.Contacts.RecommendationsEmail)

	run := runner.New(source, notifier, reviewEval, recoEval, tracker.New(), log)

	// --- Run once and exit when no schedule is configured ---
	if cfg.Scheduler.Schedule == "" {
		if err := run.Run(ctx); err != nil {
			zapLog.Error("run failed", zap.Error(err))
			os.Exit(1)
		}
		zapLog.Info("Run completed, exiting")
		return
	}

	// --- Scheduled mode ---
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Scheduler.Schedule, func() {
		if err := run.Run(ctx); err != nil {
			zapLog.Error("scheduled run failed", zap.Error(err))
		}
	}); err != nil {
		zapLog.Fatal("invalid schedule", zap.String("schedule", cfg.Scheduler.Schedule), zap.Error(err))
	}
	scheduler.Start()
	zapLog.Info("Scheduler started", zap.String("schedule", cfg.Scheduler.Schedule))

	if cfg.Scheduler.RunOnStart {
		go func() {
			if err := run.Run(ctx); err != nil {
				zapLog.Error("initial run failed", zap.Error(err))
			}
		}()
	}

	// --- Health & Metrics Server ---
	if cfg.Metrics.Enabled {
		go func() {
			http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusOK)
				json.NewEncoder(w).Encode(map[string]string{
					"status": "healthy",
					"time":   time.Now().Format(time.RFC3339),
				})
			})
			http.Handle("/metrics", promhttp.Handler())
			zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Metrics.Address))
			if err := http.ListenAndServe(cfg.Metrics.Address, nil); err != nil {
				zapLog.Error("Health/Metrics server failed", zap.Error(err))
			}
		}()
	}

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping scheduler...")
	stopCtx := scheduler.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(30 * time.Second):
		zapLog.Warn("timed out waiting for in-flight run")
	}

	zapLog.Info("Escalation notifier stopped gracefully")
}
