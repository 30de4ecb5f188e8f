package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/oggyb/muzz-matchmaker/internal/app"
	"github.com/oggyb/muzz-matchmaker/internal/cache"
	"github.com/oggyb/muzz-matchmaker/internal/config"
	"github.com/oggyb/muzz-matchmaker/internal/db"
	"github.com/oggyb/muzz-matchmaker/internal/logger"
	"github.com/oggyb/muzz-matchmaker/internal/messaging"
	"github.com/oggyb/muzz-matchmaker/internal/metrics"
	"github.com/oggyb/muzz-matchmaker/internal/notify"
	"github.com/oggyb/muzz-matchmaker/internal/server"
	"github.com/oggyb/muzz-matchmaker/internal/service/explore"
	"github.com/oggyb/muzz-matchmaker/internal/service/priority"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	log := logger.FromConfig(cfg)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Init DB
	database, err := db.NewDB(cfg, log)
	if err != nil {
		return err
	}
	sqlDB, err := database.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(ctx); err != nil {
		return errors.Join(errors.New("failed to connect to redis"), err)
	}
	defer redisCache.Close()

	// Init NATS; notifications degrade to the log when the broker is down
	var (
		sender     notify.Sender
		natsSender *notify.NATSSender
	)
	nc, err := messaging.NewNATSClient(messaging.ConfigFrom(cfg), log)
	if err != nil {
		log.Warn("nats unavailable, match notifications will only be logged", "err", err)
	} else {
		defer nc.Close()
		natsSender = notify.NewNATSSender(nc, notify.BreakerConfig{
			Name:             "match-notify",
			FailureThreshold: cfg.Breaker.FailureThreshold,
			OpenTimeout:      cfg.Breaker.OpenTimeout,
		}, log)
		sender = natsSender
	}

	appCtx := app.New(cfg, database, redisCache, sender, m, log)

	if cfg.App.ENV == "development" {
		if err := seed(ctx, appCtx); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	checks := map[string]server.HealthCheck{
		"db":    sqlDB.PingContext,
		"redis": redisCache.Ping,
	}
	if nc != nil {
		checks["nats"] = func(context.Context) error {
			if !nc.IsConnected() {
				return errors.New("disconnected")
			}
			return nil
		}
		checks["notify_breaker"] = natsSender.Check
	}

	sup := server.NewSupervisor("matchmaker", log)
	sup.Add(server.NewGRPCServer(cfg, m, log, explore.NewRegistrar(appCtx)))
	sup.Add(server.NewOpsServer(cfg.Ops.Addr, m, checks, log))
	sup.Add(priority.NewSweeper(appCtx.Priority, cfg.Priority.SweepInterval, log))

	log.Info("starting services", "grpc", cfg.GRPC.Host+":"+cfg.GRPC.Port, "ops", cfg.Ops.Addr)
	if err := sup.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("shutdown complete")
	return nil
}

// seed loads the demo dataset and brings the seeded coefficients up to date.
func seed(ctx context.Context, appCtx *app.AppContext) error {
	report, err := db.SeedTestData(ctx, appCtx.DB, appCtx.Answers, appCtx.Logger)
	if err != nil {
		return err
	}
	if err := appCtx.RedisCache.InvalidateAnswerWeights(ctx); err != nil {
		appCtx.Logger.Warn("failed to drop cached weights", "err", err)
	}
	if _, err := appCtx.Priority.ExpireAndSweep(ctx); err != nil {
		return err
	}
	for _, id := range report.EntitledUsers {
		if _, err := appCtx.Priority.Recompute(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
