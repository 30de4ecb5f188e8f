package app

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/oggyb/muzz-matchmaker/internal/cache"
	"github.com/oggyb/muzz-matchmaker/internal/config"
	"github.com/oggyb/muzz-matchmaker/internal/metrics"
	"github.com/oggyb/muzz-matchmaker/internal/notify"
	"github.com/oggyb/muzz-matchmaker/internal/repository"
	"github.com/oggyb/muzz-matchmaker/internal/service/candidates"
	"github.com/oggyb/muzz-matchmaker/internal/service/likes"
	"github.com/oggyb/muzz-matchmaker/internal/service/priority"
)

// AppContext holds shared dependencies (DB, Redis, Logger, etc.) and the
// matching services built on top of them.
type AppContext struct {
	Config     *config.Config
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Logger     *slog.Logger
	Metrics    *metrics.Metrics

	Users        *repository.UserRepository
	Answers      *repository.AnswerRepository
	Entitlements *repository.EntitlementRepository
	LikeStore    *repository.LikeRepository

	Priority   *priority.Service
	Candidates *candidates.Retriever
	Likes      *likes.Ledger
	Notifier   *notify.MatchNotifier
}

// New creates a new AppContext and wires every service. sender delivers
// match notifications; nil falls back to logging them.
func New(cfg *config.Config, database *gorm.DB, rdb *cache.RedisCache, sender notify.Sender, m *metrics.Metrics, logger *slog.Logger) *AppContext {
	if m == nil {
		m = metrics.NewNop()
	}
	if sender == nil {
		sender = notify.LogSender{Log: logger}
	}

	a := &AppContext{
		Config:     cfg,
		DB:         database,
		RedisCache: rdb,
		Logger:     logger,
		Metrics:    m,

		Users:        repository.NewUserRepository(database),
		Answers:      repository.NewAnswerRepository(database),
		Entitlements: repository.NewEntitlementRepository(database),
		LikeStore:    repository.NewLikeRepository(database),
	}

	var (
		prioOpts []priority.Option
		weights  candidates.WeightCache
		counts   likes.CountCache
	)
	if rdb != nil {
		prioOpts = append(prioOpts, priority.WithCache(rdb, cfg.Priority.CacheTTL))
		weights = rdb
		counts = rdb
	}

	a.Priority = priority.NewService(a.Users, a.Entitlements, m, logger, prioOpts...)
	a.Candidates = candidates.NewRetriever(a.Users, a.Answers, a.Priority, weights, candidates.Config{
		QueryTimeout:    cfg.DB.QueryTimeout,
		WeightsCacheTTL: cfg.Matching.WeightsCacheTTL,
	}, m, logger)
	a.Notifier = notify.NewMatchNotifier(sender, a.Users, m, logger, cfg.NATS.PublishTimeout)
	a.Likes = likes.NewLedger(a.LikeStore, counts, a.Notifier, cfg.DB.QueryTimeout, m, logger)
	return a
}
