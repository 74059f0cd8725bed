package deps

import (
	"context"
	"linetask/internal/config"
	"linetask/internal/core/domain/bot"
	dl "linetask/internal/core/domain/logging"
	"linetask/internal/core/domain/metrics"
	"linetask/internal/core/domain/task"
	"linetask/internal/db"
	dbtask "linetask/internal/db/task"
	eventdeduplicator "linetask/internal/implementations/event_deduplicator"
	linemessenger "linetask/internal/implementations/line_messenger"
	"linetask/internal/implementations/logging"
	promMetrics "linetask/internal/implementations/metrics"
	"linetask/internal/implementations/notifier"
	"linetask/internal/implementations/retrying"
	"linetask/internal/implementations/signature"
	taskparser "linetask/internal/implementations/task_parser"
	"sync"
	"time"

	"github.com/go-redis/redis/v9"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type Deps struct {
	Config   *config.Config
	Logger   dl.Logger
	Registry *prometheus.Registry
	Metrics  metrics.Metrics

	DB    *pgxpool.Pool
	Redis *redis.Client

	Now func() time.Time

	TaskRepository task.Repository
	TaskParser     task.TextParser
	Notifier       task.Notifier

	Messenger          *linemessenger.LineMessenger
	SignatureValidator *signature.HMAC
	EventDeduplicator  bot.EventDeduplicator
}

func InitDeps(service string) (*Deps, func()) {
	deps := &Deps{}

	deps.initConfig()

	closeLogger := deps.initLogger(service)
	deps.initMetrics()
	closePgxPool := deps.initPgxPool()
	closeRedisClient := deps.initRedisClient()

	deps.Now = time.Now
	policy := retrying.DefaultPolicy()

	deps.TaskRepository = dbtask.NewPgxTaskRepository(deps.DB, deps.Logger, deps.Config.StoreTimeout, policy)
	deps.TaskParser = taskparser.New(deps.Logger, deps.Config.Location)
	deps.Messenger = linemessenger.New(
		deps.Logger,
		deps.Config.LineAPIBaseURL,
		deps.Config.LineChannelAccessToken,
		deps.Config.LineRequestTimeout,
		policy,
	)
	deps.Notifier = notifier.New(deps.Messenger)
	deps.SignatureValidator = signature.NewHMAC(deps.Config.LineChannelSecret)
	deps.EventDeduplicator = deps.initEventDeduplicator()

	return deps, func() {
		closeFuncs := []func(){
			closeRedisClient,
			closePgxPool,
		}

		var wg sync.WaitGroup
		wg.Add(len(closeFuncs))
		for _, closeFunc := range closeFuncs {
			closeFunc := closeFunc
			go func() {
				closeFunc()
				wg.Done()
			}()
		}

		wg.Wait()
		closeLogger()
	}
}

func (deps *Deps) initConfig() {
	config, err := config.Load()
	if err != nil {
		panic(err)
	}
	deps.Config = config
}

func (deps *Deps) initLogger(service string) func() {
	logger := logging.NewZapLogger(service, deps.Config.Debug)
	deps.Logger = logger
	return func() { logger.Sync() }
}

func (deps *Deps) initMetrics() {
	deps.Registry = prometheus.NewRegistry()
	deps.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	deps.Metrics = promMetrics.NewPromMetrics(deps.Registry)
}

func (deps *Deps) initPgxPool() func() {
	ctx := context.Background()
	connString, err := db.ConnString(deps.Config.PostgresqlURL, deps.Config.PostgresqlPassword)
	if err != nil {
		deps.Logger.Error(ctx, "Could not build DB connection string.", dl.Entry("err", err))
		panic(err)
	}

	if deps.Config.MigrationsPath != "" {
		if err := db.ApplyMigrations(deps.Config.MigrationsPath, connString); err != nil {
			deps.Logger.Error(ctx, "Could not apply migrations.", dl.Entry("err", err))
			panic(err)
		}
		deps.Logger.Info(ctx, "Migrations applied.", dl.Entry("path", deps.Config.MigrationsPath))
	}

	pool, err := db.Connect(ctx, connString)
	if err != nil {
		deps.Logger.Error(ctx, "Could not connect to DB.", dl.Entry("err", err))
		panic(err)
	}
	deps.DB = pool
	return func() {
		deps.Logger.Info(ctx, "Shutting down DB connection.")
		pool.Close()
		deps.Logger.Info(ctx, "DB connection shut down.")
	}
}

func (deps *Deps) initRedisClient() func() {
	if deps.Config.RedisURL == "" {
		deps.Logger.Info(context.Background(), "Redis is disabled, webhook events are deduplicated in memory.")
		return func() {}
	}
	redisOpt, err := redis.ParseURL(deps.Config.RedisURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to Redis.", dl.Entry("err", err))
		panic(err)
	}
	redisClient := redis.NewClient(redisOpt)
	deps.Redis = redisClient
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down Redis client.")
		redisClient.Close()
		deps.Logger.Info(context.Background(), "Redis client shut down.")
	}
}

func (deps *Deps) initEventDeduplicator() bot.EventDeduplicator {
	if deps.Redis != nil {
		return eventdeduplicator.NewRedis(deps.Redis, deps.Config.WebhookEventTTL)
	}
	return eventdeduplicator.NewMemory(deps.Config.WebhookEventTTL, deps.Now)
}
