// Command server runs the fiscal-identity verification service. main wires
// the dependency graph and keeps the lifecycle small; business logic lives
// in the internal packages.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agusdc111/arreglocuil/internal/audit"
	"github.com/agusdc111/arreglocuil/internal/healthfund"
	"github.com/agusdc111/arreglocuil/internal/identity/providers"
	"github.com/agusdc111/arreglocuil/internal/identity/resolver"
	jwttoken "github.com/agusdc111/arreglocuil/internal/jwt_token"
	"github.com/agusdc111/arreglocuil/internal/pipeline"
	"github.com/agusdc111/arreglocuil/internal/platform/config"
	"github.com/agusdc111/arreglocuil/internal/platform/heartbeat"
	"github.com/agusdc111/arreglocuil/internal/platform/httpserver"
	"github.com/agusdc111/arreglocuil/internal/platform/logger"
	"github.com/agusdc111/arreglocuil/internal/platform/metrics"
	"github.com/agusdc111/arreglocuil/internal/platform/redis"
	"github.com/agusdc111/arreglocuil/internal/provider/core"
	"github.com/agusdc111/arreglocuil/internal/ratelimit"
	httptransport "github.com/agusdc111/arreglocuil/internal/transport/http"
)

const shutdownGrace = 10 * time.Second

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	client := core.NewClient(cfg.CoreAPIURL)
	chain := resolver.New(log, m, providers.Chain(cfg.PrimaryMethod, client)...)

	aliases, err := healthfund.LoadAliases(cfg.AliasPath)
	if err != nil {
		log.Warn("alias table unavailable, continuing without aliases", "path", cfg.AliasPath, "error", err)
		aliases = healthfund.EmptyAliases()
	}

	// Audit trail: Postgres when configured, in-memory otherwise, with an
	// optional Kafka mirror.
	var store audit.Store = audit.NewInMemoryStore()
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("connect postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if _, err := pool.Exec(ctx, audit.Schema); err != nil {
			log.Error("apply audit schema", "error", err)
			os.Exit(1)
		}
		store = audit.NewPostgresStore(pool)
	}

	var sink audit.Sink
	if len(cfg.KafkaBrokers) > 0 {
		topic := cfg.KafkaTopic
		if topic == "" {
			topic = audit.DefaultTopic
		}
		publisher, err := audit.NewKafkaPublisher(cfg.KafkaBrokers, topic)
		if err != nil {
			log.Error("connect kafka", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()
		sink = publisher
	}

	recorder := audit.NewRecorder(log, 256)
	worker := audit.NewWorker(log, store, sink, recorder.Inbox())
	go func() {
		_ = worker.Run(ctx)
	}()

	var limiterStore ratelimit.Store = ratelimit.NewInMemoryStore()
	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		limiterStore = ratelimit.NewRedisStore(redisClient.Client)
	}

	workflows := pipeline.New(log, m, chain, client, aliases, recorder)
	batch := pipeline.NewBatchRunner(log, m, client, recorder, pipeline.BatchConfig{
		EmploymentCap:   cfg.Batch.EmploymentCap,
		MonoCap:         cfg.Batch.MonoCap,
		EmploymentDelay: cfg.Batch.EmploymentDelay,
		MonoDelay:       cfg.Batch.MonoDelay,
		Cooldown:        cfg.Batch.Cooldown,
	})

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, "arreglocuil", "arreglocuil")
	router := httptransport.NewRouter(httptransport.Dependencies{
		Logger:          log,
		Verifier:        workflows,
		Batch:           batch,
		AuditStore:      store,
		Validator:       jwttoken.NewJWTServiceAdapter(jwtService),
		AllowedChannels: cfg.AllowedChannelIDs,
		RateLimitStore:  limiterStore,
		RateLimit:       cfg.RateLimit,
	})

	if cfg.HealthcheckURL != "" {
		hb := heartbeat.New(log, cfg.HealthcheckURL, heartbeat.DefaultInterval)
		go hb.Run(ctx)
	}

	srv := httpserver.New(cfg.Addr, router)
	log.Info("starting arreglocuil", "addr", cfg.Addr, "core_api", cfg.CoreAPIURL)
	if err := httpserver.Run(ctx, srv, log, shutdownGrace); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
