// API server entry point for ProtoScribe.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/turtacn/protoscribe/internal/application/compliance"
	"github.com/turtacn/protoscribe/internal/application/document"
	appProtocol "github.com/turtacn/protoscribe/internal/application/protocol"
	"github.com/turtacn/protoscribe/internal/config"
	"github.com/turtacn/protoscribe/internal/domain/guideline"
	domainProtocol "github.com/turtacn/protoscribe/internal/domain/protocol"
	"github.com/turtacn/protoscribe/internal/infrastructure/database/memory"
	"github.com/turtacn/protoscribe/internal/infrastructure/database/postgres"
	"github.com/turtacn/protoscribe/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/protoscribe/internal/infrastructure/database/redis"
	"github.com/turtacn/protoscribe/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/protoscribe/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/protoscribe/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/protoscribe/internal/infrastructure/storage"
	minioStore "github.com/turtacn/protoscribe/internal/infrastructure/storage/minio"
	"github.com/turtacn/protoscribe/internal/intelligence/protocol_gpt"
	httpserver "github.com/turtacn/protoscribe/internal/interfaces/http"
	"github.com/turtacn/protoscribe/internal/interfaces/http/handlers"
	"github.com/turtacn/protoscribe/internal/interfaces/http/middleware"
)

// Build-time variable injected via ldflags.
var version = "dev"

const defaultMigrationsDir = "migrations"

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: environment variables)")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetDefault(logger)

	logger.Info("starting protoscribe API server",
		logging.String("version", version),
		logging.Int("port", cfg.Server.Port),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Object storage for raw uploaded documents.
	var store storage.DocumentStore
	if cfg.MinIO.Enabled {
		store, err = minioStore.NewStore(ctx, cfg.MinIO, logger)
		if err != nil {
			logger.Fatal("minio initialization failed", logging.Err(err))
		}
	} else {
		store, err = storage.NewLocalStore(cfg.Storage.UploadDir, logger)
		if err != nil {
			logger.Fatal("local storage initialization failed", logging.Err(err))
		}
	}

	// Persistence: PostgreSQL when enabled, in-memory otherwise.
	var (
		protocolRepo domainProtocol.Repository
		analysisRepo domainProtocol.AnalysisRepository
		healthChecks []handlers.HealthChecker
	)
	if cfg.Database.Enabled {
		pool, err := postgres.Connect(ctx, cfg.Database, logger)
		if err != nil {
			logger.Fatal("postgres connection failed", logging.Err(err))
		}
		defer pool.Close()
		if err := postgres.Migrate(pool, defaultMigrationsDir, logger); err != nil {
			logger.Fatal("database migration failed", logging.Err(err))
		}
		protocolRepo = repositories.NewProtocolRepository(pool, logger)
		analysisRepo = repositories.NewAnalysisRepository(pool, logger)
		healthChecks = append(healthChecks, &postgresHealthChecker{pool: pool})
	} else {
		logger.Info("database disabled, using in-memory stores")
		protocolRepo = memory.NewProtocolStore()
		analysisRepo = memory.NewAnalysisStore()
	}

	// Compliance report cache.
	cache := redis.NewNopCache()
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, cfg.Redis, logger)
		if err != nil {
			logger.Fatal("redis connection failed", logging.Err(err))
		}
		defer redisClient.Close()
		cache = redis.NewCache(redisClient, cfg.Redis.KeyPrefix, cfg.Redis.DefaultTTL, logger)
		healthChecks = append(healthChecks, &redisHealthChecker{client: redisClient})
	}

	// Protocol lifecycle events.
	publisher := kafka.NewNopPublisher()
	if cfg.Kafka.Enabled {
		tm, err := kafka.NewTopicManager(cfg.Kafka.Brokers, logger)
		if err != nil {
			logger.Fatal("kafka topic manager failed", logging.Err(err))
		}
		if err := tm.EnsureDefaultTopics(ctx); err != nil {
			logger.Error("kafka topic creation failed", logging.Err(err))
		}
		producer, err := kafka.NewProducer(cfg.Kafka, logger)
		if err != nil {
			logger.Fatal("kafka producer failed", logging.Err(err))
		}
		defer producer.Close()
		publisher = producer
	}

	// Guideline registry and rule-based checker.
	registry := guideline.NewRegistry(cfg.Guidelines.Dir, logger)
	if cfg.Guidelines.Watch {
		go func() {
			if err := registry.Watch(ctx); err != nil {
				logger.Error("guideline watcher stopped", logging.Err(err))
			}
		}()
	}
	checker := compliance.NewChecker(registry, logger)

	// AI analyzer; degrades to rule-based output when no provider is set.
	llmClient, err := protocol_gpt.NewClient(cfg.LLM, logger)
	if err != nil {
		logger.Fatal("LLM client initialization failed", logging.Err(err))
	}
	analyzer := protocol_gpt.NewAnalyzer(llmClient, logger)

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            "protoscribe",
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, logger)
	if err != nil {
		logger.Fatal("metrics collector failed", logging.Err(err))
	}
	appMetrics := prometheus.NewAppMetrics(collector)

	processor := document.NewProcessor(logger)
	protocolSvc := appProtocol.NewService(protocolRepo, processor, store, publisher, cfg.Storage, appMetrics, logger)
	analysisSvc := appProtocol.NewAnalysisService(protocolRepo, analysisRepo, checker, analyzer, cache, publisher, appMetrics, logger)

	var rateLimitMW func(http.Handler) http.Handler
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewTokenBucketLimiter(
			float64(cfg.RateLimit.RequestsPerSecond),
			cfg.RateLimit.Burst,
			5*time.Minute,
		)
		defer limiter.Stop()
		rlCfg := middleware.DefaultRateLimitConfig()
		rlCfg.RequestsPerSecond = float64(cfg.RateLimit.RequestsPerSecond)
		rlCfg.BurstSize = cfg.RateLimit.Burst
		rateLimitMW = middleware.RateLimit(limiter, rlCfg)
	}

	router := httpserver.NewRouter(httpserver.RouterConfig{
		Protocols:      handlers.NewProtocolHandler(protocolSvc, cfg.Storage.MaxFileSize, logger),
		Analysis:       handlers.NewAnalysisHandler(analysisSvc, logger),
		Guidelines:     handlers.NewGuidelineHandler(registry),
		Health:         handlers.NewHealthHandler(version, healthChecks...),
		CORS:           middleware.CORS(middleware.DefaultCORSConfig()),
		Logging:        middleware.RequestLogging(logger, middleware.DefaultLoggingConfig()),
		RateLimit:      rateLimitMW,
		Metrics:        appMetrics,
		MetricsHandler: collector.Handler(),
		Version:        version,
	})

	srv := httpserver.NewServer(cfg.Server, router, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal("HTTP server failed", logging.Err(err))
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("server shutdown error", logging.Err(err))
	}
	logger.Info("server stopped")
}

// loadConfig loads from file when a path is given, otherwise from the
// environment with defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadFromEnv()
}
