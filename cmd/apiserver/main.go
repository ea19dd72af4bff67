// apiserver is the ChemNomen HTTP API server.  It wires the nomenclature
// engine, the persistence and caching layers, the event stream, and the
// gin router, then serves until SIGINT/SIGTERM.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	appnaming "github.com/turtacn/ChemNomen/internal/application/naming"
	"github.com/turtacn/ChemNomen/internal/config"
	"github.com/turtacn/ChemNomen/internal/infrastructure/database/postgres"
	pgrepos "github.com/turtacn/ChemNomen/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/ChemNomen/internal/infrastructure/database/redis"
	"github.com/turtacn/ChemNomen/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/ChemNomen/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemNomen/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/turtacn/ChemNomen/internal/interfaces/http"
	"github.com/turtacn/ChemNomen/internal/interfaces/http/handlers"
	"github.com/turtacn/ChemNomen/internal/nomenclature"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("starting ChemNomen API server",
		logging.String("version", Version),
		logging.String("commit", GitCommit),
		logging.String("build_date", BuildDate),
		logging.Int("port", cfg.Server.Port),
	)

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited", logging.Err(err))
	}
}

func run(cfg *config.Config, logger logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            "chemnomen",
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, logger)
	if err != nil {
		return fmt.Errorf("metrics collector: %w", err)
	}
	metrics := prometheus.NewAppMetrics(collector)

	var checkers []handlers.HealthChecker
	svcOpts := []appnaming.ServiceOption{appnaming.WithMetrics(metrics)}

	// PostgreSQL registry. Optional: without it names are computed but
	// not persisted.
	var pool *pgxpool.Pool
	if cfg.Database.Host != "" {
		if err := postgres.RunMigrations(cfg.Database); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		pool, err = postgres.Connect(ctx, cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		defer pool.Close()

		repo := pgrepos.NewNameRecordRepository(pool, logger)
		svcOpts = append(svcOpts, appnaming.WithStore(repo))
		checkers = append(checkers, handlers.CheckerFunc{
			ComponentName: "postgres",
			Fn:            func(ctx context.Context) error { return postgres.HealthCheck(ctx, pool) },
		})
		logger.Info("name registry enabled",
			logging.String("host", cfg.Database.Host),
			logging.String("database", cfg.Database.DBName),
		)
	} else {
		logger.Warn("no database configured, computed names will not be persisted")
	}

	// Redis result cache.
	if cfg.Redis.Addr != "" {
		rdb, err := redis.NewClient(cfg.Redis, logger)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer rdb.Close()

		svcOpts = append(svcOpts, appnaming.WithCache(redis.NewRedisCache(rdb, logger)))
		checkers = append(checkers, handlers.CheckerFunc{
			ComponentName: "redis",
			Fn:            rdb.Ping,
		})
		logger.Info("result cache enabled", logging.String("addr", cfg.Redis.Addr))
	}

	// Kafka name-computed event stream.
	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) > 0 {
		if cfg.Kafka.AutoCreateTopics {
			if err := ensureTopics(ctx, cfg.Kafka, logger); err != nil {
				return fmt.Errorf("kafka topics: %w", err)
			}
		}
		producer, err := kafka.NewProducer(cfg.Kafka, logger)
		if err != nil {
			return fmt.Errorf("kafka producer: %w", err)
		}
		defer producer.Close()

		svcOpts = append(svcOpts, appnaming.WithPublisher(producer))
		logger.Info("event publishing enabled",
			logging.String("topic", kafka.TopicNameComputed))
	}

	engine := nomenclature.NewEngine(logger)
	svc := appnaming.NewService(engine, cfg.Engine, logger, svcOpts...)

	router := httpserver.NewRouter(httpserver.RouterConfig{
		NamingHandler: handlers.NewNamingHandler(svc, logger),
		HealthHandler: handlers.NewHealthHandler(Version, metrics, checkers...),
		Logger:        logger,
		Metrics:       metrics,
		Collector:     collector,
		Mode:          cfg.Server.Mode,
	})

	srv := httpserver.NewServer(cfg.Server, router, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func ensureTopics(ctx context.Context, cfg config.KafkaConfig, logger logging.Logger) error {
	tm, err := kafka.NewTopicManager(cfg.Brokers, logger)
	if err != nil {
		return err
	}
	defer tm.Close()
	return tm.EnsureTopics(ctx, kafka.DefaultTopics(cfg))
}

// loadConfig reads the file when present and falls back to environment
// variables so the container image needs no baked-in config.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); err == nil {
		return config.Load(path)
	}
	return config.LoadFromEnv()
}

func newLogger(cfg config.LogConfig) (logging.Logger, error) {
	format := cfg.Format
	if format == "text" {
		format = "console"
	}
	output := cfg.Output
	if output == "" {
		output = "stdout"
	}
	return logging.NewLogger(logging.LogConfig{
		Level:            cfg.Level,
		Format:           format,
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{"stderr"},
		EnableCaller:     cfg.EnableCaller,
		EnableStacktrace: cfg.EnableStacktrace,
		SamplingRate:     cfg.SamplingRate,
	})
}
