// worker consumes name-computed events from Kafka and audits them against
// the persisted registry: every event should correspond to a stored name
// record.  Missing records are counted as drift so operators can spot
// persistence failures from the metrics endpoint alone.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/turtacn/ChemNomen/internal/config"
	"github.com/turtacn/ChemNomen/internal/infrastructure/database/postgres"
	pgrepos "github.com/turtacn/ChemNomen/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/ChemNomen/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/ChemNomen/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemNomen/internal/infrastructure/monitoring/prometheus"
	apperrors "github.com/turtacn/ChemNomen/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	healthPort := flag.Int("health-port", 8081, "port for /healthz and /metrics")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}

	logger.Info("starting ChemNomen audit worker",
		logging.String("version", Version),
		logging.String("commit", GitCommit),
	)

	if err := run(cfg, logger, *healthPort); err != nil {
		logger.Fatal("worker exited", logging.Err(err))
	}
}

func run(cfg *config.Config, logger logging.Logger, healthPort int) error {
	if !cfg.Kafka.Enabled || len(cfg.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka must be enabled for the audit worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            "chemnomen",
		Subsystem:            "worker",
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, logger)
	if err != nil {
		return fmt.Errorf("metrics collector: %w", err)
	}

	auditor := &registryAuditor{
		logger: logger.Named("auditor"),
		eventsTotal: collector.RegisterCounter(
			"events_total", "Name-computed events processed, by result.", "result"),
		driftTotal: collector.RegisterCounter(
			"registry_drift_total", "Events whose name record was missing from the registry."),
		eventLag: collector.RegisterHistogram(
			"event_lag_seconds", "Delay between name computation and audit.",
			[]float64{0.1, 0.5, 1, 5, 30, 120, 600}),
	}

	// Without a database the worker still validates and counts events.
	if cfg.Database.Host != "" {
		pool, err := postgres.Connect(ctx, cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		defer pool.Close()
		auditor.records = pgrepos.NewNameRecordRepository(pool, logger)
	} else {
		logger.Warn("no database configured, registry drift detection disabled")
	}

	dlq, err := kafka.NewProducer(cfg.Kafka, logger)
	if err != nil {
		return fmt.Errorf("kafka producer: %w", err)
	}
	defer dlq.Close()

	consumer, err := kafka.NewConsumer(cfg.Kafka, []string{kafka.TopicNameComputed}, dlq, logger)
	if err != nil {
		return fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.Subscribe(kafka.TopicNameComputed, auditor.Handle)

	if err := consumer.Start(ctx); err != nil {
		return fmt.Errorf("consumer start: %w", err)
	}

	healthSrv := startHealthServer(healthPort, collector, logger)

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := consumer.Close(); err != nil {
		logger.Error("consumer close failed", logging.Err(err))
	}
	if err := healthSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("health server shutdown failed", logging.Err(err))
	}

	logger.Info("worker stopped",
		logging.Int64("processed", consumer.Processed()),
		logging.Int64("dead_lettered", consumer.DeadLettered()),
	)
	return nil
}

// registryAuditor handles one name-computed event at a time.
type registryAuditor struct {
	records     *pgrepos.NameRecordRepository
	logger      logging.Logger
	eventsTotal prometheus.CounterVec
	driftTotal  prometheus.CounterVec
	eventLag    prometheus.HistogramVec
}

func (a *registryAuditor) Handle(ctx context.Context, msg *kafka.ConsumedMessage) error {
	var envelope kafka.EventEnvelope
	if err := json.Unmarshal(msg.Value, &envelope); err != nil {
		a.eventsTotal.WithLabelValues("malformed").Inc()
		return fmt.Errorf("malformed event envelope: %w", err)
	}
	var payload kafka.NameComputedPayload
	if err := json.Unmarshal(envelope.Payload, &payload); err != nil {
		a.eventsTotal.WithLabelValues("malformed").Inc()
		return fmt.Errorf("malformed event payload: %w", err)
	}
	if payload.StructureHash == "" || payload.Name == "" {
		a.eventsTotal.WithLabelValues("invalid").Inc()
		return fmt.Errorf("event %s missing structure hash or name", envelope.EventID)
	}

	if !payload.ComputedAt.IsZero() {
		a.eventLag.WithLabelValues().Observe(time.Since(payload.ComputedAt).Seconds())
	}

	if a.records != nil {
		rec, err := a.records.FindByStructureHash(ctx, payload.StructureHash)
		switch {
		case apperrors.IsNotFound(err):
			// Persistence may lag behind publishing, so drift is counted
			// but the message is not retried or dead-lettered.
			a.driftTotal.WithLabelValues().Inc()
			a.logger.Warn("name record missing for published event",
				logging.String("structure_hash", payload.StructureHash),
				logging.String("event_id", envelope.EventID),
			)
		case err != nil:
			a.eventsTotal.WithLabelValues("error").Inc()
			return fmt.Errorf("registry lookup: %w", err)
		case rec.Name != payload.Name:
			a.driftTotal.WithLabelValues().Inc()
			a.logger.Warn("registry name diverges from published event",
				logging.String("structure_hash", payload.StructureHash),
				logging.String("stored", rec.Name),
				logging.String("published", payload.Name),
			)
		}
	}

	a.eventsTotal.WithLabelValues("ok").Inc()
	a.logger.Debug("event audited",
		logging.String("structure_hash", payload.StructureHash),
		logging.String("name", payload.Name),
		logging.String("method", string(payload.Method)),
	)
	return nil
}

func startHealthServer(port int, collector prometheus.MetricsCollector, logger logging.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("health server listening", logging.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("health server error", logging.Err(err))
		}
	}()
	return srv
}

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
