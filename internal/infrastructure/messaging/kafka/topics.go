// Package kafka publishes and consumes name-computation events.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/turtacn/ChemNomen/internal/config"
	"github.com/turtacn/ChemNomen/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemNomen/pkg/errors"
	"github.com/turtacn/ChemNomen/pkg/types/naming"
)

const (
	// TopicNameComputed carries one event per freshly computed name.
	// Cache hits do not publish.
	TopicNameComputed = "chemnomen.name.computed"

	// TopicNameComputedDLQ receives events whose handlers exhausted retries.
	TopicNameComputedDLQ = "chemnomen.name.computed.dlq"

	// eventSource identifies this service in event envelopes.
	eventSource = "chemnomen"

	// schemaVersion of the event envelope payloads.
	schemaVersion = "1.0"
)

// ─────────────────────────────────────────────────────────────────────────────
// Event envelope
// ─────────────────────────────────────────────────────────────────────────────

// EventEnvelope is the wire format shared by every event this service
// publishes.
type EventEnvelope struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	Source        string            `json:"source"`
	Timestamp     time.Time         `json:"timestamp"`
	SchemaVersion string            `json:"schema_version"`
	Payload       json.RawMessage   `json:"payload"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// NameComputedPayload is the payload of a TopicNameComputed event.
type NameComputedPayload struct {
	StructureHash string        `json:"structure_hash"`
	Name          string        `json:"name"`
	Method        naming.Method `json:"method"`
	Confidence    float64       `json:"confidence"`
	ConflictCount int           `json:"conflict_count"`
	ComputedAt    time.Time     `json:"computed_at"`
}

// NewNameComputedMessage wraps a naming result in an envelope and returns it
// as a ready-to-publish message keyed by structure hash.
func NewNameComputedMessage(res *naming.Result) (*Message, error) {
	payload, err := json.Marshal(NameComputedPayload{
		StructureHash: res.StructureHash,
		Name:          res.Name,
		Method:        res.Method,
		Confidence:    res.Confidence,
		ConflictCount: len(res.Conflicts),
		ComputedAt:    time.Now().UTC(),
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal name-computed payload")
	}

	envelope, err := json.Marshal(EventEnvelope{
		EventID:       uuid.NewString(),
		EventType:     TopicNameComputed,
		Source:        eventSource,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: schemaVersion,
		Payload:       payload,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal event envelope")
	}

	return &Message{
		Topic: TopicNameComputed,
		Key:   []byte(res.StructureHash),
		Value: envelope,
	}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Topic management
// ─────────────────────────────────────────────────────────────────────────────

// TopicConfig describes one topic to ensure at startup.
type TopicConfig struct {
	Name              string
	NumPartitions     int
	ReplicationFactor int
	RetentionMs       int64
}

// ConnInterface abstracts the kafka admin connection for testing.
type ConnInterface interface {
	CreateTopics(topics ...kafka.TopicConfig) error
	DeleteTopics(topics ...string) error
	ReadPartitions(topics ...string) ([]kafka.Partition, error)
	Close() error
}

// TopicManager creates and inspects topics on the cluster.
type TopicManager struct {
	conn   ConnInterface
	logger logging.Logger
}

// NewTopicManager dials the first configured broker for admin operations.
func NewTopicManager(brokers []string, logger logging.Logger) (*TopicManager, error) {
	if len(brokers) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "brokers required")
	}
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to dial kafka")
	}
	return &TopicManager{conn: conn, logger: logger}, nil
}

// CreateTopic creates one topic, tolerating topics that already exist.
func (m *TopicManager) CreateTopic(ctx context.Context, cfg TopicConfig) error {
	if cfg.Name == "" {
		return errors.New(errors.ErrCodeValidation, "topic name required")
	}
	if cfg.NumPartitions <= 0 {
		return errors.New(errors.ErrCodeValidation, "NumPartitions must be > 0")
	}
	if cfg.ReplicationFactor <= 0 {
		return errors.New(errors.ErrCodeValidation, "ReplicationFactor must be > 0")
	}

	kCfg := kafka.TopicConfig{
		Topic:             cfg.Name,
		NumPartitions:     cfg.NumPartitions,
		ReplicationFactor: cfg.ReplicationFactor,
	}
	if cfg.RetentionMs > 0 {
		kCfg.ConfigEntries = append(kCfg.ConfigEntries, kafka.ConfigEntry{
			ConfigName:  "retention.ms",
			ConfigValue: fmt.Sprintf("%d", cfg.RetentionMs),
		})
	}

	if err := m.conn.CreateTopics(kCfg); err != nil {
		exists, _ := m.TopicExists(ctx, cfg.Name)
		if exists {
			return nil
		}
		return err
	}
	m.logger.Info("Topic created", logging.String("topic", cfg.Name))
	return nil
}

// TopicExists reports whether the topic has at least one partition.
func (m *TopicManager) TopicExists(ctx context.Context, name string) (bool, error) {
	partitions, err := m.conn.ReadPartitions(name)
	if err != nil {
		return false, nil
	}
	return len(partitions) > 0, nil
}

// ListTopics returns the distinct topic names on the cluster.
func (m *TopicManager) ListTopics(ctx context.Context) ([]string, error) {
	partitions, err := m.conn.ReadPartitions()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var topics []string
	for _, p := range partitions {
		if !seen[p.Topic] {
			seen[p.Topic] = true
			topics = append(topics, p.Topic)
		}
	}
	return topics, nil
}

// EnsureTopics creates every topic in the list that does not already exist.
func (m *TopicManager) EnsureTopics(ctx context.Context, topics []TopicConfig) error {
	for _, topic := range topics {
		if err := m.CreateTopic(ctx, topic); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the admin connection.
func (m *TopicManager) Close() error {
	return m.conn.Close()
}

// DefaultTopics returns the topics this service needs, sized from config.
func DefaultTopics(cfg config.KafkaConfig) []TopicConfig {
	partitions := cfg.NumPartitions
	if partitions <= 0 {
		partitions = 3
	}
	replication := cfg.ReplicationFactor
	if replication <= 0 {
		replication = 1
	}
	return []TopicConfig{
		{Name: TopicNameComputed, NumPartitions: partitions, ReplicationFactor: replication, RetentionMs: 7 * 24 * 3600 * 1000},
		{Name: TopicNameComputedDLQ, NumPartitions: 1, ReplicationFactor: replication, RetentionMs: 30 * 24 * 3600 * 1000},
	}
}
