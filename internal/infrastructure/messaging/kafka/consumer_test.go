package kafka

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ChemNomen/internal/config"
	"github.com/turtacn/ChemNomen/internal/infrastructure/monitoring/logging"
)

type mockKafkaReader struct {
	mu        sync.Mutex
	messages  []kafka.Message
	committed []kafka.Message
	closed    bool
}

func (m *mockKafkaReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.messages) == 0 {
		// Block until cancelled once drained, like a real reader.
		m.mu.Unlock()
		<-ctx.Done()
		m.mu.Lock()
		return kafka.Message{}, io.EOF
	}
	msg := m.messages[0]
	m.messages = m.messages[1:]
	return msg, nil
}

func (m *mockKafkaReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.committed = append(m.committed, msgs...)
	return nil
}

func (m *mockKafkaReader) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockKafkaReader) committedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.committed)
}

func newTestConsumer(reader ReaderInterface, dlq *Producer) *Consumer {
	return &Consumer{
		reader:     reader,
		logger:     logging.NewNopLogger(),
		handlers:   make(map[string]MessageHandler),
		dlq:        dlq,
		maxRetries: 1,
	}
}

func TestNewConsumer_Validation(t *testing.T) {
	log := logging.NewNopLogger()

	_, err := NewConsumer(config.KafkaConfig{GroupID: "g"}, []string{"t"}, nil, log)
	assert.Error(t, err)

	_, err = NewConsumer(config.KafkaConfig{Brokers: []string{"b:9092"}}, []string{"t"}, nil, log)
	assert.Error(t, err)

	_, err = NewConsumer(config.KafkaConfig{Brokers: []string{"b:9092"}, GroupID: "g"}, nil, nil, log)
	assert.Error(t, err)
}

func TestConsumer_DispatchesToHandler(t *testing.T) {
	reader := &mockKafkaReader{
		messages: []kafka.Message{
			{Topic: TopicNameComputed, Key: []byte("hash1"), Value: []byte(`{}`),
				Headers: []kafka.Header{{Key: "trace_id", Value: []byte("t1")}}},
		},
	}
	c := newTestConsumer(reader, nil)

	received := make(chan *ConsumedMessage, 1)
	c.Subscribe(TopicNameComputed, func(ctx context.Context, msg *ConsumedMessage) error {
		received <- msg
		return nil
	})

	require.NoError(t, c.Start(context.Background()))
	defer c.Close()

	select {
	case msg := <-received:
		assert.Equal(t, TopicNameComputed, msg.Topic)
		assert.Equal(t, []byte("hash1"), msg.Key)
		assert.Equal(t, "t1", msg.Headers["trace_id"])
	case <-time.After(2 * time.Second):
		t.Fatal("handler was not invoked")
	}

	assert.Eventually(t, func() bool { return c.Processed() == 1 }, time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return reader.committedCount() == 1 }, time.Second, 10*time.Millisecond)
}

func TestConsumer_UnhandledTopicIsCommitted(t *testing.T) {
	reader := &mockKafkaReader{
		messages: []kafka.Message{{Topic: "unknown", Value: []byte(`{}`)}},
	}
	c := newTestConsumer(reader, nil)

	require.NoError(t, c.Start(context.Background()))
	defer c.Close()

	assert.Eventually(t, func() bool { return reader.committedCount() == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, int64(0), c.Processed())
}

func TestConsumer_RetriesThenDeadLetters(t *testing.T) {
	reader := &mockKafkaReader{
		messages: []kafka.Message{{Topic: TopicNameComputed, Key: []byte("k"), Value: []byte(`{}`)}},
	}
	dlqWriter := &mockKafkaWriter{}
	c := newTestConsumer(reader, newTestProducer(dlqWriter))

	var attempts int
	c.Subscribe(TopicNameComputed, func(ctx context.Context, msg *ConsumedMessage) error {
		attempts++
		return errors.New("handler failure")
	})

	require.NoError(t, c.Start(context.Background()))
	defer c.Close()

	assert.Eventually(t, func() bool { return c.DeadLettered() == 1 }, 5*time.Second, 20*time.Millisecond)
	// First attempt plus one retry.
	assert.Equal(t, 2, attempts)

	require.Len(t, dlqWriter.written, 1)
	dl := dlqWriter.written[0]
	assert.Equal(t, TopicNameComputedDLQ, dl.Topic)
	headers := make(map[string]string)
	for _, h := range dl.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, TopicNameComputed, headers["original_topic"])
	assert.Equal(t, "handler failure", headers["error_message"])

	// The failed message is still committed so the group moves on.
	assert.Eventually(t, func() bool { return reader.committedCount() == 1 }, time.Second, 10*time.Millisecond)
}

func TestConsumer_StartTwice(t *testing.T) {
	c := newTestConsumer(&mockKafkaReader{}, nil)

	require.NoError(t, c.Start(context.Background()))
	assert.ErrorIs(t, c.Start(context.Background()), ErrAlreadyRunning)
	require.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}
