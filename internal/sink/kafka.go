package sink

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/rzpsarthak13/rowgate/internal/core"
	"github.com/rzpsarthak13/rowgate/internal/registry"
)

// TableHeader is the message header carrying the source table of an export.
const TableHeader = "rowgate-table"

// MessageWriter is the subset of *kafka.Writer used by KafkaSink.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink implements core.Sink by producing one message per exported object,
// keyed by the export key so that a compacted topic keeps the latest version.
type KafkaSink struct {
	mu     sync.RWMutex
	writer MessageWriter
	topic  string
	closed bool
}

// NewKafkaSink creates a Kafka producer for the configured topic.
func NewKafkaSink(config registry.InternalKafkaConfig) (*KafkaSink, error) {
	if len(config.Brokers) == 0 {
		return nil, fmt.Errorf("at least one Kafka broker is required")
	}
	if config.Topic == "" {
		return nil, fmt.Errorf("Kafka topic is required")
	}

	log.Printf("[KAFKA] Initializing Kafka sink...")
	log.Printf("[KAFKA] Brokers: %v", config.Brokers)
	log.Printf("[KAFKA] Topic: %s", config.Topic)
	log.Printf("[KAFKA] Batch Size: %d", config.BatchSize)
	log.Printf("[KAFKA] Required Acks: %d", config.RequiredAcks)

	writer := &kafka.Writer{
		Addr:         kafka.TCP(config.Brokers...),
		Topic:        config.Topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    config.BatchSize,
		BatchTimeout: config.BatchTimeout,
		WriteTimeout: config.WriteTimeout,
		BatchBytes:   int64(config.MaxMessageBytes),
		RequiredAcks: kafka.RequiredAcks(config.RequiredAcks),
		MaxAttempts:  3,
		Async:        false,
	}

	return NewKafkaSinkFromWriter(writer, config.Topic), nil
}

// NewKafkaSinkFromWriter wraps an existing writer.
func NewKafkaSinkFromWriter(writer MessageWriter, topic string) *KafkaSink {
	return &KafkaSink{
		writer: writer,
		topic:  topic,
	}
}

// Put produces a message keyed by key with the table name as a header.
func (k *KafkaSink) Put(ctx context.Context, table string, key string, value []byte) error {
	if err := checkEntry(key, value); err != nil {
		return err
	}

	k.mu.RLock()
	defer k.mu.RUnlock()
	if k.closed {
		return ErrSinkClosed
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: TableHeader, Value: []byte(table)},
		},
	}

	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		log.Printf("[KAFKA] ERROR: Failed to write message for key %s: %v", key, err)
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}

	log.Printf("[KAFKA] Message written - Topic: %s, Key: %s, Size: %d bytes", k.topic, key, len(value))
	return nil
}

// Close flushes pending messages and closes the writer.
func (k *KafkaSink) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.closed {
		return nil
	}
	k.closed = true

	if err := k.writer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka writer: %w", err)
	}
	log.Printf("[KAFKA] Kafka sink closed")
	return nil
}

// KafkaSinkFactory implements the SinkFactory interface for Kafka.
type KafkaSinkFactory struct{}

// Type returns the type identifier for this factory.
func (f *KafkaSinkFactory) Type() string {
	return "kafka"
}

// Validate validates the Kafka-specific configuration.
func (f *KafkaSinkFactory) Validate(config registry.InternalExportConfig) error {
	if config.SinkType != "kafka" {
		return fmt.Errorf("invalid type for Kafka factory: %s", config.SinkType)
	}
	if len(config.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers is required")
	}
	if config.Kafka.Topic == "" {
		return fmt.Errorf("kafka.topic is required")
	}
	switch config.Kafka.RequiredAcks {
	case -1, 0, 1:
	default:
		return fmt.Errorf("kafka.required_acks must be -1, 0 or 1, got: %d", config.Kafka.RequiredAcks)
	}
	return nil
}

// Create creates a new Kafka sink.
func (f *KafkaSinkFactory) Create(config registry.InternalExportConfig) (core.Sink, error) {
	s, err := NewKafkaSink(config.Kafka)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka sink: %w", err)
	}
	return s, nil
}

func init() {
	register(&KafkaSinkFactory{})
}
