package sink

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rzpsarthak13/rowgate/internal/registry"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaSinkPut(t *testing.T) {
	w := &fakeWriter{}
	s := NewKafkaSinkFromWriter(w, "rowgate-export")

	require.NoError(t, s.Put(context.Background(), "Client", "shop:Client:1", []byte(`{"idClient":1}`)))
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, "shop:Client:1", string(msg.Key))
	assert.Equal(t, `{"idClient":1}`, string(msg.Value))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, TableHeader, msg.Headers[0].Key)
	assert.Equal(t, "Client", string(msg.Headers[0].Value))
}

func TestKafkaSinkClose(t *testing.T) {
	w := &fakeWriter{}
	s := NewKafkaSinkFromWriter(w, "rowgate-export")

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.True(t, w.closed)
	assert.ErrorIs(t, s.Put(context.Background(), "Town", "Town:1", []byte("{}")), ErrSinkClosed)
}

func TestKafkaSinkWriteError(t *testing.T) {
	s := NewKafkaSinkFromWriter(&fakeWriter{err: errors.New("leader not available")}, "rowgate-export")
	assert.Error(t, s.Put(context.Background(), "Town", "Town:1", []byte("{}")))
}

func TestNewKafkaSink(t *testing.T) {
	_, err := NewKafkaSink(registry.InternalKafkaConfig{Topic: "t"})
	assert.Error(t, err)

	_, err = NewKafkaSink(registry.InternalKafkaConfig{Brokers: []string{"localhost:9092"}})
	assert.Error(t, err)

	s, err := NewKafkaSink(registry.DefaultInternalConfig().Export.Kafka)
	require.NoError(t, err)
	w, ok := s.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "rowgate-export", w.Topic)
	assert.Equal(t, kafka.RequireAll, w.RequiredAcks)
	require.NoError(t, s.Close())
}
