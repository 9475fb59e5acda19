package kafka

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pratomobowo/pasarantar-sub000/pkg/config"
	"github.com/pratomobowo/pasarantar-sub000/pkg/logger"
)

func testProducer(t *testing.T) *Producer {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "kafka-test", Output: io.Discard})
	p, err := NewProducer(config.KafkaConfig{
		Brokers:     []string{"localhost:9092"},
		OrdersTopic: "orders-test",
		BufferSize:  4,
	}, logg)
	require.NoError(t, err)
	return p
}

func TestNewProducerRequiresBrokers(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "kafka-test", Output: io.Discard})
	_, err := NewProducer(config.KafkaConfig{OrdersTopic: "orders-test"}, logg)
	require.Error(t, err)
}

func TestPublishAfterCloseDropsWithoutPanic(t *testing.T) {
	p := testProducer(t)
	p.Start()
	p.Close()

	// Intake is shut; the event is dropped, never sent on the closed inbox.
	p.Publish(context.Background(), []byte("order-1"), []byte(`{}`))

	// Close is idempotent.
	p.Close()
}
