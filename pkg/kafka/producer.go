package kafka

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/pratomobowo/pasarantar-sub000/pkg/config"
	"github.com/pratomobowo/pasarantar-sub000/pkg/logger"
)

const defaultBufferSize = 256

// Producer publishes order events asynchronously. Messages are queued
// on an inbox channel and written by a single background goroutine so
// request handlers never block on the broker.
type Producer struct {
	writer  *kafka.Writer
	inbox   chan kafka.Message
	closeCh chan struct{}
	logg    *logger.Logger

	mu     sync.RWMutex
	closed bool
}

func NewProducer(cfg config.KafkaConfig, logg *logger.Logger) (*Producer, error) {
	if !cfg.Enabled() {
		return nil, errors.New("kafka: brokers and topic are required")
	}
	if logg == nil {
		return nil, errors.New("kafka: logger is required")
	}

	buf := cfg.BufferSize
	if buf <= 0 {
		buf = defaultBufferSize
	}

	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.OrdersTopic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
		logg:    logg,
	}, nil
}

// Start runs the write loop. It exits once Close has drained the inbox.
func (p *Producer) Start() {
	go func() {
		defer close(p.closeCh)
		for m := range p.inbox {
			p.write(m)
		}
		if err := p.writer.Close(); err != nil {
			p.logg.Error(context.Background(), "kafka: closing writer", err)
		}
	}()
}

func (p *Producer) write(m kafka.Message) {
	if err := p.writer.WriteMessages(context.Background(), m); err != nil {
		ctx := p.logg.WithField(context.Background(), "key", string(m.Key))
		p.logg.Error(ctx, "kafka: writing message", err)
	}
}

// Publish queues one message. When the inbox is full or the producer is
// already closed the message is dropped with a warning rather than
// stalling the caller; order events are advisory, the database stays the
// source of truth.
func (p *Producer) Publish(ctx context.Context, key, value []byte, headers ...kafka.Header) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.logg.Warn(p.logg.WithField(ctx, "key", string(key)), "kafka: producer closed, dropping event")
		return
	}

	msg := kafka.Message{
		Key:     key,
		Value:   value,
		Time:    time.Now(),
		Headers: headers,
	}
	select {
	case p.inbox <- msg:
	default:
		p.logg.Warn(p.logg.WithField(ctx, "key", string(key)), "kafka: inbox full, dropping event")
	}
}

// Close stops intake, then blocks until the write loop has flushed the
// inbox and closed the writer. Safe to call more than once.
func (p *Producer) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.inbox)
	}
	p.mu.Unlock()
	<-p.closeCh
}
