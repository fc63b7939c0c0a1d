package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const Topic = "user_events"

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(address string) *Producer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(address),
		Topic:                  Topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		WriteTimeout:           5 * time.Second,
	}
	return &Producer{writer: w}
}

// PublishEvent sends one JSON event keyed by user id. The zero Producer is a
// no-op so handlers can run without a broker in tests.
func (p *Producer) PublishEvent(ctx context.Context, key string, event any) error {
	if p == nil || p.writer == nil {
		return nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write failed: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
