// Package events publishes score notifications to downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// ScoreComputed is emitted after a day's snapshot and actions are stored.
type ScoreComputed struct {
	SiteID      string         `json:"site_id"`
	Date        string         `json:"date"`
	TotalScore  int            `json:"total_score"`
	Grade       string         `json:"grade"`
	Pillars     map[string]int `json:"pillars"`
	ActionCount int            `json:"action_count"`
	RunID       string         `json:"run_id"`
	At          time.Time      `json:"at"`
}

// Publisher delivers events.
type Publisher interface {
	Publish(ctx context.Context, ev ScoreComputed) error
	Close() error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ScoreComputed) error { return nil }
func (NopPublisher) Close() error                                 { return nil }

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events to a Kafka topic, keyed by site and date so
// re-runs for a day land on the same partition.
type KafkaPublisher struct {
	w messageWriter
}

// NewKafkaPublisher creates a synchronous publisher that waits for the
// partition leader to acknowledge each write.
func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka publisher: no brokers configured")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka publisher: topic is required")
	}
	return &KafkaPublisher{w: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev ScoreComputed) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(ev.SiteID + "/" + ev.Date),
		Value: value,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte("score.computed")},
		},
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish score event %s: %w", ev.Date, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}
