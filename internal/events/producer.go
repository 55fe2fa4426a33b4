// Package events publishes assessment lifecycle events to Kafka for
// downstream consumers (dashboards, SIEM pipelines, audit archives).
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// EventType represents different types of events that can be produced
type EventType string

const (
	SessionStartedEvent  EventType = "session_started"
	TurnProcessedEvent   EventType = "turn_processed"
	ReportGeneratedEvent EventType = "report_generated"

	// System events
	SystemEventType EventType = "system"
	ErrorEvent      EventType = "error"
)

// Event represents a generic event to be sent to Kafka
type Event struct {
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	SessionID string                 `json:"session_id,omitempty"`
	Data      map[string]interface{} `json:"data"`
}

// ProducerConfig contains configuration for the event producer
type ProducerConfig struct {
	Brokers      []string
	Topic        string
	BatchSize    int
	BatchTimeout time.Duration
	Async        bool
}

// Producer handles producing events to Kafka
type Producer struct {
	writer      *kafka.Writer
	isConnected bool
	config      ProducerConfig
}

// NewProducer creates a new event producer
func NewProducer(config ProducerConfig) *Producer {
	if len(config.Brokers) == 0 {
		config.Brokers = []string{"localhost:9092"}
	}
	if config.Topic == "" {
		config.Topic = "secsentry-events"
	}
	if config.BatchSize == 0 {
		config.BatchSize = 100
	}
	if config.BatchTimeout == 0 {
		config.BatchTimeout = 1 * time.Second
	}

	return &Producer{
		config: config,
	}
}

// Connect establishes a connection to Kafka
func (p *Producer) Connect(ctx context.Context) error {
	p.writer = &kafka.Writer{
		Addr:         kafka.TCP(p.config.Brokers...),
		Topic:        p.config.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    p.config.BatchSize,
		BatchTimeout: p.config.BatchTimeout,
		Async:        p.config.Async,
		RequiredAcks: kafka.RequireOne,
	}

	// Test connection with a ping event
	pingEvent := Event{
		Type:      SystemEventType,
		Timestamp: time.Now(),
		Source:    "event_producer",
		Data: map[string]interface{}{
			"message": "ping",
		},
	}
	if err := p.ProduceEvent(ctx, pingEvent); err != nil {
		return fmt.Errorf("failed to connect to Kafka: %w", err)
	}

	p.isConnected = true
	return nil
}

// ProduceEvent sends an event to Kafka
func (p *Producer) ProduceEvent(ctx context.Context, event Event) error {
	if p.writer == nil {
		return fmt.Errorf("event producer not connected")
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(string(event.Type)),
		Value: value,
		Time:  event.Timestamp,
		Headers: []kafka.Header{
			{Key: "source", Value: []byte(event.Source)},
			{Key: "type", Value: []byte(event.Type)},
		},
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}

	return nil
}

// ProduceSessionEvent produces an event tied to one assessment session.
func (p *Producer) ProduceSessionEvent(ctx context.Context, eventType EventType, sessionID string, data map[string]interface{}) error {
	event := Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    "assessment",
		SessionID: sessionID,
		Data:      data,
	}

	return p.ProduceEvent(ctx, event)
}

// Close closes the Kafka connection
func (p *Producer) Close() error {
	if p.writer != nil {
		err := p.writer.Close()
		p.writer = nil
		p.isConnected = false
		return err
	}

	return nil
}

// IsConnected returns whether the producer is connected to Kafka
func (p *Producer) IsConnected() bool {
	return p.isConnected
}
