// Package events publishes extraction outcomes to a Redis stream.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/maltedev/listing-extractor/internal/models"
	"github.com/redis/go-redis/v9"
)

// EventType represents the type of event
type EventType string

const (
	// EventTypeProductExtracted is published when a record was returned to the caller
	EventTypeProductExtracted EventType = "PRODUCT_EXTRACTED"
	// EventTypeExtractionFailed is published when extraction ended in a terminal failure
	EventTypeExtractionFailed EventType = "EXTRACTION_FAILED"

	DefaultStream = "stream:product_extraction"
)

// ProductExtractedPayload represents the payload for PRODUCT_EXTRACTED
type ProductExtractedPayload struct {
	EventID       string                `json:"event_id"`
	EventType     string                `json:"event_type"`
	Timestamp     time.Time             `json:"timestamp"`
	Source        string                `json:"source"`
	Product       *models.ProductRecord `json:"product"`
	MissingFields []string              `json:"missing_fields,omitempty"`
}

// ExtractionFailedPayload represents the payload for EXTRACTION_FAILED
type ExtractionFailedPayload struct {
	EventID      string    `json:"event_id"`
	EventType    string    `json:"event_type"`
	Timestamp    time.Time `json:"timestamp"`
	Source       string    `json:"source"`
	URL          string    `json:"url"`
	TargetMarket string    `json:"target_market"`
	Kind         string    `json:"kind"`
	Attempts     int       `json:"attempts,omitempty"`
	Error        string    `json:"error"`
}

// Publisher records extraction outcomes.
type Publisher interface {
	PublishProductExtracted(ctx context.Context, product *models.ProductRecord) error
	PublishExtractionFailed(ctx context.Context, rawURL, targetMarket string, err error) error
	Close() error
}

// RedisClient interface for Redis operations (for testing)
type RedisClient interface {
	XAdd(ctx context.Context, args *redis.XAddArgs) *redis.StringCmd
	Close() error
}

// StreamPublisher appends one entry per event to a Redis stream.
type StreamPublisher struct {
	redis  RedisClient
	stream string
	source string
	logger *slog.Logger
}

func NewStreamPublisher(client RedisClient, stream string, logger *slog.Logger) *StreamPublisher {
	if stream == "" {
		stream = DefaultStream
	}
	return &StreamPublisher{
		redis:  client,
		stream: stream,
		source: "listing-extractor",
		logger: logger.With("component", "event_publisher"),
	}
}

// NewRedisClient connects to the Redis instance that hosts the stream.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func (p *StreamPublisher) PublishProductExtracted(ctx context.Context, product *models.ProductRecord) error {
	payload := &ProductExtractedPayload{
		EventID:       uuid.New().String(),
		EventType:     string(EventTypeProductExtracted),
		Timestamp:     time.Now(),
		Source:        p.source,
		Product:       product,
		MissingFields: product.MissingFields(),
	}

	return p.publish(ctx, payload.EventID, EventTypeProductExtracted, product.ASIN, payload.Timestamp, payload)
}

func (p *StreamPublisher) PublishExtractionFailed(ctx context.Context, rawURL, targetMarket string, cause error) error {
	payload := &ExtractionFailedPayload{
		EventID:      uuid.New().String(),
		EventType:    string(EventTypeExtractionFailed),
		Timestamp:    time.Now(),
		Source:       p.source,
		URL:          rawURL,
		TargetMarket: targetMarket,
		Kind:         string(models.KindOf(cause)),
	}
	if cause != nil {
		payload.Error = cause.Error()
	}

	var extractionErr *models.Error
	if errors.As(cause, &extractionErr) {
		payload.Attempts = extractionErr.Attempts
	}

	return p.publish(ctx, payload.EventID, EventTypeExtractionFailed, rawURL, payload.Timestamp, payload)
}

func (p *StreamPublisher) publish(ctx context.Context, eventID string, eventType EventType, aggregateID string, ts time.Time, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			"data":         string(data),
			"event_id":     eventID,
			"event_type":   string(eventType),
			"aggregate_id": aggregateID,
			"timestamp":    fmt.Sprintf("%d", ts.UnixNano()),
		},
	}

	if _, err := p.redis.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to publish to redis: %w", err)
	}

	p.logger.Debug("event published",
		"type", eventType,
		"event_id", eventID,
		"stream", p.stream,
	)
	return nil
}

func (p *StreamPublisher) Close() error {
	return p.redis.Close()
}

// NopPublisher drops every event. Used when publishing is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishProductExtracted(context.Context, *models.ProductRecord) error {
	return nil
}

func (NopPublisher) PublishExtractionFailed(context.Context, string, string, error) error {
	return nil
}

func (NopPublisher) Close() error { return nil }
