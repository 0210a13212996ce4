package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/cole-vita-unc/CheekyWebScraper/internal/models"
)

// EventType represents the type of event
type EventType string

const (
	// EventTypeRecordExtracted is published when a page finishes extraction
	EventTypeRecordExtracted EventType = "PRODUCT_RECORD_EXTRACTED"
)

// RecordExtractedPayload is the wire form of a PRODUCT_RECORD_EXTRACTED event.
type RecordExtractedPayload struct {
	EventID        string                `json:"event_id"`
	EventType      string                `json:"event_type"`
	Timestamp      time.Time             `json:"timestamp"`
	URL            string                `json:"url"`
	Record         *models.ProductRecord `json:"record,omitempty"`
	ImageURL       string                `json:"image_url,omitempty"`
	EnrichedFields int                   `json:"enriched_fields"`
	Status         string                `json:"status"`
	Error          string                `json:"error,omitempty"`
	Source         string                `json:"source"`
}

// RedisClient is the subset of the redis client the publisher needs.
type RedisClient interface {
	XAdd(ctx context.Context, args *redis.XAddArgs) *redis.StringCmd
	Close() error
}

// Publisher pushes extraction events onto a Redis stream so downstream
// consumers can react to finished pages.
type Publisher struct {
	redis  RedisClient
	stream string
	logger *slog.Logger
}

func NewPublisher(client RedisClient, stream string) *Publisher {
	return &Publisher{
		redis:  client,
		stream: stream,
		logger: slog.With("component", "event_publisher"),
	}
}

// PublishRecordExtracted publishes the result of one page extraction.
func (p *Publisher) PublishRecordExtracted(ctx context.Context, result *models.Result) error {
	payload := &RecordExtractedPayload{
		EventID:        uuid.New().String(),
		EventType:      string(EventTypeRecordExtracted),
		Timestamp:      time.Now().UTC(),
		URL:            result.URL,
		Record:         result.Record,
		ImageURL:       result.ImageURL,
		EnrichedFields: result.EnrichedFields,
		Status:         string(result.Status),
		Error:          result.Error,
		Source:         "extractor",
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			"data":       string(data),
			"type":       payload.EventType,
			"timestamp":  fmt.Sprintf("%d", payload.Timestamp.UnixNano()),
			"event_id":   payload.EventID,
			"event_type": payload.EventType,
			"url":        payload.URL,
		},
	}

	if _, err := p.redis.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to publish to redis: %w", err)
	}

	p.logger.Info("event published",
		"type", payload.EventType,
		"event_id", payload.EventID,
		"url", payload.URL,
	)

	return nil
}

func (p *Publisher) Close() error {
	return p.redis.Close()
}
