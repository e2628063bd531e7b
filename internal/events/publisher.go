package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/maltedev/product-image-generator/internal/models"
)

type EventType string

const (
	// EventTypeProductExtracted is published after a product page was scraped
	EventTypeProductExtracted EventType = "PRODUCT_EXTRACTED"
	// EventTypeImageGenerated is published after an image was composed
	EventTypeImageGenerated EventType = "IMAGE_GENERATED"

	DefaultStream = "stream:product_images"
	source        = "product-image-generator"
)

// RedisClient interface for Redis operations (for testing)
type RedisClient interface {
	XAdd(ctx context.Context, args *redis.XAddArgs) *redis.StringCmd
	Close() error
}

// Publisher sends notifications about finished work. Nothing is read back.
type Publisher interface {
	Publish(ctx context.Context, eventType EventType, aggregateID string, payload any) error
	Close() error
}

// Event is the JSON document stored in the stream entry's data field.
type Event struct {
	EventID     string    `json:"event_id"`
	EventType   EventType `json:"event_type"`
	AggregateID string    `json:"aggregate_id"`
	Timestamp   time.Time `json:"timestamp"`
	Source      string    `json:"source"`
	Payload     any       `json:"payload"`
}

type ProductExtractedPayload struct {
	URL      string   `json:"url"`
	Name     string   `json:"name"`
	Price    string   `json:"price"`
	ImageURL string   `json:"image_url,omitempty"`
	Sizes    []string `json:"sizes"`
	Colors   []string `json:"colors"`
}

func NewProductExtractedPayload(record *models.ProductRecord) ProductExtractedPayload {
	return ProductExtractedPayload{
		URL:      record.SourceURL,
		Name:     record.Name,
		Price:    record.Price.String(),
		ImageURL: record.ImageURL,
		Sizes:    record.SizeColorMatrix.Sizes,
		Colors:   record.SizeColorMatrix.Colors,
	}
}

type ImageGeneratedPayload struct {
	ImageID  string `json:"image_id"`
	URL      string `json:"url"`
	Formula  string `json:"formula"`
	Filename string `json:"filename"`
	Bytes    int    `json:"bytes"`
}

// StreamPublisher appends events to a Redis stream.
type StreamPublisher struct {
	redis  RedisClient
	stream string
	logger *slog.Logger
	now    func() time.Time
}

func NewStreamPublisher(client RedisClient, stream string, logger *slog.Logger) *StreamPublisher {
	if stream == "" {
		stream = DefaultStream
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StreamPublisher{
		redis:  client,
		stream: stream,
		logger: logger.With("component", "event_publisher"),
		now:    time.Now,
	}
}

func (p *StreamPublisher) Publish(ctx context.Context, eventType EventType, aggregateID string, payload any) error {
	event := Event{
		EventID:     uuid.New().String(),
		EventType:   eventType,
		AggregateID: aggregateID,
		Timestamp:   p.now().UTC(),
		Source:      source,
		Payload:     payload,
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			"data":         string(data),
			"event_id":     event.EventID,
			"event_type":   string(eventType),
			"aggregate_id": aggregateID,
			"timestamp":    fmt.Sprintf("%d", event.Timestamp.UnixNano()),
		},
	}

	id, err := p.redis.XAdd(ctx, args).Result()
	if err != nil {
		return fmt.Errorf("failed to publish to redis: %w", err)
	}

	p.logger.Info("event published",
		"type", eventType,
		"event_id", event.EventID,
		"aggregate_id", aggregateID,
		"stream_id", id,
	)
	return nil
}

func (p *StreamPublisher) Close() error {
	return p.redis.Close()
}

// NoopPublisher is used when no Redis address is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, EventType, string, any) error { return nil }

func (NoopPublisher) Close() error { return nil }
