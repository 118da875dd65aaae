// Package events publishes catalog domain events to downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event types
const (
	ProductCreated  = "product.created"
	ProductUpdated  = "product.updated"
	ProductDeleted  = "product.deleted"
	BrandDeleted    = "brand.deleted"
	CategoryDeleted = "category.deleted"
)

// Event describes a change to a catalog aggregate
type Event struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	AggregateID string          `json:"aggregate_id"`
	OccurredAt  time.Time       `json:"occurred_at"`
	Payload     json.RawMessage `json:"payload,omitempty"`
}

// New builds an event for aggregateID. payload is marshalled to JSON; a nil
// payload is omitted.
func New(eventType string, aggregateID uuid.UUID, payload interface{}) (Event, error) {
	e := Event{
		ID:          uuid.NewString(),
		Type:        eventType,
		AggregateID: aggregateID.String(),
		OccurredAt:  time.Now().UTC(),
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return Event{}, err
		}
		e.Payload = data
	}
	return e, nil
}

// Publisher delivers events
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// LogPublisher writes events to the log. It is the default when no broker is configured.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, event Event) error {
	p.logger.Info("Domain event",
		zap.String("event_id", event.ID),
		zap.String("type", event.Type),
		zap.String("aggregate_id", event.AggregateID),
		zap.Time("occurred_at", event.OccurredAt),
	)
	return nil
}
