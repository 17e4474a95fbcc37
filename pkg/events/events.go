package events

import (
	"context"
	"encoding/json"
	"time"
)

const (
	TopicProducts = "product_events"
	TopicOrders   = "order_events"
	TopicUsers    = "user_events"
)

const (
	ProductCreated = "product_created"
	ProductUpdated = "product_updated"
	ProductDeleted = "product_deleted"

	OrderCreated       = "order_created"
	OrderCancelled     = "order_cancelled"
	OrderStatusChanged = "order_status_changed"
	OrderDeleted       = "order_deleted"

	UserRegistered  = "user_registered"
	UserRoleChanged = "user_role_changed"
	UserDeleted     = "user_deleted"
)

// Event is the envelope written to every topic.
type Event struct {
	Type       string          `json:"type"`
	ID         string          `json:"id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data,omitempty"`
}

func NewEvent(typ, id string, data any) (Event, error) {
	ev := Event{Type: typ, ID: id, OccurredAt: time.Now().UTC()}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return Event{}, err
		}
		ev.Data = raw
	}
	return ev, nil
}

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
	Close() error
}

// NewPublisher returns a kafka producer, or a no-op publisher when no brokers
// are configured.
func NewPublisher(brokers []string) Publisher {
	if len(brokers) == 0 {
		return Nop{}
	}
	return NewProducer(brokers)
}

type Nop struct{}

func (Nop) PublishEvent(context.Context, string, string, any) error { return nil }
func (Nop) Close() error { return nil }
