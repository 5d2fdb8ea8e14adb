package orders

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mandlimart/mandlimart-backend/pkg/redis"
)

// Feed is a live stream of raw order events for one user.
type Feed interface {
	Messages() <-chan []byte
	Close() error
}

type pubsubClient interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (*redis.Subscription, error)
	OrderChannel(userID string) string
}

// Broker fans order updates out to the owner's realtime channel.
type Broker struct {
	client pubsubClient
}

func NewBroker(client pubsubClient) (*Broker, error) {
	if client == nil {
		return nil, fmt.Errorf("pubsub client required")
	}
	return &Broker{client: client}, nil
}

// PublishOrderUpdate sends an order.updated frame to the order owner's channel.
func (b *Broker) PublishOrderUpdate(ctx context.Context, order OrderDTO) error {
	payload, err := json.Marshal(StreamEvent{Type: EventOrderUpdated, Order: order})
	if err != nil {
		return fmt.Errorf("encode order event: %w", err)
	}
	return b.client.Publish(ctx, b.client.OrderChannel(order.UserID.String()), payload)
}

// SubscribeOrders opens the caller's order channel. The caller must Close the feed.
func (b *Broker) SubscribeOrders(ctx context.Context, userID string) (Feed, error) {
	sub, err := b.client.Subscribe(ctx, b.client.OrderChannel(userID))
	if err != nil {
		return nil, err
	}
	return sub, nil
}
