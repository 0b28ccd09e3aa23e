package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const channelTopic = "events"

type envelope struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt int64                  `json:"occurred_at"`
}

// ChannelBus delivers events in-process over a watermill gochannel.
// It is used when no NATS server is configured.
type ChannelBus struct {
	pubSub *gochannel.GoChannel
}

func NewChannelBus(pubSub *gochannel.GoChannel) *ChannelBus {
	return &ChannelBus{pubSub: pubSub}
}

func (b *ChannelBus) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(envelope{
		Type:       event.EventType(),
		Data:       event.Payload(),
		OccurredAt: event.Timestamp().UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.SetContext(ctx)
	return b.pubSub.Publish(channelTopic, msg)
}

func (b *ChannelBus) Subscribe(ctx context.Context, durable string, handler Handler) error {
	messages, err := b.pubSub.Subscribe(ctx, channelTopic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			var env envelope
			if err := json.Unmarshal(msg.Payload, &env); err != nil {
				msg.Ack()
				continue
			}
			event := New(env.Type, env.Data)
			event.OccurredAt = time.UnixMilli(env.OccurredAt).UTC()
			if err := handler(ctx, event); err != nil {
				msg.Nack()
				continue
			}
			msg.Ack()
		}
	}()
	return nil
}

func (b *ChannelBus) Close() error {
	return b.pubSub.Close()
}

var _ Bus = (*ChannelBus)(nil)
