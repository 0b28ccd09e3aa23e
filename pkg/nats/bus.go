package nats

import (
	"context"

	"sumii-mobile-api/internal/pkg/logger"
	"sumii-mobile-api/pkg/events"
)

// Bus adapts a Publisher/Subscriber pair to events.Bus.
type Bus struct {
	pub *Publisher
	sub *Subscriber
}

func NewBus(url string, log logger.ILogger) (*Bus, error) {
	pub, err := NewPublisher(url, log)
	if err != nil {
		return nil, err
	}
	sub, err := NewSubscriber(url, log)
	if err != nil {
		pub.Close()
		return nil, err
	}
	return &Bus{pub: pub, sub: sub}, nil
}

func (b *Bus) Publish(ctx context.Context, event events.Event) error {
	return b.pub.Publish(ctx, event)
}

func (b *Bus) Subscribe(ctx context.Context, durable string, handler events.Handler) error {
	return b.sub.Subscribe(ctx, SubjectPrefix+">", durable, handler)
}

func (b *Bus) Close() error {
	b.sub.Close()
	b.pub.Close()
	return nil
}

var _ events.Bus = (*Bus)(nil)
