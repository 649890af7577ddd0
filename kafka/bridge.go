package kafka

import (
	"context"

	"github.com/medetk/storefront/pkg/logger"
)

// Bridge forwards in-process cart-updated signals to Kafka. It is a plain
// bus subscriber: on each signal it re-derives the unit count through the
// provided projection instead of reading anything off the signal itself.
type Bridge struct {
	publisher *Publisher
	count     func(ctx context.Context) int
	signals   <-chan struct{}
}

// NewBridge creates a bridge from a bus subscription to the publisher
func NewBridge(publisher *Publisher, count func(ctx context.Context) int, signals <-chan struct{}) *Bridge {
	return &Bridge{
		publisher: publisher,
		count:     count,
		signals:   signals,
	}
}

// Run consumes signals until the context ends or the subscription closes.
// Publish failures are logged and skipped; the audit stream is best-effort
// and must never block a cart mutation.
func (b *Bridge) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, open := <-b.signals:
			if !open {
				return
			}
			event := CartUpdatedEvent{TotalUnits: b.count(ctx)}
			if err := b.publisher.PublishCartUpdated(ctx, event); err != nil {
				logger.Error(ctx).Err(err).Msg("Failed to publish cart audit event")
			}
		}
	}
}
