// Package eventbus publishes domain events to interested consumers.
package eventbus

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/monkmode/internal/shared/domain"
)

// Publisher delivers domain events after an aggregate has been persisted.
type Publisher interface {
	Publish(ctx context.Context, events ...domain.DomainEvent) error
	Close() error
}

// NoopPublisher discards all events. Used when no broker is configured.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (p *NoopPublisher) Publish(_ context.Context, _ ...domain.DomainEvent) error { return nil }

func (p *NoopPublisher) Close() error { return nil }

// PublishAndClear publishes an aggregate's uncommitted events and clears
// them. Publish failures are logged, not returned; event delivery is
// best-effort and must not roll back a completed write.
func PublishAndClear(ctx context.Context, pub Publisher, logger *slog.Logger, agg domain.AggregateRoot) {
	events := agg.DomainEvents()
	if len(events) == 0 {
		return
	}
	if err := pub.Publish(ctx, events...); err != nil {
		logger.WarnContext(ctx, "failed to publish domain events",
			slog.String("aggregate_id", agg.ID().String()),
			slog.Int("event_count", len(events)),
			slog.String("error", err.Error()),
		)
	}
	agg.ClearDomainEvents()
}
