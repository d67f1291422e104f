package eventbus

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/monkmode/internal/shared/domain"
)

type capturingPublisher struct {
	events []domain.DomainEvent
	err    error
}

func (p *capturingPublisher) Publish(_ context.Context, events ...domain.DomainEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, events...)
	return nil
}

func (p *capturingPublisher) Close() error { return nil }

type testAggregate struct {
	domain.BaseAggregateRoot
}

type testEvent struct {
	domain.BaseEvent
}

func TestNoopPublisher(t *testing.T) {
	pub := NewNoopPublisher()
	agg := &testAggregate{BaseAggregateRoot: domain.NewBaseAggregateRoot()}
	ev := testEvent{BaseEvent: domain.NewBaseEvent(agg.ID(), "test", "test.created")}

	require.NoError(t, pub.Publish(context.Background(), ev))
	require.NoError(t, pub.Close())
}

func TestPublishAndClear(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	t.Run("publishes and clears events", func(t *testing.T) {
		pub := &capturingPublisher{}
		agg := &testAggregate{BaseAggregateRoot: domain.NewBaseAggregateRoot()}
		agg.AddDomainEvent(testEvent{BaseEvent: domain.NewBaseEvent(agg.ID(), "test", "test.created")})

		PublishAndClear(context.Background(), pub, logger, agg)

		require.Len(t, pub.events, 1)
		assert.Empty(t, agg.DomainEvents())
	})

	t.Run("no events is a no-op", func(t *testing.T) {
		pub := &capturingPublisher{}
		agg := &testAggregate{BaseAggregateRoot: domain.NewBaseAggregateRoot()}

		PublishAndClear(context.Background(), pub, logger, agg)

		assert.Empty(t, pub.events)
	})

	t.Run("publish failure still clears events", func(t *testing.T) {
		var buf bytes.Buffer
		warnLogger := slog.New(slog.NewTextHandler(&buf, nil))
		pub := &capturingPublisher{err: errors.New("broker down")}
		agg := &testAggregate{BaseAggregateRoot: domain.NewBaseAggregateRoot()}
		agg.AddDomainEvent(testEvent{BaseEvent: domain.NewBaseEvent(agg.ID(), "test", "test.created")})

		PublishAndClear(context.Background(), pub, warnLogger, agg)

		assert.Empty(t, agg.DomainEvents())
		assert.Contains(t, buf.String(), "failed to publish domain events")
	})
}
