package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/ecoruta/ecoruta/internal/core/domain"
)

// Subscriber consumes EcoRuta events from NATS JetStream.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber creates a subscriber with its own NATS connection.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	return &Subscriber{conn: conn, js: js}, nil
}

// SubscribeScorePending delivers pending score credits to the handler. The
// durable consumer survives restarts; a failed handler call NAKs the message
// for redelivery.
func (s *Subscriber) SubscribeScorePending(ctx context.Context, handler func(ctx context.Context, credit *domain.ScoreCredit) error) error {
	sub, err := s.js.Subscribe("eco.score.pending.>", func(msg *nats.Msg) {
		var credit domain.ScoreCredit
		if err := json.Unmarshal(msg.Data, &credit); err != nil {
			_ = msg.Nak()
			return
		}
		if err := handler(ctx, &credit); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable("score-reconciler"),
		nats.ManualAck(),
		nats.MaxDeliver(5),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// SubscribePointEvents delivers point placements and deletions, for
// consumers that mirror map changes.
func (s *Subscriber) SubscribePointEvents(ctx context.Context, handler func(ctx context.Context, subject string, point *domain.RecyclePoint) error) error {
	sub, err := s.js.Subscribe("eco.points.>", func(msg *nats.Msg) {
		var point domain.RecyclePoint
		if err := json.Unmarshal(msg.Data, &point); err != nil {
			_ = msg.Nak()
			return
		}
		if err := handler(ctx, msg.Subject, &point); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable("point-mirror"),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
