package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/ecoruta/ecoruta/internal/core/domain"
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
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

	// Ensure streams exist
	streams := []nats.StreamConfig{
		{
			Name:      "ECO_POINTS",
			Subjects:  []string{"eco.points.>"},
			Retention: nats.InterestPolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
		{
			// Pending score credits must survive until the reconciler
			// consumes them.
			Name:      "ECO_SCORE",
			Subjects:  []string{"eco.score.>"},
			Retention: nats.WorkQueuePolicy,
			MaxAge:    7 * 24 * time.Hour,
			Storage:   nats.FileStorage,
		},
	}

	for _, cfg := range streams {
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist — try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

func (p *Publisher) PublishPointPlaced(ctx context.Context, point *domain.RecyclePoint) error {
	data, err := json.Marshal(point)
	if err != nil {
		return err
	}
	_, err = p.js.Publish("eco.points.placed."+point.ID, data)
	return err
}

func (p *Publisher) PublishPointDeleted(ctx context.Context, point *domain.RecyclePoint) error {
	data, err := json.Marshal(point)
	if err != nil {
		return err
	}
	_, err = p.js.Publish("eco.points.deleted."+point.ID, data)
	return err
}

func (p *Publisher) PublishScorePending(ctx context.Context, credit *domain.ScoreCredit) error {
	data, err := json.Marshal(credit)
	if err != nil {
		return err
	}
	_, err = p.js.Publish("eco.score.pending."+credit.PointID, data)
	return err
}

func (p *Publisher) PublishBroadcast(ctx context.Context, data []byte) error {
	return p.conn.Publish("eco.updates.broadcast", data)
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
