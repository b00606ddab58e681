package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"blog-pipeline/internal/retry"
)

// Connect dials NATS, retrying with exponential backoff.
func Connect(ctx context.Context, url string, attempts int, base time.Duration) (*nats.Conn, error) {
	var nc *nats.Conn
	err := retry.Do(ctx, attempts, base, func() error {
		var err error
		nc, err = nats.Connect(url, nats.Name("blog-pipeline"))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return nc, nil
}

// NewNATS constructs a NATS request/reply queue on subject.
func NewNATS(log *slog.Logger, nc *nats.Conn, subject string) Queue {
	return &natsQueue{log: log, nc: nc, subject: subject}
}

type natsQueue struct {
	log     *slog.Logger
	nc      *nats.Conn
	subject string
}

const workerGroup = "pipeline-workers"

func (q *natsQueue) Worker(ctx context.Context, handler Handler) error {
	sub, err := q.nc.QueueSubscribe(q.subject, workerGroup, func(msg *nats.Msg) {
		q.handleMessage(ctx, msg, handler)
	})
	if err != nil {
		return err
	}
	q.log.Info("worker subscribed", "subject", q.subject, "group", workerGroup)
	<-ctx.Done()
	return sub.Unsubscribe()
}

// Close drains in-flight messages and closes the connection.
func (q *natsQueue) Close() error {
	if q.nc.IsClosed() {
		return nil
	}
	return q.nc.Drain()
}

func (q *natsQueue) handleMessage(ctx context.Context, msg *nats.Msg, handler Handler) {
	res := Process(ctx, msg.Data, handler)
	log := q.log.With("job_id", res.ID)
	if res.Error != "" {
		log.Error("job failed", "err", res.Error)
	}
	if msg.Reply == "" {
		return
	}
	body, err := json.Marshal(res)
	if err != nil {
		log.Error("failed to encode job result", "err", err)
		return
	}
	if err := msg.Respond(body); err != nil {
		log.Error("failed to reply", "err", err)
	}
}
