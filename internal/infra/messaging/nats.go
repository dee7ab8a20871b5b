package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/daffahilmyf/mdd-seed/internal/config"
	"github.com/daffahilmyf/mdd-seed/internal/domain/service"
	"github.com/nats-io/nats.go"
)

// NATSClient publishes seeding events to JetStream. A nil *NATSClient is
// valid and publishes nothing.
type NATSClient struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	cfg  config.NATS
}

func NewNATS(ctx context.Context, cfg config.NATS) (*NATSClient, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	if cfg.Stream == "" || cfg.BatchSubject == "" {
		return nil, errors.New("nats: stream and batch_subject are required")
	}

	conn, err := nats.Connect(cfg.URL, nats.Name("mdd-seed"))
	if err != nil {
		return nil, err
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, err
	}

	if err := ensureStream(ctx, js, cfg); err != nil {
		conn.Close()
		return nil, err
	}

	return &NATSClient{conn: conn, js: js, cfg: cfg}, nil
}

func (c *NATSClient) Close() {
	if c == nil || c.conn == nil {
		return
	}
	c.conn.Close()
}

var _ service.EventPublisher = (*NATSClient)(nil)

func (c *NATSClient) PublishBatchCommitted(ctx context.Context, event service.BatchCommitted) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return c.Publish(ctx, c.cfg.BatchSubject, data, event.BatchID)
}

func (c *NATSClient) Publish(ctx context.Context, subject string, payload []byte, msgID string) error {
	if c == nil {
		return nil
	}
	if c.js == nil {
		return errors.New("nats: jetstream not initialized")
	}
	msg := nats.NewMsg(subject)
	msg.Data = payload
	if msgID != "" {
		msg.Header.Set(nats.MsgIdHdr, msgID)
	}
	_, err := c.js.PublishMsg(msg, nats.Context(ctx))
	return err
}

func ensureStream(ctx context.Context, js nats.JetStreamContext, cfg config.NATS) error {
	subjects := []string{cfg.BatchSubject}
	info, err := js.StreamInfo(cfg.Stream, nats.Context(ctx))
	if err == nil {
		if !sameSubjects(info.Config.Subjects, subjects) {
			info.Config.Subjects = subjects
			_, err = js.UpdateStream(&info.Config, nats.Context(ctx))
		}
		return err
	}

	if errors.Is(err, nats.ErrStreamNotFound) {
		_, err = js.AddStream(&nats.StreamConfig{
			Name:      cfg.Stream,
			Subjects:  subjects,
			Storage:   nats.FileStorage,
			Retention: nats.LimitsPolicy,
		}, nats.Context(ctx))
		return err
	}
	return err
}

func sameSubjects(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, s := range a {
		seen[s]++
	}
	for _, s := range b {
		if seen[s] == 0 {
			return false
		}
		seen[s]--
	}
	for _, v := range seen {
		if v != 0 {
			return false
		}
	}
	return true
}

// ConsumeBatchCommitted pulls batch events through a durable consumer until
// ctx ends. A message is acked once handle returns nil and redelivered
// otherwise.
func (c *NATSClient) ConsumeBatchCommitted(ctx context.Context, handle func(service.BatchCommitted) error) error {
	if c == nil || c.js == nil {
		return errors.New("nats: jetstream not initialized")
	}
	if err := c.ensureConsumer(ctx); err != nil {
		return err
	}
	sub, err := c.js.PullSubscribe(
		c.cfg.BatchSubject,
		c.cfg.ConsumerDurable,
		nats.Bind(c.cfg.Stream, c.cfg.ConsumerDurable),
	)
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fetchCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		msgs, err := sub.Fetch(10, nats.Context(fetchCtx))
		cancel()
		if err != nil {
			if errors.Is(err, nats.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				continue
			}
			return err
		}
		for _, msg := range msgs {
			event, err := DecodeBatchCommitted(msg.Data)
			if err != nil {
				// a payload that does not decode will never decode
				_ = msg.Term()
				continue
			}
			if err := handle(event); err != nil {
				_ = msg.Nak()
				continue
			}
			_ = msg.Ack()
		}
	}
}

func DecodeBatchCommitted(data []byte) (service.BatchCommitted, error) {
	var event service.BatchCommitted
	if err := json.Unmarshal(data, &event); err != nil {
		return service.BatchCommitted{}, err
	}
	if event.BatchID == "" {
		return service.BatchCommitted{}, errors.New("nats: batch event without batch_id")
	}
	return event, nil
}

func (c *NATSClient) ensureConsumer(ctx context.Context) error {
	if c.cfg.ConsumerDurable == "" {
		return errors.New("nats: consumer_durable is required")
	}
	_, err := c.js.ConsumerInfo(c.cfg.Stream, c.cfg.ConsumerDurable, nats.Context(ctx))
	if err == nil {
		return nil
	}
	if !errors.Is(err, nats.ErrConsumerNotFound) {
		return err
	}
	_, err = c.js.AddConsumer(c.cfg.Stream, &nats.ConsumerConfig{
		Durable:       c.cfg.ConsumerDurable,
		AckPolicy:     nats.AckExplicitPolicy,
		AckWait:       c.cfg.AckWait,
		FilterSubject: c.cfg.BatchSubject,
	}, nats.Context(ctx))
	return err
}
