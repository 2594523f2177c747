package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/iliyamo/seat-reservation/internal/mail"
	"github.com/iliyamo/seat-reservation/internal/metrics"
)

// Consumer reads notification events from the queue and mails them.
type Consumer struct {
	url    string
	queue  string
	mailer mail.Mailer
	log    *zap.Logger
}

func NewConsumer(url, queue string, mailer mail.Mailer, log *zap.Logger) *Consumer {
	return &Consumer{url: url, queue: queue, mailer: mailer, log: log.Named("consumer")}
}

// Run connects to RabbitMQ, declares the queue (durable) and consumes
// messages until ctx is cancelled.  Connection failures are retried with
// exponential backoff between 1s and 30s.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.log.Warn("failed to dial broker", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return nil
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return nil
		}
		c.log.Warn("consume loop ended, reconnecting", zap.Error(err))
		if !sleep(ctx, 2*time.Second) {
			return nil
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return errors.Wrap(err, "channel open")
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.log.Warn("set QoS failed", zap.Error(err))
	}
	if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return errors.Wrap(err, "queue declare")
	}
	msgs, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return errors.Wrap(err, "queue consume")
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.Handle(ctx, d.Body); err != nil {
				c.log.Error("handle message failed", zap.String("message_id", d.MessageId), zap.Error(err))
				_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Handle decodes one message body and sends the matching email.
func (c *Consumer) Handle(ctx context.Context, body []byte) error {
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return errors.Wrap(err, "unmarshal")
	}
	kind, err := noticeKind(ev.Type)
	if err != nil {
		return err
	}
	msg, err := mail.Render(kind, mail.Notice{
		Name:         ev.UserName,
		Email:        ev.UserEmail,
		SeatNumber:   ev.SeatNumber,
		LocationArea: ev.LocationArea,
		Date:         ev.Date,
	})
	if err != nil {
		return err
	}
	if err := c.mailer.Send(ctx, msg); err != nil {
		metrics.Notification(ev.Type, "send_failed")
		return err
	}
	metrics.Notification(ev.Type, "sent")
	c.log.Info("notification sent",
		zap.String("type", ev.Type),
		zap.Uint64("reservation_id", ev.ReservationID),
		zap.String("to", ev.UserEmail))
	return nil
}

func noticeKind(eventType string) (string, error) {
	switch eventType {
	case TypeConfirmed:
		return mail.KindConfirmed, nil
	case TypeCancelled:
		return mail.KindCancelled, nil
	}
	return "", errors.Errorf("unknown event type %q", eventType)
}
