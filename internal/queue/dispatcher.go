package queue

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/seat-reservation/internal/metrics"
	"github.com/iliyamo/seat-reservation/internal/model"
)

// Publisher delivers one event to the broker.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Dispatcher hands events from request goroutines to a single background
// worker through a bounded channel.  Enqueueing never blocks: when the
// buffer is full the event is dropped and counted.
type Dispatcher struct {
	events         chan Event
	pub            Publisher
	publishTimeout time.Duration
	drainTimeout   time.Duration
	now            func() time.Time
	log            *zap.Logger
}

// NewDispatcher returns a dispatcher with room for buffer pending events.
func NewDispatcher(pub Publisher, buffer int, publishTimeout time.Duration, log *zap.Logger) *Dispatcher {
	if buffer <= 0 {
		buffer = 1
	}
	if publishTimeout <= 0 {
		publishTimeout = 5 * time.Second
	}
	return &Dispatcher{
		events:         make(chan Event, buffer),
		pub:            pub,
		publishTimeout: publishTimeout,
		drainTimeout:   5 * time.Second,
		now:            time.Now,
		log:            log.Named("dispatcher"),
	}
}

// Confirmed enqueues a confirmation notice.
func (d *Dispatcher) Confirmed(user model.User, r model.Reservation, seat model.Seat) {
	d.Enqueue(NewEvent(TypeConfirmed, user, r, seat, d.now()))
}

// Cancelled enqueues a cancellation notice.
func (d *Dispatcher) Cancelled(user model.User, r model.Reservation, seat model.Seat) {
	d.Enqueue(NewEvent(TypeCancelled, user, r, seat, d.now()))
}

// Enqueue adds ev to the buffer, or drops it when the buffer is full.
func (d *Dispatcher) Enqueue(ev Event) bool {
	select {
	case d.events <- ev:
		metrics.Notification(ev.Type, "queued")
		return true
	default:
		metrics.Notification(ev.Type, "dropped")
		d.log.Warn("notification buffer full, event dropped",
			zap.String("type", ev.Type), zap.Uint64("reservation_id", ev.ReservationID))
		return false
	}
}

// Run publishes events until ctx is cancelled, then drains what is left in
// the buffer for a bounded time.  Publish failures are logged only.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case ev := <-d.events:
			d.publish(ctx, ev)
		case <-ctx.Done():
			d.drain()
			return nil
		}
	}
}

func (d *Dispatcher) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), d.drainTimeout)
	defer cancel()
	for {
		select {
		case ev := <-d.events:
			d.publish(ctx, ev)
		case <-ctx.Done():
			if n := len(d.events); n > 0 {
				d.log.Warn("shutdown with undelivered notifications", zap.Int("pending", n))
			}
			return
		default:
			return
		}
	}
}

func (d *Dispatcher) publish(ctx context.Context, ev Event) {
	pctx, cancel := context.WithTimeout(ctx, d.publishTimeout)
	defer cancel()
	if err := d.pub.Publish(pctx, ev); err != nil {
		metrics.Notification(ev.Type, "publish_failed")
		d.log.Error("publish notification failed",
			zap.String("type", ev.Type), zap.Uint64("reservation_id", ev.ReservationID), zap.Error(err))
		return
	}
	metrics.Notification(ev.Type, "published")
}
