package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/seat-reservation/internal/model"
)

type fakePublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
	block  chan struct{}
}

func (p *fakePublisher) Publish(ctx context.Context, ev Event) error {
	if p.block != nil {
		select {
		case <-p.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *fakePublisher) published() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Event(nil), p.events...)
}

func sample() (model.User, model.Reservation, model.Seat) {
	return model.User{ID: 7, Name: "Ada", Email: "ada@office.com"},
		model.Reservation{ID: 42, UserID: 7, SeatID: 1, ReservationDate: model.MustParseDate("2025-06-10"), Status: model.StatusActive},
		model.Seat{ID: 1, SeatNumber: "A1", LocationArea: "North Wing"}
}

func TestDispatcher_PublishesInOrder(t *testing.T) {
	pub := &fakePublisher{}
	d := NewDispatcher(pub, 8, time.Second, zap.NewNop())
	u, r, s := sample()

	d.Confirmed(u, r, s)
	r.Status = model.StatusCancelled
	d.Cancelled(u, r, s)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = d.Run(ctx)
		close(done)
	}()
	require.Eventually(t, func() bool { return len(pub.published()) == 2 }, time.Second, 10*time.Millisecond)
	cancel()
	<-done

	events := pub.published()
	assert.Equal(t, TypeConfirmed, events[0].Type)
	assert.Equal(t, "A1", events[0].SeatNumber)
	assert.Equal(t, "2025-06-10", events[0].Date)
	assert.Equal(t, TypeCancelled, events[1].Type)
	assert.Equal(t, "Cancelled", events[1].Status)
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	d := NewDispatcher(&fakePublisher{}, 1, time.Second, zap.NewNop())
	u, r, s := sample()

	assert.True(t, d.Enqueue(NewEvent(TypeConfirmed, u, r, s, time.Now())))
	assert.False(t, d.Enqueue(NewEvent(TypeConfirmed, u, r, s, time.Now())))
}

func TestDispatcher_EnqueueDoesNotWaitForPublisher(t *testing.T) {
	pub := &fakePublisher{block: make(chan struct{})}
	d := NewDispatcher(pub, 4, time.Second, zap.NewNop())
	u, r, s := sample()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = d.Run(ctx) }()

	start := time.Now()
	for i := 0; i < 10; i++ {
		d.Confirmed(u, r, s)
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)
	close(pub.block)
}

func TestDispatcher_PublishErrorIsSwallowed(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	d := NewDispatcher(pub, 4, time.Second, zap.NewNop())
	u, r, s := sample()
	d.Confirmed(u, r, s)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, d.Run(ctx))
	assert.Empty(t, pub.published())
}

func TestDispatcher_DrainsOnShutdown(t *testing.T) {
	pub := &fakePublisher{}
	d := NewDispatcher(pub, 4, time.Second, zap.NewNop())
	u, r, s := sample()
	d.Confirmed(u, r, s)
	d.Confirmed(u, r, s)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, d.Run(ctx))
	assert.Len(t, pub.published(), 2)
}
