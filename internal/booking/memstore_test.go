package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/seat-reservation/internal/model"
	"github.com/iliyamo/seat-reservation/internal/repository"
)

// memStore is an in-memory store whose writes are atomic under a single
// mutex, with the same outcomes the MySQL repositories report.
type memStore struct {
	mu           sync.Mutex
	nextID       uint64
	seats        map[uint64]model.Seat
	users        map[uint64]model.User
	reservations map[uint64]model.Reservation
}

func newMemStore() *memStore {
	return &memStore{
		seats:        make(map[uint64]model.Seat),
		users:        make(map[uint64]model.User),
		reservations: make(map[uint64]model.Reservation),
	}
}

func (s *memStore) addSeat(id uint64, number, area string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seats[id] = model.Seat{ID: id, SeatNumber: number, LocationArea: area}
}

func (s *memStore) addUser(id uint64, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[id] = model.User{ID: id, Name: name, Email: name + "@office.com", Role: model.RoleIntern}
}

func (s *memStore) Create(_ context.Context, userID, seatID uint64, date model.Date) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seats[seatID]; !ok {
		return nil, repository.ErrSeatNotFound
	}
	for _, r := range s.reservations {
		if !r.IsActive() || !r.ReservationDate.Equal(date) {
			continue
		}
		if r.SeatID == seatID {
			return nil, repository.ErrSeatTaken
		}
		if r.UserID == userID {
			return nil, repository.ErrUserHasBooking
		}
	}
	s.nextID++
	now := time.Now()
	r := model.Reservation{
		ID: s.nextID, UserID: userID, SeatID: seatID, ReservationDate: date,
		Status: model.StatusActive, CreatedAt: now, UpdatedAt: now,
	}
	s.reservations[r.ID] = r
	return &r, nil
}

func (s *memStore) CancelActive(_ context.Context, id, userID uint64, today model.Date) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reservations[id]
	if !ok || r.UserID != userID || !r.IsActive() || r.ReservationDate.Before(today) {
		return nil, repository.ErrNotFound
	}
	r.Status = model.StatusCancelled
	r.UpdatedAt = time.Now()
	s.reservations[id] = r
	return &r, nil
}

func (s *memStore) ListByUser(_ context.Context, userID uint64) ([]model.ReservationDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ReservationDetail, 0)
	for _, r := range s.reservations {
		if r.UserID != userID {
			continue
		}
		seat := s.seats[r.SeatID]
		out = append(out, model.ReservationDetail{
			ID: r.ID, SeatID: r.SeatID, ReservationDate: r.ReservationDate, Status: r.Status,
			SeatNumber: seat.SeatNumber, LocationArea: seat.LocationArea,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ReservationDate.Equal(out[j].ReservationDate) {
			return out[i].ReservationDate.After(out[j].ReservationDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *memStore) GetByID(_ context.Context, id uint64) (*model.Seat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seat, ok := s.seats[id]
	if !ok {
		return nil, repository.ErrSeatNotFound
	}
	return &seat, nil
}

func (s *memStore) ListAvailable(_ context.Context, date model.Date) ([]model.Seat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	taken := make(map[uint64]bool)
	for _, r := range s.reservations {
		if r.IsActive() && r.ReservationDate.Equal(date) {
			taken[r.SeatID] = true
		}
	}
	out := make([]model.Seat, 0, len(s.seats))
	for id, seat := range s.seats {
		if !taken[id] {
			out = append(out, seat)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SeatNumber < out[j].SeatNumber })
	return out, nil
}

// memUsers exposes the users of a memStore, whose own GetByID looks up seats.
type memUsers struct{ s *memStore }

func (u memUsers) GetByID(_ context.Context, id uint64) (*model.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	user, ok := u.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

type sentEvent struct {
	kind string
	user model.User
	r    model.Reservation
	seat model.Seat
}

// recordingNotifier captures notifications.
type recordingNotifier struct {
	mu     sync.Mutex
	events []sentEvent
}

func (n *recordingNotifier) Confirmed(user model.User, r model.Reservation, seat model.Seat) {
	n.add(sentEvent{kind: "confirmed", user: user, r: r, seat: seat})
}

func (n *recordingNotifier) Cancelled(user model.User, r model.Reservation, seat model.Seat) {
	n.add(sentEvent{kind: "cancelled", user: user, r: r, seat: seat})
}

func (n *recordingNotifier) add(e sentEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
}

func (n *recordingNotifier) all() []sentEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentEvent(nil), n.events...)
}
