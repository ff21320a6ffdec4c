package application

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/example/room-booking/internal/calendar"
	"github.com/example/room-booking/internal/persistence"
)

// memStore is an in-memory Store. WithinTx works on a copy of the state and
// publishes it only when fn succeeds.
type memStore struct {
	mu           sync.Mutex
	rooms        []Room
	reservations []Reservation

	// fail injects an error for the named repository method.
	fail map[string]error
	// txErr replaces the result of a successful unit of work, as a failed commit would.
	txErr error
	// reservedCalls counts ReservedRoomIDs lookups.
	reservedCalls int
}

func newMemStore() *memStore {
	return &memStore{fail: map[string]error{}}
}

func (m *memStore) WithinTx(ctx context.Context, fn func(repos Repositories) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memTx{
		store:        m,
		rooms:        slices.Clone(m.rooms),
		reservations: slices.Clone(m.reservations),
	}
	if err := fn(tx); err != nil {
		return err
	}
	if m.txErr != nil {
		return m.txErr
	}
	m.rooms = tx.rooms
	m.reservations = tx.reservations
	return nil
}

func (m *memStore) seedRoom(room Room) {
	m.rooms = append(m.rooms, room)
}

func (m *memStore) seedReservation(reservation Reservation) {
	m.reservations = append(m.reservations, reservation)
}

type memTx struct {
	store        *memStore
	rooms        []Room
	reservations []Reservation
}

func (t *memTx) failure(method string) error {
	return t.store.fail[method]
}

func (t *memTx) CreateRoom(_ context.Context, room Room) (Room, error) {
	if err := t.failure("CreateRoom"); err != nil {
		return Room{}, err
	}
	for _, existing := range t.rooms {
		if existing.Name == room.Name {
			return Room{}, persistence.ErrDuplicate
		}
	}
	t.rooms = append(t.rooms, room)
	return room, nil
}

func (t *memTx) GetRoom(_ context.Context, id string) (Room, error) {
	if err := t.failure("GetRoom"); err != nil {
		return Room{}, err
	}
	for _, room := range t.rooms {
		if room.ID == id {
			return room, nil
		}
	}
	return Room{}, persistence.ErrNotFound
}

func (t *memTx) GetRoomByName(_ context.Context, name string) (Room, error) {
	if err := t.failure("GetRoomByName"); err != nil {
		return Room{}, err
	}
	for _, room := range t.rooms {
		if room.Name == name {
			return room, nil
		}
	}
	return Room{}, persistence.ErrNotFound
}

func (t *memTx) UpdateRoom(_ context.Context, room Room) (Room, error) {
	if err := t.failure("UpdateRoom"); err != nil {
		return Room{}, err
	}
	for i := range t.rooms {
		if t.rooms[i].ID == room.ID {
			t.rooms[i] = room
			return room, nil
		}
	}
	return Room{}, persistence.ErrNotFound
}

func (t *memTx) DeleteRoom(_ context.Context, id string) error {
	if err := t.failure("DeleteRoom"); err != nil {
		return err
	}
	for i := range t.rooms {
		if t.rooms[i].ID == id {
			t.rooms = slices.Delete(t.rooms, i, i+1)
			return nil
		}
	}
	return persistence.ErrNotFound
}

func (t *memTx) ListRooms(context.Context) ([]Room, error) {
	if err := t.failure("ListRooms"); err != nil {
		return nil, err
	}
	return slices.Clone(t.rooms), nil
}

func (t *memTx) CreateReservation(_ context.Context, reservation Reservation) (Reservation, error) {
	if err := t.failure("CreateReservation"); err != nil {
		return Reservation{}, err
	}
	for _, existing := range t.reservations {
		if existing.RoomID == reservation.RoomID && existing.Date.Equal(reservation.Date) {
			return Reservation{}, persistence.ErrDuplicate
		}
	}
	t.reservations = append(t.reservations, reservation)
	return reservation, nil
}

func (t *memTx) ListReservations(_ context.Context, roomID string, from calendar.Date) ([]Reservation, error) {
	if err := t.failure("ListReservations"); err != nil {
		return nil, err
	}
	var out []Reservation
	for _, reservation := range t.reservations {
		if reservation.RoomID != roomID {
			continue
		}
		if !from.IsZero() && reservation.Date.Before(from) {
			continue
		}
		out = append(out, reservation)
	}
	slices.SortStableFunc(out, func(a, b Reservation) int { return a.Date.Compare(b.Date) })
	return out, nil
}

func (t *memTx) ReservationExists(_ context.Context, roomID string, date calendar.Date) (bool, error) {
	if err := t.failure("ReservationExists"); err != nil {
		return false, err
	}
	for _, reservation := range t.reservations {
		if reservation.RoomID == roomID && reservation.Date.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) ReservedRoomIDs(_ context.Context, date calendar.Date) ([]string, error) {
	t.store.reservedCalls++
	if err := t.failure("ReservedRoomIDs"); err != nil {
		return nil, err
	}
	var ids []string
	for _, reservation := range t.reservations {
		if reservation.Date.Equal(date) && !slices.Contains(ids, reservation.RoomID) {
			ids = append(ids, reservation.RoomID)
		}
	}
	return ids, nil
}

func (t *memTx) DeleteReservationsForRoom(_ context.Context, roomID string) (int64, error) {
	if err := t.failure("DeleteReservationsForRoom"); err != nil {
		return 0, err
	}
	before := len(t.reservations)
	t.reservations = slices.DeleteFunc(t.reservations, func(r Reservation) bool { return r.RoomID == roomID })
	return int64(before - len(t.reservations)), nil
}

// cacheStub records availability cache traffic.
type cacheStub struct {
	entries     map[calendar.Date][]string
	readErr     error
	writeErr    error
	invalidated []calendar.Date
}

func newCacheStub() *cacheStub {
	return &cacheStub{entries: map[calendar.Date][]string{}}
}

func (c *cacheStub) ReservedRooms(_ context.Context, date calendar.Date) ([]string, bool, error) {
	if c.readErr != nil {
		return nil, false, c.readErr
	}
	ids, ok := c.entries[date]
	return ids, ok, nil
}

func (c *cacheStub) StoreReservedRooms(_ context.Context, date calendar.Date, ids []string) error {
	if c.writeErr != nil {
		return c.writeErr
	}
	c.entries[date] = slices.Clone(ids)
	return nil
}

func (c *cacheStub) Invalidate(_ context.Context, date calendar.Date) error {
	c.invalidated = append(c.invalidated, date)
	delete(c.entries, date)
	return nil
}

var errBoom = errors.New("disk I/O error")
