package persistence_test

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/example/room-booking/internal/calendar"
	"github.com/example/room-booking/internal/persistence"
	"github.com/example/room-booking/internal/testfixtures"
)

func newPersistenceRoom(opts ...testfixtures.RoomOption) persistence.Room {
	return testfixtures.NewRoomFixture(opts...).Persistence()
}

func newPersistenceReservation(roomID string, opts ...testfixtures.ReservationOption) persistence.Reservation {
	return testfixtures.NewReservationFixture(roomID, opts...).Persistence()
}

func mustCreateRoom(t *testing.T, store persistence.Store, room persistence.Room) {
	t.Helper()
	if err := store.CreateRoom(context.Background(), room); err != nil {
		t.Fatalf("CreateRoom(%s) failed: %v", room.ID, err)
	}
}

func TestRoomRepository(t *testing.T) {
	t.Parallel()

	t.Run("creates, reads, updates, and deletes rooms", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		harness := testfixtures.NewSQLiteHarness(t)
		store := harness.Store

		base := testfixtures.ReferenceTime()
		room := newPersistenceRoom(
			testfixtures.WithRoomID("room-1"),
			testfixtures.WithRoomName("Board Room"),
			testfixtures.WithRoomCapacity(12),
			testfixtures.WithRoomProjector(true),
			testfixtures.WithRoomTimestamps(base, base),
		)
		mustCreateRoom(t, store, room)

		fetched, err := store.GetRoom(ctx, room.ID)
		if err != nil {
			t.Fatalf("GetRoom failed: %v", err)
		}
		if fetched.Name != "Board Room" || fetched.Capacity != 12 || !fetched.ProjectorAvailability {
			t.Fatalf("unexpected room %#v", fetched)
		}
		if !fetched.CreatedAt.Equal(base) || !fetched.UpdatedAt.Equal(base) {
			t.Fatalf("expected timestamps to round-trip, got %v/%v", fetched.CreatedAt, fetched.UpdatedAt)
		}

		byName, err := store.GetRoomByName(ctx, "Board Room")
		if err != nil || byName.ID != room.ID {
			t.Fatalf("GetRoomByName returned %#v, %v", byName, err)
		}
		if _, err := store.GetRoomByName(ctx, "board room"); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected name lookup to be case-sensitive, got %v", err)
		}

		updated := fetched
		updated.Name = "Boardroom"
		updated.Capacity = 10
		updated.ProjectorAvailability = false
		updated.UpdatedAt = base.Add(time.Hour)
		if err := store.UpdateRoom(ctx, updated); err != nil {
			t.Fatalf("UpdateRoom failed: %v", err)
		}

		fetched, err = store.GetRoom(ctx, room.ID)
		if err != nil {
			t.Fatalf("GetRoom after update failed: %v", err)
		}
		if fetched.Name != "Boardroom" || fetched.Capacity != 10 || fetched.ProjectorAvailability {
			t.Fatalf("update not applied: %#v", fetched)
		}
		if !fetched.CreatedAt.Equal(base) || !fetched.UpdatedAt.Equal(base.Add(time.Hour)) {
			t.Fatalf("unexpected timestamps after update: %v/%v", fetched.CreatedAt, fetched.UpdatedAt)
		}

		if err := store.DeleteRoom(ctx, room.ID); err != nil {
			t.Fatalf("DeleteRoom failed: %v", err)
		}
		if _, err := store.GetRoom(ctx, room.ID); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("missing rooms report ErrNotFound", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		store := testfixtures.NewSQLiteHarness(t).Store

		if _, err := store.GetRoom(ctx, "missing"); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("GetRoom: expected ErrNotFound, got %v", err)
		}
		if err := store.UpdateRoom(ctx, newPersistenceRoom(testfixtures.WithRoomID("missing"))); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("UpdateRoom: expected ErrNotFound, got %v", err)
		}
		if err := store.DeleteRoom(ctx, "missing"); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("DeleteRoom: expected ErrNotFound, got %v", err)
		}
	})

	t.Run("enforces unique names and positive capacity", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		store := testfixtures.NewSQLiteHarness(t).Store

		mustCreateRoom(t, store, newPersistenceRoom(testfixtures.WithRoomID("room-a"), testfixtures.WithRoomName("A")))

		err := store.CreateRoom(ctx, newPersistenceRoom(testfixtures.WithRoomID("room-b"), testfixtures.WithRoomName("A")))
		if !errors.Is(err, persistence.ErrDuplicate) {
			t.Fatalf("expected ErrDuplicate for a taken name, got %v", err)
		}

		err = store.CreateRoom(ctx, newPersistenceRoom(testfixtures.WithRoomID("room-a"), testfixtures.WithRoomName("Other")))
		if !errors.Is(err, persistence.ErrDuplicate) {
			t.Fatalf("expected ErrDuplicate for a taken id, got %v", err)
		}

		err = store.CreateRoom(ctx, newPersistenceRoom(testfixtures.WithRoomID("room-c"), testfixtures.WithRoomCapacity(0)))
		if !errors.Is(err, persistence.ErrConstraintViolation) {
			t.Fatalf("expected ErrConstraintViolation for zero capacity, got %v", err)
		}

		mustCreateRoom(t, store, newPersistenceRoom(testfixtures.WithRoomID("room-d"), testfixtures.WithRoomName("D")))
		renamed := newPersistenceRoom(testfixtures.WithRoomID("room-d"), testfixtures.WithRoomName("A"))
		if err := store.UpdateRoom(ctx, renamed); !errors.Is(err, persistence.ErrDuplicate) {
			t.Fatalf("expected ErrDuplicate when renaming onto a taken name, got %v", err)
		}
	})

	t.Run("lists rooms in creation order", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		store := testfixtures.NewSQLiteHarness(t).Store

		for _, id := range []string{"room-z", "room-a", "room-m"} {
			mustCreateRoom(t, store, newPersistenceRoom(testfixtures.WithRoomID(id), testfixtures.WithRoomName("name-"+id)))
		}

		rooms, err := store.ListRooms(ctx)
		if err != nil {
			t.Fatalf("ListRooms failed: %v", err)
		}
		ids := make([]string, 0, len(rooms))
		for _, room := range rooms {
			ids = append(ids, room.ID)
		}
		if !slices.Equal(ids, []string{"room-z", "room-a", "room-m"}) {
			t.Fatalf("unexpected order %v", ids)
		}
	})
}

func TestReservationRepository(t *testing.T) {
	t.Parallel()

	t.Run("stores reservations and lists them by date", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		store := testfixtures.NewSQLiteHarness(t).Store
		mustCreateRoom(t, store, newPersistenceRoom(testfixtures.WithRoomID("room-1")))
		mustCreateRoom(t, store, newPersistenceRoom(testfixtures.WithRoomID("room-2")))

		dates := []string{"2099-03-01", "2024-01-01", "2099-01-01"}
		for i, value := range dates {
			opts := []testfixtures.ReservationOption{
				testfixtures.WithReservationID("r-" + value),
				testfixtures.WithReservationDate(calendar.MustParse(value)),
			}
			if i == 0 {
				opts = append(opts, testfixtures.WithReservationComment("offsite prep"))
			}
			if err := store.CreateReservation(ctx, newPersistenceReservation("room-1", opts...)); err != nil {
				t.Fatalf("CreateReservation(%s) failed: %v", value, err)
			}
		}
		other := newPersistenceReservation("room-2", testfixtures.WithReservationDate(calendar.MustParse("2099-01-01")))
		if err := store.CreateReservation(ctx, other); err != nil {
			t.Fatalf("CreateReservation for another room failed: %v", err)
		}

		all, err := store.ListReservations(ctx, persistence.ReservationFilter{RoomID: "room-1"})
		if err != nil {
			t.Fatalf("ListReservations failed: %v", err)
		}
		var got []string
		for _, reservation := range all {
			got = append(got, reservation.Date.String())
		}
		if !slices.Equal(got, []string{"2024-01-01", "2099-01-01", "2099-03-01"}) {
			t.Fatalf("unexpected order %v", got)
		}
		if all[2].Comment == nil || *all[2].Comment != "offsite prep" || all[0].Comment != nil {
			t.Fatalf("unexpected comments %v / %v", all[2].Comment, all[0].Comment)
		}

		from := calendar.MustParse("2099-01-01")
		upcoming, err := store.ListReservations(ctx, persistence.ReservationFilter{RoomID: "room-1", From: &from})
		if err != nil {
			t.Fatalf("ListReservations with From failed: %v", err)
		}
		if len(upcoming) != 2 || !upcoming[0].Date.Equal(from) {
			t.Fatalf("expected reservations from %s inclusive, got %#v", from, upcoming)
		}

		ids, err := store.ListRoomIDsReservedOn(ctx, from)
		if err != nil {
			t.Fatalf("ListRoomIDsReservedOn failed: %v", err)
		}
		if !slices.Equal(ids, []string{"room-1", "room-2"}) {
			t.Fatalf("unexpected reserved rooms %v", ids)
		}

		exists, err := store.ReservationExists(ctx, "room-1", from)
		if err != nil || !exists {
			t.Fatalf("expected reservation to exist, got %v (err %v)", exists, err)
		}
		exists, err = store.ReservationExists(ctx, "room-1", from.AddDays(1))
		if err != nil || exists {
			t.Fatalf("expected no reservation on the next day, got %v (err %v)", exists, err)
		}
	})

	t.Run("one reservation per room and date", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		store := testfixtures.NewSQLiteHarness(t).Store
		mustCreateRoom(t, store, newPersistenceRoom(testfixtures.WithRoomID("room-1")))
		date := calendar.MustParse("2099-01-01")

		if err := store.CreateReservation(ctx, newPersistenceReservation("room-1", testfixtures.WithReservationDate(date))); err != nil {
			t.Fatalf("first CreateReservation failed: %v", err)
		}
		err := store.CreateReservation(ctx, newPersistenceReservation("room-1", testfixtures.WithReservationDate(date)))
		if !errors.Is(err, persistence.ErrDuplicate) {
			t.Fatalf("expected ErrDuplicate, got %v", err)
		}
	})

	t.Run("rejects reservations for unknown rooms", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		store := testfixtures.NewSQLiteHarness(t).Store

		err := store.CreateReservation(ctx, newPersistenceReservation("ghost"))
		if !errors.Is(err, persistence.ErrConstraintViolation) {
			t.Fatalf("expected ErrConstraintViolation, got %v", err)
		}
	})

	t.Run("deleting a room cascades to its reservations", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		store := testfixtures.NewSQLiteHarness(t).Store
		mustCreateRoom(t, store, newPersistenceRoom(testfixtures.WithRoomID("room-1")))
		for i := 0; i < 3; i++ {
			if err := store.CreateReservation(ctx, newPersistenceReservation("room-1")); err != nil {
				t.Fatalf("CreateReservation failed: %v", err)
			}
		}

		if err := store.DeleteRoom(ctx, "room-1"); err != nil {
			t.Fatalf("DeleteRoom failed: %v", err)
		}
		remaining, err := store.ListReservations(ctx, persistence.ReservationFilter{RoomID: "room-1"})
		if err != nil {
			t.Fatalf("ListReservations failed: %v", err)
		}
		if len(remaining) != 0 {
			t.Fatalf("expected cascade delete, got %d reservations", len(remaining))
		}
	})

	t.Run("explicit delete reports the count", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		store := testfixtures.NewSQLiteHarness(t).Store
		mustCreateRoom(t, store, newPersistenceRoom(testfixtures.WithRoomID("room-1")))
		for i := 0; i < 2; i++ {
			if err := store.CreateReservation(ctx, newPersistenceReservation("room-1")); err != nil {
				t.Fatalf("CreateReservation failed: %v", err)
			}
		}

		deleted, err := store.DeleteReservationsForRoom(ctx, "room-1")
		if err != nil || deleted != 2 {
			t.Fatalf("expected 2 deletions, got %d (err %v)", deleted, err)
		}
	})
}

func TestStoreWithinTx(t *testing.T) {
	t.Parallel()

	t.Run("commits when fn succeeds", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		store := testfixtures.NewSQLiteHarness(t).Store
		room := newPersistenceRoom(testfixtures.WithRoomID("room-1"))

		err := store.WithinTx(ctx, func(repos persistence.Repositories) error {
			if err := repos.CreateRoom(ctx, room); err != nil {
				return err
			}
			return repos.CreateReservation(ctx, newPersistenceReservation(room.ID))
		})
		if err != nil {
			t.Fatalf("WithinTx failed: %v", err)
		}
		if _, err := store.GetRoom(ctx, room.ID); err != nil {
			t.Fatalf("expected committed room, got %v", err)
		}
	})

	t.Run("rolls back and returns fn's error unchanged", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		store := testfixtures.NewSQLiteHarness(t).Store
		room := newPersistenceRoom(testfixtures.WithRoomID("room-1"))
		sentinel := errors.New("stop")

		err := store.WithinTx(ctx, func(repos persistence.Repositories) error {
			if err := repos.CreateRoom(ctx, room); err != nil {
				return err
			}
			return sentinel
		})
		if err != sentinel {
			t.Fatalf("expected the sentinel back, got %v", err)
		}
		if _, err := store.GetRoom(ctx, room.ID); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected rollback, got %v", err)
		}
	})

	t.Run("ping reports a live connection", func(t *testing.T) {
		t.Parallel()

		if err := testfixtures.NewSQLiteHarness(t).Store.Ping(context.Background()); err != nil {
			t.Fatalf("Ping failed: %v", err)
		}
	})
}
