package testfixtures

import (
	"testing"
	"time"

	"github.com/example/room-booking/internal/calendar"
)

func TestClockDefaultsToReferenceTime(t *testing.T) {
	clock := NewClock(time.Time{})
	if !clock.Now().Equal(ReferenceTime()) {
		t.Fatalf("expected ReferenceTime, got %v", clock.Now())
	}
}

func TestClockAdvanceAndSet(t *testing.T) {
	start := time.Date(2024, time.March, 14, 9, 26, 0, 0, time.UTC)
	clock := NewClock(start)

	updated := clock.Advance(90 * time.Minute)
	if !updated.Equal(start.Add(90 * time.Minute)) {
		t.Fatalf("advance returned %v", updated)
	}

	clock.Set(start.Add(2 * time.Hour))
	if got := clock.Current(); !got.Equal(start.Add(2 * time.Hour)) {
		t.Fatalf("expected %v, got %v", start.Add(2*time.Hour), got)
	}
}

func TestClockNowFunc(t *testing.T) {
	clock := NewClock(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))
	nowFn := clock.NowFunc()

	if got := nowFn(); !got.Equal(clock.Current()) {
		t.Fatalf("expected %v from NowFunc, got %v", clock.Current(), got)
	}

	clock.Advance(time.Minute)
	if got := nowFn(); !got.Equal(clock.Current()) {
		t.Fatalf("expected updated time %v, got %v", clock.Current(), got)
	}
}

func TestClockToday(t *testing.T) {
	clock := NewClock(time.Date(2024, time.June, 10, 23, 30, 0, 0, time.UTC))
	if got := clock.Today(); got != calendar.New(2024, time.June, 10) {
		t.Fatalf("expected 2024-06-10, got %s", got)
	}

	clock.Advance(time.Hour)
	if got := clock.Today(); got.String() != "2024-06-11" {
		t.Fatalf("expected the date to roll over, got %s", got)
	}

	clock.SetToday(calendar.MustParse("2099-01-01"))
	if got := clock.Today(); got.String() != "2099-01-01" {
		t.Fatalf("expected 2099-01-01, got %s", got)
	}
}
