package calendar

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input   string
		want    Date
		wantErr bool
	}{
		"iso date":          {input: "2099-01-01", want: New(2099, time.January, 1)},
		"surrounding space": {input: " 2024-02-29 ", want: New(2024, time.February, 29)},
		"empty":             {input: "", wantErr: true},
		"impossible day":    {input: "2023-02-29", wantErr: true},
		"with time":         {input: "2024-01-01T10:00:00Z", wantErr: true},
		"other layout":      {input: "01/02/2024", wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tc.input)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidDate) {
					t.Fatalf("expected ErrInvalidDate, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestDate_Ordering(t *testing.T) {
	t.Parallel()

	past := MustParse("2000-01-01")
	today := MustParse("2026-10-15")
	future := MustParse("2099-01-01")

	if !past.Before(today) || today.Before(past) {
		t.Fatalf("expected %s before %s", past, today)
	}
	if !future.After(today) {
		t.Fatalf("expected %s after %s", future, today)
	}
	if !today.Equal(New(2026, time.October, 15)) {
		t.Fatalf("expected equal dates")
	}
	if got := today.AddDays(17); got.String() != "2026-11-01" {
		t.Fatalf("expected month rollover, got %s", got)
	}
	if got := MustParse("2024-12-31").AddDays(1); got.String() != "2025-01-01" {
		t.Fatalf("expected year rollover, got %s", got)
	}
}

func TestDate_JSON(t *testing.T) {
	t.Parallel()

	payload, err := json.Marshal(struct {
		Date Date `json:"date"`
	}{Date: MustParse("2099-01-01")})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(payload) != `{"date":"2099-01-01"}` {
		t.Fatalf("unexpected payload %s", payload)
	}

	var decoded struct {
		Date Date `json:"date"`
	}
	if err := json.Unmarshal([]byte(`{"date":"2030-06-01"}`), &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.Date.String() != "2030-06-01" {
		t.Fatalf("unexpected date %s", decoded.Date)
	}

	if err := json.Unmarshal([]byte(`{"date":"June 1st"}`), &decoded); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestDate_Scan(t *testing.T) {
	t.Parallel()

	var d Date
	if err := d.Scan("2099-01-01"); err != nil {
		t.Fatalf("scan string: %v", err)
	}
	if d.String() != "2099-01-01" {
		t.Fatalf("unexpected date %s", d)
	}
	if err := d.Scan([]byte("2099-01-02")); err != nil || d.String() != "2099-01-02" {
		t.Fatalf("scan bytes: %v %s", err, d)
	}
	if err := d.Scan(42); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate for int column, got %v", err)
	}

	value, err := MustParse("2099-01-03").Value()
	if err != nil || value != "2099-01-03" {
		t.Fatalf("unexpected driver value %v (%v)", value, err)
	}
}

func TestSystemClock_UsesLocation(t *testing.T) {
	t.Parallel()

	instant := time.Date(2026, time.October, 15, 23, 30, 0, 0, time.UTC)
	tokyo := time.FixedZone("JST", 9*60*60)

	clock := SystemClock{Location: tokyo, Now: func() time.Time { return instant }}
	if got := clock.Today(); got.String() != "2026-10-16" {
		t.Fatalf("expected next day in JST, got %s", got)
	}

	utc := SystemClock{Location: time.UTC, Now: func() time.Time { return instant }}
	if got := utc.Today(); got.String() != "2026-10-15" {
		t.Fatalf("expected same day in UTC, got %s", got)
	}

	if got := Fixed(MustParse("2000-01-01")).Today(); got.String() != "2000-01-01" {
		t.Fatalf("unexpected fixed clock date %s", got)
	}
}
