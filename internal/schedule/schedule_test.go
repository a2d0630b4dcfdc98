package schedule

import (
	"testing"
	"time"
)

func lagos(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Africa/Lagos")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

func TestEvaluateEvent(t *testing.T) {
	loc := lagos(t)
	at := func(hour, min int) time.Time {
		return time.Date(2025, 3, 12, hour, min, 0, 0, loc)
	}

	cases := []struct {
		name  string
		date  string
		time  string
		grace int
		now   time.Time
		want  State
	}{
		{"before start", "2025-03-12", "09:00:00", 15, at(8, 59), Upcoming},
		{"at start", "2025-03-12", "09:00:00", 15, at(9, 0), Active},
		{"inside grace", "2025-03-12", "09:00:00", 15, at(9, 14), Active},
		{"at grace boundary", "2025-03-12", "09:00:00", 15, at(9, 15), Active},
		{"after grace", "2025-03-12", "09:00:00", 15, at(9, 16), Concluded},
		{"zero grace uses default", "2025-03-12", "09:00:00", 0, at(9, 29), Active},
		{"negative grace uses default", "2025-03-12", "09:00:00", -5, at(9, 31), Concluded},
		{"wrong day", "2025-03-11", "09:00:00", 15, at(9, 5), Concluded},
		{"bad date", "12-03-2025", "09:00:00", 15, at(9, 5), Invalid},
		{"bad time", "2025-03-12", "9am", 15, at(9, 5), Invalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := EvaluateEvent(tc.date, tc.time, tc.grace, tc.now, loc)
			if got != tc.want {
				t.Fatalf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestEvaluateEventHonorsLocation(t *testing.T) {
	loc := lagos(t)
	// 08:30 UTC is 09:30 in Lagos, past a 15 minute grace on a 09:00 start.
	now := time.Date(2025, 3, 12, 8, 30, 0, 0, time.UTC)
	if got := EvaluateEvent("2025-03-12", "09:00:00", 15, now, loc); got != Concluded {
		t.Fatalf("got %s, want concluded", got)
	}
}

func TestEvaluateGathering(t *testing.T) {
	loc := lagos(t)
	windows := []GatheringWindow{
		{Weekday: time.Sunday, AllDay: true, Venue: "chida"},
		{Weekday: time.Wednesday, Start: "16:30", End: "18:00", Venue: "doa"},
	}

	cases := []struct {
		name      string
		now       time.Time
		want      State
		wantVenue string
	}{
		{"sunday any hour", time.Date(2025, 3, 16, 6, 0, 0, 0, loc), Active, "chida"},
		{"sunday late", time.Date(2025, 3, 16, 23, 45, 0, 0, loc), Active, "chida"},
		{"wednesday before window", time.Date(2025, 3, 12, 12, 0, 0, 0, loc), Upcoming, ""},
		{"wednesday at open", time.Date(2025, 3, 12, 16, 30, 0, 0, loc), Active, "doa"},
		{"wednesday inside", time.Date(2025, 3, 12, 17, 15, 0, 0, loc), Active, "doa"},
		{"wednesday at close", time.Date(2025, 3, 12, 18, 0, 0, 0, loc), Active, "doa"},
		{"wednesday after close", time.Date(2025, 3, 12, 18, 1, 0, 0, loc), Concluded, ""},
		{"unconfigured day", time.Date(2025, 3, 14, 17, 0, 0, 0, loc), Concluded, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			state, w := EvaluateGathering(windows, tc.now, loc)
			if state != tc.want {
				t.Fatalf("got %s, want %s", state, tc.want)
			}
			if tc.wantVenue == "" {
				if w != nil {
					t.Fatalf("expected no window, got %+v", w)
				}
				return
			}
			if w == nil || w.Venue != tc.wantVenue {
				t.Fatalf("expected venue %s, got %+v", tc.wantVenue, w)
			}
		})
	}
}

func TestEvaluateGatheringMalformedBounds(t *testing.T) {
	loc := lagos(t)
	windows := []GatheringWindow{
		{Weekday: time.Wednesday, Start: "half four", End: "18:00", Venue: "doa"},
	}
	state, w := EvaluateGathering(windows, time.Date(2025, 3, 12, 17, 0, 0, 0, loc), loc)
	if state != Invalid || w != nil {
		t.Fatalf("expected invalid with no window, got %s %+v", state, w)
	}
}

func TestEvaluateGatheringNormalizesTimezone(t *testing.T) {
	loc := lagos(t)
	windows := []GatheringWindow{
		{Weekday: time.Wednesday, Start: "16:30", End: "18:00", Venue: "doa"},
	}
	// 16:00 UTC is 17:00 in Lagos, inside the window.
	state, w := EvaluateGathering(windows, time.Date(2025, 3, 12, 16, 0, 0, 0, time.UTC), loc)
	if state != Active || w == nil {
		t.Fatalf("expected active, got %s %+v", state, w)
	}
}
