package schedule

import (
	"time"

	"github.com/ushersync/attendance-backend/internal/domain"
)

// State is the temporal state of a check-in window.
type State int

const (
	// Invalid means the schedule could not be parsed. Callers must treat it
	// as not checkable; it is never defaulted to one of the other states.
	Invalid State = iota
	Upcoming
	Active
	Concluded
)

func (s State) String() string {
	switch s {
	case Upcoming:
		return "upcoming"
	case Active:
		return "active"
	case Concluded:
		return "concluded"
	default:
		return "invalid"
	}
}

const DefaultGraceMinutes = 30

// EvaluateEvent computes the window state of an event scheduled at
// date+timeOfDay in loc, with graceMinutes of slack after the nominal
// start. Grace values that are missing or non-positive fall back to
// DefaultGraceMinutes.
func EvaluateEvent(date, timeOfDay string, graceMinutes int, now time.Time, loc *time.Location) State {
	start, err := time.ParseInLocation(domain.DateLayout+" "+domain.TimeLayout, date+" "+timeOfDay, loc)
	if err != nil {
		return Invalid
	}
	if graceMinutes <= 0 {
		graceMinutes = DefaultGraceMinutes
	}
	end := start.Add(time.Duration(graceMinutes) * time.Minute)

	now = now.In(loc)
	switch {
	case now.Before(start):
		return Upcoming
	case now.After(end):
		return Concluded
	default:
		return Active
	}
}

// GatheringWindow is one recurring weekly check-in window for the default
// gathering, e.g. Sunday all day at the main venue or Wednesday
// 16:30-18:00 at the annex.
type GatheringWindow struct {
	Weekday time.Weekday `yaml:"weekday"`
	AllDay  bool         `yaml:"all_day"`
	Start   string       `yaml:"start"` // "15:04"
	End     string       `yaml:"end"`
	Venue   string       `yaml:"venue"`
}

// EvaluateGathering reports whether now falls inside one of the configured
// recurring windows, returning the window that matched when Active. On a
// configured weekday it distinguishes Upcoming (before the window opens)
// from Concluded; on any other day the gathering is Concluded. Malformed
// window bounds yield Invalid.
func EvaluateGathering(windows []GatheringWindow, now time.Time, loc *time.Location) (State, *GatheringWindow) {
	now = now.In(loc)
	state := Concluded
	for i, w := range windows {
		if w.Weekday != now.Weekday() {
			continue
		}
		if w.AllDay {
			return Active, &windows[i]
		}
		start, err1 := time.Parse("15:04", w.Start)
		end, err2 := time.Parse("15:04", w.End)
		if err1 != nil || err2 != nil {
			return Invalid, nil
		}
		minutes := now.Hour()*60 + now.Minute()
		startMin := start.Hour()*60 + start.Minute()
		endMin := end.Hour()*60 + end.Minute()
		switch {
		case minutes < startMin:
			state = Upcoming
		case minutes <= endMin:
			return Active, &windows[i]
		}
	}
	return state, nil
}
