package geo

import (
	"math"
	"testing"

	types "github.com/ushersync/attendance-backend/internal/domain"
)

var doa = Venue{Name: "doa", Lat: 9.076560214946829, Lng: 7.431590122491971, RadiusMeters: 100}

func TestHaversineMeters(t *testing.T) {
	center := Point{Lat: doa.Lat, Lng: doa.Lng}

	if d := HaversineMeters(center, center); d != 0 {
		t.Fatalf("distance to self should be 0, got %f", d)
	}

	// One degree of latitude is roughly 111.2km.
	d := HaversineMeters(Point{Lat: 9, Lng: 7}, Point{Lat: 10, Lng: 7})
	if math.Abs(d-111195) > 200 {
		t.Fatalf("one degree of latitude should be ~111.2km, got %f", d)
	}

	if a, b := HaversineMeters(center, Point{Lat: 9.07, Lng: 7.43}), HaversineMeters(Point{Lat: 9.07, Lng: 7.43}, center); a != b {
		t.Fatalf("distance must be symmetric: %f vs %f", a, b)
	}
}

func TestValidateWithinRadius(t *testing.T) {
	// ~50m north of the reference point.
	near := &Point{Lat: doa.Lat + 0.00045, Lng: doa.Lng}
	if got := Validate(doa, near, types.AttendanceOnsite); got != Allowed {
		t.Fatalf("expected allowed, got %s", got)
	}
}

func TestValidateOutsideRadius(t *testing.T) {
	// ~220m north, well past the 100m tolerance.
	far := &Point{Lat: doa.Lat + 0.002, Lng: doa.Lng}
	if got := Validate(doa, far, types.AttendanceOnsite); got != Denied {
		t.Fatalf("expected denied, got %s", got)
	}
}

func TestValidateRemoteBypassesProximity(t *testing.T) {
	far := &Point{Lat: 51.5, Lng: -0.12}
	if got := Validate(doa, far, types.AttendanceRemote); got != Allowed {
		t.Fatalf("expected allowed for remote, got %s", got)
	}
	if got := Validate(doa, nil, types.AttendanceRemote); got != Allowed {
		t.Fatalf("expected allowed for remote with no point, got %s", got)
	}
}

func TestValidateMissingPoint(t *testing.T) {
	if got := Validate(doa, nil, types.AttendanceOnsite); got != Unverifiable {
		t.Fatalf("expected unverifiable, got %s", got)
	}
}

func TestPointValidate(t *testing.T) {
	cases := []struct {
		name string
		p    Point
		ok   bool
	}{
		{"valid", Point{Lat: 9.07, Lng: 7.43}, true},
		{"lat too high", Point{Lat: 90.1, Lng: 0}, false},
		{"lat too low", Point{Lat: -90.1, Lng: 0}, false},
		{"lng too high", Point{Lat: 0, Lng: 180.1}, false},
		{"lng too low", Point{Lat: 0, Lng: -180.1}, false},
		{"boundary", Point{Lat: 90, Lng: -180}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.p.Validate()
			if tc.ok && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
