package geo

import (
	"fmt"
	"math"

	"github.com/ushersync/attendance-backend/internal/domain"
)

type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (p Point) Validate() error {
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("invalid latitude %f", p.Lat)
	}
	if p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("invalid longitude %f", p.Lng)
	}
	return nil
}

// Venue is a known gathering location with an acceptance radius around its
// reference coordinate.
type Venue struct {
	Name         string  `yaml:"name"`
	Lat          float64 `yaml:"lat"`
	Lng          float64 `yaml:"lng"`
	RadiusMeters float64 `yaml:"radius_meters"`
}

const earthRadiusMeters = 6371000.0

// HaversineMeters is the great-circle distance between two points.
func HaversineMeters(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dlat := (b.Lat - a.Lat) * math.Pi / 180
	dlng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Pow(math.Sin(dlat/2), 2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dlng/2), 2)

	return 2 * earthRadiusMeters * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

type Result int

const (
	Allowed Result = iota
	Denied
	// Unverifiable means no point was reported; deployment policy decides
	// whether that blocks the check-in.
	Unverifiable
)

func (r Result) String() string {
	switch r {
	case Allowed:
		return "allowed"
	case Denied:
		return "denied"
	default:
		return "unverifiable"
	}
}

// Validate compares a reported point against the venue tolerance. Remote
// attendance bypasses proximity entirely.
func Validate(venue Venue, reported *Point, attendanceType domain.AttendanceType) Result {
	if attendanceType == domain.AttendanceRemote {
		return Allowed
	}
	if reported == nil {
		return Unverifiable
	}
	if HaversineMeters(*reported, Point{Lat: venue.Lat, Lng: venue.Lng}) <= venue.RadiusMeters {
		return Allowed
	}
	return Denied
}
