package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ushersync/attendance-backend/internal/geo"
	"github.com/ushersync/attendance-backend/internal/platform/envutil"
	"github.com/ushersync/attendance-backend/internal/platform/logger"
	"github.com/ushersync/attendance-backend/internal/schedule"
)

type Config struct {
	HTTPAddr    string
	MetricsAddr string
	RedisAddr   string
	Env         string

	Attendance AttendanceConfig
}

// AttendanceConfig is the deployment policy for the eligibility engine:
// the organization time zone, the recurring gathering windows, the venue
// registry and the geolocation failure policy.
type AttendanceConfig struct {
	Timezone string                     `yaml:"timezone"`
	// GeoFailOpen accepts check-ins with no reported location, flagging the
	// record for audit. Set false for fail-closed deployments.
	GeoFailOpen bool                       `yaml:"geo_fail_open"`
	Gathering   []schedule.GatheringWindow `yaml:"gathering_windows"`
	Venues      []geo.Venue                `yaml:"venues"`

	location *time.Location
}

func (a *AttendanceConfig) Location() *time.Location {
	if a.location == nil {
		return time.UTC
	}
	return a.location
}

func (a *AttendanceConfig) Venue(name string) (geo.Venue, bool) {
	for _, v := range a.Venues {
		if v.Name == name {
			return v, true
		}
	}
	return geo.Venue{}, false
}

// Defaults mirror the original deployment: Abuja venues, Sunday services
// plus the Wednesday evening meeting.
func defaultAttendance() AttendanceConfig {
	return AttendanceConfig{
		Timezone:    "Africa/Lagos",
		GeoFailOpen: true,
		Gathering: []schedule.GatheringWindow{
			{Weekday: time.Sunday, AllDay: true, Venue: "chida"},
			{Weekday: time.Wednesday, Start: "16:30", End: "18:00", Venue: "doa"},
		},
		Venues: []geo.Venue{
			{Name: "doa", Lat: 9.076560214946829, Lng: 7.431590122491971, RadiusMeters: 100},
			{Name: "chida", Lat: 9.070818996337124, Lng: 7.434377769114212, RadiusMeters: 150},
		},
	}
}

// Default returns the built-in attendance policy with its timezone
// resolved, independent of the environment.
func Default() (AttendanceConfig, error) {
	cfg := defaultAttendance()
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return AttendanceConfig{}, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}
	cfg.location = loc
	return cfg, nil
}

func Load(log *logger.Logger) (*Config, error) {
	cfg := &Config{
		HTTPAddr:    envutil.String("HTTP_ADDR", ":8080"),
		MetricsAddr: envutil.String("METRICS_ADDR", ":9091"),
		RedisAddr:   envutil.String("REDIS_ADDR", ""),
		Env:         envutil.String("ENV", "development"),
		Attendance:  defaultAttendance(),
	}

	if path := envutil.String("VENUES_CONFIG_PATH", ""); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read attendance config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg.Attendance); err != nil {
			return nil, fmt.Errorf("parse attendance config: %w", err)
		}
		log.Info("Loaded attendance config", "path", path, "venues", len(cfg.Attendance.Venues))
	}

	loc, err := time.LoadLocation(cfg.Attendance.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Attendance.Timezone, err)
	}
	cfg.Attendance.location = loc
	return cfg, nil
}
