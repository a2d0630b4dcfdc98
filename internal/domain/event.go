package domain

import (
	"time"

	"github.com/google/uuid"
)

type AttendanceType string

const (
	AttendanceOnsite    AttendanceType = "onsite"
	AttendanceRemote    AttendanceType = "remote"
	AttendanceMandatory AttendanceType = "mandatory"
	AttendanceOptional  AttendanceType = "optional"
	AttendanceStandard  AttendanceType = "standard"
	AttendanceLate      AttendanceType = "late"
	AttendanceExcused   AttendanceType = "excused"
)

func (a AttendanceType) Valid() bool {
	switch a {
	case AttendanceOnsite, AttendanceRemote, AttendanceMandatory,
		AttendanceOptional, AttendanceStandard, AttendanceLate, AttendanceExcused:
		return true
	}
	return false
}

// Event is a scheduled gathering with a check-in window of
// [date+time, date+time+grace]. Date is a calendar date ("2006-01-02") and
// Time a local time of day ("15:04:05") in the organization's time zone.
type Event struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title              string         `gorm:"not null" json:"title"`
	Description        string         `gorm:"not null" json:"description"`
	Date               string         `gorm:"size:10;not null;index" json:"date"`
	Time               string         `gorm:"size:8;not null" json:"time"`
	GracePeriodMinutes int            `gorm:"not null;column:grace_period_minutes" json:"grace_period_minutes"`
	AttendanceType     AttendanceType `gorm:"not null;column:attendance_type" json:"attendance_type"`
	Venue              string         `gorm:"not null;column:venue" json:"venue"`
	CreatedBy          uuid.UUID      `gorm:"type:uuid;not null;column:created_by" json:"created_by"`
	CreatedAt          time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"not null" json:"updated_at"`
}

func (Event) TableName() string { return "events" }
