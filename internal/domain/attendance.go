package domain

import (
	"time"

	"github.com/google/uuid"
)

// AttendanceRecord is one authoritative presence record. EventID nil means
// the recurring default gathering. Uniqueness is enforced by the storage
// layer: one record per (user, date) for the gathering and one per
// (user, event) for a specific event.
type AttendanceRecord struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	Date           string         `gorm:"size:10;not null;index" json:"date"`
	WeekDay        string         `gorm:"not null;column:week_day" json:"week_day"`
	TimeIn         time.Time      `gorm:"not null;column:time_in" json:"time_in"`
	TimeOut        *time.Time     `gorm:"column:time_out" json:"time_out,omitempty"`
	EventID        *uuid.UUID     `gorm:"type:uuid;index;column:event_id" json:"event_id,omitempty"`
	MarkedBy       *uuid.UUID     `gorm:"type:uuid;column:marked_by" json:"marked_by,omitempty"`
	AttendanceType AttendanceType `gorm:"not null;column:attendance_type" json:"attendance_type"`
	// Flagged marks records accepted under the fail-open geolocation policy
	// for later audit.
	Flagged   bool      `gorm:"not null;default:false" json:"flagged"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (AttendanceRecord) TableName() string { return "attendance_records" }

func NewAttendanceRecord(userID uuid.UUID, date time.Time, now time.Time) *AttendanceRecord {
	return &AttendanceRecord{
		ID:             uuid.New(),
		UserID:         userID,
		Date:           date.Format(DateLayout),
		WeekDay:        date.Weekday().String(),
		TimeIn:         now,
		AttendanceType: AttendanceOnsite,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)
