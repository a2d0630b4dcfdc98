package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ActivityType string

const (
	ActivityUserCheckedIn      ActivityType = "user_checked_in"
	ActivityStaffCheckedInUser ActivityType = "staff_checked_in_user"
	ActivityAttendanceRevoked  ActivityType = "attendance_revoked"
	ActivityAttendanceFlagged  ActivityType = "attendance_flagged"
	ActivityUserDeactivated    ActivityType = "user_deactivated"
	ActivityUserActivated      ActivityType = "user_activated"
	ActivityUserRoleChanged    ActivityType = "user_role_changed"
)

// ActivityLog is an append-only audit row. Details holds action-specific
// JSON (record id, event id, flag reason).
type ActivityLog struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ActorID    uuid.UUID      `gorm:"type:uuid;not null;index;column:actor_id" json:"actor_id"`
	Action     ActivityType   `gorm:"not null" json:"action"`
	TargetID   *uuid.UUID     `gorm:"type:uuid;column:target_id" json:"target_id,omitempty"`
	TargetType string         `gorm:"column:target_type" json:"target_type,omitempty"`
	Details    datatypes.JSON `gorm:"column:details" json:"details,omitempty"`
	CreatedAt  time.Time      `gorm:"not null;index" json:"created_at"`
}

func (ActivityLog) TableName() string { return "activity_logs" }
