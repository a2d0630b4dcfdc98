package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleUser      Role = "user"
	RoleTechnical Role = "technical"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleTechnical:
		return true
	}
	return false
}

type User struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	RegNo       string     `gorm:"uniqueIndex;not null;column:reg_no" json:"reg_no"`
	FirstName   string     `gorm:"not null;column:first_name" json:"first_name"`
	LastName    string     `gorm:"not null;column:last_name" json:"last_name"`
	Email       string     `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password    string     `gorm:"not null;column:password_hash" json:"-"`
	Role        Role       `gorm:"not null;default:user;column:role" json:"role"`
	IsActive    bool       `gorm:"not null;default:true;column:is_active" json:"is_active"`
	DOB         *time.Time `gorm:"column:dob" json:"dob,omitempty"`
	YearJoined  string     `gorm:"not null;column:year_joined" json:"year_joined"`
	DeviceID    *string    `gorm:"column:device_id" json:"device_id,omitempty"`
	Phone       *string    `gorm:"column:phone" json:"phone,omitempty"`
	AvatarURL   *string    `gorm:"column:avatar_url" json:"avatar_url,omitempty"`
	LastSeen    *time.Time `gorm:"column:last_seen" json:"last_seen,omitempty"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// FormatRegNo builds the registration number handed out at sign-up,
// e.g. "2024/KUD/007".
func FormatRegNo(yearJoined string, seq int64) string {
	return fmt.Sprintf("%s/KUD/%03d", yearJoined, seq)
}
