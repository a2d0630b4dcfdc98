package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/ushersync/attendance-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string, role types.Role) *types.User {
	tb.Helper()
	now := time.Now().UTC()
	u := &types.User{
		ID:         uuid.New(),
		RegNo:      fmt.Sprintf("2024/KUD/%s", uuid.NewString()[:8]),
		FirstName:  "A",
		LastName:   "B",
		Email:      email,
		Password:   "hash",
		Role:       role,
		IsActive:   true,
		YearJoined: "2024",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedEvent(tb testing.TB, ctx context.Context, tx *gorm.DB, createdBy uuid.UUID, date, timeOfDay string, grace int) *types.Event {
	tb.Helper()
	now := time.Now().UTC()
	e := &types.Event{
		ID:                 uuid.New(),
		Title:              "event",
		Description:        "desc",
		Date:               date,
		Time:               timeOfDay,
		GracePeriodMinutes: grace,
		AttendanceType:     types.AttendanceOnsite,
		Venue:              "doa",
		CreatedBy:          createdBy,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed event: %v", err)
	}
	return e
}

func SeedAttendance(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, date string, eventID *uuid.UUID, timeIn time.Time) *types.AttendanceRecord {
	tb.Helper()
	day, err := time.Parse(types.DateLayout, date)
	if err != nil {
		tb.Fatalf("seed attendance: bad date %q", date)
	}
	rec := types.NewAttendanceRecord(userID, day, timeIn)
	rec.EventID = eventID
	if err := tx.WithContext(ctx).Create(rec).Error; err != nil {
		tb.Fatalf("seed attendance: %v", err)
	}
	return rec
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrTime(v time.Time) *time.Time { return &v }
