package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ushersync/attendance-backend/internal/config"
	attendancerepo "github.com/ushersync/attendance-backend/internal/data/repos/attendance"
	eventrepo "github.com/ushersync/attendance-backend/internal/data/repos/event"
	"github.com/ushersync/attendance-backend/internal/data/repos/testutil"
	userrepo "github.com/ushersync/attendance-backend/internal/data/repos/user"
	types "github.com/ushersync/attendance-backend/internal/domain"
	pkgerrors "github.com/ushersync/attendance-backend/internal/pkg/errors"
)

type statsFixture struct {
	db  *gorm.DB
	svc *statsService
}

func newStatsFixture(t *testing.T, now time.Time) *statsFixture {
	t.Helper()
	gdb := testutil.DB(t)
	log := testutil.Logger(t)
	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	users := userrepo.NewUserRepo(gdb, log)
	events := eventrepo.NewEventRepo(gdb, log)
	records := attendancerepo.NewAttendanceRepo(gdb, log)
	svc := newStatsService(gdb, log, cfg, users, events, records, nil, func() time.Time { return now })
	return &statsFixture{db: gdb, svc: svc}
}

func TestDayStatsPartitionsActiveRoster(t *testing.T) {
	fx := newStatsFixture(t, time.Now())
	ctx := context.Background()

	a := testutil.SeedUser(t, ctx, fx.db, "a@example.com", types.RoleUser)
	b := testutil.SeedUser(t, ctx, fx.db, "b@example.com", types.RoleUser)
	cUser := testutil.SeedUser(t, ctx, fx.db, "c@example.com", types.RoleAdmin)
	suspended := testutil.SeedUser(t, ctx, fx.db, "d@example.com", types.RoleUser)
	if err := fx.db.Model(&types.User{}).Where("id = ?", suspended.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("suspend user: %v", err)
	}

	date := "2025-03-16"
	timeIn := time.Date(2025, 3, 16, 10, 0, 0, 0, time.UTC)
	testutil.SeedAttendance(t, ctx, fx.db, a.ID, date, nil, timeIn)
	testutil.SeedAttendance(t, ctx, fx.db, b.ID, date, nil, timeIn)

	out, err := fx.svc.DayStats(ctx, date)
	if err != nil {
		t.Fatalf("day stats failed: %v", err)
	}
	if out.PresentCount != 2 {
		t.Fatalf("expected 2 present, got %d", out.PresentCount)
	}
	if out.AbsentCount != 1 {
		t.Fatalf("expected 1 absent, got %d", out.AbsentCount)
	}
	if out.Absent[0].ID != cUser.ID {
		t.Fatalf("expected %s absent, got %s", cUser.ID, out.Absent[0].ID)
	}
	// Every active user is in exactly one partition; the suspended user in
	// neither.
	if out.PresentCount+out.AbsentCount != 3 {
		t.Fatalf("partition must cover the active roster, got %d", out.PresentCount+out.AbsentCount)
	}
}

func TestDayStatsRejectsBadDate(t *testing.T) {
	fx := newStatsFixture(t, time.Now())
	_, err := fx.svc.DayStats(context.Background(), "16/03/2025")
	if !pkgerrors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestUserHistoryRate(t *testing.T) {
	fx := newStatsFixture(t, time.Now())
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, fx.db, "hist@example.com", types.RoleUser)
	other := testutil.SeedUser(t, ctx, fx.db, "other@example.com", types.RoleUser)

	timeIn := time.Date(2025, 3, 16, 10, 0, 0, 0, time.UTC)
	testutil.SeedAttendance(t, ctx, fx.db, u.ID, "2025-03-16", nil, timeIn)
	testutil.SeedAttendance(t, ctx, fx.db, other.ID, "2025-03-16", nil, timeIn)
	testutil.SeedAttendance(t, ctx, fx.db, other.ID, "2025-03-19", nil, timeIn)

	out, err := fx.svc.UserHistory(ctx, u.ID)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if out.DaysPresent != 1 {
		t.Fatalf("expected 1 day present, got %d", out.DaysPresent)
	}
	if out.TotalDaysTracked != 2 {
		t.Fatalf("expected 2 tracked dates, got %d", out.TotalDaysTracked)
	}
	if out.AttendanceRate != 50 {
		t.Fatalf("expected rate 50 percent, got %f", out.AttendanceRate)
	}
}

func TestUserHistoryEmptyTableRateZero(t *testing.T) {
	fx := newStatsFixture(t, time.Now())
	ctx := context.Background()
	u := testutil.SeedUser(t, ctx, fx.db, "empty@example.com", types.RoleUser)

	out, err := fx.svc.UserHistory(ctx, u.ID)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if out.AttendanceRate != 0 || out.TotalDaysTracked != 0 {
		t.Fatalf("expected zero rate on empty table, got %+v", out)
	}
}

func TestUserHistoryUnknownUser(t *testing.T) {
	fx := newStatsFixture(t, time.Now())
	_, err := fx.svc.UserHistory(context.Background(), uuid.New())
	if !pkgerrors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRatesByRoleZeroGuards(t *testing.T) {
	now := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)
	fx := newStatsFixture(t, now)
	ctx := context.Background()

	admin := testutil.SeedUser(t, ctx, fx.db, "admin@example.com", types.RoleAdmin)
	testutil.SeedUser(t, ctx, fx.db, "member@example.com", types.RoleUser)
	suspended := testutil.SeedUser(t, ctx, fx.db, "gone@example.com", types.RoleUser)
	if err := fx.db.Model(&types.User{}).Where("id = ?", suspended.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("suspend user: %v", err)
	}

	timeIn := time.Date(2025, 3, 16, 10, 0, 0, 0, time.UTC)
	testutil.SeedAttendance(t, ctx, fx.db, admin.ID, "2025-03-16", nil, timeIn)

	out, err := fx.svc.RatesByRole(ctx)
	if err != nil {
		t.Fatalf("rates failed: %v", err)
	}
	if out.TotalUsers != 3 || out.ActiveUsers != 2 || out.SuspendedUsers != 1 {
		t.Fatalf("unexpected roster counts: %+v", out)
	}
	byRole := map[types.Role]RoleRate{}
	for _, rr := range out.Roles {
		byRole[rr.Role] = rr
	}
	if rr := byRole[types.RoleAdmin]; rr.Rate != 100 || rr.AttendedInPeriod != 1 {
		t.Fatalf("admin rate wrong: %+v", rr)
	}
	if rr := byRole[types.RoleUser]; rr.Rate != 0 || rr.ActiveUsers != 1 {
		t.Fatalf("user rate wrong: %+v", rr)
	}
	// No technical users at all: the rate must be 0, not NaN.
	if rr := byRole[types.RoleTechnical]; rr.Rate != 0 || rr.ActiveUsers != 0 {
		t.Fatalf("technical rate wrong: %+v", rr)
	}
}

func TestEventReportTimeline(t *testing.T) {
	fx := newStatsFixture(t, time.Now())
	ctx := context.Background()

	creator := testutil.SeedUser(t, ctx, fx.db, "creator@example.com", types.RoleAdmin)
	u1 := testutil.SeedUser(t, ctx, fx.db, "one@example.com", types.RoleUser)
	u2 := testutil.SeedUser(t, ctx, fx.db, "two@example.com", types.RoleUser)
	absent := testutil.SeedUser(t, ctx, fx.db, "absent@example.com", types.RoleUser)
	e := testutil.SeedEvent(t, ctx, fx.db, creator.ID, "2025-03-12", "09:00:00", 15)

	loc := fx.svc.cfg.Location()
	testutil.SeedAttendance(t, ctx, fx.db, creator.ID, "2025-03-12", &e.ID, time.Date(2025, 3, 12, 9, 1, 10, 0, loc))
	testutil.SeedAttendance(t, ctx, fx.db, u1.ID, "2025-03-12", &e.ID, time.Date(2025, 3, 12, 9, 1, 40, 0, loc))
	testutil.SeedAttendance(t, ctx, fx.db, u2.ID, "2025-03-12", &e.ID, time.Date(2025, 3, 12, 9, 3, 5, 0, loc))

	out, err := fx.svc.EventReport(ctx, e.ID)
	if err != nil {
		t.Fatalf("event report failed: %v", err)
	}
	if out.Eligible != 4 {
		t.Fatalf("expected 4 eligible, got %d", out.Eligible)
	}
	if len(out.Attendees) != 3 {
		t.Fatalf("expected 3 attendees, got %d", len(out.Attendees))
	}
	if len(out.Absentees) != 1 || out.Absentees[0].ID != absent.ID {
		t.Fatalf("unexpected absentees: %+v", out.Absentees)
	}

	if len(out.Timeline) != 2 {
		t.Fatalf("expected 2 minute buckets, got %d", len(out.Timeline))
	}
	if out.Timeline[0].Minute != "09:01" || out.Timeline[0].Arrivals != 2 {
		t.Fatalf("unexpected first bucket: %+v", out.Timeline[0])
	}
	last := out.Timeline[len(out.Timeline)-1]
	if last.Cumulative != len(out.Attendees) {
		t.Fatalf("cumulative must end at attendee count, got %d", last.Cumulative)
	}
	for i := 1; i < len(out.Timeline); i++ {
		if out.Timeline[i].Cumulative < out.Timeline[i-1].Cumulative {
			t.Fatal("cumulative curve must be non-decreasing")
		}
	}
}

func TestEventReportUnknownEvent(t *testing.T) {
	fx := newStatsFixture(t, time.Now())
	_, err := fx.svc.EventReport(context.Background(), uuid.New())
	if !pkgerrors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpcomingBirthdays(t *testing.T) {
	fx := newStatsFixture(t, time.Now())
	ctx := context.Background()

	soon := testutil.SeedUser(t, ctx, fx.db, "soon@example.com", types.RoleUser)
	later := testutil.SeedUser(t, ctx, fx.db, "later@example.com", types.RoleUser)
	nextMonth := testutil.SeedUser(t, ctx, fx.db, "april@example.com", types.RoleUser)

	setDOB := func(id uuid.UUID, dob time.Time) {
		if err := fx.db.Model(&types.User{}).Where("id = ?", id).Update("dob", dob).Error; err != nil {
			t.Fatalf("set dob: %v", err)
		}
	}
	setDOB(soon.ID, time.Date(1990, 3, 12, 0, 0, 0, 0, time.UTC))
	setDOB(later.ID, time.Date(1985, 3, 25, 0, 0, 0, 0, time.UTC))
	setDOB(nextMonth.ID, time.Date(1992, 4, 1, 0, 0, 0, 0, time.UTC))

	reference := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	out, err := fx.svc.UpcomingBirthdays(ctx, reference, 7)
	if err != nil {
		t.Fatalf("birthdays failed: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 upcoming birthday, got %d", len(out))
	}
	if out[0].User.ID != soon.ID || out[0].InDays != 2 {
		t.Fatalf("unexpected entry: %+v", out[0])
	}
}
