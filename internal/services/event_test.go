package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ushersync/attendance-backend/internal/config"
	eventrepo "github.com/ushersync/attendance-backend/internal/data/repos/event"
	"github.com/ushersync/attendance-backend/internal/data/repos/testutil"
	types "github.com/ushersync/attendance-backend/internal/domain"
	pkgerrors "github.com/ushersync/attendance-backend/internal/pkg/errors"
)

type eventFixture struct {
	db      *gorm.DB
	creator *types.User
	svc     EventService
}

func newEventFixture(t *testing.T) *eventFixture {
	t.Helper()
	gdb := testutil.DB(t)
	log := testutil.Logger(t)
	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	creator := testutil.SeedUser(t, context.Background(), gdb, "creator@example.com", types.RoleAdmin)
	events := eventrepo.NewEventRepo(gdb, log)
	return &eventFixture{db: gdb, creator: creator, svc: NewEventService(gdb, log, cfg, events)}
}

func TestCreateEvent(t *testing.T) {
	fx := newEventFixture(t)
	ctx := context.Background()

	e, err := fx.svc.Create(ctx, CreateEventInput{
		Title:              "  Leadership Summit ",
		Date:               "2025-04-05",
		Time:               "10:00:00",
		GracePeriodMinutes: 20,
		Venue:              "doa",
		CreatedBy:          fx.creator.ID,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if e.Title != "Leadership Summit" {
		t.Fatalf("title should be trimmed, got %q", e.Title)
	}
	if e.AttendanceType != types.AttendanceOnsite {
		t.Fatalf("expected onsite default, got %q", e.AttendanceType)
	}
}

func TestCreateEventValidation(t *testing.T) {
	fx := newEventFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   CreateEventInput
	}{
		{"missing title", CreateEventInput{Date: "2025-04-05", Time: "10:00:00", Venue: "doa"}},
		{"bad date", CreateEventInput{Title: "T", Date: "05/04/2025", Time: "10:00:00", Venue: "doa"}},
		{"bad time", CreateEventInput{Title: "T", Date: "2025-04-05", Time: "10am", Venue: "doa"}},
		{"unknown venue", CreateEventInput{Title: "T", Date: "2025-04-05", Time: "10:00:00", Venue: "nowhere"}},
		{"bad attendance type", CreateEventInput{Title: "T", Date: "2025-04-05", Time: "10:00:00", Venue: "doa", AttendanceType: "astral"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.in.CreatedBy = fx.creator.ID
			if _, err := fx.svc.Create(ctx, tc.in); !pkgerrors.Is(err, pkgerrors.ErrInvalidArgument) {
				t.Fatalf("expected invalid argument, got %v", err)
			}
		})
	}
}

func TestCreateRemoteEventSkipsVenueCheck(t *testing.T) {
	fx := newEventFixture(t)

	e, err := fx.svc.Create(context.Background(), CreateEventInput{
		Title:          "Online Townhall",
		Date:           "2025-04-05",
		Time:           "10:00:00",
		AttendanceType: types.AttendanceRemote,
		Venue:          "zoom",
		CreatedBy:      fx.creator.ID,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if e.Venue != "zoom" {
		t.Fatalf("unexpected venue %q", e.Venue)
	}
}

func TestListUpcomingAndPast(t *testing.T) {
	fx := newEventFixture(t)
	ctx := context.Background()

	past := testutil.SeedEvent(t, ctx, fx.db, fx.creator.ID, "2020-01-01", "09:00:00", 15)
	future := testutil.SeedEvent(t, ctx, fx.db, fx.creator.ID, "2099-01-01", "09:00:00", 15)

	upcoming, err := fx.svc.ListUpcoming(ctx)
	if err != nil {
		t.Fatalf("list upcoming failed: %v", err)
	}
	if len(upcoming) != 1 || upcoming[0].ID != future.ID {
		t.Fatalf("unexpected upcoming set: %+v", upcoming)
	}

	gone, err := fx.svc.ListPast(ctx)
	if err != nil {
		t.Fatalf("list past failed: %v", err)
	}
	if len(gone) != 1 || gone[0].ID != past.ID {
		t.Fatalf("unexpected past set: %+v", gone)
	}
}

func TestUpdateEvent(t *testing.T) {
	fx := newEventFixture(t)
	ctx := context.Background()
	e := testutil.SeedEvent(t, ctx, fx.db, fx.creator.ID, "2025-04-05", "10:00:00", 15)

	title := "Renamed"
	grace := 45
	updated, err := fx.svc.Update(ctx, e.ID, UpdateEventInput{Title: &title, GracePeriodMinutes: &grace})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Title != "Renamed" || updated.GracePeriodMinutes != 45 {
		t.Fatalf("update not applied: %+v", updated)
	}

	badTime := "noon"
	if _, err := fx.svc.Update(ctx, e.ID, UpdateEventInput{Time: &badTime}); !pkgerrors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}

	badVenue := "nowhere"
	if _, err := fx.svc.Update(ctx, e.ID, UpdateEventInput{Venue: &badVenue}); !pkgerrors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}

	if _, err := fx.svc.Update(ctx, uuid.New(), UpdateEventInput{Title: &title}); !pkgerrors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteEvent(t *testing.T) {
	fx := newEventFixture(t)
	ctx := context.Background()
	e := testutil.SeedEvent(t, ctx, fx.db, fx.creator.ID, "2025-04-05", "10:00:00", 15)

	if err := fx.svc.Delete(ctx, e.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := fx.svc.Delete(ctx, e.ID); !pkgerrors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}
