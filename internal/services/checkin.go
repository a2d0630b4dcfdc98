package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ushersync/attendance-backend/internal/config"
	activityrepo "github.com/ushersync/attendance-backend/internal/data/repos/activity"
	attendancerepo "github.com/ushersync/attendance-backend/internal/data/repos/attendance"
	eventrepo "github.com/ushersync/attendance-backend/internal/data/repos/event"
	userrepo "github.com/ushersync/attendance-backend/internal/data/repos/user"
	types "github.com/ushersync/attendance-backend/internal/domain"
	"github.com/ushersync/attendance-backend/internal/geo"
	"github.com/ushersync/attendance-backend/internal/observability"
	pkgerrors "github.com/ushersync/attendance-backend/internal/pkg/errors"
	"github.com/ushersync/attendance-backend/internal/platform/logger"
	"github.com/ushersync/attendance-backend/internal/schedule"
)

// CheckInInput carries one check-in attempt. Exactly one of SubjectID
// (self check-in) or Identifier (staff-driven, email or reg number) must
// be set. EventID nil targets the recurring gathering.
type CheckInInput struct {
	SubjectID       *uuid.UUID
	Identifier      string
	EventID         *uuid.UUID
	AttendanceType  types.AttendanceType
	Location        *geo.Point
	DeviceID        string
	ActingPrincipal uuid.UUID
}

type CheckinService interface {
	// CheckIn validates and records one attendance event. On a duplicate
	// attempt it returns the record already persisted together with
	// pkgerrors.ErrDuplicateCheckIn; nothing is double-counted.
	CheckIn(ctx context.Context, in CheckInInput) (*types.AttendanceRecord, error)
	SignOut(ctx context.Context, recordID uuid.UUID) (*types.AttendanceRecord, error)
	Revoke(ctx context.Context, recordID, performerID uuid.UUID) error
}

type checkinService struct {
	db       *gorm.DB
	log      *logger.Logger
	cfg      config.AttendanceConfig
	users    userrepo.UserRepo
	events   eventrepo.EventRepo
	records  attendancerepo.AttendanceRepo
	activity activityrepo.ActivityRepo
	now      func() time.Time
}

func NewCheckinService(
	db *gorm.DB,
	log *logger.Logger,
	cfg config.AttendanceConfig,
	users userrepo.UserRepo,
	events eventrepo.EventRepo,
	records attendancerepo.AttendanceRepo,
	activity activityrepo.ActivityRepo,
) CheckinService {
	return newCheckinService(db, log, cfg, users, events, records, activity, time.Now)
}

func newCheckinService(
	db *gorm.DB,
	log *logger.Logger,
	cfg config.AttendanceConfig,
	users userrepo.UserRepo,
	events eventrepo.EventRepo,
	records attendancerepo.AttendanceRepo,
	activity activityrepo.ActivityRepo,
	now func() time.Time,
) *checkinService {
	return &checkinService{
		db:       db,
		log:      log.With("service", "CheckinService"),
		cfg:      cfg,
		users:    users,
		events:   events,
		records:  records,
		activity: activity,
		now:      now,
	}
}

func (cs *checkinService) CheckIn(ctx context.Context, in CheckInInput) (*types.AttendanceRecord, error) {
	subject, err := cs.resolveSubject(ctx, in)
	if err != nil {
		return nil, err
	}
	if subject == nil || !subject.IsActive {
		observability.Current().IncCheckIn("rejected_inactive")
		return nil, pkgerrors.ErrUserInactiveOrUnknown
	}

	selfCheckIn := in.ActingPrincipal == uuid.Nil || in.ActingPrincipal == subject.ID

	now := cs.now().In(cs.cfg.Location())

	var (
		event     *types.Event
		venueName string
		proxType  = types.AttendanceOnsite
	)
	if in.EventID != nil {
		event, err = cs.events.GetByID(ctx, nil, *in.EventID)
		if err != nil {
			return nil, err
		}
		if event == nil {
			return nil, fmt.Errorf("event %s: %w", in.EventID, pkgerrors.ErrNotFound)
		}
		state := schedule.EvaluateEvent(event.Date, event.Time, event.GracePeriodMinutes, now, cs.cfg.Location())
		if err := windowError(state); err != nil {
			observability.Current().IncCheckIn("rejected_window")
			return nil, err
		}
		venueName = event.Venue
		proxType = event.AttendanceType
	} else {
		// Recurring gathering: self check-ins are bound to the device that
		// first signed in for this user.
		if selfCheckIn {
			if err := cs.bindDevice(ctx, subject, in.DeviceID); err != nil {
				observability.Current().IncCheckIn("rejected_device")
				return nil, err
			}
		}
		state, window := schedule.EvaluateGathering(cs.cfg.Gathering, now, cs.cfg.Location())
		if err := windowError(state); err != nil {
			observability.Current().IncCheckIn("rejected_window")
			return nil, err
		}
		venueName = window.Venue
	}

	venue, known := cs.cfg.Venue(venueName)
	if !known && proxType != types.AttendanceRemote {
		// A stale venue label (config edited, or the event flipped back to
		// onsite) must not be proximity-checked against the zero venue.
		observability.Current().IncCheckIn("rejected_venue")
		return nil, fmt.Errorf("venue %q not configured: %w", venueName, pkgerrors.ErrInvalidSchedule)
	}
	flagged := false
	switch geo.Validate(venue, in.Location, proxType) {
	case geo.Denied:
		observability.Current().IncCheckIn("rejected_location")
		return nil, fmt.Errorf("venue %s: %w", venueName, pkgerrors.ErrLocationRejected)
	case geo.Unverifiable:
		if !cs.cfg.GeoFailOpen {
			observability.Current().IncCheckIn("rejected_location")
			return nil, pkgerrors.ErrLocationUnverifiable
		}
		flagged = true
	}

	rec := types.NewAttendanceRecord(subject.ID, now, now)
	rec.EventID = in.EventID
	rec.Flagged = flagged
	if in.AttendanceType.Valid() {
		rec.AttendanceType = in.AttendanceType
	} else if event != nil {
		rec.AttendanceType = event.AttendanceType
	}
	if !selfCheckIn {
		principal := in.ActingPrincipal
		rec.MarkedBy = &principal
	}

	rec, err = cs.insertOnce(ctx, rec)
	if err != nil {
		return nil, err
	}

	cs.logCheckIn(ctx, subject, rec, selfCheckIn, flagged)
	observability.Current().IncCheckIn("ok")
	return rec, nil
}

func (cs *checkinService) resolveSubject(ctx context.Context, in CheckInInput) (*types.User, error) {
	if in.SubjectID != nil {
		return cs.users.GetByID(ctx, nil, *in.SubjectID)
	}
	identifier := strings.TrimSpace(in.Identifier)
	if identifier == "" {
		return nil, fmt.Errorf("missing subject: %w", pkgerrors.ErrInvalidArgument)
	}
	u, err := cs.users.GetByEmail(ctx, nil, identifier)
	if err != nil {
		return nil, err
	}
	if u == nil {
		u, err = cs.users.GetByRegNo(ctx, nil, identifier)
		if err != nil {
			return nil, err
		}
	}
	if u == nil {
		return nil, fmt.Errorf("%q: %w", identifier, pkgerrors.ErrUnknownIdentifier)
	}
	return u, nil
}

func (cs *checkinService) bindDevice(ctx context.Context, subject *types.User, deviceID string) error {
	if deviceID == "" {
		return nil
	}
	if subject.DeviceID == nil {
		return cs.users.SetDeviceID(ctx, nil, subject.ID, deviceID)
	}
	if *subject.DeviceID != deviceID {
		return pkgerrors.ErrDeviceMismatch
	}
	return nil
}

// insertOnce performs the atomic insert-or-detect-conflict. A lost
// uniqueness race surfaces as the winner's record plus ErrDuplicateCheckIn;
// transient storage failures get exactly one retry before ErrUnavailable.
func (cs *checkinService) insertOnce(ctx context.Context, rec *types.AttendanceRecord) (*types.AttendanceRecord, error) {
	inserted, err := cs.records.Insert(ctx, nil, rec)
	if err != nil {
		cs.log.Warn("attendance insert failed, retrying once", "error", err, "user_id", rec.UserID)
		inserted, err = cs.records.Insert(ctx, nil, rec)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", pkgerrors.ErrUnavailable, err)
		}
	}
	if inserted {
		return rec, nil
	}

	existing, err := cs.existingRecord(ctx, rec)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		// The conflicting row vanished between insert and read; the other
		// writer's transaction won and rolled past us.
		return nil, pkgerrors.ErrStorageConflict
	}
	return existing, pkgerrors.ErrDuplicateCheckIn
}

func (cs *checkinService) existingRecord(ctx context.Context, rec *types.AttendanceRecord) (*types.AttendanceRecord, error) {
	if rec.EventID != nil {
		return cs.records.GetForUserEvent(ctx, nil, rec.UserID, *rec.EventID)
	}
	return cs.records.GetForUserOnDate(ctx, nil, rec.UserID, rec.Date)
}

func (cs *checkinService) logCheckIn(ctx context.Context, subject *types.User, rec *types.AttendanceRecord, selfCheckIn, flagged bool) {
	action := types.ActivityUserCheckedIn
	actor := subject.ID
	if !selfCheckIn {
		action = types.ActivityStaffCheckedInUser
		actor = *rec.MarkedBy
	}
	details, _ := json.Marshal(map[string]any{
		"record_id":           rec.ID,
		"event_id":            rec.EventID,
		"date":                rec.Date,
		"unverified_location": flagged,
	})
	entry := &types.ActivityLog{
		ID:         uuid.New(),
		ActorID:    actor,
		Action:     action,
		TargetID:   &subject.ID,
		TargetType: "User",
		Details:    details,
		CreatedAt:  rec.CreatedAt,
	}
	if err := cs.activity.Append(ctx, nil, entry); err != nil {
		cs.log.Warn("activity log append failed", "error", err, "record_id", rec.ID)
	}
}

func (cs *checkinService) SignOut(ctx context.Context, recordID uuid.UUID) (*types.AttendanceRecord, error) {
	rec, err := cs.records.GetByID(ctx, nil, recordID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("attendance %s: %w", recordID, pkgerrors.ErrNotFound)
	}
	at := cs.now().In(cs.cfg.Location())
	if err := cs.records.SetTimeOut(ctx, nil, recordID, at); err != nil {
		return nil, err
	}
	rec.TimeOut = &at
	return rec, nil
}

func (cs *checkinService) Revoke(ctx context.Context, recordID, performerID uuid.UUID) error {
	rec, err := cs.records.GetByID(ctx, nil, recordID)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("attendance %s: %w", recordID, pkgerrors.ErrNotFound)
	}
	if err := cs.records.Delete(ctx, nil, recordID); err != nil {
		return err
	}
	details, _ := json.Marshal(map[string]any{"attendance_id": recordID, "date": rec.Date})
	entry := &types.ActivityLog{
		ID:         uuid.New(),
		ActorID:    performerID,
		Action:     types.ActivityAttendanceRevoked,
		TargetID:   &rec.UserID,
		TargetType: "User",
		Details:    details,
		CreatedAt:  cs.now(),
	}
	if err := cs.activity.Append(ctx, nil, entry); err != nil {
		cs.log.Warn("activity log append failed", "error", err, "record_id", recordID)
	}
	return nil
}

func windowError(state schedule.State) error {
	switch state {
	case schedule.Active:
		return nil
	case schedule.Upcoming:
		return pkgerrors.ErrTooEarly
	case schedule.Concluded:
		return pkgerrors.ErrTooLate
	default:
		return pkgerrors.ErrInvalidSchedule
	}
}
