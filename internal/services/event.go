package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ushersync/attendance-backend/internal/config"
	eventrepo "github.com/ushersync/attendance-backend/internal/data/repos/event"
	types "github.com/ushersync/attendance-backend/internal/domain"
	pkgerrors "github.com/ushersync/attendance-backend/internal/pkg/errors"
	"github.com/ushersync/attendance-backend/internal/platform/logger"
)

type CreateEventInput struct {
	Title              string
	Description        string
	Date               string // "2006-01-02"
	Time               string // "15:04:05"
	GracePeriodMinutes int
	AttendanceType     types.AttendanceType
	Venue              string
	CreatedBy          uuid.UUID
}

type UpdateEventInput struct {
	Title              *string
	Description        *string
	Date               *string
	Time               *string
	GracePeriodMinutes *int
	AttendanceType     *types.AttendanceType
	Venue              *string
}

type EventService interface {
	Create(ctx context.Context, in CreateEventInput) (*types.Event, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Event, error)
	List(ctx context.Context) ([]*types.Event, error)
	ListUpcoming(ctx context.Context) ([]*types.Event, error)
	ListPast(ctx context.Context) ([]*types.Event, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateEventInput) (*types.Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type eventService struct {
	db     *gorm.DB
	log    *logger.Logger
	cfg    config.AttendanceConfig
	events eventrepo.EventRepo
	now    func() time.Time
}

func NewEventService(db *gorm.DB, log *logger.Logger, cfg config.AttendanceConfig, events eventrepo.EventRepo) EventService {
	return &eventService{
		db:     db,
		log:    log.With("service", "EventService"),
		cfg:    cfg,
		events: events,
		now:    time.Now,
	}
}

func (es *eventService) validateSchedule(date, timeOfDay string) error {
	if _, err := time.ParseInLocation(types.DateLayout+" "+types.TimeLayout, date+" "+timeOfDay, es.cfg.Location()); err != nil {
		return fmt.Errorf("schedule %q %q: %w", date, timeOfDay, pkgerrors.ErrInvalidArgument)
	}
	return nil
}

func (es *eventService) validateVenue(name string, attendanceType types.AttendanceType) error {
	// Remote events have no proximity check, so any venue label is fine.
	if attendanceType == types.AttendanceRemote {
		return nil
	}
	if _, ok := es.cfg.Venue(name); !ok {
		return fmt.Errorf("unknown venue %q: %w", name, pkgerrors.ErrInvalidArgument)
	}
	return nil
}

func (es *eventService) Create(ctx context.Context, in CreateEventInput) (*types.Event, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, fmt.Errorf("title is required: %w", pkgerrors.ErrInvalidArgument)
	}
	if err := es.validateSchedule(in.Date, in.Time); err != nil {
		return nil, err
	}
	attendanceType := in.AttendanceType
	if attendanceType == "" {
		attendanceType = types.AttendanceOnsite
	}
	if !attendanceType.Valid() {
		return nil, fmt.Errorf("attendance type %q: %w", in.AttendanceType, pkgerrors.ErrInvalidArgument)
	}
	if err := es.validateVenue(in.Venue, attendanceType); err != nil {
		return nil, err
	}

	now := es.now().UTC()
	e := &types.Event{
		ID:                 uuid.New(),
		Title:              in.Title,
		Description:        in.Description,
		Date:               in.Date,
		Time:               in.Time,
		GracePeriodMinutes: in.GracePeriodMinutes,
		AttendanceType:     attendanceType,
		Venue:              in.Venue,
		CreatedBy:          in.CreatedBy,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	created, err := es.events.Create(ctx, nil, e)
	if err != nil {
		return nil, err
	}
	es.log.Info("Created event", "event_id", created.ID, "date", created.Date)
	return created, nil
}

func (es *eventService) Get(ctx context.Context, id uuid.UUID) (*types.Event, error) {
	e, err := es.events.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, fmt.Errorf("event %s: %w", id, pkgerrors.ErrNotFound)
	}
	return e, nil
}

func (es *eventService) List(ctx context.Context) ([]*types.Event, error) {
	return es.events.List(ctx, nil)
}

func (es *eventService) ListUpcoming(ctx context.Context) ([]*types.Event, error) {
	now := es.now().In(es.cfg.Location())
	return es.events.ListUpcoming(ctx, nil, now.Format(types.DateLayout), now.Format(types.TimeLayout))
}

func (es *eventService) ListPast(ctx context.Context) ([]*types.Event, error) {
	now := es.now().In(es.cfg.Location())
	return es.events.ListPast(ctx, nil, now.Format(types.DateLayout), now.Format(types.TimeLayout))
}

func (es *eventService) Update(ctx context.Context, id uuid.UUID, in UpdateEventInput) (*types.Event, error) {
	current, err := es.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, fmt.Errorf("title is required: %w", pkgerrors.ErrInvalidArgument)
		}
		fields["title"] = title
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}

	date, timeOfDay := current.Date, current.Time
	if in.Date != nil {
		date = *in.Date
		fields["date"] = date
	}
	if in.Time != nil {
		timeOfDay = *in.Time
		fields["time"] = timeOfDay
	}
	if in.Date != nil || in.Time != nil {
		if err := es.validateSchedule(date, timeOfDay); err != nil {
			return nil, err
		}
	}

	if in.GracePeriodMinutes != nil {
		fields["grace_period_minutes"] = *in.GracePeriodMinutes
	}

	attendanceType := current.AttendanceType
	if in.AttendanceType != nil {
		attendanceType = *in.AttendanceType
		if !attendanceType.Valid() {
			return nil, fmt.Errorf("attendance type %q: %w", attendanceType, pkgerrors.ErrInvalidArgument)
		}
		fields["attendance_type"] = attendanceType
	}
	if in.Venue != nil {
		if err := es.validateVenue(*in.Venue, attendanceType); err != nil {
			return nil, err
		}
		fields["venue"] = *in.Venue
	}

	if len(fields) == 0 {
		return current, nil
	}
	fields["updated_at"] = es.now().UTC()

	updated, err := es.events.Update(ctx, nil, id, fields)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("event %s: %w", id, pkgerrors.ErrNotFound)
	}
	return updated, nil
}

func (es *eventService) Delete(ctx context.Context, id uuid.UUID) error {
	ok, err := es.events.Delete(ctx, nil, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("event %s: %w", id, pkgerrors.ErrNotFound)
	}
	return nil
}
