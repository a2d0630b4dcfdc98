package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/ushersync/attendance-backend/internal/config"
	attendancerepo "github.com/ushersync/attendance-backend/internal/data/repos/attendance"
	eventrepo "github.com/ushersync/attendance-backend/internal/data/repos/event"
	userrepo "github.com/ushersync/attendance-backend/internal/data/repos/user"
	types "github.com/ushersync/attendance-backend/internal/domain"
	pkgerrors "github.com/ushersync/attendance-backend/internal/pkg/errors"
	"github.com/ushersync/attendance-backend/internal/platform/logger"
)

const ratesCacheTTL = 60 * time.Second

// UserSummary is the roster projection used across the aggregation
// responses.
type UserSummary struct {
	ID        uuid.UUID  `json:"id"`
	RegNo     string     `json:"reg_no"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	Role      types.Role `json:"role"`
}

// DayStats partitions the active roster for one calendar date. Every
// active user appears in exactly one of the two lists.
type DayStats struct {
	Date         string        `json:"date"`
	PresentCount int           `json:"present_count"`
	AbsentCount  int           `json:"absent_count"`
	Present      []UserSummary `json:"present"`
	Absent       []UserSummary `json:"absent"`
}

type UserHistory struct {
	User             UserSummary               `json:"user"`
	Records          []*types.AttendanceRecord `json:"records"`
	DaysPresent      int64                     `json:"days_present"`
	TotalDaysTracked int64                     `json:"total_days_tracked"`
	// AttendanceRate is a percentage in [0,100], zero when no dates have
	// been tracked yet.
	AttendanceRate float64 `json:"attendance_rate"`
}

type RoleRate struct {
	Role             types.Role `json:"role"`
	ActiveUsers      int        `json:"active_users"`
	AttendedInPeriod int        `json:"attended_in_period"`
	// Rate is a percentage in [0,100], zero when the role has no active
	// members.
	Rate float64 `json:"rate"`
}

type RoleRates struct {
	PeriodStart    string     `json:"period_start"`
	PeriodEnd      string     `json:"period_end"`
	TotalUsers     int        `json:"total_users"`
	ActiveUsers    int        `json:"active_users"`
	SuspendedUsers int        `json:"suspended_users"`
	Roles          []RoleRate `json:"roles"`
}

type EventAttendee struct {
	User    UserSummary `json:"user"`
	TimeIn  time.Time   `json:"time_in"`
	Flagged bool        `json:"flagged"`
}

// TimelinePoint is one minute bucket of the arrival curve. Cumulative is
// non-decreasing and ends at the attendee count.
type TimelinePoint struct {
	Minute     string `json:"minute"` // "15:04"
	Arrivals   int    `json:"arrivals"`
	Cumulative int    `json:"cumulative"`
}

type EventReport struct {
	Event     *types.Event    `json:"event"`
	Eligible  int             `json:"eligible"`
	Attendees []EventAttendee `json:"attendees"`
	Absentees []UserSummary   `json:"absentees"`
	Timeline  []TimelinePoint `json:"timeline"`
}

type BirthdayEntry struct {
	User     UserSummary `json:"user"`
	Birthday string      `json:"birthday"` // "01-02"
	InDays   int         `json:"in_days"`
}

type StatsService interface {
	DayStats(ctx context.Context, date string) (*DayStats, error)
	UserHistory(ctx context.Context, userID uuid.UUID) (*UserHistory, error)
	RatesByRole(ctx context.Context) (*RoleRates, error)
	EventReport(ctx context.Context, eventID uuid.UUID) (*EventReport, error)
	UpcomingBirthdays(ctx context.Context, reference time.Time, windowDays int) ([]BirthdayEntry, error)
}

type statsService struct {
	db      *gorm.DB
	log     *logger.Logger
	cfg     config.AttendanceConfig
	users   userrepo.UserRepo
	events  eventrepo.EventRepo
	records attendancerepo.AttendanceRepo
	cache   *redis.Client
	now     func() time.Time
}

// NewStatsService builds the aggregation service. cache may be nil, in
// which case rates are recomputed on every call.
func NewStatsService(
	db *gorm.DB,
	log *logger.Logger,
	cfg config.AttendanceConfig,
	users userrepo.UserRepo,
	events eventrepo.EventRepo,
	records attendancerepo.AttendanceRepo,
	cache *redis.Client,
) StatsService {
	return newStatsService(db, log, cfg, users, events, records, cache, time.Now)
}

func newStatsService(
	db *gorm.DB,
	log *logger.Logger,
	cfg config.AttendanceConfig,
	users userrepo.UserRepo,
	events eventrepo.EventRepo,
	records attendancerepo.AttendanceRepo,
	cache *redis.Client,
	now func() time.Time,
) *statsService {
	return &statsService{
		db:      db,
		log:     log.With("service", "StatsService"),
		cfg:     cfg,
		users:   users,
		events:  events,
		records: records,
		cache:   cache,
		now:     now,
	}
}

func summarize(u *types.User) UserSummary {
	return UserSummary{
		ID:        u.ID,
		RegNo:     u.RegNo,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role,
	}
}

func (ss *statsService) DayStats(ctx context.Context, date string) (*DayStats, error) {
	if _, err := time.Parse(types.DateLayout, date); err != nil {
		return nil, fmt.Errorf("date %q: %w", date, pkgerrors.ErrInvalidArgument)
	}

	var (
		roster     []*types.User
		presentIDs []uuid.UUID
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		roster, err = ss.users.ListActive(gctx, nil)
		return err
	})
	g.Go(func() error {
		var err error
		presentIDs, err = ss.records.DistinctUserIDsOnDate(gctx, nil, date)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	present := make(map[uuid.UUID]bool, len(presentIDs))
	for _, id := range presentIDs {
		present[id] = true
	}

	out := &DayStats{Date: date, Present: []UserSummary{}, Absent: []UserSummary{}}
	for _, u := range roster {
		if present[u.ID] {
			out.Present = append(out.Present, summarize(u))
		} else {
			out.Absent = append(out.Absent, summarize(u))
		}
	}
	out.PresentCount = len(out.Present)
	out.AbsentCount = len(out.Absent)
	return out, nil
}

func (ss *statsService) UserHistory(ctx context.Context, userID uuid.UUID) (*UserHistory, error) {
	u, err := ss.users.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("user %s: %w", userID, pkgerrors.ErrNotFound)
	}

	records, err := ss.records.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	totalDays, err := ss.records.CountDistinctDates(ctx, nil)
	if err != nil {
		return nil, err
	}

	daysPresent := make(map[string]bool, len(records))
	for _, rec := range records {
		daysPresent[rec.Date] = true
	}

	out := &UserHistory{
		User:             summarize(u),
		Records:          records,
		DaysPresent:      int64(len(daysPresent)),
		TotalDaysTracked: totalDays,
	}
	if totalDays > 0 {
		out.AttendanceRate = float64(out.DaysPresent) / float64(totalDays) * 100
	}
	return out, nil
}

func (ss *statsService) RatesByRole(ctx context.Context) (*RoleRates, error) {
	now := ss.now().In(ss.cfg.Location())
	periodStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, ss.cfg.Location()).Format(types.DateLayout)
	periodEnd := now.Format(types.DateLayout)
	cacheKey := "stats:rates:" + periodEnd

	if ss.cache != nil {
		if raw, err := ss.cache.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached RoleRates
			if json.Unmarshal(raw, &cached) == nil {
				return &cached, nil
			}
		}
	}

	var (
		roster      []*types.User
		attendedIDs []uuid.UUID
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		roster, err = ss.users.List(gctx, nil)
		return err
	})
	g.Go(func() error {
		var err error
		attendedIDs, err = ss.records.DistinctUserIDsSince(gctx, nil, periodStart)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	attended := make(map[uuid.UUID]bool, len(attendedIDs))
	for _, id := range attendedIDs {
		attended[id] = true
	}

	out := &RoleRates{PeriodStart: periodStart, PeriodEnd: periodEnd, TotalUsers: len(roster)}
	byRole := map[types.Role]*RoleRate{}
	for _, role := range []types.Role{types.RoleAdmin, types.RoleUser, types.RoleTechnical} {
		byRole[role] = &RoleRate{Role: role}
	}
	for _, u := range roster {
		if !u.IsActive {
			out.SuspendedUsers++
			continue
		}
		out.ActiveUsers++
		rr, ok := byRole[u.Role]
		if !ok {
			rr = &RoleRate{Role: u.Role}
			byRole[u.Role] = rr
		}
		rr.ActiveUsers++
		if attended[u.ID] {
			rr.AttendedInPeriod++
		}
	}
	for _, role := range sortedRoles(byRole) {
		rr := byRole[role]
		if rr.ActiveUsers > 0 {
			rr.Rate = float64(rr.AttendedInPeriod) / float64(rr.ActiveUsers) * 100
		}
		out.Roles = append(out.Roles, *rr)
	}

	if ss.cache != nil {
		if raw, err := json.Marshal(out); err == nil {
			if err := ss.cache.Set(ctx, cacheKey, raw, ratesCacheTTL).Err(); err != nil {
				ss.log.Warn("rates cache write failed", "error", err)
			}
		}
	}
	return out, nil
}

func sortedRoles(byRole map[types.Role]*RoleRate) []types.Role {
	roles := make([]types.Role, 0, len(byRole))
	for role := range byRole {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles
}

func (ss *statsService) EventReport(ctx context.Context, eventID uuid.UUID) (*EventReport, error) {
	event, err := ss.events.GetByID(ctx, nil, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, fmt.Errorf("event %s: %w", eventID, pkgerrors.ErrNotFound)
	}

	var (
		roster  []*types.User
		records []*types.AttendanceRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		roster, err = ss.users.ListActive(gctx, nil)
		return err
	})
	g.Go(func() error {
		var err error
		records, err = ss.records.ListByEvent(gctx, nil, eventID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*types.User, len(roster))
	for _, u := range roster {
		byID[u.ID] = u
	}

	out := &EventReport{
		Event:     event,
		Eligible:  len(roster),
		Attendees: []EventAttendee{},
		Absentees: []UserSummary{},
		Timeline:  []TimelinePoint{},
	}
	attended := make(map[uuid.UUID]bool, len(records))
	for _, rec := range records {
		attended[rec.UserID] = true
		att := EventAttendee{TimeIn: rec.TimeIn, Flagged: rec.Flagged}
		if u, ok := byID[rec.UserID]; ok {
			att.User = summarize(u)
		} else {
			// Checked in then deactivated; keep the row with what we know.
			att.User = UserSummary{ID: rec.UserID}
		}
		out.Attendees = append(out.Attendees, att)
	}
	for _, u := range roster {
		if !attended[u.ID] {
			out.Absentees = append(out.Absentees, summarize(u))
		}
	}
	out.Timeline = buildTimeline(records, ss.cfg.Location())
	return out, nil
}

// buildTimeline groups arrivals into minute buckets and accumulates them
// in chronological order. Records arrive ordered by time_in already, but
// the bucketing re-sorts to stay correct regardless.
func buildTimeline(records []*types.AttendanceRecord, loc *time.Location) []TimelinePoint {
	buckets := map[string]int{}
	for _, rec := range records {
		buckets[rec.TimeIn.In(loc).Format("15:04")]++
	}
	minutes := make([]string, 0, len(buckets))
	for m := range buckets {
		minutes = append(minutes, m)
	}
	sort.Strings(minutes)

	out := make([]TimelinePoint, 0, len(minutes))
	cumulative := 0
	for _, m := range minutes {
		cumulative += buckets[m]
		out = append(out, TimelinePoint{Minute: m, Arrivals: buckets[m], Cumulative: cumulative})
	}
	return out
}

func (ss *statsService) UpcomingBirthdays(ctx context.Context, reference time.Time, windowDays int) ([]BirthdayEntry, error) {
	if windowDays <= 0 {
		windowDays = 7
	}
	roster, err := ss.users.ListActiveWithDOB(ctx, nil)
	if err != nil {
		return nil, err
	}

	ref := reference.In(ss.cfg.Location())
	out := []BirthdayEntry{}
	for _, u := range roster {
		if u.DOB == nil {
			continue
		}
		dob := *u.DOB
		if dob.Month() != ref.Month() {
			continue
		}
		delta := dob.Day() - ref.Day()
		if delta < 0 || delta > windowDays {
			continue
		}
		out = append(out, BirthdayEntry{
			User:     summarize(u),
			Birthday: dob.Format("01-02"),
			InDays:   delta,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].InDays != out[j].InDays {
			return out[i].InDays < out[j].InDays
		}
		return out[i].User.RegNo < out[j].User.RegNo
	})
	return out, nil
}
