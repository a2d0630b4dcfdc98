package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ushersync/attendance-backend/internal/config"
	activityrepo "github.com/ushersync/attendance-backend/internal/data/repos/activity"
	userrepo "github.com/ushersync/attendance-backend/internal/data/repos/user"
	types "github.com/ushersync/attendance-backend/internal/domain"
	pkgerrors "github.com/ushersync/attendance-backend/internal/pkg/errors"
	"github.com/ushersync/attendance-backend/internal/platform/logger"
)

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      types.Role
	DOB       *time.Time
	Phone     *string
}

type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*types.User, error)
	Get(ctx context.Context, id uuid.UUID) (*types.User, error)
	List(ctx context.Context) ([]*types.User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role types.Role, performerID uuid.UUID) error
	// SetActive suspends or reinstates a user. Suspension keeps the user's
	// attendance history intact; it only blocks new check-ins.
	SetActive(ctx context.Context, id uuid.UUID, active bool, performerID uuid.UUID) error
	ChangePassword(ctx context.Context, id uuid.UUID, newPassword string) error
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	cfg      config.AttendanceConfig
	users    userrepo.UserRepo
	activity activityrepo.ActivityRepo
	now      func() time.Time
}

func NewUserService(
	db *gorm.DB,
	log *logger.Logger,
	cfg config.AttendanceConfig,
	users userrepo.UserRepo,
	activity activityrepo.ActivityRepo,
) UserService {
	return &userService{
		db:       db,
		log:      log.With("service", "UserService"),
		cfg:      cfg,
		users:    users,
		activity: activity,
		now:      time.Now,
	}
}

// Register creates a user and hands out the next registration number for
// the current year. The sequence is derived inside one transaction so two
// concurrent sign-ups cannot share a number.
func (us *userService) Register(ctx context.Context, in RegisterInput) (*types.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Email == "" || in.FirstName == "" || in.LastName == "" {
		return nil, fmt.Errorf("name and email are required: %w", pkgerrors.ErrInvalidArgument)
	}
	if len(in.Password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters: %w", pkgerrors.ErrInvalidArgument)
	}
	role := in.Role
	if role == "" {
		role = types.RoleUser
	}
	if !role.Valid() {
		return nil, fmt.Errorf("role %q: %w", in.Role, pkgerrors.ErrInvalidArgument)
	}

	existing, err := us.users.GetByEmail(ctx, nil, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("email already registered: %w", pkgerrors.ErrStorageConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := us.now().In(us.cfg.Location())
	year := now.Format("2006")

	var created *types.User
	err = us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq, err := us.users.CountByYearJoined(ctx, tx, year)
		if err != nil {
			return err
		}
		u := &types.User{
			ID:         uuid.New(),
			RegNo:      types.FormatRegNo(year, seq+1),
			FirstName:  strings.TrimSpace(in.FirstName),
			LastName:   strings.TrimSpace(in.LastName),
			Email:      in.Email,
			Password:   string(hash),
			Role:       role,
			IsActive:   true,
			DOB:        in.DOB,
			YearJoined: year,
			Phone:      in.Phone,
			CreatedAt:  now.UTC(),
			UpdatedAt:  now.UTC(),
		}
		created, err = us.users.Create(ctx, tx, u)
		return err
	})
	if err != nil {
		return nil, err
	}
	us.log.Info("Registered user", "user_id", created.ID, "reg_no", created.RegNo)
	return created, nil
}

func (us *userService) Get(ctx context.Context, id uuid.UUID) (*types.User, error) {
	u, err := us.users.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("user %s: %w", id, pkgerrors.ErrNotFound)
	}
	return u, nil
}

func (us *userService) List(ctx context.Context) ([]*types.User, error) {
	return us.users.List(ctx, nil)
}

func (us *userService) UpdateRole(ctx context.Context, id uuid.UUID, role types.Role, performerID uuid.UUID) error {
	if !role.Valid() {
		return fmt.Errorf("role %q: %w", role, pkgerrors.ErrInvalidArgument)
	}
	u, err := us.Get(ctx, id)
	if err != nil {
		return err
	}
	if u.Role == role {
		return nil
	}
	if err := us.users.UpdateRole(ctx, nil, id, role); err != nil {
		return err
	}

	details, _ := json.Marshal(map[string]any{
		"reg_no":   u.RegNo,
		"old_role": u.Role,
		"new_role": role,
	})
	entry := &types.ActivityLog{
		ID:         uuid.New(),
		ActorID:    performerID,
		Action:     types.ActivityUserRoleChanged,
		TargetID:   &u.ID,
		TargetType: "User",
		Details:    details,
		CreatedAt:  us.now(),
	}
	if err := us.activity.Append(ctx, nil, entry); err != nil {
		us.log.Warn("activity log append failed", "error", err, "user_id", id)
	}
	return nil
}

func (us *userService) SetActive(ctx context.Context, id uuid.UUID, active bool, performerID uuid.UUID) error {
	u, err := us.Get(ctx, id)
	if err != nil {
		return err
	}
	if u.IsActive == active {
		return nil
	}
	if err := us.users.SetActive(ctx, nil, id, active); err != nil {
		return err
	}

	action := types.ActivityUserDeactivated
	if active {
		action = types.ActivityUserActivated
	}
	details, _ := json.Marshal(map[string]any{"reg_no": u.RegNo})
	entry := &types.ActivityLog{
		ID:         uuid.New(),
		ActorID:    performerID,
		Action:     action,
		TargetID:   &u.ID,
		TargetType: "User",
		Details:    details,
		CreatedAt:  us.now(),
	}
	if err := us.activity.Append(ctx, nil, entry); err != nil {
		us.log.Warn("activity log append failed", "error", err, "user_id", id)
	}
	return nil
}

func (us *userService) ChangePassword(ctx context.Context, id uuid.UUID, newPassword string) error {
	if len(newPassword) < 8 {
		return fmt.Errorf("password must be at least 8 characters: %w", pkgerrors.ErrInvalidArgument)
	}
	if _, err := us.Get(ctx, id); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return us.users.UpdatePassword(ctx, nil, id, string(hash))
}
