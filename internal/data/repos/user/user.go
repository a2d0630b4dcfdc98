package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/ushersync/attendance-backend/internal/domain"
	"github.com/ushersync/attendance-backend/internal/platform/logger"
)

type UserRepo interface {
	Create(ctx context.Context, tx *gorm.DB, u *types.User) (*types.User, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.User, error)
	GetByRegNo(ctx context.Context, tx *gorm.DB, regNo string) (*types.User, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.User, error)
	ListActive(ctx context.Context, tx *gorm.DB) ([]*types.User, error)
	ListActiveWithDOB(ctx context.Context, tx *gorm.DB) ([]*types.User, error)
	CountByYearJoined(ctx context.Context, tx *gorm.DB, yearJoined string) (int64, error)
	SetActive(ctx context.Context, tx *gorm.DB, id uuid.UUID, active bool) error
	UpdateRole(ctx context.Context, tx *gorm.DB, id uuid.UUID, role types.Role) error
	SetDeviceID(ctx context.Context, tx *gorm.DB, id uuid.UUID, deviceID string) error
	UpdatePassword(ctx context.Context, tx *gorm.DB, id uuid.UUID, passwordHash string) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (ur *userRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return ur.db
}

func (ur *userRepo) Create(ctx context.Context, tx *gorm.DB, u *types.User) (*types.User, error) {
	if err := ur.conn(tx).WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

func (ur *userRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.User, error) {
	var u types.User
	err := ur.conn(tx).WithContext(ctx).Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (ur *userRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.User, error) {
	var u types.User
	err := ur.conn(tx).WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (ur *userRepo) GetByRegNo(ctx context.Context, tx *gorm.DB, regNo string) (*types.User, error) {
	var u types.User
	err := ur.conn(tx).WithContext(ctx).Where("reg_no = ?", regNo).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (ur *userRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.User, error) {
	var results []*types.User
	if err := ur.conn(tx).WithContext(ctx).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) ListActive(ctx context.Context, tx *gorm.DB) ([]*types.User, error) {
	var results []*types.User
	if err := ur.conn(tx).WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) ListActiveWithDOB(ctx context.Context, tx *gorm.DB) ([]*types.User, error) {
	var results []*types.User
	if err := ur.conn(tx).WithContext(ctx).
		Where("is_active = ? AND dob IS NOT NULL", true).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) CountByYearJoined(ctx context.Context, tx *gorm.DB, yearJoined string) (int64, error) {
	var count int64
	if err := ur.conn(tx).WithContext(ctx).
		Model(&types.User{}).
		Where("year_joined = ?", yearJoined).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (ur *userRepo) SetActive(ctx context.Context, tx *gorm.DB, id uuid.UUID, active bool) error {
	return ur.conn(tx).WithContext(ctx).
		Model(&types.User{}).
		Where("id = ?", id).
		Update("is_active", active).Error
}

func (ur *userRepo) UpdateRole(ctx context.Context, tx *gorm.DB, id uuid.UUID, role types.Role) error {
	return ur.conn(tx).WithContext(ctx).
		Model(&types.User{}).
		Where("id = ?", id).
		Update("role", role).Error
}

func (ur *userRepo) SetDeviceID(ctx context.Context, tx *gorm.DB, id uuid.UUID, deviceID string) error {
	return ur.conn(tx).WithContext(ctx).
		Model(&types.User{}).
		Where("id = ?", id).
		Update("device_id", deviceID).Error
}

func (ur *userRepo) UpdatePassword(ctx context.Context, tx *gorm.DB, id uuid.UUID, passwordHash string) error {
	return ur.conn(tx).WithContext(ctx).
		Model(&types.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash).Error
}
