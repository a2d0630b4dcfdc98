package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/ushersync/attendance-backend/internal/domain"
	"github.com/ushersync/attendance-backend/internal/platform/logger"
)

type AttendanceRepo interface {
	// Insert persists a record unless the uniqueness key already has one.
	// Returns false with no error when a conflicting row exists; the
	// storage-level unique indexes make this race-safe across instances.
	Insert(ctx context.Context, tx *gorm.DB, rec *types.AttendanceRecord) (bool, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.AttendanceRecord, error)
	GetForUserOnDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date string) (*types.AttendanceRecord, error)
	GetForUserEvent(ctx context.Context, tx *gorm.DB, userID, eventID uuid.UUID) (*types.AttendanceRecord, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.AttendanceRecord, error)
	ListByEvent(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) ([]*types.AttendanceRecord, error)
	DistinctUserIDsOnDate(ctx context.Context, tx *gorm.DB, date string) ([]uuid.UUID, error)
	DistinctUserIDsSince(ctx context.Context, tx *gorm.DB, date string) ([]uuid.UUID, error)
	CountDistinctDates(ctx context.Context, tx *gorm.DB) (int64, error)
	DateExists(ctx context.Context, tx *gorm.DB, date string) (bool, error)
	SetTimeOut(ctx context.Context, tx *gorm.DB, id uuid.UUID, at time.Time) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type attendanceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAttendanceRepo(db *gorm.DB, baseLog *logger.Logger) AttendanceRepo {
	return &attendanceRepo{db: db, log: baseLog.With("repo", "AttendanceRepo")}
}

func (ar *attendanceRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return ar.db
}

func (ar *attendanceRepo) Insert(ctx context.Context, tx *gorm.DB, rec *types.AttendanceRecord) (bool, error) {
	res := ar.conn(tx).WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(rec)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (ar *attendanceRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.AttendanceRecord, error) {
	var rec types.AttendanceRecord
	err := ar.conn(tx).WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (ar *attendanceRepo) GetForUserOnDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date string) (*types.AttendanceRecord, error) {
	var rec types.AttendanceRecord
	err := ar.conn(tx).WithContext(ctx).
		Where("user_id = ? AND date = ? AND event_id IS NULL", userID, date).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (ar *attendanceRepo) GetForUserEvent(ctx context.Context, tx *gorm.DB, userID, eventID uuid.UUID) (*types.AttendanceRecord, error) {
	var rec types.AttendanceRecord
	err := ar.conn(tx).WithContext(ctx).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (ar *attendanceRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.AttendanceRecord, error) {
	var results []*types.AttendanceRecord
	if err := ar.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Order("time_in DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *attendanceRepo) ListByEvent(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) ([]*types.AttendanceRecord, error) {
	var results []*types.AttendanceRecord
	if err := ar.conn(tx).WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("time_in ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *attendanceRepo) DistinctUserIDsOnDate(ctx context.Context, tx *gorm.DB, date string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := ar.conn(tx).WithContext(ctx).
		Model(&types.AttendanceRecord{}).
		Distinct("user_id").
		Where("date = ?", date).
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (ar *attendanceRepo) DistinctUserIDsSince(ctx context.Context, tx *gorm.DB, date string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := ar.conn(tx).WithContext(ctx).
		Model(&types.AttendanceRecord{}).
		Distinct("user_id").
		Where("date >= ?", date).
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (ar *attendanceRepo) CountDistinctDates(ctx context.Context, tx *gorm.DB) (int64, error) {
	var count int64
	if err := ar.conn(tx).WithContext(ctx).
		Model(&types.AttendanceRecord{}).
		Distinct("date").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (ar *attendanceRepo) DateExists(ctx context.Context, tx *gorm.DB, date string) (bool, error) {
	var count int64
	if err := ar.conn(tx).WithContext(ctx).
		Model(&types.AttendanceRecord{}).
		Where("date = ?", date).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (ar *attendanceRepo) SetTimeOut(ctx context.Context, tx *gorm.DB, id uuid.UUID, at time.Time) error {
	return ar.conn(tx).WithContext(ctx).
		Model(&types.AttendanceRecord{}).
		Where("id = ?", id).
		Update("time_out", at).Error
}

func (ar *attendanceRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return ar.conn(tx).WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.AttendanceRecord{}).Error
}
