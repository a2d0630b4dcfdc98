package event

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/ushersync/attendance-backend/internal/domain"
	"github.com/ushersync/attendance-backend/internal/platform/logger"
)

type EventRepo interface {
	Create(ctx context.Context, tx *gorm.DB, e *types.Event) (*types.Event, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Event, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Event, error)
	// ListUpcoming returns events strictly after the given local date+time.
	ListUpcoming(ctx context.Context, tx *gorm.DB, date, timeOfDay string) ([]*types.Event, error)
	ListPast(ctx context.Context, tx *gorm.DB, date, timeOfDay string) ([]*types.Event, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) (*types.Event, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error)
}

type eventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEventRepo(db *gorm.DB, baseLog *logger.Logger) EventRepo {
	return &eventRepo{db: db, log: baseLog.With("repo", "EventRepo")}
}

func (er *eventRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return er.db
}

func (er *eventRepo) Create(ctx context.Context, tx *gorm.DB, e *types.Event) (*types.Event, error) {
	if err := er.conn(tx).WithContext(ctx).Create(e).Error; err != nil {
		return nil, err
	}
	return e, nil
}

func (er *eventRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Event, error) {
	var e types.Event
	err := er.conn(tx).WithContext(ctx).Where("id = ?", id).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (er *eventRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Event, error) {
	var results []*types.Event
	if err := er.conn(tx).WithContext(ctx).
		Order("date DESC").
		Order("time DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (er *eventRepo) ListUpcoming(ctx context.Context, tx *gorm.DB, date, timeOfDay string) ([]*types.Event, error) {
	var results []*types.Event
	if err := er.conn(tx).WithContext(ctx).
		Where("date > ? OR (date = ? AND time > ?)", date, date, timeOfDay).
		Order("date ASC").
		Order("time ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (er *eventRepo) ListPast(ctx context.Context, tx *gorm.DB, date, timeOfDay string) ([]*types.Event, error) {
	var results []*types.Event
	if err := er.conn(tx).WithContext(ctx).
		Where("date < ? OR (date = ? AND time < ?)", date, date, timeOfDay).
		Order("date DESC").
		Order("time DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (er *eventRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) (*types.Event, error) {
	conn := er.conn(tx).WithContext(ctx)
	res := conn.Model(&types.Event{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return er.GetByID(ctx, tx, id)
}

func (er *eventRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error) {
	res := er.conn(tx).WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Event{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
