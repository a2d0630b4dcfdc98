package activity

import (
	"context"

	"gorm.io/gorm"

	types "github.com/ushersync/attendance-backend/internal/domain"
	"github.com/ushersync/attendance-backend/internal/platform/logger"
)

type ActivityRepo interface {
	Append(ctx context.Context, tx *gorm.DB, entry *types.ActivityLog) error
	List(ctx context.Context, tx *gorm.DB, limit int) ([]*types.ActivityLog, error)
}

type activityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActivityRepo(db *gorm.DB, baseLog *logger.Logger) ActivityRepo {
	return &activityRepo{db: db, log: baseLog.With("repo", "ActivityRepo")}
}

func (lr *activityRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return lr.db
}

func (lr *activityRepo) Append(ctx context.Context, tx *gorm.DB, entry *types.ActivityLog) error {
	return lr.conn(tx).WithContext(ctx).Create(entry).Error
}

func (lr *activityRepo) List(ctx context.Context, tx *gorm.DB, limit int) ([]*types.ActivityLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var results []*types.ActivityLog
	if err := lr.conn(tx).WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
