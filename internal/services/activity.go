package services

import (
	"context"

	"gorm.io/gorm"

	activityrepo "github.com/ushersync/attendance-backend/internal/data/repos/activity"
	types "github.com/ushersync/attendance-backend/internal/domain"
	"github.com/ushersync/attendance-backend/internal/platform/logger"
)

type ActivityService interface {
	List(ctx context.Context, limit int) ([]*types.ActivityLog, error)
}

type activityService struct {
	db       *gorm.DB
	log      *logger.Logger
	activity activityrepo.ActivityRepo
}

func NewActivityService(db *gorm.DB, log *logger.Logger, activity activityrepo.ActivityRepo) ActivityService {
	return &activityService{db: db, log: log.With("service", "ActivityService"), activity: activity}
}

func (as *activityService) List(ctx context.Context, limit int) ([]*types.ActivityLog, error) {
	return as.activity.List(ctx, nil, limit)
}
