package app

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/ushersync/attendance-backend/internal/config"
	"github.com/ushersync/attendance-backend/internal/platform/logger"
	"github.com/ushersync/attendance-backend/internal/services"
)

type Services struct {
	Checkin  services.CheckinService
	Stats    services.StatsService
	User     services.UserService
	Event    services.EventService
	Activity services.ActivityService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg *config.Config, repos Repos, cache *redis.Client) Services {
	log.Info("Wiring services...")
	return Services{
		Checkin:  services.NewCheckinService(db, log, cfg.Attendance, repos.User, repos.Event, repos.Attendance, repos.Activity),
		Stats:    services.NewStatsService(db, log, cfg.Attendance, repos.User, repos.Event, repos.Attendance, cache),
		User:     services.NewUserService(db, log, cfg.Attendance, repos.User, repos.Activity),
		Event:    services.NewEventService(db, log, cfg.Attendance, repos.Event),
		Activity: services.NewActivityService(db, log, repos.Activity),
	}
}
