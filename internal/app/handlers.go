package app

import (
	"github.com/ushersync/attendance-backend/internal/http/handlers"
	"github.com/ushersync/attendance-backend/internal/platform/logger"
)

type Handlers struct {
	Health    *handlers.HealthHandler
	Checkin   *handlers.CheckinHandler
	Analytics *handlers.AnalyticsHandler
	User      *handlers.UserHandler
	Event     *handlers.EventHandler
	Activity  *handlers.ActivityHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:    handlers.NewHealthHandler(),
		Checkin:   handlers.NewCheckinHandler(log, services.Checkin),
		Analytics: handlers.NewAnalyticsHandler(log, services.Stats),
		User:      handlers.NewUserHandler(log, services.User),
		Event:     handlers.NewEventHandler(log, services.Event),
		Activity:  handlers.NewActivityHandler(log, services.Activity),
	}
}
