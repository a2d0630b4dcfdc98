package app

import (
	"gorm.io/gorm"

	activityrepo "github.com/ushersync/attendance-backend/internal/data/repos/activity"
	attendancerepo "github.com/ushersync/attendance-backend/internal/data/repos/attendance"
	eventrepo "github.com/ushersync/attendance-backend/internal/data/repos/event"
	userrepo "github.com/ushersync/attendance-backend/internal/data/repos/user"
	"github.com/ushersync/attendance-backend/internal/platform/logger"
)

type Repos struct {
	User       userrepo.UserRepo
	Event      eventrepo.EventRepo
	Attendance attendancerepo.AttendanceRepo
	Activity   activityrepo.ActivityRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:       userrepo.NewUserRepo(db, log),
		Event:      eventrepo.NewEventRepo(db, log),
		Attendance: attendancerepo.NewAttendanceRepo(db, log),
		Activity:   activityrepo.NewActivityRepo(db, log),
	}
}
