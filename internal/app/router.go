package app

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/ushersync/attendance-backend/internal/http/middleware"
	"github.com/ushersync/attendance-backend/internal/observability"
	"github.com/ushersync/attendance-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, env string, handlers Handlers, metrics *observability.Metrics) *gin.Engine {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())
	r.Use(otelgin.Middleware("attendance-backend"))
	r.Use(middleware.AttachTraceContext())
	r.Use(middleware.AttachRequestContext())
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.RequestLogger(log))

	r.GET("/healthcheck", handlers.Health.HealthCheck)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/checkin", handlers.Checkin.CheckIn)
		v1.POST("/attendance/:id/signout", handlers.Checkin.SignOut)
		v1.DELETE("/attendance/:id", handlers.Checkin.Revoke)

		analytics := v1.Group("/analytics")
		{
			analytics.GET("/day-stats", handlers.Analytics.DayStats)
			analytics.GET("/user-attendance/:id", handlers.Analytics.UserAttendance)
			analytics.GET("/attendance-rates", handlers.Analytics.AttendanceRates)
			analytics.GET("/event-report/:id", handlers.Analytics.EventReport)
			analytics.GET("/upcoming-birthdays", handlers.Analytics.UpcomingBirthdays)
		}

		users := v1.Group("/users")
		{
			users.POST("", handlers.User.Register)
			users.GET("", handlers.User.List)
			users.GET("/:id", handlers.User.Get)
			users.PATCH("/:id/role", handlers.User.UpdateRole)
			users.PATCH("/:id/active", handlers.User.SetActive)
			users.PATCH("/:id/password", handlers.User.ChangePassword)
		}

		events := v1.Group("/events")
		{
			events.POST("", handlers.Event.Create)
			events.GET("", handlers.Event.List)
			events.GET("/:id", handlers.Event.Get)
			events.PATCH("/:id", handlers.Event.Update)
			events.DELETE("/:id", handlers.Event.Delete)
		}

		v1.GET("/logs", handlers.Activity.List)
	}

	return r
}
