package router

import (
	"context"

	"lecture-manager/internal/api/handlers"
	"lecture-manager/internal/api/middleware"
	"lecture-manager/internal/config"
	interfaces "lecture-manager/internal/interfaces/infrastructure"
	serviceInterfaces "lecture-manager/internal/interfaces/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies are the services the HTTP layer is built on
type Dependencies struct {
	Registrations serviceInterfaces.RegistrationService
	Stats         serviceInterfaces.StatsService
	Students      serviceInterfaces.StudentService
	Catalog       serviceInterfaces.CatalogService
	Ping          func(ctx context.Context) error
	Cache         interfaces.StatsCache
	Auth          config.AuthConfig
}

func NewRouter(deps Dependencies) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS())
	r.Use(gin.Recovery())

	registrationHandler := handlers.NewRegistrationHandler(deps.Registrations)
	statsHandler := handlers.NewStatsHandler(deps.Stats)
	studentHandler := handlers.NewStudentHandler(deps.Students)
	catalogHandler := handlers.NewCatalogHandler(deps.Catalog)
	healthHandler := handlers.NewHealthHandler(deps.Ping, deps.Cache)

	r.GET("/health", healthHandler.HealthCheck)
	r.GET("/ready", healthHandler.ReadinessCheck)
	r.GET("/live", healthHandler.LivenessCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	v1.Use(middleware.Auth(deps.Auth.JWTSecret, deps.Auth.Issuer))
	{
		registrations := v1.Group("/student-sessions")
		{
			registrations.POST("/register", registrationHandler.Register)
			registrations.DELETE("/unregister", registrationHandler.Unregister)
			registrations.GET("/student/:studentId", registrationHandler.StudentSessions)
			registrations.GET("/session/:sessionId", registrationHandler.SessionStudents)
		}

		queries := v1.Group("/queries")
		{
			queries.GET("/session-stats", statsHandler.SessionStats)
			queries.GET("/full-sessions", statsHandler.FullSessions)
			queries.GET("/student-stats", statsHandler.StudentStats)
		}

		students := v1.Group("/students")
		{
			students.POST("", studentHandler.CreateStudent)
			students.GET("", studentHandler.ListStudents)
			students.GET("/:id", studentHandler.GetStudent)
			students.PUT("/:id", studentHandler.UpdateStudent)
			students.DELETE("/:id", studentHandler.DeleteStudent)
		}

		courses := v1.Group("/courses")
		{
			courses.POST("", catalogHandler.CreateLecture)
			courses.GET("", catalogHandler.ListLectures)
			courses.GET("/:id", catalogHandler.GetLecture)
			courses.PUT("/:id", catalogHandler.UpdateLecture)
			courses.DELETE("/:id", catalogHandler.DeleteLecture)
		}

		sessions := v1.Group("/lecture-sessions")
		{
			sessions.POST("", catalogHandler.CreateSession)
			sessions.GET("", catalogHandler.ListSessions)
			sessions.GET("/:id", catalogHandler.GetSession)
			sessions.PUT("/:id", catalogHandler.UpdateSession)
			sessions.DELETE("/:id", catalogHandler.DeleteSession)
		}
	}
	return r
}
