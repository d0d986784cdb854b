// Package router mounts every HTTP endpoint on a gin engine.
package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/hilamalka1/onboard-api/api/swagger"
	"github.com/hilamalka1/onboard-api/internal/bootstrap"
	"github.com/hilamalka1/onboard-api/internal/handler"
	"github.com/hilamalka1/onboard-api/internal/middleware"
	"github.com/hilamalka1/onboard-api/pkg/config"
	"github.com/hilamalka1/onboard-api/pkg/logger"
	corsmiddleware "github.com/hilamalka1/onboard-api/pkg/middleware/cors"
	reqidmiddleware "github.com/hilamalka1/onboard-api/pkg/middleware/requestid"
)

// New builds the engine for the container's services.
func New(c *bootstrap.Container) *gin.Engine {
	cfg := c.Config
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(c.Logger))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(c.Metrics, "/health", "/ready", "/metrics"))
	r.Use(middleware.WithResponseMeta())

	metricsHandler := handler.NewMetricsHandler(c.Metrics, c.Checks)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authHandler := handler.NewAuthHandler(c.Auth)
	studentHandler := handler.NewStudentHandler(c.Students, c.Progress, c.Exports)
	courseHandler := handler.NewCourseHandler(c.Courses, c.Exports)
	assignmentHandler := handler.NewAssignmentHandler(c.Assignments)
	examHandler := handler.NewExamHandler(c.Exams)
	eventHandler := handler.NewEventHandler(c.Events)
	dashboardHandler := handler.NewDashboardHandler(c.Progress)

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	// Reads are public; writes need an ADMIN token when auth is enabled.
	admin := api.Group("")
	admin.Use(middleware.AdminOnly(c.Auth, cfg.Auth.Enabled)...)

	api.GET("/students", studentHandler.List)
	api.GET("/students/:id", studentHandler.Get)
	api.GET("/students/:id/progress", studentHandler.Progress)
	api.GET("/students/:id/feed", studentHandler.Feed)
	api.GET("/students/:id/transcript/export", studentHandler.Transcript)
	admin.POST("/students", studentHandler.Create)
	admin.PUT("/students/:id", studentHandler.Update)
	admin.DELETE("/students/:id", studentHandler.Delete)

	api.GET("/courses", courseHandler.List)
	api.GET("/courses/code/:code", courseHandler.GetByCode)
	api.GET("/courses/:id", courseHandler.Get)
	api.GET("/courses/:id/roster/export", courseHandler.ExportRoster)
	admin.POST("/courses", courseHandler.Create)
	admin.PUT("/courses/:id", courseHandler.Update)
	admin.DELETE("/courses/:id", courseHandler.Delete)
	admin.POST("/courses/:id/roster", courseHandler.Enroll)
	admin.PUT("/courses/:id/roster/:studentId", courseHandler.SetGrade)
	admin.DELETE("/courses/:id/roster/:studentId", courseHandler.Unenroll)

	api.GET("/assignments", assignmentHandler.List)
	api.GET("/assignments/:id", assignmentHandler.Get)
	admin.POST("/assignments", assignmentHandler.Create)
	admin.PUT("/assignments/:id", assignmentHandler.Update)
	admin.DELETE("/assignments/:id", assignmentHandler.Delete)

	api.GET("/exams", examHandler.List)
	api.GET("/exams/:id", examHandler.Get)
	admin.POST("/exams", examHandler.Create)
	admin.PUT("/exams/:id", examHandler.Update)
	admin.DELETE("/exams/:id", examHandler.Delete)

	api.GET("/events", eventHandler.List)
	api.GET("/events/:id", eventHandler.Get)
	admin.POST("/events", eventHandler.Create)
	admin.PUT("/events/:id", eventHandler.Update)
	admin.DELETE("/events/:id", eventHandler.Delete)

	api.GET("/dashboard/summary", dashboardHandler.Summary)
	admin.GET("/dashboard/metrics", metricsHandler.System)

	return r
}
