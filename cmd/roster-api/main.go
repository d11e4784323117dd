package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/quizzard-app/roster-api/internal/handler"
	"github.com/quizzard-app/roster-api/internal/identity"
	"github.com/quizzard-app/roster-api/internal/middleware"
	"github.com/quizzard-app/roster-api/internal/models"
	"github.com/quizzard-app/roster-api/internal/repository"
	"github.com/quizzard-app/roster-api/internal/service"
	"github.com/quizzard-app/roster-api/internal/store"
	"github.com/quizzard-app/roster-api/pkg/config"
	"github.com/quizzard-app/roster-api/pkg/logger"
	corsmiddleware "github.com/quizzard-app/roster-api/pkg/middleware/cors"
	reqidmiddleware "github.com/quizzard-app/roster-api/pkg/middleware/requestid"
)

// @title Roster API
// @version 0.1.0
// @description Roster ingestion and account provisioning service
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	docStore, closeStore, err := buildStore(cfg)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect document store", "error", err)
	}
	defer closeStore()

	provider := buildIdentityProvider(cfg, docStore)

	classRepo := repository.NewClassRepository(docStore)
	studentRepo := repository.NewStudentRepository(docStore)
	teacherRepo := repository.NewTeacherRepository(docStore)

	validate := validator.New()
	metrics := service.NewMetricsService()

	ingestSvc := service.NewIngestService(classRepo, studentRepo, validate, logr, metrics)
	provisionSvc := service.NewProvisionService(studentRepo, provider, cfg.Identity.DefaultPassword, logr, metrics)
	classSvc := service.NewClassService(classRepo, studentRepo, logr, metrics)
	teacherSvc := service.NewTeacherService(teacherRepo, provider, validate, logr)

	rosterHandler := handler.NewRosterHandler(ingestSvc, cfg.Ingest)
	classHandler := handler.NewClassHandler(classSvc, provisionSvc)
	teacherHandler := handler.NewTeacherHandler(teacherSvc)
	metricsHandler := handler.NewMetricsHandler(metrics)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metrics))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.MaxMultipartMemory = cfg.Ingest.MaxFileSizeBytes

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	api.POST("/teachers", teacherHandler.Create)

	classes := api.Group("/classes")
	classes.Use(middleware.JWT(cfg.JWT.Secret), middleware.RequireRole(models.RoleTeacher))
	{
		classes.GET("", classHandler.List)
		classes.POST("/import", rosterHandler.Import)
		classes.GET("/:id/students", classHandler.ListStudents)
		classes.POST("/:id/provision", classHandler.Provision)
		classes.DELETE("/:id", classHandler.Remove)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "identity_mode", cfg.Identity.Mode)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// buildStore picks the document store driver. Development runs fully
// in-memory; anything else talks to Redis.
func buildStore(cfg *config.Config) (store.Store, func(), error) {
	if cfg.Env == config.EnvDevelopment {
		return store.NewMemory(), func() {}, nil
	}
	rs, err := store.NewRedis(cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	return rs, func() { _ = rs.Close() }, nil
}

func buildIdentityProvider(cfg *config.Config, docStore store.Store) identity.Provider {
	if cfg.Identity.Mode == "local" {
		return identity.NewLocal(docStore, cfg.JWT.Secret)
	}
	return identity.NewREST(cfg.Identity)
}
