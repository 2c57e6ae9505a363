package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/university-timetable-api/api/swagger"
	"github.com/noah-isme/university-timetable-api/internal/handler"
	"github.com/noah-isme/university-timetable-api/internal/middleware"
	"github.com/noah-isme/university-timetable-api/internal/repository"
	"github.com/noah-isme/university-timetable-api/internal/service"
	"github.com/noah-isme/university-timetable-api/pkg/cache"
	"github.com/noah-isme/university-timetable-api/pkg/config"
	"github.com/noah-isme/university-timetable-api/pkg/database"
	"github.com/noah-isme/university-timetable-api/pkg/export"
	"github.com/noah-isme/university-timetable-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/university-timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/university-timetable-api/pkg/middleware/requestid"
)

// @title University Timetable API
// @version 0.1.0
// @description Slot catalog, teacher slot assignments and automated timetable generation
// @BasePath /
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		} else {
			repo := repository.NewCacheRepository(redisClient, logr)
			defer repo.Close()
			cacheRepo = repo
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Summary.CacheTTL, logr, cacheRepo != nil)

	slotRepo := repository.NewSlotRepository(db)
	assignmentRepo := repository.NewSlotAssignmentRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	teacherCourseRepo := repository.NewTeacherCourseRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	timetableRepo := repository.NewTimetableRepository(db)
	generationRepo := repository.NewGenerationConfigRepository(db)

	ruleEngine := service.NewRuleEngine()
	slotSvc := service.NewSlotService(slotRepo, logr)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, teacherRepo, slotRepo, db, ruleEngine, cacheSvc, nil, logr)
	batchSvc := service.NewBatchAssignmentService(assignmentSvc, cfg.Batch.ChunkSize, nil, logr)
	summarySvc := service.NewSummaryService(departmentRepo, teacherRepo, assignmentRepo, teacherCourseRepo, cacheSvc, logr)
	generationSvc := service.NewGenerationService(
		generationRepo, teacherRepo, teacherCourseRepo, roomRepo, slotRepo, timetableRepo,
		db, metricsSvc, nil, logr,
		service.GenerationOptions{
			DefaultSolverTimeout: cfg.Generation.DefaultSolverTimeout,
			MaxSolverTimeout:     cfg.Generation.MaxSolverTimeout,
		},
	)
	timetableSvc := service.NewTimetableService(
		timetableRepo, roomRepo, slotRepo,
		export.NewCSVExporter(), export.NewPDFExporter(), logr,
	)

	slotHandler := handler.NewSlotHandler(slotSvc)
	assignmentHandler := handler.NewAssignmentHandler(assignmentSvc, batchSvc)
	summaryHandler := handler.NewSummaryHandler(summarySvc)
	generationHandler := handler.NewGenerationHandler(generationSvc)
	timetableHandler := handler.NewTimetableHandler(timetableSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/slots", slotHandler.List)
		api.POST("/slots/initialize", slotHandler.Initialize)

		api.POST("/teachers/:id/slot-operations", assignmentHandler.Apply)
		api.GET("/teachers/:id/workload", summaryHandler.TeacherWorkload)
		api.GET("/slot-assignments", assignmentHandler.List)
		api.POST("/slot-assignments/batch", assignmentHandler.Batch)

		api.GET("/departments/:id/slot-summary", summaryHandler.DepartmentSlotSummary)

		api.POST("/generation-configs", generationHandler.Create)
		api.GET("/generation-configs", generationHandler.List)
		api.GET("/generation-configs/:id", generationHandler.Get)
		api.POST("/generation-configs/:id/generate", generationHandler.Generate)
		api.GET("/generation-configs/:id/log", generationHandler.Log)

		api.GET("/timetable", timetableHandler.List)
		api.GET("/timetable/availability", timetableHandler.Availability)
		api.GET("/timetable/export", timetableHandler.Export)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
