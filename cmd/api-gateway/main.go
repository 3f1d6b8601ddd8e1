package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/therepeaters/course-platform-api/api/swagger"
	"github.com/therepeaters/course-platform-api/internal/drive"
	"github.com/therepeaters/course-platform-api/internal/handler"
	"github.com/therepeaters/course-platform-api/internal/middleware"
	"github.com/therepeaters/course-platform-api/internal/models"
	"github.com/therepeaters/course-platform-api/internal/repository"
	"github.com/therepeaters/course-platform-api/internal/service"
	"github.com/therepeaters/course-platform-api/pkg/cache"
	"github.com/therepeaters/course-platform-api/pkg/config"
	"github.com/therepeaters/course-platform-api/pkg/database"
	"github.com/therepeaters/course-platform-api/pkg/logger"
	corsmiddleware "github.com/therepeaters/course-platform-api/pkg/middleware/cors"
	reqidmiddleware "github.com/therepeaters/course-platform-api/pkg/middleware/requestid"
)

// @title The Repeaters Course Platform API
// @version 1.0.0
// @description Backend for course catalog, enrollment, payments and study material distribution
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Admin.StatsCacheTTL, logr)

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	materialRepo := repository.NewMaterialRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     "course-platform-api",
	})
	courseSvc := service.NewCourseService(courseRepo, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, courseRepo, cacheSvc, validate, logr)
	paymentSvc := service.NewPaymentService(paymentRepo, enrollmentRepo, courseRepo, cacheSvc, validate, logr, service.PaymentConfig{
		CheckoutKeyID: cfg.Payments.CheckoutKeyID,
		MerchantName:  cfg.Payments.MerchantName,
	})
	statsSvc := service.NewStatsService(statsRepo, cacheSvc, logr)

	connector, err := drive.NewConnector(cfg.Drive.CredentialsFile, cfg.Drive.RedirectURL)
	if err != nil {
		logr.Sugar().Warnw("drive connector unavailable, uploads disabled", "error", err)
	}
	signer := drive.NewStateSigner(cfg.Drive.StateSecret, cfg.Drive.StateTTL)

	// A nil connector keeps the routes registered; the services answer
	// with 412 until Drive is configured.
	var authorizer service.DriveAuthorizer
	var storage service.MaterialStorage
	if connector != nil {
		authorizer = connector
		storage = connector
	}
	driveSvc := service.NewDriveService(authorizer, signer, userRepo, logr)
	materialSvc := service.NewMaterialService(materialRepo, enrollmentRepo, courseRepo, userRepo, storage, logr)

	seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := courseSvc.SeedDefaults(seedCtx); err != nil {
		logr.Sugar().Warnw("course seeding failed", "error", err)
	}
	cancel()

	authHandler := handler.NewAuthHandler(authSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc)
	materialHandler := handler.NewMaterialHandler(materialSvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc, authSvc)
	adminHandler := handler.NewAdminHandler(statsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "course-platform-api",
			"status":  "running",
		})
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/google", authHandler.GoogleAuth)
	api.GET("/auth/me", middleware.JWT(authSvc), authHandler.Me)

	api.GET("/courses", courseHandler.List)
	api.GET("/courses/:id", courseHandler.Get)

	authed := api.Group("", middleware.JWT(authSvc))
	authed.POST("/enroll", enrollmentHandler.Enroll)
	authed.GET("/my-courses", enrollmentHandler.MyCourses)
	authed.GET("/courses/:id/materials", materialHandler.List)
	authed.POST("/payment/create", paymentHandler.Create)
	authed.POST("/payment/verify", paymentHandler.Verify)

	admin := api.Group("/admin", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin))
	admin.GET("/users", adminHandler.Users)
	admin.GET("/stats", adminHandler.Stats)
	admin.POST("/courses", courseHandler.Create)
	admin.POST("/courses/:id/materials", materialHandler.Upload)
	driveHandler := handler.NewDriveHandler(driveSvc)
	admin.GET("/drive/connect", driveHandler.Connect)
	// The provider redirects here without a bearer token; the signed
	// state token authenticates the request instead.
	api.GET("/admin/drive/callback", driveHandler.Callback)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
