package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/burakkho/thrustr-backend/internal/audit"
	"github.com/burakkho/thrustr-backend/internal/azure"
	"github.com/burakkho/thrustr-backend/internal/config"
	"github.com/burakkho/thrustr-backend/internal/handler"
	"github.com/burakkho/thrustr-backend/internal/middleware"
	"github.com/burakkho/thrustr-backend/internal/pdf"
	"github.com/burakkho/thrustr-backend/internal/repository"
	"github.com/burakkho/thrustr-backend/internal/security"
	"github.com/burakkho/thrustr-backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var (
	logger *zap.Logger
	pool   *pgxpool.Pool
	cfg    *config.Config
)

func main() {
	// Load configuration
	var err error
	cfg, err = config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize Zap logger
	if cfg.Server.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("Configuration loaded successfully",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
	)

	// Initialize database connection pool with pgx
	pool, err = pgxpool.New(context.Background(), cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	// Test database connection
	if err := pool.Ping(context.Background()); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}
	logger.Info("Successfully connected to database")

	// Initialize blob storage for report archives
	blobClient, err := azure.NewBlobStorageClient(
		cfg.Azure.Storage.AccountName,
		cfg.Azure.Storage.AccountKey,
		cfg.Azure.Storage.ReportContainer,
		logger,
	)
	if err != nil {
		logger.Fatal("Failed to initialize Azure Blob Storage client", zap.Error(err))
	}

	// Initialize the narrative generator when Azure OpenAI is configured.
	// Reports ship without narratives otherwise.
	var narrativeService service.NarrativeGenerator
	if cfg.Azure.OpenAI.Enabled() {
		openAIClient, err := azure.NewOpenAIClient(
			cfg.Azure.OpenAI.Endpoint,
			cfg.Azure.OpenAI.APIKey,
			cfg.Azure.OpenAI.Deployment,
			logger,
		)
		if err != nil {
			logger.Fatal("Failed to initialize Azure OpenAI client", zap.Error(err))
		}
		narrativeService = service.NewNarrativeService(openAIClient, logger)
		logger.Info("Report narratives enabled",
			zap.String("deployment", cfg.Azure.OpenAI.Deployment),
		)
	} else {
		logger.Info("Azure OpenAI not configured, report narratives disabled")
	}

	// Initialize repositories
	healthSampleRepo := repository.NewHealthSampleRepository(pool, logger)
	workoutRepo := repository.NewWorkoutRepository(pool, logger)
	reportRepo := repository.NewReportRepository(pool, logger)

	// Initialize services
	healthSampleService := service.NewHealthSampleService(healthSampleRepo, logger)
	workoutService := service.NewWorkoutService(workoutRepo, logger)

	// Initialize PDF generator
	pdfGenerator := pdf.NewPDFGenerator(logger)

	reportService := service.NewReportService(
		healthSampleRepo,
		workoutService,
		reportRepo,
		narrativeService,
		blobClient,
		pdfGenerator,
		logger,
	)

	// Initialize the privacy service. Exports are encrypted when a key is
	// configured.
	var encryptor *security.Encryptor
	if cfg.Privacy.ExportKey != "" {
		key, err := security.KeyFromHex(cfg.Privacy.ExportKey)
		if err != nil {
			logger.Fatal("Failed to parse privacy export key", zap.Error(err))
		}
		encryptor, err = security.NewEncryptor(key)
		if err != nil {
			logger.Fatal("Failed to initialize export encryptor", zap.Error(err))
		}
		logger.Info("Privacy export encryption enabled")
	}

	auditLogger := audit.NewLogger(pool, logger)
	privacyService := service.NewPrivacyService(
		pool,
		auditLogger,
		encryptor,
		logger,
	)

	// Initialize handlers
	sampleHandler := handler.NewSampleHandler(healthSampleService, logger)
	workoutHandler := handler.NewWorkoutHandler(workoutService, logger)
	reportHandler := handler.NewReportHandler(reportService, logger)
	privacyHandler := handler.NewPrivacyHandler(privacyService, logger)

	// Create a unified handler that owns route registration
	apiHandler := &APIHandler{
		sample:  sampleHandler,
		workout: workoutHandler,
		report:  reportHandler,
		privacy: privacyHandler,
		pool:    pool,
		logger:  logger,
	}

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Gin router
	r := gin.New()

	// Add recovery middleware (must be first)
	r.Use(middleware.RecoveryMiddleware(logger))

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Configure appropriately for production
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", "X-Trace-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Add request ID middleware
	r.Use(middleware.RequestIDMiddleware())

	// Add tracing middleware
	r.Use(middleware.TracingMiddleware())

	// Add request logging middleware
	r.Use(middleware.RequestLoggingMiddleware(logger))

	// Add error logging middleware
	r.Use(middleware.ErrorLoggingMiddleware(logger))

	// Add slow query logging middleware
	r.Use(middleware.SlowQueryLoggingMiddleware(logger, 1*time.Second))

	// Register API routes
	apiHandler.RegisterRoutes(r)

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// Close database connections
	pool.Close()

	logger.Info("Server exited")
}

// APIHandler aggregates the endpoint handlers and owns route registration
type APIHandler struct {
	sample  *handler.SampleHandler
	workout *handler.WorkoutHandler
	report  *handler.ReportHandler
	privacy *handler.PrivacyHandler
	pool    *pgxpool.Pool
	logger  *zap.Logger
}

// RegisterRoutes attaches every API endpoint to the router
func (h *APIHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.GetHealth)

	v1 := r.Group("/api/v1")
	{
		// Health sample ingestion
		v1.POST("/health/samples", h.sample.SyncSample)
		v1.GET("/health/samples", h.sample.GetRecentSamples)

		// Workouts and trends
		v1.POST("/workouts", h.workout.LogWorkout)
		v1.GET("/workouts", h.workout.GetRecentWorkouts)
		v1.GET("/workouts/trends", h.workout.GetTrends)

		// Reports
		v1.POST("/reports/generate", h.report.GenerateReport)
		v1.GET("/reports", h.report.ListReports)
		v1.GET("/reports/:id", h.report.GetReport)
		v1.GET("/reports/:id/pdf", h.report.DownloadReportPDF)

		// Privacy (GDPR)
		v1.GET("/privacy/export", h.privacy.ExportUserData)
		v1.DELETE("/privacy/data", h.privacy.DeleteUserData)
	}
}

// GetHealth implements the health check endpoint
func (h *APIHandler) GetHealth(c *gin.Context) {
	ctx := c.Request.Context()

	// Check database connectivity
	if err := h.pool.Ping(ctx); err != nil {
		h.logger.Error("health check failed: database unreachable", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
			"error":    err.Error(),
		})
		return
	}

	// Return healthy status
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
		"service":  "thrustr-backend",
		"version":  "1.0.0",
	})
}
