package handlers

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/birrama/careers/internal/catalog"
	"github.com/birrama/careers/internal/middleware"
	"github.com/birrama/careers/internal/ratelimit"
	"github.com/birrama/careers/internal/services"
	"github.com/birrama/careers/internal/session"
)

type RouterConfig struct {
	DB              *gorm.DB
	Catalog         *catalog.Catalog
	Sessions        *session.Manager
	Files           session.FileStore
	Submissions     *services.SubmissionService
	Recommendations *services.RecommendationService
	Notifier        *services.NotificationService
	SubmitLimiter   ratelimit.Limiter

	SessionTTL     time.Duration
	SecureCookies  bool
	MaxUploadBytes int64
	CORSOrigins    []string
	StaticDir      string
	// FilesDir is served under /files when attachments are stored on local disk.
	FilesDir string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSOrigins
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	health := &HealthHandler{DB: cfg.DB}
	jobHandler := NewJobHandler(cfg.Catalog)
	wizardHandler := NewWizardHandler(cfg.Sessions, cfg.Files, cfg.Catalog, cfg.Submissions, cfg.Recommendations, cfg.MaxUploadBytes)
	confirmationHandler := NewConfirmationHandler(cfg.Notifier)

	api := r.Group("/api/v1")
	{
		api.GET("/health", health.HealthCheck)

		// Job catalog
		api.GET("/jobs", jobHandler.ListJobs)
		api.GET("/jobs/:kind/:index", jobHandler.GetJob)

		// Wizard, one per browser session
		wz := api.Group("/wizard", middleware.Session(cfg.SessionTTL, cfg.SecureCookies))
		wz.GET("", wizardHandler.GetWizard)
		wz.POST("/step", wizardHandler.SetStep)
		wz.POST("/back", wizardHandler.Back)
		wz.POST("/select", wizardHandler.SelectJob)
		wz.POST("/input", wizardHandler.Input)
		wz.PUT("/attachments/:field", wizardHandler.PutAttachment)
		wz.DELETE("/attachments/:field", wizardHandler.DeleteAttachment)
		wz.POST("/reset", wizardHandler.Reset)
		wz.POST("/submit", middleware.RateLimit(cfg.SubmitLimiter), wizardHandler.Submit)
		wz.POST("/recommend", middleware.RateLimit(cfg.SubmitLimiter), wizardHandler.Recommend)
	}

	r.POST("/api/send-confirmation", middleware.RateLimit(cfg.SubmitLimiter), confirmationHandler.SendConfirmation)

	if cfg.FilesDir != "" {
		r.Static("/files", cfg.FilesDir)
	}
	if cfg.StaticDir != "" {
		r.StaticFile("/", cfg.StaticDir+"/index.html")
		r.Static("/static", cfg.StaticDir)
	}
	return r
}
