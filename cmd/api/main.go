package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/birrama/careers/internal/auth"
	"github.com/birrama/careers/internal/catalog"
	"github.com/birrama/careers/internal/config"
	"github.com/birrama/careers/internal/database"
	"github.com/birrama/careers/internal/handlers"
	"github.com/birrama/careers/internal/logging"
	"github.com/birrama/careers/internal/ratelimit"
	"github.com/birrama/careers/internal/services"
	"github.com/birrama/careers/internal/session"
	"github.com/birrama/careers/internal/storage"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, using environment variables")
	}
	cfg := config.Load()

	if cfg.GelfAddr != "" {
		gelfWriter, err := logging.NewGELFWriter(cfg.GelfAddr, "careers-api")
		if err != nil {
			log.Printf("⚠️ GELF init failed: %v", err)
		} else {
			defer gelfWriter.Close()
			log.SetOutput(io.MultiWriter(os.Stderr, gelfWriter))
			log.Printf("GELF logging: enabled (%s)", cfg.GelfAddr)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Database Connection
	db, err := database.Connect(database.Options{Driver: cfg.DatabaseDriver, DSN: cfg.DatabaseURL, AutoMigrate: cfg.AutoMigrate})
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}

	jobs, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		log.Fatalf("❌ Failed to load job catalog: %v", err)
	}

	// 3. Storage, mail and shared state
	uploader, filesDir, err := newUploader(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialise storage: %v", err)
	}
	notifier := services.NewNotificationService(newMailer(ctx, cfg), cfg.MailFrom, jobs)

	redisClient := newRedisClient(cfg.RedisURL)
	if redisClient != nil {
		defer redisClient.Close()
	}

	g, ctx := errgroup.WithContext(ctx)

	var store session.Store
	var files session.FileStore
	var limiter ratelimit.Limiter
	if redisClient != nil {
		redisStore := session.NewRedisStore(redisClient, cfg.SessionTTL, "wizard")
		store, files = redisStore, redisStore
		limiter = ratelimit.NewRedisLimiter(redisClient, cfg.SubmitRatePerMin, time.Minute, "submit")
		log.Println("✅ Sessions and rate limits stored in Redis")
	} else {
		memStore := session.NewMemoryStore(cfg.SessionTTL)
		memStore.StartJanitor(ctx, time.Minute)
		store, files = memStore, memStore

		memLimiter := ratelimit.NewMemoryLimiter(cfg.SubmitRatePerMin, time.Minute)
		g.Go(func() error {
			ticker := time.NewTicker(5 * time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					memLimiter.Forget(10 * time.Minute)
				}
			}
		})
		limiter = memLimiter
	}

	// 4. Services and router
	records := database.NewRecordStore(db)
	router := handlers.NewRouter(handlers.RouterConfig{
		DB:              db,
		Catalog:         jobs,
		Sessions:        session.NewManager(store),
		Files:           files,
		Submissions:     services.NewSubmissionService(uploader, files, records, notifier, jobs),
		Recommendations: services.NewRecommendationService(records, jobs),
		Notifier:        notifier,
		SubmitLimiter:   limiter,
		SessionTTL:      cfg.SessionTTL,
		SecureCookies:   cfg.SecureCookies,
		MaxUploadBytes:  cfg.MaxUploadBytes,
		CORSOrigins:     cfg.CORSOrigins,
		StaticDir:       cfg.StaticDir,
		FilesDir:        filesDir,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g.Go(func() error {
		log.Printf("🚀 Server starting on port %s...", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Println("🛑 Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal("Server failed:", err)
	}
}

func newUploader(ctx context.Context, cfg *config.Config) (storage.Uploader, string, error) {
	switch cfg.StorageDriver {
	case "local":
		base := cfg.StoragePublicBaseURL
		if base == "" {
			base = "http://localhost:" + cfg.Port + "/files"
		}
		log.Printf("📁 Storing attachments on disk in %s", cfg.LocalStorageDir)
		return storage.NewLocalUploader(cfg.LocalStorageDir, base), cfg.LocalStorageDir, nil
	default:
		var opts []option.ClientOption
		if cfg.GCSCredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.GCSCredentialsFile))
		}
		up, err := storage.NewGCSUploader(ctx, cfg.StorageBucket, cfg.StoragePublicBaseURL, opts...)
		if err != nil {
			return nil, "", err
		}
		log.Printf("☁️ Storing attachments in bucket %s", cfg.StorageBucket)
		return up, "", nil
	}
}

// newMailer returns nil when no provider is configured; confirmations then succeed silently.
func newMailer(ctx context.Context, cfg *config.Config) services.Mailer {
	if !cfg.MailConfigured() {
		log.Println("⚠️ Email confirmation not configured")
		return nil
	}
	if cfg.MailProvider == "gmail" {
		client, err := auth.GmailClient(ctx, cfg.GmailCredentialsFile, cfg.GmailTokenFile)
		if err != nil {
			log.Printf("⚠️ Gmail disabled: %v", err)
			return nil
		}
		svc, err := gmail.NewService(ctx, option.WithHTTPClient(client))
		if err != nil {
			log.Printf("⚠️ Failed to create Gmail Service: %v", err)
			return nil
		}
		log.Println("✅ Gmail Service connected successfully.")
		return services.NewGmailMailer(svc)
	}
	log.Println("✅ Resend mailer configured")
	return services.NewResendMailer(cfg.ResendAPIKey)
}

func newRedisClient(url string) *redis.Client {
	if url == "" {
		return nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("⚠️ Redis URL parse failed: %v", err)
		return nil
	}
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️ Redis ping failed, falling back to memory: %v", err)
		_ = client.Close()
		return nil
	}
	return client
}
