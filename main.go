// main.go
// FleetCheck API - monthly vehicle inspection checklists with cloud sync,
// AI summaries and printable exports

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleetcheck/analysis"
	"fleetcheck/auth"
	"fleetcheck/config"
	"fleetcheck/db"
	"fleetcheck/handlers"
	"fleetcheck/middleware"
	"fleetcheck/models"
	"fleetcheck/remote"
	"fleetcheck/store"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/text"
	"github.com/joho/godotenv"
)

const version = "1.0.0"

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	setupLogging(cfg.Logging)
	if envErr != nil {
		log.Info("⚠️  No .env file found, using system environment variables")
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("❌ Invalid configuration")
	}

	log.WithFields(log.Fields{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"storage":     cfg.Storage.Driver,
	}).Info("🚀 Starting FleetCheck API Server")

	ctx := context.Background()
	kv, err := db.Open(ctx, db.Options{
		Driver:          cfg.Storage.Driver,
		FilePath:        cfg.Storage.FilePath,
		ProjectID:       cfg.Firebase.ProjectID,
		CredentialsPath: cfg.Firebase.CredentialsPath,
	})
	if err != nil {
		log.WithError(err).Fatal("❌ Failed to open storage")
	}
	defer kv.Close()

	jwtManager := auth.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.Expiration,
		cfg.JWT.RefreshTokenExpiration,
	)
	log.WithField("expiration", cfg.JWT.Expiration).Info("🔐 JWT Manager initialized")

	// Stores
	users := store.NewUserStore(kv)
	people := store.NewPeopleStore(kv)
	drafts := store.NewDraftStore(kv)
	reports := store.NewReportStore(kv, store.Options{
		Remote:   remote.NewClient(cfg.Sync.BaseURL, cfg.Sync.Timeout),
		Analyzer: newAnalyzer(cfg.Gemini),
		People:   people,
		Drafts:   drafts,
	})
	if err := people.Load(ctx); err != nil {
		log.WithError(err).Fatal("❌ Failed to load people directories")
	}
	if err := reports.Load(ctx); err != nil {
		log.WithError(err).Fatal("❌ Failed to load reports")
	}
	syncID, err := reports.ResolveSyncID(ctx, cfg.Sync.DefaultID)
	if err != nil {
		log.WithError(err).Fatal("❌ Invalid sync id")
	}
	log.WithField("sync_id", syncID).Info("☁️  Sync id resolved")

	// Handlers
	authHandler := handlers.NewAuthHandler(users, jwtManager, cfg.Server.EnableRegistration)
	adminHandler := handlers.NewAdminHandler(users)
	reportHandler := handlers.NewReportHandler(reports)
	exportHandler := handlers.NewExportHandler(reports)
	syncHandler := handlers.NewSyncHandler(reports, cfg.Server.PublicURL)
	draftHandler := handlers.NewDraftHandler(drafts)
	catalogHandler := handlers.NewCatalogHandler(people)
	namespaceHandler := handlers.NewNamespaceHandler(kv, "/kv")
	log.Info("✅ Handlers initialized")

	stopCleanup := make(chan struct{})
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	rateLimiter.CleanupOldLimiters(stopCleanup)
	log.WithFields(log.Fields{"requests": cfg.RateLimit.Requests, "window": cfg.RateLimit.Window}).Info("🛡️  Rate limiter initialized")

	mux := http.NewServeMux()

	// Public routes (no authentication required)
	mux.HandleFunc("/health", handleHealth)
	mux.HandleFunc("/api/login", authHandler.Login)
	mux.HandleFunc("/api/refresh", authHandler.RefreshToken)
	mux.HandleFunc("/api/register", authHandler.Register)
	mux.Handle("/kv/", namespaceHandler)

	// Protected routes (authentication required)
	authMiddleware := middleware.AuthMiddleware(jwtManager, users)
	protect := func(path string, h http.HandlerFunc) {
		mux.Handle(path, authMiddleware(h))
	}

	protect("/api/catalog", catalogHandler.Catalog)
	protect("/api/people", catalogHandler.People)

	protect("/api/reports", reportHandler.List)
	protect("/api/reports/get", reportHandler.Get)
	protect("/api/reports/save", reportHandler.Save)
	protect("/api/reports/delete", reportHandler.Delete)
	protect("/api/reports/export", exportHandler.Export)
	protect("/api/reports/export/csv", exportHandler.ExportCSV)
	protect("/api/reports/share", exportHandler.Share)

	protect("/api/draft", draftHandler.Draft)
	protect("/api/draft/clear", draftHandler.Clear)

	protect("/api/sync", syncHandler.Status)
	protect("/api/sync/id", syncHandler.SetID)
	protect("/api/sync/pull", syncHandler.Pull)
	protect("/api/sync/push", syncHandler.Push)

	// Admin endpoints (admin only)
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	admin := func(path string, h http.HandlerFunc) {
		mux.Handle(path, authMiddleware(adminOnly(h)))
	}
	admin("/api/admin/users", adminHandler.GetUsers)
	admin("/api/admin/users/create", adminHandler.CreateUser)
	admin("/api/admin/users/update", adminHandler.UpdateUser)
	admin("/api/admin/users/delete", adminHandler.DeleteUser)
	admin("/api/admin/users/reset-password", adminHandler.ResetPassword)

	// Apply global middleware
	handler := middleware.CORSMiddleware(cfg.CORS.AllowedOrigins)(mux)
	handler = rateLimiter.Middleware()(handler)
	handler = middleware.RequestLogger(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("addr", server.Addr).Info("✅ Server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("❌ Server failed to start")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("🛑 Shutting down server...")
	close(stopCleanup)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("❌ Server forced to shutdown")
	}

	log.Info("✅ Server stopped gracefully")
}

func setupLogging(cfg config.LoggingConfig) {
	switch cfg.Format {
	case "text":
		log.SetHandler(text.New(os.Stderr))
	case "cli":
		log.SetHandler(cli.New(os.Stderr))
	default:
		log.SetHandler(json.New(os.Stderr))
	}

	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

// newAnalyzer returns nil without an API key so saves use the fallback text.
func newAnalyzer(cfg config.GeminiConfig) analysis.Analyzer {
	if cfg.APIKey == "" {
		log.Info("🤖 GEMINI_API_KEY not set, AI analysis disabled")
		return nil
	}
	log.WithField("model", cfg.Model).Info("🤖 Gemini analysis enabled")
	return analysis.NewGeminiClient(cfg.APIKey, cfg.Model, cfg.Timeout)
}

// Health check endpoint
func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"healthy","timestamp":%d,"version":%q}`, time.Now().Unix(), version)
}
