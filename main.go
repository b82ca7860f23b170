package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"viewing-scheduler-server/internal/catalog"
	"viewing-scheduler-server/internal/config"
	"viewing-scheduler-server/internal/logging"
	"viewing-scheduler-server/internal/models"
	"viewing-scheduler-server/internal/routes"
	"viewing-scheduler-server/internal/store"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logFile, err := logging.Setup(cfg.LogFile, logging.ParseLevel(cfg.LogLevel))
	if err != nil {
		log.Fatalf("Error opening log file: %v", err)
	}
	defer logFile.Close()

	cat, err := loadCatalog(cfg.Catalog)
	if err != nil {
		log.Fatalf("Error loading catalog: %v", err)
	}

	repo, err := openStore(cfg, cat)
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.SeedDemo {
		n, err := repo.Seed(ctx, models.SeedAppointments())
		if err != nil {
			log.Fatalf("Error seeding appointments: %v", err)
		}
		logging.Info("demo appointments seeded", "count", n)
	}

	if cfg.Catalog.SyncURL != "" {
		syncer := catalog.NewSyncer(cat, cfg.Catalog.SyncURL)
		if err := syncer.Start(ctx, cfg.Catalog.SyncCron); err != nil {
			log.Fatalf("Error starting catalog sync: %v", err)
		}
		defer syncer.Stop()
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Gin router
	router := gin.Default()

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition"}
	router.Use(cors.New(corsConfig))

	routes.SetupRoutes(router, repo, cat, cfg)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info("server running", "port", cfg.Port, "store", storeName(cfg), "timezone", cfg.Location.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logging.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("graceful shutdown failed", err)
	}
}

func loadCatalog(cfg config.CatalogConfig) (*catalog.Catalog, error) {
	if cfg.File == "" {
		return catalog.NewSeeded(), nil
	}
	return catalog.LoadFile(cfg.File)
}

// appointmentStore is what main needs from a store: the repository the
// routes serve plus the demo seeding.
type appointmentStore interface {
	store.Repository
	store.Seeder
}

func openStore(cfg *config.Config, cat *catalog.Catalog) (appointmentStore, error) {
	opts := store.Options{Defaults: cat, Location: cfg.Location}
	if cfg.Database.Driver == "" {
		return store.NewMemoryStore(opts), nil
	}

	db, err := models.InitDB(models.DatabaseConfig{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.DSN,
		Debug:  cfg.Database.Debug,
	})
	if err != nil {
		return nil, err
	}
	return store.NewGormStore(db, opts), nil
}

func storeName(cfg *config.Config) string {
	if cfg.Database.Driver == "" {
		return "memory"
	}
	return cfg.Database.Driver
}
