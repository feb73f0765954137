package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"qc-backend/internal/archive"
	"qc-backend/internal/auth"
	"qc-backend/internal/cache"
	"qc-backend/internal/config"
	"qc-backend/internal/database"
	"qc-backend/internal/db"
	"qc-backend/internal/external"
	"qc-backend/internal/handlers"
	"qc-backend/internal/health"
	h "qc-backend/internal/http"
	"qc-backend/internal/middleware"
	"qc-backend/internal/monitoring"
	"qc-backend/internal/repositories"
	"qc-backend/internal/services"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	// Load configuration
	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	// Connect to PostgreSQL
	pool := db.Connect(cfg)
	defer pool.Close()

	// Initialize Redis cache (optional - graceful fallback if unavailable)
	if err := cache.Init(); err != nil {
		log.Printf("[Redis] Cache unavailable: %v (statistics served from Postgres only)", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
	}

	// Run database migrations
	log.Println("Running database migrations...")
	migrator := database.NewMigrator(pool, "migrations")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repositories
	shiftRepo := repositories.NewShiftRepository(pool)
	controlRepo := repositories.NewControlRecordRepository(pool)
	defectRepo := repositories.NewDefectRepository(pool)
	controllerRepo := repositories.NewControllerRepository(pool)

	// Seed the defect catalog
	if err := defectRepo.Seed(ctx, config.DefectSeed); err != nil {
		log.Fatalf("Failed to seed defect catalog: %v", err)
	}

	// External production card databases (read-only, best-effort write-back)
	cardLookup := external.NewCardLookup(
		cfg.External.FoundryDBPath,
		cfg.External.RouteCardsDBPath,
		cfg.External.Enabled,
	)

	// Initialize services
	shiftService := services.NewShiftService(shiftRepo, cfg.Shifts.AutoCloseEnabled)
	controlService := services.NewControlService(controlRepo, shiftRepo, cardLookup, defectRepo)
	statsService := services.NewStatisticsService(controlRepo)
	reportService := services.NewReportService(shiftService, controlService, statsService)
	reportService.SetArchive(archive.NewUploader(cfg))

	// Start monitoring dashboard server in background; it doubles as the
	// quality alert sink for high reject rates
	monitor := monitoring.NewMonitoringServer(pool, cfg.Server.MonitoringPort)
	controlService.SetAlerter(monitor)
	go monitor.Start()

	// Initialize auth
	jwtManager := auth.NewJWTManager(cfg)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager)

	// Health checker
	healthChecker := health.NewHealthChecker(pool, []string{
		cfg.External.FoundryDBPath,
		cfg.External.RouteCardsDBPath,
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(cfg, jwtManager)
	shiftHandler := handlers.NewShiftHandler(shiftService, statsService)
	controlHandler := handlers.NewControlRecordHandler(controlService)
	cardHandler := handlers.NewCardHandler(controlService)
	defectHandler := handlers.NewDefectHandler(defectRepo)
	controllerHandler := handlers.NewControllerHandler(controllerRepo)
	reportHandler := handlers.NewReportHandler(reportService)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	// Router with middleware chain
	router := h.NewRouter(
		authHandler,
		shiftHandler,
		controlHandler,
		cardHandler,
		defectHandler,
		controllerHandler,
		reportHandler,
		healthHandler,
		authMiddleware,
	)

	corsHandler := middleware.NewCORS(cfg)
	handler := middleware.PanicRecovery(middleware.MetricsMiddleware(corsHandler(router)))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("QC backend running on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
