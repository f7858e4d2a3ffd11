package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"desynflow-backend/internal/auth"
	"desynflow-backend/internal/cache"
	"desynflow-backend/internal/config"
	"desynflow-backend/internal/database"
	"desynflow-backend/internal/db"
	"desynflow-backend/internal/handlers"
	"desynflow-backend/internal/health"
	h "desynflow-backend/internal/http"
	"desynflow-backend/internal/live"
	"desynflow-backend/internal/middleware"
	"desynflow-backend/internal/monitoring"
	"desynflow-backend/internal/notify"
	"desynflow-backend/internal/repositories"
	"desynflow-backend/internal/services"
	"desynflow-backend/internal/storage"
	"desynflow-backend/internal/upload"
	"desynflow-backend/migrations"

	"github.com/rs/zerolog"
)

func main() {
	mode := flag.String("mode", "staff", "Server mode: staff or client")
	port := flag.Int("port", 0, "Override the listen port")
	monitorPort := flag.Int("monitor-port", 9090, "Ops stats server port (staff mode)")
	flag.Parse()

	if *mode != "staff" && *mode != "client" {
		log.Fatalf("Unknown mode %q (want staff or client)", *mode)
	}

	cfg := config.Load()
	if *port > 0 {
		cfg.Server.Port = *port
	} else if *mode == "client" && cfg.Server.Port == 8080 {
		// Client portal defaults to its own port so both modes can run
		// side by side.
		cfg.Server.Port = 8081
	}

	logger := newLogger(cfg.App.LogLevel)

	pool := db.Connect(cfg)
	defer pool.Close()
	log.Printf("Connected to database %s", cfg.Database.Name)

	if err := cache.Init(); err != nil {
		log.Printf("[Redis] Cache unavailable: %v (sessions fall back to in-memory)", err)
	} else {
		log.Println("[Redis] Cache connected")
	}

	// Embedded migrations keep the binary standalone
	migrator := database.NewMigratorWithFS(pool, migrations.FS, ".")
	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	if err := migrator.RunMigrations(migrateCtx); err != nil {
		cancelMigrate()
		log.Fatalf("Failed to run migrations: %v", err)
	}
	cancelMigrate()

	jwtManager := auth.NewJWTManager(cfg)

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	supplierRepo := repositories.NewSupplierRepository(pool)
	requestRepo := repositories.NewInspectionRequestRepository(pool)
	formRepo := repositories.NewInspectionFormRepository(pool)
	receiptRepo := repositories.NewPaymentReceiptRepository(pool)
	attendanceRepo := repositories.NewAttendanceRepository(pool)
	locationRepo := repositories.NewInspectorLocationRepository(pool)
	notificationRepo := repositories.NewNotificationRepository(pool)
	disposalRepo := repositories.NewDisposalMaterialRepository(pool)
	transferRepo := repositories.NewTransferRequestRepository(pool)
	transactionRepo := repositories.NewOnlineTransactionRepository(pool)

	// Shared infrastructure
	uploads := upload.ReceiptStore(cfg.Uploads.Dir, cfg.Uploads.MaxSizeMB)
	mirror := storage.NewMirror(cfg)
	notifier := notify.FromConfig(cfg.Notify.WebhookURL)
	hub := live.NewHub()
	defer hub.Close()

	var activity cache.ActivityStore
	if cache.GetClient() != nil {
		activity = cache.NewRedisActivityStore(24 * time.Hour)
	} else {
		activity = cache.NewMemoryActivityStore()
	}

	// Services
	notificationService := services.NewNotificationService(notificationRepo, userRepo, notifier)
	userService := services.NewUserService(userRepo, jwtManager, notifier)
	totpService := services.NewTOTPService(userRepo, jwtManager)
	supplierService := services.NewSupplierService(supplierRepo, jwtManager)
	requestService := services.NewInspectionRequestService(requestRepo, locationRepo, notificationService, hub)
	formService := services.NewInspectionFormService(formRepo, requestRepo, notificationService)
	paymentService := services.NewPaymentReceiptService(
		receiptRepo, requestRepo, jwtManager, uploads, mirror, notificationService, baseURL(cfg))
	attendanceService := services.NewAttendanceService(attendanceRepo)
	locationService := services.NewInspectorLocationService(locationRepo)
	warehouseService := services.NewWarehouseService(disposalRepo, transferRepo)
	reportService := services.NewReportService(receiptRepo, requestRepo, userRepo)
	razorpayService := services.NewRazorpayService(
		cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, cfg.Razorpay.WebhookSecret,
		transactionRepo, receiptRepo, requestRepo, notificationService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)
	sessionMiddleware := middleware.NewSessionMiddleware(activity, cfg.Session.TimeoutMinutes)
	corsMiddleware := middleware.NewCORS(cfg)

	healthChecker := health.NewHealthChecker(pool)

	hs := &h.Handlers{
		Auth:         handlers.NewAuthHandler(userService, totpService, sessionMiddleware),
		Users:        handlers.NewUserHandler(userService),
		TOTP:         handlers.NewTOTPHandler(totpService, userService),
		Suppliers:    handlers.NewSupplierHandler(supplierService),
		Requests:     handlers.NewInspectionRequestHandler(requestService),
		Forms:        handlers.NewInspectionFormHandler(formService),
		Payments:     handlers.NewPaymentHandler(paymentService),
		Attendance:   handlers.NewAttendanceHandler(attendanceService),
		Locations:    handlers.NewLocationHandler(locationService),
		Warehouse:    handlers.NewWarehouseHandler(warehouseService),
		Notification: handlers.NewNotificationHandler(notificationService),
		Files:        handlers.NewFilesHandler(uploads, mirror),
		Reports:      handlers.NewReportHandler(reportService),
		Razorpay:     handlers.NewRazorpayHandler(razorpayService),
		Health:       handlers.NewHealthHandler(healthChecker),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var router http.Handler
	if *mode == "staff" {
		log.Println("Starting in STAFF mode")
		router = h.NewStaffRouter(hs, authMiddleware, sessionMiddleware, hub)

		// Location snapshots stream to dashboard websockets
		poller := live.NewPoller(hub, locationService, live.DefaultPollInterval)
		go poller.Run(ctx)

		go monitoring.NewServer(pool, *monitorPort).Start()
	} else {
		log.Println("Starting in CLIENT PORTAL mode")
		router = h.NewClientRouter(hs, authMiddleware, sessionMiddleware)
	}

	handler := middleware.PanicRecovery(
		middleware.RequestLogger(logger)(
			corsMiddleware(router)))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Server running on %s (mode: %s)", srv.Addr, *mode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Logger()
}

// baseURL is what gets embedded in payment upload links sent to
// clients, so it must be the client portal's public address.
func baseURL(cfg *config.Config) string {
	if url := os.Getenv("PUBLIC_BASE_URL"); url != "" {
		return strings.TrimRight(url, "/")
	}
	return fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
}
