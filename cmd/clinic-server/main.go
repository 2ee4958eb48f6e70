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

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vitaclinic/clinic-server/internal/config"
	"github.com/vitaclinic/clinic-server/internal/domain/analytics"
	"github.com/vitaclinic/clinic-server/internal/domain/animals"
	"github.com/vitaclinic/clinic-server/internal/domain/appointments"
	"github.com/vitaclinic/clinic-server/internal/domain/billing"
	"github.com/vitaclinic/clinic-server/internal/domain/clients"
	"github.com/vitaclinic/clinic-server/internal/domain/medicalrecords"
	"github.com/vitaclinic/clinic-server/internal/domain/settings"
	"github.com/vitaclinic/clinic-server/internal/domain/veterinarians"
	"github.com/vitaclinic/clinic-server/internal/platform/db"
	"github.com/vitaclinic/clinic-server/internal/platform/middleware"
	"github.com/vitaclinic/clinic-server/internal/platform/notification"
)

// AnimalDirectoryAdapter adapts the animals service to the
// appointments.AnimalDirectory interface, avoiding a circular import
// between the two domain packages.
type AnimalDirectoryAdapter struct {
	svc *animals.Service
}

func (a *AnimalDirectoryAdapter) AnimalInfo(ctx context.Context, id uuid.UUID) (*appointments.AnimalInfo, error) {
	animal, err := a.svc.GetAnimal(ctx, id)
	if err != nil {
		return nil, err
	}
	return &appointments.AnimalInfo{
		ID:       animal.ID,
		ClientID: animal.ClientID,
		Name:     animal.Name,
	}, nil
}

// ClientDirectoryAdapter adapts the clients service to
// appointments.ClientDirectory.
type ClientDirectoryAdapter struct {
	svc *clients.Service
}

func (a *ClientDirectoryAdapter) ClientInfo(ctx context.Context, id uuid.UUID) (*appointments.ClientInfo, error) {
	c, err := a.svc.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}
	info := &appointments.ClientInfo{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
	}
	if c.Email != nil {
		info.Email = *c.Email
	}
	if c.Phone != nil {
		info.Phone = *c.Phone
	}
	return info, nil
}

// VeterinarianDirectoryAdapter adapts the veterinarians service to
// appointments.VeterinarianDirectory.
type VeterinarianDirectoryAdapter struct {
	svc *veterinarians.Service
}

func (a *VeterinarianDirectoryAdapter) VeterinarianInfo(ctx context.Context, id uuid.UUID) (*appointments.VeterinarianInfo, error) {
	v, err := a.svc.GetVeterinarian(ctx, id)
	if err != nil {
		return nil, err
	}
	return &appointments.VeterinarianInfo{ID: v.ID, Name: v.FullName()}, nil
}

// SettingsSourceAdapter exposes the clinic settings to the appointments
// service as the slice it needs for notification dispatch.
type SettingsSourceAdapter struct {
	svc *settings.Service
}

func (a *SettingsSourceAdapter) ClinicInfo(ctx context.Context) (*appointments.ClinicInfo, error) {
	cs, err := a.svc.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	info := &appointments.ClinicInfo{
		Name:         cs.ClinicName,
		EmailEnabled: cs.EmailNotificationsEnabled,
		SMSEnabled:   cs.SMSNotificationsEnabled,
	}
	if cs.Phone != nil {
		info.Phone = *cs.Phone
	}
	return info, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-server",
		Short: "VitaClinic API Server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the clinic API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	// migrate up
	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	// migrate status
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// API group
	apiV1 := e.Group("/api/v1")

	// Rate limiting middleware
	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	// Health check
	e.GET("/health", db.HealthHandler(pool))

	// Notification providers. Unconfigured senders log and skip, so the
	// server runs fine without SendGrid or Twilio credentials.
	emailSender := notification.NewSendGridSender(cfg.SendGridAPIKey, cfg.EmailFromAddress, cfg.EmailFromName, logger)
	smsSender := notification.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, logger)
	dispatcher := notification.NewDispatcher(emailSender, smsSender, logger)
	if !cfg.EmailConfigured() {
		logger.Warn().Msg("SENDGRID_API_KEY not set; email notifications will be skipped")
	}
	if !cfg.SMSConfigured() {
		logger.Warn().Msg("Twilio credentials not set; SMS notifications will be skipped")
	}

	// -- Register Domain Handlers --

	// Clients domain
	clientRepo := clients.NewClientRepoPG(pool)
	clientSvc := clients.NewService(clientRepo)
	clients.NewHandler(clientSvc).RegisterRoutes(apiV1)

	// Animals domain
	animalRepo := animals.NewAnimalRepoPG(pool)
	animalSvc := animals.NewService(animalRepo)
	animals.NewHandler(animalSvc).RegisterRoutes(apiV1)

	// Veterinarians domain
	vetRepo := veterinarians.NewVeterinarianRepoPG(pool)
	vetSvc := veterinarians.NewService(vetRepo)
	veterinarians.NewHandler(vetSvc).RegisterRoutes(apiV1)

	// Clinic settings domain
	settingsRepo := settings.NewSettingsRepoPG(pool)
	settingsSvc := settings.NewService(settingsRepo)
	settings.NewHandler(settingsSvc).RegisterRoutes(apiV1)

	// Appointments domain, wired to the other domains through adapters
	apptRepo := appointments.NewAppointmentRepoPG(pool)
	apptSvc := appointments.NewService(
		apptRepo,
		&AnimalDirectoryAdapter{svc: animalSvc},
		&ClientDirectoryAdapter{svc: clientSvc},
		&VeterinarianDirectoryAdapter{svc: vetSvc},
		&SettingsSourceAdapter{svc: settingsSvc},
		dispatcher,
		logger,
	)
	appointments.NewHandler(apptSvc).RegisterRoutes(apiV1)

	// Medical records domain
	recordRepo := medicalrecords.NewMedicalRecordRepoPG(pool)
	recordSvc := medicalrecords.NewService(recordRepo)
	medicalrecords.NewHandler(recordSvc).RegisterRoutes(apiV1)

	// Billing domain
	invoiceRepo := billing.NewInvoiceRepoPG(pool)
	invoiceSvc := billing.NewService(invoiceRepo)
	billing.NewHandler(invoiceSvc).RegisterRoutes(apiV1)

	// Analytics domain
	analyticsRepo := analytics.NewRepoPG(pool)
	analyticsSvc := analytics.NewService(analyticsRepo)
	analytics.NewHandler(analyticsSvc).RegisterRoutes(apiV1)

	// Start server with graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
