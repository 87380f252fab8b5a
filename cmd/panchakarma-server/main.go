package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/panchakarma/manager/internal/config"
	"github.com/panchakarma/manager/internal/dashboard"
	"github.com/panchakarma/manager/internal/domain/notification"
	"github.com/panchakarma/manager/internal/domain/patient"
	"github.com/panchakarma/manager/internal/domain/session"
	"github.com/panchakarma/manager/internal/platform/fixtures"
	"github.com/panchakarma/manager/internal/platform/middleware"
	"github.com/panchakarma/manager/internal/platform/websocket"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "panchakarma-server",
		Short: "Panchakarma clinic dashboard API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(fixturesCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func fixturesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fixtures",
		Short: "Print the seed catalogs as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			patients, _ := cmd.Flags().GetInt("patients")
			perPatient, _ := cmd.Flags().GetInt("sessions")
			seed, _ := cmd.Flags().GetInt64("seed")
			summary, _ := cmd.Flags().GetBool("summary")

			cats, err := fixtures.Build(fixtures.Config{
				ExtraPatients:      patients,
				SessionsPerPatient: perPatient,
				Seed:               seed,
			}, time.Now().UTC())
			if err != nil {
				return err
			}
			return writeFixtures(cmd.OutOrStdout(), cats, summary)
		},
	}
	cmd.Flags().Int("patients", 0, "number of synthetic patients to add to the samples")
	cmd.Flags().Int("sessions", fixtures.DefaultConfig().SessionsPerPatient, "sessions per synthetic patient")
	cmd.Flags().Int64("seed", fixtures.DefaultConfig().Seed, "generator seed (0 uses the current time)")
	cmd.Flags().Bool("summary", false, "print record counts instead of the catalogs")
	return cmd
}

func writeFixtures(w io.Writer, cats fixtures.Catalogs, summary bool) error {
	if !summary {
		return fixtures.WriteJSON(w, cats)
	}
	s := cats.Summary()
	_, err := fmt.Fprintf(w, "patients: %d\nsessions: %d\nnotifications: %d\n", s.Patients, s.Sessions, s.Notifications)
	return err
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the server version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	var out io.Writer = os.Stdout
	if cfg.IsDev() {
		out = zerolog.ConsoleWriter{Out: os.Stdout}
	}
	level, err := cfg.Level()
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	logger := newLogger(cfg)

	cats := fixtures.Catalogs{}
	if cfg.SeedFixtures {
		cats, err = fixtures.Build(fixtures.Config{
			ExtraPatients:      cfg.FixturePatients,
			SessionsPerPatient: fixtures.DefaultConfig().SessionsPerPatient,
			Seed:               cfg.FixtureSeed,
		}, time.Now().UTC())
		if err != nil {
			return err
		}
		logger.Info().
			Int("patients", len(cats.Patients)).
			Int("sessions", len(cats.Sessions)).
			Int("notifications", len(cats.Notifications)).
			Msg("seeded catalogs")
	}

	e, _ := newServer(cfg, logger, cats)

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("version", version).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}

// newServer wires the catalogs, services and routes into an echo instance.
func newServer(cfg *config.Config, logger zerolog.Logger, cats fixtures.Catalogs) (*echo.Echo, *websocket.Hub) {
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
		AllowHeaders: []string{"Content-Type", "X-Request-ID"},
	}))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit("1M"))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})

	apiV1 := e.Group("/api/v1")
	apiV1.Use(middleware.RateLimit(rateLimitConfig(cfg)))
	apiV1.Use(middleware.ETag())

	// Catalog change events
	hub := websocket.NewHub(logger.With().Str("component", "websocket").Logger())
	websocket.NewHandler(hub).RegisterRoutes(e.Group(""))

	// Catalogs
	patientRepo := patient.NewMemoryRepo(cats.Patients...)
	sessionRepo := session.NewMemoryRepo(cats.Sessions...)
	notificationRepo := notification.NewMemoryRepo(cats.Notifications...)

	sessionSvc := session.NewService(sessionRepo, patientRepo, logger)
	sessionSvc.SetPublisher(hub)

	patientSvc := patient.NewService(patientRepo, logger)
	patientSvc.SetActivitySource(sessionSvc)
	patientSvc.SetPublisher(hub)

	notificationSvc := notification.NewService(notificationRepo, logger)
	notificationSvc.SetPublisher(hub)

	patient.NewHandler(patientSvc).RegisterRoutes(apiV1)
	session.NewHandler(sessionSvc).RegisterRoutes(apiV1)
	notification.NewHandler(notificationSvc).RegisterRoutes(apiV1)

	// Dashboard workspaces
	dashSvc := dashboard.NewService(
		dashboard.NewRegistry(cfg.WorkspaceLimit),
		patientSvc,
		sessionSvc,
		notificationSvc,
		logger,
	)
	dashboard.NewHandler(dashSvc).RegisterRoutes(apiV1)

	return e, hub
}

// rateLimitConfig takes the limiter settings from cfg, falling back to the
// defaults for any value that is unset or non-positive.
func rateLimitConfig(cfg *config.Config) middleware.RateLimitConfig {
	rl := middleware.DefaultRateLimitConfig()
	if cfg.RateLimitRPS > 0 {
		rl.RequestsPerSecond = cfg.RateLimitRPS
	}
	if cfg.RateLimitBurst > 0 {
		rl.BurstSize = cfg.RateLimitBurst
	}
	return rl
}
