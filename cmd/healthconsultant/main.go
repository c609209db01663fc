package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"healthconsultant/config"
	"healthconsultant/internal/adapters/cache"
	"healthconsultant/internal/adapters/consultapi"
	httpdelivery "healthconsultant/internal/delivery/http"
	"healthconsultant/internal/delivery/http/controllers"
	"healthconsultant/internal/delivery/http/middleware"
	"healthconsultant/internal/delivery/http/views"
	"healthconsultant/internal/domain"
	"healthconsultant/internal/services"
)

// @title Health Consultant API
// @version 1.0
// @description Patients, consultations and AI summaries, with page-window pagination metadata.
// @BasePath /
func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "healthconsultant",
		Short:         "Health consultation web front end",
		SilenceUsage: true,
	}
	root.AddCommand(serveCmd())
	root.AddCommand(windowCmd())
	return root
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := config.NewLogger(cfg.Environment)
			slog.SetDefault(logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	directory := cache.NewNoopPatientDirectory()
	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		directory = cache.NewPatientDirectory(rdb, cfg.PatientCacheTTL)
		logger.Info("patient directory cache enabled", "ttl", cfg.PatientCacheTTL.String())
	}

	api := consultapi.NewClient(cfg.InternalAPIURL, cfg.APITimeout, &http.Client{}, logger)

	patients := services.NewPatientService(api, directory, logger, cfg.APITimeout)
	consultations := services.NewConsultationService(api, cfg.APITimeout)
	summaries := services.NewSummaryService(api, logger, cfg.APITimeout, cfg.SummaryPollInterval, cfg.SummaryWaitTimeout)
	health := services.NewHealthService(api, logger, cfg.InternalAPIURL, cfg.HealthProbeInterval, cfg.APITimeout)
	if err := health.Start(); err != nil {
		return err
	}
	defer health.Stop()

	limiter := middleware.NewRateLimiter(cfg.SummaryRatePerSec, cfg.SummaryRateBurst)
	limiter.RunSweeper(ctx, time.Minute)

	renderer, err := views.NewRenderer()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	opts := controllers.Options{
		PageSize:       cfg.PageSize,
		NeighborRadius: cfg.NeighborRadius,
		PublicAPIURL:   cfg.PublicAPIURL,
		PollInterval:   cfg.SummaryPollInterval,
	}

	handler := httpdelivery.NewRouter(httpdelivery.RouterConfig{
		Logger:             logger,
		Pages:              controllers.NewPageController(logger, renderer, patients, consultations, summaries, health, opts),
		API:                controllers.NewAPIController(logger, patients, consultations, summaries, health, opts),
		SummaryLimiter:     limiter,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})
	server := httpdelivery.NewServer(cfg.Addr(), handler, logger, cfg.SummaryWaitTimeout)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	logger.Info("healthconsultant started",
		"env", cfg.Environment,
		"api", cfg.InternalAPIURL,
		"page_size", cfg.PageSize,
		"neighbor_radius", cfg.NeighborRadius,
	)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func windowCmd() *cobra.Command {
	var current, total, radius int
	cmd := &cobra.Command{
		Use:   "window",
		Short: "Print the pagination window for a page",
		Example: "  healthconsultant window --current 1 --total 10\n" +
			"  1 2 … 10",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if current < 1 {
				return fmt.Errorf("--current must be at least 1")
			}
			if total < 0 {
				return fmt.Errorf("--total must not be negative")
			}
			return printWindow(cmd.OutOrStdout(), current, total, radius)
		},
	}
	cmd.Flags().IntVar(&current, "current", 1, "current page (1-based)")
	cmd.Flags().IntVar(&total, "total", 1, "total number of pages")
	cmd.Flags().IntVar(&radius, "radius", domain.DefaultNeighborRadius, "pages shown on each side of the current page")
	return cmd
}

func printWindow(w io.Writer, current, total, radius int) error {
	plan := domain.ComputePageWindow(current, total, radius)
	parts := make([]string, len(plan))
	for i, m := range plan {
		parts[i] = m.String()
	}
	_, err := fmt.Fprintln(w, strings.Join(parts, " "))
	return err
}
