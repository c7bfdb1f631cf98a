package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/proof-of-corn/corncheck/internal/api/http"
	"github.com/proof-of-corn/corncheck/internal/check"
	"github.com/proof-of-corn/corncheck/internal/config"
	"github.com/proof-of-corn/corncheck/internal/journal"
	"github.com/proof-of-corn/corncheck/internal/report"
	"github.com/proof-of-corn/corncheck/internal/scheduler"
	"github.com/proof-of-corn/corncheck/internal/weather/providers"
)

func main() {
	serve := flag.Bool("serve", false, "keep running: daily scheduled checks plus an HTTP API over the check log")
	flag.Parse()

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Missing credentials is fatal before any fetch attempt, and reported
	// distinctly from a failed fetch.
	if cfg.OpenWeatherAPIKey == "" {
		fmt.Fprintln(os.Stderr, "Error: OPENWEATHER_API_KEY not set")
		os.Exit(2)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	provider := providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey)
	checkLog := journal.New(cfg.LogDir)

	service := check.NewService(provider, checkLog, cfg.Farm(), cfg.Params())

	if !*serve {
		runOnce(service, cfg)
		return
	}

	runServe(service, cfg)
}

// runOnce performs a single check and exits: nonzero when the fetch fails
// (no log entry is written for a failed run), zero after logging and
// printing the report.
func runOnce(service *check.Service, cfg *config.AppConfig) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rec, logPath, err := service.RunOnce(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Check failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(report.Render(rec, cfg.SoilTempThresholdF))
	fmt.Printf("Logged to: %s\n", logPath)
}

// runServe keeps the process alive with a daily scheduled check and a
// small read API over the check log.
func runServe(service *check.Service, cfg *config.AppConfig) {
	sched := scheduler.New(service, cfg.CheckTime)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "corncheck",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "corncheck",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
