// @title			KHO MVG Task API
// @version		1.0
// @description	Recurring operational tasks for warehouse projects with derived due status.
// @BasePath		/api/v1
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mtlprog/khomvg/internal/config"
	"github.com/mtlprog/khomvg/internal/database"
	"github.com/mtlprog/khomvg/internal/handler"
	"github.com/mtlprog/khomvg/internal/logger"
	"github.com/mtlprog/khomvg/internal/repository"
	"github.com/mtlprog/khomvg/internal/scheduler"
	"github.com/mtlprog/khomvg/internal/service"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	app := &cli.App{
		Name:  "khomvg",
		Usage: "Recurring task scheduling for warehouse projects",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   "json",
				Usage:   "Log format (json, text)",
				EnvVars: []string{"LOG_FORMAT"},
			},
			&cli.StringFlag{
				Name:     "database-url",
				Aliases:  []string{"d"},
				Value:    config.DefaultDatabaseURL,
				Usage:    "PostgreSQL database URL",
				EnvVars:  []string{"DATABASE_URL"},
				Required: true,
			},
			&cli.StringFlag{
				Name:    "timezone",
				Aliases: []string{"tz"},
				Value:   config.DefaultTimezone,
				Usage:   "IANA time zone that decides the business date",
				EnvVars: []string{"KHOMVG_TIMEZONE"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.Setup(logger.ParseLevel(c.String("log-level")), c.String("log-format"))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the web server and the due-date sweeper",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Value:   config.DefaultPort,
						Usage:   "HTTP server port",
						EnvVars: []string{"PORT"},
					},
					&cli.StringFlag{
						Name:    "sweep-schedule",
						Value:   config.DefaultSweepSchedule,
						Usage:   "Cron spec of the due-date sweep; empty disables it",
						EnvVars: []string{"SWEEP_SCHEDULE"},
					},
					&cli.Float64Flag{
						Name:    "rate-limit",
						Value:   config.DefaultRateLimit,
						Usage:   "Requests per second per user; 0 disables throttling",
						EnvVars: []string{"RATE_LIMIT"},
					},
					&cli.IntFlag{
						Name:    "rate-burst",
						Value:   config.DefaultRateBurst,
						Usage:   "Request burst per user",
						EnvVars: []string{"RATE_BURST"},
					},
					&cli.IntFlag{
						Name:    "due-soon-days",
						Value:   config.DefaultDueSoonDays,
						Usage:   "Default horizon of the due-soon statistic",
						EnvVars: []string{"DUE_SOON_DAYS"},
					},
				},
				Action: runServe,
			},
			{
				Name:   "sweep",
				Usage:  "Record overdue and reminder events once and exit",
				Action: runSweep,
			},
			{
				Name:   "migrate",
				Usage:  "Apply database migrations and exit",
				Action: runMigrate,
			},
		},
		Action: runServe,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

// clockFromFlags builds the business clock from --timezone.
func clockFromFlags(c *cli.Context) (service.Clock, error) {
	loc, err := time.LoadLocation(c.String("timezone"))
	if err != nil {
		return service.Clock{}, fmt.Errorf("load timezone %q: %w", c.String("timezone"), err)
	}
	return service.NewClock(loc), nil
}

// openDatabase connects and applies pending migrations.
func openDatabase(c *cli.Context) (*database.DB, error) {
	ctx := c.Context

	db, err := database.New(ctx, c.String("database-url"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := database.RunMigrations(ctx, db.Pool()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

func runServe(c *cli.Context) error {
	ctx := c.Context

	port := c.String("port")
	if port == "" {
		port = config.DefaultPort
	}

	clock, err := clockFromFlags(c)
	if err != nil {
		return err
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	opts := handler.DefaultOptions()
	if c.IsSet("rate-limit") {
		opts.RateLimit = c.Float64("rate-limit")
	}
	if c.IsSet("rate-burst") {
		opts.RateBurst = c.Int("rate-burst")
	}
	if c.IsSet("due-soon-days") {
		opts.DueSoonDays = c.Int("due-soon-days")
	}

	h := handler.New(db.Pool(), clock, opts)

	var sweeper *scheduler.Scheduler
	if schedule := c.String("sweep-schedule"); schedule != "" {
		sweeper, err = scheduler.New(h.TaskService(), scheduler.Config{
			Schedule: schedule,
			Location: clock.Location(),
		})
		if err != nil {
			return err
		}
		sweeper.Start()
	}

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           h.Routes(),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server",
			"server_addr", "http://localhost:"+port,
			"timezone", c.String("timezone"),
			"today", clock.Today().String(),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-done:
		slog.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if sweeper != nil {
		sweeper.Stop(shutdownCtx)
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

func runSweep(c *cli.Context) error {
	ctx := c.Context

	clock, err := clockFromFlags(c)
	if err != nil {
		return err
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	pool := db.Pool()
	taskService := service.NewTaskService(
		pool,
		repository.NewTaskRepository(pool),
		repository.NewTaskEventRepository(pool),
		repository.NewUserRepository(pool),
		repository.NewProjectRepository(pool),
		clock,
	)

	result, err := taskService.SweepDueTasks(ctx)
	if err != nil {
		return fmt.Errorf("sweep due tasks: %w", err)
	}

	slog.Info("sweep finished",
		"today", clock.Today().String(),
		"checked", result.Checked,
		"overdue", result.Overdue,
		"reminders", result.Reminders,
	)
	return nil
}

func runMigrate(c *cli.Context) error {
	ctx := c.Context

	db, err := database.New(ctx, c.String("database-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	version, err := database.RunMigrations(ctx, db.Pool())
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Info("database is up to date", "version", version)
	return nil
}
