// Command onboard-seed fills the configured store with demo students, courses, coursework and events.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hilamalka1/onboard-api/internal/bootstrap"
	"github.com/hilamalka1/onboard-api/internal/seed"
	"github.com/hilamalka1/onboard-api/pkg/config"
	"github.com/hilamalka1/onboard-api/pkg/logger"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		students int
		courses  int
		driver   string
		randSeed int64
	)

	cmd := &cobra.Command{
		Use:   "onboard-seed",
		Short: "Seed the OnBoard store with demo data",
		Long: `onboard-seed creates demo students, courses with graded rosters,
one assignment and one exam per course, and a handful of events.

Records go through the same services as the API, so validation and
uniqueness rules apply. Existing students and courses are skipped.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), driver, seed.Options{
				Students: students,
				Courses:  courses,
				Seed:     randSeed,
			})
		},
	}

	cmd.Flags().IntVar(&students, "students", 40, "Number of students to create")
	cmd.Flags().IntVar(&courses, "courses", 10, "Number of courses to create")
	cmd.Flags().StringVar(&driver, "driver", "", "Store driver override (postgres, mongo, file)")
	cmd.Flags().Int64Var(&randSeed, "seed", time.Now().UnixNano(), "Random seed for grades, rosters and dates")

	return cmd
}

func run(parent context.Context, driver string, opts seed.Options) error {
	if opts.Students < 0 || opts.Courses < 0 {
		return fmt.Errorf("--students and --courses must not be negative")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if driver != "" {
		cfg.Store.Driver = strings.ToLower(strings.TrimSpace(driver))
	}

	logr, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logr.Sync() //nolint:errcheck

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := bootstrap.New(ctx, cfg, logr)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	defer func() {
		if closeErr := container.Close(context.Background()); closeErr != nil {
			logr.Warn("close resources", zap.Error(closeErr))
		}
	}()

	seeder := seed.New(seed.Services{
		Students:    container.Students,
		Courses:     container.Courses,
		Assignments: container.Assignments,
		Exams:       container.Exams,
		Events:      container.Events,
	}, logr)

	res, err := seeder.Run(ctx, opts)
	if err != nil {
		return err
	}

	logr.Info("seed completed",
		zap.String("store", cfg.Store.Driver),
		zap.Int("students", res.Students),
		zap.Int("courses", res.Courses),
		zap.Int("assignments", res.Assignments),
		zap.Int("exams", res.Exams),
		zap.Int("events", res.Events),
		zap.Int("skipped", res.Skipped),
	)
	return nil
}
