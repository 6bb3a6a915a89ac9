// Package main implements the budgetd CLI.
//
// budgetd runs one sync-and-schedule pass for a user: it pulls transactions,
// budgets, and bill reminders from the record store, derives spending
// insights, and schedules the resulting notifications.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sampurna-d/budget-buddy/internal/config"
	"github.com/sampurna-d/budget-buddy/internal/insight"
	"github.com/sampurna-d/budget-buddy/internal/logging"
	"github.com/sampurna-d/budget-buddy/internal/notify"
	"github.com/sampurna-d/budget-buddy/internal/services"
	"github.com/sampurna-d/budget-buddy/internal/store"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

var (
	configPath string
	userID     string
	offline    bool
	wait       time.Duration
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "budgetd",
	Short: "Budget Buddy notification daemon",
	Long: `budgetd schedules spending notifications and bill reminders for a
Budget Buddy user. It reads financial records from the hosted backend,
derives spending insights (AI-backed, with deterministic fallbacks), and
hands notifications to the local scheduling substrate.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	runCmd.Flags().StringVar(&userID, "user", "", "user id to schedule for (required)")
	runCmd.Flags().BoolVar(&offline, "offline", false, "use an empty in-memory store instead of the backend")
	runCmd.Flags().DurationVar(&wait, "wait", 0, "keep running after the pass so local notifications can fire")
	_ = runCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one sync-and-schedule pass",
	Long: `Run one sync-and-schedule pass for a user.

Examples:
  # Schedule notifications for a user
  AI_API_KEY=sk-... STORE_API_KEY=... budgetd run --user 4f8c...

  # Use a config file and stay alive for an hour to deliver locally
  budgetd run --config budgetd.yaml --user 4f8c... --wait 1h`,
	RunE: runPass,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("budgetd\n")
		fmt.Printf("Version:    %s\n", version)
		fmt.Printf("Commit:     %s\n", gitCommit)
		fmt.Printf("Build Date: %s\n", buildDate)
	},
}

func runPass(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.NewLogger(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	reg, cleanup, err := buildServices(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx = logging.WithUserID(ctx, userID)
	return schedulePass(ctx, reg, logger)
}

// buildServices wires the insight engine, the record store, and the
// scheduler. The returned cleanup stops the local substrate's timers.
func buildServices(cfg *config.Config, logger *logging.Logger) (services.Registry, func(), error) {
	completer, err := insight.NewClient(insight.ClientConfig{
		BaseURL:    cfg.AI.BaseURL,
		APIKey:     cfg.AI.APIKey,
		Model:      cfg.AI.Model,
		Timeout:    cfg.AI.Timeout,
		MaxRetries: cfg.AI.MaxRetries,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create completion client: %w", err)
	}

	engine, err := insight.NewService(completer, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("create insight service: %w", err)
	}

	var records store.Store
	if offline {
		records = store.NewMemory()
	} else {
		client, err := store.NewClient(store.ClientConfig{
			BaseURL: cfg.Store.BaseURL,
			APIKey:  cfg.Store.APIKey,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("create store client: %w", err)
		}
		records = store.NewCached(client, cfg.Store.CacheTTL)
	}

	substrate := notify.NewLocalSubstrate(func(content notify.Content) {
		logger.Info(context.Background(), "notification fired",
			zap.String("title", content.Title),
			zap.String("body", logging.Sanitize(content.Body)),
		)
	})

	scheduler, err := notify.NewScheduler(&notify.Config{
		ChannelID: cfg.Notify.ChannelID,
		MinHour:   cfg.Notify.MinHour,
		MaxHour:   cfg.Notify.MaxHour,
	}, substrate, engine, logger)
	if err != nil {
		substrate.Close()
		return nil, nil, fmt.Errorf("create scheduler: %w", err)
	}

	reg := services.NewRegistry(services.Options{
		Insight:   engine,
		Scheduler: scheduler,
		Store:     records,
	})
	return reg, substrate.Close, nil
}

// schedulePass runs the actual pass: spending notifications first, then one
// bill reminder per pending bill. Recurring bills that are already paid or
// past due are re-scheduled at their next due date.
func schedulePass(ctx context.Context, reg services.Registry, logger *logging.Logger) error {
	records := reg.Store()
	scheduler := reg.Scheduler()

	transactions, err := records.Transactions(ctx, userID)
	if err != nil {
		return fmt.Errorf("fetch transactions: %w", err)
	}
	budgets, err := records.Budgets(ctx, userID)
	if err != nil {
		return fmt.Errorf("fetch budgets: %w", err)
	}
	reminders, err := records.BillReminders(ctx, userID)
	if err != nil {
		return fmt.Errorf("fetch bill reminders: %w", err)
	}

	logger.Info(ctx, "starting schedule pass",
		zap.Int("transactions", len(transactions)),
		zap.Int("budgets", len(budgets)),
		zap.Int("reminders", len(reminders)),
	)

	scheduler.ScheduleRandomNotifications(ctx, transactions, budgets)

	now := time.Now()
	for _, reminder := range reminders {
		rctx := logging.WithReminderID(ctx, reminder.ID)
		if id := scheduler.ScheduleBillReminder(rctx, reminder); id != "" {
			logger.Info(rctx, "bill reminder scheduled", zap.String("notification.id", id))
			continue
		}

		// Paid or past-due recurring bills roll over to the next due date.
		next := reminder.NextDueDate(now)
		if next.IsZero() {
			continue
		}
		rolled := reminder
		rolled.DueDate = next
		rolled.Paid = false
		if id := scheduler.ScheduleBillReminder(rctx, rolled); id != "" {
			logger.Info(rctx, "recurring bill rolled over",
				zap.String("notification.id", id),
				zap.Time("due_date", next),
			)
		}
	}

	if wait > 0 {
		logger.Info(ctx, "waiting for local notifications", zap.Duration("wait", wait))
		select {
		case <-time.After(wait):
		case <-ctx.Done():
		}
	}
	return nil
}
