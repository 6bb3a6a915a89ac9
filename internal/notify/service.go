package notify

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/sampurna-d/budget-buddy/internal/finance"
	"github.com/sampurna-d/budget-buddy/internal/insight"
	"github.com/sampurna-d/budget-buddy/internal/logging"
)

const instrumentationName = "github.com/sampurna-d/budget-buddy/internal/notify"

// reminderIDKey is the content data key correlating a scheduled notification
// back to its bill reminder.
const reminderIDKey = "reminderId"

// Alert threshold terms: spent/amount*100 >= 80.
var (
	hundred = decimal.NewFromInt(100)
	eighty  = decimal.NewFromInt(80)
)

// Config configures the scheduler.
type Config struct {
	// ChannelID is the platform notification channel (default: budget-alerts).
	ChannelID string

	// MinHour/MaxHour bound the randomly-chosen alert hours. Must lie within
	// the package window [MinHour, MaxHour].
	MinHour int
	MaxHour int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ChannelID: "budget-alerts",
		MinHour:   MinHour,
		MaxHour:   MaxHour,
	}
}

// Scheduler schedules budget alerts, spending tips, saving opportunities and
// bill reminders on the notification substrate.
//
// A single Scheduler instance lives for the application lifetime and owns
// the initialization state. Initialization failure is never fatal: scheduling
// operations silently no-op when permission was not granted.
type Scheduler struct {
	cfg       *Config
	substrate Substrate
	engine    insight.Service
	logger    *logging.Logger
	clock     Clock

	randMu sync.Mutex
	rand   *rand.Rand

	// Telemetry
	tracer           trace.Tracer
	meter            metric.Meter
	scheduledCounter metric.Int64Counter
	cancelledCounter metric.Int64Counter

	initMu      sync.Mutex
	initDone    bool
	initGranted bool
	initWait    chan struct{}
}

// Option customizes a Scheduler.
type Option func(*Scheduler)

// WithClock injects a clock. Defaults to the system clock.
func WithClock(clock Clock) Option {
	return func(s *Scheduler) { s.clock = clock }
}

// WithRandSource injects a seedable random source so tests can assert exact
// scheduled times.
func WithRandSource(src rand.Source) Option {
	return func(s *Scheduler) { s.rand = rand.New(src) }
}

// NewScheduler creates a scheduler.
func NewScheduler(cfg *Config, substrate Substrate, engine insight.Service, logger *logging.Logger, opts ...Option) (*Scheduler, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if substrate == nil {
		return nil, errors.New("substrate is required")
	}
	if engine == nil {
		return nil, errors.New("insight engine is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if cfg.MinHour < MinHour || cfg.MaxHour > MaxHour || cfg.MinHour > cfg.MaxHour {
		return nil, fmt.Errorf("hour window [%d,%d] outside permitted [%d,%d]", cfg.MinHour, cfg.MaxHour, MinHour, MaxHour)
	}
	if cfg.ChannelID == "" {
		cfg.ChannelID = DefaultConfig().ChannelID
	}

	s := &Scheduler{
		cfg:       cfg,
		substrate: substrate,
		engine:    engine,
		logger:    logger.Named("notify"),
		clock:     SystemClock{},
		rand:      rand.New(rand.NewSource(rand.Int63())),
		tracer:    otel.Tracer(instrumentationName),
		meter:     otel.Meter(instrumentationName),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.initMetrics()

	return s, nil
}

// initMetrics initializes OpenTelemetry metrics.
func (s *Scheduler) initMetrics() {
	var err error

	s.scheduledCounter, err = s.meter.Int64Counter(
		"budgetd.notify.scheduled_total",
		metric.WithDescription("Notifications submitted to the substrate"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		s.logger.Underlying().Warn("failed to create scheduled counter", zap.Error(err))
	}

	s.cancelledCounter, err = s.meter.Int64Counter(
		"budgetd.notify.cancelled_total",
		metric.WithDescription("Notifications cancelled on the substrate"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		s.logger.Underlying().Warn("failed to create cancelled counter", zap.Error(err))
	}
}

// Ready reports whether initialization has completed with permission granted.
func (s *Scheduler) Ready() bool {
	s.initMu.Lock()
	defer s.initMu.Unlock()
	return s.initDone && s.initGranted
}

// EnsureReady initializes the substrate once and returns whether permission
// was granted. Re-entrant: once initialized it is a no-op, and concurrent
// callers share a single in-flight attempt. Never returns an error;
// initialization failure reads as permission not granted.
func (s *Scheduler) EnsureReady(ctx context.Context) bool {
	s.initMu.Lock()
	if s.initDone {
		granted := s.initGranted
		s.initMu.Unlock()
		return granted
	}
	if s.initWait != nil {
		// Another caller is initializing; wait for it.
		wait := s.initWait
		s.initMu.Unlock()
		select {
		case <-wait:
		case <-ctx.Done():
			return false
		}
		s.initMu.Lock()
		granted := s.initGranted
		s.initMu.Unlock()
		return granted
	}
	s.initWait = make(chan struct{})
	wait := s.initWait
	s.initMu.Unlock()

	granted := s.initialize(ctx)

	s.initMu.Lock()
	s.initDone = true
	s.initGranted = granted
	s.initWait = nil
	s.initMu.Unlock()
	close(wait)

	return granted
}

// initialize registers the display policy, provisions the channel and
// requests permission. Any failure logs and reads as not granted.
func (s *Scheduler) initialize(ctx context.Context) bool {
	ctx, span := s.tracer.Start(ctx, "notify.initialize")
	defer span.End()

	if err := s.substrate.SetDisplayPolicy(DisplayPolicy{
		ShowAlert: true,
		PlaySound: true,
		SetBadge:  false,
	}); err != nil {
		span.RecordError(err)
		s.logger.Warn(ctx, "failed to set display policy", zap.String("error", logging.SanitizeError(err)))
		return false
	}

	if err := s.substrate.EnsureChannel(ctx, Channel{
		ID:         s.cfg.ChannelID,
		Importance: SubstrateMax,
		Vibration:  []int{0, 250, 250, 250},
		Color:      "#FF231F7C",
	}); err != nil {
		span.RecordError(err)
		s.logger.Warn(ctx, "failed to ensure notification channel", zap.String("error", logging.SanitizeError(err)))
		return false
	}

	granted, err := s.substrate.RequestPermission(ctx)
	if err != nil {
		span.RecordError(err)
		s.logger.Warn(ctx, "notification permission request failed", zap.String("error", logging.SanitizeError(err)))
		return false
	}

	span.SetAttributes(attribute.Bool("granted", granted))
	if !granted {
		s.logger.Info(ctx, "notification permission not granted")
	}
	return granted
}

// ScheduleRandomNotifications computes a spending pattern and issues three
// independent scheduling batches: budget alerts, spending tips and saving
// opportunities. The batches run concurrently with no mutual ordering; a
// failing batch never prevents the others from completing.
func (s *Scheduler) ScheduleRandomNotifications(ctx context.Context, transactions []finance.Transaction, budgets []finance.Budget) {
	ctx, span := s.tracer.Start(ctx, "notify.schedule_random")
	defer span.End()

	if !s.EnsureReady(ctx) {
		span.SetAttributes(attribute.Bool("skipped", true))
		return
	}

	pattern := s.engine.AnalyzeSpendingPatterns(ctx, transactions, budgets)

	var wg sync.WaitGroup
	errs := make([]error, 3)
	for i, batch := range []func(context.Context, finance.SpendingPattern, []finance.Budget) error{
		s.scheduleBudgetAlerts,
		s.scheduleSpendingTips,
		s.scheduleSavingOpportunities,
	} {
		wg.Add(1)
		go func(slot int, run func(context.Context, finance.SpendingPattern, []finance.Budget) error) {
			defer wg.Done()
			errs[slot] = run(ctx, pattern, budgets)
		}(i, batch)
	}
	wg.Wait()

	if err := multierr.Combine(errs...); err != nil {
		span.RecordError(err)
		s.logger.Warn(ctx, "some notification batches failed", zap.String("error", logging.SanitizeError(err)))
	}
}

// triggersAlert reports whether a budget is at or beyond 80% spent. A zero
// budget amount makes the ratio undefined and always triggers.
func triggersAlert(b finance.Budget) bool {
	if b.Amount.IsZero() {
		return true
	}
	// spent/amount*100 >= 80, rearranged to avoid division.
	return b.Spent.Mul(hundred).GreaterThanOrEqual(b.Amount.Mul(eighty))
}

// scheduleBudgetAlerts schedules one High-priority alert per triggering
// budget at a random time inside the permitted window.
func (s *Scheduler) scheduleBudgetAlerts(ctx context.Context, pattern finance.SpendingPattern, budgets []finance.Budget) error {
	var errs error
	for _, budget := range budgets {
		if !triggersAlert(budget) {
			continue
		}
		body := s.engine.GenerateNotificationContent(ctx, pattern, budgets, insight.KindBudgetAlert)
		_, err := s.scheduleNotification(ctx, Intent{
			Title:     "Budget Alert",
			Body:      body,
			Priority:  PriorityHigh,
			PlaySound: true,
		}, AtClock(s.randomHour(), s.randomMinute()))
		errs = multierr.Append(errs, err)
	}
	return errs
}

// scheduleSpendingTips schedules 2–3 Default-priority tips on random weekdays.
func (s *Scheduler) scheduleSpendingTips(ctx context.Context, pattern finance.SpendingPattern, _ []finance.Budget) error {
	count := 2 + s.randIntn(2)
	var errs error
	for i := 0; i < count; i++ {
		body := s.engine.GenerateNotificationContent(ctx, pattern, nil, insight.KindSpendingTip)
		_, err := s.scheduleNotification(ctx, Intent{
			Title: "Spending Tip",
			Body:  body,
		}, OnWeekday(s.randomWeekday(), s.randomHour(), s.randomMinute()))
		errs = multierr.Append(errs, err)
	}
	return errs
}

// scheduleSavingOpportunities schedules 1–2 messages, same slots as tips.
func (s *Scheduler) scheduleSavingOpportunities(ctx context.Context, pattern finance.SpendingPattern, budgets []finance.Budget) error {
	count := 1 + s.randIntn(2)
	var errs error
	for i := 0; i < count; i++ {
		body := s.engine.GenerateNotificationContent(ctx, pattern, budgets, insight.KindSavingOpportunity)
		_, err := s.scheduleNotification(ctx, Intent{
			Title: "Saving Opportunity",
			Body:  body,
		}, OnWeekday(s.randomWeekday(), s.randomHour(), s.randomMinute()))
		errs = multierr.Append(errs, err)
	}
	return errs
}

// ScheduleBillReminder schedules a one-shot reminder at 09:00 local time on
// the reminder's due date. Returns the substrate identifier, or "" when the
// reminder is paid, past due, or scheduling failed. Initialization is
// attempted but its outcome deliberately not checked: without permission the
// substrate call simply never alerts the user.
func (s *Scheduler) ScheduleBillReminder(ctx context.Context, reminder finance.BillReminder) string {
	ctx = logging.WithReminderID(ctx, reminder.ID)
	ctx, span := s.tracer.Start(ctx, "notify.schedule_bill_reminder")
	defer span.End()
	span.SetAttributes(attribute.String("reminder_id", reminder.ID))

	_ = s.EnsureReady(ctx)

	if reminder.Paid {
		s.logger.Debug(ctx, "reminder already paid, not scheduling")
		return ""
	}

	// Due dates are calendar dates with no intrinsic time zone; resolve in
	// local time at the fixed reminder hour.
	now := s.clock.Now()
	due := reminder.DueDate
	dueAt := time.Date(due.Year(), due.Month(), due.Day(), 9, 0, 0, 0, now.Location())
	if !dueAt.After(now) {
		s.logger.Debug(ctx, "reminder due date already passed, not scheduling")
		return ""
	}

	id, err := s.scheduleNotification(ctx, Intent{
		Title:     "Bill Due Today",
		Body:      fmt.Sprintf("%s: $%s", reminder.Title, reminder.Amount.StringFixed(2)),
		Data:      map[string]string{reminderIDKey: reminder.ID},
		Priority:  PriorityHigh,
		PlaySound: true,
	}, AtTime(dueAt))
	if err != nil {
		return ""
	}
	return id
}

// CancelBillReminder cancels every scheduled notification referencing the
// reminder id. Idempotent: zero matches is a no-op.
func (s *Scheduler) CancelBillReminder(ctx context.Context, reminderID string) {
	ctx = logging.WithReminderID(ctx, reminderID)
	ctx, span := s.tracer.Start(ctx, "notify.cancel_bill_reminder")
	defer span.End()
	span.SetAttributes(attribute.String("reminder_id", reminderID))

	scheduled, err := s.substrate.ListScheduled(ctx)
	if err != nil {
		span.RecordError(err)
		s.logger.Warn(ctx, "failed to list scheduled notifications", zap.String("error", logging.SanitizeError(err)))
		return
	}

	cancelled := 0
	for _, item := range scheduled {
		if item.Content.Data[reminderIDKey] != reminderID {
			continue
		}
		if err := s.substrate.Cancel(ctx, item.ID); err != nil {
			span.RecordError(err)
			s.logger.Warn(ctx, "failed to cancel notification",
				zap.String("notification_id", item.ID),
				zap.String("error", logging.SanitizeError(err)))
			continue
		}
		cancelled++
	}

	if s.cancelledCounter != nil && cancelled > 0 {
		s.cancelledCounter.Add(ctx, int64(cancelled))
	}
	span.SetAttributes(attribute.Int("cancelled", cancelled))
}

// scheduleNotification resolves the spec to a future trigger and submits a
// one-shot notification. Substrate failures log and return an error; an
// out-of-window explicit hour panics before any substrate call.
func (s *Scheduler) scheduleNotification(ctx context.Context, intent Intent, spec ScheduleSpec) (string, error) {
	now := s.clock.Now()
	trigger := spec.Resolve(now)

	content := Content{
		Title:    intent.Title,
		Body:     intent.Body,
		Data:     intent.Data,
		Sound:    intent.PlaySound,
		Priority: MapPriority(intent.Priority),
	}

	id, err := s.substrate.ScheduleAt(ctx, content, trigger.Sub(now))
	if err != nil {
		s.logger.Warn(ctx, "failed to schedule notification",
			zap.String("title", intent.Title),
			zap.Time("trigger", trigger),
			zap.String("error", logging.SanitizeError(err)))
		return "", err
	}

	if s.scheduledCounter != nil {
		s.scheduledCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("priority", string(intent.Priority)),
		))
	}
	s.logger.Debug(ctx, "scheduled notification",
		zap.String("notification_id", id),
		zap.String("title", intent.Title),
		zap.Time("trigger", trigger))
	return id, nil
}

// Random slot helpers. The shared source is guarded because batches run
// concurrently.

func (s *Scheduler) randIntn(n int) int {
	s.randMu.Lock()
	defer s.randMu.Unlock()
	return s.rand.Intn(n)
}

func (s *Scheduler) randomHour() int {
	return s.cfg.MinHour + s.randIntn(s.cfg.MaxHour-s.cfg.MinHour+1)
}

func (s *Scheduler) randomMinute() int {
	return s.randIntn(60)
}

func (s *Scheduler) randomWeekday() time.Weekday {
	return time.Weekday(s.randIntn(7))
}
