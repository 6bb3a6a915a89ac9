package notify

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sampurna-d/budget-buddy/internal/finance"
	"github.com/sampurna-d/budget-buddy/internal/logging"
)

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

var testNow = time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

func newTestScheduler(t *testing.T, substrate Substrate) *Scheduler {
	t.Helper()
	s, err := NewScheduler(nil, substrate, &stubEngine{}, logging.NewTestLogger().Logger,
		WithClock(&fakeClock{now: testNow}),
		WithRandSource(rand.NewSource(1)),
	)
	require.NoError(t, err)
	return s
}

func TestNewScheduler_RequiresSubstrate(t *testing.T) {
	_, err := NewScheduler(nil, nil, &stubEngine{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "substrate is required")
}

func TestNewScheduler_RequiresEngine(t *testing.T) {
	_, err := NewScheduler(nil, newMockSubstrate(), nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insight engine is required")
}

func TestNewScheduler_RejectsWideHourWindow(t *testing.T) {
	cfg := &Config{ChannelID: "c", MinHour: 7, MaxHour: 22}
	_, err := NewScheduler(cfg, newMockSubstrate(), &stubEngine{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hour window")
}

func TestEnsureReady_Granted(t *testing.T) {
	sub := newMockSubstrate()
	s := newTestScheduler(t, sub)

	assert.False(t, s.Ready())
	assert.True(t, s.EnsureReady(context.Background()))
	assert.True(t, s.Ready())

	require.NotNil(t, sub.policy)
	assert.True(t, sub.policy.ShowAlert)
	assert.True(t, sub.policy.PlaySound)
	assert.False(t, sub.policy.SetBadge)
	require.Len(t, sub.channels, 1)
	assert.Equal(t, "budget-alerts", sub.channels[0].ID)
}

func TestEnsureReady_Reentrant(t *testing.T) {
	sub := newMockSubstrate()
	s := newTestScheduler(t, sub)

	assert.True(t, s.EnsureReady(context.Background()))
	assert.True(t, s.EnsureReady(context.Background()))
	assert.Equal(t, 1, sub.permissionCalls)
}

func TestEnsureReady_ConcurrentSingleAttempt(t *testing.T) {
	sub := newMockSubstrate()
	s := newTestScheduler(t, sub)

	var wg sync.WaitGroup
	results := make([]bool, 8)
	for i := range results {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			results[slot] = s.EnsureReady(context.Background())
		}(i)
	}
	wg.Wait()

	for _, granted := range results {
		assert.True(t, granted)
	}
	assert.Equal(t, 1, sub.permissionCalls, "registration side effects must run once")
}

func TestEnsureReady_DeniedNeverThrows(t *testing.T) {
	sub := newMockSubstrate()
	sub.granted = false
	s := newTestScheduler(t, sub)

	assert.False(t, s.EnsureReady(context.Background()))
	assert.False(t, s.Ready())
}

func TestEnsureReady_SubstrateErrorReadsAsDenied(t *testing.T) {
	sub := newMockSubstrate()
	sub.permissionErr = errors.New("substrate down")
	s := newTestScheduler(t, sub)

	assert.NotPanics(t, func() {
		assert.False(t, s.EnsureReady(context.Background()))
	})
}

func TestTriggersAlert(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		spent  float64
		want   bool
	}{
		{"well under", 100, 50, false},
		{"exactly 80 percent", 100, 80, true},
		{"just under", 100, 79.99, false},
		{"over budget", 100, 150, true},
		{"zero amount always triggers", 0, 0, true},
		{"zero amount with spend", 0, 10, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := finance.Budget{Category: finance.CategoryFoodDining, Amount: dec(tt.amount), Spent: dec(tt.spent)}
			assert.Equal(t, tt.want, triggersAlert(b))
		})
	}
}

func TestScheduleRandomNotifications(t *testing.T) {
	sub := newMockSubstrate()
	s := newTestScheduler(t, sub)

	budgets := []finance.Budget{
		{Category: finance.CategoryFoodDining, Amount: dec(100), Spent: dec(90)},        // triggers
		{Category: finance.CategoryHousingUtilities, Amount: dec(500), Spent: dec(100)}, // does not
	}
	s.ScheduleRandomNotifications(context.Background(), nil, budgets)

	calls := sub.scheduledCalls()

	var alerts, tips, opportunities int
	for _, call := range calls {
		switch call.content.Title {
		case "Budget Alert":
			alerts++
			assert.Equal(t, SubstrateHigh, call.content.Priority)
		case "Spending Tip":
			tips++
			assert.Equal(t, SubstrateDefault, call.content.Priority)
		case "Saving Opportunity":
			opportunities++
			assert.Equal(t, SubstrateDefault, call.content.Priority)
		default:
			t.Errorf("unexpected notification title %q", call.content.Title)
		}
		assert.Positive(t, call.delay, "trigger must be strictly in the future")
	}

	assert.Equal(t, 1, alerts, "one budget is at 90%%")
	assert.GreaterOrEqual(t, tips, 2)
	assert.LessOrEqual(t, tips, 3)
	assert.GreaterOrEqual(t, opportunities, 1)
	assert.LessOrEqual(t, opportunities, 2)
}

func TestScheduleRandomNotifications_DeniedIsSilent(t *testing.T) {
	sub := newMockSubstrate()
	sub.granted = false
	s := newTestScheduler(t, sub)

	s.ScheduleRandomNotifications(context.Background(), nil, []finance.Budget{
		{Category: finance.CategoryFoodDining, Amount: dec(100), Spent: dec(95)},
	})

	assert.Empty(t, sub.scheduledCalls())
}

func TestScheduleRandomNotifications_BatchFailuresIsolated(t *testing.T) {
	sub := newMockSubstrate()
	sub.scheduleErr = errors.New("substrate rejected")
	s := newTestScheduler(t, sub)

	// No batch failure may escape as a panic or error to the caller.
	assert.NotPanics(t, func() {
		s.ScheduleRandomNotifications(context.Background(), nil, []finance.Budget{
			{Category: finance.CategoryFoodDining, Amount: dec(100), Spent: dec(95)},
		})
	})
}

func TestScheduleBillReminder(t *testing.T) {
	sub := newMockSubstrate()
	s := newTestScheduler(t, sub)

	reminder := finance.BillReminder{
		ID:      "rem-1",
		Title:   "Electric bill",
		Amount:  dec(84.5),
		DueDate: time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC),
	}
	id := s.ScheduleBillReminder(context.Background(), reminder)
	require.NotEmpty(t, id)

	calls := sub.scheduledCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "Bill Due Today", calls[0].content.Title)
	assert.Equal(t, "Electric bill: $84.50", calls[0].content.Body)
	assert.Equal(t, "rem-1", calls[0].content.Data["reminderId"])
	// Due 2026-09-03 09:00, now 2026-09-01 08:00: 49 hours out.
	assert.Equal(t, 49*time.Hour, calls[0].delay)
}

func TestScheduleBillReminder_PaidSuppressed(t *testing.T) {
	sub := newMockSubstrate()
	tl := logging.NewTestLogger()
	s, err := NewScheduler(nil, sub, &stubEngine{}, tl.Logger,
		WithClock(&fakeClock{now: testNow}),
		WithRandSource(rand.NewSource(1)),
	)
	require.NoError(t, err)

	reminder := finance.BillReminder{
		ID:      "rem-2",
		Title:   "Rent",
		Amount:  dec(1200),
		DueDate: time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC), // future
		Paid:    true,
	}
	assert.Empty(t, s.ScheduleBillReminder(context.Background(), reminder))
	assert.Empty(t, sub.scheduledCalls())
	tl.AssertLoggedForReminder(t, "already paid", "rem-2")
}

func TestScheduleBillReminder_PastDueSuppressed(t *testing.T) {
	sub := newMockSubstrate()
	s := newTestScheduler(t, sub)

	reminder := finance.BillReminder{
		ID:      "rem-3",
		Title:   "Water",
		Amount:  dec(30),
		DueDate: testNow.AddDate(0, 0, -1), // yesterday
	}
	assert.Empty(t, s.ScheduleBillReminder(context.Background(), reminder))
	assert.Empty(t, sub.scheduledCalls())
}

func TestScheduleBillReminder_DueTodayBeforeNine(t *testing.T) {
	// Now is 08:00; 09:00 today is still in the future.
	sub := newMockSubstrate()
	s := newTestScheduler(t, sub)

	reminder := finance.BillReminder{
		ID:      "rem-4",
		Title:   "Internet",
		Amount:  dec(60),
		DueDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}
	id := s.ScheduleBillReminder(context.Background(), reminder)
	require.NotEmpty(t, id)

	calls := sub.scheduledCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, time.Hour, calls[0].delay)
}

func TestScheduleBillReminder_ProceedsWithoutPermission(t *testing.T) {
	sub := newMockSubstrate()
	sub.granted = false
	s := newTestScheduler(t, sub)

	reminder := finance.BillReminder{
		ID:      "rem-5",
		Title:   "Phone",
		Amount:  dec(45),
		DueDate: time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
	}
	// Initialization outcome is deliberately not checked here.
	assert.NotEmpty(t, s.ScheduleBillReminder(context.Background(), reminder))
}

func TestScheduleBillReminder_SubstrateFailure(t *testing.T) {
	sub := newMockSubstrate()
	sub.scheduleErr = errors.New("boom")
	s := newTestScheduler(t, sub)

	reminder := finance.BillReminder{
		ID:      "rem-6",
		Title:   "Gym",
		Amount:  dec(25),
		DueDate: time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
	}
	assert.Empty(t, s.ScheduleBillReminder(context.Background(), reminder))
}

func TestCancelBillReminder(t *testing.T) {
	sub := newMockSubstrate()
	s := newTestScheduler(t, sub)

	first := s.ScheduleBillReminder(context.Background(), finance.BillReminder{
		ID: "rem-a", Title: "A", Amount: dec(10), DueDate: time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC),
	})
	second := s.ScheduleBillReminder(context.Background(), finance.BillReminder{
		ID: "rem-b", Title: "B", Amount: dec(20), DueDate: time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
	})
	require.NotEmpty(t, first)
	require.NotEmpty(t, second)

	s.CancelBillReminder(context.Background(), "rem-a")

	assert.Equal(t, []string{first}, sub.cancelledIDs())
	remaining, err := sub.ListScheduled(context.Background())
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, second, remaining[0].ID)
}

// Canceling a reminder with zero matching notifications is a no-op, not an
// error, and performs zero substrate cancel calls.
func TestCancelBillReminder_Idempotent(t *testing.T) {
	sub := newMockSubstrate()
	s := newTestScheduler(t, sub)

	assert.NotPanics(t, func() {
		s.CancelBillReminder(context.Background(), "rem-none")
	})
	assert.Empty(t, sub.cancelledIDs())
}

func TestCancelBillReminder_ListFailure(t *testing.T) {
	sub := newMockSubstrate()
	sub.listErr = errors.New("unavailable")
	s := newTestScheduler(t, sub)

	assert.NotPanics(t, func() {
		s.CancelBillReminder(context.Background(), "rem-x")
	})
	assert.Empty(t, sub.cancelledIDs())
}

func TestScheduleNotification_PanicsBeforeSubstrateCall(t *testing.T) {
	sub := newMockSubstrate()
	s := newTestScheduler(t, sub)

	assert.Panics(t, func() {
		_, _ = s.scheduleNotification(context.Background(), Intent{Title: "x"}, AtClock(21, 0))
	})
	assert.Empty(t, sub.scheduledCalls(), "substrate must not be reached on contract violation")
}

func TestScheduler_SeededRandomIsDeterministic(t *testing.T) {
	run := func() []scheduledCall {
		sub := newMockSubstrate()
		s, err := NewScheduler(nil, sub, &stubEngine{}, nil,
			WithClock(&fakeClock{now: testNow}),
			WithRandSource(rand.NewSource(42)),
		)
		require.NoError(t, err)
		// Single batch to keep the draw order sequential.
		require.NoError(t, s.scheduleSpendingTips(context.Background(), finance.SpendingPattern{}, nil))
		return sub.scheduledCalls()
	}

	a, b := run(), run()
	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].delay, b[i].delay)
	}
}
