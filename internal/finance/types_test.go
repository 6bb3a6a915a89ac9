package finance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidCategory(t *testing.T) {
	for _, c := range Categories() {
		assert.True(t, ValidCategory(string(c)), "category %q should be valid", c)
	}
	assert.False(t, ValidCategory("Groceries"))
	assert.False(t, ValidCategory(""))
	assert.False(t, ValidCategory("food & dining")) // exact match only
}

func TestNextDueDate_NonRecurring(t *testing.T) {
	b := BillReminder{DueDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
	assert.True(t, b.NextDueDate(time.Now()).IsZero())
}

func TestNextDueDate_Periods(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	after := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		period RecurringPeriod
		want   time.Time
	}{
		{RecurWeekly, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
		{RecurMonthly, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)},
		{RecurYearly, time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			b := BillReminder{DueDate: due, Recurring: true, RecurringPeriod: tt.period}
			assert.Equal(t, tt.want, b.NextDueDate(after))
		})
	}
}

func TestNextDueDate_AlreadyFuture(t *testing.T) {
	due := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	b := BillReminder{DueDate: due, Recurring: true, RecurringPeriod: RecurWeekly}
	// Due date already past "after": unchanged.
	assert.Equal(t, due, b.NextDueDate(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)))
}

func TestNextDueDate_UnknownPeriod(t *testing.T) {
	b := BillReminder{
		DueDate:         time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Recurring:       true,
		RecurringPeriod: RecurringPeriod("fortnightly"),
	}
	assert.True(t, b.NextDueDate(time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)).IsZero())
}
