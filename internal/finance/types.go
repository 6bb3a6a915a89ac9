// Package finance defines the domain records shared by the insight engine,
// the notification scheduler, and the record store client.
package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is one of the fixed budget categories.
type Category string

// The fixed category set. CategoryOther is the catch-all for anything the
// classifier (AI or keyword fallback) cannot place.
const (
	CategoryFoodDining       Category = "Food & Dining"
	CategoryTransportation   Category = "Transportation"
	CategoryHousingUtilities Category = "Housing & Utilities"
	CategoryEntertainment    Category = "Entertainment"
	CategoryShopping         Category = "Shopping"
	CategoryHealthcare       Category = "Healthcare"
	CategoryOther            Category = "Other"
)

// Categories lists every valid category in a stable order.
func Categories() []Category {
	return []Category{
		CategoryFoodDining,
		CategoryTransportation,
		CategoryHousingUtilities,
		CategoryEntertainment,
		CategoryShopping,
		CategoryHealthcare,
		CategoryOther,
	}
}

// ValidCategory reports whether s exactly matches one of the fixed categories.
func ValidCategory(s string) bool {
	for _, c := range Categories() {
		if string(c) == s {
			return true
		}
	}
	return false
}

// Transaction is a single bank or manually-entered transaction.
// Category is empty until a classifier assigns one.
type Transaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Category    Category        `json:"category,omitempty"`
}

// Budget is a monthly budget for one category.
type Budget struct {
	Category Category        `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Spent    decimal.Decimal `json:"spent"`
}

// RecurringPeriod is how often a recurring bill repeats.
type RecurringPeriod string

const (
	RecurWeekly  RecurringPeriod = "weekly"
	RecurMonthly RecurringPeriod = "monthly"
	RecurYearly  RecurringPeriod = "yearly"
)

// BillReminder is a bill the user wants to be reminded about. The record
// store owns this record; the scheduler never mutates it.
type BillReminder struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	Title           string          `json:"title"`
	Amount          decimal.Decimal `json:"amount"`
	DueDate         time.Time       `json:"due_date"`
	Recurring       bool            `json:"recurring"`
	RecurringPeriod RecurringPeriod `json:"recurring_period,omitempty"`
	Paid            bool            `json:"paid"`
}

// NextDueDate returns the reminder's first due date strictly after the given
// time, advancing by the recurring period. Returns the zero time for
// non-recurring reminders.
func (b BillReminder) NextDueDate(after time.Time) time.Time {
	if !b.Recurring {
		return time.Time{}
	}
	due := b.DueDate
	for !due.After(after) {
		switch b.RecurringPeriod {
		case RecurWeekly:
			due = due.AddDate(0, 0, 7)
		case RecurMonthly:
			due = due.AddDate(0, 1, 0)
		case RecurYearly:
			due = due.AddDate(1, 0, 0)
		default:
			return time.Time{}
		}
	}
	return due
}

// MonthlyTrend summarizes the direction of recent spending.
type MonthlyTrend string

const (
	TrendIncreasing MonthlyTrend = "increasing"
	TrendDecreasing MonthlyTrend = "decreasing"
	TrendStable     MonthlyTrend = "stable"
)

// CategoryCount pairs a category with how often it occurred.
type CategoryCount struct {
	Category  Category `json:"category"`
	Frequency int      `json:"frequency"`
}

// SpendingPattern is a derived summary of recent spending. It is recomputed
// on demand and never persisted.
type SpendingPattern struct {
	FrequentCategories   []CategoryCount              `json:"frequentCategories"`
	AverageSpending      map[Category]decimal.Decimal `json:"averageSpending"`
	OverspendingTendency []Category                   `json:"overspendingTendency"`
	SavingOpportunities  []Category                   `json:"savingOpportunities"`
	MonthlyTrend         MonthlyTrend                 `json:"monthlyTrend"`
}
