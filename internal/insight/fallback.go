package insight

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/sampurna-d/budget-buddy/internal/finance"
)

// savingThreshold: spent beyond 80% of a budget counts as a saving
// opportunity.
var savingThreshold = decimal.NewFromFloat(0.8)

// fallbackPattern derives a SpendingPattern without the completion endpoint.
// Deterministic over its inputs: category counts come from the transactions
// (keyword-classified when unset), spend figures straight from the budgets,
// and the trend is pinned to Stable since no historical series is available.
func fallbackPattern(transactions []finance.Transaction, budgets []finance.Budget) finance.SpendingPattern {
	counts := make(map[finance.Category]int)
	var order []finance.Category // first-seen order, the stable tie-break

	for _, tx := range transactions {
		category := tx.Category
		if category == "" {
			category = ClassifyKeywords(tx.Description)
		}
		if _, seen := counts[category]; !seen {
			order = append(order, category)
		}
		counts[category]++
	}

	frequent := make([]finance.CategoryCount, 0, len(order))
	for _, category := range order {
		frequent = append(frequent, finance.CategoryCount{Category: category, Frequency: counts[category]})
	}
	sort.SliceStable(frequent, func(i, j int) bool {
		return frequent[i].Frequency > frequent[j].Frequency
	})

	average := make(map[finance.Category]decimal.Decimal, len(budgets))
	for _, b := range budgets {
		average[b.Category] = b.Spent
	}
	// Categories seen in transactions but absent from the budget list read as 0.
	for _, category := range order {
		if _, ok := average[category]; !ok {
			average[category] = decimal.Zero
		}
	}

	var overspending, savings []finance.Category
	for _, b := range budgets {
		if b.Spent.GreaterThan(b.Amount) {
			overspending = append(overspending, b.Category)
		}
		if b.Spent.GreaterThan(b.Amount.Mul(savingThreshold)) {
			savings = append(savings, b.Category)
		}
	}

	return finance.SpendingPattern{
		FrequentCategories:   frequent,
		AverageSpending:      average,
		OverspendingTendency: overspending,
		SavingOpportunities:  savings,
		MonthlyTrend:         finance.TrendStable,
	}
}
