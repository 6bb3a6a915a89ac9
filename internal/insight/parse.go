package insight

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sampurna-d/budget-buddy/internal/finance"
)

// patternPayload is the JSON shape the analyze prompt asks the model for.
// It is an untrusted external payload and gets validated field by field.
type patternPayload struct {
	FrequentCategories []struct {
		Category  string `json:"category"`
		Frequency int    `json:"frequency"`
	} `json:"frequentCategories"`
	AverageSpending      map[string]float64 `json:"averageSpending"`
	OverspendingTendency []string           `json:"overspendingTendency"`
	SavingOpportunities  []string           `json:"savingOpportunities"`
	MonthlyTrend         string             `json:"monthlyTrend"`
}

// parsePattern parses and validates a model response into a SpendingPattern.
// Any malformed field is an error; the caller routes it to the fallback path
// the same way it routes a network failure.
func parsePattern(content string) (finance.SpendingPattern, error) {
	// Models sometimes wrap JSON in markdown code fences.
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var payload patternPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return finance.SpendingPattern{}, fmt.Errorf("malformed pattern JSON: %w", err)
	}

	switch finance.MonthlyTrend(payload.MonthlyTrend) {
	case finance.TrendIncreasing, finance.TrendDecreasing, finance.TrendStable:
	default:
		return finance.SpendingPattern{}, fmt.Errorf("invalid monthly trend %q", payload.MonthlyTrend)
	}

	pattern := finance.SpendingPattern{
		AverageSpending: make(map[finance.Category]decimal.Decimal, len(payload.AverageSpending)),
		MonthlyTrend:    finance.MonthlyTrend(payload.MonthlyTrend),
	}

	for _, fc := range payload.FrequentCategories {
		if !finance.ValidCategory(fc.Category) {
			return finance.SpendingPattern{}, fmt.Errorf("invalid category %q in frequentCategories", fc.Category)
		}
		if fc.Frequency < 0 {
			return finance.SpendingPattern{}, fmt.Errorf("negative frequency for %q", fc.Category)
		}
		pattern.FrequentCategories = append(pattern.FrequentCategories, finance.CategoryCount{
			Category:  finance.Category(fc.Category),
			Frequency: fc.Frequency,
		})
	}

	for name, amount := range payload.AverageSpending {
		if !finance.ValidCategory(name) {
			return finance.SpendingPattern{}, fmt.Errorf("invalid category %q in averageSpending", name)
		}
		pattern.AverageSpending[finance.Category(name)] = decimal.NewFromFloat(amount)
	}

	var err error
	if pattern.OverspendingTendency, err = toCategories(payload.OverspendingTendency, "overspendingTendency"); err != nil {
		return finance.SpendingPattern{}, err
	}
	if pattern.SavingOpportunities, err = toCategories(payload.SavingOpportunities, "savingOpportunities"); err != nil {
		return finance.SpendingPattern{}, err
	}

	return pattern, nil
}

func toCategories(names []string, field string) ([]finance.Category, error) {
	out := make([]finance.Category, 0, len(names))
	for _, name := range names {
		if !finance.ValidCategory(name) {
			return nil, fmt.Errorf("invalid category %q in %s", name, field)
		}
		out = append(out, finance.Category(name))
	}
	return out, nil
}
