package insight

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sampurna-d/budget-buddy/internal/finance"
)

// categorizePrompt instructs the model to answer with exactly one category name.
const categorizePrompt = `You are a personal finance assistant. Categorize the transaction into exactly one of the following categories:

%s

Respond with the category name only, nothing else. If none fits, respond with "Other".`

func buildCategorizeUser(description string, amount decimal.Decimal) string {
	return fmt.Sprintf("Transaction: %q, amount: %s", description, amount.StringFixed(2))
}

func categoryList() string {
	names := make([]string, 0, len(finance.Categories()))
	for _, c := range finance.Categories() {
		names = append(names, "- "+string(c))
	}
	return strings.Join(names, "\n")
}

// analyzePrompt embeds the expected response shape so the model mirrors it.
const analyzePrompt = `You are a personal finance assistant. Analyze the user's transactions and budgets and summarize their spending patterns.

Respond ONLY with a JSON object of exactly this shape:

{
  "frequentCategories": [{"category": "Food & Dining", "frequency": 5}],
  "averageSpending": {"Food & Dining": 120.50},
  "overspendingTendency": ["Entertainment"],
  "savingOpportunities": ["Food & Dining"],
  "monthlyTrend": "stable"
}

"monthlyTrend" must be one of "increasing", "decreasing", "stable". Category names must come from this list:

%s`

func buildAnalyzeUser(transactions []finance.Transaction, budgets []finance.Budget) string {
	var b strings.Builder
	b.WriteString("Transactions:\n")
	for _, tx := range transactions {
		fmt.Fprintf(&b, "- %s: %s", tx.Description, tx.Amount.StringFixed(2))
		if tx.Category != "" {
			fmt.Fprintf(&b, " (%s)", tx.Category)
		}
		b.WriteString("\n")
	}
	b.WriteString("\nBudgets:\n")
	for _, budget := range budgets {
		fmt.Fprintf(&b, "- %s: %s budgeted, %s spent\n",
			budget.Category, budget.Amount.StringFixed(2), budget.Spent.StringFixed(2))
	}
	return b.String()
}

// generatePrompt asks for one short push-notification message.
const generatePrompt = `You are a personal finance assistant writing a single short push notification (max two sentences). Be friendly and concrete, no emoji, no preamble.`

func buildGenerateUser(pattern finance.SpendingPattern, budgets []finance.Budget, kind Kind) string {
	var b strings.Builder
	switch kind {
	case KindBudgetAlert:
		b.WriteString("Write a budget alert warning the user they are close to or over budget.\n")
	case KindSpendingTip:
		b.WriteString("Write a practical spending tip based on the user's habits.\n")
	case KindSavingOpportunity:
		b.WriteString("Write a message pointing out a saving opportunity.\n")
	default:
		b.WriteString("Write a short helpful note about the user's finances.\n")
	}

	if len(pattern.FrequentCategories) > 0 {
		b.WriteString("Most frequent categories:")
		for _, fc := range pattern.FrequentCategories {
			fmt.Fprintf(&b, " %s(%d)", fc.Category, fc.Frequency)
		}
		b.WriteString("\n")
	}
	if len(pattern.OverspendingTendency) > 0 {
		fmt.Fprintf(&b, "Overspending in: %s\n", joinCategories(pattern.OverspendingTendency))
	}
	if len(pattern.SavingOpportunities) > 0 {
		fmt.Fprintf(&b, "Saving opportunities in: %s\n", joinCategories(pattern.SavingOpportunities))
	}
	fmt.Fprintf(&b, "Monthly trend: %s\n", pattern.MonthlyTrend)

	for _, budget := range budgets {
		fmt.Fprintf(&b, "Budget %s: %s of %s spent\n",
			budget.Category, budget.Spent.StringFixed(2), budget.Amount.StringFixed(2))
	}
	return b.String()
}

func joinCategories(categories []finance.Category) string {
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}
