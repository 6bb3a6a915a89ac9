package insight

// Kind identifies the flavor of generated notification copy.
type Kind string

const (
	KindBudgetAlert       Kind = "budget_alert"
	KindSpendingTip       Kind = "spending_tip"
	KindSavingOpportunity Kind = "saving_opportunity"
)

// fallbackCopy is the static notification text used when the completion
// endpoint is unavailable or returns nothing usable.
var fallbackCopy = map[Kind]string{
	KindBudgetAlert:       "You're close to the limit on one of your budgets. Take a look before your next purchase.",
	KindSpendingTip:       "Small daily purchases add up fast. Review this week's transactions and see what you can trim.",
	KindSavingOpportunity: "You're under budget in some categories. Consider moving the difference into savings.",
}

// FallbackCopy returns the static text for a notification kind. Unknown
// kinds get the spending-tip text so callers always receive something.
func FallbackCopy(kind Kind) string {
	if text, ok := fallbackCopy[kind]; ok {
		return text
	}
	return fallbackCopy[KindSpendingTip]
}
