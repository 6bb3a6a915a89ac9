package insight

import (
	"regexp"
	"strings"

	"github.com/sampurna-d/budget-buddy/internal/finance"
)

// keywordRule maps a description pattern to a category. Rules are evaluated
// in order; first match wins.
type keywordRule struct {
	regex    *regexp.Regexp
	category finance.Category
}

var keywordRules = []keywordRule{
	{
		regexp.MustCompile(`restaurant|cafe|coffee|pizza|burger|grocer|food|dining|lunch|dinner|breakfast|bakery|starbucks|mcdonald|doordash|grubhub`),
		finance.CategoryFoodDining,
	},
	{
		regexp.MustCompile(`uber|lyft|taxi|bus|train|metro|transit|fuel|gas|parking|toll|flight|airline`),
		finance.CategoryTransportation,
	},
	{
		regexp.MustCompile(`rent|mortgage|electric|water bill|internet|utility|utilities|phone bill|cable|hoa`),
		finance.CategoryHousingUtilities,
	},
	{
		regexp.MustCompile(`netflix|spotify|hulu|disney|movie|cinema|theater|concert|game|gaming|steam`),
		finance.CategoryEntertainment,
	},
}

// ClassifyKeywords categorizes a transaction description with keyword rules.
// This is the deterministic fallback for the AI path: pure, total, and never
// returns anything outside the fixed category set.
func ClassifyKeywords(description string) finance.Category {
	desc := strings.ToLower(description)
	for _, rule := range keywordRules {
		if rule.regex.MatchString(desc) {
			return rule.category
		}
	}
	return finance.CategoryOther
}
