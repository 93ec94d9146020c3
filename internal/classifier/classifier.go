// Package classifier derives the direction and spending category of a
// transaction from message text.
//
// Both decisions are driven by ordered tables of case-insensitive keyword
// rules. The first rule whose keyword occurs in the text wins, so a text
// that contains several keywords is classified by the earliest rule.
package classifier

import (
	"strings"

	"sms-transaction-extractor/internal/models"
)

// Category names produced by Category.
const (
	CategoryUnknown   = "Unknown"
	CategoryGroceries = "Groceries"
	CategoryFuel      = "Fuel"
	CategoryAirtime   = "Airtime"
	CategoryUtilities = "Utilities"
	CategoryDining    = "Dining"
	CategoryShopping  = "Shopping"
	CategoryOthers    = "Others"
)

// CategoryRule maps a merchant keyword to a category
type CategoryRule struct {
	Keyword  string `json:"keyword"`
	Category string `json:"category"`
}

// DirectionRule maps a message keyword to a transaction direction
type DirectionRule struct {
	Keyword string                 `json:"keyword"`
	Type    models.TransactionType `json:"type"`
}

// categoryRules is consulted in order when a merchant is present.
var categoryRules = []CategoryRule{
	{Keyword: "grocery", Category: CategoryGroceries},
	{Keyword: "fuel", Category: CategoryFuel},
	{Keyword: "airtime", Category: CategoryAirtime},
	{Keyword: "electricity", Category: CategoryUtilities},
	{Keyword: "restaurant", Category: CategoryDining},
	{Keyword: "shop", Category: CategoryShopping},
}

// directionRules is consulted in order against the whole message.
var directionRules = []DirectionRule{
	{Keyword: "debited", Type: models.TransactionTypeDebit},
	{Keyword: "credited", Type: models.TransactionTypeCredit},
}

// Direction returns DEBIT if the message mentions "Debited", else CREDIT if
// it mentions "Credited", else TransactionTypeNone. Matching ignores case.
func Direction(message string) models.TransactionType {
	lower := strings.ToLower(message)
	for _, rule := range directionRules {
		if strings.Contains(lower, rule.Keyword) {
			return rule.Type
		}
	}
	return models.TransactionTypeNone
}

// Category classifies merchant text. An absent merchant is Unknown; a
// merchant matching no rule is Others. The result is never empty.
func Category(merchant models.Field) string {
	if !merchant.IsPresent() {
		return CategoryUnknown
	}

	lower := strings.ToLower(merchant.Value())
	for _, rule := range categoryRules {
		if strings.Contains(lower, rule.Keyword) {
			return rule.Category
		}
	}
	return CategoryOthers
}

// CategoryRules returns a copy of the category table in priority order
func CategoryRules() []CategoryRule {
	rules := make([]CategoryRule, len(categoryRules))
	copy(rules, categoryRules)
	return rules
}

// DirectionRules returns a copy of the direction table in priority order
func DirectionRules() []DirectionRule {
	rules := make([]DirectionRule, len(directionRules))
	copy(rules, directionRules)
	return rules
}

// Categories returns every category Category can produce
func Categories() []string {
	names := []string{CategoryUnknown}
	for _, rule := range categoryRules {
		names = append(names, rule.Category)
	}
	return append(names, CategoryOthers)
}
