package extractor

import (
	"regexp"
	"strings"
)

// currencyTokens lists every currency marker recognised in front of an amount.
var currencyTokens = []string{"USD", "EUR", "GBP", "ZAR", "JPY", "CAD", "ZWG", "ZWL", "$", "€"}

// Building blocks shared by the amount and balance patterns.
var (
	currencyPattern = currencyAlternation(currencyTokens)
	datePattern     = `\d{2}-[A-Za-z]{3}-\d{2}`

	// grouped thousands or a plain digit run, exactly two decimals, and
	// nothing word-like directly after the last digit
	amountPattern = `((?:\d{1,3}(?:,\d{3})+|\d+)\.\d{2})\b`
)

// Field patterns. Each one runs against the whole message and only its
// first match is used.
var (
	// "ac 123**456"
	accountPattern = regexp.MustCompile(`ac (\d{3}\*\*\d{3})`)
	// "USD 1,500.00", "$12.50"
	currencyAmountPattern = regexp.MustCompile(currencyPattern + `\s*` + amountPattern)
	// "REF:TXN789"
	referencePattern = regexp.MustCompile(`REF:(\S+)`)
	// text between the reference token and "on DD-MMM-YY"
	merchantPattern = regexp.MustCompile(`REF:\S+\s+(.*?)\s+on ` + datePattern)
	// "on 15-Mar-24"
	datePatternRe = regexp.MustCompile(`on (` + datePattern + `)`)
	// "Available Balance is USD 500.00"
	balancePattern = regexp.MustCompile(`Available Balance is ` + currencyPattern + `\s*` + amountPattern)
)

func currencyAlternation(tokens []string) string {
	quoted := make([]string, len(tokens))
	for i, token := range tokens {
		quoted[i] = regexp.QuoteMeta(token)
	}
	return "(" + strings.Join(quoted, "|") + ")"
}

// stripSeparators removes thousands separators from a matched amount.
func stripSeparators(amount string) string {
	return strings.ReplaceAll(amount, ",", "")
}

// CurrencyTokens returns the recognised currency markers in match order.
func CurrencyTokens() []string {
	tokens := make([]string, len(currencyTokens))
	copy(tokens, currencyTokens)
	return tokens
}
