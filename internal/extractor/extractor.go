// Package extractor pulls transaction fields out of free-text SMS
// notifications sent by banks and wallets.
//
// Every field has its own pattern that is applied to the whole message.
// Patterns never share match state and never short-circuit each other: a
// message that matches nothing still produces an Extraction in which every
// field is absent. Extraction never fails.
//
// Recognised fields:
//   - account number:   "ac 123**456"
//   - currency, amount: "USD 1,500.00", "$ 12.50", "€3.10"
//   - reference:        "REF:TXN789"
//   - merchant:         text between the reference and "on DD-MMM-YY"
//   - date:             "on 15-Mar-24"
//   - balance:          "Available Balance is USD 500.00"
//
// Example usage:
//
//	ex := extractor.New()
//	fields := ex.Extract("Dear Customer, your ac 123**456 has been Debited USD 1500.00 ...")
//	fields.AccountNumber.Value() // "123**456"
package extractor

import (
	"regexp"

	"sms-transaction-extractor/internal/models"
	"sms-transaction-extractor/pkg/logger"
)

// Extraction holds the first match of every field pattern. Absent fields
// did not match.
type Extraction struct {
	AccountNumber   models.Field
	Currency        models.Field
	Amount          models.Field
	Reference       models.Field
	Merchant        models.Field
	Date            models.Field
	BalanceCurrency models.Field
	BalanceAmount   models.Field
}

// Matched returns the names of the fields that were found, in declaration order.
func (e *Extraction) Matched() []string {
	var names []string
	for _, f := range []struct {
		name  string
		field models.Field
	}{
		{"account_number", e.AccountNumber},
		{"currency", e.Currency},
		{"amount", e.Amount},
		{"reference", e.Reference},
		{"merchant", e.Merchant},
		{"date", e.Date},
		{"balance_currency", e.BalanceCurrency},
		{"balance_amount", e.BalanceAmount},
	} {
		if f.field.IsPresent() {
			names = append(names, f.name)
		}
	}
	return names
}

// Extractor applies the field patterns to messages
type Extractor struct {
	logger logger.Logger
}

// New creates an Extractor that logs through the global logger
func New() *Extractor {
	return &Extractor{
		logger: logger.GetGlobalLogger().WithComponent("extractor"),
	}
}

// Extract applies every field pattern independently to message
func (x *Extractor) Extract(message string) *Extraction {
	result := &Extraction{
		AccountNumber: firstGroup(accountPattern, message, 1),
		Reference:     firstGroup(referencePattern, message, 1),
		Merchant:      firstGroup(merchantPattern, message, 1),
		Date:          firstGroup(datePatternRe, message, 1),
	}

	if m := currencyAmountPattern.FindStringSubmatch(message); m != nil {
		result.Currency = models.Some(m[1])
		result.Amount = models.Some(stripSeparators(m[2]))
	}

	if m := balancePattern.FindStringSubmatch(message); m != nil {
		result.BalanceCurrency = models.Some(m[1])
		result.BalanceAmount = models.Some(stripSeparators(m[2]))
	}

	x.logger.WithFields(logger.Fields{
		"matched":        result.Matched(),
		"message_length": len(message),
	}).Debug("Extracted fields")

	return result
}

func firstGroup(re *regexp.Regexp, s string, group int) models.Field {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return models.None()
	}
	return models.Some(m[group])
}
