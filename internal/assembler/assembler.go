// Package assembler turns one SMS notification into a TransactionInfo record.
//
// It runs the field extractor, classifies the result, builds the account,
// balance and transaction values with their fallbacks, and finally hands the
// transaction to the large-debit evaluator. Records are returned to the
// caller and never retained here.
package assembler

import (
	"strings"

	"sms-transaction-extractor/internal/alert"
	"sms-transaction-extractor/internal/classifier"
	"sms-transaction-extractor/internal/extractor"
	"sms-transaction-extractor/internal/models"
	"sms-transaction-extractor/pkg/errors"
	"sms-transaction-extractor/pkg/logger"
)

// Assembler builds records from messages
type Assembler struct {
	extractor *extractor.Extractor
	evaluator *alert.Evaluator
	logger    logger.Logger
}

// New creates an Assembler. A nil evaluator disables large-debit alerts.
func New(evaluator *alert.Evaluator) *Assembler {
	return &Assembler{
		extractor: extractor.New(),
		evaluator: evaluator,
		logger:    logger.GetGlobalLogger().WithComponent("assembler"),
	}
}

// Assemble parses message into a record. Only a blank message is an error;
// every missing field degrades to its fallback.
func (a *Assembler) Assemble(message string) (*models.TransactionInfo, error) {
	if strings.TrimSpace(message) == "" {
		return nil, errors.ValidationError(errors.CodeMissingField, "message", message, nil)
	}

	fields := a.extractor.Extract(message)
	info := Build(fields, classifier.Direction(message))

	if a.evaluator != nil && a.evaluator.Evaluate(info.Transaction) {
		a.logger.WithField("amount", info.Transaction.Amount).Debug("Large debit alert raised")
	}

	a.logger.WithFields(logger.Fields{
		"account_type": info.Account.Type,
		"direction":    info.Transaction.Type.String(),
		"category":     info.Transaction.Category,
	}).Debug("Assembled record")

	return info, nil
}

// Build composes a record from extracted fields and a detected direction.
func Build(fields *extractor.Extraction, direction models.TransactionType) *models.TransactionInfo {
	return &models.TransactionInfo{
		Account: models.NewAccountInfo(fields.AccountNumber),
		Balance: &models.Balance{
			Available:   BalanceText(fields.BalanceCurrency, fields.BalanceAmount),
			Outstanding: models.None(),
		},
		Transaction: models.Transaction{
			Type:        direction,
			Amount:      AmountText(fields.Currency, fields.Amount),
			ReferenceNo: fields.Reference,
			Merchant:    fields.Merchant,
			Currency:    fields.Currency,
			Date:        fields.Date,
			Category:    classifier.Category(fields.Merchant),
		},
	}
}

// AmountText joins currency and amount with a space. Absent parts render as
// "null", so a message without an amount yields "null null".
func AmountText(currency, amount models.Field) string {
	return currency.String() + " " + amount.String()
}

// BalanceText joins currency and amount with a space. Absent parts render as
// empty strings, so a message without a balance yields " ".
func BalanceText(currency, amount models.Field) string {
	return currency.OrElse("") + " " + amount.OrElse("")
}
