// Package alert flags large debits.
//
// The decision (IsLargeDebit) is pure and never touches the transaction.
// Notification goes through a Sink so the channel can be a log, a console
// line, or a callback without changing the extraction code.
package alert

import (
	"fmt"
	"io"
	"strings"

	"sms-transaction-extractor/internal/models"
	"sms-transaction-extractor/pkg/logger"

	"github.com/shopspring/decimal"
)

// DefaultThreshold is the amount a debit must exceed to raise an alert.
// It applies to every currency alike.
var DefaultThreshold = decimal.NewFromInt(1000)

// Alert describes a large debit
type Alert struct {
	Amount    string          `json:"amount"`
	Merchant  models.Field    `json:"merchant"`
	Value     decimal.Decimal `json:"value"`
	Threshold decimal.Decimal `json:"threshold"`
}

// String returns the user-facing notification text
func (a Alert) String() string {
	return fmt.Sprintf("ALERT: Large debit of %s at %s", a.Amount, a.Merchant)
}

// ParseAmount returns the numeric part of an amount string such as
// "USD 1,500.00". Anything that does not parse yields zero.
func ParseAmount(amount string) decimal.Decimal {
	fields := strings.Fields(amount)
	if len(fields) == 0 {
		return decimal.Zero
	}

	value, err := decimal.NewFromString(strings.ReplaceAll(fields[len(fields)-1], ",", ""))
	if err != nil {
		return decimal.Zero
	}
	return value
}

// IsLargeDebit reports whether tx is a debit whose amount exceeds threshold
func IsLargeDebit(tx models.Transaction, threshold decimal.Decimal) bool {
	if !tx.IsDebit() {
		return false
	}
	return ParseAmount(tx.Amount).GreaterThan(threshold)
}

// Sink receives large-debit notifications. Delivery is fire-and-forget.
type Sink interface {
	Notify(a Alert)
}

// SinkFunc adapts a function to the Sink interface
type SinkFunc func(a Alert)

// Notify calls f(a)
func (f SinkFunc) Notify(a Alert) {
	f(a)
}

// MultiSink fans a notification out to every sink in order
type MultiSink []Sink

// Notify forwards a to every sink
func (m MultiSink) Notify(a Alert) {
	for _, sink := range m {
		sink.Notify(a)
	}
}

// LogSink writes notifications as warnings
type LogSink struct {
	logger logger.Logger
}

// NewLogSink creates a LogSink; a nil logger uses the global logger
func NewLogSink(log logger.Logger) *LogSink {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &LogSink{logger: log.WithComponent("alert")}
}

// Notify logs the alert
func (s *LogSink) Notify(a Alert) {
	s.logger.WithFields(logger.Fields{
		"amount":    a.Amount,
		"merchant":  a.Merchant.String(),
		"threshold": a.Threshold.String(),
	}).Warn("Large debit detected")
}

// WriterSink prints notifications as single lines, e.g. to the terminal
type WriterSink struct {
	w io.Writer
}

// NewWriterSink creates a WriterSink writing to w
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Notify writes the alert line; write errors are ignored
func (s *WriterSink) Notify(a Alert) {
	fmt.Fprintln(s.w, a.String())
}

// Evaluator applies the large-debit rule and notifies a sink
type Evaluator struct {
	threshold decimal.Decimal
	sink      Sink
}

// NewEvaluator creates an Evaluator. A nil sink logs through the global logger.
func NewEvaluator(threshold decimal.Decimal, sink Sink) *Evaluator {
	if sink == nil {
		sink = NewLogSink(nil)
	}
	return &Evaluator{
		threshold: threshold,
		sink:      sink,
	}
}

// Threshold returns the configured threshold
func (e *Evaluator) Threshold() decimal.Decimal {
	return e.threshold
}

// Evaluate notifies the sink when tx is a large debit and reports whether it did
func (e *Evaluator) Evaluate(tx models.Transaction) bool {
	if !IsLargeDebit(tx, e.threshold) {
		return false
	}

	e.sink.Notify(Alert{
		Amount:    tx.Amount,
		Merchant:  tx.Merchant,
		Value:     ParseAmount(tx.Amount),
		Threshold: e.threshold,
	})
	return true
}
