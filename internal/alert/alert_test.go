package alert

import (
	"bytes"
	"strings"
	"testing"

	"sms-transaction-extractor/internal/models"
	"sms-transaction-extractor/pkg/logger"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"USD 1500.00", "1500"},
		{"USD 1,500.00", "1500"},
		{"$ 45.10", "45.1"},
		{"999.99", "999.99"},
		{"null null", "0"},
		{"USD null", "0"},
		{"", "0"},
		{" ", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseAmount(tt.input)
			if !got.Equal(decimal.RequireFromString(tt.expected)) {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsLargeDebit(t *testing.T) {
	tests := []struct {
		name string
		tx   models.Transaction
		want bool
	}{
		{"large debit", models.Transaction{Type: models.TransactionTypeDebit, Amount: "USD 1500.00"}, true},
		{"small debit", models.Transaction{Type: models.TransactionTypeDebit, Amount: "USD 999.99"}, false},
		{"exactly threshold", models.Transaction{Type: models.TransactionTypeDebit, Amount: "USD 1000.00"}, false},
		{"just above threshold", models.Transaction{Type: models.TransactionTypeDebit, Amount: "USD 1000.01"}, true},
		{"large credit", models.Transaction{Type: models.TransactionTypeCredit, Amount: "USD 5000.00"}, false},
		{"no direction", models.Transaction{Amount: "USD 5000.00"}, false},
		{"unparsable amount", models.Transaction{Type: models.TransactionTypeDebit, Amount: "null null"}, false},
		{"currency agnostic", models.Transaction{Type: models.TransactionTypeDebit, Amount: "JPY 1200.00"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsLargeDebit(tt.tx, DefaultThreshold); got != tt.want {
				t.Errorf("IsLargeDebit() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluatorNotifiesSink(t *testing.T) {
	var received []Alert
	evaluator := NewEvaluator(DefaultThreshold, SinkFunc(func(a Alert) {
		received = append(received, a)
	}))

	tx := models.Transaction{
		Type:     models.TransactionTypeDebit,
		Amount:   "USD 1500.00",
		Merchant: models.Some("Fuel Station Purchase"),
	}
	before := tx

	if !evaluator.Evaluate(tx) {
		t.Fatal("expected alert for large debit")
	}
	if evaluator.Evaluate(models.Transaction{Type: models.TransactionTypeDebit, Amount: "USD 999.99"}) {
		t.Error("expected no alert for small debit")
	}

	if len(received) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(received))
	}
	if received[0].Amount != "USD 1500.00" {
		t.Errorf("expected amount 'USD 1500.00', got %s", received[0].Amount)
	}
	if received[0].Merchant.Value() != "Fuel Station Purchase" {
		t.Errorf("expected merchant, got %s", received[0].Merchant)
	}
	if !received[0].Value.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("expected value 1500, got %s", received[0].Value)
	}
	if tx != before {
		t.Error("expected transaction to be unchanged")
	}
}

func TestCustomThreshold(t *testing.T) {
	evaluator := NewEvaluator(decimal.NewFromInt(50), SinkFunc(func(Alert) {}))
	if !evaluator.Evaluate(models.Transaction{Type: models.TransactionTypeDebit, Amount: "USD 60.00"}) {
		t.Error("expected alert above custom threshold")
	}
	if !evaluator.Threshold().Equal(decimal.NewFromInt(50)) {
		t.Errorf("unexpected threshold %s", evaluator.Threshold())
	}
}

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	NewWriterSink(&buf).Notify(Alert{Amount: "USD 1500.00", Merchant: models.Some("Fuel Station Purchase")})

	want := "ALERT: Large debit of USD 1500.00 at Fuel Station Purchase\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}

	buf.Reset()
	NewWriterSink(&buf).Notify(Alert{Amount: "USD 1500.00", Merchant: models.None()})
	if !strings.HasSuffix(buf.String(), "at null\n") {
		t.Errorf("expected absent merchant rendered as null, got %q", buf.String())
	}
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	log, err := logger.NewLoggerWithWriter(&logger.Config{
		Level:  logger.WarnLevel,
		Format: logger.TextFormat,
		Output: logger.StderrOutput,
	}, &buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	NewLogSink(log).Notify(Alert{Amount: "USD 2000.00", Merchant: models.Some("Shop"), Threshold: DefaultThreshold})

	out := buf.String()
	if !strings.Contains(out, "Large debit detected") {
		t.Errorf("expected warning message, got %q", out)
	}
	if !strings.Contains(out, "component=alert") {
		t.Errorf("expected component field, got %q", out)
	}
}

func TestMultiSink(t *testing.T) {
	var count int
	counter := SinkFunc(func(Alert) { count++ })
	MultiSink{counter, counter}.Notify(Alert{})
	if count != 2 {
		t.Errorf("expected 2 notifications, got %d", count)
	}
}
