package assembler

import (
	"reflect"
	"testing"

	"sms-transaction-extractor/internal/alert"
	"sms-transaction-extractor/internal/classifier"
	"sms-transaction-extractor/internal/extractor"
	"sms-transaction-extractor/internal/models"
	"sms-transaction-extractor/pkg/errors"
)

const fuelMessage = "Dear Customer, your ac 123**456 has been Debited USD 1500.00 REF:TXN789 Fuel Station Purchase on 15-Mar-24. Available Balance is USD 500.00"

func newRecordingAssembler() (*Assembler, *[]alert.Alert) {
	var alerts []alert.Alert
	evaluator := alert.NewEvaluator(alert.DefaultThreshold, alert.SinkFunc(func(a alert.Alert) {
		alerts = append(alerts, a)
	}))
	return New(evaluator), &alerts
}

func TestAssembleFullMessage(t *testing.T) {
	asm, alerts := newRecordingAssembler()

	info, err := asm.Assemble(fuelMessage)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantAccount := models.AccountInfo{
		Type:   models.AccountTypeAccount,
		Number: models.Some("123**456"),
		Name:   models.None(),
	}
	if !reflect.DeepEqual(info.Account, wantAccount) {
		t.Errorf("Account = %+v, want %+v", info.Account, wantAccount)
	}

	wantTx := models.Transaction{
		Type:        models.TransactionTypeDebit,
		Amount:      "USD 1500.00",
		ReferenceNo: models.Some("TXN789"),
		Merchant:    models.Some("Fuel Station Purchase"),
		Currency:    models.Some("USD"),
		Date:        models.Some("15-Mar-24"),
		Category:    "Fuel",
	}
	if info.Transaction != wantTx {
		t.Errorf("Transaction = %+v, want %+v", info.Transaction, wantTx)
	}

	if info.Balance == nil || info.Balance.Available != "USD 500.00" {
		t.Errorf("expected balance 'USD 500.00', got %+v", info.Balance)
	}
	if info.Balance.Outstanding.IsPresent() {
		t.Error("expected outstanding balance to be absent")
	}

	if len(*alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(*alerts))
	}
	if (*alerts)[0].Amount != "USD 1500.00" || (*alerts)[0].Merchant.Value() != "Fuel Station Purchase" {
		t.Errorf("unexpected alert %+v", (*alerts)[0])
	}
}

func TestAssembleNoPatterns(t *testing.T) {
	asm, alerts := newRecordingAssembler()

	info, err := asm.Assemble("Hello, how are you?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if info.Account.Type != models.AccountTypeUnknown || info.Account.Number.IsPresent() {
		t.Errorf("expected UNKNOWN account without number, got %+v", info.Account)
	}

	wantTx := models.Transaction{
		Type:     models.TransactionTypeNone,
		Amount:   "null null",
		Category: "Unknown",
	}
	if info.Transaction != wantTx {
		t.Errorf("Transaction = %+v, want %+v", info.Transaction, wantTx)
	}

	if info.Balance.Available != " " {
		t.Errorf("expected placeholder balance ' ', got %q", info.Balance.Available)
	}
	if len(*alerts) != 0 {
		t.Errorf("expected no alerts, got %d", len(*alerts))
	}
}

func TestAssembleAlertThreshold(t *testing.T) {
	tests := []struct {
		name    string
		message string
		alerts  int
	}{
		{"large debit", "ac 123**456 Debited USD 1500.00", 1},
		{"small debit", "ac 123**456 Debited USD 999.99", 0},
		{"large credit", "ac 123**456 Credited USD 1500.00", 0},
		{"large debit with separators", "Debited USD 12,500.00", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asm, alerts := newRecordingAssembler()
			if _, err := asm.Assemble(tt.message); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(*alerts) != tt.alerts {
				t.Errorf("expected %d alerts, got %d", tt.alerts, len(*alerts))
			}
		})
	}
}

func TestAssembleWithoutEvaluator(t *testing.T) {
	info, err := New(nil).Assemble(fuelMessage)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Transaction.Category != "Fuel" {
		t.Errorf("expected Fuel category, got %s", info.Transaction.Category)
	}
}

func TestAssembleBlankMessage(t *testing.T) {
	for _, message := range []string{"", "   ", "\t\n"} {
		_, err := New(nil).Assemble(message)
		if err == nil {
			t.Fatalf("expected error for blank message %q", message)
		}
		parserErr, ok := errors.AsParserError(err)
		if !ok {
			t.Fatalf("expected ParserError, got %T", err)
		}
		if parserErr.Category != errors.CategoryValidation {
			t.Errorf("expected validation category, got %s", parserErr.Category)
		}
	}
}

func TestAccountTypeInvariant(t *testing.T) {
	messages := []string{
		fuelMessage,
		"Hello, how are you?",
		"ac 999**000 Credited EUR 10.00",
		"ac 999000 Credited EUR 10.00",
	}

	for _, message := range messages {
		info, err := New(nil).Assemble(message)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if info.Account.Number.IsPresent() != (info.Account.Type == models.AccountTypeAccount) {
			t.Errorf("account type %s inconsistent with number %s for %q", info.Account.Type, info.Account.Number, message)
		}
		if info.Account.Type != models.AccountTypeAccount && info.Account.Type != models.AccountTypeUnknown {
			t.Errorf("unexpected account type %s", info.Account.Type)
		}
		if info.Transaction.Category == "" {
			t.Errorf("expected category to be populated for %q", message)
		}
	}
}

func TestCategoryRoundTrip(t *testing.T) {
	messages := []string{
		fuelMessage,
		"Debited USD 10.00 REF:A1 Pick n Pay Grocery Shop on 01-Jan-24",
		"Credited USD 10.00 REF:A2 Refund from Spur Restaurant on 02-Jan-24",
		"Debited USD 10.00 REF:A3 Transfer on 03-Jan-24",
		"Hello, how are you?",
	}

	for _, message := range messages {
		info, err := New(nil).Assemble(message)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		fromMessage := classifier.Category(extractor.New().Extract(message).Merchant)
		if got := classifier.Category(info.Transaction.Merchant); got != fromMessage {
			t.Errorf("category from record %q != category from message %q", got, fromMessage)
		}
		if info.Transaction.Category != fromMessage {
			t.Errorf("assembled category %q != %q", info.Transaction.Category, fromMessage)
		}
	}
}

func TestPartialFields(t *testing.T) {
	fields := &extractor.Extraction{
		Currency:        models.Some("USD"),
		Amount:          models.None(),
		BalanceCurrency: models.None(),
		BalanceAmount:   models.Some("12.00"),
	}

	info := Build(fields, models.TransactionTypeCredit)
	if info.Transaction.Amount != "USD null" {
		t.Errorf("expected 'USD null', got %q", info.Transaction.Amount)
	}
	if info.Balance.Available != " 12.00" {
		t.Errorf("expected ' 12.00', got %q", info.Balance.Available)
	}
	if info.Transaction.Type != models.TransactionTypeCredit {
		t.Errorf("expected CREDIT, got %s", info.Transaction.Type)
	}
}

func TestAmountAndBalanceText(t *testing.T) {
	if got := AmountText(models.None(), models.None()); got != "null null" {
		t.Errorf("AmountText = %q", got)
	}
	if got := AmountText(models.Some("$"), models.Some("4.00")); got != "$ 4.00" {
		t.Errorf("AmountText = %q", got)
	}
	if got := BalanceText(models.None(), models.None()); got != " " {
		t.Errorf("BalanceText = %q", got)
	}
	if got := BalanceText(models.Some("ZWG"), models.Some("80.00")); got != "ZWG 80.00" {
		t.Errorf("BalanceText = %q", got)
	}
}
