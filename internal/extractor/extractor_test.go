package extractor

import (
	"reflect"
	"testing"

	"sms-transaction-extractor/internal/models"
)

const fuelMessage = "Dear Customer, your ac 123**456 has been Debited USD 1500.00 REF:TXN789 Fuel Station Purchase on 15-Mar-24. Available Balance is USD 500.00"

func TestExtractFullMessage(t *testing.T) {
	got := New().Extract(fuelMessage)

	want := &Extraction{
		AccountNumber:   models.Some("123**456"),
		Currency:        models.Some("USD"),
		Amount:          models.Some("1500.00"),
		Reference:       models.Some("TXN789"),
		Merchant:        models.Some("Fuel Station Purchase"),
		Date:            models.Some("15-Mar-24"),
		BalanceCurrency: models.Some("USD"),
		BalanceAmount:   models.Some("500.00"),
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %+v, want %+v", got, want)
	}
}

func TestExtractNoPatterns(t *testing.T) {
	got := New().Extract("Hello, how are you?")

	if !reflect.DeepEqual(got, &Extraction{}) {
		t.Errorf("expected every field to be absent, got %+v", got)
	}
	if len(got.Matched()) != 0 {
		t.Errorf("expected no matched fields, got %v", got.Matched())
	}
}

func TestExtractAccountNumber(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    models.Field
	}{
		{"masked number", "your ac 123**456 was used", models.Some("123**456")},
		{"first occurrence", "ac 111**222 then ac 333**444", models.Some("111**222")},
		{"unmasked number", "your ac 123456 was used", models.None()},
		{"missing prefix", "account 123**456 was used", models.None()},
		{"short group", "your ac 12**456 was used", models.None()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := New().Extract(tt.message).AccountNumber; got != tt.want {
				t.Errorf("AccountNumber = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractCurrencyAmount(t *testing.T) {
	tests := []struct {
		name         string
		message      string
		wantCurrency models.Field
		wantAmount   models.Field
	}{
		{"iso code", "Credited GBP 20.00", models.Some("GBP"), models.Some("20.00")},
		{"thousands separators", "Credited USD 1,234,567.89 today", models.Some("USD"), models.Some("1234567.89")},
		{"dollar sign no space", "Debited $45.00", models.Some("$"), models.Some("45.00")},
		{"euro sign", "Debited € 12.30", models.Some("€"), models.Some("12.30")},
		{"zimbabwe gold", "Debited ZWG 3,000.10", models.Some("ZWG"), models.Some("3000.10")},
		{"no space after code", "Debited ZAR99.99", models.Some("ZAR"), models.Some("99.99")},
		{"one fractional digit", "Debited USD 12.5", models.None(), models.None()},
		{"three fractional digits", "Debited USD 1500.005", models.None(), models.None()},
		{"doubled separator", "Debited USD 1,,2.00", models.None(), models.None()},
		{"short thousands group", "Debited USD 12,34.56", models.None(), models.None()},
		{"leading group too long", "Debited USD 1234,567.00", models.None(), models.None()},
		{"sentence full stop", "Debited USD 75.25. Thank you", models.Some("USD"), models.Some("75.25")},
		{"plain digits over a thousand", "Debited USD 25000.00", models.Some("USD"), models.Some("25000.00")},
		{"unknown currency", "Debited INR 12.50", models.None(), models.None()},
		{"balance before transaction", "Available Balance is USD 500.00. Debited USD 20.00", models.Some("USD"), models.Some("500.00")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New().Extract(tt.message)
			if got.Currency != tt.wantCurrency {
				t.Errorf("Currency = %v, want %v", got.Currency, tt.wantCurrency)
			}
			if got.Amount != tt.wantAmount {
				t.Errorf("Amount = %v, want %v", got.Amount, tt.wantAmount)
			}
		})
	}
}

func TestExtractReferenceMerchantDate(t *testing.T) {
	tests := []struct {
		name          string
		message       string
		wantReference models.Field
		wantMerchant  models.Field
		wantDate      models.Field
	}{
		{
			name:          "all anchors",
			message:       "REF:AB12 City Grocery Store on 01-Jan-24.",
			wantReference: models.Some("AB12"),
			wantMerchant:  models.Some("City Grocery Store"),
			wantDate:      models.Some("01-Jan-24"),
		},
		{
			name:          "no date",
			message:       "REF:AB12 City Grocery Store",
			wantReference: models.Some("AB12"),
			wantMerchant:  models.None(),
			wantDate:      models.None(),
		},
		{
			name:          "no reference",
			message:       "Paid City Grocery Store on 01-Jan-24",
			wantReference: models.None(),
			wantMerchant:  models.None(),
			wantDate:      models.Some("01-Jan-24"),
		},
		{
			name:          "date before reference",
			message:       "on 01-Jan-24 REF:AB12 City Grocery Store",
			wantReference: models.Some("AB12"),
			wantMerchant:  models.None(),
			wantDate:      models.Some("01-Jan-24"),
		},
		{
			name:          "merchant is shortest span",
			message:       "REF:X1 Shop A on 02-Feb-24 and later on 03-Mar-24",
			wantReference: models.Some("X1"),
			wantMerchant:  models.Some("Shop A"),
			wantDate:      models.Some("02-Feb-24"),
		},
		{
			name:          "four digit year",
			message:       "REF:X1 Shop A on 02-Feb-2024",
			wantReference: models.Some("X1"),
			wantMerchant:  models.Some("Shop A"),
			wantDate:      models.Some("02-Feb-20"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New().Extract(tt.message)
			if got.Reference != tt.wantReference {
				t.Errorf("Reference = %v, want %v", got.Reference, tt.wantReference)
			}
			if got.Merchant != tt.wantMerchant {
				t.Errorf("Merchant = %v, want %v", got.Merchant, tt.wantMerchant)
			}
			if got.Date != tt.wantDate {
				t.Errorf("Date = %v, want %v", got.Date, tt.wantDate)
			}
		})
	}
}

func TestExtractBalance(t *testing.T) {
	tests := []struct {
		name         string
		message      string
		wantCurrency models.Field
		wantAmount   models.Field
	}{
		{"plain", "Available Balance is USD 500.00", models.Some("USD"), models.Some("500.00")},
		{"separators", "Available Balance is ZWL 12,000.50", models.Some("ZWL"), models.Some("12000.50")},
		{"symbol", "Available Balance is $7.25", models.Some("$"), models.Some("7.25")},
		{"lowercase label", "available balance is USD 500.00", models.None(), models.None()},
		{"missing", "Debited USD 10.00", models.None(), models.None()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New().Extract(tt.message)
			if got.BalanceCurrency != tt.wantCurrency {
				t.Errorf("BalanceCurrency = %v, want %v", got.BalanceCurrency, tt.wantCurrency)
			}
			if got.BalanceAmount != tt.wantAmount {
				t.Errorf("BalanceAmount = %v, want %v", got.BalanceAmount, tt.wantAmount)
			}
		})
	}
}

func TestMatched(t *testing.T) {
	got := New().Extract("Debited USD 10.00 REF:Z9").Matched()
	want := []string{"currency", "amount", "reference"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Matched() = %v, want %v", got, want)
	}
}

func TestCurrencyTokensIsCopy(t *testing.T) {
	tokens := CurrencyTokens()
	tokens[0] = "XXX"
	if CurrencyTokens()[0] != "USD" {
		t.Error("expected CurrencyTokens to return a copy")
	}
}
