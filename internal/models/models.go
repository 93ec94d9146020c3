package models

import (
	"encoding/json"
	"fmt"
)

// nullText is how an absent value is rendered in text output
const nullText = "null"

// Field is an optional string extracted from a message. The zero value is
// absent, which is distinct from a present empty string.
type Field struct {
	value   string
	present bool
}

// Some returns a present Field holding v
func Some(v string) Field {
	return Field{value: v, present: true}
}

// None returns an absent Field
func None() Field {
	return Field{}
}

// IsPresent reports whether the field holds a value
func (f Field) IsPresent() bool {
	return f.present
}

// Value returns the held value, or the empty string when absent
func (f Field) Value() string {
	return f.value
}

// OrElse returns the held value, or def when absent
func (f Field) OrElse(def string) string {
	if !f.present {
		return def
	}
	return f.value
}

// String returns the held value, or "null" when absent
func (f Field) String() string {
	return f.OrElse(nullText)
}

// MarshalJSON encodes an absent field as JSON null
func (f Field) MarshalJSON() ([]byte, error) {
	if !f.present {
		return []byte(nullText), nil
	}
	return json.Marshal(f.value)
}

// UnmarshalJSON decodes JSON null as an absent field
func (f *Field) UnmarshalJSON(data []byte) error {
	if string(data) == nullText {
		*f = None()
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Some(v)
	return nil
}

// AccountType categorizes the account a message refers to
type AccountType string

const (
	AccountTypeCard    AccountType = "CARD"
	AccountTypeWallet  AccountType = "WALLET"
	AccountTypeAccount AccountType = "ACCOUNT"
	AccountTypeUnknown AccountType = "UNKNOWN"
)

// String returns the string representation of AccountType
func (a AccountType) String() string {
	return string(a)
}

// IsValid checks if the account type is one of the known categories
func (a AccountType) IsValid() bool {
	switch a {
	case AccountTypeCard, AccountTypeWallet, AccountTypeAccount, AccountTypeUnknown:
		return true
	default:
		return false
	}
}

// TransactionType represents the direction of a transaction. The empty
// value means no direction keyword was found.
type TransactionType string

const (
	// TransactionTypeDebit represents a debit transaction
	TransactionTypeDebit TransactionType = "DEBIT"
	// TransactionTypeCredit represents a credit transaction
	TransactionTypeCredit TransactionType = "CREDIT"
	// TransactionTypeNone represents an absent direction
	TransactionTypeNone TransactionType = ""
)

// String returns the string representation of TransactionType, "null" when absent
func (t TransactionType) String() string {
	if t == TransactionTypeNone {
		return nullText
	}
	return string(t)
}

// IsPresent reports whether a direction was detected
func (t TransactionType) IsPresent() bool {
	return t != TransactionTypeNone
}

// IsValid checks if the transaction type is a known direction
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeDebit || t == TransactionTypeCredit
}

// MarshalJSON encodes an absent direction as JSON null
func (t TransactionType) MarshalJSON() ([]byte, error) {
	if t == TransactionTypeNone {
		return []byte(nullText), nil
	}
	return json.Marshal(string(t))
}

// AccountInfo identifies the account a message refers to
type AccountInfo struct {
	Type   AccountType `json:"type"`
	Number Field       `json:"number"`
	Name   Field       `json:"name"`
}

// NewAccountInfo derives the account type from the presence of the number:
// ACCOUNT when a number was extracted, UNKNOWN otherwise.
func NewAccountInfo(number Field) AccountInfo {
	accountType := AccountTypeUnknown
	if number.IsPresent() {
		accountType = AccountTypeAccount
	}
	return AccountInfo{
		Type:   accountType,
		Number: number,
		Name:   None(),
	}
}

// Balance holds the balance reported in a message
type Balance struct {
	Available   string `json:"available"`
	Outstanding Field  `json:"outstanding"`
}

// Transaction holds the transaction details reported in a message
type Transaction struct {
	Type        TransactionType `json:"type"`
	Amount      string          `json:"amount"`
	ReferenceNo Field           `json:"referenceNo"`
	Merchant    Field           `json:"merchant"`
	Currency    Field           `json:"currency"`
	Date        Field           `json:"date"`
	Category    string          `json:"category"`
}

// IsDebit returns true if the transaction is a debit
func (t Transaction) IsDebit() bool {
	return t.Type == TransactionTypeDebit
}

// IsCredit returns true if the transaction is a credit
func (t Transaction) IsCredit() bool {
	return t.Type == TransactionTypeCredit
}

// String returns a string representation of the Transaction
func (t Transaction) String() string {
	return fmt.Sprintf("Transaction{Type: %s, Amount: %s, Ref: %s, Merchant: %s, Currency: %s, Date: %s, Category: %s}",
		t.Type, t.Amount, t.ReferenceNo, t.Merchant, t.Currency, t.Date, t.Category)
}

// TransactionInfo is the record assembled from a single message
type TransactionInfo struct {
	Account     AccountInfo `json:"accountInfo"`
	Balance     *Balance    `json:"balance,omitempty"`
	Transaction Transaction `json:"transaction"`
}

// String returns a string representation of the TransactionInfo
func (ti *TransactionInfo) String() string {
	balance := nullText
	if ti.Balance != nil {
		balance = fmt.Sprintf("%q", ti.Balance.Available)
	}
	return fmt.Sprintf("TransactionInfo{Account: %s %s, Balance: %s, %s}",
		ti.Account.Type, ti.Account.Number, balance, ti.Transaction)
}
