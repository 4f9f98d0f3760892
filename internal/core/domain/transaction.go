package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionSource records which flow created a transaction.
type TransactionSource string

const (
	SourceManual    TransactionSource = "manual"
	SourceRecurring TransactionSource = "recurring"
	SourceImport    TransactionSource = "import"
)

// Transaction is a concrete money movement of an owner.
type Transaction struct {
	TransactionID string            `json:"transactionID"` // Primary Key (UUID)
	OwnerID       int64             `json:"ownerID"`
	Type          FlowType          `json:"type"`
	Amount        decimal.Decimal   `json:"amount"`     // In CurrencyID, rounded at persistence
	CurrencyID    int64             `json:"currencyID"` // Owner settlement currency at creation time
	Date          time.Time         `json:"date"`
	Category      string            `json:"category"`
	Description   string            `json:"description"`
	Source        TransactionSource `json:"source"`

	// Back-reference to the occurrence this transaction materializes (source=recurring).
	RecurringItemID *int64     `json:"recurringItemID,omitempty"`
	OccurrenceDate  *time.Time `json:"occurrenceDate,omitempty"`

	// Conversion applied to produce Amount, when the item currency differs.
	OriginalAmount     *decimal.Decimal `json:"originalAmount,omitempty"`
	OriginalCurrencyID *int64           `json:"originalCurrencyID,omitempty"`
	ExchangeRate       *decimal.Decimal `json:"exchangeRate,omitempty"`
	AuditFields
}

// IsMultiCurrency reports whether the transaction was converted from another currency.
func (t Transaction) IsMultiCurrency() bool {
	return t.OriginalAmount != nil && t.OriginalCurrencyID != nil && *t.OriginalCurrencyID != t.CurrencyID
}

// Validate checks the invariants of a transaction before it is persisted.
func (t Transaction) Validate() error {
	if t.TransactionID == "" {
		return errors.New("transaction ID is required")
	}
	if t.Amount.IsNegative() {
		return errors.New("amount must not be negative")
	}
	if t.Source == SourceRecurring && (t.RecurringItemID == nil || t.OccurrenceDate == nil) {
		return errors.New("recurring transactions must reference their occurrence")
	}
	if t.IsMultiCurrency() && t.ExchangeRate == nil {
		return errors.New("exchange rate is required for multi-currency transactions")
	}
	return nil
}
