package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a row of the transactions table.
type Transaction struct {
	TransactionID      string           `db:"transaction_id"` // Primary Key (UUID)
	OwnerID            int64            `db:"owner_id"`
	Type               string           `db:"type"`
	Amount             decimal.Decimal  `db:"amount"` // NUMERIC(20,2)
	CurrencyID         int64            `db:"currency_id"`
	Date               time.Time        `db:"date"`
	Category           string           `db:"category"`
	Description        string           `db:"description"`
	Source             string           `db:"source"`
	RecurringItemID    *int64           `db:"recurring_item_id"`    // Nullable
	OccurrenceDate     *time.Time       `db:"occurrence_date"`      // Nullable
	OriginalAmount     *decimal.Decimal `db:"original_amount"`      // Nullable
	OriginalCurrencyID *int64           `db:"original_currency_id"` // Nullable
	ExchangeRate       *decimal.Decimal `db:"exchange_rate"`        // Nullable
	AuditFields
}
