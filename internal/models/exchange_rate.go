package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate stores the conversion rate between two currencies for a specific date.
// (base_currency_id, quote_currency_id, rate_date) is unique.
type ExchangeRate struct {
	BaseCurrencyID  int64           `json:"baseCurrencyID" db:"base_currency_id"`
	QuoteCurrencyID int64           `json:"quoteCurrencyID" db:"quote_currency_id"`
	RateDate        time.Time       `json:"rateDate" db:"rate_date"` // DATE column
	Rate            decimal.Decimal `json:"rate" db:"rate"`          // NUMERIC(20,10)
	AuditFields
}
