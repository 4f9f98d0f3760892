package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate states that 1 unit of the base currency equals Rate units of the quote
// currency on RateDate (UTC midnight).
type ExchangeRate struct {
	BaseCurrencyID  int64           `json:"baseCurrencyID" validate:"required,gt=0"`
	QuoteCurrencyID int64           `json:"quoteCurrencyID" validate:"required,gt=0,nefield=BaseCurrencyID"`
	RateDate        time.Time       `json:"rateDate" validate:"required"`
	Rate            decimal.Decimal `json:"rate"`
	AuditFields
}

// Validate checks that the row names two distinct currencies and a positive rate.
func (r ExchangeRate) Validate() error {
	if err := itemValidator.Struct(r); err != nil {
		return err
	}
	if !r.Rate.IsPositive() {
		return fmt.Errorf("rate must be positive, got %s", r.Rate.String())
	}
	return nil
}

// CurrencyPair is a (base, quote) couple refreshed by the daily job.
type CurrencyPair struct {
	Base  Currency `json:"base"`
	Quote Currency `json:"quote"`
}

// String renders the pair as "USD->EUR".
func (p CurrencyPair) String() string {
	return p.Base.Alias + "->" + p.Quote.Alias
}

// ResolvedRate is the outcome of a rate resolution: the multiplier to apply and the stored
// row it was derived from.
type ResolvedRate struct {
	Rate decimal.Decimal `json:"rate"`
	// Source is the stored row used. Zero for same-currency resolutions.
	Source ExchangeRate `json:"source"`
	// Inverted is true when Source is the (to, from) row and Rate is its reciprocal.
	Inverted bool `json:"inverted"`
}
