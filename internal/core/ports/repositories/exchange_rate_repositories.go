package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/mma_daily_engine/internal/core/domain"
)

// ExchangeRateReader defines read operations for exchange rate data.
// Both finders return apperrors.ErrNotFound when no row matches.
type ExchangeRateReader interface {
	// FindRateOnDate retrieves the rate stored for exactly (base, quote, date).
	FindRateOnDate(ctx context.Context, baseCurrencyID, quoteCurrencyID int64, date time.Time) (*domain.ExchangeRate, error)

	// FindLatestRateOnOrBefore retrieves the most recent (base, quote) rate dated on or before date.
	FindLatestRateOnOrBefore(ctx context.Context, baseCurrencyID, quoteCurrencyID int64, date time.Time) (*domain.ExchangeRate, error)
}

// ExchangeRateWriter defines write operations for exchange rate data
type ExchangeRateWriter interface {
	// UpsertExchangeRate inserts the rate or replaces the one stored for the same (base, quote, date).
	UpsertExchangeRate(ctx context.Context, rate domain.ExchangeRate) error
}

// ExchangeRateRepositoryFacade combines all exchange rate-related repository interfaces
// This is a facade for clients that need access to all operations
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}
