package repositories

import (
	"context"

	"github.com/SscSPs/mma_daily_engine/internal/core/domain"
)

// CurrencyReader defines read operations for currency data
type CurrencyReader interface {
	// FindCurrencyByID retrieves a specific currency by its ID.
	FindCurrencyByID(ctx context.Context, currencyID int64) (*domain.Currency, error)

	// FindCurrencyByAlias retrieves a specific currency by its ISO alias (e.g. "USD").
	FindCurrencyByAlias(ctx context.Context, alias string) (*domain.Currency, error)

	// ListCurrencies retrieves all available currencies.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// CurrencyRepositoryFacade combines all currency-related repository interfaces.
// Currencies are seeded reference data, so there is no writer.
type CurrencyRepositoryFacade interface {
	CurrencyReader
}
