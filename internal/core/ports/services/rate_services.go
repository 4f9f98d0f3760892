package services

import (
	"context"
	"time"

	"github.com/SscSPs/mma_daily_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RateResolverSvc resolves the multiplier converting one currency into another on a date.
type RateResolverSvc interface {
	// Resolve returns R such that amount_to = amount_from * R, using only rates dated on
	// or before asOf. It fails with apperrors.ErrRateUnavailable when nothing resolves.
	Resolve(ctx context.Context, fromCurrencyID, toCurrencyID int64, asOf time.Time) (decimal.Decimal, error)

	// ResolveDetailed is Resolve plus the stored row the rate was derived from.
	ResolveDetailed(ctx context.Context, fromCurrencyID, toCurrencyID int64, asOf time.Time) (*domain.ResolvedRate, error)
}

// CurrencyConverterSvc converts amounts between currencies.
type CurrencyConverterSvc interface {
	// Convert converts amount as of asOf, or today (UTC) when asOf is nil. The result is
	// not rounded.
	Convert(ctx context.Context, amount decimal.Decimal, fromCurrencyID, toCurrencyID int64, asOf *time.Time) (decimal.Decimal, error)
}

// LiveRateProvider fetches today's market rate for a pair of ISO currency codes.
type LiveRateProvider interface {
	FetchRate(ctx context.Context, base, quote string) (decimal.Decimal, error)
}

// RateCache memoizes resolved rates per (from, to, date).
type RateCache interface {
	Get(fromCurrencyID, toCurrencyID int64, date time.Time) (*domain.ResolvedRate, bool)
	Set(fromCurrencyID, toCurrencyID int64, date time.Time, rate domain.ResolvedRate)
	// Purge drops every cached entry. Called after rates are refreshed.
	Purge() error
}
