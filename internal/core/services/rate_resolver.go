package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/mma_daily_engine/internal/apperrors"
	"github.com/SscSPs/mma_daily_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_daily_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mma_daily_engine/internal/core/ports/services"
	"github.com/SscSPs/mma_daily_engine/internal/utils/calendar"
	"github.com/shopspring/decimal"
)

// rateResolver implements the RateResolverSvc interface
type rateResolver struct {
	BaseService
	rateRepo portsrepo.ExchangeRateReader
	cache    portssvc.RateCache
}

// RateResolverOption is a functional option for configuring the rate resolver
type RateResolverOption func(*rateResolver)

// WithRateCache memoizes resolutions in cache.
func WithRateCache(cache portssvc.RateCache) RateResolverOption {
	return func(s *rateResolver) {
		s.cache = cache
	}
}

// NewRateResolver creates a new rate resolver reading from rateRepo.
func NewRateResolver(rateRepo portsrepo.ExchangeRateReader, options ...RateResolverOption) portssvc.RateResolverSvc {
	svc := &rateResolver{rateRepo: rateRepo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.RateResolverSvc = (*rateResolver)(nil)

var one = decimal.NewFromInt(1)

func (s *rateResolver) Resolve(ctx context.Context, fromCurrencyID, toCurrencyID int64, asOf time.Time) (decimal.Decimal, error) {
	resolved, err := s.ResolveDetailed(ctx, fromCurrencyID, toCurrencyID, asOf)
	if err != nil {
		return decimal.Zero, err
	}
	return resolved.Rate, nil
}

// ResolveDetailed looks, in order, for the exact direct row, the exact inverse row, then
// the most recent row on or before the date in either direction. asOf is taken as a
// calendar date.
func (s *rateResolver) ResolveDetailed(ctx context.Context, fromCurrencyID, toCurrencyID int64, asOf time.Time) (*domain.ResolvedRate, error) {
	if fromCurrencyID == toCurrencyID {
		return &domain.ResolvedRate{Rate: one}, nil
	}
	date := calendar.DateOf(asOf)

	if s.cache != nil {
		if cached, ok := s.cache.Get(fromCurrencyID, toCurrencyID, date); ok {
			return cached, nil
		}
	}

	resolved, err := s.lookup(ctx, fromCurrencyID, toCurrencyID, date)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(fromCurrencyID, toCurrencyID, date, *resolved)
	}
	return resolved, nil
}

func (s *rateResolver) lookup(ctx context.Context, from, to int64, date time.Time) (*domain.ResolvedRate, error) {
	direct, err := s.usable(s.rateRepo.FindRateOnDate(ctx, from, to, date))
	if err != nil {
		return nil, s.lookupFailed(ctx, err, from, to, date)
	}
	if direct != nil {
		return &domain.ResolvedRate{Rate: direct.Rate, Source: *direct}, nil
	}

	inverse, err := s.usable(s.rateRepo.FindRateOnDate(ctx, to, from, date))
	if err != nil {
		return nil, s.lookupFailed(ctx, err, from, to, date)
	}
	if inverse != nil {
		return invert(*inverse), nil
	}

	direct, err = s.usable(s.rateRepo.FindLatestRateOnOrBefore(ctx, from, to, date))
	if err != nil {
		return nil, s.lookupFailed(ctx, err, from, to, date)
	}
	inverse, err = s.usable(s.rateRepo.FindLatestRateOnOrBefore(ctx, to, from, date))
	if err != nil {
		return nil, s.lookupFailed(ctx, err, from, to, date)
	}

	switch {
	case direct != nil && (inverse == nil || !inverse.RateDate.After(direct.RateDate)):
		s.LogDebug(ctx, "Resolved exchange rate from an earlier date",
			slog.Int64("from_currency_id", from),
			slog.Int64("to_currency_id", to),
			slog.String("as_of", date.Format(time.DateOnly)),
			slog.String("rate_date", direct.RateDate.Format(time.DateOnly)))
		return &domain.ResolvedRate{Rate: direct.Rate, Source: *direct}, nil
	case inverse != nil:
		s.LogDebug(ctx, "Resolved inverse exchange rate from an earlier date",
			slog.Int64("from_currency_id", from),
			slog.Int64("to_currency_id", to),
			slog.String("as_of", date.Format(time.DateOnly)),
			slog.String("rate_date", inverse.RateDate.Format(time.DateOnly)))
		return invert(*inverse), nil
	}

	return nil, &apperrors.RateUnavailableError{FromCurrencyID: from, ToCurrencyID: to, Date: date}
}

// usable maps "not found" and zero-valued rows to nil so callers only deal with real
// rates or real failures.
func (s *rateResolver) usable(rate *domain.ExchangeRate, err error) (*domain.ExchangeRate, error) {
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if rate == nil || !rate.Rate.IsPositive() {
		return nil, nil
	}
	return rate, nil
}

func (s *rateResolver) lookupFailed(ctx context.Context, err error, from, to int64, date time.Time) error {
	s.LogError(ctx, err, "Failed to look up exchange rate",
		slog.Int64("from_currency_id", from),
		slog.Int64("to_currency_id", to),
		slog.String("as_of", date.Format(time.DateOnly)))
	return fmt.Errorf("failed to look up exchange rate %d -> %d: %w", from, to, err)
}

func invert(row domain.ExchangeRate) *domain.ResolvedRate {
	return &domain.ResolvedRate{Rate: one.Div(row.Rate), Source: row, Inverted: true}
}
