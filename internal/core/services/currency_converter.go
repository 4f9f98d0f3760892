package services

import (
	"context"
	"fmt"
	"time"

	portssvc "github.com/SscSPs/mma_daily_engine/internal/core/ports/services"
	"github.com/SscSPs/mma_daily_engine/internal/utils/calendar"
	"github.com/shopspring/decimal"
)

// currencyConverter implements the CurrencyConverterSvc interface
type currencyConverter struct {
	BaseService
	resolver portssvc.RateResolverSvc
	clock    func() time.Time
}

// ConverterOption is a functional option for configuring the currency converter
type ConverterOption func(*currencyConverter)

// WithConverterClock overrides the clock used when no date is given.
func WithConverterClock(clock func() time.Time) ConverterOption {
	return func(s *currencyConverter) {
		s.clock = clock
	}
}

// NewCurrencyConverter creates a converter backed by resolver.
func NewCurrencyConverter(resolver portssvc.RateResolverSvc, options ...ConverterOption) portssvc.CurrencyConverterSvc {
	svc := &currencyConverter{resolver: resolver, clock: time.Now}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.CurrencyConverterSvc = (*currencyConverter)(nil)

func (s *currencyConverter) Convert(ctx context.Context, amount decimal.Decimal, fromCurrencyID, toCurrencyID int64, asOf *time.Time) (decimal.Decimal, error) {
	if fromCurrencyID == toCurrencyID {
		return amount, nil
	}

	date := calendar.Today(s.clock())
	if asOf != nil {
		date = calendar.DateOf(*asOf)
	}

	rate, err := s.resolver.Resolve(ctx, fromCurrencyID, toCurrencyID, date)
	if err != nil {
		return decimal.Zero, fmt.Errorf("convert %s from %d to %d: %w", amount.String(), fromCurrencyID, toCurrencyID, err)
	}
	return amount.Mul(rate), nil
}
