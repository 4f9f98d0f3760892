package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/mma_daily_engine/internal/apperrors"
	"github.com/SscSPs/mma_daily_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_daily_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mma_daily_engine/internal/core/ports/services"
	"github.com/SscSPs/mma_daily_engine/internal/middleware"
	"github.com/SscSPs/mma_daily_engine/internal/platform/config"
	"github.com/SscSPs/mma_daily_engine/internal/utils/calendar"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// dailyJobRunner implements the DailyJobRunnerSvc interface
type dailyJobRunner struct {
	BaseService
	currencyRepo portsrepo.CurrencyReader
	rateRepo     portsrepo.ExchangeRateWriter
	ownerRepo    portsrepo.OwnerReader
	engine       portssvc.MaterializationEngineSvc

	provider     portssvc.LiveRateProvider
	cache        portssvc.RateCache
	baseCurrency string
	pairs        []config.RatePair
	fetchTimeout time.Duration
	concurrency  int
	clock        func() time.Time
}

// RunnerOption is a functional option for configuring the daily job runner
type RunnerOption func(*dailyJobRunner)

// WithLiveRateProvider enables the rate refresh step.
func WithLiveRateProvider(provider portssvc.LiveRateProvider) RunnerOption {
	return func(s *dailyJobRunner) {
		s.provider = provider
	}
}

// WithRunnerRateCache purges cache once rates have been refreshed.
func WithRunnerRateCache(cache portssvc.RateCache) RunnerOption {
	return func(s *dailyJobRunner) {
		s.cache = cache
	}
}

// WithRatePairs refreshes exactly these pairs.
func WithRatePairs(pairs []config.RatePair) RunnerOption {
	return func(s *dailyJobRunner) {
		s.pairs = pairs
	}
}

// WithBaseCurrency refreshes alias against every other currency when no pairs are set.
func WithBaseCurrency(alias string) RunnerOption {
	return func(s *dailyJobRunner) {
		s.baseCurrency = alias
	}
}

// WithFetchTimeout bounds every provider call.
func WithFetchTimeout(timeout time.Duration) RunnerOption {
	return func(s *dailyJobRunner) {
		if timeout > 0 {
			s.fetchTimeout = timeout
		}
	}
}

// WithOwnerConcurrency processes up to n owners in parallel.
func WithOwnerConcurrency(n int) RunnerOption {
	return func(s *dailyJobRunner) {
		if n >= 1 {
			s.concurrency = n
		}
	}
}

// WithRunnerClock overrides the clock used for the finish timestamp.
func WithRunnerClock(clock func() time.Time) RunnerOption {
	return func(s *dailyJobRunner) {
		s.clock = clock
	}
}

// NewDailyJobRunner creates a new daily job runner.
func NewDailyJobRunner(
	currencyRepo portsrepo.CurrencyReader,
	rateRepo portsrepo.ExchangeRateWriter,
	ownerRepo portsrepo.OwnerReader,
	engine portssvc.MaterializationEngineSvc,
	options ...RunnerOption,
) portssvc.DailyJobRunnerSvc {
	svc := &dailyJobRunner{
		currencyRepo: currencyRepo,
		rateRepo:     rateRepo,
		ownerRepo:    ownerRepo,
		engine:       engine,
		baseCurrency: "USD",
		fetchTimeout: 10 * time.Second,
		concurrency:  1,
		clock:        time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.DailyJobRunnerSvc = (*dailyJobRunner)(nil)

func (s *dailyJobRunner) Run(ctx context.Context, now time.Time) (*domain.DailyJobSummary, error) {
	summary := &domain.DailyJobSummary{
		RunID:           uuid.NewString(),
		StartedAt:       now,
		RatesFailed:     []string{},
		RecurringErrors: []string{},
	}
	ctx = middleware.WithLogger(ctx, s.GetLogger(ctx).With(slog.String("run_id", summary.RunID)))
	s.LogInfo(ctx, "Daily job started", slog.String("today", calendar.Today(now).Format(time.DateOnly)))

	summary.RatesUpdated, summary.RatesFailed = s.RefreshRates(ctx, now)

	owners, err := s.ownerRepo.ListActiveOwners(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list owners, aborting daily job")
		summary.FinishedAt = s.clock()
		return summary, fmt.Errorf("list active owners: %w", err)
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(s.concurrency)
	for _, owner := range owners {
		owner := owner
		g.Go(func() error {
			created, err := s.engine.MaterializeOwner(ctx, owner, now)

			mu.Lock()
			defer mu.Unlock()
			summary.OwnersProcessed++
			summary.TransactionsCreated += created
			for _, e := range flatten(err) {
				summary.RecurringErrors = append(summary.RecurringErrors, fmt.Sprintf("owner %d: %v", owner.OwnerID, e))
			}
			return nil
		})
	}
	_ = g.Wait()
	sort.Strings(summary.RecurringErrors)

	summary.FinishedAt = s.clock()
	s.LogInfo(ctx, "Daily job finished",
		slog.Int("rates_updated", summary.RatesUpdated),
		slog.Int("rates_failed", len(summary.RatesFailed)),
		slog.Int("owners_processed", summary.OwnersProcessed),
		slog.Int("transactions_created", summary.TransactionsCreated),
		slog.Int("recurring_errors", len(summary.RecurringErrors)),
		slog.Duration("duration", summary.FinishedAt.Sub(summary.StartedAt)))
	return summary, nil
}

func (s *dailyJobRunner) RefreshRates(ctx context.Context, now time.Time) (int, []string) {
	failed := []string{}
	if s.provider == nil {
		s.LogInfo(ctx, "No live rate provider configured, skipping rate refresh")
		return 0, failed
	}

	pairs, err := s.resolvePairs(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve currency pairs for rate refresh")
		return 0, append(failed, fmt.Sprintf("pairs: %v", err))
	}

	today := calendar.Today(now)
	updated := 0
	for _, pair := range pairs {
		if err := s.refreshPair(ctx, pair, today, now); err != nil {
			s.LogError(ctx, err, "Failed to refresh exchange rate", slog.String("pair", pair.String()))
			failed = append(failed, fmt.Sprintf("%s: %v", pair.String(), err))
			continue
		}
		updated++
	}

	if s.cache != nil {
		if err := s.cache.Purge(); err != nil {
			s.LogError(ctx, err, "Failed to purge rate cache")
		}
	}

	s.LogInfo(ctx, "Exchange rates refreshed", slog.Int("updated", updated), slog.Int("failed", len(failed)))
	return updated, failed
}

func (s *dailyJobRunner) refreshPair(ctx context.Context, pair domain.CurrencyPair, today, now time.Time) error {
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	rate, err := s.provider.FetchRate(fetchCtx, pair.Base.Alias, pair.Quote.Alias)
	if err != nil {
		if !errors.Is(err, apperrors.ErrRateProvider) {
			err = errors.Join(apperrors.ErrRateProvider, err)
		}
		return err
	}
	if !rate.IsPositive() {
		return fmt.Errorf("%w: non-positive rate %s", apperrors.ErrRateProvider, rate.String())
	}

	return s.rateRepo.UpsertExchangeRate(ctx, domain.ExchangeRate{
		BaseCurrencyID:  pair.Base.CurrencyID,
		QuoteCurrencyID: pair.Quote.CurrencyID,
		RateDate:        today,
		Rate:            rate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     domain.SystemActor,
			LastUpdatedAt: now,
			LastUpdatedBy: domain.SystemActor,
		},
	})
}

// resolvePairs turns the configured pairs (or the base currency against every other
// currency) into currency records.
func (s *dailyJobRunner) resolvePairs(ctx context.Context) ([]domain.CurrencyPair, error) {
	if len(s.pairs) > 0 {
		pairs := make([]domain.CurrencyPair, 0, len(s.pairs))
		for _, p := range s.pairs {
			base, err := s.currencyRepo.FindCurrencyByAlias(ctx, p.Base)
			if err != nil {
				return nil, fmt.Errorf("currency %s: %w", p.Base, err)
			}
			quote, err := s.currencyRepo.FindCurrencyByAlias(ctx, p.Quote)
			if err != nil {
				return nil, fmt.Errorf("currency %s: %w", p.Quote, err)
			}
			pairs = append(pairs, domain.CurrencyPair{Base: *base, Quote: *quote})
		}
		return pairs, nil
	}

	base, err := s.currencyRepo.FindCurrencyByAlias(ctx, s.baseCurrency)
	if err != nil {
		return nil, fmt.Errorf("base currency %s: %w", s.baseCurrency, err)
	}
	currencies, err := s.currencyRepo.ListCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("list currencies: %w", err)
	}
	pairs := make([]domain.CurrencyPair, 0, len(currencies))
	for _, c := range currencies {
		if c.CurrencyID == base.CurrencyID {
			continue
		}
		pairs = append(pairs, domain.CurrencyPair{Base: *base, Quote: c})
	}
	return pairs, nil
}

// flatten splits an errors.Join result back into its parts.
func flatten(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
