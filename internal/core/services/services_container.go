package services

import (
	portsrepo "github.com/SscSPs/mma_daily_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mma_daily_engine/internal/core/ports/services"
	"github.com/SscSPs/mma_daily_engine/internal/platform/config"
)

// Collaborators groups the adapters the services talk to besides the repositories.
// Any of them may be nil.
type Collaborators struct {
	RateProvider portssvc.LiveRateProvider
	RateCache    portssvc.RateCache
	Notifier     portssvc.NotificationSink
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, collab Collaborators) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	var resolverOpts []RateResolverOption
	if collab.RateCache != nil {
		resolverOpts = append(resolverOpts, WithRateCache(collab.RateCache))
	}
	container.RateResolver = NewRateResolver(repos.ExchangeRateRepo, resolverOpts...)
	container.CurrencyConverter = NewCurrencyConverter(container.RateResolver)
	container.RecurrenceScheduler = NewRecurrenceScheduler()

	engineOpts := []EngineOption{WithMaxOccurrencesPerRun(cfg.JobMaxOccurrencesPerItem)}
	if collab.Notifier != nil {
		engineOpts = append(engineOpts, WithNotificationSink(collab.Notifier))
	}
	container.MaterializationEngine = NewMaterializationEngine(
		repos.RecurringItemRepo,
		repos.TransactionRepo,
		container.RecurrenceScheduler,
		container.CurrencyConverter,
		engineOpts...,
	)

	runnerOpts := []RunnerOption{
		WithBaseCurrency(cfg.RateBaseCurrency),
		WithRatePairs(cfg.RatePairs),
		WithFetchTimeout(cfg.RateFetchTimeout),
		WithOwnerConcurrency(cfg.JobOwnerConcurrency),
	}
	if collab.RateProvider != nil {
		runnerOpts = append(runnerOpts, WithLiveRateProvider(collab.RateProvider))
	}
	if collab.RateCache != nil {
		runnerOpts = append(runnerOpts, WithRunnerRateCache(collab.RateCache))
	}
	container.DailyJobRunner = NewDailyJobRunner(
		repos.CurrencyRepo,
		repos.ExchangeRateRepo,
		repos.OwnerRepo,
		container.MaterializationEngine,
		runnerOpts...,
	)

	return container
}
