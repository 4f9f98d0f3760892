package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used by the handlers and the one-shot job binary.
type ServiceContainer struct {
	RateResolver          RateResolverSvc
	CurrencyConverter     CurrencyConverterSvc
	RecurrenceScheduler   RecurrenceSchedulerSvc
	MaterializationEngine MaterializationEngineSvc
	DailyJobRunner        DailyJobRunnerSvc
}
