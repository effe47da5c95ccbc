package services

// ServiceContainer bundles all services for dependency injection into handlers.
type ServiceContainer struct {
	Batch     BatchSvcFacade
	Ledger    LedgerSvcFacade
	Accounts  ChartOfAccountsSvcFacade
	Period    PeriodSvcFacade
	Recurring RecurringSvcFacade
}
