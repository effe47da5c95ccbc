package repositories

// RepositoryProvider bundles all repositories for dependency injection.
type RepositoryProvider struct {
	BatchRepo     BatchRepositoryFacade
	LedgerRepo    LedgerReader
	AccountRepo   ChartOfAccountsReader
	PeriodRepo    PeriodReader
	RecurringRepo RecurringRepositoryFacade
}
