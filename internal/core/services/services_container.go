package services

import (
	portsrepo "github.com/utilikit/gl_posting_app/internal/core/ports/repositories"
	portssvc "github.com/utilikit/gl_posting_app/internal/core/ports/services"
)

// NewServiceContainer wires every service from the repository provider.
func NewServiceContainer(repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	accountSvc := NewAccountService(repos.AccountRepo)
	periodSvc := NewPeriodService(repos.PeriodRepo)
	batchSvc := NewBatchService(repos.BatchRepo, accountSvc, periodSvc)
	ledgerSvc := NewLedgerService(repos.LedgerRepo)
	recurringSvc := NewRecurringService(repos.RecurringRepo, batchSvc)

	return &portssvc.ServiceContainer{
		Batch:     batchSvc,
		Ledger:    ledgerSvc,
		Accounts:  accountSvc,
		Period:    periodSvc,
		Recurring: recurringSvc,
	}
}
