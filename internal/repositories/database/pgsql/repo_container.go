package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/utilikit/gl_posting_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	batchRepo := newPgxBatchRepository(dbPool)
	ledgerRepo := newPgxLedgerRepository(dbPool)
	accountRepo := newPgxAccountRepository(dbPool)
	periodRepo := newPgxPeriodRepository(dbPool)
	recurringRepo := newPgxRecurringRepository(dbPool)

	return portsrepo.RepositoryProvider{
		BatchRepo:     batchRepo,
		LedgerRepo:    ledgerRepo,
		AccountRepo:   accountRepo,
		PeriodRepo:    periodRepo,
		RecurringRepo: recurringRepo,
	}
}
