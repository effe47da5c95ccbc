package repositories

import (
	"context"
	"time"

	"github.com/utilikit/gl_posting_app/internal/core/domain"
)

// LedgerFilter narrows a ledger listing. Nil fields mean "no filter".
type LedgerFilter struct {
	AccountID       *string
	FromDate        *time.Time // Transaction date lower bound, inclusive
	ToDate          *time.Time // Transaction date upper bound, inclusive
	IncludeReversed bool       // When false, rows flagged is_reversed are skipped
	Limit           int
	NextToken       *string
}

// LedgerReader is the read-only interface downstream reporting consumes.
// Ledger rows are append-only; there is no writer interface outside the
// posting transaction itself.
type LedgerReader interface {
	// ListLedgerEntries retrieves posted rows newest-first with token pagination.
	ListLedgerEntries(ctx context.Context, filter LedgerFilter) ([]domain.GeneralLedgerEntry, *string, error)

	// FindLedgerEntriesByBatchID retrieves all rows written by one batch.
	FindLedgerEntriesByBatchID(ctx context.Context, batchID string) ([]domain.GeneralLedgerEntry, error)
}
