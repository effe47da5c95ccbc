package services

import (
	"context"

	"github.com/utilikit/gl_posting_app/internal/core/domain"
	"github.com/utilikit/gl_posting_app/internal/dto"
)

// LedgerSvcFacade exposes the read-only ledger stream consumed by reporting.
type LedgerSvcFacade interface {
	// ListLedgerEntries retrieves posted rows filtered by account, date range
	// and reversal flag, newest-first with token pagination.
	ListLedgerEntries(ctx context.Context, params dto.ListLedgerEntriesParams) (*dto.ListLedgerEntriesResponse, error)

	// GetBatchLedgerEntries retrieves all rows a batch wrote.
	GetBatchLedgerEntries(ctx context.Context, batchID string) ([]domain.GeneralLedgerEntry, error)
}

// ChartOfAccountsSvcFacade exposes the consumed chart-of-accounts lookup.
type ChartOfAccountsSvcFacade interface {
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)
}
