package repositories

import (
	"context"

	"github.com/utilikit/gl_posting_app/internal/core/domain"
)

// ChartOfAccountsReader is the consumed interface onto the chart of accounts.
// The posting engine never mutates accounts.
type ChartOfAccountsReader interface {
	// FindAccountByID retrieves a single account.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts keyed by id. Missing ids
	// are simply absent from the map; callers decide whether that is an error.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves active accounts ordered by code.
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)
}
