package services

import (
	"context"
	"fmt"

	"github.com/utilikit/gl_posting_app/internal/core/domain"
	portsrepo "github.com/utilikit/gl_posting_app/internal/core/ports/repositories"
	portssvc "github.com/utilikit/gl_posting_app/internal/core/ports/services"
)

// accountService is a thin read layer over the chart of accounts.
type accountService struct {
	accountRepo portsrepo.ChartOfAccountsReader
}

// NewAccountService creates a new chart-of-accounts service.
func NewAccountService(accountRepo portsrepo.ChartOfAccountsReader) portssvc.ChartOfAccountsSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.ChartOfAccountsSvcFacade = (*accountService)(nil)

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	return account, nil
}

func (s *accountService) GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to find accounts: %w", err)
	}
	return accounts, nil
}

func (s *accountService) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}
