package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utilikit/gl_posting_app/internal/core/domain"
	portsrepo "github.com/utilikit/gl_posting_app/internal/core/ports/repositories"
	portssvc "github.com/utilikit/gl_posting_app/internal/core/ports/services"
	"github.com/utilikit/gl_posting_app/internal/dto"
	"github.com/utilikit/gl_posting_app/internal/middleware"
)

// ledgerService serves the read-only posted ledger stream.
type ledgerService struct {
	ledgerRepo portsrepo.LedgerReader
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(ledgerRepo portsrepo.LedgerReader) portssvc.LedgerSvcFacade {
	return &ledgerService{ledgerRepo: ledgerRepo}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// ListLedgerEntries retrieves posted rows filtered by account, date range and
// reversal flag, newest-first with token pagination.
func (s *ledgerService) ListLedgerEntries(ctx context.Context, params dto.ListLedgerEntriesParams) (*dto.ListLedgerEntriesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	filter := portsrepo.LedgerFilter{
		AccountID:       params.AccountID,
		FromDate:        params.FromDate,
		ToDate:          params.ToDate,
		IncludeReversed: params.IncludeReversed,
		Limit:           limit,
		NextToken:       params.NextToken,
	}

	entries, nextToken, err := s.ledgerRepo.ListLedgerEntries(ctx, filter)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list ledger entries", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}

	return &dto.ListLedgerEntriesResponse{
		Entries:   dto.ToLedgerEntryResponses(entries),
		NextToken: nextToken,
	}, nil
}

// GetBatchLedgerEntries retrieves all rows a batch wrote.
func (s *ledgerService) GetBatchLedgerEntries(ctx context.Context, batchID string) ([]domain.GeneralLedgerEntry, error) {
	entries, err := s.ledgerRepo.FindLedgerEntriesByBatchID(ctx, batchID)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to find ledger entries for batch", slog.String("error", err.Error()), slog.String("batch_id", batchID))
		return nil, fmt.Errorf("failed to find ledger entries for batch %s: %w", batchID, err)
	}
	return entries, nil
}
