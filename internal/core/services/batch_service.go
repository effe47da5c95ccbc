package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/utilikit/gl_posting_app/internal/apperrors"
	"github.com/utilikit/gl_posting_app/internal/core/domain"
	portsrepo "github.com/utilikit/gl_posting_app/internal/core/ports/repositories"
	portssvc "github.com/utilikit/gl_posting_app/internal/core/ports/services"
	"github.com/utilikit/gl_posting_app/internal/dto"
	"github.com/utilikit/gl_posting_app/internal/middleware"
	"github.com/utilikit/gl_posting_app/internal/utils/accounting"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrInactiveAccount = errors.New("account is inactive")
)

// batchService drives the posting batch lifecycle: create, submit, approve,
// reject, post, delete and reverse.
type batchService struct {
	batchRepo  portsrepo.BatchRepositoryFacade
	accountSvc portssvc.ChartOfAccountsSvcFacade
	periodSvc  portssvc.PeriodSvcFacade
}

// NewBatchService creates a new batch service.
func NewBatchService(batchRepo portsrepo.BatchRepositoryFacade, accountSvc portssvc.ChartOfAccountsSvcFacade, periodSvc portssvc.PeriodSvcFacade) portssvc.BatchSvcFacade {
	return &batchService{
		batchRepo:  batchRepo,
		accountSvc: accountSvc,
		periodSvc:  periodSvc,
	}
}

var _ portssvc.BatchSvcFacade = (*batchService)(nil)

// buildEntries converts request entries into domain entries with fresh ids.
func buildEntries(batchID string, reqs []dto.CreateEntryRequest, userID string, now time.Time) []domain.JournalEntry {
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}
	entries := make([]domain.JournalEntry, len(reqs))
	for i, entryReq := range reqs {
		entryID := uuid.NewString()
		lines := make([]domain.JournalLine, len(entryReq.Lines))
		for j, lineReq := range entryReq.Lines {
			lines[j] = domain.JournalLine{
				LineID:      uuid.NewString(),
				EntryID:     entryID,
				AccountID:   lineReq.AccountID,
				Debit:       lineReq.Debit,
				Credit:      lineReq.Credit,
				Memo:        lineReq.Memo,
				UsoaClass:   lineReq.UsoaClass,
				AuditFields: audit,
			}
		}
		entries[i] = domain.JournalEntry{
			EntryID:         entryID,
			BatchID:         batchID,
			EntryDate:       entryReq.EntryDate,
			ReferenceNumber: entryReq.ReferenceNumber,
			Description:     entryReq.Description,
			Lines:           lines,
			AuditFields:     audit,
		}
	}
	return entries
}

// checkAccountsUsable verifies every referenced account exists and is active.
func (s *batchService) checkAccountsUsable(ctx context.Context, entries []domain.JournalEntry) error {
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, entry := range entries {
		for _, line := range entry.Lines {
			if _, ok := seen[line.AccountID]; !ok {
				seen[line.AccountID] = struct{}{}
				ids = append(ids, line.AccountID)
			}
		}
	}
	accountsMap, err := s.accountSvc.GetAccountsByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, id := range ids {
		acc, found := accountsMap[id]
		if !found {
			return fmt.Errorf("%w: %w: ID %s", apperrors.ErrValidation, ErrAccountNotFound, id)
		}
		if !acc.IsActive {
			return fmt.Errorf("%w: %w: ID %s", apperrors.ErrValidation, ErrInactiveAccount, id)
		}
	}
	return nil
}

// CreateBatch validates and persists a new DRAFT batch sourced JOURNAL.
func (s *batchService) CreateBatch(ctx context.Context, req dto.CreateBatchRequest, creatorUserID string) (*domain.PostingBatch, error) {
	return s.CreateSourcedBatch(ctx, req, creatorUserID, domain.SourceJournal)
}

// CreateSourcedBatch validates and persists a new DRAFT batch with the given source.
func (s *batchService) CreateSourcedBatch(ctx context.Context, req dto.CreateBatchRequest, creatorUserID string, source domain.BatchSource) (*domain.PostingBatch, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	batchID := uuid.NewString()
	entries := buildEntries(batchID, req.Entries, creatorUserID, now)

	// Reject malformed lines up front; balance is enforced again at submit
	// and once more at post.
	batch := domain.PostingBatch{
		BatchID:     batchID,
		BatchDate:   req.BatchDate,
		Description: req.Description,
		Status:      domain.StatusDraft,
		Source:      source,
		Entries:     entries,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := accounting.ValidateBatch(batch); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}
	if err := s.checkAccountsUsable(ctx, entries); err != nil {
		return nil, err
	}

	batchNumber, err := s.batchRepo.NextBatchNumber(ctx, req.BatchDate)
	if err != nil {
		logger.Error("Failed to allocate batch number", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to allocate batch number: %w", err)
	}
	batch.BatchNumber = batchNumber

	if err := s.batchRepo.SaveBatch(ctx, batch); err != nil {
		logger.Error("Failed to save batch", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save batch: %w", err)
	}

	logger.Info("Batch created", slog.String("batch_id", batch.BatchID), slog.String("batch_number", batch.BatchNumber))
	return &batch, nil
}

// GetBatchByID retrieves a batch with entries and lines.
func (s *batchService) GetBatchByID(ctx context.Context, batchID string) (*domain.PostingBatch, error) {
	batch, err := s.batchRepo.FindBatchWithEntries(ctx, batchID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find batch", slog.String("error", err.Error()), slog.String("batch_id", batchID))
		}
		return nil, fmt.Errorf("failed to find batch %s: %w", batchID, err)
	}
	return batch, nil
}

// ListBatches retrieves batch headers with token pagination.
func (s *batchService) ListBatches(ctx context.Context, params dto.ListBatchesParams) (*dto.ListBatchesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	statuses := make([]domain.BatchStatus, 0, len(params.Status))
	for _, raw := range params.Status {
		status := domain.BatchStatus(raw)
		switch status {
		case domain.StatusDraft, domain.StatusPendingApproval, domain.StatusApproved,
			domain.StatusPosted, domain.StatusRejected, domain.StatusReversed:
			statuses = append(statuses, status)
		default:
			return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, raw)
		}
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	batches, nextToken, err := s.batchRepo.ListBatches(ctx, statuses, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list batches", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}

	responses := make([]dto.BatchResponse, len(batches))
	for i := range batches {
		responses[i] = dto.ToBatchResponse(&batches[i])
	}
	return &dto.ListBatchesResponse{Batches: responses, NextToken: nextToken}, nil
}

// ReplaceEntries swaps a mutable batch's proposed entries. Lines must be
// well-formed but the batch may be left unbalanced; balance is enforced at
// submit time.
func (s *batchService) ReplaceEntries(ctx context.Context, batchID string, req dto.ReplaceEntriesRequest, userID string) (*domain.PostingBatch, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	batch, err := s.batchRepo.FindBatchByID(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to find batch %s: %w", batchID, err)
	}
	if !batch.Status.IsMutable() {
		return nil, fmt.Errorf("%w: batch %s is %s", apperrors.ErrInvalidState, batchID, batch.Status)
	}

	now := time.Now().UTC()
	entries := buildEntries(batchID, req.Entries, userID, now)
	for _, entry := range entries {
		for _, line := range entry.Lines {
			if err := accounting.ValidateLine(line); err != nil {
				return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
			}
		}
	}
	if err := s.checkAccountsUsable(ctx, entries); err != nil {
		return nil, err
	}

	if err := s.batchRepo.ReplaceEntries(ctx, batchID, batch.Status, entries, userID, now); err != nil {
		logger.Error("Failed to replace batch entries", slog.String("error", err.Error()), slog.String("batch_id", batchID))
		return nil, fmt.Errorf("failed to replace entries for batch %s: %w", batchID, err)
	}

	batch.Entries = entries
	batch.LastUpdatedAt = now
	batch.LastUpdatedBy = userID
	logger.Info("Batch entries replaced", slog.String("batch_id", batchID), slog.Int("entry_count", len(entries)))
	return batch, nil
}

// SubmitBatch validates the batch and moves DRAFT -> PENDING_APPROVAL.
// An unbalanced batch never reaches PENDING_APPROVAL.
func (s *batchService) SubmitBatch(ctx context.Context, batchID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	batch, err := s.batchRepo.FindBatchWithEntries(ctx, batchID)
	if err != nil {
		return fmt.Errorf("failed to find batch %s: %w", batchID, err)
	}
	if !batch.Status.CanTransitionTo(domain.StatusPendingApproval) {
		return fmt.Errorf("%w: cannot submit batch in status %s", apperrors.ErrInvalidState, batch.Status)
	}
	if err := accounting.ValidateBatch(*batch); err != nil {
		logger.Warn("Batch failed validation at submit", slog.String("batch_id", batchID), slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}

	err = s.batchRepo.TransitionBatch(ctx, batchID, portsrepo.StatusTransition{
		From:    domain.StatusDraft,
		To:      domain.StatusPendingApproval,
		ActorID: userID,
		At:      time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to submit batch %s: %w", batchID, err)
	}
	logger.Info("Batch submitted for approval", slog.String("batch_id", batchID))
	return nil
}

// ApproveBatch checks the period lock and moves PENDING_APPROVAL -> APPROVED,
// recording approver identity and timestamp. The persisted status is the
// transition guard: a concurrent approval loses with ErrConcurrentModification.
func (s *batchService) ApproveBatch(ctx context.Context, batchID string, approverID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	batch, err := s.batchRepo.FindBatchByID(ctx, batchID)
	if err != nil {
		return fmt.Errorf("failed to find batch %s: %w", batchID, err)
	}
	if !batch.Status.CanTransitionTo(domain.StatusApproved) {
		return fmt.Errorf("%w: cannot approve batch in status %s", apperrors.ErrInvalidState, batch.Status)
	}

	open, err := s.periodSvc.IsOpen(ctx, batch.BatchDate)
	if err != nil {
		return fmt.Errorf("failed to check period lock for batch %s: %w", batchID, err)
	}
	if !open {
		logger.Warn("Approval refused, period closed", slog.String("batch_id", batchID), slog.Time("batch_date", batch.BatchDate))
		return fmt.Errorf("%w: batch date %s", apperrors.ErrPeriodClosed, batch.BatchDate.Format("2006-01-02"))
	}

	err = s.batchRepo.TransitionBatch(ctx, batchID, portsrepo.StatusTransition{
		From:    domain.StatusPendingApproval,
		To:      domain.StatusApproved,
		ActorID: approverID,
		At:      time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to approve batch %s: %w", batchID, err)
	}
	logger.Info("Batch approved", slog.String("batch_id", batchID), slog.String("approver", approverID))
	return nil
}

// RejectBatch moves the batch to REJECTED with a reason. Terminal; a rejected
// batch can be cloned into a new draft but never reused directly.
func (s *batchService) RejectBatch(ctx context.Context, batchID string, reason string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	batch, err := s.batchRepo.FindBatchByID(ctx, batchID)
	if err != nil {
		return fmt.Errorf("failed to find batch %s: %w", batchID, err)
	}
	if !batch.Status.CanTransitionTo(domain.StatusRejected) {
		return fmt.Errorf("%w: cannot reject batch in status %s", apperrors.ErrInvalidState, batch.Status)
	}

	err = s.batchRepo.TransitionBatch(ctx, batchID, portsrepo.StatusTransition{
		From:    batch.Status,
		To:      domain.StatusRejected,
		ActorID: userID,
		Note:    reason,
		At:      time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to reject batch %s: %w", batchID, err)
	}
	logger.Info("Batch rejected", slog.String("batch_id", batchID), slog.String("reason", reason))
	return nil
}

// PostBatch re-validates, re-checks the period lock, and atomically writes
// ledger rows while flipping APPROVED -> POSTED. Posting an already-POSTED
// batch returns ErrAlreadyPosted so retried requests are harmless.
func (s *batchService) PostBatch(ctx context.Context, batchID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	batch, err := s.batchRepo.FindBatchWithEntries(ctx, batchID)
	if err != nil {
		return fmt.Errorf("failed to find batch %s: %w", batchID, err)
	}
	switch batch.Status {
	case domain.StatusApproved:
		// proceed
	case domain.StatusPosted, domain.StatusReversed:
		return fmt.Errorf("%w: batch %s", apperrors.ErrAlreadyPosted, batchID)
	default:
		return fmt.Errorf("%w: cannot post batch in status %s", apperrors.ErrInvalidState, batch.Status)
	}

	// Approved batches are structurally immutable, but re-validate anyway as a
	// last line of defense before touching the ledger.
	if err := accounting.ValidateBatch(*batch); err != nil {
		logger.Error("Approved batch failed re-validation at post", slog.String("batch_id", batchID), slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}

	// The period may have closed between approval and posting.
	open, err := s.periodSvc.IsOpen(ctx, batch.BatchDate)
	if err != nil {
		return fmt.Errorf("failed to check period lock for batch %s: %w", batchID, err)
	}
	if !open {
		logger.Warn("Posting refused, period closed since approval", slog.String("batch_id", batchID), slog.Time("batch_date", batch.BatchDate))
		return fmt.Errorf("%w: batch date %s", apperrors.ErrPeriodClosed, batch.BatchDate.Format("2006-01-02"))
	}

	now := time.Now().UTC()
	ledgerEntries, err := s.buildLedgerEntries(ctx, batch, userID, now)
	if err != nil {
		return err
	}

	// Once writing begins the operation runs to completion; caller
	// cancellation must not produce partial ledger state.
	postCtx := context.WithoutCancel(ctx)
	if err := s.batchRepo.PostBatch(postCtx, *batch, ledgerEntries, userID, now); err != nil {
		logger.Error("Failed to post batch", slog.String("error", err.Error()), slog.String("batch_id", batchID))
		return fmt.Errorf("failed to post batch %s: %w", batchID, err)
	}

	logger.Info("Batch posted", slog.String("batch_id", batchID), slog.Int("ledger_rows", len(ledgerEntries)))
	return nil
}

// buildLedgerEntries maps every journal line to one ledger row.
func (s *batchService) buildLedgerEntries(ctx context.Context, batch *domain.PostingBatch, postedBy string, postedAt time.Time) ([]domain.GeneralLedgerEntry, error) {
	ids := make([]string, 0)
	seen := make(map[string]struct{})
	for _, entry := range batch.Entries {
		for _, line := range entry.Lines {
			if _, ok := seen[line.AccountID]; !ok {
				seen[line.AccountID] = struct{}{}
				ids = append(ids, line.AccountID)
			}
		}
	}
	accountsMap, err := s.accountSvc.GetAccountsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts for posting: %w", err)
	}

	ledgerEntries := make([]domain.GeneralLedgerEntry, 0)
	for _, entry := range batch.Entries {
		for _, line := range entry.Lines {
			acc, found := accountsMap[line.AccountID]
			if !found {
				return nil, fmt.Errorf("%w: %w: ID %s", apperrors.ErrValidation, ErrAccountNotFound, line.AccountID)
			}
			ledgerEntries = append(ledgerEntries, domain.GeneralLedgerEntry{
				LedgerEntryID:   uuid.NewString(),
				AccountID:       line.AccountID,
				AccountCode:     acc.Code,
				Debit:           line.Debit,
				Credit:          line.Credit,
				TransactionDate: entry.EntryDate,
				PostingDate:     postedAt,
				SourceBatchID:   batch.BatchID,
				EntryID:         entry.EntryID,
				Memo:            line.Memo,
				UsoaClass:       line.UsoaClass,
				ReferenceNumber: entry.ReferenceNumber,
				Source:          batch.Source,
				IsPosted:        true,
				IsReversed:      false,
				PostedBy:        postedBy,
			})
		}
	}
	return ledgerEntries, nil
}

// DeleteBatch removes a batch that has not been approved yet. Nothing has
// touched the ledger at that point, so entries go with it.
func (s *batchService) DeleteBatch(ctx context.Context, batchID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	batch, err := s.batchRepo.FindBatchByID(ctx, batchID)
	if err != nil {
		return fmt.Errorf("failed to find batch %s: %w", batchID, err)
	}
	if !batch.Status.IsMutable() {
		return fmt.Errorf("%w: cannot delete batch in status %s", apperrors.ErrInvalidState, batch.Status)
	}

	allowed := []domain.BatchStatus{domain.StatusDraft, domain.StatusPendingApproval}
	if err := s.batchRepo.DeleteBatch(ctx, batchID, allowed); err != nil {
		return fmt.Errorf("failed to delete batch %s: %w", batchID, err)
	}
	logger.Info("Batch deleted", slog.String("batch_id", batchID), slog.String("deleted_by", userID))
	return nil
}

// ReverseBatch creates a DRAFT mirror batch offsetting a posted batch. Every
// line's debit and credit are swapped; amounts stay non-negative. The mirror
// is dated today (not the original date) so a closed original period is never
// re-opened, and it goes through the full submit/approve/post pipeline.
func (s *batchService) ReverseBatch(ctx context.Context, batchID string, reason string, userID string) (*domain.PostingBatch, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	source, err := s.batchRepo.FindBatchWithEntries(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to find batch %s: %w", batchID, err)
	}
	switch {
	case source.Status == domain.StatusReversed:
		return nil, fmt.Errorf("%w: batch %s", apperrors.ErrAlreadyReversed, batchID)
	case source.Status != domain.StatusPosted:
		return nil, fmt.Errorf("%w: batch %s is %s", apperrors.ErrNotPosted, batchID, source.Status)
	case source.IsReversal():
		// Correcting a reversal is a fresh, independent batch.
		return nil, fmt.Errorf("%w: cannot reverse a reversal batch", apperrors.ErrInvalidState)
	case source.ReversingBatchID != nil:
		return nil, fmt.Errorf("%w: batch %s is reversed by %s", apperrors.ErrAlreadyReversed, batchID, *source.ReversingBatchID)
	}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	reversalID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}

	entries := make([]domain.JournalEntry, len(source.Entries))
	for i, srcEntry := range source.Entries {
		entryID := uuid.NewString()
		lines := make([]domain.JournalLine, len(srcEntry.Lines))
		for j, srcLine := range srcEntry.Lines {
			lines[j] = domain.JournalLine{
				LineID:      uuid.NewString(),
				EntryID:     entryID,
				AccountID:   srcLine.AccountID,
				Debit:       srcLine.Credit, // swapped
				Credit:      srcLine.Debit,  // swapped
				Memo:        srcLine.Memo,
				UsoaClass:   srcLine.UsoaClass,
				AuditFields: audit,
			}
		}
		entries[i] = domain.JournalEntry{
			EntryID:         entryID,
			BatchID:         reversalID,
			EntryDate:       today,
			ReferenceNumber: srcEntry.ReferenceNumber,
			Description:     fmt.Sprintf("Reversal: %s", srcEntry.Description),
			Lines:           lines,
			AuditFields:     audit,
		}
	}

	reversal := domain.PostingBatch{
		BatchID:           reversalID,
		BatchDate:         today,
		Description:       fmt.Sprintf("Reversal of %s: %s", source.BatchNumber, reason),
		Status:            domain.StatusDraft,
		Source:            domain.SourceReversal,
		ReversalOfBatchID: &source.BatchID,
		Entries:           entries,
		AuditFields:       audit,
	}

	// A mirror of a valid batch must balance; validate anyway, a reversal is
	// not a shortcut around the pipeline.
	if err := accounting.ValidateBatch(reversal); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}

	batchNumber, err := s.batchRepo.NextBatchNumber(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate batch number: %w", err)
	}
	reversal.BatchNumber = batchNumber

	if err := s.batchRepo.CreateReversalBatch(ctx, reversal, source.BatchID); err != nil {
		logger.Error("Failed to create reversal batch", slog.String("error", err.Error()), slog.String("source_batch_id", batchID))
		return nil, fmt.Errorf("failed to create reversal of batch %s: %w", batchID, err)
	}

	logger.Info("Reversal batch created", slog.String("source_batch_id", batchID), slog.String("reversal_batch_id", reversalID))
	return &reversal, nil
}
