package repositories

import (
	"context"
	"time"

	"github.com/utilikit/gl_posting_app/internal/core/domain"
)

// StatusTransition carries the metadata recorded alongside a compare-and-swap
// status update. From is the expected current status; the update must fail with
// apperrors.ErrConcurrentModification when the persisted status differs.
type StatusTransition struct {
	From    domain.BatchStatus
	To      domain.BatchStatus
	ActorID string
	Note    string // Rejection reason, approval note
	At      time.Time
}

// BatchReader defines read operations for posting batch data.
type BatchReader interface {
	// FindBatchByID retrieves a batch header without entries.
	FindBatchByID(ctx context.Context, batchID string) (*domain.PostingBatch, error)

	// FindBatchWithEntries retrieves a batch with its entries and lines populated.
	FindBatchWithEntries(ctx context.Context, batchID string) (*domain.PostingBatch, error)

	// ListBatches retrieves batch headers newest-first using token pagination,
	// optionally filtered to the given statuses.
	ListBatches(ctx context.Context, statuses []domain.BatchStatus, limit int, nextToken *string) ([]domain.PostingBatch, *string, error)

	// NextBatchNumber allocates the next human-friendly batch number for the
	// month of batchDate, e.g. BATCH-202508-0007.
	NextBatchNumber(ctx context.Context, batchDate time.Time) (string, error)
}

// BatchWriter defines write operations for posting batch data.
type BatchWriter interface {
	// SaveBatch inserts a new batch with its entries and lines in one transaction.
	SaveBatch(ctx context.Context, batch domain.PostingBatch) error

	// ReplaceEntries swaps the proposed entries of a mutable batch. The update
	// is conditional on the batch still being in expectedStatus.
	ReplaceEntries(ctx context.Context, batchID string, expectedStatus domain.BatchStatus, entries []domain.JournalEntry, userID string, at time.Time) error

	// TransitionBatch performs a conditional status update
	// (UPDATE ... WHERE status = from). It returns apperrors.ErrNotFound when
	// the batch does not exist and apperrors.ErrConcurrentModification when the
	// persisted status no longer matches.
	TransitionBatch(ctx context.Context, batchID string, transition StatusTransition) error

	// PostBatch atomically flips an APPROVED batch to POSTED and appends its
	// ledger rows; either everything is written or nothing is. When the batch
	// is a reversal it also flips the source batch to REVERSED and flags the
	// source's ledger rows is_reversed inside the same transaction.
	PostBatch(ctx context.Context, batch domain.PostingBatch, entries []domain.GeneralLedgerEntry, postedBy string, postedAt time.Time) error

	// CreateReversalBatch inserts the reversal batch and claims the source's
	// reversing_batch_id slot in one transaction; it fails with
	// apperrors.ErrAlreadyReversed when a reversal already exists.
	CreateReversalBatch(ctx context.Context, reversal domain.PostingBatch, sourceBatchID string) error

	// DeleteBatch removes a batch and its entries, conditional on the batch
	// being in one of the allowed statuses.
	DeleteBatch(ctx context.Context, batchID string, allowed []domain.BatchStatus) error
}

// BatchRepositoryFacade combines all batch repository interfaces.
type BatchRepositoryFacade interface {
	BatchReader
	BatchWriter
}
