package services

import (
	"context"

	"github.com/utilikit/gl_posting_app/internal/core/domain"
	"github.com/utilikit/gl_posting_app/internal/dto"
)

// BatchSvcFacade exposes the posting batch lifecycle.
type BatchSvcFacade interface {
	// CreateBatch validates and persists a new DRAFT batch sourced JOURNAL.
	CreateBatch(ctx context.Context, req dto.CreateBatchRequest, creatorUserID string) (*domain.PostingBatch, error)

	// CreateSourcedBatch is CreateBatch for internal producers (recurring
	// generation) that stamp their own batch source.
	CreateSourcedBatch(ctx context.Context, req dto.CreateBatchRequest, creatorUserID string, source domain.BatchSource) (*domain.PostingBatch, error)

	// GetBatchByID retrieves a batch with entries and lines.
	GetBatchByID(ctx context.Context, batchID string) (*domain.PostingBatch, error)

	// ListBatches retrieves batch headers with token pagination.
	ListBatches(ctx context.Context, params dto.ListBatchesParams) (*dto.ListBatchesResponse, error)

	// ReplaceEntries swaps a mutable batch's proposed entries.
	ReplaceEntries(ctx context.Context, batchID string, req dto.ReplaceEntriesRequest, userID string) (*domain.PostingBatch, error)

	// SubmitBatch validates the batch and moves DRAFT -> PENDING_APPROVAL.
	SubmitBatch(ctx context.Context, batchID string, userID string) error

	// ApproveBatch checks the period lock and moves PENDING_APPROVAL -> APPROVED.
	ApproveBatch(ctx context.Context, batchID string, approverID string) error

	// RejectBatch moves PENDING_APPROVAL -> REJECTED with a reason. Terminal.
	RejectBatch(ctx context.Context, batchID string, reason string, userID string) error

	// PostBatch re-validates, re-checks the period lock, and atomically writes
	// the batch's ledger rows while moving APPROVED -> POSTED. Idempotent:
	// posting an already-POSTED batch returns apperrors.ErrAlreadyPosted.
	PostBatch(ctx context.Context, batchID string, userID string) error

	// DeleteBatch removes a batch that has not been approved yet.
	DeleteBatch(ctx context.Context, batchID string, userID string) error

	// ReverseBatch creates a DRAFT mirror batch offsetting a posted batch.
	ReverseBatch(ctx context.Context, batchID string, reason string, userID string) (*domain.PostingBatch, error)
}
