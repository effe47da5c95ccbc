package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/utilikit/gl_posting_app/internal/core/domain"
)

// CreateLineRequest is one proposed debit or credit leg.
type CreateLineRequest struct {
	AccountID string          `json:"accountID" binding:"required,uuid"`
	Debit     decimal.Decimal `json:"debit" binding:"decimalgte0"`
	Credit    decimal.Decimal `json:"credit" binding:"decimalgte0"`
	Memo      string          `json:"memo"`
	UsoaClass string          `json:"usoaClass"`
}

// CreateEntryRequest is one proposed journal entry of at least two lines.
type CreateEntryRequest struct {
	EntryDate       time.Time           `json:"entryDate" binding:"required"`
	ReferenceNumber string              `json:"referenceNumber"`
	Description     string              `json:"description"`
	Lines           []CreateLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// CreateBatchRequest creates a new DRAFT posting batch.
type CreateBatchRequest struct {
	BatchDate   time.Time            `json:"batchDate" binding:"required"`
	Description string               `json:"description"`
	Entries     []CreateEntryRequest `json:"entries" binding:"required,min=1,dive"`
}

// ReplaceEntriesRequest replaces the proposed entries of a mutable batch.
type ReplaceEntriesRequest struct {
	Entries []CreateEntryRequest `json:"entries" binding:"required,min=1,dive"`
}

// RejectBatchRequest carries the mandatory rejection reason.
type RejectBatchRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ReverseBatchRequest carries the mandatory reversal reason.
type ReverseBatchRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ListBatchesParams narrows and paginates a batch listing.
type ListBatchesParams struct {
	Status    []string `form:"status"`
	Limit     int      `form:"limit"`
	NextToken *string  `form:"nextToken"`
}

// LineResponse is the API shape of a journal line.
type LineResponse struct {
	LineID    string          `json:"lineID"`
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo,omitempty"`
	UsoaClass string          `json:"usoaClass,omitempty"`
}

// EntryResponse is the API shape of a journal entry with its lines.
type EntryResponse struct {
	EntryID         string         `json:"entryID"`
	EntryDate       time.Time      `json:"entryDate"`
	ReferenceNumber string         `json:"referenceNumber,omitempty"`
	Description     string         `json:"description,omitempty"`
	Lines           []LineResponse `json:"lines"`
}

// BatchResponse is the API shape of a posting batch.
type BatchResponse struct {
	BatchID           string          `json:"batchID"`
	BatchNumber       string          `json:"batchNumber"`
	BatchDate         time.Time       `json:"batchDate"`
	Description       string          `json:"description,omitempty"`
	Status            string          `json:"status"`
	Source            string          `json:"source"`
	TotalDebits       decimal.Decimal `json:"totalDebits"`
	TotalCredits      decimal.Decimal `json:"totalCredits"`
	ApprovedBy        *string         `json:"approvedBy,omitempty"`
	ApprovedAt        *time.Time      `json:"approvedAt,omitempty"`
	ApprovalNote      string          `json:"approvalNote,omitempty"`
	PostedBy          *string         `json:"postedBy,omitempty"`
	PostedAt          *time.Time      `json:"postedAt,omitempty"`
	PostingSeq        *int64          `json:"postingSeq,omitempty"`
	ReversalOfBatchID *string         `json:"reversalOfBatchID,omitempty"`
	ReversingBatchID  *string         `json:"reversingBatchID,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	CreatedBy         string          `json:"createdBy"`
	Entries           []EntryResponse `json:"entries,omitempty"`
}

// ListBatchesResponse is a paginated batch listing.
type ListBatchesResponse struct {
	Batches   []BatchResponse `json:"batches"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToLineResponse converts a domain line to its API shape.
func ToLineResponse(l *domain.JournalLine) LineResponse {
	return LineResponse{
		LineID:    l.LineID,
		AccountID: l.AccountID,
		Debit:     l.Debit,
		Credit:    l.Credit,
		Memo:      l.Memo,
		UsoaClass: l.UsoaClass,
	}
}

// ToEntryResponse converts a domain entry to its API shape.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	lines := make([]LineResponse, len(e.Lines))
	for i := range e.Lines {
		lines[i] = ToLineResponse(&e.Lines[i])
	}
	return EntryResponse{
		EntryID:         e.EntryID,
		EntryDate:       e.EntryDate,
		ReferenceNumber: e.ReferenceNumber,
		Description:     e.Description,
		Lines:           lines,
	}
}

// ToBatchResponse converts a domain batch to its API shape.
func ToBatchResponse(b *domain.PostingBatch) BatchResponse {
	resp := BatchResponse{
		BatchID:           b.BatchID,
		BatchNumber:       b.BatchNumber,
		BatchDate:         b.BatchDate,
		Description:       b.Description,
		Status:            string(b.Status),
		Source:            string(b.Source),
		TotalDebits:       b.TotalDebits(),
		TotalCredits:      b.TotalCredits(),
		ApprovedBy:        b.ApprovedBy,
		ApprovedAt:        b.ApprovedAt,
		ApprovalNote:      b.ApprovalNote,
		PostedBy:          b.PostedBy,
		PostedAt:          b.PostedAt,
		PostingSeq:        b.PostingSeq,
		ReversalOfBatchID: b.ReversalOfBatchID,
		ReversingBatchID:  b.ReversingBatchID,
		CreatedAt:         b.CreatedAt,
		CreatedBy:         b.CreatedBy,
	}
	if len(b.Entries) > 0 {
		resp.Entries = make([]EntryResponse, len(b.Entries))
		for i := range b.Entries {
			resp.Entries[i] = ToEntryResponse(&b.Entries[i])
		}
	}
	return resp
}
