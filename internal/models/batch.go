package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BatchStatus mirrors domain.BatchStatus for persistence.
type BatchStatus string

const (
	StatusDraft           BatchStatus = "DRAFT"
	StatusPendingApproval BatchStatus = "PENDING_APPROVAL"
	StatusApproved        BatchStatus = "APPROVED"
	StatusPosted          BatchStatus = "POSTED"
	StatusRejected        BatchStatus = "REJECTED"
	StatusReversed        BatchStatus = "REVERSED"
)

// PostingBatch is the database shape of a posting batch row.
type PostingBatch struct {
	BatchID           string      `json:"batchID"`
	BatchNumber       string      `json:"batchNumber"`
	BatchDate         time.Time   `json:"batchDate"`
	Description       string      `json:"description"`
	Status            BatchStatus `json:"status"`
	Source            string      `json:"source"`
	ApprovedBy        *string     `json:"approvedBy,omitempty"`
	ApprovedAt        *time.Time  `json:"approvedAt,omitempty"`
	ApprovalNote      string      `json:"approvalNote"`
	PostedBy          *string     `json:"postedBy,omitempty"`
	PostedAt          *time.Time  `json:"postedAt,omitempty"`
	PostingSeq        *int64      `json:"postingSeq,omitempty"`
	ReversalOfBatchID *string     `json:"reversalOfBatchID,omitempty"`
	ReversingBatchID  *string     `json:"reversingBatchID,omitempty"`
	AuditFields
}

// JournalEntry is the database shape of a journal entry row.
type JournalEntry struct {
	EntryID         string    `json:"entryID"`
	BatchID         string    `json:"batchID"`
	EntryDate       time.Time `json:"entryDate"`
	ReferenceNumber string    `json:"referenceNumber"`
	Description     string    `json:"description"`
	AuditFields
}

// JournalLine is the database shape of a journal line row.
type JournalLine struct {
	LineID    string          `json:"lineID"`
	EntryID   string          `json:"entryID"`
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo"`
	UsoaClass string          `json:"usoaClass"`
	AuditFields
}
