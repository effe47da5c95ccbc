package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BatchStatus indicates where a posting batch sits in its lifecycle.
type BatchStatus string

const (
	StatusDraft           BatchStatus = "DRAFT"
	StatusPendingApproval BatchStatus = "PENDING_APPROVAL"
	StatusApproved        BatchStatus = "APPROVED"
	StatusPosted          BatchStatus = "POSTED"
	StatusRejected        BatchStatus = "REJECTED"
	StatusReversed        BatchStatus = "REVERSED"
)

// batchTransitions is the closed set of legal status transitions.
var batchTransitions = map[BatchStatus][]BatchStatus{
	StatusDraft:           {StatusPendingApproval, StatusRejected},
	StatusPendingApproval: {StatusApproved, StatusRejected},
	StatusApproved:        {StatusPosted},
	StatusPosted:          {StatusReversed},
	StatusRejected:        {},
	StatusReversed:        {},
}

// CanTransitionTo reports whether moving from s to next is a legal transition.
func (s BatchStatus) CanTransitionTo(next BatchStatus) bool {
	for _, t := range batchTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// IsMutable reports whether the batch's entries may still be edited.
// Only DRAFT and PENDING_APPROVAL batches are mutable.
func (s BatchStatus) IsMutable() bool {
	return s == StatusDraft || s == StatusPendingApproval
}

// IsTerminal reports whether no further transitions exist from s.
func (s BatchStatus) IsTerminal() bool {
	return len(batchTransitions[s]) == 0
}

// BatchSource identifies what produced a posting batch.
type BatchSource string

const (
	SourceJournal   BatchSource = "JOURNAL"
	SourceRecurring BatchSource = "RECURRING"
	SourceReversal  BatchSource = "REVERSAL"
)

// JournalLine is a single debit or credit against one account. Exactly one of
// Debit/Credit is non-zero and both are non-negative.
type JournalLine struct {
	LineID    string          `json:"lineID"`    // Primary key (UUID)
	EntryID   string          `json:"entryID"`   // FK -> JournalEntry
	AccountID string          `json:"accountID"` // FK -> Account
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo"`      // Nullable
	UsoaClass string          `json:"usoaClass"` // Nullable
	AuditFields
}

// JournalEntry is a transaction-dated group of two or more lines that must
// balance (sum of debits == sum of credits).
type JournalEntry struct {
	EntryID         string        `json:"entryID"` // Primary key (UUID)
	BatchID         string        `json:"batchID"` // FK -> PostingBatch
	EntryDate       time.Time     `json:"entryDate"`
	ReferenceNumber string        `json:"referenceNumber"` // Invoice/check number etc., nullable
	Description     string        `json:"description"`
	Lines           []JournalLine `json:"lines,omitempty"`
	AuditFields
}

// TotalDebits sums the debit side of the entry's lines.
func (e *JournalEntry) TotalDebits() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.Debit)
	}
	return total
}

// TotalCredits sums the credit side of the entry's lines.
func (e *JournalEntry) TotalCredits() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.Credit)
	}
	return total
}

// PostingBatch is the unit of approval and posting: an ordered collection of
// journal entries moving through DRAFT -> PENDING_APPROVAL -> APPROVED ->
// POSTED, with REJECTED and REVERSED side branches. Once approved the batch's
// monetary content is immutable; corrections happen through reversal only.
type PostingBatch struct {
	BatchID           string         `json:"batchID"`     // Primary key (UUID)
	BatchNumber       string         `json:"batchNumber"` // Human-friendly unique number, e.g. BATCH-202508-0001
	BatchDate         time.Time      `json:"batchDate"`   // Effective date used for the period-lock check
	Description       string         `json:"description"` // Nullable
	Status            BatchStatus    `json:"status"`
	Source            BatchSource    `json:"source"`
	ApprovedBy        *string        `json:"approvedBy,omitempty"`
	ApprovedAt        *time.Time     `json:"approvedAt,omitempty"`
	ApprovalNote      string         `json:"approvalNote"` // Rejection reason when rejected, nullable
	PostedBy          *string        `json:"postedBy,omitempty"`
	PostedAt          *time.Time     `json:"postedAt,omitempty"`
	PostingSeq        *int64         `json:"postingSeq,omitempty"`        // Monotonic, assigned at post time
	ReversalOfBatchID *string        `json:"reversalOfBatchID,omitempty"` // Set on reversal batches
	ReversingBatchID  *string        `json:"reversingBatchID,omitempty"`  // Set on the source once a reversal exists
	Entries           []JournalEntry `json:"entries,omitempty"`
	AuditFields
}

// TotalDebits sums the debit side across all entries.
func (b *PostingBatch) TotalDebits() decimal.Decimal {
	total := decimal.Zero
	for i := range b.Entries {
		total = total.Add(b.Entries[i].TotalDebits())
	}
	return total
}

// TotalCredits sums the credit side across all entries.
func (b *PostingBatch) TotalCredits() decimal.Decimal {
	total := decimal.Zero
	for i := range b.Entries {
		total = total.Add(b.Entries[i].TotalCredits())
	}
	return total
}

// IsReversal reports whether this batch was created to offset another batch.
func (b *PostingBatch) IsReversal() bool {
	return b.ReversalOfBatchID != nil
}
