package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// GeneralLedgerEntry is the permanent, append-only output of posting: one row
// per journal line. Rows are created only by the posting operation and are
// never updated in place; the only mutable field is the IsReversed flag, set
// when a reversal of the source batch posts. The monetary values never change.
type GeneralLedgerEntry struct {
	LedgerEntryID   string          `json:"ledgerEntryID"` // Primary key (UUID)
	AccountID       string          `json:"accountID"`
	AccountCode     string          `json:"accountCode"` // Denormalized for reporting
	Debit           decimal.Decimal `json:"debit"`
	Credit          decimal.Decimal `json:"credit"`
	TransactionDate time.Time       `json:"transactionDate"` // Entry's effective date
	PostingDate     time.Time       `json:"postingDate"`     // When the batch posted
	SourceBatchID   string          `json:"sourceBatchID"`   // FK -> PostingBatch
	EntryID         string          `json:"entryID"`         // FK -> JournalEntry the line belonged to
	Memo            string          `json:"memo"`            // Nullable
	UsoaClass       string          `json:"usoaClass"`       // Nullable
	ReferenceNumber string          `json:"referenceNumber"` // Nullable
	Source          BatchSource     `json:"source"`
	IsPosted        bool            `json:"isPosted"`   // Always true once written
	IsReversed      bool            `json:"isReversed"` // Set when the source batch is reversed
	PostedBy        string          `json:"postedBy"`
}
