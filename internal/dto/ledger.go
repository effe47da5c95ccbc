package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/utilikit/gl_posting_app/internal/core/domain"
)

// ListLedgerEntriesParams filters the read-only ledger stream.
type ListLedgerEntriesParams struct {
	AccountID       *string    `form:"accountID"`
	FromDate        *time.Time `form:"fromDate" time_format:"2006-01-02"`
	ToDate          *time.Time `form:"toDate" time_format:"2006-01-02"`
	IncludeReversed bool       `form:"includeReversed"`
	Limit           int        `form:"limit"`
	NextToken       *string    `form:"nextToken"`
}

// LedgerEntryResponse is the API shape of one posted ledger row.
type LedgerEntryResponse struct {
	LedgerEntryID   string          `json:"ledgerEntryID"`
	AccountID       string          `json:"accountID"`
	AccountCode     string          `json:"accountCode"`
	Debit           decimal.Decimal `json:"debit"`
	Credit          decimal.Decimal `json:"credit"`
	TransactionDate time.Time       `json:"transactionDate"`
	PostingDate     time.Time       `json:"postingDate"`
	SourceBatchID   string          `json:"sourceBatchID"`
	Memo            string          `json:"memo,omitempty"`
	UsoaClass       string          `json:"usoaClass,omitempty"`
	ReferenceNumber string          `json:"referenceNumber,omitempty"`
	Source          string          `json:"source"`
	IsPosted        bool            `json:"isPosted"`
	IsReversed      bool            `json:"isReversed"`
}

// ListLedgerEntriesResponse is a paginated ledger listing.
type ListLedgerEntriesResponse struct {
	Entries   []LedgerEntryResponse `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// ToLedgerEntryResponse converts a domain ledger entry to its API shape.
func ToLedgerEntryResponse(e *domain.GeneralLedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		LedgerEntryID:   e.LedgerEntryID,
		AccountID:       e.AccountID,
		AccountCode:     e.AccountCode,
		Debit:           e.Debit,
		Credit:          e.Credit,
		TransactionDate: e.TransactionDate,
		PostingDate:     e.PostingDate,
		SourceBatchID:   e.SourceBatchID,
		Memo:            e.Memo,
		UsoaClass:       e.UsoaClass,
		ReferenceNumber: e.ReferenceNumber,
		Source:          string(e.Source),
		IsPosted:        e.IsPosted,
		IsReversed:      e.IsReversed,
	}
}

// ToLedgerEntryResponses converts a slice of domain ledger entries.
func ToLedgerEntryResponses(entries []domain.GeneralLedgerEntry) []LedgerEntryResponse {
	out := make([]LedgerEntryResponse, len(entries))
	for i := range entries {
		out[i] = ToLedgerEntryResponse(&entries[i])
	}
	return out
}
