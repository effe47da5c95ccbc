package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GeneralLedgerEntry is the database shape of a posted ledger row.
type GeneralLedgerEntry struct {
	LedgerEntryID   string          `json:"ledgerEntryID"`
	AccountID       string          `json:"accountID"`
	AccountCode     string          `json:"accountCode"`
	Debit           decimal.Decimal `json:"debit"`
	Credit          decimal.Decimal `json:"credit"`
	TransactionDate time.Time       `json:"transactionDate"`
	PostingDate     time.Time       `json:"postingDate"`
	SourceBatchID   string          `json:"sourceBatchID"`
	EntryID         string          `json:"entryID"`
	Memo            string          `json:"memo"`
	UsoaClass       string          `json:"usoaClass"`
	ReferenceNumber string          `json:"referenceNumber"`
	Source          string          `json:"source"`
	IsPosted        bool            `json:"isPosted"`
	IsReversed      bool            `json:"isReversed"`
	PostedBy        string          `json:"postedBy"`
}
