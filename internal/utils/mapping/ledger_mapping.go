package mapping

import (
	"github.com/utilikit/gl_posting_app/internal/core/domain"
	"github.com/utilikit/gl_posting_app/internal/models"
)

// ToModelLedgerEntry converts a domain ledger entry to its model shape.
func ToModelLedgerEntry(d domain.GeneralLedgerEntry) models.GeneralLedgerEntry {
	return models.GeneralLedgerEntry{
		LedgerEntryID:   d.LedgerEntryID,
		AccountID:       d.AccountID,
		AccountCode:     d.AccountCode,
		Debit:           d.Debit,
		Credit:          d.Credit,
		TransactionDate: d.TransactionDate,
		PostingDate:     d.PostingDate,
		SourceBatchID:   d.SourceBatchID,
		EntryID:         d.EntryID,
		Memo:            d.Memo,
		UsoaClass:       d.UsoaClass,
		ReferenceNumber: d.ReferenceNumber,
		Source:          string(d.Source),
		IsPosted:        d.IsPosted,
		IsReversed:      d.IsReversed,
		PostedBy:        d.PostedBy,
	}
}

// ToDomainLedgerEntry converts a model ledger entry to its domain shape.
func ToDomainLedgerEntry(m models.GeneralLedgerEntry) domain.GeneralLedgerEntry {
	return domain.GeneralLedgerEntry{
		LedgerEntryID:   m.LedgerEntryID,
		AccountID:       m.AccountID,
		AccountCode:     m.AccountCode,
		Debit:           m.Debit,
		Credit:          m.Credit,
		TransactionDate: m.TransactionDate,
		PostingDate:     m.PostingDate,
		SourceBatchID:   m.SourceBatchID,
		EntryID:         m.EntryID,
		Memo:            m.Memo,
		UsoaClass:       m.UsoaClass,
		ReferenceNumber: m.ReferenceNumber,
		Source:          domain.BatchSource(m.Source),
		IsPosted:        m.IsPosted,
		IsReversed:      m.IsReversed,
		PostedBy:        m.PostedBy,
	}
}

// ToDomainLedgerEntrySlice converts a slice of model ledger entries.
func ToDomainLedgerEntrySlice(ms []models.GeneralLedgerEntry) []domain.GeneralLedgerEntry {
	out := make([]domain.GeneralLedgerEntry, len(ms))
	for i, m := range ms {
		out[i] = ToDomainLedgerEntry(m)
	}
	return out
}
