package mapping

import (
	"github.com/utilikit/gl_posting_app/internal/core/domain"
	"github.com/utilikit/gl_posting_app/internal/models"
)

// ToModelBatch converts a domain batch header (entries excluded) to its model shape.
func ToModelBatch(d domain.PostingBatch) models.PostingBatch {
	return models.PostingBatch{
		BatchID:           d.BatchID,
		BatchNumber:       d.BatchNumber,
		BatchDate:         d.BatchDate,
		Description:       d.Description,
		Status:            models.BatchStatus(d.Status),
		Source:            string(d.Source),
		ApprovedBy:        d.ApprovedBy,
		ApprovedAt:        d.ApprovedAt,
		ApprovalNote:      d.ApprovalNote,
		PostedBy:          d.PostedBy,
		PostedAt:          d.PostedAt,
		PostingSeq:        d.PostingSeq,
		ReversalOfBatchID: d.ReversalOfBatchID,
		ReversingBatchID:  d.ReversingBatchID,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBatch converts a model batch header to its domain shape.
func ToDomainBatch(m models.PostingBatch) domain.PostingBatch {
	return domain.PostingBatch{
		BatchID:           m.BatchID,
		BatchNumber:       m.BatchNumber,
		BatchDate:         m.BatchDate,
		Description:       m.Description,
		Status:            domain.BatchStatus(m.Status),
		Source:            domain.BatchSource(m.Source),
		ApprovedBy:        m.ApprovedBy,
		ApprovedAt:        m.ApprovedAt,
		ApprovalNote:      m.ApprovalNote,
		PostedBy:          m.PostedBy,
		PostedAt:          m.PostedAt,
		PostingSeq:        m.PostingSeq,
		ReversalOfBatchID: m.ReversalOfBatchID,
		ReversingBatchID:  m.ReversingBatchID,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelEntry converts a domain journal entry header (lines excluded).
func ToModelEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:         d.EntryID,
		BatchID:         d.BatchID,
		EntryDate:       d.EntryDate,
		ReferenceNumber: d.ReferenceNumber,
		Description:     d.Description,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainEntry converts a model journal entry header.
func ToDomainEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:         m.EntryID,
		BatchID:         m.BatchID,
		EntryDate:       m.EntryDate,
		ReferenceNumber: m.ReferenceNumber,
		Description:     m.Description,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelLine converts a domain journal line.
func ToModelLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:      d.LineID,
		EntryID:     d.EntryID,
		AccountID:   d.AccountID,
		Debit:       d.Debit,
		Credit:      d.Credit,
		Memo:        d.Memo,
		UsoaClass:   d.UsoaClass,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLine converts a model journal line.
func ToDomainLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:      m.LineID,
		EntryID:     m.EntryID,
		AccountID:   m.AccountID,
		Debit:       m.Debit,
		Credit:      m.Credit,
		Memo:        m.Memo,
		UsoaClass:   m.UsoaClass,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLineSlice converts a slice of model lines.
func ToDomainLineSlice(ms []models.JournalLine) []domain.JournalLine {
	out := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		out[i] = ToDomainLine(m)
	}
	return out
}
