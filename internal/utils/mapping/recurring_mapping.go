package mapping

import (
	"github.com/utilikit/gl_posting_app/internal/core/domain"
	"github.com/utilikit/gl_posting_app/internal/models"
)

// ToModelTemplate converts a domain recurring template header (lines excluded).
func ToModelTemplate(d domain.RecurringTemplate) models.RecurringTemplate {
	return models.RecurringTemplate{
		TemplateID:         d.TemplateID,
		TemplateCode:       d.TemplateCode,
		Description:        d.Description,
		Frequency:          string(d.Frequency),
		CustomIntervalDays: d.CustomIntervalDays,
		StartDate:          d.StartDate,
		EndDate:            d.EndDate,
		NextRunDate:        d.NextRunDate,
		LastGeneratedAt:    d.LastGeneratedAt,
		GeneratedCount:     d.GeneratedCount,
		Status:             string(d.Status),
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTemplate converts a model recurring template header.
func ToDomainTemplate(m models.RecurringTemplate) domain.RecurringTemplate {
	return domain.RecurringTemplate{
		TemplateID:         m.TemplateID,
		TemplateCode:       m.TemplateCode,
		Description:        m.Description,
		Frequency:          domain.RecurrenceFrequency(m.Frequency),
		CustomIntervalDays: m.CustomIntervalDays,
		StartDate:          m.StartDate,
		EndDate:            m.EndDate,
		NextRunDate:        m.NextRunDate,
		LastGeneratedAt:    m.LastGeneratedAt,
		GeneratedCount:     m.GeneratedCount,
		Status:             domain.RecurringStatus(m.Status),
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelRecurringLine converts a domain template line.
func ToModelRecurringLine(d domain.RecurringLine) models.RecurringLine {
	return models.RecurringLine{
		LineID:     d.LineID,
		TemplateID: d.TemplateID,
		EntrySeq:   d.EntrySeq,
		AccountID:  d.AccountID,
		Debit:      d.Debit,
		Credit:     d.Credit,
		Memo:       d.Memo,
		UsoaClass:  d.UsoaClass,
	}
}

// ToDomainRecurringLine converts a model template line.
func ToDomainRecurringLine(m models.RecurringLine) domain.RecurringLine {
	return domain.RecurringLine{
		LineID:     m.LineID,
		TemplateID: m.TemplateID,
		EntrySeq:   m.EntrySeq,
		AccountID:  m.AccountID,
		Debit:      m.Debit,
		Credit:     m.Credit,
		Memo:       m.Memo,
		UsoaClass:  m.UsoaClass,
	}
}
