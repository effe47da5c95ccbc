package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/utilikit/gl_posting_app/internal/core/domain"
)

// CreateRecurringLineRequest is one template line; lines sharing an entrySeq
// form one journal entry at generation time.
type CreateRecurringLineRequest struct {
	EntrySeq  int             `json:"entrySeq" binding:"min=0"`
	AccountID string          `json:"accountID" binding:"required,uuid"`
	Debit     decimal.Decimal `json:"debit" binding:"decimalgte0"`
	Credit    decimal.Decimal `json:"credit" binding:"decimalgte0"`
	Memo      string          `json:"memo"`
	UsoaClass string          `json:"usoaClass"`
}

// CreateTemplateRequest creates a recurring entry template.
type CreateTemplateRequest struct {
	TemplateCode       string                       `json:"templateCode" binding:"required"`
	Description        string                       `json:"description"`
	Frequency          string                       `json:"frequency" binding:"required,oneof=MONTHLY QUARTERLY ANNUALLY CUSTOM"`
	CustomIntervalDays *int                         `json:"customIntervalDays,omitempty"`
	StartDate          time.Time                    `json:"startDate" binding:"required"`
	EndDate            *time.Time                   `json:"endDate,omitempty"`
	Lines              []CreateRecurringLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// GenerateBatchRequest triggers generation from a template.
type GenerateBatchRequest struct {
	AsOfDate time.Time `json:"asOfDate" binding:"required"`
}

// RecurringLineResponse is the API shape of a template line.
type RecurringLineResponse struct {
	LineID    string          `json:"lineID"`
	EntrySeq  int             `json:"entrySeq"`
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo,omitempty"`
	UsoaClass string          `json:"usoaClass,omitempty"`
}

// TemplateResponse is the API shape of a recurring template.
type TemplateResponse struct {
	TemplateID         string                  `json:"templateID"`
	TemplateCode       string                  `json:"templateCode"`
	Description        string                  `json:"description,omitempty"`
	Frequency          string                  `json:"frequency"`
	CustomIntervalDays *int                    `json:"customIntervalDays,omitempty"`
	StartDate          time.Time               `json:"startDate"`
	EndDate            *time.Time              `json:"endDate,omitempty"`
	NextRunDate        time.Time               `json:"nextRunDate"`
	LastGeneratedAt    *time.Time              `json:"lastGeneratedAt,omitempty"`
	GeneratedCount     int                     `json:"generatedCount"`
	Status             string                  `json:"status"`
	Lines              []RecurringLineResponse `json:"lines,omitempty"`
}

// ListTemplatesResponse lists recurring templates.
type ListTemplatesResponse struct {
	Templates []TemplateResponse `json:"templates"`
}

// ToTemplateResponse converts a domain template to its API shape.
func ToTemplateResponse(t *domain.RecurringTemplate) TemplateResponse {
	resp := TemplateResponse{
		TemplateID:         t.TemplateID,
		TemplateCode:       t.TemplateCode,
		Description:        t.Description,
		Frequency:          string(t.Frequency),
		CustomIntervalDays: t.CustomIntervalDays,
		StartDate:          t.StartDate,
		EndDate:            t.EndDate,
		NextRunDate:        t.NextRunDate,
		LastGeneratedAt:    t.LastGeneratedAt,
		GeneratedCount:     t.GeneratedCount,
		Status:             string(t.Status),
	}
	if len(t.Lines) > 0 {
		resp.Lines = make([]RecurringLineResponse, len(t.Lines))
		for i, l := range t.Lines {
			resp.Lines[i] = RecurringLineResponse{
				LineID:    l.LineID,
				EntrySeq:  l.EntrySeq,
				AccountID: l.AccountID,
				Debit:     l.Debit,
				Credit:    l.Credit,
				Memo:      l.Memo,
				UsoaClass: l.UsoaClass,
			}
		}
	}
	return resp
}
