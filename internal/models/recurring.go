package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecurringTemplate is the database shape of a recurring entry template row.
type RecurringTemplate struct {
	TemplateID         string     `json:"templateID"`
	TemplateCode       string     `json:"templateCode"`
	Description        string     `json:"description"`
	Frequency          string     `json:"frequency"`
	CustomIntervalDays *int       `json:"customIntervalDays,omitempty"`
	StartDate          time.Time  `json:"startDate"`
	EndDate            *time.Time `json:"endDate,omitempty"`
	NextRunDate        time.Time  `json:"nextRunDate"`
	LastGeneratedAt    *time.Time `json:"lastGeneratedAt,omitempty"`
	GeneratedCount     int        `json:"generatedCount"`
	Status             string     `json:"status"`
	AuditFields
}

// RecurringLine is the database shape of one template line.
type RecurringLine struct {
	LineID     string          `json:"lineID"`
	TemplateID string          `json:"templateID"`
	EntrySeq   int             `json:"entrySeq"`
	AccountID  string          `json:"accountID"`
	Debit      decimal.Decimal `json:"debit"`
	Credit     decimal.Decimal `json:"credit"`
	Memo       string          `json:"memo"`
	UsoaClass  string          `json:"usoaClass"`
}
