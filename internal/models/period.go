package models

import "time"

// AccountingPeriod is the database shape of an accounting period row.
type AccountingPeriod struct {
	PeriodID   string    `json:"periodID"`
	Name       string    `json:"name"`
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	FiscalYear int       `json:"fiscalYear"`
	IsClosed   bool      `json:"isClosed"`
	AuditFields
}
