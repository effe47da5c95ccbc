package domain

import "time"

// AccountingPeriod supplies the lock state for a date range. The posting engine
// only reads periods; opening and closing them is an administrative concern
// outside this engine's authority.
type AccountingPeriod struct {
	PeriodID   string    `json:"periodID"` // Primary key (UUID)
	Name       string    `json:"name"`     // e.g. "2025-09"
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	FiscalYear int       `json:"fiscalYear"`
	IsClosed   bool      `json:"isClosed"`
	AuditFields
}

// Contains reports whether date falls within the period's range, inclusive.
func (p *AccountingPeriod) Contains(date time.Time) bool {
	d := date.Truncate(24 * time.Hour)
	return !d.Before(p.StartDate.Truncate(24*time.Hour)) && !d.After(p.EndDate.Truncate(24*time.Hour))
}
