package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RecurrenceFrequency determines how the next run date advances after each generation.
type RecurrenceFrequency string

const (
	Monthly   RecurrenceFrequency = "MONTHLY"
	Quarterly RecurrenceFrequency = "QUARTERLY"
	Annually  RecurrenceFrequency = "ANNUALLY"
	Custom    RecurrenceFrequency = "CUSTOM" // Requires CustomIntervalDays
)

// RecurringStatus indicates whether a template is eligible for generation.
type RecurringStatus string

const (
	RecurringActive    RecurringStatus = "ACTIVE"
	RecurringSuspended RecurringStatus = "SUSPENDED"
	RecurringExpired   RecurringStatus = "EXPIRED" // Next run passed the end date
)

// RecurringLine is one debit/credit leg of a template, grouped into entries by
// EntrySeq. Lines carry no dates; the generation date is supplied at run time.
type RecurringLine struct {
	LineID     string          `json:"lineID"`   // Primary key (UUID)
	TemplateID string          `json:"templateID"`
	EntrySeq   int             `json:"entrySeq"` // Lines with the same seq form one journal entry
	AccountID  string          `json:"accountID"`
	Debit      decimal.Decimal `json:"debit"`
	Credit     decimal.Decimal `json:"credit"`
	Memo       string          `json:"memo"`
	UsoaClass  string          `json:"usoaClass"`
}

// RecurringTemplate holds a fixed set of entry lines plus a schedule. Generation
// materializes a DRAFT posting batch dated as-of the run date and never bypasses
// batch validation.
type RecurringTemplate struct {
	TemplateID         string              `json:"templateID"`   // Primary key (UUID)
	TemplateCode       string              `json:"templateCode"` // Unique, e.g. "RENT-HQ"
	Description        string              `json:"description"`
	Frequency          RecurrenceFrequency `json:"frequency"`
	CustomIntervalDays *int                `json:"customIntervalDays,omitempty"`
	StartDate          time.Time           `json:"startDate"`
	EndDate            *time.Time          `json:"endDate,omitempty"`
	NextRunDate        time.Time           `json:"nextRunDate"`
	LastGeneratedAt    *time.Time          `json:"lastGeneratedAt,omitempty"`
	GeneratedCount     int                 `json:"generatedCount"`
	Status             RecurringStatus     `json:"status"`
	Lines              []RecurringLine     `json:"lines,omitempty"`
	AuditFields
}

// NextRunAfter computes the run date following current for the template's frequency.
func (t *RecurringTemplate) NextRunAfter(current time.Time) (time.Time, error) {
	switch t.Frequency {
	case Monthly:
		return current.AddDate(0, 1, 0), nil
	case Quarterly:
		return current.AddDate(0, 3, 0), nil
	case Annually:
		return current.AddDate(1, 0, 0), nil
	case Custom:
		if t.CustomIntervalDays == nil || *t.CustomIntervalDays <= 0 {
			return time.Time{}, fmt.Errorf("custom frequency requires a positive interval for template %s", t.TemplateID)
		}
		return current.AddDate(0, 0, *t.CustomIntervalDays), nil
	default:
		return time.Time{}, fmt.Errorf("unknown recurrence frequency %q for template %s", t.Frequency, t.TemplateID)
	}
}

// IsDue reports whether the template should generate as of the given date.
func (t *RecurringTemplate) IsDue(asOf time.Time) bool {
	return t.Status == RecurringActive && !t.NextRunDate.After(asOf)
}
