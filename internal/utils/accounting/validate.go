package accounting

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/utilikit/gl_posting_app/internal/core/domain"
)

// Sentinel errors for malformed lines, entries and batches. Services wrap
// these with context; handlers branch on them with errors.Is.
var (
	ErrZeroAmount     = errors.New("line has neither debit nor credit")
	ErrBothSidesSet   = errors.New("line has both debit and credit set")
	ErrNegativeAmount = errors.New("line amount is negative")
	ErrTooFewLines    = errors.New("entry must have at least two lines")
	ErrEmptyBatch     = errors.New("batch must have at least one entry")
)

// UnbalancedError reports a debit/credit mismatch at entry or batch level.
// Totals are exact decimals; there is no rounding tolerance.
type UnbalancedError struct {
	DebitTotal  decimal.Decimal
	CreditTotal decimal.Decimal
}

func (e *UnbalancedError) Error() string {
	return fmt.Sprintf("debits %s do not equal credits %s", e.DebitTotal.String(), e.CreditTotal.String())
}

// ValidateLine checks a single journal line: exactly one of debit/credit must
// be non-zero and both must be non-negative.
func ValidateLine(line domain.JournalLine) error {
	if line.Debit.IsNegative() || line.Credit.IsNegative() {
		return fmt.Errorf("%w: account %s debit %s credit %s", ErrNegativeAmount, line.AccountID, line.Debit.String(), line.Credit.String())
	}
	debitSet := !line.Debit.IsZero()
	creditSet := !line.Credit.IsZero()
	if debitSet && creditSet {
		return fmt.Errorf("%w: account %s", ErrBothSidesSet, line.AccountID)
	}
	if !debitSet && !creditSet {
		return fmt.Errorf("%w: account %s", ErrZeroAmount, line.AccountID)
	}
	return nil
}

// ValidateEntry validates every line (failing fast on the first bad one) and
// then requires the entry's debit and credit totals to be exactly equal.
func ValidateEntry(entry domain.JournalEntry) error {
	if len(entry.Lines) < 2 {
		return fmt.Errorf("%w: entry %s has %d", ErrTooFewLines, entry.EntryID, len(entry.Lines))
	}
	for _, line := range entry.Lines {
		if err := ValidateLine(line); err != nil {
			return err
		}
	}
	debits := entry.TotalDebits()
	credits := entry.TotalCredits()
	if !debits.Equal(credits) {
		return &UnbalancedError{DebitTotal: debits, CreditTotal: credits}
	}
	return nil
}

// ValidateBatch validates every entry and then re-checks balance across the
// whole batch. The batch-level check is redundant with per-entry balance but
// guards against partial-entry corruption.
func ValidateBatch(batch domain.PostingBatch) error {
	if len(batch.Entries) == 0 {
		return fmt.Errorf("%w: batch %s", ErrEmptyBatch, batch.BatchID)
	}
	for _, entry := range batch.Entries {
		if err := ValidateEntry(entry); err != nil {
			return err
		}
	}
	debits := batch.TotalDebits()
	credits := batch.TotalCredits()
	if !debits.Equal(credits) {
		return &UnbalancedError{DebitTotal: debits, CreditTotal: credits}
	}
	return nil
}
