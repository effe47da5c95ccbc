package repositories

import (
	"context"
	"time"

	"github.com/utilikit/gl_posting_app/internal/core/domain"
)

// PeriodReader is the consumed interface onto accounting periods. The engine
// reads lock state only; closing or reopening periods happens elsewhere.
type PeriodReader interface {
	// FindPeriodForDate retrieves the period whose range covers the date, or
	// apperrors.ErrNotFound when none does.
	FindPeriodForDate(ctx context.Context, date time.Time) (*domain.AccountingPeriod, error)

	// ListPeriods retrieves periods for a fiscal year ordered by start date.
	ListPeriods(ctx context.Context, fiscalYear int) ([]domain.AccountingPeriod, error)
}
