package services

import (
	"context"
	"time"

	"github.com/utilikit/gl_posting_app/internal/core/domain"
)

// PeriodSvcFacade is the period-lock gate consumed before any post or
// approval. It is a point-in-time check, not a lock: callers re-check at post
// time rather than holding the period open.
type PeriodSvcFacade interface {
	// IsOpen reports whether postings dated on the given date are allowed.
	// A date covered by no period counts as closed.
	IsOpen(ctx context.Context, date time.Time) (bool, error)

	// GetPeriodForDate retrieves the covering period, apperrors.ErrNotFound if none.
	GetPeriodForDate(ctx context.Context, date time.Time) (*domain.AccountingPeriod, error)

	// ListPeriods retrieves a fiscal year's periods ordered by start date.
	ListPeriods(ctx context.Context, fiscalYear int) ([]domain.AccountingPeriod, error)
}
