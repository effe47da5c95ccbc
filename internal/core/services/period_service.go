package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/utilikit/gl_posting_app/internal/apperrors"
	"github.com/utilikit/gl_posting_app/internal/core/domain"
	portsrepo "github.com/utilikit/gl_posting_app/internal/core/ports/repositories"
	portssvc "github.com/utilikit/gl_posting_app/internal/core/ports/services"
)

// periodService answers the period-lock question for batch dates.
type periodService struct {
	periodRepo portsrepo.PeriodReader
}

// NewPeriodService creates a new period service.
func NewPeriodService(periodRepo portsrepo.PeriodReader) portssvc.PeriodSvcFacade {
	return &periodService{periodRepo: periodRepo}
}

var _ portssvc.PeriodSvcFacade = (*periodService)(nil)

// IsOpen reports whether postings dated on the given date are allowed.
// A date covered by no period counts as closed: never post into an
// undefined period.
func (s *periodService) IsOpen(ctx context.Context, date time.Time) (bool, error) {
	period, err := s.periodRepo.FindPeriodForDate(ctx, date)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to find period for date %s: %w", date.Format("2006-01-02"), err)
	}
	return !period.IsClosed, nil
}

// GetPeriodForDate retrieves the covering period.
func (s *periodService) GetPeriodForDate(ctx context.Context, date time.Time) (*domain.AccountingPeriod, error) {
	period, err := s.periodRepo.FindPeriodForDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to find period for date %s: %w", date.Format("2006-01-02"), err)
	}
	return period, nil
}

// ListPeriods retrieves a fiscal year's periods ordered by start date.
func (s *periodService) ListPeriods(ctx context.Context, fiscalYear int) ([]domain.AccountingPeriod, error) {
	periods, err := s.periodRepo.ListPeriods(ctx, fiscalYear)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods for fiscal year %d: %w", fiscalYear, err)
	}
	return periods, nil
}
