package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/utilikit/gl_posting_app/internal/apperrors"
	"github.com/utilikit/gl_posting_app/internal/core/domain"
	portsrepo "github.com/utilikit/gl_posting_app/internal/core/ports/repositories"
	"github.com/utilikit/gl_posting_app/internal/models"
	"github.com/utilikit/gl_posting_app/internal/utils/mapping"
)

type PgxPeriodRepository struct {
	BaseRepository
}

// newPgxPeriodRepository creates a new read-only repository for accounting periods.
func newPgxPeriodRepository(pool *pgxpool.Pool) portsrepo.PeriodReader {
	return &PgxPeriodRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.PeriodReader = (*PgxPeriodRepository)(nil)

const periodColumns = `
	period_id, name, start_date, end_date, fiscal_year, is_closed,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanPeriod(row pgx.Row) (*models.AccountingPeriod, error) {
	var m models.AccountingPeriod
	err := row.Scan(
		&m.PeriodID,
		&m.Name,
		&m.StartDate,
		&m.EndDate,
		&m.FiscalYear,
		&m.IsClosed,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindPeriodForDate retrieves the period whose range covers the date. Ranges
// are stored as dates, so the lookup compares on the date alone.
func (r *PgxPeriodRepository) FindPeriodForDate(ctx context.Context, date time.Time) (*domain.AccountingPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM accounting_periods
		WHERE start_date <= $1::date AND end_date >= $1::date
		LIMIT 1;
	`
	m, err := scanPeriod(r.Pool.QueryRow(ctx, query, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find period for date "+date.Format("2006-01-02"), err)
	}
	period := mapping.ToDomainPeriod(*m)
	return &period, nil
}

// ListPeriods retrieves periods for a fiscal year ordered by start date.
func (r *PgxPeriodRepository) ListPeriods(ctx context.Context, fiscalYear int) ([]domain.AccountingPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM accounting_periods
		WHERE fiscal_year = $1
		ORDER BY start_date;
	`
	rows, err := r.Pool.Query(ctx, query, fiscalYear)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query periods", err)
	}
	defer rows.Close()

	periods := []domain.AccountingPeriod{}
	for rows.Next() {
		m, err := scanPeriod(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan period row", err)
		}
		periods = append(periods, mapping.ToDomainPeriod(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating period rows", err)
	}
	return periods, nil
}
