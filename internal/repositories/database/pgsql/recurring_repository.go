package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/utilikit/gl_posting_app/internal/apperrors"
	"github.com/utilikit/gl_posting_app/internal/core/domain"
	portsrepo "github.com/utilikit/gl_posting_app/internal/core/ports/repositories"
	"github.com/utilikit/gl_posting_app/internal/models"
	"github.com/utilikit/gl_posting_app/internal/utils/mapping"
)

type PgxRecurringRepository struct {
	BaseRepository
}

// newPgxRecurringRepository creates a new repository for recurring templates.
func newPgxRecurringRepository(pool *pgxpool.Pool) portsrepo.RecurringRepositoryFacade {
	return &PgxRecurringRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.RecurringRepositoryFacade = (*PgxRecurringRepository)(nil)

const templateColumns = `
	template_id, template_code, description, frequency, custom_interval_days,
	start_date, end_date, next_run_date, last_generated_at, generated_count, status,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanTemplate(row pgx.Row) (*models.RecurringTemplate, error) {
	var m models.RecurringTemplate
	var description sql.NullString
	var customDays sql.NullInt32
	var endDate, lastGeneratedAt sql.NullTime

	err := row.Scan(
		&m.TemplateID,
		&m.TemplateCode,
		&description,
		&m.Frequency,
		&customDays,
		&m.StartDate,
		&endDate,
		&m.NextRunDate,
		&lastGeneratedAt,
		&m.GeneratedCount,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}

	m.Description = description.String
	if customDays.Valid {
		days := int(customDays.Int32)
		m.CustomIntervalDays = &days
	}
	if endDate.Valid {
		m.EndDate = &endDate.Time
	}
	if lastGeneratedAt.Valid {
		m.LastGeneratedAt = &lastGeneratedAt.Time
	}
	return &m, nil
}

// loadTemplateLines fetches lines for one template ordered by entry group.
func (r *PgxRecurringRepository) loadTemplateLines(ctx context.Context, templateID string) ([]domain.RecurringLine, error) {
	query := `
		SELECT line_id, template_id, entry_seq, account_id, debit, credit, memo, usoa_class
		FROM recurring_lines
		WHERE template_id = $1
		ORDER BY entry_seq, line_id;
	`
	rows, err := r.Pool.Query(ctx, query, templateID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for template "+templateID, err)
	}
	defer rows.Close()

	lines := []models.RecurringLine{}
	for rows.Next() {
		var m models.RecurringLine
		var memo, usoaClass sql.NullString
		err := rows.Scan(
			&m.LineID,
			&m.TemplateID,
			&m.EntrySeq,
			&m.AccountID,
			&m.Debit,
			&m.Credit,
			&memo,
			&usoaClass,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for template "+templateID, err)
		}
		m.Memo = memo.String
		m.UsoaClass = usoaClass.String
		lines = append(lines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for template "+templateID, err)
	}

	out := make([]domain.RecurringLine, len(lines))
	for i, m := range lines {
		out[i] = mapping.ToDomainRecurringLine(m)
	}
	return out, nil
}

// FindTemplateByID retrieves a template with its lines.
func (r *PgxRecurringRepository) FindTemplateByID(ctx context.Context, templateID string) (*domain.RecurringTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM recurring_templates WHERE template_id = $1;`
	m, err := scanTemplate(r.Pool.QueryRow(ctx, query, templateID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find template by ID "+templateID, err)
	}

	template := mapping.ToDomainTemplate(*m)
	template.Lines, err = r.loadTemplateLines(ctx, templateID)
	if err != nil {
		return nil, err
	}
	return &template, nil
}

// ListTemplates retrieves template headers ordered by code.
func (r *PgxRecurringRepository) ListTemplates(ctx context.Context, limit int, offset int) ([]domain.RecurringTemplate, error) {
	query := `
		SELECT ` + templateColumns + `
		FROM recurring_templates
		ORDER BY template_code
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query templates", err)
	}
	defer rows.Close()

	templates := []domain.RecurringTemplate{}
	for rows.Next() {
		m, err := scanTemplate(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan template row", err)
		}
		templates = append(templates, mapping.ToDomainTemplate(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating template rows", err)
	}
	return templates, nil
}

// ListDueTemplates retrieves active templates whose next run date is on or
// before asOf, lines included.
func (r *PgxRecurringRepository) ListDueTemplates(ctx context.Context, asOf time.Time) ([]domain.RecurringTemplate, error) {
	query := `
		SELECT ` + templateColumns + `
		FROM recurring_templates
		WHERE status = $1 AND next_run_date <= $2::date
		ORDER BY next_run_date, template_code;
	`
	rows, err := r.Pool.Query(ctx, query, string(domain.RecurringActive), asOf)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query due templates", err)
	}
	defer rows.Close()

	templates := []domain.RecurringTemplate{}
	for rows.Next() {
		m, err := scanTemplate(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan template row", err)
		}
		templates = append(templates, mapping.ToDomainTemplate(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating template rows", err)
	}

	for i := range templates {
		templates[i].Lines, err = r.loadTemplateLines(ctx, templates[i].TemplateID)
		if err != nil {
			return nil, err
		}
	}
	return templates, nil
}

// SaveTemplate inserts a template and its lines in one transaction.
func (r *PgxRecurringRepository) SaveTemplate(ctx context.Context, template domain.RecurringTemplate) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelTemplate(template)
	templateQuery := `
		INSERT INTO recurring_templates (` + templateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err = tx.Exec(ctx, templateQuery,
		m.TemplateID,
		m.TemplateCode,
		m.Description,
		m.Frequency,
		m.CustomIntervalDays,
		m.StartDate,
		m.EndDate,
		m.NextRunDate,
		m.LastGeneratedAt,
		m.GeneratedCount,
		m.Status,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: template code %s", apperrors.ErrDuplicate, template.TemplateCode)
		}
		return apperrors.NewAppError(500, "failed to insert template "+m.TemplateID, err)
	}

	lineQuery := `
		INSERT INTO recurring_lines (line_id, template_id, entry_seq, account_id, debit, credit, memo, usoa_class)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	batch := &pgx.Batch{}
	for _, line := range template.Lines {
		ml := mapping.ToModelRecurringLine(line)
		batch.Queue(lineQuery,
			ml.LineID,
			ml.TemplateID,
			ml.EntrySeq,
			ml.AccountID,
			ml.Debit,
			ml.Credit,
			ml.Memo,
			ml.UsoaClass,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert lines for template "+m.TemplateID, err)
	}

	return r.Commit(ctx, tx)
}

// UpdateTemplateStatus conditionally moves a template between statuses.
func (r *PgxRecurringRepository) UpdateTemplateStatus(ctx context.Context, templateID string, from, to domain.RecurringStatus, userID string, at time.Time) error {
	query := `
		UPDATE recurring_templates
		SET status = $1, last_updated_at = $2, last_updated_by = $3
		WHERE template_id = $4 AND status = $5;
	`
	tag, err := r.Pool.Exec(ctx, query, string(to), at, userID, templateID, string(from))
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of template "+templateID, err)
	}
	if tag.RowsAffected() == 0 {
		var status string
		err := r.Pool.QueryRow(ctx, `SELECT status FROM recurring_templates WHERE template_id = $1;`, templateID).Scan(&status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrNotFound
			}
			return apperrors.NewAppError(500, "failed to re-check template "+templateID, err)
		}
		return fmt.Errorf("%w: template %s is %s", apperrors.ErrConcurrentModification, templateID, status)
	}
	return nil
}

// RecordGeneration advances the schedule after a successful generation.
func (r *PgxRecurringRepository) RecordGeneration(ctx context.Context, templateID string, nextRunDate time.Time, newStatus domain.RecurringStatus, userID string, at time.Time) error {
	query := `
		UPDATE recurring_templates
		SET next_run_date = $1, last_generated_at = $2, generated_count = generated_count + 1,
		    status = $3, last_updated_at = $2, last_updated_by = $4
		WHERE template_id = $5;
	`
	tag, err := r.Pool.Exec(ctx, query, nextRunDate, at, string(newStatus), userID, templateID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to record generation for template "+templateID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
