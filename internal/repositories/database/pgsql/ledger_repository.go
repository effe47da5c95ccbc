package pgsql

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/utilikit/gl_posting_app/internal/apperrors"
	"github.com/utilikit/gl_posting_app/internal/core/domain"
	portsrepo "github.com/utilikit/gl_posting_app/internal/core/ports/repositories"
	"github.com/utilikit/gl_posting_app/internal/models"
	"github.com/utilikit/gl_posting_app/internal/utils/mapping"
	"github.com/utilikit/gl_posting_app/internal/utils/pagination"
)

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new read-only repository for the posted ledger.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerReader {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.LedgerReader = (*PgxLedgerRepository)(nil)

const ledgerColumns = `
	ledger_entry_id, account_id, account_code, debit, credit,
	transaction_date, posting_date, source_batch_id, entry_id,
	memo, usoa_class, reference_number, source,
	is_posted, is_reversed, posted_by
`

// scanLedgerRows drains rows into domain ledger entries.
func scanLedgerRows(rows pgx.Rows) ([]domain.GeneralLedgerEntry, error) {
	entries := []models.GeneralLedgerEntry{}
	for rows.Next() {
		var m models.GeneralLedgerEntry
		var memo, usoaClass, refNumber sql.NullString
		err := rows.Scan(
			&m.LedgerEntryID,
			&m.AccountID,
			&m.AccountCode,
			&m.Debit,
			&m.Credit,
			&m.TransactionDate,
			&m.PostingDate,
			&m.SourceBatchID,
			&m.EntryID,
			&memo,
			&usoaClass,
			&refNumber,
			&m.Source,
			&m.IsPosted,
			&m.IsReversed,
			&m.PostedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan ledger row", err)
		}
		m.Memo = memo.String
		m.UsoaClass = usoaClass.String
		m.ReferenceNumber = refNumber.String
		entries = append(entries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating ledger rows", err)
	}
	return mapping.ToDomainLedgerEntrySlice(entries), nil
}

// ListLedgerEntries retrieves posted rows newest-first with token pagination.
// The cursor is (posting_date, ledger_entry_id) for a stable order across
// rows posted in the same instant.
func (r *PgxLedgerRepository) ListLedgerEntries(ctx context.Context, filter portsrepo.LedgerFilter) ([]domain.GeneralLedgerEntry, *string, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + ledgerColumns + ` FROM general_ledger WHERE 1=1`
	orderByClause := `ORDER BY posting_date DESC, ledger_entry_id DESC`

	args := []interface{}{}
	if filter.AccountID != nil {
		args = append(args, *filter.AccountID)
		baseQuery += ` AND account_id = $` + strconv.Itoa(len(args))
	}
	if filter.FromDate != nil {
		args = append(args, *filter.FromDate)
		baseQuery += ` AND transaction_date >= $` + strconv.Itoa(len(args))
	}
	if filter.ToDate != nil {
		args = append(args, *filter.ToDate)
		baseQuery += ` AND transaction_date <= $` + strconv.Itoa(len(args))
	}
	if !filter.IncludeReversed {
		baseQuery += ` AND is_reversed = FALSE`
	}

	if filter.NextToken != nil && *filter.NextToken != "" {
		lastPostingDate, lastEntryID, decodeErr := pagination.DecodeToken(*filter.NextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastPostingDate, lastEntryID)
		baseQuery += ` AND (posting_date, ledger_entry_id) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query := baseQuery + ` ` + orderByClause + ` LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query ledger entries", err)
	}
	defer rows.Close()

	entries, err := scanLedgerRows(rows)
	if err != nil {
		return nil, nil, err
	}

	var nextToken *string
	if len(entries) > limit {
		lastVisible := entries[limit-1]
		token := pagination.EncodeToken(lastVisible.PostingDate, lastVisible.LedgerEntryID)
		nextToken = &token
		entries = entries[:limit]
	}
	return entries, nextToken, nil
}

// FindLedgerEntriesByBatchID retrieves all rows written by one batch.
func (r *PgxLedgerRepository) FindLedgerEntriesByBatchID(ctx context.Context, batchID string) ([]domain.GeneralLedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM general_ledger
		WHERE source_batch_id = $1
		ORDER BY ledger_entry_id;
	`
	rows, err := r.Pool.Query(ctx, query, batchID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query ledger entries for batch "+batchID, err)
	}
	defer rows.Close()

	return scanLedgerRows(rows)
}
