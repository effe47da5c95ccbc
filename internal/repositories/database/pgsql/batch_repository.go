package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/utilikit/gl_posting_app/internal/apperrors"
	"github.com/utilikit/gl_posting_app/internal/core/domain"
	portsrepo "github.com/utilikit/gl_posting_app/internal/core/ports/repositories"
	"github.com/utilikit/gl_posting_app/internal/models"
	"github.com/utilikit/gl_posting_app/internal/utils/mapping"
	"github.com/utilikit/gl_posting_app/internal/utils/pagination"
)

type PgxBatchRepository struct {
	BaseRepository
}

// newPgxBatchRepository creates a new repository for posting batch data.
func newPgxBatchRepository(pool *pgxpool.Pool) portsrepo.BatchRepositoryFacade {
	return &PgxBatchRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.BatchRepositoryFacade = (*PgxBatchRepository)(nil)

const batchColumns = `
	batch_id, batch_number, batch_date, description, status, source,
	approved_by, approved_at, approval_note,
	posted_by, posted_at, posting_seq,
	reversal_of_batch_id, reversing_batch_id,
	created_at, created_by, last_updated_at, last_updated_by
`

// scanBatch scans one batch header row including its nullable columns.
func scanBatch(row pgx.Row) (*models.PostingBatch, error) {
	var m models.PostingBatch
	var approvedBy, postedBy, reversalOf, reversing, approvalNote sql.NullString
	var approvedAt, postedAt sql.NullTime
	var postingSeq sql.NullInt64

	err := row.Scan(
		&m.BatchID,
		&m.BatchNumber,
		&m.BatchDate,
		&m.Description,
		&m.Status,
		&m.Source,
		&approvedBy,
		&approvedAt,
		&approvalNote,
		&postedBy,
		&postedAt,
		&postingSeq,
		&reversalOf,
		&reversing,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}

	if approvedBy.Valid {
		m.ApprovedBy = &approvedBy.String
	}
	if approvedAt.Valid {
		m.ApprovedAt = &approvedAt.Time
	}
	if approvalNote.Valid {
		m.ApprovalNote = approvalNote.String
	}
	if postedBy.Valid {
		m.PostedBy = &postedBy.String
	}
	if postedAt.Valid {
		m.PostedAt = &postedAt.Time
	}
	if postingSeq.Valid {
		m.PostingSeq = &postingSeq.Int64
	}
	if reversalOf.Valid {
		m.ReversalOfBatchID = &reversalOf.String
	}
	if reversing.Valid {
		m.ReversingBatchID = &reversing.String
	}
	return &m, nil
}

// FindBatchByID retrieves a batch header without entries.
func (r *PgxBatchRepository) FindBatchByID(ctx context.Context, batchID string) (*domain.PostingBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM posting_batches WHERE batch_id = $1;`

	m, err := scanBatch(r.Pool.QueryRow(ctx, query, batchID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find batch by ID "+batchID, err)
	}

	batch := mapping.ToDomainBatch(*m)
	return &batch, nil
}

// FindBatchWithEntries retrieves a batch with its entries and lines populated.
func (r *PgxBatchRepository) FindBatchWithEntries(ctx context.Context, batchID string) (*domain.PostingBatch, error) {
	batch, err := r.FindBatchByID(ctx, batchID)
	if err != nil {
		return nil, err
	}

	entryQuery := `
		SELECT entry_id, batch_id, entry_date, reference_number, description,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM journal_entries
		WHERE batch_id = $1
		ORDER BY created_at, entry_id;
	`
	rows, err := r.Pool.Query(ctx, entryQuery, batchID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query entries for batch "+batchID, err)
	}
	defer rows.Close()

	entryIndex := make(map[string]int)
	entries := []domain.JournalEntry{}
	for rows.Next() {
		var m models.JournalEntry
		var refNumber, description sql.NullString
		err := rows.Scan(
			&m.EntryID,
			&m.BatchID,
			&m.EntryDate,
			&refNumber,
			&description,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan entry row for batch "+batchID, err)
		}
		m.ReferenceNumber = refNumber.String
		m.Description = description.String
		entryIndex[m.EntryID] = len(entries)
		entries = append(entries, mapping.ToDomainEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating entry rows for batch "+batchID, err)
	}

	lineQuery := `
		SELECT l.line_id, l.entry_id, l.account_id, l.debit, l.credit, l.memo, l.usoa_class,
		       l.created_at, l.created_by, l.last_updated_at, l.last_updated_by
		FROM journal_lines l
		JOIN journal_entries e ON l.entry_id = e.entry_id
		WHERE e.batch_id = $1
		ORDER BY l.created_at, l.line_id;
	`
	lineRows, err := r.Pool.Query(ctx, lineQuery, batchID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for batch "+batchID, err)
	}
	defer lineRows.Close()

	for lineRows.Next() {
		var m models.JournalLine
		var memo, usoaClass sql.NullString
		err := lineRows.Scan(
			&m.LineID,
			&m.EntryID,
			&m.AccountID,
			&m.Debit,
			&m.Credit,
			&memo,
			&usoaClass,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for batch "+batchID, err)
		}
		m.Memo = memo.String
		m.UsoaClass = usoaClass.String
		idx, ok := entryIndex[m.EntryID]
		if !ok {
			return nil, apperrors.NewAppError(500, "line "+m.LineID+" references unknown entry "+m.EntryID, nil)
		}
		entries[idx].Lines = append(entries[idx].Lines, mapping.ToDomainLine(m))
	}
	if err := lineRows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for batch "+batchID, err)
	}

	batch.Entries = entries
	return batch, nil
}

// ListBatches retrieves batch headers newest-first using token pagination.
func (r *PgxBatchRepository) ListBatches(ctx context.Context, statuses []domain.BatchStatus, limit int, nextToken *string) ([]domain.PostingBatch, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to know whether a next page exists.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + batchColumns + ` FROM posting_batches WHERE 1=1`
	orderByClause := `ORDER BY created_at DESC, batch_id DESC`

	args := []interface{}{}
	if len(statuses) > 0 {
		statusStrs := make([]string, len(statuses))
		for i, s := range statuses {
			statusStrs[i] = string(s)
		}
		args = append(args, statusStrs)
		baseQuery += ` AND status = ANY($` + strconv.Itoa(len(args)) + `)`
	}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastBatchID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastCreatedAt, lastBatchID)
		baseQuery += ` AND (created_at, batch_id) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query := baseQuery + ` ` + orderByClause + ` LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query batches", err)
	}
	defer rows.Close()

	batches := []domain.PostingBatch{}
	for rows.Next() {
		m, err := scanBatch(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan batch row", err)
		}
		batches = append(batches, mapping.ToDomainBatch(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating batch rows", err)
	}

	var newNextToken *string
	if len(batches) > limit {
		lastVisible := batches[limit-1]
		token := pagination.EncodeToken(lastVisible.CreatedAt, lastVisible.BatchID)
		newNextToken = &token
		batches = batches[:limit]
	}
	return batches, newNextToken, nil
}

// NextBatchNumber allocates the next human-friendly batch number for the month
// of batchDate via an upserted per-month counter, e.g. BATCH-202508-0007.
func (r *PgxBatchRepository) NextBatchNumber(ctx context.Context, batchDate time.Time) (string, error) {
	monthKey := batchDate.Format("200601")
	query := `
		INSERT INTO batch_number_counters (month_key, counter)
		VALUES ($1, 1)
		ON CONFLICT (month_key) DO UPDATE SET counter = batch_number_counters.counter + 1
		RETURNING counter;
	`
	var counter int64
	if err := r.Pool.QueryRow(ctx, query, monthKey).Scan(&counter); err != nil {
		return "", apperrors.NewAppError(500, "failed to allocate batch number for month "+monthKey, err)
	}
	return fmt.Sprintf("BATCH-%s-%04d", monthKey, counter), nil
}

// insertBatchTx inserts a batch header, its entries and its lines inside tx.
func insertBatchTx(ctx context.Context, tx pgx.Tx, batch domain.PostingBatch) error {
	modelBatch := mapping.ToModelBatch(batch)
	batchQuery := `
		INSERT INTO posting_batches (` + batchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err := tx.Exec(ctx, batchQuery,
		modelBatch.BatchID,
		modelBatch.BatchNumber,
		modelBatch.BatchDate,
		modelBatch.Description,
		modelBatch.Status,
		modelBatch.Source,
		modelBatch.ApprovedBy,
		modelBatch.ApprovedAt,
		modelBatch.ApprovalNote,
		modelBatch.PostedBy,
		modelBatch.PostedAt,
		modelBatch.PostingSeq,
		modelBatch.ReversalOfBatchID,
		modelBatch.ReversingBatchID,
		modelBatch.CreatedAt,
		modelBatch.CreatedBy,
		modelBatch.LastUpdatedAt,
		modelBatch.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert batch "+modelBatch.BatchID, err)
	}
	return insertEntriesTx(ctx, tx, batch.Entries)
}

// insertEntriesTx inserts entries and their lines inside tx using a pgx batch.
func insertEntriesTx(ctx context.Context, tx pgx.Tx, entries []domain.JournalEntry) error {
	entryQuery := `
		INSERT INTO journal_entries (entry_id, batch_id, entry_date, reference_number, description,
		                             created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	lineQuery := `
		INSERT INTO journal_lines (line_id, entry_id, account_id, debit, credit, memo, usoa_class,
		                           created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	batch := &pgx.Batch{}
	for _, entry := range entries {
		modelEntry := mapping.ToModelEntry(entry)
		batch.Queue(entryQuery,
			modelEntry.EntryID,
			modelEntry.BatchID,
			modelEntry.EntryDate,
			modelEntry.ReferenceNumber,
			modelEntry.Description,
			modelEntry.CreatedAt,
			modelEntry.CreatedBy,
			modelEntry.LastUpdatedAt,
			modelEntry.LastUpdatedBy,
		)
		for _, line := range entry.Lines {
			modelLine := mapping.ToModelLine(line)
			batch.Queue(lineQuery,
				modelLine.LineID,
				modelLine.EntryID,
				modelLine.AccountID,
				modelLine.Debit,
				modelLine.Credit,
				modelLine.Memo,
				modelLine.UsoaClass,
				modelLine.CreatedAt,
				modelLine.CreatedBy,
				modelLine.LastUpdatedAt,
				modelLine.LastUpdatedBy,
			)
		}
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute entry insert batch", err)
	}
	return nil
}

// SaveBatch inserts a new batch with its entries and lines in one transaction.
func (r *PgxBatchRepository) SaveBatch(ctx context.Context, batch domain.PostingBatch) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertBatchTx(ctx, tx, batch); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// ReplaceEntries swaps the proposed entries of a mutable batch. The header
// update is conditional on status; journal_entries cascades to journal_lines.
func (r *PgxBatchRepository) ReplaceEntries(ctx context.Context, batchID string, expectedStatus domain.BatchStatus, entries []domain.JournalEntry, userID string, at time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	headerQuery := `
		UPDATE posting_batches
		SET last_updated_at = $1, last_updated_by = $2
		WHERE batch_id = $3 AND status = $4;
	`
	tag, err := tx.Exec(ctx, headerQuery, at, userID, batchID, string(expectedStatus))
	if err != nil {
		return apperrors.NewAppError(500, "failed to touch batch "+batchID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.classifyMissedUpdate(ctx, batchID)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM journal_entries WHERE batch_id = $1;`, batchID); err != nil {
		return apperrors.NewAppError(500, "failed to delete entries for batch "+batchID, err)
	}
	if err := insertEntriesTx(ctx, tx, entries); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// classifyMissedUpdate disambiguates a zero-row conditional update: the batch
// either does not exist or its status moved underneath us.
func (r *PgxBatchRepository) classifyMissedUpdate(ctx context.Context, batchID string) error {
	var status string
	err := r.Pool.QueryRow(ctx, `SELECT status FROM posting_batches WHERE batch_id = $1;`, batchID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to re-check batch "+batchID, err)
	}
	return fmt.Errorf("%w: batch %s is %s", apperrors.ErrConcurrentModification, batchID, status)
}

// TransitionBatch performs a conditional status update. The WHERE status = from
// clause is the concurrency guard; there is no row locking above it.
func (r *PgxBatchRepository) TransitionBatch(ctx context.Context, batchID string, transition portsrepo.StatusTransition) error {
	var tag pgconn.CommandTag
	var err error

	switch transition.To {
	case domain.StatusApproved, domain.StatusRejected:
		// Approval and rejection record the acting reviewer and note.
		query := `
			UPDATE posting_batches
			SET status = $1, approved_by = $2, approved_at = $3, approval_note = $4,
			    last_updated_at = $3, last_updated_by = $2
			WHERE batch_id = $5 AND status = $6;
		`
		tag, err = r.Pool.Exec(ctx, query,
			string(transition.To), transition.ActorID, transition.At, transition.Note,
			batchID, string(transition.From))
	default:
		query := `
			UPDATE posting_batches
			SET status = $1, last_updated_at = $2, last_updated_by = $3
			WHERE batch_id = $4 AND status = $5;
		`
		tag, err = r.Pool.Exec(ctx, query,
			string(transition.To), transition.At, transition.ActorID,
			batchID, string(transition.From))
	}
	if err != nil {
		return apperrors.NewAppError(500, "failed to transition batch "+batchID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.classifyMissedUpdate(ctx, batchID)
	}
	return nil
}

// PostBatch atomically flips an APPROVED batch to POSTED and appends its
// ledger rows. For a reversal batch the source flip and its ledger flagging
// ride the same transaction: either everything lands or nothing does.
func (r *PgxBatchRepository) PostBatch(ctx context.Context, batch domain.PostingBatch, entries []domain.GeneralLedgerEntry, postedBy string, postedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var postingSeq int64
	if err := tx.QueryRow(ctx, `SELECT nextval('gl_posting_seq');`).Scan(&postingSeq); err != nil {
		return apperrors.NewAppError(500, "failed to allocate posting sequence", err)
	}

	flipQuery := `
		UPDATE posting_batches
		SET status = $1, posted_by = $2, posted_at = $3, posting_seq = $4,
		    last_updated_at = $3, last_updated_by = $2
		WHERE batch_id = $5 AND status = $6;
	`
	tag, err := tx.Exec(ctx, flipQuery,
		string(domain.StatusPosted), postedBy, postedAt, postingSeq,
		batch.BatchID, string(domain.StatusApproved))
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark batch "+batch.BatchID+" posted", err)
	}
	if tag.RowsAffected() == 0 {
		var status string
		err := tx.QueryRow(ctx, `SELECT status FROM posting_batches WHERE batch_id = $1;`, batch.BatchID).Scan(&status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrNotFound
			}
			return apperrors.NewAppError(500, "failed to re-check batch "+batch.BatchID, err)
		}
		if status == string(domain.StatusPosted) || status == string(domain.StatusReversed) {
			return fmt.Errorf("%w: batch %s", apperrors.ErrAlreadyPosted, batch.BatchID)
		}
		return fmt.Errorf("%w: batch %s is %s", apperrors.ErrConcurrentModification, batch.BatchID, status)
	}

	ledgerQuery := `
		INSERT INTO general_ledger (
			ledger_entry_id, account_id, account_code, debit, credit,
			transaction_date, posting_date, source_batch_id, entry_id,
			memo, usoa_class, reference_number, source,
			is_posted, is_reversed, posted_by, posting_seq
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	pgxBatch := &pgx.Batch{}
	for _, entry := range entries {
		modelEntry := mapping.ToModelLedgerEntry(entry)
		pgxBatch.Queue(ledgerQuery,
			modelEntry.LedgerEntryID,
			modelEntry.AccountID,
			modelEntry.AccountCode,
			modelEntry.Debit,
			modelEntry.Credit,
			modelEntry.TransactionDate,
			postedAt,
			modelEntry.SourceBatchID,
			modelEntry.EntryID,
			modelEntry.Memo,
			modelEntry.UsoaClass,
			modelEntry.ReferenceNumber,
			modelEntry.Source,
			true,
			false,
			postedBy,
			postingSeq,
		)
	}
	br := tx.SendBatch(ctx, pgxBatch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert ledger rows for batch "+batch.BatchID, err)
	}

	if batch.IsReversal() {
		sourceID := *batch.ReversalOfBatchID
		sourceFlip := `
			UPDATE posting_batches
			SET status = $1, last_updated_at = $2, last_updated_by = $3
			WHERE batch_id = $4 AND status = $5;
		`
		tag, err := tx.Exec(ctx, sourceFlip,
			string(domain.StatusReversed), postedAt, postedBy,
			sourceID, string(domain.StatusPosted))
		if err != nil {
			return apperrors.NewAppError(500, "failed to mark source batch "+sourceID+" reversed", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: source batch %s", apperrors.ErrConcurrentModification, sourceID)
		}
		if _, err := tx.Exec(ctx, `UPDATE general_ledger SET is_reversed = TRUE WHERE source_batch_id = $1;`, sourceID); err != nil {
			return apperrors.NewAppError(500, "failed to flag reversed ledger rows for batch "+sourceID, err)
		}
	}

	return r.Commit(ctx, tx)
}

// CreateReversalBatch inserts the reversal batch and claims the source's
// reversing_batch_id slot in one transaction. The IS NULL condition enforces
// at most one reversal under concurrency.
func (r *PgxBatchRepository) CreateReversalBatch(ctx context.Context, reversal domain.PostingBatch, sourceBatchID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	claimQuery := `
		UPDATE posting_batches
		SET reversing_batch_id = $1, last_updated_at = $2, last_updated_by = $3
		WHERE batch_id = $4 AND status = $5 AND reversing_batch_id IS NULL;
	`
	tag, err := tx.Exec(ctx, claimQuery,
		reversal.BatchID, reversal.LastUpdatedAt, reversal.LastUpdatedBy,
		sourceBatchID, string(domain.StatusPosted))
	if err != nil {
		return apperrors.NewAppError(500, "failed to claim reversal slot on batch "+sourceBatchID, err)
	}
	if tag.RowsAffected() == 0 {
		var status string
		var reversing sql.NullString
		err := tx.QueryRow(ctx, `SELECT status, reversing_batch_id FROM posting_batches WHERE batch_id = $1;`, sourceBatchID).
			Scan(&status, &reversing)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrNotFound
			}
			return apperrors.NewAppError(500, "failed to re-check batch "+sourceBatchID, err)
		}
		if reversing.Valid || status == string(domain.StatusReversed) {
			return fmt.Errorf("%w: batch %s", apperrors.ErrAlreadyReversed, sourceBatchID)
		}
		return fmt.Errorf("%w: batch %s is %s", apperrors.ErrNotPosted, sourceBatchID, status)
	}

	if err := insertBatchTx(ctx, tx, reversal); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// DeleteBatch removes a batch conditional on its status; journal_entries and
// journal_lines go with it via ON DELETE CASCADE.
func (r *PgxBatchRepository) DeleteBatch(ctx context.Context, batchID string, allowed []domain.BatchStatus) error {
	statusStrs := make([]string, len(allowed))
	for i, s := range allowed {
		statusStrs[i] = string(s)
	}
	tag, err := r.Pool.Exec(ctx, `DELETE FROM posting_batches WHERE batch_id = $1 AND status = ANY($2);`, batchID, statusStrs)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete batch "+batchID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.classifyMissedUpdate(ctx, batchID)
	}
	return nil
}
