package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/utilikit/gl_posting_app/internal/apperrors"
	"github.com/utilikit/gl_posting_app/internal/core/domain"
	portsrepo "github.com/utilikit/gl_posting_app/internal/core/ports/repositories"
	portssvc "github.com/utilikit/gl_posting_app/internal/core/ports/services"
	"github.com/utilikit/gl_posting_app/internal/dto"
	"github.com/utilikit/gl_posting_app/internal/middleware"
	"github.com/utilikit/gl_posting_app/internal/utils/accounting"
)

// recurringService manages templates and materializes batches from them.
// Generated batches go through the batch service, so template output obeys
// the same validation and lifecycle as hand-keyed batches.
type recurringService struct {
	recurringRepo portsrepo.RecurringRepositoryFacade
	batchSvc      portssvc.BatchSvcFacade
}

// NewRecurringService creates a new recurring template service.
func NewRecurringService(recurringRepo portsrepo.RecurringRepositoryFacade, batchSvc portssvc.BatchSvcFacade) portssvc.RecurringSvcFacade {
	return &recurringService{
		recurringRepo: recurringRepo,
		batchSvc:      batchSvc,
	}
}

var _ portssvc.RecurringSvcFacade = (*recurringService)(nil)

// templateEntries groups template lines by EntrySeq into entry requests dated asOf.
func templateEntries(template *domain.RecurringTemplate, asOf time.Time) []dto.CreateEntryRequest {
	bySeq := make(map[int][]dto.CreateLineRequest)
	seqs := make([]int, 0)
	for _, line := range template.Lines {
		if _, ok := bySeq[line.EntrySeq]; !ok {
			seqs = append(seqs, line.EntrySeq)
		}
		bySeq[line.EntrySeq] = append(bySeq[line.EntrySeq], dto.CreateLineRequest{
			AccountID: line.AccountID,
			Debit:     line.Debit,
			Credit:    line.Credit,
			Memo:      line.Memo,
			UsoaClass: line.UsoaClass,
		})
	}
	sort.Ints(seqs)

	entries := make([]dto.CreateEntryRequest, len(seqs))
	for i, seq := range seqs {
		entries[i] = dto.CreateEntryRequest{
			EntryDate:   asOf,
			Description: template.Description,
			Lines:       bySeq[seq],
		}
	}
	return entries
}

// validateTemplateLines checks the template's lines the way a batch would be
// checked: every entry group well-formed and balanced.
func validateTemplateLines(template *domain.RecurringTemplate) error {
	probe := domain.PostingBatch{
		BatchID: template.TemplateID,
		Status:  domain.StatusDraft,
	}
	for _, req := range templateEntries(template, template.StartDate) {
		lines := make([]domain.JournalLine, len(req.Lines))
		for i, l := range req.Lines {
			lines[i] = domain.JournalLine{
				AccountID: l.AccountID,
				Debit:     l.Debit,
				Credit:    l.Credit,
			}
		}
		probe.Entries = append(probe.Entries, domain.JournalEntry{
			EntryDate: req.EntryDate,
			Lines:     lines,
		})
	}
	return accounting.ValidateBatch(probe)
}

// CreateTemplate validates the template's lines and persists it as ACTIVE with
// the first run scheduled on the start date.
func (s *recurringService) CreateTemplate(ctx context.Context, req dto.CreateTemplateRequest, creatorUserID string) (*domain.RecurringTemplate, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	templateID := uuid.NewString()
	lines := make([]domain.RecurringLine, len(req.Lines))
	for i, lineReq := range req.Lines {
		lines[i] = domain.RecurringLine{
			LineID:     uuid.NewString(),
			TemplateID: templateID,
			EntrySeq:   lineReq.EntrySeq,
			AccountID:  lineReq.AccountID,
			Debit:      lineReq.Debit,
			Credit:     lineReq.Credit,
			Memo:       lineReq.Memo,
			UsoaClass:  lineReq.UsoaClass,
		}
	}

	template := domain.RecurringTemplate{
		TemplateID:         templateID,
		TemplateCode:       req.TemplateCode,
		Description:        req.Description,
		Frequency:          domain.RecurrenceFrequency(req.Frequency),
		CustomIntervalDays: req.CustomIntervalDays,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		NextRunDate:        req.StartDate,
		Status:             domain.RecurringActive,
		Lines:              lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if template.Frequency == domain.Custom && (template.CustomIntervalDays == nil || *template.CustomIntervalDays <= 0) {
		return nil, fmt.Errorf("%w: custom frequency requires a positive customIntervalDays", apperrors.ErrValidation)
	}
	if req.EndDate != nil && req.EndDate.Before(req.StartDate) {
		return nil, fmt.Errorf("%w: endDate precedes startDate", apperrors.ErrValidation)
	}
	if err := validateTemplateLines(&template); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}

	if err := s.recurringRepo.SaveTemplate(ctx, template); err != nil {
		logger.Error("Failed to save recurring template", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save template: %w", err)
	}

	logger.Info("Recurring template created", slog.String("template_id", templateID), slog.String("template_code", req.TemplateCode))
	return &template, nil
}

// GetTemplateByID retrieves a template with lines.
func (s *recurringService) GetTemplateByID(ctx context.Context, templateID string) (*domain.RecurringTemplate, error) {
	template, err := s.recurringRepo.FindTemplateByID(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to find template %s: %w", templateID, err)
	}
	return template, nil
}

// ListTemplates retrieves template headers.
func (s *recurringService) ListTemplates(ctx context.Context, limit int, offset int) ([]domain.RecurringTemplate, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	templates, err := s.recurringRepo.ListTemplates(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

// SuspendTemplate stops generation without deleting the template.
func (s *recurringService) SuspendTemplate(ctx context.Context, templateID string, userID string) error {
	template, err := s.recurringRepo.FindTemplateByID(ctx, templateID)
	if err != nil {
		return fmt.Errorf("failed to find template %s: %w", templateID, err)
	}
	if template.Status != domain.RecurringActive {
		return fmt.Errorf("%w: cannot suspend template in status %s", apperrors.ErrInvalidState, template.Status)
	}
	err = s.recurringRepo.UpdateTemplateStatus(ctx, templateID, domain.RecurringActive, domain.RecurringSuspended, userID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to suspend template %s: %w", templateID, err)
	}
	middleware.GetLoggerFromCtx(ctx).Info("Recurring template suspended", slog.String("template_id", templateID))
	return nil
}

// ReactivateTemplate resumes generation of a suspended template. The schedule
// is not rewound; runs missed while suspended generate on the next sweep.
func (s *recurringService) ReactivateTemplate(ctx context.Context, templateID string, userID string) error {
	template, err := s.recurringRepo.FindTemplateByID(ctx, templateID)
	if err != nil {
		return fmt.Errorf("failed to find template %s: %w", templateID, err)
	}
	if template.Status != domain.RecurringSuspended {
		return fmt.Errorf("%w: cannot reactivate template in status %s", apperrors.ErrInvalidState, template.Status)
	}
	err = s.recurringRepo.UpdateTemplateStatus(ctx, templateID, domain.RecurringSuspended, domain.RecurringActive, userID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to reactivate template %s: %w", templateID, err)
	}
	middleware.GetLoggerFromCtx(ctx).Info("Recurring template reactivated", slog.String("template_id", templateID))
	return nil
}

// GenerateBatch materializes a DRAFT batch from the template dated asOf and
// advances the schedule from the generation date. A template whose next run
// would pass its end date flips to EXPIRED.
func (s *recurringService) GenerateBatch(ctx context.Context, templateID string, asOf time.Time, userID string) (*domain.PostingBatch, error) {
	template, err := s.recurringRepo.FindTemplateByID(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to find template %s: %w", templateID, err)
	}
	return s.generate(ctx, template, asOf, userID)
}

func (s *recurringService) generate(ctx context.Context, template *domain.RecurringTemplate, asOf time.Time, userID string) (*domain.PostingBatch, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if template.Status != domain.RecurringActive {
		return nil, fmt.Errorf("%w: cannot generate from template in status %s", apperrors.ErrInvalidState, template.Status)
	}
	if template.EndDate != nil && asOf.After(*template.EndDate) {
		return nil, fmt.Errorf("%w: template %s ended on %s", apperrors.ErrInvalidState, template.TemplateID, template.EndDate.Format("2006-01-02"))
	}

	req := dto.CreateBatchRequest{
		BatchDate:   asOf,
		Description: fmt.Sprintf("%s: %s", template.TemplateCode, template.Description),
		Entries:     templateEntries(template, asOf),
	}
	batch, err := s.batchSvc.CreateSourcedBatch(ctx, req, userID, domain.SourceRecurring)
	if err != nil {
		return nil, fmt.Errorf("failed to generate batch from template %s: %w", template.TemplateID, err)
	}

	nextRun, err := template.NextRunAfter(asOf)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}
	newStatus := domain.RecurringActive
	if template.EndDate != nil && nextRun.After(*template.EndDate) {
		newStatus = domain.RecurringExpired
	}
	if err := s.recurringRepo.RecordGeneration(ctx, template.TemplateID, nextRun, newStatus, userID, time.Now().UTC()); err != nil {
		logger.Error("Batch generated but schedule update failed", slog.String("error", err.Error()),
			slog.String("template_id", template.TemplateID), slog.String("batch_id", batch.BatchID))
		return nil, fmt.Errorf("failed to record generation for template %s: %w", template.TemplateID, err)
	}

	logger.Info("Batch generated from recurring template",
		slog.String("template_id", template.TemplateID),
		slog.String("batch_id", batch.BatchID),
		slog.Time("next_run", nextRun),
		slog.String("template_status", string(newStatus)))
	return batch, nil
}

// GenerateDue sweeps all templates due as of the given date. A failing
// template is logged and skipped so one bad template cannot stall the sweep.
func (s *recurringService) GenerateDue(ctx context.Context, asOf time.Time, userID string) ([]domain.PostingBatch, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	due, err := s.recurringRepo.ListDueTemplates(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list due templates: %w", err)
	}

	generated := make([]domain.PostingBatch, 0, len(due))
	for i := range due {
		template := &due[i]
		batch, err := s.generate(ctx, template, asOf, userID)
		if err != nil {
			logger.Error("Skipping template after generation failure",
				slog.String("template_id", template.TemplateID), slog.String("error", err.Error()))
			continue
		}
		generated = append(generated, *batch)
	}

	logger.Info("Recurring sweep finished", slog.Int("due", len(due)), slog.Int("generated", len(generated)))
	return generated, nil
}
