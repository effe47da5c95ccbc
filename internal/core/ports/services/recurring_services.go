package services

import (
	"context"
	"time"

	"github.com/utilikit/gl_posting_app/internal/core/domain"
	"github.com/utilikit/gl_posting_app/internal/dto"
)

// RecurringSvcFacade manages recurring entry templates and their generation.
type RecurringSvcFacade interface {
	// CreateTemplate validates the template's lines (they must balance like a
	// batch) and persists it as ACTIVE.
	CreateTemplate(ctx context.Context, req dto.CreateTemplateRequest, creatorUserID string) (*domain.RecurringTemplate, error)

	// GetTemplateByID retrieves a template with lines.
	GetTemplateByID(ctx context.Context, templateID string) (*domain.RecurringTemplate, error)

	// ListTemplates retrieves template headers.
	ListTemplates(ctx context.Context, limit int, offset int) ([]domain.RecurringTemplate, error)

	// SuspendTemplate stops generation without deleting the template.
	SuspendTemplate(ctx context.Context, templateID string, userID string) error

	// ReactivateTemplate resumes generation of a suspended template.
	ReactivateTemplate(ctx context.Context, templateID string, userID string) error

	// GenerateBatch materializes a DRAFT batch from the template dated asOf and
	// advances the template's schedule. Generation never bypasses validation.
	GenerateBatch(ctx context.Context, templateID string, asOf time.Time, userID string) (*domain.PostingBatch, error)

	// GenerateDue sweeps all templates due as of the given date, generating one
	// batch per template. Returns the generated batches; individual template
	// failures are logged and skipped.
	GenerateDue(ctx context.Context, asOf time.Time, userID string) ([]domain.PostingBatch, error)
}
