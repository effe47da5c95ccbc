package repositories

import (
	"context"
	"time"

	"github.com/utilikit/gl_posting_app/internal/core/domain"
)

// RecurringReader defines read operations for recurring templates.
type RecurringReader interface {
	// FindTemplateByID retrieves a template with its lines.
	FindTemplateByID(ctx context.Context, templateID string) (*domain.RecurringTemplate, error)

	// ListTemplates retrieves template headers ordered by code.
	ListTemplates(ctx context.Context, limit int, offset int) ([]domain.RecurringTemplate, error)

	// ListDueTemplates retrieves active templates whose next run date is on or
	// before asOf, lines included.
	ListDueTemplates(ctx context.Context, asOf time.Time) ([]domain.RecurringTemplate, error)
}

// RecurringWriter defines write operations for recurring templates.
type RecurringWriter interface {
	// SaveTemplate inserts a template and its lines in one transaction.
	SaveTemplate(ctx context.Context, template domain.RecurringTemplate) error

	// UpdateTemplateStatus conditionally moves a template between statuses
	// (suspend/reactivate); apperrors.ErrConcurrentModification on mismatch.
	UpdateTemplateStatus(ctx context.Context, templateID string, from, to domain.RecurringStatus, userID string, at time.Time) error

	// RecordGeneration advances the schedule after a successful generation.
	RecordGeneration(ctx context.Context, templateID string, nextRunDate time.Time, newStatus domain.RecurringStatus, userID string, at time.Time) error
}

// RecurringRepositoryFacade combines recurring repository interfaces.
type RecurringRepositoryFacade interface {
	RecurringReader
	RecurringWriter
}
