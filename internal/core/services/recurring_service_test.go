package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/utilikit/gl_posting_app/internal/apperrors"
	"github.com/utilikit/gl_posting_app/internal/core/domain"
	portsrepo "github.com/utilikit/gl_posting_app/internal/core/ports/repositories"
	portssvc "github.com/utilikit/gl_posting_app/internal/core/ports/services"
	"github.com/utilikit/gl_posting_app/internal/core/services"
	"github.com/utilikit/gl_posting_app/internal/dto"
)

// --- Mock RecurringRepository ---
type MockRecurringRepository struct {
	mock.Mock
}

var _ portsrepo.RecurringRepositoryFacade = (*MockRecurringRepository)(nil)

func (m *MockRecurringRepository) FindTemplateByID(ctx context.Context, templateID string) (*domain.RecurringTemplate, error) {
	args := m.Called(ctx, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringTemplate), args.Error(1)
}

func (m *MockRecurringRepository) ListTemplates(ctx context.Context, limit int, offset int) ([]domain.RecurringTemplate, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecurringTemplate), args.Error(1)
}

func (m *MockRecurringRepository) ListDueTemplates(ctx context.Context, asOf time.Time) ([]domain.RecurringTemplate, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecurringTemplate), args.Error(1)
}

func (m *MockRecurringRepository) SaveTemplate(ctx context.Context, template domain.RecurringTemplate) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockRecurringRepository) UpdateTemplateStatus(ctx context.Context, templateID string, from, to domain.RecurringStatus, userID string, at time.Time) error {
	args := m.Called(ctx, templateID, from, to, userID, at)
	return args.Error(0)
}

func (m *MockRecurringRepository) RecordGeneration(ctx context.Context, templateID string, nextRunDate time.Time, newStatus domain.RecurringStatus, userID string, at time.Time) error {
	args := m.Called(ctx, templateID, nextRunDate, newStatus, userID, at)
	return args.Error(0)
}

// --- Mock BatchService ---
type MockBatchService struct {
	mock.Mock
}

var _ portssvc.BatchSvcFacade = (*MockBatchService)(nil)

func (m *MockBatchService) CreateBatch(ctx context.Context, req dto.CreateBatchRequest, creatorUserID string) (*domain.PostingBatch, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostingBatch), args.Error(1)
}

func (m *MockBatchService) CreateSourcedBatch(ctx context.Context, req dto.CreateBatchRequest, creatorUserID string, source domain.BatchSource) (*domain.PostingBatch, error) {
	args := m.Called(ctx, req, creatorUserID, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostingBatch), args.Error(1)
}

func (m *MockBatchService) GetBatchByID(ctx context.Context, batchID string) (*domain.PostingBatch, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostingBatch), args.Error(1)
}

func (m *MockBatchService) ListBatches(ctx context.Context, params dto.ListBatchesParams) (*dto.ListBatchesResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListBatchesResponse), args.Error(1)
}

func (m *MockBatchService) ReplaceEntries(ctx context.Context, batchID string, req dto.ReplaceEntriesRequest, userID string) (*domain.PostingBatch, error) {
	args := m.Called(ctx, batchID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostingBatch), args.Error(1)
}

func (m *MockBatchService) SubmitBatch(ctx context.Context, batchID string, userID string) error {
	args := m.Called(ctx, batchID, userID)
	return args.Error(0)
}

func (m *MockBatchService) ApproveBatch(ctx context.Context, batchID string, approverID string) error {
	args := m.Called(ctx, batchID, approverID)
	return args.Error(0)
}

func (m *MockBatchService) RejectBatch(ctx context.Context, batchID string, reason string, userID string) error {
	args := m.Called(ctx, batchID, reason, userID)
	return args.Error(0)
}

func (m *MockBatchService) PostBatch(ctx context.Context, batchID string, userID string) error {
	args := m.Called(ctx, batchID, userID)
	return args.Error(0)
}

func (m *MockBatchService) DeleteBatch(ctx context.Context, batchID string, userID string) error {
	args := m.Called(ctx, batchID, userID)
	return args.Error(0)
}

func (m *MockBatchService) ReverseBatch(ctx context.Context, batchID string, reason string, userID string) (*domain.PostingBatch, error) {
	args := m.Called(ctx, batchID, reason, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostingBatch), args.Error(1)
}

// --- Test Suite ---
type RecurringServiceTestSuite struct {
	suite.Suite
	mockRepo     *MockRecurringRepository
	mockBatchSvc *MockBatchService
	service      portssvc.RecurringSvcFacade

	userID        string
	ctx           context.Context
	rentAccountID string
	cashAccountID string
}

func (s *RecurringServiceTestSuite) SetupTest() {
	s.mockRepo = new(MockRecurringRepository)
	s.mockBatchSvc = new(MockBatchService)
	s.service = services.NewRecurringService(s.mockRepo, s.mockBatchSvc)

	s.userID = uuid.NewString()
	s.ctx = context.Background()
	s.rentAccountID = uuid.NewString()
	s.cashAccountID = uuid.NewString()
}

func (s *RecurringServiceTestSuite) balancedLines(debit, credit string) []dto.CreateRecurringLineRequest {
	return []dto.CreateRecurringLineRequest{
		{EntrySeq: 0, AccountID: s.rentAccountID, Debit: decimal.RequireFromString(debit)},
		{EntrySeq: 0, AccountID: s.cashAccountID, Credit: decimal.RequireFromString(credit)},
	}
}

// activeTemplate builds a monthly template next due on the given date.
func (s *RecurringServiceTestSuite) activeTemplate(nextRun time.Time) *domain.RecurringTemplate {
	amount := decimal.RequireFromString("2500.00")
	templateID := uuid.NewString()
	return &domain.RecurringTemplate{
		TemplateID:   templateID,
		TemplateCode: "RENT-HQ",
		Description:  "Monthly office rent",
		Frequency:    domain.Monthly,
		StartDate:    time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		NextRunDate:  nextRun,
		Status:       domain.RecurringActive,
		Lines: []domain.RecurringLine{
			{LineID: uuid.NewString(), TemplateID: templateID, EntrySeq: 0, AccountID: s.rentAccountID, Debit: amount, Credit: decimal.Zero},
			{LineID: uuid.NewString(), TemplateID: templateID, EntrySeq: 0, AccountID: s.cashAccountID, Debit: decimal.Zero, Credit: amount},
		},
	}
}

func (s *RecurringServiceTestSuite) TestCreateTemplateSuccess() {
	req := dto.CreateTemplateRequest{
		TemplateCode: "RENT-HQ",
		Description:  "Monthly office rent",
		Frequency:    "MONTHLY",
		StartDate:    time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC),
		Lines:        s.balancedLines("2500.00", "2500.00"),
	}
	s.mockRepo.On("SaveTemplate", s.ctx, mock.AnythingOfType("domain.RecurringTemplate")).Return(nil).Once()

	template, err := s.service.CreateTemplate(s.ctx, req, s.userID)

	s.Require().NoError(err)
	s.Require().NotNil(template)
	s.Equal(domain.RecurringActive, template.Status)
	s.Equal(req.StartDate, template.NextRunDate)
	s.Len(template.Lines, 2)
	s.mockRepo.AssertExpectations(s.T())
}

func (s *RecurringServiceTestSuite) TestCreateTemplateUnbalanced() {
	req := dto.CreateTemplateRequest{
		TemplateCode: "RENT-HQ",
		Frequency:    "MONTHLY",
		StartDate:    time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC),
		Lines:        s.balancedLines("2500.00", "2000.00"),
	}

	_, err := s.service.CreateTemplate(s.ctx, req, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockRepo.AssertNotCalled(s.T(), "SaveTemplate", mock.Anything, mock.Anything)
}

func (s *RecurringServiceTestSuite) TestCreateTemplateCustomWithoutInterval() {
	req := dto.CreateTemplateRequest{
		TemplateCode: "PAYROLL-BW",
		Frequency:    "CUSTOM", // no CustomIntervalDays
		StartDate:    time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC),
		Lines:        s.balancedLines("100", "100"),
	}

	_, err := s.service.CreateTemplate(s.ctx, req, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *RecurringServiceTestSuite) TestCreateTemplateEndBeforeStart() {
	end := time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)
	req := dto.CreateTemplateRequest{
		TemplateCode: "RENT-HQ",
		Frequency:    "MONTHLY",
		StartDate:    time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      &end,
		Lines:        s.balancedLines("100", "100"),
	}

	_, err := s.service.CreateTemplate(s.ctx, req, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *RecurringServiceTestSuite) TestSuspendActiveTemplate() {
	template := s.activeTemplate(time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC))

	s.mockRepo.On("FindTemplateByID", s.ctx, template.TemplateID).Return(template, nil).Once()
	s.mockRepo.On("UpdateTemplateStatus", s.ctx, template.TemplateID, domain.RecurringActive, domain.RecurringSuspended, s.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	s.Require().NoError(s.service.SuspendTemplate(s.ctx, template.TemplateID, s.userID))
	s.mockRepo.AssertExpectations(s.T())
}

func (s *RecurringServiceTestSuite) TestSuspendAlreadySuspended() {
	template := s.activeTemplate(time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC))
	template.Status = domain.RecurringSuspended

	s.mockRepo.On("FindTemplateByID", s.ctx, template.TemplateID).Return(template, nil).Once()

	err := s.service.SuspendTemplate(s.ctx, template.TemplateID, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrInvalidState)
}

func (s *RecurringServiceTestSuite) TestReactivateSuspendedTemplate() {
	template := s.activeTemplate(time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC))
	template.Status = domain.RecurringSuspended

	s.mockRepo.On("FindTemplateByID", s.ctx, template.TemplateID).Return(template, nil).Once()
	s.mockRepo.On("UpdateTemplateStatus", s.ctx, template.TemplateID, domain.RecurringSuspended, domain.RecurringActive, s.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	s.Require().NoError(s.service.ReactivateTemplate(s.ctx, template.TemplateID, s.userID))
	s.mockRepo.AssertExpectations(s.T())
}

func (s *RecurringServiceTestSuite) TestReactivateActiveTemplate() {
	template := s.activeTemplate(time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC))

	s.mockRepo.On("FindTemplateByID", s.ctx, template.TemplateID).Return(template, nil).Once()

	err := s.service.ReactivateTemplate(s.ctx, template.TemplateID, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrInvalidState)
}

func (s *RecurringServiceTestSuite) TestGenerateBatchAdvancesSchedule() {
	asOf := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
	template := s.activeTemplate(asOf)
	generated := &domain.PostingBatch{BatchID: uuid.NewString(), Status: domain.StatusDraft, Source: domain.SourceRecurring}

	s.mockRepo.On("FindTemplateByID", s.ctx, template.TemplateID).Return(template, nil).Once()
	s.mockBatchSvc.On("CreateSourcedBatch", s.ctx, mock.MatchedBy(func(req dto.CreateBatchRequest) bool {
		if !req.BatchDate.Equal(asOf) || len(req.Entries) != 1 {
			return false
		}
		entry := req.Entries[0]
		return len(entry.Lines) == 2 && entry.EntryDate.Equal(asOf)
	}), s.userID, domain.SourceRecurring).Return(generated, nil).Once()
	s.mockRepo.On("RecordGeneration", s.ctx, template.TemplateID,
		time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC), // monthly advance
		domain.RecurringActive, s.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	batch, err := s.service.GenerateBatch(s.ctx, template.TemplateID, asOf, s.userID)

	s.Require().NoError(err)
	s.Equal(generated.BatchID, batch.BatchID)
	s.mockRepo.AssertExpectations(s.T())
	s.mockBatchSvc.AssertExpectations(s.T())
}

func (s *RecurringServiceTestSuite) TestGenerateBatchExpiresAtEndDate() {
	asOf := time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)
	endDate := time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)
	template := s.activeTemplate(asOf)
	template.EndDate = &endDate
	generated := &domain.PostingBatch{BatchID: uuid.NewString(), Status: domain.StatusDraft, Source: domain.SourceRecurring}

	s.mockRepo.On("FindTemplateByID", s.ctx, template.TemplateID).Return(template, nil).Once()
	s.mockBatchSvc.On("CreateSourcedBatch", s.ctx, mock.AnythingOfType("dto.CreateBatchRequest"), s.userID, domain.SourceRecurring).Return(generated, nil).Once()
	// 2026-01-01 is past the end date, so the template expires
	s.mockRepo.On("RecordGeneration", s.ctx, template.TemplateID,
		time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		domain.RecurringExpired, s.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	_, err := s.service.GenerateBatch(s.ctx, template.TemplateID, asOf, s.userID)

	s.Require().NoError(err)
	s.mockRepo.AssertExpectations(s.T())
}

func (s *RecurringServiceTestSuite) TestGenerateBatchPastEndDate() {
	endDate := time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)
	asOf := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
	template := s.activeTemplate(asOf)
	template.EndDate = &endDate

	s.mockRepo.On("FindTemplateByID", s.ctx, template.TemplateID).Return(template, nil).Once()

	_, err := s.service.GenerateBatch(s.ctx, template.TemplateID, asOf, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrInvalidState)
	s.mockBatchSvc.AssertNotCalled(s.T(), "CreateSourcedBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *RecurringServiceTestSuite) TestGenerateBatchFromSuspended() {
	asOf := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
	template := s.activeTemplate(asOf)
	template.Status = domain.RecurringSuspended

	s.mockRepo.On("FindTemplateByID", s.ctx, template.TemplateID).Return(template, nil).Once()

	_, err := s.service.GenerateBatch(s.ctx, template.TemplateID, asOf, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrInvalidState)
}

func (s *RecurringServiceTestSuite) TestGenerateDueSkipsFailingTemplate() {
	asOf := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
	good := s.activeTemplate(asOf)
	bad := s.activeTemplate(asOf)
	bad.TemplateCode = "UTIL-HQ"
	generated := &domain.PostingBatch{BatchID: uuid.NewString(), Status: domain.StatusDraft, Source: domain.SourceRecurring}

	s.mockRepo.On("ListDueTemplates", s.ctx, asOf).Return([]domain.RecurringTemplate{*good, *bad}, nil).Once()
	s.mockBatchSvc.On("CreateSourcedBatch", s.ctx, mock.MatchedBy(func(req dto.CreateBatchRequest) bool {
		return req.Description == "RENT-HQ: Monthly office rent"
	}), s.userID, domain.SourceRecurring).Return(generated, nil).Once()
	s.mockRepo.On("RecordGeneration", s.ctx, good.TemplateID, mock.AnythingOfType("time.Time"),
		domain.RecurringActive, s.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	s.mockBatchSvc.On("CreateSourcedBatch", s.ctx, mock.MatchedBy(func(req dto.CreateBatchRequest) bool {
		return req.Description == "UTIL-HQ: Monthly office rent"
	}), s.userID, domain.SourceRecurring).Return(nil, apperrors.ErrValidation).Once()

	batches, err := s.service.GenerateDue(s.ctx, asOf, s.userID)

	s.Require().NoError(err)
	s.Require().Len(batches, 1)
	s.Equal(generated.BatchID, batches[0].BatchID)
	s.mockRepo.AssertNotCalled(s.T(), "RecordGeneration", mock.Anything, bad.TemplateID, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRecurringServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RecurringServiceTestSuite))
}
