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
	"github.com/utilikit/gl_posting_app/internal/utils/accounting"
)

// --- Mock BatchRepository ---
type MockBatchRepository struct {
	mock.Mock
}

var _ portsrepo.BatchRepositoryFacade = (*MockBatchRepository)(nil)

func (m *MockBatchRepository) FindBatchByID(ctx context.Context, batchID string) (*domain.PostingBatch, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostingBatch), args.Error(1)
}

func (m *MockBatchRepository) FindBatchWithEntries(ctx context.Context, batchID string) (*domain.PostingBatch, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostingBatch), args.Error(1)
}

func (m *MockBatchRepository) ListBatches(ctx context.Context, statuses []domain.BatchStatus, limit int, nextToken *string) ([]domain.PostingBatch, *string, error) {
	args := m.Called(ctx, statuses, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.PostingBatch), returnedNextToken, args.Error(2)
}

func (m *MockBatchRepository) NextBatchNumber(ctx context.Context, batchDate time.Time) (string, error) {
	args := m.Called(ctx, batchDate)
	return args.String(0), args.Error(1)
}

func (m *MockBatchRepository) SaveBatch(ctx context.Context, batch domain.PostingBatch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func (m *MockBatchRepository) ReplaceEntries(ctx context.Context, batchID string, expectedStatus domain.BatchStatus, entries []domain.JournalEntry, userID string, at time.Time) error {
	args := m.Called(ctx, batchID, expectedStatus, entries, userID, at)
	return args.Error(0)
}

func (m *MockBatchRepository) TransitionBatch(ctx context.Context, batchID string, transition portsrepo.StatusTransition) error {
	args := m.Called(ctx, batchID, transition)
	return args.Error(0)
}

func (m *MockBatchRepository) PostBatch(ctx context.Context, batch domain.PostingBatch, entries []domain.GeneralLedgerEntry, postedBy string, postedAt time.Time) error {
	args := m.Called(ctx, batch, entries, postedBy, postedAt)
	return args.Error(0)
}

func (m *MockBatchRepository) CreateReversalBatch(ctx context.Context, reversal domain.PostingBatch, sourceBatchID string) error {
	args := m.Called(ctx, reversal, sourceBatchID)
	return args.Error(0)
}

func (m *MockBatchRepository) DeleteBatch(ctx context.Context, batchID string, allowed []domain.BatchStatus) error {
	args := m.Called(ctx, batchID, allowed)
	return args.Error(0)
}

// --- Mock ChartOfAccountsService ---
type MockAccountService struct {
	mock.Mock
}

var _ portssvc.ChartOfAccountsSvcFacade = (*MockAccountService)(nil)

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

// --- Mock PeriodService ---
type MockPeriodService struct {
	mock.Mock
}

var _ portssvc.PeriodSvcFacade = (*MockPeriodService)(nil)

func (m *MockPeriodService) IsOpen(ctx context.Context, date time.Time) (bool, error) {
	args := m.Called(ctx, date)
	return args.Bool(0), args.Error(1)
}

func (m *MockPeriodService) GetPeriodForDate(ctx context.Context, date time.Time) (*domain.AccountingPeriod, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Error(1)
}

func (m *MockPeriodService) ListPeriods(ctx context.Context, fiscalYear int) ([]domain.AccountingPeriod, error) {
	args := m.Called(ctx, fiscalYear)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountingPeriod), args.Error(1)
}

// --- Test Suite ---
type BatchServiceTestSuite struct {
	suite.Suite
	mockBatchRepo  *MockBatchRepository
	mockAccountSvc *MockAccountService
	mockPeriodSvc  *MockPeriodService
	service        portssvc.BatchSvcFacade

	userID       string
	cashAccount  domain.Account
	rentAccount  domain.Account
	batchDate    time.Time
	ctx          context.Context
	accountsByID map[string]domain.Account
}

func (s *BatchServiceTestSuite) SetupTest() {
	s.mockBatchRepo = new(MockBatchRepository)
	s.mockAccountSvc = new(MockAccountService)
	s.mockPeriodSvc = new(MockPeriodService)
	s.service = services.NewBatchService(s.mockBatchRepo, s.mockAccountSvc, s.mockPeriodSvc)

	s.userID = uuid.NewString()
	s.batchDate = time.Date(2025, time.August, 15, 0, 0, 0, 0, time.UTC)
	s.ctx = context.Background()

	s.cashAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "1010",
		Name:        "Cash",
		AccountType: domain.Asset,
		IsActive:    true,
	}
	s.rentAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "6100",
		Name:        "Rent Expense",
		AccountType: domain.Expense,
		IsActive:    true,
	}
	s.accountsByID = map[string]domain.Account{
		s.cashAccount.AccountID: s.cashAccount,
		s.rentAccount.AccountID: s.rentAccount,
	}
}

func (s *BatchServiceTestSuite) createRequest(debit, credit string) dto.CreateBatchRequest {
	return dto.CreateBatchRequest{
		BatchDate:   s.batchDate,
		Description: "August rent",
		Entries: []dto.CreateEntryRequest{
			{
				EntryDate:   s.batchDate,
				Description: "rent payment",
				Lines: []dto.CreateLineRequest{
					{AccountID: s.rentAccount.AccountID, Debit: decimal.RequireFromString(debit)},
					{AccountID: s.cashAccount.AccountID, Credit: decimal.RequireFromString(credit)},
				},
			},
		},
	}
}

// postedBatch builds a POSTED two-line batch owned by the suite's accounts.
func (s *BatchServiceTestSuite) postedBatch() *domain.PostingBatch {
	batchID := uuid.NewString()
	entryID := uuid.NewString()
	amount := decimal.RequireFromString("1200.00")
	return &domain.PostingBatch{
		BatchID:     batchID,
		BatchNumber: "BATCH-202508-0001",
		BatchDate:   s.batchDate,
		Status:      domain.StatusPosted,
		Source:      domain.SourceJournal,
		Entries: []domain.JournalEntry{
			{
				EntryID:   entryID,
				BatchID:   batchID,
				EntryDate: s.batchDate,
				Lines: []domain.JournalLine{
					{LineID: uuid.NewString(), EntryID: entryID, AccountID: s.rentAccount.AccountID, Debit: amount, Credit: decimal.Zero},
					{LineID: uuid.NewString(), EntryID: entryID, AccountID: s.cashAccount.AccountID, Debit: decimal.Zero, Credit: amount},
				},
			},
		},
	}
}

func (s *BatchServiceTestSuite) TestCreateBatchSuccess() {
	req := s.createRequest("1200.00", "1200.00")

	s.mockAccountSvc.On("GetAccountsByIDs", s.ctx, mock.AnythingOfType("[]string")).Return(s.accountsByID, nil).Once()
	s.mockBatchRepo.On("NextBatchNumber", s.ctx, s.batchDate).Return("BATCH-202508-0007", nil).Once()
	s.mockBatchRepo.On("SaveBatch", s.ctx, mock.AnythingOfType("domain.PostingBatch")).Return(nil).Once()

	batch, err := s.service.CreateBatch(s.ctx, req, s.userID)

	s.Require().NoError(err)
	s.Require().NotNil(batch)
	s.Equal(domain.StatusDraft, batch.Status)
	s.Equal(domain.SourceJournal, batch.Source)
	s.Equal("BATCH-202508-0007", batch.BatchNumber)
	s.Equal(s.userID, batch.CreatedBy)
	s.Require().Len(batch.Entries, 1)
	s.Len(batch.Entries[0].Lines, 2)
	s.True(batch.TotalDebits().Equal(batch.TotalCredits()))
	s.mockBatchRepo.AssertExpectations(s.T())
}

func (s *BatchServiceTestSuite) TestCreateBatchUnbalanced() {
	req := s.createRequest("1200.00", "1100.00")

	batch, err := s.service.CreateBatch(s.ctx, req, s.userID)

	s.Require().Error(err)
	s.Nil(batch)
	s.ErrorIs(err, apperrors.ErrValidation)
	var unbalanced *accounting.UnbalancedError
	s.ErrorAs(err, &unbalanced)
	s.mockBatchRepo.AssertNotCalled(s.T(), "SaveBatch", mock.Anything, mock.Anything)
}

func (s *BatchServiceTestSuite) TestCreateBatchInactiveAccount() {
	inactive := s.cashAccount
	inactive.IsActive = false
	accounts := map[string]domain.Account{
		s.cashAccount.AccountID: inactive,
		s.rentAccount.AccountID: s.rentAccount,
	}
	s.mockAccountSvc.On("GetAccountsByIDs", s.ctx, mock.AnythingOfType("[]string")).Return(accounts, nil).Once()

	_, err := s.service.CreateBatch(s.ctx, s.createRequest("100", "100"), s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.ErrorIs(err, services.ErrInactiveAccount)
}

func (s *BatchServiceTestSuite) TestCreateBatchUnknownAccount() {
	accounts := map[string]domain.Account{
		s.rentAccount.AccountID: s.rentAccount, // cash account missing
	}
	s.mockAccountSvc.On("GetAccountsByIDs", s.ctx, mock.AnythingOfType("[]string")).Return(accounts, nil).Once()

	_, err := s.service.CreateBatch(s.ctx, s.createRequest("100", "100"), s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, services.ErrAccountNotFound)
}

func (s *BatchServiceTestSuite) TestSubmitBatchSuccess() {
	batch := s.postedBatch()
	batch.Status = domain.StatusDraft

	s.mockBatchRepo.On("FindBatchWithEntries", s.ctx, batch.BatchID).Return(batch, nil).Once()
	s.mockBatchRepo.On("TransitionBatch", s.ctx, batch.BatchID, mock.MatchedBy(func(tr portsrepo.StatusTransition) bool {
		return tr.From == domain.StatusDraft && tr.To == domain.StatusPendingApproval && tr.ActorID == s.userID
	})).Return(nil).Once()

	s.Require().NoError(s.service.SubmitBatch(s.ctx, batch.BatchID, s.userID))
	s.mockBatchRepo.AssertExpectations(s.T())
}

func (s *BatchServiceTestSuite) TestSubmitBatchUnbalancedRefused() {
	batch := s.postedBatch()
	batch.Status = domain.StatusDraft
	batch.Entries[0].Lines[1].Credit = decimal.RequireFromString("999.99")

	s.mockBatchRepo.On("FindBatchWithEntries", s.ctx, batch.BatchID).Return(batch, nil).Once()

	err := s.service.SubmitBatch(s.ctx, batch.BatchID, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockBatchRepo.AssertNotCalled(s.T(), "TransitionBatch", mock.Anything, mock.Anything, mock.Anything)
}

func (s *BatchServiceTestSuite) TestSubmitBatchWrongStatus() {
	batch := s.postedBatch() // POSTED, not submittable

	s.mockBatchRepo.On("FindBatchWithEntries", s.ctx, batch.BatchID).Return(batch, nil).Once()

	err := s.service.SubmitBatch(s.ctx, batch.BatchID, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrInvalidState)
}

func (s *BatchServiceTestSuite) TestApproveBatchSuccess() {
	batch := s.postedBatch()
	batch.Status = domain.StatusPendingApproval
	approverID := uuid.NewString()

	s.mockBatchRepo.On("FindBatchByID", s.ctx, batch.BatchID).Return(batch, nil).Once()
	s.mockPeriodSvc.On("IsOpen", s.ctx, batch.BatchDate).Return(true, nil).Once()
	s.mockBatchRepo.On("TransitionBatch", s.ctx, batch.BatchID, mock.MatchedBy(func(tr portsrepo.StatusTransition) bool {
		return tr.From == domain.StatusPendingApproval && tr.To == domain.StatusApproved && tr.ActorID == approverID
	})).Return(nil).Once()

	s.Require().NoError(s.service.ApproveBatch(s.ctx, batch.BatchID, approverID))
	s.mockBatchRepo.AssertExpectations(s.T())
}

func (s *BatchServiceTestSuite) TestApproveBatchPeriodClosed() {
	batch := s.postedBatch()
	batch.Status = domain.StatusPendingApproval

	s.mockBatchRepo.On("FindBatchByID", s.ctx, batch.BatchID).Return(batch, nil).Once()
	s.mockPeriodSvc.On("IsOpen", s.ctx, batch.BatchDate).Return(false, nil).Once()

	err := s.service.ApproveBatch(s.ctx, batch.BatchID, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrPeriodClosed)
	s.mockBatchRepo.AssertNotCalled(s.T(), "TransitionBatch", mock.Anything, mock.Anything, mock.Anything)
}

func (s *BatchServiceTestSuite) TestApproveBatchLosesRace() {
	batch := s.postedBatch()
	batch.Status = domain.StatusPendingApproval

	s.mockBatchRepo.On("FindBatchByID", s.ctx, batch.BatchID).Return(batch, nil).Once()
	s.mockPeriodSvc.On("IsOpen", s.ctx, batch.BatchDate).Return(true, nil).Once()
	s.mockBatchRepo.On("TransitionBatch", s.ctx, batch.BatchID, mock.AnythingOfType("repositories.StatusTransition")).
		Return(apperrors.ErrConcurrentModification).Once()

	err := s.service.ApproveBatch(s.ctx, batch.BatchID, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConcurrentModification)
}

func (s *BatchServiceTestSuite) TestPostBatchSuccess() {
	batch := s.postedBatch()
	batch.Status = domain.StatusApproved

	s.mockBatchRepo.On("FindBatchWithEntries", s.ctx, batch.BatchID).Return(batch, nil).Once()
	s.mockPeriodSvc.On("IsOpen", s.ctx, batch.BatchDate).Return(true, nil).Once()
	s.mockAccountSvc.On("GetAccountsByIDs", s.ctx, mock.AnythingOfType("[]string")).Return(s.accountsByID, nil).Once()
	s.mockBatchRepo.On("PostBatch", mock.Anything, *batch, mock.MatchedBy(func(entries []domain.GeneralLedgerEntry) bool {
		if len(entries) != 2 {
			return false
		}
		// every line becomes one row, sides preserved
		return entries[0].Debit.Equal(decimal.RequireFromString("1200.00")) &&
			entries[1].Credit.Equal(decimal.RequireFromString("1200.00")) &&
			entries[0].SourceBatchID == batch.BatchID
	}), s.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	s.Require().NoError(s.service.PostBatch(s.ctx, batch.BatchID, s.userID))
	s.mockBatchRepo.AssertExpectations(s.T())
}

func (s *BatchServiceTestSuite) TestPostBatchAlreadyPosted() {
	batch := s.postedBatch() // already POSTED

	s.mockBatchRepo.On("FindBatchWithEntries", s.ctx, batch.BatchID).Return(batch, nil).Once()

	err := s.service.PostBatch(s.ctx, batch.BatchID, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrAlreadyPosted)
	s.mockBatchRepo.AssertNotCalled(s.T(), "PostBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *BatchServiceTestSuite) TestPostBatchPeriodClosedSinceApproval() {
	batch := s.postedBatch()
	batch.Status = domain.StatusApproved

	s.mockBatchRepo.On("FindBatchWithEntries", s.ctx, batch.BatchID).Return(batch, nil).Once()
	s.mockPeriodSvc.On("IsOpen", s.ctx, batch.BatchDate).Return(false, nil).Once()

	err := s.service.PostBatch(s.ctx, batch.BatchID, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrPeriodClosed)
}

func (s *BatchServiceTestSuite) TestPostBatchNotApproved() {
	batch := s.postedBatch()
	batch.Status = domain.StatusDraft

	s.mockBatchRepo.On("FindBatchWithEntries", s.ctx, batch.BatchID).Return(batch, nil).Once()

	err := s.service.PostBatch(s.ctx, batch.BatchID, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrInvalidState)
}

func (s *BatchServiceTestSuite) TestReverseBatchMirrorsLines() {
	source := s.postedBatch()

	s.mockBatchRepo.On("FindBatchWithEntries", s.ctx, source.BatchID).Return(source, nil).Once()
	s.mockBatchRepo.On("NextBatchNumber", s.ctx, mock.AnythingOfType("time.Time")).Return("BATCH-202508-0021", nil).Once()
	s.mockBatchRepo.On("CreateReversalBatch", s.ctx, mock.AnythingOfType("domain.PostingBatch"), source.BatchID).Return(nil).Once()

	reversal, err := s.service.ReverseBatch(s.ctx, source.BatchID, "keyed against the wrong month", s.userID)

	s.Require().NoError(err)
	s.Require().NotNil(reversal)
	s.Equal(domain.StatusDraft, reversal.Status)
	s.Equal(domain.SourceReversal, reversal.Source)
	s.Require().NotNil(reversal.ReversalOfBatchID)
	s.Equal(source.BatchID, *reversal.ReversalOfBatchID)

	// mirror: every debit and credit swaps, amounts stay non-negative
	s.Require().Len(reversal.Entries, 1)
	srcLines := source.Entries[0].Lines
	revLines := reversal.Entries[0].Lines
	s.Require().Len(revLines, len(srcLines))
	for i := range srcLines {
		s.True(revLines[i].Debit.Equal(srcLines[i].Credit), "line %d debit", i)
		s.True(revLines[i].Credit.Equal(srcLines[i].Debit), "line %d credit", i)
		s.Equal(srcLines[i].AccountID, revLines[i].AccountID)
		s.False(revLines[i].Debit.IsNegative())
		s.False(revLines[i].Credit.IsNegative())
	}
	s.True(reversal.TotalDebits().Equal(source.TotalCredits()))
}

func (s *BatchServiceTestSuite) TestReverseBatchNotPosted() {
	source := s.postedBatch()
	source.Status = domain.StatusDraft

	s.mockBatchRepo.On("FindBatchWithEntries", s.ctx, source.BatchID).Return(source, nil).Once()

	_, err := s.service.ReverseBatch(s.ctx, source.BatchID, "reason", s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrNotPosted)
}

func (s *BatchServiceTestSuite) TestReverseBatchAlreadyReversed() {
	source := s.postedBatch()
	existing := uuid.NewString()
	source.ReversingBatchID = &existing

	s.mockBatchRepo.On("FindBatchWithEntries", s.ctx, source.BatchID).Return(source, nil).Once()

	_, err := s.service.ReverseBatch(s.ctx, source.BatchID, "reason", s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrAlreadyReversed)
	s.mockBatchRepo.AssertNotCalled(s.T(), "CreateReversalBatch", mock.Anything, mock.Anything, mock.Anything)
}

func (s *BatchServiceTestSuite) TestReverseBatchOfReversalRefused() {
	source := s.postedBatch()
	original := uuid.NewString()
	source.ReversalOfBatchID = &original

	s.mockBatchRepo.On("FindBatchWithEntries", s.ctx, source.BatchID).Return(source, nil).Once()

	_, err := s.service.ReverseBatch(s.ctx, source.BatchID, "reason", s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrInvalidState)
}

func (s *BatchServiceTestSuite) TestDeleteBatchPostedRefused() {
	batch := s.postedBatch()

	s.mockBatchRepo.On("FindBatchByID", s.ctx, batch.BatchID).Return(batch, nil).Once()

	err := s.service.DeleteBatch(s.ctx, batch.BatchID, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrInvalidState)
	s.mockBatchRepo.AssertNotCalled(s.T(), "DeleteBatch", mock.Anything, mock.Anything, mock.Anything)
}

func (s *BatchServiceTestSuite) TestDeleteDraftBatch() {
	batch := s.postedBatch()
	batch.Status = domain.StatusDraft

	s.mockBatchRepo.On("FindBatchByID", s.ctx, batch.BatchID).Return(batch, nil).Once()
	s.mockBatchRepo.On("DeleteBatch", s.ctx, batch.BatchID, []domain.BatchStatus{domain.StatusDraft, domain.StatusPendingApproval}).Return(nil).Once()

	s.Require().NoError(s.service.DeleteBatch(s.ctx, batch.BatchID, s.userID))
	s.mockBatchRepo.AssertExpectations(s.T())
}

func TestBatchServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BatchServiceTestSuite))
}
