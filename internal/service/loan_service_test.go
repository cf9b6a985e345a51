package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/flexcredit/loan-engine/internal/config"
	"github.com/flexcredit/loan-engine/internal/domain"
	customError "github.com/flexcredit/loan-engine/pkg/errors"
	"github.com/flexcredit/loan-engine/tests/mocks"
)

func newLoanServiceForTest(loanRepo *mocks.MockLoanRepository, paymentRepo *mocks.MockPaymentRepository) (*LoanService, *mocks.MockTxManager) {
	tx := &mocks.MockTxManager{Loans: loanRepo, Payments: paymentRepo}
	return NewLoanService(loanRepo, paymentRepo, tx, nil, &config.Config{}), tx
}

func dueInstallments(loanID uuid.UUID, amount int64, dueDates ...time.Time) []*domain.ScheduledInstallment {
	installments := make([]*domain.ScheduledInstallment, 0, len(dueDates))
	for _, dueDate := range dueDates {
		installments = append(installments, &domain.ScheduledInstallment{
			ID:                uuid.New(),
			LoanID:            loanID,
			Amount:            amount,
			OutstandingAmount: amount,
			CurrencyCode:      domain.CurrencyIDR,
			DueDate:           dueDate,
			Status:            domain.InstallmentStatusDue,
		})
	}
	return installments
}

func TestCreateLoan_GeneratesMonthlySchedule(t *testing.T) {
	mockLoanRepo := &mocks.MockLoanRepository{}
	mockPaymentRepo := &mocks.MockPaymentRepository{}
	service, tx := newLoanServiceForTest(mockLoanRepo, mockPaymentRepo)

	userID := uuid.New()
	processedAt := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	tx.On("WithinTx", mock.Anything).Return(nil)
	mockLoanRepo.On("Create", mock.Anything, mock.MatchedBy(func(loan *domain.Loan) bool {
		return loan.UserID == userID && loan.Status == domain.LoanStatusDue
	})).Return(nil)
	mockLoanRepo.On("CreateInstallments", mock.Anything, mock.MatchedBy(func(installments []*domain.ScheduledInstallment) bool {
		return len(installments) == 6
	})).Return(nil)

	loan, installments, err := service.CreateLoan(context.Background(), userID, &domain.CreateLoanRequest{
		Amount:       6000000,
		CurrencyCode: domain.CurrencyIDR,
		Terms:        6,
		ProcessedAt:  processedAt,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(6000000), loan.Amount)
	assert.Equal(t, int64(6000000), loan.OutstandingAmount)
	assert.Equal(t, domain.LoanStatusDue, loan.Status)
	assert.Len(t, installments, 6)

	for i, installment := range installments {
		assert.Equal(t, loan.ID, installment.LoanID)
		assert.Equal(t, int64(1000000), installment.Amount)
		assert.Equal(t, int64(1000000), installment.OutstandingAmount)
		assert.Equal(t, domain.InstallmentStatusDue, installment.Status)
		assert.Equal(t, processedAt.AddDate(0, i+1, 0), installment.DueDate)
	}

	mockLoanRepo.AssertExpectations(t)
}

func TestCreateLoan_TruncatesNonDivisibleSplit(t *testing.T) {
	mockLoanRepo := &mocks.MockLoanRepository{}
	mockPaymentRepo := &mocks.MockPaymentRepository{}
	service, tx := newLoanServiceForTest(mockLoanRepo, mockPaymentRepo)

	tx.On("WithinTx", mock.Anything).Return(nil)
	mockLoanRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	mockLoanRepo.On("CreateInstallments", mock.Anything, mock.Anything).Return(nil)

	_, installments, err := service.CreateLoan(context.Background(), uuid.New(), &domain.CreateLoanRequest{
		Amount:       1000001,
		CurrencyCode: domain.CurrencyIDR,
		Terms:        3,
		ProcessedAt:  time.Now(),
	})

	assert.NoError(t, err)
	assert.Len(t, installments, 3)

	var total int64
	for _, installment := range installments {
		assert.Equal(t, int64(333333), installment.Amount)
		total += installment.Amount
	}
	// The remainder of the truncating split stays unallocated.
	assert.Equal(t, int64(999999), total)
}

func TestCreateLoan_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name         string
		request      *domain.CreateLoanRequest
		expectedCode string
	}{
		{
			name: "zero amount",
			request: &domain.CreateLoanRequest{
				Amount:       0,
				CurrencyCode: domain.CurrencyIDR,
				Terms:        6,
				ProcessedAt:  time.Now(),
			},
			expectedCode: customError.ErrCodeInvalidLoanAmount,
		},
		{
			name: "negative amount",
			request: &domain.CreateLoanRequest{
				Amount:       -100,
				CurrencyCode: domain.CurrencyIDR,
				Terms:        6,
				ProcessedAt:  time.Now(),
			},
			expectedCode: customError.ErrCodeInvalidLoanAmount,
		},
		{
			name: "zero terms",
			request: &domain.CreateLoanRequest{
				Amount:       6000000,
				CurrencyCode: domain.CurrencyIDR,
				Terms:        0,
				ProcessedAt:  time.Now(),
			},
			expectedCode: customError.ErrCodeInvalidLoanTerms,
		},
		{
			name: "unsupported currency",
			request: &domain.CreateLoanRequest{
				Amount:       6000000,
				CurrencyCode: "USD",
				Terms:        6,
				ProcessedAt:  time.Now(),
			},
			expectedCode: customError.ErrCodeUnsupportedCurrency,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockLoanRepo := &mocks.MockLoanRepository{}
			mockPaymentRepo := &mocks.MockPaymentRepository{}
			service, tx := newLoanServiceForTest(mockLoanRepo, mockPaymentRepo)

			loan, installments, err := service.CreateLoan(context.Background(), uuid.New(), tt.request)

			assert.Nil(t, loan)
			assert.Nil(t, installments)

			var businessErr *customError.BusinessError
			assert.ErrorAs(t, err, &businessErr)
			assert.Equal(t, tt.expectedCode, businessErr.Code)

			tx.AssertNotCalled(t, "WithinTx", mock.Anything)
			mockLoanRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateLoan_DatabaseFailure(t *testing.T) {
	mockLoanRepo := &mocks.MockLoanRepository{}
	mockPaymentRepo := &mocks.MockPaymentRepository{}
	service, tx := newLoanServiceForTest(mockLoanRepo, mockPaymentRepo)

	tx.On("WithinTx", mock.Anything).Return(errors.New("commit failed"))

	loan, installments, err := service.CreateLoan(context.Background(), uuid.New(), &domain.CreateLoanRequest{
		Amount:       6000000,
		CurrencyCode: domain.CurrencyIDR,
		Terms:        6,
		ProcessedAt:  time.Now(),
	})

	assert.Nil(t, loan)
	assert.Nil(t, installments)

	var businessErr *customError.BusinessError
	assert.ErrorAs(t, err, &businessErr)
	assert.Equal(t, customError.ErrCodeDatabaseError, businessErr.Code)
}

func TestRepayLoan_AllocatesToEarliestDueInstallment(t *testing.T) {
	mockLoanRepo := &mocks.MockLoanRepository{}
	mockPaymentRepo := &mocks.MockPaymentRepository{}
	service, tx := newLoanServiceForTest(mockLoanRepo, mockPaymentRepo)

	loanID := uuid.New()
	loan := &domain.Loan{
		ID:                loanID,
		Amount:            3000000,
		Terms:             3,
		OutstandingAmount: 3000000,
		CurrencyCode:      domain.CurrencyIDR,
		Status:            domain.LoanStatusDue,
	}

	base := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	installments := dueInstallments(loanID, 1000000, base, base.AddDate(0, 1, 0), base.AddDate(0, 2, 0))

	tx.On("WithinLoanTx", mock.Anything, loanID).Return(nil)
	mockLoanRepo.On("GetByID", mock.Anything, loanID).Return(loan, nil)
	mockPaymentRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	mockLoanRepo.On("SumRepaidInstallments", mock.Anything, loanID).Return(int64(0), nil)
	mockLoanRepo.On("GetDueInstallments", mock.Anything, loanID).Return(installments, nil)
	mockLoanRepo.On("UpdateInstallment", mock.Anything, mock.Anything).Return(nil)
	mockLoanRepo.On("CountRepaidInstallments", mock.Anything, loanID).Return(1, nil)
	mockLoanRepo.On("Update", mock.Anything, loan).Return(nil)

	payment, updated, err := service.RepayLoan(context.Background(), loanID, &domain.RepayLoanRequest{
		Amount:       1000000,
		CurrencyCode: domain.CurrencyIDR,
		ReceivedAt:   time.Now(),
	})

	assert.NoError(t, err)
	assert.Equal(t, loanID, payment.LoanID)
	assert.Equal(t, int64(1000000), payment.Amount)

	// Earliest due date is settled first.
	assert.Equal(t, domain.InstallmentStatusRepaid, installments[0].Status)
	assert.Equal(t, int64(0), installments[0].OutstandingAmount)

	// Later installments are rewritten with their own original amount.
	for _, installment := range installments[1:] {
		assert.Equal(t, domain.InstallmentStatusDue, installment.Status)
		assert.Equal(t, int64(1000000), installment.OutstandingAmount)
	}

	// Outstanding follows the amount - repaid sum - payment rule.
	assert.Equal(t, domain.LoanStatusDue, updated.Status)
	assert.Equal(t, int64(2000000), updated.OutstandingAmount)

	mockLoanRepo.AssertNumberOfCalls(t, "UpdateInstallment", 3)
	mockLoanRepo.AssertExpectations(t)
	mockPaymentRepo.AssertExpectations(t)
}

func TestRepayLoan_PartialPaymentIsNotCarriedForward(t *testing.T) {
	mockLoanRepo := &mocks.MockLoanRepository{}
	mockPaymentRepo := &mocks.MockPaymentRepository{}
	service, tx := newLoanServiceForTest(mockLoanRepo, mockPaymentRepo)

	loanID := uuid.New()
	loan := &domain.Loan{
		ID:                loanID,
		Amount:            3000000,
		Terms:             3,
		OutstandingAmount: 3000000,
		CurrencyCode:      domain.CurrencyIDR,
		Status:            domain.LoanStatusDue,
	}

	base := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	installments := dueInstallments(loanID, 1000000, base, base.AddDate(0, 1, 0), base.AddDate(0, 2, 0))

	tx.On("WithinLoanTx", mock.Anything, loanID).Return(nil)
	mockLoanRepo.On("GetByID", mock.Anything, loanID).Return(loan, nil)
	mockPaymentRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	mockLoanRepo.On("SumRepaidInstallments", mock.Anything, loanID).Return(int64(0), nil)
	mockLoanRepo.On("GetDueInstallments", mock.Anything, loanID).Return(installments, nil)
	mockLoanRepo.On("UpdateInstallment", mock.Anything, mock.Anything).Return(nil)
	mockLoanRepo.On("CountRepaidInstallments", mock.Anything, loanID).Return(0, nil)
	mockLoanRepo.On("Update", mock.Anything, loan).Return(nil)

	_, updated, err := service.RepayLoan(context.Background(), loanID, &domain.RepayLoanRequest{
		Amount:       400000,
		CurrencyCode: domain.CurrencyIDR,
		ReceivedAt:   time.Now(),
	})

	assert.NoError(t, err)

	assert.Equal(t, domain.InstallmentStatusPartial, installments[0].Status)
	assert.Equal(t, int64(600000), installments[0].OutstandingAmount)

	// The running amount drops by the installment's full original amount,
	// so nothing reaches the second installment.
	for _, installment := range installments[1:] {
		assert.Equal(t, domain.InstallmentStatusDue, installment.Status)
		assert.Equal(t, int64(1000000), installment.OutstandingAmount)
	}

	assert.Equal(t, domain.LoanStatusDue, updated.Status)
	assert.Equal(t, int64(2600000), updated.OutstandingAmount)
}

func TestRepayLoan_FinalInstallmentClosesLoan(t *testing.T) {
	mockLoanRepo := &mocks.MockLoanRepository{}
	mockPaymentRepo := &mocks.MockPaymentRepository{}
	service, tx := newLoanServiceForTest(mockLoanRepo, mockPaymentRepo)

	loanID := uuid.New()
	loan := &domain.Loan{
		ID:                loanID,
		Amount:            3000000,
		Terms:             3,
		OutstandingAmount: 1000000,
		CurrencyCode:      domain.CurrencyIDR,
		Status:            domain.LoanStatusDue,
	}

	last := dueInstallments(loanID, 1000000, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))

	tx.On("WithinLoanTx", mock.Anything, loanID).Return(nil)
	mockLoanRepo.On("GetByID", mock.Anything, loanID).Return(loan, nil)
	mockPaymentRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	mockLoanRepo.On("SumRepaidInstallments", mock.Anything, loanID).Return(int64(2000000), nil)
	mockLoanRepo.On("GetDueInstallments", mock.Anything, loanID).Return(last, nil)
	mockLoanRepo.On("UpdateInstallment", mock.Anything, mock.Anything).Return(nil)
	mockLoanRepo.On("CountRepaidInstallments", mock.Anything, loanID).Return(3, nil)
	mockLoanRepo.On("Update", mock.Anything, loan).Return(nil)

	_, updated, err := service.RepayLoan(context.Background(), loanID, &domain.RepayLoanRequest{
		Amount:       1000000,
		CurrencyCode: domain.CurrencyIDR,
		ReceivedAt:   time.Now(),
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.InstallmentStatusRepaid, last[0].Status)
	assert.Equal(t, domain.LoanStatusRepaid, updated.Status)
	assert.Equal(t, int64(0), updated.OutstandingAmount)
}

func TestRepayLoan_MidScheduleRepaymentKeepsLoanDue(t *testing.T) {
	mockLoanRepo := &mocks.MockLoanRepository{}
	mockPaymentRepo := &mocks.MockPaymentRepository{}
	service, tx := newLoanServiceForTest(mockLoanRepo, mockPaymentRepo)

	loanID := uuid.New()
	loan := &domain.Loan{
		ID:                loanID,
		Amount:            6000000,
		Terms:             6,
		OutstandingAmount: 4000000,
		CurrencyCode:      domain.CurrencyIDR,
		Status:            domain.LoanStatusDue,
	}

	// First two terms already repaid; only the last is due.
	last := dueInstallments(loanID, 1000000, time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC))

	tx.On("WithinLoanTx", mock.Anything, loanID).Return(nil)
	mockLoanRepo.On("GetByID", mock.Anything, loanID).Return(loan, nil)
	mockPaymentRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	mockLoanRepo.On("SumRepaidInstallments", mock.Anything, loanID).Return(int64(2000000), nil)
	mockLoanRepo.On("GetDueInstallments", mock.Anything, loanID).Return(last, nil)
	mockLoanRepo.On("UpdateInstallment", mock.Anything, mock.Anything).Return(nil)
	mockLoanRepo.On("CountRepaidInstallments", mock.Anything, loanID).Return(3, nil)
	mockLoanRepo.On("Update", mock.Anything, loan).Return(nil)

	_, updated, err := service.RepayLoan(context.Background(), loanID, &domain.RepayLoanRequest{
		Amount:       1000000,
		CurrencyCode: domain.CurrencyIDR,
		ReceivedAt:   time.Now(),
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.InstallmentStatusRepaid, last[0].Status)
	assert.Equal(t, domain.LoanStatusDue, updated.Status)
	assert.Equal(t, int64(3000000), updated.OutstandingAmount)
}

func TestRepayLoan_PaymentRecordedWithNothingDue(t *testing.T) {
	mockLoanRepo := &mocks.MockLoanRepository{}
	mockPaymentRepo := &mocks.MockPaymentRepository{}
	service, tx := newLoanServiceForTest(mockLoanRepo, mockPaymentRepo)

	loanID := uuid.New()
	loan := &domain.Loan{
		ID:                loanID,
		Amount:            3000000,
		Terms:             3,
		OutstandingAmount: 1000000,
		CurrencyCode:      domain.CurrencyIDR,
		Status:            domain.LoanStatusDue,
	}

	tx.On("WithinLoanTx", mock.Anything, loanID).Return(nil)
	mockLoanRepo.On("GetByID", mock.Anything, loanID).Return(loan, nil)
	mockPaymentRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	mockLoanRepo.On("SumRepaidInstallments", mock.Anything, loanID).Return(int64(2000000), nil)
	mockLoanRepo.On("GetDueInstallments", mock.Anything, loanID).Return([]*domain.ScheduledInstallment{}, nil)
	mockLoanRepo.On("CountRepaidInstallments", mock.Anything, loanID).Return(2, nil)
	mockLoanRepo.On("Update", mock.Anything, loan).Return(nil)

	payment, updated, err := service.RepayLoan(context.Background(), loanID, &domain.RepayLoanRequest{
		Amount:       500000,
		CurrencyCode: domain.CurrencyIDR,
		ReceivedAt:   time.Now(),
	})

	// The ledger entry is written even when allocation finds nothing due.
	assert.NoError(t, err)
	assert.NotNil(t, payment)
	assert.Equal(t, int64(500000), updated.OutstandingAmount)
	mockPaymentRepo.AssertNumberOfCalls(t, "Create", 1)
	mockLoanRepo.AssertNotCalled(t, "UpdateInstallment", mock.Anything, mock.Anything)
}

func TestRepayLoan_RejectsNonPositiveAmount(t *testing.T) {
	for _, amount := range []int64{0, -1000} {
		mockLoanRepo := &mocks.MockLoanRepository{}
		mockPaymentRepo := &mocks.MockPaymentRepository{}
		service, tx := newLoanServiceForTest(mockLoanRepo, mockPaymentRepo)

		payment, loan, err := service.RepayLoan(context.Background(), uuid.New(), &domain.RepayLoanRequest{
			Amount:       amount,
			CurrencyCode: domain.CurrencyIDR,
			ReceivedAt:   time.Now(),
		})

		assert.Nil(t, payment)
		assert.Nil(t, loan)

		var businessErr *customError.BusinessError
		assert.ErrorAs(t, err, &businessErr)
		assert.Equal(t, customError.ErrCodeInvalidPaymentAmount, businessErr.Code)

		// No writes of any kind happen on validation failure.
		tx.AssertNotCalled(t, "WithinLoanTx", mock.Anything, mock.Anything)
		mockPaymentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	}
}

func TestRepayLoan_RejectsAlreadyRepaidLoan(t *testing.T) {
	mockLoanRepo := &mocks.MockLoanRepository{}
	mockPaymentRepo := &mocks.MockPaymentRepository{}
	service, tx := newLoanServiceForTest(mockLoanRepo, mockPaymentRepo)

	loanID := uuid.New()
	loan := &domain.Loan{
		ID:                loanID,
		Amount:            3000000,
		Terms:             3,
		OutstandingAmount: 0,
		CurrencyCode:      domain.CurrencyIDR,
		Status:            domain.LoanStatusRepaid,
	}

	tx.On("WithinLoanTx", mock.Anything, loanID).Return(nil)
	mockLoanRepo.On("GetByID", mock.Anything, loanID).Return(loan, nil)

	payment, updated, err := service.RepayLoan(context.Background(), loanID, &domain.RepayLoanRequest{
		Amount:       1000000,
		CurrencyCode: domain.CurrencyIDR,
		ReceivedAt:   time.Now(),
	})

	assert.Nil(t, payment)
	assert.Nil(t, updated)

	var businessErr *customError.BusinessError
	assert.ErrorAs(t, err, &businessErr)
	assert.Equal(t, customError.ErrCodeLoanAlreadyRepaid, businessErr.Code)

	mockPaymentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockLoanRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestRepayLoan_LoanNotFound(t *testing.T) {
	mockLoanRepo := &mocks.MockLoanRepository{}
	mockPaymentRepo := &mocks.MockPaymentRepository{}
	service, tx := newLoanServiceForTest(mockLoanRepo, mockPaymentRepo)

	loanID := uuid.New()
	tx.On("WithinLoanTx", mock.Anything, loanID).Return(nil)
	mockLoanRepo.On("GetByID", mock.Anything, loanID).Return(nil, sql.ErrNoRows)

	_, _, err := service.RepayLoan(context.Background(), loanID, &domain.RepayLoanRequest{
		Amount:       1000000,
		CurrencyCode: domain.CurrencyIDR,
		ReceivedAt:   time.Now(),
	})

	var businessErr *customError.BusinessError
	assert.ErrorAs(t, err, &businessErr)
	assert.Equal(t, customError.ErrCodeLoanNotFound, businessErr.Code)
}

func TestGetLoan_EnforcesOwnership(t *testing.T) {
	mockLoanRepo := &mocks.MockLoanRepository{}
	mockPaymentRepo := &mocks.MockPaymentRepository{}
	service, _ := newLoanServiceForTest(mockLoanRepo, mockPaymentRepo)

	loanID := uuid.New()
	owner := uuid.New()
	stranger := uuid.New()

	loan := &domain.Loan{ID: loanID, UserID: owner, Amount: 3000000, Terms: 3, Status: domain.LoanStatusDue}
	mockLoanRepo.On("GetByID", mock.Anything, loanID).Return(loan, nil)
	mockLoanRepo.On("GetInstallmentsByLoanID", mock.Anything, loanID).Return([]*domain.ScheduledInstallment{}, nil)

	got, _, err := service.GetLoan(context.Background(), owner, loanID)
	assert.NoError(t, err)
	assert.Equal(t, loanID, got.ID)

	_, _, err = service.GetLoan(context.Background(), stranger, loanID)
	var businessErr *customError.BusinessError
	assert.ErrorAs(t, err, &businessErr)
	assert.Equal(t, customError.ErrCodeForbidden, businessErr.Code)
}
