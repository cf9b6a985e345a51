package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/flexcredit/loan-engine/internal/domain"
	"github.com/flexcredit/loan-engine/internal/repository"
)

type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) CreateInstallments(ctx context.Context, installments []*domain.ScheduledInstallment) error {
	args := m.Called(ctx, installments)
	return args.Error(0)
}

func (m *MockLoanRepository) GetInstallmentsByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.ScheduledInstallment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ScheduledInstallment), args.Error(1)
}

func (m *MockLoanRepository) GetDueInstallments(ctx context.Context, loanID uuid.UUID) ([]*domain.ScheduledInstallment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ScheduledInstallment), args.Error(1)
}

func (m *MockLoanRepository) UpdateInstallment(ctx context.Context, installment *domain.ScheduledInstallment) error {
	args := m.Called(ctx, installment)
	return args.Error(0)
}

func (m *MockLoanRepository) SumRepaidInstallments(ctx context.Context, loanID uuid.UUID) (int64, error) {
	args := m.Called(ctx, loanID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLoanRepository) CountRepaidInstallments(ctx context.Context, loanID uuid.UUID) (int, error) {
	args := m.Called(ctx, loanID)
	return args.Int(0), args.Error(1)
}

func (m *MockLoanRepository) GetOverdueInstallments(ctx context.Context, before time.Time) ([]*domain.ScheduledInstallment, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ScheduledInstallment), args.Error(1)
}

func (m *MockLoanRepository) GetInstallmentsDueBetween(ctx context.Context, from, to time.Time) ([]*domain.ScheduledInstallment, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ScheduledInstallment), args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.ReceivedPayment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.ReceivedPayment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ReceivedPayment), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockDebitCardRepository struct {
	mock.Mock
}

func (m *MockDebitCardRepository) Create(ctx context.Context, card *domain.DebitCard) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockDebitCardRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.DebitCard, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DebitCard), args.Error(1)
}

func (m *MockDebitCardRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.DebitCard, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DebitCard), args.Error(1)
}

func (m *MockDebitCardRepository) Update(ctx context.Context, card *domain.DebitCard) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockDebitCardRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDebitCardRepository) CreateTransaction(ctx context.Context, transaction *domain.DebitCardTransaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

func (m *MockDebitCardRepository) GetTransactionsByCardID(ctx context.Context, cardID uuid.UUID) ([]*domain.DebitCardTransaction, error) {
	args := m.Called(ctx, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DebitCardTransaction), args.Error(1)
}

// MockTxManager runs transaction callbacks against the repositories it is
// configured with, without a real database transaction.
type MockTxManager struct {
	mock.Mock
	Loans    repository.LoanRepository
	Payments repository.PaymentRepository
}

func (m *MockTxManager) WithinTx(ctx context.Context, fn repository.TxFunc) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m.Loans, m.Payments)
}

func (m *MockTxManager) WithinLoanTx(ctx context.Context, loanID uuid.UUID, fn repository.TxFunc) error {
	args := m.Called(ctx, loanID)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m.Loans, m.Payments)
}
