package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/flexcredit/loan-engine/internal/domain"
)

type MockLoanService struct {
	mock.Mock
}

func (m *MockLoanService) CreateLoan(ctx context.Context, userID uuid.UUID, request *domain.CreateLoanRequest) (*domain.Loan, []*domain.ScheduledInstallment, error) {
	args := m.Called(ctx, userID, request)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Loan), args.Get(1).([]*domain.ScheduledInstallment), args.Error(2)
}

func (m *MockLoanService) RepayLoan(ctx context.Context, loanID uuid.UUID, request *domain.RepayLoanRequest) (*domain.ReceivedPayment, *domain.Loan, error) {
	args := m.Called(ctx, loanID, request)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.ReceivedPayment), args.Get(1).(*domain.Loan), args.Error(2)
}

func (m *MockLoanService) ListPayments(ctx context.Context, userID, loanID uuid.UUID) ([]*domain.ReceivedPayment, error) {
	args := m.Called(ctx, userID, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ReceivedPayment), args.Error(1)
}

func (m *MockLoanService) GetLoan(ctx context.Context, userID, loanID uuid.UUID) (*domain.Loan, []*domain.ScheduledInstallment, error) {
	args := m.Called(ctx, userID, loanID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Loan), args.Get(1).([]*domain.ScheduledInstallment), args.Error(2)
}
