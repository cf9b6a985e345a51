package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/flexcredit/loan-engine/internal/domain"
)

// LoanRepository defines the interface for loan and installment data operations
type LoanRepository interface {
	// Create creates a new loan
	Create(ctx context.Context, loan *domain.Loan) error

	// GetByID retrieves a loan by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error)

	// Update updates a loan's outstanding amount and status
	Update(ctx context.Context, loan *domain.Loan) error

	// CreateInstallments creates scheduled installment entries in bulk
	CreateInstallments(ctx context.Context, installments []*domain.ScheduledInstallment) error

	// GetInstallmentsByLoanID retrieves all installments of a loan ordered by due date
	GetInstallmentsByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.ScheduledInstallment, error)

	// GetDueInstallments retrieves installments with status due, earliest due date first
	GetDueInstallments(ctx context.Context, loanID uuid.UUID) ([]*domain.ScheduledInstallment, error)

	// UpdateInstallment updates an installment's outstanding amount and status
	UpdateInstallment(ctx context.Context, installment *domain.ScheduledInstallment) error

	// SumRepaidInstallments sums the amounts of a loan's repaid installments
	SumRepaidInstallments(ctx context.Context, loanID uuid.UUID) (int64, error)

	// CountRepaidInstallments counts a loan's repaid installments
	CountRepaidInstallments(ctx context.Context, loanID uuid.UUID) (int, error)

	// GetOverdueInstallments retrieves unpaid installments past the given date, across all loans
	GetOverdueInstallments(ctx context.Context, before time.Time) ([]*domain.ScheduledInstallment, error)

	// GetInstallmentsDueBetween retrieves due installments inside a date window, across all loans
	GetInstallmentsDueBetween(ctx context.Context, from, to time.Time) ([]*domain.ScheduledInstallment, error)
}

// PaymentRepository defines the interface for received payment data operations
type PaymentRepository interface {
	// Create appends a new received payment ledger entry
	Create(ctx context.Context, payment *domain.ReceivedPayment) error

	// GetByLoanID retrieves all payments received for a loan
	GetByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.ReceivedPayment, error)
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// DebitCardRepository defines the interface for debit card data operations
type DebitCardRepository interface {
	Create(ctx context.Context, card *domain.DebitCard) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DebitCard, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.DebitCard, error)
	Update(ctx context.Context, card *domain.DebitCard) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	CreateTransaction(ctx context.Context, transaction *domain.DebitCardTransaction) error
	GetTransactionsByCardID(ctx context.Context, cardID uuid.UUID) ([]*domain.DebitCardTransaction, error)
}

// TxFunc runs with repositories bound to a single database transaction.
type TxFunc func(loans LoanRepository, payments PaymentRepository) error

// TxManager scopes repository work to one atomic transaction. WithinLoanTx
// additionally takes a row lock on the loan so concurrent repayments against
// the same loan serialize; different loans proceed in parallel.
type TxManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
	WithinLoanTx(ctx context.Context, loanID uuid.UUID, fn TxFunc) error
}
