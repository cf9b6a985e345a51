package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/flexcredit/loan-engine/internal/domain"
)

type loanRepository struct {
	db sqlx.ExtContext
}

func NewLoanRepository(db *sqlx.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	query := `
		INSERT INTO loans (id, user_id, amount, terms, outstanding_amount, currency_code, processed_at, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
	`

	_, err := r.db.ExecContext(ctx, query,
		loan.ID,
		loan.UserID,
		loan.Amount,
		loan.Terms,
		loan.OutstandingAmount,
		loan.CurrencyCode,
		loan.ProcessedAt,
		loan.Status,
	)

	return err
}

func (r *loanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	query := `
		SELECT id, user_id, amount, terms, outstanding_amount, currency_code, processed_at, status, created_at, updated_at, deleted_at
		FROM loans
		WHERE id = $1 AND deleted_at IS NULL
	`

	var loan domain.Loan
	if err := sqlx.GetContext(ctx, r.db, &loan, query, id); err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	query := `
		UPDATE loans
		SET outstanding_amount = $2, status = $3, updated_at = $4
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		loan.ID,
		loan.OutstandingAmount,
		loan.Status,
		time.Now(),
	)

	return err
}

func (r *loanRepository) CreateInstallments(ctx context.Context, installments []*domain.ScheduledInstallment) error {
	query := `
		INSERT INTO scheduled_installments (id, loan_id, amount, outstanding_amount, currency_code, due_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
	`

	for _, installment := range installments {
		_, err := r.db.ExecContext(ctx, query,
			installment.ID,
			installment.LoanID,
			installment.Amount,
			installment.OutstandingAmount,
			installment.CurrencyCode,
			installment.DueDate,
			installment.Status,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *loanRepository) GetInstallmentsByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.ScheduledInstallment, error) {
	query := `
		SELECT id, loan_id, amount, outstanding_amount, currency_code, due_date, status, created_at, updated_at
		FROM scheduled_installments
		WHERE loan_id = $1
		ORDER BY due_date
	`

	var installments []*domain.ScheduledInstallment
	if err := sqlx.SelectContext(ctx, r.db, &installments, query, loanID); err != nil {
		return nil, err
	}

	return installments, nil
}

func (r *loanRepository) GetDueInstallments(ctx context.Context, loanID uuid.UUID) ([]*domain.ScheduledInstallment, error) {
	query := `
		SELECT id, loan_id, amount, outstanding_amount, currency_code, due_date, status, created_at, updated_at
		FROM scheduled_installments
		WHERE loan_id = $1 AND status = 'due'
		ORDER BY due_date
	`

	var installments []*domain.ScheduledInstallment
	if err := sqlx.SelectContext(ctx, r.db, &installments, query, loanID); err != nil {
		return nil, err
	}

	return installments, nil
}

func (r *loanRepository) UpdateInstallment(ctx context.Context, installment *domain.ScheduledInstallment) error {
	query := `
		UPDATE scheduled_installments
		SET outstanding_amount = $2, status = $3, updated_at = $4
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		installment.ID,
		installment.OutstandingAmount,
		installment.Status,
		time.Now(),
	)

	return err
}

func (r *loanRepository) SumRepaidInstallments(ctx context.Context, loanID uuid.UUID) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM scheduled_installments
		WHERE loan_id = $1 AND status = 'repaid'
	`

	var sum int64
	if err := sqlx.GetContext(ctx, r.db, &sum, query, loanID); err != nil {
		return 0, err
	}

	return sum, nil
}

func (r *loanRepository) CountRepaidInstallments(ctx context.Context, loanID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM scheduled_installments
		WHERE loan_id = $1 AND status = 'repaid'
	`

	var count int
	if err := sqlx.GetContext(ctx, r.db, &count, query, loanID); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *loanRepository) GetOverdueInstallments(ctx context.Context, before time.Time) ([]*domain.ScheduledInstallment, error) {
	query := `
		SELECT id, loan_id, amount, outstanding_amount, currency_code, due_date, status, created_at, updated_at
		FROM scheduled_installments
		WHERE status IN ('due', 'partial') AND due_date < $1
		ORDER BY due_date
	`

	var installments []*domain.ScheduledInstallment
	if err := sqlx.SelectContext(ctx, r.db, &installments, query, before); err != nil {
		return nil, err
	}

	return installments, nil
}

func (r *loanRepository) GetInstallmentsDueBetween(ctx context.Context, from, to time.Time) ([]*domain.ScheduledInstallment, error) {
	query := `
		SELECT id, loan_id, amount, outstanding_amount, currency_code, due_date, status, created_at, updated_at
		FROM scheduled_installments
		WHERE status = 'due' AND due_date >= $1 AND due_date < $2
		ORDER BY due_date
	`

	var installments []*domain.ScheduledInstallment
	if err := sqlx.SelectContext(ctx, r.db, &installments, query, from, to); err != nil {
		return nil, err
	}

	return installments, nil
}
