package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/flexcredit/loan-engine/internal/config"
	"github.com/flexcredit/loan-engine/internal/domain"
	"github.com/flexcredit/loan-engine/internal/repository"
	customError "github.com/flexcredit/loan-engine/pkg/errors"
	"github.com/flexcredit/loan-engine/pkg/utils"
)

type LoanService struct {
	loanRepo    repository.LoanRepository
	paymentRepo repository.PaymentRepository
	tx          repository.TxManager
	redis       *redis.Client
	config      *config.Config
}

func NewLoanService(
	loanRepo repository.LoanRepository,
	paymentRepo repository.PaymentRepository,
	tx repository.TxManager,
	redis *redis.Client,
	config *config.Config,
) *LoanService {
	return &LoanService{
		loanRepo:    loanRepo,
		paymentRepo: paymentRepo,
		tx:          tx,
		redis:       redis,
		config:      config,
	}
}

// CreateLoan originates a loan and its full repayment schedule: one equal
// installment per term, due dates one calendar month apart starting one month
// after the processing date. Loan and installments are written in one
// transaction.
func (s *LoanService) CreateLoan(ctx context.Context, userID uuid.UUID, request *domain.CreateLoanRequest) (*domain.Loan, []*domain.ScheduledInstallment, error) {
	if request.Amount <= 0 {
		return nil, nil, customError.WrapInvalidLoanAmount(request.Amount)
	}
	if request.Terms <= 0 {
		return nil, nil, customError.WrapInvalidLoanTerms(request.Terms)
	}
	if !domain.IsSupportedCurrency(request.CurrencyCode) {
		return nil, nil, customError.WrapUnsupportedCurrency(request.CurrencyCode)
	}

	loan := &domain.Loan{
		ID:                uuid.New(),
		UserID:            userID,
		Amount:            request.Amount,
		Terms:             request.Terms,
		OutstandingAmount: request.Amount,
		CurrencyCode:      request.CurrencyCode,
		ProcessedAt:       request.ProcessedAt,
		Status:            domain.LoanStatusDue,
	}

	// Truncating division; a remainder from a non-divisible split is not
	// redistributed to the final installment.
	installmentAmount := utils.InstallmentAmount(request.Amount, request.Terms)

	installments := make([]*domain.ScheduledInstallment, 0, request.Terms)
	for term := 1; term <= request.Terms; term++ {
		installments = append(installments, &domain.ScheduledInstallment{
			ID:                uuid.New(),
			LoanID:            loan.ID,
			Amount:            installmentAmount,
			OutstandingAmount: installmentAmount,
			CurrencyCode:      request.CurrencyCode,
			DueDate:           utils.InstallmentDueDate(request.ProcessedAt, term),
			Status:            domain.InstallmentStatusDue,
		})
	}

	err := s.tx.WithinTx(ctx, func(loans repository.LoanRepository, _ repository.PaymentRepository) error {
		if err := loans.Create(ctx, loan); err != nil {
			return err
		}
		return loans.CreateInstallments(ctx, installments)
	})
	if err != nil {
		return nil, nil, customError.WrapDatabaseError(err)
	}

	return loan, installments, nil
}

// RepayLoan records a received payment and allocates it across the loan's due
// installments, earliest due date first. The whole operation runs inside one
// transaction holding a row lock on the loan.
func (s *LoanService) RepayLoan(ctx context.Context, loanID uuid.UUID, request *domain.RepayLoanRequest) (*domain.ReceivedPayment, *domain.Loan, error) {
	if request.Amount <= 0 {
		return nil, nil, customError.WrapInvalidPaymentAmount(request.Amount)
	}
	if !domain.IsSupportedCurrency(request.CurrencyCode) {
		return nil, nil, customError.WrapUnsupportedCurrency(request.CurrencyCode)
	}

	var (
		payment *domain.ReceivedPayment
		loan    *domain.Loan
	)

	err := s.tx.WithinLoanTx(ctx, loanID, func(loans repository.LoanRepository, payments repository.PaymentRepository) error {
		var err error
		loan, err = loans.GetByID(ctx, loanID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return customError.WrapLoanNotFound(loanID.String())
			}
			return err
		}

		// Repaid is terminal; reject further payments before any write.
		if loan.Status == domain.LoanStatusRepaid {
			return customError.WrapLoanAlreadyRepaid(loanID.String())
		}

		payment = &domain.ReceivedPayment{
			ID:           uuid.New(),
			LoanID:       loan.ID,
			Amount:       request.Amount,
			CurrencyCode: request.CurrencyCode,
			ReceivedAt:   request.ReceivedAt,
		}
		if err := payments.Create(ctx, payment); err != nil {
			return err
		}

		repaidSum, err := loans.SumRepaidInstallments(ctx, loan.ID)
		if err != nil {
			return err
		}
		outstanding := loan.Amount - repaidSum - request.Amount

		installments, err := loans.GetDueInstallments(ctx, loan.ID)
		if err != nil {
			return err
		}

		remaining := request.Amount
		for _, installment := range installments {
			if remaining > 0 {
				if installment.Amount > remaining {
					installment.Status = domain.InstallmentStatusPartial
					installment.OutstandingAmount = installment.Amount - remaining
				} else {
					installment.Status = domain.InstallmentStatusRepaid
					installment.OutstandingAmount = 0
				}
				// The running amount drops by the installment's full
				// original amount, not by what was consumed.
				remaining -= installment.Amount
			} else {
				installment.OutstandingAmount = installment.Amount
			}

			if err := loans.UpdateInstallment(ctx, installment); err != nil {
				return err
			}
		}

		repaidCount, err := loans.CountRepaidInstallments(ctx, loan.ID)
		if err != nil {
			return err
		}

		loan.Status = domain.LoanStatusDue
		loan.OutstandingAmount = outstanding
		if repaidCount == loan.Terms {
			loan.Status = domain.LoanStatusRepaid
			loan.OutstandingAmount = 0
		}

		return loans.Update(ctx, loan)
	})
	if err != nil {
		var businessErr *customError.BusinessError
		if errors.As(err, &businessErr) {
			return nil, nil, businessErr
		}
		return nil, nil, customError.WrapDatabaseError(err)
	}

	s.invalidateLoanCache(ctx, loanID)

	return payment, loan, nil
}

// GetLoan returns a loan with its installments. The caller must own the loan.
// Reads go through the Redis cache; repayments invalidate it.
func (s *LoanService) GetLoan(ctx context.Context, userID, loanID uuid.UUID) (*domain.Loan, []*domain.ScheduledInstallment, error) {
	if cached := s.getCachedLoan(ctx, loanID); cached != nil {
		if cached.Loan.UserID != userID {
			return nil, nil, customError.WrapForbidden("Loan")
		}
		return cached.Loan, cached.Installments, nil
	}

	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, customError.WrapLoanNotFound(loanID.String())
		}
		return nil, nil, customError.WrapDatabaseError(err)
	}
	if loan.UserID != userID {
		return nil, nil, customError.WrapForbidden("Loan")
	}

	installments, err := s.loanRepo.GetInstallmentsByLoanID(ctx, loanID)
	if err != nil {
		return nil, nil, customError.WrapDatabaseError(err)
	}

	s.setCachedLoan(ctx, &domain.LoanResponse{Loan: loan, Installments: installments})

	return loan, installments, nil
}

// ListPayments returns the loan's received payment ledger, oldest first.
// The caller must own the loan.
func (s *LoanService) ListPayments(ctx context.Context, userID, loanID uuid.UUID) ([]*domain.ReceivedPayment, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapLoanNotFound(loanID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}
	if loan.UserID != userID {
		return nil, customError.WrapForbidden("Loan")
	}

	payments, err := s.paymentRepo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return payments, nil
}

func loanCacheKey(loanID uuid.UUID) string {
	return fmt.Sprintf("loan:%s", loanID)
}

func (s *LoanService) getCachedLoan(ctx context.Context, loanID uuid.UUID) *domain.LoanResponse {
	if s.redis == nil {
		return nil
	}

	raw, err := s.redis.Get(ctx, loanCacheKey(loanID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("loan cache read failed: %v", err)
		}
		return nil
	}

	var cached domain.LoanResponse
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		return nil
	}

	return &cached
}

func (s *LoanService) setCachedLoan(ctx context.Context, value *domain.LoanResponse) {
	if s.redis == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return
	}

	if err := s.redis.Set(ctx, loanCacheKey(value.Loan.ID), raw, s.config.GetLoanCacheTTL()).Err(); err != nil {
		log.Printf("loan cache write failed: %v", err)
	}
}

func (s *LoanService) invalidateLoanCache(ctx context.Context, loanID uuid.UUID) {
	if s.redis == nil {
		return
	}

	if err := s.redis.Del(ctx, loanCacheKey(loanID)).Err(); err != nil {
		log.Printf("loan cache invalidation failed: %v", err)
	}
}
