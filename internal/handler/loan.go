package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/flexcredit/loan-engine/internal/domain"
	"github.com/flexcredit/loan-engine/pkg/response"
)

// LoanService is the loan lifecycle surface consumed by the handler.
type LoanService interface {
	CreateLoan(ctx context.Context, userID uuid.UUID, request *domain.CreateLoanRequest) (*domain.Loan, []*domain.ScheduledInstallment, error)
	RepayLoan(ctx context.Context, loanID uuid.UUID, request *domain.RepayLoanRequest) (*domain.ReceivedPayment, *domain.Loan, error)
	GetLoan(ctx context.Context, userID, loanID uuid.UUID) (*domain.Loan, []*domain.ScheduledInstallment, error)
	ListPayments(ctx context.Context, userID, loanID uuid.UUID) ([]*domain.ReceivedPayment, error)
}

type LoanHandler struct {
	service   LoanService
	validator *validator.Validate
}

func NewLoanHandler(service LoanService) *LoanHandler {
	return &LoanHandler{
		service:   service,
		validator: validator.New(),
	}
}

func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authorization required")
		return
	}

	var request domain.CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	loan, installments, err := h.service.CreateLoan(r.Context(), userID, &request)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, domain.CreateLoanResponse{
		Loan:         loan,
		Installments: installments,
	})
}

func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authorization required")
		return
	}

	loanID, err := uuid.Parse(mux.Vars(r)["loanId"])
	if err != nil {
		response.BadRequest(w, "Invalid loan id", err)
		return
	}

	loan, installments, err := h.service.GetLoan(r.Context(), userID, loanID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, domain.LoanResponse{
		Loan:         loan,
		Installments: installments,
	})
}

func (h *LoanHandler) ListRepayments(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authorization required")
		return
	}

	loanID, err := uuid.Parse(mux.Vars(r)["loanId"])
	if err != nil {
		response.BadRequest(w, "Invalid loan id", err)
		return
	}

	payments, err := h.service.ListPayments(r.Context(), userID, loanID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, payments)
}

func (h *LoanHandler) RepayLoan(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authorization required")
		return
	}

	loanID, err := uuid.Parse(mux.Vars(r)["loanId"])
	if err != nil {
		response.BadRequest(w, "Invalid loan id", err)
		return
	}

	// Ownership check before accepting money against the loan.
	if _, _, err := h.service.GetLoan(r.Context(), userID, loanID); err != nil {
		writeError(w, err)
		return
	}

	var request domain.RepayLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	payment, loan, err := h.service.RepayLoan(r.Context(), loanID, &request)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, domain.RepayLoanResponse{
		Payment: payment,
		Loan:    loan,
	})
}
