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

// DebitCardService is the card and card transaction surface consumed by the handler.
type DebitCardService interface {
	CreateCard(ctx context.Context, userID uuid.UUID, request *domain.CreateDebitCardRequest) (*domain.DebitCard, error)
	ListCards(ctx context.Context, userID uuid.UUID) ([]*domain.DebitCard, error)
	GetCard(ctx context.Context, userID, cardID uuid.UUID) (*domain.DebitCard, error)
	UpdateCard(ctx context.Context, userID, cardID uuid.UUID, request *domain.UpdateDebitCardRequest) (*domain.DebitCard, error)
	DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error
	ListTransactions(ctx context.Context, userID, cardID uuid.UUID) ([]*domain.DebitCardTransaction, error)
	CreateTransaction(ctx context.Context, userID uuid.UUID, request *domain.CreateDebitCardTransactionRequest) (*domain.DebitCardTransaction, error)
}

type DebitCardHandler struct {
	service   DebitCardService
	validator *validator.Validate
}

func NewDebitCardHandler(service DebitCardService) *DebitCardHandler {
	return &DebitCardHandler{
		service:   service,
		validator: validator.New(),
	}
}

func (h *DebitCardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authorization required")
		return
	}

	var request domain.CreateDebitCardRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	card, err := h.service.CreateCard(r.Context(), userID, &request)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, card)
}

func (h *DebitCardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authorization required")
		return
	}

	cards, err := h.service.ListCards(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, cards)
}

func (h *DebitCardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authorization required")
		return
	}

	cardID, err := uuid.Parse(mux.Vars(r)["cardId"])
	if err != nil {
		response.BadRequest(w, "Invalid card id", err)
		return
	}

	card, err := h.service.GetCard(r.Context(), userID, cardID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, card)
}

func (h *DebitCardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authorization required")
		return
	}

	cardID, err := uuid.Parse(mux.Vars(r)["cardId"])
	if err != nil {
		response.BadRequest(w, "Invalid card id", err)
		return
	}

	var request domain.UpdateDebitCardRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	card, err := h.service.UpdateCard(r.Context(), userID, cardID, &request)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, card)
}

func (h *DebitCardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authorization required")
		return
	}

	cardID, err := uuid.Parse(mux.Vars(r)["cardId"])
	if err != nil {
		response.BadRequest(w, "Invalid card id", err)
		return
	}

	if err := h.service.DeleteCard(r.Context(), userID, cardID); err != nil {
		writeError(w, err)
		return
	}

	response.NoContent(w)
}

func (h *DebitCardHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authorization required")
		return
	}

	cardID, err := uuid.Parse(r.URL.Query().Get("debit_card_id"))
	if err != nil {
		response.BadRequest(w, "Invalid debit_card_id", err)
		return
	}

	transactions, err := h.service.ListTransactions(r.Context(), userID, cardID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, transactions)
}

func (h *DebitCardHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authorization required")
		return
	}

	var request domain.CreateDebitCardTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	transaction, err := h.service.CreateTransaction(r.Context(), userID, &request)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, transaction)
}
