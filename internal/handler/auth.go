package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/flexcredit/loan-engine/internal/domain"
	"github.com/flexcredit/loan-engine/pkg/response"
)

// AuthService issues access tokens for registered users.
type AuthService interface {
	Register(ctx context.Context, request *domain.RegisterRequest) (string, error)
	Login(ctx context.Context, request *domain.LoginRequest) (string, error)
}

type AuthHandler struct {
	service   AuthService
	validator *validator.Validate
}

func NewAuthHandler(service AuthService) *AuthHandler {
	return &AuthHandler{
		service:   service,
		validator: validator.New(),
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var request domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	token, err := h.service.Register(r.Context(), &request)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, domain.TokenResponse{Token: token})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var request domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	token, err := h.service.Login(r.Context(), &request)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, domain.TokenResponse{Token: token})
}
