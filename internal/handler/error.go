package handler

import (
	"errors"
	"net/http"

	customError "github.com/flexcredit/loan-engine/pkg/errors"
	"github.com/flexcredit/loan-engine/pkg/response"
)

var statusByCode = map[string]int{
	customError.ErrCodeLoanNotFound:           http.StatusNotFound,
	customError.ErrCodeCardNotFound:           http.StatusNotFound,
	customError.ErrCodeLoanAlreadyRepaid:      http.StatusUnprocessableEntity,
	customError.ErrCodeCardInactive:           http.StatusUnprocessableEntity,
	customError.ErrCodeInvalidLoanAmount:      http.StatusBadRequest,
	customError.ErrCodeInvalidLoanTerms:       http.StatusBadRequest,
	customError.ErrCodeInvalidPaymentAmount:   http.StatusBadRequest,
	customError.ErrCodeUnsupportedCurrency:    http.StatusBadRequest,
	customError.ErrCodeForbidden:              http.StatusForbidden,
	customError.ErrCodeEmailAlreadyRegistered: http.StatusConflict,
	customError.ErrCodeInvalidCredentials:     http.StatusUnauthorized,
}

// writeError maps business errors to HTTP statuses; anything else is a 500.
func writeError(w http.ResponseWriter, err error) {
	var businessErr *customError.BusinessError
	if errors.As(err, &businessErr) {
		if status, ok := statusByCode[businessErr.Code]; ok {
			response.ErrorWithCode(w, status, businessErr.Code, businessErr.Message)
			return
		}
	}

	response.InternalServerError(w, "Internal server error", err)
}
