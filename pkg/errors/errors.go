package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrLoanNotFound           = errors.New("loan not found")
	ErrLoanAlreadyRepaid      = errors.New("loan is already repaid")
	ErrInvalidLoanAmount      = errors.New("invalid loan amount")
	ErrInvalidLoanTerms       = errors.New("invalid loan terms")
	ErrInvalidPaymentAmount   = errors.New("invalid payment amount")
	ErrUnsupportedCurrency    = errors.New("unsupported currency code")
	ErrCardNotFound           = errors.New("debit card not found")
	ErrCardInactive           = errors.New("debit card is not active")
	ErrForbidden              = errors.New("resource belongs to another user")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeLoanNotFound           = "LOAN_NOT_FOUND"
	ErrCodeLoanAlreadyRepaid      = "LOAN_ALREADY_REPAID"
	ErrCodeInvalidLoanAmount      = "INVALID_LOAN_AMOUNT"
	ErrCodeInvalidLoanTerms       = "INVALID_LOAN_TERMS"
	ErrCodeInvalidPaymentAmount   = "INVALID_PAYMENT_AMOUNT"
	ErrCodeUnsupportedCurrency    = "UNSUPPORTED_CURRENCY"
	ErrCodeCardNotFound           = "CARD_NOT_FOUND"
	ErrCodeCardInactive           = "CARD_INACTIVE"
	ErrCodeForbidden              = "FORBIDDEN"
	ErrCodeEmailAlreadyRegistered = "EMAIL_ALREADY_REGISTERED"
	ErrCodeInvalidCredentials     = "INVALID_CREDENTIALS"
	ErrCodeDatabaseError          = "DATABASE_ERROR"
	ErrCodeCacheError             = "CACHE_ERROR"
)

// Wrap common errors with business context
func WrapLoanNotFound(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotFound,
		fmt.Sprintf("Loan with ID %s not found", loanID),
		ErrLoanNotFound,
	)
}

func WrapLoanAlreadyRepaid(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanAlreadyRepaid,
		fmt.Sprintf("Loan with ID %s is already fully repaid", loanID),
		ErrLoanAlreadyRepaid,
	)
}

func WrapInvalidLoanAmount(amount int64) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidLoanAmount,
		fmt.Sprintf("Loan amount must be positive, got %d", amount),
		ErrInvalidLoanAmount,
	)
}

func WrapInvalidLoanTerms(terms int) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidLoanTerms,
		fmt.Sprintf("Loan terms must be positive, got %d", terms),
		ErrInvalidLoanTerms,
	)
}

func WrapInvalidPaymentAmount(amount int64) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidPaymentAmount,
		fmt.Sprintf("Payment amount must be positive, got %d", amount),
		ErrInvalidPaymentAmount,
	)
}

func WrapUnsupportedCurrency(code string) *BusinessError {
	return NewBusinessError(
		ErrCodeUnsupportedCurrency,
		fmt.Sprintf("Currency code %s is not supported", code),
		ErrUnsupportedCurrency,
	)
}

func WrapCardNotFound(cardID string) *BusinessError {
	return NewBusinessError(
		ErrCodeCardNotFound,
		fmt.Sprintf("Debit card with ID %s not found", cardID),
		ErrCardNotFound,
	)
}

func WrapCardInactive(cardID string) *BusinessError {
	return NewBusinessError(
		ErrCodeCardInactive,
		fmt.Sprintf("Debit card with ID %s is not active", cardID),
		ErrCardInactive,
	)
}

func WrapForbidden(resource string) *BusinessError {
	return NewBusinessError(
		ErrCodeForbidden,
		fmt.Sprintf("%s belongs to another user", resource),
		ErrForbidden,
	)
}

func WrapEmailAlreadyRegistered(email string) *BusinessError {
	return NewBusinessError(
		ErrCodeEmailAlreadyRegistered,
		fmt.Sprintf("Email %s is already registered", email),
		ErrEmailAlreadyRegistered,
	)
}

func WrapInvalidCredentials() *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidCredentials,
		"Email or password is incorrect",
		ErrInvalidCredentials,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		err,
	)
}
