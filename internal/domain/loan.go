package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	LoanStatusDue    = "due"
	LoanStatusRepaid = "repaid"
)

// Loan represents an originated loan repaid over a fixed number of monthly terms.
// Amounts are in minor currency units.
type Loan struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	UserID            uuid.UUID  `json:"user_id" db:"user_id"`
	Amount            int64      `json:"amount" db:"amount"`
	Terms             int        `json:"terms" db:"terms"`
	OutstandingAmount int64      `json:"outstanding_amount" db:"outstanding_amount"`
	CurrencyCode      string     `json:"currency_code" db:"currency_code"`
	ProcessedAt       time.Time  `json:"processed_at" db:"processed_at"`
	Status            string     `json:"status" db:"status"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt         *time.Time `json:"-" db:"deleted_at"`
}

// DTOs for requests and responses

type CreateLoanRequest struct {
	Amount       int64     `json:"amount" validate:"required,gt=0"`
	CurrencyCode string    `json:"currency_code" validate:"required"`
	Terms        int       `json:"terms" validate:"required,gt=0"`
	ProcessedAt  time.Time `json:"processed_at" validate:"required"`
}

type CreateLoanResponse struct {
	Loan         *Loan                   `json:"loan"`
	Installments []*ScheduledInstallment `json:"installments"`
}

type RepayLoanRequest struct {
	Amount       int64     `json:"amount" validate:"required,gt=0"`
	CurrencyCode string    `json:"currency_code" validate:"required"`
	ReceivedAt   time.Time `json:"received_at" validate:"required"`
}

type RepayLoanResponse struct {
	Payment *ReceivedPayment `json:"payment"`
	Loan    *Loan            `json:"loan"`
}

type LoanResponse struct {
	Loan         *Loan                   `json:"loan"`
	Installments []*ScheduledInstallment `json:"installments"`
}
