package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	InstallmentStatusDue     = "due"
	InstallmentStatusPartial = "partial"
	InstallmentStatusRepaid  = "repaid"
)

// ScheduledInstallment is one term's obligation: a fixed amount due on a fixed date.
type ScheduledInstallment struct {
	ID                uuid.UUID `json:"id" db:"id"`
	LoanID            uuid.UUID `json:"loan_id" db:"loan_id"`
	Amount            int64     `json:"amount" db:"amount"`
	OutstandingAmount int64     `json:"outstanding_amount" db:"outstanding_amount"`
	CurrencyCode      string    `json:"currency_code" db:"currency_code"`
	DueDate           time.Time `json:"due_date" db:"due_date"`
	Status            string    `json:"status" db:"status"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}
