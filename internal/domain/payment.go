package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReceivedPayment is an append-only ledger entry for one incoming payment
// against a loan. It is never mutated after creation.
type ReceivedPayment struct {
	ID           uuid.UUID `json:"id" db:"id"`
	LoanID       uuid.UUID `json:"loan_id" db:"loan_id"`
	Amount       int64     `json:"amount" db:"amount"`
	CurrencyCode string    `json:"currency_code" db:"currency_code"`
	ReceivedAt   time.Time `json:"received_at" db:"received_at"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
