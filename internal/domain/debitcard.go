package domain

import (
	"time"

	"github.com/google/uuid"
)

// DebitCard belongs to exactly one user. A card is active while DisabledAt is
// nil; deactivation and deletion are both soft operations.
type DebitCard struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	UserID         uuid.UUID  `json:"user_id" db:"user_id"`
	Number         string     `json:"number" db:"number"`
	Type           string     `json:"type" db:"type"`
	ExpirationDate time.Time  `json:"expiration_date" db:"expiration_date"`
	DisabledAt     *time.Time `json:"disabled_at" db:"disabled_at"`
	DeletedAt      *time.Time `json:"-" db:"deleted_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// IsActive reports whether the card can be transacted against.
func (c *DebitCard) IsActive() bool {
	return c.DisabledAt == nil
}

// DebitCardTransaction records a single spend against a debit card.
// Amounts are in minor currency units.
type DebitCardTransaction struct {
	ID           uuid.UUID `json:"id" db:"id"`
	DebitCardID  uuid.UUID `json:"debit_card_id" db:"debit_card_id"`
	Amount       int64     `json:"amount" db:"amount"`
	CurrencyCode string    `json:"currency_code" db:"currency_code"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type CreateDebitCardRequest struct {
	Type string `json:"type" validate:"required"`
}

type UpdateDebitCardRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type CreateDebitCardTransactionRequest struct {
	DebitCardID  uuid.UUID `json:"debit_card_id" validate:"required"`
	Amount       int64     `json:"amount" validate:"required,gt=0"`
	CurrencyCode string    `json:"currency_code" validate:"required"`
}
