package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/flexcredit/loan-engine/internal/domain"
)

type debitCardRepository struct {
	db sqlx.ExtContext
}

func NewDebitCardRepository(db *sqlx.DB) DebitCardRepository {
	return &debitCardRepository{db: db}
}

func (r *debitCardRepository) Create(ctx context.Context, card *domain.DebitCard) error {
	query := `
		INSERT INTO debit_cards (id, user_id, number, type, expiration_date, disabled_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
	`

	_, err := r.db.ExecContext(ctx, query,
		card.ID,
		card.UserID,
		card.Number,
		card.Type,
		card.ExpirationDate,
		card.DisabledAt,
	)

	return err
}

func (r *debitCardRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.DebitCard, error) {
	query := `
		SELECT id, user_id, number, type, expiration_date, disabled_at, deleted_at, created_at, updated_at
		FROM debit_cards
		WHERE id = $1 AND deleted_at IS NULL
	`

	var card domain.DebitCard
	if err := sqlx.GetContext(ctx, r.db, &card, query, id); err != nil {
		return nil, err
	}

	return &card, nil
}

func (r *debitCardRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.DebitCard, error) {
	query := `
		SELECT id, user_id, number, type, expiration_date, disabled_at, deleted_at, created_at, updated_at
		FROM debit_cards
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY created_at
	`

	var cards []*domain.DebitCard
	if err := sqlx.SelectContext(ctx, r.db, &cards, query, userID); err != nil {
		return nil, err
	}

	return cards, nil
}

func (r *debitCardRepository) Update(ctx context.Context, card *domain.DebitCard) error {
	query := `
		UPDATE debit_cards
		SET disabled_at = $2, updated_at = $3
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, card.ID, card.DisabledAt, time.Now())
	return err
}

func (r *debitCardRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE debit_cards
		SET deleted_at = $2, updated_at = $2
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, time.Now())
	return err
}

func (r *debitCardRepository) CreateTransaction(ctx context.Context, transaction *domain.DebitCardTransaction) error {
	query := `
		INSERT INTO debit_card_transactions (id, debit_card_id, amount, currency_code, created_at)
		VALUES ($1, $2, $3, $4, now())
	`

	_, err := r.db.ExecContext(ctx, query,
		transaction.ID,
		transaction.DebitCardID,
		transaction.Amount,
		transaction.CurrencyCode,
	)

	return err
}

func (r *debitCardRepository) GetTransactionsByCardID(ctx context.Context, cardID uuid.UUID) ([]*domain.DebitCardTransaction, error) {
	query := `
		SELECT id, debit_card_id, amount, currency_code, created_at
		FROM debit_card_transactions
		WHERE debit_card_id = $1
		ORDER BY created_at
	`

	var transactions []*domain.DebitCardTransaction
	if err := sqlx.SelectContext(ctx, r.db, &transactions, query, cardID); err != nil {
		return nil, err
	}

	return transactions, nil
}
