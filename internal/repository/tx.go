package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type txManager struct {
	db *sqlx.DB
}

func NewTxManager(db *sqlx.DB) TxManager {
	return &txManager{db: db}
}

func (m *txManager) WithinTx(ctx context.Context, fn TxFunc) error {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(&loanRepository{db: tx}, &paymentRepository{db: tx}); err != nil {
		return err
	}

	return tx.Commit()
}

func (m *txManager) WithinLoanTx(ctx context.Context, loanID uuid.UUID, fn TxFunc) error {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Serialize concurrent repayments against the same loan for the
	// duration of the transaction.
	if _, err := tx.ExecContext(ctx, `SELECT id FROM loans WHERE id = $1 FOR UPDATE`, loanID); err != nil {
		return err
	}

	if err := fn(&loanRepository{db: tx}, &paymentRepository{db: tx}); err != nil {
		return err
	}

	return tx.Commit()
}
