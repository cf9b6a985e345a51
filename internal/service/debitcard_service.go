package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/flexcredit/loan-engine/internal/domain"
	"github.com/flexcredit/loan-engine/internal/repository"
	customError "github.com/flexcredit/loan-engine/pkg/errors"
	"github.com/flexcredit/loan-engine/pkg/utils"
)

// New debit cards expire four years after issuance.
const cardValidityYears = 4

type DebitCardService struct {
	cardRepo repository.DebitCardRepository
}

func NewDebitCardService(cardRepo repository.DebitCardRepository) *DebitCardService {
	return &DebitCardService{cardRepo: cardRepo}
}

// CreateCard issues a new active debit card for the user.
func (s *DebitCardService) CreateCard(ctx context.Context, userID uuid.UUID, request *domain.CreateDebitCardRequest) (*domain.DebitCard, error) {
	card := &domain.DebitCard{
		ID:             uuid.New(),
		UserID:         userID,
		Number:         utils.GenerateCardNumber(),
		Type:           request.Type,
		ExpirationDate: time.Now().AddDate(cardValidityYears, 0, 0),
	}

	if err := s.cardRepo.Create(ctx, card); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return card, nil
}

// ListCards returns the user's cards, newest issuance last.
func (s *DebitCardService) ListCards(ctx context.Context, userID uuid.UUID) ([]*domain.DebitCard, error) {
	cards, err := s.cardRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return cards, nil
}

// GetCard returns a single card owned by the user.
func (s *DebitCardService) GetCard(ctx context.Context, userID, cardID uuid.UUID) (*domain.DebitCard, error) {
	return s.ownedCard(ctx, userID, cardID)
}

// UpdateCard activates or deactivates a card owned by the user.
func (s *DebitCardService) UpdateCard(ctx context.Context, userID, cardID uuid.UUID, request *domain.UpdateDebitCardRequest) (*domain.DebitCard, error) {
	card, err := s.ownedCard(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}

	if *request.IsActive {
		card.DisabledAt = nil
	} else if card.DisabledAt == nil {
		now := time.Now()
		card.DisabledAt = &now
	}

	if err := s.cardRepo.Update(ctx, card); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return card, nil
}

// DeleteCard soft deletes a card owned by the user.
func (s *DebitCardService) DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error {
	if _, err := s.ownedCard(ctx, userID, cardID); err != nil {
		return err
	}

	if err := s.cardRepo.SoftDelete(ctx, cardID); err != nil {
		return customError.WrapDatabaseError(err)
	}

	return nil
}

// ListTransactions returns the transactions of a card owned by the user.
func (s *DebitCardService) ListTransactions(ctx context.Context, userID, cardID uuid.UUID) ([]*domain.DebitCardTransaction, error) {
	if _, err := s.ownedCard(ctx, userID, cardID); err != nil {
		return nil, err
	}

	transactions, err := s.cardRepo.GetTransactionsByCardID(ctx, cardID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return transactions, nil
}

// CreateTransaction records a spend against an active card owned by the user.
func (s *DebitCardService) CreateTransaction(ctx context.Context, userID uuid.UUID, request *domain.CreateDebitCardTransactionRequest) (*domain.DebitCardTransaction, error) {
	if request.Amount <= 0 {
		return nil, customError.WrapInvalidPaymentAmount(request.Amount)
	}
	if !domain.IsSupportedCurrency(request.CurrencyCode) {
		return nil, customError.WrapUnsupportedCurrency(request.CurrencyCode)
	}

	card, err := s.ownedCard(ctx, userID, request.DebitCardID)
	if err != nil {
		return nil, err
	}
	if !card.IsActive() {
		return nil, customError.WrapCardInactive(card.ID.String())
	}

	transaction := &domain.DebitCardTransaction{
		ID:           uuid.New(),
		DebitCardID:  card.ID,
		Amount:       request.Amount,
		CurrencyCode: request.CurrencyCode,
	}

	if err := s.cardRepo.CreateTransaction(ctx, transaction); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return transaction, nil
}

func (s *DebitCardService) ownedCard(ctx context.Context, userID, cardID uuid.UUID) (*domain.DebitCard, error) {
	card, err := s.cardRepo.GetByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapCardNotFound(cardID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	if card.UserID != userID {
		return nil, customError.WrapForbidden("Debit card")
	}

	return card, nil
}
