package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/flexcredit/loan-engine/internal/config"
	"github.com/flexcredit/loan-engine/internal/domain"
	"github.com/flexcredit/loan-engine/internal/repository"
	customError "github.com/flexcredit/loan-engine/pkg/errors"
)

type AuthService struct {
	userRepo repository.UserRepository
	config   *config.Config
}

func NewAuthService(userRepo repository.UserRepository, config *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		config:   config,
	}
}

// Register creates a user with a bcrypt password hash and returns a signed token.
func (s *AuthService) Register(ctx context.Context, request *domain.RegisterRequest) (string, error) {
	existing, err := s.userRepo.GetByEmail(ctx, request.Email)
	if err == nil && existing != nil {
		return "", customError.WrapEmailAlreadyRegistered(request.Email)
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", customError.WrapDatabaseError(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	user := &domain.User{
		ID:           uuid.New(),
		Name:         request.Name,
		Email:        request.Email,
		PasswordHash: string(hash),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", customError.WrapDatabaseError(err)
	}

	return s.issueToken(user)
}

// Login verifies credentials and returns a signed token.
func (s *AuthService) Login(ctx context.Context, request *domain.LoginRequest) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, request.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", customError.WrapInvalidCredentials()
		}
		return "", customError.WrapDatabaseError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(request.Password)); err != nil {
		return "", customError.WrapInvalidCredentials()
	}

	return s.issueToken(user)
}

func (s *AuthService) issueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.config.GetTokenTTL())),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Auth.JWTSecret))
}
