package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/flexcredit/loan-engine/internal/domain"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, request *domain.RegisterRequest) (string, error) {
	args := m.Called(ctx, request)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, request *domain.LoginRequest) (string, error) {
	args := m.Called(ctx, request)
	return args.String(0), args.Error(1)
}
