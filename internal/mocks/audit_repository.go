package mocks

import (
	"context"

	"github.com/leandrowaltz/provavida/internal/domain/model"
	"github.com/stretchr/testify/mock"
)

// MockAuditRepository é um mock para o repository.AuditRepository
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) List(ctx context.Context, cpfFilter string) ([]*model.AuditoriaAlteracao, error) {
	args := m.Called(ctx, cpfFilter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.AuditoriaAlteracao), args.Error(1)
}
