package mocks

import (
	"context"

	"github.com/leandrowaltz/provavida/internal/domain/model"
	"github.com/leandrowaltz/provavida/internal/domain/repository"
	"github.com/stretchr/testify/mock"
)

// MockCadastroRepository é um mock para o repository.CadastroRepository
type MockCadastroRepository struct {
	mock.Mock
}

func (m *MockCadastroRepository) Create(ctx context.Context, cadastro *model.Cadastro) error {
	args := m.Called(ctx, cadastro)
	return args.Error(0)
}

func (m *MockCadastroRepository) Exists(ctx context.Context, cpf string) (bool, error) {
	args := m.Called(ctx, cpf)
	return args.Bool(0), args.Error(1)
}

func (m *MockCadastroRepository) Get(ctx context.Context, cpf string) (*model.Cadastro, error) {
	args := m.Called(ctx, cpf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cadastro), args.Error(1)
}

func (m *MockCadastroRepository) GetWithPhoto(ctx context.Context, cpf string) (*model.Cadastro, error) {
	args := m.Called(ctx, cpf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cadastro), args.Error(1)
}

func (m *MockCadastroRepository) List(ctx context.Context, cpfFilter string) ([]*model.Cadastro, error) {
	args := m.Called(ctx, cpfFilter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Cadastro), args.Error(1)
}

func (m *MockCadastroRepository) ListWhatsApp(ctx context.Context) ([]*model.Cadastro, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Cadastro), args.Error(1)
}

func (m *MockCadastroRepository) ListByVisitStatus(ctx context.Context, status string) ([]*model.Cadastro, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Cadastro), args.Error(1)
}

func (m *MockCadastroRepository) GetDocument(ctx context.Context, cpf string) (string, []byte, error) {
	args := m.Called(ctx, cpf)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).([]byte), args.Error(2)
}

func (m *MockCadastroRepository) GetPhoto(ctx context.Context, cpf string) ([]byte, error) {
	args := m.Called(ctx, cpf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCadastroRepository) UpdatePhoto(ctx context.Context, cpf string, photo []byte) error {
	args := m.Called(ctx, cpf, photo)
	return args.Error(0)
}

func (m *MockCadastroRepository) SetVisitStatus(ctx context.Context, cpf, status string) error {
	args := m.Called(ctx, cpf, status)
	return args.Error(0)
}

// ApplyEdit executa o planejamento sobre o cadastro configurado no primeiro retorno
func (m *MockCadastroRepository) ApplyEdit(ctx context.Context, cpf, atendente string, plan repository.EditPlanner) (*model.Cadastro, []model.AuditoriaAlteracao, error) {
	args := m.Called(ctx, cpf, atendente)
	if args.Get(0) == nil {
		return nil, nil, args.Error(1)
	}

	current := args.Get(0).(*model.Cadastro)
	changes, err := plan(current)
	if err != nil {
		return nil, nil, err
	}

	entries := make([]model.AuditoriaAlteracao, len(changes))
	for i, change := range changes {
		entries[i] = model.AuditoriaAlteracao{
			CadastroCPF:   cpf,
			Atendente:     atendente,
			CampoAlterado: change.Field,
			ValorAntigo:   model.Ptr(change.OldValue),
			ValorNovo:     model.Ptr(change.NewValue),
		}
	}
	return current, entries, args.Error(1)
}

func (m *MockCadastroRepository) Snapshot(ctx context.Context, from, to model.Date) (*model.StatisticsSnapshot, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StatisticsSnapshot), args.Error(1)
}
