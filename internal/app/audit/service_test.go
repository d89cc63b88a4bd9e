package audit_test

import (
	"context"
	"errors"
	"testing"

	"github.com/leandrowaltz/provavida/internal/app/audit"
	"github.com/leandrowaltz/provavida/internal/domain/model"
	"github.com/leandrowaltz/provavida/internal/mocks"
	"github.com/leandrowaltz/provavida/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuditService_List(t *testing.T) {
	mockRepo := new(mocks.MockAuditRepository)
	service := audit.NewService(mockRepo, testutils.TestLogger(t))

	t.Run("filtro sem espaços", func(t *testing.T) {
		expected := []*model.AuditoriaAlteracao{{ID: 2, CadastroCPF: "111.111.111-11", CampoAlterado: "nome"}}
		mockRepo.On("List", mock.Anything, "111").Return(expected, nil).Once()

		logs, err := service.List(context.Background(), " 111 ")
		require.NoError(t, err)
		assert.Equal(t, expected, logs)
		mockRepo.AssertExpectations(t)
	})

	t.Run("erro do repositório", func(t *testing.T) {
		mockRepo.On("List", mock.Anything, "").Return(nil, errors.New("falha")).Once()

		_, err := service.List(context.Background(), "")
		assert.Error(t, err)
		mockRepo.AssertExpectations(t)
	})
}
