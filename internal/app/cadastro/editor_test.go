package cadastro_test

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/leandrowaltz/provavida/internal/app/cadastro"
	"github.com/leandrowaltz/provavida/internal/domain/model"
	apperrors "github.com/leandrowaltz/provavida/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cadastroAtual() *model.Cadastro {
	return &model.Cadastro{
		CPF:             "111.111.111-11",
		Nome:            "Maria",
		Telefone:        "82999990000",
		Email:           model.Ptr("maria@exemplo.com"),
		IsWhatsapp:      false,
		Qualidade:       "Aposentado",
		DataAtendimento: model.NewDate(2025, 3, 1),
	}
}

func TestPlanEdit(t *testing.T) {
	tests := []struct {
		name     string
		input    map[string]interface{}
		expected []model.FieldChange
	}{
		{
			name: "valores iguais não geram alteração",
			input: map[string]interface{}{
				"nome":             "Maria",
				"is_whatsapp":      "não",
				"data_atendimento": "2025-03-01",
				"obs":              nil,
			},
			expected: nil,
		},
		{
			name:  "whatsapp de não para sim",
			input: map[string]interface{}{"is_whatsapp": "SIM"},
			expected: []model.FieldChange{
				{Field: "is_whatsapp", OldValue: "Não", NewValue: "Sim", Value: true},
			},
		},
		{
			name:     "booleano JSON não é o texto sim",
			input:    map[string]interface{}{"is_whatsapp": true},
			expected: nil,
		},
		{
			name:  "data comparada como data",
			input: map[string]interface{}{"data_atendimento": "2025-03-02"},
			expected: []model.FieldChange{
				{Field: "data_atendimento", OldValue: "2025-03-01", NewValue: "2025-03-02", Value: model.NewDate(2025, 3, 2)},
			},
		},
		{
			name:  "nulo em campo opcional grava NULL",
			input: map[string]interface{}{"email": nil},
			expected: []model.FieldChange{
				{Field: "email", OldValue: "maria@exemplo.com", NewValue: "", Value: nil},
			},
		},
		{
			name:  "número comparado pela forma textual",
			input: map[string]interface{}{"matricula": float64(12345)},
			expected: []model.FieldChange{
				{Field: "matricula", OldValue: "", NewValue: "12345", Value: "12345"},
			},
		},
		{
			name:     "campos fora da lista são ignorados",
			input:    map[string]interface{}{"cpf": "999.999.999-99", "atendente_criacao": "x"},
			expected: nil,
		},
		{
			name: "ordem fixa dos campos",
			input: map[string]interface{}{
				"curador_nome": "José",
				"telefone":     "82988887777",
				"nome":         "Maria Silva",
			},
			expected: []model.FieldChange{
				{Field: "nome", OldValue: "Maria", NewValue: "Maria Silva", Value: "Maria Silva"},
				{Field: "telefone", OldValue: "82999990000", NewValue: "82988887777", Value: "82988887777"},
				{Field: "curador_nome", OldValue: "", NewValue: "José", Value: "José"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changes, err := cadastro.PlanEdit(cadastroAtual(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, changes)
		})
	}
}

func TestPlanEdit_InvalidDate(t *testing.T) {
	for _, value := range []interface{}{"01/03/2025", nil, float64(20250301)} {
		_, err := cadastro.PlanEdit(cadastroAtual(), map[string]interface{}{"data_atendimento": value})
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrValidation))
	}
}

func TestEditableFields(t *testing.T) {
	assert.Equal(t, []string{
		"nome", "telefone", "email", "matricula", "is_whatsapp", "qualidade",
		"data_atendimento", "informacao", "obs", "processo", "endereco",
		"assunto_visita", "procurador_nome", "procurador_cpf", "curador_nome",
		"curador_cpf",
	}, cadastro.EditableFields())
}

func TestDecodePhoto(t *testing.T) {
	raw := []byte{0xff, 0xd8, 0xff, 0xe0, 0x00}
	encoded := base64.StdEncoding.EncodeToString(raw)

	t.Run("com prefixo de data URL", func(t *testing.T) {
		got, err := cadastro.DecodePhoto("data:image/jpeg;base64," + encoded)
		require.NoError(t, err)
		assert.Equal(t, raw, got)
	})

	t.Run("sem padding", func(t *testing.T) {
		got, err := cadastro.DecodePhoto(base64.RawStdEncoding.EncodeToString(raw))
		require.NoError(t, err)
		assert.Equal(t, raw, got)
	})

	t.Run("inválida", func(t *testing.T) {
		_, err := cadastro.DecodePhoto("data:image/jpeg;base64,@@@@")
		require.Error(t, err)
		assert.True(t, errors.Is(err, cadastro.ErrInvalidImage))
	})
}
