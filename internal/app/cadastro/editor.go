package cadastro

import (
	"fmt"
	"strconv"

	"github.com/leandrowaltz/provavida/internal/domain/model"
	apperrors "github.com/leandrowaltz/provavida/pkg/errors"
)

type fieldKind int

const (
	requiredText fieldKind = iota
	optionalText
	simNao
	calendarDate
)

// editableField descreve um campo aceito na edição de cadastro
type editableField struct {
	name    string
	kind    fieldKind
	current func(c *model.Cadastro) string
}

func optional(get func(c *model.Cadastro) *string) func(c *model.Cadastro) string {
	return func(c *model.Cadastro) string { return model.Deref(get(c)) }
}

// editableFields é a lista de campos editáveis, na ordem em que são comparados
var editableFields = []editableField{
	{"nome", requiredText, func(c *model.Cadastro) string { return c.Nome }},
	{"telefone", requiredText, func(c *model.Cadastro) string { return c.Telefone }},
	{"email", optionalText, optional(func(c *model.Cadastro) *string { return c.Email })},
	{"matricula", optionalText, optional(func(c *model.Cadastro) *string { return c.Matricula })},
	{"is_whatsapp", simNao, func(c *model.Cadastro) string { return model.SimNao(c.IsWhatsapp) }},
	{"qualidade", requiredText, func(c *model.Cadastro) string { return c.Qualidade }},
	{"data_atendimento", calendarDate, func(c *model.Cadastro) string { return c.DataAtendimento.String() }},
	{"informacao", optionalText, optional(func(c *model.Cadastro) *string { return c.Informacao })},
	{"obs", optionalText, optional(func(c *model.Cadastro) *string { return c.Obs })},
	{"processo", optionalText, optional(func(c *model.Cadastro) *string { return c.Processo })},
	{"endereco", optionalText, optional(func(c *model.Cadastro) *string { return c.Endereco })},
	{"assunto_visita", optionalText, optional(func(c *model.Cadastro) *string { return c.AssuntoVisita })},
	{"procurador_nome", optionalText, optional(func(c *model.Cadastro) *string { return c.ProcuradorNome })},
	{"procurador_cpf", optionalText, optional(func(c *model.Cadastro) *string { return c.ProcuradorCPF })},
	{"curador_nome", optionalText, optional(func(c *model.Cadastro) *string { return c.CuradorNome })},
	{"curador_cpf", optionalText, optional(func(c *model.Cadastro) *string { return c.CuradorCPF })},
}

// EditableFields devolve os nomes dos campos aceitos na edição
func EditableFields() []string {
	names := make([]string, len(editableFields))
	for i, f := range editableFields {
		names[i] = f.name
	}
	return names
}

// PlanEdit compara os valores enviados com o cadastro atual e devolve uma
// alteração por campo modificado. Campos fora da lista editável são ignorados.
func PlanEdit(current *model.Cadastro, input map[string]interface{}) ([]model.FieldChange, error) {
	var changes []model.FieldChange

	for _, field := range editableFields {
		raw, present := input[field.name]
		if !present {
			continue
		}

		change, changed, err := field.diff(current, raw)
		if err != nil {
			return nil, err
		}
		if changed {
			changes = append(changes, change)
		}
	}

	return changes, nil
}

func (f editableField) diff(current *model.Cadastro, raw interface{}) (model.FieldChange, bool, error) {
	old := f.current(current)
	change := model.FieldChange{Field: f.name, OldValue: old}

	switch f.kind {
	case simNao:
		value := model.ParseSimNao(raw)
		if value == current.IsWhatsapp {
			return change, false, nil
		}
		change.NewValue = model.SimNao(value)
		change.Value = value

	case calendarDate:
		s, _ := raw.(string)
		date, err := model.ParseDate(s)
		if err != nil {
			return change, false, apperrors.Validation("Data de atendimento inválida, use o formato AAAA-MM-DD", err)
		}
		if date.String() == old {
			return change, false, nil
		}
		change.NewValue = date.String()
		change.Value = date

	default:
		value := stringify(raw)
		if value == old {
			return change, false, nil
		}
		change.NewValue = value
		if raw == nil && f.kind == optionalText {
			change.Value = nil
		} else {
			change.Value = value
		}
	}

	return change, true, nil
}

// stringify converte um valor JSON para a forma textual comparada e auditada
func stringify(raw interface{}) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
