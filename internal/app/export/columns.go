package export

import (
	"time"

	"github.com/leandrowaltz/provavida/internal/domain/model"
)

const timestampLayout = "2006-01-02 15:04:05"

// column é uma coluna da exportação completa. Os conteúdos binários
// (documento e foto) nunca são exportados.
type column struct {
	name  string
	value func(c *model.Cadastro) string
	// width é a largura usada na planilha
	width float64
}

var cadastroColumns = []column{
	{"cpf", func(c *model.Cadastro) string { return c.CPF }, 16},
	{"matricula", func(c *model.Cadastro) string { return model.Deref(c.Matricula) }, 14},
	{"nome", func(c *model.Cadastro) string { return c.Nome }, 35},
	{"telefone", func(c *model.Cadastro) string { return c.Telefone }, 16},
	{"email", func(c *model.Cadastro) string { return model.Deref(c.Email) }, 28},
	{"is_whatsapp", func(c *model.Cadastro) string { return boolText(c.IsWhatsapp) }, 12},
	{"qualidade", func(c *model.Cadastro) string { return c.Qualidade }, 16},
	{"data_atendimento", func(c *model.Cadastro) string { return c.DataAtendimento.String() }, 16},
	{"informacao", func(c *model.Cadastro) string { return model.Deref(c.Informacao) }, 30},
	{"obs", func(c *model.Cadastro) string { return model.Deref(c.Obs) }, 30},
	{"atendente_criacao", func(c *model.Cadastro) string { return c.AtendenteCriacao }, 20},
	{"data_criacao", func(c *model.Cadastro) string { return timestamp(&c.DataCriacao) }, 20},
	{"atendente_modificacao", func(c *model.Cadastro) string { return model.Deref(c.AtendenteModificacao) }, 20},
	{"data_modificacao", func(c *model.Cadastro) string { return timestamp(c.DataModificacao) }, 20},
	{"necessita_visita_social", func(c *model.Cadastro) string { return boolText(c.NecessitaVisitaSocial) }, 12},
	{"status_visita", func(c *model.Cadastro) string { return model.Deref(c.StatusVisita) }, 14},
	{"processo", func(c *model.Cadastro) string { return model.Deref(c.Processo) }, 18},
	{"endereco", func(c *model.Cadastro) string { return model.Deref(c.Endereco) }, 35},
	{"assunto_visita", func(c *model.Cadastro) string { return model.Deref(c.AssuntoVisita) }, 30},
	{"tem_procurador", func(c *model.Cadastro) string { return boolText(c.TemProcurador) }, 12},
	{"procurador_nome", func(c *model.Cadastro) string { return model.Deref(c.ProcuradorNome) }, 30},
	{"procurador_cpf", func(c *model.Cadastro) string { return model.Deref(c.ProcuradorCPF) }, 16},
	{"tem_curador", func(c *model.Cadastro) string { return boolText(c.TemCurador) }, 12},
	{"curador_nome", func(c *model.Cadastro) string { return model.Deref(c.CuradorNome) }, 30},
	{"curador_cpf", func(c *model.Cadastro) string { return model.Deref(c.CuradorCPF) }, 16},
}

// ColumnNames lista as colunas da exportação completa, na ordem do arquivo
func ColumnNames() []string {
	names := make([]string, len(cadastroColumns))
	for i, col := range cadastroColumns {
		names[i] = col.name
	}
	return names
}

func cadastroRow(c *model.Cadastro) []string {
	row := make([]string, len(cadastroColumns))
	for i, col := range cadastroColumns {
		row[i] = col.value(c)
	}
	return row
}

func boolText(v bool) string {
	if v {
		return "True"
	}
	return "False"
}

func timestamp(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(timestampLayout)
}

// orNA substitui valores vazios nos relatórios impressos
func orNA(s *string) string {
	if v := model.Deref(s); v != "" {
		return v
	}
	return "N/A"
}
