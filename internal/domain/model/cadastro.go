package model

import (
	"encoding/json"
	"time"
)

// Status da visita social
const (
	StatusVisitaPendente  = "Pendente"
	StatusVisitaRealizada = "Realizada"
)

// Cadastro representa a inscrição de um segurado, identificada pelo CPF
type Cadastro struct {
	CPF                   string     `gorm:"column:cpf;primaryKey;size:14" json:"cpf"`
	Matricula             *string    `gorm:"column:matricula;size:100" json:"matricula"`
	Nome                  string     `gorm:"column:nome;size:255;not null;index" json:"nome"`
	Telefone              string     `gorm:"column:telefone;size:20;not null" json:"telefone"`
	Email                 *string    `gorm:"column:email;size:255" json:"email"`
	IsWhatsapp            bool       `gorm:"column:is_whatsapp;not null" json:"is_whatsapp"`
	Qualidade             string     `gorm:"column:qualidade;size:100;not null" json:"qualidade"`
	DataAtendimento       Date       `gorm:"column:data_atendimento;not null" json:"data_atendimento"`
	Informacao            *string    `gorm:"column:informacao;type:text" json:"informacao"`
	Obs                   *string    `gorm:"column:obs;type:text" json:"obs"`
	AtendenteCriacao      string     `gorm:"column:atendente_criacao;size:100;not null" json:"atendente_criacao"`
	DataCriacao           time.Time  `gorm:"column:data_criacao;autoCreateTime" json:"data_criacao"`
	AtendenteModificacao  *string    `gorm:"column:atendente_modificacao;size:100" json:"atendente_modificacao"`
	DataModificacao       *time.Time `gorm:"column:data_modificacao" json:"data_modificacao"`
	NecessitaVisitaSocial bool       `gorm:"column:necessita_visita_social;default:false" json:"necessita_visita_social"`
	StatusVisita          *string    `gorm:"column:status_visita;size:50" json:"status_visita"`
	Processo              *string    `gorm:"column:processo;size:100" json:"processo"`
	Endereco              *string    `gorm:"column:endereco;type:text" json:"endereco"`
	AssuntoVisita         *string    `gorm:"column:assunto_visita;type:text" json:"assunto_visita"`
	TemProcurador         bool       `gorm:"column:tem_procurador;default:false" json:"tem_procurador"`
	ProcuradorNome        *string    `gorm:"column:procurador_nome;size:255" json:"procurador_nome"`
	ProcuradorCPF         *string    `gorm:"column:procurador_cpf;size:14" json:"procurador_cpf"`
	TemCurador            bool       `gorm:"column:tem_curador;default:false" json:"tem_curador"`
	CuradorNome           *string    `gorm:"column:curador_nome;size:255" json:"curador_nome"`
	CuradorCPF            *string    `gorm:"column:curador_cpf;size:14" json:"curador_cpf"`
	NomeDocumento         *string    `gorm:"column:nome_documento;size:255" json:"nome_documento"`
	DocumentoPDF          []byte     `gorm:"column:documento_pdf" json:"-"`
	FotoSegurado          []byte     `gorm:"column:foto_segurado" json:"-"`

	// Calculados na consulta, sem carregar os binários
	HasDocument bool `gorm:"column:has_document;->;-:migration" json:"has_document"`
	HasPhoto    bool `gorm:"column:has_photo;->;-:migration" json:"has_photo"`
}

// TableName define o nome da tabela
func (Cadastro) TableName() string {
	return "cadastros"
}

// MarshalJSON omite o status da visita quando ela não é necessária
func (c Cadastro) MarshalJSON() ([]byte, error) {
	type cadastroJSON Cadastro
	out := cadastroJSON(c)
	if !out.NecessitaVisitaSocial {
		out.StatusVisita = nil
	}
	if len(c.DocumentoPDF) > 0 {
		out.HasDocument = true
	}
	if len(c.FotoSegurado) > 0 {
		out.HasPhoto = true
	}
	return json.Marshal(out)
}

// Representante devolve o procurador ou, na falta dele, o curador.
// Só conta quem tem nome preenchido; é o texto usado na declaração.
func (c *Cadastro) Representante() (nome, cpf, papel string, ok bool) {
	if c.TemProcurador && Deref(c.ProcuradorNome) != "" {
		return Deref(c.ProcuradorNome), Deref(c.ProcuradorCPF), "Procurador(a)", true
	}
	if c.TemCurador && Deref(c.CuradorNome) != "" {
		return Deref(c.CuradorNome), Deref(c.CuradorCPF), "Curador(a)", true
	}
	return "", "", "", false
}

// Representacao indica qual bloco de representante vai na ficha de cadastro.
// Basta a marcação: o procurador tem precedência e nome ou CPF podem estar vazios.
func (c *Cadastro) Representacao() (papel string, nome, cpf *string, ok bool) {
	switch {
	case c.TemProcurador:
		return "Procurador", c.ProcuradorNome, c.ProcuradorCPF, true
	case c.TemCurador:
		return "Curador", c.CuradorNome, c.CuradorCPF, true
	default:
		return "", nil, nil, false
	}
}

// StatusVisitaAtual devolve o status apenas quando a visita é necessária
func (c *Cadastro) StatusVisitaAtual() string {
	if !c.NecessitaVisitaSocial {
		return ""
	}
	return Deref(c.StatusVisita)
}

// Deref devolve o valor apontado ou string vazia
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Ptr devolve um ponteiro para s
func Ptr(s string) *string {
	return &s
}
