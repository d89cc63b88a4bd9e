package model

import "time"

// AuditoriaAlteracao registra a alteração de um único campo de um cadastro.
// Os registros nunca são alterados nem removidos.
type AuditoriaAlteracao struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CadastroCPF   string    `gorm:"column:cadastro_cpf;size:14;not null;index" json:"cadastro_cpf"`
	Atendente     string    `gorm:"column:atendente;size:100;not null" json:"atendente"`
	DataAlteracao time.Time `gorm:"column:data_alteracao;index" json:"data_alteracao"`
	CampoAlterado string    `gorm:"column:campo_alterado;size:100;not null" json:"campo_alterado"`
	ValorAntigo   *string   `gorm:"column:valor_antigo;type:text" json:"valor_antigo"`
	ValorNovo     *string   `gorm:"column:valor_novo;type:text" json:"valor_novo"`
}

// TableName define o nome da tabela
func (AuditoriaAlteracao) TableName() string {
	return "auditoria_alteracoes"
}

// FieldChange descreve a mudança planejada de um campo editável
type FieldChange struct {
	Field    string
	OldValue string
	NewValue string
	// Value é o valor tipado gravado na coluna
	Value interface{}
}
