package repository

import (
	"context"
	"errors"

	"github.com/leandrowaltz/provavida/internal/domain/model"
)

var (
	ErrCadastroNotFound = errors.New("cadastro não encontrado")
	ErrCadastroExists   = errors.New("cadastro já existe")
	ErrUserNotFound     = errors.New("usuário não encontrado")
	ErrUserExists       = errors.New("usuário já existe")
)

// EditPlanner calcula as alterações a partir do estado atual do cadastro.
// É chamado dentro da transação que grava as alterações.
type EditPlanner func(current *model.Cadastro) ([]model.FieldChange, error)

// CadastroRepository define o armazenamento de cadastros
type CadastroRepository interface {
	// Create insere um novo cadastro
	Create(ctx context.Context, cadastro *model.Cadastro) error

	// Exists informa se já existe cadastro com o CPF
	Exists(ctx context.Context, cpf string) (bool, error)

	// Get obtém um cadastro sem os conteúdos binários
	Get(ctx context.Context, cpf string) (*model.Cadastro, error)

	// GetWithPhoto obtém um cadastro incluindo a foto
	GetWithPhoto(ctx context.Context, cpf string) (*model.Cadastro, error)

	// List retorna os cadastros ordenados por nome, filtrando pelo trecho do CPF
	List(ctx context.Context, cpfFilter string) ([]*model.Cadastro, error)

	// ListWhatsApp retorna os cadastros com WhatsApp
	ListWhatsApp(ctx context.Context) ([]*model.Cadastro, error)

	// ListByVisitStatus retorna os cadastros que necessitam visita com o status informado
	ListByVisitStatus(ctx context.Context, status string) ([]*model.Cadastro, error)

	// GetDocument devolve o nome e o conteúdo do documento anexado
	GetDocument(ctx context.Context, cpf string) (string, []byte, error)

	// GetPhoto devolve a foto do segurado
	GetPhoto(ctx context.Context, cpf string) ([]byte, error)

	// UpdatePhoto substitui a foto do segurado
	UpdatePhoto(ctx context.Context, cpf string, photo []byte) error

	// SetVisitStatus altera o status da visita social
	SetVisitStatus(ctx context.Context, cpf, status string) error

	// ApplyEdit grava atomicamente as alterações planejadas e seus registros de auditoria
	ApplyEdit(ctx context.Context, cpf, atendente string, plan EditPlanner) (*model.Cadastro, []model.AuditoriaAlteracao, error)

	// Snapshot lê todas as contagens das estatísticas numa única transação
	Snapshot(ctx context.Context, from, to model.Date) (*model.StatisticsSnapshot, error)
}

// AuditRepository define a leitura da trilha de auditoria
type AuditRepository interface {
	// List retorna os registros mais recentes primeiro, filtrando pelo trecho do CPF
	List(ctx context.Context, cpfFilter string) ([]*model.AuditoriaAlteracao, error)
}

// UserRepository define o armazenamento de usuários
type UserRepository interface {
	Create(ctx context.Context, user *model.UserEntity) error
	List(ctx context.Context) ([]*model.UserEntity, error)
	GetByID(ctx context.Context, id uint) (*model.UserEntity, error)
	GetByUsername(ctx context.Context, username string) (*model.UserEntity, error)
	UpdatePassword(ctx context.Context, id uint, password string) error
	UpdatePermissions(ctx context.Context, id uint, permissions model.Permissions) error
	Delete(ctx context.Context, id uint) error
}
