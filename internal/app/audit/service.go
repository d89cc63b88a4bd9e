package audit

import (
	"context"
	"strings"

	"github.com/leandrowaltz/provavida/internal/domain/model"
	"github.com/leandrowaltz/provavida/internal/domain/repository"
	"go.uber.org/zap"
)

// Service lê a trilha de auditoria das edições de cadastro
type Service struct {
	repo   repository.AuditRepository
	logger *zap.Logger
}

func NewService(repo repository.AuditRepository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// List retorna os registros mais recentes primeiro, filtrando pelo trecho do CPF
func (s *Service) List(ctx context.Context, cpfFilter string) ([]*model.AuditoriaAlteracao, error) {
	logs, err := s.repo.List(ctx, strings.TrimSpace(cpfFilter))
	if err != nil {
		s.logger.Error("Erro ao buscar auditoria", zap.String("filtro", cpfFilter), zap.Error(err))
		return nil, err
	}
	return logs, nil
}
