package database

import (
	"context"
	"fmt"

	"github.com/leandrowaltz/provavida/internal/domain/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AuditRepository implementa repository.AuditRepository
type AuditRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewAuditRepository cria um novo repositório da trilha de auditoria
func NewAuditRepository(db *gorm.DB, logger *zap.Logger) *AuditRepository {
	return &AuditRepository{db: db, logger: logger}
}

// List retorna os registros mais recentes primeiro
func (r *AuditRepository) List(ctx context.Context, cpfFilter string) ([]*model.AuditoriaAlteracao, error) {
	query := r.db.WithContext(ctx).Model(&model.AuditoriaAlteracao{})
	if cpfFilter != "" {
		query = query.Where("cadastro_cpf LIKE ?", "%"+cpfFilter+"%")
	}

	var logs []*model.AuditoriaAlteracao
	if err := query.Order("data_alteracao DESC").Order("id DESC").Find(&logs).Error; err != nil {
		r.logger.Error("falha ao listar auditoria", zap.Error(err))
		return nil, fmt.Errorf("falha ao listar auditoria: %w", err)
	}
	return logs, nil
}
