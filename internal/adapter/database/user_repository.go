package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/leandrowaltz/provavida/internal/domain/model"
	"github.com/leandrowaltz/provavida/internal/domain/repository"
	apperrors "github.com/leandrowaltz/provavida/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserRepository implementa repository.UserRepository
type UserRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewUserRepository cria um novo repositório de usuários
func NewUserRepository(db *gorm.DB, logger *zap.Logger) *UserRepository {
	return &UserRepository{db: db, logger: logger}
}

// Create insere um novo usuário
func (r *UserRepository) Create(ctx context.Context, user *model.UserEntity) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Conflict("Utilizador já existe", repository.ErrUserExists)
		}
		r.logger.Error("falha ao criar usuário", zap.String("username", user.Username), zap.Error(err))
		return fmt.Errorf("falha ao criar usuário: %w", err)
	}
	return nil
}

// List retorna todos os usuários
func (r *UserRepository) List(ctx context.Context) ([]*model.UserEntity, error) {
	var users []*model.UserEntity
	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("falha ao listar usuários: %w", err)
	}
	return users, nil
}

// GetByID busca um usuário pelo identificador
func (r *UserRepository) GetByID(ctx context.Context, id uint) (*model.UserEntity, error) {
	var user model.UserEntity
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&user).Error; err != nil {
		return nil, userNotFoundOr(err)
	}
	return &user, nil
}

// GetByUsername busca um usuário pelo nome
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.UserEntity, error) {
	var user model.UserEntity
	if err := r.db.WithContext(ctx).Where("username = ?", username).Take(&user).Error; err != nil {
		return nil, userNotFoundOr(err)
	}
	return &user, nil
}

// UpdatePassword substitui a senha armazenada
func (r *UserRepository) UpdatePassword(ctx context.Context, id uint, password string) error {
	if err := r.db.WithContext(ctx).Model(&model.UserEntity{}).Where("id = ?", id).Update("password", password).Error; err != nil {
		return fmt.Errorf("falha ao atualizar senha: %w", err)
	}
	return nil
}

// UpdatePermissions substitui o conjunto de permissões
func (r *UserRepository) UpdatePermissions(ctx context.Context, id uint, permissions model.Permissions) error {
	if err := r.db.WithContext(ctx).Model(&model.UserEntity{}).Where("id = ?", id).Update("permissions", permissions).Error; err != nil {
		return fmt.Errorf("falha ao atualizar permissões: %w", err)
	}
	return nil
}

// Delete remove um usuário
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.UserEntity{})
	if result.Error != nil {
		return fmt.Errorf("falha ao remover usuário: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("Utilizador não encontrado", repository.ErrUserNotFound)
	}
	return nil
}

func userNotFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound("Usuário não encontrado", repository.ErrUserNotFound)
	}
	return fmt.Errorf("falha ao buscar usuário: %w", err)
}
