package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/leandrowaltz/provavida/internal/domain/model"
	"github.com/leandrowaltz/provavida/internal/domain/repository"
	apperrors "github.com/leandrowaltz/provavida/pkg/errors"
	"github.com/leandrowaltz/provavida/pkg/logging"
	"go.uber.org/zap"
)

// ErrInvalidCredentials indica usuário inexistente ou senha incorreta
var ErrInvalidCredentials = errors.New("credenciais inválidas")

// Service gerencia autenticação e contas de usuário
type Service struct {
	users  repository.UserRepository
	hasher PasswordHasher
	admin  BootstrapAdmin
	logger *logging.ContextLogger
}

// NewService cria um novo serviço de autenticação
func NewService(users repository.UserRepository, hasher PasswordHasher, admin BootstrapAdmin, logger *zap.Logger) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
		admin:  admin,
		logger: logging.NewContextLogger(logger.With(zap.String("service", "auth"))),
	}
}

// IsBootstrapAdmin informa se as credenciais são as do administrador inicial
func (s *Service) IsBootstrapAdmin(username, password string) bool {
	return s.admin.Matches(username, password)
}

// Authenticate confere as credenciais no cadastro de usuários
func (s *Service) Authenticate(ctx context.Context, username, password string) (*model.UserEntity, error) {
	if username == "" || password == "" {
		return nil, apperrors.Unauthorized("", ErrInvalidCredentials)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperrors.Unauthorized("", ErrInvalidCredentials)
		}
		return nil, err
	}

	if !s.hasher.Verify(user.Password, password) {
		return nil, apperrors.Unauthorized("", ErrInvalidCredentials)
	}

	return user, nil
}

// Login valida as credenciais enviadas pelo formulário de entrada
func (s *Service) Login(ctx context.Context, username, password string) (*model.UserEntity, error) {
	if username == "" || password == "" {
		return nil, apperrors.Validation("Utilizador e senha são obrigatórios", nil)
	}

	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			s.logger.WarnCtx(ctx, "Falha na autenticação", zap.String("username", username))
			return nil, apperrors.Unauthorized("Credenciais inválidas", ErrInvalidCredentials)
		}
		return nil, err
	}

	s.logger.InfoCtx(ctx, "Login bem-sucedido", zap.String("username", username))
	return user, nil
}

// ChangePassword troca a senha do próprio usuário. A conta do administrador
// inicial não pode ser alterada por aqui.
func (s *Service) ChangePassword(ctx context.Context, username, currentPassword, newPassword string) error {
	if newPassword == "" {
		return apperrors.Validation("Nova senha é obrigatória", nil)
	}

	if username == s.admin.Username {
		return apperrors.Forbidden("Operação não permitida", nil)
	}

	if currentPassword == "" {
		return apperrors.Validation("Senha atual é obrigatória", nil)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return err
	}
	if err != nil || !s.hasher.Verify(user.Password, currentPassword) {
		return apperrors.Validation("Senha atual incorreta", nil)
	}
	if s.admin.Owns(user) {
		return apperrors.Forbidden("Operação não permitida", nil)
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return apperrors.InternalServer("", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hashed); err != nil {
		return err
	}

	s.logger.InfoCtx(ctx, "Senha alterada", zap.String("username", username))
	return nil
}

// ResetPassword define uma nova senha para outro usuário
func (s *Service) ResetPassword(ctx context.Context, userID uint, newPassword string) error {
	if userID == 0 || newPassword == "" {
		return apperrors.Validation("ID do usuário e nova senha são obrigatórios", nil)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if s.admin.Owns(user) {
		return apperrors.Forbidden("Não é possível resetar a senha do administrador", nil)
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return apperrors.InternalServer("", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hashed); err != nil {
		return err
	}

	s.logger.InfoCtx(ctx, "Senha resetada", zap.Uint("user_id", user.ID))
	return nil
}

// ListUsers retorna todos os usuários
func (s *Service) ListUsers(ctx context.Context) ([]*model.UserEntity, error) {
	return s.users.List(ctx)
}

// GetUser busca um usuário pelo identificador
func (s *Service) GetUser(ctx context.Context, id uint) (*model.UserEntity, error) {
	return s.users.GetByID(ctx, id)
}

// CreateUser cria uma conta com as permissões informadas
func (s *Service) CreateUser(ctx context.Context, username, password string, permissions model.Permissions) (*model.UserEntity, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperrors.Validation("Utilizador e senha são obrigatórios", nil)
	}

	if permissions == nil {
		permissions = model.Permissions{}
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperrors.InternalServer("", err)
	}

	user := &model.UserEntity{
		Username:    username,
		Password:    hashed,
		Permissions: permissions,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.InfoCtx(ctx, "Usuário criado", zap.String("username", username), zap.Uint("user_id", user.ID))
	return user, nil
}

// UpdatePermissions substitui as permissões de um usuário
func (s *Service) UpdatePermissions(ctx context.Context, id uint, permissions model.Permissions) (*model.UserEntity, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if permissions == nil {
		return nil, apperrors.Validation("Nenhuma permissão fornecida", nil)
	}

	if err := s.users.UpdatePermissions(ctx, id, permissions); err != nil {
		return nil, err
	}
	user.Permissions = permissions

	s.logger.InfoCtx(ctx, "Permissões atualizadas", zap.Uint("user_id", id))
	return user, nil
}

// DeleteUser remove uma conta. A conta do administrador inicial é protegida.
func (s *Service) DeleteUser(ctx context.Context, id uint) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperrors.NotFound("Utilizador não encontrado", repository.ErrUserNotFound)
		}
		return err
	}

	if s.admin.Owns(user) {
		return apperrors.Forbidden("Não é possível apagar o utilizador administrador", nil)
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.InfoCtx(ctx, "Usuário removido", zap.Uint("user_id", id), zap.String("username", user.Username))
	return nil
}

// EnsureBootstrapAdmin cria a conta do administrador inicial com todas as
// permissões, se ela ainda não existir. Devolve true quando a conta é criada.
func (s *Service) EnsureBootstrapAdmin(ctx context.Context) (bool, error) {
	_, err := s.users.GetByUsername(ctx, s.admin.Username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return false, err
	}

	hashed, err := s.hasher.Hash(s.admin.Password)
	if err != nil {
		return false, err
	}

	admin := &model.UserEntity{
		Username:    s.admin.Username,
		Password:    hashed,
		Permissions: model.AllPermissions(),
		Bootstrap:   true,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		// Outra instância pode ter criado a conta ao mesmo tempo
		if errors.Is(err, repository.ErrUserExists) {
			return false, nil
		}
		return false, err
	}

	s.logger.InfoCtx(ctx, "Administrador inicial criado", zap.String("username", s.admin.Username))
	return true, nil
}
