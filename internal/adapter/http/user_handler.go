package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/leandrowaltz/provavida/internal/app/auth"
	"github.com/leandrowaltz/provavida/internal/domain/model"
	"github.com/leandrowaltz/provavida/internal/infra/middleware"
	apperrors "github.com/leandrowaltz/provavida/pkg/errors"
	"go.uber.org/zap"
)

// UserHandler implementa login, troca de senha e a gestão de contas
type UserHandler struct {
	auth   *auth.Service
	logger *zap.Logger
}

// NewUserHandler cria um novo handler de usuários
func NewUserHandler(authService *auth.Service, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		auth:   authService,
		logger: logger,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login confere as credenciais e devolve o perfil do usuário
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	_ = c.ShouldBindJSON(&req)

	user, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": apperrors.Message(err)})
			return
		}
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword troca a senha do usuário autenticado
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	_ = c.ShouldBindJSON(&req)

	username := middleware.CurrentUsername(c)
	if err := h.auth.ChangePassword(c.Request.Context(), username, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, "Senha alterada com sucesso!")
}

type resetPasswordRequest struct {
	UserID      uint   `json:"user_id"`
	NewPassword string `json:"new_password"`
}

// ResetPassword define a senha de outro usuário
func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.auth.ResetPassword(c.Request.Context(), req.UserID, req.NewPassword); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, "Senha resetada com sucesso!")
}

// ListUsers lista todas as contas
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.auth.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUser devolve uma conta
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	user, err := h.auth.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type createUserRequest struct {
	Username    string            `json:"username"`
	Password    string            `json:"password"`
	Permissions model.Permissions `json:"permissions"`
}

// CreateUser cria uma conta com as permissões informadas
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, apperrors.Validation("Utilizador e senha são obrigatórios", err))
		return
	}

	user, err := h.auth.CreateUser(c.Request.Context(), req.Username, req.Password, req.Permissions)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

type permissionsRequest struct {
	Permissions model.Permissions `json:"permissions"`
}

// UpdatePermissions substitui as permissões de uma conta
func (h *UserHandler) UpdatePermissions(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	var req permissionsRequest
	_ = c.ShouldBindJSON(&req)

	user, err := h.auth.UpdatePermissions(c.Request.Context(), id, req.Permissions)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser remove uma conta
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	if err := h.auth.DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, "Utilizador apagado com sucesso.")
}

// userID lê o identificador da rota; responde 404 quando não é numérico
func userID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuário não encontrado"})
		return 0, false
	}
	return uint(id), true
}
