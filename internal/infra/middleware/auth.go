package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leandrowaltz/provavida/internal/app/auth"
	"github.com/leandrowaltz/provavida/internal/domain/model"
	"github.com/leandrowaltz/provavida/pkg/logging"
	"go.uber.org/zap"
)

const (
	userKey     = "user"
	usernameKey = "username"

	unauthorizedMessage = "Acesso não autorizado."
	adminOnlyMessage    = "Acesso restrito a administradores."
)

// Authenticator confere credenciais Basic
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*model.UserEntity, error)
	IsBootstrapAdmin(username, password string) bool
}

// AuthMiddleware protege as rotas com autenticação HTTP Basic
type AuthMiddleware struct {
	auth   Authenticator
	logger *zap.Logger
}

// NewAuthMiddleware cria uma nova instância do middleware de autenticação
func NewAuthMiddleware(authenticator Authenticator, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		auth:   authenticator,
		logger: logger,
	}
}

// RequireUser aceita qualquer usuário cadastrado ou o administrador inicial
func (m *AuthMiddleware) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok {
			challenge(c)
			return
		}

		if m.auth.IsBootstrapAdmin(username, password) {
			setUsername(c, username)
			c.Next()
			return
		}

		user, err := m.auth.Authenticate(c.Request.Context(), username, password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				challenge(c)
				return
			}
			m.logger.Error("Falha ao verificar credenciais", zap.String("username", username), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Erro interno do servidor"})
			return
		}

		c.Set(userKey, user)
		setUsername(c, user.Username)
		c.Next()
	}
}

// RequireAdmin aceita apenas as credenciais do administrador inicial
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok {
			challenge(c)
			return
		}

		if !m.auth.IsBootstrapAdmin(username, password) {
			m.logger.Warn("Acesso administrativo negado",
				zap.String("username", username),
				zap.String("path", c.Request.URL.Path))
			c.String(http.StatusForbidden, adminOnlyMessage)
			c.Abort()
			return
		}

		setUsername(c, username)
		c.Next()
	}
}

func setUsername(c *gin.Context, username string) {
	c.Set(usernameKey, username)
	c.Request = c.Request.WithContext(logging.WithUsername(c.Request.Context(), username))
}

// CurrentUsername devolve o usuário autenticado na requisição
func CurrentUsername(c *gin.Context) string {
	return c.GetString(usernameKey)
}

// CurrentUser devolve a conta autenticada, ausente para o administrador inicial
func CurrentUser(c *gin.Context) (*model.UserEntity, bool) {
	value, exists := c.Get(userKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*model.UserEntity)
	return user, ok
}

func challenge(c *gin.Context) {
	c.Header("WWW-Authenticate", `Basic realm="Login Required"`)
	c.String(http.StatusUnauthorized, unauthorizedMessage)
	c.Abort()
}
