package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/leandrowaltz/provavida/pkg/logging"
	"go.uber.org/zap"
)

const (
	// RequestIDHeader é o cabeçalho que transporta o identificador da requisição
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// Middleware contém os middlewares comuns a todas as rotas
type Middleware struct {
	logger *zap.Logger
}

// NewMiddleware cria um novo conjunto de middlewares
func NewMiddleware(logger *zap.Logger) *Middleware {
	return &Middleware{logger: logger}
}

// RequestID reaproveita o identificador recebido ou gera um novo
func (m *Middleware) RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header(RequestIDHeader, requestID)
		c.Set(requestIDKey, requestID)
		c.Request = c.Request.WithContext(logging.WithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}

// GetRequestID devolve o identificador da requisição atual
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// IgnoreFavicon responde 204 para /favicon.ico
func (m *Middleware) IgnoreFavicon() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/favicon.ico" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// MaxBodySize limita o tamanho do corpo das requisições
func (m *Middleware) MaxBodySize(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}

// Logger middleware para logging de requisições
func (m *Middleware) Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := []zap.Field{
			zap.String("path", path),
			zap.String("method", c.Request.Method),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
			zap.String("request_id", GetRequestID(c)),
		}
		if username := CurrentUsername(c); username != "" {
			fields = append(fields, zap.String("username", username))
		}

		if c.Writer.Status() >= http.StatusInternalServerError {
			m.logger.Error("request completed", fields...)
			return
		}
		m.logger.Info("request completed", fields...)
	}
}
