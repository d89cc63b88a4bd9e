package middleware

import (
	"errors"
	"net"
	"net/http"
	"os"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/leandrowaltz/provavida/internal/infra/metrics"
	"go.uber.org/zap"
)

// RecoveryMiddleware transforma pânicos de handlers em respostas 500
type RecoveryMiddleware struct {
	logger  *zap.Logger
	metrics *metrics.APIMetrics
}

// NewRecoveryMiddleware cria o middleware; metrics pode ser nil
func NewRecoveryMiddleware(logger *zap.Logger, m *metrics.APIMetrics) *RecoveryMiddleware {
	return &RecoveryMiddleware{
		logger:  logger,
		metrics: m,
	}
}

// Recovery registra o pânico com o request id e o usuário da requisição.
// Se o cliente já desconectou, apenas aborta.
func (m *RecoveryMiddleware) Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			path := c.FullPath()
			if path == "" {
				path = c.Request.URL.Path
			}

			if brokenPipe(rec) {
				m.logger.Warn("conexão encerrada pelo cliente",
					zap.String("path", path),
					zap.String("request_id", GetRequestID(c)),
					zap.Any("error", rec))
				c.Abort()
				return
			}

			m.metrics.RequestError(path, c.Request.Method, "panic")
			m.logger.Error("recuperado de pânico",
				zap.Any("error", rec),
				zap.String("path", path),
				zap.String("method", c.Request.Method),
				zap.String("request_id", GetRequestID(c)),
				zap.String("username", CurrentUsername(c)),
				zap.ByteString("stack", debug.Stack()),
			)

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":      "Erro interno do servidor",
				"request_id": GetRequestID(c),
			})
		}()

		c.Next()
	}
}

func brokenPipe(rec interface{}) bool {
	err, ok := rec.(error)
	if !ok {
		return false
	}
	if errors.Is(err, syscall.EPIPE) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		var sysErr *os.SyscallError
		if errors.As(opErr.Err, &sysErr) {
			msg := strings.ToLower(sysErr.Error())
			return strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer")
		}
	}
	return false
}
