package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/leandrowaltz/provavida/internal/infra/metrics"
	"go.uber.org/zap"
)

// MetricsMiddleware alimenta as métricas HTTP do Prometheus
type MetricsMiddleware struct {
	metrics  *metrics.APIMetrics
	logger   *zap.Logger
	endpoint string
}

func NewMetricsMiddleware(m *metrics.APIMetrics, logger *zap.Logger) *MetricsMiddleware {
	return &MetricsMiddleware{
		metrics: m,
		logger:  logger,
	}
}

// RegisterEndpoint expõe as métricas no caminho informado. As coletas do
// próprio endpoint não entram nas métricas.
func (m *MetricsMiddleware) RegisterEndpoint(router gin.IRoutes, path string) {
	m.endpoint = path
	router.GET(path, gin.WrapH(m.metrics.Handler()))
	m.logger.Info("Endpoint de métricas Prometheus registrado", zap.String("path", path))
}

// Middleware mede cada requisição pelo padrão da rota, nunca pelo caminho
// com o CPF. Health checks e o endpoint de métricas são ignorados.
func (m *MetricsMiddleware) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if m.skip(path) {
			c.Next()
			return
		}
		if path == "" {
			path = "unknown"
		}
		method := c.Request.Method

		m.metrics.RequestStarted(path, method)
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		requestSize := int(c.Request.ContentLength)
		if requestSize < 0 {
			requestSize = 0
		}
		responseSize := c.Writer.Size()
		if responseSize < 0 {
			responseSize = 0
		}
		m.metrics.RequestCompleted(path, method, strconv.Itoa(status), time.Since(start), requestSize, responseSize)

		if kind := errorKind(status); kind != "" {
			m.metrics.RequestError(path, method, kind)
		}
	}
}

func (m *MetricsMiddleware) skip(path string) bool {
	if m.endpoint != "" && path == m.endpoint {
		return true
	}
	return path == "/health" || strings.HasPrefix(path, "/health/")
}

// errorKind separa falhas de autenticação e de rate limit dos demais erros
func errorKind(status int) string {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return "auth"
	case status == http.StatusTooManyRequests:
		return "rate_limited"
	case status >= http.StatusInternalServerError:
		return "server_error"
	case status >= http.StatusBadRequest:
		return "client_error"
	default:
		return ""
	}
}
