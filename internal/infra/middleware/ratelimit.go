package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/leandrowaltz/provavida/internal/infra/metrics"
	"github.com/leandrowaltz/provavida/pkg/ratelimit"
	"go.uber.org/zap"
)

// RateLimitMiddleware limita tentativas por IP
type RateLimitMiddleware struct {
	limiter ratelimit.Limiter
	logger  *zap.Logger
	metrics *metrics.APIMetrics
	limit   int
	period  time.Duration
}

// NewRateLimitMiddleware cria um novo middleware de rate limiting
func NewRateLimitMiddleware(limiter ratelimit.Limiter, limit int, period time.Duration, m *metrics.APIMetrics, logger *zap.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
		logger:  logger,
		metrics: m,
		limit:   limit,
		period:  period,
	}
}

// IPRateLimit limita as requisições de cada IP dentro do escopo informado
func (m *RateLimitMiddleware) IPRateLimit(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		result, err := m.limiter.Allow(c.Request.Context(), ratelimit.LimitConfig{
			Key:    scope + ":" + clientIP,
			Limit:  m.limit,
			Period: m.period,
		})
		if err != nil {
			m.logger.Error("erro ao verificar rate limit", zap.Error(err))
			c.Next() // Em caso de erro, permite a requisição
			return
		}

		remaining := result.Remaining
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(result.ResetAfter).Unix(), 10))

		if !result.Allowed {
			path := c.FullPath()
			if path == "" {
				path = c.Request.URL.Path
			}
			m.metrics.RateLimitExceeded(path, c.Request.Method, scope)
			m.logger.Warn("Limite de tentativas excedido",
				zap.String("ip", clientIP),
				zap.String("scope", scope))

			retryAfter := int(result.ResetAfter.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Muitas tentativas. Tente novamente mais tarde.",
				"retry_after": retryAfter,
			})
			return
		}

		c.Next()
	}
}
