package ratelimit

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// incrWindow conta a tentativa e, na primeira da janela, agenda a expiração da chave
var incrWindow = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return count
`)

// RedisLimiter divide os contadores entre todas as instâncias do serviço
type RedisLimiter struct {
	client *redis.Client
	logger *zap.Logger
	tracer trace.Tracer
	now    func() time.Time
}

// NewRedisClient conecta ao Redis e só devolve o cliente se o PING responder em 5s
func NewRedisClient(ctx context.Context, options *redis.Options, logger *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(options)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Falha ao conectar ao Redis", zap.String("addr", options.Addr), zap.Error(err))
		_ = client.Close()
		return nil, err
	}

	logger.Info("Redis conectado", zap.String("addr", options.Addr), zap.Int("db", options.DB))
	return client, nil
}

func NewRedisLimiter(client *redis.Client, logger *zap.Logger) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		logger: logger,
		tracer: otel.Tracer("provavida.ratelimit"),
		now:    time.Now,
	}
}

// WithClock substitui o relógio usado para calcular as janelas
func (r *RedisLimiter) WithClock(now func() time.Time) *RedisLimiter {
	r.now = now
	return r
}

// Allow implementa Limiter. Se o Redis falhar, a tentativa passa e o erro é devolvido.
func (r *RedisLimiter) Allow(ctx context.Context, config LimitConfig) (Result, error) {
	ctx, span := r.tracer.Start(ctx, "ratelimit.redis.allow", trace.WithAttributes(
		attribute.String("ratelimit.key", config.Key),
		attribute.Int("ratelimit.limit", config.Limit),
	))
	defer span.End()

	config, err := config.normalize()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Result{Allowed: true}, err
	}

	key, resetAfter := config.window(r.now())
	ttl := resetAfter.Milliseconds()
	if ttl < 1 {
		ttl = 1
	}

	count, err := incrWindow.Run(ctx, r.client, []string{key}, ttl).Int()
	if err != nil {
		r.logger.Error("Falha no rate limit do Redis, liberando tentativa",
			zap.String("key", config.Key), zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "redis indisponível")
		return config.failOpen(resetAfter), err
	}

	result := config.result(count, resetAfter)
	span.SetAttributes(
		attribute.Int("ratelimit.count", count),
		attribute.Bool("ratelimit.allowed", result.Allowed),
	)
	return result, nil
}
