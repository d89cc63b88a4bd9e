package ratelimit

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryLimiter conta requisições em janelas fixas dentro do processo
type MemoryLimiter struct {
	store *cache.Cache
	now   func() time.Time
}

// NewMemoryLimiter cria um limitador em memória. cleanup define o intervalo
// de remoção das janelas expiradas.
func NewMemoryLimiter(cleanup time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		store: cache.New(cache.NoExpiration, cleanup),
		now:   time.Now,
	}
}

// WithClock substitui o relógio usado para calcular as janelas
func (l *MemoryLimiter) WithClock(now func() time.Time) *MemoryLimiter {
	l.now = now
	return l
}

// Allow implementa Limiter
func (l *MemoryLimiter) Allow(_ context.Context, config LimitConfig) (Result, error) {
	config, err := config.normalize()
	if err != nil {
		return Result{Allowed: true}, err
	}

	key, resetAfter := config.window(l.now())

	count := 1
	if err := l.store.Add(key, 1, resetAfter); err != nil {
		count, err = l.store.IncrementInt(key, 1)
		if err != nil {
			return config.failOpen(resetAfter), err
		}
	}

	return config.result(count, resetAfter), nil
}
