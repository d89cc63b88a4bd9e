package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// LimitConfig configura o comportamento do limitador
type LimitConfig struct {
	Key         string        // Chave única para identificar o limite
	Limit       int           // Número máximo de requisições
	Period      time.Duration // Período de tempo para o limite
	BurstFactor float64       // Fator para permitir rajadas (1.0 = sem rajada)
}

// Result é a decisão do limitador para uma requisição
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAfter time.Duration
}

// Limiter decide se uma requisição cabe na janela atual. Em caso de erro a
// requisição é permitida.
type Limiter interface {
	Allow(ctx context.Context, config LimitConfig) (Result, error)
}

func (c LimitConfig) normalize() (LimitConfig, error) {
	if c.Limit <= 0 {
		return c, errors.New("limite deve ser maior que zero")
	}
	if c.Period <= 0 {
		return c, errors.New("período deve ser maior que zero")
	}
	if c.BurstFactor <= 0 {
		c.BurstFactor = 1.0
	}
	return c, nil
}

func (c LimitConfig) burstLimit() int {
	return int(float64(c.Limit) * c.BurstFactor)
}

// window devolve a chave da janela fixa que contém now e quanto falta para ela acabar.
// As duas implementações usam as mesmas janelas, então trocar de backend não
// desloca os limites.
func (c LimitConfig) window(now time.Time) (string, time.Duration) {
	start := now.Truncate(c.Period)
	return fmt.Sprintf("ratelimit:%s:%d", c.Key, start.UnixNano()), start.Add(c.Period).Sub(now)
}

func (c LimitConfig) result(count int, resetAfter time.Duration) Result {
	return Result{
		Allowed:    count <= c.burstLimit(),
		Limit:      c.Limit,
		Remaining:  c.Limit - count,
		ResetAfter: resetAfter,
	}
}

// failOpen é a resposta dada quando o backend falha
func (c LimitConfig) failOpen(resetAfter time.Duration) Result {
	return Result{Allowed: true, Limit: c.Limit, Remaining: c.Limit, ResetAfter: resetAfter}
}
