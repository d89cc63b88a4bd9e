package logging

import (
	"context"
	"fmt"

	"github.com/leandrowaltz/provavida/pkg/config"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ContextLogger acrescenta aos logs os dados da requisição guardados no contexto
type ContextLogger struct {
	*zap.Logger
}

// NewLogger cria o logger da aplicação a partir da configuração de logging
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	zapConfig := zap.NewProductionConfig()
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder

	if cfg.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("nível de log inválido %q: %w", cfg.Level, err)
		}
		zapConfig.Level = zap.NewAtomicLevelAt(level)
	}

	if cfg.Format == "console" {
		zapConfig.Encoding = "console"
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	if cfg.OutputPath != "" {
		zapConfig.OutputPaths = []string{cfg.OutputPath}
	}
	if cfg.ErrorPath != "" {
		zapConfig.ErrorOutputPaths = []string{cfg.ErrorPath}
	}

	return zapConfig.Build(
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
}

type ctxKey int

const (
	requestIDKey ctxKey = iota
	usernameKey
)

// WithRequestID guarda no contexto o identificador da requisição HTTP
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithUsername guarda no contexto o atendente autenticado
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameKey, username)
}

// CPF registra o CPF com os dígitos do meio ocultos, ex. 123.***.***-00
func CPF(cpf string) zap.Field {
	return zap.String("cpf", MaskCPF(cpf))
}

// MaskCPF oculta os seis dígitos centrais de um CPF formatado.
// Valores fora do formato são ocultados por inteiro.
func MaskCPF(cpf string) string {
	if len(cpf) != 14 || cpf[3] != '.' || cpf[7] != '.' || cpf[11] != '-' {
		return "***"
	}
	return cpf[:4] + "***.***" + cpf[11:]
}

func NewContextLogger(logger *zap.Logger) *ContextLogger {
	return &ContextLogger{Logger: logger}
}

func (l *ContextLogger) With(fields ...zap.Field) *ContextLogger {
	return &ContextLogger{Logger: l.Logger.With(fields...)}
}

func (l *ContextLogger) InfoCtx(ctx context.Context, msg string, fields ...zap.Field) {
	l.Info(msg, contextFields(ctx, fields)...)
}

func (l *ContextLogger) ErrorCtx(ctx context.Context, msg string, fields ...zap.Field) {
	l.Error(msg, contextFields(ctx, fields)...)
}

func (l *ContextLogger) WarnCtx(ctx context.Context, msg string, fields ...zap.Field) {
	l.Warn(msg, contextFields(ctx, fields)...)
}

func (l *ContextLogger) DebugCtx(ctx context.Context, msg string, fields ...zap.Field) {
	l.Debug(msg, contextFields(ctx, fields)...)
}

// contextFields acrescenta request id, atendente e trace do contexto
func contextFields(ctx context.Context, fields []zap.Field) []zap.Field {
	if id, ok := ctx.Value(requestIDKey).(string); ok && id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if username, ok := ctx.Value(usernameKey).(string); ok && username != "" {
		fields = append(fields, zap.String("username", username))
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}
	return fields
}
