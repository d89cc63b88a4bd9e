package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Tipos de erro comuns
var (
	ErrValidation     = errors.New("requisição inválida")
	ErrUnauthorized   = errors.New("não autorizado")
	ErrForbidden      = errors.New("acesso negado")
	ErrNotFound       = errors.New("recurso não encontrado")
	ErrConflict       = errors.New("recurso já existe")
	ErrNoData         = errors.New("nenhum dado para exportar")
	ErrTooLarge       = errors.New("requisição muito grande")
	ErrInternalServer = errors.New("erro interno do servidor")
)

// APIError representa um erro da API com informações adicionais
type APIError struct {
	Code        int         `json:"-"`
	Message     string      `json:"message"`
	Details     interface{} `json:"details,omitempty"`
	Kind        error       `json:"-"`
	OriginalErr error       `json:"-"`
}

// Error implementa a interface error
func (e *APIError) Error() string {
	if e.OriginalErr != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.OriginalErr)
	}
	return e.Message
}

// Unwrap permite usar errors.Is e errors.As tanto com a categoria quanto com a causa
func (e *APIError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.OriginalErr != nil {
		errs = append(errs, e.OriginalErr)
	}
	return errs
}

// New cria um novo APIError
func New(code int, kind error, message string, err error) *APIError {
	return &APIError{
		Code:        code,
		Kind:        kind,
		Message:     message,
		OriginalErr: err,
	}
}

// WithDetails adiciona detalhes ao erro
func (e *APIError) WithDetails(details interface{}) *APIError {
	e.Details = details
	return e
}

// Validation cria um erro 400
func Validation(message string, err error) *APIError {
	return New(http.StatusBadRequest, ErrValidation, message, err)
}

// Unauthorized cria um erro 401
func Unauthorized(message string, err error) *APIError {
	if message == "" {
		message = "Acesso não autorizado."
	}
	return New(http.StatusUnauthorized, ErrUnauthorized, message, err)
}

// Forbidden cria um erro 403
func Forbidden(message string, err error) *APIError {
	if message == "" {
		message = "Acesso negado"
	}
	return New(http.StatusForbidden, ErrForbidden, message, err)
}

// NotFound cria um erro 404
func NotFound(message string, err error) *APIError {
	return New(http.StatusNotFound, ErrNotFound, message, err)
}

// Conflict cria um erro 409
func Conflict(message string, err error) *APIError {
	return New(http.StatusConflict, ErrConflict, message, err)
}

// NoData cria o erro 404 devolvido em texto puro pelas exportações vazias
func NoData(message string) *APIError {
	return New(http.StatusNotFound, ErrNoData, message, nil)
}

// TooLarge cria um erro 413
func TooLarge(message string, err error) *APIError {
	if message == "" {
		message = "Requisição excede o tamanho máximo permitido"
	}
	return New(http.StatusRequestEntityTooLarge, ErrTooLarge, message, err)
}

// InternalServer cria um erro 500
func InternalServer(message string, err error) *APIError {
	if message == "" {
		message = "Erro interno do servidor"
	}
	return New(http.StatusInternalServerError, ErrInternalServer, message, err)
}

// StatusCode devolve o código HTTP correspondente a qualquer erro
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}

	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNoData):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// Message devolve a mensagem pública de um erro
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code >= http.StatusInternalServerError && apiErr.OriginalErr != nil {
			return apiErr.OriginalErr.Error()
		}
		return apiErr.Message
	}
	return err.Error()
}
