package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNetwork - запрос не получил HTTP ответа (таймаут, нет связи)
	ErrNetwork = errors.New("network error")
	// ErrUnauthorized - сервер отклонил токен, в том числе после повтора
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden - у пользователя нет доступа к ресурсу
	ErrForbidden = errors.New("forbidden")
	// ErrBadRequest - сервер отклонил входные данные
	ErrBadRequest = errors.New("bad request")
	// ErrNotFound - ресурс не найден
	ErrNotFound = errors.New("not found")
	// ErrConflict - конфликт состояния
	ErrConflict = errors.New("conflict")
	// ErrThrottled - слишком много запросов
	ErrThrottled = errors.New("too many requests")
	// ErrServer - ошибка на стороне сервера (5xx)
	ErrServer = errors.New("server error")
	// ErrUnexpectedStatus - прочие не-2xx ответы
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrNoTokenSource - аутентифицированный запрос без подключенной сессии
	ErrNoTokenSource = errors.New("token source is not configured")
)

// APIError - HTTP ответ с кодом вне 2xx
type APIError struct {
	Err        error
	Message    string
	StatusCode int
}

// Error implements error
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server error (%d)", e.StatusCode)
	}
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// Unwrap returns the status sentinel
func (e *APIError) Unwrap() error {
	return e.Err
}

// statusError сопоставляет код ответа с sentinel ошибкой
func statusError(code int) error {
	switch {
	case code == http.StatusBadRequest, code == http.StatusUnprocessableEntity:
		return ErrBadRequest
	case code == http.StatusUnauthorized:
		return ErrUnauthorized
	case code == http.StatusForbidden:
		return ErrForbidden
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusConflict:
		return ErrConflict
	case code == http.StatusTooManyRequests:
		return ErrThrottled
	case code >= http.StatusInternalServerError:
		return ErrServer
	default:
		return ErrUnexpectedStatus
	}
}
