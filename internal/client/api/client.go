package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/iudanet/loyalty/pkg/api"
)

const (
	// DefaultTimeout - таймаут запроса по умолчанию
	DefaultTimeout = 30 * time.Second
	maxRedirects   = 10
)

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client // запросы без авторизации
	authClient *http.Client // запросы с Bearer токеном
	auth       *authTransport
	logger     *slog.Logger
	baseURL    string
}

// Option настраивает Client
type Option func(*clientOptions)

type clientOptions struct {
	transport http.RoundTripper
	logger    *slog.Logger
	timeout   time.Duration
}

// WithTimeout задает таймаут одного запроса
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithLogger задает логгер клиента
func WithLogger(logger *slog.Logger) Option {
	return func(o *clientOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTransport задает базовый транспорт (по умолчанию http.DefaultTransport)
func WithTransport(rt http.RoundTripper) Option {
	return func(o *clientOptions) {
		if rt != nil {
			o.transport = rt
		}
	}
}

// NewClient создает новый API клиент
func NewClient(baseURL string, opts ...Option) *Client {
	o := clientOptions{
		transport: http.DefaultTransport,
		logger:    slog.Default(),
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}

	auth := &authTransport{base: o.transport, logger: o.logger}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  o.logger,
		auth:    auth,
		httpClient: &http.Client{
			Timeout:       o.timeout,
			Transport:     o.transport,
			CheckRedirect: checkRedirect,
		},
		authClient: &http.Client{
			Timeout:       o.timeout,
			Transport:     auth,
			CheckRedirect: checkRedirect,
		},
	}
}

// UseTokenSource подключает источник токенов для аутентифицированных запросов
func (c *Client) UseTokenSource(source TokenSource) {
	c.auth.setSource(source)
}

// BaseURL возвращает адрес сервера
func (c *Client) BaseURL() string {
	return c.baseURL
}

// checkRedirect ограничивает число редиректов
func checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("stopped after %d redirects", maxRedirects)
	}
	return nil
}

// doRequest выполняет запрос без авторизации
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	return c.do(ctx, c.httpClient, method, path, body, result)
}

// doAuthRequest выполняет запрос с Bearer токеном
func (c *Client) doAuthRequest(ctx context.Context, method, path string, body, result any) error {
	return c.do(ctx, c.authClient, method, path, body, result)
}

func (c *Client) do(ctx context.Context, client *http.Client, method, path string, body, result any) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		// bytes.Reader позволяет транспорту повторить запрос после 401
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrNoTokenSource) {
			c.logger.WarnContext(ctx, "API request unauthorized", "method", method, "path", path, "error", err)
			return err
		}
		c.logger.ErrorContext(ctx, "Network error", "method", method, "path", path, "error", err)
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response body: %w", ErrNetwork, err)
	}

	c.logger.DebugContext(ctx, "API request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Err: statusError(resp.StatusCode)}

		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil {
			apiErr.Message = errResp.Message
			if apiErr.Message == "" {
				apiErr.Message = errResp.Error
			}
		} else {
			apiErr.Message = strings.TrimSpace(string(respBody))
		}

		c.logger.WarnContext(ctx, "API error response", "method", method, "path", path, "status", resp.StatusCode, "message", apiErr.Message)
		return apiErr
	}

	// Декодируем успешный ответ
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
