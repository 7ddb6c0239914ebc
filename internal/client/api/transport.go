package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
)

// TokenSource выдает access token и обновляет его после 401
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
	Refresh(ctx context.Context, staleToken string) (string, error)
}

// authTransport добавляет Bearer токен к запросам. Ответ 401 приводит
// к одному обновлению токена и одному повтору запроса; повторный 401
// возвращается вызывающему как есть.
type authTransport struct {
	base   http.RoundTripper
	source TokenSource
	logger *slog.Logger
	mu     sync.RWMutex
}

func (t *authTransport) setSource(source TokenSource) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.source = source
}

func (t *authTransport) tokenSource() TokenSource {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.source
}

// RoundTrip implements http.RoundTripper
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	source := t.tokenSource()
	if source == nil {
		return nil, ErrNoTokenSource
	}

	token, err := source.AccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	resp, err := t.base.RoundTrip(withBearer(req, token))
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	// Тело нельзя отправить повторно - отдаем 401 как есть
	if req.Body != nil && req.Body != http.NoBody && req.GetBody == nil {
		return resp, nil
	}

	drainBody(resp.Body)
	t.logger.DebugContext(ctx, "Got 401, refreshing access token", "method", req.Method, "path", req.URL.Path)

	newToken, err := source.Refresh(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	retry := req.Clone(ctx)
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("failed to rewind request body: %w", err)
		}
		retry.Body = body
	}

	return t.base.RoundTrip(withBearer(retry, newToken))
}

// withBearer возвращает копию запроса с заголовком Authorization
func withBearer(req *http.Request, token string) *http.Request {
	r := req.Clone(req.Context())
	r.Body = req.Body
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}

func drainBody(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 64<<10))
	_ = body.Close()
}
