package handlers

import (
	"context"
	"log/slog"
)

// CodeSender доставляет одноразовый код пользователю
type CodeSender interface {
	SendCode(ctx context.Context, phone, code string) error
}

// LogSender пишет код в лог вместо отправки SMS. Только для разработки.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender создает LogSender
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

// SendCode implements CodeSender
func (s *LogSender) SendCode(ctx context.Context, phone, code string) error {
	s.logger.InfoContext(ctx, "one-time code issued",
		slog.String("phone", phone),
		slog.String("code", code))
	return nil
}
