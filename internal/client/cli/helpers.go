package cli

import (
	"strings"
	"time"
)

// formatCardNumber разбивает номер EAN-13 на группы 1-6-6
func formatCardNumber(number string) string {
	if len(number) != 13 {
		return number
	}
	return number[:1] + " " + number[1:7] + " " + number[7:]
}

func orDash(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return "-"
	}
	return *s
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
