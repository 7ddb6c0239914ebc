package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const (
	// MinFullNameLen минимальная длина имени в символах
	MinFullNameLen = 2
	// MaxFullNameLen максимальная длина имени в символах
	MaxFullNameLen = 100
	// BirthDateLayout - формат даты рождения
	BirthDateLayout = "2006-01-02"
)

// NormalizeFullName приводит имя к NFC и схлопывает пробелы.
// Одинаковые имена, набранные на разных клавиатурах, дают одну строку.
func NormalizeFullName(name string) string {
	return norm.NFC.String(strings.Join(strings.Fields(name), " "))
}

// ValidateFullName проверяет уже нормализованное имя:
// буквы, пробелы, апостроф и дефис, 2-100 символов
func ValidateFullName(name string) error {
	if name == "" {
		return fmt.Errorf("full name cannot be empty")
	}

	n := utf8.RuneCountInString(name)
	if n < MinFullNameLen {
		return fmt.Errorf("full name must be at least %d characters long", MinFullNameLen)
	}
	if n > MaxFullNameLen {
		return fmt.Errorf("full name must not exceed %d characters", MaxFullNameLen)
	}

	for _, r := range name {
		switch {
		case unicode.IsLetter(r), unicode.Is(unicode.Mn, r):
		case r == ' ', r == '\'', r == '-', r == '’':
		default:
			return fmt.Errorf("full name can only contain letters, spaces, apostrophes and hyphens")
		}
	}

	return nil
}

// ValidateEmail проверяет адрес электронной почты
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@"):], ".") {
		return fmt.Errorf("invalid email address")
	}

	return nil
}

// ValidateBirthDate проверяет дату рождения в формате YYYY-MM-DD,
// которая не может быть в будущем относительно now
func ValidateBirthDate(date string, now time.Time) error {
	if date == "" {
		return fmt.Errorf("birth date cannot be empty")
	}

	parsed, err := time.Parse(BirthDateLayout, date)
	if err != nil {
		return fmt.Errorf("birth date must be in YYYY-MM-DD format")
	}

	if parsed.After(now) {
		return fmt.Errorf("birth date cannot be in the future")
	}

	return nil
}
