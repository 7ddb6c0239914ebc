package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// PhonePattern - номер в формате E.164: "+" и 10-15 цифр
var PhonePattern = regexp.MustCompile(`^\+[1-9][0-9]{9,14}$`)

// CodePattern - одноразовый код из SMS
var CodePattern = regexp.MustCompile(`^[0-9]{5}$`)

// CodeLength - количество цифр в одноразовом коде
const CodeLength = 5

var phoneReplacer = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")

// NormalizePhone убирает пробелы, дефисы и скобки из введенного номера
func NormalizePhone(phone string) string {
	return phoneReplacer.Replace(strings.TrimSpace(phone))
}

// ValidatePhone проверяет, что номер в формате E.164
func ValidatePhone(phone string) error {
	if phone == "" {
		return fmt.Errorf("phone cannot be empty")
	}

	if !PhonePattern.MatchString(phone) {
		return fmt.Errorf("phone must be in international format, e.g. +380501234567")
	}

	return nil
}

// ValidateCode проверяет одноразовый код
func ValidateCode(code string) error {
	if code == "" {
		return fmt.Errorf("code cannot be empty")
	}

	if !CodePattern.MatchString(code) {
		return fmt.Errorf("code must be %d digits", CodeLength)
	}

	return nil
}

// MaskPhone скрывает середину номера для логов: "+380*******67"
func MaskPhone(phone string) string {
	const head, tail = 4, 2
	if len(phone) <= head+tail {
		return strings.Repeat("*", len(phone))
	}
	return phone[:head] + strings.Repeat("*", len(phone)-head-tail) + phone[len(phone)-tail:]
}
