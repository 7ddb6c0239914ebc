package models

import (
	"fmt"
)

// cardPrefix - префикс внутренних номеров EAN-13 (диапазон 200-299)
const cardPrefix = "2"

// NewCardNumber возвращает номер карты EAN-13 для пользователя:
// префикс, ID с ведущими нулями (11 цифр) и контрольная цифра
func NewCardNumber(userID int64) (string, error) {
	if userID <= 0 || userID > 99_999_999_999 {
		return "", fmt.Errorf("user id %d out of card number range", userID)
	}
	body := fmt.Sprintf("%s%011d", cardPrefix, userID)
	return body + string(rune('0'+ean13CheckDigit(body))), nil
}

// ValidCardNumber проверяет длину и контрольную цифру EAN-13
func ValidCardNumber(number string) bool {
	if len(number) != 13 {
		return false
	}
	for _, ch := range number {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return int(number[12]-'0') == ean13CheckDigit(number[:12])
}

// ean13CheckDigit считает контрольную цифру по первым 12 цифрам:
// нечетные позиции с весом 1, четные с весом 3
func ean13CheckDigit(digits string) int {
	sum := 0
	for i := 0; i < 12; i++ {
		d := int(digits[i] - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	return (10 - sum%10) % 10
}
