package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	phonePattern     = regexp.MustCompile(`^(\+7|8)\d{10}$`)
	birthDatePattern = regexp.MustCompile(`^(0[1-9]|[12][0-9]|3[01])\.(0[1-9]|1[0-2])\.(19|20)\d{2}$`)
	phoneCleaner     = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

// NormalizePhone убирает пробелы, дефисы и скобки и проверяет формат +7XXXXXXXXXX / 8XXXXXXXXXX
func NormalizePhone(phone string) (string, error) {
	cleaned := phoneCleaner.Replace(strings.TrimSpace(phone))
	if !phonePattern.MatchString(cleaned) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
	}
	return cleaned, nil
}

// ValidateBirthDate проверяет дату рождения ДД.ММ.ГГГГ, которая не может быть в будущем
func ValidateBirthDate(s string, now time.Time) error {
	s = strings.TrimSpace(s)
	if !birthDatePattern.MatchString(s) {
		return fmt.Errorf("%w: %q", ErrInvalidBirthDate, s)
	}
	t, err := time.ParseInLocation("02.01.2006", s, now.Location())
	if err != nil {
		// 31.02 и подобные
		return fmt.Errorf("%w: %q", ErrInvalidBirthDate, s)
	}
	if t.After(now) {
		return fmt.Errorf("%w: %q is in the future", ErrInvalidBirthDate, s)
	}
	return nil
}

// ShortName сокращает ФИО до вида "Фамилия И.О."
func ShortName(fullName string) string {
	parts := strings.Fields(fullName)
	switch {
	case len(parts) >= 3:
		return fmt.Sprintf("%s %s.%s.", parts[0], firstRune(parts[1]), firstRune(parts[2]))
	case len(parts) == 2:
		return fmt.Sprintf("%s %s.", parts[0], firstRune(parts[1]))
	default:
		return fullName
	}
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}
