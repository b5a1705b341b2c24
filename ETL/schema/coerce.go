package schema

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDate разбирает значение даты, перебирая допустимые форматы по порядку
func ParseDate(value string, formats []string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("пустое значение даты")
	}

	for _, format := range formats {
		if t, err := time.Parse(format, value); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("значение %q не соответствует ни одному из форматов даты", value)
}

// ParseNumber разбирает числовое значение.
// Учетная система пишет разделители тысяч запятыми и обычными пробелами.
func ParseNumber(value string) (float64, error) {
	cleaned := strings.TrimSpace(value)
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")

	if cleaned == "" {
		return 0, fmt.Errorf("пустое числовое значение")
	}

	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("значение %q не является числом", value)
	}

	return n, nil
}
