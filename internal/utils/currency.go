package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Dan9191/credit-service/internal/models"
)

// ParseAmount parses a user-typed amount. A comma marks the BR format ("1.234,56").
// Without a comma, dots grouping digits in threes are thousands separators
// ("5.000", "1.234.567") and anything else is read as a plain decimal ("1234.56").
func ParseAmount(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty amount", models.ErrValidation)
	}
	switch {
	case strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case strings.Count(s, ".") > 1:
		if !thousandsGrouped(s) {
			return 0, fmt.Errorf("%w: invalid amount %q", models.ErrValidation, raw)
		}
		s = strings.ReplaceAll(s, ".", "")
	case thousandsGrouped(s):
		s = strings.ReplaceAll(s, ".", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid amount %q", models.ErrValidation, raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: invalid amount %q", models.ErrValidation, raw)
	}
	return v, nil
}

// thousandsGrouped reports whether s is digits split by dots as in "1.234.567".
// A leading "0" group ("0.500") stays a decimal.
func thousandsGrouped(s string) bool {
	groups := strings.Split(s, ".")
	if len(groups) < 2 {
		return false
	}
	lead := strings.TrimPrefix(groups[0], "-")
	if len(lead) == 0 || len(lead) > 3 || lead[0] == '0' || !allDigits(lead) {
		return false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 || !allDigits(g) {
			return false
		}
	}
	return true
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FormatBRL renders an amount as "R$ 1.234,56"
func FormatBRL(v float64) string {
	return "R$ " + FormatAmount(v)
}

// FormatAmount renders an amount with "." thousands and "," decimals
func FormatAmount(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}
