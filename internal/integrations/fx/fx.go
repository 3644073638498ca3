// Package fx looks up currency quotes from external rate services.
package fx

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dan9191/credit-service/internal/models"
)

// ErrCurrencyNotFound means the rate service answered but does not quote the currency.
// It is always wrapped together with models.ErrExternalUnavailable.
var ErrCurrencyNotFound = errors.New("currency not found")

// DefaultBase is the currency quotes are expressed against
const DefaultBase = "USD"

// Quote is the price of one unit of Base in Currency
type Quote struct {
	Base      string  `json:"base"`
	Currency  string  `json:"currency"`
	Rate      float64 `json:"rate"`
	UpdatedAt string  `json:"updated_at,omitempty"`
	Source    string  `json:"source"`
}

// Provider returns the current quote for base→quote. Failures wrap models.ErrExternalUnavailable.
type Provider interface {
	Rate(ctx context.Context, base, quote string) (*Quote, error)
}

// NormalizeCode upper-cases a currency code and checks it has three letters
func NormalizeCode(code string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if len(c) != 3 {
		return "", fmt.Errorf("%w: invalid currency code %q", models.ErrValidation, code)
	}
	for _, r := range c {
		if r < 'A' || r > 'Z' {
			return "", fmt.Errorf("%w: invalid currency code %q", models.ErrValidation, code)
		}
	}
	return c, nil
}

func unavailable(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", models.ErrExternalUnavailable, fmt.Sprintf(format, args...))
}

func currencyNotFound(code string) error {
	return fmt.Errorf("%w: %w: %s", models.ErrExternalUnavailable, ErrCurrencyNotFound, code)
}
