// Package pricing applies the configurable agency markup to base fares and
// builds display-ready prices.
package pricing

import (
	"fmt"
	"math"

	"github.com/viyahe/corptravel/internal/domain"
)

// DefaultMarkupPercent is used when the config does not set one.
const DefaultMarkupPercent = 10.0

// Markup returns the markup amount in cents, rounded to the nearest cent.
func Markup(cents int64, percent float64) int64 {
	return int64(math.Round(float64(cents) * percent / 100))
}

// ApplyMarkup returns the price in cents after markup.
func ApplyMarkup(cents int64, percent float64) int64 {
	return cents + Markup(cents, percent)
}

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// FormatCurrency renders cents as a display string, e.g. "$123.45".
func FormatCurrency(cents int64, currency string) string {
	whole := cents / 100
	frac := cents % 100
	if frac < 0 {
		frac = -frac
	}
	if sym, ok := currencySymbols[currency]; ok {
		return fmt.Sprintf("%s%d.%02d", sym, whole, frac)
	}
	return fmt.Sprintf("%d.%02d %s", whole, frac, currency)
}

// NewPrice builds a Price with its display string.
func NewPrice(cents int64, currency string) domain.Price {
	return domain.Price{
		Amount:        cents,
		Currency:      currency,
		DisplayAmount: FormatCurrency(cents, currency),
	}
}
