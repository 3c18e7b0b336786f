package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkup(t *testing.T) {
	assert.Equal(t, int64(1000), Markup(10000, 10))
	assert.Equal(t, int64(0), Markup(0, 10))
	assert.Equal(t, int64(1), Markup(10, 10))
	// rounds to nearest cent
	assert.Equal(t, int64(2), Markup(15, 10))
	assert.Equal(t, int64(1250), Markup(10000, 12.5))
}

func TestApplyMarkup(t *testing.T) {
	assert.Equal(t, int64(11000), ApplyMarkup(10000, 10))
	assert.Equal(t, int64(10000), ApplyMarkup(10000, 0))
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$123.45", FormatCurrency(12345, "USD"))
	assert.Equal(t, "$0.05", FormatCurrency(5, "USD"))
	assert.Equal(t, "€10.00", FormatCurrency(1000, "EUR"))
	assert.Equal(t, "£99.99", FormatCurrency(9999, "GBP"))
	assert.Equal(t, "12.34 CHF", FormatCurrency(1234, "CHF"))
}

func TestNewPrice(t *testing.T) {
	p := NewPrice(22000, "USD")
	assert.Equal(t, int64(22000), p.Amount)
	assert.Equal(t, "USD", p.Currency)
	assert.Equal(t, "$220.00", p.DisplayAmount)
}
