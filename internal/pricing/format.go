package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FormatPrice renders a money amount for display, e.g. "$32.00".
func FormatPrice(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

// FormatSavings renders a savings callout, e.g. "Save $8.00".
func FormatSavings(amount decimal.Decimal) string {
	return "Save " + FormatPrice(amount)
}

// FormatDiscountPercentage renders a discount badge label, e.g. "20% off".
// Whole percentages drop the fractional part; others keep one decimal place.
func FormatDiscountPercentage(percent decimal.Decimal) string {
	rounded := percent.Round(0)
	if percent.Equal(rounded) {
		return fmt.Sprintf("%s%% off", rounded.String())
	}
	return fmt.Sprintf("%s%% off", percent.StringFixed(1))
}
