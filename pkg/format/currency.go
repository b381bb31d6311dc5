// Package format renders amounts for display.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/study-estimator/pkg/constants"
)

// Currency formats amount in the given currency code. INR uses the Indian
// numbering system (₹1,23,45,678.90); USD and anything unrecognised use
// Western thousands grouping with a dollar sign.
func Currency(amount float64, code string) string {
	if amount < 0 {
		return "-" + Symbol(code) + NumericCurrency(-amount, code)
	}
	return Symbol(code) + NumericCurrency(amount, code)
}

// NumericCurrency returns an amount with the grouping of the given currency
// but without a symbol (e.g., "-1,234.56", "1,23,456.00").
func NumericCurrency(amount float64, code string) string {
	group := westernGrouping
	if isINR(code) {
		group = indianGrouping
	}
	formatted := formatPositive(math.Abs(amount), group)
	if amount < 0 {
		return "-" + formatted
	}
	return formatted
}

// Symbol returns the display symbol for a currency code.
func Symbol(code string) string {
	if isINR(code) {
		return "₹"
	}
	return "$"
}

func isINR(code string) bool {
	return strings.EqualFold(strings.TrimSpace(code), constants.CurrencyINR)
}

func formatPositive(value float64, group func(string) string) string {
	formatted := fmt.Sprintf("%.2f", value)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}
	return group(intPart) + "." + decPart
}

func westernGrouping(intPart string) string {
	if len(intPart) <= 3 {
		return intPart
	}
	var builder strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			builder.WriteByte(',')
		}
		builder.WriteRune(digit)
	}
	return builder.String()
}

func indianGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	remaining := s[:n-3]
	for len(remaining) > 2 {
		result = remaining[len(remaining)-2:] + "," + result
		remaining = remaining[:len(remaining)-2]
	}
	if len(remaining) > 0 {
		result = remaining + "," + result
	}
	return result
}
