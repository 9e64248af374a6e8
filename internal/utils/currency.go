package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// All money in this codebase is carried as integer cents to avoid
// floating-point drift. These helpers only exist at the edges: formatting
// for display and parsing user-supplied dollar amounts.

func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

func CentsToDollars(cents int64) float64 {
	return float64(cents) / 100
}

// DollarsToCents converts a dollar amount to cents, rounding to the nearest
// cent. Used when ingesting amounts from sources that deal in floats.
func DollarsToCents(dollars float64) int64 {
	return int64(math.Round(dollars * 100))
}

// ParseDollarAmount parses strings like "129.99", "$129.99" or "1,299" into
// cents.
func ParseDollarAmount(s string) (int64, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")

	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if amount < 0 {
		return 0, fmt.Errorf("amount %q is negative", s)
	}

	return DollarsToCents(amount), nil
}
