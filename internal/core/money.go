// Package core provides amount parsing and currency formatting utilities.
//
// All quantities and monetary amounts in the ledgers are decimals; float64
// never appears in records or aggregates. The display currency is the CFA
// franc, which has no minor unit, so formatting rounds to whole francs.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a decimal string into a non-negative amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. A
// missing, empty, negative, or non-numeric value is rejected with
// ErrInvalidNumber rather than silently propagating into aggregates.
//
// Examples:
//
//	ParseAmount("12.5")  -> 12.5, nil
//	ParseAmount("12,5")  -> 12.5, nil
//	ParseAmount("0")     -> 0, nil
//	ParseAmount("")      -> 0, ErrInvalidNumber
//	ParseAmount("-3")    -> 0, ErrInvalidNumber
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidNumber
	}
	s = strings.ReplaceAll(s, ",", ".")
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '.' {
			return decimal.Zero, ErrInvalidNumber
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidNumber
	}
	if d.IsNegative() {
		return decimal.Zero, ErrInvalidNumber
	}
	return d, nil
}

// FormatFCFA formats an amount as a whole-franc CFA string, e.g. "1 500 FCFA".
// Fractions are rounded half-up; thousands are grouped with spaces.
func FormatFCFA(d decimal.Decimal) string {
	whole := d.Round(0)
	neg := whole.IsNegative()
	digits := whole.Abs().BigInt().String()

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte(' ')
		b.WriteString(digits[i : i+3])
	}
	b.WriteString(" FCFA")
	return b.String()
}
