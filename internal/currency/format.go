package currency

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"ledgerdash/internal/core"
)

// Format converts a base-currency amount into code and renders it with the
// currency symbol, two fraction digits and thousands grouping.
func (t *Table) Format(amount core.Money, code Code) string {
	return t.FormatConverted(t.Convert(amount, code), code)
}

// FormatConverted renders an amount that is already expressed in code.
// Digits come straight from the integer cents, so any int64 renders exactly.
func (t *Table) FormatConverted(amount core.Money, code Code) string {
	c := t.must(code)

	sign := ""
	whole, frac := amount.Cents/100, amount.Cents%100
	if amount.Cents < 0 {
		sign = "-"
		whole, frac = -whole, -frac
	}
	digits := fmt.Sprintf("%s.%02d", humanize.Comma(whole), frac)

	if c.Placement == Suffix {
		return sign + digits + " " + c.Symbol
	}
	return sign + c.Symbol + digits
}
