// Package currency converts canonical amounts into display currencies.
//
// Every amount stored or aggregated elsewhere is in base-currency cents. This
// package is the only place an exchange rate is applied. Rates are fixed and
// injected through a Table; an unknown currency code is a programming error.
package currency

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"ledgerdash/internal/core"
)

const (
	CZK Code = "CZK"
	EUR Code = "EUR"
	USD Code = "USD"
)

const (
	// Prefix renders the symbol before the digits: €93.00
	Prefix Placement = iota
	// Suffix renders the symbol after the digits and a space: 2,350.00 Kč
	Suffix
)

type (
	// Code is an ISO-style currency identifier.
	Code string

	Placement int

	Currency struct {
		Code      Code
		Symbol    string
		Name      string
		Rate      decimal.Decimal // units of this currency per base unit
		Placement Placement
	}

	// Table is an immutable set of currencies with fixed rates against Base.
	Table struct {
		base  Code
		order []Code
		byKey map[Code]Currency
	}
)

var (
	ErrUnknownCurrency = errors.New("unknown currency")
	ErrInvalidRate     = errors.New("invalid exchange rate")
	ErrDuplicateCode   = errors.New("duplicate currency code")
	ErrBaseRate        = errors.New("base currency rate must be 1")
)

var defaultTable = mustTable(CZK,
	Currency{Code: CZK, Symbol: "Kč", Name: "Czech koruna", Rate: decimal.NewFromInt(1), Placement: Suffix},
	Currency{Code: EUR, Symbol: "€", Name: "Euro", Rate: decimal.RequireFromString("0.04"), Placement: Prefix},
	Currency{Code: USD, Symbol: "$", Name: "US dollar", Rate: decimal.RequireFromString("0.043"), Placement: Prefix},
)

// Default returns the shipped rate table. CZK is the base currency.
func Default() *Table {
	return defaultTable
}

// NewTable validates and freezes a rate table. The base currency must be
// among the given currencies with a rate of exactly 1, and every other rate
// must lie in (0, 1]. A cent of base is then never larger than a cent of the
// target, which keeps Convert(ToBase(x)) within one cent of x.
func NewTable(base Code, currencies ...Currency) (*Table, error) {
	t := &Table{
		base:  base,
		order: make([]Code, 0, len(currencies)),
		byKey: make(map[Code]Currency, len(currencies)),
	}
	for _, c := range currencies {
		if _, dup := t.byKey[c.Code]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCode, c.Code)
		}
		if !c.Rate.IsPositive() {
			return nil, fmt.Errorf("%w: %s rate %s", ErrInvalidRate, c.Code, c.Rate)
		}
		if c.Code != base && c.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return nil, fmt.Errorf("%w: %s rate %s is above 1", ErrInvalidRate, c.Code, c.Rate)
		}
		t.byKey[c.Code] = c
		t.order = append(t.order, c.Code)
	}
	b, ok := t.byKey[base]
	if !ok {
		return nil, fmt.Errorf("%w: base %s", ErrUnknownCurrency, base)
	}
	if !b.Rate.Equal(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("%w: %s has rate %s", ErrBaseRate, base, b.Rate)
	}
	return t, nil
}

func mustTable(base Code, currencies ...Currency) *Table {
	t, err := NewTable(base, currencies...)
	if err != nil {
		panic(err)
	}
	return t
}

// Base returns the canonical currency code.
func (t *Table) Base() Code { return t.base }

// Codes lists the supported codes in declaration order.
func (t *Table) Codes() []Code {
	out := make([]Code, len(t.order))
	copy(out, t.order)
	return out
}

// Currencies lists the supported currencies in declaration order.
func (t *Table) Currencies() []Currency {
	out := make([]Currency, 0, len(t.order))
	for _, c := range t.order {
		out = append(out, t.byKey[c])
	}
	return out
}

// Lookup returns the currency for code or ErrUnknownCurrency.
func (t *Table) Lookup(code Code) (Currency, error) {
	c, ok := t.byKey[code]
	if !ok {
		return Currency{}, fmt.Errorf("%w: %q", ErrUnknownCurrency, string(code))
	}
	return c, nil
}

// ParseCode normalises user input ("eur ", "Eur") into a supported code.
func (t *Table) ParseCode(s string) (Code, error) {
	code := Code(strings.ToUpper(strings.TrimSpace(s)))
	if _, err := t.Lookup(code); err != nil {
		return "", err
	}
	return code, nil
}

func (t *Table) must(code Code) Currency {
	c, err := t.Lookup(code)
	if err != nil {
		panic(err)
	}
	return c
}

// Convert turns a base-currency amount into the target currency, rounding
// half-up to a whole cent exactly once. Panics on an unknown code.
func (t *Table) Convert(amount core.Money, to Code) core.Money {
	c := t.must(to)
	v := decimal.NewFromInt(amount.Cents).Mul(c.Rate).Round(0)
	return core.Money{Cents: v.IntPart()}
}

// ToBase turns an amount entered in the source currency into base-currency
// cents, rounding once. Panics on an unknown code.
func (t *Table) ToBase(amount core.Money, from Code) core.Money {
	c := t.must(from)
	v := decimal.NewFromInt(amount.Cents).Div(c.Rate).Round(0)
	return core.Money{Cents: v.IntPart()}
}

// Symbol returns the display symbol. Panics on an unknown code.
func (t *Table) Symbol(code Code) string {
	return t.must(code).Symbol
}

// Name returns the display name. Panics on an unknown code.
func (t *Table) Name(code Code) string {
	return t.must(code).Name
}
