package currency

import (
	"context"

	"ledgerdash/internal/core"
)

// Preferences persists the display currency a user selected. Implementations
// live in the storage package.
type Preferences interface {
	DisplayCurrency(ctx context.Context, user core.UserID) (Code, error)
	SetDisplayCurrency(ctx context.Context, user core.UserID, code Code) error
}

// Formatter binds a table to one display currency so callers can select once
// and format everywhere without consulting shared state.
type Formatter struct {
	table   *Table
	display Code
}

// NewFormatter validates display against the table.
func NewFormatter(table *Table, display Code) (Formatter, error) {
	if _, err := table.Lookup(display); err != nil {
		return Formatter{}, err
	}
	return Formatter{table: table, display: display}, nil
}

func (f Formatter) Display() Code { return f.display }

func (f Formatter) Table() *Table { return f.table }

// Format renders a base-currency amount in the display currency.
func (f Formatter) Format(amount core.Money) string {
	return f.table.Format(amount, f.display)
}

// Convert converts a base-currency amount into the display currency.
func (f Formatter) Convert(amount core.Money) core.Money {
	return f.table.Convert(amount, f.display)
}

type selectionKey struct{}

// WithSelection stores the active display currency on ctx.
func WithSelection(ctx context.Context, code Code) context.Context {
	return context.WithValue(ctx, selectionKey{}, code)
}

// SelectionFrom returns the display currency stored on ctx, or fallback.
func SelectionFrom(ctx context.Context, fallback Code) Code {
	if code, ok := ctx.Value(selectionKey{}).(Code); ok && code != "" {
		return code
	}
	return fallback
}

// Resolve picks the display currency for a user: an explicit request wins,
// then the stored preference, then the configured default.
func Resolve(ctx context.Context, table *Table, prefs Preferences, user core.UserID, requested string, fallback Code) (Code, error) {
	if requested != "" {
		return table.ParseCode(requested)
	}
	if code := SelectionFrom(ctx, ""); code != "" {
		if _, err := table.Lookup(code); err != nil {
			return "", err
		}
		return code, nil
	}
	if prefs != nil && user != "" {
		code, err := prefs.DisplayCurrency(ctx, user)
		if err != nil {
			return "", err
		}
		if code != "" {
			if _, err := table.Lookup(code); err != nil {
				return "", err
			}
			return code, nil
		}
	}
	if _, err := table.Lookup(fallback); err != nil {
		return "", err
	}
	return fallback, nil
}
