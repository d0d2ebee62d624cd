package models

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Money pairs an exact amount with its currency. Amounts are never rounded internally.
type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

// NewMoney creates a Money value.
func NewMoney(amount decimal.Decimal, unit currency.Unit) Money {
	return Money{Amount: amount, Currency: unit}
}

// Fixed renders the amount with two fractional digits.
func (m Money) Fixed() string {
	return m.Amount.StringFixed(2)
}

// String renders the value for display, e.g. "BRL 57.70".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Currency, m.Fixed())
}
