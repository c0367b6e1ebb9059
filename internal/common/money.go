package common

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// RoundMoney rounds a monetary amount to 2 decimal places, half away from zero.
func RoundMoney(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// RoundMoneyPtr rounds v when it is non-nil.
func RoundMoneyPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := RoundMoney(*v)
	return &r
}

// FormatMoney renders an amount in the given ISO currency, e.g. "$1,234.56".
func FormatMoney(v float64, currency string) string {
	if currency == "" {
		currency = money.USD
	}
	cur := money.GetCurrency(currency)
	if cur == nil {
		cur = money.GetCurrency(money.USD)
	}
	minor := decimal.NewFromFloat(v).Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}
