package ledger

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatAmount renders the magnitude of an amount in whole currency units,
// e.g. "₹1,250". Unknown currency codes render as "1,250 XYZ".
func FormatAmount(amount decimal.Decimal, currency string) string {
	var cur money.Currency
	if c := money.GetCurrency(currency); c != nil {
		cur = *c // copy: GetCurrency hands out the shared registry entry
	} else {
		cur = money.Currency{Code: currency, Grapheme: currency, Template: "1 $", Thousand: ","}
	}
	cur.Fraction = 0
	return cur.Formatter().Format(amount.Abs().Round(0).IntPart())
}
