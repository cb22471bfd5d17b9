/*
share.go - Share Calculator

PURPOSE:
  Answers "how much of this item did this participant consume?" and the
  per-participant consumption and payment totals built on it.

THE PERSONAL/SHARED RULE:
  personal: every consumer owes the FULL price (not a split)
  shared:   the price is divided evenly across the consumers

  Item{Price: 100, Type: personal, AssignedTo: [a, b]}  -> a: 100, b: 100
  Item{Price: 90,  Type: shared,   AssignedTo: [a, b, c]} -> 30 each

An item with no consumers never reaches this file: ValidateItem rejects it
and Decode treats it as corrupt, so the shared division is never by zero.
*/
package ledger

import "github.com/shopspring/decimal"

// ShareOf returns the participant's consumption share of the item.
func ShareOf(item Item, id ParticipantID) decimal.Decimal {
	if !item.IsAssigned(id) {
		return decimal.Zero
	}
	if item.Type == ItemPersonal {
		return item.Price
	}
	return item.Price.Div(decimal.NewFromInt(int64(len(item.AssignedTo))))
}

// TotalPaid sums the price of every item the participant paid for. Items
// without a payer are attributed to fallbackOwner.
func TotalPaid(items []Item, id, fallbackOwner ParticipantID) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if item.PayerOr(fallbackOwner) == id {
			total = total.Add(item.Price)
		}
	}
	return total
}

// ConsumptionTotal sums the participant's share over all items.
func ConsumptionTotal(items []Item, id ParticipantID) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(ShareOf(item, id))
	}
	return total
}

// GrandTotal sums the price of all items.
func GrandTotal(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price)
	}
	return total
}
