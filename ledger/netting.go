/*
netting.go - Debt Netting Engine

PURPOSE:
  Converts per-item (payer, consumer, share) obligations into a pairwise
  owed-graph with offsetting debt between any two participants removed.

ALGORITHM:
  1. For every item, each consumer c != payer accrues c -> payer of
     ShareOf(item, c). Parallel edges are summed into raw[a][b].
  2. For every UNORDERED pair {a, b}, exactly once:
       net = raw[a][b] - raw[b][a]
       net >  Epsilon: a owes b net
       net < -Epsilon: b owes a -net
       otherwise:      settled, no edge

EPSILON:
  Display rounds to whole currency units, so differences up to 0.5 are
  invisible and must not show up as phantom debts. The same threshold
  decides whether a net position counts as settled (see IsSettled).

EXAMPLE:
  O pays 100 shared by [O, F]; F pays 30 shared by [O, F]
  raw[F][O] = 50, raw[O][F] = 15
  net(F, O) = 35 -> F owes O 35

COMPLEXITY:
  O(P^2 + I*C). Recomputed on every read, never cached.
*/
package ledger

import "github.com/shopspring/decimal"

var epsilon = decimal.New(5, -1)

// Epsilon returns the single threshold (0.5) below which an amount is
// treated as zero.
func Epsilon() decimal.Decimal {
	return epsilon
}

// IsSettled reports whether an amount is within Epsilon of zero.
func IsSettled(amount decimal.Decimal) bool {
	return amount.Abs().LessThanOrEqual(epsilon)
}

// =============================================================================
// RAW OBLIGATIONS
// =============================================================================

// RawDebts holds raw[a][b] = total a owes b before netting.
type RawDebts map[ParticipantID]map[ParticipantID]decimal.Decimal

// Add accrues amount onto the a -> b edge.
func (r RawDebts) Add(from, to ParticipantID, amount decimal.Decimal) {
	row, ok := r[from]
	if !ok {
		row = make(map[ParticipantID]decimal.Decimal)
		r[from] = row
	}
	row[to] = row[to].Add(amount)
}

// Get returns raw[a][b], zero when absent.
func (r RawDebts) Get(from, to ParticipantID) decimal.Decimal {
	return r[from][to]
}

// Obligations builds the raw multigraph from the open items. Items without
// a payer are paid by owner.
func Obligations(items []Item, owner ParticipantID) RawDebts {
	raw := make(RawDebts)
	for _, item := range items {
		payer := item.PayerOr(owner)
		for _, consumer := range item.AssignedTo {
			if consumer == payer {
				continue
			}
			raw.Add(consumer, payer, ShareOf(item, consumer))
		}
	}
	return raw
}

// =============================================================================
// NETTED GRAPH
// =============================================================================

// Debt is one directed edge of the netted graph as seen from one side.
type Debt struct {
	Counterparty ParticipantID
	Name         string
	Amount       decimal.Decimal
}

// DebtGraph is the netted graph. For every pair at most one direction is
// recorded: an Owes entry on the debtor and the mirror IsOwedBy entry on the
// creditor. Entries follow participant order.
type DebtGraph struct {
	Owes     map[ParticipantID][]Debt
	IsOwedBy map[ParticipantID][]Debt
}

// Net collapses raw obligations between the given participants. Each
// unordered pair is visited once.
func Net(people []Participant, raw RawDebts) DebtGraph {
	g := DebtGraph{
		Owes:     make(map[ParticipantID][]Debt),
		IsOwedBy: make(map[ParticipantID][]Debt),
	}
	for i := 0; i < len(people); i++ {
		a := people[i]
		for j := i + 1; j < len(people); j++ {
			b := people[j]
			net := raw.Get(a.ID, b.ID).Sub(raw.Get(b.ID, a.ID))
			switch {
			case net.GreaterThan(epsilon):
				g.link(a, b, net)
			case net.LessThan(epsilon.Neg()):
				g.link(b, a, net.Neg())
			}
		}
	}
	return g
}

func (g DebtGraph) link(debtor, creditor Participant, amount decimal.Decimal) {
	g.Owes[debtor.ID] = append(g.Owes[debtor.ID], Debt{Counterparty: creditor.ID, Name: creditor.Name, Amount: amount})
	g.IsOwedBy[creditor.ID] = append(g.IsOwedBy[creditor.ID], Debt{Counterparty: debtor.ID, Name: debtor.Name, Amount: amount})
}

// NetGraph derives the netted graph for the open session.
func NetGraph(s State) DebtGraph {
	return Net(s.People, Obligations(s.Items, s.OwnerID()))
}

// Raw turns the netted graph back into raw obligations, one edge per pair.
func (g DebtGraph) Raw() RawDebts {
	raw := make(RawDebts)
	for from, debts := range g.Owes {
		for _, d := range debts {
			raw.Add(from, d.Counterparty, d.Amount)
		}
	}
	return raw
}

// Owed returns what participant id owes minus what it is owed.
func (g DebtGraph) Owed(id ParticipantID) decimal.Decimal {
	total := decimal.Zero
	for _, d := range g.Owes[id] {
		total = total.Add(d.Amount)
	}
	for _, d := range g.IsOwedBy[id] {
		total = total.Sub(d.Amount)
	}
	return total
}

// Amount returns the netted a -> b debt, zero when b is not owed by a.
func (g DebtGraph) Amount(from, to ParticipantID) decimal.Decimal {
	for _, d := range g.Owes[from] {
		if d.Counterparty == to {
			return d.Amount
		}
	}
	return decimal.Zero
}
