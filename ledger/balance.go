/*
balance.go - Balance Aggregator

PURPOSE:
  Combines current-session consumption, payments, and the carried-forward
  balance into one net position per participant, and exposes the views the
  presentation layer reads.

NET POSITION:
  net = ConsumptionTotal - TotalPaid + PreviousBalance

  Up to Epsilon per counterparty, this equals the participant's netted
  graph edges (owes minus is-owed-by) plus PreviousBalance. That equivalence
  is what ties the Share Calculator and the Netting Engine together.

EXAMPLE:
  Owner O pays 100 shared by [O, F]:
    F: 50 - 0 + 0   = 50   (owes)
    O: 50 - 100 + 0 = -50  (is owed)

SEE ALSO:
  - share.go: ConsumptionTotal, TotalPaid
  - netting.go: DebtGraph
*/
package ledger

import "github.com/shopspring/decimal"

// NetPosition computes what the participant owes (positive) or is owed
// (negative) given the open items.
func NetPosition(p Participant, items []Item, owner ParticipantID) decimal.Decimal {
	return ConsumptionTotal(items, p.ID).
		Sub(TotalPaid(items, p.ID, owner)).
		Add(p.PreviousBalance)
}

// GraphPosition computes the same quantity from the netted graph.
func GraphPosition(p Participant, g DebtGraph) decimal.Decimal {
	return g.Owed(p.ID).Add(p.PreviousBalance)
}

// =============================================================================
// VIEWS
// =============================================================================

// NetPositionView is what a balance card shows for one participant.
type NetPositionView struct {
	ID              ParticipantID
	Name            string
	Emoji           string
	IsOwner         bool
	PreviousBalance decimal.Decimal
	NetPosition     decimal.Decimal
	Owes            []Debt
	IsOwedBy        []Debt
	History         []ActivityRecord
}

// Settled reports whether the position is within Epsilon of zero. Callers
// use it to disable the settle action.
//
// The display rule and the netting rule share one threshold: |net| <= 0.5
// is "All Settled". Whole-unit display already renders such amounts as 0,
// so a stricter "< 1" cut-off would only hide debts that netting still
// reports.
func (v NetPositionView) Settled() bool {
	return IsSettled(v.NetPosition)
}

// ComputeBalances returns one view per participant, in participant order.
func ComputeBalances(s State) []NetPositionView {
	owner := s.OwnerID()
	graph := NetGraph(s)
	views := make([]NetPositionView, len(s.People))
	for i, p := range s.People {
		views[i] = viewOf(p, s.Items, owner, graph)
	}
	return views
}

// BalanceOf returns the view for a single participant.
func BalanceOf(s State, id ParticipantID) (NetPositionView, error) {
	p, err := s.Participant(id)
	if err != nil {
		return NetPositionView{}, err
	}
	return viewOf(p, s.Items, s.OwnerID(), NetGraph(s)), nil
}

func viewOf(p Participant, items []Item, owner ParticipantID, g DebtGraph) NetPositionView {
	history := p.History
	if history == nil {
		history = []ActivityRecord{}
	}
	return NetPositionView{
		ID:              p.ID,
		Name:            p.Name,
		Emoji:           p.Emoji,
		IsOwner:         p.IsOwner,
		PreviousBalance: p.PreviousBalance,
		NetPosition:     NetPosition(p, items, owner),
		Owes:            append([]Debt{}, g.Owes[p.ID]...),
		IsOwedBy:        append([]Debt{}, g.IsOwedBy[p.ID]...),
		History:         history,
	}
}

// =============================================================================
// SUMMARY - Session breakdown table
// =============================================================================

// SummaryRow breaks a net position into its components.
type SummaryRow struct {
	ID          ParticipantID
	Name        string
	Emoji       string
	IsOwner     bool
	Consumption decimal.Decimal
	Paid        decimal.Decimal
	Previous    decimal.Decimal
	NetDue      decimal.Decimal
}

type SessionSummary struct {
	Rows         []SummaryRow
	CurrentTotal decimal.Decimal
}

// Summary builds the per-participant breakdown of the open session.
func Summary(s State) SessionSummary {
	owner := s.OwnerID()
	rows := make([]SummaryRow, len(s.People))
	for i, p := range s.People {
		rows[i] = SummaryRow{
			ID:          p.ID,
			Name:        p.Name,
			Emoji:       p.Emoji,
			IsOwner:     p.IsOwner,
			Consumption: ConsumptionTotal(s.Items, p.ID),
			Paid:        TotalPaid(s.Items, p.ID, owner),
			Previous:    p.PreviousBalance,
			NetDue:      NetPosition(p, s.Items, owner),
		}
	}
	return SessionSummary{Rows: rows, CurrentTotal: GrandTotal(s.Items)}
}

// =============================================================================
// REPORT BREAKDOWN - Share totals inside an archived session
// =============================================================================

type ReportShare struct {
	ID         ParticipantID
	Name       string
	Emoji      string
	TotalShare decimal.Decimal
}

type ReportLine struct {
	Item      Item
	PayerID   ParticipantID
	PayerName string
}

type ReportDetail struct {
	Report Report
	Shares []ReportShare
	// Lines are most-recent-first.
	Lines []ReportLine
}

// ReportBreakdown recomputes consumption shares from the report's own
// snapshot of items and people.
func ReportBreakdown(r Report) ReportDetail {
	shares := make([]ReportShare, len(r.PeopleState))
	for i, p := range r.PeopleState {
		shares[i] = ReportShare{
			ID:         p.ID,
			Name:       p.Name,
			Emoji:      p.Emoji,
			TotalShare: ConsumptionTotal(r.Items, p.ID),
		}
	}

	owner := r.OwnerID()
	lines := make([]ReportLine, 0, len(r.Items))
	for i := len(r.Items) - 1; i >= 0; i-- {
		item := r.Items[i]
		payer := item.PayerOr(owner)
		line := ReportLine{Item: item, PayerID: payer}
		for _, p := range r.PeopleState {
			if p.ID == payer {
				line.PayerName = p.Name
				break
			}
		}
		lines = append(lines, line)
	}
	return ReportDetail{Report: r, Shares: shares, Lines: lines}
}
