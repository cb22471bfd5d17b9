/*
Package ledger provides the balance and settlement engine for a shared
expense ledger.

PURPOSE:
  A small group of participants logs personal or shared purchases. This
  package turns the resulting records into each participant's net position,
  a netted pairwise debt graph, and the two state transitions that mutate
  carried-forward balances (settlement and session archive).

KEY CONCEPTS IN THIS FILE (types.go):
  - Participant: a person who consumes and/or pays for items
  - Item: a priced purchase, personal (full price per consumer) or shared
  - ActivityRecord: append-only per-participant history entry
  - Report: immutable snapshot of an archived session
  - State: the root value, passed in and returned, never mutated in place

DESIGN PRINCIPLES:
  1. Explicit state passing: every operation takes a State and returns a new one
  2. Precision: all amounts are decimal.Decimal
  3. Derived, never stored: positions and debts are recomputed on every read
  4. Single source of truth: every surface uses the same share/netting math

SIGN CONVENTION:
  Positive = participant owes the group. Negative = participant is owed.

SEE ALSO:
  - share.go: Share Calculator
  - netting.go: Debt Netting Engine
  - balance.go: Balance Aggregator
  - transitions.go: Session Archiver and Settlement Transition
  - edits.go: Structural edits (participants, items, reports)
*/
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type ParticipantID string
type ItemID string
type ReportID string

// DefaultOwnerID is the id given to the owner of a fresh ledger.
const DefaultOwnerID ParticipantID = "1"

// DefaultEmoji is used when a participant is added without a glyph.
const DefaultEmoji = "👤"

// StorageKey is the fixed identifier the persisted State is stored under.
const StorageKey = "split_app_data"

// =============================================================================
// ITEM - A priced purchase
// =============================================================================

type ItemType string

const (
	// ItemPersonal attributes the full price to every consumer.
	ItemPersonal ItemType = "personal"
	// ItemShared divides the price evenly across consumers.
	ItemShared ItemType = "shared"
)

func (t ItemType) Valid() bool {
	return t == ItemPersonal || t == ItemShared
}

// Item is a purchase in the open session.
//
// PaidBy is optional: the empty id means the owner paid. Resolve it with
// PayerOr, never by comparing against "" inline.
type Item struct {
	ID         ItemID          `json:"id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Type       ItemType        `json:"type"`
	AssignedTo []ParticipantID `json:"assignedTo"`
	PaidBy     ParticipantID   `json:"paidBy,omitempty"`
}

// PayerOr returns who paid for the item, falling back to owner.
func (i Item) PayerOr(owner ParticipantID) ParticipantID {
	if i.PaidBy == "" {
		return owner
	}
	return i.PaidBy
}

// IsAssigned reports whether id is one of the item's consumers.
func (i Item) IsAssigned(id ParticipantID) bool {
	for _, a := range i.AssignedTo {
		if a == id {
			return true
		}
	}
	return false
}

func (i Item) clone() Item {
	i.AssignedTo = append([]ParticipantID(nil), i.AssignedTo...)
	return i
}

// =============================================================================
// ACTIVITY RECORD - Per-participant history entry
// =============================================================================

type ActivityKind string

const (
	ActivityExpense    ActivityKind = "expense"
	ActivitySettlement ActivityKind = "settlement"
)

// SettlementDescription is the description of every settlement record.
const SettlementDescription = "Cleared Dues"

// ActivityRecord is never mutated once written. History is only ever
// prepended to or cleared wholesale.
type ActivityRecord struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Kind        ActivityKind    `json:"type"`
}

// =============================================================================
// PARTICIPANT
// =============================================================================

// Participant is a person in the ledger.
//
// INVARIANT:
//   - PreviousBalance is only changed by Settle and Archive.
//   - History is ordered most-recent-first.
type Participant struct {
	ID              ParticipantID    `json:"id"`
	Name            string           `json:"name"`
	IsOwner         bool             `json:"isOwner"`
	Emoji           string           `json:"emoji"`
	PreviousBalance decimal.Decimal  `json:"previousBalance"`
	History         []ActivityRecord `json:"history"`
}

func (p Participant) clone() Participant {
	p.History = append([]ActivityRecord(nil), p.History...)
	return p
}

// =============================================================================
// REPORT - Archived session snapshot
// =============================================================================

// Report is created only by Archive and never mutated afterwards.
type Report struct {
	ID          ReportID        `json:"id"`
	Date        time.Time       `json:"date"`
	GrandTotal  decimal.Decimal `json:"grandTotal"`
	Items       []Item          `json:"items"`
	PeopleState []Participant   `json:"peopleState"`
}

// OwnerID resolves the owner as it was when the report was taken.
func (r Report) OwnerID() ParticipantID {
	return ownerOf(r.PeopleState)
}

func (r Report) clone() Report {
	r.Items = cloneItems(r.Items)
	r.PeopleState = clonePeople(r.PeopleState)
	return r
}

// =============================================================================
// STATE - Root value
// =============================================================================

// State is the unit of persistence and the unit every transition operates on.
// Reports are kept in insertion (chronological) order.
type State struct {
	People  []Participant `json:"people"`
	Items   []Item        `json:"items"`
	Reports []Report      `json:"reports"`
}

// InitialState returns a fresh ledger holding only the owner.
func InitialState(ownerName string) State {
	return State{
		People: []Participant{{
			ID:      DefaultOwnerID,
			Name:    ownerName,
			IsOwner: true,
			Emoji:   DefaultEmoji,
			History: []ActivityRecord{},
		}},
		Items:   []Item{},
		Reports: []Report{},
	}
}

// OwnerID returns the participant marked as owner, or the first participant
// when none is marked. Empty when there are no participants.
func (s State) OwnerID() ParticipantID {
	return ownerOf(s.People)
}

func ownerOf(people []Participant) ParticipantID {
	for _, p := range people {
		if p.IsOwner {
			return p.ID
		}
	}
	if len(people) > 0 {
		return people[0].ID
	}
	return ""
}

// Participant looks up a participant by id.
func (s State) Participant(id ParticipantID) (Participant, error) {
	if i := s.indexOf(id); i >= 0 {
		return s.People[i], nil
	}
	return Participant{}, &UnknownParticipantError{ID: id}
}

func (s State) indexOf(id ParticipantID) int {
	for i, p := range s.People {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s State) itemIndex(id ItemID) int {
	for i, it := range s.Items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so transitions never alias the caller's slices.
func (s State) Clone() State {
	reports := make([]Report, len(s.Reports))
	for i, r := range s.Reports {
		reports[i] = r.clone()
	}
	return State{
		People:  clonePeople(s.People),
		Items:   cloneItems(s.Items),
		Reports: reports,
	}
}

// Equal compares two states by value. Decimals are compared numerically and
// timestamps by instant, so a codec round trip compares equal.
func (s State) Equal(o State) bool {
	if len(s.People) != len(o.People) || len(s.Items) != len(o.Items) || len(s.Reports) != len(o.Reports) {
		return false
	}
	if !peopleEqual(s.People, o.People) || !itemsEqual(s.Items, o.Items) {
		return false
	}
	for i := range s.Reports {
		a, b := s.Reports[i], o.Reports[i]
		if a.ID != b.ID || !a.Date.Equal(b.Date) || !a.GrandTotal.Equal(b.GrandTotal) {
			return false
		}
		if len(a.Items) != len(b.Items) || len(a.PeopleState) != len(b.PeopleState) {
			return false
		}
		if !itemsEqual(a.Items, b.Items) || !peopleEqual(a.PeopleState, b.PeopleState) {
			return false
		}
	}
	return true
}

func clonePeople(people []Participant) []Participant {
	out := make([]Participant, len(people))
	for i, p := range people {
		out[i] = p.clone()
	}
	return out
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = it.clone()
	}
	return out
}

func peopleEqual(a, b []Participant) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := a[i], b[i]
		if x.ID != y.ID || x.Name != y.Name || x.IsOwner != y.IsOwner || x.Emoji != y.Emoji {
			return false
		}
		if !x.PreviousBalance.Equal(y.PreviousBalance) || len(x.History) != len(y.History) {
			return false
		}
		for j := range x.History {
			h, k := x.History[j], y.History[j]
			if h.ID != k.ID || !h.Date.Equal(k.Date) || h.Description != k.Description ||
				!h.Amount.Equal(k.Amount) || h.Kind != k.Kind {
				return false
			}
		}
	}
	return true
}

func itemsEqual(a, b []Item) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := a[i], b[i]
		if x.ID != y.ID || x.Name != y.Name || !x.Price.Equal(y.Price) || x.Type != y.Type || x.PaidBy != y.PaidBy {
			return false
		}
		if len(x.AssignedTo) != len(y.AssignedTo) {
			return false
		}
		for j := range x.AssignedTo {
			if x.AssignedTo[j] != y.AssignedTo[j] {
				return false
			}
		}
	}
	return true
}
