/*
transitions.go - Session Archiver and Settlement Transition

PURPOSE:
  The only operations that change PreviousBalance. Both take a State and
  return a new one; the input is never mutated.

ARCHIVE:
  1. Compute every participant's net position against the open items
  2. Snapshot items + people (pre-archive) into a Report
  3. Clear items; PreviousBalance := net position (replace, not add)

SETTLE:
  net := NetPosition(p)
  History   = [ {settlement, "Cleared Dues", -net} ] ++ History
  Previous' = Previous - net   -> recomputed net position is exactly 0

  Settling a position within Epsilon is allowed; callers guard the action
  with IsSettled.

CLOCK AND IDS:
  Timestamps and ids are the only non-pure inputs. The Engine holds both so
  tests can pin them.
*/
package ledger

import (
	"time"

	"github.com/google/uuid"
)

// Engine applies transitions that need fresh ids or timestamps.
type Engine struct {
	Now   func() time.Time
	NewID func() string
}

// NewEngine returns an engine on the wall clock with random UUIDs.
func NewEngine() *Engine {
	return &Engine{
		Now:   func() time.Time { return time.Now().UTC() },
		NewID: uuid.NewString,
	}
}

// Archive closes the open session into a Report and carries every
// participant's net position forward.
func (e *Engine) Archive(s State) State {
	owner := s.OwnerID()
	next := s.Clone()

	report := Report{
		ID:          ReportID(e.NewID()),
		Date:        e.Now(),
		GrandTotal:  GrandTotal(s.Items),
		Items:       cloneItems(s.Items),
		PeopleState: clonePeople(s.People),
	}

	for i, p := range s.People {
		next.People[i].PreviousBalance = NetPosition(p, s.Items, owner)
	}
	next.Items = []Item{}
	next.Reports = append(next.Reports, report)
	return next
}

// Settle zeroes the participant's net position and records the clearing.
func (e *Engine) Settle(s State, id ParticipantID) (State, error) {
	i := s.indexOf(id)
	if i < 0 {
		return State{}, &UnknownParticipantError{ID: id}
	}
	p := s.People[i]
	net := NetPosition(p, s.Items, s.OwnerID())

	next := s.Clone()
	record := ActivityRecord{
		ID:          e.NewID(),
		Date:        e.Now(),
		Description: SettlementDescription,
		Amount:      net.Neg(),
		Kind:        ActivitySettlement,
	}
	next.People[i].History = append([]ActivityRecord{record}, p.History...)
	next.People[i].PreviousBalance = p.PreviousBalance.Sub(net)
	return next, nil
}
