/*
codec.go - Persisted snapshot format

FORMAT:
  One JSON object per ledger, stored under StorageKey and fully overwritten
  on every transition:

    {"people": [...], "items": [...], "reports": [...]}

  Decimals are written as JSON strings and read from strings or numbers,
  so snapshots written by older clients with numeric amounts still load.

ROUND TRIP:
  Decode(Encode(s)) is Equal to s for every reachable state. Encode always
  writes empty arrays, never null.

CORRUPTION:
  A snapshot without a people or items array, or one that does not parse,
  is ErrCorruptState. Callers recover by discarding it (see Keeper).
*/
package ledger

import (
	"encoding/json"
	"fmt"
)

type wireState struct {
	People  *[]Participant `json:"people"`
	Items   *[]Item        `json:"items"`
	Reports []Report       `json:"reports"`
}

// Encode serializes a state.
func Encode(s State) ([]byte, error) {
	return json.Marshal(normalize(s))
}

// Decode parses a snapshot. Optional fields that older snapshots omit
// (reports, history, previousBalance, paidBy) take their zero defaults here,
// once, so no computation has to guess.
func Decode(data []byte) (State, error) {
	var w wireState
	if err := json.Unmarshal(data, &w); err != nil {
		return State{}, &CorruptStateError{Reason: "unparseable snapshot", Err: err}
	}
	if w.People == nil {
		return State{}, &CorruptStateError{Reason: "missing people array"}
	}
	if w.Items == nil {
		return State{}, &CorruptStateError{Reason: "missing items array"}
	}
	s := normalize(State{People: *w.People, Items: *w.Items, Reports: w.Reports})
	for _, item := range s.Items {
		if len(item.AssignedTo) == 0 {
			return State{}, &CorruptStateError{Reason: fmt.Sprintf("item %q has no consumers", item.ID)}
		}
	}
	return s, nil
}

// DecodeOrInitial decodes a snapshot, falling back to a fresh ledger when
// the snapshot is absent or corrupt. The returned error is the decode
// failure, reported for logging only.
func DecodeOrInitial(data []byte, ownerName string) (State, error) {
	if len(data) == 0 {
		return InitialState(ownerName), nil
	}
	s, err := Decode(data)
	if err != nil {
		return InitialState(ownerName), err
	}
	return s, nil
}

func normalize(s State) State {
	out := s.Clone()
	for i := range out.People {
		if out.People[i].History == nil {
			out.People[i].History = []ActivityRecord{}
		}
	}
	for i := range out.Items {
		if out.Items[i].AssignedTo == nil {
			out.Items[i].AssignedTo = []ParticipantID{}
		}
	}
	for i := range out.Reports {
		r := &out.Reports[i]
		for j := range r.PeopleState {
			if r.PeopleState[j].History == nil {
				r.PeopleState[j].History = []ActivityRecord{}
			}
		}
	}
	return out
}
