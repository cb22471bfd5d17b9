// Structural edits: participants, items, reports. None of these touch
// PreviousBalance.
package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ITEMS
// =============================================================================

// ItemDraft is an item as submitted by a form, before validation.
type ItemDraft struct {
	Name       string
	Price      decimal.Decimal
	Type       ItemType
	AssignedTo []ParticipantID
	PaidBy     ParticipantID
}

// ValidateItem checks a draft against the ledger's participants and returns
// the normalized item fields. Duplicate consumers are collapsed so a shared
// split divides by the number of distinct consumers.
func ValidateItem(s State, d ItemDraft) (ItemDraft, error) {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return ItemDraft{}, &InvalidItemError{Field: "name", Reason: "is required"}
	}
	if !d.Price.IsPositive() {
		return ItemDraft{}, &InvalidItemError{Field: "price", Reason: "must be positive"}
	}
	if !d.Type.Valid() {
		return ItemDraft{}, &InvalidItemError{Field: "type", Reason: "must be personal or shared"}
	}
	if len(d.AssignedTo) == 0 {
		return ItemDraft{}, &InvalidItemError{Field: "assignedTo", Reason: "must not be empty"}
	}

	seen := make(map[ParticipantID]bool, len(d.AssignedTo))
	assigned := make([]ParticipantID, 0, len(d.AssignedTo))
	for _, id := range d.AssignedTo {
		if s.indexOf(id) < 0 {
			return ItemDraft{}, &InvalidItemError{Field: "assignedTo", Reason: "references unknown participant " + string(id)}
		}
		if !seen[id] {
			seen[id] = true
			assigned = append(assigned, id)
		}
	}
	d.AssignedTo = assigned

	if d.PaidBy != "" && s.indexOf(d.PaidBy) < 0 {
		return ItemDraft{}, &InvalidItemError{Field: "paidBy", Reason: "references unknown participant " + string(d.PaidBy)}
	}
	return d, nil
}

// AddItem appends a validated item and prepends an expense record, worth
// the consumer's share, to every consumer's history.
func (e *Engine) AddItem(s State, d ItemDraft) (State, Item, error) {
	d, err := ValidateItem(s, d)
	if err != nil {
		return State{}, Item{}, err
	}
	item := Item{
		ID:         ItemID(e.NewID()),
		Name:       d.Name,
		Price:      d.Price,
		Type:       d.Type,
		AssignedTo: d.AssignedTo,
		PaidBy:     d.PaidBy,
	}

	next := s.Clone()
	next.Items = append(next.Items, item.clone())

	now := e.Now()
	for i, p := range next.People {
		if !item.IsAssigned(p.ID) {
			continue
		}
		record := ActivityRecord{
			ID:          e.NewID(),
			Date:        now,
			Description: item.Name,
			Amount:      ShareOf(item, p.ID),
			Kind:        ActivityExpense,
		}
		next.People[i].History = append([]ActivityRecord{record}, p.History...)
	}
	return next, item, nil
}

// UpdateItem replaces an open item's fields, keeping its id. History is
// left alone: expense records describe what was logged at the time.
func UpdateItem(s State, id ItemID, d ItemDraft) (State, error) {
	i := s.itemIndex(id)
	if i < 0 {
		return State{}, ErrUnknownItem
	}
	d, err := ValidateItem(s, d)
	if err != nil {
		return State{}, err
	}
	next := s.Clone()
	next.Items[i] = Item{
		ID:         id,
		Name:       d.Name,
		Price:      d.Price,
		Type:       d.Type,
		AssignedTo: d.AssignedTo,
		PaidBy:     d.PaidBy,
	}
	return next, nil
}

// DeleteItem drops an open item.
func DeleteItem(s State, id ItemID) (State, error) {
	i := s.itemIndex(id)
	if i < 0 {
		return State{}, ErrUnknownItem
	}
	next := s.Clone()
	next.Items = append(next.Items[:i], next.Items[i+1:]...)
	return next, nil
}

// =============================================================================
// PARTICIPANTS
// =============================================================================

type ParticipantDraft struct {
	Name  string
	Emoji string
}

// AddParticipant appends a non-owner participant with an empty history.
func (e *Engine) AddParticipant(s State, d ParticipantDraft) (State, Participant, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return State{}, Participant{}, ErrInvalidParticipant
	}
	emoji := d.Emoji
	if emoji == "" {
		emoji = DefaultEmoji
	}
	p := Participant{
		ID:      ParticipantID(e.NewID()),
		Name:    name,
		Emoji:   emoji,
		History: []ActivityRecord{},
	}
	next := s.Clone()
	next.People = append(next.People, p)
	return next, p, nil
}

// RemoveParticipant drops a participant together with their carried
// balance; no other participant is rebalanced. A participant still assigned
// to, or paying for, an open item cannot be removed. Items without an
// explicit payer count as paid by the owner.
func RemoveParticipant(s State, id ParticipantID) (State, error) {
	i := s.indexOf(id)
	if i < 0 {
		return State{}, &UnknownParticipantError{ID: id}
	}
	owner := s.OwnerID()
	var refs []ItemID
	for _, item := range s.Items {
		if item.IsAssigned(id) || item.PayerOr(owner) == id {
			refs = append(refs, item.ID)
		}
	}
	if len(refs) > 0 {
		return State{}, &ParticipantInUseError{ID: id, Items: refs}
	}
	next := s.Clone()
	next.People = append(next.People[:i], next.People[i+1:]...)
	return next, nil
}

// ClearHistory wipes a participant's activity records.
func ClearHistory(s State, id ParticipantID) (State, error) {
	i := s.indexOf(id)
	if i < 0 {
		return State{}, &UnknownParticipantError{ID: id}
	}
	next := s.Clone()
	next.People[i].History = []ActivityRecord{}
	return next, nil
}

// =============================================================================
// REPORTS
// =============================================================================

// DeleteReport removes an archived report. Carried balances are unaffected.
func DeleteReport(s State, id ReportID) (State, error) {
	for i, r := range s.Reports {
		if r.ID != id {
			continue
		}
		next := s.Clone()
		next.Reports = append(next.Reports[:i], next.Reports[i+1:]...)
		return next, nil
	}
	return State{}, ErrUnknownReport
}

// ResetAll discards everything and returns a fresh ledger.
func ResetAll(ownerName string) State {
	return InitialState(ownerName)
}
