package ledger_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/warp/split-ledger/ledger"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var testNow = time.Date(2026, time.March, 10, 18, 30, 0, 0, time.UTC)

// testEngine pins the clock and hands out sequential ids.
func testEngine() *ledger.Engine {
	n := 0
	return &ledger.Engine{
		Now: func() time.Time { return testNow },
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertAmount(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, got.Equal(dec(want)), append([]any{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

// assertNear checks |got - want| <= Epsilon.
func assertNear(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, ledger.IsSettled(got.Sub(dec(want))), "want ~%s, got %s", want, got.String())
}

func person(id, name string, owner bool) ledger.Participant {
	return ledger.Participant{
		ID:      ledger.ParticipantID(id),
		Name:    name,
		IsOwner: owner,
		Emoji:   ledger.DefaultEmoji,
		History: []ledger.ActivityRecord{},
	}
}

func item(id string, price string, typ ledger.ItemType, paidBy string, assigned ...string) ledger.Item {
	ids := make([]ledger.ParticipantID, len(assigned))
	for i, a := range assigned {
		ids[i] = ledger.ParticipantID(a)
	}
	return ledger.Item{
		ID:         ledger.ItemID(id),
		Name:       id,
		Price:      dec(price),
		Type:       typ,
		AssignedTo: ids,
		PaidBy:     ledger.ParticipantID(paidBy),
	}
}

// ownerAndFriend is O (owner) and F with no items.
func ownerAndFriend() ledger.State {
	return ledger.State{
		People:  []ledger.Participant{person("O", "Owner", true), person("F", "Friend", false)},
		Items:   []ledger.Item{},
		Reports: []ledger.Report{},
	}
}

// household is O (owner), A and B.
func household(items ...ledger.Item) ledger.State {
	return ledger.State{
		People: []ledger.Participant{
			person("O", "Owner", true),
			person("A", "Alex", false),
			person("B", "Sam", false),
		},
		Items:   items,
		Reports: []ledger.Report{},
	}
}

func positionOf(t *testing.T, s ledger.State, id string) decimal.Decimal {
	t.Helper()
	v, err := ledger.BalanceOf(s, ledger.ParticipantID(id))
	if err != nil {
		t.Fatalf("balance of %s: %v", id, err)
	}
	return v.NetPosition
}
