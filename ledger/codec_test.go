package ledger_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/split-ledger/ledger"
)

// populated walks a ledger through every kind of transition.
func populated(t *testing.T) ledger.State {
	t.Helper()
	e := testEngine()
	s := ledger.InitialState("Suvra")
	s, friend, err := e.AddParticipant(s, ledger.ParticipantDraft{Name: "Friend", Emoji: "🐱"})
	require.NoError(t, err)
	s, _, err = e.AddItem(s, ledger.ItemDraft{
		Name: "Groceries", Price: dec("100.25"), Type: ledger.ItemShared,
		AssignedTo: []ledger.ParticipantID{ledger.DefaultOwnerID, friend.ID},
	})
	require.NoError(t, err)
	s = e.Archive(s)
	s, _, err = e.AddItem(s, ledger.ItemDraft{
		Name: "Coffee", Price: dec("40"), Type: ledger.ItemPersonal,
		AssignedTo: []ledger.ParticipantID{friend.ID}, PaidBy: friend.ID,
	})
	require.NoError(t, err)
	s, err = e.Settle(s, friend.ID)
	require.NoError(t, err)
	return s
}

func TestCodec_RoundTrip(t *testing.T) {
	// GIVEN
	s := populated(t)

	// WHEN
	data, err := ledger.Encode(s)
	require.NoError(t, err)
	decoded, err := ledger.Decode(data)

	// THEN
	require.NoError(t, err)
	assert.True(t, decoded.Equal(s))
}

func TestCodec_RoundTripInitialState(t *testing.T) {
	s := ledger.InitialState("Me")

	data, err := ledger.Encode(s)
	require.NoError(t, err)
	decoded, err := ledger.Decode(data)

	require.NoError(t, err)
	assert.True(t, decoded.Equal(s))
}

func TestEncode_WritesEmptyArrays(t *testing.T) {
	data, err := ledger.Encode(ledger.State{People: []ledger.Participant{{ID: "1", Name: "Me", IsOwner: true}}})
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.JSONEq(t, `[]`, string(raw["items"]))
	assert.JSONEq(t, `[]`, string(raw["reports"]))
	assert.Contains(t, string(raw["people"]), `"history":[]`)
}

func TestEncode_OmitsDefaultPayer(t *testing.T) {
	s := ownerAndFriend()
	s.Items = []ledger.Item{
		item("a", "10", ledger.ItemShared, "", "O", "F"),
		item("b", "10", ledger.ItemShared, "F", "O", "F"),
	}

	data, err := ledger.Encode(s)
	require.NoError(t, err)

	var w struct {
		Items []map[string]any `json:"items"`
	}
	require.NoError(t, json.Unmarshal(data, &w))
	require.Len(t, w.Items, 2)
	assert.NotContains(t, w.Items[0], "paidBy")
	assert.Equal(t, "F", w.Items[1]["paidBy"])
}

func TestDecode_AcceptsNumericAmountsAndMissingOptionals(t *testing.T) {
	// GIVEN: a snapshot from an older client
	data := []byte(`{
		"people": [
			{"id": "1", "name": "Suvra", "isOwner": true, "emoji": "👤"},
			{"id": "2", "name": "Friend", "previousBalance": 12.5}
		],
		"items": [
			{"id": "x", "name": "Milk", "price": 60, "type": "shared", "assignedTo": ["1", "2"]}
		]
	}`)

	// WHEN
	s, err := ledger.Decode(data)

	// THEN
	require.NoError(t, err)
	assert.Empty(t, s.Reports)
	assert.NotNil(t, s.People[0].History)
	assertAmount(t, "12.5", s.People[1].PreviousBalance)
	assertAmount(t, "60", s.Items[0].Price)
	assert.Equal(t, ledger.ParticipantID("1"), s.Items[0].PayerOr(s.OwnerID()))
	assertAmount(t, "42.5", positionOf(t, s, "2"))
}

func TestDecode_Corrupt(t *testing.T) {
	cases := map[string]string{
		"not json":       `{"people": [`,
		"wrong shape":    `[1, 2, 3]`,
		"missing people": `{"items": []}`,
		"null people":    `{"people": null, "items": []}`,
		"missing items":  `{"people": []}`,
		"no consumers":   `{"people": [], "items": [{"id": "x", "name": "Milk", "price": "1", "type": "shared", "assignedTo": []}]}`,
		"bad decimal":    `{"people": [{"id": "1", "previousBalance": "lots"}], "items": []}`,
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ledger.Decode([]byte(input))

			assert.ErrorIs(t, err, ledger.ErrCorruptState)
			var corrupt *ledger.CorruptStateError
			assert.ErrorAs(t, err, &corrupt)
		})
	}
}

func TestDecodeOrInitial(t *testing.T) {
	t.Run("empty data is a fresh ledger", func(t *testing.T) {
		s, err := ledger.DecodeOrInitial(nil, "Suvra")

		require.NoError(t, err)
		assert.True(t, s.Equal(ledger.InitialState("Suvra")))
	})

	t.Run("corrupt data is a fresh ledger plus the error", func(t *testing.T) {
		s, err := ledger.DecodeOrInitial([]byte(`garbage`), "Suvra")

		assert.ErrorIs(t, err, ledger.ErrCorruptState)
		assert.True(t, s.Equal(ledger.InitialState("Suvra")))
	})

	t.Run("valid data is decoded", func(t *testing.T) {
		want := populated(t)
		data, err := ledger.Encode(want)
		require.NoError(t, err)

		s, err := ledger.DecodeOrInitial(data, "Ignored")

		require.NoError(t, err)
		assert.True(t, s.Equal(want))
	})
}
