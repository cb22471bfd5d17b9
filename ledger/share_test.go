package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warp/split-ledger/ledger"
)

func TestShareOf_PersonalChargesFullPriceToEveryConsumer(t *testing.T) {
	it := item("wine", "100", ledger.ItemPersonal, "", "A", "B")

	assertAmount(t, "100", ledger.ShareOf(it, "A"))
	assertAmount(t, "100", ledger.ShareOf(it, "B"))
}

func TestShareOf_SharedSplitsEvenly(t *testing.T) {
	it := item("pizza", "90", ledger.ItemShared, "", "A", "B", "C")

	for _, id := range []ledger.ParticipantID{"A", "B", "C"} {
		assertAmount(t, "30", ledger.ShareOf(it, id), "participant %s", id)
	}
}

func TestShareOf_NotAssignedIsZero(t *testing.T) {
	assert.True(t, ledger.ShareOf(item("pizza", "90", ledger.ItemShared, "", "A"), "B").IsZero())
	assert.True(t, ledger.ShareOf(item("wine", "90", ledger.ItemPersonal, "", "A"), "B").IsZero())
}

func TestTotalPaid_DefaultsToFallbackOwner(t *testing.T) {
	items := []ledger.Item{
		item("rent", "900", ledger.ItemShared, "", "O", "A"),
		item("internet", "60", ledger.ItemShared, "A", "O", "A"),
		item("gym", "30", ledger.ItemPersonal, "O", "A"),
	}

	assertAmount(t, "930", ledger.TotalPaid(items, "O", "O"))
	assertAmount(t, "60", ledger.TotalPaid(items, "A", "O"))
	assertAmount(t, "0", ledger.TotalPaid(items, "B", "O"))
}

func TestConsumptionTotal_MixesPersonalAndShared(t *testing.T) {
	items := []ledger.Item{
		item("rent", "900", ledger.ItemShared, "", "O", "A", "B"),
		item("gym", "30", ledger.ItemPersonal, "", "A"),
		item("wine", "20", ledger.ItemPersonal, "", "A", "B"),
	}

	assertAmount(t, "300", ledger.ConsumptionTotal(items, "O"))
	assertAmount(t, "350", ledger.ConsumptionTotal(items, "A"))
	assertAmount(t, "320", ledger.ConsumptionTotal(items, "B"))
	assertAmount(t, "950", ledger.GrandTotal(items))
}
