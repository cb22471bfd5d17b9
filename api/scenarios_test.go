/*
scenarios_test.go - Unit tests for demo scenarios

PURPOSE:
	Tests that each scenario correctly sets up the expected state:
	- Participants are created
	- Items land in the open session (and archived sessions)
	- Balances match expected values

These tests ensure scenarios work correctly and can be used as integration tests.
*/
package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadScenario(t *testing.T, router http.Handler, id string) {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: id})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestScenario_Household(t *testing.T) {
	// GIVEN
	router := setupTestHandler(t)

	// WHEN
	loadScenario(t, router, "household")

	// THEN: friend owes half the groceries plus the whole personal item
	cards := decodeBody[[]BalanceDTO](t, do(t, router, http.MethodGet, "/api/balances", nil))
	require.Len(t, cards, 2)
	assert.Equal(t, "Suvra", cards[0].Name)
	assert.InDelta(t, -90, cards[0].NetPosition, 0.001)
	assert.Equal(t, "Friend", cards[1].Name)
	assert.InDelta(t, 90, cards[1].NetPosition, 0.001)
	assert.Equal(t, "₹90", cards[1].Display)
	assert.Len(t, cards[1].History, 2)
}

func TestScenario_Roommates(t *testing.T) {
	// GIVEN
	router := setupTestHandler(t)

	// WHEN
	loadScenario(t, router, "roommates")

	// THEN: one archived session, its balances carried forward
	reports := decodeBody[[]ReportDTO](t, do(t, router, http.MethodGet, "/api/reports", nil))
	require.Len(t, reports, 1)
	assert.InDelta(t, 960, reports[0].GrandTotal, 0.001)

	items := decodeBody[[]ItemDTO](t, do(t, router, http.MethodGet, "/api/items", nil))
	assert.Len(t, items, 2)

	cards := decodeBody[[]BalanceDTO](t, do(t, router, http.MethodGet, "/api/balances", nil))
	require.Len(t, cards, 3)

	// Session 1: rent 300 each, internet 20 each (Alex paid 60).
	assert.InDelta(t, -580, cards[0].PreviousBalance, 0.001)
	assert.InDelta(t, 260, cards[1].PreviousBalance, 0.001)
	assert.InDelta(t, 320, cards[2].PreviousBalance, 0.001)

	// Session 2: pizza 15 each (Sam paid 45), gym 30 for Alex.
	assert.InDelta(t, -595, cards[0].NetPosition, 0.001)
	assert.InDelta(t, 305, cards[1].NetPosition, 0.001)
	assert.InDelta(t, 290, cards[2].NetPosition, 0.001)
}

func TestScenario_LoadReplacesLedger(t *testing.T) {
	router := setupTestHandler(t)
	addPerson(t, router, "Stranger")

	loadScenario(t, router, "household")

	people := decodeBody[[]PersonDTO](t, do(t, router, http.MethodGet, "/api/people", nil))
	require.Len(t, people, 2)
	assert.Equal(t, "Suvra", people[0].Name)
	assert.Equal(t, "Friend", people[1].Name)
}

func TestScenario_CurrentTracksLoadAndReset(t *testing.T) {
	router := setupTestHandler(t)
	assert.Equal(t, "null\n", do(t, router, http.MethodGet, "/api/scenarios/current", nil).Body.String())

	loadScenario(t, router, "roommates")
	current := decodeBody[ScenarioDTO](t, do(t, router, http.MethodGet, "/api/scenarios/current", nil))
	assert.Equal(t, "roommates", current.ID)

	do(t, router, http.MethodPost, "/api/reset", nil)
	assert.Equal(t, "null\n", do(t, router, http.MethodGet, "/api/scenarios/current", nil).Body.String())
}

func TestScenario_ConcurrentLoadsAndReads(t *testing.T) {
	// GIVEN
	router := setupTestHandler(t)
	ids := []string{"household", "roommates"}

	// WHEN: loads and current-scenario reads race each other
	var wg sync.WaitGroup
	codes := make([]int, 20)
	for i := range codes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var req *http.Request
			if i%2 == 0 {
				body := `{"scenario_id":"` + ids[i%4/2] + `"}`
				req = httptest.NewRequest(http.MethodPost, "/api/scenarios/load", strings.NewReader(body))
			} else {
				req = httptest.NewRequest(http.MethodGet, "/api/scenarios/current", nil)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			codes[i] = rec.Code
		}(i)
	}
	wg.Wait()

	// THEN: every request succeeded and the current scenario is one of them
	for i, code := range codes {
		assert.Equal(t, http.StatusOK, code, "request %d", i)
	}
	current := decodeBody[ScenarioDTO](t, do(t, router, http.MethodGet, "/api/scenarios/current", nil))
	assert.Contains(t, ids, current.ID)
}

func TestScenario_Unknown(t *testing.T) {
	router := setupTestHandler(t)

	rec := do(t, router, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "nope"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScenario_AllScenariosLoadWithoutError(t *testing.T) {
	router := setupTestHandler(t)
	list := decodeBody[[]ScenarioDTO](t, do(t, router, http.MethodGet, "/api/scenarios", nil))
	require.NotEmpty(t, list)

	for _, s := range list {
		t.Run(s.ID, func(t *testing.T) {
			loadScenario(t, router, s.ID)
			rec := do(t, router, http.MethodGet, "/api/summary", nil)
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}
