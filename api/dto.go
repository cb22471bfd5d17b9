/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the ledger's domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

AMOUNTS:
  Responses carry amounts as JSON numbers plus a whole-unit display string
  ("₹50"). Requests accept prices as numbers or strings, parsed exactly
  into decimals.

VALIDATION:
  Validation is done by the ledger (ValidateItem), not in DTOs. DTOs are
  pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/split-ledger/ledger"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

type CreatePersonRequest struct {
	Name  string `json:"name"`
	Emoji string `json:"emoji,omitempty"`
}

// ItemRequest creates or replaces an open item.
type ItemRequest struct {
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Type       string          `json:"type"`
	AssignedTo []string        `json:"assigned_to"`
	PaidBy     string          `json:"paid_by,omitempty"`
}

func (r ItemRequest) toDraft() ledger.ItemDraft {
	assigned := make([]ledger.ParticipantID, len(r.AssignedTo))
	for i, id := range r.AssignedTo {
		assigned[i] = ledger.ParticipantID(id)
	}
	return ledger.ItemDraft{
		Name:       r.Name,
		Price:      r.Price,
		Type:       ledger.ItemType(r.Type),
		AssignedTo: assigned,
		PaidBy:     ledger.ParticipantID(r.PaidBy),
	}
}

type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

type PersonDTO struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Emoji           string  `json:"emoji"`
	IsOwner         bool    `json:"is_owner"`
	PreviousBalance float64 `json:"previous_balance"`
}

type ItemDTO struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Price      float64  `json:"price"`
	Type       string   `json:"type"`
	AssignedTo []string `json:"assigned_to"`
	PaidBy     string   `json:"paid_by"` // resolved: the owner when the item names no payer
}

type DebtDTO struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Amount  float64 `json:"amount"`
	Display string  `json:"display"`
}

type ActivityDTO struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
}

// BalanceDTO is one balance card.
type BalanceDTO struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Emoji           string        `json:"emoji"`
	IsOwner         bool          `json:"is_owner"`
	NetPosition     float64       `json:"net_position"`
	Display         string        `json:"display"`
	PreviousBalance float64       `json:"previous_balance"`
	Settled         bool          `json:"settled"`
	Owes            []DebtDTO     `json:"owes"`
	IsOwedBy        []DebtDTO     `json:"is_owed_by"`
	History         []ActivityDTO `json:"history"`
}

type SummaryRowDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Emoji       string  `json:"emoji"`
	IsOwner     bool    `json:"is_owner"`
	Consumption float64 `json:"consumption"`
	Paid        float64 `json:"paid"`
	Previous    float64 `json:"previous"`
	NetDue      float64 `json:"net_due"`
	Display     string  `json:"display"`
	Settled     bool    `json:"settled"`
}

type SummaryDTO struct {
	Rows         []SummaryRowDTO `json:"rows"`
	CurrentTotal float64         `json:"current_total"`
	Display      string          `json:"display"`
}

type ReportShareDTO struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Emoji      string  `json:"emoji"`
	TotalShare float64 `json:"total_share"`
}

type ReportDTO struct {
	ID         string           `json:"id"`
	Date       string           `json:"date"`
	GrandTotal float64          `json:"grand_total"`
	Display    string           `json:"display"`
	Shares     []ReportShareDTO `json:"shares"`
	Items      []ItemDTO        `json:"items"` // most recent first
}

type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toPersonDTO(p ledger.Participant) PersonDTO {
	return PersonDTO{
		ID:              string(p.ID),
		Name:            p.Name,
		Emoji:           p.Emoji,
		IsOwner:         p.IsOwner,
		PreviousBalance: p.PreviousBalance.InexactFloat64(),
	}
}

func toItemDTO(item ledger.Item, payer ledger.ParticipantID) ItemDTO {
	assigned := make([]string, len(item.AssignedTo))
	for i, id := range item.AssignedTo {
		assigned[i] = string(id)
	}
	return ItemDTO{
		ID:         string(item.ID),
		Name:       item.Name,
		Price:      item.Price.InexactFloat64(),
		Type:       string(item.Type),
		AssignedTo: assigned,
		PaidBy:     string(payer),
	}
}

func toActivityDTOs(history []ledger.ActivityRecord) []ActivityDTO {
	dtos := make([]ActivityDTO, len(history))
	for i, h := range history {
		dtos[i] = ActivityDTO{
			ID:          h.ID,
			Date:        h.Date.Format(time.RFC3339),
			Description: h.Description,
			Amount:      h.Amount.InexactFloat64(),
			Type:        string(h.Kind),
		}
	}
	return dtos
}

func toDebtDTOs(debts []ledger.Debt, currency string) []DebtDTO {
	dtos := make([]DebtDTO, len(debts))
	for i, d := range debts {
		dtos[i] = DebtDTO{
			ID:      string(d.Counterparty),
			Name:    d.Name,
			Amount:  d.Amount.InexactFloat64(),
			Display: ledger.FormatAmount(d.Amount, currency),
		}
	}
	return dtos
}

func toBalanceDTO(v ledger.NetPositionView, currency string) BalanceDTO {
	return BalanceDTO{
		ID:              string(v.ID),
		Name:            v.Name,
		Emoji:           v.Emoji,
		IsOwner:         v.IsOwner,
		NetPosition:     v.NetPosition.InexactFloat64(),
		Display:         ledger.FormatAmount(v.NetPosition, currency),
		PreviousBalance: v.PreviousBalance.InexactFloat64(),
		Settled:         v.Settled(),
		Owes:            toDebtDTOs(v.Owes, currency),
		IsOwedBy:        toDebtDTOs(v.IsOwedBy, currency),
		History:         toActivityDTOs(v.History),
	}
}

func toSummaryDTO(s ledger.SessionSummary, currency string) SummaryDTO {
	rows := make([]SummaryRowDTO, len(s.Rows))
	for i, r := range s.Rows {
		rows[i] = SummaryRowDTO{
			ID:          string(r.ID),
			Name:        r.Name,
			Emoji:       r.Emoji,
			IsOwner:     r.IsOwner,
			Consumption: r.Consumption.InexactFloat64(),
			Paid:        r.Paid.InexactFloat64(),
			Previous:    r.Previous.InexactFloat64(),
			NetDue:      r.NetDue.InexactFloat64(),
			Display:     ledger.FormatAmount(r.NetDue, currency),
			Settled:     ledger.IsSettled(r.NetDue),
		}
	}
	return SummaryDTO{
		Rows:         rows,
		CurrentTotal: s.CurrentTotal.InexactFloat64(),
		Display:      ledger.FormatAmount(s.CurrentTotal, currency),
	}
}

func toReportDTO(d ledger.ReportDetail, currency string) ReportDTO {
	shares := make([]ReportShareDTO, len(d.Shares))
	for i, s := range d.Shares {
		shares[i] = ReportShareDTO{
			ID:         string(s.ID),
			Name:       s.Name,
			Emoji:      s.Emoji,
			TotalShare: s.TotalShare.InexactFloat64(),
		}
	}
	items := make([]ItemDTO, len(d.Lines))
	for i, l := range d.Lines {
		items[i] = toItemDTO(l.Item, l.PayerID)
	}
	return ReportDTO{
		ID:         string(d.Report.ID),
		Date:       d.Report.Date.Format(time.RFC3339),
		GrandTotal: d.Report.GrandTotal.InexactFloat64(),
		Display:    ledger.FormatAmount(d.Report.GrandTotal, currency),
		Shares:     shares,
		Items:      items,
	}
}
