package domain

import "strings"

// TicketStatus is the raw GLPI status code.
type TicketStatus int

const (
	TicketStatusNew        TicketStatus = 1
	TicketStatusProcessing TicketStatus = 2
	TicketStatusPlanned    TicketStatus = 3
	TicketStatusWaiting    TicketStatus = 4
	TicketStatusSolved     TicketStatus = 5
	TicketStatusClosed     TicketStatus = 6
)

// StatusLabels are the names shown on the dashboard for each status code.
var StatusLabels = map[TicketStatus]string{
	TicketStatusNew:        "Novo",
	TicketStatusProcessing: "Em Processamento",
	TicketStatusPlanned:    "Pendente",
	TicketStatusWaiting:    "Pendente",
	TicketStatusSolved:     "Resolvido",
	TicketStatusClosed:     "Fechado",
}

// PriorityLabels maps GLPI priority codes (1..6) to names.
var PriorityLabels = map[int]string{
	1: "Muito Baixa",
	2: "Baixa",
	3: "Média",
	4: "Alta",
	5: "Muito Alta",
	6: "Urgente",
}

// Ticket types
const (
	TicketTypeIncident = 1
	TicketTypeRequest  = 2
)

// Ticket is a GLPI ticket as exposed by this service. Optional fields are
// pointers; a nil pointer means the upstream record did not carry the value.
type Ticket struct {
	ID       int          `json:"id"`
	Name     string       `json:"name"`
	Content  *string      `json:"content,omitempty"`
	Status   TicketStatus `json:"status"`
	Urgency  int          `json:"urgency,omitempty"`
	Impact   int          `json:"impact,omitempty"`
	Priority int          `json:"priority"`
	Type     int          `json:"type"`

	Date      *string `json:"date,omitempty"`
	DateMod   *string `json:"date_mod,omitempty"`
	CloseDate *string `json:"closedate"`
	SolveDate *string `json:"solvedate,omitempty"`

	EntitiesID      int  `json:"entities_id"`
	CategoryID      *int `json:"itilcategories_id,omitempty"`
	RequesterID     *int `json:"users_id_recipient,omitempty"`
	AssignedUserID  *int `json:"users_id_assign,omitempty"`
	AssignedGroupID *int `json:"groups_id_assign,omitempty"`

	CloseDelay           *int64 `json:"close_delay_stat,omitempty"`
	SolveDelay           *int64 `json:"solve_delay_stat,omitempty"`
	TakeIntoAccountDelay *int64 `json:"takeintoaccount_delay_stat,omitempty"`
	WaitingDuration      *int64 `json:"waiting_duration,omitempty"`
}

// OpenDay returns the date portion of the opening timestamp.
func (t *Ticket) OpenDay() (string, bool) {
	return dayOf(t.Date)
}

// CloseDay returns the date portion of the close timestamp.
func (t *Ticket) CloseDay() (string, bool) {
	return dayOf(t.CloseDate)
}

func dayOf(ts *string) (string, bool) {
	if ts == nil || *ts == "" {
		return "", false
	}
	day, _, _ := strings.Cut(*ts, " ")
	return day, true
}

// LookupItem is the {id, name} shape returned for categories, users and groups.
type LookupItem struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
