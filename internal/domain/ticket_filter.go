package domain

import "strings"

// TicketFilter represents filters for listing tickets. Every field is
// optional; an empty slice or string places no constraint on its dimension.
type TicketFilter struct {
	Search        string `json:"search,omitempty"`
	Status        []int  `json:"status,omitempty" validate:"omitempty,dive,min=1,max=6"`
	Priority      []int  `json:"priority,omitempty" validate:"omitempty,dive,min=1,max=6"`
	Type          []int  `json:"type,omitempty" validate:"omitempty,dive,min=1,max=2"`
	Category      []int  `json:"category,omitempty" validate:"omitempty,dive,min=1"`
	AssignedTo    []int  `json:"assignedTo,omitempty" validate:"omitempty,dive,min=1"`
	AssignedGroup []int  `json:"assignedGroup,omitempty" validate:"omitempty,dive,min=1"`
	Requester     []int  `json:"users_id_recipient,omitempty" validate:"omitempty,dive,min=1"`
	Name          string `json:"name,omitempty"`
	DateFrom      string `json:"dateFrom,omitempty"`
	DateTo        string `json:"dateTo,omitempty"`
	CloseDateFrom string `json:"closeDateFrom,omitempty"`
	CloseDateTo   string `json:"closeDateTo,omitempty"`
}

// IsEmpty reports whether the filter constrains nothing.
func (f TicketFilter) IsEmpty() bool {
	return f.Search == "" && f.Name == "" &&
		len(f.Status) == 0 && len(f.Priority) == 0 && len(f.Type) == 0 &&
		len(f.Category) == 0 && len(f.AssignedTo) == 0 && len(f.AssignedGroup) == 0 &&
		len(f.Requester) == 0 &&
		f.DateFrom == "" && f.DateTo == "" && f.CloseDateFrom == "" && f.CloseDateTo == ""
}

// Matches reports whether t satisfies every dimension set on f.
//
// Text dimensions are case-insensitive substring matches. Date ranges are
// inclusive and compared as strings, which is chronological for the fixed
// width "YYYY-MM-DD HH:MM:SS" layout GLPI uses. A ticket lacking the field a
// dimension inspects never satisfies that dimension.
func (f TicketFilter) Matches(t *Ticket) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		inName := strings.Contains(strings.ToLower(t.Name), needle)
		inContent := t.Content != nil && strings.Contains(strings.ToLower(*t.Content), needle)
		if !inName && !inContent {
			return false
		}
	}

	if len(f.Status) > 0 && !containsInt(f.Status, int(t.Status)) {
		return false
	}
	if len(f.Priority) > 0 && !containsInt(f.Priority, t.Priority) {
		return false
	}
	if len(f.Type) > 0 && !containsInt(f.Type, t.Type) {
		return false
	}
	if !matchRef(f.Category, t.CategoryID) {
		return false
	}
	if !matchRef(f.AssignedTo, t.AssignedUserID) {
		return false
	}
	if !matchRef(f.AssignedGroup, t.AssignedGroupID) {
		return false
	}
	if !matchRef(f.Requester, t.RequesterID) {
		return false
	}

	if f.Name != "" && !strings.Contains(strings.ToLower(t.Name), strings.ToLower(f.Name)) {
		return false
	}

	if !inRange(t.Date, f.DateFrom, f.DateTo) {
		return false
	}
	return inRange(t.CloseDate, f.CloseDateFrom, f.CloseDateTo)
}

// FilterTickets returns the tickets matching f, preserving input order.
func FilterTickets(tickets []Ticket, f TicketFilter) []Ticket {
	if f.IsEmpty() {
		return tickets
	}
	out := make([]Ticket, 0, len(tickets))
	for i := range tickets {
		if f.Matches(&tickets[i]) {
			out = append(out, tickets[i])
		}
	}
	return out
}

// matchRef applies an IN test to an optional id reference. Zero ids are
// GLPI's "none" and count as absent.
func matchRef(set []int, ref *int) bool {
	if len(set) == 0 {
		return true
	}
	if ref == nil || *ref == 0 {
		return false
	}
	return containsInt(set, *ref)
}

func inRange(value *string, from, to string) bool {
	if from == "" && to == "" {
		return true
	}
	if value == nil || *value == "" {
		return false
	}
	if from != "" && *value < from {
		return false
	}
	if to != "" && *value > to {
		return false
	}
	return true
}

func containsInt(set []int, v int) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
