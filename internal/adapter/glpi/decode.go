package glpi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/deskpulse/deskpulse/internal/domain"
)

// flexInt decodes a JSON number, a numeric string, a boolean or null.
// Anything unparseable leaves it unset.
type flexInt struct {
	value int64
	set   bool
}

func (f *flexInt) UnmarshalJSON(data []byte) error {
	*f = flexInt{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		f.parse(strings.TrimSpace(s))
	case 't':
		f.value, f.set = 1, true
	case 'f':
		f.value, f.set = 0, true
	default:
		f.parse(string(data))
	}
	return nil
}

func (f *flexInt) parse(s string) {
	if s == "" {
		return
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		f.value, f.set = v, true
		return
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		f.value, f.set = int64(v), true
	}
}

func (f flexInt) int() int {
	return int(f.value)
}

// ref returns the id reference, treating 0 as absent.
func (f flexInt) ref() *int {
	if !f.set || f.value == 0 {
		return nil
	}
	v := int(f.value)
	return &v
}

// delay returns the metric in seconds; negative values are dropped.
func (f flexInt) delay() (*int64, bool) {
	if !f.set {
		return nil, true
	}
	if f.value < 0 {
		return nil, false
	}
	v := f.value
	return &v, true
}

// flexString decodes a JSON string, number or null into an optional string.
type flexString struct {
	value *string
}

func (f *flexString) UnmarshalJSON(data []byte) error {
	f.value = nil
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
	} else {
		s = string(data)
	}
	if s == "" {
		return nil
	}
	f.value = &s
	return nil
}

func (f flexString) or(fallback string) string {
	if f.value == nil || strings.TrimSpace(*f.value) == "" {
		return fallback
	}
	return *f.value
}

type rawTicket struct {
	ID                   flexInt    `json:"id"`
	Name                 flexString `json:"name"`
	Content              flexString `json:"content"`
	Status               flexInt    `json:"status"`
	Urgency              flexInt    `json:"urgency"`
	Impact               flexInt    `json:"impact"`
	Priority             flexInt    `json:"priority"`
	Type                 flexInt    `json:"type"`
	Date                 flexString `json:"date"`
	DateMod              flexString `json:"date_mod"`
	CloseDate            flexString `json:"closedate"`
	SolveDate            flexString `json:"solvedate"`
	EntitiesID           flexInt    `json:"entities_id"`
	CategoryID           flexInt    `json:"itilcategories_id"`
	RequesterID          flexInt    `json:"users_id_recipient"`
	AssignedUserID       flexInt    `json:"users_id_assign"`
	AssignedGroupID      flexInt    `json:"groups_id_assign"`
	CloseDelay           flexInt    `json:"close_delay_stat"`
	SolveDelay           flexInt    `json:"solve_delay_stat"`
	TakeIntoAccountDelay flexInt    `json:"takeintoaccount_delay_stat"`
	WaitingDuration      flexInt    `json:"waiting_duration"`
}

// toDomain validates the record. It returns an error for records without an
// id and lists the delay fields dropped for being negative.
func (r *rawTicket) toDomain() (domain.Ticket, []string, error) {
	if !r.ID.set || r.ID.value <= 0 {
		return domain.Ticket{}, nil, fmt.Errorf("ticket without a valid id")
	}

	t := domain.Ticket{
		ID:              r.ID.int(),
		Name:            r.Name.or(""),
		Content:         r.Content.value,
		Status:          domain.TicketStatus(r.Status.int()),
		Urgency:         r.Urgency.int(),
		Impact:          r.Impact.int(),
		Priority:        r.Priority.int(),
		Type:            r.Type.int(),
		Date:            r.Date.value,
		DateMod:         r.DateMod.value,
		CloseDate:       r.CloseDate.value,
		SolveDate:       r.SolveDate.value,
		EntitiesID:      r.EntitiesID.int(),
		CategoryID:      r.CategoryID.ref(),
		RequesterID:     r.RequesterID.ref(),
		AssignedUserID:  r.AssignedUserID.ref(),
		AssignedGroupID: r.AssignedGroupID.ref(),
	}

	var dropped []string
	delays := []struct {
		name string
		src  flexInt
		dst  **int64
	}{
		{"close_delay_stat", r.CloseDelay, &t.CloseDelay},
		{"solve_delay_stat", r.SolveDelay, &t.SolveDelay},
		{"takeintoaccount_delay_stat", r.TakeIntoAccountDelay, &t.TakeIntoAccountDelay},
		{"waiting_duration", r.WaitingDuration, &t.WaitingDuration},
	}
	for _, d := range delays {
		v, ok := d.src.delay()
		if !ok {
			dropped = append(dropped, d.name)
		}
		*d.dst = v
	}

	return t, dropped, nil
}

type rawCategory struct {
	ID           flexInt    `json:"id"`
	Name         flexString `json:"name"`
	CompleteName flexString `json:"completename"`
}

type rawUser struct {
	ID       flexInt    `json:"id"`
	Name     flexString `json:"name"`
	RealName flexString `json:"realname"`
	IsActive flexInt    `json:"is_active"`
}

type rawGroup struct {
	ID           flexInt    `json:"id"`
	Name         flexString `json:"name"`
	CompleteName flexString `json:"completename"`
}

func categoryItems(raw []rawCategory) []domain.LookupItem {
	items := make([]domain.LookupItem, 0, len(raw))
	for _, c := range raw {
		if !c.ID.set {
			continue
		}
		id := c.ID.int()
		items = append(items, domain.LookupItem{
			ID:   id,
			Name: c.CompleteName.or(c.Name.or(fmt.Sprintf("Category %d", id))),
		})
	}
	return items
}

// userItems keeps active users only.
func userItems(raw []rawUser) []domain.LookupItem {
	items := make([]domain.LookupItem, 0, len(raw))
	for _, u := range raw {
		if !u.ID.set || !u.IsActive.set || u.IsActive.value == 0 {
			continue
		}
		id := u.ID.int()
		items = append(items, domain.LookupItem{
			ID:   id,
			Name: u.RealName.or(u.Name.or(fmt.Sprintf("User %d", id))),
		})
	}
	return items
}

func groupItems(raw []rawGroup) []domain.LookupItem {
	items := make([]domain.LookupItem, 0, len(raw))
	for _, g := range raw {
		if !g.ID.set {
			continue
		}
		id := g.ID.int()
		items = append(items, domain.LookupItem{
			ID:   id,
			Name: g.Name.or(g.CompleteName.or(fmt.Sprintf("Group %d", id))),
		})
	}
	return items
}

// decodeList decodes a JSON array body. A body that is not an array, such as
// an empty object for an empty range, yields no items.
func decodeList(body []byte, out interface{}) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return fmt.Errorf("failed to decode GLPI response: %w", err)
	}
	return nil
}
