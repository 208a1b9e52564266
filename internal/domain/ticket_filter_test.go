package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func filterFixture() []Ticket {
	return []Ticket{
		{ID: 1, Name: "Printer jam", Content: strPtr("Floor 2 printer"), Status: 1, Priority: 3, Type: 1,
			Date: strPtr("2024-01-10 09:00:00"), CategoryID: intPtr(4), RequesterID: intPtr(7)},
		{ID: 2, Name: "VPN down", Status: 2, Priority: 5, Type: 1,
			Date: strPtr("2024-01-12 10:00:00"), CloseDate: strPtr("2024-01-13 08:00:00"),
			AssignedUserID: intPtr(3), AssignedGroupID: intPtr(9)},
		{ID: 3, Name: "New laptop", Content: strPtr("Request a VPN token too"), Status: 5, Priority: 2, Type: 2,
			Date: strPtr("2024-02-01 11:00:00"), CategoryID: intPtr(0), RequesterID: intPtr(7)},
		{ID: 4, Name: "Password reset", Status: 6, Priority: 3, Type: 2},
	}
}

func ids(tickets []Ticket) []int {
	out := make([]int, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, t.ID)
	}
	return out
}

func TestFilterTickets(t *testing.T) {
	tests := []struct {
		name     string
		filter   TicketFilter
		expected []int
	}{
		{name: "empty filter returns everything", filter: TicketFilter{}, expected: []int{1, 2, 3, 4}},
		{name: "status membership", filter: TicketFilter{Status: []int{1, 6}}, expected: []int{1, 4}},
		{name: "search matches name or content case-insensitively", filter: TicketFilter{Search: "vpn"}, expected: []int{2, 3}},
		{name: "conjunction across dimensions", filter: TicketFilter{Search: "vpn", Type: []int{2}}, expected: []int{3}},
		{name: "zero category is absent", filter: TicketFilter{Category: []int{4}}, expected: []int{1}},
		{name: "requester", filter: TicketFilter{Requester: []int{7}}, expected: []int{1, 3}},
		{name: "assigned user and group", filter: TicketFilter{AssignedTo: []int{3}, AssignedGroup: []int{9}}, expected: []int{2}},
		{name: "name substring", filter: TicketFilter{Name: "LAPTOP"}, expected: []int{3}},
		{name: "date range inclusive", filter: TicketFilter{DateFrom: "2024-01-10 09:00:00", DateTo: "2024-01-12 10:00:00"}, expected: []int{1, 2}},
		{name: "missing date never matches a date range", filter: TicketFilter{DateFrom: "2000-01-01"}, expected: []int{1, 2, 3}},
		{name: "close date range", filter: TicketFilter{CloseDateFrom: "2024-01-13"}, expected: []int{2}},
		{name: "no match", filter: TicketFilter{Priority: []int{1}}, expected: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterTickets(filterFixture(), tt.filter)
			assert.Equal(t, tt.expected, ids(got))
		})
	}
}

func TestFilterTicketsIsIdempotent(t *testing.T) {
	f := TicketFilter{Search: "vpn", Status: []int{2, 5}}
	once := FilterTickets(filterFixture(), f)
	twice := FilterTickets(once, f)
	assert.Equal(t, once, twice)
}

func TestTicketFilterIsEmpty(t *testing.T) {
	assert.True(t, TicketFilter{}.IsEmpty())
	assert.True(t, TicketFilter{Status: []int{}}.IsEmpty())
	assert.False(t, TicketFilter{CloseDateTo: "2024-01-01"}.IsEmpty())
}
