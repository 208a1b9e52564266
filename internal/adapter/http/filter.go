package http

import (
	"net/http"

	"github.com/deskpulse/deskpulse/infrastructure/http/response"
	"github.com/deskpulse/deskpulse/infrastructure/http/validator"
	"github.com/deskpulse/deskpulse/internal/domain"
)

// ParseTicketFilter reads the ticket filter from the query string. Array
// dimensions are JSON encoded.
func ParseTicketFilter(r *http.Request) (domain.TicketFilter, error) {
	q := r.URL.Query()
	filter := domain.TicketFilter{
		Search:        q.Get("search"),
		Name:          q.Get("name"),
		DateFrom:      q.Get("dateFrom"),
		DateTo:        q.Get("dateTo"),
		CloseDateFrom: q.Get("closeDateFrom"),
		CloseDateTo:   q.Get("closeDateTo"),
	}

	lists := []struct {
		param string
		dst   *[]int
	}{
		{"status", &filter.Status},
		{"priority", &filter.Priority},
		{"type", &filter.Type},
		{"category", &filter.Category},
		{"assignedTo", &filter.AssignedTo},
		{"assignedGroup", &filter.AssignedGroup},
		{"users_id_recipient", &filter.Requester},
	}
	for _, l := range lists {
		values, err := queryIntList(r, l.param)
		if err != nil {
			return domain.TicketFilter{}, err
		}
		*l.dst = values
	}
	return filter, nil
}

// bindTicketFilter parses and validates the filter, writing the 400 response
// when it is malformed or out of range.
func bindTicketFilter(w http.ResponseWriter, r *http.Request, v *validator.Validator) (domain.TicketFilter, bool) {
	filter, err := ParseTicketFilter(r)
	if err != nil {
		response.ErrorWithMessage(w, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return filter, false
	}

	details, err := v.Struct(filter)
	if err != nil {
		response.ErrorWithMessage(w, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return filter, false
	}
	if len(details) > 0 {
		response.ErrorWithDetails(w, http.StatusBadRequest, "Invalid filters", details)
		return filter, false
	}
	return filter, true
}
