package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskpulse/deskpulse/infrastructure/http/response"
	"github.com/deskpulse/deskpulse/internal/domain"
)

func ticketFixture() []domain.Ticket {
	opened := "2024-03-01 09:00:00"
	closed := "2024-03-02 10:00:00"
	recipient := 7
	return []domain.Ticket{
		{ID: 1, Name: "Printer jam", Status: domain.TicketStatusNew, Priority: 3, Type: 1, Date: &opened, RequesterID: &recipient},
		{ID: 2, Name: "VPN down", Status: domain.TicketStatusProcessing, Priority: 4, Type: 1, Date: &opened},
		{ID: 3, Name: "Laptop", Status: domain.TicketStatusClosed, Priority: 3, Type: 2, Date: &opened, CloseDate: &closed},
	}
}

func TestTicketHandler_ListTickets(t *testing.T) {
	tests := []struct {
		name           string
		query          url.Values
		expectedStatus int
		expectedIDs    []int
		expectedError  string
	}{
		{
			name:           "no filter",
			query:          url.Values{},
			expectedStatus: http.StatusOK,
			expectedIDs:    []int{1, 2, 3},
		},
		{
			name:           "json array status",
			query:          url.Values{"status": {"[1,6]"}},
			expectedStatus: http.StatusOK,
			expectedIDs:    []int{1, 3},
		},
		{
			name:           "requester and priority",
			query:          url.Values{"priority": {"[3]"}, "users_id_recipient": {"[7]"}},
			expectedStatus: http.StatusOK,
			expectedIDs:    []int{1},
		},
		{
			name:           "paginated",
			query:          url.Values{"page": {"2"}, "limit": {"2"}},
			expectedStatus: http.StatusOK,
			expectedIDs:    []int{3},
		},
		{
			name:           "malformed array",
			query:          url.Values{"status": {"[1,"}},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid query parameters",
		},
		{
			name:           "out of range status",
			query:          url.Values{"status": {"[9]"}},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid filters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRouter(t, &stubSource{tickets: ticketFixture()})

			rr := do(t, h, http.MethodGet, "/api/tickets?"+tt.query.Encode(), "")

			require.Equal(t, tt.expectedStatus, rr.Code, rr.Body.String())
			if tt.expectedError != "" {
				body := decode[response.ErrorBody](t, rr)
				assert.Equal(t, tt.expectedError, body.Error)
				return
			}
			tickets := decode[[]domain.Ticket](t, rr)
			ids := make([]int, 0, len(tickets))
			for _, ticket := range tickets {
				ids = append(ids, ticket.ID)
			}
			assert.Equal(t, tt.expectedIDs, ids)
		})
	}
}

func TestTicketHandler_InvalidFiltersDetails(t *testing.T) {
	h := newTestRouter(t, &stubSource{tickets: ticketFixture()})

	rr := do(t, h, http.MethodGet, "/api/tickets/stats?type="+url.QueryEscape("[3]"), "")

	require.Equal(t, http.StatusBadRequest, rr.Code)
	var body struct {
		Error   string `json:"error"`
		Details []struct {
			Field string `json:"field"`
			Tag   string `json:"tag"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "Invalid filters", body.Error)
	require.Len(t, body.Details, 1)
	assert.Equal(t, "max", body.Details[0].Tag)
	assert.Contains(t, body.Details[0].Field, "type")
}

func TestTicketHandler_SearchTickets(t *testing.T) {
	h := newTestRouter(t, &stubSource{tickets: ticketFixture()})

	rr := do(t, h, http.MethodGet, "/api/tickets/search?search=printer&limit=5", "")

	require.Equal(t, http.StatusOK, rr.Code)
	page := decode[domain.Page[domain.Ticket]](t, rr)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 5, page.Limit)
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Printer jam", page.Items[0].Name)
}

func TestTicketHandler_Stats(t *testing.T) {
	h := newTestRouter(t, &stubSource{tickets: ticketFixture()})

	rr := do(t, h, http.MethodGet, "/api/tickets/stats", "")

	require.Equal(t, http.StatusOK, rr.Code)
	stats := decode[domain.TicketStats](t, rr)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.New)
	assert.Equal(t, 1, stats.InProgress)
	assert.Equal(t, 1, stats.Closed)
	assert.Equal(t, []domain.TimelineCompare{
		{Date: "2024-03-01", Opened: 3, Closed: 0},
		{Date: "2024-03-02", Opened: 0, Closed: 1},
	}, stats.TimelineComparison)
}

func TestTicketHandler_UpstreamError(t *testing.T) {
	h := newTestRouter(t, &stubSource{err: errors.New("GLPI configuration missing")})

	rr := do(t, h, http.MethodGet, "/api/tickets/stats", "")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	body := decode[response.ErrorBody](t, rr)
	assert.Contains(t, body.Error, "GLPI configuration missing")
}

func TestTicketHandler_GetTicketFull(t *testing.T) {
	source := &stubSource{raw: map[int]json.RawMessage{5: json.RawMessage(`{"id":5,"name":"raw"}`)}}
	h := newTestRouter(t, source)

	rr := do(t, h, http.MethodGet, "/api/tickets/5/full", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"id":5,"name":"raw"}`, rr.Body.String())

	rr = do(t, h, http.MethodGet, "/api/tickets/6/full", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, h, http.MethodGet, "/api/tickets/abc/full", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestTicketHandler_Users(t *testing.T) {
	source := &stubSource{users: []domain.LookupItem{{ID: 1, Name: "Ana"}, {ID: 2, Name: "Bruno"}}}
	h := newTestRouter(t, source)

	rr := do(t, h, http.MethodGet, "/api/users", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"id":1,"name":"Ana"},{"id":2,"name":"Bruno"}]`, rr.Body.String())

	rr = do(t, h, http.MethodGet, "/api/users?page=2&limit=1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"page":2,"limit":1,"total":2,"items":[{"id":2,"name":"Bruno"}]}`, rr.Body.String())

	rr = do(t, h, http.MethodGet, "/api/users?page=1", "")
	page := decode[domain.Page[domain.LookupItem]](t, rr)
	assert.Equal(t, domain.DefaultUserPageSize, page.Limit)
}

func TestTicketHandler_Lookups(t *testing.T) {
	h := newTestRouter(t, &stubSource{})

	rr := do(t, h, http.MethodGet, "/api/categories", "")
	assert.JSONEq(t, `[{"id":1,"name":"Hardware"}]`, rr.Body.String())

	rr = do(t, h, http.MethodGet, "/api/groups", "")
	assert.JSONEq(t, `[{"id":9,"name":"N1"}]`, rr.Body.String())
}
