package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/deskpulse/deskpulse/infrastructure/http/response"
	"github.com/deskpulse/deskpulse/infrastructure/http/validator"
	"github.com/deskpulse/deskpulse/internal/domain"
	"github.com/deskpulse/deskpulse/internal/usecase"
)

// TicketHandler handles HTTP requests for tickets and lookups
type TicketHandler struct {
	ticketUseCase *usecase.TicketUseCase
	validator     *validator.Validator
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(ticketUseCase *usecase.TicketUseCase, v *validator.Validator) *TicketHandler {
	return &TicketHandler{
		ticketUseCase: ticketUseCase,
		validator:     v,
	}
}

// RegisterRoutes registers ticket routes
func (h *TicketHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/tickets", h.ListTickets).Methods(http.MethodGet)
	router.HandleFunc("/tickets/search", h.SearchTickets).Methods(http.MethodGet)
	router.HandleFunc("/tickets/stats", h.GetTicketStats).Methods(http.MethodGet)
	router.HandleFunc("/tickets/{id}/full", h.GetTicketFull).Methods(http.MethodGet)
	router.HandleFunc("/categories", h.ListCategories).Methods(http.MethodGet)
	router.HandleFunc("/groups", h.ListGroups).Methods(http.MethodGet)
	router.HandleFunc("/users", h.ListUsers).Methods(http.MethodGet)
}

// ListTickets handles listing tickets with filters
func (h *TicketHandler) ListTickets(w http.ResponseWriter, r *http.Request) {
	filter, ok := bindTicketFilter(w, r, h.validator)
	if !ok {
		return
	}
	page := domain.NewPageParams(queryInt(r, "page"), queryInt(r, "limit"), domain.DefaultTicketPageSize)

	tickets, err := h.ticketUseCase.ListTickets(r.Context(), filter, page)
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, tickets)
}

// SearchTickets is ListTickets with the paginated envelope
func (h *TicketHandler) SearchTickets(w http.ResponseWriter, r *http.Request) {
	filter, ok := bindTicketFilter(w, r, h.validator)
	if !ok {
		return
	}
	page := domain.NewPageParams(queryInt(r, "page"), queryInt(r, "limit"), domain.DefaultTicketPageSize)

	result, err := h.ticketUseCase.SearchTickets(r.Context(), filter, page)
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, result)
}

// GetTicketStats handles the dashboard statistics
func (h *TicketHandler) GetTicketStats(w http.ResponseWriter, r *http.Request) {
	filter, ok := bindTicketFilter(w, r, h.validator)
	if !ok {
		return
	}

	stats, err := h.ticketUseCase.Stats(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, stats)
}

// GetTicketFull returns the raw GLPI ticket
func (h *TicketHandler) GetTicketFull(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		response.ErrorWithMessage(w, http.StatusBadRequest, "Invalid ticket id", "id must be a positive integer")
		return
	}

	doc, err := h.ticketUseCase.TicketFull(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, doc)
}

func (h *TicketHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	items, err := h.ticketUseCase.Categories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, items)
}

func (h *TicketHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	items, err := h.ticketUseCase.Groups(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, items)
}

// ListUsers returns the plain list, or the envelope when page or limit is given
func (h *TicketHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has("page") && !q.Has("limit") {
		items, err := h.ticketUseCase.Users(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		response.OK(w, items)
		return
	}

	page := domain.NewPageParams(queryInt(r, "page"), queryInt(r, "limit"), domain.DefaultUserPageSize)
	result, err := h.ticketUseCase.UsersPage(r.Context(), page)
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, result)
}
