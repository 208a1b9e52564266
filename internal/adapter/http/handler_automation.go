package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/deskpulse/deskpulse/infrastructure/http/response"
	"github.com/deskpulse/deskpulse/infrastructure/http/validator"
	"github.com/deskpulse/deskpulse/internal/domain"
	"github.com/deskpulse/deskpulse/internal/usecase"
)

// AutomationHandler handles the automation registry
type AutomationHandler struct {
	automationUseCase *usecase.AutomationUseCase
	validator         *validator.Validator
}

func NewAutomationHandler(automationUseCase *usecase.AutomationUseCase, v *validator.Validator) *AutomationHandler {
	return &AutomationHandler{automationUseCase: automationUseCase, validator: v}
}

func (h *AutomationHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/automacoes", h.List).Methods(http.MethodGet)
	router.HandleFunc("/automacoes", h.Create).Methods(http.MethodPost)
	router.HandleFunc("/automacoes/{id}", h.Get).Methods(http.MethodGet)
	router.HandleFunc("/automacoes/{id}", h.Patch).Methods(http.MethodPatch)
	router.HandleFunc("/automacoes/{id}", h.Delete).Methods(http.MethodDelete)
}

func (h *AutomationHandler) List(w http.ResponseWriter, r *http.Request) {
	automations, err := h.automationUseCase.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, automations)
}

func (h *AutomationHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.automationUseCase.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, a)
}

func (h *AutomationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req usecase.CreateAutomationRequest
	if !bindJSON(w, r, h.validator, &req) {
		return
	}

	a, err := h.automationUseCase.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Created(w, a)
}

func (h *AutomationHandler) Patch(w http.ResponseWriter, r *http.Request) {
	var patch domain.AutomationPatch
	if !bindJSON(w, r, h.validator, &patch) {
		return
	}

	a, err := h.automationUseCase.Patch(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, a)
}

func (h *AutomationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.automationUseCase.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	response.NoContent(w)
}
