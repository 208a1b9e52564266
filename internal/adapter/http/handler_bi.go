package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/deskpulse/deskpulse/infrastructure/http/response"
	"github.com/deskpulse/deskpulse/infrastructure/http/validator"
	"github.com/deskpulse/deskpulse/internal/domain"
	"github.com/deskpulse/deskpulse/internal/usecase"
)

// BIHandler handles the BI intake tracker
type BIHandler struct {
	biUseCase *usecase.BIUseCase
	validator *validator.Validator
}

func NewBIHandler(biUseCase *usecase.BIUseCase, v *validator.Validator) *BIHandler {
	return &BIHandler{biUseCase: biUseCase, validator: v}
}

type inativarRequest struct {
	Inativo *bool `json:"inativo" validate:"required"`
}

// RegisterRoutes registers BI and base routes
func (h *BIHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/bis", h.List).Methods(http.MethodGet)
	router.HandleFunc("/bis", h.Create).Methods(http.MethodPost)
	router.HandleFunc("/bis/{id}", h.Get).Methods(http.MethodGet)
	router.HandleFunc("/bis/{id}", h.Patch).Methods(http.MethodPatch)
	router.HandleFunc("/bis/{id}", h.Delete).Methods(http.MethodDelete)
	router.HandleFunc("/bis/{id}/inativar", h.Inativar).Methods(http.MethodPatch)
	router.HandleFunc("/bases/{id}/status", h.UpdateBaseStatus).Methods(http.MethodPatch)
}

func (h *BIHandler) List(w http.ResponseWriter, r *http.Request) {
	bis, err := h.biUseCase.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, bis)
}

func (h *BIHandler) Get(w http.ResponseWriter, r *http.Request) {
	bi, err := h.biUseCase.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, bi)
}

func (h *BIHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req usecase.CreateBIRequest
	if !bindJSON(w, r, h.validator, &req) {
		return
	}

	bi, err := h.biUseCase.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Created(w, bi)
}

func (h *BIHandler) Patch(w http.ResponseWriter, r *http.Request) {
	var patch domain.BIPatch
	if !bindJSON(w, r, h.validator, &patch) {
		return
	}

	bi, err := h.biUseCase.Patch(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, bi)
}

func (h *BIHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.biUseCase.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	response.NoContent(w)
}

func (h *BIHandler) Inativar(w http.ResponseWriter, r *http.Request) {
	var req inativarRequest
	if !bindJSON(w, r, h.validator, &req) {
		return
	}

	bi, err := h.biUseCase.SetInativo(r.Context(), mux.Vars(r)["id"], *req.Inativo)
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, bi)
}

// UpdateBaseStatus returns the whole BI so the client sees a promotion to concluido
func (h *BIHandler) UpdateBaseStatus(w http.ResponseWriter, r *http.Request) {
	var req usecase.UpdateBaseStatusRequest
	if !bindJSON(w, r, h.validator, &req) {
		return
	}

	bi, err := h.biUseCase.UpdateBaseStatus(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, bi)
}
