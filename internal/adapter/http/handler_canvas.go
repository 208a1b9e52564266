package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/deskpulse/deskpulse/infrastructure/http/response"
	"github.com/deskpulse/deskpulse/infrastructure/http/validator"
	"github.com/deskpulse/deskpulse/internal/domain"
	"github.com/deskpulse/deskpulse/internal/usecase"
)

// CanvasHandler serves the BI diagram
type CanvasHandler struct {
	canvasUseCase *usecase.CanvasUseCase
	validator     *validator.Validator
}

func NewCanvasHandler(canvasUseCase *usecase.CanvasUseCase, v *validator.Validator) *CanvasHandler {
	return &CanvasHandler{canvasUseCase: canvasUseCase, validator: v}
}

func (h *CanvasHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/canvas", h.Get).Methods(http.MethodGet)
	router.HandleFunc("/canvas", h.Save).Methods(http.MethodPost)
}

func (h *CanvasHandler) Get(w http.ResponseWriter, r *http.Request) {
	canvas, err := h.canvasUseCase.Get(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, canvas)
}

// Save replaces nodes and edges with the posted ones
func (h *CanvasHandler) Save(w http.ResponseWriter, r *http.Request) {
	var canvas domain.Canvas
	if !bindJSON(w, r, h.validator, &canvas) {
		return
	}

	saved, err := h.canvasUseCase.Save(r.Context(), &canvas)
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, saved)
}
