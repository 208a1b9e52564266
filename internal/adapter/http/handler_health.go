package http

import (
	"context"
	"net/http"
	"time"

	"github.com/deskpulse/deskpulse/infrastructure/http/response"
	"github.com/deskpulse/deskpulse/infrastructure/service/logger"
	"github.com/deskpulse/deskpulse/internal/ports"
)

const storePingTimeout = 2 * time.Second

// HealthResponse reports which upstream variables are configured and whether
// the document store answers.
type HealthResponse struct {
	OK    bool            `json:"ok"`
	Has   map[string]bool `json:"has"`
	Store string          `json:"store"`
}

// HealthHandler serves GET /health
type HealthHandler struct {
	upstreamVars func() map[string]bool
	store        ports.DocumentStore
	logger       logger.Logger
}

func NewHealthHandler(upstreamVars func() map[string]bool, store ports.DocumentStore, log logger.Logger) *HealthHandler {
	return &HealthHandler{upstreamVars: upstreamVars, store: store, logger: log}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body := HealthResponse{OK: true, Has: h.upstreamVars(), Store: "ok"}
	for _, present := range body.Has {
		if !present {
			body.OK = false
		}
	}

	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), storePingTimeout)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			h.logger.Error(r.Context(), "Document store ping failed", err, nil)
			body.OK = false
			body.Store = "unavailable"
		}
	}

	status := http.StatusOK
	if !body.OK {
		status = http.StatusInternalServerError
	}
	response.JSON(w, status, body)
}
