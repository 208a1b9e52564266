package error

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deskpulse/deskpulse/internal/domain"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedMessage string
	}{
		{"wrapped not found", fmt.Errorf("failed to get BI: %w", domain.ErrBINotFound), http.StatusNotFound, "BI not found"},
		{"validation", fmt.Errorf("failed to create task: %w", domain.NewValidationError("invalid ymd")), http.StatusBadRequest, "invalid ymd"},
		{"app error passthrough", NewBadRequest("bad page"), http.StatusBadRequest, "bad page"},
		{"anything else", errors.New("GLPI configuration missing"), http.StatusInternalServerError, "GLPI configuration missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := MapError(tt.err)
			assert.Equal(t, tt.expectedStatus, appErr.Status)
			assert.Equal(t, tt.expectedMessage, appErr.Message)
		})
	}

	assert.Nil(t, MapError(nil))
}
