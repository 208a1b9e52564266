package glpi

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingConfiguration is returned by every call while the GLPI
	// connection variables are incomplete.
	ErrMissingConfiguration = errors.New("missing GLPI configuration: set GLPI_API_URL, GLPI_APP_TOKEN and GLPI_USER_TOKEN")

	// ErrUpstreamUnauthorized means GLPI rejected a freshly opened session.
	ErrUpstreamUnauthorized = errors.New("GLPI rejected the session after re-authentication")
)

// UpstreamError is a non-success response from GLPI.
type UpstreamError struct {
	Resource string
	Status   int
	Body     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("GLPI %s request failed with status %d: %s", e.Resource, e.Status, e.Body)
}
