package ports

import (
	"context"
	"encoding/json"

	"github.com/deskpulse/deskpulse/internal/domain"
)

// TicketSource provides read access to the helpdesk system of record.
type TicketSource interface {
	// Tickets fetches the bounded ticket window
	Tickets(ctx context.Context) ([]domain.Ticket, error)

	// Ticket returns the raw upstream document of one ticket
	Ticket(ctx context.Context, id int) (json.RawMessage, error)

	// Categories, Users and Groups return {id, name} lookups
	Categories(ctx context.Context) ([]domain.LookupItem, error)
	Users(ctx context.Context) ([]domain.LookupItem, error)
	Groups(ctx context.Context) ([]domain.LookupItem, error)

	// KillSession tears down the upstream session. Failures are only logged.
	KillSession(ctx context.Context)

	// ConfiguredVars reports which connection settings are present
	ConfiguredVars() map[string]bool
}
