package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/deskpulse/deskpulse/infrastructure/service/logger"
	"github.com/deskpulse/deskpulse/internal/domain"
	"github.com/deskpulse/deskpulse/internal/ports"
)

// TicketUseCase serves the read-only helpdesk views: filtered lists, the
// search envelope, statistics and the lookup tables.
type TicketUseCase struct {
	source ports.TicketSource
	logger logger.Logger
	now    func() time.Time
}

// NewTicketUseCase creates a new ticket use case. now defaults to time.Now.
func NewTicketUseCase(source ports.TicketSource, log logger.Logger, now func() time.Time) *TicketUseCase {
	if now == nil {
		now = time.Now
	}
	return &TicketUseCase{
		source: source,
		logger: log,
		now:    now,
	}
}

// ListTickets returns one page of the tickets matching filter
func (uc *TicketUseCase) ListTickets(ctx context.Context, filter domain.TicketFilter, page domain.PageParams) ([]domain.Ticket, error) {
	matched, err := uc.filtered(ctx, filter)
	if err != nil {
		return nil, err
	}
	return domain.Paginate(matched, page), nil
}

// SearchTickets is ListTickets wrapped in the {page, limit, total, items} envelope
func (uc *TicketUseCase) SearchTickets(ctx context.Context, filter domain.TicketFilter, page domain.PageParams) (*domain.Page[domain.Ticket], error) {
	matched, err := uc.filtered(ctx, filter)
	if err != nil {
		return nil, err
	}
	result := domain.NewPage(matched, page)
	return &result, nil
}

// Stats aggregates every ticket matching filter
func (uc *TicketUseCase) Stats(ctx context.Context, filter domain.TicketFilter) (*domain.TicketStats, error) {
	matched, err := uc.filtered(ctx, filter)
	if err != nil {
		return nil, err
	}

	stats := domain.ComputeStats(matched, uc.now().UTC())
	uc.logger.Debug(ctx, "Computed ticket stats", map[string]interface{}{
		"matched": len(matched),
		"total":   stats.Total,
	})
	return stats, nil
}

// TicketFull returns the raw upstream document of one ticket
func (uc *TicketUseCase) TicketFull(ctx context.Context, id int) (json.RawMessage, error) {
	if id <= 0 {
		return nil, domain.NewValidationError("ticket id must be a positive integer")
	}
	doc, err := uc.source.Ticket(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket %d: %w", id, err)
	}
	return doc, nil
}

func (uc *TicketUseCase) Categories(ctx context.Context) ([]domain.LookupItem, error) {
	items, err := uc.source.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return items, nil
}

func (uc *TicketUseCase) Groups(ctx context.Context) ([]domain.LookupItem, error) {
	items, err := uc.source.Groups(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return items, nil
}

// Users returns every active user
func (uc *TicketUseCase) Users(ctx context.Context) ([]domain.LookupItem, error) {
	items, err := uc.source.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return items, nil
}

// UsersPage returns one page of active users in the search envelope
func (uc *TicketUseCase) UsersPage(ctx context.Context, page domain.PageParams) (*domain.Page[domain.LookupItem], error) {
	items, err := uc.Users(ctx)
	if err != nil {
		return nil, err
	}
	result := domain.NewPage(items, page)
	return &result, nil
}

// UpstreamVars reports which upstream connection variables are configured
func (uc *TicketUseCase) UpstreamVars() map[string]bool {
	return uc.source.ConfiguredVars()
}

func (uc *TicketUseCase) filtered(ctx context.Context, filter domain.TicketFilter) ([]domain.Ticket, error) {
	start := time.Now()
	tickets, err := uc.source.Tickets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tickets: %w", err)
	}
	logger.LogPerformance(ctx, uc.logger, "glpi.tickets", time.Since(start), map[string]interface{}{"count": len(tickets)})
	return domain.FilterTickets(tickets, filter), nil
}
