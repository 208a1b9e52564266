package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/deskpulse/deskpulse/infrastructure/service/logger"
	"github.com/deskpulse/deskpulse/internal/domain"
	"github.com/deskpulse/deskpulse/internal/ports"
)

// CreateAutomationRequest represents the request to register an automation
type CreateAutomationRequest struct {
	NomeIntegracao      string            `json:"nomeIntegracao" validate:"required,max=200"`
	Recorrencia         domain.Recurrence `json:"recorrencia" validate:"required"`
	DataHora            string            `json:"dataHora" validate:"required"`
	RepetirUmaHora      bool              `json:"repetirUmaHora"`
	NomeExecutavel      string            `json:"nomeExecutavel"`
	PastaFimAtualizacao string            `json:"pastaFimAtualizacao"`
}

// AutomationUseCase handles the automation registry. The next execution is
// derived on every read and never stored.
type AutomationUseCase struct {
	repo   ports.AutomationRepository
	logger logger.Logger
	loc    *time.Location
	now    func() time.Time
}

// NewAutomationUseCase creates a new automation use case. dataHora values
// are interpreted in loc.
func NewAutomationUseCase(repo ports.AutomationRepository, log logger.Logger, loc *time.Location, now func() time.Time) *AutomationUseCase {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &AutomationUseCase{repo: repo, logger: log, loc: loc, now: now}
}

func (uc *AutomationUseCase) List(ctx context.Context) ([]*domain.Automation, error) {
	automations, err := uc.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list automations: %w", err)
	}
	now := uc.now()
	for _, a := range automations {
		uc.withNextRun(ctx, a, now)
	}
	return automations, nil
}

func (uc *AutomationUseCase) Get(ctx context.Context, id string) (*domain.Automation, error) {
	a, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get automation: %w", err)
	}
	uc.withNextRun(ctx, a, uc.now())
	return a, nil
}

func (uc *AutomationUseCase) Create(ctx context.Context, req CreateAutomationRequest) (*domain.Automation, error) {
	now := uc.now()
	a := &domain.Automation{
		ID:                  uuid.NewString(),
		NomeIntegracao:      req.NomeIntegracao,
		Recorrencia:         req.Recorrencia,
		DataHora:            req.DataHora,
		RepetirUmaHora:      req.RepetirUmaHora,
		NomeExecutavel:      req.NomeExecutavel,
		PastaFimAtualizacao: req.PastaFimAtualizacao,
		CreatedAt:           now.UTC(),
	}
	if err := a.Validate(uc.loc); err != nil {
		return nil, err
	}

	if err := uc.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to create automation: %w", err)
	}

	uc.withNextRun(ctx, a, now)
	uc.logger.Info(ctx, "Automation created", map[string]interface{}{
		"automation_id": a.ID,
		"recorrencia":   a.Recorrencia,
	})
	return a, nil
}

func (uc *AutomationUseCase) Patch(ctx context.Context, id string, patch domain.AutomationPatch) (*domain.Automation, error) {
	a, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get automation: %w", err)
	}

	patch.Apply(a)
	if err := a.Validate(uc.loc); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to update automation: %w", err)
	}

	uc.withNextRun(ctx, a, uc.now())
	return a, nil
}

func (uc *AutomationUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete automation: %w", err)
	}
	return nil
}

// withNextRun fills ProximaExecucao. A record whose schedule cannot be
// computed is still returned, without a next run.
func (uc *AutomationUseCase) withNextRun(ctx context.Context, a *domain.Automation, now time.Time) {
	next, err := a.NextRun(now, uc.loc)
	if err != nil {
		uc.logger.Warn(ctx, "Cannot compute next execution", map[string]interface{}{
			"automation_id": a.ID,
			"error":         err.Error(),
		})
		a.ProximaExecucao = nil
		return
	}
	a.ProximaExecucao = next
}
