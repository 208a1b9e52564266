package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/deskpulse/deskpulse/infrastructure/service/logger"
	"github.com/deskpulse/deskpulse/internal/domain"
	"github.com/deskpulse/deskpulse/internal/ports"
)

// CreateBaseRequest describes one source base sent with a new BI
type CreateBaseRequest struct {
	NomeFerramenta string            `json:"nomeFerramenta" validate:"required,max=200"`
	PastaOrigem    string            `json:"pastaOrigem" validate:"max=500"`
	TemAPI         bool              `json:"temApi"`
	Status         domain.BaseStatus `json:"status" validate:"omitempty,oneof=aguardando em_andamento pendente concluido"`
	Observacao     *string           `json:"observacao"`
}

// CreateBIRequest represents the request to create a BI
type CreateBIRequest struct {
	Nome        string              `json:"nome" validate:"required,max=200"`
	DataInicio  string              `json:"dataInicio"`
	DataFinal   string              `json:"dataFinal"`
	Responsavel string              `json:"responsavel"`
	Operacao    string              `json:"operacao"`
	Bases       []CreateBaseRequest `json:"bases" validate:"dive"`
}

// UpdateBaseStatusRequest changes the status of one base. BIID may be empty,
// in which case the owning BI is looked up.
type UpdateBaseStatusRequest struct {
	Status     domain.BaseStatus `json:"status" validate:"required,oneof=aguardando em_andamento pendente concluido"`
	Observacao *string           `json:"observacao"`
	BIID       string            `json:"biId"`
}

// BIUseCase handles the BI intake tracker
type BIUseCase struct {
	repo   ports.BIRepository
	logger logger.Logger
	now    func() time.Time

	// mu serializes read-modify-write cycles on BI documents.
	mu sync.Mutex
}

// NewBIUseCase creates a new BI use case
func NewBIUseCase(repo ports.BIRepository, log logger.Logger, now func() time.Time) *BIUseCase {
	if now == nil {
		now = time.Now
	}
	return &BIUseCase{repo: repo, logger: log, now: now}
}

// List returns every BI, newest first
func (uc *BIUseCase) List(ctx context.Context) ([]*domain.BI, error) {
	bis, err := uc.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list BIs: %w", err)
	}
	return bis, nil
}

func (uc *BIUseCase) Get(ctx context.Context, id string) (*domain.BI, error) {
	bi, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get BI: %w", err)
	}
	return bi, nil
}

// Create stores a new BI with its bases. Missing statuses default to
// em_aberto for the BI and aguardando for each base.
func (uc *BIUseCase) Create(ctx context.Context, req CreateBIRequest) (*domain.BI, error) {
	bi := &domain.BI{
		ID:          uuid.NewString(),
		Nome:        req.Nome,
		DataInicio:  req.DataInicio,
		DataFinal:   req.DataFinal,
		Responsavel: req.Responsavel,
		Operacao:    req.Operacao,
		Status:      domain.BIStatusOpen,
		CreatedAt:   uc.now().UTC(),
		Bases:       make([]domain.Base, 0, len(req.Bases)),
	}

	for _, b := range req.Bases {
		status := b.Status
		if status == "" {
			status = domain.BaseStatusWaiting
		}
		if !status.Valid() {
			return nil, domain.NewValidationError("invalid base status: " + string(status))
		}
		bi.Bases = append(bi.Bases, domain.Base{
			ID:             uuid.NewString(),
			BIID:           bi.ID,
			NomeFerramenta: b.NomeFerramenta,
			PastaOrigem:    b.PastaOrigem,
			TemAPI:         b.TemAPI,
			Status:         status,
			Observacao:     b.Observacao,
		})
	}
	if bi.AllBasesDone() {
		bi.Status = domain.BIStatusDone
	}

	if err := uc.repo.Create(ctx, bi); err != nil {
		return nil, fmt.Errorf("failed to create BI: %w", err)
	}

	uc.logger.Info(ctx, "BI created", map[string]interface{}{"bi_id": bi.ID, "bases": len(bi.Bases)})
	return bi, nil
}

// Patch merges the given fields into an existing BI
func (uc *BIUseCase) Patch(ctx context.Context, id string, patch domain.BIPatch) (*domain.BI, error) {
	return uc.modify(ctx, id, func(bi *domain.BI) error {
		patch.Apply(bi)
		return nil
	})
}

// SetInativo marks a BI active or inactive
func (uc *BIUseCase) SetInativo(ctx context.Context, id string, inativo bool) (*domain.BI, error) {
	return uc.modify(ctx, id, func(bi *domain.BI) error {
		bi.Inativo = inativo
		return nil
	})
}

func (uc *BIUseCase) Delete(ctx context.Context, id string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err := uc.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete BI: %w", err)
	}
	uc.logger.Info(ctx, "BI deleted", map[string]interface{}{"bi_id": id})
	return nil
}

// UpdateBaseStatus sets the status of one base and returns the owning BI.
// The BI becomes concluido once every base is concluido and never reverts.
func (uc *BIUseCase) UpdateBaseStatus(ctx context.Context, baseID string, req UpdateBaseStatusRequest) (*domain.BI, error) {
	biID := req.BIID
	if biID == "" {
		owner, err := uc.findOwner(ctx, baseID)
		if err != nil {
			return nil, err
		}
		biID = owner
	}

	bi, err := uc.modify(ctx, biID, func(bi *domain.BI) error {
		return bi.ApplyBaseStatus(baseID, req.Status, req.Observacao)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info(ctx, "Base status updated", map[string]interface{}{
		"bi_id":     bi.ID,
		"base_id":   baseID,
		"status":    req.Status,
		"bi_status": bi.Status,
	})
	return bi, nil
}

func (uc *BIUseCase) modify(ctx context.Context, id string, change func(*domain.BI) error) (*domain.BI, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	bi, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get BI: %w", err)
	}
	if err := change(bi); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, bi); err != nil {
		return nil, fmt.Errorf("failed to update BI: %w", err)
	}
	return bi, nil
}

func (uc *BIUseCase) findOwner(ctx context.Context, baseID string) (string, error) {
	bis, err := uc.repo.List(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list BIs: %w", err)
	}
	for _, bi := range bis {
		if bi.FindBase(baseID) >= 0 {
			return bi.ID, nil
		}
	}
	return "", domain.ErrBaseNotFound
}
