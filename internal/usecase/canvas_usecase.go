package usecase

import (
	"context"
	"fmt"

	"github.com/deskpulse/deskpulse/infrastructure/service/logger"
	"github.com/deskpulse/deskpulse/internal/domain"
	"github.com/deskpulse/deskpulse/internal/ports"
)

// CanvasUseCase loads and replaces the BI diagram
type CanvasUseCase struct {
	repo   ports.CanvasRepository
	logger logger.Logger
}

func NewCanvasUseCase(repo ports.CanvasRepository, log logger.Logger) *CanvasUseCase {
	return &CanvasUseCase{repo: repo, logger: log}
}

// Get returns the saved canvas, empty when none was saved
func (uc *CanvasUseCase) Get(ctx context.Context) (*domain.Canvas, error) {
	canvas, err := uc.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load canvas: %w", err)
	}
	return canvas, nil
}

// Save replaces the whole canvas and returns what was stored
func (uc *CanvasUseCase) Save(ctx context.Context, canvas *domain.Canvas) (*domain.Canvas, error) {
	canvas.Normalize()
	if err := canvas.Validate(); err != nil {
		return nil, err
	}
	if err := uc.repo.Save(ctx, canvas); err != nil {
		return nil, fmt.Errorf("failed to save canvas: %w", err)
	}

	uc.logger.Info(ctx, "Canvas saved", map[string]interface{}{
		"nodes": len(canvas.Nodes),
		"edges": len(canvas.Edges),
	})
	return canvas, nil
}
