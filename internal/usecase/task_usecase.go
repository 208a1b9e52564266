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

// DefaultWorkspace is used when a request names no workspace.
const DefaultWorkspace = "default"

// CreateTaskRequest creates a task, expanded into one occurrence per day of
// its recurrence.
type CreateTaskRequest struct {
	Titulo      string         `json:"titulo" validate:"required,max=200"`
	Inicio      string         `json:"inicio" validate:"required"`
	Fim         string         `json:"fim" validate:"required"`
	Concluida   bool           `json:"concluida"`
	Responsavel string         `json:"responsavel"`
	Operacao    string         `json:"operacao"`
	YMD         string         `json:"ymd" validate:"required"`
	RecKind     domain.RecKind `json:"recKind" validate:"omitempty,oneof=once daily weekly"`
	WeekDay     *int           `json:"weekDay" validate:"omitempty,min=0,max=6"`
	WorkspaceID string         `json:"workspaceId"`
}

// TaskUseCase handles the demand board
type TaskUseCase struct {
	repo   ports.TaskRepository
	logger logger.Logger
	loc    *time.Location
	now    func() time.Time
}

// NewTaskUseCase creates a new task use case. Board days and lateness are
// evaluated in loc.
func NewTaskUseCase(repo ports.TaskRepository, log logger.Logger, loc *time.Location, now func() time.Time) *TaskUseCase {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &TaskUseCase{repo: repo, logger: log, loc: loc, now: now}
}

// Today returns the current board day
func (uc *TaskUseCase) Today() string {
	return uc.now().In(uc.loc).Format(domain.DayLayout)
}

// Create stores every occurrence of the new task. Recurring tasks share a
// generated series id.
func (uc *TaskUseCase) Create(ctx context.Context, req CreateTaskRequest) ([]*domain.Task, error) {
	kind := req.RecKind
	if kind == "" {
		kind = domain.RecOnce
	}
	workspace := req.WorkspaceID
	if workspace == "" {
		workspace = DefaultWorkspace
	}

	template := domain.Task{
		Titulo:      req.Titulo,
		Inicio:      req.Inicio,
		Fim:         req.Fim,
		Concluida:   req.Concluida,
		Responsavel: req.Responsavel,
		Operacao:    req.Operacao,
		YMD:         req.YMD,
		RecKind:     kind,
		WorkspaceID: workspace,
		CreatedAt:   uc.now().UnixMilli(),
	}
	if err := template.Validate(); err != nil {
		return nil, err
	}

	days, err := domain.Occurrences(kind, req.YMD, req.WeekDay)
	if err != nil {
		return nil, err
	}
	if kind != domain.RecOnce {
		template.SeriesID = uuid.NewString()
	}

	created := make([]*domain.Task, 0, len(days))
	for _, day := range days {
		task := template
		task.ID = uuid.NewString()
		task.YMD = day
		if err := uc.repo.Create(ctx, &task); err != nil {
			return created, fmt.Errorf("failed to create task: %w", err)
		}
		created = append(created, &task)
	}

	uc.logger.Info(ctx, "Tasks created", map[string]interface{}{
		"workspace":   workspace,
		"rec_kind":    kind,
		"series_id":   template.SeriesID,
		"occurrences": len(created),
	})
	return created, nil
}

// List returns the tasks matching query, ordered by start time
func (uc *TaskUseCase) List(ctx context.Context, query domain.TaskQuery) ([]*domain.Task, error) {
	tasks, err := uc.repo.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Summary computes the KPIs of one board day
func (uc *TaskUseCase) Summary(ctx context.Context, query domain.TaskQuery) (*domain.TaskSummary, error) {
	tasks, err := uc.List(ctx, query)
	if err != nil {
		return nil, err
	}

	values := make([]domain.Task, len(tasks))
	for i, t := range tasks {
		values[i] = *t
	}
	summary := domain.SummarizeTasks(values, uc.now().In(uc.loc))
	return &summary, nil
}

func (uc *TaskUseCase) Get(ctx context.Context, id string) (*domain.Task, error) {
	task, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// Patch changes one occurrence only
func (uc *TaskUseCase) Patch(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	task, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	patch.Apply(task)
	if err := task.Validate(); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

func (uc *TaskUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// DeleteSeries removes every occurrence of a series in the workspace
func (uc *TaskUseCase) DeleteSeries(ctx context.Context, workspaceID, seriesID string) (int, error) {
	if seriesID == "" {
		return 0, domain.NewValidationError("seriesId is required")
	}
	if workspaceID == "" {
		workspaceID = DefaultWorkspace
	}

	deleted, err := uc.repo.DeleteSeries(ctx, workspaceID, seriesID)
	if err != nil {
		return deleted, fmt.Errorf("failed to delete series: %w", err)
	}

	uc.logger.Info(ctx, "Task series deleted", map[string]interface{}{
		"workspace": workspaceID,
		"series_id": seriesID,
		"deleted":   deleted,
	})
	return deleted, nil
}
