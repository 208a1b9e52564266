package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/deskpulse/deskpulse/internal/domain"
	"github.com/deskpulse/deskpulse/internal/ports"
)

// collection encodes values of T as JSON documents in one store collection.
type collection[T any] struct {
	store    ports.DocumentStore
	name     string
	notFound error
}

func (c collection[T]) get(ctx context.Context, id string) (*T, error) {
	body, err := c.store.Get(ctx, c.name, id)
	if err != nil {
		if errors.Is(err, ports.ErrDocumentNotFound) {
			return nil, c.notFound
		}
		return nil, fmt.Errorf("failed to load %s document: %w", c.name, err)
	}

	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("failed to decode %s document %s: %w", c.name, id, err)
	}
	return &v, nil
}

func (c collection[T]) put(ctx context.Context, id string, v *T) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s document: %w", c.name, err)
	}
	if err := c.store.Put(ctx, c.name, id, body); err != nil {
		return fmt.Errorf("failed to save %s document: %w", c.name, err)
	}
	return nil
}

// replace saves v only when a document with id already exists.
func (c collection[T]) replace(ctx context.Context, id string, v *T) error {
	if _, err := c.store.Get(ctx, c.name, id); err != nil {
		if errors.Is(err, ports.ErrDocumentNotFound) {
			return c.notFound
		}
		return fmt.Errorf("failed to load %s document: %w", c.name, err)
	}
	return c.put(ctx, id, v)
}

func (c collection[T]) delete(ctx context.Context, id string) error {
	if err := c.store.Delete(ctx, c.name, id); err != nil {
		if errors.Is(err, ports.ErrDocumentNotFound) {
			return c.notFound
		}
		return fmt.Errorf("failed to delete %s document: %w", c.name, err)
	}
	return nil
}

func (c collection[T]) list(ctx context.Context) ([]*T, error) {
	bodies, err := c.store.List(ctx, c.name)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s documents: %w", c.name, err)
	}

	out := make([]*T, 0, len(bodies))
	for _, body := range bodies {
		var v T
		if err := json.Unmarshal(body, &v); err != nil {
			return nil, fmt.Errorf("failed to decode %s document: %w", c.name, err)
		}
		out = append(out, &v)
	}
	return out, nil
}

// BIRepository stores BIs with their bases embedded
type BIRepository struct {
	docs collection[domain.BI]
}

func NewBIRepository(store ports.DocumentStore) ports.BIRepository {
	return &BIRepository{docs: collection[domain.BI]{store: store, name: ports.CollectionBIs, notFound: domain.ErrBINotFound}}
}

func (r *BIRepository) Create(ctx context.Context, bi *domain.BI) error {
	return r.docs.put(ctx, bi.ID, bi)
}

func (r *BIRepository) FindByID(ctx context.Context, id string) (*domain.BI, error) {
	return r.docs.get(ctx, id)
}

func (r *BIRepository) Update(ctx context.Context, bi *domain.BI) error {
	return r.docs.replace(ctx, bi.ID, bi)
}

func (r *BIRepository) Delete(ctx context.Context, id string) error {
	return r.docs.delete(ctx, id)
}

// List returns BIs newest first
func (r *BIRepository) List(ctx context.Context) ([]*domain.BI, error) {
	bis, err := r.docs.list(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(bis, func(i, j int) bool { return bis[i].CreatedAt.After(bis[j].CreatedAt) })
	return bis, nil
}

// AutomationRepository stores automations
type AutomationRepository struct {
	docs collection[domain.Automation]
}

func NewAutomationRepository(store ports.DocumentStore) ports.AutomationRepository {
	return &AutomationRepository{docs: collection[domain.Automation]{store: store, name: ports.CollectionAutomations, notFound: domain.ErrAutomationNotFound}}
}

// Create saves the automation without its derived next run
func (r *AutomationRepository) Create(ctx context.Context, a *domain.Automation) error {
	stored := *a
	stored.ProximaExecucao = nil
	return r.docs.put(ctx, a.ID, &stored)
}

func (r *AutomationRepository) FindByID(ctx context.Context, id string) (*domain.Automation, error) {
	return r.docs.get(ctx, id)
}

func (r *AutomationRepository) Update(ctx context.Context, a *domain.Automation) error {
	stored := *a
	stored.ProximaExecucao = nil
	return r.docs.replace(ctx, a.ID, &stored)
}

func (r *AutomationRepository) Delete(ctx context.Context, id string) error {
	return r.docs.delete(ctx, id)
}

// List returns automations newest first
func (r *AutomationRepository) List(ctx context.Context) ([]*domain.Automation, error) {
	automations, err := r.docs.list(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(automations, func(i, j int) bool {
		return automations[i].CreatedAt.After(automations[j].CreatedAt)
	})
	return automations, nil
}

// TaskRepository stores demand board occurrences
type TaskRepository struct {
	docs collection[domain.Task]
}

func NewTaskRepository(store ports.DocumentStore) ports.TaskRepository {
	return &TaskRepository{docs: collection[domain.Task]{store: store, name: ports.CollectionTasks, notFound: domain.ErrTaskNotFound}}
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	return r.docs.put(ctx, task.ID, task)
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	return r.docs.get(ctx, id)
}

func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	return r.docs.replace(ctx, task.ID, task)
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	return r.docs.delete(ctx, id)
}

func (r *TaskRepository) List(ctx context.Context, query domain.TaskQuery) ([]*domain.Task, error) {
	all, err := r.docs.list(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]domain.Task, 0, len(all))
	for _, t := range all {
		if query.Matches(t) {
			matched = append(matched, *t)
		}
	}
	domain.SortTasks(matched)

	out := make([]*domain.Task, len(matched))
	for i := range matched {
		out[i] = &matched[i]
	}
	return out, nil
}

func (r *TaskRepository) DeleteSeries(ctx context.Context, workspaceID, seriesID string) (int, error) {
	all, err := r.docs.list(ctx)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, t := range all {
		if t.SeriesID == "" || t.SeriesID != seriesID || t.WorkspaceID != workspaceID {
			continue
		}
		if err := r.docs.delete(ctx, t.ID); err != nil {
			if errors.Is(err, domain.ErrTaskNotFound) {
				continue
			}
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

const canvasDocumentID = "default"

// CanvasRepository stores the diagram as a single document
type CanvasRepository struct {
	docs collection[domain.Canvas]
}

func NewCanvasRepository(store ports.DocumentStore) ports.CanvasRepository {
	return &CanvasRepository{docs: collection[domain.Canvas]{store: store, name: ports.CollectionCanvas, notFound: ports.ErrDocumentNotFound}}
}

func (r *CanvasRepository) Get(ctx context.Context) (*domain.Canvas, error) {
	canvas, err := r.docs.get(ctx, canvasDocumentID)
	if err != nil {
		if errors.Is(err, ports.ErrDocumentNotFound) {
			canvas = &domain.Canvas{}
		} else {
			return nil, err
		}
	}
	canvas.Normalize()
	return canvas, nil
}

func (r *CanvasRepository) Save(ctx context.Context, canvas *domain.Canvas) error {
	return r.docs.put(ctx, canvasDocumentID, canvas)
}
