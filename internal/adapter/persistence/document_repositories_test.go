package persistence

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskpulse/deskpulse/internal/domain"
)

func TestBIRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewBIRepository(NewMemoryDocumentStore())
	older := &domain.BI{ID: "a", Nome: "old", CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	newer := &domain.BI{ID: "b", Nome: "new", CreatedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Bases: []domain.Base{{ID: "x", BIID: "b", Status: domain.BaseStatusWaiting}}}

	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)
	assert.Len(t, list[0].Bases, 1)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrBINotFound)

	err = repo.Update(ctx, &domain.BI{ID: "missing"})
	assert.ErrorIs(t, err, domain.ErrBINotFound)

	older.Nome = "renamed"
	require.NoError(t, repo.Update(ctx, older))
	got, err := repo.FindByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Nome)

	require.NoError(t, repo.Delete(ctx, "a"))
	assert.ErrorIs(t, repo.Delete(ctx, "a"), domain.ErrBINotFound)
}

func TestAutomationRepositoryDoesNotStoreNextRun(t *testing.T) {
	ctx := context.Background()
	repo := NewAutomationRepository(NewMemoryDocumentStore())
	next := time.Now()

	require.NoError(t, repo.Create(ctx, &domain.Automation{ID: "1", ProximaExecucao: &next}))

	got, err := repo.FindByID(ctx, "1")
	require.NoError(t, err)
	assert.Nil(t, got.ProximaExecucao)
}

func TestTaskRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository(NewMemoryDocumentStore())
	tasks := []*domain.Task{
		{ID: "1", Titulo: "b", Inicio: "10:00", WorkspaceID: "w", YMD: "2024-03-01", SeriesID: "s1"},
		{ID: "2", Titulo: "a", Inicio: "08:00", WorkspaceID: "w", YMD: "2024-03-01"},
		{ID: "3", Titulo: "c", Inicio: "09:00", WorkspaceID: "w", YMD: "2024-03-02", SeriesID: "s1"},
		{ID: "4", Titulo: "d", Inicio: "09:00", WorkspaceID: "other", YMD: "2024-03-01", SeriesID: "s1"},
	}
	for _, task := range tasks {
		require.NoError(t, repo.Create(ctx, task))
	}

	day, err := repo.List(ctx, domain.TaskQuery{WorkspaceID: "w", YMD: "2024-03-01"})
	require.NoError(t, err)
	require.Len(t, day, 2)
	assert.Equal(t, "2", day[0].ID)
	assert.Equal(t, "1", day[1].ID)

	deleted, err := repo.DeleteSeries(ctx, "w", "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	remaining, err := repo.List(ctx, domain.TaskQuery{})
	require.NoError(t, err)
	assert.Len(t, remaining, 2)

	deleted, err = repo.DeleteSeries(ctx, "w", "")
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestCanvasRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewCanvasRepository(NewMemoryDocumentStore())

	empty, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty.Nodes)
	assert.NotNil(t, empty.Nodes)

	canvas := &domain.Canvas{
		Nodes: []domain.CanvasNode{{ID: "n1", Type: "custom", PositionX: "1", PositionY: "2", Data: json.RawMessage(`{"label":"BI"}`)}},
		Edges: []domain.CanvasEdge{{ID: "e1", Source: "n1", Target: "n1", Type: "smoothstep"}},
	}
	require.NoError(t, repo.Save(ctx, canvas))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	require.Len(t, got.Nodes, 1)
	assert.JSONEq(t, `{"label":"BI"}`, string(got.Nodes[0].Data))
	assert.Len(t, got.Edges, 1)
}
