package ports

import (
	"context"
	"errors"

	"github.com/deskpulse/deskpulse/internal/domain"
)

// ErrDocumentNotFound is returned by a DocumentStore when the id is unknown.
var ErrDocumentNotFound = errors.New("document not found")

// Collections held in the document store.
const (
	CollectionBIs         = "bis"
	CollectionAutomations = "automacoes"
	CollectionTasks       = "tasks"
	CollectionCanvas      = "canvas"
)

// DocumentStore persists JSON documents grouped in collections.
type DocumentStore interface {
	// Get returns the document body or ErrDocumentNotFound
	Get(ctx context.Context, collection, id string) ([]byte, error)

	// Put inserts or replaces a document
	Put(ctx context.Context, collection, id string, body []byte) error

	// Delete removes a document, returning ErrDocumentNotFound when absent
	Delete(ctx context.Context, collection, id string) error

	// List returns every document of a collection in unspecified order
	List(ctx context.Context, collection string) ([][]byte, error)

	// Ping checks the backend is reachable
	Ping(ctx context.Context) error

	Close() error
}

// BIRepository defines the interface for BI persistence. Bases are stored
// inside their BI.
type BIRepository interface {
	Create(ctx context.Context, bi *domain.BI) error
	FindByID(ctx context.Context, id string) (*domain.BI, error)
	Update(ctx context.Context, bi *domain.BI) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.BI, error)
}

// AutomationRepository defines the interface for automation persistence
type AutomationRepository interface {
	Create(ctx context.Context, automation *domain.Automation) error
	FindByID(ctx context.Context, id string) (*domain.Automation, error)
	Update(ctx context.Context, automation *domain.Automation) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.Automation, error)
}

// TaskRepository defines the interface for demand board persistence
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id string) error

	// List returns the tasks matching the query, ordered by start time
	List(ctx context.Context, query domain.TaskQuery) ([]*domain.Task, error)

	// DeleteSeries removes every occurrence of a series in a workspace and
	// returns how many were removed
	DeleteSeries(ctx context.Context, workspaceID, seriesID string) (int, error)
}

// CanvasRepository stores the single BI diagram
type CanvasRepository interface {
	// Get returns the saved canvas, or an empty one if nothing was saved
	Get(ctx context.Context) (*domain.Canvas, error)

	// Save replaces the whole canvas
	Save(ctx context.Context, canvas *domain.Canvas) error
}
