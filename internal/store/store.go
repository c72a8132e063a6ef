package store

import (
	"context"

	"github.com/TracecatHQ/caseboard/internal/model"
)

// Store defines the persistence interface for cases.
type Store interface {
	// Case CRUD
	CreateCase(ctx context.Context, c *model.CaseSummary) error
	GetCase(ctx context.Context, workspaceID, id string) (*model.CaseSummary, error)
	ListCases(ctx context.Context, filter model.CaseFilter) (*model.CasePage, error)
	UpdateCase(ctx context.Context, c *model.CaseSummary) error
	CloseCase(ctx context.Context, workspaceID, id string) (*model.CaseSummary, error)
	DeleteCase(ctx context.Context, workspaceID, id string) error

	// ListAllCases returns every case ordered by id, for snapshot export.
	ListAllCases(ctx context.Context) ([]*model.CaseSummary, error)

	// Transaction support
	RunInTransaction(ctx context.Context, fn func(tx Store) error) error

	// Lifecycle
	Close() error
}
