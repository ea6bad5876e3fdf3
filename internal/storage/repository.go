package storage

import (
	"context"

	"github.com/example/casegen/casegen/domain"
)

// ListOptions provides filtering options for list operations.
type ListOptions struct {
	// Source filters runs by source path (empty = all)
	Source string

	// Pagination
	Limit  int
	Offset int
}

// RunRepository provides access to recorded generation runs.
type RunRepository interface {
	// Create records a new Run.
	Create(ctx context.Context, run *domain.Run) error

	// Get retrieves a Run by ID.
	Get(ctx context.Context, id string) (*domain.Run, error)

	// List lists Runs, newest first.
	List(ctx context.Context, opts ListOptions) ([]*domain.Run, error)

	// Delete deletes a Run by ID.
	Delete(ctx context.Context, id string) error

	// DeleteAll deletes every Run and returns how many were removed.
	DeleteAll(ctx context.Context) (int, error)
}

// UnitOfWork provides transactional access to all repositories.
type UnitOfWork interface {
	// Repository accessors
	Runs() RunRepository

	// Transaction control
	Commit() error
	Rollback() error
}

// Storage provides the main entry point for storage operations.
type Storage interface {
	// Begin starts a new transaction and returns a UnitOfWork.
	Begin(ctx context.Context) (UnitOfWork, error)

	// Close closes the storage connection.
	Close() error

	// Migrate runs database migrations.
	Migrate(ctx context.Context) error
}
