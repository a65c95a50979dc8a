package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Scope controls which rows a read sees and which relations it loads
type Scope struct {
	WithTrashed bool
	Preloads    []string
}

func (s Scope) apply(db *gorm.DB) *gorm.DB {
	if s.WithTrashed {
		db = db.Unscoped()
	}
	for _, p := range s.Preloads {
		db = db.Preload(p)
	}
	return db
}

// Repository provides reads and soft deletes for one entity type
type Repository[T any] struct {
	db *gorm.DB
}

// NewRepository creates a repository for T
func NewRepository[T any](db *gorm.DB) *Repository[T] {
	return &Repository[T]{db: db}
}

// List returns every row visible in scope, ordered by id
func (r *Repository[T]) List(ctx context.Context, scope Scope) ([]T, error) {
	var rows []T
	result := scope.apply(r.db.WithContext(ctx)).Order("id ASC").Find(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list rows: %w", result.Error)
	}
	return rows, nil
}

// Find retrieves a row by primary key.
// Soft-deleted rows are only returned when scope.WithTrashed is set.
func (r *Repository[T]) Find(ctx context.Context, id uint, scope Scope) (*T, error) {
	var row T
	result := scope.apply(r.db.WithContext(ctx)).First(&row, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find row %d: %w", id, result.Error)
	}
	return &row, nil
}

// Delete soft-deletes a row by stamping deleted_at. The row and its
// relation links stay in storage.
func (r *Repository[T]) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(new(T), id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete row %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of rows visible in scope
func (r *Repository[T]) Count(ctx context.Context, scope Scope) (int64, error) {
	var count int64
	result := scope.apply(r.db.WithContext(ctx)).Model(new(T)).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count rows: %w", result.Error)
	}
	return count, nil
}
