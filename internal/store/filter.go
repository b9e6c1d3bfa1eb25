package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"portfolio/internal/models"
)

// FilterStore handles project filter rows.
type FilterStore struct {
	db *sql.DB
}

// NewFilterStore creates a new FilterStore.
func NewFilterStore(db *sql.DB) *FilterStore {
	return &FilterStore{db: db}
}

const filterColumns = `id, name, display_order, is_active, created_at, updated_at`

func scanFilter(row interface{ Scan(...any) error }) (*models.ProjectFilter, error) {
	f := &models.ProjectFilter{}
	err := row.Scan(&f.ID, &f.Name, &f.DisplayOrder, &f.IsActive, &f.CreatedAt, &f.UpdatedAt)
	return f, err
}

// List returns filters ordered by display order, then name. With activeOnly
// set, inactive filters are left out.
func (s *FilterStore) List(ctx context.Context, activeOnly bool) ([]models.ProjectFilter, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+filterColumns+`
		FROM project_filters
		WHERE is_active OR NOT $1
		ORDER BY display_order ASC, name ASC`, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list project filters: %w", err)
	}
	defer rows.Close()

	filters := []models.ProjectFilter{}
	for rows.Next() {
		f, err := scanFilter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project filter: %w", err)
		}
		filters = append(filters, *f)
	}
	return filters, rows.Err()
}

// FindByID returns a filter, or nil if it does not exist.
func (s *FilterStore) FindByID(ctx context.Context, id uuid.UUID) (*models.ProjectFilter, error) {
	f, err := scanFilter(s.db.QueryRowContext(ctx, `SELECT `+filterColumns+` FROM project_filters WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find project filter: %w", err)
	}
	return f, nil
}

// Create inserts a filter.
func (s *FilterStore) Create(ctx context.Context, f *models.ProjectFilter) (*models.ProjectFilter, error) {
	created, err := scanFilter(s.db.QueryRowContext(ctx, `
		INSERT INTO project_filters (name, display_order, is_active)
		VALUES ($1, $2, $3)
		RETURNING `+filterColumns,
		f.Name, f.DisplayOrder, f.IsActive,
	))
	if err != nil {
		return nil, fmt.Errorf("create project filter: %w", err)
	}
	return created, nil
}

// Update overwrites a filter. Returns nil if the id does not exist.
func (s *FilterStore) Update(ctx context.Context, f *models.ProjectFilter) (*models.ProjectFilter, error) {
	updated, err := scanFilter(s.db.QueryRowContext(ctx, `
		UPDATE project_filters SET name = $2, display_order = $3, is_active = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING `+filterColumns,
		f.ID, f.Name, f.DisplayOrder, f.IsActive,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update project filter: %w", err)
	}
	return updated, nil
}

// Swap exchanges the display orders of two filters in a single statement.
// Either both rows change or neither does; an unknown id wraps ErrNotFound.
func (s *FilterStore) Swap(ctx context.Context, a, b uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin filter swap: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE project_filters AS f
		SET display_order = o.display_order, updated_at = NOW()
		FROM project_filters AS o
		WHERE (f.id = $1 AND o.id = $2) OR (f.id = $2 AND o.id = $1)`, a, b)
	if err != nil {
		return fmt.Errorf("swap project filters: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("swap project filters: %w", err)
	}
	if n != 2 {
		return fmt.Errorf("swap project filters %s, %s: %w", a, b, ErrNotFound)
	}

	return tx.Commit()
}

// Delete removes a filter. The bool is false if nothing was deleted.
func (s *FilterStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return deleteByID(ctx, s.db, "project_filters", id)
}
