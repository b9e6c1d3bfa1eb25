package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"portfolio/internal/models"
	"portfolio/internal/normalize"
)

// ProjectStore handles project rows.
type ProjectStore struct {
	db *sql.DB
}

// NewProjectStore creates a new ProjectStore.
func NewProjectStore(db *sql.DB) *ProjectStore {
	return &ProjectStore{db: db}
}

const projectColumns = `id, title, description, technologies, github_url, live_url, image_url,
	demo_video_url, map_url, role, published_date, featured, created_at, updated_at`

// scanProject reads one row. A technologies value that is neither an array
// nor an encoded array fails the whole read with ErrMalformedTechnologies.
func scanProject(row interface{ Scan(...any) error }) (*models.Project, error) {
	p := &models.Project{}
	var techs []byte
	if err := row.Scan(
		&p.ID, &p.Title, &p.Description, &techs, &p.GithubURL, &p.LiveURL, &p.ImageURL,
		&p.DemoVideoURL, &p.MapURL, &p.Role, &p.PublishedDate, &p.Featured, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	decoded, err := normalize.DecodeTechnologies(techs)
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", p.ID, err)
	}
	p.Technologies = decoded
	return p, nil
}

// List returns all projects, newest first.
func (s *ProjectStore) List(ctx context.Context) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		ORDER BY created_at DESC, title ASC`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

// FindByID returns a project, or nil if it does not exist.
func (s *ProjectStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	p, err := scanProject(s.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find project: %w", err)
	}
	return p, nil
}

// Create inserts a project. Technologies are always written as a native array.
func (s *ProjectStore) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	created, err := scanProject(s.db.QueryRowContext(ctx, `
		INSERT INTO projects (title, description, technologies, github_url, live_url, image_url,
			demo_video_url, map_url, role, published_date, featured)
		VALUES ($1, $2, $3::jsonb, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+projectColumns,
		p.Title, p.Description, string(normalize.EncodeTechnologies(p.Technologies)),
		p.GithubURL, p.LiveURL, p.ImageURL, p.DemoVideoURL, p.MapURL, p.Role, p.PublishedDate, p.Featured,
	))
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return created, nil
}

// Update overwrites a project. Returns nil if the id does not exist.
func (s *ProjectStore) Update(ctx context.Context, p *models.Project) (*models.Project, error) {
	updated, err := scanProject(s.db.QueryRowContext(ctx, `
		UPDATE projects SET
			title = $2, description = $3, technologies = $4::jsonb, github_url = $5, live_url = $6,
			image_url = $7, demo_video_url = $8, map_url = $9, role = $10, published_date = $11,
			featured = $12, updated_at = NOW()
		WHERE id = $1
		RETURNING `+projectColumns,
		p.ID, p.Title, p.Description, string(normalize.EncodeTechnologies(p.Technologies)),
		p.GithubURL, p.LiveURL, p.ImageURL, p.DemoVideoURL, p.MapURL, p.Role, p.PublishedDate, p.Featured,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return updated, nil
}

// Delete removes a project. The bool is false if nothing was deleted.
func (s *ProjectStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return deleteByID(ctx, s.db, "projects", id)
}

// deleteByID is shared by the collection stores. table is always a
// compile-time constant.
func deleteByID(ctx context.Context, db *sql.DB, table string, id uuid.UUID) (bool, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete from %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete from %s: %w", table, err)
	}
	return n > 0, nil
}
