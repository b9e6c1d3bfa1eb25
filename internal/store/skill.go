package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"portfolio/internal/models"
)

// SkillStore handles skill rows.
type SkillStore struct {
	db *sql.DB
}

// NewSkillStore creates a new SkillStore.
func NewSkillStore(db *sql.DB) *SkillStore {
	return &SkillStore{db: db}
}

const skillColumns = `id, name, category, proficiency, image_url, category_order, skill_order, created_at, updated_at`

func scanSkill(row interface{ Scan(...any) error }) (*models.Skill, error) {
	s := &models.Skill{}
	err := row.Scan(
		&s.ID, &s.Name, &s.Category, &s.Proficiency, &s.ImageURL,
		&s.CategoryOrder, &s.SkillOrder, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// List returns all skills grouped by category order, then skill order.
// Equal orders fall back to the name.
func (s *SkillStore) List(ctx context.Context) ([]models.Skill, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+skillColumns+`
		FROM skills
		ORDER BY category_order ASC, skill_order ASC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	defer rows.Close()

	skills := []models.Skill{}
	for rows.Next() {
		sk, err := scanSkill(rows)
		if err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		skills = append(skills, *sk)
	}
	return skills, rows.Err()
}

// FindByID returns a skill, or nil if it does not exist.
func (s *SkillStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Skill, error) {
	sk, err := scanSkill(s.db.QueryRowContext(ctx, `SELECT `+skillColumns+` FROM skills WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find skill: %w", err)
	}
	return sk, nil
}

// Create inserts a skill.
func (s *SkillStore) Create(ctx context.Context, sk *models.Skill) (*models.Skill, error) {
	created, err := scanSkill(s.db.QueryRowContext(ctx, `
		INSERT INTO skills (name, category, proficiency, image_url, category_order, skill_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+skillColumns,
		sk.Name, sk.Category, sk.Proficiency, sk.ImageURL, sk.CategoryOrder, sk.SkillOrder,
	))
	if err != nil {
		return nil, fmt.Errorf("create skill: %w", err)
	}
	return created, nil
}

// Update overwrites a skill. Returns nil if the id does not exist.
func (s *SkillStore) Update(ctx context.Context, sk *models.Skill) (*models.Skill, error) {
	updated, err := scanSkill(s.db.QueryRowContext(ctx, `
		UPDATE skills SET
			name = $2, category = $3, proficiency = $4, image_url = $5,
			category_order = $6, skill_order = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING `+skillColumns,
		sk.ID, sk.Name, sk.Category, sk.Proficiency, sk.ImageURL, sk.CategoryOrder, sk.SkillOrder,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update skill: %w", err)
	}
	return updated, nil
}

// UpdateOrders applies a batch of order changes in one transaction. If any
// id is unknown nothing is changed and the error wraps ErrNotFound.
func (s *SkillStore) UpdateOrders(ctx context.Context, updates []models.SkillOrderUpdate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin skill reorder: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		UPDATE skills SET
			category_order = COALESCE($2, category_order),
			skill_order = COALESCE($3, skill_order),
			updated_at = NOW()
		WHERE id = $1`)
	if err != nil {
		return fmt.Errorf("prepare skill reorder: %w", err)
	}
	defer stmt.Close()

	for _, u := range updates {
		res, err := stmt.ExecContext(ctx, u.ID, u.CategoryOrder, u.SkillOrder)
		if err != nil {
			return fmt.Errorf("reorder skill %s: %w", u.ID, err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("reorder skill %s: %w", u.ID, err)
		} else if n == 0 {
			return fmt.Errorf("reorder skill %s: %w", u.ID, ErrNotFound)
		}
	}

	return tx.Commit()
}

// Delete removes a skill. The bool is false if nothing was deleted.
func (s *SkillStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return deleteByID(ctx, s.db, "skills", id)
}
