package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"portfolio/internal/models"
)

// ContactStore handles contact form submissions.
type ContactStore struct {
	db *sql.DB
}

// NewContactStore creates a new ContactStore.
func NewContactStore(db *sql.DB) *ContactStore {
	return &ContactStore{db: db}
}

const contactColumns = `id, name, email, subject, message, read, created_at`

func scanContact(row interface{ Scan(...any) error }) (*models.ContactSubmission, error) {
	c := &models.ContactSubmission{}
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Subject, &c.Message, &c.Read, &c.CreatedAt)
	return c, err
}

// List returns all submissions, newest first.
func (s *ContactStore) List(ctx context.Context) ([]models.ContactSubmission, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+contactColumns+` FROM contact_submissions ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	contacts := []models.ContactSubmission{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, *c)
	}
	return contacts, rows.Err()
}

// Create stores a new submission. New submissions are always unread.
func (s *ContactStore) Create(ctx context.Context, c *models.ContactSubmission) (*models.ContactSubmission, error) {
	created, err := scanContact(s.db.QueryRowContext(ctx, `
		INSERT INTO contact_submissions (name, email, subject, message, read)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING `+contactColumns,
		c.Name, c.Email, c.Subject, c.Message,
	))
	if err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	return created, nil
}

// SetRead updates the read flag. The bool is false if the id does not exist.
func (s *ContactStore) SetRead(ctx context.Context, id uuid.UUID, read bool) (bool, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE contact_submissions SET read = $2 WHERE id = $1`, id, read)
	if err != nil {
		return false, fmt.Errorf("set contact read: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set contact read: %w", err)
	}
	return n > 0, nil
}

// Delete removes a submission. The bool is false if nothing was deleted.
func (s *ContactStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return deleteByID(ctx, s.db, "contact_submissions", id)
}
