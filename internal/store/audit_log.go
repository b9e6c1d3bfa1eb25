// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// audit_log.go records admin writes in the database for audit and
// debugging. Each entry captures who changed what, when, and how
// (create/update/delete/reorder).
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"portfolio/internal/models"
)

// AuditStore handles the admin audit log.
type AuditStore struct {
	db *sql.DB
}

// NewAuditStore creates a new AuditStore.
func NewAuditStore(db *sql.DB) *AuditStore {
	return &AuditStore{db: db}
}

// Log records an admin write. entityID may be nil for singletons and batch
// operations.
func (s *AuditStore) Log(ctx context.Context, actorID uuid.UUID, entityType string, entityID *uuid.UUID, action string) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admin_audit_log (actor_id, entity_type, entity_id, action)
		VALUES ($1, $2, $3, $4)
	`, actorID, entityType, entityID, action)
	if err != nil {
		// Logged only; a failed audit write never fails the request.
		slog.Warn("failed to write audit entry",
			"actor_id", actorID,
			"entity_type", entityType,
			"action", action,
			"error", err,
		)
		return
	}
	slog.Debug("audit entry written",
		"actor_id", actorID,
		"entity_type", entityType,
		"action", action,
	)
}

// RecentEntries returns the most recent audit entries, newest first.
func (s *AuditStore) RecentEntries(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, actor_id, entity_type, entity_id, action, created_at
		FROM admin_audit_log
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	defer rows.Close()

	entries := []models.AuditEntry{}
	for rows.Next() {
		var e models.AuditEntry
		if err := rows.Scan(&e.ID, &e.ActorID, &e.EntityType, &e.EntityID, &e.Action, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
