package models

import (
	"time"

	"github.com/google/uuid"
)

// ContactSubmission is a message left through the public contact form.
type ContactSubmission struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Subject   string
	Message   string
	Read      bool
	CreatedAt time.Time
}

// AuditEntry records one admin write: who did it, to what, and how.
type AuditEntry struct {
	ID         int64      `json:"id"`
	ActorID    uuid.UUID  `json:"actorId"`
	EntityType string     `json:"entityType"`
	EntityID   *uuid.UUID `json:"entityId"`
	Action     string     `json:"action"`
	CreatedAt  time.Time  `json:"createdAt"`
}
