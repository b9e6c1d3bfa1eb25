package models

import (
	"time"

	"github.com/google/uuid"
)

// Project is a portfolio entry. Technologies keeps the order the operator
// entered them in.
type Project struct {
	ID            uuid.UUID
	Title         string
	Description   string
	Technologies  []string
	GithubURL     *string
	LiveURL       *string
	ImageURL      *string
	DemoVideoURL  *string
	MapURL        *string
	Role          *string
	PublishedDate *string
	Featured      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProjectFilter is a named facet for narrowing the project listing.
// Inactive filters are hidden from the public listing.
type ProjectFilter struct {
	ID           uuid.UUID
	Name         string
	DisplayOrder int
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
