package models

import (
	"time"

	"github.com/google/uuid"
)

// Skill is one entry of the skills grid. Categories are ordered by
// CategoryOrder and skills inside a category by SkillOrder.
type Skill struct {
	ID            uuid.UUID
	Name          string
	Category      string
	Proficiency   int // 0..100
	ImageURL      *string
	CategoryOrder int
	SkillOrder    int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SkillOrderUpdate moves a single skill. Nil fields are left unchanged.
type SkillOrderUpdate struct {
	ID            uuid.UUID
	CategoryOrder *int
	SkillOrder    *int
}
