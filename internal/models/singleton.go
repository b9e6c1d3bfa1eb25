// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// SingletonID is the fixed row identifier of the profile, about and journey
// records. Every write to a singleton upserts this row.
var SingletonID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// Profile is the headline identity shown on the landing page.
type Profile struct {
	ID          uuid.UUID
	Name        string
	Title       string
	Description string
	ImageURL    *string
	Email       *string
	Phone       *string
	Location    *string
	GithubURL   *string
	LinkedinURL *string
	TwitterURL  *string
	WebsiteURL  *string
	UpdatedAt   time.Time
}

// About is the free-form biography block.
type About struct {
	ID        uuid.UUID
	Title     string
	Content   string
	UpdatedAt time.Time
}

// Journey is the narrative page. The list-valued sections (goals,
// experience, working style) are stored as newline-joined text; Content is
// the legacy single-blob body kept for rows written before the sections
// existed.
type Journey struct {
	ID             uuid.UUID
	Title          string
	Headline       string
	Content        string
	ImageURL       *string
	WhoIAm         string
	WhatIDo        string
	ShortTermGoals string
	LongTermGoals  string
	Experience     string
	HowIWork       string
	UpdatedAt      time.Time
}

// HasStructuredContent reports whether any of the sectioned fields carry
// non-blank text. When none do, readers fall back to the legacy Content body.
func (j *Journey) HasStructuredContent() bool {
	for _, s := range []string{j.WhoIAm, j.WhatIDo, j.ShortTermGoals, j.LongTermGoals, j.Experience, j.HowIWork} {
		if strings.TrimSpace(s) != "" {
			return true
		}
	}
	return false
}
