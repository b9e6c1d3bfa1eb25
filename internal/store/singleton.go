// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"portfolio/internal/models"
)

// SingletonStore reads and upserts the profile, about and journey rows.
// All three live under models.SingletonID; the last writer wins.
type SingletonStore struct {
	db *sql.DB
}

// NewSingletonStore returns a new SingletonStore backed by the given database.
func NewSingletonStore(db *sql.DB) *SingletonStore {
	return &SingletonStore{db: db}
}

const profileColumns = `id, name, title, description, image_url, email, phone, location,
	github_url, linkedin_url, twitter_url, website_url, updated_at`

func scanProfile(row *sql.Row) (*models.Profile, error) {
	p := &models.Profile{}
	err := row.Scan(
		&p.ID, &p.Name, &p.Title, &p.Description, &p.ImageURL, &p.Email, &p.Phone, &p.Location,
		&p.GithubURL, &p.LinkedinURL, &p.TwitterURL, &p.WebsiteURL, &p.UpdatedAt,
	)
	return p, err
}

// Profile returns the stored profile, or nil if none was ever saved.
func (s *SingletonStore) Profile(ctx context.Context) (*models.Profile, error) {
	p, err := scanProfile(s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profile WHERE id = $1`, models.SingletonID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// SaveProfile upserts the profile row.
func (s *SingletonStore) SaveProfile(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	saved, err := scanProfile(s.db.QueryRowContext(ctx, `
		INSERT INTO profile (id, name, title, description, image_url, email, phone, location,
			github_url, linkedin_url, twitter_url, website_url, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			image_url = EXCLUDED.image_url,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			location = EXCLUDED.location,
			github_url = EXCLUDED.github_url,
			linkedin_url = EXCLUDED.linkedin_url,
			twitter_url = EXCLUDED.twitter_url,
			website_url = EXCLUDED.website_url,
			updated_at = EXCLUDED.updated_at
		RETURNING `+profileColumns,
		models.SingletonID, p.Name, p.Title, p.Description, p.ImageURL, p.Email, p.Phone, p.Location,
		p.GithubURL, p.LinkedinURL, p.TwitterURL, p.WebsiteURL,
	))
	if err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return saved, nil
}

// About returns the stored about block, or nil if none was ever saved.
func (s *SingletonStore) About(ctx context.Context) (*models.About, error) {
	a := &models.About{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, content, updated_at FROM about WHERE id = $1`, models.SingletonID,
	).Scan(&a.ID, &a.Title, &a.Content, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get about: %w", err)
	}
	return a, nil
}

// SaveAbout upserts the about row.
func (s *SingletonStore) SaveAbout(ctx context.Context, a *models.About) (*models.About, error) {
	saved := &models.About{}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO about (id, title, content, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			updated_at = EXCLUDED.updated_at
		RETURNING id, title, content, updated_at`,
		models.SingletonID, a.Title, a.Content,
	).Scan(&saved.ID, &saved.Title, &saved.Content, &saved.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("save about: %w", err)
	}
	return saved, nil
}

const journeyColumns = `id, title, headline, content, image_url, who_i_am, what_i_do,
	short_term_goals, long_term_goals, experience, how_i_work, updated_at`

func scanJourney(row *sql.Row) (*models.Journey, error) {
	j := &models.Journey{}
	err := row.Scan(
		&j.ID, &j.Title, &j.Headline, &j.Content, &j.ImageURL, &j.WhoIAm, &j.WhatIDo,
		&j.ShortTermGoals, &j.LongTermGoals, &j.Experience, &j.HowIWork, &j.UpdatedAt,
	)
	return j, err
}

// Journey returns the stored journey, or nil if none was ever saved.
func (s *SingletonStore) Journey(ctx context.Context) (*models.Journey, error) {
	j, err := scanJourney(s.db.QueryRowContext(ctx,
		`SELECT `+journeyColumns+` FROM journey WHERE id = $1`, models.SingletonID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get journey: %w", err)
	}
	return j, nil
}

// SaveJourney upserts the journey row.
func (s *SingletonStore) SaveJourney(ctx context.Context, j *models.Journey) (*models.Journey, error) {
	saved, err := scanJourney(s.db.QueryRowContext(ctx, `
		INSERT INTO journey (id, title, headline, content, image_url, who_i_am, what_i_do,
			short_term_goals, long_term_goals, experience, how_i_work, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			headline = EXCLUDED.headline,
			content = EXCLUDED.content,
			image_url = EXCLUDED.image_url,
			who_i_am = EXCLUDED.who_i_am,
			what_i_do = EXCLUDED.what_i_do,
			short_term_goals = EXCLUDED.short_term_goals,
			long_term_goals = EXCLUDED.long_term_goals,
			experience = EXCLUDED.experience,
			how_i_work = EXCLUDED.how_i_work,
			updated_at = EXCLUDED.updated_at
		RETURNING `+journeyColumns,
		models.SingletonID, j.Title, j.Headline, j.Content, j.ImageURL, j.WhoIAm, j.WhatIDo,
		j.ShortTermGoals, j.LongTermGoals, j.Experience, j.HowIWork,
	))
	if err != nil {
		return nil, fmt.Errorf("save journey: %w", err)
	}
	return saved, nil
}
