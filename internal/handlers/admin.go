// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers of the portfolio API.
// Handlers are grouped by concern (public, admin, auth) and receive
// their dependencies through the handler struct.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"portfolio/internal/cache"
	"portfolio/internal/middleware"
	"portfolio/internal/models"
	"portfolio/internal/normalize"
	"portfolio/internal/store"
)

// Audit actions.
const (
	actionCreate   = "create"
	actionUpdate   = "update"
	actionDelete   = "delete"
	actionReorder  = "reorder"
	actionSwap     = "swap"
	actionMarkRead = "mark_read"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// Admin groups the content management handlers. Every route in this group
// runs behind the auth gate.
type Admin struct {
	stores    Stores
	responses *cache.Responses
	storage   ObjectStore

	projects collection[models.Project]
	skills   collection[models.Skill]
	filters  collection[models.ProjectFilter]
}

// NewAdmin creates the admin handler group. responses and storage may be
// nil when Valkey caching or S3 are not configured.
func NewAdmin(stores Stores, responses *cache.Responses, storage ObjectStore) *Admin {
	a := &Admin{stores: stores, responses: responses, storage: storage}

	a.projects = collection[models.Project]{
		kind:   cache.KindProjects,
		entity: "project",
		label:  "Project",
		list:   stores.Projects.List,
		find:   stores.Projects.FindByID,
		create: stores.Projects.Create,
		update: stores.Projects.Update,
		remove: stores.Projects.Delete,
		fresh:  func() *models.Project { return &models.Project{Technologies: []string{}} },
		apply:  normalize.ApplyProject,
		check:  normalize.CheckProject,
		doc:    normalize.ProjectDocument,
		setID:  func(p *models.Project, id uuid.UUID) { p.ID = id },
		getID:  func(p *models.Project) uuid.UUID { return p.ID },
	}
	a.skills = collection[models.Skill]{
		kind:   cache.KindSkills,
		entity: "skill",
		label:  "Skill",
		list:   stores.Skills.List,
		find:   stores.Skills.FindByID,
		create: stores.Skills.Create,
		update: stores.Skills.Update,
		remove: stores.Skills.Delete,
		fresh:  func() *models.Skill { return &models.Skill{} },
		apply:  normalize.ApplySkill,
		check:  normalize.CheckSkill,
		doc:    normalize.SkillDocument,
		setID:  func(s *models.Skill, id uuid.UUID) { s.ID = id },
		getID:  func(s *models.Skill) uuid.UUID { return s.ID },
	}
	a.filters = collection[models.ProjectFilter]{
		kind:   cache.KindFilters,
		entity: "project_filter",
		label:  "Project filter",
		list:   func(ctx context.Context) ([]models.ProjectFilter, error) { return stores.Filters.List(ctx, false) },
		find:   stores.Filters.FindByID,
		create: stores.Filters.Create,
		update: stores.Filters.Update,
		remove: stores.Filters.Delete,
		fresh:  normalize.NewFilter,
		apply:  normalize.ApplyFilter,
		check:  normalize.CheckFilter,
		doc:    normalize.FilterDocument,
		setID:  func(f *models.ProjectFilter, id uuid.UUID) { f.ID = id },
		getID:  func(f *models.ProjectFilter) uuid.UUID { return f.ID },
	}
	return a
}

// recordWrite logs the audit entry for a successful write and drops the
// cached public responses of kind.
func (a *Admin) recordWrite(r *http.Request, kind, entity string, entityID *uuid.UUID, action string) {
	// The write has committed; a client hanging up must not skip this.
	ctx := context.WithoutCancel(r.Context())
	if id := middleware.IdentityFromCtx(ctx); id != nil {
		a.stores.Audit.Log(ctx, id.UserID, entity, entityID, action)
	}
	if kind != "" {
		a.responses.Invalidate(ctx, kind)
	}
}

// --- Singletons ---

// singleton describes one of the fixed-id records.
type singleton[T any] struct {
	kind   string
	entity string
	load   func(ctx context.Context) (*T, error)
	save   func(ctx context.Context, v *T) (*T, error)
	fresh  func() *T
	apply  func(dst *T, p normalize.Payload) error
	doc    func(src *T, mode normalize.Mode) normalize.Document
}

// get answers null when the record was never saved.
func (s singleton[T]) get(w http.ResponseWriter, r *http.Request) {
	v, err := s.load(r.Context())
	if err != nil {
		storeFailed(w, r, "Failed to load "+s.entity, err)
		return
	}
	if v == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, s.doc(v, normalize.Admin))
}

// put merges the body onto the stored record, or onto the defaults, and
// upserts it.
func (s singleton[T]) put(a *Admin, w http.ResponseWriter, r *http.Request) {
	body, ok := decode(w, r)
	if !ok {
		return
	}
	current, err := s.load(r.Context())
	if err != nil {
		storeFailed(w, r, "Failed to load "+s.entity, err)
		return
	}
	if current == nil {
		current = s.fresh()
	}
	if err := s.apply(current, body); err != nil {
		invalid(w, err)
		return
	}
	saved, err := s.save(r.Context(), current)
	if err != nil {
		storeFailed(w, r, "Failed to save "+s.entity, err)
		return
	}
	id := models.SingletonID
	a.recordWrite(r, s.kind, s.entity, &id, actionUpdate)
	writeJSON(w, http.StatusOK, s.doc(saved, normalize.Admin))
}

func (a *Admin) profile() singleton[models.Profile] {
	return singleton[models.Profile]{
		kind: cache.KindProfile, entity: "profile",
		load: a.stores.Singletons.Profile, save: a.stores.Singletons.SaveProfile,
		fresh: normalize.DefaultProfile, apply: normalize.ApplyProfile, doc: normalize.ProfileDocument,
	}
}

func (a *Admin) about() singleton[models.About] {
	return singleton[models.About]{
		kind: cache.KindAbout, entity: "about",
		load: a.stores.Singletons.About, save: a.stores.Singletons.SaveAbout,
		fresh: normalize.DefaultAbout, apply: normalize.ApplyAbout, doc: normalize.AboutDocument,
	}
}

func (a *Admin) journey() singleton[models.Journey] {
	return singleton[models.Journey]{
		kind: cache.KindJourney, entity: "journey",
		load: a.stores.Singletons.Journey, save: a.stores.Singletons.SaveJourney,
		fresh: normalize.DefaultJourney, apply: normalize.ApplyJourney, doc: normalize.JourneyDocument,
	}
}

// ProfileGet returns the stored profile.
func (a *Admin) ProfileGet(w http.ResponseWriter, r *http.Request) { a.profile().get(w, r) }

// ProfilePut saves the profile.
func (a *Admin) ProfilePut(w http.ResponseWriter, r *http.Request) { a.profile().put(a, w, r) }

// AboutGet returns the stored about block.
func (a *Admin) AboutGet(w http.ResponseWriter, r *http.Request) { a.about().get(w, r) }

// AboutPut saves the about block.
func (a *Admin) AboutPut(w http.ResponseWriter, r *http.Request) { a.about().put(a, w, r) }

// JourneyGet returns the stored journey page.
func (a *Admin) JourneyGet(w http.ResponseWriter, r *http.Request) { a.journey().get(w, r) }

// JourneyPut saves the journey page.
func (a *Admin) JourneyPut(w http.ResponseWriter, r *http.Request) { a.journey().put(a, w, r) }

// --- Collections ---

// collection describes a record kind with individually addressed rows.
type collection[T any] struct {
	kind   string
	entity string
	label  string
	list   func(ctx context.Context) ([]T, error)
	find   func(ctx context.Context, id uuid.UUID) (*T, error)
	create func(ctx context.Context, v *T) (*T, error)
	update func(ctx context.Context, v *T) (*T, error)
	remove func(ctx context.Context, id uuid.UUID) (bool, error)
	fresh  func() *T
	apply  func(dst *T, p normalize.Payload) error
	check  func(v *T) error
	doc    func(src *T, mode normalize.Mode) normalize.Document
	setID  func(v *T, id uuid.UUID)
	getID  func(v *T) uuid.UUID
}

func (c collection[T]) listAll(w http.ResponseWriter, r *http.Request) {
	items, err := c.list(r.Context())
	if err != nil {
		storeFailed(w, r, "Failed to list "+c.entity+"s", err)
		return
	}
	writeJSON(w, http.StatusOK, normalize.Documents(items, normalize.Admin, c.doc))
}

func (c collection[T]) createOne(a *Admin, w http.ResponseWriter, r *http.Request) {
	body, ok := decode(w, r)
	if !ok {
		return
	}
	v := c.fresh()
	if err := errors.Join(c.apply(v, body), c.check(v)); err != nil {
		invalid(w, err)
		return
	}
	created, err := c.create(r.Context(), v)
	if err != nil {
		storeFailed(w, r, "Failed to create "+c.entity, err)
		return
	}
	id := c.getID(created)
	a.recordWrite(r, c.kind, c.entity, &id, actionCreate)
	writeJSON(w, http.StatusCreated, c.doc(created, normalize.Admin))
}

// updateOne merges the body onto the stored row named by the body's id.
func (c collection[T]) updateOne(a *Admin, w http.ResponseWriter, r *http.Request) {
	body, ok := decode(w, r)
	if !ok {
		return
	}
	id, err := body.RequireUUID(normalize.IDField)
	if err != nil {
		invalid(w, err)
		return
	}
	current, err := c.find(r.Context(), id)
	if err != nil {
		storeFailed(w, r, "Failed to load "+c.entity, err)
		return
	}
	if current == nil {
		notFound(w, c.label)
		return
	}
	if err := errors.Join(c.apply(current, body), c.check(current)); err != nil {
		invalid(w, err)
		return
	}
	c.setID(current, id)
	updated, err := c.update(r.Context(), current)
	if err != nil {
		storeFailed(w, r, "Failed to update "+c.entity, err)
		return
	}
	if updated == nil {
		notFound(w, c.label)
		return
	}
	a.recordWrite(r, c.kind, c.entity, &id, actionUpdate)
	writeJSON(w, http.StatusOK, c.doc(updated, normalize.Admin))
}

func (c collection[T]) deleteOne(a *Admin, w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(w, r)
	if !ok {
		return
	}
	deleted, err := c.remove(r.Context(), id)
	if err != nil {
		storeFailed(w, r, "Failed to delete "+c.entity, err)
		return
	}
	if !deleted {
		notFound(w, c.label)
		return
	}
	a.recordWrite(r, c.kind, c.entity, &id, actionDelete)
	writeSuccess(w)
}

// ProjectsList returns every project, newest first.
func (a *Admin) ProjectsList(w http.ResponseWriter, r *http.Request) { a.projects.listAll(w, r) }

// ProjectCreate adds a project.
func (a *Admin) ProjectCreate(w http.ResponseWriter, r *http.Request) { a.projects.createOne(a, w, r) }

// ProjectUpdate edits the project named by the body's id.
func (a *Admin) ProjectUpdate(w http.ResponseWriter, r *http.Request) { a.projects.updateOne(a, w, r) }

// ProjectDelete removes the project named by ?id=.
func (a *Admin) ProjectDelete(w http.ResponseWriter, r *http.Request) { a.projects.deleteOne(a, w, r) }

// SkillsList returns every skill in display order.
func (a *Admin) SkillsList(w http.ResponseWriter, r *http.Request) { a.skills.listAll(w, r) }

// SkillCreate adds a skill.
func (a *Admin) SkillCreate(w http.ResponseWriter, r *http.Request) { a.skills.createOne(a, w, r) }

// SkillUpdate edits the skill named by the body's id.
func (a *Admin) SkillUpdate(w http.ResponseWriter, r *http.Request) { a.skills.updateOne(a, w, r) }

// SkillDelete removes the skill named by ?id=.
func (a *Admin) SkillDelete(w http.ResponseWriter, r *http.Request) { a.skills.deleteOne(a, w, r) }

// SkillsReorder applies a batch of order changes. Either every update is
// applied or none is.
func (a *Admin) SkillsReorder(w http.ResponseWriter, r *http.Request) {
	body, ok := decode(w, r)
	if !ok {
		return
	}
	updates, err := normalize.SkillOrderUpdates(body)
	if err != nil {
		invalid(w, err)
		return
	}
	if err := a.stores.Skills.UpdateOrders(r.Context(), updates); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			notFound(w, "Skill")
			return
		}
		storeFailed(w, r, "Failed to reorder skills", err)
		return
	}
	a.recordWrite(r, cache.KindSkills, "skill", nil, actionReorder)
	a.skills.listAll(w, r)
}

// FiltersList returns every filter, inactive ones included.
func (a *Admin) FiltersList(w http.ResponseWriter, r *http.Request) { a.filters.listAll(w, r) }

// FilterCreate adds a filter.
func (a *Admin) FilterCreate(w http.ResponseWriter, r *http.Request) { a.filters.createOne(a, w, r) }

// FilterUpdate edits the filter named by the body's id.
func (a *Admin) FilterUpdate(w http.ResponseWriter, r *http.Request) { a.filters.updateOne(a, w, r) }

// FilterDelete removes the filter named by ?id=.
func (a *Admin) FilterDelete(w http.ResponseWriter, r *http.Request) { a.filters.deleteOne(a, w, r) }

// FiltersSwap exchanges the display order of two filters in one step.
func (a *Admin) FiltersSwap(w http.ResponseWriter, r *http.Request) {
	body, ok := decode(w, r)
	if !ok {
		return
	}
	first, second, err := normalize.FilterSwap(body)
	if err != nil {
		invalid(w, err)
		return
	}
	if err := a.stores.Filters.Swap(r.Context(), first, second); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			notFound(w, "Project filter")
			return
		}
		storeFailed(w, r, "Failed to swap filters", err)
		return
	}
	a.recordWrite(r, cache.KindFilters, "project_filter", &first, actionSwap)
	a.filters.listAll(w, r)
}

// --- Contacts ---

// ContactsList returns every submission, newest first.
func (a *Admin) ContactsList(w http.ResponseWriter, r *http.Request) {
	items, err := a.stores.Contacts.List(r.Context())
	if err != nil {
		storeFailed(w, r, "Failed to list contacts", err)
		return
	}
	writeJSON(w, http.StatusOK, normalize.Documents(items, normalize.Admin, normalize.ContactDocument))
}

// ContactMarkRead sets the read flag of the submission named by the body.
func (a *Admin) ContactMarkRead(w http.ResponseWriter, r *http.Request) {
	body, ok := decode(w, r)
	if !ok {
		return
	}
	id, read, err := normalize.ContactRead(body)
	if err != nil {
		invalid(w, err)
		return
	}
	found, err := a.stores.Contacts.SetRead(r.Context(), id, read)
	if err != nil {
		storeFailed(w, r, "Failed to update contact", err)
		return
	}
	if !found {
		notFound(w, "Contact")
		return
	}
	a.recordWrite(r, "", "contact", &id, actionMarkRead)
	writeSuccess(w)
}

// ContactDelete removes the submission named by ?id=.
func (a *Admin) ContactDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(w, r)
	if !ok {
		return
	}
	deleted, err := a.stores.Contacts.Delete(r.Context(), id)
	if err != nil {
		storeFailed(w, r, "Failed to delete contact", err)
		return
	}
	if !deleted {
		notFound(w, "Contact")
		return
	}
	a.recordWrite(r, "", "contact", &id, actionDelete)
	writeSuccess(w)
}

// AuditList returns the most recent admin writes. ?limit= defaults to 50.
func (a *Admin) AuditList(w http.ResponseWriter, r *http.Request) {
	limit := defaultAuditLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			badRequest(w, "limit must be a positive integer")
			return
		}
		limit = min(n, maxAuditLimit)
	}
	entries, err := a.stores.Audit.RecentEntries(r.Context(), limit)
	if err != nil {
		storeFailed(w, r, "Failed to load audit log", err)
		return
	}
	if entries == nil {
		entries = []models.AuditEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
