// Package handlerstest provides in-memory content stores for handler and
// router tests. Every store is safe for concurrent use and can be made to
// fail with its Err field.
package handlerstest

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"portfolio/internal/models"
	"portfolio/internal/store"
)

// Singletons holds the profile, about and journey records.
type Singletons struct {
	mu      sync.Mutex
	Err     error
	profile *models.Profile
	about   *models.About
	journey *models.Journey
	Saves   int

	// AfterRead, when set, runs after a read has taken its snapshot and
	// released the lock, so a test can commit a write in between.
	AfterRead func()
}

func (s *Singletons) afterRead() {
	s.mu.Lock()
	hook := s.AfterRead
	s.mu.Unlock()
	if hook != nil {
		hook()
	}
}

func clone[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func (s *Singletons) Profile(context.Context) (*models.Profile, error) {
	s.mu.Lock()
	v, err := clone(s.profile), s.Err
	s.mu.Unlock()
	s.afterRead()
	return v, err
}

func (s *Singletons) SaveProfile(_ context.Context, p *models.Profile) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	s.Saves++
	p = clone(p)
	p.ID = models.SingletonID
	p.UpdatedAt = time.Now()
	s.profile = p
	return clone(p), nil
}

func (s *Singletons) About(context.Context) (*models.About, error) {
	s.mu.Lock()
	v, err := clone(s.about), s.Err
	s.mu.Unlock()
	s.afterRead()
	return v, err
}

func (s *Singletons) SaveAbout(_ context.Context, a *models.About) (*models.About, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	s.Saves++
	a = clone(a)
	a.ID = models.SingletonID
	a.UpdatedAt = time.Now()
	s.about = a
	return clone(a), nil
}

func (s *Singletons) Journey(context.Context) (*models.Journey, error) {
	s.mu.Lock()
	v, err := clone(s.journey), s.Err
	s.mu.Unlock()
	s.afterRead()
	return v, err
}

func (s *Singletons) SaveJourney(_ context.Context, j *models.Journey) (*models.Journey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	s.Saves++
	j = clone(j)
	j.ID = models.SingletonID
	j.UpdatedAt = time.Now()
	s.journey = j
	return clone(j), nil
}

// rows is an insertion-ordered id-keyed table.
type rows[T any] struct {
	mu    sync.Mutex
	order []uuid.UUID
	byID  map[uuid.UUID]*T
	calls int
}

func (t *rows[T]) put(id uuid.UUID, v *T) {
	if t.byID == nil {
		t.byID = map[uuid.UUID]*T{}
	}
	if _, ok := t.byID[id]; !ok {
		t.order = append(t.order, id)
	}
	t.byID[id] = clone(v)
}

func (t *rows[T]) all() []T {
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, *t.byID[id])
	}
	return out
}

func (t *rows[T]) remove(id uuid.UUID) bool {
	if _, ok := t.byID[id]; !ok {
		return false
	}
	delete(t.byID, id)
	t.order = slices.DeleteFunc(t.order, func(x uuid.UUID) bool { return x == id })
	return true
}

// Projects is an in-memory project store. ListErr only fails reads.
type Projects struct {
	rows[models.Project]
	Err     error
	ListErr error
}

// Calls reports how many store methods were invoked.
func (s *Projects) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *Projects) List(context.Context) ([]models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if err := cmpErr(s.Err, s.ListErr); err != nil {
		return nil, err
	}
	out := s.all()
	slices.Reverse(out)
	return out, nil
}

func (s *Projects) FindByID(_ context.Context, id uuid.UUID) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if err := cmpErr(s.Err, s.ListErr); err != nil {
		return nil, err
	}
	return clone(s.byID[id]), nil
}

func (s *Projects) Create(_ context.Context, p *models.Project) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.Err != nil {
		return nil, s.Err
	}
	p = clone(p)
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	p.Technologies = slices.Clone(p.Technologies)
	s.put(p.ID, p)
	return clone(p), nil
}

func (s *Projects) Update(_ context.Context, p *models.Project) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.Err != nil {
		return nil, s.Err
	}
	old, ok := s.byID[p.ID]
	if !ok {
		return nil, nil
	}
	p = clone(p)
	p.CreatedAt = old.CreatedAt
	p.UpdatedAt = time.Now()
	p.Technologies = slices.Clone(p.Technologies)
	s.put(p.ID, p)
	return clone(p), nil
}

func (s *Projects) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.Err != nil {
		return false, s.Err
	}
	return s.remove(id), nil
}

// Skills is an in-memory skill store.
type Skills struct {
	rows[models.Skill]
	Err error
}

func (s *Skills) List(context.Context) ([]models.Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := s.all()
	slices.SortStableFunc(out, func(a, b models.Skill) int {
		if a.CategoryOrder != b.CategoryOrder {
			return a.CategoryOrder - b.CategoryOrder
		}
		if a.SkillOrder != b.SkillOrder {
			return a.SkillOrder - b.SkillOrder
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out, nil
}

func (s *Skills) FindByID(_ context.Context, id uuid.UUID) (*models.Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.byID[id]), s.Err
}

func (s *Skills) Create(_ context.Context, sk *models.Skill) (*models.Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	sk = clone(sk)
	sk.ID = uuid.New()
	sk.CreatedAt = time.Now()
	sk.UpdatedAt = sk.CreatedAt
	s.put(sk.ID, sk)
	return clone(sk), nil
}

func (s *Skills) Update(_ context.Context, sk *models.Skill) (*models.Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if _, ok := s.byID[sk.ID]; !ok {
		return nil, nil
	}
	sk = clone(sk)
	sk.UpdatedAt = time.Now()
	s.put(sk.ID, sk)
	return clone(sk), nil
}

// UpdateOrders applies every update or none, like the SQL store.
func (s *Skills) UpdateOrders(_ context.Context, updates []models.SkillOrderUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, u := range updates {
		if _, ok := s.byID[u.ID]; !ok {
			return fmt.Errorf("skill %s: %w", u.ID, store.ErrNotFound)
		}
	}
	for _, u := range updates {
		sk := s.byID[u.ID]
		if u.CategoryOrder != nil {
			sk.CategoryOrder = *u.CategoryOrder
		}
		if u.SkillOrder != nil {
			sk.SkillOrder = *u.SkillOrder
		}
	}
	return nil
}

func (s *Skills) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	return s.remove(id), nil
}

// Filters is an in-memory project filter store.
type Filters struct {
	rows[models.ProjectFilter]
	Err error
}

func (s *Filters) List(_ context.Context, activeOnly bool) ([]models.ProjectFilter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := slices.DeleteFunc(s.all(), func(f models.ProjectFilter) bool { return activeOnly && !f.IsActive })
	slices.SortStableFunc(out, func(a, b models.ProjectFilter) int {
		if a.DisplayOrder != b.DisplayOrder {
			return a.DisplayOrder - b.DisplayOrder
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out, nil
}

func (s *Filters) FindByID(_ context.Context, id uuid.UUID) (*models.ProjectFilter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.byID[id]), s.Err
}

func (s *Filters) Create(_ context.Context, f *models.ProjectFilter) (*models.ProjectFilter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	f = clone(f)
	f.ID = uuid.New()
	f.CreatedAt = time.Now()
	f.UpdatedAt = f.CreatedAt
	s.put(f.ID, f)
	return clone(f), nil
}

func (s *Filters) Update(_ context.Context, f *models.ProjectFilter) (*models.ProjectFilter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if _, ok := s.byID[f.ID]; !ok {
		return nil, nil
	}
	f = clone(f)
	f.UpdatedAt = time.Now()
	s.put(f.ID, f)
	return clone(f), nil
}

func (s *Filters) Swap(_ context.Context, a, b uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	fa, okA := s.byID[a]
	fb, okB := s.byID[b]
	if !okA || !okB {
		return fmt.Errorf("swap filters: %w", store.ErrNotFound)
	}
	fa.DisplayOrder, fb.DisplayOrder = fb.DisplayOrder, fa.DisplayOrder
	return nil
}

func (s *Filters) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	return s.remove(id), nil
}

// Contacts is an in-memory contact submission store.
type Contacts struct {
	rows[models.ContactSubmission]
	Err error
}

func (s *Contacts) List(context.Context) ([]models.ContactSubmission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := s.all()
	slices.Reverse(out)
	return out, nil
}

func (s *Contacts) Create(_ context.Context, c *models.ContactSubmission) (*models.ContactSubmission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	c = clone(c)
	c.ID = uuid.New()
	c.Read = false
	c.CreatedAt = time.Now()
	s.put(c.ID, c)
	return clone(c), nil
}

func (s *Contacts) SetRead(_ context.Context, id uuid.UUID, read bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	c, ok := s.byID[id]
	if !ok {
		return false, nil
	}
	c.Read = read
	return true, nil
}

func (s *Contacts) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	return s.remove(id), nil
}

// Audit collects audit entries.
type Audit struct {
	mu      sync.Mutex
	Entries []models.AuditEntry
}

func (a *Audit) Log(_ context.Context, actorID uuid.UUID, entityType string, entityID *uuid.UUID, action string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Entries = append(a.Entries, models.AuditEntry{
		ID:         int64(len(a.Entries) + 1),
		ActorID:    actorID,
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		CreatedAt:  time.Now(),
	})
}

func (a *Audit) RecentEntries(_ context.Context, limit int) ([]models.AuditEntry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := slices.Clone(a.Entries)
	slices.Reverse(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Actions returns the logged "entity:action" pairs in order.
func (a *Audit) Actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.Entries))
	for _, e := range a.Entries {
		out = append(out, e.EntityType+":"+e.Action)
	}
	return out
}

// Objects is an in-memory object store that records uploads.
type Objects struct {
	mu      sync.Mutex
	Err     error
	Objects map[string][]byte
	Types   map[string]string
	Calls   int
}

const objectsBase = "https://cdn.example.test/"

func (o *Objects) Upload(_ context.Context, key, contentType string, body io.Reader, _ int64) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Calls++
	if o.Err != nil {
		return o.Err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if o.Objects == nil {
		o.Objects = map[string][]byte{}
		o.Types = map[string]string{}
	}
	o.Objects[key] = data
	o.Types[key] = contentType
	return nil
}

func (o *Objects) Delete(_ context.Context, key string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Calls++
	if o.Err != nil {
		return o.Err
	}
	delete(o.Objects, key)
	return nil
}

func (o *Objects) FileURL(key string) string { return objectsBase + key }

func (o *Objects) ExtractKey(ref string) (string, bool) {
	if key, ok := strings.CutPrefix(ref, objectsBase); ok && key != "" {
		return key, true
	}
	if ref != "" && !strings.Contains(ref, "://") {
		return ref, true
	}
	return "", false
}

// Count reports how many store methods were invoked.
func (o *Objects) Count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.Calls
}

// Notifier records contact notifications. With Block set it behaves like an
// unreachable server and returns only when ctx is done.
type Notifier struct {
	mu         sync.Mutex
	Err        error
	Block      bool
	Recipients []string
	Sent       []models.ContactSubmission
}

func (n *Notifier) NotifyContact(ctx context.Context, recipient string, c *models.ContactSubmission) error {
	n.mu.Lock()
	n.Recipients = append(n.Recipients, recipient)
	n.Sent = append(n.Sent, *c)
	block, err := n.Block, n.Err
	n.mu.Unlock()
	if block {
		<-ctx.Done()
		return ctx.Err()
	}
	return err
}

func cmpErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
