package handlers

import (
	"context"
	"io"

	"github.com/google/uuid"

	"portfolio/internal/models"
)

// SingletonStore reads and upserts the profile, about and journey records.
// Reads return nil, nil when the record was never saved.
type SingletonStore interface {
	Profile(ctx context.Context) (*models.Profile, error)
	SaveProfile(ctx context.Context, p *models.Profile) (*models.Profile, error)
	About(ctx context.Context) (*models.About, error)
	SaveAbout(ctx context.Context, a *models.About) (*models.About, error)
	Journey(ctx context.Context) (*models.Journey, error)
	SaveJourney(ctx context.Context, j *models.Journey) (*models.Journey, error)
}

// ProjectStore persists projects. Update returns nil, nil for unknown ids.
type ProjectStore interface {
	List(ctx context.Context) ([]models.Project, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	Create(ctx context.Context, p *models.Project) (*models.Project, error)
	Update(ctx context.Context, p *models.Project) (*models.Project, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// SkillStore persists skills.
type SkillStore interface {
	List(ctx context.Context) ([]models.Skill, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Skill, error)
	Create(ctx context.Context, s *models.Skill) (*models.Skill, error)
	Update(ctx context.Context, s *models.Skill) (*models.Skill, error)
	UpdateOrders(ctx context.Context, updates []models.SkillOrderUpdate) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// FilterStore persists project filters.
type FilterStore interface {
	List(ctx context.Context, activeOnly bool) ([]models.ProjectFilter, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.ProjectFilter, error)
	Create(ctx context.Context, f *models.ProjectFilter) (*models.ProjectFilter, error)
	Update(ctx context.Context, f *models.ProjectFilter) (*models.ProjectFilter, error)
	Swap(ctx context.Context, a, b uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// ContactStore persists contact form submissions.
type ContactStore interface {
	List(ctx context.Context) ([]models.ContactSubmission, error)
	Create(ctx context.Context, c *models.ContactSubmission) (*models.ContactSubmission, error)
	SetRead(ctx context.Context, id uuid.UUID, read bool) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// AuditLog records admin writes. Log is best-effort.
type AuditLog interface {
	Log(ctx context.Context, actorID uuid.UUID, entityType string, entityID *uuid.UUID, action string)
	RecentEntries(ctx context.Context, limit int) ([]models.AuditEntry, error)
}

// ObjectStore holds uploaded images.
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
	FileURL(key string) string
	ExtractKey(ref string) (string, bool)
}

// ContactNotifier emails a new submission to the site owner.
type ContactNotifier interface {
	NotifyContact(ctx context.Context, recipient string, c *models.ContactSubmission) error
}

// Stores bundles the content stores every handler group reads from.
type Stores struct {
	Singletons SingletonStore
	Projects   ProjectStore
	Skills     SkillStore
	Filters    FilterStore
	Contacts   ContactStore
	Audit      AuditLog
}
