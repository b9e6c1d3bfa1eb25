package normalize

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"

	"portfolio/internal/models"
)

// ProjectFields is the alias table for Project.
var ProjectFields = struct {
	Title, Description, Technologies           Field
	GithubURL, LiveURL, ImageURL, DemoVideoURL Field
	MapURL, Role, PublishedDate, Featured      Field
}{
	Title:         Field{"title", "title"},
	Description:   Field{"description", "description"},
	Technologies:  Field{"technologies", "technologies"},
	GithubURL:     Field{"githubUrl", "github_url"},
	LiveURL:       Field{"liveUrl", "live_url"},
	ImageURL:      Field{"imageUrl", "image_url"},
	DemoVideoURL:  Field{"demoVideoUrl", "demo_video_url"},
	MapURL:        Field{"mapUrl", "map_url"},
	Role:          Field{"role", "role"},
	PublishedDate: Field{"publishedDate", "published_date"},
	Featured:      Field{"featured", "featured"},
}

// SkillFields is the alias table for Skill.
var SkillFields = struct {
	Name, Category, Proficiency, ImageURL Field
	CategoryOrder, SkillOrder             Field
}{
	Name:          Field{"name", "name"},
	Category:      Field{"category", "category"},
	Proficiency:   Field{"proficiency", "proficiency"},
	ImageURL:      Field{"imageUrl", "image_url"},
	CategoryOrder: Field{"categoryOrder", "category_order"},
	SkillOrder:    Field{"skillOrder", "skill_order"},
}

// FilterFields is the alias table for ProjectFilter.
var FilterFields = struct {
	Name, DisplayOrder, IsActive Field
}{
	Name:         Field{"name", "name"},
	DisplayOrder: Field{"displayOrder", "display_order"},
	IsActive:     Field{"isActive", "is_active"},
}

// ContactFields is the alias table for ContactSubmission.
var ContactFields = struct {
	Name, Email, Subject, Message, Read Field
}{
	Name:    Field{"name", "name"},
	Email:   Field{"email", "email"},
	Subject: Field{"subject", "subject"},
	Message: Field{"message", "message"},
	Read:    Field{"read", "read"},
}

func required(f Field, v string) error {
	if strings.TrimSpace(v) == "" {
		return &FieldError{Field: f.Wire, Message: "is required"}
	}
	return nil
}

// ApplyProject merges the fields present in p onto dst.
func ApplyProject(dst *models.Project, p Payload) error {
	f := ProjectFields
	return errors.Join(
		p.SetString(f.Title, &dst.Title),
		p.SetString(f.Description, &dst.Description),
		p.SetTechnologies(f.Technologies, &dst.Technologies),
		p.SetOptString(f.GithubURL, &dst.GithubURL),
		p.SetOptString(f.LiveURL, &dst.LiveURL),
		p.SetOptString(f.ImageURL, &dst.ImageURL),
		p.SetOptString(f.DemoVideoURL, &dst.DemoVideoURL),
		p.SetOptString(f.MapURL, &dst.MapURL),
		p.SetOptString(f.Role, &dst.Role),
		p.SetOptString(f.PublishedDate, &dst.PublishedDate),
		p.SetBool(f.Featured, &dst.Featured),
	)
}

// CheckProject enforces the required fields of a project.
func CheckProject(r *models.Project) error {
	return required(ProjectFields.Title, r.Title)
}

// ProjectDocument emits the wire form of src.
func ProjectDocument(src *models.Project, mode Mode) Document {
	f := ProjectFields
	techs := src.Technologies
	if techs == nil {
		techs = []string{}
	}
	d := Document{}
	d.set(IDField, src.ID)
	d.set(f.Title, src.Title)
	d.set(f.Description, src.Description)
	d.set(f.Technologies, techs)
	d.opt(f.GithubURL, src.GithubURL, mode)
	d.opt(f.LiveURL, src.LiveURL, mode)
	d.opt(f.ImageURL, src.ImageURL, mode)
	d.opt(f.DemoVideoURL, src.DemoVideoURL, mode)
	d.opt(f.MapURL, src.MapURL, mode)
	d.opt(f.Role, src.Role, mode)
	d.opt(f.PublishedDate, src.PublishedDate, mode)
	d.set(f.Featured, src.Featured)
	d.stamp(createdAtField, src.CreatedAt)
	d.stamp(updatedAtField, src.UpdatedAt)
	return d
}

// ApplySkill merges the fields present in p onto dst.
func ApplySkill(dst *models.Skill, p Payload) error {
	f := SkillFields
	return errors.Join(
		p.SetString(f.Name, &dst.Name),
		p.SetString(f.Category, &dst.Category),
		p.SetInt(f.Proficiency, &dst.Proficiency),
		p.SetOptString(f.ImageURL, &dst.ImageURL),
		p.SetInt(f.CategoryOrder, &dst.CategoryOrder),
		p.SetInt(f.SkillOrder, &dst.SkillOrder),
	)
}

// CheckSkill enforces the required fields and the proficiency range.
func CheckSkill(r *models.Skill) error {
	f := SkillFields
	errs := []error{required(f.Name, r.Name), required(f.Category, r.Category)}
	if r.Proficiency < 0 || r.Proficiency > 100 {
		errs = append(errs, &FieldError{Field: f.Proficiency.Wire, Message: "must be between 0 and 100"})
	}
	return errors.Join(errs...)
}

// SkillDocument emits the wire form of src.
func SkillDocument(src *models.Skill, mode Mode) Document {
	f := SkillFields
	d := Document{}
	d.set(IDField, src.ID)
	d.set(f.Name, src.Name)
	d.set(f.Category, src.Category)
	d.set(f.Proficiency, src.Proficiency)
	d.opt(f.ImageURL, src.ImageURL, mode)
	d.set(f.CategoryOrder, src.CategoryOrder)
	d.set(f.SkillOrder, src.SkillOrder)
	d.stamp(createdAtField, src.CreatedAt)
	d.stamp(updatedAtField, src.UpdatedAt)
	return d
}

// NewFilter returns a filter with the create defaults: first in order, active.
func NewFilter() *models.ProjectFilter {
	return &models.ProjectFilter{IsActive: true}
}

// ApplyFilter merges the fields present in p onto dst.
func ApplyFilter(dst *models.ProjectFilter, p Payload) error {
	f := FilterFields
	return errors.Join(
		p.SetString(f.Name, &dst.Name),
		p.SetInt(f.DisplayOrder, &dst.DisplayOrder),
		p.SetBool(f.IsActive, &dst.IsActive),
	)
}

// CheckFilter enforces the required fields of a filter.
func CheckFilter(r *models.ProjectFilter) error {
	return required(FilterFields.Name, r.Name)
}

// FilterDocument emits the wire form of src.
func FilterDocument(src *models.ProjectFilter, mode Mode) Document {
	f := FilterFields
	d := Document{}
	d.set(IDField, src.ID)
	d.set(f.Name, src.Name)
	d.set(f.DisplayOrder, src.DisplayOrder)
	d.set(f.IsActive, src.IsActive)
	d.stamp(createdAtField, src.CreatedAt)
	d.stamp(updatedAtField, src.UpdatedAt)
	return d
}

// ContactDocument emits the wire form of src.
func ContactDocument(src *models.ContactSubmission, mode Mode) Document {
	f := ContactFields
	d := Document{}
	d.set(IDField, src.ID)
	d.set(f.Name, src.Name)
	d.set(f.Email, src.Email)
	d.set(f.Subject, src.Subject)
	d.set(f.Message, src.Message)
	d.set(f.Read, src.Read)
	d.stamp(createdAtField, src.CreatedAt)
	return d
}

// ContactRead reads the body of a read-flag update.
func ContactRead(p Payload) (uuid.UUID, bool, error) {
	id, err := p.RequireUUID(IDField)
	if err != nil {
		return uuid.Nil, false, err
	}
	if !p.Has(ContactFields.Read) {
		return uuid.Nil, false, &FieldError{Field: ContactFields.Read.Wire, Message: "is required"}
	}
	var read bool
	if err := p.SetBool(ContactFields.Read, &read); err != nil {
		return uuid.Nil, false, err
	}
	return id, read, nil
}

var (
	updatesField  = Field{"updates", "updates"}
	firstIDField  = Field{"firstId", "first_id"}
	secondIDField = Field{"secondId", "second_id"}
)

// SkillOrderUpdates reads the batch reorder body
// {"updates":[{"id":..., "categoryOrder":..., "skillOrder":...}]}.
func SkillOrderUpdates(p Payload) ([]models.SkillOrderUpdate, error) {
	raw, ok := p.raw(updatesField)
	if !ok || isNull(raw) {
		return nil, &FieldError{Field: updatesField.Wire, Message: "is required"}
	}
	var items []Payload
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, typeError(updatesField, "a list of objects")
	}
	if len(items) == 0 {
		return nil, &FieldError{Field: updatesField.Wire, Message: "must not be empty"}
	}

	out := make([]models.SkillOrderUpdate, 0, len(items))
	for _, item := range items {
		id, err := item.RequireUUID(IDField)
		if err != nil {
			return nil, err
		}
		u := models.SkillOrderUpdate{ID: id}
		if item.Has(SkillFields.CategoryOrder) {
			var n int
			if err := item.SetInt(SkillFields.CategoryOrder, &n); err != nil {
				return nil, err
			}
			u.CategoryOrder = &n
		}
		if item.Has(SkillFields.SkillOrder) {
			var n int
			if err := item.SetInt(SkillFields.SkillOrder, &n); err != nil {
				return nil, err
			}
			u.SkillOrder = &n
		}
		out = append(out, u)
	}
	return out, nil
}

// FilterSwap reads {"firstId":..., "secondId":...}.
func FilterSwap(p Payload) (uuid.UUID, uuid.UUID, error) {
	a, err := p.RequireUUID(firstIDField)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	b, err := p.RequireUUID(secondIDField)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	if a == b {
		return uuid.Nil, uuid.Nil, &FieldError{Field: secondIDField.Wire, Message: "must differ from firstId"}
	}
	return a, b, nil
}
