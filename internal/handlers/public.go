package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"portfolio/internal/cache"
	"portfolio/internal/markdown"
	"portfolio/internal/models"
	"portfolio/internal/normalize"
)

// DefaultNotifyTimeout bounds the contact mail step so the response is
// written well inside the server's write timeout.
const DefaultNotifyTimeout = 10 * time.Second

// Public groups the unauthenticated site endpoints.
type Public struct {
	stores        Stores
	responses     *cache.Responses
	notifier      ContactNotifier
	fallback      string
	notifyTimeout time.Duration
}

// NewPublic creates the public handler group. responses and notifier may be
// nil; fallbackRecipient receives contact mail when the profile has no email.
func NewPublic(stores Stores, responses *cache.Responses, notifier ContactNotifier, fallbackRecipient string) *Public {
	return &Public{
		stores:        stores,
		responses:     responses,
		notifier:      notifier,
		fallback:      fallbackRecipient,
		notifyTimeout: DefaultNotifyTimeout,
	}
}

// WithNotifyTimeout sets how long the contact mail step may take. Values
// <= 0 keep the default.
func (p *Public) WithNotifyTimeout(d time.Duration) *Public {
	if d > 0 {
		p.notifyTimeout = d
	}
	return p
}

// serveCached writes the cached body for kind, or builds, caches and writes
// it. Failed builds are never cached.
func (p *Public) serveCached(w http.ResponseWriter, r *http.Request, kind string, build func(ctx context.Context) (any, error)) {
	ctx := r.Context()
	body, gen, ok := p.responses.Get(ctx, kind)
	if ok {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("X-Cache", "HIT")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
		return
	}

	v, err := build(ctx)
	if err != nil {
		storeFailed(w, r, "Failed to load "+kind, err)
		return
	}
	body, err = json.Marshal(v)
	if err != nil {
		storeFailed(w, r, "Failed to encode "+kind, err)
		return
	}
	p.responses.Set(ctx, kind, gen, body)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Cache", "MISS")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// renderMarkdown adds the HTML rendering of source under contentHtml. A
// rendering failure leaves the field empty.
func renderMarkdown(d normalize.Document, source string) {
	out, err := markdown.ToHTML(source)
	if err != nil {
		slog.Warn("markdown render failed", "error", err)
	}
	d["contentHtml"] = out
}

// About serves the biography block, or its defaults.
func (p *Public) About(w http.ResponseWriter, r *http.Request) {
	p.serveCached(w, r, cache.KindAbout, func(ctx context.Context) (any, error) {
		a, err := p.stores.Singletons.About(ctx)
		if err != nil {
			return nil, err
		}
		if a == nil {
			a = normalize.DefaultAbout()
		}
		d := normalize.AboutDocument(a, normalize.Public)
		renderMarkdown(d, a.Content)
		return d, nil
	})
}

// Journey serves the narrative page, or its defaults.
func (p *Public) Journey(w http.ResponseWriter, r *http.Request) {
	p.serveCached(w, r, cache.KindJourney, func(ctx context.Context) (any, error) {
		j, err := p.stores.Singletons.Journey(ctx)
		if err != nil {
			return nil, err
		}
		if j == nil {
			j = normalize.DefaultJourney()
		}
		d := normalize.JourneyDocument(j, normalize.Public)
		legacy, _ := d["useLegacyContent"].(bool)
		if legacy {
			renderMarkdown(d, j.Content)
		} else {
			d["contentHtml"] = ""
		}
		return d, nil
	})
}

// Profile serves the headline identity, or its defaults.
func (p *Public) Profile(w http.ResponseWriter, r *http.Request) {
	p.serveCached(w, r, cache.KindProfile, func(ctx context.Context) (any, error) {
		pr, err := p.stores.Singletons.Profile(ctx)
		if err != nil {
			return nil, err
		}
		if pr == nil {
			pr = normalize.DefaultProfile()
		}
		return normalize.ProfileDocument(pr, normalize.Public), nil
	})
}

// Filters lists the active project filters.
func (p *Public) Filters(w http.ResponseWriter, r *http.Request) {
	p.serveCached(w, r, cache.KindFilters, func(ctx context.Context) (any, error) {
		filters, err := p.stores.Filters.List(ctx, true)
		if err != nil {
			return nil, err
		}
		return normalize.Documents(filters, normalize.Public, normalize.FilterDocument), nil
	})
}

// Projects lists projects newest first.
func (p *Public) Projects(w http.ResponseWriter, r *http.Request) {
	p.serveCached(w, r, cache.KindProjects, func(ctx context.Context) (any, error) {
		projects, err := p.stores.Projects.List(ctx)
		if err != nil {
			return nil, err
		}
		return normalize.Documents(projects, normalize.Public, normalize.ProjectDocument), nil
	})
}

// Skills lists skills in category then skill order.
func (p *Public) Skills(w http.ResponseWriter, r *http.Request) {
	p.serveCached(w, r, cache.KindSkills, func(ctx context.Context) (any, error) {
		skills, err := p.stores.Skills.List(ctx)
		if err != nil {
			return nil, err
		}
		return normalize.Documents(skills, normalize.Public, normalize.SkillDocument), nil
	})
}

// Contact stores a contact form submission and notifies the site owner.
// The notification is best-effort: it never changes the response.
func (p *Public) Contact(w http.ResponseWriter, r *http.Request) {
	body, ok := decode(w, r)
	if !ok {
		return
	}
	var form contactForm
	f := normalize.ContactFields
	if err := errors.Join(
		body.SetString(f.Name, &form.Name),
		body.SetString(f.Email, &form.Email),
		body.SetString(f.Subject, &form.Subject),
		body.SetString(f.Message, &form.Message),
	); err != nil {
		invalid(w, err)
		return
	}
	form.trim()
	if details := validateStruct(&form); details != nil {
		writeInvalid(w, details)
		return
	}

	sub, err := p.stores.Contacts.Create(r.Context(), &models.ContactSubmission{
		Name:    form.Name,
		Email:   form.Email,
		Subject: form.Subject,
		Message: form.Message,
	})
	if err != nil {
		storeFailed(w, r, "Failed to save contact submission", err)
		return
	}

	p.notify(r.Context(), sub)
	writeSuccess(w)
}

func (p *Public) notify(ctx context.Context, sub *models.ContactSubmission) {
	if p.notifier == nil {
		slog.Info("contact mail skipped, mailer not configured", "submission_id", sub.ID)
		return
	}
	recipient := p.fallback
	if pr, err := p.stores.Singletons.Profile(ctx); err != nil {
		slog.Warn("contact recipient lookup failed", "error", err)
	} else if pr != nil && pr.Email != nil && strings.TrimSpace(*pr.Email) != "" {
		recipient = strings.TrimSpace(*pr.Email)
	}
	if recipient == "" {
		slog.Warn("contact mail skipped, no recipient", "submission_id", sub.ID)
		return
	}

	// The submission is stored; a client hanging up must not abort the mail.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.notifyTimeout)
	defer cancel()
	if err := p.notifier.NotifyContact(ctx, recipient, sub); err != nil {
		slog.Error("contact mail failed", "error", err, "submission_id", sub.ID)
	}
}
