// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// harness_test.go wires the handler groups to in-memory stores and a
// miniredis-backed response cache.
package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"portfolio/internal/auth"
	"portfolio/internal/cache"
	"portfolio/internal/handlers/handlerstest"
	"portfolio/internal/middleware"
)

type harness struct {
	singletons *handlerstest.Singletons
	projects   *handlerstest.Projects
	skills     *handlerstest.Skills
	filters    *handlerstest.Filters
	contacts   *handlerstest.Contacts
	audit      *handlerstest.Audit
	objects    *handlerstest.Objects
	notifier   *handlerstest.Notifier

	mr        *miniredis.Miniredis
	responses *cache.Responses
	public    *Public
	admin     *Admin

	actor uuid.UUID
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	h := &harness{
		singletons: &handlerstest.Singletons{},
		projects:   &handlerstest.Projects{},
		skills:     &handlerstest.Skills{},
		filters:    &handlerstest.Filters{},
		contacts:   &handlerstest.Contacts{},
		audit:      &handlerstest.Audit{},
		objects:    &handlerstest.Objects{},
		notifier:   &handlerstest.Notifier{},
		mr:         mr,
		responses:  cache.NewResponses(client, cache.DefaultResponseTTL),
		actor:      uuid.New(),
	}
	stores := h.stores()
	h.public = NewPublic(stores, h.responses, h.notifier, "owner@example.com")
	h.admin = NewAdmin(stores, h.responses, h.objects)
	return h
}

func (h *harness) stores() Stores {
	return Stores{
		Singletons: h.singletons,
		Projects:   h.projects,
		Skills:     h.skills,
		Filters:    h.filters,
		Contacts:   h.contacts,
		Audit:      h.audit,
	}
}

// request builds a request with a JSON body (raw strings are sent as is)
// that carries the harness operator identity.
func (h *harness) request(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	r := httptest.NewRequest(method, target, &buf)
	r.Header.Set("Content-Type", "application/json")
	id := &auth.Identity{UserID: h.actor, Email: "op@example.com", Method: auth.MethodBearer}
	return r.WithContext(middleware.WithIdentity(r.Context(), id))
}

// do runs handler on a request built by request.
func (h *harness) do(t *testing.T, handler http.HandlerFunc, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	handler(rr, h.request(t, method, target, body))
	return rr
}

func decodeObject(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode object %q: %v", rr.Body.String(), err)
	}
	return out
}

func decodeList(t *testing.T, rr *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var out []map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode list %q: %v", rr.Body.String(), err)
	}
	return out
}

func decodeFailure(t *testing.T, rr *httptest.ResponseRecorder) middleware.ErrorBody {
	t.Helper()
	var out middleware.ErrorBody
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode error body %q: %v", rr.Body.String(), err)
	}
	return out
}

func expectStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("status = %d, want %d; body: %s", rr.Code, want, rr.Body.String())
	}
}

func strs(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, it := range items {
		s, _ := it.(string)
		out = append(out, s)
	}
	return out
}
