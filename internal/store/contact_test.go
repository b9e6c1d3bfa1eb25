package store

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"portfolio/internal/models"
)

func TestContactStoreLifecycle(t *testing.T) {
	db := testDB(t)
	s := NewContactStore(db)
	ctx := context.Background()

	c, err := s.Create(ctx, &models.ContactSubmission{
		Name: "A", Email: "a@b.com", Subject: "Hi", Message: "0123456789",
		Read: true, // ignored: new submissions are unread
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { cleanRows(t, db, "contact_submissions", c.ID) })

	if c.Read {
		t.Error("new submission must be unread")
	}

	ok, err := s.SetRead(ctx, c.ID, true)
	if err != nil || !ok {
		t.Fatalf("SetRead = %v, %v", ok, err)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var found bool
	for _, got := range list {
		if got.ID == c.ID {
			found = true
			if !got.Read {
				t.Error("expected read=true after SetRead")
			}
		}
	}
	if !found {
		t.Error("submission missing from List")
	}

	if ok, err := s.SetRead(ctx, uuid.New(), true); err != nil || ok {
		t.Errorf("SetRead unknown id = %v, %v; want false, nil", ok, err)
	}

	if ok, err := s.Delete(ctx, c.ID); err != nil || !ok {
		t.Errorf("Delete = %v, %v", ok, err)
	}
}
