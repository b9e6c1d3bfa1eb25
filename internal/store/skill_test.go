package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"portfolio/internal/models"
)

func intPtr(n int) *int { return &n }

func TestSkillStoreUpdateOrders(t *testing.T) {
	db := testDB(t)
	s := NewSkillStore(db)
	ctx := context.Background()

	a, err := s.Create(ctx, &models.Skill{Name: "store-test a", Category: "Test", Proficiency: 50, CategoryOrder: 1, SkillOrder: 1})
	if err != nil {
		t.Fatalf("Create a: %v", err)
	}
	b, err := s.Create(ctx, &models.Skill{Name: "store-test b", Category: "Test", Proficiency: 60, CategoryOrder: 1, SkillOrder: 2})
	if err != nil {
		t.Fatalf("Create b: %v", err)
	}
	t.Cleanup(func() { cleanRows(t, db, "skills", a.ID, b.ID) })

	err = s.UpdateOrders(ctx, []models.SkillOrderUpdate{
		{ID: a.ID, SkillOrder: intPtr(2)},
		{ID: b.ID, SkillOrder: intPtr(1), CategoryOrder: intPtr(4)},
	})
	if err != nil {
		t.Fatalf("UpdateOrders: %v", err)
	}

	gotA, _ := s.FindByID(ctx, a.ID)
	gotB, _ := s.FindByID(ctx, b.ID)
	if gotA.SkillOrder != 2 || gotA.CategoryOrder != 1 {
		t.Errorf("a orders = %d/%d, want 1/2", gotA.CategoryOrder, gotA.SkillOrder)
	}
	if gotB.SkillOrder != 1 || gotB.CategoryOrder != 4 {
		t.Errorf("b orders = %d/%d, want 4/1", gotB.CategoryOrder, gotB.SkillOrder)
	}
}

func TestSkillStoreUpdateOrdersIsAllOrNothing(t *testing.T) {
	db := testDB(t)
	s := NewSkillStore(db)
	ctx := context.Background()

	a, err := s.Create(ctx, &models.Skill{Name: "store-test atomic", Category: "Test", SkillOrder: 7})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { cleanRows(t, db, "skills", a.ID) })

	err = s.UpdateOrders(ctx, []models.SkillOrderUpdate{
		{ID: a.ID, SkillOrder: intPtr(99)},
		{ID: uuid.New(), SkillOrder: intPtr(1)},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("UpdateOrders error = %v, want ErrNotFound", err)
	}

	got, _ := s.FindByID(ctx, a.ID)
	if got.SkillOrder != 7 {
		t.Errorf("skill order = %d, want 7 (rolled back)", got.SkillOrder)
	}
}

func TestSkillStoreRejectsOutOfRangeProficiency(t *testing.T) {
	db := testDB(t)
	s := NewSkillStore(db)

	if _, err := s.Create(context.Background(), &models.Skill{Name: "store-test bad", Category: "Test", Proficiency: 101}); err == nil {
		t.Error("expected check constraint violation for proficiency 101")
	}
}
