package tasks

import (
	"context"
	"errors"
	"testing"
)

func mustDate(t *testing.T, s string) *Date {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %s: %v", s, err)
	}
	return &d
}

func TestMemoryRepo_CreateDefaults(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	created, err := repo.Create(ctx, TaskInput{Title: "first"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 || created.Completed || created.CreatedAt.IsZero() {
		t.Fatalf("bad created task: %+v", created)
	}
	if created.Notes != nil || created.DueDate != nil {
		t.Fatalf("optional fields should stay nil: %+v", created)
	}

	if _, err := repo.Create(ctx, TaskInput{Title: "   "}); err == nil {
		t.Fatalf("expected error for blank title")
	}
}

func TestMemoryRepo_ListOrdering(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	undated, _ := repo.Create(ctx, TaskInput{Title: "undated"})
	late, _ := repo.Create(ctx, TaskInput{Title: "late", DueDate: mustDate(t, "2024-06-01")})
	early, _ := repo.Create(ctx, TaskInput{Title: "early", DueDate: mustDate(t, "2024-05-01")})

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(list))
	}
	wantOrder := []int64{early.ID, late.ID, undated.ID}
	for i, want := range wantOrder {
		if list[i].ID != want {
			t.Fatalf("position %d: expected id %d, got %d (%+v)", i, want, list[i].ID, list)
		}
	}
}

func TestMemoryRepo_ReplaceSemantics(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	created, _ := repo.Create(ctx, TaskInput{Title: "orig", Notes: strPtr("keep me"), DueDate: mustDate(t, "2024-05-01")})

	// Full replace: omitted optionals are overwritten with nil, not kept.
	updated, err := repo.Replace(ctx, created.ID, TaskInput{Title: "renamed"}, true)
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if updated.Title != "renamed" || !updated.Completed {
		t.Fatalf("bad replaced task: %+v", updated)
	}
	if updated.Notes != nil || updated.DueDate != nil {
		t.Fatalf("replace should rewrite every field: %+v", updated)
	}

	if _, err := repo.Replace(ctx, 999, TaskInput{Title: "x"}, false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryRepo_DeleteIsIdempotent(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	created, _ := repo.Create(ctx, TaskInput{Title: "bye"})
	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("deleting an absent id should not error: %v", err)
	}

	list, _ := repo.List(ctx)
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %+v", list)
	}
}

func strPtr(s string) *string { return &s }
