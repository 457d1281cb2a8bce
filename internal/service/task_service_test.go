package service

import (
	"errors"
	"testing"
	"time"

	dom "learntrack/internal/domain"
)

func TestTaskService_CreateRequiresOwnedGoal(t *testing.T) {
	f := newFixture(t)
	alice := f.user("alice")
	bob := f.user("bob")
	g := f.goal(alice.ID, "Learn Go")

	if _, err := f.tasks.Create(f.ctx, bob.ID, TaskInput{GoalID: g.ID, Title: "sneaky"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := f.tasks.Create(f.ctx, alice.ID, TaskInput{GoalID: 9999, Title: "lost"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing goal, got %v", err)
	}

	task := f.task(alice.ID, g.ID, "read", nil)
	if task.Status != dom.StatusNotStarted || task.CompletedAt != nil || task.Priority != dom.PriorityMedium {
		t.Fatalf("new task %+v", task)
	}
	if !task.CreatedAt.Equal(testNow) {
		t.Fatalf("created_at %v", task.CreatedAt)
	}
}

func TestTaskService_SetStatusMaintainsCompletedAt(t *testing.T) {
	f := newFixture(t)
	u := f.user("alice")
	g := f.goal(u.ID, "Learn Go")
	task := f.task(u.ID, g.ID, "read", nil)

	done := f.setStatus(u.ID, task.ID, dom.StatusCompleted)
	if done.CompletedAt == nil || !done.CompletedAt.Equal(testNow) {
		t.Fatalf("completed_at %v", done.CompletedAt)
	}

	later := testNow.Add(time.Hour)
	f.at(later, func() { done = f.setStatus(u.ID, task.ID, dom.StatusCompleted) })
	if !done.CompletedAt.Equal(later) {
		t.Fatalf("re-completing should refresh completed_at, got %v", done.CompletedAt)
	}

	back := f.setStatus(u.ID, task.ID, dom.StatusNotStarted)
	if back.Status != dom.StatusNotStarted || back.CompletedAt != nil {
		t.Fatalf("completed -> not_started: %+v", back)
	}
	again := f.setStatus(u.ID, task.ID, dom.StatusNotStarted)
	if again.CompletedAt != nil {
		t.Fatalf("idempotent not_started: %+v", again)
	}

	if _, err := f.tasks.SetStatus(f.ctx, u.ID, task.ID, "done"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTaskService_UpdateAppliesStatusRules(t *testing.T) {
	f := newFixture(t)
	u := f.user("alice")
	g := f.goal(u.ID, "Learn Go")
	due := testNow.Add(48 * time.Hour)
	created, err := f.tasks.Create(f.ctx, u.ID, TaskInput{
		GoalID: g.ID, Title: "read", Description: "ch1", DueDate: &due, Priority: "low", EstimatedHours: ptr(2.5),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := f.tasks.Update(f.ctx, u.ID, created.ID, TaskPatch{Status: ptr("completed"), Title: ptr("read ch1")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != dom.StatusCompleted || updated.CompletedAt == nil {
		t.Fatalf("status not applied: %+v", updated)
	}
	if updated.Title != "read ch1" || updated.Description != "ch1" || updated.Priority != dom.PriorityLow {
		t.Fatalf("partial merge: %+v", updated)
	}
	if updated.DueDate == nil || !updated.DueDate.Equal(due) || *updated.EstimatedHours != 2.5 {
		t.Fatalf("untouched fields: %+v", updated)
	}

	updated, err = f.tasks.Update(f.ctx, u.ID, created.ID, TaskPatch{Status: ptr("in_progress")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.CompletedAt != nil {
		t.Fatalf("in_progress must clear completed_at")
	}

	noStatus, err := f.tasks.Update(f.ctx, u.ID, created.ID, TaskPatch{Description: ptr("ch2")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if noStatus.Status != dom.StatusInProgress {
		t.Fatalf("status changed without being provided: %s", noStatus.Status)
	}

	if _, err := f.tasks.Update(f.ctx, u.ID, created.ID, TaskPatch{EstimatedHours: ptr(-1.0)}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTaskService_ForeignTasksAreNotFound(t *testing.T) {
	f := newFixture(t)
	alice := f.user("alice")
	bob := f.user("bob")
	g := f.goal(alice.ID, "Learn Go")
	task := f.task(alice.ID, g.ID, "read", nil)

	if _, err := f.tasks.Get(f.ctx, bob.ID, task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get: %v", err)
	}
	if _, err := f.tasks.SetStatus(f.ctx, bob.ID, task.ID, "completed"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("set status: %v", err)
	}
	if _, err := f.tasks.Update(f.ctx, bob.ID, task.ID, TaskPatch{Title: ptr("x")}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update: %v", err)
	}
	if err := f.tasks.Delete(f.ctx, bob.ID, task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.tasks.Get(f.ctx, alice.ID, 424242); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing task: %v", err)
	}

	still, err := f.tasks.Get(f.ctx, alice.ID, task.ID)
	if err != nil || still.Status != dom.StatusNotStarted || still.Title != "read" {
		t.Fatalf("owner's task was modified: %+v %v", still, err)
	}
}

func TestTaskService_ListFiltersByGoal(t *testing.T) {
	f := newFixture(t)
	u := f.user("alice")
	other := f.user("bob")
	g1 := f.goal(u.ID, "one")
	g2 := f.goal(u.ID, "two")
	f.task(u.ID, g1.ID, "a", nil)
	f.task(u.ID, g2.ID, "b", nil)
	f.task(other.ID, f.goal(other.ID, "x").ID, "c", nil)

	all, err := f.tasks.List(f.ctx, u.ID, 0)
	if err != nil || len(all) != 2 {
		t.Fatalf("all: %d %v", len(all), err)
	}
	only, err := f.tasks.List(f.ctx, u.ID, g2.ID)
	if err != nil || len(only) != 1 || only[0].Title != "b" {
		t.Fatalf("filtered: %+v %v", only, err)
	}
}
