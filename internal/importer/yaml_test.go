package importer

import (
	"context"
	"errors"
	"testing"
	"time"

	"learntrack/internal/repo"
	"learntrack/internal/service"
)

const plan = `
title: Learn Go
description: from zero to services
deadline: 2026-06-01
category: programming
priority: high
tasks:
  - title: Tour of Go
    due_date: 2026-04-01
    estimated_hours: 6
  - title: Write a CLI
    priority: low
  - title: Build an HTTP API
    due_date: 2026-05-15T18:00:00Z
`

func TestParse(t *testing.T) {
	goal, tasks, err := Parse([]byte(plan))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if goal.Title != "Learn Go" || goal.Priority != "high" || goal.Category != "programming" {
		t.Fatalf("goal = %+v", goal)
	}
	if goal.Deadline == nil || !goal.Deadline.Equal(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("deadline = %v", goal.Deadline)
	}
	if len(tasks) != 3 {
		t.Fatalf("tasks = %d", len(tasks))
	}
	if tasks[0].EstimatedHours == nil || *tasks[0].EstimatedHours != 6 {
		t.Fatalf("estimated hours = %v", tasks[0].EstimatedHours)
	}
	if tasks[1].DueDate != nil || tasks[1].Priority != "low" {
		t.Fatalf("task 1 = %+v", tasks[1])
	}
	if !tasks[2].DueDate.Equal(time.Date(2026, 5, 15, 18, 0, 0, 0, time.UTC)) {
		t.Fatalf("task 2 due = %v", tasks[2].DueDate)
	}
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"not yaml":     "title: [unterminated",
		"no title":     "tasks:\n  - title: a\n",
		"bad deadline": "title: x\ndeadline: next week\n",
		"bad due date": "title: x\ntasks:\n  - title: a\n    due_date: soon\n",
	}
	for name, in := range cases {
		if _, _, err := Parse([]byte(in)); !errors.Is(err, service.ErrValidation) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestImport_CreatesGoalWithTasks(t *testing.T) {
	ctx := context.Background()
	store := repo.NewMemoryStore()
	users := service.NewUserService(store, nil)
	goals := service.NewGoalService(store, nil)
	u, err := users.Register(ctx, service.RegisterInput{Email: "a@example.com", Username: "a", Password: "pass1234"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	gp, err := Import(ctx, goals, u.ID, []byte(plan))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if gp.Progress.TotalTasks != 3 || gp.Progress.CompletedTasks != 0 || len(gp.Tasks) != 3 {
		t.Fatalf("progress = %+v", gp.Progress)
	}
	for _, task := range gp.Tasks {
		if task.GoalID != gp.Goal.ID {
			t.Fatalf("task %d attached to goal %d", task.ID, task.GoalID)
		}
	}

	// an invalid task aborts the whole plan
	_, err = Import(ctx, goals, u.ID, []byte("title: y\ntasks:\n  - title: ok\n  - title: \"\"\n"))
	if !errors.Is(err, service.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	list, _ := goals.List(ctx, u.ID)
	if len(list) != 1 {
		t.Fatalf("goals after failed import = %d", len(list))
	}
}
