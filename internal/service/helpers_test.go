package service

import (
	"context"
	"testing"
	"time"

	dom "learntrack/internal/domain"
	"learntrack/internal/repo"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	t     *testing.T
	ctx   context.Context
	store *repo.MemoryStore
	clock time.Time

	users     *UserService
	goals     *GoalService
	tasks     *TaskService
	dashboard *DashboardService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repo.NewMemoryStore()
	f := &fixture{
		t:         t,
		ctx:       context.Background(),
		store:     store,
		clock:     testNow,
		users:     NewUserService(store, nil),
		goals:     NewGoalService(store, nil),
		tasks:     NewTaskService(store, nil),
		dashboard: NewDashboardService(store, nil),
	}
	now := func() time.Time { return f.clock }
	f.users.now, f.goals.now, f.tasks.now = now, now, now
	return f
}

// at runs fn with the service clock set to ts.
func (f *fixture) at(ts time.Time, fn func()) {
	prev := f.clock
	f.clock = ts
	defer func() { f.clock = prev }()
	fn()
}

func (f *fixture) user(name string) dom.User {
	f.t.Helper()
	u, err := f.users.Register(f.ctx, RegisterInput{Email: name + "@example.com", Username: name, Password: "pass1234"})
	if err != nil {
		f.t.Fatalf("register %s: %v", name, err)
	}
	return u
}

func (f *fixture) goal(userID int64, title string) dom.Goal {
	f.t.Helper()
	g, err := f.goals.Create(f.ctx, userID, GoalInput{Title: title})
	if err != nil {
		f.t.Fatalf("create goal %s: %v", title, err)
	}
	return g.Goal
}

func (f *fixture) task(userID, goalID int64, title string, due *time.Time) dom.Task {
	f.t.Helper()
	t, err := f.tasks.Create(f.ctx, userID, TaskInput{GoalID: goalID, Title: title, DueDate: due})
	if err != nil {
		f.t.Fatalf("create task %s: %v", title, err)
	}
	return t
}

func (f *fixture) setStatus(userID, taskID int64, status dom.TaskStatus) dom.Task {
	f.t.Helper()
	t, err := f.tasks.SetStatus(f.ctx, userID, taskID, string(status))
	if err != nil {
		f.t.Fatalf("set status %s: %v", status, err)
	}
	return t
}

func ptr[T any](v T) *T { return &v }
