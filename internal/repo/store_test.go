package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	dom "learntrack/internal/domain"
)

var suiteNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// runStoreSuite runs the behaviour every Store must share against fresh
// stores from newStore.
func runStoreSuite(t *testing.T, newStore func(t *testing.T) Store) {
	cases := []struct {
		name string
		run  func(t *testing.T, s Store)
	}{
		{"WriteRollsBackOnError", testWriteRollsBackOnError},
		{"ReadIsReadOnly", testReadIsReadOnly},
		{"DuplicateUser", testDuplicateUser},
		{"OwnershipScopedLookups", testOwnershipScopedLookups},
		{"GoalRecentAndDeadlines", testGoalRecentAndDeadlines},
		{"GoalUpdateIsOwnerScoped", testGoalUpdateIsOwnerScoped},
		{"TaskUpdateReturnsRow", testTaskUpdateReturnsRow},
		{"ListByGoals", testListByGoals},
		{"DeleteGoalCascades", testDeleteGoalCascades},
		{"DeleteUserCascades", testDeleteUserCascades},
		{"FindOrdersByDueDate", testFindOrdersByDueDate},
		{"CountAndTimeline", testCountAndTimeline},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) { tc.run(t, newStore(t)) })
	}
}

func seedUserGoal(t *testing.T, s Store, username string) (dom.User, dom.Goal) {
	t.Helper()
	var u dom.User
	var g dom.Goal
	ctx := context.Background()
	err := s.Write(ctx, func(tx Tx) error {
		var err error
		u, err = tx.Users().Create(ctx, dom.User{
			Email: username + "@example.com", Username: username, PasswordHash: "x",
			IsActive: true, CreatedAt: suiteNow,
		})
		if err != nil {
			return err
		}
		g, err = tx.Goals().Create(ctx, dom.Goal{
			UserID: u.ID, Title: "Go", Priority: dom.PriorityMedium, CreatedAt: suiteNow, UpdatedAt: suiteNow,
		})
		return err
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return u, g
}

func seedTasks(t *testing.T, s Store, tasks ...dom.Task) []dom.Task {
	t.Helper()
	ctx := context.Background()
	out := make([]dom.Task, 0, len(tasks))
	err := s.Write(ctx, func(tx Tx) error {
		for _, task := range tasks {
			if task.Status == "" {
				task.Status = dom.StatusNotStarted
			}
			if task.Priority == "" {
				task.Priority = dom.PriorityMedium
			}
			if task.CreatedAt.IsZero() {
				task.CreatedAt, task.UpdatedAt = suiteNow, suiteNow
			}
			created, err := tx.Tasks().Create(ctx, task)
			if err != nil {
				return err
			}
			out = append(out, created)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed tasks: %v", err)
	}
	return out
}

func testWriteRollsBackOnError(t *testing.T, s Store) {
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Write(ctx, func(tx Tx) error {
		if _, err := tx.Users().Create(ctx, dom.User{Email: "a@example.com", Username: "a", PasswordHash: "x"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	err = s.Read(ctx, func(tx Tx) error {
		_, err := tx.Users().GetByUsername(ctx, "a")
		return err
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("rolled back user should be absent, got %v", err)
	}
}

func testReadIsReadOnly(t *testing.T, s Store) {
	ctx := context.Background()
	err := s.Read(ctx, func(tx Tx) error {
		_, err := tx.Users().Create(ctx, dom.User{Email: "a@example.com", Username: "a", PasswordHash: "x"})
		return err
	})
	if err == nil {
		t.Fatalf("expected error writing in read transaction")
	}
}

func testDuplicateUser(t *testing.T, s Store) {
	ctx := context.Background()
	seedUserGoal(t, s, "ann")

	err := s.Write(ctx, func(tx Tx) error {
		_, err := tx.Users().Create(ctx, dom.User{Email: "ann@example.com", Username: "other", PasswordHash: "x"})
		return err
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	err = s.Write(ctx, func(tx Tx) error {
		_, err := tx.Users().Create(ctx, dom.User{Email: "other@example.com", Username: "ann", PasswordHash: "x"})
		return err
	})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func testOwnershipScopedLookups(t *testing.T, s Store) {
	ctx := context.Background()
	alice, goal := seedUserGoal(t, s, "alice")
	bob, _ := seedUserGoal(t, s, "bob")
	task := seedTasks(t, s, dom.Task{GoalID: goal.ID, Title: "read"})[0]

	err := s.Read(ctx, func(tx Tx) error {
		if _, err := tx.Goals().GetForUser(ctx, alice.ID, goal.ID); err != nil {
			t.Fatalf("owner lookup: %v", err)
		}
		if _, err := tx.Goals().GetForUser(ctx, bob.ID, goal.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("foreign goal lookup: %v", err)
		}
		if got, err := tx.Tasks().GetForUser(ctx, alice.ID, task.ID); err != nil || got.Title != "read" {
			t.Fatalf("owner task lookup: %+v %v", got, err)
		}
		if _, err := tx.Tasks().GetForUser(ctx, bob.ID, task.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("foreign task lookup: %v", err)
		}
		if list, err := tx.Tasks().ListForUser(ctx, bob.ID, goal.ID); err != nil || len(list) != 0 {
			t.Fatalf("bob list by alice's goal: %v %v", list, err)
		}
		n, err := tx.Tasks().Count(ctx, bob.ID, TaskFilter{})
		if err != nil || n != 0 {
			t.Fatalf("bob task count %d %v", n, err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
}

func testGoalRecentAndDeadlines(t *testing.T, s Store) {
	ctx := context.Background()
	u, first := seedUserGoal(t, s, "gail")
	inside := suiteNow.Add(3 * 24 * time.Hour)
	edge := suiteNow.Add(7 * 24 * time.Hour)

	var ids []int64
	if err := s.Write(ctx, func(tx Tx) error {
		for i, deadline := range []*time.Time{&inside, &edge, nil} {
			created := suiteNow.Add(time.Duration(i+1) * time.Hour)
			g, err := tx.Goals().Create(ctx, dom.Goal{
				UserID: u.ID, Title: "g", Priority: dom.PriorityLow, Deadline: deadline,
				CreatedAt: created, UpdatedAt: created,
			})
			if err != nil {
				return err
			}
			ids = append(ids, g.ID)
		}
		return nil
	}); err != nil {
		t.Fatalf("create goals: %v", err)
	}

	_ = s.Read(ctx, func(tx Tx) error {
		recent, err := tx.Goals().Recent(ctx, u.ID, 3)
		if err != nil || len(recent) != 3 {
			t.Fatalf("recent: %v %v", recent, err)
		}
		want := []int64{ids[2], ids[1], ids[0]}
		for i := range want {
			if recent[i].ID != want[i] {
				t.Fatalf("recent[%d] = %d, want %d", i, recent[i].ID, want[i])
			}
		}
		all, _ := tx.Goals().ListByUser(ctx, u.ID)
		if len(all) != 4 || all[0].ID != first.ID {
			t.Fatalf("list by user: %v", all)
		}
		n, err := tx.Goals().CountDeadlinesBetween(ctx, u.ID, suiteNow, edge)
		if err != nil || n != 2 {
			t.Fatalf("deadlines between = %d %v", n, err)
		}
		if n, _ := tx.Goals().Count(ctx, u.ID); n != 4 {
			t.Fatalf("count = %d", n)
		}
		return nil
	})
}

func testGoalUpdateIsOwnerScoped(t *testing.T, s Store) {
	ctx := context.Background()
	_, g := seedUserGoal(t, s, "hank")
	bob, _ := seedUserGoal(t, s, "bob")

	g.Title = "Go, properly"
	g.Category = "lang"
	g.UpdatedAt = suiteNow.Add(time.Hour)
	var updated dom.Goal
	if err := s.Write(ctx, func(tx Tx) error {
		var err error
		updated, err = tx.Goals().Update(ctx, g)
		return err
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Go, properly" || updated.Category != "lang" || !updated.CreatedAt.Equal(suiteNow) {
		t.Fatalf("updated = %+v", updated)
	}

	foreign := g
	foreign.UserID = bob.ID
	err := s.Write(ctx, func(tx Tx) error {
		_, err := tx.Goals().Update(ctx, foreign)
		return err
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign update: %v", err)
	}
}

func testTaskUpdateReturnsRow(t *testing.T, s Store) {
	ctx := context.Background()
	u, g := seedUserGoal(t, s, "ivy")
	hours := 2.5
	task := seedTasks(t, s, dom.Task{GoalID: g.ID, Title: "read", EstimatedHours: &hours})[0]
	if task.ID == 0 || task.GoalID != g.ID || task.EstimatedHours == nil || *task.EstimatedHours != hours {
		t.Fatalf("created = %+v", task)
	}

	done := suiteNow.Add(time.Hour)
	task.Status = dom.StatusCompleted
	task.CompletedAt = &done
	task.Priority = dom.PriorityHigh
	task.UpdatedAt = done
	var updated dom.Task
	if err := s.Write(ctx, func(tx Tx) error {
		var err error
		updated, err = tx.Tasks().Update(ctx, task)
		return err
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != dom.StatusCompleted || updated.CompletedAt == nil || !updated.CompletedAt.Equal(done) ||
		updated.Priority != dom.PriorityHigh || updated.GoalID != g.ID || !updated.CreatedAt.Equal(suiteNow) {
		t.Fatalf("updated = %+v", updated)
	}

	_ = s.Read(ctx, func(tx Tx) error {
		got, err := tx.Tasks().GetForUser(ctx, u.ID, task.ID)
		if err != nil || got.Status != dom.StatusCompleted || !got.UpdatedAt.Equal(done) {
			t.Fatalf("reread = %+v %v", got, err)
		}
		return nil
	})

	task.ID = -1
	err := s.Write(ctx, func(tx Tx) error {
		_, err := tx.Tasks().Update(ctx, task)
		return err
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("update of missing task: %v", err)
	}
}

func testListByGoals(t *testing.T, s Store) {
	ctx := context.Background()
	_, g1 := seedUserGoal(t, s, "jo")
	_, g2 := seedUserGoal(t, s, "kim")
	_, g3 := seedUserGoal(t, s, "lee")
	created := seedTasks(t, s,
		dom.Task{GoalID: g2.ID, Title: "b1"},
		dom.Task{GoalID: g1.ID, Title: "a1"},
		dom.Task{GoalID: g3.ID, Title: "c1"},
		dom.Task{GoalID: g2.ID, Title: "b2"},
	)

	_ = s.Read(ctx, func(tx Tx) error {
		list, err := tx.Tasks().ListByGoals(ctx, []int64{g1.ID, g2.ID})
		if err != nil || len(list) != 3 {
			t.Fatalf("list by goals: %v %v", list, err)
		}
		for i, want := range []int64{created[0].ID, created[1].ID, created[3].ID} {
			if list[i].ID != want {
				t.Fatalf("list[%d] = %d, want %d", i, list[i].ID, want)
			}
		}
		if empty, err := tx.Tasks().ListByGoals(ctx, nil); err != nil || len(empty) != 0 {
			t.Fatalf("no goals: %v %v", empty, err)
		}
		return nil
	})
}

func testDeleteGoalCascades(t *testing.T, s Store) {
	ctx := context.Background()
	u, g := seedUserGoal(t, s, "carol")
	bob, _ := seedUserGoal(t, s, "bob")
	tasks := seedTasks(t, s,
		dom.Task{GoalID: g.ID, Title: "t"}, dom.Task{GoalID: g.ID, Title: "t"}, dom.Task{GoalID: g.ID, Title: "t"})

	err := s.Write(ctx, func(tx Tx) error { return tx.Goals().Delete(ctx, bob.ID, g.ID) })
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign delete: %v", err)
	}
	_ = s.Read(ctx, func(tx Tx) error {
		if n, _ := tx.Tasks().Count(ctx, u.ID, TaskFilter{}); n != 3 {
			t.Fatalf("foreign delete removed tasks, %d left", n)
		}
		return nil
	})

	if err := s.Write(ctx, func(tx Tx) error { return tx.Goals().Delete(ctx, u.ID, g.ID) }); err != nil {
		t.Fatalf("delete goal: %v", err)
	}
	_ = s.Read(ctx, func(tx Tx) error {
		for _, task := range tasks {
			if _, err := tx.Tasks().GetForUser(ctx, u.ID, task.ID); !errors.Is(err, ErrNotFound) {
				t.Fatalf("task %d should be gone, got %v", task.ID, err)
			}
		}
		if list, _ := tx.Tasks().ListByGoals(ctx, []int64{g.ID}); len(list) != 0 {
			t.Fatalf("orphaned tasks: %v", list)
		}
		return nil
	})
}

func testDeleteUserCascades(t *testing.T, s Store) {
	ctx := context.Background()
	u, g := seedUserGoal(t, s, "dave")
	other, og := seedUserGoal(t, s, "erin")
	seedTasks(t, s, dom.Task{GoalID: g.ID, Title: "t"}, dom.Task{GoalID: og.ID, Title: "kept"})

	if err := s.Write(ctx, func(tx Tx) error { return tx.Users().Delete(ctx, u.ID) }); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	err := s.Write(ctx, func(tx Tx) error { return tx.Users().Delete(ctx, u.ID) })
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}

	_ = s.Read(ctx, func(tx Tx) error {
		if _, err := tx.Users().GetByID(ctx, u.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("user survived: %v", err)
		}
		if list, _ := tx.Tasks().ListByGoals(ctx, []int64{g.ID}); len(list) != 0 {
			t.Fatalf("orphaned tasks: %v", list)
		}
		if n, _ := tx.Goals().Count(ctx, u.ID); n != 0 {
			t.Fatalf("orphaned goals: %d", n)
		}
		if n, _ := tx.Tasks().Count(ctx, other.ID, TaskFilter{}); n != 1 {
			t.Fatalf("other user's tasks = %d", n)
		}
		return nil
	})
}

func testFindOrdersByDueDate(t *testing.T, s Store) {
	ctx := context.Background()
	u, g := seedUserGoal(t, s, "erin")
	late, early := suiteNow.Add(48*time.Hour), suiteNow.Add(24*time.Hour)
	created := seedTasks(t, s,
		dom.Task{GoalID: g.ID, Title: "late", DueDate: &late},
		dom.Task{GoalID: g.ID, Title: "none"},
		dom.Task{GoalID: g.ID, Title: "early", DueDate: &early},
		dom.Task{GoalID: g.ID, Title: "early twin", DueDate: &early},
	)

	_ = s.Read(ctx, func(tx Tx) error {
		list, err := tx.Tasks().Find(ctx, u.ID, TaskFilter{DueFrom: &suiteNow}, 0)
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		want := []int64{created[2].ID, created[3].ID, created[0].ID}
		if len(list) != len(want) {
			t.Fatalf("len %d", len(list))
		}
		for i := range want {
			if list[i].ID != want[i] {
				t.Fatalf("position %d: got %q", i, list[i].Title)
			}
		}
		all, _ := tx.Tasks().Find(ctx, u.ID, TaskFilter{}, 0)
		if len(all) != 4 || all[3].ID != created[1].ID {
			t.Fatalf("tasks without due date must sort last: %v", all)
		}
		limited, _ := tx.Tasks().Find(ctx, u.ID, TaskFilter{}, 1)
		if len(limited) != 1 || limited[0].ID != created[2].ID {
			t.Fatalf("limited %v", limited)
		}
		return nil
	})
}

func testCountAndTimeline(t *testing.T, s Store) {
	ctx := context.Background()
	u, g := seedUserGoal(t, s, "finn")
	yesterday := suiteNow.Add(-24 * time.Hour)
	tomorrow := suiteNow.Add(24 * time.Hour)
	seedTasks(t, s,
		dom.Task{GoalID: g.ID, Title: "overdue", DueDate: &yesterday, Status: dom.StatusInProgress},
		dom.Task{GoalID: g.ID, Title: "done", DueDate: &yesterday, Status: dom.StatusCompleted, CompletedAt: &suiteNow},
		dom.Task{GoalID: g.ID, Title: "upcoming", DueDate: &tomorrow},
	)

	_ = s.Read(ctx, func(tx Tx) error {
		counts := map[string]TaskFilter{
			"completed":   {Status: dom.StatusCompleted},
			"in progress": {Status: dom.StatusInProgress},
			"overdue":     {NotStatus: dom.StatusCompleted, DueBefore: &suiteNow},
			"upcoming":    {NotStatus: dom.StatusCompleted, DueFrom: &suiteNow},
		}
		for name, f := range counts {
			if n, err := tx.Tasks().Count(ctx, u.ID, f); err != nil || n != 1 {
				t.Fatalf("%s count = %d %v", name, n, err)
			}
		}
		timeline, err := tx.Tasks().Timeline(ctx, u.ID)
		if err != nil || len(timeline) != 3 {
			t.Fatalf("timeline: %v %v", timeline, err)
		}
		completed := 0
		for _, tt := range timeline {
			if !tt.CreatedAt.Equal(suiteNow) {
				t.Fatalf("created_at %v", tt.CreatedAt)
			}
			if tt.CompletedAt != nil {
				completed++
			}
		}
		if completed != 1 {
			t.Fatalf("completed in timeline = %d", completed)
		}
		return nil
	})
}
