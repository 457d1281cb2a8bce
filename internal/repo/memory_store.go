package repo

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	dom "learntrack/internal/domain"
)

var errReadOnly = errors.New("write in read-only transaction")

// MemoryStore is an in-process Store. Write runs fn against a copy of the
// data and publishes it only when fn succeeds, so a failed unit of work
// leaves nothing behind.
type MemoryStore struct {
	mu   sync.RWMutex
	data memData
}

type memData struct {
	users  map[int64]dom.User
	goals  map[int64]dom.Goal
	tasks  map[int64]dom.Task
	lastID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: memData{
		users: make(map[int64]dom.User),
		goals: make(map[int64]dom.Goal),
		tasks: make(map[int64]dom.Task),
	}}
}

func (d memData) clone() memData {
	out := memData{
		users:  make(map[int64]dom.User, len(d.users)),
		goals:  make(map[int64]dom.Goal, len(d.goals)),
		tasks:  make(map[int64]dom.Task, len(d.tasks)),
		lastID: d.lastID,
	}
	for k, v := range d.users {
		out.users[k] = v
	}
	for k, v := range d.goals {
		out.goals[k] = v
	}
	for k, v := range d.tasks {
		out.tasks[k] = v
	}
	return out
}

func (s *MemoryStore) Read(ctx context.Context, fn func(Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&memTx{d: &s.data, readOnly: true})
}

func (s *MemoryStore) Write(ctx context.Context, fn func(Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.data.clone()
	if err := fn(&memTx{d: &work}); err != nil {
		return err
	}
	s.data = work
	return nil
}

func (s *MemoryStore) Close() {}

type memTx struct {
	d        *memData
	readOnly bool
}

func (t *memTx) Users() UserRepo { return memUsers{t} }
func (t *memTx) Goals() GoalRepo { return memGoals{t} }
func (t *memTx) Tasks() TaskRepo { return memTasks{t} }

func (t *memTx) nextID() (int64, error) {
	if t.readOnly {
		return 0, errReadOnly
	}
	t.d.lastID++
	return t.d.lastID, nil
}

// owned reports whether the task's goal belongs to userID.
func (t *memTx) owned(task dom.Task, userID int64) bool {
	g, ok := t.d.goals[task.GoalID]
	return ok && g.UserID == userID
}

func copyTime(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyTask(t dom.Task) dom.Task {
	t.DueDate = copyTime(t.DueDate)
	t.CompletedAt = copyTime(t.CompletedAt)
	if t.EstimatedHours != nil {
		h := *t.EstimatedHours
		t.EstimatedHours = &h
	}
	return t
}

func copyGoal(g dom.Goal) dom.Goal {
	g.Deadline = copyTime(g.Deadline)
	return g
}

type memUsers struct{ tx *memTx }

func (r memUsers) GetByID(_ context.Context, id int64) (dom.User, error) {
	u, ok := r.tx.d.users[id]
	if !ok {
		return dom.User{}, ErrNotFound
	}
	return u, nil
}

func (r memUsers) GetByUsername(_ context.Context, username string) (dom.User, error) {
	for _, u := range r.tx.d.users {
		if u.Username == username {
			return u, nil
		}
	}
	return dom.User{}, ErrNotFound
}

func (r memUsers) Create(_ context.Context, u dom.User) (dom.User, error) {
	for _, existing := range r.tx.d.users {
		if existing.Email == u.Email {
			return dom.User{}, ErrEmailTaken
		}
		if existing.Username == u.Username {
			return dom.User{}, ErrUsernameTaken
		}
	}
	id, err := r.tx.nextID()
	if err != nil {
		return dom.User{}, err
	}
	u.ID = id
	u.UpdatedAt = u.CreatedAt
	r.tx.d.users[id] = u
	return u, nil
}

func (r memUsers) Delete(_ context.Context, id int64) error {
	if r.tx.readOnly {
		return errReadOnly
	}
	if _, ok := r.tx.d.users[id]; !ok {
		return ErrNotFound
	}
	for gid, g := range r.tx.d.goals {
		if g.UserID == id {
			deleteGoalTasks(r.tx.d, gid)
			delete(r.tx.d.goals, gid)
		}
	}
	delete(r.tx.d.users, id)
	return nil
}

func deleteGoalTasks(d *memData, goalID int64) {
	for tid, t := range d.tasks {
		if t.GoalID == goalID {
			delete(d.tasks, tid)
		}
	}
}

type memGoals struct{ tx *memTx }

func (r memGoals) userGoals(userID int64) []dom.Goal {
	var out []dom.Goal
	for _, g := range r.tx.d.goals {
		if g.UserID == userID {
			out = append(out, copyGoal(g))
		}
	}
	return out
}

func (r memGoals) Create(_ context.Context, g dom.Goal) (dom.Goal, error) {
	if _, ok := r.tx.d.users[g.UserID]; !ok {
		return dom.Goal{}, ErrNotFound
	}
	id, err := r.tx.nextID()
	if err != nil {
		return dom.Goal{}, err
	}
	g.ID = id
	g = copyGoal(g)
	r.tx.d.goals[id] = g
	return copyGoal(g), nil
}

func (r memGoals) GetForUser(_ context.Context, userID, id int64) (dom.Goal, error) {
	g, ok := r.tx.d.goals[id]
	if !ok || g.UserID != userID {
		return dom.Goal{}, ErrNotFound
	}
	return copyGoal(g), nil
}

func (r memGoals) ListByUser(_ context.Context, userID int64) ([]dom.Goal, error) {
	list := r.userGoals(userID)
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r memGoals) Recent(_ context.Context, userID int64, limit int) ([]dom.Goal, error) {
	list := r.userGoals(userID)
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (r memGoals) Update(_ context.Context, g dom.Goal) (dom.Goal, error) {
	if r.tx.readOnly {
		return dom.Goal{}, errReadOnly
	}
	cur, ok := r.tx.d.goals[g.ID]
	if !ok || cur.UserID != g.UserID {
		return dom.Goal{}, ErrNotFound
	}
	g.CreatedAt = cur.CreatedAt
	r.tx.d.goals[g.ID] = copyGoal(g)
	return copyGoal(g), nil
}

func (r memGoals) Delete(_ context.Context, userID, id int64) error {
	if r.tx.readOnly {
		return errReadOnly
	}
	g, ok := r.tx.d.goals[id]
	if !ok || g.UserID != userID {
		return ErrNotFound
	}
	deleteGoalTasks(r.tx.d, id)
	delete(r.tx.d.goals, id)
	return nil
}

func (r memGoals) Count(_ context.Context, userID int64) (int, error) {
	return len(r.userGoals(userID)), nil
}

func (r memGoals) CountDeadlinesBetween(_ context.Context, userID int64, from, to time.Time) (int, error) {
	n := 0
	for _, g := range r.userGoals(userID) {
		if g.Deadline != nil && !g.Deadline.Before(from) && !g.Deadline.After(to) {
			n++
		}
	}
	return n, nil
}

type memTasks struct{ tx *memTx }

func (r memTasks) userTasks(userID int64, keep func(dom.Task) bool) []dom.Task {
	var out []dom.Task
	for _, t := range r.tx.d.tasks {
		if r.tx.owned(t, userID) && keep(t) {
			out = append(out, copyTask(t))
		}
	}
	return out
}

func sortByID(list []dom.Task) {
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
}

func (r memTasks) Create(_ context.Context, t dom.Task) (dom.Task, error) {
	if _, ok := r.tx.d.goals[t.GoalID]; !ok {
		return dom.Task{}, ErrNotFound
	}
	id, err := r.tx.nextID()
	if err != nil {
		return dom.Task{}, err
	}
	t.ID = id
	r.tx.d.tasks[id] = copyTask(t)
	return copyTask(t), nil
}

func (r memTasks) GetForUser(_ context.Context, userID, id int64) (dom.Task, error) {
	t, ok := r.tx.d.tasks[id]
	if !ok || !r.tx.owned(t, userID) {
		return dom.Task{}, ErrNotFound
	}
	return copyTask(t), nil
}

func (r memTasks) ListForUser(_ context.Context, userID, goalID int64) ([]dom.Task, error) {
	list := r.userTasks(userID, func(t dom.Task) bool { return goalID == 0 || t.GoalID == goalID })
	sortByID(list)
	return list, nil
}

func (r memTasks) ListByGoals(_ context.Context, goalIDs []int64) ([]dom.Task, error) {
	want := make(map[int64]bool, len(goalIDs))
	for _, id := range goalIDs {
		want[id] = true
	}
	var list []dom.Task
	for _, t := range r.tx.d.tasks {
		if want[t.GoalID] {
			list = append(list, copyTask(t))
		}
	}
	sortByID(list)
	return list, nil
}

func (r memTasks) Update(_ context.Context, t dom.Task) (dom.Task, error) {
	if r.tx.readOnly {
		return dom.Task{}, errReadOnly
	}
	cur, ok := r.tx.d.tasks[t.ID]
	if !ok {
		return dom.Task{}, ErrNotFound
	}
	t.GoalID = cur.GoalID
	t.CreatedAt = cur.CreatedAt
	r.tx.d.tasks[t.ID] = copyTask(t)
	return copyTask(t), nil
}

func (r memTasks) Delete(_ context.Context, id int64) error {
	if r.tx.readOnly {
		return errReadOnly
	}
	if _, ok := r.tx.d.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(r.tx.d.tasks, id)
	return nil
}

func (r memTasks) Count(_ context.Context, userID int64, f TaskFilter) (int, error) {
	return len(r.userTasks(userID, f.Match)), nil
}

func (r memTasks) Find(_ context.Context, userID int64, f TaskFilter, limit int) ([]dom.Task, error) {
	list := r.userTasks(userID, f.Match)
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i].DueDate, list[j].DueDate
		switch {
		case a == nil && b == nil:
		case a == nil:
			return false
		case b == nil:
			return true
		case !a.Equal(*b):
			return a.Before(*b)
		}
		return list[i].ID < list[j].ID
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (r memTasks) Timeline(_ context.Context, userID int64) ([]dom.TaskTimes, error) {
	var out []dom.TaskTimes
	for _, t := range r.userTasks(userID, func(dom.Task) bool { return true }) {
		out = append(out, dom.TaskTimes{CreatedAt: t.CreatedAt, CompletedAt: t.CompletedAt})
	}
	return out, nil
}
