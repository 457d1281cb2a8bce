package service

import (
	"context"
	"log"
	"strconv"
	"time"

	"learntrack/internal/cache"
	dom "learntrack/internal/domain"
	"learntrack/internal/repo"

	"golang.org/x/sync/singleflight"
)

const (
	DashboardRecentGoals   = 5
	DashboardUpcomingTasks = 10

	DefaultRecentLimit = 5
	MaxRecentLimit     = 50

	DefaultUpcomingLimit = 10
	MaxUpcomingLimit     = 100

	DefaultProgressDays = 30
	MaxProgressDays     = 365
)

// DashboardService computes per-user statistics and temporal task buckets.
// Every query is scoped to the requesting user.
type DashboardService struct {
	store repo.Store
	cache *cache.DashboardCache
	sf    singleflight.Group
}

// NewDashboardService creates a DashboardService. If c is nil, caching is disabled.
func NewDashboardService(store repo.Store, c *cache.DashboardCache) *DashboardService {
	return &DashboardService{store: store, cache: c}
}

func overdueFilter(now time.Time) repo.TaskFilter {
	return repo.TaskFilter{NotStatus: dom.StatusCompleted, DueBefore: &now}
}

func upcomingFilter(now time.Time) repo.TaskFilter {
	return repo.TaskFilter{NotStatus: dom.StatusCompleted, DueFrom: &now}
}

// Dashboard returns the stats block, the five newest goals and the next ten open tasks.
func (s *DashboardService) Dashboard(ctx context.Context, userID int64, now time.Time) (dom.Dashboard, error) {
	gen, ok := s.generation(ctx, userID)
	if !ok {
		return s.buildDashboard(ctx, userID, now)
	}
	key := "dashboard:" + strconv.FormatInt(userID, 10) + ":" + strconv.FormatInt(gen, 10)
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		if d, err := s.cache.GetDashboard(ctx, userID, gen); err == nil && d != nil {
			return *d, nil
		}
		d, err := s.buildDashboard(ctx, userID, now)
		if err != nil {
			return nil, err
		}
		if err := s.cache.SetDashboard(ctx, userID, gen, d); err != nil {
			log.Printf("dashboard cache: set user %d: %v", userID, err)
		}
		return d, nil
	})
	if err != nil {
		return dom.Dashboard{}, err
	}
	return v.(dom.Dashboard), nil
}

// generation must be read before the store: a write that commits after it
// bumps the generation, so whatever this read fills is never served.
// ok is false when the cache is off or unreachable.
func (s *DashboardService) generation(ctx context.Context, userID int64) (int64, bool) {
	if s.cache == nil {
		return 0, false
	}
	gen, err := s.cache.Generation(ctx, userID)
	if err != nil {
		log.Printf("dashboard cache: generation user %d: %v", userID, err)
		return 0, false
	}
	return gen, true
}

func (s *DashboardService) buildDashboard(ctx context.Context, userID int64, now time.Time) (dom.Dashboard, error) {
	var d dom.Dashboard
	err := s.store.Read(ctx, func(tx repo.Tx) error {
		goals, tasks := tx.Goals(), tx.Tasks()
		counts := []struct {
			dst *int
			f   repo.TaskFilter
		}{
			{&d.Stats.TotalTasks, repo.TaskFilter{}},
			{&d.Stats.CompletedTasks, repo.TaskFilter{Status: dom.StatusCompleted}},
			{&d.Stats.InProgressTasks, repo.TaskFilter{Status: dom.StatusInProgress}},
			{&d.Stats.OverdueTasks, overdueFilter(now)},
		}
		for _, c := range counts {
			n, err := tasks.Count(ctx, userID, c.f)
			if err != nil {
				return err
			}
			*c.dst = n
		}

		var err error
		if d.Stats.TotalGoals, err = goals.Count(ctx, userID); err != nil {
			return err
		}
		d.Stats.UpcomingDeadlines, err = goals.CountDeadlinesBetween(ctx, userID, now, now.Add(dom.UpcomingDeadlineWindow))
		if err != nil {
			return err
		}

		recent, err := goals.Recent(ctx, userID, DashboardRecentGoals)
		if err != nil {
			return err
		}
		if d.RecentGoals, err = withProgress(ctx, tx, recent); err != nil {
			return err
		}
		d.UpcomingTasks, err = tasks.Find(ctx, userID, upcomingFilter(now), DashboardUpcomingTasks)
		return err
	})
	if err != nil {
		return dom.Dashboard{}, err
	}
	if d.UpcomingTasks == nil {
		d.UpcomingTasks = []dom.Task{}
	}
	return d, nil
}

// Progress returns the day-by-day completion series over the last days days.
func (s *DashboardService) Progress(ctx context.Context, userID int64, now time.Time, days int) (dom.ProgressSeries, error) {
	if err := checkRange("days", days, 1, MaxProgressDays); err != nil {
		return dom.ProgressSeries{}, err
	}
	gen, ok := s.generation(ctx, userID)
	if !ok {
		return s.buildProgress(ctx, userID, now, days)
	}
	key := "progress:" + strconv.FormatInt(userID, 10) + ":" + strconv.FormatInt(gen, 10) + ":" + strconv.Itoa(days)
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		if p, err := s.cache.GetProgress(ctx, userID, gen, days); err == nil && p != nil {
			return *p, nil
		}
		p, err := s.buildProgress(ctx, userID, now, days)
		if err != nil {
			return nil, err
		}
		if err := s.cache.SetProgress(ctx, userID, gen, days, p); err != nil {
			log.Printf("dashboard cache: set progress user %d: %v", userID, err)
		}
		return p, nil
	})
	if err != nil {
		return dom.ProgressSeries{}, err
	}
	return v.(dom.ProgressSeries), nil
}

func (s *DashboardService) buildProgress(ctx context.Context, userID int64, now time.Time, days int) (dom.ProgressSeries, error) {
	var timeline []dom.TaskTimes
	err := s.store.Read(ctx, func(tx repo.Tx) error {
		var err error
		timeline, err = tx.Tasks().Timeline(ctx, userID)
		return err
	})
	if err != nil {
		return dom.ProgressSeries{}, err
	}
	return dom.ProgressSeries{Days: dom.BuildSeries(now, days, timeline), TotalDays: days}, nil
}

// RecentGoals returns up to limit goals, newest first.
func (s *DashboardService) RecentGoals(ctx context.Context, userID int64, limit int) ([]dom.GoalProgress, error) {
	if err := checkRange("limit", limit, 1, MaxRecentLimit); err != nil {
		return nil, err
	}
	var out []dom.GoalProgress
	err := s.store.Read(ctx, func(tx repo.Tx) error {
		goals, err := tx.Goals().Recent(ctx, userID, limit)
		if err != nil {
			return err
		}
		out, err = withProgress(ctx, tx, goals)
		return err
	})
	return out, err
}

// UpcomingTasks returns up to limit open tasks due at or after now, soonest first.
func (s *DashboardService) UpcomingTasks(ctx context.Context, userID int64, now time.Time, limit int) ([]dom.Task, error) {
	if err := checkRange("limit", limit, 1, MaxUpcomingLimit); err != nil {
		return nil, err
	}
	return s.findTasks(ctx, userID, upcomingFilter(now), limit)
}

// OverdueTasks returns every open task due before now, oldest due date first.
func (s *DashboardService) OverdueTasks(ctx context.Context, userID int64, now time.Time) ([]dom.Task, error) {
	return s.findTasks(ctx, userID, overdueFilter(now), 0)
}

func (s *DashboardService) findTasks(ctx context.Context, userID int64, f repo.TaskFilter, limit int) ([]dom.Task, error) {
	var list []dom.Task
	err := s.store.Read(ctx, func(tx repo.Tx) error {
		var err error
		list, err = tx.Tasks().Find(ctx, userID, f, limit)
		return err
	})
	if list == nil && err == nil {
		list = []dom.Task{}
	}
	return list, err
}
