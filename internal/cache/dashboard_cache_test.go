package cache

import (
	"context"
	"testing"
	"time"

	dom "learntrack/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*DashboardCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewDashboardCache(rdb, time.Minute), mr
}

func TestDashboardCache_MissThenHit(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	got, err := c.GetDashboard(ctx, 1, 0)
	if err != nil || got != nil {
		t.Fatalf("expected miss, got %v %v", got, err)
	}

	d := dom.Dashboard{Stats: dom.DashboardStats{TotalGoals: 2, TotalTasks: 5, CompletedTasks: 1}}
	if err := c.SetDashboard(ctx, 1, 0, d); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err = c.GetDashboard(ctx, 1, 0)
	if err != nil || got == nil {
		t.Fatalf("expected hit, got %v %v", got, err)
	}
	if got.Stats != d.Stats {
		t.Fatalf("stats %+v, want %+v", got.Stats, d.Stats)
	}

	other, _ := c.GetDashboard(ctx, 2, 0)
	if other != nil {
		t.Fatalf("user 2 must not see user 1's dashboard")
	}
}

func TestDashboardCache_EntriesExpire(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	if err := c.SetProgress(ctx, 1, 0, 7, dom.ProgressSeries{TotalDays: 7}); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	got, err := c.GetProgress(ctx, 1, 0, 7)
	if err != nil || got != nil {
		t.Fatalf("expected expired entry, got %v %v", got, err)
	}
}

func TestDashboardCache_InvalidateUser(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	_ = c.SetDashboard(ctx, 1, 0, dom.Dashboard{})
	_ = c.SetProgress(ctx, 1, 0, 7, dom.ProgressSeries{TotalDays: 7})
	_ = c.SetProgress(ctx, 1, 0, 30, dom.ProgressSeries{TotalDays: 30})
	_ = c.SetProgress(ctx, 2, 0, 7, dom.ProgressSeries{TotalDays: 7})

	if err := c.InvalidateUser(ctx, 1); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if gen, err := c.Generation(ctx, 1); err != nil || gen != 1 {
		t.Fatalf("generation = %d %v, want 1", gen, err)
	}
	if d, _ := c.GetDashboard(ctx, 1, 0); d != nil {
		t.Fatalf("dashboard should be gone")
	}
	for _, days := range []int{7, 30} {
		if p, _ := c.GetProgress(ctx, 1, 0, days); p != nil {
			t.Fatalf("progress %d should be gone", days)
		}
	}
	if gen, _ := c.Generation(ctx, 2); gen != 0 {
		t.Fatalf("user 2 generation moved to %d", gen)
	}
	if p, _ := c.GetProgress(ctx, 2, 0, 7); p == nil || p.TotalDays != 7 {
		t.Fatalf("user 2 progress should survive, got %v", p)
	}
}

// A fill computed before a write must not be visible after it, even when
// it reaches Redis after the invalidation.
func TestDashboardCache_LateFillIsNotServed(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	gen, _ := c.Generation(ctx, 1)
	if err := c.InvalidateUser(ctx, 1); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	_ = c.SetDashboard(ctx, 1, gen, dom.Dashboard{Stats: dom.DashboardStats{TotalTasks: 0}})

	cur, _ := c.Generation(ctx, 1)
	if d, _ := c.GetDashboard(ctx, 1, cur); d != nil {
		t.Fatalf("stale fill served under generation %d: %+v", cur, d.Stats)
	}
}
