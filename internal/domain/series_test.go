package domain

import (
	"testing"
	"time"
)

func TestBuildSeries_BucketsAreChronological(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	series := BuildSeries(now, 5, nil)
	if len(series) != 5 {
		t.Fatalf("len %d", len(series))
	}
	if !series[0].Date.Equal(now.Add(-5 * Day)) {
		t.Fatalf("first bucket %v", series[0].Date)
	}
	for i := 1; i < len(series); i++ {
		if got := series[i].Date.Sub(series[i-1].Date); got != Day {
			t.Fatalf("bucket %d gap %v", i, got)
		}
	}
	if !series[4].Date.Add(Day).Equal(now) {
		t.Fatalf("last bucket should end at now, got %v", series[4].Date.Add(Day))
	}
}

func TestBuildSeries_CompletedWithinWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	completed := now.Add(-30 * time.Hour)
	tasks := []TaskTimes{{CreatedAt: now.Add(-3 * Day), CompletedAt: &completed}}

	series := BuildSeries(now, 2, tasks)
	if len(series) != 2 {
		t.Fatalf("len %d", len(series))
	}
	if series[0].CompletedTasks != 1 || series[0].TotalTasks != 1 || series[0].CompletionRate != 100 {
		t.Fatalf("first bucket %+v", series[0])
	}
	if series[1].CompletedTasks != 0 || series[1].TotalTasks != 1 || series[1].CompletionRate != 0 {
		t.Fatalf("second bucket %+v", series[1])
	}
}

func TestBuildSeries_DenominatorExcludesTasksCreatedInsideBucket(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	start := now.Add(-Day)
	completed := start.Add(2 * time.Hour)
	tasks := []TaskTimes{
		{CreatedAt: start}, // exactly at bucket start: counted
		{CreatedAt: start.Add(time.Hour), CompletedAt: &completed}, // created inside: not in denominator
	}

	series := BuildSeries(now, 1, tasks)
	b := series[0]
	if b.TotalTasks != 1 {
		t.Fatalf("total %d, want 1", b.TotalTasks)
	}
	if b.CompletedTasks != 1 {
		t.Fatalf("completed %d, want 1", b.CompletedTasks)
	}
	if b.CompletionRate != 100 {
		t.Fatalf("rate %v", b.CompletionRate)
	}
}

func TestBuildSeries_BucketBoundsAreHalfOpen(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	atStart := now.Add(-2 * Day)
	atBoundary := now.Add(-Day)
	atNow := now
	tasks := []TaskTimes{
		{CreatedAt: now.Add(-10 * Day), CompletedAt: &atStart},
		{CreatedAt: now.Add(-10 * Day), CompletedAt: &atBoundary},
		{CreatedAt: now.Add(-10 * Day), CompletedAt: &atNow},
	}
	series := BuildSeries(now, 2, tasks)
	if series[0].CompletedTasks != 1 {
		t.Fatalf("first bucket completed %d", series[0].CompletedTasks)
	}
	if series[1].CompletedTasks != 1 {
		t.Fatalf("second bucket completed %d", series[1].CompletedTasks)
	}
	if series[0].CompletionRate != 33.33 {
		t.Fatalf("rate %v", series[0].CompletionRate)
	}
}

func TestBuildSeries_NonPositiveDays(t *testing.T) {
	if got := BuildSeries(time.Now(), 0, nil); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}
