package domain

import "time"

const (
	Day = 24 * time.Hour

	// UpcomingDeadlineWindow bounds the goal deadlines counted as upcoming.
	UpcomingDeadlineWindow = 7 * Day
)

// TaskTimes is the part of a task the time series needs.
type TaskTimes struct {
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// DayProgress is one bucket [Date, Date+24h) of the progress series.
type DayProgress struct {
	Date           time.Time
	CompletedTasks int
	TotalTasks     int
	CompletionRate float64
}

// BuildSeries splits [now-days*24h, now) into days consecutive buckets,
// earliest first. The numerator counts completions inside the bucket only;
// the denominator counts every task created at or before the bucket start.
func BuildSeries(now time.Time, days int, tasks []TaskTimes) []DayProgress {
	if days <= 0 {
		return nil
	}
	start := now.Add(-time.Duration(days) * Day)
	out := make([]DayProgress, days)
	for i := range out {
		d := start.Add(time.Duration(i) * Day)
		out[i] = bucket(d, tasks)
	}
	return out
}

func bucket(d time.Time, tasks []TaskTimes) DayProgress {
	next := d.Add(Day)
	b := DayProgress{Date: d}
	for _, t := range tasks {
		if !t.CreatedAt.After(d) {
			b.TotalTasks++
		}
		if t.CompletedAt != nil && !t.CompletedAt.Before(d) && t.CompletedAt.Before(next) {
			b.CompletedTasks++
		}
	}
	b.CompletionRate = Percent(b.CompletedTasks, b.TotalTasks)
	return b
}
