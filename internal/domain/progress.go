package domain

import "math"

// Progress holds the derived completion figures of a goal.
type Progress struct {
	TotalTasks     int
	CompletedTasks int
	Percentage     float64
}

// ComputeProgress derives goal progress from its current tasks.
// It must be called on every read; the result is never stored.
func ComputeProgress(tasks []Task) Progress {
	p := Progress{TotalTasks: len(tasks)}
	for _, t := range tasks {
		if t.Status == StatusCompleted {
			p.CompletedTasks++
		}
	}
	p.Percentage = Percent(p.CompletedTasks, p.TotalTasks)
	return p
}

// Percent returns 100*part/whole rounded to two decimals, or 0 when whole is 0.
func Percent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return Round2(float64(100*part) / float64(whole))
}

// Round2 rounds half away from zero at the second decimal.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
