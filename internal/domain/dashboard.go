package domain

// GoalProgress is a goal read together with its current tasks and the
// progress derived from them.
type GoalProgress struct {
	Goal     Goal
	Progress Progress
	Tasks    []Task
}

// NewGoalProgress derives progress from tasks at read time.
func NewGoalProgress(g Goal, tasks []Task) GoalProgress {
	return GoalProgress{Goal: g, Progress: ComputeProgress(tasks), Tasks: tasks}
}

type DashboardStats struct {
	TotalGoals        int
	TotalTasks        int
	CompletedTasks    int
	InProgressTasks   int
	OverdueTasks      int
	UpcomingDeadlines int
}

type Dashboard struct {
	Stats         DashboardStats
	RecentGoals   []GoalProgress
	UpcomingTasks []Task
}

type ProgressSeries struct {
	Days      []DayProgress
	TotalDays int
}
