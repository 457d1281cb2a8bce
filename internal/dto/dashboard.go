package dto

import "time"

type DashboardStatsResponse struct {
	TotalGoals        int `json:"total_goals"`
	TotalTasks        int `json:"total_tasks"`
	CompletedTasks    int `json:"completed_tasks"`
	InProgressTasks   int `json:"in_progress_tasks"`
	OverdueTasks      int `json:"overdue_tasks"`
	UpcomingDeadlines int `json:"upcoming_deadlines"`
}

type DashboardResponse struct {
	Stats         DashboardStatsResponse `json:"stats"`
	RecentGoals   []GoalResponse         `json:"recent_goals"`
	UpcomingTasks []TaskResponse         `json:"upcoming_tasks"`
}

type DayProgressResponse struct {
	Date           time.Time `json:"date"`
	CompletedTasks int       `json:"completed_tasks"`
	TotalTasks     int       `json:"total_tasks"`
	CompletionRate float64   `json:"completion_rate"`
}

type ProgressResponse struct {
	ProgressData []DayProgressResponse `json:"progress_data"`
	TotalDays    int                   `json:"total_days"`
}
