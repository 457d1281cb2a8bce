package handlers

import (
	dom "learntrack/internal/domain"
	"learntrack/internal/dto"
)

func userToResponse(u dom.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

func taskToResponse(t dom.Task) dto.TaskResponse {
	return dto.TaskResponse{
		ID:             t.ID,
		GoalID:         t.GoalID,
		Title:          t.Title,
		Description:    t.Description,
		Status:         string(t.Status),
		DueDate:        t.DueDate,
		CompletedAt:    t.CompletedAt,
		Priority:       string(t.Priority),
		EstimatedHours: t.EstimatedHours,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func tasksToResponses(list []dom.Task) []dto.TaskResponse {
	out := make([]dto.TaskResponse, len(list))
	for i := range list {
		out[i] = taskToResponse(list[i])
	}
	return out
}

func goalToResponse(gp dom.GoalProgress) dto.GoalResponse {
	g := gp.Goal
	return dto.GoalResponse{
		ID:                 g.ID,
		UserID:             g.UserID,
		Title:              g.Title,
		Description:        g.Description,
		Deadline:           g.Deadline,
		Category:           g.Category,
		Priority:           string(g.Priority),
		CreatedAt:          g.CreatedAt,
		UpdatedAt:          g.UpdatedAt,
		TotalTasks:         gp.Progress.TotalTasks,
		CompletedTasks:     gp.Progress.CompletedTasks,
		ProgressPercentage: gp.Progress.Percentage,
		Tasks:              tasksToResponses(gp.Tasks),
	}
}

func goalsToResponses(list []dom.GoalProgress) []dto.GoalResponse {
	out := make([]dto.GoalResponse, len(list))
	for i := range list {
		out[i] = goalToResponse(list[i])
	}
	return out
}

func dashboardToResponse(d dom.Dashboard) dto.DashboardResponse {
	s := d.Stats
	return dto.DashboardResponse{
		Stats: dto.DashboardStatsResponse{
			TotalGoals:        s.TotalGoals,
			TotalTasks:        s.TotalTasks,
			CompletedTasks:    s.CompletedTasks,
			InProgressTasks:   s.InProgressTasks,
			OverdueTasks:      s.OverdueTasks,
			UpcomingDeadlines: s.UpcomingDeadlines,
		},
		RecentGoals:   goalsToResponses(d.RecentGoals),
		UpcomingTasks: tasksToResponses(d.UpcomingTasks),
	}
}

func progressToResponse(p dom.ProgressSeries) dto.ProgressResponse {
	days := make([]dto.DayProgressResponse, len(p.Days))
	for i, d := range p.Days {
		days[i] = dto.DayProgressResponse{
			Date:           d.Date,
			CompletedTasks: d.CompletedTasks,
			TotalTasks:     d.TotalTasks,
			CompletionRate: d.CompletionRate,
		}
	}
	return dto.ProgressResponse{ProgressData: days, TotalDays: p.TotalDays}
}
