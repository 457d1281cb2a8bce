package dto

import "time"

type CreateGoalRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"max=2000"`
	Deadline    Date   `json:"deadline"` // optional: "2026-02-19" or RFC3339
	Category    string `json:"category" binding:"max=100"`
	Priority    string `json:"priority" binding:"omitempty,oneof=low medium high"`
}

// UpdateGoalRequest is a partial update: omitted fields are left unchanged.
type UpdateGoalRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Deadline    *Date   `json:"deadline"`
	Category    *string `json:"category" binding:"omitempty,max=100"`
	Priority    *string `json:"priority" binding:"omitempty,oneof=low medium high"`
}

type GoalResponse struct {
	ID                 int64          `json:"id"`
	UserID             int64          `json:"user_id"`
	Title              string         `json:"title"`
	Description        string         `json:"description"`
	Deadline           *time.Time     `json:"deadline"`
	Category           string         `json:"category"`
	Priority           string         `json:"priority"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	TotalTasks         int            `json:"total_tasks"`
	CompletedTasks     int            `json:"completed_tasks"`
	ProgressPercentage float64        `json:"progress_percentage"`
	Tasks              []TaskResponse `json:"tasks"`
}

type ListGoalsResponse struct {
	Items []GoalResponse `json:"items"`
}
