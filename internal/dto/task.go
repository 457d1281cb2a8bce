package dto

import "time"

type CreateTaskRequest struct {
	GoalID         int64    `json:"goal_id" binding:"required,min=1"`
	Title          string   `json:"title" binding:"required,min=1,max=200"`
	Description    string   `json:"description" binding:"max=2000"`
	DueDate        Date     `json:"due_date"` // optional: "2026-02-19" or RFC3339
	Priority       string   `json:"priority" binding:"omitempty,oneof=low medium high"`
	EstimatedHours *float64 `json:"estimated_hours" binding:"omitempty,min=0"`
}

// UpdateTaskRequest is a partial update. A status here has the same effect
// as PATCH /tasks/{id}/status.
type UpdateTaskRequest struct {
	Title          *string  `json:"title" binding:"omitempty,min=1,max=200"`
	Description    *string  `json:"description" binding:"omitempty,max=2000"`
	Status         *string  `json:"status"`
	DueDate        *Date    `json:"due_date"`
	Priority       *string  `json:"priority" binding:"omitempty,oneof=low medium high"`
	EstimatedHours *float64 `json:"estimated_hours" binding:"omitempty,min=0"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type TaskResponse struct {
	ID             int64      `json:"id"`
	GoalID         int64      `json:"goal_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Status         string     `json:"status"`
	DueDate        *time.Time `json:"due_date"`
	CompletedAt    *time.Time `json:"completed_at"`
	Priority       string     `json:"priority"`
	EstimatedHours *float64   `json:"estimated_hours"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type ListTasksResponse struct {
	Items []TaskResponse `json:"items"`
}
