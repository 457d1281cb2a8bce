package importer

import (
	"context"
	"fmt"
	"strings"
	"time"

	dom "learntrack/internal/domain"
	"learntrack/internal/service"
	"learntrack/internal/utils"

	"gopkg.in/yaml.v3"
)

// YAMLTask represents a single task in a learning plan.
type YAMLTask struct {
	Title          string   `yaml:"title"`
	Description    string   `yaml:"description,omitempty"`
	DueDate        string   `yaml:"due_date,omitempty"`
	Priority       string   `yaml:"priority,omitempty"`
	EstimatedHours *float64 `yaml:"estimated_hours,omitempty"`
}

// YAMLPlan is the root of a learning plan: one goal and its tasks.
//
//	title: Learn Go
//	deadline: 2026-06-01
//	tasks:
//	  - title: Tour of Go
//	    due_date: 2026-04-01
type YAMLPlan struct {
	Title       string     `yaml:"title"`
	Description string     `yaml:"description,omitempty"`
	Deadline    string     `yaml:"deadline,omitempty"`
	Category    string     `yaml:"category,omitempty"`
	Priority    string     `yaml:"priority,omitempty"`
	Tasks       []YAMLTask `yaml:"tasks"`
}

// GoalCreator creates a goal together with its tasks atomically.
type GoalCreator interface {
	CreateWithTasks(ctx context.Context, userID int64, in service.GoalInput, tasks []service.TaskInput) (dom.GoalProgress, error)
}

// Parse decodes a YAML plan into service inputs.
func Parse(data []byte) (service.GoalInput, []service.TaskInput, error) {
	var plan YAMLPlan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return service.GoalInput{}, nil, &service.ValidationError{Field: "plan", Msg: fmt.Sprintf("YAML parse error: %v", err)}
	}
	if strings.TrimSpace(plan.Title) == "" {
		return service.GoalInput{}, nil, &service.ValidationError{Field: "title", Msg: "goal title is required"}
	}
	deadline, err := optionalDate("deadline", plan.Deadline)
	if err != nil {
		return service.GoalInput{}, nil, err
	}
	goal := service.GoalInput{
		Title:       plan.Title,
		Description: plan.Description,
		Deadline:    deadline,
		Category:    plan.Category,
		Priority:    plan.Priority,
	}

	tasks := make([]service.TaskInput, 0, len(plan.Tasks))
	for i, yt := range plan.Tasks {
		due, err := optionalDate(fmt.Sprintf("tasks[%d].due_date", i), yt.DueDate)
		if err != nil {
			return service.GoalInput{}, nil, err
		}
		tasks = append(tasks, service.TaskInput{
			Title:          yt.Title,
			Description:    yt.Description,
			DueDate:        due,
			Priority:       yt.Priority,
			EstimatedHours: yt.EstimatedHours,
		})
	}
	return goal, tasks, nil
}

// Import parses a YAML plan and creates the goal with all of its tasks.
// Nothing is created if any part of the plan is invalid.
func Import(ctx context.Context, goals GoalCreator, userID int64, data []byte) (dom.GoalProgress, error) {
	goal, tasks, err := Parse(data)
	if err != nil {
		return dom.GoalProgress{}, err
	}
	return goals.CreateWithTasks(ctx, userID, goal, tasks)
}

func optionalDate(field, s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := utils.ParseDate(s)
	if err != nil {
		return nil, &service.ValidationError{Field: field, Msg: err.Error()}
	}
	return &t, nil
}
