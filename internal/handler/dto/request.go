package dto

import "github.com/mtlprog/khomvg/internal/domain"

// TaskFields is the editable part of a task shared by create and update.
type TaskFields struct {
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	TaskType         string      `json:"task_type"`
	Frequency        string      `json:"frequency"`
	Priority         string      `json:"priority,omitempty"`
	StartDate        domain.Date `json:"start_date" swaggertype:"string" example:"2024-03-01"`
	DueDate          domain.Date `json:"due_date" swaggertype:"string" example:"2024-03-08"`
	IsRecurring      bool        `json:"is_recurring"`
	NotifyBeforeDays int         `json:"notify_before_days"`
	AssignedTo       *string     `json:"assigned_to,omitempty"`
}

// CreateTaskRequest represents the request body for POST /tasks.
type CreateTaskRequest struct {
	ProjectID string `json:"project_id"`
	TaskFields
}

// UpdateTaskRequest represents the request body for PUT /tasks/:id.
type UpdateTaskRequest struct {
	TaskFields
}

// TransitionStatusRequest represents the request body for PATCH /tasks/:id/status.
type TransitionStatusRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

// CompleteTaskRequest represents the request body for PATCH /tasks/:id/complete.
type CompleteTaskRequest struct {
	CompletionNotes string `json:"completion_notes"`
}

// CommentTaskRequest represents the request body for POST /tasks/:id/comments.
type CommentTaskRequest struct {
	Comment string `json:"comment"`
}
