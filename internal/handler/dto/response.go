package dto

import (
	"time"

	"github.com/mtlprog/khomvg/internal/domain"
	"github.com/mtlprog/khomvg/internal/repository"
	"github.com/mtlprog/khomvg/internal/service"
)

// TaskResponse represents a task as presented on the current business date.
// Status is the effective status; StoredStatus is what the row holds.
type TaskResponse struct {
	ID               string       `json:"id"`
	ProjectID        string       `json:"project_id"`
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	TaskType         string       `json:"task_type"`
	Frequency        string       `json:"frequency"`
	Priority         string       `json:"priority"`
	StartDate        domain.Date  `json:"start_date" swaggertype:"string"`
	DueDate          domain.Date  `json:"due_date" swaggertype:"string"`
	IsRecurring      bool         `json:"is_recurring"`
	NotifyBeforeDays int          `json:"notify_before_days"`
	Status           string       `json:"status"`
	StoredStatus     string       `json:"stored_status"`
	DaysUntilDue     int          `json:"days_until_due"`
	ReminderDue      bool         `json:"reminder_due"`
	CompletedAt      *domain.Date `json:"completed_at" swaggertype:"string"`
	CompletedBy      *string      `json:"completed_by"`
	CompletionNotes  string       `json:"completion_notes,omitempty"`
	NextDueDate      *domain.Date `json:"next_due_date" swaggertype:"string"`
	AssignedTo       *string      `json:"assigned_to"`
	CreatedBy        string       `json:"created_by"`
	PreviousTaskID   *string      `json:"previous_task_id"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// TasksListResponse represents the response for GET /tasks.
type TasksListResponse struct {
	Tasks  []TaskResponse `json:"tasks"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
	Today  domain.Date    `json:"today" swaggertype:"string"`
}

// TaskDetailResponse represents full task details with events.
type TaskDetailResponse struct {
	Task   TaskResponse    `json:"task"`
	Events []TaskEventInfo `json:"events"`
}

// CompleteTaskResponse represents the result of completing an occurrence.
type CompleteTaskResponse struct {
	Task     TaskResponse      `json:"task"`
	NextTask *TaskResponse     `json:"next_task"`
	Event    TaskEventResponse `json:"event"`
}

// TaskEventInfo represents a task event with actor information.
type TaskEventInfo struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	ActorID   *string   `json:"actor_id"`
	ActorName *string   `json:"actor_name"`
	Comment   string    `json:"comment"`
	OldStatus *string   `json:"old_status"`
	NewStatus *string   `json:"new_status"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskEventResponse represents a single event response.
type TaskEventResponse struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	Type      string    `json:"type"`
	ActorID   *string   `json:"actor_id"`
	OldStatus *string   `json:"old_status"`
	NewStatus *string   `json:"new_status"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// StatsResponse represents task statistics.
type StatsResponse struct {
	Period      string          `json:"period"`
	PeriodStart *domain.Date    `json:"period_start" swaggertype:"string"`
	Today       domain.Date     `json:"today" swaggertype:"string"`
	ProjectID   *string         `json:"project_id"`
	Tasks       TaskStats       `json:"tasks"`
	Assignees   []AssigneeStats `json:"assignees"`
}

// TaskStats represents overall task counts.
type TaskStats struct {
	TotalTasks      int            `json:"total_tasks"`
	TasksByStatus   map[string]int `json:"tasks_by_status"`
	OpenTasksByType map[string]int `json:"open_tasks_by_type"`
	OverdueCount    int            `json:"overdue_count"`
	DueSoonCount    int            `json:"due_soon_count"`
	DueSoonDays     int            `json:"due_soon_days"`
	CompletedCount  int            `json:"completed_count"`
	RecurringActive int            `json:"recurring_active"`
}

// AssigneeStats represents the workload of a single user.
type AssigneeStats struct {
	UserID         string `json:"user_id"`
	UserName       string `json:"user_name"`
	TasksOpen      int    `json:"tasks_open"`
	TasksOverdue   int    `json:"tasks_overdue"`
	TasksCompleted int    `json:"tasks_completed"`
}

// ToTaskResponse converts a presented task to TaskResponse.
func ToTaskResponse(view service.TaskView) TaskResponse {
	task := view.Task
	return TaskResponse{
		ID:               task.ID,
		ProjectID:        task.ProjectID,
		Title:            task.Title,
		Description:      task.Description,
		TaskType:         string(task.TaskType),
		Frequency:        string(task.Frequency),
		Priority:         string(task.Priority),
		StartDate:        task.StartDate,
		DueDate:          task.DueDate,
		IsRecurring:      task.IsRecurring,
		NotifyBeforeDays: task.NotifyBeforeDays,
		Status:           string(view.EffectiveStatus),
		StoredStatus:     string(task.Status),
		DaysUntilDue:     view.DaysUntilDue,
		ReminderDue:      view.ReminderDue,
		CompletedAt:      task.CompletedAt,
		CompletedBy:      task.CompletedBy,
		CompletionNotes:  task.CompletionNotes,
		NextDueDate:      task.NextDueDate,
		AssignedTo:       task.AssignedTo,
		CreatedBy:        task.CreatedBy,
		PreviousTaskID:   task.PreviousTaskID,
		CreatedAt:        task.CreatedAt,
		UpdatedAt:        task.UpdatedAt,
	}
}

func statusString(s *domain.TaskStatus) *string {
	if s == nil {
		return nil
	}
	v := string(*s)
	return &v
}

// ToTaskEventResponse converts domain.TaskEvent to TaskEventResponse.
func ToTaskEventResponse(event *domain.TaskEvent) TaskEventResponse {
	return TaskEventResponse{
		ID:        event.ID,
		TaskID:    event.TaskID,
		Type:      string(event.Type),
		ActorID:   event.ActorID,
		OldStatus: statusString(event.OldStatus),
		NewStatus: statusString(event.NewStatus),
		Comment:   event.Comment,
		CreatedAt: event.CreatedAt,
	}
}

// ToTaskEventInfos converts events joined with actor names.
func ToTaskEventInfos(events []repository.TaskEventWithActor) []TaskEventInfo {
	infos := make([]TaskEventInfo, len(events))
	for i, event := range events {
		infos[i] = TaskEventInfo{
			ID:        event.ID,
			Type:      string(event.Type),
			ActorID:   event.ActorID,
			ActorName: event.ActorName,
			Comment:   event.Comment,
			OldStatus: statusString(event.OldStatus),
			NewStatus: statusString(event.NewStatus),
			CreatedAt: event.CreatedAt,
		}
	}
	return infos
}

// ToAssigneeStats converts repository results.
func ToAssigneeStats(results []repository.AssigneeStatsResult) []AssigneeStats {
	stats := make([]AssigneeStats, len(results))
	for i, r := range results {
		stats[i] = AssigneeStats{
			UserID:         r.UserID,
			UserName:       r.UserName,
			TasksOpen:      r.TasksOpen,
			TasksOverdue:   r.TasksOverdue,
			TasksCompleted: r.TasksCompleted,
		}
	}
	return stats
}
