package service

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/mtlprog/khomvg/internal/domain"
	"github.com/mtlprog/khomvg/internal/repository"
)

const (
	minTitleLength = 3
	maxTitleLength = 200
)

// ValidateSchedule checks the schedule fields of a task and reports every
// violated rule at once.
func ValidateSchedule(task *domain.Task) error {
	verr := &domain.ScheduleValidationError{}
	collectScheduleViolations(task, verr)
	return verr.ErrOrNil()
}

// ValidateTask checks descriptive fields and the schedule together.
func ValidateTask(task *domain.Task) error {
	verr := &domain.ScheduleValidationError{}

	if task.ProjectID == "" {
		verr.Add("project_id", "is required")
	}
	if n := utf8.RuneCountInString(task.Title); n < minTitleLength || n > maxTitleLength {
		verr.Add("title", fmt.Sprintf("must be between %d and %d characters", minTitleLength, maxTitleLength))
	}
	if !task.TaskType.IsValid() {
		verr.Add("task_type", fmt.Sprintf("unknown task type %q", task.TaskType))
	}
	if !task.Priority.IsValid() {
		verr.Add("priority", fmt.Sprintf("unknown priority %q", task.Priority))
	}

	collectScheduleViolations(task, verr)
	return verr.ErrOrNil()
}

func collectScheduleViolations(task *domain.Task, verr *domain.ScheduleValidationError) {
	if task.StartDate.IsZero() {
		verr.Add("start_date", "is required")
	}
	if task.DueDate.IsZero() {
		verr.Add("due_date", "is required")
	}
	if !task.StartDate.IsZero() && !task.DueDate.IsZero() && task.DueDate.Before(task.StartDate) {
		verr.Add("due_date", "must not be before start_date")
	}

	if !task.Frequency.IsValid() {
		verr.Add("frequency", fmt.Sprintf("unknown frequency %q", task.Frequency))
	} else if task.IsRecurring && task.Frequency == domain.FrequencyOneTime {
		verr.Add("frequency", "recurring tasks cannot use one_time frequency")
	}

	if task.NotifyBeforeDays < 0 {
		verr.Add("notify_before_days", "must not be negative")
	}
}

// Validator handles permission and state validation for task operations.
type Validator struct {
	projectRepo *repository.ProjectRepository
}

// NewValidator creates a new Validator.
func NewValidator(projectRepo *repository.ProjectRepository) *Validator {
	return &Validator{
		projectRepo: projectRepo,
	}
}

// CheckProject verifies the project exists and accepts new tasks.
func (v *Validator) CheckProject(ctx context.Context, projectID string) error {
	project, err := v.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if !project.IsActive {
		return fmt.Errorf("%w: project %s is archived", domain.ErrPermissionDenied, project.Code)
	}
	return nil
}

// CanEdit validates if a user can edit a task's fields.
func CanEdit(task *domain.Task, user *domain.User) error {
	if task.Status.IsTerminal() {
		return fmt.Errorf("%w: task %s is %s", domain.ErrAlreadyTerminal, task.ID, task.Status)
	}
	if !user.Role.CanManage() && task.CreatedBy != user.ID && !task.IsAssignedTo(user.ID) {
		return fmt.Errorf("%w: user %s cannot edit task %s", domain.ErrPermissionDenied, user.ID, task.ID)
	}
	return nil
}

// CanComplete validates if a user can complete a task occurrence.
func CanComplete(task *domain.Task, user *domain.User) error {
	if task.Status.IsTerminal() {
		return fmt.Errorf("%w: task %s is %s", domain.ErrAlreadyTerminal, task.ID, task.Status)
	}
	if task.AssignedTo != nil && !task.IsAssignedTo(user.ID) && !user.Role.CanManage() {
		return fmt.Errorf("%w: task %s is assigned to %s", domain.ErrPermissionDenied, task.ID, *task.AssignedTo)
	}
	return nil
}

// CanTransitionStatus validates an explicit status change requested by a user.
// Completion has its own operation and overdue is never stored on request.
func CanTransitionStatus(task *domain.Task, user *domain.User, newStatus domain.TaskStatus) error {
	if !newStatus.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidStatus, newStatus)
	}

	current := task.Status
	if current.IsTerminal() {
		return fmt.Errorf("%w: task %s is %s", domain.ErrAlreadyTerminal, task.ID, current)
	}

	switch newStatus {
	case domain.TaskStatusInProgress:
		if current == domain.TaskStatusInProgress {
			return fmt.Errorf("%w: task %s is already in_progress", domain.ErrInvalidTransition, task.ID)
		}
		// Anyone may pick up an unassigned task
		if task.AssignedTo != nil && !task.IsAssignedTo(user.ID) && !user.Role.CanManage() {
			return fmt.Errorf("%w: task %s is assigned to %s", domain.ErrPermissionDenied, task.ID, *task.AssignedTo)
		}

	case domain.TaskStatusPending:
		if current != domain.TaskStatusInProgress {
			return fmt.Errorf("%w: task %s cannot transition %s -> pending", domain.ErrInvalidTransition, task.ID, current)
		}
		if !task.IsAssignedTo(user.ID) && !user.Role.CanManage() {
			return fmt.Errorf("%w: user %s cannot release task %s", domain.ErrPermissionDenied, user.ID, task.ID)
		}

	case domain.TaskStatusCancelled:
		if task.CreatedBy != user.ID && !user.Role.CanManage() {
			return fmt.Errorf("%w: user %s is neither creator nor manager of task %s", domain.ErrPermissionDenied, user.ID, task.ID)
		}

	case domain.TaskStatusCompleted:
		return fmt.Errorf("%w: use the complete operation for task %s", domain.ErrInvalidTransition, task.ID)

	case domain.TaskStatusOverdue:
		return fmt.Errorf("%w: overdue is derived from the due date", domain.ErrInvalidTransition)
	}

	return nil
}
