package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/khomvg/internal/database"
	"github.com/mtlprog/khomvg/internal/domain"
	"github.com/mtlprog/khomvg/internal/repository"
)

// TaskService coordinates task persistence around the lifecycle rules.
type TaskService struct {
	pool        *pgxpool.Pool
	taskRepo    *repository.TaskRepository
	eventRepo   *repository.TaskEventRepository
	userRepo    *repository.UserRepository
	projectRepo *repository.ProjectRepository
	validator   *Validator
	clock       Clock
}

// NewTaskService creates a new TaskService.
func NewTaskService(
	pool *pgxpool.Pool,
	taskRepo *repository.TaskRepository,
	eventRepo *repository.TaskEventRepository,
	userRepo *repository.UserRepository,
	projectRepo *repository.ProjectRepository,
	clock Clock,
) *TaskService {
	return &TaskService{
		pool:        pool,
		taskRepo:    taskRepo,
		eventRepo:   eventRepo,
		userRepo:    userRepo,
		projectRepo: projectRepo,
		validator:   NewValidator(projectRepo),
		clock:       clock,
	}
}

// Today returns the current business date.
func (s *TaskService) Today() domain.Date {
	return s.clock.Today()
}

// CreateTaskParams holds the input for CreateTask.
type CreateTaskParams struct {
	ProjectID        string
	CreatedBy        string
	Title            string
	Description      string
	TaskType         domain.TaskType
	Frequency        domain.Frequency
	Priority         domain.TaskPriority
	StartDate        domain.Date
	DueDate          domain.Date
	IsRecurring      bool
	NotifyBeforeDays int
	AssignedTo       *string
}

// UpdateTaskParams holds the editable fields of a task.
type UpdateTaskParams struct {
	Title            string
	Description      string
	TaskType         domain.TaskType
	Frequency        domain.Frequency
	Priority         domain.TaskPriority
	StartDate        domain.Date
	DueDate          domain.Date
	IsRecurring      bool
	NotifyBeforeDays int
	AssignedTo       *string
}

// CompleteResult is the persisted outcome of CompleteTask.
type CompleteResult struct {
	Task     *domain.Task
	NextTask *domain.Task
	Event    *domain.TaskEvent
}

// SweepResult summarises a due-date sweep.
type SweepResult struct {
	Checked   int
	Overdue   int
	Reminders int
}

// getActiveUser fetches a user by ID and verifies it is active.
func (s *TaskService) getActiveUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}
	return user, nil
}

// checkAssignee verifies an optional assignee refers to an active user.
// A missing or inactive assignee is a field violation, not an auth failure.
func (s *TaskService) checkAssignee(ctx context.Context, assignedTo *string) error {
	if assignedTo == nil {
		return nil
	}
	_, err := s.getActiveUser(ctx, *assignedTo)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		verr := &domain.ScheduleValidationError{}
		verr.Add("assigned_to", "user does not exist")
		return verr
	case errors.Is(err, domain.ErrUserInactive):
		verr := &domain.ScheduleValidationError{}
		verr.Add("assigned_to", "user is inactive")
		return verr
	case err != nil:
		return fmt.Errorf("assignee %s: %w", *assignedTo, err)
	}
	return nil
}

// CreateTask validates and stores a new pending task.
func (s *TaskService) CreateTask(ctx context.Context, params CreateTaskParams) (*domain.Task, error) {
	if params.Priority == "" {
		params.Priority = domain.TaskPriorityMedium
	}

	task := &domain.Task{
		ProjectID:        params.ProjectID,
		Title:            params.Title,
		Description:      params.Description,
		TaskType:         params.TaskType,
		Frequency:        params.Frequency,
		Priority:         params.Priority,
		StartDate:        params.StartDate,
		DueDate:          params.DueDate,
		IsRecurring:      params.IsRecurring,
		NotifyBeforeDays: params.NotifyBeforeDays,
		Status:           domain.TaskStatusPending,
		AssignedTo:       params.AssignedTo,
		CreatedBy:        params.CreatedBy,
	}

	if err := ValidateTask(task); err != nil {
		return nil, err
	}

	if _, err := s.getActiveUser(ctx, params.CreatedBy); err != nil {
		return nil, err
	}
	if err := s.validator.CheckProject(ctx, params.ProjectID); err != nil {
		return nil, err
	}
	if err := s.checkAssignee(ctx, params.AssignedTo); err != nil {
		return nil, err
	}

	err := database.InTx(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := s.taskRepo.Create(ctx, tx, task); err != nil {
			return err
		}

		newStatus := task.Status
		return s.eventRepo.Create(ctx, tx, &domain.TaskEvent{
			TaskID:    task.ID,
			ActorID:   &params.CreatedBy,
			Type:      domain.EventTypeCreated,
			NewStatus: &newStatus,
			Comment:   "Task created",
		})
	})
	if err != nil {
		return nil, err
	}

	slog.Info("task created",
		"task_id", task.ID,
		"project_id", task.ProjectID,
		"user_id", params.CreatedBy,
		"due_date", task.DueDate.String(),
		"recurring", task.IsRecurring,
	)

	return task, nil
}

// UpdateTask replaces the editable fields of an open task.
func (s *TaskService) UpdateTask(
	ctx context.Context,
	taskID string,
	userID string,
	params UpdateTaskParams,
) (*domain.Task, error) {
	if params.Priority == "" {
		params.Priority = domain.TaskPriorityMedium
	}

	user, err := s.getActiveUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.checkAssignee(ctx, params.AssignedTo); err != nil {
		return nil, err
	}

	var updated *domain.Task
	err = database.InTx(ctx, s.pool, func(tx pgx.Tx) error {
		task, err := s.taskRepo.GetByIDForUpdate(ctx, tx, taskID)
		if err != nil {
			return err
		}

		if err := CanEdit(task, user); err != nil {
			return err
		}

		oldStatus := task.Status
		task.Title = params.Title
		task.Description = params.Description
		task.TaskType = params.TaskType
		task.Frequency = params.Frequency
		task.Priority = params.Priority
		task.StartDate = params.StartDate
		task.DueDate = params.DueDate
		task.IsRecurring = params.IsRecurring
		task.NotifyBeforeDays = params.NotifyBeforeDays
		task.AssignedTo = params.AssignedTo

		if err := ValidateTask(task); err != nil {
			return err
		}

		if err := s.taskRepo.UpdateDetails(ctx, tx, task, oldStatus); err != nil {
			return err
		}

		updated = task
		return s.eventRepo.Create(ctx, tx, &domain.TaskEvent{
			TaskID:  taskID,
			ActorID: &userID,
			Type:    domain.EventTypeUpdated,
			Comment: fmt.Sprintf("Schedule %s → %s, %s", task.StartDate, task.DueDate, task.Frequency),
		})
	})
	if err != nil {
		return nil, err
	}

	slog.Info("task updated",
		"task_id", taskID,
		"user_id", userID,
		"due_date", updated.DueDate.String(),
	)

	return updated, nil
}

// TransitionStatus implements explicit status changes (start, release, cancel).
func (s *TaskService) TransitionStatus(
	ctx context.Context,
	taskID string,
	userID string,
	newStatus domain.TaskStatus,
	comment string,
) (*domain.TaskEvent, error) {
	if comment == "" {
		return nil, domain.ErrEmptyComment
	}

	user, err := s.getActiveUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var event *domain.TaskEvent
	var oldStatus domain.TaskStatus
	err = database.InTx(ctx, s.pool, func(tx pgx.Tx) error {
		task, err := s.taskRepo.GetByIDForUpdate(ctx, tx, taskID)
		if err != nil {
			return err
		}
		oldStatus = task.Status

		if err := CanTransitionStatus(task, user, newStatus); err != nil {
			return err
		}

		// Starting an unassigned task takes ownership of it
		assignedTo := task.AssignedTo
		if newStatus == domain.TaskStatusInProgress && assignedTo == nil {
			assignedTo = &userID
		}

		if err := s.taskRepo.UpdateStatus(ctx, tx, taskID, oldStatus, newStatus, assignedTo); err != nil {
			return err
		}

		event = &domain.TaskEvent{
			TaskID:    taskID,
			ActorID:   &userID,
			Type:      domain.EventTypeStatusChanged,
			OldStatus: &oldStatus,
			NewStatus: &newStatus,
			Comment:   comment,
		}
		return s.eventRepo.Create(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("task status changed",
		"task_id", taskID,
		"user_id", userID,
		"old_status", oldStatus,
		"new_status", newStatus,
		"event_id", event.ID,
	)

	return event, nil
}

// CompleteTask completes an occurrence and stores the next occurrence of a
// recurring task in the same transaction.
func (s *TaskService) CompleteTask(
	ctx context.Context,
	taskID string,
	userID string,
	notes string,
) (*CompleteResult, error) {
	user, err := s.getActiveUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := s.Today()
	result := &CompleteResult{}

	err = database.InTx(ctx, s.pool, func(tx pgx.Tx) error {
		task, err := s.taskRepo.GetByIDForUpdate(ctx, tx, taskID)
		if err != nil {
			return err
		}

		if err := CanComplete(task, user); err != nil {
			return err
		}

		completion, err := CompleteTask(task, userID, notes, today)
		if err != nil {
			return err
		}

		if err := s.taskRepo.MarkCompleted(ctx, tx, &completion.Task, task.Status); err != nil {
			return err
		}

		oldStatus := task.Status
		newStatus := domain.TaskStatusCompleted
		comment := notes
		if comment == "" {
			comment = "Task completed"
		}
		result.Task = &completion.Task
		result.Event = &domain.TaskEvent{
			TaskID:    taskID,
			ActorID:   &userID,
			Type:      domain.EventTypeCompleted,
			OldStatus: &oldStatus,
			NewStatus: &newStatus,
			Comment:   comment,
		}
		if err := s.eventRepo.Create(ctx, tx, result.Event); err != nil {
			return err
		}

		if completion.NextTask == nil {
			return nil
		}
		return s.storeNextOccurrence(ctx, tx, task, completion.NextTask, userID, result)
	})
	if err != nil {
		return nil, err
	}

	attrs := []any{
		"task_id", taskID,
		"user_id", userID,
		"completed_at", today.String(),
	}
	if result.NextTask != nil {
		attrs = append(attrs, "next_task_id", result.NextTask.ID, "next_due_date", result.NextTask.DueDate.String())
	}
	slog.Info("task completed", attrs...)

	return result, nil
}

func (s *TaskService) storeNextOccurrence(
	ctx context.Context,
	tx pgx.Tx,
	source *domain.Task,
	next *domain.Task,
	userID string,
	result *CompleteResult,
) error {
	if _, err := s.taskRepo.Create(ctx, tx, next); err != nil {
		return fmt.Errorf("create next occurrence: %w", err)
	}
	result.NextTask = next

	if err := s.eventRepo.Create(ctx, tx, &domain.TaskEvent{
		TaskID:  source.ID,
		ActorID: &userID,
		Type:    domain.EventTypeOccurrenceGenerated,
		Comment: fmt.Sprintf("Next occurrence %s due %s", next.ID, next.DueDate),
	}); err != nil {
		return err
	}

	pending := domain.TaskStatusPending
	return s.eventRepo.Create(ctx, tx, &domain.TaskEvent{
		TaskID:    next.ID,
		ActorID:   &userID,
		Type:      domain.EventTypeCreated,
		NewStatus: &pending,
		Comment:   fmt.Sprintf("Generated from task %s (%s)", source.ID, source.Frequency),
	})
}

// AddComment appends a comment event to a task.
func (s *TaskService) AddComment(ctx context.Context, taskID, userID, comment string) (*domain.TaskEvent, error) {
	if comment == "" {
		return nil, domain.ErrEmptyComment
	}

	if _, err := s.taskRepo.GetByID(ctx, taskID); err != nil {
		return nil, err
	}

	event := &domain.TaskEvent{
		TaskID:  taskID,
		ActorID: &userID,
		Type:    domain.EventTypeCommented,
		Comment: comment,
	}
	err := database.InTx(ctx, s.pool, func(tx pgx.Tx) error {
		return s.eventRepo.Create(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}

	return event, nil
}

// GetTask loads a task as presented today, with its event history.
func (s *TaskService) GetTask(ctx context.Context, taskID string) (TaskView, []repository.TaskEventWithActor, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return TaskView{}, nil, err
	}

	events, err := s.eventRepo.GetByTaskIDWithActors(ctx, taskID)
	if err != nil {
		return TaskView{}, nil, fmt.Errorf("get events: %w", err)
	}

	return Present(task, s.Today()), events, nil
}

// ListTasks lists tasks and projects each onto today.
// filters.Today is overwritten with the service clock.
func (s *TaskService) ListTasks(ctx context.Context, filters repository.TaskListFilters) ([]TaskView, int, error) {
	today := s.Today()
	filters.Today = today

	tasks, total, err := s.taskRepo.List(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	views := make([]TaskView, len(tasks))
	for i, task := range tasks {
		views[i] = Present(task, today)
	}
	return views, total, nil
}

// Stats returns task statistics and assignee workload as of today.
func (s *TaskService) Stats(
	ctx context.Context,
	projectID *string,
	periodStart time.Time,
	dueSoonDays int,
) (*repository.TaskStatsResult, []repository.AssigneeStatsResult, error) {
	filters := repository.StatsFilters{
		ProjectID:   projectID,
		Today:       s.Today(),
		DueSoonDays: dueSoonDays,
		PeriodStart: periodStart,
		PeriodEnd:   s.Today().Time(),
	}

	stats, err := s.taskRepo.GetTaskStats(ctx, filters)
	if err != nil {
		return nil, nil, err
	}

	assignees, err := s.taskRepo.GetAssigneeStats(ctx, filters)
	if err != nil {
		return nil, nil, err
	}

	return stats, assignees, nil
}

// SweepDueTasks records overdue and reminder events for open tasks.
// Stored statuses are left untouched; overdue stays a derived state.
// Returns an error if any task failed, after processing the rest.
func (s *TaskService) SweepDueTasks(ctx context.Context) (SweepResult, error) {
	today := s.Today()

	tasks, err := s.taskRepo.FindReminderCandidates(ctx, today)
	if err != nil {
		return SweepResult{}, fmt.Errorf("find reminder candidates: %w", err)
	}

	result := SweepResult{Checked: len(tasks)}
	if len(tasks) == 0 {
		slog.Info("no tasks due for reminders", "today", today.String())
		return result, nil
	}

	var errs []error
	for _, task := range tasks {
		if err := ctx.Err(); err != nil {
			errs = append(errs, fmt.Errorf("sweep interrupted: %w", err))
			break
		}
		recorded, eventType, err := s.sweepTask(ctx, task, today)
		if err != nil {
			slog.Error("failed to sweep task",
				"task_id", task.ID,
				"error", err,
			)
			errs = append(errs, fmt.Errorf("task %s: %w", task.ID, err))
			continue
		}
		if !recorded {
			continue
		}
		switch eventType {
		case domain.EventTypeOverdueDetected:
			result.Overdue++
		case domain.EventTypeReminderDue:
			result.Reminders++
		}
	}

	slog.Info("swept due tasks",
		"today", today.String(),
		"checked", result.Checked,
		"overdue", result.Overdue,
		"reminders", result.Reminders,
		"failed", len(errs),
	)

	if len(errs) > 0 {
		return result, fmt.Errorf("swept %d tasks, %d failures: %v", len(tasks), len(errs), errs)
	}

	return result, nil
}

// sweepTask records at most one system event for a task.
func (s *TaskService) sweepTask(ctx context.Context, task *domain.Task, today domain.Date) (bool, domain.EventType, error) {
	var (
		eventType domain.EventType
		comment   string
	)
	switch {
	case EffectiveStatus(task, today) == domain.TaskStatusOverdue:
		eventType = domain.EventTypeOverdueDetected
		comment = fmt.Sprintf("Due %s, overdue by %d days.", task.DueDate, -DaysUntilDue(task, today))
	case IsReminderDue(task, today):
		eventType = domain.EventTypeReminderDue
		comment = fmt.Sprintf("Due %s, %d days left.", task.DueDate, DaysUntilDue(task, today))
	default:
		return false, "", nil
	}

	exists, err := s.eventRepo.HasEventSince(ctx, task.ID, eventType, task.UpdatedAt)
	if err != nil {
		return false, "", err
	}
	if exists {
		return false, eventType, nil
	}

	err = database.InTx(ctx, s.pool, func(tx pgx.Tx) error {
		return s.eventRepo.Create(ctx, tx, &domain.TaskEvent{
			TaskID:  task.ID,
			ActorID: nil, // system event
			Type:    eventType,
			Comment: comment,
		})
	})
	if err != nil {
		return false, "", err
	}

	slog.Info("due event recorded",
		"task_id", task.ID,
		"type", eventType,
		"due_date", task.DueDate.String(),
	)

	return true, eventType, nil
}
