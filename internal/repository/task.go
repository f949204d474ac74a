package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/khomvg/internal/domain"
)

// taskColumns is the shared list of columns for task queries.
var taskColumns = []string{
	"id", "project_id", "title", "description", "task_type", "frequency", "priority",
	"start_date", "due_date", "is_recurring", "notify_before_days", "status",
	"completed_at", "completed_by", "completion_notes", "next_due_date",
	"assigned_to", "created_by", "previous_task_id", "created_at", "updated_at",
}

// TaskRepository handles database operations for tasks.
type TaskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

// scanTask scans a single row into a Task struct.
func scanTask(row pgx.Row) (*domain.Task, error) {
	var (
		task                     domain.Task
		startDate, dueDate       time.Time
		completedAt, nextDueDate *time.Time
	)
	err := row.Scan(
		&task.ID,
		&task.ProjectID,
		&task.Title,
		&task.Description,
		&task.TaskType,
		&task.Frequency,
		&task.Priority,
		&startDate,
		&dueDate,
		&task.IsRecurring,
		&task.NotifyBeforeDays,
		&task.Status,
		&completedAt,
		&task.CompletedBy,
		&task.CompletionNotes,
		&nextDueDate,
		&task.AssignedTo,
		&task.CreatedBy,
		&task.PreviousTaskID,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}

	task.StartDate = domain.DateOf(startDate)
	task.DueDate = domain.DateOf(dueDate)
	task.CompletedAt = datePtr(completedAt)
	task.NextDueDate = datePtr(nextDueDate)
	return &task, nil
}

// scanTasks scans multiple rows into a slice of Task structs.
func scanTasks(rows pgx.Rows) ([]*domain.Task, error) {
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return tasks, nil
}

// GetByID retrieves a task by ID.
func (r *TaskRepository) GetByID(ctx context.Context, taskID string) (*domain.Task, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"id": taskID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for task: %w", err)
	}

	return scanTask(r.pool.QueryRow(ctx, query, args...))
}

// GetByIDForUpdate retrieves a task by ID with FOR UPDATE lock (within transaction).
func (r *TaskRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, taskID string) (*domain.Task, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"id": taskID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByIDForUpdate query for task %s: %w", taskID, err)
	}

	return scanTask(tx.QueryRow(ctx, query, args...))
}

// UpdateStatus updates the task status with optimistic locking.
// Returns ErrConcurrentUpdate if the task was modified (oldStatus doesn't match).
func (r *TaskRepository) UpdateStatus(
	ctx context.Context,
	tx pgx.Tx,
	taskID string,
	oldStatus domain.TaskStatus,
	newStatus domain.TaskStatus,
	assignedTo *string,
) error {
	query, args, err := psql.
		Update("tasks").
		Set("status", newStatus).
		Set("assigned_to", assignedTo).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{
			"id":     taskID,
			"status": oldStatus,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build UpdateStatus query for task %s: %w", taskID, err)
	}

	return execGuarded(ctx, tx, query, args)
}

// MarkCompleted persists the completion fields of an occurrence.
// The update only applies while the stored status still equals oldStatus.
func (r *TaskRepository) MarkCompleted(
	ctx context.Context,
	tx pgx.Tx,
	task *domain.Task,
	oldStatus domain.TaskStatus,
) error {
	query, args, err := psql.
		Update("tasks").
		Set("status", task.Status).
		Set("completed_at", dateArg(task.CompletedAt)).
		Set("completed_by", task.CompletedBy).
		Set("completion_notes", task.CompletionNotes).
		Set("next_due_date", dateArg(task.NextDueDate)).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{
			"id":     task.ID,
			"status": oldStatus,
		}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build MarkCompleted query for task %s: %w", task.ID, err)
	}

	return queryGuarded(ctx, tx, query, args, &task.UpdatedAt)
}

// UpdateDetails persists editable task fields. Status and completion fields are untouched.
func (r *TaskRepository) UpdateDetails(
	ctx context.Context,
	tx pgx.Tx,
	task *domain.Task,
	oldStatus domain.TaskStatus,
) error {
	query, args, err := psql.
		Update("tasks").
		Set("title", task.Title).
		Set("description", task.Description).
		Set("task_type", task.TaskType).
		Set("frequency", task.Frequency).
		Set("priority", task.Priority).
		Set("start_date", task.StartDate.Time()).
		Set("due_date", task.DueDate.Time()).
		Set("is_recurring", task.IsRecurring).
		Set("notify_before_days", task.NotifyBeforeDays).
		Set("assigned_to", task.AssignedTo).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{
			"id":     task.ID,
			"status": oldStatus,
		}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build UpdateDetails query for task %s: %w", task.ID, err)
	}

	return queryGuarded(ctx, tx, query, args, &task.UpdatedAt)
}

// FindReminderCandidates returns open tasks whose reminder window has opened by today.
func (r *TaskRepository) FindReminderCandidates(ctx context.Context, today domain.Date) ([]*domain.Task, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"status": []domain.TaskStatus{
			domain.TaskStatusPending,
			domain.TaskStatusInProgress,
			domain.TaskStatusOverdue,
		}}).
		Where(sq.Expr("due_date - notify_before_days <= ?", today.Time())).
		OrderBy("due_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build FindReminderCandidates query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reminder candidates: %w", err)
	}

	return scanTasks(rows)
}

// Create creates a new task in the database within a transaction.
// Returns the created task with ID, CreatedAt, and UpdatedAt populated.
func (r *TaskRepository) Create(ctx context.Context, tx pgx.Tx, task *domain.Task) (*domain.Task, error) {
	// Set defaults
	if task.Priority == "" {
		task.Priority = domain.TaskPriorityMedium
	}
	if task.Status == "" {
		task.Status = domain.TaskStatusPending
	}

	query, args, err := psql.
		Insert("tasks").
		Columns(
			"project_id", "title", "description", "task_type", "frequency", "priority",
			"start_date", "due_date", "is_recurring", "notify_before_days", "status",
			"assigned_to", "created_by", "previous_task_id",
		).
		Values(
			task.ProjectID,
			task.Title,
			task.Description,
			task.TaskType,
			task.Frequency,
			task.Priority,
			task.StartDate.Time(),
			task.DueDate.Time(),
			task.IsRecurring,
			task.NotifyBeforeDays,
			task.Status,
			task.AssignedTo,
			task.CreatedBy,
			task.PreviousTaskID,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for task: %w", err)
	}

	err = tx.QueryRow(ctx, query, args...).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	return task, nil
}

func execGuarded(ctx context.Context, tx pgx.Tx, query string, args []interface{}) error {
	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConcurrentUpdate
	}
	return nil
}

// queryGuarded is execGuarded for statements that return the new updated_at.
func queryGuarded(ctx context.Context, tx pgx.Tx, query string, args []interface{}, updatedAt *time.Time) error {
	err := tx.QueryRow(ctx, query, args...).Scan(updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrConcurrentUpdate
	}
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}
