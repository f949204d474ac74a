package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/khomvg/internal/domain"
)

// TaskEventWithActor is an event joined with the name of the user who caused it.
type TaskEventWithActor struct {
	domain.TaskEvent
	ActorName *string
}

// TaskEventRepository handles database operations for task events.
type TaskEventRepository struct {
	pool *pgxpool.Pool
}

// NewTaskEventRepository creates a new TaskEventRepository.
func NewTaskEventRepository(pool *pgxpool.Pool) *TaskEventRepository {
	return &TaskEventRepository{pool: pool}
}

// Create creates a new task event.
func (r *TaskEventRepository) Create(
	ctx context.Context,
	tx pgx.Tx,
	event *domain.TaskEvent,
) error {
	query, args, err := psql.
		Insert("task_events").
		Columns("task_id", "actor_id", "type", "old_status", "new_status", "comment").
		Values(event.TaskID, event.ActorID, event.Type, event.OldStatus, event.NewStatus, event.Comment).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	err = tx.QueryRow(ctx, query, args...).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		return fmt.Errorf("create task event: %w", err)
	}

	return nil
}

// GetByTaskID retrieves all events for a task.
func (r *TaskEventRepository) GetByTaskID(ctx context.Context, taskID string) ([]*domain.TaskEvent, error) {
	events, err := r.GetByTaskIDWithActors(ctx, taskID)
	if err != nil {
		return nil, err
	}

	result := make([]*domain.TaskEvent, len(events))
	for i := range events {
		result[i] = &events[i].TaskEvent
	}
	return result, nil
}

// GetByTaskIDWithActors retrieves all events for a task, oldest first, with actor names.
func (r *TaskEventRepository) GetByTaskIDWithActors(ctx context.Context, taskID string) ([]TaskEventWithActor, error) {
	query, args, err := psql.
		Select(
			"e.id", "e.task_id", "e.actor_id", "e.type", "e.old_status", "e.new_status",
			"e.comment", "e.created_at", "u.name",
		).
		From("task_events e").
		LeftJoin("users u ON u.id = e.actor_id").
		Where(sq.Eq{"e.task_id": taskID}).
		OrderBy("e.created_at ASC", "e.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query task events: %w", err)
	}
	defer rows.Close()

	var events []TaskEventWithActor
	for rows.Next() {
		var event TaskEventWithActor
		err := rows.Scan(
			&event.ID,
			&event.TaskID,
			&event.ActorID,
			&event.Type,
			&event.OldStatus,
			&event.NewStatus,
			&event.Comment,
			&event.CreatedAt,
			&event.ActorName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan task event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return events, nil
}

// HasEventSince reports whether an event of the given type exists for the task
// at or after since.
func (r *TaskEventRepository) HasEventSince(
	ctx context.Context,
	taskID string,
	eventType domain.EventType,
	since time.Time,
) (bool, error) {
	query, args, err := psql.
		Select("1").
		From("task_events").
		Where(sq.Eq{"task_id": taskID, "type": eventType}).
		Where(sq.GtOrEq{"created_at": since}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check task event: %w", err)
	}
	return exists, nil
}
