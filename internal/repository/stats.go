package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/mtlprog/khomvg/internal/domain"
)

// StatsFilters holds filters for statistics queries.
type StatsFilters struct {
	ProjectID   *string // Optional: restrict to one project
	Today       domain.Date
	DueSoonDays int
	PeriodStart time.Time
	PeriodEnd   time.Time
}

// AssigneeStatsResult holds statistics for a single assignee.
type AssigneeStatsResult struct {
	UserID         string
	UserName       string
	TasksOpen      int
	TasksOverdue   int
	TasksCompleted int
}

// TaskStatsResult holds overall task statistics.
type TaskStatsResult struct {
	TotalTasks      int
	TasksByStatus   map[string]int
	TasksByType     map[string]int
	OverdueCount    int
	DueSoonCount    int
	CompletedCount  int
	RecurringActive int
}

func (f StatsFilters) scope(qb sq.SelectBuilder, column string) sq.SelectBuilder {
	if f.ProjectID != nil {
		qb = qb.Where(sq.Eq{column: *f.ProjectID})
	}
	return qb
}

// GetTaskStats retrieves task statistics, counting statuses as they are presented on Today.
func (r *TaskRepository) GetTaskStats(ctx context.Context, filters StatsFilters) (*TaskStatsResult, error) {
	today := filters.Today.Time()
	result := &TaskStatsResult{
		TasksByStatus: make(map[string]int),
		TasksByType:   make(map[string]int),
	}

	// Effective status breakdown
	statusQuery, statusArgs, err := filters.scope(
		psql.Select().
			Column(sq.Expr(effectiveStatusSQL+" AS effective_status", today)).
			Column("COUNT(*)").
			From("tasks").
			GroupBy("effective_status"),
		"project_id",
	).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build status stats query: %w", err)
	}

	if err := r.collectCounts(ctx, statusQuery, statusArgs, result.TasksByStatus); err != nil {
		return nil, fmt.Errorf("query tasks by status: %w", err)
	}
	for status, count := range result.TasksByStatus {
		result.TotalTasks += count
		if status == string(domain.TaskStatusOverdue) {
			result.OverdueCount = count
		}
	}

	// Open tasks by type
	typeQuery, typeArgs, err := filters.scope(
		psql.Select("task_type", "COUNT(*)").
			From("tasks").
			Where(sq.Eq{"status": openStatuses}).
			GroupBy("task_type"),
		"project_id",
	).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build type stats query: %w", err)
	}

	if err := r.collectCounts(ctx, typeQuery, typeArgs, result.TasksByType); err != nil {
		return nil, fmt.Errorf("query tasks by type: %w", err)
	}

	dueSoonQuery, dueSoonArgs, err := filters.scope(
		psql.Select().
			Column(sq.Expr(
				"COUNT(*) FILTER (WHERE status IN ('pending','in_progress','overdue') AND due_date >= ? AND due_date <= ?)",
				today, filters.Today.AddDays(filters.DueSoonDays).Time(),
			)).
			Column(sq.Expr(
				"COUNT(*) FILTER (WHERE status = 'completed' AND completed_at >= ? AND completed_at <= ?)",
				filters.PeriodStart, filters.PeriodEnd,
			)).
			Column("COUNT(*) FILTER (WHERE status IN ('pending','in_progress','overdue') AND is_recurring)").
			From("tasks"),
		"project_id",
	).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build due soon query: %w", err)
	}

	err = r.pool.QueryRow(ctx, dueSoonQuery, dueSoonArgs...).Scan(
		&result.DueSoonCount,
		&result.CompletedCount,
		&result.RecurringActive,
	)
	if err != nil {
		return nil, fmt.Errorf("count due soon tasks: %w", err)
	}

	return result, nil
}

// GetAssigneeStats retrieves per-assignee workload.
func (r *TaskRepository) GetAssigneeStats(ctx context.Context, filters StatsFilters) ([]AssigneeStatsResult, error) {
	qb := psql.
		Select("u.id", "u.name").
		Column("COUNT(t.id) FILTER (WHERE t.status IN ('pending','in_progress','overdue'))").
		Column(sq.Expr(
			"COUNT(t.id) FILTER (WHERE t.status IN ('pending','in_progress','overdue') AND t.due_date < ?)",
			filters.Today.Time(),
		)).
		Column(sq.Expr(
			"COUNT(t.id) FILTER (WHERE t.status = 'completed' AND t.completed_at >= ? AND t.completed_at <= ?)",
			filters.PeriodStart, filters.PeriodEnd,
		)).
		From("users u").
		Join("tasks t ON t.assigned_to = u.id").
		Where(sq.Eq{"u.is_active": true}).
		GroupBy("u.id", "u.name").
		OrderBy("u.name")
	qb = filters.scope(qb, "t.project_id")

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build assignee stats query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query assignee stats: %w", err)
	}
	defer rows.Close()

	var results []AssigneeStatsResult
	for rows.Next() {
		var result AssigneeStatsResult
		err := rows.Scan(
			&result.UserID,
			&result.UserName,
			&result.TasksOpen,
			&result.TasksOverdue,
			&result.TasksCompleted,
		)
		if err != nil {
			return nil, fmt.Errorf("scan assignee stats: %w", err)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assignee stats rows: %w", err)
	}

	return results, nil
}

func (r *TaskRepository) collectCounts(ctx context.Context, query string, args []interface{}, into map[string]int) error {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("scan count: %w", err)
		}
		into[key] = count
	}
	return rows.Err()
}
