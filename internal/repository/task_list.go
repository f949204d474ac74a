package repository

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/mtlprog/khomvg/internal/domain"
)

// effectiveStatusSQL mirrors service.EffectiveStatus in SQL. The placeholder is today.
const effectiveStatusSQL = `CASE
	WHEN status IN ('completed', 'cancelled') THEN status
	WHEN due_date < ? THEN 'overdue'
	WHEN status = 'overdue' THEN 'pending'
	ELSE status
END`

const priorityRankSQL = "CASE priority WHEN 'critical' THEN 1 WHEN 'high' THEN 2 WHEN 'medium' THEN 3 WHEN 'low' THEN 4 END"

var openStatuses = []domain.TaskStatus{
	domain.TaskStatusPending,
	domain.TaskStatusInProgress,
	domain.TaskStatusOverdue,
}

// sortColumns whitelists the fields a caller may sort by.
var sortColumns = map[string]string{
	"due_date":   "due_date",
	"start_date": "start_date",
	"created_at": "created_at",
	"updated_at": "updated_at",
	"title":      "title",
	"priority":   priorityRankSQL,
}

// TaskListFilters holds all supported filters for task listing.
type TaskListFilters struct {
	ProjectID  *string     // Optional: filter by project
	Statuses   []string    // Optional: filter by effective status
	TaskTypes  []string    // Optional: filter by task type
	Priorities []string    // Optional: filter by priority
	AssignedTo *string     // Optional: filter by assignee
	Unassigned bool        // Optional: show only unassigned
	DueFrom    domain.Date // Optional: due on or after
	DueTo      domain.Date // Optional: due on or before
	Today      domain.Date // Required: reference date for derived statuses
	Sort       []string    // Optional: sort fields (with - prefix for DESC)
	Limit      int         // Required: page size
	Offset     int         // Required: page offset
}

// apply adds every WHERE clause of the filters to a query.
func (f TaskListFilters) apply(qb sq.SelectBuilder) sq.SelectBuilder {
	if f.ProjectID != nil {
		qb = qb.Where(sq.Eq{"project_id": *f.ProjectID})
	}

	if len(f.Statuses) > 0 {
		qb = qb.Where(sq.Expr("("+effectiveStatusSQL+") = ANY(?)", f.Today.Time(), f.Statuses))
	}

	if len(f.TaskTypes) > 0 {
		qb = qb.Where(sq.Eq{"task_type": f.TaskTypes})
	}

	if len(f.Priorities) > 0 {
		qb = qb.Where(sq.Eq{"priority": f.Priorities})
	}

	if f.Unassigned {
		qb = qb.Where(sq.Eq{"assigned_to": nil})
	} else if f.AssignedTo != nil {
		qb = qb.Where(sq.Eq{"assigned_to": *f.AssignedTo})
	}

	if !f.DueFrom.IsZero() {
		qb = qb.Where(sq.GtOrEq{"due_date": f.DueFrom.Time()})
	}
	if !f.DueTo.IsZero() {
		qb = qb.Where(sq.LtOrEq{"due_date": f.DueTo.Time()})
	}

	return qb
}

// orderBy translates the sort fields into ORDER BY clauses, ignoring unknown fields.
// Default: most urgent first (due_date, then priority).
func (f TaskListFilters) orderBy(qb sq.SelectBuilder) sq.SelectBuilder {
	applied := false
	for _, field := range f.Sort {
		direction := "ASC"
		if strings.HasPrefix(field, "-") {
			direction = "DESC"
			field = field[1:]
		}

		column, ok := sortColumns[field]
		if !ok {
			continue
		}
		qb = qb.OrderBy(column + " " + direction)
		applied = true
	}

	if !applied {
		qb = qb.OrderBy("due_date ASC", priorityRankSQL+" ASC")
	}
	return qb.OrderBy("id ASC")
}

// List retrieves tasks with filters and pagination, plus the unpaginated total.
func (r *TaskRepository) List(ctx context.Context, filters TaskListFilters) ([]*domain.Task, int, error) {
	qb := filters.orderBy(filters.apply(psql.Select(taskColumns...).From("tasks")))
	qb = qb.Limit(uint64(filters.Limit)).Offset(uint64(filters.Offset))

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build List query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query tasks: %w", err)
	}

	tasks, err := scanTasks(rows)
	if err != nil {
		return nil, 0, err
	}

	countQuery, countArgs, err := filters.apply(psql.Select("COUNT(*)").From("tasks")).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	return tasks, total, nil
}
