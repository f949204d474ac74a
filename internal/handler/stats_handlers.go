package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/mtlprog/khomvg/internal/domain"
	"github.com/mtlprog/khomvg/internal/handler/dto"
	"github.com/mtlprog/khomvg/internal/middleware"
)

// handleGetStats returns task and assignee statistics.
// @Summary Get statistics
// @Description Counts by effective status and type, due-soon and overdue totals, and per-assignee workload
// @Tags stats
// @Produce json
// @Param project_id query string false "Filter by project UUID"
// @Param period query string false "Completion window: day, week (default), month, all"
// @Param due_soon_days query int false "Due-soon horizon in days (default 7)"
// @Success 200 {object} dto.StatsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /stats [get]
func (h *Handler) handleGetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := middleware.GetUserFromContext(ctx); err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	query := r.URL.Query()
	period := query.Get("period")
	if period == "" {
		period = "week"
	}

	today := h.taskService.Today()
	var periodStart *domain.Date
	switch period {
	case "day":
		d := today
		periodStart = &d
	case "week":
		d := today.AddDays(-6)
		periodStart = &d
	case "month":
		d := today.AddMonths(-1).AddDays(1)
		periodStart = &d
	case "all":
		periodStart = nil
	default:
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid period, must be: day, week, month, all")
		return
	}

	var projectID *string
	if id := query.Get("project_id"); id != "" {
		if _, err := uuid.Parse(id); err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "project_id must be a valid UUID")
			return
		}
		projectID = &id
	}

	dueSoonDays := h.dueSoonDays
	if raw := query.Get("due_soon_days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > 366 {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "due_soon_days must be between 0 and 366")
			return
		}
		dueSoonDays = n
	}

	start := time.Time{}
	if periodStart != nil {
		start = periodStart.Time()
	}

	stats, assignees, err := h.taskService.Stats(ctx, projectID, start, dueSoonDays)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.StatsResponse{
		Period:      period,
		PeriodStart: periodStart,
		Today:       today,
		ProjectID:   projectID,
		Tasks: dto.TaskStats{
			TotalTasks:      stats.TotalTasks,
			TasksByStatus:   stats.TasksByStatus,
			OpenTasksByType: stats.TasksByType,
			OverdueCount:    stats.OverdueCount,
			DueSoonCount:    stats.DueSoonCount,
			DueSoonDays:     dueSoonDays,
			CompletedCount:  stats.CompletedCount,
			RecurringActive: stats.RecurringActive,
		},
		Assignees: dto.ToAssigneeStats(assignees),
	})
}
