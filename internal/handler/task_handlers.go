package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/mtlprog/khomvg/internal/domain"
	"github.com/mtlprog/khomvg/internal/handler/dto"
	"github.com/mtlprog/khomvg/internal/middleware"
	"github.com/mtlprog/khomvg/internal/repository"
	"github.com/mtlprog/khomvg/internal/service"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// handleCreateTask creates a new task.
// @Summary Create a new task
// @Description Creates a pending task. Every field and schedule violation is reported at once.
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body dto.CreateTaskRequest true "Task creation request"
// @Success 201 {object} dto.TaskResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks [post]
func (h *Handler) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	var req dto.CreateTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.ProjectID != "" {
		if _, err := uuid.Parse(req.ProjectID); err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "project_id must be a valid UUID")
			return
		}
	}
	if !validOptionalUUID(w, "assigned_to", req.AssignedTo) {
		return
	}

	task, err := h.taskService.CreateTask(ctx, service.CreateTaskParams{
		ProjectID:        req.ProjectID,
		CreatedBy:        user.ID,
		Title:            strings.TrimSpace(req.Title),
		Description:      req.Description,
		TaskType:         domain.TaskType(req.TaskType),
		Frequency:        domain.Frequency(req.Frequency),
		Priority:         domain.TaskPriority(req.Priority),
		StartDate:        req.StartDate,
		DueDate:          req.DueDate,
		IsRecurring:      req.IsRecurring,
		NotifyBeforeDays: req.NotifyBeforeDays,
		AssignedTo:       req.AssignedTo,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToTaskResponse(service.Present(task, h.taskService.Today())))
}

// handleGetTask retrieves task details with events.
// @Summary Get task details
// @Description Get full task details, presented on today's date, with event history
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} dto.TaskDetailResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id} [get]
func (h *Handler) handleGetTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := middleware.GetUserFromContext(ctx); err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	taskID, ok := extractTaskID(w, r)
	if !ok {
		return
	}

	view, events, err := h.taskService.GetTask(ctx, taskID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.TaskDetailResponse{
		Task:   dto.ToTaskResponse(view),
		Events: dto.ToTaskEventInfos(events),
	})
}

// handleUpdateTask edits an open task.
// @Summary Update a task
// @Description Replace the editable fields of a pending or in-progress task
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body dto.UpdateTaskRequest true "Task fields"
// @Success 200 {object} dto.TaskResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id} [put]
func (h *Handler) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	taskID, ok := extractTaskID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validOptionalUUID(w, "assigned_to", req.AssignedTo) {
		return
	}

	task, err := h.taskService.UpdateTask(ctx, taskID, user.ID, service.UpdateTaskParams{
		Title:            strings.TrimSpace(req.Title),
		Description:      req.Description,
		TaskType:         domain.TaskType(req.TaskType),
		Frequency:        domain.Frequency(req.Frequency),
		Priority:         domain.TaskPriority(req.Priority),
		StartDate:        req.StartDate,
		DueDate:          req.DueDate,
		IsRecurring:      req.IsRecurring,
		NotifyBeforeDays: req.NotifyBeforeDays,
		AssignedTo:       req.AssignedTo,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(service.Present(task, h.taskService.Today())))
}

// handleTransitionStatus changes task status.
// @Summary Transition task status
// @Description Start (in_progress), release (pending) or cancel a task. Completion has its own endpoint.
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body dto.TransitionStatusRequest true "Status transition request"
// @Success 200 {object} dto.TaskEventResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id}/status [patch]
func (h *Handler) handleTransitionStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	taskID, ok := extractTaskID(w, r)
	if !ok {
		return
	}

	var req dto.TransitionStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Status == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "status is required")
		return
	}
	if strings.TrimSpace(req.Comment) == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "comment is required")
		return
	}

	newStatus := domain.TaskStatus(req.Status)
	if !newStatus.IsValid() {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid status")
		return
	}

	event, err := h.taskService.TransitionStatus(ctx, taskID, user.ID, newStatus, req.Comment)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskEventResponse(event))
}

// handleCompleteTask completes a task occurrence.
// @Summary Complete a task
// @Description Mark an occurrence completed today. Recurring tasks return the generated next occurrence.
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body dto.CompleteTaskRequest false "Completion notes"
// @Success 200 {object} dto.CompleteTaskResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id}/complete [patch]
func (h *Handler) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	taskID, ok := extractTaskID(w, r)
	if !ok {
		return
	}

	// The body is optional
	var req dto.CompleteTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body: "+err.Error())
		return
	}

	result, err := h.taskService.CompleteTask(ctx, taskID, user.ID, strings.TrimSpace(req.CompletionNotes))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	today := h.taskService.Today()
	resp := dto.CompleteTaskResponse{
		Task:  dto.ToTaskResponse(service.Present(result.Task, today)),
		Event: dto.ToTaskEventResponse(result.Event),
	}
	if result.NextTask != nil {
		next := dto.ToTaskResponse(service.Present(result.NextTask, today))
		resp.NextTask = &next
	}

	respondJSON(w, http.StatusOK, resp)
}

// handleCommentTask adds a comment to a task.
// @Summary Add comment to task
// @Description Add a comment without changing task status
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body dto.CommentTaskRequest true "Comment request"
// @Success 201 {object} dto.TaskEventResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id}/comments [post]
func (h *Handler) handleCommentTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	taskID, ok := extractTaskID(w, r)
	if !ok {
		return
	}

	var req dto.CommentTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Comment) == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "comment is required")
		return
	}

	event, err := h.taskService.AddComment(ctx, taskID, user.ID, req.Comment)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToTaskEventResponse(event))
}

// handleListTasks returns a list of tasks with filters.
// @Summary List tasks
// @Description Get a list of tasks with optional filters. Status filters match the effective status.
// @Tags tasks
// @Produce json
// @Param project_id query string false "Filter by project UUID"
// @Param status query string false "Comma-separated statuses: pending,overdue"
// @Param task_type query string false "Comma-separated task types: fire_safety,security"
// @Param priority query string false "Comma-separated priorities: high,critical"
// @Param assigned_to query string false "Filter by assignee: 'me' or user UUID"
// @Param unassigned query bool false "Show only unassigned tasks"
// @Param due_from query string false "Due on or after (YYYY-MM-DD)"
// @Param due_to query string false "Due on or before (YYYY-MM-DD)"
// @Param sort query string false "Sort fields: due_date,-priority"
// @Param limit query int false "Page size (1-200, default 50)"
// @Param offset query int false "Page offset (default 0)"
// @Success 200 {object} dto.TasksListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks [get]
func (h *Handler) handleListTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	query := r.URL.Query()
	filters := repository.TaskListFilters{
		Statuses:   splitAndTrim(query.Get("status"), ","),
		TaskTypes:  splitAndTrim(query.Get("task_type"), ","),
		Priorities: splitAndTrim(query.Get("priority"), ","),
		Unassigned: query.Get("unassigned") == "true",
		Sort:       splitAndTrim(query.Get("sort"), ","),
		Limit:      defaultListLimit,
	}

	for _, status := range filters.Statuses {
		if !domain.TaskStatus(status).IsValid() {
			respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "unknown status "+strconv.Quote(status))
			return
		}
	}

	if projectID := query.Get("project_id"); projectID != "" {
		if _, err := uuid.Parse(projectID); err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "project_id must be a valid UUID")
			return
		}
		filters.ProjectID = &projectID
	}

	if assignee := query.Get("assigned_to"); assignee != "" {
		if assignee == "me" {
			assignee = user.ID
		} else if _, err := uuid.Parse(assignee); err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "assigned_to must be 'me' or a valid UUID")
			return
		}
		filters.AssignedTo = &assignee
	}

	var ok bool
	if filters.DueFrom, ok = parseDateParam(w, query, "due_from"); !ok {
		return
	}
	if filters.DueTo, ok = parseDateParam(w, query, "due_to"); !ok {
		return
	}

	if limitParam := query.Get("limit"); limitParam != "" {
		if n, err := strconv.Atoi(limitParam); err == nil && n > 0 && n <= maxListLimit {
			filters.Limit = n
		}
	}

	if offsetParam := query.Get("offset"); offsetParam != "" {
		if n, err := strconv.Atoi(offsetParam); err == nil && n >= 0 {
			filters.Offset = n
		}
	}

	views, total, err := h.taskService.ListTasks(ctx, filters)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	tasks := make([]dto.TaskResponse, len(views))
	for i, view := range views {
		tasks[i] = dto.ToTaskResponse(view)
	}

	respondJSON(w, http.StatusOK, dto.TasksListResponse{
		Tasks:  tasks,
		Total:  total,
		Limit:  filters.Limit,
		Offset: filters.Offset,
		Today:  h.taskService.Today(),
	})
}

// parseDateParam reads an optional YYYY-MM-DD query parameter.
func parseDateParam(w http.ResponseWriter, query url.Values, name string) (domain.Date, bool) {
	raw := query.Get(name)
	if raw == "" {
		return domain.Date{}, true
	}

	d, err := domain.ParseDate(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", name+" must be a date in YYYY-MM-DD format")
		return domain.Date{}, false
	}
	return d, true
}

// validOptionalUUID rejects a present but malformed UUID field.
func validOptionalUUID(w http.ResponseWriter, field string, value *string) bool {
	if value == nil {
		return true
	}
	if _, err := uuid.Parse(*value); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", field+" must be a valid UUID")
		return false
	}
	return true
}

// splitAndTrim splits a string by delimiter and trims whitespace.
func splitAndTrim(s, sep string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
