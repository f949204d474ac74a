package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/khomvg/internal/domain"
	"github.com/mtlprog/khomvg/internal/service"
)

func user(id string, role domain.UserRole) *domain.User {
	return &domain.User{ID: id, Name: id, Role: role, IsActive: true}
}

func violatedFields(t *testing.T, err error) []string {
	t.Helper()

	var verr *domain.ScheduleValidationError
	require.True(t, errors.As(err, &verr), "expected ScheduleValidationError, got %v", err)

	fields := make([]string, len(verr.Violations))
	for i, v := range verr.Violations {
		fields[i] = v.Field
	}
	return fields
}

func TestValidateTask_Valid(t *testing.T) {
	assert.NoError(t, service.ValidateTask(weeklyTask()))
}

func TestValidateTask_CollectsAllViolations(t *testing.T) {
	task := weeklyTask()
	task.ProjectID = ""
	task.Title = "ab"
	task.TaskType = "painting"
	task.Priority = "urgent"
	task.StartDate = date(2024, time.March, 5)
	task.NotifyBeforeDays = -1

	err := service.ValidateTask(task)
	require.ErrorIs(t, err, domain.ErrScheduleValidation)
	assert.ElementsMatch(t,
		[]string{"project_id", "title", "task_type", "priority", "due_date", "notify_before_days"},
		violatedFields(t, err),
	)
}

func TestValidateSchedule(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Task)
		fields []string
	}{
		{
			name:   "due on start date is allowed",
			mutate: func(task *domain.Task) { task.DueDate = task.StartDate },
		},
		{
			name:   "missing dates",
			mutate: func(task *domain.Task) { task.StartDate = domain.Date{}; task.DueDate = domain.Date{} },
			fields: []string{"start_date", "due_date"},
		},
		{
			name:   "recurring one_time",
			mutate: func(task *domain.Task) { task.Frequency = domain.FrequencyOneTime },
			fields: []string{"frequency"},
		},
		{
			name: "non-recurring one_time",
			mutate: func(task *domain.Task) {
				task.Frequency = domain.FrequencyOneTime
				task.IsRecurring = false
			},
		},
		{
			name:   "unknown frequency",
			mutate: func(task *domain.Task) { task.Frequency = "hourly" },
			fields: []string{"frequency"},
		},
		{
			name: "due before start and negative notice",
			mutate: func(task *domain.Task) {
				task.DueDate = task.StartDate.AddDays(-1)
				task.NotifyBeforeDays = -3
			},
			fields: []string{"due_date", "notify_before_days"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := weeklyTask()
			tt.mutate(task)

			err := service.ValidateSchedule(task)
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, domain.ErrScheduleValidation)
			assert.ElementsMatch(t, tt.fields, violatedFields(t, err))
		})
	}
}

func TestCanEdit(t *testing.T) {
	task := weeklyTask()

	assert.NoError(t, service.CanEdit(task, user("user-1", domain.UserRoleStaff)), "creator")
	assert.NoError(t, service.CanEdit(task, user("user-2", domain.UserRoleStaff)), "assignee")
	assert.NoError(t, service.CanEdit(task, user("user-9", domain.UserRoleManager)), "manager")
	assert.ErrorIs(t, service.CanEdit(task, user("user-9", domain.UserRoleStaff)), domain.ErrPermissionDenied)

	task.Status = domain.TaskStatusCancelled
	assert.ErrorIs(t, service.CanEdit(task, user("user-9", domain.UserRoleAdmin)), domain.ErrAlreadyTerminal)
}

func TestCanComplete(t *testing.T) {
	task := weeklyTask()

	assert.NoError(t, service.CanComplete(task, user("user-2", domain.UserRoleStaff)))
	assert.NoError(t, service.CanComplete(task, user("user-9", domain.UserRoleManager)))
	assert.ErrorIs(t, service.CanComplete(task, user("user-9", domain.UserRoleStaff)), domain.ErrPermissionDenied)

	task.AssignedTo = nil
	assert.NoError(t, service.CanComplete(task, user("user-9", domain.UserRoleStaff)), "unassigned task")

	task.Status = domain.TaskStatusCompleted
	assert.ErrorIs(t, service.CanComplete(task, user("user-2", domain.UserRoleStaff)), domain.ErrAlreadyTerminal)
}

func TestCanTransitionStatus(t *testing.T) {
	assignee := user("user-2", domain.UserRoleStaff)
	other := user("user-9", domain.UserRoleStaff)
	manager := user("user-8", domain.UserRoleManager)

	tests := []struct {
		name    string
		status  domain.TaskStatus
		current domain.TaskStatus
		user    *domain.User
		wantErr error
	}{
		{"assignee starts", domain.TaskStatusInProgress, domain.TaskStatusPending, assignee, nil},
		{"manager starts for assignee", domain.TaskStatusInProgress, domain.TaskStatusPending, manager, nil},
		{"other cannot start", domain.TaskStatusInProgress, domain.TaskStatusPending, other, domain.ErrPermissionDenied},
		{"start twice", domain.TaskStatusInProgress, domain.TaskStatusInProgress, assignee, domain.ErrInvalidTransition},
		{"start stored overdue", domain.TaskStatusInProgress, domain.TaskStatusOverdue, assignee, nil},
		{"assignee releases", domain.TaskStatusPending, domain.TaskStatusInProgress, assignee, nil},
		{"release from pending", domain.TaskStatusPending, domain.TaskStatusPending, assignee, domain.ErrInvalidTransition},
		{"other cannot release", domain.TaskStatusPending, domain.TaskStatusInProgress, other, domain.ErrPermissionDenied},
		{"creator cancels", domain.TaskStatusCancelled, domain.TaskStatusPending, user("user-1", domain.UserRoleStaff), nil},
		{"assignee cannot cancel", domain.TaskStatusCancelled, domain.TaskStatusInProgress, assignee, domain.ErrPermissionDenied},
		{"manager cancels", domain.TaskStatusCancelled, domain.TaskStatusOverdue, manager, nil},
		{"completion is separate", domain.TaskStatusCompleted, domain.TaskStatusInProgress, assignee, domain.ErrInvalidTransition},
		{"overdue is derived", domain.TaskStatusOverdue, domain.TaskStatusPending, manager, domain.ErrInvalidTransition},
		{"unknown status", "archived", domain.TaskStatusPending, manager, domain.ErrInvalidStatus},
		{"terminal", domain.TaskStatusPending, domain.TaskStatusCompleted, manager, domain.ErrAlreadyTerminal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := weeklyTask()
			task.Status = tt.current

			err := service.CanTransitionStatus(task, tt.user, tt.status)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCanTransitionStatus_AnyoneStartsUnassigned(t *testing.T) {
	task := weeklyTask()
	task.AssignedTo = nil

	assert.NoError(t, service.CanTransitionStatus(task, user("user-9", domain.UserRoleStaff), domain.TaskStatusInProgress))
}
