package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/khomvg/internal/domain"
	"github.com/mtlprog/khomvg/internal/service"
)

func date(y int, m time.Month, d int) domain.Date {
	return domain.NewDate(y, m, d)
}

func weeklyTask() *domain.Task {
	assignee := "user-2"
	return &domain.Task{
		ID:               "task-1",
		ProjectID:        "project-1",
		Title:            "Fire extinguisher check",
		Description:      "Zone A and B",
		TaskType:         domain.TaskTypeFireSafety,
		Frequency:        domain.FrequencyWeekly,
		Priority:         domain.TaskPriorityHigh,
		StartDate:        date(2024, time.February, 23),
		DueDate:          date(2024, time.March, 1),
		IsRecurring:      true,
		NotifyBeforeDays: 2,
		Status:           domain.TaskStatusPending,
		AssignedTo:       &assignee,
		CreatedBy:        "user-1",
	}
}

func TestEffectiveStatus_TerminalNeverOverdue(t *testing.T) {
	for _, status := range []domain.TaskStatus{domain.TaskStatusCompleted, domain.TaskStatusCancelled} {
		task := weeklyTask()
		task.Status = status

		for _, today := range []domain.Date{
			date(2020, time.January, 1),
			date(2024, time.March, 1),
			date(2030, time.December, 31),
		} {
			assert.Equal(t, status, service.EffectiveStatus(task, today), "status %s on %s", status, today)
		}
	}
}

func TestEffectiveStatus_OpenPastDueIsOverdue(t *testing.T) {
	for _, status := range []domain.TaskStatus{domain.TaskStatusPending, domain.TaskStatusInProgress} {
		task := weeklyTask()
		task.Status = status

		assert.Equal(t, status, service.EffectiveStatus(task, date(2024, time.February, 28)))
		assert.Equal(t, status, service.EffectiveStatus(task, date(2024, time.March, 1)), "due today is not overdue")
		assert.Equal(t, domain.TaskStatusOverdue, service.EffectiveStatus(task, date(2024, time.March, 2)))
	}
}

func TestEffectiveStatus_StoredOverdueRecoversWhenDueMovesForward(t *testing.T) {
	task := weeklyTask()
	task.Status = domain.TaskStatusOverdue

	assert.Equal(t, domain.TaskStatusOverdue, service.EffectiveStatus(task, date(2024, time.March, 5)))

	task.DueDate = date(2024, time.March, 10)
	assert.Equal(t, domain.TaskStatusPending, service.EffectiveStatus(task, date(2024, time.March, 5)))
}

func TestEffectiveStatus_Idempotent(t *testing.T) {
	task := weeklyTask()
	snapshot := *task
	today := date(2024, time.March, 9)

	first := service.EffectiveStatus(task, today)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, service.EffectiveStatus(task, today))
	}
	assert.Equal(t, snapshot, *task)
}

func TestNextOccurrence(t *testing.T) {
	tests := []struct {
		frequency domain.Frequency
		due       domain.Date
		want      domain.Date
	}{
		{domain.FrequencyDaily, date(2024, time.February, 28), date(2024, time.February, 29)},
		{domain.FrequencyDaily, date(2024, time.December, 31), date(2025, time.January, 1)},
		{domain.FrequencyWeekly, date(2024, time.March, 1), date(2024, time.March, 8)},
		{domain.FrequencyBiweekly, date(2024, time.March, 25), date(2024, time.April, 8)},
		{domain.FrequencyMonthly, date(2024, time.January, 31), date(2024, time.February, 29)},
		{domain.FrequencyMonthly, date(2023, time.January, 31), date(2023, time.February, 28)},
		{domain.FrequencyMonthly, date(2024, time.December, 15), date(2025, time.January, 15)},
		{domain.FrequencyQuarterly, date(2024, time.November, 30), date(2025, time.February, 28)},
		{domain.FrequencySemiannual, date(2024, time.August, 31), date(2025, time.February, 28)},
		{domain.FrequencyYearly, date(2024, time.February, 29), date(2025, time.February, 28)},
		{domain.FrequencyYearly, date(2023, time.June, 30), date(2024, time.June, 30)},
	}

	for _, tt := range tests {
		t.Run(string(tt.frequency)+"/"+tt.due.String(), func(t *testing.T) {
			got, err := service.NextOccurrence(tt.due, tt.frequency)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.After(tt.due))
		})
	}
}

func TestNextOccurrence_OneTimeFails(t *testing.T) {
	_, err := service.NextOccurrence(date(2024, time.March, 1), domain.FrequencyOneTime)
	assert.ErrorIs(t, err, domain.ErrInvalidRecurrence)

	_, err = service.NextOccurrence(date(2024, time.March, 1), domain.Frequency("fortnightly"))
	assert.ErrorIs(t, err, domain.ErrInvalidRecurrence)
}

func TestCompleteTask_RecurringWeeklyDraftsNextOccurrence(t *testing.T) {
	task := weeklyTask()
	today := date(2024, time.February, 29)

	result, err := service.CompleteTask(task, "user-2", "All extinguishers in date", today)
	require.NoError(t, err)

	assert.Equal(t, domain.TaskStatusCompleted, result.Task.Status)
	require.NotNil(t, result.Task.CompletedAt)
	assert.Equal(t, today, *result.Task.CompletedAt)
	require.NotNil(t, result.Task.CompletedBy)
	assert.Equal(t, "user-2", *result.Task.CompletedBy)
	assert.Equal(t, "All extinguishers in date", result.Task.CompletionNotes)

	next := result.NextTask
	require.NotNil(t, next)
	assert.Empty(t, next.ID)
	assert.Equal(t, date(2024, time.March, 1), next.StartDate)
	assert.Equal(t, date(2024, time.March, 8), next.DueDate)
	assert.Equal(t, domain.TaskStatusPending, next.Status)
	assert.Equal(t, task.Title, next.Title)
	assert.Equal(t, task.TaskType, next.TaskType)
	assert.Equal(t, task.Priority, next.Priority)
	assert.Equal(t, task.AssignedTo, next.AssignedTo)
	assert.Nil(t, next.CompletedAt)
	assert.Nil(t, next.CompletedBy)
	require.NotNil(t, next.PreviousTaskID)
	assert.Equal(t, "task-1", *next.PreviousTaskID)

	require.NotNil(t, result.Task.NextDueDate)
	assert.Equal(t, next.DueDate, *result.Task.NextDueDate)
	assert.True(t, result.Task.NextDueDate.After(task.DueDate))
}

func TestCompleteTask_DoesNotMutateInput(t *testing.T) {
	task := weeklyTask()
	snapshot := *task

	_, err := service.CompleteTask(task, "user-2", "", date(2024, time.March, 1))
	require.NoError(t, err)
	assert.Equal(t, snapshot, *task)
}

func TestCompleteTask_NonRecurringHasNoDraft(t *testing.T) {
	tests := []struct {
		name      string
		recurring bool
		frequency domain.Frequency
	}{
		{"not recurring", false, domain.FrequencyMonthly},
		{"one time", false, domain.FrequencyOneTime},
		{"recurring flag with one time", true, domain.FrequencyOneTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := weeklyTask()
			task.IsRecurring = tt.recurring
			task.Frequency = tt.frequency

			result, err := service.CompleteTask(task, "user-2", "done", date(2024, time.March, 1))
			require.NoError(t, err)
			assert.Nil(t, result.NextTask)
			assert.Nil(t, result.Task.NextDueDate)
			assert.Equal(t, domain.TaskStatusCompleted, result.Task.Status)
		})
	}
}

func TestCompleteTask_TwiceFailsAlreadyTerminal(t *testing.T) {
	task := weeklyTask()

	first, err := service.CompleteTask(task, "user-2", "", date(2024, time.March, 1))
	require.NoError(t, err)

	_, err = service.CompleteTask(&first.Task, "user-2", "", date(2024, time.March, 1))
	assert.ErrorIs(t, err, domain.ErrAlreadyTerminal)
}

func TestCompleteTask_CancelledFails(t *testing.T) {
	task := weeklyTask()
	task.Status = domain.TaskStatusCancelled

	_, err := service.CompleteTask(task, "user-2", "", date(2024, time.March, 1))
	assert.ErrorIs(t, err, domain.ErrAlreadyTerminal)
}

func TestCompleteTask_OverdueOccurrenceKeepsCadence(t *testing.T) {
	task := weeklyTask()
	task.Frequency = domain.FrequencyMonthly
	task.DueDate = date(2024, time.January, 31)
	task.StartDate = date(2024, time.January, 1)

	// Completed late: the next occurrence still follows the old due date
	result, err := service.CompleteTask(task, "user-2", "", date(2024, time.February, 10))
	require.NoError(t, err)
	require.NotNil(t, result.NextTask)
	assert.Equal(t, date(2024, time.January, 31), result.NextTask.StartDate)
	assert.Equal(t, date(2024, time.February, 29), result.NextTask.DueDate)
}

func TestDaysUntilDueAndReminderWindow(t *testing.T) {
	task := weeklyTask() // due 2024-03-01, notify 2 days before

	assert.Equal(t, 3, service.DaysUntilDue(task, date(2024, time.February, 27)))
	assert.Equal(t, 0, service.DaysUntilDue(task, date(2024, time.March, 1)))
	assert.Equal(t, -4, service.DaysUntilDue(task, date(2024, time.March, 5)))

	assert.Equal(t, date(2024, time.February, 28), service.ReminderDate(task))
	assert.False(t, service.IsReminderDue(task, date(2024, time.February, 27)))
	assert.True(t, service.IsReminderDue(task, date(2024, time.February, 28)))
	assert.True(t, service.IsReminderDue(task, date(2024, time.March, 1)))
	assert.False(t, service.IsReminderDue(task, date(2024, time.March, 2)), "overdue tasks get no reminder")

	task.Status = domain.TaskStatusCompleted
	assert.False(t, service.IsReminderDue(task, date(2024, time.February, 29)))
}

func TestPresent(t *testing.T) {
	task := weeklyTask()

	view := service.Present(task, date(2024, time.March, 3))
	assert.Same(t, task, view.Task)
	assert.Equal(t, domain.TaskStatusOverdue, view.EffectiveStatus)
	assert.Equal(t, -2, view.DaysUntilDue)
	assert.False(t, view.ReminderDue)
}

func TestClock_TodayUsesLocation(t *testing.T) {
	loc := time.FixedZone("ICT", 7*60*60)
	instant := time.Date(2024, time.March, 1, 18, 30, 0, 0, time.UTC) // 01:30 next day in ICT

	assert.Equal(t, date(2024, time.March, 2), service.NewClockFunc(func() time.Time { return instant }, loc).Today())
	assert.Equal(t, date(2024, time.March, 1), service.NewClockFunc(func() time.Time { return instant }, nil).Today())
	assert.Equal(t, date(2024, time.March, 1), service.FixedClock(date(2024, time.March, 1)).Today())
}
