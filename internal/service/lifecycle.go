package service

import (
	"fmt"
	"time"

	"github.com/mtlprog/khomvg/internal/domain"
)

// Completion is the result of completing a task occurrence.
// NextTask is nil unless the task recurs.
type Completion struct {
	Task     domain.Task
	NextTask *domain.Task
}

// EffectiveStatus derives the status a task should be presented with on today.
// Terminal statuses are never reinterpreted; open tasks past their due date are
// overdue. A stored overdue falls back to pending once the due date moves forward.
func EffectiveStatus(task *domain.Task, today domain.Date) domain.TaskStatus {
	if task.Status.IsTerminal() {
		return task.Status
	}
	if today.After(task.DueDate) {
		return domain.TaskStatusOverdue
	}
	if task.Status == domain.TaskStatusOverdue {
		return domain.TaskStatusPending
	}
	return task.Status
}

// NextOccurrence returns the due date following due for the given frequency.
// Month-based frequencies clamp to the last day of the target month.
func NextOccurrence(due domain.Date, frequency domain.Frequency) (domain.Date, error) {
	switch frequency {
	case domain.FrequencyDaily:
		return due.AddDays(1), nil
	case domain.FrequencyWeekly:
		return due.AddDays(7), nil
	case domain.FrequencyBiweekly:
		return due.AddDays(14), nil
	case domain.FrequencyMonthly:
		return due.AddMonths(1), nil
	case domain.FrequencyQuarterly:
		return due.AddMonths(3), nil
	case domain.FrequencySemiannual:
		return due.AddMonths(6), nil
	case domain.FrequencyYearly:
		return due.AddYears(1), nil
	case domain.FrequencyOneTime:
		return domain.Date{}, fmt.Errorf("%w: one_time tasks have no next occurrence", domain.ErrInvalidRecurrence)
	default:
		return domain.Date{}, fmt.Errorf("%w: unknown frequency %q", domain.ErrInvalidRecurrence, frequency)
	}
}

// CompleteTask marks an occurrence completed and, for recurring tasks, drafts
// the next occurrence. The input task is not modified; the caller persists both.
func CompleteTask(task *domain.Task, completedBy, notes string, today domain.Date) (*Completion, error) {
	if task.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: task %s is %s", domain.ErrAlreadyTerminal, task.ID, task.Status)
	}

	updated := *task
	updated.Status = domain.TaskStatusCompleted
	completedAt := today
	updated.CompletedAt = &completedAt
	updated.CompletedBy = &completedBy
	updated.CompletionNotes = notes

	result := &Completion{Task: updated}

	if !task.IsRecurring || task.Frequency == domain.FrequencyOneTime {
		return result, nil
	}

	nextDue, err := NextOccurrence(task.DueDate, task.Frequency)
	if err != nil {
		return nil, err
	}

	next := *task
	next.ID = ""
	next.StartDate = task.DueDate
	next.DueDate = nextDue
	next.Status = domain.TaskStatusPending
	next.CompletedAt = nil
	next.CompletedBy = nil
	next.CompletionNotes = ""
	next.NextDueDate = nil
	next.CreatedAt = time.Time{}
	next.UpdatedAt = time.Time{}
	previousID := task.ID
	next.PreviousTaskID = &previousID

	result.Task.NextDueDate = &nextDue
	result.NextTask = &next
	return result, nil
}

// DaysUntilDue returns the days left until the due date, negative once overdue.
func DaysUntilDue(task *domain.Task, today domain.Date) int {
	return today.DaysUntil(task.DueDate)
}

// ReminderDate is the first day a reminder for the task should be raised.
func ReminderDate(task *domain.Task) domain.Date {
	return task.DueDate.AddDays(-task.NotifyBeforeDays)
}

// IsReminderDue reports whether today falls inside the reminder window of an open task.
func IsReminderDue(task *domain.Task, today domain.Date) bool {
	switch EffectiveStatus(task, today) {
	case domain.TaskStatusPending, domain.TaskStatusInProgress:
	default:
		return false
	}
	return !today.Before(ReminderDate(task)) && !today.After(task.DueDate)
}

// TaskView is a task as presented on a given day.
type TaskView struct {
	Task            *domain.Task
	EffectiveStatus domain.TaskStatus
	DaysUntilDue    int
	ReminderDue     bool
}

// Present projects a stored task onto today.
func Present(task *domain.Task, today domain.Date) TaskView {
	return TaskView{
		Task:            task,
		EffectiveStatus: EffectiveStatus(task, today),
		DaysUntilDue:    DaysUntilDue(task, today),
		ReminderDue:     IsReminderDue(task, today),
	}
}
