package domain

import "time"

// TaskStatus represents the stored status of a task occurrence.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusOverdue    TaskStatus = "overdue"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// IsTerminal returns true if the status is terminal (no transitions allowed).
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusCancelled
}

// IsOpen returns true for statuses that still count toward the due date.
func (s TaskStatus) IsOpen() bool {
	return s == TaskStatusPending || s == TaskStatusInProgress || s == TaskStatusOverdue
}

// IsValid checks if the status is one of the allowed values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted,
		TaskStatusOverdue, TaskStatusCancelled:
		return true
	default:
		return false
	}
}

// TaskType classifies the kind of warehouse work.
type TaskType string

const (
	TaskTypeFireSafety     TaskType = "fire_safety"
	TaskTypeSecurity       TaskType = "security"
	TaskTypeMaintenance    TaskType = "maintenance"
	TaskTypeInspection     TaskType = "inspection"
	TaskTypeCleaning       TaskType = "cleaning"
	TaskTypeEquipmentCheck TaskType = "equipment_check"
	TaskTypeOther          TaskType = "other"
)

// IsValid checks if the task type is one of the allowed values.
func (t TaskType) IsValid() bool {
	switch t {
	case TaskTypeFireSafety, TaskTypeSecurity, TaskTypeMaintenance, TaskTypeInspection,
		TaskTypeCleaning, TaskTypeEquipmentCheck, TaskTypeOther:
		return true
	default:
		return false
	}
}

// Frequency is the recurrence cadence of a task.
type Frequency string

const (
	FrequencyDaily      Frequency = "daily"
	FrequencyWeekly     Frequency = "weekly"
	FrequencyBiweekly   Frequency = "biweekly"
	FrequencyMonthly    Frequency = "monthly"
	FrequencyQuarterly  Frequency = "quarterly"
	FrequencySemiannual Frequency = "semiannual"
	FrequencyYearly     Frequency = "yearly"
	FrequencyOneTime    Frequency = "one_time"
)

// IsValid checks if the frequency is one of the allowed values.
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly,
		FrequencyQuarterly, FrequencySemiannual, FrequencyYearly, FrequencyOneTime:
		return true
	default:
		return false
	}
}

// TaskPriority represents the priority level of a task.
type TaskPriority string

const (
	TaskPriorityLow      TaskPriority = "low"
	TaskPriorityMedium   TaskPriority = "medium"
	TaskPriorityHigh     TaskPriority = "high"
	TaskPriorityCritical TaskPriority = "critical"
)

// IsValid checks if the priority is one of the allowed values.
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityCritical:
		return true
	default:
		return false
	}
}

// Task is one scheduled occurrence of warehouse work within a project.
// A recurring schedule is a chain of Task rows linked by PreviousTaskID.
type Task struct {
	ID               string
	ProjectID        string
	Title            string
	Description      string
	TaskType         TaskType
	Frequency        Frequency
	Priority         TaskPriority
	StartDate        Date
	DueDate          Date
	IsRecurring      bool
	NotifyBeforeDays int
	Status           TaskStatus
	CompletedAt      *Date
	CompletedBy      *string
	CompletionNotes  string
	NextDueDate      *Date
	AssignedTo       *string
	CreatedBy        string
	PreviousTaskID   *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsAssignedTo checks if the task is assigned to the given user.
func (t *Task) IsAssignedTo(userID string) bool {
	return t.AssignedTo != nil && *t.AssignedTo == userID
}
