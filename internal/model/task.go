package model

import "time"

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in-progress"
	TaskCompleted  TaskStatus = "completed"

	// TaskOverdue is derived, never stored: a task whose deadline has passed
	// without being completed reports as overdue.
	TaskOverdue TaskStatus = "overdue"
)

// TaskStatuses lists the stored statuses plus the derived overdue bucket,
// in canonical display order.
var TaskStatuses = []TaskStatus{
	TaskTodo,
	TaskInProgress,
	TaskCompleted,
	TaskOverdue,
}

// Valid reports whether s is a status that may be stored on a task.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskCompleted:
		return true
	}
	return false
}

// Task is a unit of work with a deadline, assignable to a user.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	Deadline    time.Time  `json:"deadline"`
	AssigneeID  string     `json:"assigneeId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// EffectiveStatus returns the stored status, or TaskOverdue when the deadline
// has passed and the task is not completed.
func (t Task) EffectiveStatus(now time.Time) TaskStatus {
	if t.Status != TaskCompleted && t.Deadline.Before(now) {
		return TaskOverdue
	}
	return t.Status
}
