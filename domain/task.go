package domain

import "time"

// TaskStatus enumerates the task lifecycle states.
type TaskStatus string

const (
	StatusPending    TaskStatus = "Pending"
	StatusInProgress TaskStatus = "In Progress"
	StatusCompleted  TaskStatus = "Completed"
)

// ValidStatus reports whether s is one of the enumerated lifecycle states.
func ValidStatus(s TaskStatus) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Task represents a unit of work created by one user and optionally
// delegated to another. CreatorID is set once at creation and never
// changes; AssigneeID is nullable and may be cleared.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	DueDate     time.Time  `json:"due_date"`
	CreatorID   string     `json:"creator_id"`
	AssigneeID  *string    `json:"assigned_user_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == StatusCompleted
}

// AssignedTo reports whether the task is currently assigned to userID.
func (t *Task) AssignedTo(userID string) bool {
	return t != nil && t.AssigneeID != nil && *t.AssigneeID == userID
}
