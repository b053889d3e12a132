package transport

import "encoding/json"

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TaskCreateRequest struct {
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Status         string  `json:"status"`
	DueDate        string  `json:"due_date"`
	AssignedUserID *string `json:"assigned_user_id"`
}

// TaskUpdateRequest carries patch semantics. AssignedUserID is raw so the
// handler can tell an absent key (leave unchanged) from an explicit null
// (clear the assignment).
type TaskUpdateRequest struct {
	Title          *string         `json:"title"`
	Description    *string         `json:"description"`
	Status         *string         `json:"status"`
	DueDate        *string         `json:"due_date"`
	AssignedUserID json.RawMessage `json:"assigned_user_id"`
}

type TaskAssignRequest struct {
	AssignedUserID *string `json:"assigned_user_id"`
}
