package repository

import (
	"context"

	"github.com/taskflow/backend/domain"
)

// TaskFilter narrows a task listing. CreatorID and AssigneeID are combined
// with OR when both are set, which is how visibility scoping for non-admin
// callers is expressed; admins list with neither set.
type TaskFilter struct {
	CreatorID  string
	AssigneeID string
	Status     domain.TaskStatus
	Limit      int
	Offset     int
}

type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id string) error
}
