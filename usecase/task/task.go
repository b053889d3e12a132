package task

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/taskflow/backend/domain"
	"github.com/taskflow/backend/repository"
)

type UseCase struct {
	tasks  repository.TaskRepository
	users  repository.UserRepository
	policy domain.PolicyConfig
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, users repository.UserRepository, policy domain.PolicyConfig, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		users:  users,
		policy: policy,
		logger: logger,
	}
}

// CreateInput is the accepted payload for task creation. The creator is
// never part of the payload; it is always the caller.
type CreateInput struct {
	Title       string            `validate:"required,max=255"`
	Description string            `validate:"required"`
	Status      domain.TaskStatus `validate:"required,oneof=Pending 'In Progress' Completed"`
	DueDate     time.Time         `validate:"required"`
	AssigneeID  *string
}

// UpdateInput carries patch semantics: nil fields are left unchanged.
// Assignee distinguishes "absent" (nil) from "clear" (non-nil with nil
// UserID).
type UpdateInput struct {
	Title       *string            `validate:"omitempty,min=1,max=255"`
	Description *string            `validate:"omitempty,min=1"`
	Status      *domain.TaskStatus `validate:"omitempty,oneof=Pending 'In Progress' Completed"`
	DueDate     *time.Time
	Assignee    *AssigneeChange
}

// AssigneeChange requests an assignee mutation; a nil UserID clears the
// assignment.
type AssigneeChange struct {
	UserID *string
}

func (uc *UseCase) List(ctx context.Context, caller domain.Caller, status domain.TaskStatus, limit, offset int) ([]domain.Task, error) {
	filter := repository.TaskFilter{
		Status: status,
		Limit:  limit,
		Offset: offset,
	}
	if !caller.IsAdmin() {
		filter.CreatorID = caller.ID
		if uc.policy.AssigneeCanView {
			filter.AssigneeID = caller.ID
		}
	}
	return uc.tasks.List(ctx, filter)
}

func (uc *UseCase) Get(ctx context.Context, caller domain.Caller, id string) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !uc.policy.CanView(caller, task) {
		return nil, domain.ErrForbidden
	}
	return task, nil
}

func (uc *UseCase) Create(ctx context.Context, caller domain.Caller, input CreateInput) (*domain.Task, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.AssigneeID != nil {
		if !uc.policy.AssignOnCreate {
			return nil, domain.NewValidationError("assigned_user_id", "cannot be set at creation; use the assign operation")
		}
		if !uc.policy.CanAssign(caller) {
			return nil, domain.NewError(domain.ErrCodeForbidden, "only admins may assign tasks")
		}
		if err := uc.checkAssignee(ctx, *input.AssigneeID); err != nil {
			return nil, err
		}
	}

	task := &domain.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		DueDate:     input.DueDate,
		CreatorID:   caller.ID,
		AssigneeID:  input.AssigneeID,
	}

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("task created",
		zap.String("task_id", created.ID),
		zap.String("creator_id", caller.ID),
	)
	return created, nil
}

func (uc *UseCase) Update(ctx context.Context, caller domain.Caller, id string, input UpdateInput) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !uc.policy.CanMutate(caller, task) {
		return nil, domain.ErrForbidden
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.Assignee != nil {
		if !uc.policy.CanAssign(caller) {
			return nil, domain.NewError(domain.ErrCodeForbidden, "only admins may reassign tasks")
		}
		if input.Assignee.UserID != nil {
			if err := uc.checkAssignee(ctx, *input.Assignee.UserID); err != nil {
				return nil, err
			}
		}
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.DueDate != nil {
		task.DueDate = *input.DueDate
	}
	if input.Assignee != nil {
		task.AssigneeID = input.Assignee.UserID
	}

	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (uc *UseCase) Delete(ctx context.Context, caller domain.Caller, id string) error {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !uc.policy.CanMutate(caller, task) {
		return domain.ErrForbidden
	}
	if err := uc.tasks.Delete(ctx, id); err != nil {
		return err
	}
	uc.logger.Info("task deleted",
		zap.String("task_id", id),
		zap.String("caller_id", caller.ID),
	)
	return nil
}

// Assign sets or clears a task's assignee independently of other fields.
// Clearing an already-clear assignee succeeds, so the operation is
// idempotent.
func (uc *UseCase) Assign(ctx context.Context, caller domain.Caller, id string, assigneeID *string) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !uc.policy.CanAssign(caller) {
		return nil, domain.NewError(domain.ErrCodeForbidden, "only admins may assign tasks")
	}
	if assigneeID != nil {
		if err := uc.checkAssignee(ctx, *assigneeID); err != nil {
			return nil, err
		}
	}

	task.AssigneeID = assigneeID
	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (uc *UseCase) checkAssignee(ctx context.Context, userID string) error {
	exists, err := uc.users.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.NewValidationError("assigned_user_id", "must reference an existing user")
	}
	return nil
}
