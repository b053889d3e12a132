package repository

import (
	"context"

	"github.com/taskflow/backend/domain"
)

// StatsFilter scopes an aggregation to the tasks a caller may see; empty
// fields mean unscoped (admin view). Semantics mirror TaskFilter.
type StatsFilter struct {
	CreatorID  string
	AssigneeID string
}

// TaskStats holds per-status counts for a visibility scope.
type TaskStats struct {
	Total    int                       `json:"total"`
	ByStatus map[domain.TaskStatus]int `json:"by_status"`
	Overdue  int                       `json:"overdue"`
}

type StatsRepository interface {
	TaskCounts(ctx context.Context, filter StatsFilter) (*TaskStats, error)
}
