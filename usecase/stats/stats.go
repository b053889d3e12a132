package stats

import (
	"context"

	"go.uber.org/zap"

	"github.com/taskflow/backend/domain"
	"github.com/taskflow/backend/repository"
)

type UseCase struct {
	stats  repository.StatsRepository
	policy domain.PolicyConfig
	logger *zap.Logger
}

func New(stats repository.StatsRepository, policy domain.PolicyConfig, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		stats:  stats,
		policy: policy,
		logger: logger,
	}
}

// Summary extends raw counts with a completion rate for dashboard use.
type Summary struct {
	repository.TaskStats
	CompletionRate float64 `json:"completion_rate"`
}

// TaskSummary aggregates task counts over the same visibility scope the
// caller's task listing uses: admins see global numbers, everyone else
// sees their own.
func (uc *UseCase) TaskSummary(ctx context.Context, caller domain.Caller) (*Summary, error) {
	filter := repository.StatsFilter{}
	if !caller.IsAdmin() {
		filter.CreatorID = caller.ID
		if uc.policy.AssigneeCanView {
			filter.AssigneeID = caller.ID
		}
	}

	counts, err := uc.stats.TaskCounts(ctx, filter)
	if err != nil {
		return nil, err
	}

	summary := &Summary{TaskStats: *counts}
	if counts.Total > 0 {
		summary.CompletionRate = float64(counts.ByStatus[domain.StatusCompleted]) / float64(counts.Total)
	}
	return summary, nil
}
