package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskflow/backend/domain"
	"github.com/taskflow/backend/repository"
)

type statsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository creates a Postgres-backed StatsRepository implementation.
func NewStatsRepository(pool *pgxpool.Pool) repository.StatsRepository {
	return &statsRepository{pool: pool}
}

func (r *statsRepository) TaskCounts(ctx context.Context, filter repository.StatsFilter) (*repository.TaskStats, error) {
	// Same OR-scoping as the task listing so the numbers always match what
	// the caller can actually see.
	const query = `
	SELECT status,
	       COUNT(*),
	       COUNT(*) FILTER (WHERE due_date < NOW() AND status <> 'Completed')
	FROM tasks
	WHERE (($1 = '' AND $2 = '') OR creator_id = $1 OR ($2 <> '' AND assignee_id = $2))
	GROUP BY status
	`
	rows, err := r.pool.Query(ctx, query, filter.CreatorID, filter.AssigneeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &repository.TaskStats{
		ByStatus: map[domain.TaskStatus]int{
			domain.StatusPending:    0,
			domain.StatusInProgress: 0,
			domain.StatusCompleted:  0,
		},
	}

	for rows.Next() {
		var status string
		var count, overdue int
		if err := rows.Scan(&status, &count, &overdue); err != nil {
			return nil, err
		}
		stats.ByStatus[domain.TaskStatus(status)] = count
		stats.Total += count
		stats.Overdue += overdue
	}
	return stats, rows.Err()
}
