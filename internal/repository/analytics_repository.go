package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/campus-desk/complaints-api/internal/models"
)

// AnalyticsRepository computes aggregate complaint statistics.
type AnalyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository constructs a new repository.
func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

type countRow struct {
	Key   string `db:"key"`
	Count int    `db:"count"`
}

// CountByStatus groups complaints by status.
func (r *AnalyticsRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	return r.countBy(ctx, "status")
}

// CountByCategory groups complaints by category.
func (r *AnalyticsRepository) CountByCategory(ctx context.Context) (map[string]int, error) {
	return r.countBy(ctx, "category")
}

// CountByPriority groups complaints by priority.
func (r *AnalyticsRepository) CountByPriority(ctx context.Context) (map[string]int, error) {
	return r.countBy(ctx, "priority")
}

func (r *AnalyticsRepository) countBy(ctx context.Context, column string) (map[string]int, error) {
	query := fmt.Sprintf("SELECT %s AS key, COUNT(*) AS count FROM complaints GROUP BY %s", column, column)
	var rows []countRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count complaints by %s: %w", column, err)
	}
	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Count
	}
	return out, nil
}

// EscalationBacklog counts open, unescalated complaints older than the cutoff.
func (r *AnalyticsRepository) EscalationBacklog(ctx context.Context, olderThan time.Time) (int, error) {
	statuses := make([]string, len(models.OpenStatuses))
	for i, s := range models.OpenStatuses {
		statuses[i] = string(s)
	}
	query := `SELECT COUNT(*) FROM complaints
WHERE status = ANY($1) AND escalated_at IS NULL AND created_at <= $2`
	var total int
	if err := r.db.GetContext(ctx, &total, query, pq.Array(statuses), olderThan); err != nil {
		return 0, fmt.Errorf("escalation backlog: %w", err)
	}
	return total, nil
}
