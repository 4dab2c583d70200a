package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campus-desk/complaints-api/internal/models"
)

// HistoryRepository manages the append-only complaint audit log.
type HistoryRepository struct {
	db *sqlx.DB
}

// NewHistoryRepository constructs a new repository.
func NewHistoryRepository(db *sqlx.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Insert appends an audit row. History is never updated or deleted.
func (r *HistoryRepository) Insert(ctx context.Context, entry *models.ComplaintHistory) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO complaint_history (id, complaint_id, action, old_value, new_value, performed_by, details, created_at)
VALUES (:id, :complaint_id, :action, :old_value, :new_value, :performed_by, :details, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("insert complaint history: %w", err)
	}
	return nil
}

// ListByComplaint returns audit rows for a complaint, newest first.
func (r *HistoryRepository) ListByComplaint(ctx context.Context, complaintID string) ([]models.ComplaintHistory, error) {
	query := `SELECT id, complaint_id, action, old_value, new_value, performed_by, details, created_at
FROM complaint_history WHERE complaint_id = $1 ORDER BY created_at DESC`
	var entries []models.ComplaintHistory
	if err := r.db.SelectContext(ctx, &entries, query, complaintID); err != nil {
		return nil, fmt.Errorf("list complaint history: %w", err)
	}
	return entries, nil
}
