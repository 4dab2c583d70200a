package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/campus-desk/complaints-api/internal/models"
)

const complaintColumns = "id, title, description, category, priority, status, submitted_by, assigned_to, escalated_at, escalation_level, vote_count, created_at, updated_at"

// ComplaintRepository manages persistence for complaints.
type ComplaintRepository struct {
	db *sqlx.DB
}

// NewComplaintRepository constructs a new repository.
func NewComplaintRepository(db *sqlx.DB) *ComplaintRepository {
	return &ComplaintRepository{db: db}
}

// List returns complaints per provided filter.
func (r *ComplaintRepository) List(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, int, error) {
	base := "FROM complaints"
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.Category != nil {
		where = append(where, fmt.Sprintf("category = $%d", len(args)+1))
		args = append(args, *filter.Category)
	}
	if filter.Priority != nil {
		where = append(where, fmt.Sprintf("priority = $%d", len(args)+1))
		args = append(args, *filter.Priority)
	}
	if filter.AssignedTo != "" {
		where = append(where, fmt.Sprintf("assigned_to = $%d", len(args)+1))
		args = append(args, filter.AssignedTo)
	}
	if filter.Submitter != "" {
		where = append(where, fmt.Sprintf("submitted_by = $%d", len(args)+1))
		args = append(args, filter.Submitter)
	}
	whereClause := strings.Join(where, " AND ")
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size
	query := fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d",
		complaintColumns, base, whereClause, size, offset)
	var complaints []models.Complaint
	if err := r.db.SelectContext(ctx, &complaints, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list complaints: %w", err)
	}
	countQuery := fmt.Sprintf("SELECT COUNT(*) %s WHERE %s", base, whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count complaints: %w", err)
	}
	return complaints, total, nil
}

// GetByID returns a single complaint.
func (r *ComplaintRepository) GetByID(ctx context.Context, id string) (*models.Complaint, error) {
	query := fmt.Sprintf("SELECT %s FROM complaints WHERE id = $1", complaintColumns)
	var complaint models.Complaint
	if err := r.db.GetContext(ctx, &complaint, query, id); err != nil {
		return nil, err
	}
	return &complaint, nil
}

// Create inserts a new complaint.
func (r *ComplaintRepository) Create(ctx context.Context, complaint *models.Complaint) error {
	if complaint.ID == "" {
		complaint.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if complaint.CreatedAt.IsZero() {
		complaint.CreatedAt = now
	}
	complaint.UpdatedAt = now
	query := `INSERT INTO complaints (id, title, description, category, priority, status, submitted_by, assigned_to, escalated_at, escalation_level, vote_count, created_at, updated_at)
VALUES (:id, :title, :description, :category, :priority, :status, :submitted_by, :assigned_to, :escalated_at, :escalation_level, :vote_count, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, complaint); err != nil {
		return fmt.Errorf("create complaint: %w", err)
	}
	return nil
}

// UpdateStatus records a status transition.
func (r *ComplaintRepository) UpdateStatus(ctx context.Context, id string, status models.ComplaintStatus) error {
	query := "UPDATE complaints SET status = $1, updated_at = $2 WHERE id = $3"
	res, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update complaint status: %w", err)
	}
	return ensureRowUpdated(res)
}

// Assign sets the complaint handler.
func (r *ComplaintRepository) Assign(ctx context.Context, id, assignee string) error {
	query := "UPDATE complaints SET assigned_to = $1, updated_at = $2 WHERE id = $3"
	res, err := r.db.ExecContext(ctx, query, assignee, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("assign complaint: %w", err)
	}
	return ensureRowUpdated(res)
}

// ListEscalationCandidates returns open complaints that have not been
// escalated. The escalated_at filter is what makes a pass idempotent.
func (r *ComplaintRepository) ListEscalationCandidates(ctx context.Context) ([]models.Complaint, error) {
	statuses := make([]string, len(models.OpenStatuses))
	for i, s := range models.OpenStatuses {
		statuses[i] = string(s)
	}
	query := fmt.Sprintf(`SELECT %s FROM complaints
WHERE status = ANY($1) AND escalated_at IS NULL
ORDER BY created_at ASC`, complaintColumns)
	var candidates []models.Complaint
	if err := r.db.SelectContext(ctx, &candidates, query, pq.Array(statuses)); err != nil {
		return nil, fmt.Errorf("list escalation candidates: %w", err)
	}
	return candidates, nil
}

// ApplyEscalation reassigns a complaint, stamps escalated_at and bumps the
// level in one statement. The escalated_at IS NULL guard keeps a concurrent
// or retried pass from double-escalating; zero rows affected means another
// writer got there first.
func (r *ComplaintRepository) ApplyEscalation(ctx context.Context, id, assignee string, at time.Time, status models.ComplaintStatus) (bool, error) {
	query := `UPDATE complaints
SET assigned_to = $1, escalated_at = $2, escalation_level = escalation_level + 1, status = $3, updated_at = $2
WHERE id = $4 AND escalated_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, assignee, at, status, id)
	if err != nil {
		return false, fmt.Errorf("apply escalation: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("apply escalation rows: %w", err)
	}
	return affected > 0, nil
}

// ResetEscalation clears escalated_at so a later pass may escalate again.
// The level is preserved; it only ever counts up.
func (r *ComplaintRepository) ResetEscalation(ctx context.Context, id string) error {
	query := "UPDATE complaints SET escalated_at = NULL, updated_at = $1 WHERE id = $2"
	res, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("reset escalation: %w", err)
	}
	return ensureRowUpdated(res)
}

// AddVote records a one-per-user vote and bumps the counter. Returns the
// lib/pq unique violation as models-agnostic duplicate signal.
func (r *ComplaintRepository) AddVote(ctx context.Context, complaintID, userID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin vote tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	insert := "INSERT INTO complaint_votes (complaint_id, user_id, created_at) VALUES ($1, $2, $3)"
	if _, err := tx.ExecContext(ctx, insert, complaintID, userID, time.Now().UTC()); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrDuplicateVote
		}
		return fmt.Errorf("insert vote: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "UPDATE complaints SET vote_count = vote_count + 1 WHERE id = $1", complaintID); err != nil {
		return fmt.Errorf("bump vote count: %w", err)
	}
	return tx.Commit()
}

// ErrDuplicateVote signals a second vote from the same user.
var ErrDuplicateVote = fmt.Errorf("duplicate vote")

func ensureRowUpdated(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
