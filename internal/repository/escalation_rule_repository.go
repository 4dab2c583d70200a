package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campus-desk/complaints-api/internal/models"
)

const ruleColumns = "id, category, priority, hours_threshold, escalate_to, is_active, created_at, updated_at"

// EscalationRuleRepository manages persistence for escalation rules.
type EscalationRuleRepository struct {
	db *sqlx.DB
}

// NewEscalationRuleRepository constructs a new repository.
func NewEscalationRuleRepository(db *sqlx.DB) *EscalationRuleRepository {
	return &EscalationRuleRepository{db: db}
}

// ListActive returns active rules in deterministic evaluation order:
// strictest threshold first, then oldest rule. The engine relies on this
// order for its first-match-wins tie-break.
func (r *EscalationRuleRepository) ListActive(ctx context.Context) ([]models.EscalationRule, error) {
	query := fmt.Sprintf(`SELECT %s FROM escalation_rules
WHERE is_active = TRUE
ORDER BY hours_threshold ASC, created_at ASC`, ruleColumns)
	var rules []models.EscalationRule
	if err := r.db.SelectContext(ctx, &rules, query); err != nil {
		return nil, fmt.Errorf("list active escalation rules: %w", err)
	}
	return rules, nil
}

// List returns rules per provided filter.
func (r *EscalationRuleRepository) List(ctx context.Context, filter models.EscalationRuleFilter) ([]models.EscalationRule, int, error) {
	where := "1=1"
	if filter.ActiveOnly {
		where = "is_active = TRUE"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size
	query := fmt.Sprintf("SELECT %s FROM escalation_rules WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d",
		ruleColumns, where, size, offset)
	var rules []models.EscalationRule
	if err := r.db.SelectContext(ctx, &rules, query); err != nil {
		return nil, 0, fmt.Errorf("list escalation rules: %w", err)
	}
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM escalation_rules WHERE %s", where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery); err != nil {
		return nil, 0, fmt.Errorf("count escalation rules: %w", err)
	}
	return rules, total, nil
}

// GetByID returns a single rule.
func (r *EscalationRuleRepository) GetByID(ctx context.Context, id string) (*models.EscalationRule, error) {
	query := fmt.Sprintf("SELECT %s FROM escalation_rules WHERE id = $1", ruleColumns)
	var rule models.EscalationRule
	if err := r.db.GetContext(ctx, &rule, query, id); err != nil {
		return nil, err
	}
	return &rule, nil
}

// Create inserts a new rule.
func (r *EscalationRuleRepository) Create(ctx context.Context, rule *models.EscalationRule) error {
	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = now
	}
	rule.UpdatedAt = now
	query := `INSERT INTO escalation_rules (id, category, priority, hours_threshold, escalate_to, is_active, created_at, updated_at)
VALUES (:id, :category, :priority, :hours_threshold, :escalate_to, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, rule); err != nil {
		return fmt.Errorf("create escalation rule: %w", err)
	}
	return nil
}

// Update modifies an existing rule.
func (r *EscalationRuleRepository) Update(ctx context.Context, rule *models.EscalationRule) error {
	rule.UpdatedAt = time.Now().UTC()
	query := `UPDATE escalation_rules SET category = :category, priority = :priority, hours_threshold = :hours_threshold, escalate_to = :escalate_to, is_active = :is_active, updated_at = :updated_at
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, rule); err != nil {
		return fmt.Errorf("update escalation rule: %w", err)
	}
	return nil
}

// Deactivate switches a rule off without deleting its audit trail.
func (r *EscalationRuleRepository) Deactivate(ctx context.Context, id string) error {
	query := "UPDATE escalation_rules SET is_active = FALSE, updated_at = $1 WHERE id = $2"
	res, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("deactivate escalation rule: %w", err)
	}
	return ensureRowUpdated(res)
}
