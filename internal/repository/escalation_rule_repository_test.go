package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-desk/complaints-api/internal/models"
)

func newRuleMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func ruleRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "category", "priority", "hours_threshold", "escalate_to", "is_active", "created_at", "updated_at"})
}

func TestEscalationRuleRepositoryListActive(t *testing.T) {
	db, mock, cleanup := newRuleMock(t)
	defer cleanup()
	repo := NewEscalationRuleRepository(db)

	rows := ruleRows().
		AddRow("r-1", "academic", "high", 24.0, "dept-head-1", true, time.Now(), time.Now()).
		AddRow("r-2", "", "", 48.0, "ombudsman", true, time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM escalation_rules\\s+WHERE is_active = TRUE\\s+ORDER BY hours_threshold ASC, created_at ASC").
		WillReturnRows(rows)

	rules, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "r-1", rules[0].ID)
	assert.True(t, models.MatchesAny(string(rules[1].Category)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEscalationRuleRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRuleMock(t)
	defer cleanup()
	repo := NewEscalationRuleRepository(db)

	mock.ExpectExec("INSERT INTO escalation_rules").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	rule := &models.EscalationRule{
		Category:       models.CategoryAcademic,
		Priority:       models.PriorityHigh,
		HoursThreshold: 24,
		EscalateTo:     "dept-head-1",
		IsActive:       true,
	}
	err := repo.Create(context.Background(), rule)
	require.NoError(t, err)
	assert.NotEmpty(t, rule.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEscalationRuleRepositoryGetByID(t *testing.T) {
	db, mock, cleanup := newRuleMock(t)
	defer cleanup()
	repo := NewEscalationRuleRepository(db)

	rows := ruleRows().
		AddRow("r-1", "academic", "high", 24.0, "dept-head-1", true, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, category, priority, hours_threshold, escalate_to, is_active, created_at, updated_at FROM escalation_rules WHERE id = $1")).
		WithArgs("r-1").
		WillReturnRows(rows)

	rule, err := repo.GetByID(context.Background(), "r-1")
	require.NoError(t, err)
	assert.Equal(t, "dept-head-1", rule.EscalateTo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEscalationRuleRepositoryDeactivate(t *testing.T) {
	db, mock, cleanup := newRuleMock(t)
	defer cleanup()
	repo := NewEscalationRuleRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE escalation_rules SET is_active = FALSE, updated_at = $1 WHERE id = $2")).
		WithArgs(sqlmock.AnyArg(), "r-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Deactivate(context.Background(), "r-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
