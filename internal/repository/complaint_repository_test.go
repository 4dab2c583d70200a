package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-desk/complaints-api/internal/models"
)

func newComplaintMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func complaintRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "description", "category", "priority", "status", "submitted_by", "assigned_to", "escalated_at", "escalation_level", "vote_count", "created_at", "updated_at"})
}

func TestComplaintRepositoryList(t *testing.T) {
	db, mock, cleanup := newComplaintMock(t)
	defer cleanup()
	repo := NewComplaintRepository(db)

	status := models.StatusNew
	rows := complaintRows().
		AddRow("c-1", "Broken projector", "Room 101", "facilities", "medium", "new", "student-1", nil, nil, 0, 0, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, description, category, priority, status, submitted_by, assigned_to, escalated_at, escalation_level, vote_count, created_at, updated_at FROM complaints WHERE 1=1 AND status = $1 ORDER BY created_at DESC LIMIT 50 OFFSET 0")).
		WithArgs(status).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM complaints WHERE 1=1 AND status = $1")).
		WithArgs(status).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	complaints, total, err := repo.List(context.Background(), models.ComplaintFilter{Status: &status})
	require.NoError(t, err)
	assert.Len(t, complaints, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComplaintRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newComplaintMock(t)
	defer cleanup()
	repo := NewComplaintRepository(db)

	mock.ExpectExec("INSERT INTO complaints").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	complaint := &models.Complaint{
		Title:       "Broken projector",
		Description: "Room 101",
		Category:    models.CategoryFacilities,
		Priority:    models.PriorityMedium,
		Status:      models.StatusNew,
		SubmittedBy: "student-1",
	}
	err := repo.Create(context.Background(), complaint)
	require.NoError(t, err)
	assert.NotEmpty(t, complaint.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComplaintRepositoryListEscalationCandidates(t *testing.T) {
	db, mock, cleanup := newComplaintMock(t)
	defer cleanup()
	repo := NewComplaintRepository(db)

	rows := complaintRows().
		AddRow("c-1", "Old complaint", "desc", "academic", "high", "new", "student-1", nil, nil, 0, 0, time.Now().Add(-72*time.Hour), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM complaints\\s+WHERE status = ANY\\(\\$1\\) AND escalated_at IS NULL\\s+ORDER BY created_at ASC").
		WithArgs(pq.Array([]string{"new", "opened"})).
		WillReturnRows(rows)

	candidates, err := repo.ListEscalationCandidates(context.Background())
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Nil(t, candidates[0].EscalatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComplaintRepositoryApplyEscalation(t *testing.T) {
	db, mock, cleanup := newComplaintMock(t)
	defer cleanup()
	repo := NewComplaintRepository(db)

	at := time.Now().UTC()
	mock.ExpectExec("UPDATE complaints\\s+SET assigned_to = \\$1, escalated_at = \\$2, escalation_level = escalation_level \\+ 1, status = \\$3, updated_at = \\$2\\s+WHERE id = \\$4 AND escalated_at IS NULL").
		WithArgs("dept-head-1", at, models.StatusNew, "c-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	applied, err := repo.ApplyEscalation(context.Background(), "c-1", "dept-head-1", at, models.StatusNew)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComplaintRepositoryApplyEscalationAlreadyEscalated(t *testing.T) {
	db, mock, cleanup := newComplaintMock(t)
	defer cleanup()
	repo := NewComplaintRepository(db)

	at := time.Now().UTC()
	mock.ExpectExec("UPDATE complaints").
		WithArgs("dept-head-1", at, models.StatusNew, "c-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	applied, err := repo.ApplyEscalation(context.Background(), "c-1", "dept-head-1", at, models.StatusNew)
	require.NoError(t, err)
	assert.False(t, applied, "guarded update touches no row when escalated_at is set")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComplaintRepositoryResetEscalation(t *testing.T) {
	db, mock, cleanup := newComplaintMock(t)
	defer cleanup()
	repo := NewComplaintRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE complaints SET escalated_at = NULL, updated_at = $1 WHERE id = $2")).
		WithArgs(sqlmock.AnyArg(), "c-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.ResetEscalation(context.Background(), "c-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComplaintRepositoryResetEscalationMissing(t *testing.T) {
	db, mock, cleanup := newComplaintMock(t)
	defer cleanup()
	repo := NewComplaintRepository(db)

	mock.ExpectExec("UPDATE complaints SET escalated_at = NULL").
		WithArgs(sqlmock.AnyArg(), "ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.ResetEscalation(context.Background(), "ghost")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestComplaintRepositoryAddVoteDuplicate(t *testing.T) {
	db, mock, cleanup := newComplaintMock(t)
	defer cleanup()
	repo := NewComplaintRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO complaint_votes").
		WithArgs("c-1", "student-1", sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	err := repo.AddVote(context.Background(), "c-1", "student-1")
	assert.ErrorIs(t, err, ErrDuplicateVote)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComplaintRepositoryAddVote(t *testing.T) {
	db, mock, cleanup := newComplaintMock(t)
	defer cleanup()
	repo := NewComplaintRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO complaint_votes").
		WithArgs("c-1", "student-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE complaints SET vote_count = vote_count + 1 WHERE id = $1")).
		WithArgs("c-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.AddVote(context.Background(), "c-1", "student-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
