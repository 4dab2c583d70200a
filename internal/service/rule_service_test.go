package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-desk/complaints-api/internal/models"
	appErrors "github.com/campus-desk/complaints-api/pkg/errors"
)

type ruleRepoStub struct {
	rules map[string]*models.EscalationRule
}

func newRuleRepoStub() *ruleRepoStub {
	return &ruleRepoStub{rules: make(map[string]*models.EscalationRule)}
}

func (s *ruleRepoStub) List(ctx context.Context, filter models.EscalationRuleFilter) ([]models.EscalationRule, int, error) {
	out := make([]models.EscalationRule, 0, len(s.rules))
	for _, r := range s.rules {
		if filter.ActiveOnly && !r.IsActive {
			continue
		}
		out = append(out, *r)
	}
	return out, len(out), nil
}

func (s *ruleRepoStub) GetByID(ctx context.Context, id string) (*models.EscalationRule, error) {
	if r, ok := s.rules[id]; ok {
		copy := *r
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (s *ruleRepoStub) Create(ctx context.Context, rule *models.EscalationRule) error {
	if rule.ID == "" {
		rule.ID = "r-generated"
	}
	s.rules[rule.ID] = rule
	return nil
}

func (s *ruleRepoStub) Update(ctx context.Context, rule *models.EscalationRule) error {
	if _, ok := s.rules[rule.ID]; !ok {
		return sql.ErrNoRows
	}
	s.rules[rule.ID] = rule
	return nil
}

func (s *ruleRepoStub) Deactivate(ctx context.Context, id string) error {
	r, ok := s.rules[id]
	if !ok {
		return sql.ErrNoRows
	}
	r.IsActive = false
	return nil
}

func TestRuleServiceCreate(t *testing.T) {
	repo := newRuleRepoStub()
	svc := NewRuleService(repo, nil, nil)

	rule, err := svc.Create(context.Background(), SaveRuleRequest{
		Category:       "academic",
		Priority:       "high",
		HoursThreshold: 24,
		EscalateTo:     "dept-head-1",
		IsActive:       true,
	})
	require.NoError(t, err)
	assert.Equal(t, models.CategoryAcademic, rule.Category)
	assert.Equal(t, 24.0, rule.HoursThreshold)
}

func TestRuleServiceCreateWildcard(t *testing.T) {
	repo := newRuleRepoStub()
	svc := NewRuleService(repo, nil, nil)

	rule, err := svc.Create(context.Background(), SaveRuleRequest{
		Category:       "",
		Priority:       "",
		HoursThreshold: 48,
		EscalateTo:     "ombudsman",
		IsActive:       true,
	})
	require.NoError(t, err, "empty category and priority are the any-value wildcard")
	assert.True(t, models.MatchesAny(string(rule.Category)))
	assert.True(t, models.MatchesAny(string(rule.Priority)))
}

func TestRuleServiceCreateRejectsUnknownCategory(t *testing.T) {
	svc := NewRuleService(newRuleRepoStub(), nil, nil)

	_, err := svc.Create(context.Background(), SaveRuleRequest{
		Category:       "gossip",
		HoursThreshold: 24,
		EscalateTo:     "dept-head-1",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRuleServiceCreateRejectsNegativeThreshold(t *testing.T) {
	svc := NewRuleService(newRuleRepoStub(), nil, nil)

	_, err := svc.Create(context.Background(), SaveRuleRequest{
		Category:       "academic",
		Priority:       "high",
		HoursThreshold: -1,
		EscalateTo:     "dept-head-1",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRuleServiceCreateRequiresEscalateTo(t *testing.T) {
	svc := NewRuleService(newRuleRepoStub(), nil, nil)

	_, err := svc.Create(context.Background(), SaveRuleRequest{
		Category:       "academic",
		Priority:       "high",
		HoursThreshold: 24,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRuleServiceUpdate(t *testing.T) {
	repo := newRuleRepoStub()
	repo.rules["r-1"] = &models.EscalationRule{ID: "r-1", Category: models.CategoryAcademic, Priority: models.PriorityHigh, HoursThreshold: 24, EscalateTo: "dept-head-1", IsActive: true}
	svc := NewRuleService(repo, nil, nil)

	rule, err := svc.Update(context.Background(), "r-1", SaveRuleRequest{
		Category:       "academic",
		Priority:       "critical",
		HoursThreshold: 12,
		EscalateTo:     "dean-1",
		IsActive:       true,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PriorityCritical, rule.Priority)
	assert.Equal(t, 12.0, rule.HoursThreshold)
	assert.Equal(t, "dean-1", repo.rules["r-1"].EscalateTo)
}

func TestRuleServiceDeactivateMissing(t *testing.T) {
	svc := NewRuleService(newRuleRepoStub(), nil, nil)

	err := svc.Deactivate(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestRuleServiceDeactivate(t *testing.T) {
	repo := newRuleRepoStub()
	repo.rules["r-1"] = &models.EscalationRule{ID: "r-1", IsActive: true, EscalateTo: "dept-head-1"}
	svc := NewRuleService(repo, nil, nil)

	require.NoError(t, svc.Deactivate(context.Background(), "r-1"))
	assert.False(t, repo.rules["r-1"].IsActive)
}
