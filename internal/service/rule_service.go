package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campus-desk/complaints-api/internal/models"
	appErrors "github.com/campus-desk/complaints-api/pkg/errors"
)

type ruleRepository interface {
	List(ctx context.Context, filter models.EscalationRuleFilter) ([]models.EscalationRule, int, error)
	GetByID(ctx context.Context, id string) (*models.EscalationRule, error)
	Create(ctx context.Context, rule *models.EscalationRule) error
	Update(ctx context.Context, rule *models.EscalationRule) error
	Deactivate(ctx context.Context, id string) error
}

// RuleService manages escalation rule administration. The engine itself
// never writes rules; it only reads the active set.
type RuleService struct {
	repo      ruleRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRuleService constructs the service.
func NewRuleService(repo ruleRepository, validate *validator.Validate, logger *zap.Logger) *RuleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &RuleService{repo: repo, validator: validate, logger: logger}
	// Empty category/priority means "matches any"; only non-empty values
	// must name a known enum member.
	svc.validator.RegisterValidation("category_or_any", func(fl validator.FieldLevel) bool {
		raw := fl.Field().String()
		if models.MatchesAny(raw) {
			return true
		}
		for _, known := range models.KnownCategories {
			if models.ComplaintCategory(raw) == known {
				return true
			}
		}
		return false
	})
	svc.validator.RegisterValidation("priority_or_any", func(fl validator.FieldLevel) bool {
		raw := fl.Field().String()
		if models.MatchesAny(raw) {
			return true
		}
		for _, known := range models.KnownPriorities {
			if models.ComplaintPriority(raw) == known {
				return true
			}
		}
		return false
	})
	return svc
}

// SaveRuleRequest describes create/update payloads.
type SaveRuleRequest struct {
	Category       string  `json:"category" validate:"category_or_any"`
	Priority       string  `json:"priority" validate:"priority_or_any"`
	HoursThreshold float64 `json:"hours_threshold" validate:"gte=0"`
	EscalateTo     string  `json:"escalate_to" validate:"required"`
	IsActive       bool    `json:"is_active"`
}

// List returns rules with pagination.
func (s *RuleService) List(ctx context.Context, filter models.EscalationRuleFilter) ([]models.EscalationRule, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list escalation rules")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return rows, pagination, nil
}

// Get returns a rule by id.
func (s *RuleService) Get(ctx context.Context, id string) (*models.EscalationRule, error) {
	rule, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "escalation rule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get escalation rule")
	}
	return rule, nil
}

// Create registers a new rule.
func (s *RuleService) Create(ctx context.Context, req SaveRuleRequest) (*models.EscalationRule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	rule := &models.EscalationRule{
		Category:       models.ComplaintCategory(req.Category),
		Priority:       models.ComplaintPriority(req.Priority),
		HoursThreshold: req.HoursThreshold,
		EscalateTo:     req.EscalateTo,
		IsActive:       req.IsActive,
	}
	if err := s.repo.Create(ctx, rule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create escalation rule")
	}
	return rule, nil
}

// Update modifies an existing rule.
func (s *RuleService) Update(ctx context.Context, id string, req SaveRuleRequest) (*models.EscalationRule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	rule, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	rule.Category = models.ComplaintCategory(req.Category)
	rule.Priority = models.ComplaintPriority(req.Priority)
	rule.HoursThreshold = req.HoursThreshold
	rule.EscalateTo = req.EscalateTo
	rule.IsActive = req.IsActive
	if err := s.repo.Update(ctx, rule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update escalation rule")
	}
	return rule, nil
}

// Deactivate switches a rule off.
func (s *RuleService) Deactivate(ctx context.Context, id string) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "escalation rule not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate escalation rule")
	}
	return nil
}
