package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/campus-desk/complaints-api/internal/models"
	"github.com/campus-desk/complaints-api/pkg/config"
	appErrors "github.com/campus-desk/complaints-api/pkg/errors"
)

type escalationComplaintStore interface {
	ListEscalationCandidates(ctx context.Context) ([]models.Complaint, error)
	ApplyEscalation(ctx context.Context, id, assignee string, at time.Time, status models.ComplaintStatus) (bool, error)
}

type escalationRuleStore interface {
	ListActive(ctx context.Context) ([]models.EscalationRule, error)
}

type escalationHistoryStore interface {
	Insert(ctx context.Context, entry *models.ComplaintHistory) error
}

type escalationNotifier interface {
	Dispatch(ctx context.Context, n models.Notification) error
}

type escalationCacheInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// NoActiveRulesMessage is returned when a pass finds nothing to evaluate.
const NoActiveRulesMessage = "no active escalation rules"

// EscalationService scans open complaints against active time-threshold
// rules and reassigns the ones that have aged past their threshold. A pass
// is a pure function of (rules, candidates, now): rules are re-read every
// time, nothing is cached between invocations, and the candidate filter
// (escalated_at IS NULL) makes repeated passes idempotent.
type EscalationService struct {
	complaints escalationComplaintStore
	rules      escalationRuleStore
	history    escalationHistoryStore
	notifier   escalationNotifier
	cache      escalationCacheInvalidator
	metrics    *MetricsService
	cfg        config.EscalationConfig
	logger     *zap.Logger

	// runMu serialises passes. The scheduler and the manual trigger share
	// this service instance, so the lock covers both invocation paths.
	runMu sync.Mutex
}

// NewEscalationService constructs the engine. notifier, cache and metrics
// are optional.
func NewEscalationService(
	complaints escalationComplaintStore,
	rules escalationRuleStore,
	history escalationHistoryStore,
	notifier escalationNotifier,
	cache escalationCacheInvalidator,
	metrics *MetricsService,
	cfg config.EscalationConfig,
	logger *zap.Logger,
) *EscalationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EscalationService{
		complaints: complaints,
		rules:      rules,
		history:    history,
		notifier:   notifier,
		cache:      cache,
		metrics:    metrics,
		cfg:        cfg,
		logger:     logger,
	}
}

// RunPass evaluates every active rule against every candidate complaint at
// the given wall-clock time.
//
// Read failures abort before any write. Per-complaint write failures only
// skip that complaint: the complaint update is the source of truth, and
// history/notification inserts are auxiliary; their failures are logged
// and never fail the pass.
func (s *EscalationService) RunPass(ctx context.Context, now time.Time) (*models.EscalationResult, error) {
	if !s.runMu.TryLock() {
		return nil, appErrors.ErrPassInFlight
	}
	defer s.runMu.Unlock()

	started := time.Now()
	result := &models.EscalationResult{RanAt: now}

	rules, err := s.rules.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load escalation rules")
	}
	if len(rules) == 0 {
		result.Message = NoActiveRulesMessage
		s.observePass(result, time.Since(started))
		return result, nil
	}

	candidates, err := s.complaints.ListEscalationCandidates(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load escalation candidates")
	}

	log := s.logger.Sugar()
	log.Infow("escalation pass starting", "rules", len(rules), "candidates", len(candidates))

	for _, candidate := range candidates {
		rule, ok := firstMatch(rules, candidate, now)
		if !ok {
			continue
		}
		result.Matched++

		if s.escalate(ctx, candidate, rule, now) {
			result.Escalated++
		} else {
			result.Skipped++
		}
	}

	result.Message = fmt.Sprintf("escalation pass complete: %d matched, %d escalated, %d skipped",
		result.Matched, result.Escalated, result.Skipped)
	log.Infow("escalation pass finished",
		"matched", result.Matched, "escalated", result.Escalated, "skipped", result.Skipped,
		"duration", time.Since(started))

	if result.Escalated > 0 && s.cache != nil {
		if err := s.cache.DeleteByPattern(ctx, "analytics:*"); err != nil {
			log.Warnw("analytics cache invalidation failed", "error", err)
		}
	}

	s.observePass(result, time.Since(started))
	return result, nil
}

// firstMatch returns the first rule that selects the candidate. Rules
// arrive ordered by hours_threshold then created_at, so when several rules
// match, the strictest (and then oldest) one wins. The tie-break is
// deliberate: evaluating one rule per complaint per pass keeps escalation
// single-step.
func firstMatch(rules []models.EscalationRule, c models.Complaint, now time.Time) (models.EscalationRule, bool) {
	age := now.Sub(c.CreatedAt)
	for _, rule := range rules {
		if !rule.MatchesComplaint(c) {
			continue
		}
		if age >= rule.Threshold() {
			return rule, true
		}
	}
	return models.EscalationRule{}, false
}

func (s *EscalationService) escalate(ctx context.Context, c models.Complaint, rule models.EscalationRule, now time.Time) bool {
	log := s.logger.Sugar()

	status := c.Status
	if s.cfg.MoveToInProgress {
		status = models.StatusInProgress
	}

	applied, err := s.complaints.ApplyEscalation(ctx, c.ID, rule.EscalateTo, now, status)
	if err != nil {
		log.Errorw("escalation update failed", "complaint_id", c.ID, "rule_id", rule.ID, "error", err)
		return false
	}
	if !applied {
		// Another writer escalated it between the candidate read and now.
		log.Infow("complaint escalated concurrently, skipping", "complaint_id", c.ID)
		return false
	}

	oldAssignee := "unassigned"
	if c.AssignedTo != nil && *c.AssignedTo != "" {
		oldAssignee = *c.AssignedTo
	}

	details, _ := json.Marshal(models.EscalationDetails{
		RuleID:         rule.ID,
		HoursThreshold: rule.HoursThreshold,
		Category:       rule.Category,
		Priority:       rule.Priority,
	})
	entry := &models.ComplaintHistory{
		ComplaintID: c.ID,
		Action:      models.ActionEscalated,
		OldValue:    oldAssignee,
		NewValue:    rule.EscalateTo,
		PerformedBy: models.SystemActor,
		Details:     string(details),
		CreatedAt:   now,
	}
	if err := s.history.Insert(ctx, entry); err != nil {
		log.Errorw("escalation history insert failed", "complaint_id", c.ID, "error", err)
	}

	if s.notifier != nil {
		notification := models.Notification{
			UserID:      rule.EscalateTo,
			ComplaintID: c.ID,
			Type:        models.NotificationComplaintEscalated,
			Title:       "Complaint escalated to you",
			Message:     fmt.Sprintf("Complaint %q (%s/%s) exceeded its %v response window and has been assigned to you.", c.Title, c.Category, c.Priority, rule.Threshold()),
			CreatedAt:   now,
		}
		if err := s.notifier.Dispatch(ctx, notification); err != nil {
			log.Errorw("escalation notification dispatch failed", "complaint_id", c.ID, "error", err)
		}
	}

	log.Infow("complaint escalated",
		"complaint_id", c.ID, "rule_id", rule.ID,
		"assigned_to", rule.EscalateTo, "level", c.EscalationLevel+1)
	return true
}

func (s *EscalationService) observePass(result *models.EscalationResult, took time.Duration) {
	if s.metrics != nil {
		s.metrics.ObserveEscalationPass(result.Escalated, result.Skipped, took)
	}
}
