package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campus-desk/complaints-api/internal/models"
	"github.com/campus-desk/complaints-api/internal/repository"
	appErrors "github.com/campus-desk/complaints-api/pkg/errors"
)

type complaintRepository interface {
	List(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, int, error)
	GetByID(ctx context.Context, id string) (*models.Complaint, error)
	Create(ctx context.Context, complaint *models.Complaint) error
	UpdateStatus(ctx context.Context, id string, status models.ComplaintStatus) error
	Assign(ctx context.Context, id, assignee string) error
	ResetEscalation(ctx context.Context, id string) error
	AddVote(ctx context.Context, complaintID, userID string) error
}

type complaintHistoryStore interface {
	Insert(ctx context.Context, entry *models.ComplaintHistory) error
	ListByComplaint(ctx context.Context, complaintID string) ([]models.ComplaintHistory, error)
}

// ComplaintService handles complaint submission and triage workflows.
type ComplaintService struct {
	repo      complaintRepository
	history   complaintHistoryStore
	notifier  escalationNotifier
	validator *validator.Validate
	logger    *zap.Logger
}

// NewComplaintService constructs the service.
func NewComplaintService(repo complaintRepository, history complaintHistoryStore, notifier escalationNotifier, validate *validator.Validate, logger *zap.Logger) *ComplaintService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &ComplaintService{repo: repo, history: history, notifier: notifier, validator: validate, logger: logger}
	registerComplaintValidators(svc.validator)
	return svc
}

func registerComplaintValidators(v *validator.Validate) {
	v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		value := models.ComplaintCategory(fl.Field().String())
		for _, known := range models.KnownCategories {
			if value == known {
				return true
			}
		}
		return false
	})
	v.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
		value := models.ComplaintPriority(fl.Field().String())
		for _, known := range models.KnownPriorities {
			if value == known {
				return true
			}
		}
		return false
	})
	v.RegisterValidation("status", func(fl validator.FieldLevel) bool {
		value := models.ComplaintStatus(fl.Field().String())
		for _, known := range models.KnownStatuses {
			if value == known {
				return true
			}
		}
		return false
	})
}

// CreateComplaintRequest describes the submission payload.
type CreateComplaintRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required"`
	Category    string `json:"category" validate:"required,category"`
	Priority    string `json:"priority" validate:"required,priority"`
	SubmittedBy string `json:"-"`
	Draft       bool   `json:"draft"`
}

// UpdateStatusRequest describes a triage status transition.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,status"`
}

// AssignRequest describes a manual assignment.
type AssignRequest struct {
	AssignedTo string `json:"assigned_to" validate:"required"`
}

// List returns complaints with pagination.
func (s *ComplaintService) List(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list complaints")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return rows, pagination, nil
}

// Get returns a complaint by id.
func (s *ComplaintService) Get(ctx context.Context, id string) (*models.Complaint, error) {
	complaint, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "complaint not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get complaint")
	}
	return complaint, nil
}

// History returns the audit trail for a complaint.
func (s *ComplaintService) History(ctx context.Context, id string) ([]models.ComplaintHistory, error) {
	entries, err := s.history.ListByComplaint(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load complaint history")
	}
	return entries, nil
}

// Create registers a new complaint.
func (s *ComplaintService) Create(ctx context.Context, req CreateComplaintRequest) (*models.Complaint, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	status := models.StatusNew
	if req.Draft {
		status = models.StatusDraft
	}
	complaint := &models.Complaint{
		Title:       req.Title,
		Description: req.Description,
		Category:    models.ComplaintCategory(req.Category),
		Priority:    models.ComplaintPriority(req.Priority),
		Status:      status,
		SubmittedBy: req.SubmittedBy,
	}
	if err := s.repo.Create(ctx, complaint); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create complaint")
	}
	return complaint, nil
}

// UpdateStatus applies a triage status transition with audit history.
func (s *ComplaintService) UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest, actor string) (*models.Complaint, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	complaint, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	target := models.ComplaintStatus(req.Status)
	if target == complaint.Status {
		return complaint, nil
	}
	if !models.CanTransition(complaint.Status, target) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition,
			fmt.Sprintf("cannot move complaint from %s to %s", complaint.Status, target))
	}
	if err := s.repo.UpdateStatus(ctx, id, target); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update status")
	}
	s.record(ctx, id, models.ActionStatusChanged, string(complaint.Status), string(target), actor, "")
	s.notifyAssignee(ctx, complaint, models.NotificationStatusChanged, "Complaint status changed",
		fmt.Sprintf("Complaint %q moved from %s to %s.", complaint.Title, complaint.Status, target))
	complaint.Status = target
	return complaint, nil
}

// Assign hands the complaint to a handler with audit history.
func (s *ComplaintService) Assign(ctx context.Context, id string, req AssignRequest, actor string) (*models.Complaint, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	complaint, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	oldAssignee := "unassigned"
	if complaint.AssignedTo != nil && *complaint.AssignedTo != "" {
		oldAssignee = *complaint.AssignedTo
	}
	if err := s.repo.Assign(ctx, id, req.AssignedTo); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign complaint")
	}
	s.record(ctx, id, models.ActionAssigned, oldAssignee, req.AssignedTo, actor, "")
	if s.notifier != nil {
		notification := models.Notification{
			UserID:      req.AssignedTo,
			ComplaintID: id,
			Type:        models.NotificationComplaintAssigned,
			Title:       "Complaint assigned to you",
			Message:     fmt.Sprintf("Complaint %q has been assigned to you.", complaint.Title),
		}
		if err := s.notifier.Dispatch(ctx, notification); err != nil {
			s.logger.Sugar().Warnw("assignment notification dispatch failed", "complaint_id", id, "error", err)
		}
	}
	complaint.AssignedTo = &req.AssignedTo
	return complaint, nil
}

// ResetEscalation clears escalated_at so the engine may escalate the
// complaint again on a later pass. This is the only supported path to a
// second escalation; the level itself is never reset.
func (s *ComplaintService) ResetEscalation(ctx context.Context, id, actor string) error {
	complaint, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if complaint.EscalatedAt == nil {
		return appErrors.Clone(appErrors.ErrConflict, "complaint is not escalated")
	}
	if err := s.repo.ResetEscalation(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset escalation")
	}
	s.record(ctx, id, models.ActionReset, complaint.EscalatedAt.UTC().Format(time.RFC3339), "", actor, "")
	return nil
}

// Vote records one vote per user per complaint.
func (s *ComplaintService) Vote(ctx context.Context, id, userID string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.AddVote(ctx, id, userID); err != nil {
		if err == repository.ErrDuplicateVote {
			return appErrors.ErrAlreadyVoted
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record vote")
	}
	return nil
}

func (s *ComplaintService) record(ctx context.Context, complaintID string, action models.HistoryAction, oldValue, newValue, actor, details string) {
	entry := &models.ComplaintHistory{
		ComplaintID: complaintID,
		Action:      action,
		OldValue:    oldValue,
		NewValue:    newValue,
		PerformedBy: actor,
		Details:     details,
	}
	if err := s.history.Insert(ctx, entry); err != nil {
		s.logger.Sugar().Warnw("history insert failed", "complaint_id", complaintID, "action", action, "error", err)
	}
}

func (s *ComplaintService) notifyAssignee(ctx context.Context, complaint *models.Complaint, kind models.NotificationType, title, message string) {
	if s.notifier == nil || complaint.AssignedTo == nil || *complaint.AssignedTo == "" {
		return
	}
	notification := models.Notification{
		UserID:      *complaint.AssignedTo,
		ComplaintID: complaint.ID,
		Type:        kind,
		Title:       title,
		Message:     message,
	}
	if err := s.notifier.Dispatch(ctx, notification); err != nil {
		s.logger.Sugar().Warnw("notification dispatch failed", "complaint_id", complaint.ID, "error", err)
	}
}
