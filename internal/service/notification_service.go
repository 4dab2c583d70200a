package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campus-desk/complaints-api/internal/models"
	appErrors "github.com/campus-desk/complaints-api/pkg/errors"
	"github.com/campus-desk/complaints-api/pkg/jobs"
)

type notificationRepository interface {
	Insert(ctx context.Context, n *models.Notification) error
	List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, int, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
}

// NotificationService stores and serves per-user notifications. Writers
// (the escalation engine, triage actions) go through Dispatch, which hands
// the insert to a background queue so a slow notifications table never
// stalls the caller.
type NotificationService struct {
	repo   notificationRepository
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewNotificationService constructs the service. Call Start before use and
// Stop on shutdown.
func NewNotificationService(repo notificationRepository, queueCfg jobs.QueueConfig, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &NotificationService{repo: repo, logger: logger}
	svc.queue = jobs.NewQueue("notifications", svc.handleTask, queueCfg)
	return svc
}

// Start launches the fan-out workers.
func (s *NotificationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the workers.
func (s *NotificationService) Stop() {
	s.queue.Stop()
}

// Dispatch enqueues a notification insert.
func (s *NotificationService) Dispatch(ctx context.Context, n models.Notification) error {
	return s.queue.Enqueue(jobs.Task{
		ID:      uuid.NewString(),
		Kind:    string(n.Type),
		Payload: n,
	})
}

func (s *NotificationService) handleTask(ctx context.Context, task jobs.Task) error {
	n, ok := task.Payload.(models.Notification)
	if !ok {
		return fmt.Errorf("unexpected payload type for task %s", task.ID)
	}
	if err := s.repo.Insert(ctx, &n); err != nil {
		return err
	}
	s.logger.Sugar().Debugw("notification stored", "user_id", n.UserID, "type", n.Type, "complaint_id", n.ComplaintID)
	return nil
}

// List returns the caller's notifications.
func (s *NotificationService) List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return rows, pagination, nil
}

// MarkRead flags one notification as read.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	if err := s.repo.MarkRead(ctx, id, userID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "notification not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark notification read")
	}
	return nil
}

// MarkAllRead flags all of the caller's notifications as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	if err := s.repo.MarkAllRead(ctx, userID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark notifications read")
	}
	return nil
}
