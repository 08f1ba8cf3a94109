package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"obradoc/internal/auth"
	"obradoc/internal/model"
	"obradoc/internal/repository"
)

// NotificationService is the read side of notifications. Writes go through
// the outbox, never through here.
type NotificationService struct {
	notifications repository.INotificationRepository
}

func NewNotificationService(notifications repository.INotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

// List returns the caller's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, session *auth.Session) ([]*model.Notification, error) {
	if session == nil {
		return nil, ErrNotAuthenticated
	}
	notifications, err := s.notifications.FindByUser(ctx, session.UserID)
	if err != nil {
		return nil, backendError("failed to list notifications", err)
	}
	return notifications, nil
}

// MarkRead flags one of the caller's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, session *auth.Session, id primitive.ObjectID) error {
	if session == nil {
		return ErrNotAuthenticated
	}
	n, err := s.notifications.FindByID(ctx, id)
	if err != nil {
		return backendError("failed to load notification", err)
	}
	if n == nil || n.UserID != session.UserID {
		return notFoundError("notification")
	}
	if err := s.notifications.MarkRead(ctx, id); err != nil {
		return backendError("failed to mark notification read", err)
	}
	return nil
}

// CountUnread returns the caller's unread notification count.
func (s *NotificationService) CountUnread(ctx context.Context, session *auth.Session) (int64, error) {
	if session == nil {
		return 0, ErrNotAuthenticated
	}
	count, err := s.notifications.CountUnread(ctx, session.UserID)
	if err != nil {
		return 0, backendError("failed to count notifications", err)
	}
	return count, nil
}
