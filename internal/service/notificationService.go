package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	repository "github.com/eventdesk/eventdesk/internal/database/postgres"
	"github.com/eventdesk/eventdesk/internal/entity"
)

// Publisher is the dispatch-queue side of a notification: delivery workers
// (email, push) consume from the other end.
type Publisher interface {
	Publish(ctx context.Context, message interface{}) error
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	publisher        Publisher
}

func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	publisher Publisher,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		publisher:        publisher,
	}
}

func (s *notificationService) Create(ctx context.Context, userID int64, ntype entity.NotificationType, message string, eventID *int64) (*entity.Notification, error) {
	if message == "" {
		return nil, entity.ErrInvalidInput
	}

	// The recipient must exist; a nil eventID is fine (event being deleted).
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("notification recipient: %w", err)
	}

	notification := &entity.Notification{
		UserID:  userID,
		Type:    ntype,
		Message: message,
		EventID: eventID,
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return nil, err
	}

	// Best-effort dispatch: a queue failure never fails the request.
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, notification); err != nil {
			logrus.Warnf("Failed to publish notification %d to dispatch queue: %v", notification.ID, err)
		}
	}

	return notification, nil
}

func (s *notificationService) GetUserNotifications(ctx context.Context, userID int64) ([]*entity.Notification, error) {
	notifications, err := s.notificationRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}
	return notifications, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id int64) error {
	return s.notificationRepo.MarkRead(ctx, id)
}

func (s *notificationService) DeleteAllForEvent(ctx context.Context, eventID int64) (int64, error) {
	return s.notificationRepo.DeleteByEventID(ctx, eventID)
}
