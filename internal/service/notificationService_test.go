package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventdesk/eventdesk/internal/entity"
)

type fakePublisher struct {
	published []interface{}
	err       error
}

func (p *fakePublisher) Publish(ctx context.Context, message interface{}) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, message)
	return nil
}

func TestNotificationCreatePublishes(t *testing.T) {
	users := newFakeUserRepo()
	notifications := newFakeNotificationRepo()
	publisher := &fakePublisher{}
	svc := NewNotificationService(notifications, users, publisher)

	ctx := context.Background()
	user := &entity.User{Email: "user@example.com", Name: "Uma"}
	require.NoError(t, users.Create(ctx, user))

	n, err := svc.Create(ctx, user.ID, entity.NotificationReminder, "Starts soon", nil)
	require.NoError(t, err)

	assert.NotZero(t, n.ID)
	assert.Len(t, publisher.published, 1)
}

func TestNotificationCreateRejectsUnknownRecipient(t *testing.T) {
	svc := NewNotificationService(newFakeNotificationRepo(), newFakeUserRepo(), nil)

	_, err := svc.Create(context.Background(), 42, entity.NotificationReminder, "Starts soon", nil)
	assert.ErrorIs(t, err, entity.ErrUserNotFound)
}

func TestNotificationCreateRejectsEmptyMessage(t *testing.T) {
	svc := NewNotificationService(newFakeNotificationRepo(), newFakeUserRepo(), nil)

	_, err := svc.Create(context.Background(), 1, entity.NotificationReminder, "", nil)
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
}

func TestNotificationCreateSurvivesPublishFailure(t *testing.T) {
	users := newFakeUserRepo()
	notifications := newFakeNotificationRepo()
	publisher := &fakePublisher{err: errors.New("broker down")}
	svc := NewNotificationService(notifications, users, publisher)

	ctx := context.Background()
	user := &entity.User{Email: "user@example.com", Name: "Uma"}
	require.NoError(t, users.Create(ctx, user))

	n, err := svc.Create(ctx, user.ID, entity.NotificationReminder, "Starts soon", nil)
	require.NoError(t, err)
	assert.NotZero(t, n.ID)

	stored, err := notifications.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}
