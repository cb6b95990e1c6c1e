package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventdesk/eventdesk/internal/entity"
)

func TestRegisterUserNormalizesEmail(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())

	user, err := svc.RegisterUser(context.Background(), &RegisterUserRequest{
		Email: "  Uma@Example.COM ",
		Name:  " Uma ",
	})
	require.NoError(t, err)

	assert.Equal(t, "uma@example.com", user.Email)
	assert.Equal(t, "Uma", user.Name)
}

func TestRegisterUserRejectsDuplicateEmail(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.RegisterUser(ctx, &RegisterUserRequest{Email: "uma@example.com", Name: "Uma"})
	require.NoError(t, err)

	_, err = svc.RegisterUser(ctx, &RegisterUserRequest{Email: "UMA@example.com", Name: "Other"})
	assert.ErrorIs(t, err, entity.ErrUserAlreadyExists)
}

func TestGetAttendedEvents(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewUserService(users)
	ctx := context.Background()

	user := &entity.User{Email: "uma@example.com", Name: "Uma"}
	require.NoError(t, users.Create(ctx, user))
	require.NoError(t, users.AddAttendedEvent(ctx, user.ID, 7))
	require.NoError(t, users.AddAttendedEvent(ctx, user.ID, 7))
	require.NoError(t, users.AddAttendedEvent(ctx, user.ID, 9))

	events, err := svc.GetAttendedEvents(ctx, user.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{7, 9}, events)

	_, err = svc.GetAttendedEvents(ctx, 404)
	assert.ErrorIs(t, err, entity.ErrUserNotFound)
}
