package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	repository "github.com/eventdesk/eventdesk/internal/database/postgres"
	"github.com/eventdesk/eventdesk/internal/entity"
)

type RegisterUserRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Name        string `json:"name" binding:"required"`
	IsOrganizer bool   `json:"is_organizer"`
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) RegisterUser(ctx context.Context, req *RegisterUserRequest) (*entity.User, error) {
	if req == nil || req.Email == "" || req.Name == "" {
		return nil, entity.ErrInvalidInput
	}

	user := &entity.User{
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Name:        strings.TrimSpace(req.Name),
		IsOrganizer: req.IsOrganizer,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logrus.Infof("User %d registered (%s)", user.ID, user.Email)
	return user, nil
}

func (s *userService) GetUserByID(ctx context.Context, id int64) (*entity.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) GetAttendedEvents(ctx context.Context, userID int64) ([]int64, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	events, err := s.userRepo.GetAttendedEvents(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get attended events: %w", err)
	}
	return events, nil
}
