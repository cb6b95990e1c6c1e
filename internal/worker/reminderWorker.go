package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	repository "github.com/eventdesk/eventdesk/internal/database/postgres"
	"github.com/eventdesk/eventdesk/internal/entity"
	"github.com/eventdesk/eventdesk/internal/service"
)

// ReminderWorker sends a reminder notification to every confirmed attendee
// of events starting inside the reminder window, at most once per
// event/user pair.
type ReminderWorker struct {
	eventRepo        repository.EventRepository
	registrationRepo repository.RegistrationRepository
	notificationRepo repository.NotificationRepository
	notifier         service.NotificationService
	interval         time.Duration
	window           time.Duration
}

func NewReminderWorker(
	eventRepo repository.EventRepository,
	registrationRepo repository.RegistrationRepository,
	notificationRepo repository.NotificationRepository,
	notifier service.NotificationService,
	interval, window time.Duration,
) *ReminderWorker {
	return &ReminderWorker{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		notificationRepo: notificationRepo,
		notifier:         notifier,
		interval:         interval,
		window:           window,
	}
}

func (w *ReminderWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logrus.Info("Reminder worker started")

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Reminder worker stopped")
			return
		case <-ticker.C:
			w.sendReminders(ctx)
		}
	}
}

func (w *ReminderWorker) sendReminders(ctx context.Context) {
	now := time.Now()

	events, err := w.eventRepo.GetStartingBetween(ctx, now, now.Add(w.window))
	if err != nil {
		logrus.Errorf("Failed to get upcoming events for reminders: %v", err)
		return
	}

	if len(events) == 0 {
		return
	}

	sentCount := 0
	failedCount := 0

	for _, event := range events {
		select {
		case <-ctx.Done():
			logrus.Info("Reminder run interrupted by context cancellation")
			return
		default:
		}

		if event.Status != entity.EventStatusPublished {
			continue
		}

		registrations, err := w.registrationRepo.GetByEventAndStatuses(ctx, event.ID,
			entity.RegistrationStatusConfirmed)
		if err != nil {
			logrus.Errorf("Failed to get confirmed registrations for event %d: %v", event.ID, err)
			failedCount++
			continue
		}

		for _, reg := range registrations {
			reminded, err := w.notificationRepo.HasReminder(ctx, reg.AttendeeID, event.ID)
			if err != nil {
				logrus.Errorf("Failed to check reminder for user %d event %d: %v", reg.AttendeeID, event.ID, err)
				failedCount++
				continue
			}
			if reminded {
				continue
			}

			eventID := event.ID
			if _, err := w.notifier.Create(ctx, reg.AttendeeID, entity.NotificationReminder,
				fmt.Sprintf("Reminder: %q starts at %s.", event.Title, event.StartsAt.Format(time.RFC1123)),
				&eventID); err != nil {
				logrus.Errorf("Failed to send reminder to user %d: %v", reg.AttendeeID, err)
				failedCount++
				continue
			}
			sentCount++
		}
	}

	if sentCount > 0 || failedCount > 0 {
		logrus.Infof("Reminder run completed: %d sent, %d failed", sentCount, failedCount)
	}
}
