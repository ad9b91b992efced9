// Package scheduler
package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/zyromarketplace/zyro-backend/app/services"
	"github.com/zyromarketplace/zyro-backend/models"
	"github.com/zyromarketplace/zyro-backend/repository"
	"github.com/zyromarketplace/zyro-backend/utils"
)

// NotificationDispatcher drains the notification outbox and runs the content
// reminder loop. Rows are written by the business flows inside their own
// transactions; this loop only delivers and records the result, so a crash
// between write and delivery re-delivers instead of losing the notification.
type NotificationDispatcher struct {
	notificationRepo repository.NotificationRepository
	requestRepo      repository.CollaborationRequestRepository
	userRepo         repository.UserRepository
	notifier         services.NotificationService
	logger           *log.Logger
	interval         time.Duration
	reminderCutoff   time.Duration

	logFile *os.File
}

func NewNotificationDispatcher(
	notificationRepo repository.NotificationRepository,
	requestRepo repository.CollaborationRequestRepository,
	userRepo repository.UserRepository,
	notifier services.NotificationService,
	interval time.Duration,
	reminderCutoff time.Duration,
) *NotificationDispatcher {
	if interval <= 0 {
		interval = time.Minute
	}
	if reminderCutoff <= 0 {
		reminderCutoff = 48 * time.Hour
	}

	d := &NotificationDispatcher{
		notificationRepo: notificationRepo,
		requestRepo:      requestRepo,
		userRepo:         userRepo,
		notifier:         notifier,
		interval:         interval,
		reminderCutoff:   reminderCutoff,
	}

	// Initialize dispatcher-specific logger (to stdout and persistent file)
	if err := d.initDispatcherLogger(); err != nil {
		d.logger = log.Default()
		d.logger.Printf("dispatcher: failed to initialize file logger: %v", err)
	}

	return d
}

// initDispatcherLogger configures a logger that writes to both stdout and a persistent file under data/ (or /data)
func (d *NotificationDispatcher) initDispatcherLogger() error {
	candidates := []string{
		filepath.Join("data"),
		"/data",
	}
	for _, dir := range candidates {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			continue
		}
		logPath := filepath.Join(dir, "dispatcher.log")
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			continue
		}
		d.logFile = f
		mw := io.MultiWriter(os.Stdout, f)
		d.logger = log.New(mw, "dispatcher ", log.LstdFlags|log.Lmicroseconds|log.LUTC)
		return nil
	}
	return fmt.Errorf("could not create dispatcher log file in any candidate directory")
}

// Start launches the outbox loop and the reminder loop in background
// goroutines and returns a stop function.
func (d *NotificationDispatcher) Start(parent context.Context) func() {
	ctx, cancel := context.WithCancel(parent)

	go func() {
		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()

		d.runOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				d.runOnce(ctx)
			}
		}
	}()

	// Reminder loop runs on a coarser clock than delivery
	go d.startReminderWorker(ctx)

	return cancel
}

func (d *NotificationDispatcher) runOnce(ctx context.Context) {
	pending, err := d.notificationRepo.ListPending(ctx, utils.NotificationDispatchBatch)
	if err != nil {
		d.logger.Printf("dispatcher: list pending failed: %v", err)
		return
	}
	if len(pending) == 0 {
		return
	}
	d.logger.Printf("dispatcher: delivering %d pending notifications", len(pending))

	for _, n := range pending {
		if err := d.deliver(ctx, n); err != nil {
			d.logger.Printf("dispatcher: deliver notification id=%d failed: %v", n.ID, err)
			if markErr := d.notificationRepo.MarkFailed(ctx, n.ID, n.Attempts+1, err.Error()); markErr != nil {
				d.logger.Printf("dispatcher: mark failed id=%d: %v", n.ID, markErr)
			}
			continue
		}
		if err := d.notificationRepo.MarkSent(ctx, n.ID, utils.UTCNow()); err != nil {
			d.logger.Printf("dispatcher: mark sent id=%d: %v", n.ID, err)
		}
	}
}

func (d *NotificationDispatcher) deliver(ctx context.Context, n *models.Notification) error {
	// Rows without a user form the admin review queue. They are consumed
	// in the admin panel, nothing to push.
	if n.UserID == nil {
		return nil
	}

	user, err := d.userRepo.ByID(ctx, *n.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("notification id=%d references unknown user id=%d", n.ID, *n.UserID)
	}

	// The push provider routes by the user's stable UUID
	if err := d.notifier.SendPush(user.UUID.String(), n.Title, n.Body); err != nil {
		return err
	}

	// Email delivery is best effort on top of push
	if err := d.notifier.SendEmail(user.Email, n.Title, n.Body); err != nil {
		d.logger.Printf("dispatcher: email to user id=%d failed: %v", user.ID, err)
	}

	return nil
}

// startReminderWorker nudges influencers sitting on approved requests without
// delivered content.
func (d *NotificationDispatcher) startReminderWorker(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	d.runReminders(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.runReminders(ctx)
		}
	}
}

func (d *NotificationDispatcher) runReminders(ctx context.Context) {
	cutoff := utils.UTCNow().Add(-d.reminderCutoff)
	stale, err := d.requestRepo.ListApprovedWithDeadlineBefore(ctx, cutoff)
	if err != nil {
		d.logger.Printf("dispatcher: list stale requests failed: %v", err)
		return
	}
	if len(stale) == 0 {
		return
	}

	for _, r := range stale {
		if err := d.remind(ctx, r); err != nil {
			d.logger.Printf("dispatcher: remind request id=%d failed: %v", r.ID, err)
		}
	}
}

func (d *NotificationDispatcher) remind(ctx context.Context, request *models.CollaborationRequest) error {
	// At most one reminder per request and day
	since := utils.UTCNow().Add(-24 * time.Hour)
	event := models.EventContentReminder
	already, err := d.notificationRepo.Exists(ctx, models.NotificationFilter{
		UserID:       &request.InfluencerID,
		Event:        &event,
		CreatedAfter: &since,
	})
	if err != nil {
		return err
	}
	if already {
		return nil
	}

	campaignTitle := ""
	if request.Campaign != nil {
		campaignTitle = request.Campaign.Title
	}

	title, body := services.RenderNotification(event, map[string]string{
		"campaign_title": campaignTitle,
	})

	data, err := json.Marshal(map[string]any{"request_uuid": request.UUID.String()})
	if err != nil {
		return err
	}

	return d.notificationRepo.Save(ctx, &models.Notification{
		UserID: &request.InfluencerID,
		Event:  event,
		Status: models.NotificationStatusPending,
		Title:  title,
		Body:   body,
		Data:   data,
	})
}
