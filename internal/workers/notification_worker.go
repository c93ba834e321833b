package workers

import (
	"github.com/robfig/cron/v3"

	"permiso_backend/internal/logger"
	"permiso_backend/internal/services"
)

// NotificationWorker purges read notifications past the retention window
// on a cron schedule.
type NotificationWorker struct {
	notifications services.NotificationService
	retentionDays int
	schedule      string
	cron          *cron.Cron
}

func NewNotificationWorker(notifications services.NotificationService, retentionDays int, schedule string) *NotificationWorker {
	return &NotificationWorker{
		notifications: notifications,
		retentionDays: retentionDays,
		schedule:      schedule,
		cron:          cron.New(),
	}
}

func (w *NotificationWorker) Start() error {
	_, err := w.cron.AddFunc(w.schedule, w.runCleanup)
	if err != nil {
		return err
	}
	w.cron.Start()
	logger.Info("notification cleanup worker scheduled",
		"cron", w.schedule, "retention_days", w.retentionDays)
	return nil
}

func (w *NotificationWorker) Stop() {
	w.cron.Stop()
}

func (w *NotificationWorker) runCleanup() {
	deleted, err := w.notifications.CleanOldNotifications(w.retentionDays)
	if err != nil {
		logger.WorkerLog("notification-cleanup", "purge read notifications", err)
		return
	}
	logger.WorkerLog("notification-cleanup", "purge read notifications", nil)
	logger.Debug("notification cleanup result", "deleted", deleted)
}
