package notify

import (
	"context"

	"schedule-api/feature/timetable/models"

	"go.uber.org/zap"
)

// Notifier receives a newly committed update exactly once, after the
// commit succeeds. Implementations handle the fan-out.
type Notifier interface {
	Notify(ctx context.Context, update *models.Update) error
}

// LogNotifier announces new updates in the log. It is the default when
// push notifications are disabled.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a log-only notifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, update *models.Update) error {
	n.logger.Info("New update committed",
		zap.String("hash", update.Hash),
		zap.Time("date", update.Date),
	)
	return nil
}
