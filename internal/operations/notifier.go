package operations

import "log/slog"

// Notifier receives the user-facing outcome of each orchestrated operation.
// The presentation layer installs its own implementation; the default routes
// messages to the structured log.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type logNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a Notifier that writes notifications to the log.
func NewLogNotifier(logger *slog.Logger) Notifier {
	return &logNotifier{logger: logger.With("system", "notify")}
}

func (n *logNotifier) Success(msg string) {
	n.logger.Info(msg)
}

func (n *logNotifier) Error(msg string) {
	n.logger.Error(msg)
}
