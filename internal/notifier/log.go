package notifier

import (
	"context"
	"log/slog"
)

// Ensure LogSink implements Sink.
var _ Sink = (*LogSink)(nil)

// LogSink writes payloads to the logger instead of sending them. It backs
// dry runs and the "log" notification type.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink returns a sink that logs each payload via slog.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Post logs the message. Returns nil (stdout logging does not fail).
func (n *LogSink) Post(_ context.Context, p Payload) error {
	args := []any{"text", p.Text}
	for _, a := range p.Attachments {
		args = append(args, "title", a.Title, "link", a.TitleLink, "body", a.Text)
	}
	n.logger.Info("job notification", args...)
	return nil
}
