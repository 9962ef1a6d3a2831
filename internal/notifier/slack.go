package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/devparana/vagasbot/internal/model"
)

// Ensure SlackSink implements Sink.
var _ Sink = (*SlackSink)(nil)

// SlackSink posts payloads to a Slack Incoming Webhook.
type SlackSink struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewSlackSink returns a sink that posts to webhookURL.
func NewSlackSink(webhookURL string, httpClient *http.Client, logger *slog.Logger) *SlackSink {
	return &SlackSink{
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Post sends one message and waits for Slack's answer. Only HTTP 200 counts
// as delivered; any other status is returned as *model.HTTPError.
func (s *SlackSink) Post(ctx context.Context, p Payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post to slack: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post to slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		s.logger.Debug("slack rejected message", "status", resp.StatusCode, "body", string(msg))
		return &model.HTTPError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return nil
}
