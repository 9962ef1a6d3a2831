// Package notifier announces pending job records on a chat sink and marks
// them processed once the sink confirms delivery.
package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/devparana/vagasbot/internal/model"
	"github.com/devparana/vagasbot/internal/ratelimit"
)

// Sink delivers one rendered message. Post blocks until the sink answers.
type Sink interface {
	Post(ctx context.Context, p Payload) error
}

// Notifier dispatches pending records one at a time.
type Notifier struct {
	sink   Sink
	store  model.RecordStore
	pacer  *ratelimit.Pacer
	now    func() time.Time
	logger *slog.Logger
}

// NewNotifier wires a notifier. pacer supplies the pause after every post.
func NewNotifier(sink Sink, store model.RecordStore, pacer *ratelimit.Pacer, logger *slog.Logger) *Notifier {
	return &Notifier{
		sink:   sink,
		store:  store,
		pacer:  pacer,
		now:    time.Now,
		logger: logger,
	}
}

// Dispatch posts records in order. A record is marked processed only after
// the sink confirms it. The first failed post stops the dispatch with a
// *model.DeliveryError; that record and the rest stay pending. The pacer
// pause follows every post, successful or not.
func (n *Notifier) Dispatch(ctx context.Context, records []model.JobRecord) (int, error) {
	sent := 0
	for i, rec := range records {
		index := i + 1
		n.logger.Info("processing item", "item", index, "id", rec.ID, "title", rec.Title, "date", formatDate(rec.Date))

		postErr := n.sink.Post(ctx, BuildPayload(rec))
		if postErr == nil {
			if err := n.store.MarkProcessed(rec.ID, n.now()); err != nil {
				return sent, fmt.Errorf("dispatch item %d: %w", index, err)
			}
			sent++
			n.logger.Info("done posting item", "item", index)
		}

		waitErr := n.pacer.Wait(ctx)
		if postErr != nil {
			return sent, &model.DeliveryError{Index: index, ID: rec.ID, Err: postErr}
		}
		if waitErr != nil {
			return sent, waitErr
		}
	}
	return sent, nil
}

// SendTestMessage posts a sample job announcement to verify the integration.
func SendTestMessage(ctx context.Context, sink Sink) error {
	now := time.Now()
	return sink.Post(ctx, BuildPayload(model.JobRecord{
		ID:     "test-001",
		Title:  "Vaga de teste - integração verificada",
		City:   "Curitiba - PR",
		URL:    "https://github.com/devparana/vagasbot",
		Labels: []string{"Teste"},
		Date:   now.Unix(),
	}))
}
