// Package notify alerts operators when scrape tasks reach a status worth
// attention, typically failed.
package notify

import (
	"context"
	"log/slog"

	"github.com/donaldgifford/fiscus-ingest/internal/events"
	domain "github.com/donaldgifford/fiscus-ingest/pkg/types"
)

// Notifier delivers one task alert.
type Notifier interface {
	NotifyTask(ctx context.Context, ev events.TaskEvent) error
}

// Publisher adapts a Notifier to events.Publisher, forwarding only events
// whose status is in the alert set.
type Publisher struct {
	notifier Notifier
	statuses map[domain.TaskStatus]struct{}
	log      *slog.Logger
}

var _ events.Publisher = (*Publisher)(nil)

// NewPublisher forwards events with one of statuses to n. An empty status
// list alerts on failed tasks only.
func NewPublisher(n Notifier, statuses []domain.TaskStatus, log *slog.Logger) *Publisher {
	if len(statuses) == 0 {
		statuses = []domain.TaskStatus{domain.TaskFailed}
	}
	set := make(map[domain.TaskStatus]struct{}, len(statuses))
	for _, s := range statuses {
		set[s] = struct{}{}
	}
	return &Publisher{notifier: n, statuses: set, log: log}
}

// Publish sends an alert when ev's status is in the alert set.
func (p *Publisher) Publish(ctx context.Context, ev events.TaskEvent) error {
	if _, ok := p.statuses[ev.Status]; !ok {
		return nil
	}
	if err := p.notifier.NotifyTask(ctx, ev); err != nil {
		return err
	}
	p.log.Info("task alert sent", "task_id", ev.TaskID, "status", ev.Status)
	return nil
}
