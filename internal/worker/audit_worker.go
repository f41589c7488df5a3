package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fricdix/bi-dashboard/internal/domain"
	"github.com/fricdix/bi-dashboard/internal/events"
	"github.com/fricdix/bi-dashboard/internal/repository"
)

// AuditWorker persists account activity events off the request path.
type AuditWorker struct {
	repo   repository.AuditRepository
	logger *zap.Logger
	queue  chan events.Event
	done   chan struct{}
}

// NewAuditWorker builds the worker with a bounded queue. A full queue drops
// the oldest-first guarantee in favor of never blocking a request handler.
func NewAuditWorker(repo repository.AuditRepository, logger *zap.Logger) *AuditWorker {
	return &AuditWorker{
		repo:   repo,
		logger: logger,
		queue:  make(chan events.Event, 256),
		done:   make(chan struct{}),
	}
}

// Start subscribes to account events and begins draining the queue.
func (w *AuditWorker) Start(dispatcher events.Dispatcher) {
	for _, eventType := range []events.EventType{
		events.EventLoginSucceeded,
		events.EventUserRegistered,
		events.EventUserCreated,
		events.EventRoleChanged,
		events.EventUserDeleted,
	} {
		dispatcher.Subscribe(eventType, w.enqueue)
	}
	go w.run()
}

// Stop drains the queue and waits for the writer to exit.
func (w *AuditWorker) Stop() {
	close(w.queue)
	<-w.done
}

func (w *AuditWorker) enqueue(_ context.Context, event events.Event) error {
	select {
	case w.queue <- event:
	default:
		w.logger.Warn("audit queue full; dropping event",
			zap.String("event_type", string(event.Type)),
			zap.String("event_id", event.ID))
	}
	return nil
}

func (w *AuditWorker) run() {
	defer close(w.done)
	for event := range w.queue {
		entry := &domain.AuditEntry{
			ID:         event.ID,
			Action:     string(event.Type),
			ActorID:    event.Actor.ID,
			ActorEmail: event.Actor.Email,
			TargetID:   event.TargetID,
			Detail:     event.Detail,
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := w.repo.Create(ctx, entry); err != nil {
			w.logger.Error("persist audit entry", zap.Error(err), zap.String("event_id", event.ID))
		}
		cancel()
	}
}
