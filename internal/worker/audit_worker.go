package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/user-directory/internal/events"
	"github.com/spec-kit/user-directory/internal/repository"
)

const (
	queueSize    = 256
	writeTimeout = 5 * time.Second
)

// AuditWorker consumes user lifecycle events and appends them to the
// audit trail off the request path. Enqueueing never blocks; when the
// queue is full the event is dropped and counted in the log.
type AuditWorker struct {
	audit  repository.AuditRepository
	logger *zap.Logger
	queue  chan events.Event
	done   chan struct{}
}

// NewAuditWorker builds a worker around the audit repository.
func NewAuditWorker(audit repository.AuditRepository, logger *zap.Logger) *AuditWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditWorker{
		audit:  audit,
		logger: logger,
		queue:  make(chan events.Event, queueSize),
		done:   make(chan struct{}),
	}
}

// Start subscribes the worker to lifecycle events and begins draining.
func (w *AuditWorker) Start(dispatcher events.Dispatcher) {
	for _, eventType := range []events.EventType{
		events.EventUserRegistered,
		events.EventUserUpdated,
		events.EventUserDeleted,
		events.EventUserLoggedIn,
		events.EventUserPasswordChanged,
	} {
		dispatcher.Subscribe(eventType, w.enqueue)
	}
	go w.run()
}

// Stop drains pending events and shuts the worker down.
func (w *AuditWorker) Stop() {
	close(w.queue)
	<-w.done
}

func (w *AuditWorker) enqueue(_ context.Context, event events.Event) error {
	select {
	case w.queue <- event:
	default:
		w.logger.Warn("audit queue full, dropping event",
			zap.String("type", string(event.Type)),
			zap.String("user_id", event.UserID))
	}
	return nil
}

func (w *AuditWorker) run() {
	defer close(w.done)
	for event := range w.queue {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := w.audit.Append(ctx, repository.AuditRecord{
			ID:        event.ID,
			EventType: string(event.Type),
			UserID:    event.UserID,
			Name:      event.Name,
			At:        event.Timestamp,
			Detail:    event.Detail,
		})
		cancel()
		if err != nil {
			w.logger.Warn("audit append failed", zap.Error(err),
				zap.String("type", string(event.Type)))
		}
	}
}
