package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/user-directory/internal/events"
	"github.com/spec-kit/user-directory/internal/repository"
)

type memAuditRepository struct {
	mu      sync.Mutex
	records []repository.AuditRecord
}

func (m *memAuditRepository) Append(_ context.Context, record repository.AuditRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, record)
	return nil
}

func (m *memAuditRepository) all() []repository.AuditRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]repository.AuditRecord{}, m.records...)
}

func TestAuditWorker_PersistsLifecycleEvents(t *testing.T) {
	repo := &memAuditRepository{}
	dispatcher := events.NewInMemoryDispatcher()

	w := NewAuditWorker(repo, zap.NewNop())
	w.Start(dispatcher)

	now := time.Now()
	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{
		ID: "e1", Type: events.EventUserRegistered, UserID: "u1", Name: "alice", Timestamp: now,
	}))
	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{
		ID: "e2", Type: events.EventUserLoggedIn, UserID: "u1", Name: "alice", Timestamp: now,
	}))

	w.Stop()

	records := repo.all()
	require.Len(t, records, 2)
	assert.Equal(t, "user_registered", records[0].EventType)
	assert.Equal(t, "user_logged_in", records[1].EventType)
	assert.Equal(t, "alice", records[0].Name)
}
