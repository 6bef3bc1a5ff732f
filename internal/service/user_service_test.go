package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/user-directory/internal/auth"
	"github.com/spec-kit/user-directory/internal/domain"
	"github.com/spec-kit/user-directory/internal/events"
	"github.com/spec-kit/user-directory/internal/repository"
)

type memCatalogRepository struct {
	catalog domain.Catalog
	calls   int
}

func (m *memCatalogRepository) Catalog(_ context.Context) (*domain.Catalog, error) {
	m.calls++
	catalog := m.catalog
	return &catalog, nil
}

type eventCollector struct {
	mu     sync.Mutex
	events []events.Event
}

func (c *eventCollector) handler(_ context.Context, event events.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return nil
}

func (c *eventCollector) byType(eventType events.EventType) []events.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	var matched []events.Event
	for _, e := range c.events {
		if e.Type == eventType {
			matched = append(matched, e)
		}
	}
	return matched
}

func newTestUserService(t *testing.T) (*UserService, *memUserRepository, *eventCollector) {
	t.Helper()
	repo := newMemUserRepository()
	dispatcher := events.NewInMemoryDispatcher()
	collector := &eventCollector{}
	for _, eventType := range []events.EventType{
		events.EventUserRegistered,
		events.EventUserUpdated,
		events.EventUserDeleted,
		events.EventUserPasswordChanged,
	} {
		dispatcher.Subscribe(eventType, collector.handler)
	}

	svc := NewUserService(UserDependencies{
		UserRepo:    repo,
		CatalogRepo: &memCatalogRepository{catalog: domain.Catalog{Roles: []string{"admin"}, Permissions: []string{"read"}}},
		Dispatcher:  dispatcher,
		BcryptCost:  bcrypt.MinCost,
	})
	return svc, repo, collector
}

func TestUserService_Register(t *testing.T) {
	svc, repo, collector := newTestUserService(t)

	profile, err := svc.Register(context.Background(), RegisterInput{
		Name:     "alice",
		Phone:    "12344",
		Password: "hunter2",
		Roles:    []string{"admin"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, profile.ID)
	assert.NotEmpty(t, profile.CreatedAt)

	stored, err := repo.FindByName(context.Background(), "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", stored.PasswordHash)
	ok, err := auth.VerifyPassword("hunter2", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Len(t, collector.byType(events.EventUserRegistered), 1)
}

func TestUserService_RegisterDuplicateName(t *testing.T) {
	svc, _, _ := newTestUserService(t)

	_, err := svc.Register(context.Background(), RegisterInput{Name: "alice", Password: "hunter2"})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterInput{Name: "alice", Password: "other"})
	assert.ErrorIs(t, err, ErrNameTaken)
}

func TestUserService_UpdateAndDelete(t *testing.T) {
	svc, _, collector := newTestUserService(t)

	profile, err := svc.Register(context.Background(), RegisterInput{Name: "alice", Password: "hunter2"})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), profile.ID, UpdateInput{
		Phone: "55555",
		Roles: []string{"admin", "super"},
	})
	require.NoError(t, err)
	assert.Equal(t, "55555", updated.Phone)
	assert.Equal(t, []string{"admin", "super"}, updated.Roles)

	require.NoError(t, svc.Delete(context.Background(), profile.ID))
	_, err = svc.Get(context.Background(), profile.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.Len(t, collector.byType(events.EventUserUpdated), 1)
	assert.Len(t, collector.byType(events.EventUserDeleted), 1)
}

func TestUserService_ChangePassword(t *testing.T) {
	svc, repo, collector := newTestUserService(t)

	profile, err := svc.Register(context.Background(), RegisterInput{Name: "alice", Password: "hunter2"})
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), profile.ID, "wrong", "next")
	assert.ErrorIs(t, err, ErrBadSecret)

	require.NoError(t, svc.ChangePassword(context.Background(), profile.ID, "hunter2", "correcthorse"))

	stored, err := repo.FindByID(context.Background(), profile.ID)
	require.NoError(t, err)
	ok, err := auth.VerifyPassword("correcthorse", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Len(t, collector.byType(events.EventUserPasswordChanged), 1)
}

func TestUserService_ConfigData(t *testing.T) {
	catalogRepo := &memCatalogRepository{catalog: domain.Catalog{
		Roles:       []string{"admin", "super"},
		Permissions: []string{"read", "write"},
	}}
	svc := NewUserService(UserDependencies{
		UserRepo:    newMemUserRepository(),
		CatalogRepo: catalogRepo,
		BcryptCost:  bcrypt.MinCost,
	})

	catalog, err := svc.ConfigData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"admin", "super"}, catalog.Roles)
	assert.Equal(t, []string{"read", "write"}, catalog.Permissions)
	// no cache configured: straight through to the store
	assert.Equal(t, 1, catalogRepo.calls)
}
