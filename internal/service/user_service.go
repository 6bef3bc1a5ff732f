package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/user-directory/internal/auth"
	"github.com/spec-kit/user-directory/internal/domain"
	"github.com/spec-kit/user-directory/internal/events"
	"github.com/spec-kit/user-directory/internal/persistence"
	"github.com/spec-kit/user-directory/internal/repository"
)

const catalogCacheKey = "catalog:data"

// ErrNameTaken means the requested principal name already exists.
var ErrNameTaken = errors.New("name already registered")

// RegisterInput carries the fields for a new user record.
type RegisterInput struct {
	Name        string
	Phone       string
	Password    string
	Roles       []string
	Permissions []string
}

// UpdateInput carries mutable profile fields.
type UpdateInput struct {
	Phone       string
	Roles       []string
	Permissions []string
}

// UserService owns user record CRUD and the roles/permissions catalog.
type UserService struct {
	users      repository.UserRepository
	catalog    repository.CatalogRepository
	cache      *persistence.Redis
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
	catalogTTL time.Duration
}

// UserDependencies encapsulates requirements for the user service.
type UserDependencies struct {
	UserRepo    repository.UserRepository
	CatalogRepo repository.CatalogRepository
	Cache       *persistence.Redis
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	BcryptCost  int
	CatalogTTL  time.Duration
}

// NewUserService builds the service.
func NewUserService(deps UserDependencies) *UserService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		users:      deps.UserRepo,
		catalog:    deps.CatalogRepo,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		bcryptCost: deps.BcryptCost,
		catalogTTL: deps.CatalogTTL,
	}
}

// Register creates a new user record with a hashed secret.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.UserProfile, error) {
	if _, err := s.users.FindByName(ctx, input.Name); err == nil {
		return nil, ErrNameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	record := &domain.CredentialRecord{
		Name:         input.Name,
		Phone:        input.Phone,
		PasswordHash: hash,
		CreatedAt:    domain.Timestamp(time.Now()),
		Roles:        input.Roles,
		Permissions:  input.Permissions,
	}
	if err := s.users.Create(ctx, record); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventUserRegistered, record, "")
	profile := record.Profile()
	return &profile, nil
}

// Get returns the profile for the given record id.
func (s *UserService) Get(ctx context.Context, id string) (*domain.UserProfile, error) {
	record, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	profile := record.Profile()
	return &profile, nil
}

// List returns all user profiles.
func (s *UserService) List(ctx context.Context) ([]domain.UserProfile, error) {
	records, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	profiles := make([]domain.UserProfile, 0, len(records))
	for i := range records {
		profiles = append(profiles, records[i].Profile())
	}
	return profiles, nil
}

// Update replaces the mutable profile fields of a record.
func (s *UserService) Update(ctx context.Context, id string, input UpdateInput) (*domain.UserProfile, error) {
	record, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	record.Phone = input.Phone
	record.Roles = input.Roles
	record.Permissions = input.Permissions
	if err := s.users.Update(ctx, record); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventUserUpdated, record, "")
	profile := record.Profile()
	return &profile, nil
}

// Delete removes a user record.
func (s *UserService) Delete(ctx context.Context, id string) error {
	record, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, events.EventUserDeleted, record, "")
	return nil
}

// ChangePassword verifies the current secret before storing a new hash.
func (s *UserService) ChangePassword(ctx context.Context, id, current, next string) error {
	record, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}

	ok, err := auth.VerifyPassword(current, record.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify secret: %w", err)
	}
	if !ok {
		return ErrBadSecret
	}

	hash, err := auth.HashPassword(next, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	record.PasswordHash = hash
	if err := s.users.Update(ctx, record); err != nil {
		return err
	}

	s.publish(ctx, events.EventUserPasswordChanged, record, "")
	return nil
}

// ConfigData returns the roles/permissions catalog, consulting the cache
// first. Cache failures degrade to a direct store read.
func (s *UserService) ConfigData(ctx context.Context) (*domain.Catalog, error) {
	if cached := s.cachedCatalog(ctx); cached != nil {
		return cached, nil
	}

	catalog, err := s.catalog.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	s.storeCatalog(ctx, catalog)
	return catalog, nil
}

// NotifyLogin publishes a login event for the audit trail.
func (s *UserService) NotifyLogin(ctx context.Context, profile *domain.UserProfile) {
	s.publish(ctx, events.EventUserLoggedIn, &domain.CredentialRecord{ID: profile.ID, Name: profile.Name}, "")
}

func (s *UserService) publish(ctx context.Context, eventType events.EventType, record *domain.CredentialRecord, detail string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    record.ID,
		Name:      record.Name,
		Timestamp: time.Now(),
		Detail:    detail,
	})
}

func (s *UserService) cachedCatalog(ctx context.Context) *domain.Catalog {
	if s.cache == nil || s.cache.Client == nil || s.catalogTTL <= 0 {
		return nil
	}
	raw, err := s.cache.Client.Get(ctx, catalogCacheKey).Bytes()
	if err != nil {
		return nil
	}
	var catalog domain.Catalog
	if err := json.Unmarshal(raw, &catalog); err != nil {
		s.logger.Warn("dropping undecodable catalog cache entry", zap.Error(err))
		return nil
	}
	return &catalog
}

func (s *UserService) storeCatalog(ctx context.Context, catalog *domain.Catalog) {
	if s.cache == nil || s.cache.Client == nil || s.catalogTTL <= 0 {
		return
	}
	raw, err := json.Marshal(catalog)
	if err != nil {
		return
	}
	if err := s.cache.Client.Set(ctx, catalogCacheKey, raw, s.catalogTTL).Err(); err != nil {
		s.logger.Debug("catalog cache write failed", zap.Error(err))
	}
}
