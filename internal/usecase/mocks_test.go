package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// MockUserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *entity.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindMany(ctx context.Context, role string) ([]entity.PublicUser, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.PublicUser), args.Error(1)
}

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, l *entity.Lead) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindByIDWithActivities(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindMany(ctx context.Context, f LeadFilter, sort LeadSort, skip, take int) ([]entity.Lead, error) {
	args := m.Called(ctx, f, sort, skip, take)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Count(ctx context.Context, f LeadFilter) (int, error) {
	args := m.Called(ctx, f)
	return args.Int(0), args.Error(1)
}

func (m *MockLeadRepository) Update(ctx context.Context, l *entity.Lead) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLeadRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLeadRepository) IDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockLeadRepository) CreationDatesSince(ctx context.Context, since time.Time, leadIDs []string) ([]time.Time, error) {
	args := m.Called(ctx, since, leadIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]time.Time), args.Error(1)
}

// MockActivityRepository
type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Create(ctx context.Context, a *entity.Activity) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockActivityRepository) FindByLead(ctx context.Context, leadID string) ([]entity.Activity, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Activity), args.Error(1)
}

func (m *MockActivityRepository) DatesSince(ctx context.Context, since time.Time, leadIDs []string) ([]time.Time, error) {
	args := m.Called(ctx, since, leadIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]time.Time), args.Error(1)
}

// MockEventBus
type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Broadcast(event string, payload any) {
	m.Called(event, payload)
}

func (m *MockEventBus) Notify(userID string, event string, payload any) {
	m.Called(userID, event, payload)
}

// MockAuditRecorder
type MockAuditRecorder struct {
	mock.Mock
}

func (m *MockAuditRecorder) Record(userID *string, action, resource, resourceID string, meta map[string]any) {
	m.Called(userID, action, resource, resourceID, meta)
}

// MockMailService
type MockMailService struct {
	mock.Mock
}

func (m *MockMailService) SendLeadAssigned(to, ownerName, leadName string) error {
	args := m.Called(to, ownerName, leadName)
	return args.Error(0)
}

// MockOverviewCache
type MockOverviewCache struct {
	mock.Mock
}

func (m *MockOverviewCache) Get(ctx context.Context, key string) (*OverviewOutput, bool) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*OverviewOutput), args.Bool(1)
}

func (m *MockOverviewCache) Set(ctx context.Context, key string, out *OverviewOutput) {
	m.Called(ctx, key, out)
}
