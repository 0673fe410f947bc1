package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-crm/internal/auth"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// MockUserRepositoryHandler
type MockUserRepositoryHandler struct {
	mock.Mock
}

func (m *MockUserRepositoryHandler) Create(ctx context.Context, u *entity.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepositoryHandler) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepositoryHandler) FindByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepositoryHandler) FindMany(ctx context.Context, role string) ([]entity.PublicUser, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.PublicUser), args.Error(1)
}

// MockLeadRepositoryHandler
type MockLeadRepositoryHandler struct {
	mock.Mock
}

func (m *MockLeadRepositoryHandler) Create(ctx context.Context, l *entity.Lead) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLeadRepositoryHandler) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepositoryHandler) FindByIDWithActivities(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepositoryHandler) FindMany(ctx context.Context, f usecase.LeadFilter, sort usecase.LeadSort, skip, take int) ([]entity.Lead, error) {
	args := m.Called(ctx, f, sort, skip, take)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Lead), args.Error(1)
}

func (m *MockLeadRepositoryHandler) Count(ctx context.Context, f usecase.LeadFilter) (int, error) {
	args := m.Called(ctx, f)
	return args.Int(0), args.Error(1)
}

func (m *MockLeadRepositoryHandler) Update(ctx context.Context, l *entity.Lead) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLeadRepositoryHandler) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLeadRepositoryHandler) IDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockLeadRepositoryHandler) CreationDatesSince(ctx context.Context, since time.Time, leadIDs []string) ([]time.Time, error) {
	args := m.Called(ctx, since, leadIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]time.Time), args.Error(1)
}

// MockActivityRepositoryHandler
type MockActivityRepositoryHandler struct {
	mock.Mock
}

func (m *MockActivityRepositoryHandler) Create(ctx context.Context, a *entity.Activity) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockActivityRepositoryHandler) FindByLead(ctx context.Context, leadID string) ([]entity.Activity, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Activity), args.Error(1)
}

func (m *MockActivityRepositoryHandler) DatesSince(ctx context.Context, since time.Time, leadIDs []string) ([]time.Time, error) {
	args := m.Called(ctx, since, leadIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]time.Time), args.Error(1)
}

// MockAuditRecorderHandler
type MockAuditRecorderHandler struct {
	mock.Mock
}

func (m *MockAuditRecorderHandler) Record(userID *string, action, resource, resourceID string, meta map[string]any) {
	m.Called(userID, action, resource, resourceID, meta)
}

func newTestTokens(t *testing.T) *auth.TokenManager {
	t.Helper()
	tokens, err := auth.NewTokenManager("segredo-de-teste-bem-longo", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	return tokens
}

// ============ TESTES DOS HANDLERS ============

func TestLoginHandlerSuccess(t *testing.T) {
	hash, _ := auth.HashPassword("seguro123")
	user := entity.NewUser("Maria Souza", "maria@example.com", hash, entity.RoleSalesExec)

	mockUsers := new(MockUserRepositoryHandler)
	mockUsers.On("FindByEmail", mock.Anything, "maria@example.com").Return(user, nil)

	loginUC := usecase.NewLoginUseCase(mockUsers, newTestTokens(t))
	handler := NewAuthHandler(nil, loginUC, mockUsers)

	body, _ := json.Marshal(map[string]string{"email": "maria@example.com", "password": "seguro123"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	handler.HandleLogin(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var out usecase.LoginOutput
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "maria@example.com", out.User.Email)
}

func TestLoginHandlerInvalidCredentials(t *testing.T) {
	mockUsers := new(MockUserRepositoryHandler)
	mockUsers.On("FindByEmail", mock.Anything, "maria@example.com").Return(nil, entity.ErrUserNotFound)

	loginUC := usecase.NewLoginUseCase(mockUsers, newTestTokens(t))
	handler := NewAuthHandler(nil, loginUC, mockUsers)

	body, _ := json.Marshal(map[string]string{"email": "maria@example.com", "password": "errada123"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	handler.HandleLogin(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	var out errorResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Equal(t, usecase.CodeInvalidCredentials, out.Error.Code)
}

func TestRegisterHandlerPublicSignupForcesSalesExec(t *testing.T) {
	mockUsers := new(MockUserRepositoryHandler)
	mockAudit := new(MockAuditRecorderHandler)
	mockUsers.On("Create", mock.Anything, mock.Anything).Return(nil)
	mockAudit.On("Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	registerUC := usecase.NewRegisterUseCase(mockUsers, mockAudit)
	handler := NewAuthHandler(registerUC, nil, mockUsers)

	body, _ := json.Marshal(map[string]string{
		"name":     "Maria Souza",
		"email":    "maria@example.com",
		"password": "seguro123",
		"role":     "ADMIN",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	handler.HandleRegister(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	var out entity.PublicUser
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Equal(t, entity.RoleSalesExec, out.Role)
}

func TestRegisterHandlerDuplicateEmailConflict(t *testing.T) {
	mockUsers := new(MockUserRepositoryHandler)
	mockAudit := new(MockAuditRecorderHandler)
	mockUsers.On("Create", mock.Anything, mock.Anything).Return(entity.ErrEmailAlreadyExists)

	registerUC := usecase.NewRegisterUseCase(mockUsers, mockAudit)
	handler := NewAuthHandler(registerUC, nil, mockUsers)

	body, _ := json.Marshal(map[string]string{
		"name":     "Maria Souza",
		"email":    "maria@example.com",
		"password": "seguro123",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	handler.HandleRegister(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestLeadListClampsPagination(t *testing.T) {
	mockLeads := new(MockLeadRepositoryHandler)
	mockLeads.On("FindMany", mock.Anything, mock.Anything, mock.Anything, 100, 100).
		Return([]entity.Lead{}, nil)
	mockLeads.On("Count", mock.Anything, mock.Anything).Return(250, nil)

	handler := NewLeadHandler(nil, nil, nil, mockLeads)

	req := httptest.NewRequest(http.MethodGet, "/api/leads?page=2&limit=5000", nil)
	req = req.WithContext(auth.ContextWithPrincipal(req.Context(), auth.Principal{ID: "exec-1", Role: entity.RoleSalesExec}))
	rr := httptest.NewRecorder()

	handler.HandleList(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var page leadPage
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 100, page.Limit) // limite cortado em 100
	assert.Equal(t, 250, page.Total)
	assert.Equal(t, 3, page.Pages)
}

func TestLeadListMineFiltersOwner(t *testing.T) {
	mockLeads := new(MockLeadRepositoryHandler)
	mockLeads.On("FindMany", mock.Anything,
		usecase.LeadFilter{OwnerID: "exec-1"}, mock.Anything, 0, 10).
		Return([]entity.Lead{}, nil)
	mockLeads.On("Count", mock.Anything, usecase.LeadFilter{OwnerID: "exec-1"}).Return(0, nil)

	handler := NewLeadHandler(nil, nil, nil, mockLeads)

	req := httptest.NewRequest(http.MethodGet, "/api/leads?mine=true", nil)
	req = req.WithContext(auth.ContextWithPrincipal(req.Context(), auth.Principal{ID: "exec-1", Role: entity.RoleSalesExec}))
	rr := httptest.NewRecorder()

	handler.HandleList(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	mockLeads.AssertExpectations(t)
}

func TestLeadGetNotFound(t *testing.T) {
	mockLeads := new(MockLeadRepositoryHandler)
	mockLeads.On("FindByIDWithActivities", mock.Anything, "fantasma").Return(nil, entity.ErrLeadNotFound)

	handler := NewLeadHandler(nil, nil, nil, mockLeads)

	r := chi.NewRouter()
	r.Get("/api/leads/{id}", handler.HandleGet)

	req := httptest.NewRequest(http.MethodGet, "/api/leads/fantasma", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestActivityTimelineRouteByLead(t *testing.T) {
	mockActivities := new(MockActivityRepositoryHandler)
	mockActivities.On("FindByLead", mock.Anything, "lead-1").Return([]entity.Activity{
		*entity.NewActivity("lead-1", entity.ActivityNote, "primeiro contato", nil),
	}, nil)

	handler := NewActivityHandler(nil, mockActivities)

	// Mesmo shape de registro do main: a timeline vive em /by-lead/{leadId}.
	r := chi.NewRouter()
	r.Route("/api/activities", func(r chi.Router) {
		r.Get("/by-lead/{leadId}", handler.HandleListByLead)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/activities/by-lead/lead-1", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var items []entity.Activity
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&items))
	assert.Len(t, items, 1)
	assert.Equal(t, "primeiro contato", items[0].Note)
	mockActivities.AssertCalled(t, "FindByLead", mock.Anything, "lead-1")
}

// ============ TESTES DO MIDDLEWARE ============

func TestAuthenticatorRejectsMissingToken(t *testing.T) {
	handler := middleware.Authenticator(newTestTokens(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuthenticatorInjectsPrincipal(t *testing.T) {
	tokens := newTestTokens(t)
	token, _ := tokens.Generate("user-42", entity.RoleManager)

	var seen auth.Principal
	handler := middleware.Authenticator(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "user-42", seen.ID)
	assert.Equal(t, entity.RoleManager, seen.Role)
}

func TestRequireRoleForbidsSalesExec(t *testing.T) {
	tokens := newTestTokens(t)
	token, _ := tokens.Generate("exec-1", entity.RoleSalesExec)

	r := chi.NewRouter()
	r.Use(middleware.Authenticator(tokens))
	r.Use(middleware.RequireRole(entity.RoleAdmin, entity.RoleManager))
	r.Get("/api/logs", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/logs", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestStatusForCodeMapping(t *testing.T) {
	cases := map[string]int{
		usecase.CodeValidation:         http.StatusBadRequest,
		usecase.CodeInvalidCredentials: http.StatusUnauthorized,
		usecase.CodeForbidden:          http.StatusForbidden,
		usecase.CodeLeadNotFound:       http.StatusNotFound,
		usecase.CodeOwnerNotFound:      http.StatusNotFound,
		usecase.CodeEmailInUse:         http.StatusConflict,
		"ALGO_INESPERADO":              http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, statusForCode(code), code)
	}
}
