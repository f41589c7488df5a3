package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fricdix/bi-dashboard/internal/auth"
	"github.com/fricdix/bi-dashboard/internal/config"
	"github.com/fricdix/bi-dashboard/internal/domain"
	"github.com/fricdix/bi-dashboard/internal/events"
	apperrors "github.com/fricdix/bi-dashboard/pkg/util"
)

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[string]*domain.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	user.ID = "acc-" + string(rune('0'+f.nextID))
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.User
	for _, user := range f.users {
		out = append(out, *user)
	}
	return out, nil
}

func (f *fakeUserRepo) UpdateRole(_ context.Context, id string, role domain.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.Role = role
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.users, id)
	return nil
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (r *recordingDispatcher) byType(eventType events.EventType) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Event
	for _, event := range r.events {
		if event.Type == eventType {
			out = append(out, event)
		}
	}
	return out
}

func testAuthService(t *testing.T) (*AuthService, *fakeUserRepo, *recordingDispatcher) {
	t.Helper()
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:      strings.Repeat("k", 32),
			SessionTTLDays: 7,
			BcryptCost:     4, // minimum cost keeps tests fast
		},
	}
	repo := newFakeUserRepo()
	dispatcher := &recordingDispatcher{}
	return NewAuthService(cfg, repo, dispatcher), repo, dispatcher
}

func registerAna(t *testing.T, svc *AuthService) *domain.User {
	t.Helper()
	user, _, _, err := svc.Register(context.Background(), "Ana", "ana@example.com", "hunter2!", domain.RoleUser)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return user
}

func TestLoginMintsVerifiableSession(t *testing.T) {
	svc, _, dispatcher := testAuthService(t)
	registerAna(t, svc)

	user, credential, _, err := svc.Login(context.Background(), "ana@example.com", "hunter2!")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	claims, err := svc.TokenManager().Verify(credential)
	if err != nil {
		t.Fatalf("Verify minted credential: %v", err)
	}
	if claims.Subject != user.ID || claims.Email != "ana@example.com" || claims.Role != domain.RoleUser {
		t.Errorf("claims = %+v", claims)
	}
	if got := dispatcher.byType(events.EventLoginSucceeded); len(got) != 1 {
		t.Errorf("login events = %d, want 1", len(got))
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _, _ := testAuthService(t)
	registerAna(t, svc)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "unknown email", email: "nobody@example.com", password: "hunter2!"},
		{name: "wrong password", email: "ana@example.com", password: "wrong"},
	}

	var messages []string
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, _, err := svc.Login(context.Background(), tc.email, tc.password)
			var domainErr *apperrors.DomainError
			if !errors.As(err, &domainErr) || domainErr.HTTPStatus != 401 {
				t.Fatalf("err = %v, want 401 DomainError", err)
			}
			messages = append(messages, domainErr.Message)
		})
	}
	if len(messages) == 2 && messages[0] != messages[1] {
		t.Errorf("failure messages differ: %q vs %q", messages[0], messages[1])
	}
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	svc, repo, _ := testAuthService(t)

	_, _, _, err := svc.Register(context.Background(), "Eve", "eve@example.com", "pw", domain.RoleAdmin)
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.HTTPStatus != 400 {
		t.Fatalf("err = %v, want 400 DomainError", err)
	}
	if users, _ := repo.List(context.Background()); len(users) != 0 {
		t.Errorf("account created despite rejected role")
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _, _ := testAuthService(t)
	registerAna(t, svc)

	_, _, _, err := svc.Register(context.Background(), "Ana2", "ana@example.com", "pw", domain.RoleAnalyst)
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.HTTPStatus != 409 {
		t.Fatalf("err = %v, want 409 DomainError", err)
	}
}

// conflictOnCreateRepo simulates a concurrent registration winning the race
// between the duplicate-email lookup and the insert.
type conflictOnCreateRepo struct {
	*fakeUserRepo
}

func (c *conflictOnCreateRepo) Create(context.Context, *domain.User) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
}

func TestRegisterMapsUniqueViolationToConflict(t *testing.T) {
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:      strings.Repeat("k", 32),
			SessionTTLDays: 7,
			BcryptCost:     4,
		},
	}
	svc := NewAuthService(cfg, &conflictOnCreateRepo{fakeUserRepo: newFakeUserRepo()}, &recordingDispatcher{})

	_, _, _, err := svc.Register(context.Background(), "Ana", "ana@example.com", "hunter2!", domain.RoleUser)
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.HTTPStatus != 409 {
		t.Fatalf("err = %v, want 409 DomainError", err)
	}
}

func TestChangeRoleTakesEffectNextLogin(t *testing.T) {
	svc, _, dispatcher := testAuthService(t)
	user := registerAna(t, svc)

	_, credential, _, err := svc.Login(context.Background(), "ana@example.com", "hunter2!")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	admin := &auth.Session{SubjectID: "admin-1", Email: "root@example.com", Role: domain.RoleAdmin}
	if _, err := svc.ChangeRole(context.Background(), admin, user.ID, domain.RoleAnalyst); err != nil {
		t.Fatalf("ChangeRole: %v", err)
	}

	// The already-issued credential still carries the old role: no live
	// revocation in this design.
	claims, err := svc.TokenManager().Verify(credential)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Role != domain.RoleUser {
		t.Errorf("issued credential role = %s, want USER until next login", claims.Role)
	}

	_, fresh, _, err := svc.Login(context.Background(), "ana@example.com", "hunter2!")
	if err != nil {
		t.Fatalf("re-login: %v", err)
	}
	freshClaims, err := svc.TokenManager().Verify(fresh)
	if err != nil {
		t.Fatalf("Verify fresh: %v", err)
	}
	if freshClaims.Role != domain.RoleAnalyst {
		t.Errorf("fresh credential role = %s, want ANALYST", freshClaims.Role)
	}

	changes := dispatcher.byType(events.EventRoleChanged)
	if len(changes) != 1 || changes[0].Detail != "USER -> ANALYST" {
		t.Errorf("role change events = %+v", changes)
	}
}

func TestDeleteUserGuardsSelf(t *testing.T) {
	svc, _, _ := testAuthService(t)
	user := registerAna(t, svc)

	self := &auth.Session{SubjectID: user.ID, Email: user.Email, Role: domain.RoleAdmin}
	err := svc.DeleteUser(context.Background(), self, user.ID)
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.HTTPStatus != 400 {
		t.Fatalf("err = %v, want 400 DomainError", err)
	}

	other := &auth.Session{SubjectID: "admin-1", Email: "root@example.com", Role: domain.RoleAdmin}
	if err := svc.DeleteUser(context.Background(), other, user.ID); err != nil {
		t.Fatalf("DeleteUser by another admin: %v", err)
	}
}

func TestAdminCreateUserAllowsAdminRole(t *testing.T) {
	svc, _, dispatcher := testAuthService(t)

	admin := &auth.Session{SubjectID: "admin-1", Email: "root@example.com", Role: domain.RoleAdmin}
	user, err := svc.CreateUser(context.Background(), admin, "Root Jr", "jr@example.com", "pw", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.Role != domain.RoleAdmin {
		t.Errorf("role = %s, want ADMIN", user.Role)
	}
	if got := dispatcher.byType(events.EventUserCreated); len(got) != 1 || got[0].Actor.ID != "admin-1" {
		t.Errorf("user created events = %+v", got)
	}
}
