package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fricdix/bi-dashboard/internal/auth"
	"github.com/fricdix/bi-dashboard/internal/config"
	"github.com/fricdix/bi-dashboard/internal/domain"
	"github.com/fricdix/bi-dashboard/internal/events"
	"github.com/fricdix/bi-dashboard/internal/repository"
	apperrors "github.com/fricdix/bi-dashboard/pkg/util"
)

// AuthService coordinates login, registration and admin account management.
// Sessions are stateless: a minted credential is the whole session, so role
// changes here only take effect on the target's next login.
type AuthService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	dispatcher events.Dispatcher
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, users repository.UserRepository, dispatcher events.Dispatcher) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL()),
		dispatcher: dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Login authenticates an account and mints its session credential. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	credential, expiresAt, err := s.tokens.Issue(user.ID, user.Email, user.Name, user.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	s.publish(ctx, events.EventLoginSucceeded, events.Actor{ID: user.ID, Email: user.Email}, user.ID, "")
	return user, credential, expiresAt, nil
}

// Register creates a self-service account. Only USER and ANALYST may be
// chosen at registration; ADMIN accounts come from other admins.
func (s *AuthService) Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, string, time.Time, error) {
	if !role.SelfRegisterable() {
		return nil, "", time.Time{}, apperrors.NewValidationError("role must be USER or ANALYST", nil)
	}

	user, err := s.createUser(ctx, name, email, password, role)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	credential, expiresAt, err := s.tokens.Issue(user.ID, user.Email, user.Name, user.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	s.publish(ctx, events.EventUserRegistered, events.Actor{ID: user.ID, Email: user.Email}, user.ID, string(role))
	return user, credential, expiresAt, nil
}

// ListUsers returns all accounts for the admin panel.
func (s *AuthService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// CreateUser lets an admin create an account with any role.
func (s *AuthService) CreateUser(ctx context.Context, actor *auth.Session, name, email, password string, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", nil)
	}

	user, err := s.createUser(ctx, name, email, password, role)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventUserCreated, actorOf(actor), user.ID, string(role))
	return user, nil
}

// ChangeRole updates an account's role. Already-issued credentials keep the
// old role until they expire or the account logs in again.
func (s *AuthService) ChangeRole(ctx context.Context, actor *auth.Session, id string, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", nil)
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}
	if user.Role == role {
		return user, nil
	}

	if err := s.users.UpdateRole(ctx, id, role); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventRoleChanged, actorOf(actor), id, events.RoleChangedDetail(user.Role, role))
	user.Role = role
	return user, nil
}

// DeleteUser removes an account. Admins cannot delete themselves.
func (s *AuthService) DeleteUser(ctx context.Context, actor *auth.Session, id string) error {
	if actor != nil && actor.SubjectID == id {
		return apperrors.NewValidationError("cannot delete your own account", nil)
	}

	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", nil)
		}
		return err
	}

	s.publish(ctx, events.EventUserDeleted, actorOf(actor), id, "")
	return nil
}

// TokenManager exposes the codec for the session resolver.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

func (s *AuthService) createUser(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// A concurrent registration can slip past the lookup above and hit
		// the unique email constraint.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperrors.NewConflict("email already registered", nil)
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, actor events.Actor, targetID, detail string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     actor,
		TargetID:  targetID,
		Timestamp: time.Now(),
		Detail:    detail,
	})
}

func actorOf(session *auth.Session) events.Actor {
	if session == nil {
		return events.Actor{}
	}
	return events.Actor{ID: session.SubjectID, Email: session.Email}
}
