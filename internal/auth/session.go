package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fricdix/bi-dashboard/internal/domain"
)

const sessionKey = "auth_session"

// Session is the resolved identity for the current request.
type Session struct {
	SubjectID string
	Email     string
	Name      string
	Role      domain.Role
}

// SessionResolver turns the carried credential into a Session. Absent cookie,
// bad signature, malformed payload and expiry all collapse to nil: route
// logic only ever sees "session or no session".
type SessionResolver struct {
	tokens  *TokenManager
	cookies *CookieManager
}

// NewSessionResolver builds the resolver.
func NewSessionResolver(tokens *TokenManager, cookies *CookieManager) *SessionResolver {
	return &SessionResolver{tokens: tokens, cookies: cookies}
}

// Resolve reads the transport and verifies the credential. It is a pure
// function of the request's cookie: no network or storage I/O.
func (r *SessionResolver) Resolve(c *fiber.Ctx) *Session {
	credential := r.cookies.Read(c)
	if credential == "" {
		return nil
	}
	claims, err := r.tokens.Verify(credential)
	if err != nil {
		return nil
	}
	return &Session{
		SubjectID: claims.Subject,
		Email:     claims.Email,
		Name:      claims.Name,
		Role:      claims.Role,
	}
}

// Attach resolves the session once per request and stashes it in the request
// locals for handlers and guards downstream.
func (r *SessionResolver) Attach(c *fiber.Ctx) error {
	if session := r.Resolve(c); session != nil {
		c.Locals(sessionKey, session)
	}
	return c.Next()
}

// SessionFromContext retrieves the session resolved by Attach, if any.
func SessionFromContext(c *fiber.Ctx) (*Session, bool) {
	val := c.Locals(sessionKey)
	if val == nil {
		return nil, false
	}
	session, ok := val.(*Session)
	return session, ok
}
