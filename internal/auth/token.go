package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/fricdix/bi-dashboard/internal/domain"
)

// ErrInvalidToken is the collapsed rejection for any credential that fails
// verification. Callers never learn whether the signature, the structure or
// the expiry was at fault.
var ErrInvalidToken = errors.New("invalid session token")

// TokenManager issues and verifies the signed session credential. The secret
// is loaded once at startup and read-only afterwards, so a single manager is
// safe for concurrent use across request handlers.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// SessionClaims is the identity payload embedded in the credential. It is
// minted once at login and reconstructed, never looked up, on each request.
type SessionClaims struct {
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Issue signs a credential for the account with issued-at now and the
// configured lifetime.
func (tm *TokenManager) Issue(subjectID, email, name string, role domain.Role) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(tm.ttl)
	claims := &SessionClaims{
		Email: email,
		Name:  name,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify validates signature and expiry and returns the embedded claims.
// Any failure collapses to ErrInvalidToken.
func (tm *TokenManager) Verify(tokenStr string) (*SessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
