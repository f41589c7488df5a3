package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// CookieName is the carrier for the signed session credential.
const CookieName = "bi_token"

// CookieManager binds the credential to an HTTP-only cookie. Store and Clear
// mutate response headers, so they must run before the response body starts
// streaming.
type CookieManager struct {
	secure bool
	maxAge time.Duration
}

// NewCookieManager builds the transport. secure marks the cookie Secure,
// which production deployments behind TLS must enable.
func NewCookieManager(secure bool, maxAge time.Duration) *CookieManager {
	if maxAge <= 0 {
		maxAge = 7 * 24 * time.Hour
	}
	return &CookieManager{secure: secure, maxAge: maxAge}
}

// Store writes the credential cookie with the session security attributes.
func (cm *CookieManager) Store(c *fiber.Ctx, credential string) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    credential,
		Path:     "/",
		MaxAge:   int(cm.maxAge.Seconds()),
		HTTPOnly: true,
		Secure:   cm.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Read returns the carried credential, or "" when absent.
func (cm *CookieManager) Read(c *fiber.Ctx) string {
	return c.Cookies(CookieName)
}

// Clear overwrites the cookie with an empty value and an expiry in the past,
// removing it client-side immediately.
func (cm *CookieManager) Clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   cm.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
