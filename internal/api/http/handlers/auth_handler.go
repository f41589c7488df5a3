package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/fricdix/bi-dashboard/internal/api/dto"
	"github.com/fricdix/bi-dashboard/internal/auth"
	"github.com/fricdix/bi-dashboard/internal/service"
)

// AuthHandler exposes the login, logout and registration boundaries.
type AuthHandler struct {
	auth    *service.AuthService
	cookies *auth.CookieManager
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(authService *service.AuthService, cookies *auth.CookieManager) *AuthHandler {
	return &AuthHandler{auth: authService, cookies: cookies}
}

// Login handles POST /api/auth/login. On success it stores the credential
// cookie and returns the session payload plus the safe post-login target
// computed from the untrusted `next` hint.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	user, credential, _, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.cookies.Store(c, credential)
	return c.JSON(dto.AuthResponse{
		Session:    dto.SessionPayload{Role: user.Role, Name: user.Name, Email: user.Email},
		RedirectTo: auth.SafeRedirect(c.Query("next"), user.Role),
	})
}

// Register handles POST /api/auth/register. A fresh account is logged in
// immediately: the credential cookie is set alongside the response.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "name, email, password required")
	}

	user, credential, _, err := h.auth.Register(c.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		return err
	}

	h.cookies.Store(c, credential)
	return c.Status(http.StatusCreated).JSON(dto.AuthResponse{
		Session:    dto.SessionPayload{Role: user.Role, Name: user.Name, Email: user.Email},
		RedirectTo: auth.SafeRedirect(c.Query("next"), user.Role),
	})
}

// Me handles GET /api/auth/me, echoing the session payload for the current
// credential. The guard has already rejected anonymous callers.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	session, _ := auth.SessionFromContext(c)
	return c.JSON(fiber.Map{
		"session": dto.SessionPayload{Role: session.Role, Name: session.Name, Email: session.Email},
	})
}

// Logout handles POST /api/auth/logout. Clearing is idempotent: it succeeds
// whether or not a session was present.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.cookies.Clear(c)
	return c.SendStatus(http.StatusNoContent)
}
