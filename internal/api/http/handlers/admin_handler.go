package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/fricdix/bi-dashboard/internal/api/dto"
	"github.com/fricdix/bi-dashboard/internal/auth"
	"github.com/fricdix/bi-dashboard/internal/service"
)

// AdminHandler serves the admin pages and the user management API.
type AdminHandler struct {
	auth     *service.AuthService
	insights *service.InsightsService
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(authService *service.AuthService, insights *service.InsightsService) *AdminHandler {
	return &AdminHandler{auth: authService, insights: insights}
}

// Dashboard handles GET /admin/dashboard.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	session, _ := auth.SessionFromContext(c)

	activity, err := h.insights.RecentActivity(c.UserContext(), 20)
	if err != nil {
		return err
	}
	entries := make([]dto.AuditEntryResponse, 0, len(activity))
	for _, entry := range activity {
		entries = append(entries, dto.NewAuditEntryResponse(entry))
	}

	return c.JSON(fiber.Map{
		"shell":    dto.NewShell(session),
		"activity": entries,
	})
}

// UsersPage handles GET /admin/users: the shell only, the account list comes
// from the JSON API below.
func (h *AdminHandler) UsersPage(c *fiber.Ctx) error {
	session, _ := auth.SessionFromContext(c)
	return c.JSON(fiber.Map{"shell": dto.NewShell(session)})
}

// ListUsers handles GET /api/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.auth.ListUsers(c.Context())
	if err != nil {
		return err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, dto.NewUserResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"users": out})
}

// CreateUser handles POST /api/users.
func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "name, email, password required")
	}

	session, _ := auth.SessionFromContext(c)
	user, err := h.auth.CreateUser(c.Context(), session, req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"user": dto.NewUserResponse(user)})
}

// UpdateRole handles PATCH /api/users/:id/role.
func (h *AdminHandler) UpdateRole(c *fiber.Ctx) error {
	var req dto.UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	session, _ := auth.SessionFromContext(c)
	user, err := h.auth.ChangeRole(c.Context(), session, c.Params("id"), req.Role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": dto.NewUserResponse(user)})
}

// DeleteUser handles DELETE /api/users/:id.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	session, _ := auth.SessionFromContext(c)
	if err := h.auth.DeleteUser(c.Context(), session, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
