package handlers

import (
	"context"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/fricdix/bi-dashboard/internal/api/dto"
	"github.com/fricdix/bi-dashboard/internal/auth"
	"github.com/fricdix/bi-dashboard/internal/domain"
	"github.com/fricdix/bi-dashboard/internal/service"
	apperrors "github.com/fricdix/bi-dashboard/pkg/util"
)

// PagesHandler serves the protected page view-models. Every payload carries
// the role-driven shell; the guard has already vouched for the session.
type PagesHandler struct {
	insights *service.InsightsService
}

// NewPagesHandler constructs the handler.
func NewPagesHandler(insights *service.InsightsService) *PagesHandler {
	return &PagesHandler{insights: insights}
}

// Dashboard handles GET /dashboard.
func (h *PagesHandler) Dashboard(c *fiber.Ctx) error {
	session, _ := auth.SessionFromContext(c)
	data, err := h.insights.Dashboard(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"shell":           dto.NewShell(session),
		"summary":         data.Summary,
		"timeseries":      data.Series,
		"influencers":     data.Influencers,
		"recommendations": data.Recommendations,
	})
}

// Reports handles GET /reports with category/from/to filters.
func (h *PagesHandler) Reports(c *fiber.Ctx) error {
	session, _ := auth.SessionFromContext(c)
	page, err := h.insights.Reports(c.UserContext(), reportFilter(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"shell":      dto.NewShell(session),
		"reports":    page.Reports,
		"categories": page.Categories,
	})
}

// ExportReports handles GET /reports/export?format=csv|pdf, relaying the
// upstream export body through unchanged. The copy happens inside the handler:
// the request context is cancelled as soon as the handler chain returns, so a
// deferred stream writer would read from a dead upstream body. The download is
// detached from the request timeout; the upstream client enforces its own
// deadline.
func (h *PagesHandler) ExportReports(c *fiber.Ctx) error {
	ctx := context.WithoutCancel(c.UserContext())
	body, contentType, err := h.insights.ExportReport(ctx, reportFilter(c), c.Query("format"))
	if err != nil {
		return err
	}
	defer body.Close()
	if contentType != "" {
		c.Set(fiber.HeaderContentType, contentType)
	}
	if _, err := io.Copy(c.Response().BodyWriter(), body); err != nil {
		return apperrors.NewUpstreamError(err)
	}
	return nil
}

// Profile handles GET /profile: the session claim itself is the page.
func (h *PagesHandler) Profile(c *fiber.Ctx) error {
	session, _ := auth.SessionFromContext(c)
	return c.JSON(fiber.Map{
		"shell": dto.NewShell(session),
		"profile": fiber.Map{
			"id":    session.SubjectID,
			"name":  session.Name,
			"email": session.Email,
			"role":  session.Role,
		},
	})
}

// Influencers handles GET /influencers.
func (h *PagesHandler) Influencers(c *fiber.Ctx) error {
	session, _ := auth.SessionFromContext(c)
	influencers, err := h.insights.Influencers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"shell":       dto.NewShell(session),
		"influencers": influencers,
	})
}

// Recommendations handles GET /recommendations.
func (h *PagesHandler) Recommendations(c *fiber.Ctx) error {
	session, _ := auth.SessionFromContext(c)
	recommendations, err := h.insights.Recommendations(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"shell":           dto.NewShell(session),
		"recommendations": recommendations,
	})
}

func reportFilter(c *fiber.Ctx) domain.ReportFilter {
	return domain.ReportFilter{
		Category: c.Query("category", "all"),
		From:     c.Query("from"),
		To:       c.Query("to"),
	}
}
