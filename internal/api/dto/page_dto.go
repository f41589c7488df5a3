package dto

import (
	"github.com/fricdix/bi-dashboard/internal/auth"
	"github.com/fricdix/bi-dashboard/internal/domain"
)

// Shell is the role-driven frame every protected page shares: who is logged
// in and what navigation their role unlocks. It is a pure mapping from the
// closed role set, never an open-ended conditional.
type Shell struct {
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Role      domain.Role      `json:"role"`
	RoleLabel string           `json:"roleLabel"`
	BadgeTone string           `json:"badgeTone"`
	NavLinks  []domain.NavLink `json:"navLinks"`
}

// NewShell builds the frame from the resolved session.
func NewShell(session *auth.Session) Shell {
	info := session.Role.Info()
	return Shell{
		Name:      session.Name,
		Email:     session.Email,
		Role:      session.Role,
		RoleLabel: info.Label,
		BadgeTone: info.BadgeTone,
		NavLinks:  info.NavLinks,
	}
}

// AuditEntryResponse is one row of recent activity on the admin dashboard.
type AuditEntryResponse struct {
	ID         string `json:"id"`
	Action     string `json:"action"`
	ActorEmail string `json:"actorEmail"`
	TargetID   string `json:"targetId"`
	Detail     string `json:"detail,omitempty"`
	CreatedAt  string `json:"createdAt"`
}

// NewAuditEntryResponse maps an audit entry to its API shape.
func NewAuditEntryResponse(entry domain.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:         entry.ID,
		Action:     entry.Action,
		ActorEmail: entry.ActorEmail,
		TargetID:   entry.TargetID,
		Detail:     entry.Detail,
		CreatedAt:  entry.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
