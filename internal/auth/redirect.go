package auth

import (
	"strings"

	"github.com/fricdix/bi-dashboard/internal/domain"
)

// SafeRedirect computes the post-login destination from an untrusted hint and
// the server-verified role of the fresh session.
//
// The hint is honored only when it is a plausible same-site path (leading "/",
// no "//" prefix, no scheme) and, unless the role is ADMIN, does not point
// into the admin route group. Anything else falls back to the role's default
// landing page. Rejection is silent: callers never distinguish a rejected
// hint from an absent one.
func SafeRedirect(next string, role domain.Role) string {
	if acceptableHint(next, role) {
		return next
	}
	if role == domain.RoleAdmin {
		return AdminDashboardPath
	}
	return DashboardPath
}

func acceptableHint(next string, role domain.Role) bool {
	if next == "" {
		return false
	}
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "://") {
		return false
	}
	if role != domain.RoleAdmin && strings.HasPrefix(next, AdminPrefix) {
		return false
	}
	return true
}
