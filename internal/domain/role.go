package domain

// Role is the closed capability set for dashboard accounts.
type Role string

const (
	RoleUser    Role = "USER"
	RoleAnalyst Role = "ANALYST"
	RoleAdmin   Role = "ADMIN"
)

// Valid reports whether the role belongs to the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAnalyst, RoleAdmin:
		return true
	}
	return false
}

// SelfRegisterable reports whether an account may pick this role at
// registration. ADMIN accounts are only created by other admins.
func (r Role) SelfRegisterable() bool {
	return r == RoleUser || r == RoleAnalyst
}

// NavLink is a sidebar entry shown to a role.
type NavLink struct {
	Href  string `json:"href"`
	Label string `json:"label"`
}

// RoleInfo carries the display metadata for a role.
type RoleInfo struct {
	Label     string    `json:"label"`
	BadgeTone string    `json:"badgeTone"`
	NavLinks  []NavLink `json:"navLinks"`
}

// roleInfos is the single dispatch point for role-driven UI branching.
var roleInfos = map[Role]RoleInfo{
	RoleUser: {
		Label:     "USER (Lectura)",
		BadgeTone: "neutral",
		NavLinks: []NavLink{
			{Href: "/dashboard", Label: "Dashboard"},
			{Href: "/reports", Label: "Reportes"},
			{Href: "/profile", Label: "Perfil"},
		},
	},
	RoleAnalyst: {
		Label:     "ANALYST (Análisis/Reportes)",
		BadgeTone: "warning",
		NavLinks: []NavLink{
			{Href: "/dashboard", Label: "Dashboard"},
			{Href: "/reports", Label: "Reportes"},
			{Href: "/profile", Label: "Perfil"},
		},
	},
	RoleAdmin: {
		Label:     "ADMIN (Gestión total)",
		BadgeTone: "success",
		NavLinks: []NavLink{
			{Href: "/dashboard", Label: "Dashboard"},
			{Href: "/admin/dashboard", Label: "Admin"},
			{Href: "/reports", Label: "Reportes"},
			{Href: "/admin/users", Label: "Usuarios"},
			{Href: "/profile", Label: "Perfil"},
		},
	},
}

// Info returns display metadata for the role. Unknown roles fall back to the
// USER entry so a stale token never breaks rendering.
func (r Role) Info() RoleInfo {
	if info, ok := roleInfos[r]; ok {
		return info
	}
	return roleInfos[RoleUser]
}
