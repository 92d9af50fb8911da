package models

// Principal is the authenticated identity of one request
type Principal struct {
	UserID int
	Email  string
	Role   Role
}

// IsAdmin reports whether the principal holds the admin role
func (p *Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
