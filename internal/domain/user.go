package domain

import "time"

// Role is an access level. Roles are ordered: each level includes the
// permissions of the levels below it.
type Role string

// Roles, least to most privileged.
const (
	RoleRequestor Role = "requestor"
	RoleSME       Role = "sme"
	RoleWarroom   Role = "warroom"
	RoleAdmin     Role = "admin"
)

var roleRank = map[Role]int{
	RoleRequestor: 1,
	RoleSME:       2,
	RoleWarroom:   3,
	RoleAdmin:     4,
}

// IsValid reports whether the role is one of the known roles.
func (r Role) IsValid() bool {
	_, ok := roleRank[r]
	return ok
}

// HasPermission reports whether the role meets or exceeds minRole.
func (r Role) HasPermission(minRole Role) bool {
	return roleRank[r] >= roleRank[minRole]
}

// AuditAuthor returns the display name recorded in audit entries
// authored by a user holding this role.
func (r Role) AuditAuthor() string {
	switch r {
	case RoleSME:
		return "SME"
	case RoleWarroom:
		return "Warroom"
	case RoleAdmin:
		return "Admin"
	default:
		return "Requestor"
	}
}

// SystemAuthor is the audit author for entries produced by the engine
// itself rather than a user action.
const SystemAuthor = "System"

// User is an account that can authenticate against the API.
// The password field holds a bcrypt hash; handlers must convert to a
// response DTO and never serialize User directly.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"password,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
