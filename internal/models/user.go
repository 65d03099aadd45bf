package models

import "time"

// User is an operator account. Users live in the _users collection, keyed
// by username; the password is stored only as a bcrypt hash.
type User struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Permissions  []string  `json:"permissions"`
	CreatedAt    time.Time `json:"created_at"`
}

// Roles. An admin implicitly carries every permission.
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)

// HasPermission reports whether the user may perform the operation
// guarded by code.
func (u *User) HasPermission(code string) bool {
	if u.Role == RoleAdmin {
		return true
	}
	for _, p := range u.Permissions {
		if p == code {
			return true
		}
	}
	return false
}

// Fields returns the user as a store document payload.
func (u *User) Fields() map[string]any {
	perms := make([]any, len(u.Permissions))
	for i, p := range u.Permissions {
		perms[i] = p
	}
	return map[string]any{
		"password_hash": u.PasswordHash,
		"role":          u.Role,
		"permissions":   perms,
		"created_at":    u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// UserFromFields rebuilds a User from a store document.
func UserFromFields(username string, fields map[string]any) User {
	u := User{Username: username}
	if v, ok := fields["password_hash"].(string); ok {
		u.PasswordHash = v
	}
	if v, ok := fields["role"].(string); ok {
		u.Role = v
	}
	if raw, ok := fields["permissions"].([]any); ok {
		for _, p := range raw {
			if s, ok := p.(string); ok {
				u.Permissions = append(u.Permissions, s)
			}
		}
	}
	if v, ok := fields["created_at"].(string); ok {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			u.CreatedAt = t
		}
	}
	return u
}

// RefreshToken is a stored, revocable refresh credential in _auth_tokens,
// keyed by the SHA-256 hash of the token string.
type RefreshToken struct {
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
	Revoked   bool      `json:"revoked"`
	CreatedAt time.Time `json:"created_at"`
}
