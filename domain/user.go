package domain

// Role classifies an identity's authority level. The set is closed; any other
// value coming off the wire is rejected at the boundary.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// Identity represents an authenticated user as reported by the auth boundary.
// It is immutable for the lifetime of a session and replaced wholesale on
// sign-in/sign-out.
type Identity struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email,omitempty"`
	Role        Role   `json:"role"`
}

// Profile carries the fields needed to register a new identity.
type Profile struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        Role   `json:"role"`
}
