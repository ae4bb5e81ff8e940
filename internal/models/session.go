package models

// Role represents the access mode of a session
type Role string

const (
	RoleGuest Role = "guest"
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole maps a server reported role to a Role. Unknown values are treated as user.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleGuest, RoleAdmin:
		return Role(s)
	default:
		return RoleUser
	}
}

// Session represents the authenticated identity held by the client
type Session struct {
	UserID      int    `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"name"`
	Token       string `json:"-"`
	Role        Role   `json:"role"`
}

// IsGuest reports whether the session is read-only
func (s *Session) IsGuest() bool {
	return s == nil || s.Role == RoleGuest
}

// LoginRequest represents credentials for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest represents the body of POST /auth/register
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents the result of a successful login or registration
type AuthResponse struct {
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type"`
	User        Session `json:"user"`
}

// Session builds the client session from the response
func (r AuthResponse) Session() Session {
	s := r.User
	s.Token = r.AccessToken
	s.Role = ParseRole(string(r.User.Role))
	return s
}
