package models

// SessionState is the persisted login state
type SessionState struct {
	Email      *string `json:"email"`
	IsLoggedIn bool    `json:"isLoggedIn"`
}

// Clone returns a copy that does not share the email pointer
func (s SessionState) Clone() SessionState {
	if s.Email != nil {
		email := *s.Email
		s.Email = &email
	}
	return s
}

// EmailOrEmpty returns the signed-in email, or "" when signed out
func (s SessionState) EmailOrEmpty() string {
	if s.Email == nil {
		return ""
	}
	return *s.Email
}
