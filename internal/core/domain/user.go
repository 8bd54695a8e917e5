package domain

import "time"

// User models an identity known to the identity store.
type User struct {
	ID             int64  `json:"-"`
	Username       string `json:"username"`
	PasswordDigest string `json:"-"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	Role           Role   `json:"role"`
}

// Credential is the payload carried inside a bearer token.
type Credential struct {
	Subject   string
	ExpiresAt time.Time
}

// Principal is an authenticated caller: the identity resolved from the store
// together with the expiry of the token that proved it.
type Principal struct {
	User      *User
	ExpiresAt time.Time
}

// Username returns the principal's subject, or "" for a nil principal.
func (p *Principal) Username() string {
	if p == nil || p.User == nil {
		return ""
	}
	return p.User.Username
}

// Decision captures one gate evaluation. It is never stored.
type Decision struct {
	Required       Role
	Actual         Role
	TokenExpiresAt time.Time
}

// AccessToken is returned by a successful login.
type AccessToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

const TokenTypeBearer = "bearer"
