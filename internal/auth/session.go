package auth

import "github.com/golang-jwt/jwt/v5"

// Session is one single-player game granted to a browser client.
type Session struct {
	ID   string `json:"id"`
	Seed int64  `json:"seed"`
}

// SessionClaims carries a Session inside a token. The session id travels as
// the subject.
type SessionClaims struct {
	Seed int64 `json:"seed"`
	jwt.RegisteredClaims
}
