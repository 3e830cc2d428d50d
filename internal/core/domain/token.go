package domain

// TokenClaims is the identity carried by a verified bearer token.
type TokenClaims struct {
	UserID  string
	Version int64
}
