package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the JWT claims carried by a session token.
type Payload struct {
	// StandardClaims embeds the standard JWT fields (Exp, Iat, Iss) used for
	// validity checks.
	jwt.StandardClaims

	// UserID is the account identifier of the token holder. Every relay
	// connection and API request is attributed to this id.
	UserID string `json:"userId"`
}
