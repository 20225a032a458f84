package models

import "github.com/golang-jwt/jwt/v5"

// TokenPair is the result of a successful token issuance.
//
// Both tokens are compact JWS strings signed with the same secret and share
// one validity window.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AccessClaims is the claim set of an access token.
//
// Roles is always encoded as an array, an account without roles carries
// an empty one.
type AccessClaims struct {
	Email string `json:"email"`
	Roles []Role `json:"roles"`

	jwt.RegisteredClaims
}

// RefreshClaims is the claim set of a refresh token.
type RefreshClaims struct {
	Email string `json:"email"`

	jwt.RegisteredClaims
}
