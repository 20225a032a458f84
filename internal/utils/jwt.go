package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-accounts/models"
	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidTokenParams is returned when a token is requested without a sign
// key or with a non-positive validity window.
var ErrInvalidTokenParams = errors.New("invalid params for generating JWT token")

// NewRegisteredClaims builds the standard claim set shared by access and
// refresh tokens.
//
//   - Issuer    (iss): issuer, omitted when empty
//   - IssuedAt  (iat): issuedAt
//   - ExpiresAt (exp): issuedAt plus tokenDuration
func NewRegisteredClaims(issuer string, issuedAt time.Time, tokenDuration time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(tokenDuration)),
	}
}

// SignToken signs claims with HMAC-SHA256 and returns the compact JWS string.
//
// Example usage:
//
//	claims := models.RefreshClaims{Email: "a@x.com", RegisteredClaims: utils.NewRegisteredClaims("accounts", time.Now(), time.Hour)}
//	token, err := utils.SignToken(claims, "secret")
func SignToken(claims jwt.Claims, signKey string) (string, error) {
	if signKey == "" {
		return "", ErrInvalidTokenParams
	}

	expiresAt, err := claims.GetExpirationTime()
	if err != nil || expiresAt == nil {
		return "", ErrInvalidTokenParams
	}
	issuedAt, err := claims.GetIssuedAt()
	if err != nil || issuedAt == nil || !expiresAt.After(issuedAt.Time) {
		return "", ErrInvalidTokenParams
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return "", fmt.Errorf("error occurred during signing JWT token: %w", err)
	}

	return tokenString, nil
}

// ParseAccessToken verifies the signature, expiry and (when tokenIssuer is not
// empty) the issuer of an access token and returns its claims.
func ParseAccessToken(tokenString, tokenSignKey, tokenIssuer string) (models.AccessClaims, error) {
	var claims models.AccessClaims
	if err := parseToken(tokenString, tokenSignKey, tokenIssuer, &claims); err != nil {
		return models.AccessClaims{}, err
	}
	if claims.Email == "" {
		return models.AccessClaims{}, errors.New("empty email claim")
	}

	return claims, nil
}

// ParseRefreshToken is the refresh-token counterpart of ParseAccessToken.
func ParseRefreshToken(tokenString, tokenSignKey, tokenIssuer string) (models.RefreshClaims, error) {
	var claims models.RefreshClaims
	if err := parseToken(tokenString, tokenSignKey, tokenIssuer, &claims); err != nil {
		return models.RefreshClaims{}, err
	}
	if claims.Email == "" {
		return models.RefreshClaims{}, errors.New("empty email claim")
	}

	return claims, nil
}

func parseToken(tokenString, tokenSignKey, tokenIssuer string, claims jwt.Claims) error {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if tokenIssuer != "" {
		opts = append(opts, jwt.WithIssuer(tokenIssuer))
	}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(tokenSignKey), nil
	}, opts...)
	if err != nil {
		return fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	return nil
}
