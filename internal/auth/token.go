// Package auth inspects bearer tokens on the client side. Tokens are minted
// and verified by the backend; the client only decodes claims to avoid
// sending calls that are guaranteed to come back 401 and to learn which user
// id to scope local state by.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	appErrors "github.com/trovemarket/storefront-client/internal/errors"
)

type Claims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Inspect decodes the token without verifying its signature; verification is
// the backend's job.
func Inspect(token string) (*Claims, error) {

	claims := &Claims{}

	parser := jwt.NewParser()

	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, appErrors.UnauthorizedError("Please log in again").WithError(err)
	}

	return claims, nil
}

// CheckNotExpired preflights a token before a network call. An empty token
// or one past its exp claim fails with an auth error; a token without an exp
// claim passes (the backend decides).
func CheckNotExpired(token string) error {

	if token == "" {
		return appErrors.UnauthorizedError("Please log in again")
	}

	claims, err := Inspect(token)
	if err != nil {
		return err
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return appErrors.UnauthorizedError("Please log in again")
	}

	return nil
}

// UserID returns the subject of the token, from the userId claim or the
// registered sub claim.
func UserID(token string) (string, error) {

	claims, err := Inspect(token)
	if err != nil {
		return "", err
	}

	if claims.UserID != "" {
		return claims.UserID, nil
	}

	return claims.Subject, nil
}
