package api

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is the readable portion of a bearer token when it happens to
// be a JWT. Extracted without signature verification: the client has no
// key material and no authority, so this is display and diagnostics only.
type TokenInfo struct {
	Subject   string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// InspectToken parses a JWT without verifying it. Opaque (non-JWT) tokens
// return an error; callers treat that as "nothing to display", not as a
// failure.
func InspectToken(token string) (TokenInfo, error) {
	var claims jwt.RegisteredClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return TokenInfo{}, fmt.Errorf("api: inspecting token: %w", err)
	}

	info := TokenInfo{Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}
	return info, nil
}
