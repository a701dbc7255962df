package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo holds claims decoded from an access token for display purposes.
type TokenInfo struct {
	Subject   string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ParseTokenInfo decodes JWT claims without verifying the signature. The
// client holds no issuer keys; claims are used only as display and expiry
// hints, never for authorization decisions.
func ParseTokenInfo(raw string) (*TokenInfo, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, err
	}
	ret := &TokenInfo{}
	ret.Subject, _ = claims.GetSubject()
	ret.Email, _ = claims["email"].(string)
	if issuedAt, err := claims.GetIssuedAt(); err == nil && issuedAt != nil {
		ret.IssuedAt = issuedAt.Time
	}
	if expiresAt, err := claims.GetExpirationTime(); err == nil && expiresAt != nil {
		ret.ExpiresAt = expiresAt.Time
	}
	return ret, nil
}

// expiryOf returns the exp claim of an access token, or zero when the token
// is not a parsable JWT.
func expiryOf(raw string) time.Time {
	info, err := ParseTokenInfo(raw)
	if err != nil {
		return time.Time{}
	}
	return info.ExpiresAt
}
