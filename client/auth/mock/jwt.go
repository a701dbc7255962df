package mock

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// createJWT creates a signed JWT for email with the given type and expiry
func (s *Service) createJWT(email, tokenType string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   s.URL,
		"sub":   "test_subject",
		"email": email,
		"exp":   now.Add(expiry).Unix(),
		"iat":   now.Unix(),
		"typ":   tokenType,
		"jti":   s.nextID(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.signingKey)
}
