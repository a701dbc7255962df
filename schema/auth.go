package schema

// LoginRequest carries user credentials for the /login exchange.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest carries the /signup-direct payload.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// RefreshRequest carries the refresh token for the /refresh-token exchange.
// The refresh token always travels as a JSON body field, never as a header.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// TokenResponse represents the identity service token payload;
// RefreshToken is empty on refresh responses.
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}
