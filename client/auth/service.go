package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/augustosalazar/roble-go/client/auth/store"
	"github.com/augustosalazar/roble-go/schema"
)

const maxBodySize = 1 << 20

// Service performs identity exchanges against the Roble authentication
// endpoints. It issues its calls through a plain HTTP client: auth traffic
// must never route through the resilient transport it feeds.
type Service struct {
	baseURL string
	store   store.Store
	client  *http.Client
}

// Option represents option
type Option func(*Service)

// WithHTTPClient sets http client
func WithHTTPClient(client *http.Client) Option {
	return func(s *Service) {
		s.client = client
	}
}

// New creates an authentication service for the given base URL, mutating the
// supplied credential store on login, refresh and logout outcomes.
func New(baseURL string, credentials store.Store, options ...Option) *Service {
	ret := &Service{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		store:   credentials,
		client:  http.DefaultClient,
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// Store exposes the underlying credential store.
func (s *Service) Store() store.Store {
	return s.store
}

// Token returns the currently held token pair, if any.
func (s *Service) Token() (*oauth2.Token, bool) {
	return s.store.Lookup()
}

// Login exchanges email/password for a token pair. A failed login leaves any
// previously held credentials untouched - it may be a probe against an
// already active session.
func (s *Service) Login(ctx context.Context, email, password string) error {
	resp, body, err := s.postJSON(ctx, s.baseURL+"/login", &schema.LoginRequest{Email: email, Password: password}, false)
	if err != nil {
		return err
	}
	if !is2xx(resp.StatusCode) {
		return schema.NewStatusError(resp.StatusCode, "login failed", body)
	}
	var tokens schema.TokenResponse
	if err = json.Unmarshal([]byte(body), &tokens); err != nil {
		return schema.NewDecodeError("login response is not JSON", err)
	}
	if tokens.AccessToken == "" {
		return schema.NewDecodeError("login response missing accessToken", nil)
	}
	log.Debugf("logged in as %v", email)
	return s.store.SetTokens(&oauth2.Token{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       expiryOf(tokens.AccessToken),
	})
}

// Signup registers a new user; it has no effect on held credentials.
func (s *Service) Signup(ctx context.Context, email, password, name string) error {
	resp, body, err := s.postJSON(ctx, s.baseURL+"/signup-direct", &schema.SignupRequest{Email: email, Password: password, Name: name}, false)
	if err != nil {
		return err
	}
	if !is2xx(resp.StatusCode) {
		return schema.NewStatusError(resp.StatusCode, "signup failed", body)
	}
	return nil
}

// Logout invalidates the session remotely, then clears held credentials. On
// failure credentials stay intact so the caller may retry.
func (s *Service) Logout(ctx context.Context) error {
	resp, body, err := s.postJSON(ctx, s.baseURL+"/logout", nil, true)
	if err != nil {
		return err
	}
	if !is2xx(resp.StatusCode) {
		return schema.NewStatusError(resp.StatusCode, "logout failed", body)
	}
	return s.store.Clear()
}

// Refresh exchanges the held refresh token for a fresh access token. The
// refresh token itself is stable across rotations; any failure leaves held
// credentials untouched.
func (s *Service) Refresh(ctx context.Context) error {
	current, ok := s.store.Lookup()
	if !ok || current.RefreshToken == "" {
		return schema.NewUnauthorized("no refresh token held")
	}
	resp, body, err := s.postJSON(ctx, s.baseURL+"/refresh-token", &schema.RefreshRequest{RefreshToken: current.RefreshToken}, false)
	if err != nil {
		return err
	}
	if !is2xx(resp.StatusCode) {
		return schema.NewStatusError(resp.StatusCode, "token refresh failed", body)
	}
	var tokens schema.TokenResponse
	if err = json.Unmarshal([]byte(body), &tokens); err != nil {
		return schema.NewDecodeError("refresh response is not JSON", err)
	}
	if tokens.AccessToken == "" {
		return schema.NewDecodeError("refresh response missing accessToken", nil)
	}
	log.Debug("access token rotated")
	return s.store.SetTokens(&oauth2.Token{
		AccessToken:  tokens.AccessToken,
		RefreshToken: current.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       expiryOf(tokens.AccessToken),
	})
}

func (s *Service) postJSON(ctx context.Context, URL string, payload interface{}, authorized bool) (*http.Response, string, error) {
	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, "", err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, URL, reader)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if authorized {
		if token, ok := s.store.Lookup(); ok && token.AccessToken != "" {
			req.Header.Set("Authorization", "Bearer "+token.AccessToken)
		}
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", schema.NewTransportError("call to "+URL+" failed", err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	return resp, string(data), nil
}

func is2xx(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
