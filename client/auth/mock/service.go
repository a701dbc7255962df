package mock

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/augustosalazar/roble-go/schema"
)

// Service simulates the Roble identity and database endpoints for a single
// tenant; NewService supplies test defaults.
type Service struct {
	Email    string
	Password string
	Contract string
	URL      string

	// RefreshStatus, when non-zero, forces the refresh endpoint to answer
	// with that status instead of rotating the token.
	RefreshStatus int

	LoginCalls   int
	RefreshCalls int
	ReadCalls    int
	InsertCalls  int
	UpdateCalls  int
	DeleteCalls  int

	// LastAuthorization holds the Authorization header of the most recent
	// authorized call, empty when the header was absent.
	LastAuthorization string

	server     *httptest.Server
	signingKey []byte

	mu           sync.Mutex
	seq          int
	refreshToken string
	validAccess  map[string]bool
	tables       map[string][]schema.Record
}

// NewService creates a stopped mock service with test defaults.
func NewService() *Service {
	return &Service{
		Email:       "test@example.com",
		Password:    "secret",
		Contract:    "contract_test",
		signingKey:  []byte("mock-signing-key"),
		validAccess: map[string]bool{},
		tables:      map[string][]schema.Record{},
	}
}

// Start brings the service up on an ephemeral port.
func (s *Service) Start() *Service {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", s.handleLogin)
	mux.HandleFunc("/logout", s.handleLogout)
	mux.HandleFunc("/signup-direct", s.handleSignup)
	mux.HandleFunc("/refresh-token", s.handleRefresh)
	mux.HandleFunc("/database/", s.handleDatabase)
	s.server = httptest.NewServer(mux)
	s.URL = s.server.URL
	return s
}

func (s *Service) Close() {
	if s.server != nil {
		s.server.Close()
	}
}

// ExpireAccessTokens invalidates every issued access token, so the next
// authorized call gets a 401.
func (s *Service) ExpireAccessTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token := range s.validAccess {
		s.validAccess[token] = false
	}
}

// RevokeRefreshToken makes any subsequent refresh fail with a 401.
func (s *Service) RevokeRefreshToken() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshToken = ""
}

// Records returns a copy of the named table.
func (s *Service) Records(table string) []schema.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]schema.Record(nil), s.tables[table]...)
}

// SeedRecords replaces the named table content.
func (s *Service) SeedRecords(table string, records []schema.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[table] = append([]schema.Record(nil), records...)
}

func (s *Service) nextID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return fmt.Sprintf("id-%04d", s.seq)
}

// authorized reports whether the request carries a currently valid access
// token.
func (s *Service) authorized(r *http.Request) bool {
	header := r.Header.Get("Authorization")
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastAuthorization = header
	if !strings.HasPrefix(header, "Bearer ") {
		return false
	}
	return s.validAccess[strings.TrimPrefix(header, "Bearer ")]
}
