package transport

import (
	"context"
	"errors"
	"net/http"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/augustosalazar/roble-go/client/auth/store"
	"github.com/augustosalazar/roble-go/schema"
)

// Refresher renews the access token held in the shared credential store. It
// is implemented by the authentication service.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RoundTripper attaches the held access token as a bearer header and, on a
// 401 response, refreshes the token exactly once and replays the request
// exactly once. Any other failure passes through untouched; callers see a
// raw 401 only when refresh or the replay itself failed.
type RoundTripper struct {
	store     store.Store
	refresher Refresher
	transport http.RoundTripper
	mux       sync.Mutex
}

// New creates a RoundTripper; a Refresher is required.
func New(options ...Option) (*RoundTripper, error) {
	ret := &RoundTripper{
		transport: http.DefaultTransport,
		store:     store.NewMemoryStore(),
	}
	for _, opt := range options {
		opt(ret)
	}
	if ret.refresher == nil {
		return nil, errors.New("transport: refresher was empty")
	}
	return ret, nil
}

// Store exposes the underlying credential store.
func (r *RoundTripper) Store() store.Store {
	return r.store
}

func (r *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	// 1) Send the request with the currently held access token.
	attempt := clone(req)
	used := r.setAuthorization(attempt)
	resp, err := r.transport.RoundTrip(attempt)
	if err != nil {
		return nil, err
	}

	// 2) If it wasn't a 401, just return it.
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	// Close the prior body so we don't leak.
	resp.Body.Close()

	log.Debugf("401 from %v, refreshing access token", req.URL.Path)
	if err = r.refresh(req.Context(), used); err != nil {
		if schema.IsUnauthorized(err) {
			// the refresh token itself was rejected; the session is over
			_ = r.store.Clear()
		}
		return nil, err
	}

	// 3) Replay the request once with the rotated token; a second 401
	// surfaces as-is.
	retry := clone(req)
	r.setAuthorization(retry)
	return r.transport.RoundTrip(retry)
}

// refresh serializes concurrent 401s; a caller that lost the race reuses the
// token its peer already rotated instead of refreshing again.
func (r *RoundTripper) refresh(ctx context.Context, usedToken string) error {
	r.mux.Lock()
	defer r.mux.Unlock()
	if current, ok := r.store.Lookup(); ok && current.AccessToken != "" && current.AccessToken != usedToken {
		return nil
	}
	return r.refresher.Refresh(ctx)
}

// setAuthorization applies the held access token to req and returns it; with
// no token held the header is removed.
func (r *RoundTripper) setAuthorization(req *http.Request) string {
	if token, ok := r.store.Lookup(); ok && token.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+token.AccessToken)
		return token.AccessToken
	}
	req.Header.Del("Authorization")
	return ""
}
