package transport

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/oauth2"

	"github.com/augustosalazar/roble-go/client/auth/store"
	"github.com/augustosalazar/roble-go/schema"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

type fakeRefresher struct {
	store store.Store
	next  string
	err   error
	calls int
}

func (f *fakeRefresher) Refresh(ctx context.Context) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	current, _ := f.store.Lookup()
	refreshToken := ""
	if current != nil {
		refreshToken = current.RefreshToken
	}
	return f.store.SetTokens(&oauth2.Token{AccessToken: f.next, RefreshToken: refreshToken})
}

func response(statusCode int) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader("{}")),
	}
}

func newRequest(t *testing.T, method, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, "https://data.example.com/database/contract_test/read", reader)
	assert.Nil(t, err)
	return req
}

func TestRoundTripper_AttachesHeldToken(t *testing.T) {
	credentials := store.NewMemoryStore()
	_ = credentials.SetTokens(&oauth2.Token{AccessToken: "A1", RefreshToken: "R1"})
	var seen []string
	rt, err := New(
		WithStore(credentials),
		WithRefresher(&fakeRefresher{store: credentials}),
		WithTransport(roundTripFunc(func(r *http.Request) (*http.Response, error) {
			seen = append(seen, r.Header.Get("Authorization"))
			return response(http.StatusOK), nil
		})))
	assert.Nil(t, err)

	resp, err := rt.RoundTrip(newRequest(t, http.MethodGet, ""))
	assert.Nil(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"Bearer A1"}, seen)
}

func TestRoundTripper_NoTokenNoHeader(t *testing.T) {
	credentials := store.NewMemoryStore()
	var seen []string
	rt, _ := New(
		WithStore(credentials),
		WithRefresher(&fakeRefresher{store: credentials, err: io.EOF}),
		WithTransport(roundTripFunc(func(r *http.Request) (*http.Response, error) {
			seen = append(seen, r.Header.Get("Authorization"))
			return response(http.StatusOK), nil
		})))

	_, err := rt.RoundTrip(newRequest(t, http.MethodGet, ""))
	assert.Nil(t, err)
	assert.Equal(t, []string{""}, seen)
}

func TestRoundTripper_RefreshAndReplayOnce(t *testing.T) {
	credentials := store.NewMemoryStore()
	_ = credentials.SetTokens(&oauth2.Token{AccessToken: "A1", RefreshToken: "R1"})
	refresher := &fakeRefresher{store: credentials, next: "A2"}
	var seen []string
	rt, _ := New(
		WithStore(credentials),
		WithRefresher(refresher),
		WithTransport(roundTripFunc(func(r *http.Request) (*http.Response, error) {
			seen = append(seen, r.Header.Get("Authorization"))
			if r.Header.Get("Authorization") != "Bearer A2" {
				return response(http.StatusUnauthorized), nil
			}
			return response(http.StatusOK), nil
		})))

	resp, err := rt.RoundTrip(newRequest(t, http.MethodGet, ""))
	assert.Nil(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, refresher.calls)
	assert.Equal(t, []string{"Bearer A1", "Bearer A2"}, seen)

	// refresh token survived the rotation
	held, _ := credentials.Lookup()
	assert.Equal(t, "R1", held.RefreshToken)
}

func TestRoundTripper_SecondUnauthorizedSurfaces(t *testing.T) {
	credentials := store.NewMemoryStore()
	_ = credentials.SetTokens(&oauth2.Token{AccessToken: "A1", RefreshToken: "R1"})
	refresher := &fakeRefresher{store: credentials, next: "A2"}
	attempts := 0
	rt, _ := New(
		WithStore(credentials),
		WithRefresher(refresher),
		WithTransport(roundTripFunc(func(r *http.Request) (*http.Response, error) {
			attempts++
			return response(http.StatusUnauthorized), nil
		})))

	resp, err := rt.RoundTrip(newRequest(t, http.MethodGet, ""))
	assert.Nil(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	// at most one refresh, at most one replay
	assert.Equal(t, 1, refresher.calls)
	assert.Equal(t, 2, attempts)
}

func TestRoundTripper_RefreshFailureSurfaces(t *testing.T) {
	credentials := store.NewMemoryStore()
	_ = credentials.SetTokens(&oauth2.Token{AccessToken: "A1", RefreshToken: "R1"})
	refresher := &fakeRefresher{store: credentials, err: io.ErrUnexpectedEOF}
	attempts := 0
	rt, _ := New(
		WithStore(credentials),
		WithRefresher(refresher),
		WithTransport(roundTripFunc(func(r *http.Request) (*http.Response, error) {
			attempts++
			return response(http.StatusUnauthorized), nil
		})))

	_, err := rt.RoundTrip(newRequest(t, http.MethodGet, ""))
	assert.Equal(t, io.ErrUnexpectedEOF, err)
	assert.Equal(t, 1, refresher.calls)
	assert.Equal(t, 1, attempts)
}

func TestRoundTripper_RejectedRefreshEndsSession(t *testing.T) {
	credentials := store.NewMemoryStore()
	_ = credentials.SetTokens(&oauth2.Token{AccessToken: "A1", RefreshToken: "R1"})
	refresher := &fakeRefresher{store: credentials, err: schema.NewStatusError(http.StatusUnauthorized, "token refresh failed", "")}
	rt, _ := New(
		WithStore(credentials),
		WithRefresher(refresher),
		WithTransport(roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return response(http.StatusUnauthorized), nil
		})))

	_, err := rt.RoundTrip(newRequest(t, http.MethodGet, ""))
	assert.True(t, schema.IsUnauthorized(err))
	// stale credentials are dropped once the refresh token is rejected
	_, held := credentials.Lookup()
	assert.False(t, held)
}

func TestRoundTripper_OtherFailuresPassThrough(t *testing.T) {
	for _, statusCode := range []int{http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError} {
		credentials := store.NewMemoryStore()
		_ = credentials.SetTokens(&oauth2.Token{AccessToken: "A1"})
		refresher := &fakeRefresher{store: credentials}
		rt, _ := New(
			WithStore(credentials),
			WithRefresher(refresher),
			WithTransport(roundTripFunc(func(r *http.Request) (*http.Response, error) {
				return response(statusCode), nil
			})))

		resp, err := rt.RoundTrip(newRequest(t, http.MethodGet, ""))
		assert.Nil(t, err)
		assert.Equal(t, statusCode, resp.StatusCode)
		assert.Equal(t, 0, refresher.calls)
	}
}

func TestRoundTripper_ReplaysRequestBody(t *testing.T) {
	credentials := store.NewMemoryStore()
	_ = credentials.SetTokens(&oauth2.Token{AccessToken: "A1", RefreshToken: "R1"})
	refresher := &fakeRefresher{store: credentials, next: "A2"}
	var bodies []string
	rt, _ := New(
		WithStore(credentials),
		WithRefresher(refresher),
		WithTransport(roundTripFunc(func(r *http.Request) (*http.Response, error) {
			data, _ := io.ReadAll(r.Body)
			bodies = append(bodies, string(data))
			if r.Header.Get("Authorization") != "Bearer A2" {
				return response(http.StatusUnauthorized), nil
			}
			return response(http.StatusOK), nil
		})))

	payload := `{"tableName":"Product","records":[{"name":"n"}]}`
	resp, err := rt.RoundTrip(newRequest(t, http.MethodPost, payload))
	assert.Nil(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{payload, payload}, bodies)
}

func TestRoundTripper_SkipsRefreshAfterPeerRotation(t *testing.T) {
	credentials := store.NewMemoryStore()
	_ = credentials.SetTokens(&oauth2.Token{AccessToken: "A1", RefreshToken: "R1"})
	refresher := &fakeRefresher{store: credentials, next: "A3"}
	rt, _ := New(
		WithStore(credentials),
		WithRefresher(refresher),
		WithTransport(roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if r.Header.Get("Authorization") == "Bearer A1" {
				// simulate a peer rotating the token while this call was in flight
				_ = credentials.SetTokens(&oauth2.Token{AccessToken: "A2", RefreshToken: "R1"})
				return response(http.StatusUnauthorized), nil
			}
			return response(http.StatusOK), nil
		})))

	resp, err := rt.RoundTrip(newRequest(t, http.MethodGet, ""))
	assert.Nil(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, refresher.calls)
}

func TestNew_RequiresRefresher(t *testing.T) {
	_, err := New(WithStore(store.NewMemoryStore()))
	assert.NotNil(t, err)
}
