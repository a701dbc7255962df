package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/augustosalazar/roble-go/client/auth"
	"github.com/augustosalazar/roble-go/client/auth/mock"
	"github.com/augustosalazar/roble-go/client/auth/store"
	"github.com/augustosalazar/roble-go/client/auth/transport"
	"github.com/augustosalazar/roble-go/schema"
)

// newTestService wires a data client against a mock Roble service with an
// already authenticated session.
func newTestService(t *testing.T, login bool) (*mock.Service, *Service) {
	service := mock.NewService().Start()
	t.Cleanup(service.Close)

	credentials := store.NewMemoryStore()
	authService := auth.New(service.URL, credentials)
	if login {
		assert.Nil(t, authService.Login(context.Background(), service.Email, service.Password))
	}
	roundTripper, err := transport.New(
		transport.WithStore(credentials),
		transport.WithRefresher(authService))
	assert.Nil(t, err)
	dataService := New(service.URL, service.Contract,
		WithHTTPClient(&http.Client{Transport: roundTripper}))
	return service, dataService
}

func TestService_CRUD(t *testing.T) {
	service, dataService := newTestService(t, true)
	ctx := context.Background()

	records, err := dataService.List(ctx)
	assert.Nil(t, err)
	assert.Empty(t, records)

	err = dataService.Insert(ctx, schema.Record{"name": "widget", "description": "a widget", "quantity": 3})
	assert.Nil(t, err)
	assert.Equal(t, 1, service.InsertCalls)

	records, err = dataService.List(ctx)
	assert.Nil(t, err)
	if !assert.Len(t, records, 1) {
		return
	}
	id := records[0].ID()
	assert.NotEmpty(t, id)
	assert.Equal(t, "widget", records[0]["name"])

	err = dataService.Update(ctx, id, map[string]interface{}{"quantity": 7})
	assert.Nil(t, err)
	records, _ = dataService.List(ctx)
	assert.EqualValues(t, 7, records[0]["quantity"])

	err = dataService.Delete(ctx, id)
	assert.Nil(t, err)
	records, _ = dataService.List(ctx)
	assert.Empty(t, records)
}

func TestService_ListSurvivesTokenExpiry(t *testing.T) {
	service, dataService := newTestService(t, true)
	ctx := context.Background()
	service.SeedRecords(dataService.Table(), []schema.Record{{"_id": "p-1", "name": "widget"}})

	service.ExpireAccessTokens()
	records, err := dataService.List(ctx)
	assert.Nil(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, 1, service.RefreshCalls)
}

func TestService_UnauthorizedWithoutSession(t *testing.T) {
	_, dataService := newTestService(t, false)

	_, err := dataService.List(context.Background())
	assert.NotNil(t, err)
	assert.True(t, schema.IsUnauthorized(err))
}

func TestService_UnrecoverableSession(t *testing.T) {
	service, dataService := newTestService(t, true)
	ctx := context.Background()

	service.ExpireAccessTokens()
	service.RevokeRefreshToken()
	_, err := dataService.List(ctx)
	assert.NotNil(t, err)
	assert.True(t, schema.IsUnauthorized(err))
	// exactly one refresh attempt, never a second
	assert.Equal(t, 1, service.RefreshCalls)
}

func TestService_DeleteAll(t *testing.T) {
	service, dataService := newTestService(t, true)
	ctx := context.Background()
	service.SeedRecords(dataService.Table(), []schema.Record{
		{"_id": "p-1", "name": "one"},
		{"_id": "p-2", "name": "two"},
		{"_id": "p-3", "name": "three"},
	})

	deleted, err := dataService.DeleteAll(ctx)
	assert.Nil(t, err)
	assert.Equal(t, 3, deleted)
	assert.Equal(t, 3, service.DeleteCalls)
	assert.Empty(t, service.Records(dataService.Table()))
}

func TestService_DeleteAllStopsOnFailure(t *testing.T) {
	deletes := 0
	scripted := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"_id":"p-1"},{"_id":"p-2"},{"_id":"p-3"}]`))
		case r.Method == http.MethodDelete:
			deletes++
			if deletes == 2 {
				http.Error(w, "boom", http.StatusInternalServerError)
				return
			}
			_, _ = w.Write([]byte(`{}`))
		}
	}))
	defer scripted.Close()

	dataService := New(scripted.URL, "contract_test")
	deleted, err := dataService.DeleteAll(context.Background())
	assert.NotNil(t, err)
	assert.Equal(t, schema.KindServer, schema.KindOf(err))
	assert.Equal(t, 1, deleted)
	assert.Equal(t, 2, deletes)
}

func TestService_ErrorMapping(t *testing.T) {
	service, dataService := newTestService(t, true)
	ctx := context.Background()

	// updating a missing record is a request error, not a retry trigger
	err := dataService.Update(ctx, "missing", map[string]interface{}{"name": "x"})
	assert.NotNil(t, err)
	assert.Equal(t, schema.KindRequest, schema.KindOf(err))
	assert.Equal(t, 1, service.UpdateCalls)

	err = dataService.Delete(ctx, "missing")
	assert.NotNil(t, err)
	assert.Equal(t, schema.KindRequest, schema.KindOf(err))
}

func TestService_TransportError(t *testing.T) {
	dataService := New("http://127.0.0.1:1", "contract_test")
	_, err := dataService.List(context.Background())
	assert.NotNil(t, err)
	assert.Equal(t, schema.KindTransport, schema.KindOf(err))
}
