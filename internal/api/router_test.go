package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/notifyhub/dashcore/internal/api"
	"github.com/notifyhub/dashcore/internal/cache"
	"github.com/notifyhub/dashcore/internal/mediator"
	"github.com/notifyhub/dashcore/internal/pipeline"
	"github.com/notifyhub/dashcore/internal/publisher"
	"github.com/notifyhub/dashcore/internal/repository"
	"github.com/notifyhub/dashcore/internal/service"
)

type testServer struct {
	handler  http.Handler
	registry *cache.Registry
	pub      publisher.Publisher
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()
	registry := cache.NewRegistry(time.Minute, nil)
	store := cache.NewStore(100, time.Hour, cache.StoreHooks{})

	pub, err := publisher.New(publisher.StrategyChannel, 16, logger, publisher.Hooks{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pub.Close(context.Background()) })

	m := mediator.New(pub, pipeline.Default(pipeline.Deps{
		Logger:        logger,
		Registry:      registry,
		Store:         store,
		SlowThreshold: time.Second,
	})...)
	require.NoError(t, service.Register(m, repository.NewMockCustomerRepository(), logger))

	return &testServer{
		handler: api.NewRouter(api.Deps{
			Sender:    m,
			Publisher: pub,
			Registry:  registry,
			Store:     store,
			Gatherer:  prometheus.NewRegistry(),
			Logger:    logger,
		}),
		registry: registry,
		pub:      pub,
	}
}

func (s *testServer) do(method, path string, body any, perms string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if perms != "" {
		req.Header.Set("X-User-ID", "u-1")
		req.Header.Set("X-User-Permissions", perms)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/health", nil, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))
}

func TestCustomerLifecycle(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/v1/customers", map[string]string{"name": "Acme", "email": "ops@acme.test"}, "customers.create")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[service.CustomerDTO](t, rec)

	rec = s.do(http.MethodGet, "/api/v1/customers/"+created.ID, nil, "customers.view")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Acme", decode[service.CustomerDTO](t, rec).Name)

	rec = s.do(http.MethodPut, "/api/v1/customers/"+created.ID, map[string]string{"name": "Acme Ltd"}, "customers.edit")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// The update refreshed the customers family, so the read is not served stale.
	rec = s.do(http.MethodGet, "/api/v1/customers/"+created.ID, nil, "customers.view")
	assert.Equal(t, "Acme Ltd", decode[service.CustomerDTO](t, rec).Name)

	rec = s.do(http.MethodGet, "/api/v1/customers?keyword=acme&page_size=5", nil, "customers.view")
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[map[string]any](t, rec)
	assert.Equal(t, 1.0, page["total_items"])

	rec = s.do(http.MethodDelete, "/api/v1/customers/"+created.ID, nil, "customers.delete")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/customers/"+created.ID, nil, "customers.view")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCustomerErrors(t *testing.T) {
	s := newTestServer(t)

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		perms  string
		want   int
	}{
		{"anonymous", http.MethodGet, "/api/v1/customers", nil, "", http.StatusUnauthorized},
		{"missing permission", http.MethodPost, "/api/v1/customers", map[string]string{"name": "x"}, "customers.view", http.StatusForbidden},
		{"invalid body", http.MethodPost, "/api/v1/customers", "not-an-object", "*", http.StatusBadRequest},
		{"validation", http.MethodPost, "/api/v1/customers", map[string]string{"email": "nope"}, "*", http.StatusUnprocessableEntity},
		{"bad id", http.MethodGet, "/api/v1/customers/123", nil, "*", http.StatusUnprocessableEntity},
		{"no ids", http.MethodDelete, "/api/v1/customers", map[string]any{"ids": []string{}}, "*", http.StatusBadRequest},
		{"unknown id", http.MethodDelete, "/api/v1/customers", map[string]any{"ids": []string{"6f1c2c0e-8d4f-4a55-9a36-0b6c2d7f1e11"}}, "*", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := s.do(tc.method, tc.path, tc.body, tc.perms)
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
		})
	}
}

func TestCacheFamilies(t *testing.T) {
	s := newTestServer(t)
	token := s.registry.Family("customers").GetOrCreate()

	rec := s.do(http.MethodPost, "/api/v1/cache/families/customers/refresh", nil, "customers.view")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, token.Canceled())

	rec = s.do(http.MethodPost, "/api/v1/cache/families/customers/refresh", nil, "cache.manage")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, token.Canceled())

	rec = s.do(http.MethodGet, "/api/v1/cache/families", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		Families []cache.FamilyState `json:"families"`
	}](t, rec)
	require.Len(t, body.Families, 1)
	assert.Equal(t, "customers", body.Families[0].Name)
	assert.True(t, body.Families[0].Canceled)
}

func TestMetricsSnapshot(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/v1/metrics", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[struct {
		Publisher publisher.Stats `json:"publisher"`
	}](t, rec)
	assert.Equal(t, publisher.StrategyChannel, body.Publisher.Strategy)
	assert.Equal(t, 16, body.Publisher.QueueCapacity)

	rec = s.do(http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
