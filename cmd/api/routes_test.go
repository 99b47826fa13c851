package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"aura-backend/internal/config"
	"aura-backend/internal/faqs"
	"aura-backend/internal/httpx"
	"aura-backend/internal/portfolio"
	"aura-backend/internal/services"
	"aura-backend/internal/uploads"
	"aura-backend/internal/users"
	"aura-backend/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRoutes wires handlers without storage; only paths that stop before the
// repository layer may be exercised.
func testRoutes(t *testing.T, ping pinger) http.Handler {
	t.Helper()
	cfg := &config.Config{
		FrontendOrigins:    []string{"https://admin.digitalaura.se"},
		AdminAPIKey:        "key",
		RateLimitUploads:   30,
		RateLimitPublic:    10,
		RateLimitWindowSec: 60,
		Timezone:           time.UTC,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := uploads.NewStore(t.TempDir(), "http://localhost:4000/uploads", 1<<20)
	require.NoError(t, err)
	val := validation.New(httpx.Text{})

	rt := &routes{
		cfg:       cfg,
		log:       log,
		store:     store,
		services:  services.NewHandler(services.NewService(nil, val, time.UTC), store, nil, time.Minute, log, false),
		faqs:      faqs.NewHandler(faqs.NewService(nil, time.UTC), val, log, false),
		portfolio: portfolio.NewHandler(portfolio.NewService(nil, time.UTC), store, val, log, false),
		users:     users.NewHandler(users.NewService(nil, nil, time.UTC), val, log, false, false),
		uploads:   uploads.NewHandler(store, log, false),
		ping:      ping,
	}
	return rt.handler()
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	h := testRoutes(t, nil)

	protected := []struct{ method, path string }{
		{http.MethodPost, "/service/add"},
		{http.MethodPut, "/service/update/abc"},
		{http.MethodGet, "/service/admin/list"},
		{http.MethodDelete, "/service/delete"},
		{http.MethodPut, "/faqs/update/abc"},
		{http.MethodDelete, "/faqs/delete/abc"},
		{http.MethodDelete, "/faqs/delete"},
		{http.MethodPost, "/portfolio/add"},
		{http.MethodGet, "/portfolio/admin/list"},
		{http.MethodDelete, "/portfolio/delete-many"},
		{http.MethodGet, "/admin/me"},
	}
	for _, p := range protected {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(p.method, p.path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", p.method, p.path)
	}
}

func TestAdminKeyReachesHandler(t *testing.T) {
	h := testRoutes(t, nil)

	// An empty id list is rejected by the handler before any storage call.
	req := httptest.NewRequest(http.MethodDelete, "/service/delete", nil)
	req.Header.Set("X-Admin-Key", "key")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	testRoutes(t, func(ctx context.Context) error { return nil }).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	testRoutes(t, func(ctx context.Context) error { return errors.New("down") }).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUnknownRouteIsJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	testRoutes(t, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"status":404,"message":"Route not found"}`, rec.Body.String())
}

func TestLoginWithoutJWTSecret(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`{"email":"a@b.se","password":"x"}`))
	rec := httptest.NewRecorder()
	testRoutes(t, nil).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
