package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/rgpatients/patients/internal/config"
	"github.com/rgpatients/patients/internal/platform/auth"
)

func testConfig(env string) *config.Config {
	return &config.Config{
		Port:           "8000",
		Env:            env,
		DatabaseURL:    "postgres://localhost/patients",
		DBMaxConns:     5,
		DBMinConns:     1,
		AuthSigningKey: "0123456789abcdef0123456789abcdef",
		CORSOrigins:    []string{"http://localhost:3000"},
		RequestTimeout: 5 * time.Second,
	}
}

func TestNewServer_RegistersRoutes(t *testing.T) {
	e := newServer(testConfig("production"), nil, zerolog.New(io.Discard))

	registered := make(map[string]bool)
	for _, r := range e.Routes() {
		registered[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"GET /health",
		"GET /health/db",
		"GET /api/v1/countries",
		"GET /api/v1/provinces/:code",
		"POST /api/v1/concentration-units",
		"DELETE /api/v1/dispensing-units/:code",
		"PUT /api/v1/medications/:din",
		"POST /api/v1/patients/validate",
		"GET /api/v1/diagnoses",
		"POST /api/v1/patient-diagnoses",
		"GET /api/v1/patient-treatments",
		"POST /api/v1/patient-treatments/:id/medications",
		"DELETE /api/v1/patient-medications/:id",
	} {
		if !registered[want] {
			t.Errorf("route %q not registered", want)
		}
	}
}

func TestNewServer_HealthIsPublic(t *testing.T) {
	e := newServer(testConfig("production"), nil, zerolog.New(io.Discard))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected security headers on every response")
	}
}

func TestNewServer_ProductionRequiresToken(t *testing.T) {
	e := newServer(testConfig("production"), nil, zerolog.New(io.Discard))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_DevGrantsAdministrators(t *testing.T) {
	e := echo.New()
	var roles []string
	h := authMiddleware(testConfig("development"))(func(c echo.Context) error {
		roles = auth.RolesFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	if err := h(e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil), rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(roles) != 1 || roles[0] != auth.RoleAdministrators {
		t.Errorf("expected administrators role, got %v", roles)
	}
}

func TestAuthMiddleware_DevStillChecksTokens(t *testing.T) {
	e := echo.New()
	h := authMiddleware(testConfig("development"))(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	err := h(e.NewContext(req, httptest.NewRecorder()))
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}
