package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apphttp "listing_portal_backend/internal/http"
	"listing_portal_backend/platform/config"
	"listing_portal_backend/platform/httpkit"
	"listing_portal_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingStub struct{ err error }

func (p pingStub) Ping(context.Context) error { return p.err }

type echoModule struct{}

func (echoModule) Name() string { return "echo" }

func (echoModule) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Visitor.GET("/echo", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(httpkit.ContextSessionIDKey))
	})
}

func testConfig() *config.Config {
	return &config.Config{
		CORSOrigins:       []string{"https://listings.example.com"},
		SessionSecret:     "router-test-secret",
		SessionCookieName: "visitor",
		SessionTTL:        time.Hour,
	}
}

func newEngine(health apphttp.HealthChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return New(&apphttp.App{
		Config:  testConfig(),
		Logger:  logger.NewNop(),
		Health:  health,
		Modules: []apphttp.Module{echoModule{}},
	})
}

func TestHealth(t *testing.T) {
	cases := []struct {
		name   string
		health apphttp.HealthChecker
		want   int
	}{
		{name: "no checker", health: nil, want: http.StatusOK},
		{name: "healthy", health: pingStub{}, want: http.StatusOK},
		{name: "storage down", health: pingStub{err: errors.New("dial tcp: refused")}, want: http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newEngine(tc.health).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
			assert.Equal(t, tc.want, rec.Code)
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		})
	}
}

func TestVisitorRoutesIssueSessionCookie(t *testing.T) {
	engine := newEngine(nil)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/echo", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "visitor", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	sessionID := rec.Body.String()
	require.NotEmpty(t, sessionID)

	// The same cookie keeps the same session and is not re-issued.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/echo", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, sessionID, rec.Body.String())
	assert.Empty(t, rec.Result().Cookies())
}

func TestCORS(t *testing.T) {
	engine := newEngine(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "https://listings.example.com")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, "https://listings.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "https://elsewhere.example.com")
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCORSConfigWithoutOriginsDeniesAll(t *testing.T) {
	cfg := testConfig()
	cfg.CORSOrigins = nil

	corsCfg := corsConfig(cfg)
	require.NotNil(t, corsCfg.AllowOriginFunc)
	assert.False(t, corsCfg.AllowOriginFunc("https://listings.example.com"))

	cfg.CORSAllowAll = true
	assert.True(t, corsConfig(cfg).AllowOriginFunc("https://anywhere.example.com"))
}
