package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"listing_portal_backend/platform/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSessionConfig() *config.Config {
	return &config.Config{
		SessionSecret:         "test-secret",
		SessionCookieName:     "lp_session",
		SessionCookieSameSite: http.SameSiteLaxMode,
		SessionTTL:            time.Hour,
	}
}

func newSessionRouter(cfg *config.Config, issuer *SessionIssuer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(VisitorSession(issuer, cfg, nil))
	r.GET("/whoami", func(c *gin.Context) {
		v := MustGetVisitor(c)
		if v == nil {
			return
		}
		c.JSON(http.StatusOK, gin.H{"sid": v.SessionID(), "new": v.IsNew()})
	})
	return r
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestVisitorSessionIssuesCookie(t *testing.T) {
	cfg := testSessionConfig()
	r := newSessionRouter(cfg, NewSessionIssuer(cfg))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookie(t, rec, "lp_session")
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Contains(t, rec.Body.String(), `"new":true`)
}

func TestVisitorSessionReusesValidCookie(t *testing.T) {
	cfg := testSessionConfig()
	issuer := NewSessionIssuer(cfg)
	r := newSessionRouter(cfg, issuer)

	const sid = "4a4d4fb6-58f5-4d1c-9c55-0d2f3f0c8a11"
	token, err := issuer.Issue(sid)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "lp_session", Value: token})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), sid)
	assert.Contains(t, rec.Body.String(), `"new":false`)
	assert.Nil(t, sessionCookie(t, rec, "lp_session"), "fresh cookie should not be re-issued")
}

func TestVisitorSessionRejectsForeignSignature(t *testing.T) {
	cfg := testSessionConfig()
	other := testSessionConfig()
	other.SessionSecret = "another-secret"

	token, err := NewSessionIssuer(other).Issue("4a4d4fb6-58f5-4d1c-9c55-0d2f3f0c8a11")
	require.NoError(t, err)

	r := newSessionRouter(cfg, NewSessionIssuer(cfg))
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "lp_session", Value: token})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "4a4d4fb6")
	assert.Contains(t, rec.Body.String(), `"new":true`)
}

func TestSessionIssuerParseExpired(t *testing.T) {
	cfg := testSessionConfig()
	issuer := NewSessionIssuer(cfg)
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return start }

	token, err := issuer.Issue("4a4d4fb6-58f5-4d1c-9c55-0d2f3f0c8a11")
	require.NoError(t, err)

	issuer.now = func() time.Time { return start.Add(2 * time.Hour) }
	_, _, err = issuer.Parse(token)
	assert.Error(t, err)
}

func TestSessionIssuerRejectsNonUUIDSession(t *testing.T) {
	cfg := testSessionConfig()
	issuer := NewSessionIssuer(cfg)

	token, err := issuer.Issue("../../etc")
	require.NoError(t, err)

	_, _, err = issuer.Parse(token)
	assert.Error(t, err)
}
