package contact

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"listing_portal_backend/internal/contact/client"
	"listing_portal_backend/internal/contact/domain"
	"listing_portal_backend/internal/contact/repository"
	"listing_portal_backend/internal/events"
	apphttp "listing_portal_backend/internal/http"
	"listing_portal_backend/platform/clock"
	"listing_portal_backend/platform/config"
	"listing_portal_backend/platform/httpkit"
	"listing_portal_backend/platform/kv"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedUpstream struct{}

func (fixedUpstream) ResolveContactNumber(context.Context, client.ResolveRequest) (domain.RevealedNumbers, error) {
	return domain.RevealedNumbers{DisplayNumber: "+233 30 123 4567", WhatsAppNumber: "233301234567"}, nil
}

func (fixedUpstream) SendEnquiry(context.Context, client.EnquiryForm) (string, error) {
	return client.StatusSent, nil
}

type memoryLedger struct {
	mu      sync.Mutex
	entries []repository.Entry
}

func (l *memoryLedger) Record(_ context.Context, entry repository.Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
	return nil
}

func (l *memoryLedger) all() []repository.Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]repository.Entry(nil), l.entries...)
}

func TestModuleRoutesAndLedger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		DefaultRegion:         "GH",
		DisclosureRateWindow:  2 * time.Second,
		DisclosureRetryDelay:  time.Second,
		DisclosureMaxAttempts: 2,
		SessionIdleTimeout:    time.Hour,
	}
	bus := events.NewInMemoryBus(nil)
	ledger := &memoryLedger{}

	module, err := NewModule(cfg, Deps{
		Storage:  kv.NewMemory(),
		Ledger:   ledger,
		Upstream: fixedUpstream{},
		Bus:      bus,
		Clock:    clock.NewFake(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, err)
	assert.Equal(t, "contact", module.Name())

	engine := gin.New()
	visitor := engine.Group("/api/v1")
	visitor.Use(func(c *gin.Context) {
		c.Set(httpkit.ContextSessionIDKey, "visitor-7")
		c.Next()
	})
	module.RegisterRoutes(&apphttp.RouterContext{Engine: engine, Visitor: visitor})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/contact/listing/42/whatsapp",
		strings.NewReader(`{"name":"Kofi Boateng","phone":"0244123456","subject":"Oak Villa"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "https://wa.me/233301234567")

	bus.Wait()
	entries := ledger.all()
	require.Len(t, entries, 1)
	assert.Equal(t, "visitor-7", entries[0].SessionID)
	assert.Equal(t, "listing:42", entries[0].ContextKey)
	assert.Equal(t, repository.OutcomeRevealed, entries[0].Outcome)
	assert.NotContains(t, entries[0].VisitorPhone, "244123456")

	assert.Equal(t, 1, module.Sessions().Len())
}

func TestNewModuleWithoutLedger(t *testing.T) {
	module, err := NewModule(&config.Config{DisclosureMaxAttempts: 1}, Deps{Storage: kv.NewMemory()})
	require.NoError(t, err)
	assert.NotNil(t, module.Sessions())
}
