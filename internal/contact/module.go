// Package contact provides the contact disclosure bounded context module.
package contact

import (
	"context"
	"time"

	"listing_portal_backend/internal/contact/client"
	"listing_portal_backend/internal/contact/handler"
	"listing_portal_backend/internal/contact/orchestrator"
	"listing_portal_backend/internal/contact/repository"
	"listing_portal_backend/internal/contact/session"
	"listing_portal_backend/internal/contact/validation"
	"listing_portal_backend/internal/events"
	apphttp "listing_portal_backend/internal/http"
	"listing_portal_backend/platform/clock"
	"listing_portal_backend/platform/config"
	"listing_portal_backend/platform/kv"
	"listing_portal_backend/platform/logger"
	"listing_portal_backend/platform/validator"
)

const janitorInterval = time.Minute

// Config combines the config interfaces needed by the contact module.
type Config interface {
	config.UpstreamConfig
	config.DisclosureConfig
	GetSessionIdleTimeout() time.Duration
}

// Deps are the infrastructure the module runs on. Ledger and Upstream may be nil.
type Deps struct {
	Storage   kv.Store
	Ledger    repository.Recorder
	Upstream  orchestrator.Upstream
	Bus       events.Bus
	Validator *validator.Validator
	Clock     clock.Clock
	Log       *logger.Logger
}

// Module is the contact bounded context module implementing http.Module.
type Module struct {
	handler  *handler.Handler
	sessions *session.Registry
}

// NewModule creates and initializes the contact module.
func NewModule(cfg Config, deps Deps) (*Module, error) {
	if deps.Log == nil {
		deps.Log = logger.NewNop()
	}
	if deps.Clock == nil {
		deps.Clock = clock.New()
	}
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}
	if err := validation.RegisterTags(deps.Validator); err != nil {
		return nil, err
	}
	if deps.Upstream == nil {
		deps.Upstream = client.New(cfg, deps.Log)
	}
	if deps.Ledger != nil && deps.Bus != nil {
		repository.SubscribeLedger(deps.Bus, deps.Ledger, deps.Log)
	}

	factory := session.NewFactory(cfg, session.FactoryDeps{
		Storage:   deps.Storage,
		Upstream:  deps.Upstream,
		Validator: validation.New(cfg.GetDefaultRegion()),
		Bus:       deps.Bus,
		Clock:     deps.Clock,
		Log:       deps.Log,
	})
	sessions := session.NewRegistry(factory, cfg.GetSessionIdleTimeout(), deps.Clock, deps.Log)

	return &Module{
		handler:  handler.New(sessions, deps.Validator, deps.Log),
		sessions: sessions,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "contact"
}

// Sessions returns the per-visitor orchestrator registry.
func (m *Module) Sessions() *session.Registry {
	return m.sessions
}

// RunJanitor evicts idle visitor sessions until ctx is done.
func (m *Module) RunJanitor(ctx context.Context) error {
	return m.sessions.Run(ctx, janitorInterval)
}

// RegisterRoutes mounts contact routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Visitor.Group("/contact")
	if ctx.RateLimiter != nil {
		group.Use(ctx.RateLimiter.RateLimit())
	}

	group.DELETE("/identity", m.handler.ClearIdentity)
	group.GET("/:kind/:id", m.handler.View)
	group.GET("/:kind/:id/events", m.handler.Stream)
	group.POST("/:kind/:id/:channel", m.handler.Submit)
	group.POST("/:kind/:id/:channel/open", m.handler.Open)
	group.POST("/:kind/:id/:channel/retry", m.handler.Retry)
}
