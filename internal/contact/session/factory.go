package session

import (
	"listing_portal_backend/internal/contact/orchestrator"
	"listing_portal_backend/internal/contact/state"
	"listing_portal_backend/internal/contact/store"
	"listing_portal_backend/internal/contact/validation"
	"listing_portal_backend/internal/events"
	"listing_portal_backend/platform/clock"
	"listing_portal_backend/platform/config"
	"listing_portal_backend/platform/kv"
	"listing_portal_backend/platform/logger"
)

// FactoryDeps are shared by every session.
type FactoryDeps struct {
	Storage   kv.Store
	Upstream  orchestrator.Upstream
	Validator *validation.Validator
	Bus       events.Bus
	Clock     clock.Clock
	Log       *logger.Logger
}

// NewFactory returns a Factory whose orchestrators keep their identity and numbers
// under the session's own key prefix.
func NewFactory(cfg config.DisclosureConfig, deps FactoryDeps) Factory {
	return func(sessionID string) *orchestrator.Orchestrator {
		storage := kv.Prefixed(deps.Storage, kv.SessionPrefix(sessionID))
		log := deps.Log
		if log != nil {
			log = log.WithSessionID(sessionID)
		}

		numbers := store.NewNumberCache(storage, log)
		return orchestrator.New(orchestrator.Config{
			SessionID:   sessionID,
			RateWindow:  cfg.GetDisclosureRateWindow(),
			RetryDelay:  cfg.GetDisclosureRetryDelay(),
			MaxAttempts: cfg.GetDisclosureMaxAttempts(),
		}, orchestrator.Deps{
			Upstream:  deps.Upstream,
			Identity:  store.NewIdentityStore(storage, log),
			Numbers:   numbers,
			State:     state.New(numbers, log),
			Validator: deps.Validator,
			Bus:       deps.Bus,
			Clock:     deps.Clock,
			Log:       log,
		})
	}
}
