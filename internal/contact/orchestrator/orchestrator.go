// Package orchestrator implements the disclosure state machine of one visitor: it decides
// between cache hits, auto-submission and the contact form, and runs submissions through
// validation, a local rate limit, ticketed race protection and bounded retry.
package orchestrator

import (
	"context"
	"sync"
	"time"

	"listing_portal_backend/internal/contact/domain"
	"listing_portal_backend/internal/contact/state"
	"listing_portal_backend/internal/contact/validation"
	"listing_portal_backend/internal/events"
	"listing_portal_backend/platform/apperr"
	"listing_portal_backend/platform/clock"
	"listing_portal_backend/platform/logger"
)

type pipelineKey struct {
	contextKey string
	channel    domain.Channel
}

type channelState struct {
	state       domain.State
	draft       domain.FormDraft
	errMsg      string
	fieldErrors validation.FieldErrors
}

// Orchestrator is the DisclosureOrchestrator of one visitor session.
// It is safe for concurrent use.
type Orchestrator struct {
	cfg       Config
	upstream  Upstream
	identity  IdentityStore
	numbers   NumberCache
	state     *state.Store
	validator *validation.Validator
	bus       events.Bus
	clock     clock.Clock
	log       *logger.Logger

	mu           sync.Mutex
	nextTicket   uint64
	latest       map[pipelineKey]uint64
	channels     map[pipelineKey]*channelState
	lastAccepted time.Time
	hasAccepted  bool
	lastActivity time.Time
	inFlight     int
	// identityEpoch changes whenever the saved identity is cleared.
	identityEpoch uint64
}

// Deps are the collaborators of an Orchestrator. Bus may be nil.
type Deps struct {
	Upstream  Upstream
	Identity  IdentityStore
	Numbers   NumberCache
	State     *state.Store
	Validator *validation.Validator
	Bus       events.Bus
	Clock     clock.Clock
	Log       *logger.Logger
}

// New creates an Orchestrator.
func New(cfg Config, deps Deps) *Orchestrator {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if deps.Clock == nil {
		deps.Clock = clock.New()
	}
	if deps.Log == nil {
		deps.Log = logger.NewNop()
	}
	if deps.State == nil {
		deps.State = state.New(deps.Numbers, deps.Log)
	}
	if deps.Validator == nil {
		deps.Validator = validation.New("")
	}

	return &Orchestrator{
		cfg:          cfg,
		upstream:     deps.Upstream,
		identity:     deps.Identity,
		numbers:      deps.Numbers,
		state:        deps.State,
		validator:    deps.Validator,
		bus:          deps.Bus,
		clock:        deps.Clock,
		log:          deps.Log,
		latest:       make(map[pipelineKey]uint64),
		channels:     make(map[pipelineKey]*channelState),
		lastActivity: deps.Clock.Now(),
	}
}

// State returns the shared ContactStateStore of this visitor.
func (o *Orchestrator) State() *state.Store {
	return o.state
}

// Open handles a click on one of the contact buttons. Cached numbers are shown without a
// network call; a saved identity is submitted automatically for call and whatsapp;
// otherwise the form is requested, pre-filled with the saved identity if any.
func (o *Orchestrator) Open(ctx context.Context, cc domain.ContactContext, channel domain.Channel, subject string) (Outcome, error) {
	key := cc.Key()
	pk := pipelineKey{contextKey: key, channel: channel}
	o.Touch()

	identity := o.loadIdentity(ctx)

	if channel.RevealsNumber() {
		cached, err := o.numbers.Get(ctx, key)
		if err != nil {
			o.log.WithContext(ctx).Warn("number cache unavailable", "contextKey", key, "error", err)
		}
		if cached != nil {
			o.state.SetPhoneNumbers(key, cached.DisplayNumber, cached.WhatsAppNumber)

			o.mu.Lock()
			cs := o.channelLocked(pk)
			cs.state = domain.StateRevealed
			cs.errMsg = ""
			cs.fieldErrors = nil
			o.mu.Unlock()

			o.log.WithContext(ctx).DisclosureEvent(key, string(channel), "cache_hit")
			return Outcome{
				ContextKey: key,
				Channel:    channel,
				State:      domain.StateRevealed,
				Numbers:    cached,
				DeepLink:   deepLink(channel, *cached, subject, identity),
				FromCache:  true,
			}, nil
		}

		if identity != nil {
			draft := domain.DraftFromIdentity(identity)
			draft.Subject = subject
			return o.run(ctx, cc, channel, draft, true)
		}
	}

	draft := domain.DraftFromIdentity(identity)
	draft.Subject = subject

	o.mu.Lock()
	cs := o.channelLocked(pk)
	if !cs.state.InFlight() {
		cs.state = domain.StateAwaitingIdentity
		cs.errMsg = ""
		cs.fieldErrors = nil
	}
	current := cs.state
	o.mu.Unlock()

	return Outcome{
		ContextKey: key,
		Channel:    channel,
		State:      current,
		Draft:      &draft,
	}, nil
}

// Submit validates a form and runs it through the submission pipeline.
// Invalid forms never reach the network and return a validation error whose details map
// each failing field to its message.
func (o *Orchestrator) Submit(ctx context.Context, cc domain.ContactContext, channel domain.Channel, draft domain.FormDraft) (Outcome, error) {
	key := cc.Key()
	pk := pipelineKey{contextKey: key, channel: channel}
	o.Touch()

	if fieldErrors := o.validator.ValidateForm(channel, draft); !fieldErrors.Empty() {
		o.mu.Lock()
		cs := o.channelLocked(pk)
		if !cs.state.InFlight() {
			cs.state = domain.StateAwaitingIdentity
		}
		cs.fieldErrors = fieldErrors
		current := cs.state
		o.mu.Unlock()

		o.log.WithContext(ctx).DisclosureEvent(key, string(channel), "validation_failed", "fields", len(fieldErrors))
		return Outcome{ContextKey: key, Channel: channel, State: current},
			apperr.Validation(MsgInvalidForm).WithDetails(map[string]string(fieldErrors))
	}

	return o.run(ctx, cc, channel, o.validator.Sanitize(draft), false)
}

// Retry re-submits the last form of a failed pair.
func (o *Orchestrator) Retry(ctx context.Context, cc domain.ContactContext, channel domain.Channel) (Outcome, error) {
	key := cc.Key()
	pk := pipelineKey{contextKey: key, channel: channel}
	o.Touch()

	o.mu.Lock()
	cs, ok := o.channels[pk]
	if !ok || cs.state != domain.StateFailed {
		current := domain.StateUnrevealed
		if ok {
			current = cs.state
		}
		o.mu.Unlock()
		return Outcome{ContextKey: key, Channel: channel, State: current}, apperr.Conflict(MsgNothingToRetry)
	}
	draft := cs.draft
	o.mu.Unlock()

	return o.run(ctx, cc, channel, draft, false)
}

// UseDifferentInfo forgets the saved identity. Every channel of cc returns to
// AwaitingIdentity with an empty form and its in-flight submission, if any, is discarded.
// Submissions in flight for other contexts still reveal but no longer save the identity.
// Cached numbers are left alone.
func (o *Orchestrator) UseDifferentInfo(ctx context.Context, cc domain.ContactContext) (Outcome, error) {
	key := cc.Key()
	o.Touch()

	// Held across Clear so no commit can save the identity in between.
	o.mu.Lock()
	if err := o.identity.Clear(ctx); err != nil {
		o.mu.Unlock()
		return Outcome{}, apperr.Wrap(apperr.KindUnavailable, MsgNetworkError, err).WithOp("contact.UseDifferentInfo")
	}
	o.identityEpoch++
	for _, channel := range domain.Channels() {
		pk := pipelineKey{contextKey: key, channel: channel}
		cs, ok := o.channels[pk]
		if !ok {
			continue
		}
		// Submissions still in flight for cc are superseded.
		o.nextTicket++
		o.latest[pk] = o.nextTicket

		switch cs.state {
		case domain.StateRevealed, domain.StateSent, domain.StateFailed,
			domain.StateSubmitting, domain.StateAutoSubmitting:
			cs.state = domain.StateAwaitingIdentity
			cs.draft = domain.FormDraft{}
			cs.errMsg = ""
			cs.fieldErrors = nil
		}
	}
	o.mu.Unlock()

	o.log.WithContext(ctx).DisclosureEvent(key, "", "identity_cleared")
	o.publish(ctx, events.IdentityCleared{
		BaseEvent:  events.NewBaseEventAt(o.clock.Now()),
		SessionID:  o.cfg.SessionID,
		ContextKey: key,
	})

	empty := domain.FormDraft{}
	return Outcome{ContextKey: key, State: domain.StateAwaitingIdentity, Draft: &empty}, nil
}

// Snapshot returns the view of cc: the state of every channel, the shared numbers and
// whether an identity is saved.
func (o *Orchestrator) Snapshot(ctx context.Context, cc domain.ContactContext) View {
	key := cc.Key()
	o.Touch()

	identity := o.loadIdentity(ctx)
	numbers := o.state.Get(ctx, key)

	view := View{
		ContextKey:    key,
		Channels:      make(map[domain.Channel]ChannelView, len(domain.Channels())),
		Numbers:       numbers,
		IdentitySaved: identity != nil,
		Draft:         domain.DraftFromIdentity(identity),
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	for _, channel := range domain.Channels() {
		cv := ChannelView{State: domain.StateUnrevealed}
		if cs, ok := o.channels[pipelineKey{contextKey: key, channel: channel}]; ok {
			cv = ChannelView{State: cs.state, Error: cs.errMsg, FieldErrors: cs.fieldErrors}
		}
		view.Channels[channel] = cv
	}
	return view
}

// LastActivity returns when the orchestrator was last used.
func (o *Orchestrator) LastActivity() time.Time {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastActivity
}

// Busy reports whether a submission is running.
func (o *Orchestrator) Busy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.inFlight > 0
}

// Touch marks the orchestrator as used now.
func (o *Orchestrator) Touch() {
	now := o.clock.Now()
	o.mu.Lock()
	o.lastActivity = now
	o.mu.Unlock()
}

func (o *Orchestrator) loadIdentity(ctx context.Context) *domain.UserIdentity {
	identity, err := o.identity.Load(ctx)
	if err != nil {
		o.log.WithContext(ctx).Warn("identity store unavailable", "error", err)
		return nil
	}
	return identity
}

func (o *Orchestrator) channelLocked(pk pipelineKey) *channelState {
	cs, ok := o.channels[pk]
	if !ok {
		cs = &channelState{state: domain.StateUnrevealed}
		o.channels[pk] = cs
	}
	return cs
}

func (o *Orchestrator) publish(ctx context.Context, event events.Event) {
	if o.bus == nil {
		return
	}
	o.bus.Publish(ctx, event)
}

func deepLink(channel domain.Channel, numbers domain.RevealedNumbers, subject string, identity *domain.UserIdentity) string {
	switch channel {
	case domain.ChannelWhatsApp:
		if identity == nil {
			return domain.WhatsAppLink(numbers.WhatsAppNumber, "")
		}
		return domain.WhatsAppLink(numbers.WhatsAppNumber, domain.WhatsAppGreeting(subject, identity.Name, identity.Phone))
	case domain.ChannelCall:
		return domain.TelLink(numbers.DisplayNumber)
	default:
		return ""
	}
}
