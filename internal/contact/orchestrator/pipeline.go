package orchestrator

import (
	"context"
	"errors"

	"listing_portal_backend/internal/contact/client"
	"listing_portal_backend/internal/contact/domain"
	"listing_portal_backend/internal/events"
	"listing_portal_backend/platform/apperr"
	"listing_portal_backend/platform/phone"
	"listing_portal_backend/platform/retry"
)

// run executes one accepted submission: rate limit, ticket, upstream call with retry,
// and a commit that only applies when the ticket is still the latest for its pair.
func (o *Orchestrator) run(ctx context.Context, cc domain.ContactContext, channel domain.Channel, draft domain.FormDraft, auto bool) (Outcome, error) {
	key := cc.Key()
	pk := pipelineKey{contextKey: key, channel: channel}
	log := o.log.WithContext(ctx)

	o.mu.Lock()
	now := o.clock.Now()
	if o.hasAccepted && now.Sub(o.lastAccepted) < o.cfg.RateWindow {
		current := o.channelLocked(pk).state
		o.mu.Unlock()
		log.DisclosureEvent(key, string(channel), "rate_limited")
		return Outcome{ContextKey: key, Channel: channel, State: current}, apperr.RateLimited(MsgRateLimited)
	}
	o.lastAccepted = now
	o.hasAccepted = true
	o.nextTicket++
	ticket := o.nextTicket
	o.latest[pk] = ticket
	epoch := o.identityEpoch
	o.inFlight++

	cs := o.channelLocked(pk)
	cs.state = domain.StateSubmitting
	if auto {
		cs.state = domain.StateAutoSubmitting
	}
	cs.draft = draft
	cs.errMsg = ""
	cs.fieldErrors = nil
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.inFlight--
		o.mu.Unlock()
	}()

	// A disconnecting caller must not strand the pair in Submitting.
	callCtx := context.WithoutCancel(ctx)

	attempts := 0
	policy := retry.Policy{
		MaxAttempts: o.cfg.MaxAttempts,
		Delay:       o.cfg.RetryDelay,
		IsRetryable: client.IsRetryable,
		OnRetry: func(attempt int, err error) {
			log.UpstreamError(string(channel), attempt, err)
		},
	}

	var (
		numbers domain.RevealedNumbers
		err     error
	)
	if channel.RevealsNumber() {
		numbers, err = retry.Do(callCtx, o.clock, policy, func(ctx context.Context, attempt int) (domain.RevealedNumbers, error) {
			attempts = attempt
			return o.upstream.ResolveContactNumber(ctx, client.ResolveRequest{
				Name:     draft.Name,
				Phone:    draft.Phone,
				EntityID: cc.EntityID,
			})
		})
	} else {
		_, err = retry.Do(callCtx, o.clock, policy, func(ctx context.Context, attempt int) (string, error) {
			attempts = attempt
			return o.upstream.SendEnquiry(ctx, client.EnquiryForm{
				Email:    draft.Email,
				Message:  draft.Message,
				Phone:    draft.Phone,
				Name:     draft.Name,
				EntityID: cc.EntityID,
			})
		})
	}

	o.mu.Lock()
	if o.latest[pk] != ticket {
		current := o.channelLocked(pk).state
		o.mu.Unlock()
		log.DisclosureEvent(key, string(channel), "superseded", "ticket", ticket)
		return Outcome{ContextKey: key, Channel: channel, State: current, Ticket: ticket, Attempts: attempts, Superseded: true}, nil
	}

	if err != nil {
		failure := o.classify(channel, err)
		cs.state = domain.StateFailed
		cs.errMsg = failure.Message
		o.mu.Unlock()

		log.DisclosureEvent(key, string(channel), "failed", "attempts", attempts, "error", err)
		o.publish(ctx, events.DisclosureFailed{
			BaseEvent:  events.NewBaseEventAt(o.clock.Now()),
			SessionID:  o.cfg.SessionID,
			ContextKey: key,
			Channel:    string(channel),
			Reason:     failure.Message,
			Attempts:   attempts,
		})
		return Outcome{
			ContextKey: key,
			Channel:    channel,
			State:      domain.StateFailed,
			Error:      failure.Message,
			Ticket:     ticket,
			Attempts:   attempts,
		}, failure
	}

	outcome := Outcome{
		ContextKey:    key,
		Channel:       channel,
		Ticket:        ticket,
		Attempts:      attempts,
		AutoSubmitted: auto,
	}

	if !channel.RevealsNumber() {
		cs.state = domain.StateSent
		o.mu.Unlock()

		outcome.State = domain.StateSent
		log.DisclosureEvent(key, string(channel), "sent", "attempts", attempts)
		o.publish(ctx, events.EnquirySent{
			BaseEvent:    events.NewBaseEventAt(o.clock.Now()),
			SessionID:    o.cfg.SessionID,
			ContextKey:   key,
			Subject:      draft.Subject,
			VisitorName:  draft.Name,
			VisitorEmail: draft.Email,
			VisitorPhone: draft.Phone,
			Message:      draft.Message,
			Alerts:       draft.Alerts,
			Attempts:     attempts,
		})
		return outcome, nil
	}

	// Storage writes stay under the lock so a newer ticket cannot interleave its commit.
	identity := draft.Identity()
	if o.identityEpoch == epoch {
		if err := o.identity.Save(callCtx, identity); err != nil {
			log.Warn("failed to persist identity", "error", err)
		}
	}
	if err := o.numbers.Set(callCtx, key, numbers); err != nil {
		log.Warn("failed to cache numbers", "contextKey", key, "error", err)
	}
	o.state.SetPhoneNumbers(key, numbers.DisplayNumber, numbers.WhatsAppNumber)
	cs.state = domain.StateRevealed
	o.mu.Unlock()

	outcome.State = domain.StateRevealed
	outcome.Numbers = &numbers
	outcome.DeepLink = deepLink(channel, numbers, draft.Subject, &identity)

	log.DisclosureEvent(key, string(channel), "revealed",
		"attempts", attempts,
		"auto", auto,
		"visitorPhone", phone.Mask(draft.Phone),
	)
	o.publish(ctx, events.NumbersRevealed{
		BaseEvent:      events.NewBaseEventAt(o.clock.Now()),
		SessionID:      o.cfg.SessionID,
		ContextKey:     key,
		Channel:        string(channel),
		VisitorName:    draft.Name,
		VisitorPhone:   draft.Phone,
		DisplayNumber:  numbers.DisplayNumber,
		WhatsAppNumber: numbers.WhatsAppNumber,
		AutoSubmitted:  auto,
		Attempts:       attempts,
	})
	return outcome, nil
}

// classify maps an upstream failure to the banner shown to the visitor.
func (o *Orchestrator) classify(channel domain.Channel, err error) *apperr.Error {
	if client.IsRetryable(err) {
		return apperr.Wrap(apperr.KindUnavailable, MsgNetworkError, err)
	}
	msg := MsgNumberFailed
	if channel == domain.ChannelEmail {
		msg = MsgEnquiryFailed
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return apperr.Wrap(apperr.KindUnavailable, MsgNetworkError, err)
	}
	return apperr.Wrap(apperr.KindUpstream, msg, err)
}
