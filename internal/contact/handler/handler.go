package handler

import (
	"errors"
	"net/http"

	"listing_portal_backend/internal/contact/domain"
	"listing_portal_backend/internal/contact/orchestrator"
	"listing_portal_backend/internal/contact/transport"
	"listing_portal_backend/platform/apperr"
	"listing_portal_backend/platform/httpkit"
	"listing_portal_backend/platform/logger"
	"listing_portal_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Sessions resolves the orchestrator of a visitor session.
type Sessions interface {
	Get(sessionID string) *orchestrator.Orchestrator
}

// Handler handles HTTP requests for contact disclosure.
type Handler struct {
	sessions Sessions
	val      *validator.Validator
	log      *logger.Logger
}

// New creates a new contact handler.
func New(sessions Sessions, val *validator.Validator, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{sessions: sessions, val: val, log: log}
}

// View returns the state of every channel of a listing or project.
// GET /api/v1/contact/:kind/:id
func (h *Handler) View(c *gin.Context) {
	cc, ok := h.bindContext(c)
	if !ok {
		return
	}
	orch, ok := h.orchestrator(c)
	if !ok {
		return
	}
	httpkit.OK(c, orch.Snapshot(c.Request.Context(), cc))
}

// Open handles a click on show number, WhatsApp or email.
// POST /api/v1/contact/:kind/:id/:channel/open
func (h *Handler) Open(c *gin.Context) {
	cc, channel, ok := h.bindChannel(c)
	if !ok {
		return
	}
	var req transport.OpenRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}
	orch, ok := h.orchestrator(c)
	if !ok {
		return
	}

	out, err := orch.Open(c.Request.Context(), cc, channel, req.Subject)
	respond(c, out, err)
}

// Submit sends the contact form of a channel.
// POST /api/v1/contact/:kind/:id/:channel
func (h *Handler) Submit(c *gin.Context) {
	cc, channel, ok := h.bindChannel(c)
	if !ok {
		return
	}
	var req transport.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}
	orch, ok := h.orchestrator(c)
	if !ok {
		return
	}

	out, err := orch.Submit(c.Request.Context(), cc, channel, req.Draft())
	respond(c, out, err)
}

// Retry re-sends the last failed submission of a channel.
// POST /api/v1/contact/:kind/:id/:channel/retry
func (h *Handler) Retry(c *gin.Context) {
	cc, channel, ok := h.bindChannel(c)
	if !ok {
		return
	}
	orch, ok := h.orchestrator(c)
	if !ok {
		return
	}

	out, err := orch.Retry(c.Request.Context(), cc, channel)
	respond(c, out, err)
}

// ClearIdentity forgets the saved identity and resets the channels of one context.
// DELETE /api/v1/contact/identity?kind=&id=
func (h *Handler) ClearIdentity(c *gin.Context) {
	var query transport.IdentityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}
	cc, err := domain.NewContactContext(query.Kind, query.EntityID)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	orch, ok := h.orchestrator(c)
	if !ok {
		return
	}

	out, err := orch.UseDifferentInfo(c.Request.Context(), cc)
	respond(c, out, err)
}

func (h *Handler) orchestrator(c *gin.Context) (*orchestrator.Orchestrator, bool) {
	visitor := httpkit.MustGetVisitor(c)
	if visitor == nil {
		return nil, false
	}
	return h.sessions.Get(visitor.SessionID()), true
}

func (h *Handler) bindContext(c *gin.Context) (domain.ContactContext, bool) {
	var params transport.PathParams
	if err := c.ShouldBindUri(&params); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return domain.ContactContext{}, false
	}
	if err := h.val.Struct(params); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return domain.ContactContext{}, false
	}
	cc, err := domain.NewContactContext(params.Kind, params.EntityID)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return domain.ContactContext{}, false
	}
	return cc, true
}

func (h *Handler) bindChannel(c *gin.Context) (domain.ContactContext, domain.Channel, bool) {
	var params transport.ChannelParams
	if err := c.ShouldBindUri(&params); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return domain.ContactContext{}, "", false
	}
	if err := h.val.Struct(params); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return domain.ContactContext{}, "", false
	}
	cc, err := domain.NewContactContext(params.Kind, params.EntityID)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return domain.ContactContext{}, "", false
	}
	channel, err := domain.ParseChannel(params.Channel)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return domain.ContactContext{}, "", false
	}
	return cc, channel, true
}

// respond writes the outcome, or the error together with the channel state it left behind.
func respond(c *gin.Context, out orchestrator.Outcome, err error) {
	if err == nil {
		httpkit.OK(c, out)
		return
	}

	var domainErr *apperr.Error
	if !errors.As(err, &domainErr) {
		_ = c.Error(err)
		httpkit.HandleError(c, err)
		return
	}
	if domainErr.HTTPStatus() >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(domainErr.HTTPStatus(), transport.ErrorResponse{
		Error:   domainErr.Message,
		Details: domainErr.Details,
		Outcome: &out,
	})
}
