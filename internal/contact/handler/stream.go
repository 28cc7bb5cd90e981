package handler

import (
	"net/http"

	"listing_portal_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

const eventNumbers = "numbers"

// Stream pushes the shared numbers of a context whenever they change, starting with the
// current value.
// GET /api/v1/contact/:kind/:id/events
func (h *Handler) Stream(c *gin.Context) {
	cc, ok := h.bindContext(c)
	if !ok {
		return
	}
	orch, ok := h.orchestrator(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	key := cc.Key()
	updates, cancel := orch.State().Subscribe(ctx, key)
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	visitor := httpkit.GetVisitor(c)
	log := h.log.WithContext(ctx)
	log.Debug("contact stream opened", "contextKey", key, "session", visitor.SessionID())

	for {
		select {
		case <-ctx.Done():
			log.Debug("contact stream closed", "contextKey", key)
			return
		case snapshot, ok := <-updates:
			if !ok {
				return
			}
			c.SSEvent(eventNumbers, snapshot)
			c.Writer.Flush()
		}
	}
}
