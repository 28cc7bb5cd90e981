// Package httpkit provides HTTP utilities including visitor abstraction.
package httpkit

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Visitor represents the anonymous visitor behind a request.
// This interface abstracts session extraction from the web framework,
// allowing handlers to access the session without depending on Gin keys.
type Visitor interface {
	// SessionID returns the visitor's session ID.
	SessionID() string
	// IsNew reports whether the session was started by this request.
	IsNew() bool
	// HasSession returns true if a session is attached.
	HasSession() bool
}

type visitor struct {
	sessionID string
	isNew     bool
}

func (v *visitor) SessionID() string {
	return v.sessionID
}

func (v *visitor) IsNew() bool {
	return v.isNew
}

func (v *visitor) HasSession() bool {
	return v.sessionID != ""
}

// GetVisitor extracts the Visitor from a Gin context.
// Returns a visitor without session if the session middleware did not run.
func GetVisitor(c *gin.Context) Visitor {
	raw, ok := c.Get(ContextSessionIDKey)
	if !ok {
		return &visitor{}
	}
	sessionID, _ := raw.(string)
	isNew := c.GetBool(ContextSessionNewKey)
	return &visitor{sessionID: sessionID, isNew: isNew}
}

// MustGetVisitor extracts the Visitor from a Gin context.
// If no session is attached, it aborts with 401 Unauthorized and returns nil.
func MustGetVisitor(c *gin.Context) Visitor {
	v := GetVisitor(c)
	if !v.HasSession() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session required"})
		return nil
	}
	return v
}

func abortInternal(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
