package httpkit

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"listing_portal_backend/platform/apperr"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestHandleError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"validation", apperr.Validation("bad input").WithDetails(map[string]string{"email": "Email is required"}), http.StatusBadRequest, "Email is required"},
		{"rate limited", apperr.RateLimited("Please wait a moment before trying again."), http.StatusTooManyRequests, "Please wait"},
		{"unavailable wrapped", fmt.Errorf("submit: %w", apperr.Unavailable("Network error.")), http.StatusServiceUnavailable, "Network error."},
		{"upstream", apperr.Upstream("Failed to send message."), http.StatusBadGateway, "Failed to send message."},
		{"untyped", errors.New("pq: connection refused"), http.StatusInternalServerError, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)

			handled := HandleError(c, tt.err)

			assert.True(t, handled)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestHandleErrorNil(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.False(t, HandleError(c, nil))
}
