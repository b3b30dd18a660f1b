package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitriimaksimovdevelop/aquanova/internal/assistant"
	"github.com/dmitriimaksimovdevelop/aquanova/internal/forecast"
	"github.com/dmitriimaksimovdevelop/aquanova/internal/model"
	"github.com/dmitriimaksimovdevelop/aquanova/internal/poller"
)

// errUnavailable marks a feature disabled by configuration.
var errUnavailable = errors.New("feature not configured")

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidReading),
		errors.Is(err, model.ErrUnknownParameter),
		errors.Is(err, assistant.ErrEmptyImage):
		return http.StatusBadRequest
	case errors.Is(err, forecast.ErrInsufficientHistory):
		return http.StatusUnprocessableEntity
	case errors.Is(err, poller.ErrNoReading),
		errors.Is(err, errUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}

// respondError writes {"error": ...} with the mapped status.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error()})
}

// badRequest writes a 400 for malformed input.
func badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
