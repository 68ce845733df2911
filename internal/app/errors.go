package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Sentinel errors for the upstream pipeline.
var (
	ErrMissingAPIKey       = errors.New("hubspot api key is not configured")
	ErrUpstreamTimeout     = errors.New("request to hubspot timed out")
	ErrUpstreamUnreachable = errors.New("could not connect to hubspot")
	ErrInvalidTimezone     = errors.New("unknown or invalid timezone")
)

// excerptLimit bounds how much of an upstream body is kept for diagnostics.
const excerptLimit = 200

// UpstreamStatusError is a 4xx/5xx returned by HubSpot.
type UpstreamStatusError struct {
	Status  int
	Excerpt string
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("hubspot returned status %d: %s", e.Status, e.Excerpt)
}

// UpstreamDataError is a response body that failed to parse as JSON.
type UpstreamDataError struct {
	Excerpt string
}

func (e *UpstreamDataError) Error() string {
	return fmt.Sprintf("invalid JSON response from hubspot: %s", e.Excerpt)
}

func excerpt(body []byte) string {
	if len(body) > excerptLimit {
		body = body[:excerptLimit]
	}
	return string(body)
}

// errorStatus translates a pipeline error into a response status and a
// client-safe message. Authentication failures against HubSpot are an
// operator problem, so the credential detail never reaches the client.
func errorStatus(err error, slug string) (int, string) {
	var statusErr *UpstreamStatusError
	var dataErr *UpstreamDataError
	switch {
	case errors.Is(err, ErrMissingAPIKey):
		return http.StatusInternalServerError, "Server configuration error: HUBSPOT_API_KEY not set."
	case errors.Is(err, ErrInvalidTimezone):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, ErrUpstreamTimeout):
		return http.StatusGatewayTimeout, "Request to HubSpot timed out."
	case errors.Is(err, ErrUpstreamUnreachable):
		return http.StatusServiceUnavailable, "Service unavailable: could not connect to HubSpot."
	case errors.As(err, &statusErr):
		switch statusErr.Status {
		case http.StatusUnauthorized, http.StatusForbidden:
			return http.StatusInternalServerError, "HubSpot API authentication error. Please contact administrator."
		case http.StatusNotFound:
			return http.StatusNotFound, fmt.Sprintf("Meeting slug %q not found on HubSpot.", slug)
		default:
			return http.StatusBadGateway, fmt.Sprintf("Upstream error from HubSpot: %d", statusErr.Status)
		}
	case errors.As(err, &dataErr):
		return http.StatusBadRequest, fmt.Sprintf("Invalid JSON response from HubSpot. Response text (partial): %s", dataErr.Excerpt)
	default:
		return http.StatusInternalServerError, "An unexpected internal server error occurred."
	}
}

// respondError writes the mapped status for err and logs it.
func (a *App) respondError(c *gin.Context, slug string, err error) {
	status, msg := errorStatus(err, slug)
	if status >= http.StatusInternalServerError {
		a.Logger.Error("request failed", zap.String("slug", slug), zap.Int("status", status), zap.Error(err))
	} else {
		a.Logger.Warn("request failed", zap.String("slug", slug), zap.Int("status", status), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": msg})
}

// ErrorHandler catches panics and returns a structured error body.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("unhandled panic", zap.Any("error", err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "An unexpected internal server error occurred.",
				})
			}
		}()
		c.Next()
	}
}
