package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alnah/go-studyguide/internal/apierr"
	"github.com/alnah/go-studyguide/internal/history"
	"github.com/alnah/go-studyguide/internal/youtube"
)

// Error codes carried in the envelope next to the message.
const (
	codeBadRequest    = "bad_request"
	codeInvalidURL    = "invalid_url"
	codeNotConfigured = "not_configured"
	codeRateLimited   = "rate_limited"
	codeNotFound      = "not_found"
	codeInternal      = "internal"
)

// envelope is the body of every /api response.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data})
}

func respondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, envelope{Error: msg, Code: code})
}

// respondErr maps a domain error to its status and writes the envelope.
func respondErr(c *gin.Context, err error) {
	status, code := classify(err)
	respondError(c, status, code, err)
}

// classify maps domain errors to HTTP status and envelope code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, youtube.ErrInvalidURL):
		return http.StatusBadRequest, codeInvalidURL
	case errors.Is(err, apierr.ErrNotConfigured):
		return http.StatusServiceUnavailable, codeNotConfigured
	case errors.Is(err, apierr.ErrRateLimit), errors.Is(err, apierr.ErrQuotaExceeded):
		return http.StatusTooManyRequests, codeRateLimited
	case errors.Is(err, history.ErrNotFound):
		return http.StatusNotFound, codeNotFound
	default:
		return http.StatusInternalServerError, codeInternal
	}
}
