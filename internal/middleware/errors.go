package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pravintml2025-gif/Accounts-Balance-Viewer/internal/domain"
)

const ctxTraceID = "traceId"

// RequestID assigns each request a trace identifier, echoed in the response
// header and in every error envelope.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader("X-Request-ID")
		if traceID == "" {
			traceID = uuid.NewString()
		}
		c.Set(ctxTraceID, traceID)
		c.Header("X-Request-ID", traceID)
		c.Next()
	}
}

// TraceID returns the request's trace identifier.
func TraceID(c *gin.Context) string {
	return c.GetString(ctxTraceID)
}

// Envelope is the uniform error body for faults: clients get a generic
// message and a trace id for correlation, never internal exception text.
func Envelope(c *gin.Context, status int, message, details string) {
	c.JSON(status, gin.H{
		"success":   false,
		"message":   message,
		"details":   details,
		"traceId":   TraceID(c),
		"timestamp": time.Now().UTC(),
	})
}

// RespondError maps an error onto its status code and envelope.
func RespondError(c *gin.Context, log zerolog.Logger, err error) {
	var (
		notFound     *domain.NotFoundError
		duplicate    *domain.DuplicateError
		invalidFile  *domain.InvalidFileError
		businessRule *domain.BusinessRuleError
		unauthorized *domain.UnauthorizedOperationError
	)

	switch {
	case errors.As(err, &notFound):
		Envelope(c, http.StatusNotFound, notFound.Msg, "The requested account could not be found.")
	case errors.As(err, &duplicate):
		Envelope(c, http.StatusConflict, duplicate.Msg, "An account with this name already exists.")
	case errors.As(err, &invalidFile):
		Envelope(c, http.StatusBadRequest, invalidFile.Msg, "The uploaded file format is invalid or corrupted.")
	case errors.As(err, &businessRule):
		Envelope(c, http.StatusBadRequest, businessRule.Msg, "A business rule was violated.")
	case errors.As(err, &unauthorized):
		Envelope(c, http.StatusForbidden, unauthorized.Error(), "You don't have permission to perform this operation.")
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		Envelope(c, http.StatusRequestTimeout, "The operation was cancelled", "The request timed out or was cancelled.")
	default:
		log.Error().Err(err).Str("traceId", TraceID(c)).Msg("unhandled error")
		Envelope(c, http.StatusInternalServerError,
			"An internal server error occurred",
			"An unexpected error occurred while processing your request.")
	}
}

// Recovery converts panics into the 500 envelope.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Interface("panic", r).
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Str("traceId", TraceID(c)).
					Msg("panic recovered")
				Envelope(c, http.StatusInternalServerError,
					"An internal server error occurred",
					"An unexpected error occurred while processing your request.")
				c.Abort()
			}
		}()
		c.Next()
	}
}

// Logger emits one structured line per request.
func Logger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Str("remoteAddr", c.ClientIP()).
			Str("traceId", TraceID(c)).
			Msg("http request")
	}
}
