package logic

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"apisagro-backend/internal/common"
	"apisagro-backend/internal/llm"
)

// APIError is a failure with a fixed status and a short client message.
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error { return e.Err }

func invalidInput(msg string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Message: msg}
}

func unprocessable(err error) *APIError {
	return &APIError{Status: http.StatusUnprocessableEntity, Message: "invalid request body", Err: err}
}

func notFound(msg string) *APIError {
	return &APIError{Status: http.StatusNotFound, Message: msg}
}

// writeError maps err to a status and logs it. fallback is the message used
// for unexpected failures.
func writeError(c *gin.Context, kind string, err error, fallback string) {
	status := http.StatusInternalServerError
	msg := fallback

	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		status, msg = apiErr.Status, apiErr.Message
	case errors.Is(err, llm.ErrUpstreamUnavailable):
		status, msg = http.StatusBadGateway, "Text generation service failed after retries"
	}

	entry := common.LoggerFromContext(c.Request.Context()).
		WithError(err).
		WithField("kind", kind).
		WithField("status", status)
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Info("request rejected")
	}

	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
