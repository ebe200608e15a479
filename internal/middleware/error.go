package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dahby/13-14-relationship-mapping/internal/service"
)

// InvalidBodyMessage is returned for request bodies that fail to decode or validate
const InvalidBodyMessage = "invalid request body"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusForError maps a service error to its HTTP status code
func StatusForError(err error) int {
	var (
		validation *service.ValidationError
		notFound   *service.NotFoundError
		conflict   *service.ConflictError
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &conflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// ErrorHandler renders the last error a handler pushed with c.Error as a JSON
// body, and turns panics into a 500. Internal error details are logged, not returned.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic while handling request", "error", rec, "path", c.Request.URL.Path)
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error"})
			}
		}()

		c.Next()

		last := c.Errors.Last()
		if last == nil || c.Writer.Written() {
			return
		}

		if last.IsType(gin.ErrorTypeBind) {
			slog.Debug("invalid request body", "method", c.Request.Method, "path", c.Request.URL.Path, "error", last.Err)
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: InvalidBodyMessage})
			return
		}

		status := StatusForError(last.Err)
		msg := last.Err.Error()
		if status == http.StatusInternalServerError {
			slog.Error("request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", last.Err)
			msg = "Internal Server Error"
		}
		c.JSON(status, ErrorResponse{Error: msg})
	}
}
