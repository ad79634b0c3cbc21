// internal/pkg/response/response.go
package response

import (
	"net/http"

	xerrors "leadtrack-service/internal/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Message is the short error body returned to clients. No stack traces or
// driver detail ever cross this boundary.
type Message struct {
	Message string `json:"message"`
}

// JSON sends a successful response with the given payload as-is.
func JSON(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error sends a standardized error response and aborts the chain.
func Error(c *gin.Context, code int, message string) {
	c.Abort()
	c.JSON(code, Message{Message: message})
}

// ValidationError sends a 400 Bad Request response for invalid input.
func ValidationError(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized sends a 401 Unauthorized response.
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// Forbidden sends a 403 Forbidden response.
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message)
}

// NotFound sends a 404 Not Found response.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// FromError maps a service error to its HTTP status. Unrecognized errors
// become a generic 500 so internals stay hidden.
func FromError(c *gin.Context, err error, fallback string) {
	switch {
	case xerrors.Is(err, xerrors.ErrUnauthorized):
		Unauthorized(c, "unauthorized")
	case xerrors.Is(err, xerrors.ErrForbidden):
		Forbidden(c, "forbidden")
	case xerrors.Is(err, xerrors.ErrNotFound):
		NotFound(c, "not found")
	case xerrors.Is(err, xerrors.ErrInvalidInput):
		ValidationError(c, fallback)
	case xerrors.Is(err, xerrors.ErrDuplicateEntry), xerrors.Is(err, xerrors.ErrConflict):
		Error(c, http.StatusConflict, fallback)
	case xerrors.Is(err, xerrors.ErrRateLimited):
		Error(c, http.StatusTooManyRequests, "too many requests")
	default:
		Error(c, http.StatusInternalServerError, fallback)
	}
}
