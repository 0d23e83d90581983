package httperr

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Payload is the body returned for every failed request.
type Payload struct {
	Path      string    `json:"path"`
	Status    int       `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// NotFoundError marks a lookup that matched no document. The message is
// surfaced to the client as-is.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NotFound(message string) error {
	return &NotFoundError{Message: message}
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// Abort writes the error payload, logs it at error level and stops the
// handler chain.
func Abort(c *gin.Context, logger *zap.Logger, status int, message string) {
	path := c.Request.URL.Path
	logger.Error("Request failed",
		zap.Int("status", status),
		zap.String("path", path),
		zap.String("message", message),
	)
	c.AbortWithStatusJSON(status, Payload{
		Path:      path,
		Status:    status,
		Message:   message,
		Timestamp: time.Now(),
	})
}

func BadRequest(c *gin.Context, logger *zap.Logger, message string) {
	Abort(c, logger, http.StatusBadRequest, message)
}
