package response

import (
	"errors"
	"net/http"
	"time"

	"till-reconciliation-engine/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SuccessResponse wraps every successful payload so clients always see
// the same envelope shape.
type SuccessResponse struct {
	Data      interface{} `json:"data"`
	RequestID string      `json:"request_id"`
	Timestamp string      `json:"timestamp"`
}

// ErrorResponse carries a stable error code; the message is safe to
// show, internal causes never reach the wire.
type ErrorResponse struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// OK writes a 200 envelope.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{
		Data:      data,
		RequestID: requestID(c),
		Timestamp: stamp(),
	})
}

// Created writes a 201 envelope.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, SuccessResponse{
		Data:      data,
		RequestID: requestID(c),
		Timestamp: stamp(),
	})
}

// Error maps an *apperror.AppError to its status and code. Anything
// else is treated as an unclassified 500.
func Error(c *gin.Context, err error) {
	code, status, message := "SYS_000", http.StatusInternalServerError, "Internal server error"

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		code, status, message = appErr.Code, appErr.HTTPStatus, appErr.Message
	}

	c.JSON(status, ErrorResponse{
		ErrorCode: code,
		Message:   message,
		RequestID: requestID(c),
		Timestamp: stamp(),
	})
}

func stamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// requestID reuses the id set by middleware, or mints one so every
// response stays traceable.
func requestID(c *gin.Context) string {
	if id, exists := c.Get("request_id"); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return uuid.New().String()
}
