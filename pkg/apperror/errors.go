package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Movement Ledger (LEDGER) ----

func ErrInvalidAmount() *AppError {
	return New("LEDGER_001", "Movement amount must be greater than zero", http.StatusBadRequest)
}

func ErrSameWalletTransfer() *AppError {
	return New("LEDGER_002", "Transfer source and destination must differ", http.StatusBadRequest)
}

func ErrShiftSealed() *AppError {
	return New("LEDGER_003", "Cannot record movements on a closed shift", http.StatusConflict)
}

// ---- Shift Lifecycle (SHIFT) ----

func ErrShiftNotFound() *AppError {
	return New("SHIFT_001", "Shift not found", http.StatusNotFound)
}

func ErrShiftStillOpen() *AppError {
	return New("SHIFT_002", "Shift has no closing declaration yet", http.StatusConflict)
}

func ErrShiftAlreadyClosed() *AppError {
	return New("SHIFT_003", "Shift is already closed", http.StatusConflict)
}

func ErrOpenShiftExists() *AppError {
	return New("SHIFT_004", "Another shift is still open", http.StatusConflict)
}

func ErrNotFound(entity string) *AppError {
	return New("SHIFT_005", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_002", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a generic request validation error.
func Validation(message string) *AppError {
	return New("LEDGER_001", message, http.StatusBadRequest)
}
