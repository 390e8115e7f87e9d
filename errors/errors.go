package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrorCode định nghĩa mã lỗi
type ErrorCode string

const (
	// Auth errors
	ErrCodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	ErrCodeInvalidToken     ErrorCode = "INVALID_TOKEN"
	ErrCodeMissingToken     ErrorCode = "MISSING_TOKEN"
	ErrCodeMissingSignature ErrorCode = "MISSING_SIGNATURE"
	ErrCodeInvalidSignature ErrorCode = "INVALID_SIGNATURE"
	ErrCodeTokenExpired     ErrorCode = "TOKEN_EXPIRED"

	// Channel errors
	ErrCodeThrottled   ErrorCode = "THROTTLED"
	ErrCodeService     ErrorCode = "SERVICE_ERROR"
	ErrCodeUpstream    ErrorCode = "UPSTREAM_ERROR"
	ErrCodeNotReady    ErrorCode = "NOT_READY"
	ErrCodeNotLinked   ErrorCode = "NOT_LINKED"
	ErrCodeSyncFailed  ErrorCode = "SYNC_FAILED"

	// Database errors
	ErrCodeDBError     ErrorCode = "DB_ERROR"
	ErrCodeDBNotFound  ErrorCode = "DB_NOT_FOUND"
	ErrCodeDBDuplicate ErrorCode = "DB_DUPLICATE"
	ErrCodeConflict    ErrorCode = "CONFLICT"

	// Validation errors
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeRequiredField ErrorCode = "REQUIRED_FIELD"
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	ErrCodeInvalidStatus ErrorCode = "INVALID_STATUS"
	ErrCodeInvalidDates  ErrorCode = "INVALID_DATES"

	// Business errors
	ErrCodeUncoveredDates   ErrorCode = "UNCOVERED_DATES"
	ErrCodeNotAvailable     ErrorCode = "NOT_AVAILABLE"
	ErrCodeInvalidOperation ErrorCode = "INVALID_OPERATION"
)

// AppError định nghĩa lỗi của ứng dụng
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// NewAppError tạo một AppError mới
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// GetAppError lấy AppError từ error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// ThrottlingError là lỗi bị rate limiter từ chối; retry sau RetryAfter
type ThrottlingError struct {
	Limit      string
	RetryAfter time.Duration
}

func (e *ThrottlingError) Error() string {
	return fmt.Sprintf("[THROTTLED] limit %s exceeded, retry after %s", e.Limit, e.RetryAfter)
}

// IsThrottling kiểm tra error có phải ThrottlingError không
func IsThrottling(err error) bool {
	var t *ThrottlingError
	return errors.As(err, &t)
}

/// ServiceError là lỗi từ channel: transport hoặc 4xx/5xx.
// Status = 0 nghĩa là lỗi transport (timeout, DNS, TLS).
type ServiceError struct {
	Channel string
	Status  int
	Body    string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("[SERVICE_ERROR] %s transport error: %v", e.Channel, e.Err)
	}
	return fmt.Sprintf("[SERVICE_ERROR] %s returned %d: %s", e.Channel, e.Status, e.Body)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// Retryable xét lỗi có được retry tự động không (chỉ cho verb idempotent)
func (e *ServiceError) Retryable() bool {
	return e.Status == 0 || e.Status == 429 || e.Status >= 500
}

// NotFound xét channel trả về 404
func (e *ServiceError) NotFound() bool { return e.Status == 404 }

// AsServiceError lấy ServiceError từ error
func AsServiceError(err error) *ServiceError {
	var s *ServiceError
	if errors.As(err, &s) {
		return s
	}
	return nil
}

// ValidationErrors gom nhiều lỗi readiness/validation theo map {code -> message}
type ValidationErrors struct {
	Errors map[string]string
}

func (e *ValidationErrors) Error() string {
	codes := make([]string, 0, len(e.Errors))
	for code := range e.Errors {
		codes = append(codes, code)
	}
	return "validation failed: " + strings.Join(codes, ", ")
}

// NewValidationErrors tạo ValidationErrors rỗng
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{Errors: map[string]string{}}
}

// Add thêm một lỗi theo code
func (e *ValidationErrors) Add(code, message string) {
	e.Errors[code] = message
}

// Empty xét không có lỗi nào
func (e *ValidationErrors) Empty() bool { return len(e.Errors) == 0 }

var (
	ErrPropertyNotFound    = errors.New("property not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrSyncNotFound        = errors.New("channel sync not found")
	ErrAccountNotFound     = errors.New("channel account not found")
	ErrNotAvailable        = errors.New("dates not available")
	ErrUnauthorized        = errors.New("unauthorized")
)
