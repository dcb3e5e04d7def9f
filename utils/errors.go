package utils

import (
	"fmt"
	"net/http"
)

// Error kinds. Every operation failure is classified by one of these so
// callers get a machine-readable reason alongside the message.
const (
	KindNotFound            = "not_found"
	KindUnauthorized        = "unauthorized"
	KindInvalidTransition   = "invalid_transition"
	KindInsufficientStock   = "insufficient_stock"
	KindInsufficientBalance = "insufficient_balance"
	KindInvalidCoupon       = "invalid_coupon"
	KindValidation          = "validation_error"
	KindConflict            = "conflict"
	KindInternal            = "internal"
)

// AppError represents an application error with an HTTP status, a stable
// message and a machine-readable kind.
type AppError struct {
	Code    int         `json:"code"`
	Kind    string      `json:"kind"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Err     error       `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError
func NewAppError(code int, kind, message string, err error) *AppError {
	return &AppError{Code: code, Kind: kind, Message: message, Err: err}
}

// NotFoundErr reports a missing order/item/product/wallet.
func NotFoundErr(message string) *AppError {
	return NewAppError(http.StatusNotFound, KindNotFound, message, nil)
}

// UnauthorizedErr reports a resource that does not belong to the requester.
func UnauthorizedErr(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, KindUnauthorized, message, nil)
}

// ValidationErr reports malformed input.
func ValidationErr(message string, err error) *AppError {
	return NewAppError(http.StatusUnprocessableEntity, KindValidation, message, err)
}

// InvalidCouponErr reports an expired/unknown/exhausted coupon.
func InvalidCouponErr(message string) *AppError {
	return NewAppError(http.StatusBadRequest, KindInvalidCoupon, message, nil)
}

// InvalidTransitionErr reports an illegal order status change. The error
// carries the attempted target and the allowed next states so admin tooling
// can surface a correction.
func InvalidTransitionErr(current, attempted string, allowed []string) *AppError {
	e := NewAppError(http.StatusBadRequest, KindInvalidTransition,
		fmt.Sprintf("cannot move order from %q to %q", current, attempted), nil)
	e.Details = map[string]interface{}{
		"current_status":   current,
		"attempted_status": attempted,
		"allowed_statuses": allowed,
	}
	return e
}

// InsufficientStockErr reports a failed stock reservation, including how
// many units are actually available.
func InsufficientStockErr(name string, available, requested int) *AppError {
	e := NewAppError(http.StatusBadRequest, KindInsufficientStock,
		fmt.Sprintf("%q does not have enough stock. Available: %d, Requested: %d", name, available, requested), nil)
	e.Details = map[string]interface{}{
		"available": available,
		"requested": requested,
	}
	return e
}

// InsufficientBalanceErr reports a wallet debit that exceeds the balance.
func InsufficientBalanceErr(balance, required float64) *AppError {
	e := NewAppError(http.StatusBadRequest, KindInsufficientBalance,
		"Insufficient wallet balance", nil)
	e.Details = map[string]interface{}{
		"balance":  fmt.Sprintf("%.2f", balance),
		"required": fmt.Sprintf("%.2f", required),
	}
	return e
}

// ConflictErr reports a precondition that held when the request was loaded
// but no longer held at update time.
func ConflictErr(message string) *AppError {
	return NewAppError(http.StatusConflict, KindConflict, message, nil)
}

// InternalErr wraps an unexpected failure.
func InternalErr(message string, err error) *AppError {
	return NewAppError(http.StatusInternalServerError, KindInternal, message, err)
}

// GetAppError returns the AppError if the error is one.
func GetAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return nil
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind string) bool {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Kind == kind
	}
	return false
}

// WrapError wraps an error with additional context.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
