package domain

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers. Kinds are stable strings that
// surface unmodified in API error payloads.
type Kind string

const (
	KindValidationFailed        Kind = "VALIDATION_FAILED"
	KindInsufficientStock       Kind = "INSUFFICIENT_STOCK"
	KindProductNotFound         Kind = "PRODUCT_NOT_FOUND"
	KindOrderNotFound           Kind = "ORDER_NOT_FOUND"
	KindUserNotFound            Kind = "USER_NOT_FOUND"
	KindInvalidToken            Kind = "INVALID_TOKEN"
	KindTokenExpired            Kind = "TOKEN_EXPIRED"
	KindInvalidRequest          Kind = "INVALID_REQUEST"
	KindInvalidStatusTransition Kind = "INVALID_STATUS_TRANSITION"
	KindAccessDenied            Kind = "ACCESS_DENIED"
	KindPaymentNotFound         Kind = "PAYMENT_NOT_FOUND"
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// E builds a classified error.
func E(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf unwraps err looking for a classified error. It returns the empty
// Kind for plain errors, which handlers map to an internal server error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
