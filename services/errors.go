package services

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/junaidrashid-git/canteen-api/models"
)

// Kind classifies a domain failure. The HTTP layer maps kinds to status codes.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindInvalidState
	KindPreconditionFailed
	KindConcurrencyConflict
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidState:
		return "invalid_state"
	case KindPreconditionFailed:
		return "precondition_failed"
	case KindConcurrencyConflict:
		return "concurrency_conflict"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Error is the only error type services return to callers on purpose.
// Anything else is an infrastructure failure.
type Error struct {
	Kind    Kind
	Message string

	// Field names the offending input or product, when known.
	Field string

	// Current and Requested are set for InvalidState errors.
	Current   models.OrderStatus
	Requested models.OrderStatus
}

func (e *Error) Error() string {
	return e.Message
}

func KindOf(err error) (Kind, bool) {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind, true
	}
	return 0, false
}

func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

func notFound(what string) *Error {
	return &Error{Kind: KindNotFound, Message: what + " not found", Field: what}
}

func validation(field, message string) *Error {
	return &Error{Kind: KindValidation, Message: message, Field: field}
}

var errEmptyCart = &Error{Kind: KindPreconditionFailed, Message: "cart is empty", Field: "cart"}

func productUnavailable(name string) *Error {
	return &Error{
		Kind:    KindPreconditionFailed,
		Message: fmt.Sprintf("product %q is currently unavailable", name),
		Field:   name,
	}
}

func invalidTransition(current, requested models.OrderStatus) *Error {
	return &Error{
		Kind:      KindInvalidState,
		Message:   fmt.Sprintf("cannot change order status from %s to %s", current, requested),
		Current:   current,
		Requested: requested,
	}
}

const msgOnlyPendingCancellable = "only pending orders can be cancelled"
