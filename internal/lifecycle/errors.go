package lifecycle

import (
	"errors"
	"fmt"
)

// Kind classifies a failed lifecycle operation for the caller.
type Kind string

const (
	KindNotFound              Kind = "NotFound"
	KindMissingPaymentDetails Kind = "MissingPaymentDetails"
	KindStoreUnavailable      Kind = "StoreUnavailable"
	KindInvalidAction         Kind = "InvalidAction"
)

var (
	// ErrNotFound is returned when no row matches the invoice's composite key.
	ErrNotFound = errors.New("invoice not found")

	// ErrMissingPaymentDetails is returned when a payment transition lacks
	// the date paid or the amount paid.
	ErrMissingPaymentDetails = errors.New("date paid and amount paid are required")

	// ErrStoreUnavailable is returned when a backing-store call fails or times out.
	ErrStoreUnavailable = errors.New("backing store unavailable")

	// ErrInvalidAction is returned for an unrecognized action string.
	ErrInvalidAction = errors.New("invalid action")
)

// TransitionError wraps a failure with the operation and kind that produced it.
type TransitionError struct {
	// Op is the operation that failed (e.g., "markAsPaid", "pushMultipleToBeInvoiced").
	Op string

	// Kind is the caller-facing classification.
	Kind Kind

	// Err is the underlying error.
	Err error

	// Details is a human-readable explanation suitable for display.
	Details string
}

// Error implements the error interface.
func (e *TransitionError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("lifecycle: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("lifecycle: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *TransitionError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind as well as the wrapped chain.
func (e *TransitionError) Is(target error) bool {
	return target == sentinelFor(e.Kind)
}

func sentinelFor(kind Kind) error {
	switch kind {
	case KindNotFound:
		return ErrNotFound
	case KindMissingPaymentDetails:
		return ErrMissingPaymentDetails
	case KindStoreUnavailable:
		return ErrStoreUnavailable
	case KindInvalidAction:
		return ErrInvalidAction
	}
	return nil
}

func notFound(op, details string) *TransitionError {
	return &TransitionError{Op: op, Kind: KindNotFound, Err: ErrNotFound, Details: details}
}

func missingPaymentDetails(op string) *TransitionError {
	return &TransitionError{
		Op:      op,
		Kind:    KindMissingPaymentDetails,
		Err:     ErrMissingPaymentDetails,
		Details: "both datePaid and amountPaid must be provided",
	}
}

func storeUnavailable(op string, err error, details string) *TransitionError {
	return &TransitionError{Op: op, Kind: KindStoreUnavailable, Err: err, Details: details}
}

// InvalidAction reports an action string no operation answers to.
func InvalidAction(action string) *TransitionError {
	return &TransitionError{
		Op:      "parseTransition",
		Kind:    KindInvalidAction,
		Err:     ErrInvalidAction,
		Details: fmt.Sprintf("the requested action %q is not supported", action),
	}
}

// KindOf extracts the kind of err, defaulting to StoreUnavailable for errors
// that did not originate in this package.
func KindOf(err error) Kind {
	var te *TransitionError
	if errors.As(err, &te) {
		return te.Kind
	}
	return KindStoreUnavailable
}

// DetailsOf returns the human-readable details of err.
func DetailsOf(err error) string {
	var te *TransitionError
	if errors.As(err, &te) {
		if te.Kind == KindStoreUnavailable && te.Err != nil {
			if te.Details != "" {
				return te.Details + ": " + te.Err.Error()
			}
			return te.Err.Error()
		}
		return te.Details
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// causeOf returns the error a TransitionError wraps, or err itself.
func causeOf(err error) error {
	var te *TransitionError
	if errors.As(err, &te) && te.Err != nil {
		return te.Err
	}
	return err
}

// IsKind reports whether err is a TransitionError of the given kind.
func IsKind(err error, kind Kind) bool {
	var te *TransitionError
	return errors.As(err, &te) && te.Kind == kind
}
