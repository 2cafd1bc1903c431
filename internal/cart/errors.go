package cart

import (
	"errors"
	"fmt"

	"github.com/oakmont/storefront/pkg/enums"
)

// Error tags a strict-validation failure with the defect class. The HTTP
// layer maps the Kind to a response code; nothing dispatches on message text.
type Error struct {
	Kind    enums.CartIssue
	Message string
	cause   error
}

func newError(kind enums.CartIssue, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func wrapError(kind enums.CartIssue, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, cause: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// AsError unwraps err into a *cart.Error when one is in the chain.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}
	return nil
}
