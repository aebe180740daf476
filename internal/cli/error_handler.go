package cli

import (
	stderrors "errors"
	"fmt"

	"app-time-tracker/internal/errors"
	"app-time-tracker/internal/poller"
	"app-time-tracker/internal/validation"
)

// ErrorHandler turns service errors into messages fit for the terminal
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// Handle prefixes the user-facing message with the failed operation
func (eh *ErrorHandler) Handle(operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to %s: %w", operation, eh.HandleSimple(err))
}

// HandleSimple returns the user-facing message without operation context.
// Unknown errors pass through unchanged.
func (eh *ErrorHandler) HandleSimple(err error) error {
	if err == nil {
		return nil
	}

	var validationErr *validation.ValidationError
	if stderrors.As(err, &validationErr) {
		return userError{msg: validationErr.GetUserFriendlyMessage(), err: err}
	}

	if stderrors.Is(err, poller.ErrStoreUnavailable) {
		return userError{msg: "tracking stopped: the database kept rejecting writes", err: err}
	}

	if _, ok := errors.AsAppError(err); ok {
		return userError{msg: errors.GetUserMessage(err), err: err}
	}

	return err
}

// IsValidationError checks if an error is a validation error
func (eh *ErrorHandler) IsValidationError(err error) bool {
	if validation.IsValidationError(err) {
		return true
	}
	return errors.IsErrorType(err, errors.ErrorTypeValidation)
}

// IsNotFoundError checks if an error is a not found error
func (eh *ErrorHandler) IsNotFoundError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeNotFound)
}

// IsDatabaseError checks if an error is a database error
func (eh *ErrorHandler) IsDatabaseError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeDatabase)
}

// GetErrorCode returns the error code for structured errors
func (eh *ErrorHandler) GetErrorCode(err error) string {
	return errors.GetErrorCode(err)
}

// userError shows a friendly message but keeps the cause reachable for
// errors.Is and errors.As.
type userError struct {
	msg string
	err error
}

func (e userError) Error() string { return e.msg }

func (e userError) Unwrap() error { return e.err }
