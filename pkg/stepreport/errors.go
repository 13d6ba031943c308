package stepreport

import (
	"errors"
	"fmt"
)

var (
	// ErrAssertionFailed is wrapped by every *AssertionError.
	ErrAssertionFailed = errors.New("assertion failed")
	// ErrNoCapturer is returned when a step requests a screenshot from a
	// case without a Capturer.
	ErrNoCapturer = errors.New("no screenshot capturer configured")
	// ErrDuplicateCase is returned when a suite already holds a case id.
	ErrDuplicateCase = errors.New("duplicate case id")
	// ErrEmptySuiteName is returned when a suite is created without a name.
	ErrEmptySuiteName = errors.New("suite name is required")
)

// AssertionError is returned by the Assert methods of Case when the checked
// condition does not hold. Returning it from a CaseFunc stops the case and
// classifies it as failed.
type AssertionError struct {
	CaseID  string
	Step    string
	Message string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("case %s: step %q: %s", e.CaseID, e.Step, e.Message)
}

func (e *AssertionError) Unwrap() error {
	return ErrAssertionFailed
}

// IsAssertionFailure reports whether err carries an *AssertionError.
func IsAssertionFailure(err error) bool {
	var assertionErr *AssertionError
	return errors.As(err, &assertionErr)
}

// PanicError is a panic recovered from case code.
type PanicError struct {
	Value any
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}
