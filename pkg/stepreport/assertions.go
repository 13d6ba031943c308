package stepreport

import (
	"fmt"
	"reflect"
)

// AssertTrue records an assertion step passing when condition is true.
func (c *Case) AssertTrue(condition bool, description, expected, onFailure string, opts ...StepOption) error {
	return c.assert(condition, "Expected true, got false", description, expected, onFailure, opts)
}

// AssertFalse records an assertion step passing when condition is false.
func (c *Case) AssertFalse(condition bool, description, expected, onFailure string, opts ...StepOption) error {
	return c.assert(!condition, "Expected false, got true", description, expected, onFailure, opts)
}

// AssertEqual records an assertion step passing when want and got are
// deeply equal.
func (c *Case) AssertEqual(want, got any, description, expected, onFailure string, opts ...StepOption) error {
	msg := fmt.Sprintf("Equal failed:\n\texpected: %v\n\tactual:   %v", want, got)
	return c.assert(reflect.DeepEqual(want, got), msg, description, expected, onFailure, opts)
}

// AssertNotEqual records an assertion step passing when want and got differ.
func (c *Case) AssertNotEqual(want, got any, description, expected, onFailure string, opts ...StepOption) error {
	msg := fmt.Sprintf("Expected values to differ, but both are: %v", got)
	return c.assert(!reflect.DeepEqual(want, got), msg, description, expected, onFailure, opts)
}

func (c *Case) assert(ok bool, msg, description, expected, onFailure string, opts []StepOption) error {
	if err := c.ReportStep(description, expected, onFailure, ok, opts...); err != nil {
		return err
	}
	if ok {
		return nil
	}
	return &AssertionError{
		CaseID:  c.id,
		Step:    description,
		Message: msg,
	}
}
