package agenttest

import (
	"encoding/json"
	"errors"
	"fmt"
)

// AssertionErrorType is the Type of every AssertionError.
const AssertionErrorType = "api_output_error"

var (
	// ErrAssertion matches every *AssertionError with errors.Is.
	ErrAssertion = errors.New("api output assertion failed")

	// ErrUsage prefixes malformed agent arguments reported through Fatalf.
	ErrUsage = errors.New("agenttest: invalid usage")

	// ErrAgentUsed is returned when an agent is sent a second time.
	ErrAgentUsed = errors.New("agenttest: agent already sent")
)

// AssertionError reports an envelope in the wrong state: an error where
// success was expected, or data where an error was expected. Payload holds
// the unexpected error or data.
type AssertionError struct {
	Type    string
	Message string
	Payload any
}

func newAssertionError(payload any, format string, args ...any) *AssertionError {
	return &AssertionError{
		Type:    AssertionErrorType,
		Message: fmt.Sprintf(format, args...),
		Payload: payload,
	}
}

func (e *AssertionError) Error() string {
	return e.Message
}

// Is makes errors.Is(err, ErrAssertion) true.
func (e *AssertionError) Is(target error) bool {
	return target == ErrAssertion
}

// Unwrap returns the payload when it is an error.
func (e *AssertionError) Unwrap() error {
	if err, ok := e.Payload.(error); ok {
		return err
	}
	return nil
}

func inspect(v any) string {
	if err, ok := v.(error); ok {
		if b, jerr := json.Marshal(err); jerr == nil && string(b) != "{}" {
			return string(b)
		}
		return err.Error()
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(b)
}
