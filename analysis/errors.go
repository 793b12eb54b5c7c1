// Error taxonomy for analysis requests.
//
// Storage errors never appear here: they are contained inside the stores
// and degrade to cache misses. Only capability, input, inference, and
// parse failures reach the user.

package analysis

import "errors"

var (
	// ErrCapabilityAbsent means no inference capability is present or the
	// capability check itself failed. Not retryable without an environment
	// change.
	ErrCapabilityAbsent = errors.New("inference capability not available: configure a provider API key or start a local model daemon")

	// ErrModelUnavailable means the provider reported the model cannot be
	// provisioned.
	ErrModelUnavailable = errors.New("the model is not available and cannot be provisioned")

	// ErrNoInput means no code was captured for analysis.
	ErrNoInput = errors.New("no code selected: capture a selection before analyzing")
)

// InferenceError wraps a failed provider call. Retryable by user action.
type InferenceError struct {
	Err error
}

func (e *InferenceError) Error() string {
	return "inference failed: " + e.Err.Error()
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}

// ParseError means the model call succeeded but the response violated the
// structured-output contract. Reported distinctly from InferenceError;
// retryable.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "could not parse model response: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
