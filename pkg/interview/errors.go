package interview

import (
	"errors"
	"fmt"
)

// ErrMissingCaseStudy is returned when an interviewer turn starts with no
// case study loaded in the session. Fatal; the session is aborted before
// any model invocation.
var ErrMissingCaseStudy = errors.New("case study missing from session state")

// ErrNoEligibleCase is returned when the selection policy exhausts all
// options for the user's firm. The session never starts.
var ErrNoEligibleCase = errors.New("no eligible case for user")

// ModelInvocationError wraps a failed or timed-out model call. It is not
// retried; the whole session aborts and nothing is persisted.
type ModelInvocationError struct {
	Persona Persona
	Err     error
}

func (e *ModelInvocationError) Error() string {
	return fmt.Sprintf("model invocation for %s failed: %v", e.Persona, e.Err)
}

func (e *ModelInvocationError) Unwrap() error {
	return e.Err
}
