// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package request

// Error wraps transport level errors produced while sending a request.
type Error struct {
	err error
}

func (e *Error) Error() string {
	return "request: " + e.err.Error()
}

func (e *Error) Unwrap() error {
	return e.err
}

func (e *Error) Is(target error) bool {
	re, ok := target.(*Error)
	if !ok {
		return false
	}

	return e.err.Error() == re.err.Error()
}

// handleError normalizes errors emitted while sending a request.
func handleError(err error) error {
	return &Error{
		err: err,
	}
}
