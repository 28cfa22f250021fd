package weather

import (
	"fmt"

	"github.com/containerd/errdefs"
)

// TransientFetchError covers failures worth retrying on the next tick:
// network errors, timeouts, non-2xx statuses and an open circuit.
type TransientFetchError struct {
	Op     string
	Status int
	Err    error
}

func (e *TransientFetchError) Error() string {
	switch {
	case e.Status > 0:
		return fmt.Sprintf("%s returned status %d", e.Op, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op + ": unavailable"
	}
}

func (e *TransientFetchError) Unwrap() []error {
	return nonNil(errdefs.ErrUnavailable, e.Err)
}

// MalformedResponseError means the payload arrived but could not be used.
type MalformedResponseError struct {
	Op     string
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *MalformedResponseError) Unwrap() []error {
	return nonNil(errdefs.ErrDataLoss, e.Err)
}

func nonNil(errs ...error) []error {
	out := errs[:0]
	for _, err := range errs {
		if err != nil {
			out = append(out, err)
		}
	}
	return out
}
