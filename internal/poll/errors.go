package poll

import (
	"context"
	"errors"
	"strings"
)

// ErrStopped is returned by RefetchNow once a handle has been stopped.
var ErrStopped = errors.New("synchronizer stopped")

// ErrorInfo is the published description of a failed attempt. Cause keeps the
// original error for logging and errors.Is/As.
type ErrorInfo struct {
	Message string
	Cause   error
}

func (e *ErrorInfo) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func (e *ErrorInfo) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Describe normalizes a fetch failure. It returns nil for a nil error.
func Describe(err error) *ErrorInfo {
	if err == nil {
		return nil
	}
	var info *ErrorInfo
	if errors.As(err, &info) && info != nil {
		return info
	}
	msg := strings.TrimSpace(err.Error())
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		msg = "request timed out"
	case errors.Is(err, context.Canceled):
		msg = "request cancelled"
	case msg == "":
		msg = "unknown error"
	}
	return &ErrorInfo{Message: msg, Cause: err}
}
