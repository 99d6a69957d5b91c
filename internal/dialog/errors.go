package dialog

import (
	"errors"
	"strings"
)

// Messages shown in the error banner
const (
	MsgActionUndefined = "delete action undefined"
	MsgNoMethod        = "delete action does not have a HTTP method set"
	MsgDeleteFailed    = "Error deleting project"
)

// ErrSubmitting is returned when a confirm arrives while a request is in flight
var ErrSubmitting = errors.New("delete request already in progress")

// Kind classifies why a delete did not succeed
type Kind int

const (
	// KindConfiguration means the action was missing or incomplete; nothing was sent.
	KindConfiguration Kind = iota + 1
	// KindTransport means the dispatcher failed to deliver the request.
	KindTransport
	// KindApplication means the server answered with a failure.
	KindApplication
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindTransport:
		return "transport"
	case KindApplication:
		return "application"
	default:
		return "unknown"
	}
}

// Error is returned by ConfirmDelete. Message is exactly what the banner shows.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// describeError picks the banner text for a dispatch failure
func describeError(err error) string {
	if err == nil {
		return MsgDeleteFailed
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return MsgDeleteFailed
}

// describeResponse picks the banner text for a non-OK response
func describeResponse(resp *Response) string {
	if resp == nil {
		return MsgDeleteFailed
	}
	if msg := strings.TrimSpace(string(resp.Body)); msg != "" {
		return msg
	}
	return MsgDeleteFailed
}
