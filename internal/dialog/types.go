package dialog

import (
	"context"
)

// Stable identifiers of the rendered dialog parts
const (
	DialogID           = "deleteRepoDialog"
	ForceCheckboxID    = "forceDeleteOpenChangesCheckBox"
	PreserveCheckboxID = "preserveGitRepoCheckBox"
)

// ReposPath is where the browser is sent after a successful delete
const ReposPath = "/admin/repos"

// Event is a named event dispatched from the dialog container
type Event string

const (
	EventOpen    Event = "open"
	EventConfirm Event = "confirm"
	EventCancel  Event = "cancel"
)

// Response is what the REST dispatcher hands back for a request
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the response indicates success
func (r *Response) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Plugin is the capability a host grants to the dialog
type Plugin interface {
	PluginName() string
	Dispatch(ctx context.Context, method, path string, body any) (*Response, error)
	InvalidateReposCache()
}

// Navigator moves the user to another page of the host
type Navigator interface {
	Navigate(target string)
}

// NavigatorFunc adapts a plain function to Navigator
type NavigatorFunc func(target string)

// Navigate calls f(target)
func (f NavigatorFunc) Navigate(target string) { f(target) }

// Request is the JSON body of a delete call. Both fields are always sent.
type Request struct {
	Force    bool `json:"force"`
	Preserve bool `json:"preserve"`
}

// State is the mutable UI state of one dialog instance
type State struct {
	Open         bool
	Submitting   bool
	ErrorMessage string
}
