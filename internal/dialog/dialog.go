// Package dialog holds the confirmation flow for deleting a repository:
// open, toggle options, confirm or cancel. It has no UI toolkit of its own;
// Render and the interactive form in cmd are thin shells around it.
package dialog

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/stuttgart-things/delete-repo/internal/action"
)

// Options wires a dialog to its host
type Options struct {
	Plugin    Plugin
	Navigator Navigator
	Config    *action.Config
	RepoName  string
	// BasePath is prepended to ReposPath when navigating away
	BasePath string
}

// Dialog is one delete-repository confirmation dialog.
// It is safe for concurrent use.
type Dialog struct {
	plugin   Plugin
	nav      Navigator
	basePath string
	repoName string
	actionID string
	action   *action.Descriptor

	mu      sync.Mutex
	state   State
	checked map[string]bool
}

// New creates a closed dialog. The action descriptor is looked up once;
// a missing descriptor is allowed and makes the dialog render nothing.
func New(opts Options) *Dialog {
	id := action.DeleteID(opts.Plugin.PluginName())
	nav := opts.Navigator
	if nav == nil {
		nav = NavigatorFunc(func(string) {})
	}
	return &Dialog{
		plugin:   opts.Plugin,
		nav:      nav,
		basePath: opts.BasePath,
		repoName: opts.RepoName,
		actionID: id,
		action:   opts.Config.Lookup(id),
		checked:  make(map[string]bool),
	}
}

// ActionID returns "{plugin}~delete"
func (d *Dialog) ActionID() string {
	return d.actionID
}

// Action returns the descriptor, or nil when the action is not permitted
func (d *Dialog) Action() *action.Descriptor {
	return d.action
}

// RepoName returns the repository this dialog deletes
func (d *Dialog) RepoName() string {
	return d.repoName
}

// Endpoint returns the REST path the delete is sent to
func (d *Dialog) Endpoint() string {
	return fmt.Sprintf("/projects/%s/%s", url.PathEscape(d.repoName), d.actionID)
}

// State returns a snapshot of the current state
func (d *Dialog) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// OpenDialog clears any previous error and opens the modal
func (d *Dialog) OpenDialog() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.ErrorMessage = ""
	d.state.Open = true
}

// CloseDialog closes the modal. The error message is kept.
func (d *Dialog) CloseDialog() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.Open = false
}

// SetChecked sets one of the two option checkboxes
func (d *Dialog) SetChecked(id string, checked bool) error {
	switch id {
	case ForceCheckboxID, PreserveCheckboxID:
	default:
		return fmt.Errorf("unknown checkbox %q", id)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.checked[id] = checked
	return nil
}

// Checked reports a checkbox state; a box never set reads as false
func (d *Dialog) Checked(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.checked[id]
}

// Request builds the body that a confirm would send right now
func (d *Dialog) Request() Request {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.request()
}

func (d *Dialog) request() Request {
	return Request{
		Force:    d.checked[ForceCheckboxID],
		Preserve: d.checked[PreserveCheckboxID],
	}
}

// HandleEvent dispatches a named dialog event
func (d *Dialog) HandleEvent(ctx context.Context, ev Event) error {
	switch ev {
	case EventOpen:
		d.OpenDialog()
		return nil
	case EventCancel:
		d.CloseDialog()
		return nil
	case EventConfirm:
		return d.ConfirmDelete(ctx)
	default:
		return fmt.Errorf("unknown event %q", ev)
	}
}

// ConfirmDelete sends the delete request. Every outcome closes the dialog;
// failures are also recorded as the error message. At most one request is
// in flight per dialog.
func (d *Dialog) ConfirmDelete(ctx context.Context) error {
	d.mu.Lock()
	if d.state.Submitting {
		d.mu.Unlock()
		return ErrSubmitting
	}
	if d.action == nil {
		err := d.failLocked(KindConfiguration, MsgActionUndefined, nil)
		d.mu.Unlock()
		return err
	}
	if d.action.Method == "" {
		err := d.failLocked(KindConfiguration, MsgNoMethod, nil)
		d.mu.Unlock()
		return err
	}

	d.state.ErrorMessage = ""
	d.state.Submitting = true
	method := d.action.Method
	body := d.request()
	d.mu.Unlock()

	resp, err := d.plugin.Dispatch(ctx, method, d.Endpoint(), body)

	d.mu.Lock()
	d.state.Submitting = false
	if err != nil {
		failure := d.failLocked(KindTransport, describeError(err), err)
		d.mu.Unlock()
		return failure
	}
	if !resp.OK() {
		failure := d.failLocked(KindApplication, describeResponse(resp), nil)
		d.mu.Unlock()
		return failure
	}
	d.mu.Unlock()

	d.plugin.InvalidateReposCache()
	d.CloseDialog()
	d.nav.Navigate(d.basePath + ReposPath)
	return nil
}

func (d *Dialog) failLocked(kind Kind, msg string, cause error) *Error {
	d.state.ErrorMessage = msg
	d.state.Open = false
	return &Error{Kind: kind, Message: msg, Err: cause}
}
