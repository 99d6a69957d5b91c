package dialog

import (
	"context"
	"strings"
	"testing"

	"github.com/stuttgart-things/delete-repo/internal/action"
)

func TestRenderWithoutAction(t *testing.T) {
	d := newTestDialog(&fakePlugin{name: "delete-project"}, nil, &action.Config{}, "repo")
	d.OpenDialog()

	if out := d.Render(); out != "" {
		t.Errorf("expected empty render, got %q", out)
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name       string
		descriptor action.Descriptor
		setup      func(d *Dialog)
		contains   []string
		excludes   []string
	}{
		{
			name:       "closed",
			descriptor: deleteAction,
			contains:   []string{"Delete...", "[ Delete... ]"},
			excludes:   []string{"(disabled)", ForceLabel, PreserveLabel},
		},
		{
			name:       "disabled trigger",
			descriptor: action.Descriptor{Method: "POST", Label: "Delete...", Enabled: false},
			contains:   []string{"(disabled)"},
		},
		{
			name:       "open modal",
			descriptor: deleteAction,
			setup: func(d *Dialog) {
				d.OpenDialog()
				_ = d.SetChecked(PreserveCheckboxID, true)
			},
			contains: []string{
				`Are you really sure you want to delete the repo: "repo"?`,
				"[ ] " + ForceLabel,
				"[x] " + PreserveLabel,
				"[ Delete ]",
				"[ Cancel ]",
			},
		},
		{
			name:       "error banner survives close",
			descriptor: action.Descriptor{Label: "Delete...", Enabled: true},
			setup: func(d *Dialog) {
				d.OpenDialog()
				_ = d.ConfirmDelete(context.Background())
			},
			contains: []string{MsgNoMethod},
			excludes: []string{ForceLabel},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDialog(&fakePlugin{name: "delete-project"}, nil, deleteConfig(tt.descriptor), "repo")
			if tt.setup != nil {
				tt.setup(d)
			}

			out := d.Render()
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("expected render to contain %q, got:\n%s", want, out)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(out, unwanted) {
					t.Errorf("expected render not to contain %q, got:\n%s", unwanted, out)
				}
			}
		})
	}
}
