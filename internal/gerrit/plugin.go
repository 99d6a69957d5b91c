package gerrit

import (
	"context"

	"github.com/stuttgart-things/delete-repo/internal/dialog"
)

// Plugin grants the delete dialog access to a Gerrit server under a plugin name
type Plugin struct {
	Name   string
	Client *Client
}

var _ dialog.Plugin = (*Plugin)(nil)

// NewPlugin creates a plugin handle
func NewPlugin(name string, client *Client) *Plugin {
	return &Plugin{Name: name, Client: client}
}

func (p *Plugin) PluginName() string {
	return p.Name
}

func (p *Plugin) Dispatch(ctx context.Context, method, path string, body any) (*dialog.Response, error) {
	resp, err := p.Client.Fetch(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	return &dialog.Response{StatusCode: resp.StatusCode, Body: resp.Body}, nil
}

func (p *Plugin) InvalidateReposCache() {
	p.Client.InvalidateReposCache()
}
