package cmd

import (
	"context"
	"fmt"

	"github.com/stuttgart-things/delete-repo/internal/dialog"
)

// runDeleteNonInteractive runs the delete command in non-interactive mode
func runDeleteNonInteractive(ctx context.Context, cfg *DeleteConfig) (*DeleteResult, error) {
	if cfg.RepoName == "" {
		return nil, fmt.Errorf("a repository name is required in non-interactive mode")
	}
	if !cfg.YesReallyDelete && !cfg.DryRun {
		return nil, fmt.Errorf("%s", reallyDeleteMessage(cfg.RepoName))
	}

	client, err := newGerritClient(cfg.User, cfg.Password, cfg.GerritURL)
	if err != nil {
		return nil, err
	}
	nav := newTerminalNavigator(cfg.Out, cfg.OpenBrowser)
	d, err := newDeleteDialog(ctx, cfg, client, nav)
	if err != nil {
		return nil, err
	}

	if err := d.HandleEvent(ctx, dialog.EventOpen); err != nil {
		return nil, err
	}
	if err := applyOptions(d, cfg.Force, cfg.Preserve); err != nil {
		return nil, err
	}

	if cfg.DryRun {
		printDeleteDryRun(cfg.Out, d)
		return nil, d.HandleEvent(ctx, dialog.EventCancel)
	}

	if err := confirmDelete(ctx, cfg, d); err != nil {
		return nil, err
	}

	req := d.Request()
	return &DeleteResult{
		RepoName: cfg.RepoName,
		Force:    req.Force,
		Preserve: req.Preserve,
		Target:   nav.target,
	}, nil
}
