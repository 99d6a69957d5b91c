package cmd

import (
	"context"
	"fmt"
	"slices"

	"github.com/charmbracelet/huh"

	"github.com/stuttgart-things/delete-repo/internal/dialog"
	"github.com/stuttgart-things/delete-repo/internal/gerrit"
)

// runDeleteInteractive runs the delete command in interactive mode
func runDeleteInteractive(ctx context.Context, cfg *DeleteConfig) error {
	client, err := newGerritClient(cfg.User, cfg.Password, cfg.GerritURL)
	if err != nil {
		return err
	}

	if cfg.RepoName == "" {
		selected, err := runRepoSelect(ctx, client)
		if err != nil {
			return err
		}
		if selected == "" {
			fmt.Fprintln(cfg.Out, "No repositories found.")
			return nil
		}
		cfg.RepoName = selected
	}

	nav := newTerminalNavigator(cfg.Out, cfg.OpenBrowser)
	d, err := newDeleteDialog(ctx, cfg, client, nav)
	if err != nil {
		return err
	}

	a := d.Action()
	if a == nil {
		return fmt.Errorf("%s: %s", cfg.RepoName, dialog.MsgActionUndefined)
	}
	fmt.Fprintln(cfg.Out, d.Render())
	if !a.Enabled {
		return fmt.Errorf("%s is not available for %s", a.Label, cfg.RepoName)
	}

	if err := d.HandleEvent(ctx, dialog.EventOpen); err != nil {
		return err
	}
	if err := applyOptions(d, cfg.Force, cfg.Preserve); err != nil {
		return err
	}

	confirm, err := runDeleteModal(d)
	if err != nil {
		return fmt.Errorf("confirmation form: %w", err)
	}

	if !confirm {
		_ = d.HandleEvent(ctx, dialog.EventCancel)
		fmt.Fprintln(cfg.Out, "Cancelled.")
		return nil
	}

	if cfg.DryRun {
		printDeleteDryRun(cfg.Out, d)
		return d.HandleEvent(ctx, dialog.EventCancel)
	}

	return confirmDelete(ctx, cfg, d)
}

// runRepoSelect lets the user pick a repository from the server listing
func runRepoSelect(ctx context.Context, client *gerrit.Client) (string, error) {
	projects, err := client.ListProjects(ctx)
	if err != nil {
		return "", err
	}
	if len(projects) == 0 {
		return "", nil
	}

	var options []huh.Option[string]
	for _, p := range projects {
		label := p.Name
		if p.Description != "" {
			label = fmt.Sprintf("%s - %s", p.Name, p.Description)
		}
		options = append(options, huh.NewOption(label, p.Name))
	}

	var selected string
	selectForm := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select repository to delete").
				Description("Choose the repository to remove").
				Options(options...).
				Value(&selected),
		),
	)

	if err := selectForm.Run(); err != nil {
		return "", fmt.Errorf("selection form: %w", err)
	}
	return selected, nil
}

// runDeleteModal shows the two option checkboxes and the Delete/Cancel
// choice, and writes the chosen options back into the dialog
func runDeleteModal(d *dialog.Dialog) (bool, error) {
	var selected []string
	var confirm bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title(fmt.Sprintf("Are you really sure you want to delete the repo: %q?", d.RepoName())).
				Options(
					huh.NewOption(dialog.ForceLabel, dialog.ForceCheckboxID).
						Selected(d.Checked(dialog.ForceCheckboxID)),
					huh.NewOption(dialog.PreserveLabel, dialog.PreserveCheckboxID).
						Selected(d.Checked(dialog.PreserveCheckboxID)),
				).
				Value(&selected),
			huh.NewConfirm().
				Title("Delete this repository?").
				Affirmative("Delete").
				Negative("Cancel").
				Value(&confirm),
		),
	)

	if err := form.Run(); err != nil {
		return false, err
	}

	if err := applyOptions(d,
		slices.Contains(selected, dialog.ForceCheckboxID),
		slices.Contains(selected, dialog.PreserveCheckboxID)); err != nil {
		return false, err
	}
	return confirm, nil
}
