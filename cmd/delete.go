package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cli/browser"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/stuttgart-things/delete-repo/internal/action"
	"github.com/stuttgart-things/delete-repo/internal/config"
	"github.com/stuttgart-things/delete-repo/internal/dialog"
	"github.com/stuttgart-things/delete-repo/internal/gerrit"
)

var (
	deleteGerritURL   string
	deleteUser        string
	deletePassword    string
	deletePlugin      string
	deleteActionsFile string

	deleteForce           bool
	deletePreserve        bool
	deleteYesReallyDelete bool
	deleteOpen            bool
	deleteDryRun          bool

	// Mode flags for delete
	deleteInteractive    bool
	deleteNonInteractive bool
)

var deleteCmd = &cobra.Command{
	Use:   "delete [REPO]",
	Short: "Delete a Gerrit repository",
	Long: `Deletes a repository through the delete-project plugin. The delete action
offered by the server for the repository decides the HTTP method used; in
interactive mode the confirmation dialog is shown before anything is sent.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runDelete,
}

func init() {
	deleteCmd.Flags().StringVarP(&deleteGerritURL, "gerrit-url", "u", "", "Gerrit URL (default: $GERRIT_URL or http://localhost:8080)")
	deleteCmd.Flags().StringVar(&deleteUser, "user", "", "Gerrit user (or GERRIT_USER env)")
	deleteCmd.Flags().StringVar(&deletePassword, "password", "", "Gerrit HTTP password (or GERRIT_PASSWORD env)")
	deleteCmd.Flags().StringVar(&deletePlugin, "plugin", "", "Name of the delete plugin (default: $GERRIT_PLUGIN or delete-project)")
	deleteCmd.Flags().StringVar(&deleteActionsFile, "actions-file", "", "YAML/JSON file with the project actions instead of asking the server")

	deleteCmd.Flags().BoolVar(&deleteForce, "force", false, "Delete even if open changes exist")
	deleteCmd.Flags().BoolVar(&deletePreserve, "preserve-git-repository", false, "Keep the git repository on disk")
	deleteCmd.Flags().BoolVar(&deleteYesReallyDelete, "yes-really-delete", false, "Confirm the delete in non-interactive mode")
	deleteCmd.Flags().BoolVar(&deleteOpen, "open", false, "Open the repository list in the browser afterwards")
	deleteCmd.Flags().BoolVar(&deleteDryRun, "dry-run", false, "Show the request without sending it")

	// Mode flags
	deleteCmd.Flags().BoolVarP(&deleteInteractive, "interactive", "i", false, "Force interactive mode")
	deleteCmd.Flags().BoolVar(&deleteNonInteractive, "non-interactive", false, "Force non-interactive mode")

	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) {
	fmt.Println(logo)

	cfg := &DeleteConfig{
		GerritURL:       resolveGerritURL(deleteGerritURL),
		User:            deleteUser,
		Password:        deletePassword,
		PluginName:      resolvePluginName(deletePlugin),
		ActionsFile:     deleteActionsFile,
		Force:           deleteForce,
		Preserve:        deletePreserve,
		YesReallyDelete: deleteYesReallyDelete,
		OpenBrowser:     deleteOpen,
		DryRun:          deleteDryRun,
		Out:             os.Stdout,
	}
	if len(args) == 1 {
		cfg.RepoName = args[0]
	}

	// Determine mode
	if deleteNonInteractive {
		cfg.Interactive = false
	} else if deleteInteractive {
		cfg.Interactive = true
	} else {
		cfg.Interactive = isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var err error
	if cfg.Interactive {
		err = runDeleteInteractive(ctx, cfg)
	} else {
		_, err = runDeleteNonInteractive(ctx, cfg)
	}

	if err != nil {
		fmt.Println(errorStyle.Render(err.Error()))
		os.Exit(1)
	}
}

func resolveGerritURL(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv("GERRIT_URL"); env != "" {
		return env
	}
	return "http://localhost:8080"
}

func resolvePluginName(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv("GERRIT_PLUGIN"); env != "" {
		return env
	}
	return config.DefaultPluginName
}

// newGerritClient builds the API client. Without any credentials requests
// go out anonymously; half a set of credentials is an error.
func newGerritClient(user, password, gerritURL string) (*gerrit.Client, error) {
	client := gerrit.NewClient(gerritURL)

	user, password = gerrit.ResolveCredentialsOptional(user, password)
	if user == "" && password == "" {
		return client, nil
	}
	user, password, err := gerrit.ResolveCredentials(user, password)
	if err != nil {
		return nil, err
	}
	return client.WithCredentials(user, password), nil
}

// newDeleteDialog loads the actions for the repository and wires a dialog
// to the Gerrit client
func newDeleteDialog(ctx context.Context, cfg *DeleteConfig, client *gerrit.Client, nav dialog.Navigator) (*dialog.Dialog, error) {
	var (
		actions *action.Config
		err     error
	)
	if cfg.ActionsFile != "" {
		actions, err = action.LoadFile(cfg.ActionsFile)
	} else {
		actions, err = client.ProjectConfig(ctx, cfg.RepoName)
	}
	if err != nil {
		return nil, err
	}

	d := dialog.New(dialog.Options{
		Plugin:    gerrit.NewPlugin(cfg.PluginName, client),
		Navigator: nav,
		Config:    actions,
		RepoName:  cfg.RepoName,
		BasePath:  client.BaseURL,
	})
	return d, nil
}

// applyOptions copies the option flags into the dialog checkboxes
func applyOptions(d *dialog.Dialog, force, preserve bool) error {
	if err := d.SetChecked(dialog.ForceCheckboxID, force); err != nil {
		return err
	}
	return d.SetChecked(dialog.PreserveCheckboxID, preserve)
}

// confirmDelete sends the delete through the dialog. A failure is returned
// and not printed here; runDelete shows it once.
func confirmDelete(ctx context.Context, cfg *DeleteConfig, d *dialog.Dialog) error {
	fmt.Fprintln(cfg.Out, progressStyle.Render(fmt.Sprintf("Deleting %s...", cfg.RepoName)))
	if err := d.HandleEvent(ctx, dialog.EventConfirm); err != nil {
		return fmt.Errorf("deleting %s: %w", cfg.RepoName, err)
	}
	fmt.Fprintln(cfg.Out, successStyle.Render(fmt.Sprintf("Deleted repository: %s", cfg.RepoName)))
	return nil
}

// printDeleteDryRun shows what a confirm would send
func printDeleteDryRun(out io.Writer, d *dialog.Dialog) {
	req := d.Request()
	method := "<none>"
	if a := d.Action(); a != nil && a.Method != "" {
		method = a.Method
	}
	fmt.Fprintln(out, "\n=== DRY RUN - No changes made ===")
	fmt.Fprintf(out, "Would delete repository: %s\n", d.RepoName())
	fmt.Fprintf(out, "  Request:   %s %s\n", method, d.Endpoint())
	fmt.Fprintf(out, "  Force:     %t\n", req.Force)
	fmt.Fprintf(out, "  Preserve:  %t\n", req.Preserve)
}

// terminalNavigator prints where the user is sent and optionally opens it
type terminalNavigator struct {
	out     io.Writer
	open    bool
	openURL func(string) error
	target  string
}

func newTerminalNavigator(out io.Writer, open bool) *terminalNavigator {
	return &terminalNavigator{out: out, open: open, openURL: browser.OpenURL}
}

func (n *terminalNavigator) Navigate(target string) {
	n.target = target
	fmt.Fprintln(n.out, progressStyle.Render("→ "+target))
	if !n.open {
		return
	}
	if err := n.openURL(target); err != nil {
		fmt.Fprintln(n.out, warningStyle.Render(fmt.Sprintf("could not open browser: %v", err)))
	}
}

// reallyDeleteMessage is printed when a non-interactive delete is missing
// its confirmation flag
func reallyDeleteMessage(name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Really delete %s?\n", name)
	b.WriteString("This is an operation which permanently deletes data. This cannot be undone!\n")
	b.WriteString("If you are sure you wish to delete this project, re-run\n")
	b.WriteString("with the --yes-really-delete flag.")
	return b.String()
}
