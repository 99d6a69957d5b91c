package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/stuttgart-things/delete-repo/internal/gerrit"
)

var (
	listGerritURL string
	listUser      string
	listPassword  string
	listPrefix    string
	listOutput    string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List repositories",
	Long:  `Lists the repositories visible on the Gerrit server, with optional filtering by name prefix.`,
	Run:   runList,
}

func init() {
	listCmd.Flags().StringVarP(&listGerritURL, "gerrit-url", "u", "", "Gerrit URL (default: $GERRIT_URL or http://localhost:8080)")
	listCmd.Flags().StringVar(&listUser, "user", "", "Gerrit user (or GERRIT_USER env)")
	listCmd.Flags().StringVar(&listPassword, "password", "", "Gerrit HTTP password (or GERRIT_PASSWORD env)")
	listCmd.Flags().StringVar(&listPrefix, "prefix", "", "Only list repositories starting with this prefix")
	listCmd.Flags().StringVarP(&listOutput, "output", "o", "table", "Output format (table, json)")

	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) {
	client, err := newGerritClient(listUser, listPassword, resolveGerritURL(listGerritURL))
	if err != nil {
		fmt.Println(errorStyle.Render(err.Error()))
		os.Exit(1)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	projects, err := client.ListProjects(ctx)
	if err != nil {
		fmt.Println(errorStyle.Render(fmt.Sprintf("Error listing repositories: %v", err)))
		os.Exit(1)
	}

	projects = filterProjects(projects, listPrefix)

	if len(projects) == 0 {
		fmt.Println("No repositories found.")
		return
	}

	switch listOutput {
	case "json":
		printJSON(projects)
	default:
		printTable(projects)
	}
}

func filterProjects(projects []gerrit.ProjectInfo, prefix string) []gerrit.ProjectInfo {
	if prefix == "" {
		return projects
	}
	var filtered []gerrit.ProjectInfo
	for _, p := range projects {
		if strings.HasPrefix(p.Name, prefix) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func printTable(projects []gerrit.ProjectInfo) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTATE\tPARENT\tDESCRIPTION")
	fmt.Fprintln(w, "----\t-----\t------\t-----------")

	for _, p := range projects {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Name, p.State, p.Parent, p.Description)
	}

	w.Flush()
}

func printJSON(projects []gerrit.ProjectInfo) {
	data, err := json.MarshalIndent(projects, "", "  ")
	if err != nil {
		fmt.Println(errorStyle.Render(fmt.Sprintf("Error marshalling JSON: %v", err)))
		os.Exit(1)
	}
	fmt.Println(string(data))
}
