package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/stuttgart-things/delete-repo/internal/config"
	"github.com/stuttgart-things/delete-repo/internal/storage"
)

var (
	cleanupConfigPath string
	cleanupBasePath   string
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove trash folders and expired archives",
	Long: `Removes repositories left in the trash by interrupted deletes and, when
archiving is enabled, archived repositories older than deleteArchivedReposAfter.`,
	Run: runCleanup,
}

func init() {
	cleanupCmd.Flags().StringVarP(&cleanupConfigPath, "config", "c", "", "Plugin config file (YAML)")
	cleanupCmd.Flags().StringVar(&cleanupBasePath, "base-path", "", "Directory holding the bare repositories (overrides basePath)")

	rootCmd.AddCommand(cleanupCmd)
}

// CleanupResult lists what a cleanup removed
type CleanupResult struct {
	Trash    []string
	Archived []string
}

func runCleanup(cmd *cobra.Command, args []string) {
	cfg, err := loadServerConfig(cleanupConfigPath, cleanupBasePath)
	if err != nil {
		fmt.Println(errorStyle.Render(err.Error()))
		os.Exit(1)
	}

	result, err := cleanup(cfg, time.Now())
	if err != nil {
		fmt.Println(errorStyle.Render(err.Error()))
		os.Exit(1)
	}

	for _, p := range result.Trash {
		fmt.Printf("Removed trash folder: %s\n", p)
	}
	for _, p := range result.Archived {
		fmt.Printf("Removed archived repository: %s\n", p)
	}
	fmt.Println(successStyle.Render(fmt.Sprintf("Cleanup done: %d trash folders, %d archives removed",
		len(result.Trash), len(result.Archived))))
}

func cleanup(cfg *config.Config, now time.Time) (*CleanupResult, error) {
	logger, err := newLogger("cleanup")
	if err != nil {
		return nil, err
	}

	result := &CleanupResult{}
	result.Trash, err = storage.SweepTrash(cfg.BasePath, logger)
	if err != nil {
		return nil, fmt.Errorf("sweeping trash folders: %w", err)
	}

	if cfg.ArchiveDeletedRepos {
		result.Archived, err = storage.PruneArchive(cfg.ArchiveFolder, time.Duration(cfg.DeleteArchivedReposAfter), now, logger)
		if err != nil {
			return nil, fmt.Errorf("pruning archive: %w", err)
		}
	}
	return result, nil
}
