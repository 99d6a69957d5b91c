package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/stuttgart-things/delete-repo/internal/config"
	"github.com/stuttgart-things/delete-repo/internal/deletelog"
	"github.com/stuttgart-things/delete-repo/internal/server"
	"github.com/stuttgart-things/delete-repo/internal/storage"
)

const archivePruneInterval = 24 * time.Hour

var (
	serveConfigPath string
	serveBasePath   string
	serveAddr       string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the delete-project REST endpoint",
	Long: `Serves a Gerrit compatible project listing, project config and delete
endpoint over a directory of bare repositories. Trash folders left by earlier
deletes are swept on startup; expired archives are pruned once a day.`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "", "Plugin config file (YAML)")
	serveCmd.Flags().StringVar(&serveBasePath, "base-path", "", "Directory holding the bare repositories (overrides basePath)")
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")

	rootCmd.AddCommand(serveCmd)
}

// loadServerConfig reads the config file if given and applies the base
// path flag on top
func loadServerConfig(path, basePath string) (*config.Config, error) {
	cfg := config.New("")
	if path != "" {
		var err error
		if cfg, err = config.Read(path); err != nil {
			return nil, err
		}
	}

	if basePath != "" {
		cfg.BasePath = basePath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) {
	fmt.Println(logo)

	if err := serve(); err != nil {
		fmt.Println(errorStyle.Render(err.Error()))
		os.Exit(1)
	}
}

func serve() error {
	logger, err := newLogger("serve")
	if err != nil {
		return err
	}

	cfg, err := loadServerConfig(serveConfigPath, serveBasePath)
	if err != nil {
		return err
	}

	var deleteLog *deletelog.Log
	if cfg.LogDir != "" {
		deleteLog, err = deletelog.Open(cfg.LogDir)
		if err != nil {
			return err
		}
		defer deleteLog.Close()
	}

	if logger.GetLevel() > log.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := newServeServer(cfg, deleteLog, logger)
	if cfg.ArchiveDeletedRepos {
		go pruneArchivePeriodically(ctx, cfg, logger)
	}

	fmt.Println(progressStyle.Render(fmt.Sprintf("Serving %s on %s", cfg.BasePath, serveAddr)))
	return srv.Run(ctx, serveAddr)
}

// newServeServer sweeps trash folders left by earlier deletes and then
// builds the server, so no request can race the sweep.
func newServeServer(cfg *config.Config, deleteLog *deletelog.Log, logger *log.Logger) *server.Server {
	removed, err := storage.SweepTrash(cfg.BasePath, logger)
	if err != nil {
		logger.Error("sweeping trash folders", "err", err)
	} else {
		logger.Info("swept trash folders", "removed", len(removed))
	}
	return server.New(cfg, deleteLog, logger)
}

func pruneArchivePeriodically(ctx context.Context, cfg *config.Config, logger *log.Logger) {
	ticker := time.NewTicker(archivePruneInterval)
	defer ticker.Stop()

	for {
		removed, err := storage.PruneArchive(cfg.ArchiveFolder, time.Duration(cfg.DeleteArchivedReposAfter), time.Now(), logger)
		if err != nil {
			logger.Error("pruning archive", "folder", cfg.ArchiveFolder, "err", err)
		} else if len(removed) > 0 {
			logger.Info("pruned archived repositories", "removed", len(removed))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
