package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/stuttgart-things/delete-repo/internal/config"
	"github.com/stuttgart-things/delete-repo/internal/dialog"
	"github.com/stuttgart-things/delete-repo/internal/gitops"
	"github.com/stuttgart-things/delete-repo/internal/server"
)

func clearGerritEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GERRIT_USER", "")
	t.Setenv("GERRIT_PASSWORD", "")
	t.Setenv("GERRIT_HTTP_PASSWORD", "")
}

// startGerrit serves the delete endpoint over a temp dir of repositories
func startGerrit(t *testing.T, repos ...string) (*httptest.Server, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	base := t.TempDir()
	for _, name := range repos {
		if _, err := gitops.Init(base, name); err != nil {
			t.Fatalf("Init(%s): %v", name, err)
		}
	}

	cfg := config.New(base)
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(server.New(cfg, nil, log.New(io.Discard)).Handler())
	t.Cleanup(ts.Close)
	return ts, base
}

func TestRunDeleteNonInteractive(t *testing.T) {
	tests := []struct {
		name        string
		repo        string
		setup       func(t *testing.T, base string)
		mutate      func(cfg *DeleteConfig)
		wantErr     bool
		errContains string
		wantGone    bool
		wantOutput  string
	}{
		{
			name:       "deletes with confirmation flag",
			repo:       "team/my repo",
			wantGone:   true,
			wantOutput: "Deleted repository: team/my repo",
		},
		{
			name: "deletes with credentials",
			repo: "foo",
			mutate: func(cfg *DeleteConfig) {
				cfg.User = "admin"
				cfg.Password = "secret"
			},
			wantGone: true,
		},
		{
			name:        "refuses without confirmation flag",
			repo:        "foo",
			mutate:      func(cfg *DeleteConfig) { cfg.YesReallyDelete = false },
			wantErr:     true,
			errContains: "--yes-really-delete",
		},
		{
			name:        "requires repository name",
			mutate:      func(cfg *DeleteConfig) { cfg.RepoName = "" },
			wantErr:     true,
			errContains: "repository name is required",
		},
		{
			name:        "half credentials",
			repo:        "foo",
			mutate:      func(cfg *DeleteConfig) { cfg.User = "admin" },
			wantErr:     true,
			errContains: "credentials required",
		},
		{
			name: "open changes block delete",
			repo: "foo",
			setup: func(t *testing.T, base string) {
				repo, err := gitops.Open(base, "foo")
				if err != nil {
					t.Fatal(err)
				}
				if err := repo.AddChange(7, false); err != nil {
					t.Fatal(err)
				}
			},
			wantErr:     true,
			errContains: "Project 'foo' has open changes.",
		},
		{
			name: "force deletes despite open changes",
			repo: "foo",
			setup: func(t *testing.T, base string) {
				repo, err := gitops.Open(base, "foo")
				if err != nil {
					t.Fatal(err)
				}
				if err := repo.AddChange(7, false); err != nil {
					t.Fatal(err)
				}
			},
			mutate:   func(cfg *DeleteConfig) { cfg.Force = true },
			wantGone: true,
		},
		{
			name:       "preserve keeps repository",
			repo:       "foo",
			mutate:     func(cfg *DeleteConfig) { cfg.Preserve = true },
			wantOutput: "Deleted repository: foo",
		},
		{
			name:       "dry run sends nothing",
			repo:       "team/foo",
			mutate:     func(cfg *DeleteConfig) { cfg.DryRun = true; cfg.YesReallyDelete = false },
			wantOutput: "POST /projects/team%2Ffoo/delete-project~delete",
		},
		{
			name:        "protected project",
			repo:        "All-Projects",
			wantErr:     true,
			errContains: "Cannot delete protected project",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearGerritEnv(t)
			var repos []string
			if tt.repo != "" {
				repos = append(repos, tt.repo)
			}
			ts, base := startGerrit(t, repos...)
			if tt.setup != nil {
				tt.setup(t, base)
			}

			var out bytes.Buffer
			cfg := &DeleteConfig{
				RepoName:        tt.repo,
				GerritURL:       ts.URL,
				PluginName:      config.DefaultPluginName,
				YesReallyDelete: true,
				Out:             &out,
			}
			if tt.mutate != nil {
				tt.mutate(cfg)
			}

			result, err := runDeleteNonInteractive(context.Background(), cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("expected error containing %q, got %q", tt.errContains, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			_, statErr := os.Stat(gitops.RepositoryPath(base, tt.repo))
			if gone := os.IsNotExist(statErr); gone != tt.wantGone {
				t.Errorf("expected repository gone=%v, stat err=%v", tt.wantGone, statErr)
			}
			if tt.wantOutput != "" && !strings.Contains(out.String(), tt.wantOutput) {
				t.Errorf("expected output to contain %q, got:\n%s", tt.wantOutput, out.String())
			}

			if cfg.DryRun {
				if result != nil {
					t.Errorf("expected no result on dry run, got %+v", result)
				}
				return
			}
			if result.Target != ts.URL+dialog.ReposPath {
				t.Errorf("expected navigation to %s, got %s", ts.URL+dialog.ReposPath, result.Target)
			}
			if result.Force != cfg.Force || result.Preserve != cfg.Preserve {
				t.Errorf("unexpected options in result %+v", result)
			}
		})
	}
}

func TestConfirmDeleteFailureNotPrinted(t *testing.T) {
	clearGerritEnv(t)
	ts, base := startGerrit(t, "foo")
	repo, err := gitops.Open(base, "foo")
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.AddChange(7, false); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	cfg := &DeleteConfig{
		RepoName:   "foo",
		GerritURL:  ts.URL,
		PluginName: config.DefaultPluginName,
		Out:        &out,
	}
	client, err := newGerritClient("", "", cfg.GerritURL)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	d, err := newDeleteDialog(ctx, cfg, client, newTerminalNavigator(&out, false))
	if err != nil {
		t.Fatal(err)
	}
	if err := d.HandleEvent(ctx, dialog.EventOpen); err != nil {
		t.Fatal(err)
	}

	const msg = "Project 'foo' has open changes."
	err = confirmDelete(ctx, cfg, d)
	if err == nil || !strings.Contains(err.Error(), msg) {
		t.Fatalf("expected error containing %q, got %v", msg, err)
	}
	if strings.Contains(out.String(), msg) {
		t.Errorf("failure should be left to the caller, output:\n%s", out.String())
	}
	if strings.Contains(out.String(), "Deleted repository") {
		t.Errorf("unexpected success message:\n%s", out.String())
	}
}

func TestRunDeleteWithActionsFile(t *testing.T) {
	clearGerritEnv(t)
	ts, base := startGerrit(t, "foo")

	tests := []struct {
		name        string
		content     string
		wantErr     string
		wantDeleted bool
	}{
		{
			name: "action from file",
			content: `actions:
  delete-project~delete:
    method: DELETE
    label: Delete...
    enabled: true
`,
			wantDeleted: true,
		},
		{
			name:    "no delete action",
			content: "actions: {}\n",
			wantErr: dialog.MsgActionUndefined,
		},
		{
			name: "action without method",
			content: `actions:
  delete-project~delete:
    label: Delete...
`,
			wantErr: dialog.MsgNoMethod,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "actions.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			cfg := &DeleteConfig{
				RepoName:        "foo",
				GerritURL:       ts.URL,
				PluginName:      config.DefaultPluginName,
				ActionsFile:     path,
				YesReallyDelete: true,
				Out:             io.Discard,
			}
			_, err := runDeleteNonInteractive(context.Background(), cfg)
			if tt.wantErr != "" {
				var dialogErr *dialog.Error
				if !errors.As(err, &dialogErr) {
					t.Fatalf("expected dialog error, got %v", err)
				}
				if dialogErr.Kind != dialog.KindConfiguration || dialogErr.Message != tt.wantErr {
					t.Errorf("expected configuration error %q, got %v %q", tt.wantErr, dialogErr.Kind, dialogErr.Message)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if _, err := os.Stat(gitops.RepositoryPath(base, "foo")); !os.IsNotExist(err) {
				t.Error("expected repository to be deleted")
			}
		})
	}
}

func TestTerminalNavigator(t *testing.T) {
	tests := []struct {
		name       string
		open       bool
		openErr    error
		wantOpened bool
		wantOutput string
	}{
		{name: "print only", wantOutput: "http://gerrit/admin/repos"},
		{name: "opens browser", open: true, wantOpened: true},
		{name: "browser failure is reported", open: true, openErr: errors.New("no display"), wantOpened: true, wantOutput: "no display"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			var opened string
			nav := newTerminalNavigator(&out, tt.open)
			nav.openURL = func(url string) error {
				opened = url
				return tt.openErr
			}

			nav.Navigate("http://gerrit/admin/repos")

			if (opened != "") != tt.wantOpened {
				t.Errorf("expected opened=%v, got %q", tt.wantOpened, opened)
			}
			if nav.target != "http://gerrit/admin/repos" {
				t.Errorf("unexpected target %q", nav.target)
			}
			if tt.wantOutput != "" && !strings.Contains(out.String(), tt.wantOutput) {
				t.Errorf("expected output to contain %q, got %q", tt.wantOutput, out.String())
			}
		})
	}
}

func TestResolvePluginName(t *testing.T) {
	t.Setenv("GERRIT_PLUGIN", "")
	if got := resolvePluginName(""); got != config.DefaultPluginName {
		t.Errorf("expected default, got %s", got)
	}
	t.Setenv("GERRIT_PLUGIN", "env-plugin")
	if got := resolvePluginName(""); got != "env-plugin" {
		t.Errorf("expected env-plugin, got %s", got)
	}
	if got := resolvePluginName("flag-plugin"); got != "flag-plugin" {
		t.Errorf("expected flag-plugin, got %s", got)
	}
}

func TestReallyDeleteMessage(t *testing.T) {
	msg := reallyDeleteMessage("foo")
	if !strings.HasPrefix(msg, "Really delete foo?") {
		t.Errorf("unexpected message %q", msg)
	}
}
