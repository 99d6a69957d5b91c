package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewDefaults(t *testing.T) {
	cfg := New("/srv/git")

	if cfg.PluginName != DefaultPluginName {
		t.Errorf("expected plugin name %s, got %s", DefaultPluginName, cfg.PluginName)
	}
	if !cfg.AllowDeletionOfReposWithTags {
		t.Error("deletion with tags should be allowed by default")
	}
	if cfg.ArchiveDeletedRepos {
		t.Error("archiving should be off by default")
	}
	if time.Duration(cfg.DeleteArchivedReposAfter) != 4320*time.Hour {
		t.Errorf("unexpected archive duration %v", time.Duration(cfg.DeleteArchivedReposAfter))
	}
	if !cfg.IsProtected("All-Projects") || !cfg.IsProtected("All-Users") {
		t.Error("All-Projects and All-Users must be protected")
	}
	if cfg.IsProtected("my-repo") {
		t.Error("ordinary repo should not be protected")
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
		verify  func(t *testing.T, cfg *Config)
	}{
		{
			name: "full config",
			content: `pluginName: my-delete
basePath: /srv/git
allowDeletionOfReposWithTags: false
archiveDeletedRepos: true
archiveFolder: /srv/archive
deleteArchivedReposAfter: 72h
protectedProjects: [All-Projects]
admins: [admin]
`,
			verify: func(t *testing.T, cfg *Config) {
				t.Helper()
				if cfg.PluginName != "my-delete" {
					t.Errorf("expected plugin my-delete, got %s", cfg.PluginName)
				}
				if cfg.AllowDeletionOfReposWithTags {
					t.Error("expected tags deletion disabled")
				}
				if cfg.ArchiveFolder != "/srv/archive" {
					t.Errorf("unexpected archive folder %s", cfg.ArchiveFolder)
				}
				if time.Duration(cfg.DeleteArchivedReposAfter) != 72*time.Hour {
					t.Errorf("unexpected duration %v", time.Duration(cfg.DeleteArchivedReposAfter))
				}
				if cfg.IsProtected("All-Users") {
					t.Error("All-Users should not be protected when overridden")
				}
				if cfg.IsAdmin("someone") || !cfg.IsAdmin("admin") {
					t.Error("admin list not honoured")
				}
			},
		},
		{
			name:    "defaults kept for missing keys",
			content: "basePath: /srv/git\narchiveDeletedRepos: true\n",
			verify: func(t *testing.T, cfg *Config) {
				t.Helper()
				if cfg.PluginName != DefaultPluginName {
					t.Errorf("expected default plugin name, got %s", cfg.PluginName)
				}
				if !cfg.AllowDeletionOfReposWithTags {
					t.Error("expected default tags deletion allowed")
				}
				if cfg.ArchiveFolder != filepath.Join("/srv", DefaultArchiveFolderName) {
					t.Errorf("unexpected derived archive folder %s", cfg.ArchiveFolder)
				}
				if !cfg.IsAdmin("anyone") {
					t.Error("empty admin list should allow everyone")
				}
			},
		},
		{
			name:    "missing base path",
			content: "pluginName: x\n",
			wantErr: true,
		},
		{
			name:    "invalid duration",
			content: "basePath: /srv/git\ndeleteArchivedReposAfter: soon\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "delete-project.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			cfg, err := Load(path)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.verify(t, cfg)
		})
	}
}

func TestLoadAndSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "delete-project.yaml")

	cfg := New("/srv/git")
	cfg.DeleteArchivedReposAfter = Duration(2 * time.Hour)
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.BasePath != "/srv/git" {
		t.Errorf("expected basePath /srv/git, got %s", loaded.BasePath)
	}
	if time.Duration(loaded.DeleteArchivedReposAfter) != 2*time.Hour {
		t.Errorf("expected 2h, got %v", time.Duration(loaded.DeleteArchivedReposAfter))
	}
}

func TestLoadNotFound(t *testing.T) {
	if _, err := Load("/nonexistent/delete-project.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestReadSkipsValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "delete-project.yaml")
	if err := os.WriteFile(path, []byte("archiveDeletedRepos: true\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Read(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BasePath != "" || !cfg.ArchiveDeletedRepos {
		t.Errorf("unexpected config %+v", cfg)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected Load to reject a config without basePath")
	}
}
