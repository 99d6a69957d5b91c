// Package storage removes project repositories from disk: moved aside
// first, then deleted or archived, and empty parent folders pruned.
package storage

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/stuttgart-things/delete-repo/internal/gitops"
)

const trashTimeFormat = "20060102150405"

// Listener is told about every repository removed from disk
type Listener interface {
	OnProjectDeleted(name string) error
}

// ListenerFunc adapts a function to Listener
type ListenerFunc func(name string) error

func (f ListenerFunc) OnProjectDeleted(name string) error { return f(name) }

// Remover deletes or archives repositories below BasePath
type Remover struct {
	BasePath      string
	Archive       bool
	ArchiveFolder string
	Listeners     []Listener
	Logger        *log.Logger

	// Now returns the time used in trash folder names
	Now func() time.Time
}

func (r *Remover) logger() *log.Logger {
	if r.Logger == nil {
		return log.Default()
	}
	return r.Logger
}

func (r *Remover) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

// Remove takes the repository of project name off disk. With preserve the
// repository stays where it is. A missing repository is reported as
// gitops.ErrNotFound, a name outside BasePath as gitops.ErrInvalidName.
func (r *Remover) Remove(name string, preserve bool) error {
	repoPath, err := gitops.ResolvePath(r.BasePath, name)
	if err != nil {
		return err
	}
	if _, err := os.Stat(repoPath); os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", name, gitops.ErrNotFound)
	}
	if preserve {
		return nil
	}
	if r.Archive {
		return r.archive(name, repoPath)
	}
	return r.delete(name, repoPath)
}

func (r *Remover) moveAside(name, repoPath, option string) (string, error) {
	target := filepath.Join(r.BasePath, fmt.Sprintf("%s.%s.%%%s%%.git",
		filepath.FromSlash(name), r.now().UTC().Format(trashTimeFormat), option))
	if err := os.Rename(repoPath, target); err != nil {
		return "", fmt.Errorf("moving %s aside: %w", name, err)
	}
	return target, nil
}

func (r *Remover) delete(name, repoPath string) error {
	trash, err := r.moveAside(name, repoPath, "deleted")
	if err != nil {
		return err
	}
	defer r.notify(name)

	// The repository is already in the trash; a failure here is left for SweepTrash
	if err := os.RemoveAll(trash); err != nil {
		r.logger().Warn("error trying to delete", "path", trash, "err", err)
		return nil
	}
	if err := deleteEmptyParents(filepath.Dir(repoPath), r.BasePath); err != nil {
		r.logger().Warn("couldn't delete empty parents", "path", repoPath, "err", err)
	}
	return nil
}

func (r *Remover) archive(name, repoPath string) error {
	if r.ArchiveFolder == "" {
		return fmt.Errorf("an archive folder must be configured to archive %s", name)
	}
	renamed, err := r.moveAside(name, repoPath, "archived")
	if err != nil {
		return err
	}
	defer r.notify(name)

	rel, err := filepath.Rel(r.BasePath, renamed)
	if err != nil {
		r.logger().Warn("error trying to archive", "path", renamed, "err", err)
		return nil
	}
	dest := filepath.Join(r.ArchiveFolder, rel)
	if err := copyDir(renamed, dest); err != nil {
		r.logger().Warn("error trying to archive, repository is now in trash", "path", renamed, "err", err)
		return nil
	}
	if err := os.RemoveAll(renamed); err != nil {
		r.logger().Warn("error trying to delete archived source", "path", renamed, "err", err)
		return nil
	}
	if err := deleteEmptyParents(filepath.Dir(repoPath), r.BasePath); err != nil {
		r.logger().Warn("couldn't delete empty parents", "path", repoPath, "err", err)
	}
	return nil
}

func (r *Remover) notify(name string) {
	for _, l := range r.Listeners {
		if err := l.OnProjectDeleted(name); err != nil {
			r.logger().Warn("failure in project deleted listener", "project", name, "err", err)
		}
	}
}

// deleteEmptyParents removes dir and its parents while they are empty,
// stopping at until. a/b/c/d.git gone and a/b/e.git left means a/b/c goes.
func deleteEmptyParents(dir, until string) error {
	dir = filepath.Clean(dir)
	until = filepath.Clean(until)
	for dir != until && len(dir) > len(until) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		if len(entries) > 0 {
			return nil
		}
		if err := os.Remove(dir); err != nil {
			return err
		}
		dir = filepath.Dir(dir)
	}
	return nil
}

func copyDir(src, dest string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)
		info, err := d.Info()
		if err != nil {
			return err
		}
		if d.IsDir() {
			return os.MkdirAll(target, info.Mode().Perm()|0700)
		}
		return copyFile(path, target, info.Mode().Perm())
	})
}

func copyFile(src, dest string, perm fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
