package storage

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

var trashPatterns = []*regexp.Regexp{
	// f.<13 digit millis>.deleted
	regexp.MustCompile(`^.+\.\d{13}\.deleted$`),
	// f.<13 digit millis>.%deleted%.git
	regexp.MustCompile(`^.+\.\d{13}\.%deleted%\.git$`),
	// f.<yyyyMMddHHmmss>.%deleted%.git
	regexp.MustCompile(`^.+\.\d{14}\.%deleted%\.git$`),
}

// IsTrashFolderName reports whether a directory name marks a repository
// that was moved aside for deletion
func IsTrashFolderName(name string) bool {
	for _, p := range trashPatterns {
		if p.MatchString(name) {
			return true
		}
	}
	return false
}

// SweepTrash removes every trash folder below basePath and returns the
// removed paths. Failures on single folders are logged and skipped.
func SweepTrash(basePath string, logger *log.Logger) ([]string, error) {
	if logger == nil {
		logger = log.Default()
	}

	var removed []string
	err := filepath.WalkDir(basePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("failed to evaluate", "path", path, "err", err)
			return nil
		}
		if !d.IsDir() || path == basePath {
			return nil
		}
		if IsTrashFolderName(d.Name()) {
			if err := os.RemoveAll(path); err != nil {
				logger.Error("failed to delete", "path", path, "err", err)
			} else {
				removed = append(removed, path)
			}
			return filepath.SkipDir
		}
		if strings.HasSuffix(d.Name(), ".git") {
			return filepath.SkipDir
		}
		return nil
	})
	return removed, err
}

// PruneArchive removes top-level entries of the archive folder whose last
// modification is older than maxAge
func PruneArchive(folder string, maxAge time.Duration, now time.Time, logger *log.Logger) ([]string, error) {
	if logger == nil {
		logger = log.Default()
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var removed []string
	for _, e := range entries {
		path := filepath.Join(folder, e.Name())
		info, err := e.Info()
		if err != nil {
			logger.Warn("error trying to get last modified time", "path", path, "err", err)
			continue
		}
		if !now.After(info.ModTime().Add(maxAge)) {
			continue
		}
		if err := os.RemoveAll(path); err != nil {
			logger.Error("failed to delete", "path", path, "err", err)
			continue
		}
		removed = append(removed, path)
	}
	return removed, nil
}

// ListRepositories returns the names of all live repositories below basePath
func ListRepositories(basePath string) ([]string, error) {
	var names []string
	err := filepath.WalkDir(basePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() || path == basePath {
			return nil
		}
		if IsTrashFolderName(d.Name()) || strings.Contains(d.Name(), ".%archived%") {
			return filepath.SkipDir
		}
		if !strings.HasSuffix(d.Name(), ".git") {
			return nil
		}
		rel, err := filepath.Rel(basePath, path)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(strings.TrimSuffix(rel, ".git")))
		return filepath.SkipDir
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}
