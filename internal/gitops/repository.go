package gitops

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// ChangesPrefix is the ref namespace Gerrit stores change patch sets under
const ChangesPrefix = "refs/changes/"

// ErrNotFound is returned when no repository exists for a project
var ErrNotFound = errors.New("repository not found")

// ErrInvalidName is returned for project names that do not map to a
// directory below the base path
var ErrInvalidName = errors.New("invalid project name")

// Repository is a bare project repository below a base path
type Repository struct {
	Name string
	Path string
	repo *git.Repository
}

// RepositoryPath returns where the repository of project name lives
func RepositoryPath(basePath, name string) string {
	return filepath.Join(basePath, filepath.FromSlash(name)+".git")
}

// ValidateName rejects names that are empty, absolute, contain "." or ".."
// segments, backslashes or NUL, or end in ".git"
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty", ErrInvalidName)
	case strings.HasPrefix(name, "/"), filepath.IsAbs(name):
		return fmt.Errorf("%w: %q is absolute", ErrInvalidName, name)
	case strings.ContainsAny(name, "\\\x00"):
		return fmt.Errorf("%w: %q contains a backslash or NUL", ErrInvalidName, name)
	case strings.HasSuffix(name, ".git"):
		return fmt.Errorf("%w: %q ends in .git", ErrInvalidName, name)
	}
	for _, segment := range strings.Split(name, "/") {
		if segment == "" || segment == "." || segment == ".." {
			return fmt.Errorf("%w: %q has an empty, . or .. segment", ErrInvalidName, name)
		}
	}
	return nil
}

// ResolvePath validates name and returns its repository path, which is
// guaranteed to lie below basePath
func ResolvePath(basePath, name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	path := RepositoryPath(basePath, name)
	rel, err := filepath.Rel(basePath, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q leaves the base path", ErrInvalidName, name)
	}
	return path, nil
}

// Open opens the repository of project name
func Open(basePath, name string) (*Repository, error) {
	path, err := ResolvePath(basePath, name)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}

	repo, err := git.PlainOpen(path)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("opening repository: %w", err)
	}

	return &Repository{Name: name, Path: path, repo: repo}, nil
}

// Init creates a bare repository for project name with an empty initial
// commit on refs/heads/master
func Init(basePath, name string) (*Repository, error) {
	path, err := ResolvePath(basePath, name)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("repository %s already exists", name)
	}

	repo, err := git.PlainInit(path, true)
	if err != nil {
		return nil, fmt.Errorf("initializing repository: %w", err)
	}

	r := &Repository{Name: name, Path: path, repo: repo}
	hash, err := r.emptyCommit("Initial empty repository")
	if err != nil {
		return nil, err
	}
	head := plumbing.NewHashReference(plumbing.Master, hash)
	if err := repo.Storer.SetReference(head); err != nil {
		return nil, fmt.Errorf("creating master: %w", err)
	}

	return r, nil
}

func (r *Repository) emptyCommit(message string) (plumbing.Hash, error) {
	tree := &object.Tree{}
	treeObj := r.repo.Storer.NewEncodedObject()
	if err := tree.Encode(treeObj); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("encoding tree: %w", err)
	}
	treeHash, err := r.repo.Storer.SetEncodedObject(treeObj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("storing tree: %w", err)
	}

	sig := object.Signature{
		Name:  "delete-repo",
		Email: "delete-repo@automated",
		When:  time.Now(),
	}
	commit := &object.Commit{
		Author:    sig,
		Committer: sig,
		Message:   message,
		TreeHash:  treeHash,
	}
	commitObj := r.repo.Storer.NewEncodedObject()
	if err := commit.Encode(commitObj); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("encoding commit: %w", err)
	}
	hash, err := r.repo.Storer.SetEncodedObject(commitObj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("storing commit: %w", err)
	}
	return hash, nil
}

func (r *Repository) head() (plumbing.Hash, error) {
	ref, err := r.repo.Reference(plumbing.Master, true)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolving master: %w", err)
	}
	return ref.Hash(), nil
}

// HasTags reports whether any ref exists under refs/tags
func (r *Repository) HasTags() (bool, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return false, fmt.Errorf("listing tags: %w", err)
	}
	defer iter.Close()

	found := false
	err = iter.ForEach(func(*plumbing.Reference) error {
		found = true
		return storer.ErrStop
	})
	if err != nil {
		return false, fmt.Errorf("listing tags: %w", err)
	}
	return found, nil
}

// Tag creates a lightweight tag on master
func (r *Repository) Tag(name string) error {
	hash, err := r.head()
	if err != nil {
		return err
	}
	if _, err := r.repo.CreateTag(name, hash, nil); err != nil {
		return fmt.Errorf("creating tag %s: %w", name, err)
	}
	return nil
}

// OpenChanges returns the numbers of changes that have patch set refs and
// no closed marker, in ascending order
func (r *Repository) OpenChanges() ([]int, error) {
	refs, err := r.repo.References()
	if err != nil {
		return nil, fmt.Errorf("listing references: %w", err)
	}
	defer refs.Close()

	changes := map[int]bool{}
	closed := map[int]bool{}
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().String()
		if !strings.HasPrefix(name, ChangesPrefix) {
			return nil
		}
		// refs/changes/<shard>/<number>/<patchset|meta|closed>
		parts := strings.Split(strings.TrimPrefix(name, ChangesPrefix), "/")
		if len(parts) != 3 {
			return nil
		}
		number, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil
		}
		changes[number] = true
		if parts[2] == "closed" {
			closed[number] = true
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing references: %w", err)
	}

	var open []int
	for number := range changes {
		if !closed[number] {
			open = append(open, number)
		}
	}
	slices.Sort(open)
	return open, nil
}

// AddChange creates the ref of patch set 1 of a change on master.
// A closed change additionally gets a refs/changes/.../closed marker.
func (r *Repository) AddChange(number int, closed bool) error {
	hash, err := r.head()
	if err != nil {
		return err
	}
	refs := []string{changeRef(number, "1")}
	if closed {
		refs = append(refs, changeRef(number, "closed"))
	}
	for _, name := range refs {
		ref := plumbing.NewHashReference(plumbing.ReferenceName(name), hash)
		if err := r.repo.Storer.SetReference(ref); err != nil {
			return fmt.Errorf("creating %s: %w", name, err)
		}
	}
	return nil
}

func changeRef(number int, suffix string) string {
	return fmt.Sprintf("%s%02d/%d/%s", ChangesPrefix, number%100, number, suffix)
}
