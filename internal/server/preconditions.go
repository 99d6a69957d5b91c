package server

import (
	"errors"
	"fmt"

	"github.com/stuttgart-things/delete-repo/internal/config"
	"github.com/stuttgart-things/delete-repo/internal/gitops"
)

// ErrForbidden is returned when the caller may not delete projects
var ErrForbidden = errors.New("not allowed to delete project")

// PreconditionError is a reason a project cannot be deleted right now
type PreconditionError struct {
	Message string
	Err     error
}

func (e *PreconditionError) Error() string { return e.Message }

func (e *PreconditionError) Unwrap() error { return e.Err }

// DeleteInput is the body of a delete request
type DeleteInput struct {
	Force    bool `json:"force"`
	Preserve bool `json:"preserve"`
}

// Preconditions checks whether a project may be deleted
type Preconditions struct {
	Config *config.Config
}

// AssertDeletePermission fails with ErrForbidden unless user may delete
func (p *Preconditions) AssertDeletePermission(user string) error {
	if !p.Config.IsAdmin(user) {
		return ErrForbidden
	}
	return nil
}

// AssertCanBeDeleted runs the project checks in order: protected, tags,
// open changes
func (p *Preconditions) AssertCanBeDeleted(repo *gitops.Repository, in DeleteInput) error {
	if p.Config.IsProtected(repo.Name) {
		return &PreconditionError{Message: "Cannot delete protected project"}
	}

	if !in.Preserve && !p.Config.AllowDeletionOfReposWithTags {
		hasTags, err := repo.HasTags()
		if err != nil {
			return &PreconditionError{
				Message: fmt.Sprintf("Unable to verify if project %s has tags", repo.Name),
				Err:     err,
			}
		}
		if hasTags {
			return &PreconditionError{Message: fmt.Sprintf("Project %s has tags", repo.Name)}
		}
	}

	if !in.Force {
		open, err := repo.OpenChanges()
		if err != nil {
			return &PreconditionError{
				Message: fmt.Sprintf("Unable to verify if '%s' has open changes.", repo.Name),
				Err:     err,
			}
		}
		if len(open) > 0 {
			return &PreconditionError{Message: fmt.Sprintf("Project '%s' has open changes.", repo.Name)}
		}
	}

	return nil
}
