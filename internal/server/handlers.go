package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/stuttgart-things/delete-repo/internal/action"
	"github.com/stuttgart-things/delete-repo/internal/gerrit"
	"github.com/stuttgart-things/delete-repo/internal/gitops"
	"github.com/stuttgart-things/delete-repo/internal/storage"
)

const jsonContentType = "application/json; charset=UTF-8"

// writeJSON writes v with the XSSI prefix line Gerrit clients strip
func writeJSON(c *gin.Context, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to encode response")
		return
	}
	body := append([]byte(gerrit.XSSIPrefix+"\n"), data...)
	c.Data(status, jsonContentType, append(body, '\n'))
}

// writeError writes a plain text error body the way Gerrit does
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	var pre *PreconditionError
	switch {
	case errors.Is(err, ErrForbidden):
		c.String(http.StatusForbidden, err.Error())
	case errors.Is(err, gitops.ErrInvalidName):
		c.String(http.StatusBadRequest, err.Error())
	case errors.Is(err, gitops.ErrNotFound):
		c.String(http.StatusNotFound, "Not found: "+c.Param("name"))
	case errors.As(err, &pre):
		c.String(http.StatusConflict, pre.Message)
	default:
		c.String(http.StatusInternalServerError, "Internal server error")
	}
}

func (s *Server) listProjects(c *gin.Context) {
	names, err := storage.ListRepositories(s.Config.BasePath)
	if err != nil {
		writeError(c, fmt.Errorf("listing repositories: %w", err))
		return
	}

	projects := make(map[string]gerrit.ProjectInfo, len(names))
	for _, name := range names {
		projects[name] = gerrit.ProjectInfo{
			ID:    url.PathEscape(name),
			State: "ACTIVE",
		}
	}
	writeJSON(c, http.StatusOK, projects)
}

func (s *Server) createProject(c *gin.Context) {
	name := c.Param("name")
	if err := gitops.ValidateName(name); err != nil {
		writeError(c, err)
		return
	}
	if err := s.Preconditions.AssertDeletePermission(callerUser(c)); err != nil {
		writeError(c, err)
		return
	}

	if _, err := gitops.Init(s.Config.BasePath, name); err != nil {
		if _, openErr := gitops.Open(s.Config.BasePath, name); openErr == nil {
			c.String(http.StatusConflict, fmt.Sprintf("Project already exists: %s", name))
			return
		}
		writeError(c, err)
		return
	}
	s.Logger.Info("created project", "project", name)
	writeJSON(c, http.StatusCreated, gerrit.ProjectInfo{
		ID:    url.PathEscape(name),
		Name:  name,
		State: "ACTIVE",
	})
}

// projectConfig returns the actions of a project. The delete action is only
// listed for callers allowed to delete and is disabled on protected projects.
func (s *Server) projectConfig(c *gin.Context) {
	name := c.Param("name")
	if _, err := gitops.Open(s.Config.BasePath, name); err != nil {
		writeError(c, err)
		return
	}

	cfg := action.Config{Actions: map[string]action.Descriptor{}}
	if s.Preconditions.AssertDeletePermission(callerUser(c)) == nil {
		d := action.Descriptor{
			Method:  http.MethodPost,
			Label:   "Delete...",
			Title:   fmt.Sprintf("Delete project %s", name),
			Enabled: true,
		}
		if s.Config.IsProtected(name) {
			d.Title = fmt.Sprintf("No deletion of %s project", name)
			d.Enabled = false
		}
		cfg.Set(action.DeleteID(s.Config.PluginName), d)
	}
	writeJSON(c, http.StatusOK, cfg)
}

func (s *Server) deleteProject(c *gin.Context) {
	name := c.Param("name")
	if err := gitops.ValidateName(name); err != nil {
		writeError(c, err)
		return
	}
	if c.Param("action") != action.DeleteID(s.Config.PluginName) {
		c.String(http.StatusNotFound, "Not found: "+c.Param("action"))
		return
	}

	var in DeleteInput
	if c.Request.Body != nil {
		if err := json.NewDecoder(c.Request.Body).Decode(&in); err != nil && !errors.Is(err, io.EOF) {
			c.String(http.StatusBadRequest, fmt.Sprintf("Invalid input: %v", err))
			return
		}
	}

	user := callerUser(c)
	err := s.delete(user, name, in)
	if s.DeleteLog != nil {
		s.DeleteLog.OnDelete(user, name, in, err)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) delete(user, name string, in DeleteInput) error {
	if err := s.Preconditions.AssertDeletePermission(user); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	repo, err := gitops.Open(s.Config.BasePath, name)
	if err != nil {
		return err
	}
	if err := s.Preconditions.AssertCanBeDeleted(repo, in); err != nil {
		return err
	}
	if err := s.Remover.Remove(name, in.Preserve); err != nil {
		return fmt.Errorf("removing %s: %w", name, err)
	}

	s.Logger.Info("deleted project", "project", name, "user", user, "force", in.Force, "preserve", in.Preserve)
	return nil
}
