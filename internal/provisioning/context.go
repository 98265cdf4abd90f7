package provisioning

import (
	"context"

	"github.com/go-logr/logr"

	"github.com/siteprov/siteprov/internal/config"
	"github.com/siteprov/siteprov/internal/inventory"
)

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Repo     inventory.Repository
	Spec     *config.SiteSpec
	State    *State
	Observer Observer
	RunID    string
}

// NewContext creates a new provisioning context. A nil observer discards events.
func NewContext(ctx context.Context, repo inventory.Repository, spec *config.SiteSpec, observer Observer) *Context {
	if observer == nil {
		observer = NewLogObserver(logr.Discard())
	}
	return &Context{
		Context:  ctx,
		Repo:     repo,
		Spec:     spec,
		State:    NewState(),
		Observer: observer,
	}
}

// WithRunID tags every event of the run with id.
func (c *Context) WithRunID(id string) *Context {
	c.RunID = id
	c.Observer = c.Observer.WithFields(map[string]string{"run": id})
	return c
}
