package orchestration

import (
	"context"
	"errors"

	"github.com/siteprov/siteprov/internal/config"
	"github.com/siteprov/siteprov/internal/inventory"
	"github.com/siteprov/siteprov/internal/provisioning"
	"github.com/siteprov/siteprov/internal/provisioning/devices"
	"github.com/siteprov/siteprov/internal/provisioning/foundation"
)

// Reconciler orchestrates the site provisioning workflow.
type Reconciler struct {
	repo     inventory.Repository
	spec     *config.SiteSpec
	observer provisioning.Observer
	runID    string

	// Phases
	foundationProvisioner *foundation.Provisioner
	devicesProvisioner    *devices.Provisioner
}

// NewReconciler creates a new orchestration reconciler. A nil observer
// discards events.
func NewReconciler(repo inventory.Repository, spec *config.SiteSpec, observer provisioning.Observer) *Reconciler {
	return &Reconciler{
		repo:                  repo,
		spec:                  spec,
		observer:              observer,
		foundationProvisioner: foundation.NewProvisioner(),
		devicesProvisioner:    devices.NewProvisioner(),
	}
}

// WithRunID tags all events of the run with id.
func (r *Reconciler) WithRunID(id string) *Reconciler {
	r.runID = id
	return r
}

// Phases returns the provisioning phases in execution order.
func (r *Reconciler) Phases() []provisioning.Phase {
	return []provisioning.Phase{
		r.foundationProvisioner,
		r.devicesProvisioner,
	}
}

// Reconcile provisions the site. The returned state is never nil and describes
// what was provisioned even when an error is returned. The error joins the
// failure that stopped the run, if any, with every failure the run survived.
func (r *Reconciler) Reconcile(ctx context.Context) (*provisioning.State, error) {
	pCtx := provisioning.NewContext(ctx, r.repo, r.spec, r.observer)
	if r.runID != "" {
		pCtx.WithRunID(r.runID)
	}

	err := provisioning.RunPhases(pCtx, r.Phases())
	return pCtx.State, errors.Join(err, pCtx.State.Err())
}
