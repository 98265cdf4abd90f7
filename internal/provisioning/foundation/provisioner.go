package foundation

import (
	"fmt"

	"github.com/siteprov/siteprov/internal/inventory"
	"github.com/siteprov/siteprov/internal/provisioning"
	"github.com/siteprov/siteprov/internal/util/naming"
)

const phase = "foundation"

// Provisioner handles site-level provisioning (site, manufacturer, prefix).
type Provisioner struct{}

// NewProvisioner creates a new foundation provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phase
}

// Provision implements the provisioning.Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	// 1. Site
	if err := p.ProvisionSite(ctx); err != nil {
		return err
	}

	// 2. Manufacturer
	if err := p.ProvisionManufacturer(ctx); err != nil {
		return err
	}

	// 3. Prefix
	return p.ProvisionPrefix(ctx)
}

// ProvisionSite ensures the site exists and stores its ID in the run state.
func (p *Provisioner) ProvisionSite(ctx *provisioning.Context) error {
	name := ctx.Spec.SiteName
	id, err := provisioning.EnsureResource(ctx, phase, name, inventory.Site{
		Name: name,
		Slug: naming.Slug(name),
	})
	if err != nil {
		return fmt.Errorf("failed to ensure site %q: %w", name, err)
	}
	ctx.State.SiteID = id
	return nil
}

// ProvisionManufacturer ensures the manufacturer exists.
func (p *Provisioner) ProvisionManufacturer(ctx *provisioning.Context) error {
	name := ctx.Spec.ManufacturerName
	id, err := provisioning.EnsureResource(ctx, phase, name, inventory.Manufacturer{
		Name: name,
		Slug: naming.Slug(name),
	})
	if err != nil {
		return fmt.Errorf("failed to ensure manufacturer %q: %w", name, err)
	}
	ctx.State.ManufacturerID = id
	return nil
}

// ProvisionPrefix ensures the site's prefix is registered as active.
func (p *Provisioner) ProvisionPrefix(ctx *provisioning.Context) error {
	prefix := ctx.Spec.Prefix
	id, err := provisioning.EnsureResource(ctx, phase, prefix, inventory.Prefix{
		Prefix: prefix,
		Status: inventory.StatusActive,
	})
	if err != nil {
		return fmt.Errorf("failed to ensure prefix %s: %w", prefix, err)
	}
	ctx.State.PrefixID = id
	return nil
}
