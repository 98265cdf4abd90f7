package devices

import (
	"errors"
	"fmt"

	"github.com/siteprov/siteprov/internal/config"
	"github.com/siteprov/siteprov/internal/inventory"
	"github.com/siteprov/siteprov/internal/provisioning"
)

const phase = "devices"

// Provisioner handles device group provisioning.
type Provisioner struct{}

// NewProvisioner creates a new devices provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phase
}

// Provision implements the provisioning.Phase interface. Groups are processed
// in declaration order.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	groups := ctx.Spec.Devices
	for i := range groups {
		ctx.Observer.Progress(phase, i, len(groups))
		if err := p.ProvisionGroup(ctx, i, groups[i]); err != nil {
			return fmt.Errorf("device group %d (%s): %w", i, groups[i].Model, err)
		}
	}
	ctx.Observer.Progress(phase, len(groups), len(groups))
	return nil
}

// ProvisionGroup provisions one device group. Errors returned stop the run;
// failures confined to a device or an address are recorded in the run state.
func (p *Provisioner) ProvisionGroup(ctx *provisioning.Context, index int, group config.DeviceGroup) error {
	// 1. Device type and interface templates
	deviceTypeID, err := p.EnsureDeviceType(ctx, group)
	if err != nil {
		return err
	}

	// 2. Role
	roleID, err := p.EnsureRole(ctx, group)
	if err != nil {
		return err
	}

	// 3. Names
	names, err := provisioning.AllocateDeviceNames(ctx, ctx.Repo, ctx.Spec.SiteName, group.NameSuffix, group.Count)
	if err != nil {
		return err
	}

	// 4. Devices and their addresses
	for n, name := range names {
		result := provisioning.DeviceResult{Group: index, Name: name}

		id, err := inventory.CreateOnly(ctx, ctx.Repo, inventory.Device{
			Name:       name,
			DeviceType: deviceTypeID,
			Role:       roleID,
			Site:       ctx.State.SiteID,
		})
		if err != nil {
			provisioning.LogResourceFailed(ctx.Observer, phase, inventory.KindDevice.String(), name, err)
			if !errors.Is(err, inventory.ErrEntityCreationFailed) {
				return err
			}
			result.Err = err
			ctx.State.Fail(inventory.KindDevice, fmt.Errorf("device %s: %w", name, err))
			ctx.State.AddDevice(result)
			continue
		}
		result.ID = id
		ctx.State.Record(inventory.KindDevice, inventory.OutcomeCreated)
		provisioning.LogResource(ctx.Observer, provisioning.EventResourceCreated, phase, inventory.KindDevice.String(), name, id)

		if group.HasSubnet() {
			err := p.AssignAddresses(ctx, group, &result)
			if errors.Is(err, provisioning.ErrInsufficientAddresses) {
				result.Err = err
				ctx.State.Fail(inventory.KindIPAddress, fmt.Errorf("device %s: %w", name, err))
				ctx.State.AddDevice(result)
				if skipped := len(names) - n - 1; skipped > 0 {
					ctx.Observer.Event(provisioning.Event{
						Type:    provisioning.EventResourceFailed,
						Phase:   phase,
						Message: fmt.Sprintf("skipping %d remaining devices of group", skipped),
						Fields:  map[string]string{"subnet": group.Subnet},
						Err:     err,
					})
				}
				return nil
			}
			if err != nil {
				result.Err = err
				ctx.State.AddDevice(result)
				return err
			}
		}
		ctx.State.AddDevice(result)
	}
	return nil
}
